package config

import (
	"testing"

	"github.com/mExOms/pathfinder/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FallsBackToDefaultsWhenNoConfigFilePresent(t *testing.T) {
	d, err := Load("/no/such/directory")
	require.NoError(t, err)
	assert.Equal(t, search.DefaultResultLimit, d.TopK)
	assert.Equal(t, search.DefaultMaxHops, d.MaxHops)
	assert.Equal(t, "0", d.ToleranceMin)
	assert.Equal(t, "0.02", d.ToleranceMax)
}

func TestDefaults_ApplySeedsPathSearchConfig(t *testing.T) {
	d, err := Load("/no/such/directory")
	require.NoError(t, err)

	cfg := d.Apply(search.NewPathSearchConfig("BTC", "USD").SpendAmount("1"))
	req, err := cfg.Build()
	require.NoError(t, err)
	assert.Equal(t, search.DefaultResultLimit, req.ResultLimit)
	assert.Equal(t, 1, req.MinHops)
	assert.Equal(t, search.DefaultMaxHops, req.MaxHops)
}
