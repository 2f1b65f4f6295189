package search

import (
	"testing"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignature_RoundTrip(t *testing.T) {
	r := &SpendRange{Currency: "USD", Min: decimal.MustParse("100"), Max: decimal.MustParse("200")}
	desired := decimal.MustParse("150")
	sig := ComposeSignature("EUR", r, &desired)
	parsed, err := SignatureFromString(sig.Value())
	require.NoError(t, err)
	assert.Equal(t, sig.Value(), parsed.Value())
}

func TestSignature_EncodesLabelsInOrder(t *testing.T) {
	r := &SpendRange{Currency: "USD", Min: decimal.MustParse("100"), Max: decimal.MustParse("200")}
	desired := decimal.MustParse("150")
	sig := ComposeSignature("EUR", r, &desired)
	assert.Regexp(t, `^node:EUR\|range:USD:.*\|desired:USD:.*$`, sig.Value())
}

func TestSignature_NullRangeAndDesired(t *testing.T) {
	sig := ComposeSignature("EUR", nil, nil)
	assert.Equal(t, "node:EUR|range:null|desired:null", sig.Value())
}

func TestSignature_DistinctRoutesProduceDistinctSignatures(t *testing.T) {
	ra := &SpendRange{Currency: "USD", Min: decimal.MustParse("10"), Max: decimal.MustParse("10")}
	rb := &SpendRange{Currency: "USD", Min: decimal.MustParse("20"), Max: decimal.MustParse("20")}
	desired := decimal.MustParse("10")
	a := ComposeSignature("USD", ra, &desired)
	b := ComposeSignature("USD", rb, &desired)
	assert.NotEqual(t, a.Value(), b.Value())
}

func TestSignatureFromString_RejectsMalformed(t *testing.T) {
	_, err := SignatureFromString("not-a-signature")
	require.Error(t, err)

	_, err = SignatureFromString("node:EUR||desired:null")
	require.Error(t, err)

	_, err = SignatureFromString("node:EUR|range:null|desired:")
	require.Error(t, err)

	_, err = SignatureFromString("|node:EUR|range:null|desired:null")
	require.Error(t, err)
}
