// Package config loads the default search parameters (the ones
// internal/search.PathSearchConfig leaves unset unless a caller overrides
// them) from an optional YAML file plus environment variables, the same
// viper setup the reference connectors use to load exchange endpoints and
// NATS URLs.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/mExOms/pathfinder/internal/guard"
	"github.com/mExOms/pathfinder/internal/search"
)

// Defaults holds the baseline search parameters a deployment configures
// once and every PathSearchConfig builds on top of.
type Defaults struct {
	TopK             int
	ToleranceMin     string
	ToleranceMax     string
	MaxHops          int
	MaxExpansions    int
	MaxVisitedStates int
	TimeBudget       time.Duration
}

// Load reads search.* keys from configPaths (searched in order, first hit
// wins) and PATHFINDER_-prefixed environment variables, falling back to
// search.DefaultResultLimit/DefaultMaxHops when a key is absent.
func Load(configPaths ...string) (Defaults, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range configPaths {
		v.AddConfigPath(path)
	}
	v.SetEnvPrefix("PATHFINDER")
	v.AutomaticEnv()

	v.SetDefault("search.top_k", search.DefaultResultLimit)
	v.SetDefault("search.tolerance_min", "0")
	v.SetDefault("search.tolerance_max", "0.02")
	v.SetDefault("search.max_hops", search.DefaultMaxHops)
	v.SetDefault("search.max_expansions", 0)
	v.SetDefault("search.max_visited_states", 0)
	v.SetDefault("search.time_budget_ms", 0)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Defaults{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return Defaults{
		TopK:             v.GetInt("search.top_k"),
		ToleranceMin:     v.GetString("search.tolerance_min"),
		ToleranceMax:     v.GetString("search.tolerance_max"),
		MaxHops:          v.GetInt("search.max_hops"),
		MaxExpansions:    v.GetInt("search.max_expansions"),
		MaxVisitedStates: v.GetInt("search.max_visited_states"),
		TimeBudget:       time.Duration(v.GetInt64("search.time_budget_ms")) * time.Millisecond,
	}, nil
}

// Apply seeds a PathSearchConfig with d's defaults. Callers still override
// spend amount, hop limits, or anything else per-request via the fluent
// builder; this only fixes the baseline.
func (d Defaults) Apply(cfg *search.PathSearchConfig) *search.PathSearchConfig {
	return cfg.
		ToleranceBounds(d.ToleranceMin, d.ToleranceMax).
		HopLimits(1, d.MaxHops).
		SearchGuards(d.MaxExpansions, d.MaxVisitedStates, d.TimeBudget).
		ResultLimit(d.TopK)
}

// Guards renders d's guard-related fields as a guard.SearchGuards value,
// for callers (such as the execution-plan engine) that build their own
// request without going through PathSearchConfig.
func (d Defaults) Guards() guard.SearchGuards {
	return guard.SearchGuards{
		MaxExpansions:    d.MaxExpansions,
		MaxVisitedStates: d.MaxVisitedStates,
		TimeBudget:       d.TimeBudget,
	}
}
