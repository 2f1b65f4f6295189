package search

import (
	"fmt"
	"time"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/errs"
	"github.com/mExOms/pathfinder/internal/guard"
)

// DefaultResultLimit is the number of best-ranked paths a search keeps
// when the caller never calls ResultLimit.
const DefaultResultLimit = 10

// DefaultMaxHops bounds path length when the caller never calls HopLimits.
const DefaultMaxHops = 6

// PathSearchConfig is a fluent, validating builder for PathSearchRequest.
// Every setter validates eagerly and records the first error encountered;
// Build surfaces that error (or a missing-spend-amount error) instead of
// constructing a half-valid request.
type PathSearchConfig struct {
	startCurrency  string
	targetCurrency string
	spendAmount    decimal.Decimal
	spendSet       bool
	toleranceMin   decimal.Decimal
	toleranceMax   decimal.Decimal
	minHops        int
	maxHops        int
	resultLimit    int
	guards         guard.SearchGuards
	err            error
}

// NewPathSearchConfig starts a config for a search from startCurrency to
// targetCurrency.
func NewPathSearchConfig(startCurrency, targetCurrency string) *PathSearchConfig {
	return &PathSearchConfig{
		startCurrency:  startCurrency,
		targetCurrency: targetCurrency,
		maxHops:        DefaultMaxHops,
		resultLimit:    DefaultResultLimit,
	}
}

// SpendAmount sets the amount of StartCurrency the search starts from.
// amount must be a plain decimal literal string (no exponential notation)
// and strictly positive.
func (c *PathSearchConfig) SpendAmount(amount string) *PathSearchConfig {
	if c.err != nil {
		return c
	}
	d, err := decimal.Parse(amount)
	if err != nil {
		c.err = err
		return c
	}
	if !d.IsPositive() {
		c.err = fmt.Errorf("%w: spend amount must be positive, got %s", errs.ErrInvalidInput, amount)
		return c
	}
	c.spendAmount = d
	c.spendSet = true
	return c
}

// ToleranceBounds sets the acceptable band of yield degradation, relative
// to the best path found, that a result may fall within. Both bounds are
// plain decimal fraction literals (e.g. "0.02" for 2%); exponential
// notation is rejected by the same rule as every other decimal input.
func (c *PathSearchConfig) ToleranceBounds(min, max string) *PathSearchConfig {
	if c.err != nil {
		return c
	}
	minD, err := decimal.Parse(min)
	if err != nil {
		c.err = err
		return c
	}
	maxD, err := decimal.Parse(max)
	if err != nil {
		c.err = err
		return c
	}
	if minD.IsNegative() {
		c.err = fmt.Errorf("%w: tolerance min must be >= 0, got %s", errs.ErrInvalidInput, min)
		return c
	}
	if decimal.Compare(maxD, decimal.One()) >= 0 {
		c.err = fmt.Errorf("%w: tolerance max must be < 1, got %s", errs.ErrInvalidInput, max)
		return c
	}
	if decimal.Compare(minD, maxD) > 0 {
		c.err = fmt.Errorf("%w: tolerance min %s exceeds tolerance max %s", errs.ErrInvalidInput, min, max)
		return c
	}
	c.toleranceMin = minD
	c.toleranceMax = maxD
	return c
}

// HopLimits sets the inclusive [min, max] number of edges an accepted
// path may contain.
func (c *PathSearchConfig) HopLimits(min, max int) *PathSearchConfig {
	if c.err != nil {
		return c
	}
	if min < 1 || max < min {
		c.err = fmt.Errorf("%w: invalid hop limits [%d, %d], min must be >= 1", errs.ErrInvalidInput, min, max)
		return c
	}
	c.minHops = min
	c.maxHops = max
	return c
}

// SearchGuards bounds expansion count, visited-state count and wall-clock
// time for the search run. A zero value for any limit disables that
// particular guard.
func (c *PathSearchConfig) SearchGuards(maxExpansions, maxVisitedStates int, timeBudget time.Duration) *PathSearchConfig {
	if c.err != nil {
		return c
	}
	c.guards.MaxExpansions = maxExpansions
	c.guards.MaxVisitedStates = maxVisitedStates
	c.guards.TimeBudget = timeBudget
	return c
}

// GuardLimitException makes a guard breach escalate to an error instead of
// the default behavior of returning partial results plus a report.
func (c *PathSearchConfig) GuardLimitException() *PathSearchConfig {
	c.guards.RaiseOnLimit = true
	return c
}

// ResultLimit caps how many best-ranked paths the search keeps. Defaults
// to DefaultResultLimit.
func (c *PathSearchConfig) ResultLimit(k int) *PathSearchConfig {
	if c.err != nil {
		return c
	}
	if k <= 0 {
		c.err = fmt.Errorf("%w: result limit must be positive, got %d", errs.ErrInvalidInput, k)
		return c
	}
	c.resultLimit = k
	return c
}

// Build validates and returns the final PathSearchRequest.
func (c *PathSearchConfig) Build() (PathSearchRequest, error) {
	if c.err != nil {
		return PathSearchRequest{}, c.err
	}
	if !c.spendSet {
		return PathSearchRequest{}, fmt.Errorf("%w: spend amount not set", errs.ErrInvalidInput)
	}
	if c.startCurrency == "" || c.targetCurrency == "" {
		return PathSearchRequest{}, fmt.Errorf("%w: start and target currency are required", errs.ErrInvalidInput)
	}
	return PathSearchRequest{
		StartCurrency:  c.startCurrency,
		TargetCurrency: c.targetCurrency,
		SpendAmount:    c.spendAmount,
		ToleranceMin:   c.toleranceMin,
		ToleranceMax:   c.toleranceMax,
		MinHops:        c.minHops,
		MaxHops:        c.maxHops,
		ResultLimit:    c.resultLimit,
		Guards:         c.guards,
	}, nil
}
