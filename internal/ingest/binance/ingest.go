// Package binance adapts a live Binance order-book snapshot into the
// []xchange.Order slice the graph builder consumes, the order-book
// ingestion collaborator spec.md places outside the core (§1: "specified
// only by the contracts the core consumes"). It is grounded on the
// reference spot connector's depth handling
// (services/binance/spot/ws_handler.go's SubscribeOrderBook), rebuilt
// here as a one-shot REST snapshot instead of a streaming subscription
// since the core only needs a point-in-time book to build a Graph from.
package binance

import (
	"context"
	"fmt"
	"time"

	"github.com/adshao/go-binance/v2"

	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/errs"
	"github.com/mExOms/pathfinder/pkg/cache"
	"github.com/mExOms/pathfinder/pkg/xchange"
)

// depthCacheTTL bounds how long a fetched depth snapshot is reused across
// FetchOrders calls for the same symbol, mirroring the reference spot
// connector's bs.cache.Set("orderbook:%s", ...) pattern.
const depthCacheTTL = 2 * time.Second

// depthRateLimit caps outgoing depth requests per symbol per second,
// mirroring the reference connector's use of a RateLimiter in front of
// its REST calls.
const depthRateLimit = 5

// Snapshotter fetches a depth snapshot, implemented by *binance.Client.
type Snapshotter interface {
	NewDepthService() *binance.DepthService
}

// FeeSchedule computes the FeePolicy orders built from symbol should
// carry; a nil schedule is treated as NoFeePolicy for every symbol.
type FeeSchedule func(base, quote string) xchange.FeePolicy

// BookSpec names one order-book symbol to ingest and the asset pair it
// quotes.
type BookSpec struct {
	Symbol string
	Base   string
	Quote  string
}

// Fetcher pulls order-book snapshots from Binance, rate-limiting and
// caching them the way the reference spot connector fronts its REST
// calls with a RateLimiter and keeps recent books in a MemoryCache.
type Fetcher struct {
	client  Snapshotter
	limiter *cache.RateLimiter
	books   *cache.MemoryCache
}

// NewFetcher builds a Fetcher with a request-per-symbol rate limit and a
// short-lived depth cache.
func NewFetcher(client Snapshotter) *Fetcher {
	return &Fetcher{
		client:  client,
		limiter: cache.NewRateLimiter(depthRateLimit, time.Second),
		books:   cache.NewMemoryCache(),
	}
}

// FetchOrders pulls a depth snapshot for each spec and converts every
// price level on both sides into an xchange.Order: an ask becomes a Sell
// order of Base for Quote at that level's price, a bid becomes a Buy
// order (Quote spent, Base received) at its price. Levels with zero
// quantity are skipped; a price or quantity string Binance cannot be
// trusted to format as a plain decimal literal fails the whole call.
//
// A symbol's snapshot is reused for depthCacheTTL once fetched. A symbol
// over its rate limit with no unexpired cached snapshot fails the whole
// call; no older snapshot is kept to fall back on.
func (f *Fetcher) FetchOrders(ctx context.Context, specs []BookSpec, fees FeeSchedule) ([]xchange.Order, error) {
	if fees == nil {
		fees = func(string, string) xchange.FeePolicy { return xchange.NoFeePolicy{} }
	}

	var orders []xchange.Order
	for _, spec := range specs {
		depth, err := f.depthFor(ctx, spec)
		if err != nil {
			return nil, err
		}

		pair, err := xchange.NewAssetPair(spec.Base, spec.Quote, false)
		if err != nil {
			return nil, err
		}

		for _, ask := range depth.Asks {
			order, ok, err := levelToOrder(xchange.Sell, pair, ask.Price, ask.Quantity, fees(spec.Base, spec.Quote))
			if err != nil {
				return nil, fmt.Errorf("%s ask level: %w", spec.Symbol, err)
			}
			if ok {
				orders = append(orders, order)
			}
		}
		for _, bid := range depth.Bids {
			order, ok, err := levelToOrder(xchange.Buy, pair, bid.Price, bid.Quantity, fees(spec.Base, spec.Quote))
			if err != nil {
				return nil, fmt.Errorf("%s bid level: %w", spec.Symbol, err)
			}
			if ok {
				orders = append(orders, order)
			}
		}
	}
	return orders, nil
}

// depthFor returns a depth snapshot for spec, serving the cached copy
// while it is within depthCacheTTL. Once that has expired, a symbol over
// its rate limit gets an ErrInvalidInput error rather than a stale copy.
func (f *Fetcher) depthFor(ctx context.Context, spec BookSpec) (*binance.DepthResponse, error) {
	if cached, ok := f.books.Get(spec.Symbol); ok {
		return cached.(*binance.DepthResponse), nil
	}

	if !f.limiter.Allow(spec.Symbol) {
		return nil, fmt.Errorf("%w: rate limit exceeded for %s depth snapshot", errs.ErrInvalidInput, spec.Symbol)
	}

	depth, err := f.client.NewDepthService().Symbol(spec.Symbol).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching depth for %s: %v", errs.ErrInvalidInput, spec.Symbol, err)
	}
	f.books.Set(spec.Symbol, depth, depthCacheTTL)
	return depth, nil
}

// levelToOrder converts one price/quantity order-book level into an
// Order of the given side. ok is false (with a nil error) for a
// zero-quantity level, which carries no executable capacity.
func levelToOrder(side xchange.Side, pair xchange.AssetPair, priceStr, qtyStr string, policy xchange.FeePolicy) (xchange.Order, bool, error) {
	price, err := decimal.Parse(priceStr)
	if err != nil {
		return xchange.Order{}, false, err
	}
	qty, err := decimal.Parse(qtyStr)
	if err != nil {
		return xchange.Order{}, false, err
	}
	if qty.IsZero() {
		return xchange.Order{}, false, nil
	}

	rate, err := xchange.NewExchangeRate(pair, price, decimal.WorkingScale)
	if err != nil {
		return xchange.Order{}, false, err
	}

	zero, err := xchange.NewMoney(pair.Base, decimal.Zero(), decimal.WorkingScale)
	if err != nil {
		return xchange.Order{}, false, err
	}
	max, err := xchange.NewMoney(pair.Base, qty, decimal.WorkingScale)
	if err != nil {
		return xchange.Order{}, false, err
	}
	bounds, err := xchange.NewOrderBounds(zero, max)
	if err != nil {
		return xchange.Order{}, false, err
	}

	order, err := xchange.NewOrder(side, pair, bounds, rate, policy)
	if err != nil {
		return xchange.Order{}, false, err
	}
	return order, true, nil
}
