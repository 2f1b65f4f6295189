package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mExOms/pathfinder/internal/config"
	"github.com/mExOms/pathfinder/internal/decimal"
	"github.com/mExOms/pathfinder/internal/graph"
	"github.com/mExOms/pathfinder/internal/publish"
	"github.com/mExOms/pathfinder/internal/result"
	"github.com/mExOms/pathfinder/internal/search"
	"github.com/mExOms/pathfinder/internal/telemetry"
	"github.com/mExOms/pathfinder/pkg/xchange"
)

// bookEntry is the JSON order-book fixture shape this example CLI reads
// from stdin: one entry per order. A production deployment would source
// this from internal/ingest/binance (or another exchange connector)
// instead; stdin keeps this example free of network dependencies.
type bookEntry struct {
	Side    string `json:"side"`
	Base    string `json:"base"`
	Quote   string `json:"quote"`
	Rate    string `json:"rate"`
	MinBase string `json:"min_base"`
	MaxBase string `json:"max_base"`
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	log := logger.WithField("component", "pathfinder-cli")

	start := flag.String("from", "", "start currency")
	target := flag.String("to", "", "target currency")
	spend := flag.String("spend", "", "amount of start currency to spend")
	natsURL := flag.String("nats-url", "", "NATS URL to publish the outcome to (optional)")
	flag.Parse()

	if *start == "" || *target == "" || *spend == "" {
		log.Fatal("flags -from, -to and -spend are all required")
	}

	defaults, err := config.Load("./configs", "/configs")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var entries []bookEntry
	if err := json.NewDecoder(os.Stdin).Decode(&entries); err != nil {
		log.Fatalf("failed to decode order book from stdin: %v", err)
	}
	orders, err := ordersFromEntries(entries)
	if err != nil {
		log.Fatalf("failed to build orders: %v", err)
	}

	g, err := graph.NewGraphBuilder().Build(orders)
	if err != nil {
		log.Fatalf("failed to build graph: %v", err)
	}

	req, err := defaults.Apply(search.NewPathSearchConfig(*start, *target).SpendAmount(*spend)).Build()
	if err != nil {
		log.Fatalf("invalid search request: %v", err)
	}

	engine := search.NewEngine().WithLogger(log)
	outcome, err := engine.Search(g, req)
	if err != nil {
		log.Fatalf("search failed: %v", err)
	}
	telemetry.Observe(outcome.Guards)

	requestID := uuid.NewString()
	built, err := result.BuildOutcome(g, req, outcome)
	if err != nil {
		log.Fatalf("failed to materialize outcome: %v", err)
	}

	out, err := json.MarshalIndent(built, "", "  ")
	if err != nil {
		log.Fatalf("failed to render outcome: %v", err)
	}
	fmt.Println(string(out))

	if *natsURL != "" {
		publishOutcome(log, *natsURL, requestID, built)
	}
}

func ordersFromEntries(entries []bookEntry) ([]xchange.Order, error) {
	orders := make([]xchange.Order, 0, len(entries))
	for _, e := range entries {
		var side xchange.Side
		switch e.Side {
		case "sell":
			side = xchange.Sell
		case "buy":
			side = xchange.Buy
		default:
			return nil, fmt.Errorf("unknown order side %q", e.Side)
		}
		pair, err := xchange.NewAssetPair(e.Base, e.Quote, e.Base == e.Quote)
		if err != nil {
			return nil, err
		}
		rate, err := newRate(pair, e.Rate)
		if err != nil {
			return nil, err
		}
		min, max, err := newBounds(e.Base, e.MinBase, e.MaxBase)
		if err != nil {
			return nil, err
		}
		bounds, err := xchange.NewOrderBounds(min, max)
		if err != nil {
			return nil, err
		}
		order, err := xchange.NewOrder(side, pair, bounds, rate, nil)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func newRate(pair xchange.AssetPair, rate string) (xchange.ExchangeRate, error) {
	d, err := decimal.Parse(rate)
	if err != nil {
		return xchange.ExchangeRate{}, err
	}
	return xchange.NewExchangeRate(pair, d, decimal.WorkingScale)
}

func newBounds(base, min, max string) (xchange.Money, xchange.Money, error) {
	minD, err := decimal.Parse(min)
	if err != nil {
		return xchange.Money{}, xchange.Money{}, err
	}
	maxD, err := decimal.Parse(max)
	if err != nil {
		return xchange.Money{}, xchange.Money{}, err
	}
	minMoney, err := xchange.NewMoney(base, minD, decimal.WorkingScale)
	if err != nil {
		return xchange.Money{}, xchange.Money{}, err
	}
	maxMoney, err := xchange.NewMoney(base, maxD, decimal.WorkingScale)
	if err != nil {
		return xchange.Money{}, xchange.Money{}, err
	}
	return minMoney, maxMoney, nil
}

func publishOutcome(log *logrus.Entry, natsURL, requestID string, out result.Outcome) {
	client, err := publish.NewClient(&publish.Config{
		URL:      natsURL,
		ClientID: "pathfinder-cli",
		Streams: []publish.StreamConfig{
			{Name: publish.StreamOutcomes, Subjects: publish.GetStreamSubjects(publish.StreamOutcomes), MaxAge: 24 * time.Hour},
		},
	})
	if err != nil {
		log.Errorf("failed to connect to NATS: %v", err)
		return
	}
	defer client.Close()

	if err := client.PublishOutcome(requestID, out); err != nil {
		log.Errorf("failed to publish outcome: %v", err)
	}
}
