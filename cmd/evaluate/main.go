// Command evaluate runs the decision engine once over a market snapshot:
// it registers the configured evaluators, executes an aggregation for the
// snapshot token and prints the per-profile and aggregate decisions.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"solana-strategy-engine/internal/aggregator"
	"solana-strategy-engine/internal/config"
	"solana-strategy-engine/internal/domain"
	"solana-strategy-engine/internal/logger"
	"solana-strategy-engine/internal/observability"
	"solana-strategy-engine/internal/strategy"
)

// snapshotFile is the JSON layout of a market snapshot produced by the
// market-data collaborator.
type snapshotFile struct {
	Token struct {
		Address   string  `json:"address"`
		Symbol    string  `json:"symbol"`
		Name      string  `json:"name"`
		MarketCap float64 `json:"marketCap"`
		Price     float64 `json:"price"`
		Volume24h float64 `json:"volume24h"`
		TVL       float64 `json:"tvl"`
		Sentiment float64 `json:"sentiment"`
		Trending  bool    `json:"trending"`
	} `json:"token"`
	PriceHistory     []snapshotPoint `json:"priceHistory"`
	VolumeHistory    []snapshotPoint `json:"volumeHistory"`
	SentimentHistory []snapshotPoint `json:"sentimentHistory"`
}

type snapshotPoint struct {
	TimestampMs int64   `json:"timestampMs"`
	Value       float64 `json:"value"`
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to engine config")
	snapshotPath := flag.String("snapshot", "", "Path to market snapshot JSON (required)")
	metricsAddr := flag.String("metrics-addr", "", "Optional address to serve /metrics on after evaluation")
	outputJSON := flag.Bool("json", false, "Output the aggregate decision as JSON")
	flag.Parse()

	if *snapshotPath == "" {
		fmt.Fprintln(os.Stderr, "--snapshot is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	metrics := observability.NewMetrics(cfg.Metrics.Namespace)
	factory := strategy.NewFactory(log)
	agg := aggregator.New(factory, log, metrics)

	for _, entry := range cfg.Strategies {
		id, err := agg.AddStrategy(entry.StrategyType(), entry.Overrides())
		if err != nil {
			log.Fatal("register strategy", zap.String("type", entry.Type), zap.Error(err))
		}
		log.Info("registered strategy", zap.String("id", id))
	}

	token, data, err := loadSnapshot(*snapshotPath)
	if err != nil {
		log.Fatal("load snapshot", zap.Error(err))
	}

	decision := agg.ExecuteStrategy(token, data)

	if *outputJSON {
		printJSON(decision, cfg.Portfolio.ValueUSD)
	} else {
		printTables(agg, token, decision, cfg.Portfolio.ValueUSD)
	}

	if *metricsAddr != "" {
		log.Info("serving metrics", zap.String("addr", *metricsAddr))
		http.Handle("/metrics", observability.Handler())
		if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
			log.Fatal("metrics server", zap.Error(err))
		}
	}
}

func loadSnapshot(path string) (*domain.Token, *domain.MarketData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %q: %w", path, err)
	}

	var snap snapshotFile
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, nil, fmt.Errorf("parse %q: %w", path, err)
	}

	token := &domain.Token{
		Address:   snap.Token.Address,
		Symbol:    snap.Token.Symbol,
		Name:      snap.Token.Name,
		MarketCap: snap.Token.MarketCap,
		Price:     snap.Token.Price,
		Volume24h: snap.Token.Volume24h,
		TVL:       snap.Token.TVL,
		Sentiment: snap.Token.Sentiment,
		Trending:  snap.Token.Trending,
	}
	data := &domain.MarketData{
		Token:            token,
		PriceHistory:     toSeries(snap.PriceHistory),
		VolumeHistory:    toSeries(snap.VolumeHistory),
		SentimentHistory: toSeries(snap.SentimentHistory),
	}
	return token, data, nil
}

func toSeries(points []snapshotPoint) []domain.TimeseriesPoint {
	series := make([]domain.TimeseriesPoint, len(points))
	for i, p := range points {
		series[i] = domain.TimeseriesPoint{TimestampMs: p.TimestampMs, Value: p.Value}
	}
	return series
}

func printJSON(decision domain.StrategyDecision, portfolioUSD float64) {
	out := map[string]any{
		"shouldEnter": decision.ShouldEnter,
		"confidence":  decision.Confidence,
		"reasoning":   decision.Reasoning,
	}
	if decision.PositionSizeUSD != nil {
		out["positionSizeUSD"] = rescale(*decision.PositionSizeUSD, portfolioUSD)
	}
	if decision.Range != nil {
		out["priceRange"] = map[string]float64{"min": decision.Range.Min, "max": decision.Range.Max}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

func printTables(agg *aggregator.Aggregator, token *domain.Token, decision domain.StrategyDecision, portfolioUSD float64) {
	fmt.Printf("Token %s (%s)  price=%.6f mcap=%.0f vol24h=%.0f tvl=%.0f sentiment=%.2f trending=%v\n\n",
		token.Symbol, token.Address, token.Price, token.MarketCap, token.Volume24h, token.TVL, token.Sentiment, token.Trending)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Type", "Risk", "MaxPos", "StopLoss", "TakeProfit")
	for _, info := range agg.GetStrategies() {
		table.Append(
			info.ID,
			string(info.Type),
			string(info.Config.RiskTolerance),
			fmt.Sprintf("%.2f", info.Config.MaxPositionSize),
			fmt.Sprintf("%.2f", info.Config.StopLoss),
			fmt.Sprintf("%.2f", info.Config.TakeProfit),
		)
	}
	table.Render()

	fmt.Println()
	result := tablewriter.NewWriter(os.Stdout)
	result.Header("Enter", "Size$", "Range", "Confidence", "Reasoning")
	sizeLabel, rangeLabel := "-", "-"
	if decision.PositionSizeUSD != nil {
		sizeLabel = fmt.Sprintf("%.2f", rescale(*decision.PositionSizeUSD, portfolioUSD))
	}
	if decision.Range != nil {
		rangeLabel = fmt.Sprintf("%.6f..%.6f", decision.Range.Min, decision.Range.Max)
	}
	result.Append(
		fmt.Sprintf("%v", decision.ShouldEnter),
		sizeLabel,
		rangeLabel,
		fmt.Sprintf("%.2f", decision.Confidence),
		decision.Reasoning,
	)
	result.Render()
}

// rescale converts a size computed against the reference portfolio into the
// configured portfolio value.
func rescale(sizeUSD, portfolioUSD float64) float64 {
	return sizeUSD * portfolioUSD / aggregator.ReferencePortfolioValueUSD
}
