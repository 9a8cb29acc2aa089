package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/charlerive/derivlib/blackscholes"
	"github.com/charlerive/derivlib/config"
	"github.com/charlerive/derivlib/future"
	"github.com/charlerive/derivlib/logger"
	"github.com/charlerive/derivlib/plot"
	"github.com/charlerive/derivlib/simulation"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	lg, err := logger.New(cfg.Logging.LogLevel, cfg.Logging.LogFile)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Error("derivlib failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	params, err := cfg.ContractParams()
	if err != nil {
		return err
	}

	opt, err := blackscholes.NewOptionFromParams(params)
	if err != nil {
		return err
	}
	if err := logGreeks(lg.With(zap.String("instrument", "option")), opt); err != nil {
		return err
	}

	war, err := blackscholes.NewWarrantFromParams(params)
	if err != nil {
		return err
	}
	if err := logGreeks(lg.With(zap.String("instrument", "warrant"), zap.Float64("conversion_ratio", war.ConversionRatio())), war); err != nil {
		return err
	}

	if err := logFuture(cfg, lg); err != nil {
		return err
	}

	metric, kind, err := cfg.SweepSelectors()
	if err != nil {
		return err
	}
	graph, err := simulation.NewGraph(kind, params, simulation.WithLogger(lg))
	if err != nil {
		return err
	}
	res, err := graph.Simulate(metric, cfg.Sweep.PercentageChange)
	if err != nil {
		return err
	}
	return plot.Render(os.Stdout, res)
}

// pricer is the surface shared by options and warrants.
type pricer interface {
	simulation.Greeks
	PercentTheta() (float64, error)
	Sensitivity() (float64, error)
	Flexibility() (float64, error)
	BasicValue() (float64, error)
	TimeValue() (float64, error)
	CostDifference() (float64, error)
	PercentCostDifference() (float64, error)
	Leverage() (int64, error)
}

func logGreeks(lg *zap.Logger, p pricer) error {
	metrics := []struct {
		name string
		f    func() (float64, error)
	}{
		{"price", p.Price},
		{"delta", p.Delta},
		{"theta", p.Theta},
		{"percent_theta", p.PercentTheta},
		{"vega", p.Vega},
		{"gamma", p.Gamma},
		{"rho", p.Rho},
		{"sensitivity", p.Sensitivity},
		{"flexibility", p.Flexibility},
		{"basic_value", p.BasicValue},
		{"time_value", p.TimeValue},
		{"cost_difference", p.CostDifference},
		{"percent_cost_difference", p.PercentCostDifference},
	}
	fields := make([]zap.Field, 0, len(metrics)+1)
	for _, m := range metrics {
		v, err := m.f()
		if err != nil {
			return err
		}
		fields = append(fields, zap.Float64(m.name, v))
	}
	lev, err := p.Leverage()
	if err != nil {
		return err
	}
	fields = append(fields, zap.Int64("leverage", lev))
	lg.Info("greeks", fields...)
	return nil
}

func logFuture(cfg *config.Config, lg *zap.Logger) error {
	fp, opts, err := cfg.FutureParams()
	if err != nil {
		return err
	}
	price, err := future.TheoreticalPrice(fp, opts...)
	if err != nil {
		return err
	}
	lg.Info("future theoretical price", zap.Stringer("asset_class", fp.AssetClass), zap.Float64("price", price))

	if cfg.Future.MarketPrices == nil && cfg.Future.FuturePrices == nil {
		return nil
	}
	ratio, err := future.HedgeRatio(cfg.Future.MarketPrices, cfg.Future.FuturePrices)
	switch {
	case errors.Is(err, future.ErrHedgeRatioUnavailable):
		lg.Warn("hedge ratio unavailable", zap.Error(err))
	case err != nil:
		return err
	default:
		lg.Info("hedge ratio", zap.Float64("ratio", ratio))
	}
	return nil
}
