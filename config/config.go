package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/charlerive/derivlib/blackscholes"
	"github.com/charlerive/derivlib/future"
	"github.com/charlerive/derivlib/simulation"
)

// LoggingConfig selects the log level and an optional file sink.
type LoggingConfig struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// ContractConfig is the option or warrant priced by the driver. Rates,
// volatility and dividend are percentages.
type ContractConfig struct {
	OptionType        string  `yaml:"option_type"`
	UnderlyingPrice   float64 `yaml:"underlying_price"`
	StrikePrice       float64 `yaml:"strike_price"`
	DaysToMaturity    float64 `yaml:"days_to_maturity"`
	DomesticRate      float64 `yaml:"domestic_rate"`
	ImpliedVolatility float64 `yaml:"implied_volatility"`
	DividendYield     float64 `yaml:"dividend_yield"`
	ConversionRatio   float64 `yaml:"conversion_ratio"`
}

type FutureConfig struct {
	AssetClass      string  `yaml:"asset_class"`
	UnderlyingPrice float64 `yaml:"underlying_price"`
	DaysToMaturity  float64 `yaml:"days_to_maturity"`
	DomesticRate    float64 `yaml:"domestic_rate"`
	ForeignRate     float64 `yaml:"foreign_rate"`
	DividendYield   float64 `yaml:"dividend_yield"`
	StorageCost     float64 `yaml:"storage_cost"`
	LeaseRate       float64 `yaml:"lease_rate"`
	PresentValue    float64 `yaml:"present_value"`
	// price histories for the hedge ratio, oldest first
	MarketPrices []float64 `yaml:"market_prices"`
	FuturePrices []float64 `yaml:"future_prices"`
}

type SweepConfig struct {
	Metric           string  `yaml:"metric"`
	Instrument       string  `yaml:"instrument"`
	PercentageChange float64 `yaml:"percentage_change"`
}

type Config struct {
	Contract ContractConfig `yaml:"contract"`
	Future   FutureConfig   `yaml:"future"`
	Sweep    SweepConfig    `yaml:"sweep"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Default returns the demonstration setup: an at-the-money call, 10 days to
// maturity, 10% rate, 50% volatility, swept on Delta.
func Default() *Config {
	return &Config{
		Contract: ContractConfig{
			OptionType:        "C",
			UnderlyingPrice:   10,
			StrikePrice:       10,
			DaysToMaturity:    10,
			DomesticRate:      10,
			ImpliedVolatility: 50,
			ConversionRatio:   1,
		},
		Future: FutureConfig{
			AssetClass:      "Currency",
			UnderlyingPrice: 100,
			DaysToMaturity:  90,
			DomesticRate:    5,
			ForeignRate:     2,
			PresentValue:    1,
		},
		Sweep: SweepConfig{
			Metric:           "Delta",
			Instrument:       "Option",
			PercentageChange: simulation.DefaultPercentageChange,
		},
		Logging: LoggingConfig{
			LogLevel: "info",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment (a .env file in the working directory is honoured), in that
// order of precedence.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	c := &cfg.Contract
	c.OptionType = getEnv("DERIV_OPTION_TYPE", c.OptionType)
	c.UnderlyingPrice = getEnvFloat("DERIV_UNDERLYING_PRICE", c.UnderlyingPrice)
	c.StrikePrice = getEnvFloat("DERIV_STRIKE_PRICE", c.StrikePrice)
	c.DaysToMaturity = getEnvFloat("DERIV_DAYS_TO_MATURITY", c.DaysToMaturity)
	c.DomesticRate = getEnvFloat("DERIV_DOMESTIC_RATE", c.DomesticRate)
	c.ImpliedVolatility = getEnvFloat("DERIV_IMPLIED_VOLATILITY", c.ImpliedVolatility)
	c.DividendYield = getEnvFloat("DERIV_DIVIDEND_YIELD", c.DividendYield)
	c.ConversionRatio = getEnvFloat("DERIV_CONVERSION_RATIO", c.ConversionRatio)

	s := &cfg.Sweep
	s.Metric = getEnv("DERIV_SWEEP_METRIC", s.Metric)
	s.Instrument = getEnv("DERIV_SWEEP_INSTRUMENT", s.Instrument)
	s.PercentageChange = getEnvFloat("DERIV_SWEEP_STEP", s.PercentageChange)

	cfg.Logging.LogLevel = getEnv("LOG_LEVEL", cfg.Logging.LogLevel)
	cfg.Logging.LogFile = getEnv("LOG_FILE", cfg.Logging.LogFile)

	return cfg, nil
}

// ContractParams converts the contract section into engine parameters.
func (c *Config) ContractParams() (blackscholes.Params, error) {
	typ, err := blackscholes.ParseOptionType(c.Contract.OptionType)
	if err != nil {
		return blackscholes.Params{}, err
	}
	return blackscholes.Params{
		Type:              typ,
		UnderlyingPrice:   c.Contract.UnderlyingPrice,
		StrikePrice:       c.Contract.StrikePrice,
		DaysToMaturity:    c.Contract.DaysToMaturity,
		DomesticRate:      c.Contract.DomesticRate,
		ImpliedVolatility: c.Contract.ImpliedVolatility,
		DividendYield:     c.Contract.DividendYield,
		ConversionRatio:   c.Contract.ConversionRatio,
	}, nil
}

// FutureParams converts the future section into engine parameters and the
// carry overrides.
func (c *Config) FutureParams() (future.Params, []future.CarryOption, error) {
	class, err := future.ParseAssetClass(c.Future.AssetClass)
	if err != nil {
		return future.Params{}, nil, err
	}
	p := future.Params{
		AssetClass:      class,
		UnderlyingPrice: c.Future.UnderlyingPrice,
		DaysToMaturity:  c.Future.DaysToMaturity,
		DomesticRate:    c.Future.DomesticRate,
		ForeignRate:     c.Future.ForeignRate,
		DividendYield:   c.Future.DividendYield,
	}
	opts := []future.CarryOption{
		future.WithStorageCost(c.Future.StorageCost),
		future.WithLeaseRate(c.Future.LeaseRate),
		future.WithPresentValue(c.Future.PresentValue),
	}
	return p, opts, nil
}

// SweepSelectors parses the sweep metric and instrument kind.
func (c *Config) SweepSelectors() (simulation.Metric, simulation.InstrumentKind, error) {
	m, err := simulation.ParseMetric(c.Sweep.Metric)
	if err != nil {
		return 0, 0, err
	}
	k, err := simulation.ParseInstrumentKind(c.Sweep.Instrument)
	if err != nil {
		return 0, 0, err
	}
	return m, k, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
