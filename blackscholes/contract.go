package blackscholes

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidOptionType = errors.New("invalid option type")
	ErrNegativeParameter = errors.New("negative parameter")
	// ErrDomain is returned when a formula is undefined for the contract,
	// e.g. zero volatility or zero time to maturity, and for non-finite
	// inputs or results.
	ErrDomain = errors.New("domain error")
)

const daysPerYear = 365

// OptionType 期权方向
type OptionType int

const (
	Call OptionType = iota + 1
	Put
)

func (t OptionType) String() string {
	switch t {
	case Call:
		return "Call"
	case Put:
		return "Put"
	}
	return fmt.Sprintf("OptionType(%d)", int(t))
}

func (t OptionType) Valid() bool {
	return t == Call || t == Put
}

// ParseOptionType accepts "c", "call", "p" and "put" in any case.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "call":
		return Call, nil
	case "p", "put":
		return Put, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOptionType, s)
}

// Params is the raw contract configuration. Rates, volatility and dividend
// yield are given in percent (10 means 10%), maturity in calendar days.
type Params struct {
	Type              OptionType `json:"option_type" yaml:"option_type"`
	UnderlyingPrice   float64    `json:"underlying_price" yaml:"underlying_price"`
	StrikePrice       float64    `json:"strike_price" yaml:"strike_price"`
	DaysToMaturity    float64    `json:"days_to_maturity" yaml:"days_to_maturity"`
	DomesticRate      float64    `json:"domestic_rate" yaml:"domestic_rate"`
	ImpliedVolatility float64    `json:"implied_volatility" yaml:"implied_volatility"`
	DividendYield     float64    `json:"dividend_yield" yaml:"dividend_yield"`
	ConversionRatio   float64    `json:"conversion_ratio" yaml:"conversion_ratio"` // warrants only, 0 means 1
}

// Contract is a validated, normalized parameter set. It is immutable.
type Contract struct {
	params Params

	t     float64 // 年化到期时间 days/365
	r     float64 // 无风险利率
	sigma float64 // 年化波动率
	q     float64 // 股息率
}

// NewContract validates p and normalizes it into model units.
func NewContract(p Params) (Contract, error) {
	if !p.Type.Valid() {
		return Contract{}, fmt.Errorf("%w: %v", ErrInvalidOptionType, p.Type)
	}
	if p.ConversionRatio == 0 {
		p.ConversionRatio = 1
	}
	if err := checkInputs(p); err != nil {
		return Contract{}, err
	}
	if p.ConversionRatio <= 0 {
		return Contract{}, fmt.Errorf("%w: conversion ratio %v", ErrNegativeParameter, p.ConversionRatio)
	}
	return Contract{
		params: p,
		t:      p.DaysToMaturity / daysPerYear,
		r:      p.DomesticRate / 100,
		sigma:  p.ImpliedVolatility / 100,
		q:      p.DividendYield / 100,
	}, nil
}

func checkInputs(p Params) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"underlying price", p.UnderlyingPrice},
		{"strike price", p.StrikePrice},
		{"days to maturity", p.DaysToMaturity},
		{"domestic rate", p.DomesticRate},
		{"implied volatility", p.ImpliedVolatility},
		{"dividend yield", p.DividendYield},
		{"conversion ratio", p.ConversionRatio},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s %v is not finite", ErrDomain, f.name, f.value)
		}
		if f.value < 0 {
			return fmt.Errorf("%w: %s %v", ErrNegativeParameter, f.name, f.value)
		}
	}
	return nil
}

// Params returns the configuration the contract was built from.
func (c Contract) Params() Params { return c.params }

func (c Contract) Type() OptionType { return c.params.Type }

func (c Contract) Underlying() float64 { return c.params.UnderlyingPrice }

func (c Contract) Strike() float64 { return c.params.StrikePrice }

// YearFraction is the time to maturity in years.
func (c Contract) YearFraction() float64 { return c.t }

func (c Contract) Rate() float64 { return c.r }

func (c Contract) Volatility() float64 { return c.sigma }

func (c Contract) Dividend() float64 { return c.q }

func (c Contract) ConversionRatio() float64 { return c.params.ConversionRatio }

// WithUnderlying returns a copy of the contract priced at another spot.
func (c Contract) WithUnderlying(s float64) (Contract, error) {
	p := c.params
	p.UnderlyingPrice = s
	return NewContract(p)
}
