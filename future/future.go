package future

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrUnsupportedAssetClass = errors.New("unsupported asset class")
	ErrInvalidParameter      = errors.New("invalid future parameter")
)

// AssetClass selects the cost-of-carry model.
type AssetClass int

const (
	Stock AssetClass = iota + 1
	Index
	Currency
	Metal
	Interest
)

var assetClassNames = map[AssetClass]string{
	Stock:    "Stock",
	Index:    "Index",
	Currency: "Currency",
	Metal:    "Metal",
	Interest: "Interest",
}

func (a AssetClass) String() string {
	if name, ok := assetClassNames[a]; ok {
		return name
	}
	return fmt.Sprintf("AssetClass(%d)", int(a))
}

func ParseAssetClass(s string) (AssetClass, error) {
	for a, name := range assetClassNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedAssetClass, s)
}

// Params describes a future. Rates are in percent, maturity in days.
type Params struct {
	AssetClass      AssetClass `yaml:"asset_class"`
	UnderlyingPrice float64    `yaml:"underlying_price"`
	DaysToMaturity  float64    `yaml:"days_to_maturity"`
	DomesticRate    float64    `yaml:"domestic_rate"`
	ForeignRate     float64    `yaml:"foreign_rate"`
	DividendYield   float64    `yaml:"dividend_yield"`
}

// carry holds the per-call overrides used by metal and interest futures.
type carry struct {
	storageCost  float64 // annual storage cost, percent
	leaseRate    float64 // percent
	presentValue float64
}

type CarryOption func(*carry)

// WithStorageCost sets the annual storage cost rate in percent.
func WithStorageCost(pct float64) CarryOption {
	return func(c *carry) { c.storageCost = pct }
}

// WithLeaseRate sets the lease rate in percent.
func WithLeaseRate(pct float64) CarryOption {
	return func(c *carry) { c.leaseRate = pct }
}

// WithPresentValue sets the present value of income subtracted from the
// spot of an interest rate future. Defaults to 1.
func WithPresentValue(pv float64) CarryOption {
	return func(c *carry) { c.presentValue = pv }
}

// TheoreticalPrice returns the cost-of-carry fair value of the future.
func TheoreticalPrice(p Params, opts ...CarryOption) (float64, error) {
	cc := carry{presentValue: 1}
	for _, opt := range opts {
		opt(&cc)
	}

	if err := checkInputs(p, cc); err != nil {
		return 0, err
	}

	S := p.UnderlyingPrice
	T := p.DaysToMaturity / 365
	r := p.DomesticRate / 100

	var price float64
	switch p.AssetClass {
	case Stock, Index:
		price = S * math.Exp((r-p.DividendYield/100)*T)
	case Currency:
		price = S * math.Exp((r-p.ForeignRate/100)*T)
	case Metal:
		price = S * math.Exp((r+cc.storageCost/100-cc.leaseRate/100)*T)
	case Interest:
		price = (S - cc.presentValue) * math.Exp(r*T)
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedAssetClass, p.AssetClass)
	}
	if math.IsInf(price, 0) || math.IsNaN(price) {
		return 0, fmt.Errorf("%w: price overflows", ErrInvalidParameter)
	}
	return price, nil
}

// checkInputs requires finite inputs and a non-negative spot and maturity.
// Rates may be negative.
func checkInputs(p Params, cc carry) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"underlying price", p.UnderlyingPrice},
		{"days to maturity", p.DaysToMaturity},
		{"domestic rate", p.DomesticRate},
		{"foreign rate", p.ForeignRate},
		{"dividend yield", p.DividendYield},
		{"storage cost", cc.storageCost},
		{"lease rate", cc.leaseRate},
		{"present value", cc.presentValue},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s %v is not finite", ErrInvalidParameter, f.name, f.value)
		}
	}
	if p.UnderlyingPrice < 0 || p.DaysToMaturity < 0 {
		return fmt.Errorf("%w: negative underlying price or maturity", ErrInvalidParameter)
	}
	return nil
}
