package blackscholes

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Option evaluates a European option on one contract with the Black–Scholes model.
// see wiki: https://en.wikipedia.org/wiki/Black%E2%80%93Scholes_model
//
// All methods are pure functions of the contract; the shared terms are
// computed on first use and reused afterwards.
type Option struct {
	c     Contract
	cache intermediatesCache
}

func NewOption(c Contract) *Option {
	return &Option{c: c}
}

// NewOptionFromParams validates p and returns its option engine.
func NewOptionFromParams(p Params) (*Option, error) {
	c, err := NewContract(p)
	if err != nil {
		return nil, err
	}
	return NewOption(c), nil
}

func (o *Option) Contract() Contract { return o.c }

func (o *Option) Intermediates() (Intermediates, error) {
	return o.cache.get(o.c)
}

func (o *Option) discountRate() float64 { return math.Exp(-o.c.r * o.c.t) }

func (o *Option) discountDividend() float64 { return math.Exp(-o.c.q * o.c.t) }

func (o *Option) Price() (float64, error) {
	S, K := o.c.Underlying(), o.c.Strike()
	return o.withIntermediates(func(in Intermediates) float64 {
		if o.c.Type() == Put {
			return K*o.discountRate()*Cdf(-in.D2) - S*o.discountDividend()*Cdf(-in.D1)
		}
		return S*o.discountDividend()*Cdf(in.D1) - K*o.discountRate()*in.CdfD2
	})
}

func (o *Option) Delta() (float64, error) {
	return o.withIntermediates(func(in Intermediates) float64 {
		if o.c.Type() == Put {
			return Cdf(in.D1) - 1
		}
		return Cdf(in.D1)
	})
}

// Theta is the daily time decay (annual theta / 365).
func (o *Option) Theta() (float64, error) {
	S, K := o.c.Underlying(), o.c.Strike()
	return o.withIntermediates(func(in Intermediates) float64 {
		decay := -S * o.c.sigma * in.PdfD1 / (2 * math.Sqrt(o.c.t))
		carry := o.c.r * K * o.discountRate()
		if o.c.Type() == Put {
			return (decay + carry*(1-in.CdfD2)) / daysPerYear
		}
		return (decay - carry*in.CdfD2) / daysPerYear
	})
}

// PercentTheta is the one-day price change caused by theta, in percent.
func (o *Option) PercentTheta() (float64, error) {
	return percentTheta(o)
}

// Vega 期权价格对隐含波动率变动1个点的敏感度
func (o *Option) Vega() (float64, error) {
	return o.withIntermediates(func(in Intermediates) float64 {
		return 0.01 * o.c.Underlying() * math.Sqrt(o.c.t) * in.PdfD1
	})
}

// Gamma is identical for calls and puts.
func (o *Option) Gamma() (float64, error) {
	return o.withIntermediates(func(in Intermediates) float64 {
		return in.PdfD1 / (o.c.Underlying() * o.c.sigma * math.Sqrt(o.c.t))
	})
}

func (o *Option) Rho() (float64, error) {
	return o.withIntermediates(func(in Intermediates) float64 {
		base := 0.01 * o.c.Strike() * o.c.t * o.discountRate()
		if o.c.Type() == Put {
			return -base * (1 - in.CdfD2)
		}
		return base * in.CdfD2
	})
}

// Sensitivity is the underlying move needed for a 1% move of the option price.
func (o *Option) Sensitivity() (float64, error) {
	delta, err := o.Delta()
	if err != nil {
		return 0, err
	}
	return ratio(1, delta*100, "sensitivity")
}

// Flexibility is spot over premium.
func (o *Option) Flexibility() (float64, error) {
	price, err := o.Price()
	if err != nil {
		return 0, err
	}
	return ratio(o.c.Underlying(), price, "flexibility")
}

// BasicValue is the intrinsic value, S−K for calls and K−S for puts. It is
// not floored at zero.
func (o *Option) BasicValue() (float64, error) {
	S, K := o.c.Underlying(), o.c.Strike()
	switch o.c.Type() {
	case Call:
		return S - K, nil
	case Put:
		return K - S, nil
	}
	return 0, o.invalidType()
}

func (o *Option) TimeValue() (float64, error) {
	price, err := o.Price()
	if err != nil {
		return 0, err
	}
	basic, err := o.BasicValue()
	if err != nil {
		return 0, err
	}
	return price - basic, nil
}

// CostDifference is the break-even gap between buying the option and
// holding the underlying.
func (o *Option) CostDifference() (float64, error) {
	price, err := o.Price()
	if err != nil {
		return 0, err
	}
	return costDifference(o.c, price)
}

func (o *Option) PercentCostDifference() (float64, error) {
	return percentOfUnderlying(o.c, o.CostDifference)
}

// Leverage is |S/Price·Delta| rounded half to even.
func (o *Option) Leverage() (int64, error) {
	flex, err := o.Flexibility()
	if err != nil {
		return 0, err
	}
	delta, err := o.Delta()
	if err != nil {
		return 0, err
	}
	return roundLeverage(flex * delta)
}

// withIntermediates evaluates f on the memoized terms of the contract.
func (o *Option) withIntermediates(f func(Intermediates) float64) (float64, error) {
	if !o.c.Type().Valid() {
		return 0, o.invalidType()
	}
	in, err := o.Intermediates()
	if err != nil {
		return 0, err
	}
	return f(in), nil
}

func (o *Option) invalidType() error {
	return fmt.Errorf("%w: %v", ErrInvalidOptionType, o.c.Type())
}

type thetaPricer interface {
	Price() (float64, error)
	Theta() (float64, error)
}

func percentTheta(p thetaPricer) (float64, error) {
	price, err := p.Price()
	if err != nil {
		return 0, err
	}
	theta, err := p.Theta()
	if err != nil {
		return 0, err
	}
	x, err := ratio(price+theta, price, "percent theta")
	if err != nil {
		return 0, err
	}
	return 100 * (x - 1), nil
}

func costDifference(c Contract, premium float64) (float64, error) {
	S, K := c.Underlying(), c.Strike()
	switch c.Type() {
	case Call:
		return premium + K - S, nil
	case Put:
		return premium + S - K, nil
	}
	return 0, fmt.Errorf("%w: %v", ErrInvalidOptionType, c.Type())
}

func percentOfUnderlying(c Contract, f func() (float64, error)) (float64, error) {
	v, err := f()
	if err != nil {
		return 0, err
	}
	x, err := ratio(v, c.Underlying(), "percent of underlying")
	if err != nil {
		return 0, err
	}
	return x * 100, nil
}

// ratio is num/den, failing with ErrDomain unless the quotient is finite.
// Near expiry a deep out-of-the-money premium can be a subnormal float and
// the quotient overflows.
func ratio(num, den float64, what string) (float64, error) {
	if den == 0 {
		return 0, fmt.Errorf("%w: %s with zero denominator", ErrDomain, what)
	}
	x := num / den
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return 0, fmt.Errorf("%w: %s is not finite", ErrDomain, what)
	}
	return x, nil
}

func roundLeverage(x float64) (int64, error) {
	x = math.Abs(x)
	if math.IsInf(x, 0) || math.IsNaN(x) || x >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: leverage %v out of range", ErrDomain, x)
	}
	return decimal.NewFromFloat(x).RoundBank(0).IntPart(), nil
}
