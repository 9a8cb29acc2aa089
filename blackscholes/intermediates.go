package blackscholes

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"
)

// Intermediates holds the shared Black-Scholes terms of one contract.
type Intermediates struct {
	D1    float64 `json:"d1"`
	D2    float64 `json:"d2"`
	PdfD1 float64 `json:"pdf_d1"` // φ(d1)
	CdfD2 float64 `json:"cdf_d2"` // Φ(d2)
}

// intermediatesCache computes Intermediates at most once. The once guard is
// the "computed" flag, so a legitimately zero d1 is never recomputed.
type intermediatesCache struct {
	once sync.Once
	val  Intermediates
	err  error
}

func (ic *intermediatesCache) get(c Contract) (Intermediates, error) {
	ic.once.Do(func() {
		ic.val, ic.err = computeIntermediates(c)
	})
	return ic.val, ic.err
}

// computeIntermediates
// d1 = [ln(S/K) + (r − q + σ²/2)·T] / (σ·√T), d2 = d1 − σ·√T
func computeIntermediates(c Contract) (Intermediates, error) {
	if err := checkDomain(c); err != nil {
		return Intermediates{}, err
	}
	volSqrtT := c.sigma * math.Sqrt(c.t)
	d1 := (math.Log(c.Underlying()/c.Strike()) + (c.r-c.q+c.sigma*c.sigma/2)*c.t) / volSqrtT
	d2 := d1 - volSqrtT
	return Intermediates{
		D1:    d1,
		D2:    d2,
		PdfD1: Pdf(d1),
		CdfD2: Cdf(d2),
	}, nil
}

func checkDomain(c Contract) error {
	switch {
	case c.sigma == 0:
		return fmt.Errorf("%w: zero implied volatility", ErrDomain)
	case c.t == 0:
		return fmt.Errorf("%w: zero time to maturity", ErrDomain)
	case c.Underlying() <= 0:
		return fmt.Errorf("%w: underlying price %v", ErrDomain, c.Underlying())
	case c.Strike() <= 0:
		return fmt.Errorf("%w: strike price %v", ErrDomain, c.Strike())
	}
	return nil
}

// Cdf cumulative normal distribution function
func Cdf(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// Pdf standard normal density
func Pdf(x float64) float64 {
	return distuv.UnitNormal.Prob(x)
}
