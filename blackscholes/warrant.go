package blackscholes

// Warrant prices a warrant as a fractional claim on the underlying. It wraps
// the option engine of the same contract and rescales by the conversion ratio.
//
// Delta and Gamma are ratios and stay unscaled. TimeValue stays at the
// option-level value while BasicValue is rescaled (inherited behavior).
type Warrant struct {
	opt   *Option
	ratio float64
}

func NewWarrant(c Contract) *Warrant {
	return &Warrant{opt: NewOption(c), ratio: c.ConversionRatio()}
}

func NewWarrantFromParams(p Params) (*Warrant, error) {
	c, err := NewContract(p)
	if err != nil {
		return nil, err
	}
	return NewWarrant(c), nil
}

// Option exposes the wrapped option engine.
func (w *Warrant) Option() *Option { return w.opt }

func (w *Warrant) ConversionRatio() float64 { return w.ratio }

func (w *Warrant) scaled(f func() (float64, error)) (float64, error) {
	v, err := f()
	if err != nil {
		return 0, err
	}
	return v * w.ratio, nil
}

func (w *Warrant) Price() (float64, error) { return w.scaled(w.opt.Price) }

func (w *Warrant) Theta() (float64, error) { return w.scaled(w.opt.Theta) }

func (w *Warrant) Vega() (float64, error) { return w.scaled(w.opt.Vega) }

func (w *Warrant) Rho() (float64, error) { return w.scaled(w.opt.Rho) }

func (w *Warrant) Delta() (float64, error) { return w.opt.Delta() }

func (w *Warrant) Gamma() (float64, error) { return w.opt.Gamma() }

func (w *Warrant) PercentTheta() (float64, error) { return percentTheta(w) }

// BasicLeverage is S / warrant price · ratio.
func (w *Warrant) BasicLeverage() (float64, error) {
	price, err := w.Price()
	if err != nil {
		return 0, err
	}
	return ratio(w.opt.c.Underlying()*w.ratio, price, "basic leverage")
}

func (w *Warrant) Leverage() (int64, error) {
	basic, err := w.BasicLeverage()
	if err != nil {
		return 0, err
	}
	delta, err := w.Delta()
	if err != nil {
		return 0, err
	}
	return roundLeverage(basic * delta)
}

func (w *Warrant) Sensitivity() (float64, error) {
	delta, err := w.Delta()
	if err != nil {
		return 0, err
	}
	return ratio(1, delta*w.ratio*100, "sensitivity")
}

func (w *Warrant) Flexibility() (float64, error) { return w.scaled(w.opt.Flexibility) }

func (w *Warrant) BasicValue() (float64, error) { return w.scaled(w.opt.BasicValue) }

// TimeValue is not rescaled.
func (w *Warrant) TimeValue() (float64, error) { return w.opt.TimeValue() }

// CostDifference is recomputed from the warrant price per underlying unit.
func (w *Warrant) CostDifference() (float64, error) {
	price, err := w.Price()
	if err != nil {
		return 0, err
	}
	return costDifference(w.opt.c, price/w.ratio)
}

func (w *Warrant) PercentCostDifference() (float64, error) {
	return percentOfUnderlying(w.opt.c, w.CostDifference)
}
