package simulation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/charlerive/derivlib/blackscholes"
)

var (
	ErrInvalidGraphCase      = errors.New("invalid graph case")
	ErrInvalidInstrumentKind = errors.New("invalid instrument kind")
)

const (
	// DefaultPercentageChange is the grid step between neighbouring prices.
	DefaultPercentageChange = 0.05
	gridRadius              = 5
	// GridSize is the number of points of every sweep.
	GridSize = 2*gridRadius + 1
)

// Metric selects the quantity plotted against the underlying price.
type Metric int

const (
	Price Metric = iota + 1
	Delta
	Theta
	Vega
	Rho
	Gamma
)

var metricNames = []string{Price: "Price", Delta: "Delta", Theta: "Theta", Vega: "Vega", Rho: "Rho", Gamma: "Gamma"}

func (m Metric) String() string {
	if m >= Price && m <= Gamma {
		return metricNames[m]
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

func ParseMetric(s string) (Metric, error) {
	for m := Price; m <= Gamma; m++ {
		if strings.EqualFold(strings.TrimSpace(s), metricNames[m]) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidGraphCase, s)
}

// InstrumentKind selects the engine evaluated at each grid point.
type InstrumentKind int

const (
	Option InstrumentKind = iota + 1
	Warrant
)

func (k InstrumentKind) String() string {
	switch k {
	case Option:
		return "Option"
	case Warrant:
		return "Warrant"
	}
	return fmt.Sprintf("InstrumentKind(%d)", int(k))
}

// ParseInstrumentKind accepts "option" (or "opsiyon") and "warrant".
func ParseInstrumentKind(s string) (InstrumentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "option", "opsiyon":
		return Option, nil
	case "warrant":
		return Warrant, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidInstrumentKind, s)
}

// Greeks is implemented by both blackscholes.Option and blackscholes.Warrant.
type Greeks interface {
	Price() (float64, error)
	Delta() (float64, error)
	Theta() (float64, error)
	Vega() (float64, error)
	Rho() (float64, error)
	Gamma() (float64, error)
}

func evaluate(g Greeks, m Metric) (float64, error) {
	switch m {
	case Price:
		return g.Price()
	case Delta:
		return g.Delta()
	case Theta:
		return g.Theta()
	case Vega:
		return g.Vega()
	case Rho:
		return g.Rho()
	case Gamma:
		return g.Gamma()
	}
	return 0, fmt.Errorf("%w: %v", ErrInvalidGraphCase, m)
}

// Point is one (underlying price, metric value) sample.
type Point struct {
	UnderlyingPrice float64 `json:"underlying_price"`
	Value           float64 `json:"value"`
}

// Result is an ordered sweep ready to be plotted.
type Result struct {
	Kind   InstrumentKind `json:"kind"`
	Metric Metric         `json:"metric"`
	Points []Point        `json:"points"`
}

// Labels names the axes and the chart of a result.
type Labels struct {
	X     string
	Y     string
	Title string
}

func (r Result) Labels() Labels {
	return Labels{
		X:     "Underlying Price",
		Y:     fmt.Sprintf("%v %v", r.Kind, r.Metric),
		Title: fmt.Sprintf("The Relationship %v %v and Underlying Price", r.Kind, r.Metric),
	}
}

// Graph sweeps one contract over a geometric grid of underlying prices.
type Graph struct {
	kind   InstrumentKind
	params blackscholes.Params
	logger *zap.Logger
}

type GraphOption func(*Graph)

// WithLogger logs every evaluated point at debug level.
func WithLogger(l *zap.Logger) GraphOption {
	return func(g *Graph) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGraph fails fast when the instrument kind is unknown or any raw input
// is negative.
func NewGraph(kind InstrumentKind, p blackscholes.Params, opts ...GraphOption) (*Graph, error) {
	if kind != Option && kind != Warrant {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInstrumentKind, kind)
	}
	if _, err := blackscholes.NewContract(p); err != nil {
		return nil, err
	}
	g := &Graph{kind: kind, params: p, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// PriceGrid returns S·(1+step)^n for n in [-5, 5].
func PriceGrid(s, step float64) []float64 {
	grid := make([]float64, 0, GridSize)
	for n := -gridRadius; n <= gridRadius; n++ {
		grid = append(grid, s*math.Pow(1+step, float64(n)))
	}
	return grid
}

// Simulate evaluates metric on a fresh engine at every grid price. Points
// are computed concurrently and returned in grid order.
func (g *Graph) Simulate(metric Metric, percentageChange float64) (Result, error) {
	if metric < Price || metric > Gamma {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidGraphCase, metric)
	}
	if percentageChange <= -1 || math.IsNaN(percentageChange) || math.IsInf(percentageChange, 0) {
		return Result{}, fmt.Errorf("%w: percentage change %v", blackscholes.ErrDomain, percentageChange)
	}

	grid := PriceGrid(g.params.UnderlyingPrice, percentageChange)
	points := make([]Point, len(grid))

	var eg errgroup.Group
	for i, s := range grid {
		i, s := i, s
		eg.Go(func() error {
			engine, err := g.engineAt(s)
			if err != nil {
				return err
			}
			v, err := evaluate(engine, metric)
			if err != nil {
				return fmt.Errorf("%v %v at underlying %v: %w", g.kind, metric, s, err)
			}
			points[i] = Point{UnderlyingPrice: s, Value: v}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Result{}, err
	}

	for _, p := range points {
		g.logger.Debug("simulation point",
			zap.Stringer("kind", g.kind),
			zap.Stringer("metric", metric),
			zap.Float64("underlying_price", p.UnderlyingPrice),
			zap.Float64("value", p.Value))
	}
	return Result{Kind: g.kind, Metric: metric, Points: points}, nil
}

func (g *Graph) engineAt(s float64) (Greeks, error) {
	p := g.params
	p.UnderlyingPrice = s
	c, err := blackscholes.NewContract(p)
	if err != nil {
		return nil, err
	}
	switch g.kind {
	case Option:
		return blackscholes.NewOption(c), nil
	case Warrant:
		return blackscholes.NewWarrant(c), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidInstrumentKind, g.kind)
}
