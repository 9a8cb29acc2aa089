package future

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTheoreticalPrice(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		opts []CarryOption
		want float64
	}{
		{
			name: "currency",
			p:    Params{AssetClass: Currency, UnderlyingPrice: 100, DaysToMaturity: 90, DomesticRate: 5, ForeignRate: 2},
			want: 100 * math.Exp(0.03*90/365),
		},
		{
			name: "stock",
			p:    Params{AssetClass: Stock, UnderlyingPrice: 50, DaysToMaturity: 180, DomesticRate: 4, DividendYield: 1.5},
			want: 50 * math.Exp((0.04-0.015)*180/365),
		},
		{
			name: "index ignores foreign rate",
			p:    Params{AssetClass: Index, UnderlyingPrice: 4500, DaysToMaturity: 30, DomesticRate: 3, ForeignRate: 9, DividendYield: 2},
			want: 4500 * math.Exp((0.03-0.02)*30/365),
		},
		{
			name: "metal",
			p:    Params{AssetClass: Metal, UnderlyingPrice: 1900, DaysToMaturity: 365, DomesticRate: 5},
			opts: []CarryOption{WithStorageCost(0.5), WithLeaseRate(1)},
			want: 1900 * math.Exp(0.05+0.005-0.01),
		},
		{
			name: "interest default present value",
			p:    Params{AssetClass: Interest, UnderlyingPrice: 101, DaysToMaturity: 73, DomesticRate: 5},
			want: 100 * math.Exp(0.05*73/365),
		},
		{
			name: "interest with present value",
			p:    Params{AssetClass: Interest, UnderlyingPrice: 101, DaysToMaturity: 73, DomesticRate: 5},
			opts: []CarryOption{WithPresentValue(3.5)},
			want: 97.5 * math.Exp(0.05*73/365),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TheoreticalPrice(tt.p, tt.opts...)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestTheoreticalPrice_UnsupportedAssetClass(t *testing.T) {
	_, err := TheoreticalPrice(Params{AssetClass: AssetClass(42), UnderlyingPrice: 100})
	assert.ErrorIs(t, err, ErrUnsupportedAssetClass)

	_, err = TheoreticalPrice(Params{UnderlyingPrice: 100})
	assert.ErrorIs(t, err, ErrUnsupportedAssetClass)
}

func TestTheoreticalPrice_InvalidParameter(t *testing.T) {
	base := Params{AssetClass: Stock, UnderlyingPrice: 50, DaysToMaturity: 180, DomesticRate: 4}
	tests := map[string]struct {
		p    func(Params) Params
		opts []CarryOption
	}{
		"negative spot":     {p: func(p Params) Params { p.UnderlyingPrice = -1; return p }},
		"negative maturity": {p: func(p Params) Params { p.DaysToMaturity = -30; return p }},
		"nan spot":          {p: func(p Params) Params { p.UnderlyingPrice = math.NaN(); return p }},
		"infinite rate":     {p: func(p Params) Params { p.DomesticRate = math.Inf(1); return p }},
		"nan storage cost":  {p: func(p Params) Params { p.AssetClass = Metal; return p }, opts: []CarryOption{WithStorageCost(math.NaN())}},
		"overflowing carry": {p: func(p Params) Params { p.DaysToMaturity = 1e300; return p }},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			price, err := TheoreticalPrice(tt.p(base), tt.opts...)
			assert.Zero(t, price)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}

	// negative rates are priced
	neg := base
	neg.DomesticRate = -0.5
	price, err := TheoreticalPrice(neg)
	require.NoError(t, err)
	assert.InDelta(t, 50*math.Exp(-0.005*180/365), price, 1e-9)
}

func TestParseAssetClass(t *testing.T) {
	a, err := ParseAssetClass("currency")
	require.NoError(t, err)
	assert.Equal(t, Currency, a)
	assert.Equal(t, "Metal", Metal.String())

	_, err = ParseAssetClass("crypto")
	assert.ErrorIs(t, err, ErrUnsupportedAssetClass)
}

func TestHedgeRatio(t *testing.T) {
	market := []float64{100, 101, 99.5, 102, 103.2, 101.7, 104, 105.5}
	futures := make([]float64, len(market))
	futures[0] = 200
	for i := 1; i < len(market); i++ {
		ret := (market[i] - market[i-1]) / market[i-1]
		futures[i] = futures[i-1] * (1 + 0.001 + 1.5*ret)
	}

	ratio, err := HedgeRatio(market, futures)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, ratio, 1e-9)
}

func TestHedgeRatio_MatchesClosedFormOLS(t *testing.T) {
	market := []float64{10, 10.4, 10.1, 10.9, 10.7, 11.2}
	futures := []float64{20, 20.5, 20.4, 21.6, 21.0, 22.1}

	x, y := PctChange(market), PctChange(futures)
	var mx, my float64
	for i := range x {
		mx += x[i]
		my += y[i]
	}
	mx /= float64(len(x))
	my /= float64(len(y))
	var cov, vx float64
	for i := range x {
		cov += (x[i] - mx) * (y[i] - my)
		vx += (x[i] - mx) * (x[i] - mx)
	}

	ratio, err := HedgeRatio(market, futures)
	require.NoError(t, err)
	assert.InDelta(t, cov/vx, ratio, 1e-12)
}

func TestHedgeRatio_Unavailable(t *testing.T) {
	tests := map[string]struct {
		market, futures []float64
		kind            error
	}{
		"nil market": {nil, []float64{1, 2}, ErrIncompatibleSeriesLength},
		"nil future": {[]float64{1, 2}, nil, ErrIncompatibleSeriesLength},
		"mismatched": {[]float64{1, 2, 3}, []float64{1, 2}, ErrIncompatibleSeriesLength},
		"too short":  {[]float64{1}, []float64{1}, ErrIncompatibleSeriesLength},
		"zero price": {[]float64{0, 1, 2}, []float64{1, 2, 3}, ErrDegenerateSeries},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ratio, err := HedgeRatio(tt.market, tt.futures)
			assert.Zero(t, ratio)
			assert.ErrorIs(t, err, tt.kind)
			assert.ErrorIs(t, err, ErrHedgeRatioUnavailable)
		})
	}
}

// With a single return or constant market returns the regression has no
// unique solution; a + b·x = c is solved with the smallest a² + b².
func TestHedgeRatio_RankDeficient(t *testing.T) {
	tests := map[string]struct {
		market, futures []float64
		want            float64
	}{
		"single return":   {[]float64{1, 2}, []float64{3, 4}, 1.0 / 6},
		"flat market":     {[]float64{5, 5, 5, 5}, []float64{1, 2, 3, 4}, 0},
		"constant growth": {[]float64{1, 2, 4, 8}, []float64{1, 2, 3, 4}, (1 + 0.5 + 1.0/3) / 3 / 2},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ratio, err := HedgeRatio(tt.market, tt.futures)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, ratio, 1e-12)
		})
	}
}

func TestPctChange(t *testing.T) {
	assert.Nil(t, PctChange([]float64{1}))
	got := PctChange([]float64{100, 110, 99})
	require.Len(t, got, 2)
	assert.InDelta(t, 0.1, got[0], 1e-12)
	assert.InDelta(t, -0.1, got[1], 1e-12)
}
