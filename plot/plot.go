// Package plot renders sweep results. It only formats what the simulation
// package computed.
package plot

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/charlerive/derivlib/simulation"
)

// Precision is the number of decimals printed for metric values.
const Precision = 6

// Render writes r as a titled two-column table.
func Render(w io.Writer, r simulation.Result) error {
	labels := r.Labels()
	rows := make([][2]string, 0, len(r.Points))
	xw, yw := len(labels.X), len(labels.Y)
	for _, p := range r.Points {
		x := decimal.NewFromFloat(p.UnderlyingPrice).StringFixed(2)
		y := decimal.NewFromFloat(p.Value).StringFixed(Precision)
		rows = append(rows, [2]string{x, y})
		xw, yw = max(xw, len(x)), max(yw, len(y))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", labels.Title)
	fmt.Fprintf(&b, "%-*s  %*s\n", xw, labels.X, yw, labels.Y)
	fmt.Fprintf(&b, "%s  %s\n", strings.Repeat("-", xw), strings.Repeat("-", yw))
	for _, row := range rows {
		fmt.Fprintf(&b, "%*s  %*s\n", xw, row[0], yw, row[1])
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Series returns the x and y columns of r, the shape plotting libraries take.
func Series(r simulation.Result) (xs, ys []float64) {
	xs = make([]float64, len(r.Points))
	ys = make([]float64, len(r.Points))
	for i, p := range r.Points {
		xs[i], ys[i] = p.UnderlyingPrice, p.Value
	}
	return xs, ys
}
