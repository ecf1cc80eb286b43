// internal/analysis/anova.go
// Package: analysis
package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ResidualName labels the within-group row of an ANOVA table.
const ResidualName = "Residual"

// ANOVARow is one source of variation. F and PValue are NaN for the
// residual row.
type ANOVARow struct {
	Source string
	SumSq  float64
	DF     float64
	F      float64
	PValue float64
}

// ANOVATable is a one-way analysis of variance: the factor row followed by
// the residual row.
type ANOVATable struct {
	Factor   ANOVARow
	Residual ANOVARow
	Groups   []string
}

// Rows returns the table rows in print order.
func (t ANOVATable) Rows() []ANOVARow {
	return []ANOVARow{t.Factor, t.Residual}
}

// OneWayANOVA partitions the variance of y by group label. Groups are
// reported in order of first appearance.
func OneWayANOVA(y []float64, groups []string, factor string) (ANOVATable, error) {
	if len(y) != len(groups) {
		return ANOVATable{}, fmt.Errorf("%d values for %d group labels", len(y), len(groups))
	}
	var order []string
	members := make(map[string][]float64)
	for i, g := range groups {
		if _, ok := members[g]; !ok {
			order = append(order, g)
		}
		members[g] = append(members[g], y[i])
	}
	n, k := len(y), len(order)
	if k < 2 {
		return ANOVATable{}, errors.New("need at least two groups")
	}
	if n <= k {
		return ANOVATable{}, fmt.Errorf("need more than %d observations, have %d", k, n)
	}

	grand := stat.Mean(y, nil)
	var ssBetween, ssWithin float64
	for _, g := range order {
		vals := members[g]
		m := stat.Mean(vals, nil)
		ssBetween += float64(len(vals)) * (m - grand) * (m - grand)
		for _, v := range vals {
			ssWithin += (v - m) * (v - m)
		}
	}

	dfB, dfW := float64(k-1), float64(n-k)
	f := (ssBetween / dfB) / (ssWithin / dfW)
	dist := distuv.F{D1: dfB, D2: dfW}
	return ANOVATable{
		Factor:   ANOVARow{Source: factor, SumSq: ssBetween, DF: dfB, F: f, PValue: dist.Survival(f)},
		Residual: ANOVARow{Source: ResidualName, SumSq: ssWithin, DF: dfW, F: math.NaN(), PValue: math.NaN()},
		Groups:   order,
	}, nil
}

// ANOVA runs Y ~ C(GRUPO) on the dataset.
func ANOVA(ds Dataset) (ANOVATable, error) {
	if len(ds.Group) == 0 {
		return ANOVATable{}, errors.New("anova needs column GRUPO")
	}
	return OneWayANOVA(ds.Y, ds.Group, "C(GRUPO)")
}
