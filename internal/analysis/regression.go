// internal/analysis/regression.go
// Package: analysis
package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// InterceptName labels the constant term, as in R and statsmodels.
const InterceptName = "Intercept"

// maxCondition rejects designs with (near) collinear predictors.
const maxCondition = 1e12

// Coefficient is one row of a fitted linear model.
type Coefficient struct {
	Name   string
	Coef   float64
	StdErr float64
	T      float64
	PValue float64
}

// OLSResult is a fitted ordinary least squares model.
type OLSResult struct {
	Coefficients []Coefficient
	N            int
	DFResid      int
	RSquared     float64
	AdjRSquared  float64
	ResidualSE   float64
}

// OLS fits y = b0 + b1*x1 + ... + bk*xk by QR decomposition of the design
// matrix. names labels the predictors and must match len(predictors).
func OLS(y []float64, predictors [][]float64, names []string) (OLSResult, error) {
	n := len(y)
	p := len(predictors) + 1
	if len(names) != len(predictors) {
		return OLSResult{}, fmt.Errorf("%d names for %d predictors", len(names), len(predictors))
	}
	for i, x := range predictors {
		if len(x) != n {
			return OLSResult{}, fmt.Errorf("predictor %s has %d values, want %d", names[i], len(x), n)
		}
	}
	if n <= p {
		return OLSResult{}, fmt.Errorf("need more than %d observations, have %d", p, n)
	}

	design := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		for j, x := range predictors {
			design.Set(i, j+1, x[i])
		}
	}
	yv := mat.NewVecDense(n, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(design)
	if c := qr.Cond(); math.IsInf(c, 1) || c > maxCondition {
		return OLSResult{}, errors.New("design matrix is singular")
	}
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, yv); err != nil {
		return OLSResult{}, fmt.Errorf("solve least squares: %w", err)
	}

	var fitted mat.VecDense
	fitted.MulVec(design, beta.ColView(0))
	resid := make([]float64, n)
	for i := range resid {
		resid[i] = y[i] - fitted.AtVec(i)
	}
	rss := floats.Dot(resid, resid)
	dfResid := n - p
	sigma2 := rss / float64(dfResid)

	// (XᵀX)⁻¹ scaled by the residual variance gives the coefficient covariance.
	xtx := mat.NewSymDense(p, nil)
	xtx.SymOuterK(1, design.T())
	var chol mat.Cholesky
	if ok := chol.Factorize(xtx); !ok {
		return OLSResult{}, errors.New("design matrix is singular")
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return OLSResult{}, fmt.Errorf("invert normal matrix: %w", err)
	}

	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dfResid)}
	res := OLSResult{N: n, DFResid: dfResid, ResidualSE: math.Sqrt(sigma2)}
	for j := 0; j < p; j++ {
		c := Coefficient{Name: InterceptName, Coef: beta.At(j, 0)}
		if j > 0 {
			c.Name = names[j-1]
		}
		c.StdErr = math.Sqrt(sigma2 * inv.At(j, j))
		c.T = c.Coef / c.StdErr
		c.PValue = 2 * tdist.Survival(math.Abs(c.T))
		res.Coefficients = append(res.Coefficients, c)
	}

	mean := stat.Mean(y, nil)
	var tss float64
	for _, v := range y {
		tss += (v - mean) * (v - mean)
	}
	res.RSquared = 1 - rss/tss
	res.AdjRSquared = 1 - (1-res.RSquared)*float64(n-1)/float64(dfResid)
	return res, nil
}

// Regression fits Y ~ X1 + X2 on the dataset.
func Regression(ds Dataset) (OLSResult, error) {
	if len(ds.X1) == 0 || len(ds.X2) == 0 {
		return OLSResult{}, errors.New("regression needs columns X1 and X2")
	}
	return OLS(ds.Y, [][]float64{ds.X1, ds.X2}, []string{"X1", "X2"})
}
