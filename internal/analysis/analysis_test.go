package analysis

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestOLS_RecoversExactCoefficients(t *testing.T) {
	x1 := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	x2 := []float64{2, 1, 4, 3, 6, 5, 8, 9}
	y := make([]float64, len(x1))
	for i := range y {
		y[i] = 1.5 + 2*x1[i] - 3*x2[i]
	}

	res, err := OLS(y, [][]float64{x1, x2}, []string{"X1", "X2"})
	require.NoError(t, err)
	require.Len(t, res.Coefficients, 3)

	assert.Equal(t, InterceptName, res.Coefficients[0].Name)
	assert.InDelta(t, 1.5, res.Coefficients[0].Coef, 1e-9)
	assert.Equal(t, "X1", res.Coefficients[1].Name)
	assert.InDelta(t, 2.0, res.Coefficients[1].Coef, 1e-9)
	assert.InDelta(t, -3.0, res.Coefficients[2].Coef, 1e-9)
	assert.InDelta(t, 1.0, res.RSquared, 1e-9)
	assert.Equal(t, 5, res.DFResid)
}

func TestOLS_SimpleRegression(t *testing.T) {
	// slope 0.6, intercept 2.2, RSS 2.4, Sxx 10
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 5, 4, 5}

	res, err := OLS(y, [][]float64{x}, []string{"X"})
	require.NoError(t, err)

	assert.InDelta(t, 2.2, res.Coefficients[0].Coef, 1e-9)
	assert.InDelta(t, 0.6, res.Coefficients[1].Coef, 1e-9)
	assert.InDelta(t, math.Sqrt(0.08), res.Coefficients[1].StdErr, 1e-9)
	assert.InDelta(t, 0.6/math.Sqrt(0.08), res.Coefficients[1].T, 1e-9)
	assert.InDelta(t, 0.6, res.RSquared, 1e-9)
	assert.InDelta(t, 1-0.4*4/3, res.AdjRSquared, 1e-9)
	p := res.Coefficients[1].PValue
	assert.True(t, p > 0.1 && p < 0.2, "p-value %v", p)
}

func TestOLS_TinyPValueKeepsPrecision(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	y := make([]float64, len(x))
	for i := range y {
		y[i] = 1 + 2*x[i]
		if i%2 == 0 {
			y[i] += 0.001
		} else {
			y[i] -= 0.001
		}
	}

	res, err := OLS(y, [][]float64{x}, []string{"X"})
	require.NoError(t, err)
	p := res.Coefficients[1].PValue
	assert.Greater(t, p, 0.0)
	assert.Less(t, p, 1e-12)
}

func TestOLS_Errors(t *testing.T) {
	_, err := OLS([]float64{1, 2}, [][]float64{{1, 2}}, []string{"X"})
	assert.Error(t, err)

	_, err = OLS([]float64{1, 2, 3, 4}, [][]float64{{1, 2, 3}}, []string{"X"})
	assert.Error(t, err)

	_, err = OLS([]float64{1, 2, 3, 4}, [][]float64{{1, 2, 3, 4}}, nil)
	assert.Error(t, err)

	// collinear predictors
	_, err = OLS([]float64{1, 2, 3, 4, 5}, [][]float64{{1, 2, 3, 4, 5}, {2, 4, 6, 8, 10}}, []string{"A", "B"})
	assert.Error(t, err)
}

func TestOneWayANOVA(t *testing.T) {
	y := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	groups := []string{"a", "a", "a", "b", "b", "b", "c", "c", "c"}

	tbl, err := OneWayANOVA(y, groups, "C(GRUPO)")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, tbl.Groups)
	assert.InDelta(t, 54.0, tbl.Factor.SumSq, 1e-9)
	assert.InDelta(t, 6.0, tbl.Residual.SumSq, 1e-9)
	assert.Equal(t, 2.0, tbl.Factor.DF)
	assert.Equal(t, 6.0, tbl.Residual.DF)
	assert.InDelta(t, 27.0, tbl.Factor.F, 1e-9)
	assert.True(t, tbl.Factor.PValue > 0 && tbl.Factor.PValue < 0.01)
	assert.True(t, math.IsNaN(tbl.Residual.F))
	assert.True(t, math.IsNaN(tbl.Residual.PValue))
}

func TestOneWayANOVA_TinyPValueKeepsPrecision(t *testing.T) {
	// group means 0 and 90, within SS 5: F = 32400 on (1, 8), i.e. t = 180
	y := []float64{-1, -0.5, 0, 0.5, 1, 89, 89.5, 90, 90.5, 91}
	groups := []string{"a", "a", "a", "a", "a", "b", "b", "b", "b", "b"}

	tbl, err := OneWayANOVA(y, groups, "C(GRUPO)")
	require.NoError(t, err)
	require.InDelta(t, 32400.0, tbl.Factor.F, 1e-6)

	p := tbl.Factor.PValue
	assert.Greater(t, p, 0.0)
	assert.Less(t, p, 1e-14)
	want := 2 * distuv.StudentsT{Mu: 0, Sigma: 1, Nu: 8}.Survival(180)
	assert.InEpsilon(t, want, p, 1e-6)
}

func TestOneWayANOVA_Errors(t *testing.T) {
	_, err := OneWayANOVA([]float64{1, 2, 3}, []string{"a", "a", "a"}, "g")
	assert.Error(t, err)

	_, err = OneWayANOVA([]float64{1, 2}, []string{"a", "b"}, "g")
	assert.Error(t, err)

	_, err = OneWayANOVA([]float64{1, 2, 3}, []string{"a", "b"}, "g")
	assert.Error(t, err)
}

func TestReadDataset(t *testing.T) {
	in := "id,Y,X1,X2,GROUP\n1,3.5,1,2,A\n2,4.0, 2,3,B\n3,5.5,3,1,A\n"
	ds, err := ReadDataset(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []float64{3.5, 4.0, 5.5}, ds.Y)
	assert.Equal(t, []float64{1, 2, 3}, ds.X1)
	assert.Equal(t, []float64{2, 3, 1}, ds.X2)
	assert.Equal(t, []string{"A", "B", "A"}, ds.Group)
}

func TestReadDataset_Errors(t *testing.T) {
	cases := map[string]string{
		"Empty":     "",
		"NoY":       "X1,X2\n1,2\n",
		"NoRows":    "Y,X1\n",
		"BadNumber": "Y,X1\n1,abc\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadDataset(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestAnalysesOnDataset(t *testing.T) {
	ds := Dataset{Y: []float64{1, 2, 3, 4}}
	_, err := Regression(ds)
	assert.Error(t, err)
	_, err = ANOVA(ds)
	assert.Error(t, err)

	ds.Group = []string{"x", "x", "y", "y"}
	tbl, err := ANOVA(ds)
	require.NoError(t, err)
	assert.Equal(t, "C(GRUPO)", tbl.Factor.Source)
}

func TestWriteCSV(t *testing.T) {
	res := OLSResult{Coefficients: []Coefficient{
		{Name: InterceptName, Coef: 2.2, StdErr: 0.5, PValue: 0.03},
		{Name: "X1", Coef: 0.6, StdErr: 0.25, PValue: 0.125},
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteCoefficientsCSV(&buf, res))
	assert.Equal(t, ",coef,std_err,pvalue\nIntercept,2.2,0.5,0.03\nX1,0.6,0.25,0.125\n", buf.String())

	tbl, err := OneWayANOVA([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, []string{"a", "a", "a", "b", "b", "b", "c", "c", "c"}, "C(GRUPO)")
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, WriteANOVACSV(&buf, tbl))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, ",sum_sq,df,F,PR(>F)", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "C(GRUPO),54,2,27,"))
	assert.Equal(t, "Residual,6,6,,", lines[2])

	path := filepath.Join(t.TempDir(), ANOVAFile)
	require.NoError(t, SaveCSV(path, func(w io.Writer) error { return WriteANOVACSV(w, tbl) }))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))

	assert.Greater(t, PeakMemoryMB(), 0.0)
}
