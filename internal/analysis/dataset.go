// internal/analysis/dataset.go
// Package analysis holds the Go implementations of the benchmarked
// statistical analyses: ordinary least squares and one-way ANOVA.
package analysis

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Dataset is the shared input of every runtime. Columns that are absent
// from the file are left nil.
type Dataset struct {
	Y     []float64
	X1    []float64
	X2    []float64
	Group []string
}

// Len is the number of observations.
func (d Dataset) Len() int { return len(d.Y) }

var columnAliases = map[string]string{
	"Y":     "Y",
	"X1":    "X1",
	"X2":    "X2",
	"GRUPO": "GRUPO",
	"GROUP": "GRUPO",
}

// LoadDataset reads data.csv style input from path.
func LoadDataset(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer f.Close()
	ds, err := ReadDataset(f)
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ReadDataset parses CSV with a header row. Column Y is required; X1, X2
// and GRUPO (or GROUP) are read when present.
func ReadDataset(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return Dataset{}, errors.New("empty dataset")
	}
	if err != nil {
		return Dataset{}, err
	}

	cols := make(map[string]int)
	for i, name := range header {
		if canon, ok := columnAliases[strings.ToUpper(strings.TrimSpace(name))]; ok {
			if _, seen := cols[canon]; !seen {
				cols[canon] = i
			}
		}
	}
	if _, ok := cols["Y"]; !ok {
		return Dataset{}, errors.New("column Y not found")
	}

	var ds Dataset
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return Dataset{}, err
		}
		for _, name := range []string{"Y", "X1", "X2"} {
			i, ok := cols[name]
			if !ok {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil {
				return Dataset{}, fmt.Errorf("line %d: column %s: %w", line, name, err)
			}
			switch name {
			case "Y":
				ds.Y = append(ds.Y, v)
			case "X1":
				ds.X1 = append(ds.X1, v)
			case "X2":
				ds.X2 = append(ds.X2, v)
			}
		}
		if i, ok := cols["GRUPO"]; ok {
			ds.Group = append(ds.Group, strings.TrimSpace(rec[i]))
		}
	}
	if ds.Len() == 0 {
		return Dataset{}, errors.New("dataset has no rows")
	}
	return ds, nil
}
