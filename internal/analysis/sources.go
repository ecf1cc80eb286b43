// internal/analysis/sources.go
// Package: analysis
package analysis

import "embed"

// Sources holds the Go implementations benchmarked by the default task
// list, so their line counts are available without a source checkout.
//
//go:embed regression.go anova.go
var Sources embed.FS
