// Package analyzers provides all custom static analyzers for histfacts.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/ersonp/histfacts/tools/histfacts-lint/analyzers/sleepctx"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		sleepctx.Analyzer,
	}
}
