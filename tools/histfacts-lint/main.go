// histfacts-lint is a custom static analyzer for histfacts retry and cancellation patterns.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/ersonp/histfacts/tools/histfacts-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
