package sleepctx_test

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/ersonp/histfacts/tools/histfacts-lint/analyzers/sleepctx"
)

func TestAnalyzer(t *testing.T) {
	testdata := analysistest.TestData()
	analysistest.Run(t, testdata, sleepctx.Analyzer, "a")
}
