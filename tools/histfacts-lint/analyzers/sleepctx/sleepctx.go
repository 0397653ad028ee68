// Package sleepctx detects time.Sleep calls in non-test code.
package sleepctx

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports time.Sleep calls. Retry delays must be interruptible by
// context cancellation, so waits go through a timer and a select on ctx.Done.
var Analyzer = &analysis.Analyzer{
	Name:     "sleepctx",
	Doc:      "detects time.Sleep calls that cannot be interrupted by context cancellation",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		call := n.(*ast.CallExpr)

		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return
		}

		fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
		if !ok || fn.Pkg() == nil || fn.Pkg().Path() != "time" || fn.Name() != "Sleep" {
			return
		}

		if strings.HasSuffix(pass.Fset.File(call.Pos()).Name(), "_test.go") {
			return
		}

		pass.Reportf(call.Pos(),
			"time.Sleep ignores cancellation - wait on a timer and ctx.Done instead")
	})

	return nil, nil
}
