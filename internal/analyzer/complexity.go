package analyzer

import (
	"go/ast"
	"go/token"
	"math"
	"strings"

	"testmind/internal/model"
)

// ComputeComplexity derives cyclomatic, cognitive, LOC and a
// maintainability index for one function body.
//
// Cyclomatic complexity is decision points + 1. Cognitive complexity
// weights decision points by their nesting depth, so a branch inside two
// enclosing branches costs more than one at the top level.
func ComputeComplexity(body *ast.BlockStmt, startLine, endLine int) model.ComplexityReport {
	loc := endLine - startLine + 1
	if loc < 0 {
		loc = 0
	}
	if body == nil {
		return model.ComplexityReport{Cyclomatic: 1, Cognitive: 0, LOC: loc, MaintainabilityIndex: 100}
	}

	cyclomatic := 1
	cognitive := 0

	var walk func(n ast.Node, depth int)
	walk = func(n ast.Node, depth int) {
		switch s := n.(type) {
		case *ast.IfStmt:
			cyclomatic++
			cognitive += 1 + depth
			walk(s.Body, depth+1)
			if s.Else != nil {
				walk(s.Else, depth+1)
			}
			return
		case *ast.ForStmt:
			cyclomatic++
			cognitive += 1 + depth
			walk(s.Body, depth+1)
			return
		case *ast.RangeStmt:
			cyclomatic++
			cognitive += 1 + depth
			walk(s.Body, depth+1)
			return
		case *ast.SwitchStmt:
			cyclomatic += countCaseClauses(s.Body)
			cognitive += 1 + depth
			walk(s.Body, depth+1)
			return
		case *ast.TypeSwitchStmt:
			cyclomatic += countCaseClauses(s.Body)
			cognitive += 1 + depth
			walk(s.Body, depth+1)
			return
		case *ast.SelectStmt:
			cyclomatic += countCaseClauses(s.Body)
			cognitive += 1 + depth
			walk(s.Body, depth+1)
			return
		}
		ast.Inspect(n, func(child ast.Node) bool {
			if child == n || child == nil {
				return true
			}
			switch child.(type) {
			case *ast.IfStmt, *ast.ForStmt, *ast.RangeStmt, *ast.SwitchStmt, *ast.TypeSwitchStmt, *ast.SelectStmt:
				walk(child, depth)
				return false
			}
			return true
		})
	}
	walk(body, 0)

	// Short-circuit operators are decision points wherever they appear,
	// including inside conditions the structural walk never descends into.
	ast.Inspect(body, func(n ast.Node) bool {
		if b, ok := n.(*ast.BinaryExpr); ok && (b.Op == token.LAND || b.Op == token.LOR) {
			cyclomatic++
		}
		return true
	})

	halstead := math.Log2(float64(loc) + 1)
	mi := 171 - 5.2*halstead - 0.23*float64(cyclomatic) - 16.2*math.Log(float64(loc)+1)
	mi = mi * 100 / 171
	if mi < 0 {
		mi = 0
	}
	if mi > 100 {
		mi = 100
	}

	return model.ComplexityReport{
		Cyclomatic:           cyclomatic,
		Cognitive:            cognitive,
		LOC:                  loc,
		MaintainabilityIndex: mi,
	}
}

func countCaseClauses(body *ast.BlockStmt) int {
	if body == nil {
		return 0
	}
	n := 0
	for _, stmt := range body.List {
		switch stmt.(type) {
		case *ast.CaseClause, *ast.CommClause:
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return n - 1 // one case is the baseline path already counted by cyclomatic's +1
}

// TestFileKeywords lists the file-path suffixes that IsTestFile treats
// as marking a test file.
var TestFileKeywords = []string{"_test.go"}

// IsTestFile reports whether path looks like a test file.
func IsTestFile(path string) bool {
	for _, kw := range TestFileKeywords {
		if strings.HasSuffix(path, kw) {
			return true
		}
	}
	return false
}
