package analyzer

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeComplexity_Branches(t *testing.T) {
	src := `package sample

func Classify(n int) string {
	if n < 0 {
		return "negative"
	} else if n == 0 {
		return "zero"
	}
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			continue
		}
	}
	return "positive"
}
`
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "sample.go", src, 0)
	require.NoError(t, err)

	var decl *ast.FuncDecl
	for _, d := range file.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			decl = fd
		}
	}
	require.NotNil(t, decl)

	start := fset.Position(decl.Pos()).Line
	end := fset.Position(decl.End()).Line
	report := ComputeComplexity(decl.Body, start, end)
	require.Greater(t, report.Cyclomatic, 1)
	require.Greater(t, report.LOC, 0)
}

func TestIsTestFile(t *testing.T) {
	require.True(t, IsTestFile("foo_test.go"))
	require.False(t, IsTestFile("foo.go"))
}
