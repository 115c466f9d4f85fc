package analyzer

import (
	"go/ast"
	"go/parser"
	"go/token"
	"hash/fnv"
	"strconv"

	"testmind/internal/model"
)

// BuildFunctionContext assembles the composite FunctionContext for one
// function found in a parsed file: its signature, dependencies,
// callers, side effects and complexity.
func BuildFunctionContext(path string, content []byte, fn FunctionInfo, localNames map[string]bool, allCallers map[string][]string) (model.FunctionContext, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, content, 0)
	complexity := model.ComplexityReport{Cyclomatic: 1}
	if err == nil && file != nil {
		ast.Inspect(file, func(n ast.Node) bool {
			decl, ok := n.(*ast.FuncDecl)
			if !ok || decl.Name.Name != lastSegment(fn.Signature.Name) {
				return true
			}
			start := fset.Position(decl.Pos()).Line
			end := fset.Position(decl.End()).Line
			complexity = ComputeComplexity(decl.Body, start, end)
			return false
		})
	}

	return model.FunctionContext{
		Signature:     fn.Signature,
		Dependencies:  InferDependencies(fn, localNames),
		Callers:       allCallers[fn.Signature.Name],
		SideEffects:   InferSideEffects(fn, nil),
		ExistingTests: nil,
		Coverage:      0,
		Complexity:    complexity,
	}, nil
}

func lastSegment(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}

// Chunk produces a CodeChunk for fn, slicing content by line range.
func Chunk(path string, lines []string, fn FunctionInfo) model.CodeChunk {
	start := fn.StartLine
	end := fn.EndLine
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	body := ""
	if start <= end && start >= 1 {
		for i := start - 1; i < end && i < len(lines); i++ {
			if i >= start-1 {
				if body != "" {
					body += "\n"
				}
				body += lines[i]
			}
		}
	}
	kind := model.KindFunction
	if fn.IsMethod {
		kind = model.KindMethod
	}
	return model.CodeChunk{
		ID:        chunkID(path, fn.Signature.Name, body),
		FilePath:  path,
		Content:   body,
		StartLine: start,
		EndLine:   end,
		Kind:      kind,
		Name:      fn.Signature.Name,
	}
}

func chunkID(path, name, content string) string {
	h := fnv.New64a()
	h.Write([]byte(content))
	return path + "#" + name + "@" + strconv.FormatUint(h.Sum64(), 16)
}
