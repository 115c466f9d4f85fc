package analyzer

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"
	"unicode"

	"testmind/internal/model"
)

// FunctionInfo is one parsed function/method, at whatever nesting depth
// it was found — nested functions are reported at every depth, per the
// AST Analyzer contract.
type FunctionInfo struct {
	Signature  model.FunctionSignature
	StartLine  int
	EndLine    int
	IsExported bool
	IsMethod   bool
	Receiver   string
	Body       string
	CallNames  []string // identifiers called in the body, for the dependency/side-effect passes
}

// GoParser implements Parser for Go source via go/ast.
type GoParser struct{}

// NewGoParser constructs the Go grammar parser.
func NewGoParser() *GoParser { return &GoParser{} }

func (p *GoParser) Language() string { return "go" }

func (p *GoParser) SupportedExtensions() []string { return []string{".go"} }

func (p *GoParser) Parse(path string, content []byte) (*FileAnalysis, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, content, parser.ParseComments)
	analysis := &FileAnalysis{FilePath: path}
	if err != nil {
		// A parse error is reported, not returned: best-effort partial
		// results are still produced when possible.
		analysis.Errors = parseErrorsOf(err)
	}
	if file == nil {
		return analysis, nil
	}

	for _, imp := range file.Imports {
		info := ImportInfo{
			Path:      strings.Trim(imp.Path.Value, `"`),
			StartLine: fset.Position(imp.Pos()).Line,
		}
		if imp.Name != nil {
			info.Alias = imp.Name.Name
		}
		analysis.Imports = append(analysis.Imports, info)
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			fn := p.parseFuncDecl(fset, d, path)
			analysis.Functions = append(analysis.Functions, fn)
			if fn.IsExported && !fn.IsMethod {
				analysis.Exports = append(analysis.Exports, fn.Signature.Name)
			}
			collectNestedFuncs(fset, d.Body, path, fn.Signature.Name, &analysis.Functions)
		case *ast.GenDecl:
			if d.Tok == token.TYPE {
				for _, spec := range d.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					ci := ClassInfo{
						Name:       ts.Name.Name,
						StartLine:  fset.Position(ts.Pos()).Line,
						EndLine:    fset.Position(ts.End()).Line,
						IsExported: isExported(ts.Name.Name),
					}
					analysis.Classes = append(analysis.Classes, ci)
					if ci.IsExported {
						analysis.Exports = append(analysis.Exports, ci.Name)
					}
				}
			} else if d.Tok == token.VAR || d.Tok == token.CONST {
				// Function literals assigned to a var/const name are
				// indexed under the assignment name, the closest Go
				// analog to an exported arrow function.
				for _, spec := range d.Specs {
					vs, ok := spec.(*ast.ValueSpec)
					if !ok {
						continue
					}
					for i, name := range vs.Names {
						if i >= len(vs.Values) {
							continue
						}
						lit, ok := vs.Values[i].(*ast.FuncLit)
						if !ok {
							continue
						}
						fn := p.parseFuncLit(fset, lit, name.Name, path)
						analysis.Functions = append(analysis.Functions, fn)
						if isExported(name.Name) {
							analysis.Exports = append(analysis.Exports, name.Name)
						}
					}
				}
			}
		}
	}

	// Second pass: attach methods to their receiver class.
	methodsByReceiver := map[string][]string{}
	for _, fn := range analysis.Functions {
		if fn.IsMethod {
			methodsByReceiver[fn.Receiver] = append(methodsByReceiver[fn.Receiver], fn.Signature.Name)
		}
	}
	for i := range analysis.Classes {
		analysis.Classes[i].Methods = methodsByReceiver[analysis.Classes[i].Name]
	}

	return analysis, nil
}

func parseErrorsOf(err error) []ParseError {
	var list scanner.ErrorList
	if errors.As(err, &list) {
		out := make([]ParseError, 0, len(list))
		for _, e := range list {
			out = append(out, ParseError{Line: e.Pos.Line, Column: e.Pos.Column, Message: e.Msg})
		}
		return out
	}
	return []ParseError{{Message: err.Error()}}
}

func (p *GoParser) parseFuncDecl(fset *token.FileSet, decl *ast.FuncDecl, path string) FunctionInfo {
	name := decl.Name.Name
	receiver := ""
	isMethod := false
	if decl.Recv != nil && len(decl.Recv.List) > 0 {
		isMethod = true
		receiver = extractReceiverTypeInfo(decl.Recv.List[0].Type)
	}

	params := extractParams(decl.Type.Params)
	returnType := extractReturnType(decl.Type.Results)
	isAsync := containsGoRoutineCall(decl.Body)

	doc := ""
	if decl.Doc != nil {
		doc = strings.TrimSpace(decl.Doc.Text())
	}

	body := ""
	start := fset.Position(decl.Pos()).Line
	end := fset.Position(decl.End()).Line

	sig := model.FunctionSignature{
		Name:          name,
		FilePath:      path,
		Parameters:    params,
		ReturnType:    returnType,
		IsAsync:       isAsync,
		Documentation: doc,
	}

	return FunctionInfo{
		Signature:  sig,
		StartLine:  start,
		EndLine:    end,
		IsExported: isExported(name),
		IsMethod:   isMethod,
		Receiver:   receiver,
		Body:       body,
		CallNames:  collectCallNames(decl.Body),
	}
}

func (p *GoParser) parseFuncLit(fset *token.FileSet, lit *ast.FuncLit, name, path string) FunctionInfo {
	params := extractParams(lit.Type.Params)
	returnType := extractReturnType(lit.Type.Results)
	return FunctionInfo{
		Signature: model.FunctionSignature{
			Name:       name,
			FilePath:   path,
			Parameters: params,
			ReturnType: returnType,
			IsAsync:    containsGoRoutineCall(lit.Body),
		},
		StartLine:  fset.Position(lit.Pos()).Line,
		EndLine:    fset.Position(lit.End()).Line,
		IsExported: isExported(name),
		CallNames:  collectCallNames(lit.Body),
	}
}

// collectNestedFuncs walks a function body looking for nested func
// literals assigned to names, at every nesting depth, and reports each
// one as its own FunctionInfo.
func collectNestedFuncs(fset *token.FileSet, body *ast.BlockStmt, path, parentName string, out *[]FunctionInfo) {
	if body == nil {
		return
	}
	ast.Inspect(body, func(n ast.Node) bool {
		assign, ok := n.(*ast.AssignStmt)
		if !ok {
			return true
		}
		for i, rhs := range assign.Rhs {
			lit, ok := rhs.(*ast.FuncLit)
			if !ok || i >= len(assign.Lhs) {
				continue
			}
			ident, ok := assign.Lhs[i].(*ast.Ident)
			if !ok {
				continue
			}
			name := parentName + "." + ident.Name
			*out = append(*out, FunctionInfo{
				Signature: model.FunctionSignature{
					Name:       name,
					FilePath:   path,
					Parameters: extractParams(lit.Type.Params),
					ReturnType: extractReturnType(lit.Type.Results),
					IsAsync:    containsGoRoutineCall(lit.Body),
				},
				StartLine: fset.Position(lit.Pos()).Line,
				EndLine:   fset.Position(lit.End()).Line,
				CallNames: collectCallNames(lit.Body),
			})
			collectNestedFuncs(fset, lit.Body, path, name, out)
		}
		return true
	})
}

func extractParams(fields *ast.FieldList) []model.Parameter {
	if fields == nil {
		return nil
	}
	var params []model.Parameter
	for _, f := range fields.List {
		typeStr := exprToString(f.Type)
		optional := strings.HasPrefix(typeStr, "*")
		if len(f.Names) == 0 {
			params = append(params, model.Parameter{Name: "_", Type: typeStr, Optional: optional})
			continue
		}
		for _, n := range f.Names {
			params = append(params, model.Parameter{Name: n.Name, Type: typeStr, Optional: optional})
		}
	}
	return params
}

func extractReturnType(fields *ast.FieldList) string {
	if fields == nil || len(fields.List) == 0 {
		return ""
	}
	var parts []string
	for _, f := range fields.List {
		parts = append(parts, exprToString(f.Type))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// exprToString renders a type expression in source-like form, keeping
// pointer "*", variadic "..." and slice "[]" prefixes. It is not
// verbatim: array lengths are dropped ("[]T"), and interface and func
// types render as "interface{}" and "func(...)".
func exprToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + exprToString(t.X)
	case *ast.ArrayType:
		return "[]" + exprToString(t.Elt)
	case *ast.SelectorExpr:
		return exprToString(t.X) + "." + t.Sel.Name
	case *ast.Ellipsis:
		return "..." + exprToString(t.Elt)
	case *ast.MapType:
		return fmt.Sprintf("map[%s]%s", exprToString(t.Key), exprToString(t.Value))
	case *ast.InterfaceType:
		return "interface{}"
	case *ast.FuncType:
		return "func(...)"
	case *ast.ChanType:
		return "chan " + exprToString(t.Value)
	default:
		return fmt.Sprintf("%T", expr)
	}
}

func extractReceiverTypeInfo(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return exprToString(t.X)
	default:
		return exprToString(expr)
	}
}

func isExported(name string) bool {
	if name == "" {
		return false
	}
	return unicode.IsUpper(rune(name[0]))
}

// containsGoRoutineCall detects a "go " statement anywhere in body — the
// closest Go analog to an async function, used to populate IsAsync.
func containsGoRoutineCall(body *ast.BlockStmt) bool {
	if body == nil {
		return false
	}
	found := false
	ast.Inspect(body, func(n ast.Node) bool {
		if _, ok := n.(*ast.GoStmt); ok {
			found = true
			return false
		}
		return true
	})
	return found
}

func collectCallNames(body *ast.BlockStmt) []string {
	if body == nil {
		return nil
	}
	var names []string
	ast.Inspect(body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		names = append(names, callExprName(call))
		return true
	})
	return names
}

func callExprName(call *ast.CallExpr) string {
	switch fn := call.Fun.(type) {
	case *ast.Ident:
		return fn.Name
	case *ast.SelectorExpr:
		if id, ok := fn.X.(*ast.Ident); ok {
			return id.Name + "." + fn.Sel.Name
		}
		return fn.Sel.Name
	default:
		return ""
	}
}
