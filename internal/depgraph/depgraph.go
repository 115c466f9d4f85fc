// Package depgraph builds the cross-file dependency graph: a directed
// multigraph over files (import edges) and functions (call edges,
// resolved when the callee is locally defined). Cycles are permitted;
// every traversal bounds itself with a visited set.
package depgraph

import "testmind/internal/analyzer"

// EdgeKind distinguishes an import edge from a call edge.
type EdgeKind string

const (
	EdgeImport EdgeKind = "imports"
	EdgeCall   EdgeKind = "calls"
)

// Edge is one directed relationship in the graph.
type Edge struct {
	From string
	To   string
	Kind EdgeKind
}

// Graph is a directed multigraph over file paths and qualified function
// names. Cycles are permitted; every traversal method bounds recursion
// with an explicit visited set.
type Graph struct {
	edges   []Edge
	outAdj  map[string][]Edge
	inAdj   map[string][]Edge
}

// New builds an empty Graph.
func New() *Graph {
	return &Graph{
		outAdj: map[string][]Edge{},
		inAdj:  map[string][]Edge{},
	}
}

// AddEdge inserts a directed edge. Duplicate edges are allowed — the
// graph is a multigraph.
func (g *Graph) AddEdge(from, to string, kind EdgeKind) {
	e := Edge{From: from, To: to, Kind: kind}
	g.edges = append(g.edges, e)
	g.outAdj[from] = append(g.outAdj[from], e)
	g.inAdj[to] = append(g.inAdj[to], e)
}

// AddFile registers a file's import edges and its functions' call edges,
// resolving a callee against the supplied set of locally-known function
// names (qualified the same way FunctionInfo.Signature.Name is).
func (g *Graph) AddFile(path string, imports []analyzer.ImportInfo, functions []analyzer.FunctionInfo, knownFunctions map[string]string) {
	for _, imp := range imports {
		g.AddEdge(path, imp.Path, EdgeImport)
	}
	for _, fn := range functions {
		caller := fn.Signature.Name
		for _, callName := range fn.CallNames {
			if calleeFile, ok := knownFunctions[callName]; ok {
				g.AddEdge(caller, callName, EdgeCall)
				_ = calleeFile
			}
		}
	}
}

// Edges returns every edge in the graph.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// HasCycle reports whether the graph (considering only edges of kind)
// contains a cycle reachable from any node, using an explicit
// recursion-stack set rather than unbounded recursion depth.
func (g *Graph) HasCycle(kind EdgeKind) bool {
	visited := map[string]bool{}
	onStack := map[string]bool{}

	var visit func(node string) bool
	visit = func(node string) bool {
		if onStack[node] {
			return true
		}
		if visited[node] {
			return false
		}
		visited[node] = true
		onStack[node] = true
		for _, e := range g.outAdj[node] {
			if e.Kind != kind {
				continue
			}
			if visit(e.To) {
				return true
			}
		}
		onStack[node] = false
		return false
	}

	nodes := g.nodes()
	for _, n := range nodes {
		if visit(n) {
			return true
		}
	}
	return false
}

func (g *Graph) nodes() []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range g.edges {
		if !seen[e.From] {
			seen[e.From] = true
			out = append(out, e.From)
		}
		if !seen[e.To] {
			seen[e.To] = true
			out = append(out, e.To)
		}
	}
	return out
}

// GetFunctionCallers returns the reverse-call-star closure of qualifiedName
// (everyone who (transitively) calls it), truncated at maxDepth and
// bounded by a visited set so cycles cannot cause infinite traversal.
func (g *Graph) GetFunctionCallers(qualifiedName string, maxDepth int) []string {
	visited := map[string]bool{qualifiedName: true}
	var result []string

	frontier := []string{qualifiedName}
	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, node := range frontier {
			for _, e := range g.inAdj[node] {
				if e.Kind != EdgeCall {
					continue
				}
				if visited[e.From] {
					continue
				}
				visited[e.From] = true
				result = append(result, e.From)
				next = append(next, e.From)
			}
		}
		frontier = next
	}
	return result
}
