package depgraph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGraph_HasCycle(t *testing.T) {
	g := New()
	g.AddEdge("a", "b", EdgeCall)
	g.AddEdge("b", "c", EdgeCall)
	require.False(t, g.HasCycle(EdgeCall))

	g.AddEdge("c", "a", EdgeCall)
	require.True(t, g.HasCycle(EdgeCall))
}

func TestGraph_GetFunctionCallers(t *testing.T) {
	g := New()
	g.AddEdge("pkg.Caller1", "pkg.Target", EdgeCall)
	g.AddEdge("pkg.Caller2", "pkg.Caller1", EdgeCall)
	// A cycle should not cause unbounded recursion.
	g.AddEdge("pkg.Target", "pkg.Caller2", EdgeCall)

	callers := g.GetFunctionCallers("pkg.Target", 5)
	require.Contains(t, callers, "pkg.Caller1")
	require.Contains(t, callers, "pkg.Caller2")
}
