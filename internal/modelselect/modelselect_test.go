package modelselect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinCapability(t *testing.T) {
	require.Equal(t, 6, MinCapability(ComplexitySimple))
	require.Equal(t, 9, MinCapability(ComplexityExpert))
}

func TestClassifyComplexity_Thresholds(t *testing.T) {
	require.Equal(t, ComplexitySimple, ClassifyComplexity(10))
	require.Equal(t, ComplexityModerate, ClassifyComplexity(45))
	require.Equal(t, ComplexityComplex, ClassifyComplexity(65))
	require.Equal(t, ComplexityExpert, ClassifyComplexity(90))
}

func TestSelect_FiltersByCapabilityAndContext(t *testing.T) {
	candidates := []Candidate{
		{Name: "weak", Capability: 4, ContextWindow: 100000, TaskMatch: 0.5},
		{Name: "strong", Capability: 8, ContextWindow: 100000, CostPerMTokIn: 3, TaskMatch: 0.9},
	}
	sel, ok := Select(candidates, Options{Complexity: ComplexityComplex, ContextTokens: 2000})
	require.True(t, ok)
	require.Equal(t, "strong", sel.Model)
}

func TestSelect_NoSurvivors(t *testing.T) {
	candidates := []Candidate{{Name: "weak", Capability: 2, ContextWindow: 100}}
	_, ok := Select(candidates, Options{Complexity: ComplexityExpert, ContextTokens: 2000})
	require.False(t, ok)
}

func TestSelect_PrioritizeCost(t *testing.T) {
	candidates := []Candidate{
		{Name: "cheap", Capability: 7, ContextWindow: 50000, CostPerMTokIn: 0.5, TaskMatch: 0.7},
		{Name: "expensive", Capability: 7, ContextWindow: 50000, CostPerMTokIn: 10, TaskMatch: 0.7},
	}
	sel, ok := Select(candidates, Options{Complexity: ComplexityModerate, ContextTokens: 1000, PrioritizeCost: true})
	require.True(t, ok)
	require.Equal(t, "cheap", sel.Model)
}
