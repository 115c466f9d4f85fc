package locator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectorFor_PrefersEarliestAvailableStrategy(t *testing.T) {
	d := Descriptor{TestID: "submit-button", CSS: ".btn.primary"}

	selector, ok := selectorFor(StrategyID, d)
	require.False(t, ok)
	require.Empty(t, selector)

	selector, ok = selectorFor(StrategyTestID, d)
	require.True(t, ok)
	require.Equal(t, `[data-testid="submit-button"]`, selector)
}

func TestSelectorFor_AllKinds(t *testing.T) {
	d := Descriptor{
		ID: "go", TestID: "go-td", Role: "button", ARIA: "submit",
		CSS: ".x", XPath: "//button", Text: "Submit",
	}
	for _, strat := range waterfall {
		_, ok := selectorFor(strat, d)
		require.True(t, ok, "expected strategy %s to resolve a selector", strat)
	}
}

func TestConfidenceOf_DescendingWithWaterfallPriority(t *testing.T) {
	for i := 0; i < len(waterfall)-1; i++ {
		require.GreaterOrEqual(t, confidenceOf[waterfall[i]], confidenceOf[waterfall[i+1]],
			"strategy %s should have confidence >= %s", waterfall[i], waterfall[i+1])
	}
}

func TestIsFragile_ThresholdBoundary(t *testing.T) {
	require.False(t, IsFragile(&ElementHandle{Confidence: DefaultConfidenceThreshold}))
	require.True(t, IsFragile(&ElementHandle{Confidence: DefaultConfidenceThreshold - 0.01}))
}
