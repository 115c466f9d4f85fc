package heal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"testmind/internal/classify"
	"testmind/internal/locator"
)

func TestHeal_RealBugNeverAutoheals(t *testing.T) {
	outcome := Heal(context.Background(), "TestCheckout", "AssertionError: expected 150 to equal 145", nil, locator.Descriptor{}, Options{AutoFix: true})
	require.Equal(t, classify.Classify("AssertionError: expected 150 to equal 145").FailureType, outcome.Classification.FailureType)
	require.False(t, outcome.Located)
	require.False(t, outcome.Repaired)
}

func TestHeal_SkipsLocateWhenAutoFixDisabled(t *testing.T) {
	outcome := Heal(context.Background(), "TestSubmit", "Element not found: .submit", nil, locator.Descriptor{ID: "submit"}, Options{AutoFix: false})
	require.False(t, outcome.Located)
	require.False(t, outcome.Repaired)
}

func TestBatchReport_GroupsRepairedAndUnrepaired(t *testing.T) {
	newDesc := locator.Descriptor{TestID: "submit-btn"}
	outcomes := []Outcome{
		{TestName: "TestA", Classification: classify.Classify("Element not found: .submit"), Repaired: true, NewDescriptor: &newDesc},
		{TestName: "TestB", Classification: classify.Classify("AssertionError: expected 150 to equal 145")},
	}
	report := BatchReport(outcomes, 250*time.Millisecond)
	require.Contains(t, report, "Repaired")
	require.Contains(t, report, "TestA")
	require.Contains(t, report, "Needs manual review")
	require.Contains(t, report, "TestB")
}
