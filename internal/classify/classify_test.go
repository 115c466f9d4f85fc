package classify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"testmind/internal/model"
)

func TestClassify_StaleSelectorIsTestFragility(t *testing.T) {
	fc := Classify("Element not found: .submit")
	require.Equal(t, model.FailureTestFragility, fc.FailureType)
	require.GreaterOrEqual(t, fc.Confidence, 0.7)
	require.True(t, IsAutoHealable(fc))
}

func TestClassify_AssertionMismatchIsRealBug(t *testing.T) {
	fc := Classify("AssertionError: expected 150 to equal 145")
	require.Equal(t, model.FailureRealBug, fc.FailureType)
	require.False(t, IsAutoHealable(fc))
}

func TestClassify_Environment(t *testing.T) {
	fc := Classify("connect ECONNREFUSED 127.0.0.1:5432")
	require.Equal(t, model.FailureEnvironment, fc.FailureType)
}

func TestClassify_Flaky(t *testing.T) {
	fc := Classify("this test is flaky, passed on retry")
	require.Equal(t, model.FailureFlaky, fc.FailureType)
	require.True(t, fc.IsFlaky)
}

func TestClassify_Unknown(t *testing.T) {
	fc := Classify("something entirely unrecognizable happened")
	require.Equal(t, model.FailureUnknown, fc.FailureType)
}

func TestClassifyFailure_MixedHistoryIsFlaky(t *testing.T) {
	fc := ClassifyFailure(Failure{
		ErrorMessage: "AssertionError: expected 150 to equal 145",
		PreviousRuns: []bool{true, false, true},
	})
	require.Equal(t, model.FailureFlaky, fc.FailureType)
	require.True(t, fc.IsFlaky)
}

func TestClassifyFailure_ConsistentHistoryIsNotFlaky(t *testing.T) {
	fc := ClassifyFailure(Failure{
		ErrorMessage: "AssertionError: expected 150 to equal 145",
		PreviousRuns: []bool{false, false, false},
	})
	require.Equal(t, model.FailureRealBug, fc.FailureType)
}

func TestClassifyFailure_SelectorForcesFragility(t *testing.T) {
	fc := ClassifyFailure(Failure{
		ErrorMessage: "could not interact with submit button",
		Selector:     ".submit",
	})
	require.Equal(t, model.FailureTestFragility, fc.FailureType)
	require.GreaterOrEqual(t, fc.Confidence, 0.7)
}

func TestClassifyFailure_ExpectedActualPairIsRealBug(t *testing.T) {
	fc := ClassifyFailure(Failure{
		ErrorMessage:  "values diverged during run",
		ExpectedValue: "150",
		ActualValue:   "145",
	})
	require.Equal(t, model.FailureRealBug, fc.FailureType)
}
