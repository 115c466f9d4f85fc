package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractTriples_FindsAssertions(t *testing.T) {
	source := "test('adds', () => {\n  expect(add(1, 2)).toBe(3)\n})\n"
	triples := ExtractTriples(source)
	require.Len(t, triples, 1)
	require.Equal(t, "add", triples[0].Fn)
	require.Equal(t, "1, 2", triples[0].Input)
	require.Equal(t, "3", triples[0].Expected)
	require.Equal(t, 2, triples[0].Line)
}

func TestExtractTriples_NoneFound(t *testing.T) {
	require.Empty(t, ExtractTriples("func TestX(t *testing.T) { require.True(t, true) }"))
}

func TestContainsFailurePattern(t *testing.T) {
	require.True(t, containsFailurePattern("--- FAIL: TestAdd (0.00s)"))
	require.False(t, containsFailurePattern("ok  \tmypkg\t0.002s"))
}

func TestParseMismatch(t *testing.T) {
	output := "generated_test.go:12: expected: 3 actual: 4\n"
	m := parseMismatch(output)
	require.NotNil(t, m)
	require.Equal(t, 12, m.Line)
	require.Equal(t, "3", m.Expected)
	require.Equal(t, "4", m.Got)
}

func TestAutoCorrect_AppliesBackToFront(t *testing.T) {
	source := "line1\nexpected 3 here\nline3\nexpected 7 here\n"
	mismatches := []Mismatch{
		{Line: 2, Expected: "3", Got: "4"},
		{Line: 4, Expected: "7", Got: "8"},
	}
	corrected := AutoCorrect(source, mismatches)
	require.Contains(t, corrected, "expected 4 here")
	require.Contains(t, corrected, "expected 8 here")
}

func TestBuildVerificationScript_EmitsOneCheckPerTriple(t *testing.T) {
	triples := []Triple{
		{Line: 2, Fn: "add", Input: "1, 2", Expected: "3"},
		{Line: 5, Fn: "add", Input: "0, 0", Expected: "1"},
	}
	script := BuildVerificationScript("example.com/mathlib", triples)
	require.Contains(t, script, `target "example.com/mathlib"`)
	require.Equal(t, 2, strings.Count(script, "target.add("))
	require.Contains(t, script, "LineNumber: 5")
	require.Contains(t, script, verifyMarker)
}

func TestParseVerificationOutput(t *testing.T) {
	output := "some build noise\n" + verifyMarker + `[{"input":"1, 2","expected":"3","actual":"4","lineNumber":2}]` + "\n"
	mismatches, err := ParseVerificationOutput(output)
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	require.Equal(t, "4", mismatches[0].Actual)
	require.Equal(t, 2, mismatches[0].LineNumber)
}

func TestParseVerificationOutput_MissingMarkerIsError(t *testing.T) {
	_, err := ParseVerificationOutput("no marker here")
	require.Error(t, err)
}

func TestCorrectExpectations_RewritesToBeLiterals(t *testing.T) {
	source := "test('adds', () => {\n  expect(add(1, 2)).toBe(3)\n})\n"
	corrected := CorrectExpectations(source, []ExpectationMismatch{
		{Input: "1, 2", Expected: "3", Actual: "4", LineNumber: 2},
	})
	require.Contains(t, corrected, ".toBe(4)")
	require.NotContains(t, corrected, ".toBe(3)")
}

func TestSummarize_PassedAndFailed(t *testing.T) {
	require.Equal(t, "validated: test passed", Summarize(Result{Passed: true}))

	res := Result{Passed: false, Mismatch: &Mismatch{Line: 5, Expected: "1", Got: "2"}}
	require.Contains(t, Summarize(res), "line 5")
}
