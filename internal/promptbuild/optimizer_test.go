package promptbuild

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptimize_CollapsesBlankLines(t *testing.T) {
	text := "line one\n\n\n\n\nline two"
	res := Optimize(text, "gpt-4o-mini", AggressivenessLow, 0)
	require.Contains(t, res.StepsApplied, "blank-line-collapse")
	require.False(t, strings.Contains(res.Optimized, "\n\n\n"))
}

func TestOptimize_StripsCommentsAtMediumAggressiveness(t *testing.T) {
	text := "func f() {\n  // a comment\n  return 1\n}"
	res := Optimize(text, "gpt-4o-mini", AggressivenessMedium, 0)
	require.Contains(t, res.StepsApplied, "comment-stripping")
	require.NotContains(t, res.Optimized, "a comment")
}

func TestOptimize_LowAggressivenessSkipsCommentStripping(t *testing.T) {
	text := "func f() {\n  // keep me\n  return 1\n}"
	res := Optimize(text, "gpt-4o-mini", AggressivenessLow, 0)
	require.Contains(t, res.Optimized, "keep me")
}

func TestOptimize_DedupsImports(t *testing.T) {
	text := "import (\n\t\"fmt\"\n\t\"fmt\"\n\t\"os\"\n)"
	res := Optimize(text, "gpt-4o-mini", AggressivenessMedium, 0)
	require.Contains(t, res.StepsApplied, "import-dedup")
	require.Equal(t, 1, strings.Count(res.Optimized, "\"fmt\""))
}

func TestOptimize_SignatureOnlyReductionUnderHardCap(t *testing.T) {
	var body strings.Builder
	body.WriteString("func bigFunction() {\n")
	for i := 0; i < 200; i++ {
		body.WriteString("    doSomethingRepeatedly()\n")
	}
	body.WriteString("}\n")
	res := Optimize(body.String(), "gpt-4o-mini", AggressivenessHigh, 5)
	require.Contains(t, res.StepsApplied, "signature-only-reduction")
	require.Less(t, res.FinalTokens, res.OriginalTokens)
}

func TestOptimize_ReportsSavingsPercent(t *testing.T) {
	text := "line one\n\n\n\n\nline two"
	res := Optimize(text, "gpt-4o-mini", AggressivenessLow, 0)
	require.GreaterOrEqual(t, res.PercentSaved, 0.0)
	require.Equal(t, res.OriginalTokens-res.FinalTokens, res.TokensSaved)
}

func TestAbbreviate_CollapsesToInitials(t *testing.T) {
	require.Equal(t, "cTIA", abbreviate("calculateTotalInvoiceAmount"))
}
