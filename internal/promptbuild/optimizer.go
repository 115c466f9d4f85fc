package promptbuild

import (
	"regexp"
	"strings"

	"testmind/internal/budget"
)

// Aggressiveness is the [0,1] knob gating how far the optimizer goes:
// blank-line collapse always runs; comment stripping and import dedup
// need at least 0.5; identifier shortening needs 0.7; signature-only
// reduction needs 0.8 and only fires when the text still exceeds the
// hard token cap.
type Aggressiveness float64

const (
	AggressivenessLow    Aggressiveness = 0.3
	AggressivenessMedium Aggressiveness = 0.6
	AggressivenessHigh   Aggressiveness = 0.9
)

const (
	commentStripThreshold    = 0.5
	identShortenThreshold    = 0.7
	signatureReduceThreshold = 0.8
)

// OptimizeResult reports what the optimizer did and the resulting savings.
type OptimizeResult struct {
	Optimized      string
	OriginalTokens int
	FinalTokens    int
	TokensSaved    int
	PercentSaved   float64
	StepsApplied   []string
}

var blankRunRE = regexp.MustCompile(`\n{3,}`)
var lineCommentRE = regexp.MustCompile(`(?m)^\s*//.*$`)
var blockCommentRE = regexp.MustCompile(`(?s)/\*.*?\*/`)
var importGroupRE = regexp.MustCompile(`(?s)import \(\n(.*?)\n\)`)

// Optimize runs the aggressiveness-gated reduction pipeline over prompt
// text and reports token savings against a hard cap for the target model.
func Optimize(text, modelName string, aggressiveness Aggressiveness, hardTokenCap int) OptimizeResult {
	original := budget.EstimateTokens(text)
	out := text
	var steps []string

	out, changed := collapseBlankLines(out)
	if changed {
		steps = append(steps, "blank-line-collapse")
	}

	if aggressiveness >= commentStripThreshold {
		stripped, changed := stripComments(out)
		if changed {
			out = stripped
			steps = append(steps, "comment-stripping")
		}
		deduped, changed := dedupImports(out)
		if changed {
			out = deduped
			steps = append(steps, "import-dedup")
		}
	}

	if aggressiveness >= identShortenThreshold {
		shortened, changed := shortenIdentifiers(out)
		if changed {
			out = shortened
			steps = append(steps, "identifier-shortening")
		}
	}

	if aggressiveness >= signatureReduceThreshold &&
		hardTokenCap > 0 && budget.EstimateTokens(out) > hardTokenCap {
		reduced, changed := signatureOnly(out)
		if changed {
			out = reduced
			steps = append(steps, "signature-only-reduction")
		}
	}

	final := budget.EstimateTokens(out)
	saved := original - final
	pct := 0.0
	if original > 0 {
		pct = float64(saved) / float64(original) * 100
	}
	return OptimizeResult{
		Optimized:      out,
		OriginalTokens: original,
		FinalTokens:    final,
		TokensSaved:    saved,
		PercentSaved:   pct,
		StepsApplied:   steps,
	}
}

func collapseBlankLines(s string) (string, bool) {
	out := blankRunRE.ReplaceAllString(s, "\n\n")
	return out, out != s
}

func stripComments(s string) (string, bool) {
	out := blockCommentRE.ReplaceAllString(s, "")
	out = lineCommentRE.ReplaceAllString(out, "")
	return out, out != s
}

func dedupImports(s string) (string, bool) {
	changed := false
	out := importGroupRE.ReplaceAllStringFunc(s, func(block string) string {
		m := importGroupRE.FindStringSubmatch(block)
		if m == nil {
			return block
		}
		lines := strings.Split(m[1], "\n")
		seen := make(map[string]bool)
		var unique []string
		for _, l := range lines {
			trimmed := strings.TrimSpace(l)
			if trimmed == "" || seen[trimmed] {
				if trimmed != "" {
					changed = true
				}
				continue
			}
			seen[trimmed] = true
			unique = append(unique, l)
		}
		return "import (\n" + strings.Join(unique, "\n") + "\n)"
	})
	return out, changed
}

var longIdentifierRE = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]{15,}\b`)

// shortenIdentifiers replaces long identifiers that recur at least
// twice with a camel-case-initial abbreviation.
func shortenIdentifiers(s string) (string, bool) {
	counts := make(map[string]int)
	for _, m := range longIdentifierRE.FindAllString(s, -1) {
		counts[m]++
	}

	alias := make(map[string]string)
	for name, n := range counts {
		if n < 2 {
			continue
		}
		if short := abbreviate(name); short != name {
			alias[name] = short
		}
	}
	if len(alias) == 0 {
		return s, false
	}

	out := longIdentifierRE.ReplaceAllStringFunc(s, func(name string) string {
		if short, ok := alias[name]; ok {
			return short
		}
		return name
	})
	return out, out != s
}

// abbreviate collapses a long camelCase/snake_case identifier to its
// initials, e.g. "calculateTotalInvoiceAmount" -> "cTIA".
func abbreviate(name string) string {
	var initials []rune
	runes := []rune(name)
	initials = append(initials, runes[0])
	for i := 1; i < len(runes); i++ {
		if runes[i-1] == '_' {
			if runes[i] != '_' {
				initials = append(initials, runes[i])
			}
			continue
		}
		if runes[i] >= 'A' && runes[i] <= 'Z' {
			initials = append(initials, runes[i])
		}
	}
	if len(initials) < 2 {
		return name
	}
	return string(initials)
}

// signatureOnly drops function bodies, keeping only the top-level
// declarations, when a prompt must be reduced below a hard token cap.
func signatureOnly(s string) (string, bool) {
	lines := strings.Split(s, "\n")
	var kept []string
	depth := 0
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if depth == 0 {
			kept = append(kept, l)
		}
		depth += strings.Count(l, "{") - strings.Count(l, "}")
		if depth < 0 {
			depth = 0
		}
		if depth == 0 && strings.HasSuffix(trimmed, "{") {
			kept = append(kept, strings.Repeat(" ", len(l)-len(strings.TrimLeft(l, " \t")))+"// ...")
		}
	}
	out := strings.Join(kept, "\n")
	return out, out != s
}
