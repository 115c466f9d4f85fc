// Package classify buckets a test failure's message/output into
// environment, test_fragility, real_bug, flaky, or unknown, with a
// confidence score, via an ordered keyword-rule table plus structured
// signals (selector, expected/actual pair, run history).
package classify

import (
	"strings"

	"testmind/internal/model"
)

type rule struct {
	failureType model.FailureType
	keywords    []string
}

// rules is checked in order; the first rule with at least one keyword
// match wins, confidence scaling with how many of its keywords matched.
var rules = []rule{
	{
		failureType: model.FailureEnvironment,
		keywords: []string{
			"econnrefused", "enotfound", "connection refused", "dns", "no such host",
			"permission denied", "command not found", "module not found", "cannot find package",
			"environment variable", "missing dependency",
		},
	},
	{
		failureType: model.FailureTestFragility,
		keywords: []string{
			"element not found", "selector", "timed out waiting", "timeout waiting for element",
			"stale element", "no node found", "locator",
		},
	},
	{
		failureType: model.FailureFlaky,
		keywords: []string{
			"flaky", "intermittent", "passed on retry", "race condition", "non-deterministic",
		},
	},
	{
		failureType: model.FailureRealBug,
		keywords: []string{
			"assertionerror", "expected", "to equal", "to be", "mismatch", "got", "want",
		},
	},
}

// Classify buckets a failure message/output into the taxonomy:
// "Element not found: .submit" classifies as test_fragility, while
// "AssertionError: expected 150 to equal 145" classifies as real_bug.
func Classify(message string) model.FailureClassification {
	lower := strings.ToLower(message)

	for _, r := range rules {
		var matched []string
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			continue
		}

		confidence := 0.6 + 0.1*float64(len(matched))
		if confidence > 0.99 {
			confidence = 0.99
		}

		return model.FailureClassification{
			FailureType:      r.failureType,
			Confidence:       confidence,
			IsFlaky:          r.failureType == model.FailureFlaky,
			SuggestedActions: suggestedActions(r.failureType),
			MatchedKeywords:  matched,
		}
	}

	return model.FailureClassification{
		FailureType:      model.FailureUnknown,
		Confidence:       0.2,
		SuggestedActions: []string{"inspect failure output manually"},
	}
}

func suggestedActions(ft model.FailureType) []string {
	switch ft {
	case model.FailureEnvironment:
		return []string{"verify test environment configuration and dependencies"}
	case model.FailureTestFragility:
		return []string{"re-locate the affected element", "consider self-healing the selector"}
	case model.FailureFlaky:
		return []string{"re-run the test to confirm", "add explicit waits or retries"}
	case model.FailureRealBug:
		return []string{"investigate the implementation; do not auto-heal"}
	default:
		return nil
	}
}

// Failure is the structured classification input. Only ErrorMessage is
// required; the optional fields sharpen the verdict beyond what keyword
// scanning alone can reach.
type Failure struct {
	TestName      string
	TestFile      string
	ErrorMessage  string
	StackTrace    string
	Selector      string
	ExpectedValue string
	ActualValue   string
	PreviousRuns  []bool // true = pass, oldest first
}

// ClassifyFailure layers the structured rules on top of the keyword
// scan: a mixed pass/fail history of 3+ runs means flaky, an explicit
// DOM-locator selector means fragility unless the scan found an
// environment failure, and an expected/actual pair means a real bug when
// the scan found nothing else.
func ClassifyFailure(f Failure) model.FailureClassification {
	if len(f.PreviousRuns) >= 3 && mixedOutcomes(f.PreviousRuns) {
		return model.FailureClassification{
			FailureType:      model.FailureFlaky,
			Confidence:       0.8,
			IsFlaky:          true,
			SuggestedActions: suggestedActions(model.FailureFlaky),
			MatchedKeywords:  []string{"mixed pass/fail history"},
		}
	}

	fc := Classify(strings.TrimSpace(f.ErrorMessage + "\n" + f.StackTrace))

	if f.Selector != "" && looksLikeDOMLocator(f.Selector) && fc.FailureType != model.FailureEnvironment {
		if fc.FailureType != model.FailureTestFragility {
			fc.FailureType = model.FailureTestFragility
			fc.Confidence = 0.7
			fc.SuggestedActions = suggestedActions(model.FailureTestFragility)
		} else if fc.Confidence < 0.99 {
			fc.Confidence += 0.1
			if fc.Confidence > 0.99 {
				fc.Confidence = 0.99
			}
		}
		fc.MatchedKeywords = append(fc.MatchedKeywords, "selector:"+f.Selector)
		fc.IsFlaky = false
		return fc
	}

	if f.ExpectedValue != "" && f.ActualValue != "" && fc.FailureType == model.FailureUnknown {
		fc.FailureType = model.FailureRealBug
		fc.Confidence = 0.7
		fc.SuggestedActions = suggestedActions(model.FailureRealBug)
		fc.MatchedKeywords = append(fc.MatchedKeywords, "expected/actual pair present")
	}
	return fc
}

func mixedOutcomes(runs []bool) bool {
	sawPass, sawFail := false, false
	for _, passed := range runs {
		if passed {
			sawPass = true
		} else {
			sawFail = true
		}
	}
	return sawPass && sawFail
}

// looksLikeDOMLocator recognizes CSS id/class selectors, attribute
// selectors, and XPath expressions.
func looksLikeDOMLocator(s string) bool {
	return strings.HasPrefix(s, "#") || strings.HasPrefix(s, ".") ||
		strings.HasPrefix(s, "[") || strings.HasPrefix(s, "//") ||
		strings.Contains(s, "data-testid")
}

// IsAutoHealable reports whether a classification should feed the
// Self-Healing Engine's locate step — only fragile-selector failures
// qualify; a real bug must never be silently "fixed" by relocating a
// selector.
func IsAutoHealable(fc model.FailureClassification) bool {
	return fc.FailureType == model.FailureTestFragility && fc.Confidence >= 0.7
}
