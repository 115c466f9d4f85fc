// Package heal is the self-healing engine: it classifies a failure,
// relocates the affected element when the classifier marks it fragile
// and auto-fix is enabled, and emits a repair suggestion plus a batch
// markdown report. Wires classify and locator together; it adds no new
// detection logic of its own.
package heal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"testmind/internal/classify"
	"testmind/internal/locator"
	"testmind/internal/logging"
	"testmind/internal/model"
)

// Outcome is the result of healing one failed test.
type Outcome struct {
	TestName       string
	Classification model.FailureClassification
	Located        bool
	Repaired       bool
	NewDescriptor  *locator.Descriptor
	Error          string
	Duration       time.Duration
}

// Options configures one healing run.
type Options struct {
	AutoFix bool
}

// Heal classifies failureMessage and, if it is a fragile selector and
// AutoFix is enabled, relocates the element via the locator waterfall
// and proposes a more durable descriptor.
func Heal(ctx context.Context, testName, failureMessage string, page *rod.Page, original locator.Descriptor, opts Options) Outcome {
	start := time.Now()
	fc := classify.ClassifyFailure(classify.Failure{
		TestName:     testName,
		ErrorMessage: failureMessage,
		Selector:     original.CSS,
	})
	outcome := Outcome{TestName: testName, Classification: fc}
	defer func() {
		logging.For(logging.CategoryHeal).Info("heal run", map[string]interface{}{
			"test":        testName,
			"type":        string(outcome.Classification.FailureType),
			"repaired":    outcome.Repaired,
			"duration_ms": outcome.Duration.Milliseconds(),
		})
	}()

	if !classify.IsAutoHealable(fc) || !opts.AutoFix {
		outcome.Duration = time.Since(start)
		return outcome
	}
	if page == nil {
		outcome.Error = "no live page available for relocation"
		outcome.Duration = time.Since(start)
		return outcome
	}

	handle, err := locator.Locate(ctx, page, original)
	if err != nil {
		outcome.Error = err.Error()
		outcome.Duration = time.Since(start)
		return outcome
	}
	outcome.Located = true

	suggestion, err := locator.SuggestRepair(ctx, handle)
	if err != nil {
		outcome.Error = err.Error()
		outcome.Duration = time.Since(start)
		return outcome
	}

	outcome.Repaired = true
	outcome.NewDescriptor = &suggestion
	outcome.Duration = time.Since(start)
	return outcome
}

// BatchReport renders an aggregate markdown report for a batch healing
// run, grouping by whether each failure was repaired.
func BatchReport(outcomes []Outcome, totalDuration time.Duration) string {
	var repaired, unrepaired []Outcome
	for _, o := range outcomes {
		if o.Repaired {
			repaired = append(repaired, o)
		} else {
			unrepaired = append(unrepaired, o)
		}
	}

	var b strings.Builder
	b.WriteString("# Self-Healing Report\n\n")
	b.WriteString(fmt.Sprintf("Ran over %d failures in %s. %d repaired, %d left for manual review.\n\n",
		len(outcomes), totalDuration.Round(time.Millisecond), len(repaired), len(unrepaired)))

	if len(repaired) > 0 {
		b.WriteString("## Repaired\n\n")
		for _, o := range repaired {
			b.WriteString(fmt.Sprintf("- **%s** (%s, confidence %.2f): %s\n",
				o.TestName, o.Classification.FailureType, o.Classification.Confidence, describeDescriptor(o.NewDescriptor)))
		}
		b.WriteString("\n")
	}

	if len(unrepaired) > 0 {
		b.WriteString("## Needs manual review\n\n")
		for _, o := range unrepaired {
			reason := o.Error
			if reason == "" {
				reason = fmt.Sprintf("classified as %s, not auto-healable", o.Classification.FailureType)
			}
			b.WriteString(fmt.Sprintf("- **%s**: %s\n", o.TestName, reason))
		}
	}

	return b.String()
}

func describeDescriptor(d *locator.Descriptor) string {
	if d == nil {
		return "no suggestion"
	}
	switch {
	case d.TestID != "":
		return fmt.Sprintf("use data-testid=%q", d.TestID)
	case d.Role != "":
		return fmt.Sprintf("use role=%q", d.Role)
	case d.ARIA != "":
		return fmt.Sprintf("use aria-label=%q", d.ARIA)
	case d.ID != "":
		return fmt.Sprintf("use id=%q", d.ID)
	default:
		return "no stable attribute found"
	}
}
