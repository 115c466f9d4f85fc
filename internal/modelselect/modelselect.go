// Package modelselect routes a generation task to a model:
// complexity-to-capability mapping and weighted candidate scoring.
package modelselect

import (
	"sort"

	"testmind/internal/model"
)

// TaskComplexity is the coarse bucket a scored function falls into.
type TaskComplexity string

const (
	ComplexitySimple   TaskComplexity = "simple"
	ComplexityModerate TaskComplexity = "moderate"
	ComplexityComplex  TaskComplexity = "complex"
	ComplexityExpert   TaskComplexity = "expert"
)

// MinCapability maps a TaskComplexity to the minimum model capability
// required: simple>=6, moderate>=7, complex>=8, expert>=9.
func MinCapability(c TaskComplexity) int {
	switch c {
	case ComplexitySimple:
		return 6
	case ComplexityModerate:
		return 7
	case ComplexityComplex:
		return 8
	case ComplexityExpert:
		return 9
	default:
		return 6
	}
}

// ComplexityScore combines code length, cyclomatic, cognitive, and
// maintainability into a 0-100 score, and ClassifyComplexity buckets it
// at the 40/60/80 thresholds.
func ComplexityScore(codeLength int, report model.ComplexityReport) float64 {
	lengthScore := clamp(float64(codeLength)/20, 0, 25)
	cycloScore := clamp(float64(report.Cyclomatic)*3, 0, 30)
	cogScore := clamp(float64(report.Cognitive)*2, 0, 25)
	maintainScore := clamp((100-report.MaintainabilityIndex)/100*20, 0, 20)
	return clamp(lengthScore+cycloScore+cogScore+maintainScore, 0, 100)
}

func ClassifyComplexity(score float64) TaskComplexity {
	switch {
	case score < 40:
		return ComplexitySimple
	case score < 60:
		return ComplexityModerate
	case score < 80:
		return ComplexityComplex
	default:
		return ComplexityExpert
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Candidate is one model entry the selector can choose among.
type Candidate struct {
	Name          string
	Capability    int // 1-10
	ContextWindow int
	CostPerMTokIn float64
	TaskMatch     float64 // 0-1, how well-suited this model is for test generation specifically
}

// Selection is the selector's output.
type Selection struct {
	Model         string
	Confidence    float64
	Reasons       []string
	EstimatedCost float64
	Alternatives  []string
}

// Options configures one selection call.
type Options struct {
	Complexity    TaskComplexity
	ContextTokens int
	BudgetUSD     float64 // 0 means unconstrained
	PrioritizeCost bool
}

// Select filters candidates by capability/context/cost and scores the
// survivors with a weighted formula: capability 0.4, cost 0.3 iff
// prioritizeCost, context fit 0.2, task-match 0.1.
func Select(candidates []Candidate, opts Options) (Selection, bool) {
	minCap := MinCapability(opts.Complexity)
	var survivors []Candidate
	for _, c := range candidates {
		if c.Capability < minCap {
			continue
		}
		if c.ContextWindow < opts.ContextTokens {
			continue
		}
		if opts.BudgetUSD > 0 {
			estCost := c.CostPerMTokIn * float64(opts.ContextTokens) / 1e6
			if estCost > opts.BudgetUSD {
				continue
			}
		}
		survivors = append(survivors, c)
	}
	if len(survivors) == 0 {
		return Selection{}, false
	}

	type scored struct {
		candidate Candidate
		score     float64
	}
	var ranked []scored
	maxCost := maxCostOf(survivors)
	for _, c := range survivors {
		capScore := float64(c.Capability) / 10
		costScore := 0.0
		if maxCost > 0 {
			costScore = 1 - (c.CostPerMTokIn / maxCost)
		}
		contextFit := 0.0
		if c.ContextWindow > 0 {
			contextFit = clamp(float64(opts.ContextTokens)/float64(c.ContextWindow), 0, 1)
		}
		weight := 0.4*capScore + 0.2*contextFit + 0.1*c.TaskMatch
		if opts.PrioritizeCost {
			weight += 0.3 * costScore
		}
		ranked = append(ranked, scored{candidate: c, score: weight})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	best := ranked[0]
	var alternatives []string
	for _, r := range ranked[1:] {
		alternatives = append(alternatives, r.candidate.Name)
	}

	estCost := best.candidate.CostPerMTokIn * float64(opts.ContextTokens) / 1e6
	return Selection{
		Model:         best.candidate.Name,
		Confidence:    clamp(best.score, 0, 1),
		Reasons:       []string{"meets minimum capability for " + string(opts.Complexity), "fits context window"},
		EstimatedCost: estCost,
		Alternatives:  alternatives,
	}, true
}

func maxCostOf(candidates []Candidate) float64 {
	max := 0.0
	for _, c := range candidates {
		if c.CostPerMTokIn > max {
			max = c.CostPerMTokIn
		}
	}
	return max
}
