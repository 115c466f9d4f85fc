// Package promptbuild assembles tiered, framework-aware prompts for
// test generation, and compresses them when they run over budget.
package promptbuild

import "testmind/internal/model"

// Tier is the prompt complexity tier.
type Tier string

const (
	TierSimple   Tier = "simple"
	TierModerate Tier = "moderate"
	TierComplex  Tier = "complex"
)

// ChooseTier selects a tier from (cyclomatic, sideEffects, deps):
// simple needs cyclomatic <= 3, purity, and at most two dependencies;
// complex means cyclomatic > 10 or side effects with more than two
// dependencies; everything else is moderate.
func ChooseTier(fc model.FunctionContext) Tier {
	cyclo := fc.Complexity.Cyclomatic
	hasSideEffects := len(fc.SideEffects) > 0
	deps := len(fc.Dependencies)

	if cyclo <= 3 && fc.IsPure() && deps <= 2 {
		return TierSimple
	}
	if cyclo > 10 || (hasSideEffects && deps > 2) {
		return TierComplex
	}
	return TierModerate
}
