package promptbuild

import (
	"fmt"
	"strings"

	"testmind/internal/model"
)

const maxLearnedErrors = 10

// Request bundles everything Build needs to assemble one prompt pair.
type Request struct {
	Context        model.FunctionContext
	Strategy       model.TestStrategy
	Chunk          model.CodeChunk
	Framework      string
	TestFilePath   string
	SourceFilePath string
	LearnedErrors  []string // oldest first; only the newest (last) maxLearnedErrors are used
}

// Prompt is the assembled system/user prompt pair.
type Prompt struct {
	Tier   Tier
	System string
	User   string
}

// Build assembles a tiered, framework-aware prompt pair for one function.
func Build(req Request) Prompt {
	tier := ChooseTier(req.Context)
	rule := RuleFor(req.Framework)

	var system strings.Builder
	system.WriteString("You write correct, minimal unit tests. ")
	system.WriteString(fmt.Sprintf("Use %s as the assertion style and %s for mocks. ", rule.AssertFn, rule.MockFn))
	system.WriteString(rule.BestPractices + ".")

	var user strings.Builder
	fn := req.Chunk
	user.WriteString(fmt.Sprintf("Write tests for %s.\n\n", fn.Name))
	user.WriteString("Signature:\n")
	user.WriteString(signatureConstraint(req.Context.Signature))
	user.WriteString("\n\n")

	if req.Context.Signature.IsAsync {
		user.WriteString("Async: Yes\n")
	} else {
		user.WriteString("Async: No\n")
	}
	if req.Context.IsPure() {
		user.WriteString("PURE FUNCTION: no side effects, no external dependencies. Do not mock anything; call it directly with real arguments.\n")
	} else if deps := req.Strategy.MockStrategy.Dependencies; len(deps) > 0 {
		user.WriteString(fmt.Sprintf("Mock these dependencies (%s mocks, using %s): %s.\n",
			req.Strategy.MockStrategy.MockType, rule.MockFn, strings.Join(deps, ", ")))
	}
	user.WriteString("\n")

	if len(req.Strategy.BoundaryConditions) > 0 {
		user.WriteString("Cover these boundary values:\n")
		for _, bc := range req.Strategy.BoundaryConditions {
			user.WriteString(fmt.Sprintf("- %s: %s (%s)\n", bc.Parameter, strings.Join(bc.Values, ", "), bc.Reasoning))
		}
		user.WriteString("\n")
	}
	if len(req.Strategy.EdgeCases) > 0 {
		user.WriteString("Cover these edge cases:\n")
		for _, ec := range req.Strategy.EdgeCases {
			user.WriteString(fmt.Sprintf("- %s: given %s, %s\n", ec.Scenario, ec.Input, ec.ExpectedBehavior))
		}
		user.WriteString("\n")
	}

	importPath := RelativeImportPath(req.TestFilePath, req.SourceFilePath)
	user.WriteString(fmt.Sprintf("Import the function under test from %q.\n\n", importPath))

	user.WriteString("Source:\n```\n")
	user.WriteString(fn.Content)
	user.WriteString("\n```\n")

	if tier != TierSimple {
		if errs := recentLearnedErrors(req.LearnedErrors); len(errs) > 0 {
			user.WriteString("\nPreviously generated tests for this function failed in these ways; avoid repeating them:\n")
			for _, e := range errs {
				user.WriteString("- " + e + "\n")
			}
		}
	}

	if tier == TierComplex {
		user.WriteString("\nThis function has side effects and/or external dependencies. ")
		user.WriteString("Mock every external dependency explicitly; do not call real network, filesystem, or database resources.\n")
	}

	return Prompt{Tier: tier, System: system.String(), User: user.String()}
}

// signatureConstraint emits the function signature verbatim, with an
// explicit prohibition on invented parameters for zero-parameter functions.
func signatureConstraint(sig model.FunctionSignature) string {
	var b strings.Builder
	b.WriteString(sig.Name + "(")
	for i, p := range sig.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name + " " + p.Type)
	}
	b.WriteString(") " + sig.ReturnType)

	if len(sig.Parameters) == 0 {
		b.WriteString("\nThis function takes no parameters. Do not invent arguments or overloads that do not exist.")
	}
	return b.String()
}

// recentLearnedErrors returns at most the newest maxLearnedErrors entries.
func recentLearnedErrors(errs []string) []string {
	if len(errs) <= maxLearnedErrors {
		return errs
	}
	return errs[len(errs)-maxLearnedErrors:]
}
