// Package strategy plans how a function should be tested: given a
// FunctionContext, it produces boundary conditions, edge cases, and a
// mock strategy. A pure function never gets mocks.
package strategy

import (
	"fmt"
	"strings"

	"testmind/internal/model"
)

// Plan derives a TestStrategy from fc.
func Plan(fc model.FunctionContext) model.TestStrategy {
	return model.TestStrategy{
		Type:               chooseType(fc),
		BoundaryConditions: boundaryConditions(fc),
		EdgeCases:          edgeCases(fc),
		MockStrategy:       mockStrategy(fc),
	}
}

// chooseType picks table-driven for 3+ parameters, else AAA.
func chooseType(fc model.FunctionContext) model.StrategyType {
	if len(fc.Signature.Parameters) >= 3 {
		return model.StrategyTableDriven
	}
	return model.StrategyAAA
}

// boundaryConditions emits the canonical value set per parameter type.
func boundaryConditions(fc model.FunctionContext) []model.BoundaryCondition {
	var out []model.BoundaryCondition
	for _, p := range fc.Signature.Parameters {
		values, reasoning := canonicalValues(p)
		out = append(out, model.BoundaryCondition{
			Parameter: p.Name,
			Values:    values,
			Reasoning: reasoning,
		})
	}
	return out
}

func canonicalValues(p model.Parameter) ([]string, string) {
	t := strings.ToLower(p.Type)
	switch {
	case isStringType(t):
		return []string{`""`, `"a"`, longStringLiteral()}, "empty, single-character, and long string boundaries"
	case isNumericType(t):
		min, max := numericBounds(t)
		return []string{"0", "-1", "1", max, min}, "zero, unit, and type-range boundaries"
	case isArrayType(t):
		return []string{"[]T{}", "[]T{x}", "[]T{x, y, z}"}, "empty, singleton, and multi-element boundaries"
	case t == "bool":
		return []string{"true", "false"}, "both boolean states"
	case p.Optional:
		return []string{"nil"}, "absent-value boundary"
	default:
		return []string{"zero value"}, "type zero value"
	}
}

func isStringType(t string) bool { return t == "string" }

func isNumericType(t string) bool {
	switch t {
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64",
		"float32", "float64":
		return true
	}
	return false
}

func isArrayType(t string) bool {
	return strings.HasPrefix(t, "[]")
}

func numericBounds(t string) (min, max string) {
	switch t {
	case "int8":
		return "math.MinInt8", "math.MaxInt8"
	case "int16":
		return "math.MinInt16", "math.MaxInt16"
	case "int32":
		return "math.MinInt32", "math.MaxInt32"
	case "int64", "int":
		return "math.MinInt64", "math.MaxInt64"
	case "float32":
		return "-math.MaxFloat32", "math.MaxFloat32"
	case "float64":
		return "-math.MaxFloat64", "math.MaxFloat64"
	default:
		return "0", fmt.Sprintf("math.Max%s", strings.ToUpper(t[:1])+t[1:])
	}
}

func longStringLiteral() string {
	return `strings.Repeat("a", 10000)`
}

// edgeCases includes an async-rejection scenario, one scenario per
// side-effect kind, and an optional-parameter scenario.
func edgeCases(fc model.FunctionContext) []model.EdgeCase {
	var out []model.EdgeCase
	if fc.Signature.IsAsync {
		out = append(out, model.EdgeCase{
			Scenario:         "asynchronous failure",
			Input:            "a context that is cancelled before completion",
			ExpectedBehavior: "the call returns a non-nil error without panicking",
		})
	}
	seenKinds := map[model.SideEffectKind]bool{}
	for _, se := range fc.SideEffects {
		if seenKinds[se.Type] {
			continue
		}
		seenKinds[se.Type] = true
		out = append(out, model.EdgeCase{
			Scenario:         string(se.Type) + " failure",
			Input:            "a dependency configured to fail",
			ExpectedBehavior: "the error propagates without being swallowed",
		})
	}
	for _, p := range fc.Signature.Parameters {
		if p.Optional {
			out = append(out, model.EdgeCase{
				Scenario:         "missing optional parameter",
				Input:            "nil for " + p.Name,
				ExpectedBehavior: "the function handles the absent value without panicking",
			})
			break
		}
	}
	return out
}

// mockStrategy never mocks a pure function.
func mockStrategy(fc model.FunctionContext) model.MockStrategy {
	if fc.IsPure() {
		return model.MockStrategy{Dependencies: nil, MockType: model.MockNone}
	}

	depSet := map[string]bool{}
	var deps []string
	for _, d := range fc.Dependencies {
		if d.Type != model.DependencyExternal {
			continue
		}
		if !depSet[d.Name] {
			depSet[d.Name] = true
			deps = append(deps, d.Name)
		}
	}
	kindSet := map[model.SideEffectKind]bool{}
	for _, se := range fc.SideEffects {
		if !kindSet[se.Type] {
			kindSet[se.Type] = true
			name := string(se.Type)
			if !depSet[name] {
				depSet[name] = true
				deps = append(deps, name)
			}
		}
	}

	mockType := model.MockPartial
	if len(fc.SideEffects) > 0 {
		mockType = model.MockFull
	}
	return model.MockStrategy{Dependencies: deps, MockType: mockType}
}
