package promptbuild

import "strings"

// FrameworkRule is one table-driven entry describing a test framework's
// mock/spy/fn token vocabulary and best-practices guidance.
type FrameworkRule struct {
	MockFn      string
	SpyFn       string
	AssertFn    string
	BestPractices string
}

// frameworkRules is the per-framework vocabulary table.
var frameworkRules = map[string]FrameworkRule{
	"go-test": {
		MockFn:        "a hand-written fake implementing the dependency's interface",
		SpyFn:         "a call-recording wrapper",
		AssertFn:      "testify/require",
		BestPractices: "table-driven subtests via t.Run, no global state, deterministic inputs",
	},
	"jest": {
		MockFn:        "jest.fn()",
		SpyFn:         "jest.spyOn()",
		AssertFn:      "expect(...).toBe(...)",
		BestPractices: "one assertion focus per test, arrange-act-assert spacing, no snapshot-only tests",
	},
	"vitest": {
		MockFn:        "vi.fn()",
		SpyFn:         "vi.spyOn()",
		AssertFn:      "expect(...).toBe(...)",
		BestPractices: "prefer vi.mock for module boundaries, restore mocks in afterEach",
	},
	"pytest": {
		MockFn:        "unittest.mock.MagicMock()",
		SpyFn:         "mocker.spy()",
		AssertFn:      "assert",
		BestPractices: "fixtures for shared setup, parametrize for boundary grids",
	},
}

// RuleFor returns the FrameworkRule for framework, case-insensitively,
// falling back to the go-test rule for unknown frameworks.
func RuleFor(framework string) FrameworkRule {
	if r, ok := frameworkRules[strings.ToLower(framework)]; ok {
		return r
	}
	return frameworkRules["go-test"]
}

// TestFilePath derives the co-located test file path by swapping the
// source extension to "_test<ext>" (Go) or ".test.<ext>" (others) in
// the source directory.
func TestFilePath(sourcePath, framework string) string {
	dot := strings.LastIndex(sourcePath, ".")
	if dot < 0 {
		return sourcePath + "_test"
	}
	base, ext := sourcePath[:dot], sourcePath[dot:]
	if ext == ".go" {
		return base + "_test" + ext
	}
	return base + ".test" + ext
}
