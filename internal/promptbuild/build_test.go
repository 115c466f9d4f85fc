package promptbuild

import (
	"testing"

	"github.com/stretchr/testify/require"

	"testmind/internal/model"
	"testmind/internal/strategy"
)

func TestBuild_PureFunctionPromptForbidsMocks(t *testing.T) {
	fc := pureContext()
	p := Build(Request{
		Context:        fc,
		Strategy:       strategy.Plan(fc),
		Chunk:          model.CodeChunk{Name: "Add", Content: "func Add(a, b int) int { return a + b }"},
		Framework:      "go-test",
		TestFilePath:   "internal/math/math_test.go",
		SourceFilePath: "internal/math/math.go",
	})
	require.Contains(t, p.User, "PURE FUNCTION")
	require.Contains(t, p.User, "Do not mock anything")
	require.Contains(t, p.User, "Async: No")
	require.Contains(t, p.User, "a: 0, -1, 1")
	require.Contains(t, p.User, "b: 0, -1, 1")
}

func TestBuild_AsyncNetworkPromptCarriesMockGuidance(t *testing.T) {
	fc := model.FunctionContext{
		Signature: model.FunctionSignature{
			Name:       "FetchUserData",
			IsAsync:    true,
			Parameters: []model.Parameter{{Name: "userID", Type: "string"}},
			ReturnType: "(*User, error)",
		},
		Dependencies: []model.Dependency{{Name: "axios", Type: model.DependencyExternal, UsedIn: "FetchUserData"}},
		SideEffects:  []model.SideEffect{{Type: model.SideEffectNetwork, Description: "HTTP GET to the user service", Location: "FetchUserData"}},
		Complexity:   model.ComplexityReport{Cyclomatic: 2},
	}
	p := Build(Request{
		Context:        fc,
		Strategy:       strategy.Plan(fc),
		Chunk:          model.CodeChunk{Name: "FetchUserData", Content: "async function fetchUserData(userId) { return axios.get(`/users/${userId}`) }"},
		Framework:      "jest",
		TestFilePath:   "src/user.test.ts",
		SourceFilePath: "src/user.ts",
	})
	require.Contains(t, p.User, "Async: Yes")
	require.Contains(t, p.User, "axios")
	require.Contains(t, p.User, "network")
	require.Contains(t, p.User, "network failure")
}

func pureContext() model.FunctionContext {
	return model.FunctionContext{
		Signature: model.FunctionSignature{
			Name:       "Add",
			Parameters: []model.Parameter{{Name: "a", Type: "int"}, {Name: "b", Type: "int"}},
			ReturnType: "int",
		},
		Complexity: model.ComplexityReport{Cyclomatic: 1},
	}
}

func TestChooseTier_Simple(t *testing.T) {
	require.Equal(t, TierSimple, ChooseTier(pureContext()))
}

func TestChooseTier_Complex(t *testing.T) {
	fc := pureContext()
	fc.SideEffects = []model.SideEffect{{Type: model.SideEffectNetwork}}
	fc.Dependencies = []model.Dependency{
		{Name: "http.Get", Type: model.DependencyExternal},
		{Name: "os.Getenv", Type: model.DependencyExternal},
		{Name: "log.Println", Type: model.DependencyExternal},
	}
	require.Equal(t, TierComplex, ChooseTier(fc))
}

func TestBuild_ZeroParamProhibition(t *testing.T) {
	fc := pureContext()
	fc.Signature.Parameters = nil
	p := Build(Request{
		Context:        fc,
		Chunk:          model.CodeChunk{Name: "Ping", Content: "func Ping() string { return \"pong\" }"},
		Framework:      "go-test",
		TestFilePath:   "internal/ping/ping_test.go",
		SourceFilePath: "internal/ping/ping.go",
	})
	require.Contains(t, p.User, "Do not invent arguments")
}

func TestBuild_LearnedErrorsCappedAndOnlyOnNonSimple(t *testing.T) {
	fc := pureContext()
	fc.SideEffects = []model.SideEffect{{Type: model.SideEffectNetwork}}
	fc.Dependencies = []model.Dependency{
		{Name: "http.Get", Type: model.DependencyExternal},
		{Name: "os.Getenv", Type: model.DependencyExternal},
		{Name: "log.Println", Type: model.DependencyExternal},
	}
	errs := make([]string, 15)
	for i := range errs {
		errs[i] = "error-" + string(rune('a'+i))
	}
	p := Build(Request{
		Context:        fc,
		Chunk:          model.CodeChunk{Name: "FetchUserData", Content: "func FetchUserData(id string) {}"},
		Framework:      "go-test",
		TestFilePath:   "internal/user/user_test.go",
		SourceFilePath: "internal/user/user.go",
		LearnedErrors:  errs,
	})
	require.Contains(t, p.User, "error-"+string(rune('a'+14)))
	require.NotContains(t, p.User, "error-a\n")
}

func TestBuild_SimpleTierOmitsLearnedErrors(t *testing.T) {
	p := Build(Request{
		Context:        pureContext(),
		Chunk:          model.CodeChunk{Name: "Add", Content: "func Add(a, b int) int { return a + b }"},
		Framework:      "go-test",
		TestFilePath:   "internal/math/math_test.go",
		SourceFilePath: "internal/math/math.go",
		LearnedErrors:  []string{"flaky timeout"},
	})
	require.NotContains(t, p.User, "flaky timeout")
}

func TestRelativeImportPath(t *testing.T) {
	require.Equal(t, "./math.go", RelativeImportPath("internal/math/math_test.go", "internal/math/math.go"))
	require.Equal(t, "../user/user.go", RelativeImportPath("internal/math/math_test.go", "internal/user/user.go"))
}

func TestTestFileLocation_Strategies(t *testing.T) {
	require.Equal(t, "internal/math/math_test.go", TestFileLocation("internal/math/math.go", "colocated"))
	require.Equal(t, "__tests__/internal/math/math_test.go", TestFileLocation("internal/math/math.go", "separate"))
	require.Equal(t, "internal/math/__tests__/math_test.go", TestFileLocation("internal/math/math.go", "nested"))
}

func TestRuleFor_FallsBackToGoTest(t *testing.T) {
	require.Equal(t, frameworkRules["go-test"], RuleFor("unknown-framework"))
	require.Equal(t, frameworkRules["jest"], RuleFor("JEST"))
}
