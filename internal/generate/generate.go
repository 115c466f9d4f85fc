// Package generate orchestrates test generation for one function:
// plan -> prompt -> cache/LLM -> extract -> validate -> emit, plus a
// bounded-concurrency batch mode.
package generate

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"testmind/internal/cache"
	"testmind/internal/llm"
	"testmind/internal/logging"
	"testmind/internal/model"
	"testmind/internal/promptbuild"
	"testmind/internal/strategy"
	"testmind/internal/txerr"
)

// minTestCases, minAssertions, minNonEmptyLines gate generated output
// quality.
const (
	minTestCases     = 1
	minAssertions    = 1
	minNonEmptyLines = 10
)

// Generator orchestrates one function's test-suite generation.
type Generator struct {
	LLM         llm.Client
	Cache       *cache.Cache
	Retry       llm.RetryConfig
	Embed       func(ctx context.Context, text string) ([]float32, error) // optional, for cache similarity lookups
	GeneratedBy string
}

// Request is one generation call's input.
type Request struct {
	Context        model.FunctionContext
	Chunk          model.CodeChunk
	Framework      string
	TestFilePath   string
	SourceFilePath string
	LearnedErrors  []string
	ProjectID      string
}

// Generate runs the full single-item pipeline and returns a TestSuite.
func (g *Generator) Generate(ctx context.Context, req Request) (model.TestSuite, error) {
	plan := strategy.Plan(req.Context)

	prompt := promptbuild.Build(promptbuild.Request{
		Context:        req.Context,
		Strategy:       plan,
		Chunk:          req.Chunk,
		Framework:      req.Framework,
		TestFilePath:   req.TestFilePath,
		SourceFilePath: req.SourceFilePath,
		LearnedErrors:  req.LearnedErrors,
	})

	cacheKey := prompt.System + "\x00" + prompt.User
	var queryEmbedding []float32
	if g.Embed != nil {
		if v, err := g.Embed(ctx, prompt.User); err == nil {
			queryEmbedding = v
		}
	}

	var rawText string
	if g.Cache != nil {
		if entry, ok := g.Cache.Get(cacheKey, queryEmbedding); ok {
			rawText = entry.Value
			logging.For(logging.CategoryGenerate).Debug("cache hit", map[string]interface{}{
				"function": req.Context.Signature.Name,
			})
		}
	}

	if rawText == "" {
		if g.LLM == nil {
			return model.TestSuite{}, txerr.New(txerr.Configuration, "generate.Generate", fmt.Errorf("no LLM client configured"))
		}
		resp, err := llm.CompleteWithRetry(ctx, g.LLM, prompt.System, prompt.User, g.Retry)
		if err != nil {
			return model.TestSuite{}, err
		}
		rawText = resp.Text
		if g.Cache != nil {
			g.Cache.Set(cacheKey, rawText, queryEmbedding, time.Hour)
		}
	}

	code, err := ExtractCodeBlock(rawText)
	if err != nil {
		return model.TestSuite{}, txerr.New(txerr.Generation, "generate.Generate", err)
	}

	if err := Validate(code, req.Framework); err != nil {
		return model.TestSuite{}, txerr.New(txerr.Evaluation, "generate.Generate", err)
	}

	return model.TestSuite{
		ID:             uuid.NewString(),
		ProjectID:      req.ProjectID,
		TargetEntityID: req.Context.Signature.Name,
		TestType:       "unit",
		Framework:      req.Framework,
		Code:           code,
		FilePath:       req.TestFilePath,
		GeneratedAt:    time.Now(),
		GeneratedBy:    g.GeneratedBy,
		Metadata:       map[string]string{"tier": string(prompt.Tier)},
	}, nil
}

// BatchResult pairs a generated suite (or error) with its input index,
// preserving input order in the returned slice.
type BatchResult struct {
	Index int
	Suite model.TestSuite
	Err   error
}

// GenerateBatch runs Generate over every request with at most maxConcurrency
// in flight at once, collecting per-item failures without aborting the
// rest of the batch.
func (g *Generator) GenerateBatch(ctx context.Context, reqs []Request, maxConcurrency int64) []BatchResult {
	results := make([]BatchResult, len(reqs))
	sem := semaphore.NewWeighted(maxConcurrency)
	done := make(chan struct{}, len(reqs))

	for i, req := range reqs {
		i, req := i, req
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = BatchResult{Index: i, Err: err}
			done <- struct{}{}
			continue
		}
		go func() {
			defer sem.Release(1)
			defer func() { done <- struct{}{} }()
			suite, err := g.Generate(ctx, req)
			results[i] = BatchResult{Index: i, Suite: suite, Err: err}
		}()
	}

	for range reqs {
		<-done
	}
	return results
}

var codeFenceRE = regexp.MustCompile("(?s)```(?:[a-zA-Z]*)\\n(.*?)```")

// ExtractCodeBlock pulls the test code out of a raw LLM response via an
// ordered fallback chain: a fenced code block first, then the full
// trimmed response if no fence is present.
func ExtractCodeBlock(raw string) (string, error) {
	if m := codeFenceRE.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), nil
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("empty response")
	}
	return trimmed, nil
}

// Validate enforces the minimum-quality gate: at least one test case, at
// least one assertion call for the framework, and a minimum line count.
func Validate(code, framework string) error {
	lines := strings.Split(code, "\n")
	nonEmpty := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonEmpty++
		}
	}
	if nonEmpty < minNonEmptyLines {
		return fmt.Errorf("generated code has only %d non-empty lines, want >= %d", nonEmpty, minNonEmptyLines)
	}

	if countTestCases(code, framework) < minTestCases {
		return fmt.Errorf("generated code has no recognizable test case for framework %q", framework)
	}

	rule := promptbuild.RuleFor(framework)
	if strings.Count(code, assertionToken(rule.AssertFn)) < minAssertions {
		return fmt.Errorf("generated code has no recognizable assertion for framework %q", framework)
	}
	return nil
}

func countTestCases(code, framework string) int {
	switch strings.ToLower(framework) {
	case "jest", "vitest":
		return strings.Count(code, "it(") + strings.Count(code, "test(")
	case "pytest":
		return strings.Count(code, "def test_")
	default:
		return strings.Count(code, "func Test")
	}
}

func assertionToken(assertFn string) string {
	if idx := strings.Index(assertFn, "("); idx > 0 {
		return assertFn[:idx]
	}
	// A package path such as "testify/require" is called through its last
	// segment's selector, e.g. "require.Equal(...)".
	if idx := strings.LastIndex(assertFn, "/"); idx >= 0 {
		return assertFn[idx+1:] + "."
	}
	return assertFn
}
