package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"testmind/internal/analyzer"
	"testmind/internal/cache"
	"testmind/internal/config"
	"testmind/internal/diffreview"
	"testmind/internal/generate"
	"testmind/internal/llm"
	"testmind/internal/promptbuild"
)

var (
	genFunction string
	genFramework string
	genProvider  string
	genWrite     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <file>",
	Short: "Generate a test suite for a function",
	Long: `Parses the given source file, builds the function context for the
target function (the first one found, or the one named by --function),
plans a test strategy, and asks the configured LLM provider for a test
suite. Prints a diff against any existing test file; pass --write to
apply it.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genFunction, "function", "", "Function name to target (default: first function in the file)")
	generateCmd.Flags().StringVar(&genFramework, "framework", "", "Test framework override (default: config's test_framework)")
	generateCmd.Flags().StringVar(&genProvider, "provider", "", "LLM provider override (default: config's llm.provider)")
	generateCmd.Flags().BoolVar(&genWrite, "write", false, "Write the generated test file to disk")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ws := workspace
	if ws == "" {
		ws, _ = os.Getwd()
	}
	sourcePath := args[0]
	if !filepath.IsAbs(sourcePath) {
		sourcePath = filepath.Join(ws, sourcePath)
	}

	cfg, err := config.Load(filepath.Join(ws, configPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	framework := cfg.TestFramework
	if genFramework != "" {
		framework = genFramework
	}
	provider := cfg.LLM.Provider
	if genProvider != "" {
		provider = genProvider
	}

	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("read source file: %w", err)
	}

	parsers := analyzer.Default()
	ext := filepath.Ext(sourcePath)
	analysis, err := parsers.Parse(ext, sourcePath, content)
	if err != nil {
		return fmt.Errorf("parse %s: %w", sourcePath, err)
	}
	if len(analysis.Functions) == 0 {
		return fmt.Errorf("no functions found in %s", sourcePath)
	}

	fn, err := selectFunction(analysis.Functions, genFunction)
	if err != nil {
		return err
	}

	localNames := map[string]bool{}
	for _, f := range analysis.Functions {
		localNames[f.Signature.Name] = true
	}
	callers := map[string][]string{}
	for _, f := range analysis.Functions {
		for _, name := range f.CallNames {
			callers[name] = append(callers[name], f.Signature.Name)
		}
	}

	fc, err := analyzer.BuildFunctionContext(sourcePath, content, fn, localNames, callers)
	if err != nil {
		return fmt.Errorf("build function context: %w", err)
	}

	lines := strings.Split(string(content), "\n")
	chunk := analyzer.Chunk(sourcePath, lines, fn)

	registry, err := buildLLMRegistry(cfg)
	if err != nil {
		return err
	}
	client, err := registry.Get(provider)
	if err != nil {
		return err
	}

	memCache, err := cache.New(256)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}

	gen := &generate.Generator{
		LLM:         client,
		Cache:       memCache,
		Retry:       llm.DefaultRetryConfig(),
		GeneratedBy: cfg.LLM.Model,
	}

	testFilePath := promptbuild.TestFileLocation(sourcePath, cfg.TestLocationStrategy)
	suite, err := gen.Generate(ctx, generate.Request{
		Context:        fc,
		Chunk:          chunk,
		Framework:      framework,
		TestFilePath:   testFilePath,
		SourceFilePath: sourcePath,
	})
	if err != nil {
		return fmt.Errorf("generate test suite: %w", err)
	}

	absTestPath := testFilePath
	if !filepath.IsAbs(absTestPath) {
		absTestPath = filepath.Join(ws, testFilePath)
	}
	suite.FilePath = absTestPath

	reviewer := diffreview.NewReviewer()
	result, err := reviewer.GenerateDiff(suite)
	if err != nil {
		return fmt.Errorf("diff test file: %w", err)
	}
	fd := reviewer.Review(result.FilePath, result.OriginalContent, result.NewContent)
	fmt.Print(diffreview.FormatForCLI(fd))

	if genWrite {
		if err := diffreview.ApplyTest(absTestPath, suite.Code); err != nil {
			return fmt.Errorf("write test file: %w", err)
		}
		fmt.Printf("wrote %s\n", absTestPath)
	}

	return nil
}

func selectFunction(fns []analyzer.FunctionInfo, name string) (analyzer.FunctionInfo, error) {
	if name == "" {
		return fns[0], nil
	}
	for _, fn := range fns {
		if fn.Signature.Name == name {
			return fn, nil
		}
	}
	return analyzer.FunctionInfo{}, fmt.Errorf("function %q not found", name)
}

func buildLLMRegistry(cfg *config.Config) (*llm.Registry, error) {
	reg := llm.NewRegistry()

	openaiKey := os.Getenv(config.APIKeyEnvVar("openai"))
	if openaiKey != "" {
		reg.Register("openai", llm.NewOpenAIClient(openaiKey, "", cfg.LLM.Model, cfg.LLM.MaxTokens, cfg.LLM.Temperature))
	}
	if compatKey := os.Getenv(config.APIKeyEnvVar("openai-compatible")); compatKey != "" || cfg.LLM.APIBase != "" {
		reg.Register("openai-compatible", llm.NewOpenAIClient(compatKey, cfg.LLM.APIBase, cfg.LLM.Model, cfg.LLM.MaxTokens, cfg.LLM.Temperature))
	}
	if anthropicKey := os.Getenv(config.APIKeyEnvVar("anthropic")); anthropicKey != "" {
		reg.Register("anthropic", llm.NewAnthropicClient(anthropicKey, cfg.LLM.Model, cfg.LLM.MaxTokens))
	}

	return reg, nil
}
