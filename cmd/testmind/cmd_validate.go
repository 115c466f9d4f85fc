package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"testmind/internal/validate"
)

var (
	valModuleRoot string
	valFix        bool
	valImportPath string
)

var validateCmd = &cobra.Command{
	Use:   "validate <test-file>",
	Short: "Run a generated test file and report pass/fail",
	Long: `Copies the test file into a temporary package inside the module root,
runs "go test" on that package, and reports whether it passed. With
--import, verifies expect/toBe expectations against the real function
instead. With --fix, applies the detected expected-vs-actual mismatches
back into the test file, preserving line offsets by editing from the
bottom of the file up.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&valModuleRoot, "module-root", "", "Module root to run the test against (default: workspace)")
	validateCmd.Flags().BoolVar(&valFix, "fix", false, "Apply detected mismatches back into the test file")
	validateCmd.Flags().StringVar(&valImportPath, "import", "", "Import path of the package under test; enables expect/toBe expectation verification")
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ws := workspace
	if ws == "" {
		ws, _ = os.Getwd()
	}
	root := valModuleRoot
	if root == "" {
		root = ws
	}

	testPath := args[0]
	if !filepath.IsAbs(testPath) {
		testPath = filepath.Join(ws, testPath)
	}
	source, err := os.ReadFile(testPath)
	if err != nil {
		return fmt.Errorf("read test file: %w", err)
	}

	if valImportPath != "" {
		triples := validate.ExtractTriples(string(source))
		verification, err := validate.VerifyExpectations(ctx, triples, valImportPath, root, timeout)
		if err != nil {
			return fmt.Errorf("verify expectations: %w", err)
		}
		fmt.Printf("expectations: %d/%d matched (%.0f%%)\n",
			verification.MatchedExpectations, verification.TotalExpectations, verification.AccuracyRate*100)
		for _, m := range verification.Mismatches {
			fmt.Printf("  line %d: expected %s, got %s\n", m.LineNumber, m.Expected, m.Actual)
		}
		if valFix && len(verification.Mismatches) > 0 {
			corrected := validate.CorrectExpectations(string(source), verification.Mismatches)
			if err := os.WriteFile(testPath, []byte(corrected), 0o644); err != nil {
				return fmt.Errorf("write corrected test file: %w", err)
			}
			fmt.Printf("applied auto-correction to %s\n", testPath)
		}
		return nil
	}

	result, err := validate.Run(ctx, string(source), root, timeout)
	if err != nil {
		return fmt.Errorf("run test: %w", err)
	}
	fmt.Println(validate.Summarize(result))

	if result.Passed || !valFix || result.Mismatch == nil {
		return nil
	}

	corrected := validate.AutoCorrect(string(source), []validate.Mismatch{*result.Mismatch})
	if err := os.WriteFile(testPath, []byte(corrected), 0o644); err != nil {
		return fmt.Errorf("write corrected test file: %w", err)
	}
	fmt.Printf("applied auto-correction to %s\n", testPath)
	return nil
}
