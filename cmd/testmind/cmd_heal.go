package main

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/spf13/cobra"

	"testmind/internal/heal"
	"testmind/internal/locator"
)

var (
	healTestName string
	healMessage  string
	healURL      string
	healAutoFix  bool
	healID       string
	healTestID   string
	healCSS      string
	healXPath    string
)

var healCmd = &cobra.Command{
	Use:   "heal",
	Short: "Classify a test failure and attempt self-healing",
	Long: `Classifies a failure message and, when it looks like a stale
selector rather than a real regression, launches a headless browser at
--url and runs the locator waterfall to find a more durable selector.`,
	RunE: runHeal,
}

func init() {
	healCmd.Flags().StringVar(&healTestName, "test", "", "Name of the failing test")
	healCmd.Flags().StringVar(&healMessage, "message", "", "Failure message to classify")
	healCmd.Flags().StringVar(&healURL, "url", "", "Page URL to relocate the element on (required with --auto-fix)")
	healCmd.Flags().BoolVar(&healAutoFix, "auto-fix", false, "Attempt to relocate and suggest a repaired selector")
	healCmd.Flags().StringVar(&healID, "id", "", "Known element id")
	healCmd.Flags().StringVar(&healTestID, "testid", "", "Known data-testid")
	healCmd.Flags().StringVar(&healCSS, "css", "", "Known CSS selector")
	healCmd.Flags().StringVar(&healXPath, "xpath", "", "Known XPath")
	healCmd.MarkFlagRequired("message")
}

func runHeal(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	descriptor := locator.Descriptor{ID: healID, TestID: healTestID, CSS: healCSS, XPath: healXPath}

	var page *rod.Page
	if healAutoFix && healURL != "" {
		browserURL, err := launcher.New().Headless(true).Launch()
		if err != nil {
			return fmt.Errorf("launch browser: %w", err)
		}
		browser := rod.New().ControlURL(browserURL).Context(ctx)
		if err := browser.Connect(); err != nil {
			return fmt.Errorf("connect to browser: %w", err)
		}
		defer browser.Close()

		page, err = browser.Page(proto.TargetCreateTarget{URL: healURL})
		if err != nil {
			return fmt.Errorf("open page %s: %w", healURL, err)
		}
		if err := page.WaitLoad(); err != nil {
			return fmt.Errorf("wait for page load: %w", err)
		}
	}

	outcome := heal.Heal(ctx, healTestName, healMessage, page, descriptor, heal.Options{AutoFix: healAutoFix})
	fmt.Print(heal.BatchReport([]heal.Outcome{outcome}, outcome.Duration))
	return nil
}
