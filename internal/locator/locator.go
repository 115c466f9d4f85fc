// Package locator implements an ordered waterfall of element-finding
// strategies over a live browser page, used both for generating robust
// selectors and for the self-healing engine's relocate step.
package locator

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
)

// StrategyKind names one waterfall step, in fixed priority order.
type StrategyKind string

const (
	StrategyID       StrategyKind = "id"
	StrategyTestID   StrategyKind = "testid"
	StrategyRole     StrategyKind = "role"
	StrategyARIA     StrategyKind = "aria"
	StrategyCSS      StrategyKind = "css"
	StrategyXPath    StrategyKind = "xpath"
	StrategyVisual   StrategyKind = "visual"
	StrategySemantic StrategyKind = "semantic"
)

// waterfall is the fixed strategy order: id, then testId/role/aria as a
// group, then css, then xpath, then visual, then semantic.
var waterfall = []StrategyKind{
	StrategyID, StrategyTestID, StrategyRole, StrategyARIA,
	StrategyCSS, StrategyXPath, StrategyVisual, StrategySemantic,
}

// confidenceOf is the base confidence a successful match at a given
// strategy carries, before any locate-time adjustment.
var confidenceOf = map[StrategyKind]float64{
	StrategyID:       0.98,
	StrategyTestID:   0.95,
	StrategyRole:     0.85,
	StrategyARIA:     0.85,
	StrategyCSS:      0.75,
	StrategyXPath:    0.65,
	StrategyVisual:   0.5,
	StrategySemantic: 0.4,
}

// DefaultConfidenceThreshold is the minimum confidence a match must clear
// to be accepted outright rather than flagged fragile.
const DefaultConfidenceThreshold = 0.85

// Descriptor is what the caller knows about an element before it has
// been located: any subset of an id, test id, role, aria label, CSS
// selector, XPath, or free-text description.
type Descriptor struct {
	ID       string
	TestID   string
	Role     string
	ARIA     string
	CSS      string
	XPath    string
	Text     string // visual/semantic fallback: visible text content
}

// ElementHandle wraps a located *rod.Element with the strategy and
// confidence that found it.
type ElementHandle struct {
	Element    *rod.Element
	Strategy   StrategyKind
	Selector   string
	Confidence float64
}

// Locate runs the waterfall against page, returning the first element
// matched by the first strategy that finds one; whether the match is
// unique on the page is not checked.
func Locate(ctx context.Context, page *rod.Page, d Descriptor) (*ElementHandle, error) {
	for _, strat := range waterfall {
		selector, ok := selectorFor(strat, d)
		if !ok {
			continue
		}

		el, err := find(ctx, page, strat, selector)
		if err != nil {
			continue
		}
		return &ElementHandle{
			Element:    el,
			Strategy:   strat,
			Selector:   selector,
			Confidence: confidenceOf[strat],
		}, nil
	}
	return nil, fmt.Errorf("no strategy located an element for descriptor %+v", d)
}

func selectorFor(strat StrategyKind, d Descriptor) (string, bool) {
	switch strat {
	case StrategyID:
		if d.ID != "" {
			return fmt.Sprintf("#%s", d.ID), true
		}
	case StrategyTestID:
		if d.TestID != "" {
			return fmt.Sprintf(`[data-testid="%s"]`, d.TestID), true
		}
	case StrategyRole:
		if d.Role != "" {
			return fmt.Sprintf(`[role="%s"]`, d.Role), true
		}
	case StrategyARIA:
		if d.ARIA != "" {
			return fmt.Sprintf(`[aria-label="%s"]`, d.ARIA), true
		}
	case StrategyCSS:
		if d.CSS != "" {
			return d.CSS, true
		}
	case StrategyXPath:
		if d.XPath != "" {
			return d.XPath, true
		}
	case StrategyVisual, StrategySemantic:
		if d.Text != "" {
			return d.Text, true
		}
	}
	return "", false
}

func find(ctx context.Context, page *rod.Page, strat StrategyKind, selector string) (*rod.Element, error) {
	p := page.Context(ctx)
	switch strat {
	case StrategyXPath:
		return p.ElementX(selector)
	case StrategyVisual, StrategySemantic:
		return p.ElementR("*", selector)
	default:
		return p.Element(selector)
	}
}

// IsFragile reports whether a match's strategy/confidence indicates a
// brittle locator worth proactively repairing, even though it succeeded.
func IsFragile(h *ElementHandle) bool {
	return h.Confidence < DefaultConfidenceThreshold
}

// SuggestRepair proposes a more durable descriptor for a fragile match,
// preferring data-testid or role attributes read off the live element
// over the CSS/XPath selector that happened to work this time.
func SuggestRepair(ctx context.Context, h *ElementHandle) (Descriptor, error) {
	attrs, err := h.Element.Context(ctx).Attribute("data-testid")
	if err == nil && attrs != nil && strings.TrimSpace(*attrs) != "" {
		return Descriptor{TestID: *attrs}, nil
	}

	if role, err := h.Element.Context(ctx).Attribute("role"); err == nil && role != nil && strings.TrimSpace(*role) != "" {
		return Descriptor{Role: *role}, nil
	}

	if aria, err := h.Element.Context(ctx).Attribute("aria-label"); err == nil && aria != nil && strings.TrimSpace(*aria) != "" {
		return Descriptor{ARIA: *aria}, nil
	}

	if id, err := h.Element.Context(ctx).Attribute("id"); err == nil && id != nil && strings.TrimSpace(*id) != "" {
		return Descriptor{ID: *id}, nil
	}

	return Descriptor{}, fmt.Errorf("no stable attribute found to repair selector %q", h.Selector)
}
