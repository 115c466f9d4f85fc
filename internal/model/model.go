// Package model holds the data types shared across every testmind
// component: a single place for cross-package structs so analyzer,
// retrieval, and generate never need to import one another just to
// share a shape.
package model

import "time"

// ChunkKind classifies the syntactic unit a CodeChunk was cut from.
type ChunkKind string

const (
	KindFunction ChunkKind = "function"
	KindClass    ChunkKind = "class"
	KindMethod   ChunkKind = "method"
	KindModule   ChunkKind = "module"
)

// CodeChunk is a content-addressed fragment of source: its id joins the
// file path, the name and an FNV-1a hash of the content, so a revised
// function gets a new id. Immutable after creation.
type CodeChunk struct {
	ID         string
	FilePath   string
	Content    string
	StartLine  int
	EndLine    int
	Kind       ChunkKind
	Name       string
	Complexity *ComplexityReport
	Embedding  []float32
	Metadata   map[string]string
}

// Parameter describes a single function parameter.
type Parameter struct {
	Name         string
	Type         string
	Optional     bool
	DefaultValue string
}

// FunctionSignature is derived from the AST and treated as read-only
// downstream of the analyzer.
type FunctionSignature struct {
	Name          string
	FilePath      string
	Parameters    []Parameter
	ReturnType    string
	IsAsync       bool
	Documentation string
}

// DependencyKind classifies a function's dependency on another symbol.
type DependencyKind string

const (
	DependencyInternal DependencyKind = "internal"
	DependencyExternal DependencyKind = "external"
	DependencyBuiltin  DependencyKind = "builtin"
)

// Dependency is one symbol a function relies on.
type Dependency struct {
	Name   string
	Type   DependencyKind
	UsedIn string
}

// SideEffectKind enumerates the structural side-effect categories the
// inferencer can detect.
type SideEffectKind string

const (
	SideEffectIO         SideEffectKind = "io"
	SideEffectNetwork    SideEffectKind = "network"
	SideEffectState      SideEffectKind = "state"
	SideEffectDatabase   SideEffectKind = "database"
	SideEffectFilesystem SideEffectKind = "filesystem"
)

// SideEffect is one detected effect a function has beyond its declared
// parameters/return.
type SideEffect struct {
	Type        SideEffectKind
	Description string
	Location    string
}

// ComplexityReport holds the metrics the Complexity Analyzer computes.
type ComplexityReport struct {
	Cyclomatic           int
	Cognitive            int
	LOC                  int
	MaintainabilityIndex float64
}

// FunctionContext is the composite passed to planners and prompt builders.
type FunctionContext struct {
	Signature     FunctionSignature
	Dependencies  []Dependency
	Callers       []string
	SideEffects   []SideEffect
	ExistingTests []string
	Coverage      float64
	Complexity    ComplexityReport
}

// IsPure reports whether the function has no side effects and no external
// dependencies — the purity invariant used across the planner and prompt
// builder.
func (fc FunctionContext) IsPure() bool {
	if len(fc.SideEffects) != 0 {
		return false
	}
	for _, d := range fc.Dependencies {
		if d.Type == DependencyExternal {
			return false
		}
	}
	return true
}

// PinnedChunk is a user-added chunk with explicit precedence.
type PinnedChunk struct {
	Chunk    CodeChunk
	AddedAt  time.Time
	Reason   string
	Priority int
}

// ContextSnapshot is the current state of the Explicit Context Manager.
type ContextSnapshot struct {
	PinnedChunks    []PinnedChunk
	FocusScope      []string
	EstimatedTokens int
	Timestamp       time.Time
}

// DedupStats reports how many duplicate chunks Context Fusion found/removed.
type DedupStats struct {
	DuplicatesFound   int
	DuplicatesRemoved int
}

// FusionResult is the output of context fusion.
type FusionResult struct {
	Chunks         []CodeChunk
	ExplicitTokens int
	AutoTokens     int
	TotalTokens    int
	Truncated      bool
	Deduplication  DedupStats
}

// TokenBudget is the per-model accounting envelope.
type TokenBudget struct {
	Model                string
	MaxContextTokens     int
	MaxCompletionTokens  int
	AvailableInputTokens int
}

// StrategyType enumerates the test-authoring styles the planner can choose.
type StrategyType string

const (
	StrategyAAA           StrategyType = "AAA"
	StrategyTableDriven   StrategyType = "table-driven"
	StrategyPropertyBased StrategyType = "property-based"
)

// BoundaryCondition is one canonical boundary value set for a parameter.
type BoundaryCondition struct {
	Parameter string
	Values    []string
	Reasoning string
}

// EdgeCase is one scenario the generated test should cover beyond the
// boundary-value grid.
type EdgeCase struct {
	Scenario         string
	Input            string
	ExpectedBehavior string
}

// MockType enumerates how thoroughly a dependency should be mocked.
type MockType string

const (
	MockNone    MockType = "none"
	MockPartial MockType = "partial"
	MockFull    MockType = "full"
	MockSpy     MockType = "spy"
)

// MockStrategy describes how dependencies should be faked in the test.
type MockStrategy struct {
	Dependencies []string
	MockType     MockType
	MockData     map[string]string
}

// TestStrategy is the planner's output.
type TestStrategy struct {
	Type               StrategyType
	BoundaryConditions []BoundaryCondition
	EdgeCases          []EdgeCase
	MockStrategy       MockStrategy
}

// TestSuite is the generation output. Immutable; a new
// revision is a new record, never a mutation of an existing one.
type TestSuite struct {
	ID             string
	ProjectID      string
	TargetEntityID string
	TestType       string
	Framework      string
	Code           string
	FilePath       string
	GeneratedAt    time.Time
	GeneratedBy    string
	Metadata       map[string]string
}

// DiffResult is the output of the diff reviewer.
type DiffResult struct {
	FilePath        string
	Exists          bool
	Diff            string
	OriginalContent string
	NewContent      string
}

// FailureType enumerates the Failure Classifier's taxonomy.
type FailureType string

const (
	FailureEnvironment   FailureType = "environment"
	FailureTestFragility FailureType = "test_fragility"
	FailureRealBug       FailureType = "real_bug"
	FailureFlaky         FailureType = "flaky"
	FailureUnknown       FailureType = "unknown"
)

// FailureClassification is the classifier's verdict for one failed test.
type FailureClassification struct {
	FailureType      FailureType
	Confidence       float64
	IsFlaky          bool
	SuggestedActions []string
	MatchedKeywords  []string
}

// CacheEntry is one semantic-cache record.
type CacheEntry struct {
	Key       string
	Value     string
	Embedding []float32
	Timestamp time.Time
	Hits      int64
	TTL       time.Duration
}
