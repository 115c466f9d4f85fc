// Package diffreview computes a line-level diff between a generated
// test file and any existing file at that path, renders it for the CLI,
// and applies accepted results to disk. Diffing runs the
// DiffLinesToChars -> DiffMain -> DiffCleanupSemantic -> DiffCharsToLines
// pipeline over github.com/sergi/go-diff/diffmatchpatch, cached by an
// FNV-1a content-hash pair.
package diffreview

import (
	"strings"
	"sync"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineKind classifies one rendered diff line.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdded
	LineRemoved
)

// Line is one rendered line of a hunk.
type Line struct {
	Number  int
	Content string
	Kind    LineKind
}

// Hunk is one contiguous group of changes plus its context window.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Lines              []Line
}

// FileDiff is the computed diff between a file's existing and proposed
// contents; model.DiffResult carries this plus the raw strings.
type FileDiff struct {
	Path     string
	Hunks    []Hunk
	IsNew    bool
	IsDelete bool
}

const contextWindow = 3

// Reviewer computes and renders diffs, caching identical (old, new)
// content pairs by FNV-1a hash so re-reviewing an unchanged generation
// doesn't re-run the diff algorithm.
type Reviewer struct {
	dmp   *diffmatchpatch.DiffMatchPatch
	cache sync.Map
}

type cacheKey struct{ oldHash, newHash uint64 }

// NewReviewer builds a Reviewer with diffing timeouts disabled, trading
// worst-case latency for exact results on code-sized inputs.
func NewReviewer() *Reviewer {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	return &Reviewer{dmp: dmp}
}

// Review computes the FileDiff between oldContent (empty for a new
// file) and newContent at path.
func (r *Reviewer) Review(path, oldContent, newContent string) *FileDiff {
	fd := &FileDiff{Path: path, IsNew: oldContent == "", IsDelete: newContent == ""}

	key := cacheKey{fnv1a(oldContent), fnv1a(newContent)}
	if cached, ok := r.cache.Load(key); ok {
		if c, ok := cached.(*FileDiff); ok {
			clone := *c
			clone.Path = path
			return &clone
		}
	}

	a, b, lineArray := r.dmp.DiffLinesToChars(oldContent, newContent)
	diffs := r.dmp.DiffMain(a, b, false)
	diffs = r.dmp.DiffCleanupSemantic(diffs)
	diffs = r.dmp.DiffCharsToLines(diffs, lineArray)

	fd.Hunks = hunksFromDiffs(diffs, contextWindow)
	r.cache.Store(key, fd)
	return fd
}

type lineOp struct {
	kind             LineKind
	oldLine, newLine int
	content          string
}

func hunksFromDiffs(diffs []diffmatchpatch.Diff, context int) []Hunk {
	ops := opsFromDiffs(diffs)
	if len(ops) == 0 {
		return nil
	}
	return groupHunks(ops, context)
}

func opsFromDiffs(diffs []diffmatchpatch.Diff) []lineOp {
	var ops []lineOp
	oldLine, newLine := 0, 0

	for _, d := range diffs {
		lines := strings.Split(d.Text, "\n")
		if len(lines) > 1 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		for _, content := range lines {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				ops = append(ops, lineOp{LineContext, oldLine, newLine, content})
				oldLine++
				newLine++
			case diffmatchpatch.DiffDelete:
				ops = append(ops, lineOp{LineRemoved, oldLine, -1, content})
				oldLine++
			case diffmatchpatch.DiffInsert:
				ops = append(ops, lineOp{LineAdded, -1, newLine, content})
				newLine++
			}
		}
	}
	return ops
}

func groupHunks(ops []lineOp, context int) []Hunk {
	var hunks []Hunk
	var current *Hunk
	lastChange := -1

	closeHunk := func() {
		if current == nil {
			return
		}
		for _, l := range current.Lines {
			if l.Kind == LineRemoved || l.Kind == LineContext {
				current.OldCount++
			}
			if l.Kind == LineAdded || l.Kind == LineContext {
				current.NewCount++
			}
		}
		hunks = append(hunks, *current)
		current = nil
	}

	for i, op := range ops {
		if op.kind != LineContext {
			if current == nil {
				current = &Hunk{}
				start := i - context
				if start < 0 {
					start = 0
				}
				for j := start; j < i; j++ {
					if ops[j].kind == LineContext {
						current.Lines = append(current.Lines, Line{ops[j].oldLine + 1, ops[j].content, LineContext})
					}
				}
				current.OldStart = max0(ops[start].oldLine + 1)
				current.NewStart = max0(ops[start].newLine + 1)
			}
			lastChange = i
		}

		if current != nil {
			num := op.oldLine + 1
			if op.kind == LineAdded {
				num = op.newLine + 1
			}
			current.Lines = append(current.Lines, Line{num, op.content, op.kind})

			if op.kind == LineContext && i-lastChange > context {
				trimTo := len(current.Lines) - (i - lastChange - context)
				if trimTo > 0 && trimTo < len(current.Lines) {
					current.Lines = current.Lines[:trimTo]
				}
				closeHunk()
			}
		}
	}
	closeHunk()
	return hunks
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func fnv1a(s string) uint64 {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)
	h := uint64(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	return h
}
