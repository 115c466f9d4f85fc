// Package vectorstore is the persistent vector index: a SQLite-backed
// table of chunks plus their embeddings, searched by a brute-force
// cosine scan. Building with the sqlite_vec tag and a cgo toolchain
// registers the sqlite-vec extension (init_vec.go), but Store always
// opens the pure-Go driver and Search does not use an ANN index.
package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"testmind/internal/embedding"
	"testmind/internal/logging"
	"testmind/internal/model"

	_ "modernc.org/sqlite"
)

// SearchFilter narrows a Search call.
type SearchFilter struct {
	FilePath      string
	Kind          model.ChunkKind
	MinComplexity int
}

func (f SearchFilter) matches(c model.CodeChunk) bool {
	if f.FilePath != "" && c.FilePath != f.FilePath {
		return false
	}
	if f.Kind != "" && c.Kind != f.Kind {
		return false
	}
	if f.MinComplexity > 0 {
		if c.Complexity == nil || c.Complexity.Cyclomatic < f.MinComplexity {
			return false
		}
	}
	return true
}

// SearchResult is one ranked chunk: Score is the cosine similarity in
// [-1,1]; Search orders results by descending score.
type SearchResult struct {
	Chunk     model.CodeChunk
	Score     float64
	Relevance string
}

// Stats summarizes store contents.
type Stats struct {
	TotalChunks   int
	TotalFiles    int
	IndexStrategy string
}

// Store is the persistent, filterable vector index.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	engine embedding.Engine
}

// Open creates/opens the SQLite-backed store at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create vector store dir: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS chunks (
	id TEXT PRIMARY KEY,
	file_path TEXT NOT NULL,
	content TEXT NOT NULL,
	start_line INTEGER,
	end_line INTEGER,
	kind TEXT,
	name TEXT,
	complexity INTEGER,
	embedding TEXT,
	metadata TEXT
);
CREATE INDEX IF NOT EXISTS idx_chunks_file ON chunks(file_path);
`)
	return err
}

// SetEmbeddingEngine wires the engine used to embed new chunks on Insert.
func (s *Store) SetEmbeddingEngine(e embedding.Engine) { s.engine = e }

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Insert adds chunks, embedding any that lack a vector already.
func (s *Store) Insert(ctx context.Context, chunks []model.CodeChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert tx: %w", err)
	}
	if err := s.insertTx(ctx, tx, chunks); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logging.For(logging.CategoryStore).Debug("inserted chunks", map[string]interface{}{"count": len(chunks)})
	return nil
}

func (s *Store) insertTx(ctx context.Context, tx *sql.Tx, chunks []model.CodeChunk) error {
	stmt, err := tx.PrepareContext(ctx, `
INSERT OR REPLACE INTO chunks (id, file_path, content, start_line, end_line, kind, name, complexity, embedding, metadata)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		if len(c.Embedding) == 0 && s.engine != nil {
			vec, err := s.engine.Embed(ctx, c.Content)
			if err != nil {
				return fmt.Errorf("embed chunk %s: %w", c.ID, err)
			}
			c.Embedding = vec
		}
		embJSON, err := json.Marshal(c.Embedding)
		if err != nil {
			return err
		}
		metaJSON, err := json.Marshal(c.Metadata)
		if err != nil {
			return err
		}
		complexity := 0
		if c.Complexity != nil {
			complexity = c.Complexity.Cyclomatic
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.FilePath, c.Content, c.StartLine, c.EndLine,
			string(c.Kind), c.Name, complexity, string(embJSON), string(metaJSON)); err != nil {
			return fmt.Errorf("insert chunk %s: %w", c.ID, err)
		}
	}
	return nil
}

// UpdateFile atomically replaces every chunk belonging to path: delete
// then insert inside one transaction, so readers never observe a
// partially-updated file.
func (s *Store) UpdateFile(ctx context.Context, path string, chunks []model.CodeChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE file_path = ?`, path); err != nil {
		tx.Rollback()
		return fmt.Errorf("delete file chunks: %w", err)
	}
	if err := s.insertTx(ctx, tx, chunks); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// DeleteFile removes every chunk belonging to path.
func (s *Store) DeleteFile(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE file_path = ?`, path)
	return err
}

// Search returns the k chunks most similar to vector, optionally
// filtered, ordered by descending cosine score.
func (s *Store) Search(ctx context.Context, vector []float32, k int, filter SearchFilter) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, file_path, content, start_line, end_line, kind, name, complexity, embedding, metadata FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var c model.CodeChunk
		var kindStr, embJSON, metaJSON string
		var complexity int
		if err := rows.Scan(&c.ID, &c.FilePath, &c.Content, &c.StartLine, &c.EndLine, &kindStr, &c.Name, &complexity, &embJSON, &metaJSON); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		c.Kind = model.ChunkKind(kindStr)
		if complexity > 0 {
			c.Complexity = &model.ComplexityReport{Cyclomatic: complexity}
		}
		var emb []float32
		if err := json.Unmarshal([]byte(embJSON), &emb); err != nil {
			continue
		}
		var meta map[string]string
		json.Unmarshal([]byte(metaJSON), &meta)
		c.Metadata = meta

		if !filter.matches(c) {
			continue
		}
		if len(emb) != len(vector) {
			continue
		}
		score, err := embedding.CosineSimilarity(vector, emb)
		if err != nil {
			continue
		}
		results = append(results, SearchResult{Chunk: c, Score: score, Relevance: relevanceOf(score)})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func relevanceOf(score float64) string {
	switch {
	case score >= 0.85:
		return "high"
	case score >= 0.6:
		return "medium"
	default:
		return "low"
	}
}

// Optimize compacts the backing database. Idempotent; safe to run on a
// schedule or after large delete/update churn.
func (s *Store) Optimize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `VACUUM`); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	_, err := s.db.ExecContext(ctx, `ANALYZE`)
	return err
}

// GetStats reports index size and the recommended index strategy.
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&total); err != nil {
		return Stats{}, err
	}
	var files int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT file_path) FROM chunks`).Scan(&files); err != nil {
		return Stats{}, err
	}
	return Stats{TotalChunks: total, TotalFiles: files, IndexStrategy: RecommendIndexStrategy(total)}, nil
}

// RecommendIndexStrategy picks index parameters by corpus size: linear
// scan below 1000 vectors, sqrt(N) partitions from 1k-10k, N/100 from
// 10k-100k, N/200 above.
func RecommendIndexStrategy(n int) string {
	switch {
	case n < 1000:
		return "linear_scan"
	case n < 10000:
		return fmt.Sprintf("ivf_partitions=%d", isqrt(n))
	case n < 100000:
		return fmt.Sprintf("ivf_partitions=%d", n/100)
	default:
		return fmt.Sprintf("ivf_partitions=%d", n/200)
	}
}

func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	x := n
	for i := 0; i < 30; i++ {
		x = (x + n/x) / 2
	}
	return x
}
