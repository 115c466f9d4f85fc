package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"testmind/internal/analyzer"
	"testmind/internal/config"
	"testmind/internal/depgraph"
	"testmind/internal/model"
	"testmind/internal/vectorstore"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap testmind in the current workspace",
	Long: `Scans the workspace, writes a default config if one is missing, and
builds the initial vector index and dependency graph used by later
generate/heal runs.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing config with the defaults")
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ws := workspace
	if ws == "" {
		ws, _ = os.Getwd()
	}

	cfgFile := filepath.Join(ws, configPath)
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) || forceInit {
		cfg := config.DefaultConfig()
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal default config: %w", err)
		}
		if err := os.WriteFile(cfgFile, data, 0o644); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("wrote default config to %s\n", cfgFile)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(ws, ".testmind"), 0o755); err != nil {
		return fmt.Errorf("create .testmind dir: %w", err)
	}

	parsers := analyzer.Default()
	graph := depgraph.New()

	store, err := vectorstore.Open(filepath.Join(ws, cfg.VectorStoreDir, "chunks.db"))
	if err != nil {
		return fmt.Errorf("open vector store: %w", err)
	}
	defer store.Close()

	var fileCount, funcCount int
	err = filepath.Walk(ws, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			if shouldSkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(ws, path)
		if err != nil {
			rel = path
		}
		if !shouldInclude(rel, cfg.ExcludePatterns) {
			return nil
		}
		ext := filepath.Ext(path)
		if !parsers.HasParser(ext) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			logger.Sugar().Warnf("skipping unreadable file %s: %v", path, err)
			return nil
		}
		if len(content) > cfg.MaxFileSize {
			return nil
		}

		analysis, err := parsers.Parse(ext, path, content)
		if err != nil || analysis == nil {
			return nil
		}

		knownFuncs := map[string]string{}
		for _, fn := range analysis.Functions {
			knownFuncs[fn.Signature.Name] = path
		}
		graph.AddFile(path, analysis.Imports, analysis.Functions, knownFuncs)

		lines := strings.Split(string(content), "\n")
		chunks := make([]model.CodeChunk, 0, len(analysis.Functions))
		for _, fn := range analysis.Functions {
			chunks = append(chunks, analyzer.Chunk(path, lines, fn))
		}
		if len(chunks) > 0 {
			if err := store.Insert(ctx, chunks); err != nil {
				logger.Sugar().Warnf("indexing %s: %v", path, err)
			}
		}

		fileCount++
		funcCount += len(analysis.Functions)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk workspace: %w", err)
	}

	fmt.Printf("indexed %d files, %d functions\n", fileCount, funcCount)
	return nil
}

// shouldSkipDir prunes well-known non-source directories from the walk.
func shouldSkipDir(path string) bool {
	base := filepath.Base(path)
	switch base {
	case ".git", "node_modules", "vendor", ".testmind":
		return true
	}
	return false
}

// shouldInclude reports whether rel survives the exclude-pattern list.
// Include patterns are narrowed to the parser registry's own extension
// check; only excludes need pattern matching here.
func shouldInclude(rel string, excludes []string) bool {
	for _, pat := range excludes {
		prefix := strings.TrimSuffix(pat, "/**")
		switch {
		case strings.HasSuffix(pat, "/**") && strings.HasPrefix(rel, prefix+"/"):
			return false
		case strings.HasPrefix(pat, "**/") && strings.HasSuffix(rel, strings.TrimPrefix(strings.TrimPrefix(pat, "**/"), "*")):
			return false
		case !strings.Contains(pat, "*") && rel == pat:
			return false
		}
	}
	return true
}
