package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"testmind/internal/analyzer"
	"testmind/internal/model"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origOut := os.Stdout
	rOut, wOut, _ := os.Pipe()
	os.Stdout = wOut

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, rOut)
		done <- buf.String()
	}()

	fn()

	wOut.Close()
	os.Stdout = origOut
	return <-done
}

func TestRunInit_WritesDefaultConfigAndIndexesGoFiles(t *testing.T) {
	logger = zap.NewNop()
	ws := t.TempDir()
	workspace = ws
	configPath = "testmind.yaml"
	timeout = time.Minute

	require.NoError(t, os.WriteFile(filepath.Join(ws, "sample.go"), []byte(`package sample

func Add(a, b int) int {
	return a + b
}
`), 0o644))

	output := captureOutput(t, func() {
		require.NoError(t, runInit(&cobra.Command{}, nil))
	})

	require.FileExists(t, filepath.Join(ws, "testmind.yaml"))
	require.Contains(t, output, "indexed 1 files, 1 functions")
}

func TestRunInit_KeepsExistingConfigWithoutForce(t *testing.T) {
	logger = zap.NewNop()
	ws := t.TempDir()
	workspace = ws
	configPath = "testmind.yaml"
	timeout = time.Minute
	forceInit = false

	require.NoError(t, runInit(&cobra.Command{}, nil))
	info1, err := os.Stat(filepath.Join(ws, "testmind.yaml"))
	require.NoError(t, err)

	require.NoError(t, runInit(&cobra.Command{}, nil))
	info2, err := os.Stat(filepath.Join(ws, "testmind.yaml"))
	require.NoError(t, err)
	require.Equal(t, info1.ModTime(), info2.ModTime())
}

func TestSelectFunction_FallsBackToFirstWhenNameEmpty(t *testing.T) {
	fns := []analyzer.FunctionInfo{
		{Signature: model.FunctionSignature{Name: "First"}},
		{Signature: model.FunctionSignature{Name: "Second"}},
	}
	fn, err := selectFunction(fns, "")
	require.NoError(t, err)
	require.Equal(t, "First", fn.Signature.Name)

	fn, err = selectFunction(fns, "Second")
	require.NoError(t, err)
	require.Equal(t, "Second", fn.Signature.Name)

	_, err = selectFunction(fns, "Missing")
	require.Error(t, err)
}

func TestShouldInclude_RespectsExcludePatterns(t *testing.T) {
	require.False(t, shouldInclude("vendor/foo.go", []string{"vendor/**"}))
	require.False(t, shouldInclude("pkg_test.go", []string{"**/*_test.go"}))
	require.True(t, shouldInclude("pkg/service.go", []string{"vendor/**", "**/*_test.go"}))
}
