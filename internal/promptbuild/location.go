package promptbuild

import (
	"path"
	"strings"

	"testmind/internal/config"
)

// TestFileLocation computes the test file path for sourcePath under the
// given strategy: colocated, separate (__tests__ at the project root),
// or nested (__tests__ alongside the source file).
func TestFileLocation(sourcePath string, strategy config.TestLocationStrategy) string {
	dir, file := path.Split(sourcePath)
	dot := strings.LastIndex(file, ".")
	base, ext := file, ""
	if dot >= 0 {
		base, ext = file[:dot], file[dot:]
	}

	switch strategy {
	case config.LocationSeparate:
		testName := base + testSuffix(ext)
		return path.Join("__tests__", dir, testName)
	case config.LocationNested:
		testName := base + testSuffix(ext)
		return path.Join(dir, "__tests__", testName)
	case config.LocationColocated:
		fallthrough
	default:
		return TestFilePath(sourcePath, "")
	}
}

func testSuffix(ext string) string {
	if ext == ".go" {
		return "_test" + ext
	}
	return ".test" + ext
}

// RelativeImportPath computes the minimal forward-slash relative import
// path between a test file and its source file.
func RelativeImportPath(testFilePath, sourceFilePath string) string {
	rel, err := relSlash(path.Dir(testFilePath), sourceFilePath)
	if err != nil {
		return sourceFilePath
	}
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

func relSlash(fromDir, target string) (string, error) {
	fromParts := strings.Split(strings.Trim(fromDir, "/"), "/")
	targetParts := strings.Split(strings.Trim(target, "/"), "/")

	i := 0
	for i < len(fromParts) && i < len(targetParts)-1 && fromParts[i] == targetParts[i] {
		i++
	}
	ups := len(fromParts) - i
	rest := targetParts[i:]

	var segments []string
	for j := 0; j < ups; j++ {
		segments = append(segments, "..")
	}
	segments = append(segments, rest...)
	return strings.Join(segments, "/"), nil
}
