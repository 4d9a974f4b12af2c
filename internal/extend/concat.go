package extend

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// ConcatListName is the temporary manifest consumed by the concat demuxer
const ConcatListName = "concat_list.txt"

// LoopCount returns how many times the source must repeat to cover the
// target duration. The result is never below 1: a source longer than the
// target is written once and trimmed.
func LoopCount(sourceSeconds, targetSeconds float64) (int, error) {
	if sourceSeconds <= 0 {
		return 0, fmt.Errorf("source duration must be positive, got: %v", sourceSeconds)
	}
	if targetSeconds <= 0 {
		return 0, fmt.Errorf("target duration must be positive, got: %v", targetSeconds)
	}

	loops := int(math.Ceil(targetSeconds / sourceSeconds))
	if loops < 1 {
		loops = 1
	}
	return loops, nil
}

// WriteConcatList writes the concat demuxer manifest: one line per loop,
// each referencing the absolute path of the input file.
func WriteConcatList(listPath, inputPath string, loops int) error {
	if loops < 1 {
		return fmt.Errorf("loop count must be at least 1, got: %d", loops)
	}

	absPath, err := filepath.Abs(inputPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	var b strings.Builder
	line := "file '" + escapeConcatPath(absPath) + "'\n"
	for i := 0; i < loops; i++ {
		b.WriteString(line)
	}

	if err := os.WriteFile(listPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}
	return nil
}

// escapeConcatPath escapes single quotes for the concat demuxer's
// single-quoted file directive.
func escapeConcatPath(path string) string {
	return strings.ReplaceAll(path, "'", `'\''`)
}
