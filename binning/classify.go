package binning

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	// SuccessMarker is metawrap's literal end-of-run line.
	SuccessMarker = "PIPELINE SUCCESSFULLY FINISHED"

	// NoFailuresSentinel distinguishes "ran, zero failures" from an empty
	// or missing file.
	NoFailuresSentinel = "none"

	// UnparsableLogPrefix marks a failing log whose sample could not be
	// recovered; the path after the colon identifies the log.
	UnparsableLogPrefix = "UnparsableLog:"
)

// ClassifyLogs scans every job log for one assembler and returns the failed
// samples, sorted for deterministic output. A log fails when it lacks the
// success marker. The sample is recovered from the log's filename, which the
// generator controls; sampleTag is a fallback body scan for logs written
// under an older naming scheme (the tag precedes the sample token in the
// tool's own output).
func ClassifyLogs(logger *slog.Logger, logDir string, assembler string, sampleTag string) ([]string, error) {
	pattern := filepath.Join(logDir, "*_"+assembler+".out")
	logPaths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad log pattern %s: %w", pattern, err)
	}

	failed := make(map[string]struct{})
	for _, logPath := range logPaths {
		body, err := os.ReadFile(logPath)
		if err != nil {
			return nil, fmt.Errorf("cannot read job log %s: %w", logPath, err)
		}
		if strings.Contains(string(body), SuccessMarker) {
			continue
		}

		sample, err := ExtractSampleID(logPath, "_"+assembler+".out")
		if err != nil {
			sample = extractSampleFromBody(string(body), sampleTag)
		}
		if sample == "" {
			logger.Warn("UNPARSABLE JOB LOG", "ASSEMBLER", assembler, "LOG", logPath)
			sample = UnparsableLogPrefix + logPath
		}
		failed[sample] = struct{}{}
		logger.Warn("JOB FAILED", "ASSEMBLER", assembler, "SAMPLE", sample, "LOG", logPath)
	}

	samples := maps.Keys(failed)
	slices.Sort(samples)
	return samples, nil
}

// extractSampleFromBody takes the first token following sampleTag, up to the
// next whitespace. Empty tag or no occurrence yields "".
func extractSampleFromBody(body string, sampleTag string) string {
	if sampleTag == "" {
		return ""
	}
	idx := strings.Index(body, sampleTag)
	if idx < 0 {
		return ""
	}
	rest := body[idx+len(sampleTag):]
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	end := strings.IndexFunc(rest, unicode.IsSpace)
	if end < 0 {
		end = len(rest)
	}
	return rest[:end]
}

// WriteFailedSampleList writes one sample per line, or the literal sentinel
// when there were no failures. Downstream consumers test for "any line other
// than none".
func WriteFailedSampleList(failedListPath string, samples []string) error {
	lines := samples
	if len(lines) == 0 {
		lines = []string{NoFailuresSentinel}
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(failedListPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("cannot write failed sample list %s: %w", failedListPath, err)
	}
	return nil
}
