package binning

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario: one log succeeded, one did not.
func TestClassifyLogsOneFailure(t *testing.T) {
	logDir := t.TempDir()
	writeFile(t, filepath.Join(logDir, "S1_megahit.out"), "binning contigs...\n"+SuccessMarker+"\n")
	writeFile(t, filepath.Join(logDir, "S2_megahit.out"), "binning contigs...\nERROR: maxbin2 died\n")

	failed, err := ClassifyLogs(discardLogger(), logDir, "megahit", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"S2"}, failed)
}

// Scenario: every log carries the success marker.
func TestClassifyLogsAllSucceeded(t *testing.T) {
	logDir := t.TempDir()
	writeFile(t, filepath.Join(logDir, "S1_megahit.out"), SuccessMarker)
	writeFile(t, filepath.Join(logDir, "S2_megahit.out"), "noise\n"+SuccessMarker+"\nmore noise")

	failed, err := ClassifyLogs(discardLogger(), logDir, "megahit", "")
	require.NoError(t, err)
	assert.Empty(t, failed)
}

func TestClassifyLogsIgnoresOtherAssembler(t *testing.T) {
	logDir := t.TempDir()
	writeFile(t, filepath.Join(logDir, "S1_metaspades.out"), "no marker here")

	failed, err := ClassifyLogs(discardLogger(), logDir, "megahit", "")
	require.NoError(t, err)
	assert.Empty(t, failed)
}

func TestClassifyLogsSampleTagFallback(t *testing.T) {
	logDir := t.TempDir()
	writeFile(t, filepath.Join(logDir, "_megahit.out"), "metawrap binning sample: S7 started\ncrash\n")

	failed, err := ClassifyLogs(discardLogger(), logDir, "megahit", "sample:")
	require.NoError(t, err)
	assert.Equal(t, []string{"S7"}, failed)
}

func TestClassifyLogsUnparsable(t *testing.T) {
	logDir := t.TempDir()
	logPath := filepath.Join(logDir, "_megahit.out")
	writeFile(t, logPath, "crash with no sample token\n")

	failed, err := ClassifyLogs(discardLogger(), logDir, "megahit", "sample:")
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, UnparsableLogPrefix+logPath, failed[0])
}

func TestExtractSampleFromBody(t *testing.T) {
	assert.Equal(t, "S3", extractSampleFromBody("xx sample: S3 more", "sample:"))
	assert.Equal(t, "S3", extractSampleFromBody("sample: S3", "sample:"))
	assert.Equal(t, "", extractSampleFromBody("no tag at all", "sample:"))
	assert.Equal(t, "", extractSampleFromBody("anything", ""))
}

func TestWriteFailedSampleListSentinel(t *testing.T) {
	failedListPath := filepath.Join(t.TempDir(), "failed.txt")

	require.NoError(t, WriteFailedSampleList(failedListPath, nil))
	body, err := os.ReadFile(failedListPath)
	require.NoError(t, err)
	assert.Equal(t, NoFailuresSentinel+"\n", string(body))
}

func TestWriteFailedSampleList(t *testing.T) {
	failedListPath := filepath.Join(t.TempDir(), "failed.txt")

	require.NoError(t, WriteFailedSampleList(failedListPath, []string{"S2", "S5"}))
	body, err := os.ReadFile(failedListPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"S2", "S5"}, strings.Split(strings.TrimRight(string(body), "\n"), "\n"))
}
