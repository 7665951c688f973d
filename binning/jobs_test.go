package binning

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixtureJobs() ([]ReadPair, []AssemblyRecord) {
	pairs := []ReadPair{
		{Sample: "S1", Forward: "/r/S1_1.fastq", Reverse: "/r/S1_2.fastq"},
		{Sample: "S2", Forward: "/r/S2_1.fastq", Reverse: "/r/S2_2.fastq"},
	}
	records := []AssemblyRecord{
		{Sample: "S1", Assembler: "megahit", Contigs: "/asm/S1_megahit_out/final.contigs.fa"},
		{Sample: "S2", Assembler: "megahit", Contigs: "/asm/S2_megahit_out/final.contigs.fa"},
	}
	return pairs, records
}

func TestRenderCommand(t *testing.T) {
	job := MatchedJob{
		Sample:    "S1",
		Assembler: "megahit",
		Contigs:   "/asm/S1_megahit_out/final.contigs.fa",
		Forward:   "/r/S1_1.fastq",
		Reverse:   "/r/S1_2.fastq",
		OutDir:    "/out/megahit_binning/S1_binning_out",
		LogPath:   "/out/logs/S1_megahit.out",
	}

	line := RenderCommand(job, DefaultJobParams)
	assert.Equal(t,
		"metawrap binning -a /asm/S1_megahit_out/final.contigs.fa -o /out/megahit_binning/S1_binning_out "+
			"-t 32 -m 128 -l 5000 --metabat2 --maxbin2 --concoct /r/S1_1.fastq /r/S1_2.fastq &> /out/logs/S1_megahit.out",
		line)
}

func TestBuildJobs(t *testing.T) {
	pairs, records := fixtureJobs()

	jobs := BuildJobs(discardLogger(), []string{"S1", "S2"}, pairs, records, "/out/megahit_binning", "/out/logs")
	require.Len(t, jobs, 2)
	assert.Equal(t, "/out/megahit_binning/S1_binning_out", jobs[0].OutDir)
	assert.Equal(t, "/out/logs/S1_megahit.out", jobs[0].LogPath)
	assert.Equal(t, "/asm/S2_megahit_out/final.contigs.fa", jobs[1].Contigs)
}

func TestBuildJobsFirstMatchWins(t *testing.T) {
	pairs, records := fixtureJobs()
	records = append(records, AssemblyRecord{Sample: "S1", Assembler: "megahit", Contigs: "/asm/dup/final.contigs.fa"})

	jobs := BuildJobs(discardLogger(), []string{"S1"}, pairs, records, "/out/b", "/out/logs")
	require.Len(t, jobs, 1)
	assert.Equal(t, "/asm/S1_megahit_out/final.contigs.fa", jobs[0].Contigs)
}

func TestBuildJobsSkipsUnresolvableSample(t *testing.T) {
	pairs, records := fixtureJobs()

	// Should not occur after reconciliation, but must not abort the batch.
	jobs := BuildJobs(discardLogger(), []string{"S1", "GHOST"}, pairs, records, "/out/b", "/out/logs")
	require.Len(t, jobs, 1)
	assert.Equal(t, "S1", jobs[0].Sample)
}

func TestWriteJobListIsDeterministic(t *testing.T) {
	pairs, records := fixtureJobs()
	jobs := BuildJobs(discardLogger(), []string{"S1", "S2"}, pairs, records, "/out/b", "/out/logs")

	dir := t.TempDir()
	first := filepath.Join(dir, "a.txt")
	second := filepath.Join(dir, "b.txt")

	count, err := WriteJobList(first, jobs, DefaultJobParams)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	_, err = WriteJobList(second, jobs, DefaultJobParams)
	require.NoError(t, err)

	firstBody, err := os.ReadFile(first)
	require.NoError(t, err)
	secondBody, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, firstBody, secondBody)
	assert.Len(t, strings.Split(strings.TrimRight(string(firstBody), "\n"), "\n"), 2)
}

func TestWriteJobListTruncatesOnRerun(t *testing.T) {
	pairs, records := fixtureJobs()
	jobs := BuildJobs(discardLogger(), []string{"S1", "S2"}, pairs, records, "/out/b", "/out/logs")

	jobListPath := filepath.Join(t.TempDir(), "jobs.txt")
	_, err := WriteJobList(jobListPath, jobs, DefaultJobParams)
	require.NoError(t, err)
	_, err = WriteJobList(jobListPath, jobs[:1], DefaultJobParams)
	require.NoError(t, err)

	body, err := os.ReadFile(jobListPath)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(body), "\n"))
}

func TestWriteJobListRefusesEmpty(t *testing.T) {
	jobListPath := filepath.Join(t.TempDir(), "jobs.txt")

	_, err := WriteJobList(jobListPath, nil, DefaultJobParams)
	require.ErrorIs(t, err, ErrEmptyJobList)

	_, statErr := os.Stat(jobListPath)
	assert.True(t, os.IsNotExist(statErr), "empty job list must not leave a file behind")
}
