package binning

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// JobParams are the run-wide metawrap invocation constants shared by every
// generated job.
type JobParams struct {
	MinContigLen int
	Threads      int
	Memory       int
}

// DefaultJobParams matches the resource footprint the binning containers are
// provisioned for.
var DefaultJobParams = JobParams{
	MinContigLen: 5000,
	Threads:      32,
	Memory:       128,
}

// MatchedJob pairs one sample's assembly with its reads and output location.
type MatchedJob struct {
	Sample    string
	Assembler string
	Contigs   string
	Forward   string
	Reverse   string
	OutDir    string
	LogPath   string
}

// ErrEmptyJobList means generation produced no commands, so there is nothing
// to submit. Submitting an empty array is always a mistake upstream.
var ErrEmptyJobList = errors.New("job list is empty: no matched samples produced a command")

// RenderCommand renders one metawrap binning invocation. The trailing
// redirect puts the tool log at a per-sample path the classifier can map
// back to a sample.
func RenderCommand(job MatchedJob, params JobParams) string {
	return fmt.Sprintf(
		"metawrap binning -a %s -o %s -t %d -m %d -l %d --metabat2 --maxbin2 --concoct %s %s &> %s",
		job.Contigs, job.OutDir, params.Threads, params.Memory, params.MinContigLen,
		job.Forward, job.Reverse, job.LogPath,
	)
}

// JobLogPath is the log file convention shared between the generator and the
// outcome classifier.
func JobLogPath(logDir string, sample string, assembler string) string {
	return filepath.Join(logDir, fmt.Sprintf("%s_%s.out", sample, assembler))
}

// BuildJobs resolves each matched sample to its first AssemblyRecord and
// read pair. A matched sample without a record should not happen after
// reconciliation but is skipped with a warning rather than aborting the
// batch.
func BuildJobs(logger *slog.Logger, matched []string, pairs []ReadPair, records []AssemblyRecord, binningDir string, logDir string) []MatchedJob {
	pairBySample := make(map[string]ReadPair, len(pairs))
	for _, pair := range pairs {
		pairBySample[pair.Sample] = pair
	}

	jobs := make([]MatchedJob, 0, len(matched))
	for _, sample := range matched {
		record, found := firstRecord(records, sample)
		if !found {
			logger.Warn("SKIPPING SAMPLE", "SAMPLE", sample, "REASON", "no assembly record despite reconciliation")
			continue
		}
		pair, found := pairBySample[sample]
		if !found {
			logger.Warn("SKIPPING SAMPLE", "SAMPLE", sample, "REASON", "no read pair despite reconciliation")
			continue
		}
		jobs = append(jobs, MatchedJob{
			Sample:    sample,
			Assembler: record.Assembler,
			Contigs:   record.Contigs,
			Forward:   pair.Forward,
			Reverse:   pair.Reverse,
			OutDir:    filepath.Join(binningDir, sample+"_binning_out"),
			LogPath:   JobLogPath(logDir, sample, record.Assembler),
		})
	}
	return jobs
}

func firstRecord(records []AssemblyRecord, sample string) (AssemblyRecord, bool) {
	for _, record := range records {
		if record.Sample == sample {
			return record, true
		}
	}
	return AssemblyRecord{}, false
}

// WriteJobList truncates and rewrites the job-list file, one command per
// job. Rerunning generation on the same path is intentionally destructive;
// never run it concurrently with submission of the same file.
func WriteJobList(jobListPath string, jobs []MatchedJob, params JobParams) (int, error) {
	if len(jobs) == 0 {
		return 0, ErrEmptyJobList
	}

	jobListFile, err := os.Create(jobListPath)
	if err != nil {
		return 0, fmt.Errorf("cannot create job list %s: %w", jobListPath, err)
	}
	defer jobListFile.Close()

	for _, job := range jobs {
		if _, err := fmt.Fprintln(jobListFile, RenderCommand(job, params)); err != nil {
			return 0, fmt.Errorf("writing job list %s: %w", jobListPath, err)
		}
	}

	return len(jobs), nil
}
