package binning

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/gmaffy/binning-whisperer/scheduler"
)

// Params is everything one binning batch run needs. All paths are fully
// namespaced per assembler further down, so the two pipelines share no
// mutable state.
type Params struct {
	ReadsDir           string
	MegahitManifest    string
	MetaspadesManifest string
	OutputDir          string
	LogDir             string
	RunLogPath         string
	SampleTag          string
	Partition          string
	WallTime           string
	Jobs               JobParams
	SpotCheck          bool
}

// BatchSubmitter is the scheduler-facing half of the pipeline; *scheduler.Slurm
// implements it.
type BatchSubmitter interface {
	SubmitArray(ctx context.Context, jobListPath string, jobCount int, res scheduler.Resources) (string, error)
}

type assemblerSpec struct {
	Name      string
	DirSuffix string
	Manifest  []string
}

// RunBinning executes the whole batch: inventory, reconciliation, job
// generation, submission, wait and classification, with the megahit and
// metaspades pipelines running as two independent tasks joined before the
// final report. The first fatal error cancels the sibling pipeline's waiting
// (never its submitted jobs) and aborts the run.
func RunBinning(ctx context.Context, logger *slog.Logger, params Params, submitter BatchSubmitter, waiter scheduler.CompletionWaiter) error {
	runID := uuid.NewString()[:8]
	logger = logger.With("RUN", runID)

	if params.RunLogPath != "" && PriorRunCompleted(params.RunLogPath) {
		logger.Warn("PREVIOUS COMPLETED RUN DETECTED", "LOG", params.RunLogPath, "NOTE", "job lists and failed sample lists will be overwritten")
	}

	if err := os.MkdirAll(params.LogDir, 0755); err != nil {
		return fmt.Errorf("cannot create log directory %s: %w", params.LogDir, err)
	}

	logger.Info("BINNING RUN", "STATUS", "STARTED", "READS", params.ReadsDir, "OUTPUT", params.OutputDir)
	start := time.Now()

	// ========================================= Shared steps: inventory + keys ==================================== //
	inv, err := CollectInventory(params.ReadsDir, params.MegahitManifest, params.MetaspadesManifest)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d forward and %d reverse read files ...\n\n", len(inv.Forward), len(inv.Reverse))

	if params.SpotCheck {
		fmt.Printf("Spot checking read files ...\n\n")
		if err := SpotCheckReads(append(append([]string{}, inv.Forward...), inv.Reverse...)); err != nil {
			return err
		}
	}

	pairs, err := PairReads(inv.Forward, inv.Reverse)
	if err != nil {
		return err
	}
	readSamples := lo.Map(pairs, func(pair ReadPair, _ int) string { return pair.Sample })

	specs := []assemblerSpec{
		{Name: "megahit", DirSuffix: MegahitSuffix, Manifest: inv.Megahit},
		{Name: "metaspades", DirSuffix: MetaspadesSuffix, Manifest: inv.Metaspades},
	}

	// ========================================= Per-assembler pipelines =========================================== //
	summaries := make([]AssemblerSummary, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			summary, err := runAssembler(gctx, logger, runID, spec, pairs, readSamples, params, submitter, waiter)
			if err != nil {
				return err
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("BINNING RUN", "STATUS", "FAILED", "error", err)
		return err
	}

	// ================================================ Report ====================================================== //
	if err := WriteRunReport(params.OutputDir, summaries); err != nil {
		return err
	}

	logger.Info("BINNING RUN", "STATUS", "COMPLETED", "ELAPSED", time.Since(start).String())
	fmt.Printf("Binning batch completed in %s\n", time.Since(start))
	return nil
}

func runAssembler(ctx context.Context, logger *slog.Logger, runID string, spec assemblerSpec, pairs []ReadPair, readSamples []string, params Params, submitter BatchSubmitter, waiter scheduler.CompletionWaiter) (AssemblerSummary, error) {
	logger = logger.With("ASSEMBLER", spec.Name)
	summary := AssemblerSummary{Assembler: spec.Name, ReadSamples: len(readSamples)}

	// ------------------------------------------- Reconcile -------------------------------------------------------- //
	records, err := ManifestRecords(spec.Manifest, spec.Name, spec.DirSuffix)
	if err != nil {
		return summary, err
	}
	manifestSamples := lo.Map(records, func(record AssemblyRecord, _ int) string { return record.Sample })

	report := MatchSamples(spec.Name, readSamples, manifestSamples)
	report.LogMismatches(logger)
	summary.Matched = len(report.Matched)
	summary.ReadsOnly = len(report.ReadsOnly)
	summary.AssemblyOnly = len(report.AssemblyOnly)
	fmt.Printf("%s: matched %d of %d read samples ...\n\n", spec.Name, len(report.Matched), len(readSamples))

	// ------------------------------------------- Generate --------------------------------------------------------- //
	binningDir := filepath.Join(params.OutputDir, spec.Name+"_binning")
	if err := os.MkdirAll(binningDir, 0755); err != nil {
		return summary, fmt.Errorf("cannot create binning directory %s: %w", binningDir, err)
	}

	jobs := BuildJobs(logger, report.Matched, pairs, records, binningDir, params.LogDir)
	summary.MeanContigMB, summary.MedContigMB = ContigSizeStats(jobs)

	jobListPath := filepath.Join(params.OutputDir, spec.Name+"_binning_jobs.txt")
	jobCount, err := WriteJobList(jobListPath, jobs, params.Jobs)
	if err != nil {
		return summary, fmt.Errorf("%s: %w", spec.Name, err)
	}
	summary.Submitted = jobCount
	logger.Info("JOB LIST WRITTEN", "PATH", jobListPath, "JOBS", jobCount)

	// ------------------------------------------- Submit & wait ---------------------------------------------------- //
	res := scheduler.Resources{
		Threads:   params.Jobs.Threads,
		MemoryGB:  params.Jobs.Memory,
		WallTime:  params.WallTime,
		LogDir:    params.LogDir,
		JobName:   fmt.Sprintf("binning_%s_%s", spec.Name, runID),
		Partition: params.Partition,
	}
	batchID, err := submitter.SubmitArray(ctx, jobListPath, jobCount, res)
	if err != nil {
		return summary, err
	}
	logger.Info("BATCH SUBMITTED", "BATCH", batchID, "JOBS", jobCount)
	fmt.Printf("%s: submitted batch %s with %d jobs, waiting ...\n\n", spec.Name, batchID, jobCount)

	if err := waiter.WaitForCompletion(ctx, batchID); err != nil {
		return summary, fmt.Errorf("waiting for batch %s: %w", batchID, err)
	}
	logger.Info("BATCH DRAINED", "BATCH", batchID)

	// ------------------------------------------- Classify --------------------------------------------------------- //
	failed, err := ClassifyLogs(logger, params.LogDir, spec.Name, params.SampleTag)
	if err != nil {
		return summary, err
	}
	summary.Failed = len(failed)

	failedListPath := filepath.Join(params.OutputDir, spec.Name+"_failed_samples.txt")
	if err := WriteFailedSampleList(failedListPath, failed); err != nil {
		return summary, err
	}
	logger.Info("FAILED SAMPLE LIST WRITTEN", "PATH", failedListPath, "FAILED", len(failed))

	return summary, nil
}

// PriorRunCompleted reads the run log and reports whether a previous run
// already logged a completion record.
func PriorRunCompleted(runLogPath string) bool {
	logFile, err := os.Open(runLogPath)
	if err != nil {
		return false
	}
	defer logFile.Close()

	scanner := bufio.NewScanner(logFile)
	for scanner.Scan() {
		var entry struct {
			Level  string `json:"level"`
			Msg    string `json:"msg"`
			Status string `json:"STATUS"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err == nil {
			if entry.Level == "INFO" && entry.Msg == "BINNING RUN" && entry.Status == "COMPLETED" {
				return true
			}
		}
	}
	return false
}
