package scheduler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gmaffy/binning-whisperer/utils"
)

// Resources are the sbatch parameters shared by every task of one array.
type Resources struct {
	Threads   int
	MemoryGB  int
	WallTime  string
	LogDir    string
	JobName   string
	Partition string
}

// ErrNoBatchID means sbatch produced no usable identifier, i.e. the array
// was not accepted.
var ErrNoBatchID = errors.New("scheduler did not return a batch id")

// Slurm submits job-list files as sbatch arrays and polls them via squeue.
// The command runner is swappable for tests; it must return combined stdout
// and stderr, since squeue reports an expired job id on stderr.
type Slurm struct {
	runCmd func(ctx context.Context, name string, args ...string) (string, error)
}

func NewSlurm() *Slurm {
	return &Slurm{runCmd: utils.RunCmdOutput}
}

// SubmitArray submits one array with jobCount tasks; task i runs line i of
// the job-list file. Returns the scheduler's batch id.
func (s *Slurm) SubmitArray(ctx context.Context, jobListPath string, jobCount int, res Resources) (string, error) {
	if jobCount < 1 {
		return "", fmt.Errorf("refusing to submit %s: no jobs", jobListPath)
	}

	wrap := fmt.Sprintf(`sed -n "${SLURM_ARRAY_TASK_ID}p" %s | bash`, jobListPath)
	args := []string{
		fmt.Sprintf("--array=1-%d", jobCount),
		fmt.Sprintf("--cpus-per-task=%d", res.Threads),
		fmt.Sprintf("--mem=%dG", res.MemoryGB),
		fmt.Sprintf("--time=%s", res.WallTime),
		fmt.Sprintf("--job-name=%s", res.JobName),
		fmt.Sprintf("--output=%s", filepath.Join(res.LogDir, "slurm_%x_%A_%a.out")),
	}
	if res.Partition != "" {
		args = append(args, fmt.Sprintf("--partition=%s", res.Partition))
	}
	args = append(args, "--wrap", wrap)

	out, err := s.runCmd(ctx, "sbatch", args...)
	if err != nil {
		return "", fmt.Errorf("sbatch failed for %s: %w (said: %q)", jobListPath, err, strings.TrimSpace(out))
	}

	batchID := parseBatchID(out)
	if batchID == "" {
		return "", fmt.Errorf("%w (sbatch said: %q)", ErrNoBatchID, strings.TrimSpace(out))
	}
	return batchID, nil
}

// sbatch reports "Submitted batch job 49229449"; the id is the last field of
// that line. Other lines (warnings on stderr share the stream) are ignored.
func parseBatchID(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "Submitted batch job") {
			continue
		}
		fields := strings.Fields(line)
		last := fields[len(fields)-1]
		for _, r := range last {
			if r < '0' || r > '9' {
				return ""
			}
		}
		return last
	}
	return ""
}

// BatchActive reports whether any task of the array is still queued or
// running. squeue exits non-zero with "Invalid job id specified" on stderr
// once the array has aged out of the queue; that means drained, not failure.
func (s *Slurm) BatchActive(ctx context.Context, batchID string) (bool, error) {
	out, err := s.runCmd(ctx, "squeue", "-h", "-j", batchID)
	if err != nil {
		if strings.Contains(out, "Invalid job id") {
			return false, nil
		}
		return false, fmt.Errorf("squeue failed for batch %s: %w (said: %q)", batchID, err, strings.TrimSpace(out))
	}
	return strings.TrimSpace(out) != "", nil
}
