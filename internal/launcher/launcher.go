// Package launcher submits batch jobs as independent child processes.
//
// A submission is fire-and-forget: the launcher starts the child, reaps it
// in the background so it does not linger as a zombie, and never reports
// its exit status. Callers that need to know whether a run succeeded must
// look at what the run wrote.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vk/orabatch/internal/ctxlog"
)

// Job is one batch run to submit: <PythonExe> <SubProg> <RunDir>.
type Job struct {
	PythonExe string
	SubProg   string
	RunDir    string
	// Output receives the child's stdout and stderr. Nil discards them.
	Output    io.Writer
}

// Submission identifies a started job.
type Submission struct {
	ID   string
	PID  int
	Args []string
}

// Validate reports a job that cannot be started.
func (j Job) Validate() error {
	var errs []error
	if j.PythonExe == "" {
		errs = append(errs, errors.New("python executable is not set"))
	}
	if j.SubProg == "" {
		errs = append(errs, errors.New("submission program is not set"))
	}
	if j.RunDir == "" {
		errs = append(errs, errors.New("run directory is not set"))
	}
	return errors.Join(errs...)
}

// Submit starts the job and returns without waiting for it. ctx only
// carries the logger; cancelling it does not stop the child.
func Submit(ctx context.Context, job Job) (Submission, error) {
	logger := ctxlog.FromContext(ctx)
	if err := job.Validate(); err != nil {
		return Submission{}, fmt.Errorf("invalid job: %w", err)
	}

	runDir := filepath.Clean(job.RunDir)
	cmd := exec.Command(job.PythonExe, job.SubProg, runDir)
	out := job.Output
	if out == nil {
		out = io.Discard
	}
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Start(); err != nil {
		return Submission{}, fmt.Errorf("start %s: %w", job.PythonExe, err)
	}

	sub := Submission{
		ID:   uuid.NewString(),
		PID:  cmd.Process.Pid,
		Args: cmd.Args,
	}
	go func() {
		// Exit status is deliberately discarded.
		_ = cmd.Wait()
	}()

	logger.Info("Batch job submitted.", "id", sub.ID, "pid", sub.PID, "run_dir", runDir)
	return sub, nil
}
