package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/matzehuels/dotforge/pkg/errors"
)

// ProcessError reports a failed external renderer invocation, including the
// captured process output. Returned by [RenderFile] when verbose is set.
type ProcessError struct {
	Cmd    string // command line that was run
	Output string // combined stdout and stderr
	Err    error  // the exec error, if the process failed to run or exited non-zero
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s: %v", e.Cmd, e.Err)
	}
	return fmt.Sprintf("%s: %v\n%s", e.Cmd, e.Err, e.Output)
}

// Unwrap returns the underlying exec error.
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// RenderFile runs the external Graphviz binary for the engine on dotPath and
// writes the artifact to outPath.
//
// The run is considered a failure when the process exits non-zero or when the
// output artifact is not newer than it was before the invocation. When
// verbose is false a failure surfaces as a plain coded error; when true it
// carries a [*ProcessError] with the captured process output.
func RenderFile(ctx context.Context, dotPath, outPath string, format Format, engine Engine, verbose bool) error {
	if _, err := exec.LookPath(string(engine)); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "renderer %s not found in PATH", engine)
	}

	before := mtime(outPath)

	cmd := exec.CommandContext(ctx, string(engine), "-T"+string(format), "-o", outPath, dotPath)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	runErr := cmd.Run()
	if runErr == nil && mtime(outPath).After(before) {
		return nil
	}

	if runErr == nil {
		runErr = fmt.Errorf("output artifact %s was not produced", outPath)
	}
	if verbose {
		return errors.Wrap(errors.ErrCodeRenderFailed,
			&ProcessError{Cmd: cmd.String(), Output: out.String(), Err: runErr},
			"render %s", dotPath)
	}
	return errors.New(errors.ErrCodeRenderFailed, "render %s: %v", dotPath, runErr)
}

// mtime returns the file's modification time, or the zero time if the file
// does not exist.
func mtime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
