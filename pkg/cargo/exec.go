package cargo

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/matzehuels/cargometa/pkg/errors"
)

// Exec runs cargo and decodes its report.
//
// The whole output is buffered before decoding. Failures are classified by
// code, checked in this order:
//   - PROCESS: cargo could not be started, or ctx ended before it exited
//   - TOOL_REPORTED: cargo exited non-zero; the message is its stderr, trimmed
//   - ENCODING: stdout is not valid UTF-8
//   - STRUCTURAL_DECODE: stdout does not match the metadata schema
//
// Exec never retries. ctx only bounds the child process; no timeout is applied
// by default.
func (c Command) Exec(ctx context.Context) (*Metadata, error) {
	exe := c.Executable()
	args := c.Args()

	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Dir = c.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if c.logger != nil {
		c.logger.Debug("running cargo", "exe", exe, "args", strings.Join(args, " "), "dir", c.dir)
	}
	start := time.Now()
	err := cmd.Run()
	if c.logger != nil {
		c.logger.Debug("cargo exited", "elapsed", time.Since(start).Round(time.Millisecond), "stdout", stdout.Len(), "stderr", stderr.Len())
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrap(errors.ErrCodeProcess, ctxErr, "run %s", exe)
		}
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			return nil, errors.ToolReported(strings.TrimSpace(stderr.String()))
		}
		return nil, errors.Wrap(errors.ErrCodeProcess, err, "run %s", exe)
	}

	return Parse(stdout.Bytes())
}

// Load reports metadata for the package at manifestPath without resolving
// dependencies. An empty manifestPath lets cargo discover the manifest.
func Load(ctx context.Context, manifestPath string) (*Metadata, error) {
	return LoadDeps(ctx, manifestPath, false)
}

// LoadDeps reports metadata for the package at manifestPath, resolving
// dependencies when deps is true.
func LoadDeps(ctx context.Context, manifestPath string, deps bool) (*Metadata, error) {
	return New().ManifestPath(manifestPath).IncludeDeps(deps).Exec(ctx)
}

func checkUTF8(data []byte) error {
	if !utf8.Valid(data) {
		return errors.New(errors.ErrCodeEncoding, "cargo output is not valid UTF-8")
	}
	return nil
}
