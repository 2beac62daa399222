package adapters

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ProcessRunner starts one external program. Cancelling ctx kills the process.
type ProcessRunner interface {
	Run(ctx context.Context, binary string, args ...string) error
}

type execRunner struct {
	timeout time.Duration
}

func NewExecRunner(timeout time.Duration) ProcessRunner {
	return &execRunner{timeout: timeout}
}

func (r *execRunner) Run(ctx context.Context, binary string, args ...string) error {
	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(callCtx, binary, args...)
	cmd.WaitDelay = 5 * time.Second
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := callCtx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", binary, ctxErr)
		}
		s := tail(strings.TrimSpace(stderr.String()), 2048)
		if s != "" {
			return fmt.Errorf("%s: %w; stderr=%s", binary, err, s)
		}
		return fmt.Errorf("%s: %w", binary, err)
	}
	return nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
