package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"

	"tlpswitch/internal/applier"
)

// ProfileApplier starts an apply and delivers its result.
// *reconciler.Controller implements it.
type ProfileApplier interface {
	Apply(ctx context.Context, profileID string) (<-chan applier.Result, error)
}

// ApplyOptions configures RunApply.
type ApplyOptions struct {
	// Quiet suppresses the spinner and the outcome line.
	Quiet bool
	// Out receives progress output.
	Out io.Writer
}

// RunApply applies profileID and waits for the privileged process to finish,
// showing a spinner meanwhile. The user may take arbitrarily long to answer
// the authorization prompt, so there is no timeout. A failed apply is
// returned as *ApplyFailedError.
func RunApply(ctx context.Context, apl ProfileApplier, profileID string, options ApplyOptions) (applier.Result, error) {
	results, err := apl.Apply(ctx, profileID)
	if err != nil {
		return applier.Result{}, err
	}

	var s *spinner.Spinner
	if !options.Quiet && options.Out != nil {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(options.Out))
		s.Suffix = fmt.Sprintf(" Applying %s (waiting for authorization)...", profileID)
		s.Start()
	}

	var result applier.Result
	select {
	case result = <-results:
	case <-ctx.Done():
		if s != nil {
			s.Stop()
		}
		return applier.Result{}, ctx.Err()
	}

	if s != nil {
		s.Stop()
	}

	if err := result.Err(); err != nil {
		if !options.Quiet && options.Out != nil {
			fmt.Fprintf(options.Out, "%s\n", text.FgRed.Sprint("❌ Profile not applied"))
		}
		if result.Aborted != nil {
			return result, err
		}
		return result, &ApplyFailedError{ProfileID: profileID, Detail: result.Detail, ExitCode: result.ExitCode}
	}

	if !options.Quiet && options.Out != nil {
		fmt.Fprintf(options.Out, "%s\n", text.FgGreen.Sprintf("✅ Applied %s", profileID))
	}
	return result, nil
}
