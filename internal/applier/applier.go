package applier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"tlpswitch/internal/profile"
	"tlpswitch/pkg/logging"
)

const subsystem = "ProfileApplier"

// execCommand is a variable to allow mocking in tests
var execCommand = exec.Command

// maxDetail bounds the stderr excerpt kept in a Result.
const maxDetail = 512

// pkexec reports a dismissed or refused authorization with these codes.
const (
	exitAuthDismissed = 126
	exitNotAuthorized = 127
)

// Request asks for one profile to be made the live configuration.
type Request struct {
	ID         string
	ProfileID  string
	SourcePath string
}

// NewRequest creates a request for d with a fresh id.
func NewRequest(d profile.Descriptor) Request {
	return Request{
		ID:         uuid.NewString(),
		ProfileID:  d.ID,
		SourcePath: d.SourcePath,
	}
}

// Result is the outcome of an apply. Any failure has ErrorKind
// profile.KindApplyFailed; Detail says what is known about it.
type Result struct {
	RequestID string
	ProfileID string
	Succeeded bool
	ErrorKind profile.ErrorKind
	Detail    string
	ExitCode  int
	Duration  time.Duration

	// Aborted is set when the request was dropped before it ran.
	Aborted error
}

// Err returns the failure as an error, or nil on success.
func (r Result) Err() error {
	if r.Succeeded {
		return nil
	}
	if r.Aborted != nil {
		return r.Aborted
	}
	return &profile.Error{Kind: r.ErrorKind, Err: errors.New(r.Detail)}
}

// Config describes the privileged command line.
type Config struct {
	// ElevateCommand is prepended to the shell invocation, e.g. [pkexec].
	// Empty runs the shell directly.
	ElevateCommand []string

	// ReloadCommand runs after a successful copy, e.g. "systemctl restart tlp".
	ReloadCommand string

	// LiveConfigPath is the file the profile is copied over.
	LiveConfigPath string
}

// Applier copies a profile over the live configuration with elevated
// privileges and reloads the managed service.
type Applier struct {
	config Config
}

// New creates an Applier.
func New(config Config) *Applier {
	return &Applier{config: config}
}

// Command returns the argv used to apply sourcePath. Paths are passed as
// positional parameters and never interpolated into the script.
func (a *Applier) Command(sourcePath string) []string {
	script := `cp -- "$1" "$2"`
	if reload := strings.TrimSpace(a.config.ReloadCommand); reload != "" {
		script += " && " + reload
	}

	argv := make([]string, 0, len(a.config.ElevateCommand)+6)
	argv = append(argv, a.config.ElevateCommand...)
	argv = append(argv, "sh", "-c", script, "tlpswitch-apply", sourcePath, a.config.LiveConfigPath)
	return argv
}

// Apply runs the privileged copy-and-reload for req and waits for it to exit.
//
// The process is not killed when ctx is cancelled once started and no
// timeout applies: the user may take arbitrarily long to answer the
// authorization prompt. ctx only prevents a launch that has not happened yet.
func (a *Applier) Apply(ctx context.Context, req Request) Result {
	result := Result{RequestID: req.ID, ProfileID: req.ProfileID, ExitCode: -1}

	if err := ctx.Err(); err != nil {
		return a.fail(result, fmt.Sprintf("not started: %v", err))
	}

	argv := a.Command(req.SourcePath)
	cmd := execCommand(argv[0], argv[1:]...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logging.Info(subsystem, "Applying profile %s (request %s)", req.ProfileID, req.ID)
	logging.Debug(subsystem, "Running %q", argv)

	start := time.Now()
	err := cmd.Run()
	result.Duration = time.Since(start)

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return a.fail(result, fmt.Sprintf("failed to start %s: %v", argv[0], err))
		}
		result.ExitCode = exitErr.ExitCode()
		return a.fail(result, describeExit(argv[0], result.ExitCode, stderr.String()))
	}

	result.ExitCode = 0
	result.Succeeded = true
	logging.Info(subsystem, "Applied profile %s in %v", req.ProfileID, result.Duration.Round(time.Millisecond))
	return result
}

func (a *Applier) fail(result Result, detail string) Result {
	result.Succeeded = false
	result.ErrorKind = profile.KindApplyFailed
	result.Detail = detail
	logging.Warn(subsystem, "Applying profile %s failed: %s", result.ProfileID, detail)
	return result
}

// describeExit turns an exit status into a short human-readable detail.
func describeExit(program string, code int, stderr string) string {
	var detail string
	program = filepath.Base(program)
	switch {
	case program == "pkexec" && code == exitAuthDismissed:
		detail = "authorization was dismissed"
	case program == "pkexec" && code == exitNotAuthorized:
		detail = "not authorized"
	default:
		detail = fmt.Sprintf("exited with status %d", code)
	}

	if msg := tail(strings.TrimSpace(stderr), maxDetail); msg != "" {
		detail += ": " + msg
	}
	return detail
}

// tail keeps at most the last n bytes of s, starting on a rune boundary.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := len(s) - n
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return "..." + s[i:]
}
