package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/patterns/internal/filelock"
	"github.com/harrison/patterns/internal/resolver"
	"github.com/harrison/patterns/internal/runner"
)

// lockFileName guards transcript naming and the latest.log link.
const lockFileName = ".transcripts.lock"

// TranscriptLogger writes one log file per executed example into a
// directory and keeps a latest.log symlink pointing at the newest one.
type TranscriptLogger struct {
	logDir string
	mu     sync.Mutex
	now    func() time.Time
}

// NewTranscriptLogger creates the log directory if needed.
func NewTranscriptLogger(logDir string) (*TranscriptLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &TranscriptLogger{
		logDir: logDir,
		now:    time.Now,
	}, nil
}

// Dir returns the transcript directory.
func (tl *TranscriptLogger) Dir() string {
	return tl.logDir
}

// LogRun writes the transcript of one run and returns the file path.
// started is when the child was launched (zero means now). runErr is the
// error returned by the runner, if any.
//
// Files are named run-YYYYMMDD-HHMMSS-<pattern>-<language>.log; a run that
// would reuse an existing name gets a -2, -3, ... suffix instead.
func (tl *TranscriptLogger) LogRun(inv resolver.Invocation, result *runner.Result, runErr error, started time.Time) (string, error) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if started.IsZero() {
		started = tl.now()
	}

	// Other patterns processes may share the directory.
	lock := filelock.NewFileLock(filepath.Join(tl.logDir, lockFileName))
	if err := lock.Lock(); err != nil {
		return "", err
	}
	defer lock.Unlock()

	runFile, err := tl.nextRunFile(started, inv)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("=== Pattern Run Log ===\n")
	fmt.Fprintf(&b, "Started at: %s\n", started.Format(time.RFC3339))
	fmt.Fprintf(&b, "Pattern: %s\n", inv.Pattern)
	fmt.Fprintf(&b, "Language: %s\n", inv.Language)
	if inv.Variant != "" {
		fmt.Fprintf(&b, "Variant: %s\n", inv.Variant)
	}
	fmt.Fprintf(&b, "Command: %s\n", inv.String())

	if result != nil {
		fmt.Fprintf(&b, "Exit code: %d\n", result.ExitCode)
		fmt.Fprintf(&b, "Duration: %s\n", FormatDuration(result.Duration))
	}
	if runErr != nil {
		fmt.Fprintf(&b, "Error: %v\n", runErr)
	}

	if result != nil {
		b.WriteString("\n--- stdout ---\n")
		b.WriteString(result.Stdout)
		if result.Stderr != "" {
			b.WriteString("\n--- stderr ---\n")
			b.WriteString(result.Stderr)
		}
	}

	if err := filelock.AtomicWrite(runFile, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write run log: %w", err)
	}

	if err := tl.updateLatest(runFile); err != nil {
		return runFile, err
	}

	return runFile, nil
}

// nextRunFile returns the first unused transcript name for a run.
func (tl *TranscriptLogger) nextRunFile(started time.Time, inv resolver.Invocation) (string, error) {
	base := fmt.Sprintf("run-%s-%s-%s", started.Format("20060102-150405"), inv.Pattern, inv.Language)
	for n := 1; ; n++ {
		name := base + ".log"
		if n > 1 {
			name = fmt.Sprintf("%s-%d.log", base, n)
		}
		path := filepath.Join(tl.logDir, name)
		if _, err := os.Lstat(path); os.IsNotExist(err) {
			return path, nil
		} else if err != nil {
			return "", fmt.Errorf("failed to check run log %s: %w", path, err)
		}
	}
}

// updateLatest points latest.log at runFile.
func (tl *TranscriptLogger) updateLatest(runFile string) error {
	symlinkPath := filepath.Join(tl.logDir, "latest.log")

	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			return fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}

	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		return fmt.Errorf("failed to create symlink: %w", err)
	}
	return nil
}
