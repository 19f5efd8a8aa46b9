package media

import (
	"fmt"
	"strings"
)

// maxStderrLines bounds how much engine output a JobError carries. The engine
// is verbose on cascading failures; the tail is where the actual cause lands.
const maxStderrLines = 20

// JobError reports a failed engine run. Stderr is sanitized: temp workspace
// paths are stripped so server filesystem layout never reaches a client.
type JobError struct {
	Op     string
	Stderr string
	Err    error
}

func (e *JobError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed: %v: %s", e.Op, e.Err, e.Stderr)
}

func (e *JobError) Unwrap() error { return e.Err }

// ProbeError reports that an input could not be introspected.
type ProbeError struct {
	Input string
	Err   error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Input, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// sanitizeStderr trims engine output to its tail and removes every occurrence
// of the job workspace path.
func sanitizeStderr(stderr, dir string) string {
	s := strings.TrimSpace(stderr)
	if dir != "" {
		s = strings.ReplaceAll(s, dir+"/", "")
		s = strings.ReplaceAll(s, dir, "")
	}
	lines := strings.Split(s, "\n")
	if len(lines) > maxStderrLines {
		lines = lines[len(lines)-maxStderrLines:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
