package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CLI runs probekit in-process against a private working directory. HOME
// points into that directory, so the default history database never
// touches the real one.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// NewCLI returns a CLI rooted in a fresh temp directory.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	dir := t.TempDir()

	return &CLI{
		t:   t,
		Dir: dir,
		Env: map[string]string{"HOME": filepath.Join(dir, "home")},
	}
}

// Run invokes probekit with args and empty stdin.
func (r *CLI) Run(args ...string) (stdout, stderr string, code int) {
	return r.RunWithInput("", args...)
}

// RunWithInput invokes probekit with args, feeding stdin. The program name
// and --cwd are prepended.
func (r *CLI) RunWithInput(stdin string, args ...string) (stdout, stderr string, code int) {
	var out, errOut bytes.Buffer

	argv := append([]string{"probekit", "--cwd", r.Dir}, args...)
	code = Run(strings.NewReader(stdin), &out, &errOut, argv, r.Env, nil)

	return out.String(), errOut.String(), code
}

// MustRun fails the test unless the command exits 0. It returns trimmed
// stdout.
func (r *CLI) MustRun(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != 0 {
		r.t.Fatalf("probekit %v: exit %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail fails the test unless the command exits non-zero with nothing on
// stdout. It returns trimmed stderr.
func (r *CLI) MustFail(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)

	switch {
	case code == 0:
		r.t.Fatalf("probekit %v: want failure, got exit 0\nstdout: %s", args, stdout)
	case stdout != "":
		r.t.Fatalf("probekit %v: want empty stdout on failure\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// WriteConfig writes content to name inside the working directory and
// returns the full path.
func (r *CLI) WriteConfig(name, content string) string {
	r.t.Helper()

	path := filepath.Join(r.Dir, name)

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		r.t.Fatalf("write %s: %v", name, err)
	}

	return path
}

// AssertContains reports an error unless content contains substr.
func AssertContains(t *testing.T, content, substr string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("missing %q in:\n%s", substr, content)
	}
}

// AssertNotContains reports an error if content contains substr.
func AssertNotContains(t *testing.T, content, substr string) {
	t.Helper()

	if strings.Contains(content, substr) {
		t.Errorf("unexpected %q in:\n%s", substr, content)
	}
}
