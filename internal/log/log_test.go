package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestLogger_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		emit    func(l *Logger)
		want    string // empty means nothing written
	}{
		{
			name: "printf",
			emit: func(l *Logger) { l.Printf("created %d worktrees", 2) },
			want: "created 2 worktrees",
		},
		{
			name:  "printf quiet",
			quiet: true,
			emit:  func(l *Logger) { l.Printf("created %d worktrees", 2) },
		},
		{
			name: "println",
			emit: func(l *Logger) { l.Println("alpha:", "created") },
			want: "alpha: created\n",
		},
		{
			name:  "println quiet",
			quiet: true,
			emit:  func(l *Logger) { l.Println("alpha:", "created") },
		},
		{
			name: "debug needs verbose",
			emit: func(l *Logger) { l.Debug("resolving branch", "repo", "alpha") },
		},
		{
			name:    "debug quiet wins over verbose",
			verbose: true,
			quiet:   true,
			emit:    func(l *Logger) { l.Debug("resolving branch", "repo", "alpha") },
		},
		{
			name:    "command quiet wins over verbose",
			verbose: true,
			quiet:   true,
			emit:    func(l *Logger) { l.Command("/r/alpha", "git", "fetch")(time.Second) },
		},
		{
			name: "command needs verbose",
			emit: func(l *Logger) { l.Command("/r/alpha", "git", "fetch")(time.Second) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.emit(New(&buf, tt.verbose, tt.quiet))
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogger_Command(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, true, false)
	l.Command("/work/repos/alpha", "git", "worktree", "add", "x")(250 * time.Millisecond)
	l.Command("", "git", "version")(5 * time.Millisecond)

	got := buf.String()
	for _, want := range []string{"[/work/repos/alpha] $ git worktree add x", "250ms", "\n$ git version"} {
		if !strings.Contains(got, want) {
			t.Errorf("output = %q, want to contain %q", got, want)
		}
	}
}

func TestLogger_Debug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, true, false)
	l.Debug("removing worktree", "repo", "beta", "force", true, "dangling")

	got := buf.String()
	for _, want := range []string{"removing worktree", "repo=beta", "force=true"} {
		if !strings.Contains(got, want) {
			t.Errorf("Debug() = %q, want to contain %q", got, want)
		}
	}
	if strings.Contains(got, "dangling") {
		t.Errorf("Debug() = %q, unpaired key should be dropped", got)
	}
}

func TestLogger_Flags(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		verbose, quiet, wantVerbose bool
	}{
		{true, false, true},
		{false, true, false},
		{true, true, false},
		{false, false, false},
	} {
		l := New(io.Discard, tt.verbose, tt.quiet)
		if l.IsVerbose() != tt.wantVerbose || l.IsQuiet() != tt.quiet {
			t.Errorf("New(verbose=%v, quiet=%v): IsVerbose=%v IsQuiet=%v",
				tt.verbose, tt.quiet, l.IsVerbose(), l.IsQuiet())
		}
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, false, false)
	if got := FromContext(WithLogger(context.Background(), l)); got != l {
		t.Error("FromContext() did not return the attached logger")
	}

	fallback := FromContext(context.Background())
	if fallback.Writer() != io.Discard {
		t.Error("fallback logger should discard output")
	}
	fallback.Println("dropped")
}

func TestLogger_ConcurrentWorkers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, true, false)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Printf("repo-%d: synced\n", i)
			l.Debug("sync", "repo", i)
		}()
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 32 {
		t.Errorf("got %d lines, want 32", got)
	}
}
