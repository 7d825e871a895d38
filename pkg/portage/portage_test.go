package portage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/12357-314/gentoo-rdep-analyzer/pkg/cache"
	apperrors "github.com/12357-314/gentoo-rdep-analyzer/pkg/errors"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/rdeps"
)

// fakeRunner returns canned output and records every invocation.
type fakeRunner struct {
	mu    sync.Mutex
	out   []byte
	err   error
	calls [][]string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.out, f.err
}

func TestPortageqDepvars(t *testing.T) {
	runner := &fakeRunner{out: []byte("dep one\nrdep two\n")}
	q := &Portageq{Runner: runner}

	got, err := q.Depvars(context.Background(), "cat/pkg-1.0", []string{"DEPEND", "RDEPEND"})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"dep one", "rdep two"}; !slices.Equal(got, want) {
		t.Errorf("Depvars() = %v, want %v", got, want)
	}

	wantCall := []string{"portageq", "metadata", "/", "ebuild", "cat/pkg-1.0", "DEPEND", "RDEPEND"}
	if len(runner.calls) != 1 || !slices.Equal(runner.calls[0], wantCall) {
		t.Errorf("ran %v, want %v", runner.calls, wantCall)
	}
}

func TestPortageqDepvarsRoot(t *testing.T) {
	runner := &fakeRunner{out: []byte("\n")}
	q := &Portageq{Runner: runner, Root: "/mnt/gentoo"}

	if _, err := q.Depvars(context.Background(), "cat/pkg", []string{"DEPEND"}); err != nil {
		t.Fatal(err)
	}
	if runner.calls[0][2] != "/mnt/gentoo" {
		t.Errorf("EROOT arg = %q, want /mnt/gentoo", runner.calls[0][2])
	}
}

func TestPortageqDepvarsError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("no such package")}
	q := &Portageq{Runner: runner}

	_, err := q.Depvars(context.Background(), "cat/pkg", []string{"DEPEND"})
	if !apperrors.Is(err, apperrors.ErrCodeMetadataUnavailable) {
		t.Errorf("err = %v, want METADATA_UNAVAILABLE", err)
	}
}

func TestPortageqDepvarsCached(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := &fakeRunner{out: []byte("first\n")}
	q := &Portageq{Runner: runner, Cache: c}

	names := []string{"DEPEND"}
	if _, err := q.Depvars(ctx, "cat/pkg", names); err != nil {
		t.Fatal(err)
	}

	// The second call must be served from the cache, not the runner.
	runner.out = []byte("changed\n")
	got, err := q.Depvars(ctx, "cat/pkg", names)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []string{"first"}) {
		t.Errorf("Depvars() = %v, want the cached value", got)
	}
	if len(runner.calls) != 1 {
		t.Errorf("runner called %d times, want 1", len(runner.calls))
	}
}

func TestEmergeReportFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	if err := os.WriteFile(path, []byte("captured report\n"), 0644); err != nil {
		t.Fatal(err)
	}

	r := &EmergeReport{Path: path}
	got, err := r.Text(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != "captured report\n" {
		t.Errorf("Text() = %q, want the file contents", got)
	}
}

func TestEmergeReportMissingFile(t *testing.T) {
	r := &EmergeReport{Path: filepath.Join(t.TempDir(), "nope.txt")}
	_, err := r.Text(context.Background())
	if !apperrors.Is(err, apperrors.ErrCodeReportUnavailable) {
		t.Errorf("err = %v, want REPORT_UNAVAILABLE", err)
	}
}

func TestEmergeReportRunsEmerge(t *testing.T) {
	runner := &fakeRunner{out: []byte("live report")}
	r := &EmergeReport{Runner: runner}

	got, err := r.Text(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != "live report" {
		t.Errorf("Text() = %q, want the runner output", got)
	}

	want := append([]string{"emerge"}, DepcleanArgs...)
	if len(runner.calls) != 1 || !slices.Equal(runner.calls[0], want) {
		t.Errorf("ran %v, want %v", runner.calls, want)
	}
}

func TestEmergeReportCached(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := &fakeRunner{out: []byte("first report")}
	r := &EmergeReport{Runner: runner, Cache: c}

	if _, err := r.Text(ctx); err != nil {
		t.Fatal(err)
	}

	// The second call must be served from the cache, not a new emerge run.
	runner.out = []byte("changed")
	got, err := r.Text(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != "first report" {
		t.Errorf("Text() = %q, want the cached report", got)
	}
	if len(runner.calls) != 1 {
		t.Errorf("runner called %d times, want 1", len(runner.calls))
	}
}

func TestEmergeReportFileNotCached(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "report.txt")
	if err := os.WriteFile(path, []byte("captured\n"), 0644); err != nil {
		t.Fatal(err)
	}

	r := &EmergeReport{Path: path, Cache: c}
	if _, err := r.Text(ctx); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := c.Get(ctx, cache.ReportKey(DepcleanArgs)); err != nil || ok {
		t.Errorf("Get() = %v, %v; file reads must not populate the cache", ok, err)
	}
}

// countingSource records which packages were prefetched.
type countingSource struct {
	mu    sync.Mutex
	calls map[string]int
}

func (s *countingSource) Depvars(ctx context.Context, pkg string, names []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[pkg]++
	return nil, nil
}

func TestPrefetcherWarm(t *testing.T) {
	src := &countingSource{}
	p := &Prefetcher{Source: src, Limit: 2}

	levels := []rdeps.Level{
		{Depth: 0, Name: "cat/a"},
		{Depth: 1, Name: "cat/b"},
		{Depth: 1, Name: "@world"},
		{Depth: 2, Name: "cat/a"},
	}
	if err := p.Warm(context.Background(), levels, []string{"RDEPEND"}); err != nil {
		t.Fatal(err)
	}

	if src.calls["cat/a"] != 1 || src.calls["cat/b"] != 1 {
		t.Errorf("calls = %v, want each package fetched once", src.calls)
	}
	if src.calls["@world"] != 0 {
		t.Error("set names must not be prefetched")
	}
}

func TestPrefetcherCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &countingSource{}
	p := &Prefetcher{Source: src}

	err := p.Warm(ctx, []rdeps.Level{{Name: "cat/a"}}, []string{"RDEPEND"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"one line", "one line"},
		{"first\nsecond", "first"},
		{"  padded\nrest", "padded"},
	}
	for _, tt := range tests {
		if got := firstLine(tt.input); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
