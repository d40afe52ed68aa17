package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/kulint/kulint/internal/model"
)

// fakeRunner records the paths it was asked to check
type fakeRunner struct {
	mu      sync.Mutex
	checked []string
	fail    map[string]error
	block   bool // wait for ctx cancellation instead of finishing
}

func (r *fakeRunner) CheckFile(ctx context.Context, path string) (*model.Report, error) {
	r.mu.Lock()
	r.checked = append(r.checked, path)
	r.mu.Unlock()

	if r.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err, ok := r.fail[path]; ok {
		return nil, err
	}
	return &model.Report{CorpusPath: path, TotalUnits: 1}, nil
}

func TestBatchProcessor_ProcessPaths(t *testing.T) {
	runner := &fakeRunner{}
	processor := NewBatchProcessor(runner, 2)

	paths := []string{"a.json", "b.json", "c.json"}
	results := processor.ProcessPaths(context.Background(), paths)

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	seen := make(map[string]bool)
	for _, result := range results {
		if result.Error != nil {
			t.Errorf("Unexpected error for %s: %v", result.Path, result.Error)
		}
		if result.Report == nil || result.Report.CorpusPath != result.Path {
			t.Errorf("Result for %s carries wrong report: %+v", result.Path, result.Report)
		}
		seen[result.Path] = true
	}
	for _, path := range paths {
		if !seen[path] {
			t.Errorf("No result for %s", path)
		}
	}
}

func TestBatchProcessor_IsolatesFailures(t *testing.T) {
	runner := &fakeRunner{fail: map[string]error{
		"bad.json": errors.New("parse corpus: unexpected token"),
	}}
	processor := NewBatchProcessor(runner, 2)

	results := processor.ProcessPaths(context.Background(), []string{"good.json", "bad.json"})

	var failed, succeeded int
	for _, result := range results {
		if result.Error != nil {
			failed++
			if result.Path != "bad.json" {
				t.Errorf("Unexpected failure for %s", result.Path)
			}
		} else {
			succeeded++
		}
	}
	if failed != 1 || succeeded != 1 {
		t.Errorf("Expected one failure and one success, got %d/%d", failed, succeeded)
	}
}

func TestBatchProcessor_BatchLargerThanPoolBuffers(t *testing.T) {
	// Well past the pool's channel capacity for 4 workers; the batch must
	// still drain instead of deadlocking between Submit and Wait
	runner := &fakeRunner{}
	processor := NewBatchProcessor(runner, 4)

	paths := make([]string, 21)
	for i := range paths {
		paths[i] = fmt.Sprintf("corpus-%02d.json", i)
	}

	done := make(chan []*CheckResult, 1)
	go func() {
		done <- processor.ProcessPaths(context.Background(), paths)
	}()

	select {
	case results := <-done:
		if len(results) != len(paths) {
			t.Errorf("Expected %d results, got %d", len(paths), len(results))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Batch larger than the pool buffers deadlocked")
	}
}

func TestBatchProcessor_ContextTimeoutStopsBatch(t *testing.T) {
	// Runners block until their context is done: the batch must observe the
	// caller's timeout rather than hang under a detached context
	runner := &fakeRunner{block: true}
	processor := NewBatchProcessor(runner, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan []*CheckResult, 1)
	go func() {
		done <- processor.ProcessPaths(ctx, []string{"a.json", "b.json", "c.json", "d.json"})
	}()

	select {
	case results := <-done:
		for _, result := range results {
			if result.Error != nil && !errors.Is(result.Error, context.DeadlineExceeded) {
				t.Errorf("Expected deadline error for %s, got %v", result.Path, result.Error)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Batch did not stop on context timeout")
	}
}

func TestBatchProcessor_EmptyInput(t *testing.T) {
	processor := NewBatchProcessor(&fakeRunner{}, 2)

	results := processor.ProcessPaths(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	listPath := filepath.Join(t.TempDir(), "corpora.txt")
	content := "a.json\nb.json\n"
	if err := os.WriteFile(listPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write list file: %v", err)
	}

	runner := &fakeRunner{}
	processor := NewBatchProcessor(runner, 2)

	results, err := processor.ProcessFile(context.Background(), listPath)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 results, got %d", len(results))
	}
}

func TestReadPathsFromFile(t *testing.T) {
	listPath := filepath.Join(t.TempDir(), "corpora.txt")
	content := `# corpora to lint
a.json

b.yaml
a.json
  c.json
`
	if err := os.WriteFile(listPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write list file: %v", err)
	}

	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		t.Fatalf("ReadPathsFromFile failed: %v", err)
	}

	want := []string{"a.json", "b.yaml", "c.json"}
	if len(paths) != len(want) {
		t.Fatalf("Expected %d paths, got %d: %v", len(want), len(paths), paths)
	}
	for i, path := range want {
		if paths[i] != path {
			t.Errorf("Path %d: expected %s, got %s", i, path, paths[i])
		}
	}
}

func TestReadPathsFromFile_Missing(t *testing.T) {
	_, err := ReadPathsFromFile(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("Expected error for missing list file, got nil")
	}
}
