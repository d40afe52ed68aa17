package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kulint/kulint/internal/model"
)

// Runner defines the interface for checking one corpus file
type Runner interface {
	CheckFile(ctx context.Context, path string) (*model.Report, error)
}

// CheckJob represents one corpus consistency run
type CheckJob struct {
	Path   string
	Runner Runner
}

// Execute executes the check job
func (j *CheckJob) Execute(ctx context.Context) Result {
	report, err := j.Runner.CheckFile(ctx, j.Path)
	return &CheckResult{
		Path:   j.Path,
		Report: report,
		Error:  err,
	}
}

// CheckResult represents the result of checking one corpus file
type CheckResult struct {
	Path   string
	Report *model.Report
	Error  error
}

// GetError returns the error from the check result
func (r *CheckResult) GetError() error {
	return r.Error
}

// BatchProcessor checks multiple corpus files concurrently. Each run gets
// its own report; runs never share state beyond the runner they were built
// with.
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessPaths checks multiple corpus files concurrently. Cancelling ctx
// stops the batch: queued files are dropped and in-flight runs see the
// cancelled context.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*CheckResult {
	if len(paths) == 0 {
		return []*CheckResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	// Submit concurrently with draining: batches are routinely larger than
	// the pool's channel buffers
	go func() {
		for _, path := range paths {
			pool.Submit(&CheckJob{
				Path:   path,
				Runner: b.runner,
			})
		}
		pool.Close()
	}()

	results := pool.Wait()

	checkResults := make([]*CheckResult, len(results))
	for i, result := range results {
		checkResults[i] = result.(*CheckResult)
	}

	return checkResults
}

// ProcessFile reads corpus paths from a list file and checks them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*CheckResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read corpus list: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads corpus file paths from a file (one per line)
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
