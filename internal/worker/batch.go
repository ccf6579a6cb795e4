package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/ruleaudit/internal/model"
)

// Auditor audits one rules directory
type Auditor interface {
	AuditDir(ctx context.Context, dir string) (*model.Report, error)
}

// AuditJob audits a single directory inside a batch run
type AuditJob struct {
	Dir     string
	Auditor Auditor
}

// Execute runs the audit for this job's directory
func (j *AuditJob) Execute(ctx context.Context) Result {
	report, err := j.Auditor.AuditDir(ctx, j.Dir)
	return &AuditOutcome{Dir: j.Dir, Report: report, Error: err}
}

// AuditOutcome is the per-directory result of a batch run
type AuditOutcome struct {
	Dir    string
	Report *model.Report
	Error  error
}

// GetError returns the error from the audit outcome
func (r *AuditOutcome) GetError() error {
	return r.Error
}

// BatchProcessor audits multiple directories concurrently
type BatchProcessor struct {
	auditor     Auditor
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(auditor Auditor, concurrency int) *BatchProcessor {
	return &BatchProcessor{auditor: auditor, concurrency: concurrency}
}

// ProcessDirs audits the given directories concurrently
func (b *BatchProcessor) ProcessDirs(ctx context.Context, dirs []string) []*AuditOutcome {
	if len(dirs) == 0 {
		return []*AuditOutcome{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, dir := range dirs {
		pool.Submit(&AuditJob{Dir: dir, Auditor: b.auditor})
	}

	results := pool.Wait()

	outcomes := make([]*AuditOutcome, len(results))
	for i, result := range results {
		outcomes[i] = result.(*AuditOutcome)
	}
	return outcomes
}

// ProcessFile reads directories from a list file and audits them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AuditOutcome, error) {
	dirs, err := ReadDirsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read directories: %w", err)
	}
	return b.ProcessDirs(ctx, dirs), nil
}

// ReadDirsFromFile reads directory paths from a file, one per line.
// Blank lines and #-comments are skipped, duplicates dropped.
func ReadDirsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var dirs []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			dirs = append(dirs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return dirs, nil
}
