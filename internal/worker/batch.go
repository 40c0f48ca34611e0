package worker

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/lockscore/internal/model"
	"github.com/ppiankov/lockscore/internal/pipeline"
)

// contractExtensions are the files ProcessDir picks up
var contractExtensions = map[string]bool{
	".html": true,
	".htm":  true,
	".txt":  true,
	".md":   true,
}

// Assessor defines the interface for assessing one contract source
type Assessor interface {
	Assess(ctx context.Context, source string) (*model.Assessment, error)
}

// AssessJob assesses one source of a batch
type AssessJob struct {
	Index    int
	Source   string
	Assessor Assessor
	Limiter  *Limiter // nil disables pacing
}

// Execute executes the assessment job. A panic inside the assessor fails
// this source only.
func (j *AssessJob) Execute(ctx context.Context) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = &AssessResult{
				Index:    j.Index,
				Source:   j.Source,
				Error:    fmt.Errorf("panic assessing %s: %v", j.Source, r),
				Duration: time.Since(start),
			}
		}
	}()

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Source); err != nil {
			return &AssessResult{Index: j.Index, Source: j.Source, Error: fmt.Errorf("rate limit: %w", err)}
		}
	}

	a, err := j.Assessor.Assess(ctx, j.Source)
	return &AssessResult{
		Index:      j.Index,
		Source:     j.Source,
		Assessment: a,
		Error:      err,
		Duration:   time.Since(start),
	}
}

// AssessResult represents the outcome for one source
type AssessResult struct {
	Index      int
	Source     string
	Assessment *model.Assessment
	Error      error
	Duration   time.Duration
}

// GetError returns the error from the assessment
func (r *AssessResult) GetError() error {
	return r.Error
}

// ErrorResult is the structured failure payload for a failed source
func (r *AssessResult) ErrorResult() model.ErrorResult {
	return pipeline.ErrorResult(r.Error, vendorOf(r.Source), r.Source)
}

func vendorOf(source string) string {
	if _, ok := hostOf(source); ok {
		return pipeline.VendorFromURL(source)
	}
	return pipeline.VendorFromPath(source)
}

// BatchProcessor assesses many sources concurrently
type BatchProcessor struct {
	assessor    Assessor
	concurrency int
	limiter     *Limiter
	logger      *slog.Logger
}

// NewBatchProcessor creates a batch processor. URL sources are paced at
// requestsPerSecond per host; zero disables pacing.
func NewBatchProcessor(assessor Assessor, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	return &BatchProcessor{
		assessor:    assessor,
		concurrency: concurrency,
		limiter:     NewLimiter(requestsPerSecond, burst),
		logger:      slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger used for per-source progress
func (b *BatchProcessor) SetLogger(logger *slog.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// ProcessSources assesses every source and returns results in input order.
// One failing source never stops the others; sources that never ran
// because ctx ended carry the context error.
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*AssessResult {
	results := make([]*AssessResult, len(sources))
	if len(sources) == 0 {
		return results
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		for i, source := range sources {
			job := &AssessJob{Index: i, Source: source, Assessor: b.assessor, Limiter: b.limiter}
			if !pool.Submit(job) {
				break
			}
		}
		pool.Close()
	}()

	for r := range pool.Results() {
		res := r.(*AssessResult)
		results[res.Index] = res
		if res.Error != nil {
			b.logger.Warn("assessment failed", "source", res.Source, "error", res.Error)
		} else {
			b.logger.Info("assessed", "source", res.Source, "score", res.Assessment.TotalScore,
				"tier", res.Assessment.RiskLevel, "duration", res.Duration)
		}
	}

	for i, res := range results {
		if res == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			results[i] = &AssessResult{Index: i, Source: sources[i], Error: fmt.Errorf("not assessed: %w", err)}
		}
	}

	return results
}

// ProcessFile reads sources from a list file and assesses them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AssessResult, error) {
	sources, err := ReadSourcesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	return b.ProcessSources(ctx, sources), nil
}

// ProcessDir assesses every contract document directly inside dir
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*AssessResult, error) {
	sources, err := ListContracts(dir)
	if err != nil {
		return nil, err
	}

	return b.ProcessSources(ctx, sources), nil
}

// ReadSourcesFromFile reads sources from a file (one per line).
// Blank lines and # comments are skipped; duplicates keep their first position.
func ReadSourcesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}

// ListContracts returns the contract documents in dir, sorted by name
func ListContracts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !contractExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Split separates successful assessments from failures, keeping order
func Split(results []*AssessResult) ([]*model.Assessment, []model.ErrorResult) {
	var assessments []*model.Assessment
	var failures []model.ErrorResult
	for _, r := range results {
		if r.Error != nil {
			failures = append(failures, r.ErrorResult())
			continue
		}
		assessments = append(assessments, r.Assessment)
	}
	return assessments, failures
}
