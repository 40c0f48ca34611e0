package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/lockscore/internal/model"
	"github.com/ppiankov/lockscore/internal/pipeline"
	"github.com/ppiankov/lockscore/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file|dir>",
	Short: "Assess many contracts and compare vendors",
	Long: `Batch assesses every contract named in a list file (one path or URL per
line, # comments allowed) or every .html, .htm, .txt and .md file in a
directory. Contracts are assessed concurrently; URL fetches are paced per
host. A failed contract is reported and skipped, never aborting the rest.

Each assessment is written as JSON and Markdown to the output directory,
together with comparison.json ranking the vendors.

Example:
  lockscore batch contracts/
  lockscore batch sources.txt --concurrency 8 --output-dir reports/`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory for reports (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "batch-timeout", 30*time.Minute, "overall batch timeout")
	addAssessFlags(batchCmd.Flags())
}

func runBatch(cmd *cobra.Command, args []string) error {
	input := args[0]

	cfg, p, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  lockscore batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", input)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers,
		cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	processor.SetLogger(logger)

	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var results []*worker.AssessResult
	if info.IsDir() {
		results, err = processor.ProcessDir(ctx, input)
	} else {
		results, err = processor.ProcessFile(ctx, input)
	}
	if err != nil {
		return fmt.Errorf("process input: %w", err)
	}
	if len(results) == 0 {
		return fmt.Errorf("no contracts found in %s", input)
	}

	assessments, failures := worker.Split(results)
	renderer := p.Renderer()

	for _, r := range results {
		if r.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Source, r.Error)
			continue
		}
		a := r.Assessment
		base := filepath.Join(cfg.Output.Dir, reportName(a))
		if err := renderer.RenderJSON(a, base+".json"); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", r.Source, err)
			continue
		}
		if err := renderer.RenderMarkdown(a, base+".md"); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", r.Source, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s: %.2f/100 (%s) in %v\n", a.Vendor, a.TotalScore, a.RiskLevel, r.Duration.Round(time.Millisecond))
	}

	comparison := pipeline.Compare(assessments, len(failures))
	comparisonPath := filepath.Join(cfg.Output.Dir, "comparison.json")
	if err := renderer.RenderComparison(comparison, comparisonPath); err != nil {
		return fmt.Errorf("write comparison: %w", err)
	}

	if len(failures) > 0 {
		data, err := json.MarshalIndent(failures, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal errors: %w", err)
		}
		if err := os.WriteFile(filepath.Join(cfg.Output.Dir, "errors.json"), append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write errors: %w", err)
		}
	}

	saved, err := saveAll(ctx, cfg, assessments)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d contracts\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", len(assessments))
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", len(failures))
	if len(assessments) > 0 {
		fmt.Fprintf(os.Stderr, "  Average:   %.2f/100\n", comparison.AverageScore)
	}
	if saved > 0 {
		fmt.Fprintf(os.Stderr, "  Saved:     %d\n", saved)
	}
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

func saveAll(ctx context.Context, cfg *model.Config, assessments []*model.Assessment) (int, error) {
	st, err := openStore(cfg)
	if err != nil || st == nil {
		return 0, err
	}
	defer func() { _ = st.Close() }()

	for i, a := range assessments {
		if _, err := st.Save(ctx, a); err != nil {
			return i, err
		}
	}
	return len(assessments), nil
}

// reportName is a file-system safe name unique per assessment
func reportName(a *model.Assessment) string {
	id := a.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return sanitizeFilename(a.Vendor) + "_" + id
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename sanitizes a string for use as a filename
func sanitizeFilename(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = filenameReplacer.Replace(s)
	s = strings.Trim(s, ".-_")
	if s == "" {
		s = "contract"
	}
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
