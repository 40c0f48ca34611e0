package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ppiankov/lockscore/internal/llm"
	"github.com/ppiankov/lockscore/internal/model"
	"github.com/ppiankov/lockscore/internal/pipeline"
	"github.com/ppiankov/lockscore/internal/rubric"
	"github.com/ppiankov/lockscore/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	outJSON     string
	outMD       string
	saveResult  bool
	docTimeout  time.Duration
	noCache     bool
	noFooter    bool
	insecureTLS bool
	llmProvider string
	llmModel    string
)

// assessCmd represents the assess command
var assessCmd = &cobra.Command{
	Use:   "assess <file|url>",
	Short: "Score the lock-in risk of one contract",
	Long: `Assess reads one contract from a local file (HTML, text or Markdown) or an
http(s) URL and scores its vendor lock-in risk.

The vendor name is derived from the file name (acme_cloud_tos.html becomes
"Acme Cloud") or the URL host.

Example:
  lockscore assess contracts/acme_tos.html
  lockscore assess https://example.com/legal/terms --json report.json --md report.md
  lockscore assess terms.txt --json - | jq .total_score
  lockscore assess terms.txt --llm openai --llm-model gpt-4o-mini --md report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runAssess,
}

func init() {
	rootCmd.AddCommand(assessCmd)

	assessCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (- for stdout)")
	assessCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path")
	addAssessFlags(assessCmd.Flags())
}

// addAssessFlags registers the flags shared by assess, batch and questionnaire
func addAssessFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&saveResult, "save", false, "store assessments in the history database")
	fs.DurationVar(&docTimeout, "timeout", 0, "per-document time budget (default from config)")
	fs.BoolVar(&noCache, "no-cache", false, "disable the assessment cache")
	fs.BoolVar(&noFooter, "no-footer", false, "omit the disclaimer footer from Markdown reports")
	fs.BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification when fetching URLs")
	fs.StringVar(&llmProvider, "llm", "", "attach a narrative summary with this LLM provider (openai, ollama)")
	fs.StringVar(&llmModel, "llm-model", "", "LLM model name")
}

// applyAssessFlags layers explicitly set flags over the loaded config
func applyAssessFlags(cmd *cobra.Command, cfg *model.Config) error {
	fs := cmd.Flags()
	if fs.Changed("timeout") {
		cfg.Limits.Timeout = docTimeout
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if insecureTLS {
		cfg.HTTP.InsecureTLS = true
	}
	if saveResult {
		cfg.Store.Enabled = true
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	return nil
}

// setup resolves config and rubric and builds the pipeline
func setup(cmd *cobra.Command) (*model.Config, *pipeline.Pipeline, *slog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := applyAssessFlags(cmd, cfg); err != nil {
		return nil, nil, nil, err
	}

	logger := newLogger(cfg)

	r, err := rubric.Load(cfg.Rubric.Path)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.Rubric.Path != "" {
		logger.Debug("using rubric override", "path", cfg.Rubric.Path, "version", r.Version)
	}

	return cfg, pipeline.NewPipeline(cfg, r, logger), logger, nil
}

// openStore opens the history database when storing is enabled
func openStore(cfg *model.Config) (*store.Store, error) {
	if !cfg.Store.Enabled {
		return nil, nil
	}
	s, err := store.New(cfg.Store.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return s, nil
}

func runAssess(cmd *cobra.Command, args []string) error {
	source := args[0]

	cfg, p, _, err := setup(cmd)
	if err != nil {
		return err
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Assessing: %s\n", source)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", cfg.Limits.Timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n\n", cfg.Cache.Enabled)
	}

	a, err := p.Assess(cmd.Context(), source)
	if err != nil {
		p.Renderer().RenderError(pipeline.ErrorResult(err, "", source))
		return fmt.Errorf("assess failed: %w", err)
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d clauses\n", a.TotalClauses)
		fmt.Fprintf(os.Stderr, "✓ Risk score: %.2f/100 (%s)\n", a.TotalScore, a.RiskLevel)
		if a.Narrative != nil {
			fmt.Fprintf(os.Stderr, "✓ Generated narrative using %s/%s\n", a.Narrative.Provider, a.Narrative.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	return finish(cmd, cfg, p, a, outJSON, outMD)
}

// finish renders one assessment and stores it when history is enabled
func finish(cmd *cobra.Command, cfg *model.Config, p *pipeline.Pipeline, a *model.Assessment, jsonPath, mdPath string) error {
	if err := renderOutputs(p, a, jsonPath, mdPath); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	if st == nil {
		return nil
	}
	defer func() { _ = st.Close() }()

	rec, err := st.Save(cmd.Context(), a)
	if err != nil {
		return err
	}
	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "✓ Saved assessment %s\n", rec.ID)
	}
	return nil
}

func renderOutputs(p *pipeline.Pipeline, a *model.Assessment, jsonPath, mdPath string) error {
	r := p.Renderer()

	if jsonPath == "-" {
		data, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		r.RenderSummary(a)
		if jsonPath != "" {
			if err := r.RenderJSON(a, jsonPath); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "✓ JSON report: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := r.RenderMarkdown(a, mdPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Markdown report: %s\n", mdPath)

		if a.Narrative != nil {
			path := pipeline.NarrativePath(mdPath)
			if err := r.RenderNarrative(llm.RenderSeparateMarkdown(a.Narrative), path); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "✓ Narrative: %s\n", path)
		}
	}
	return nil
}
