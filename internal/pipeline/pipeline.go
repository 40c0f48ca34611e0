package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ppiankov/lockscore/internal/cache"
	"github.com/ppiankov/lockscore/internal/extract"
	"github.com/ppiankov/lockscore/internal/extract/adapters"
	"github.com/ppiankov/lockscore/internal/llm"
	"github.com/ppiankov/lockscore/internal/model"
	"github.com/ppiankov/lockscore/internal/rubric"
	"github.com/ppiankov/lockscore/internal/score"
)

// assessmentNamespace scopes name-based assessment IDs
var assessmentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/ppiankov/lockscore/assessment"))

// Summarizer attaches an optional narrative to a finished assessment
type Summarizer interface {
	IsEnabled() bool
	GenerateSummary(ctx context.Context, a *model.Assessment) (*model.Narrative, error)
}

// Pipeline orchestrates the complete assessment process
type Pipeline struct {
	config        *model.Config
	rubric        *rubric.Rubric
	fetcher       *Fetcher
	registry      *adapters.Registry
	extractor     *extract.ClauseExtractor
	scorer        *score.Scorer
	questionnaire *score.QuestionnaireScorer
	renderer      *Renderer
	cache         cache.Cache // nil when caching is disabled
	summarizer    Summarizer  // nil when no LLM provider is configured
	logger        *slog.Logger
}

// NewPipeline creates a new pipeline with the given configuration.
// The rubric is shared read-only by every assessment the pipeline runs.
func NewPipeline(cfg *model.Config, r *rubric.Rubric, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fetcher := NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes,
		cfg.HTTP.InsecureTLS, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)
	if cfg.HTTP.RespectRobots {
		fetcher.RespectRobots()
	}

	p := &Pipeline{
		config:        cfg,
		rubric:        r,
		fetcher:       fetcher,
		registry:      adapters.NewRegistry(),
		extractor:     extract.NewClauseExtractor(r),
		scorer:        score.NewScorer(r),
		questionnaire: score.NewQuestionnaireScorer(r),
		renderer:      NewRenderer(cfg.Output.IncludeFooter, os.Stdout),
		cache:         cache.New(cfg.Cache),
		logger:        logger,
	}

	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			logger.Warn("LLM provider disabled", "provider", cfg.LLM.Provider, "error", err)
		} else {
			p.summarizer = s
		}
	}

	return p
}

// SetSummarizer replaces the narrative summarizer (nil disables it)
func (p *Pipeline) SetSummarizer(s Summarizer) {
	p.summarizer = s
}

// Renderer returns the report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Rubric returns the rubric every assessment is scored with
func (p *Pipeline) Rubric() *rubric.Rubric {
	return p.rubric
}

// Assess dispatches on the source form: http(s) URLs are fetched, anything
// without a scheme is read from disk
func (p *Pipeline) Assess(ctx context.Context, source string) (*model.Assessment, error) {
	lower := strings.ToLower(source)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return p.AssessURL(ctx, source)
	case strings.Contains(source, "://"):
		return nil, fmt.Errorf("%s: %w", source, ErrUnsupportedSource)
	default:
		return p.AssessFile(ctx, source)
	}
}

// AssessFile reads and assesses a local contract document
func (p *Pipeline) AssessFile(ctx context.Context, path string) (*model.Assessment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read contract: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read contract: %s is a directory", path)
	}
	if err := p.checkBytes(info.Size()); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contract: %w", err)
	}

	return p.AssessDocument(ctx, raw, "", VendorFromPath(path), filepath.Base(path))
}

// AssessURL fetches and assesses a contract published on the web
func (p *Pipeline) AssessURL(ctx context.Context, rawURL string) (*model.Assessment, error) {
	p.logger.Debug("fetching contract", "url", rawURL)

	result, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	p.logger.Debug("fetched contract", "url", result.FinalURL, "bytes", len(result.Body), "content_type", result.ContentType)

	return p.AssessDocument(ctx, []byte(result.Body), result.ContentType, VendorFromURL(rawURL), rawURL)
}

// AssessDocument normalizes raw markup or text with the matching adapter
// and assesses the result
func (p *Pipeline) AssessDocument(ctx context.Context, raw []byte, contentType, vendor, file string) (*model.Assessment, error) {
	if err := p.checkBytes(int64(len(raw))); err != nil {
		return nil, err
	}

	adapter, ok := p.registry.Lookup(file, contentType)
	if !ok && contentType == "" {
		adapter = p.registry.Find(file, http.DetectContentType(raw))
	} else if !ok {
		adapter = p.registry.Find(file, "")
	}

	p.logger.Debug("normalizing", "file", file, "adapter", adapter.Name())

	return p.AssessText(ctx, adapter.Normalize(string(raw)), vendor, file)
}

// AssessText runs section splitting, clause extraction and scoring over
// already-normalized text. Identical input always yields an identical
// assessment, including its ID.
func (p *Pipeline) AssessText(ctx context.Context, text, vendor, file string) (*model.Assessment, error) {
	parent := ctx
	ctx, cancel := p.budget(ctx)
	defer cancel()

	if n := utf8.RuneCountInString(text); n < p.rubric.MinTextLength {
		return nil, &InputTooShortError{Length: n, Min: p.rubric.MinTextLength}
	}

	key := cache.Key(p.rubric.Fingerprint(), vendor, file, text)
	if a, ok := p.cached(key); ok {
		p.logger.Debug("cache hit", "vendor", vendor, "file", file)
		p.attachNarrative(parent, a)
		return a, nil
	}

	sections := p.extractor.Sections(text)
	if limit := p.config.Limits.MaxSections; limit > 0 && len(sections) > limit {
		return nil, &ResourceExceededError{
			Resource: "sections",
			Limit:    strconv.Itoa(limit),
			Actual:   strconv.Itoa(len(sections)),
		}
	}
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	clauses := p.extractor.Extract(sections, vendor, file)
	if len(clauses) == 0 {
		return nil, &NoClausesExtractedError{Sections: len(sections)}
	}
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	a := p.scorer.Score(clauses)
	a.ID = AssessmentID(vendor, file, text)
	a.Vendor = vendor
	a.ContractFile = file

	p.logger.Debug("assessed", "vendor", vendor, "sections", len(sections), "clauses", len(clauses),
		"score", a.TotalScore, "tier", a.RiskLevel)

	p.store(key, a)
	p.attachNarrative(parent, a)
	return a, nil
}

// AssessQuestionnaire validates and scores direct questionnaire answers
func (p *Pipeline) AssessQuestionnaire(ctx context.Context, answers score.Answers) (*model.Assessment, error) {
	if err := score.Validate(answers); err != nil {
		return nil, fmt.Errorf("questionnaire: %w", err)
	}

	a := p.questionnaire.Score(answers)
	a.ID = AssessmentID(a.Vendor, string(model.MethodQuestionnaire), canonicalAnswers(answers))

	p.attachNarrative(ctx, a)
	return a, nil
}

// AssessmentID is a name-based UUID over vendor, file and text
func AssessmentID(vendor, file, text string) string {
	return uuid.NewSHA1(assessmentNamespace, []byte(vendor+"\x00"+file+"\x00"+text)).String()
}

func canonicalAnswers(a score.Answers) string {
	var b strings.Builder
	for _, k := range sortedKeys(a) {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.ToLower(strings.TrimSpace(a[k])))
		b.WriteByte('\n')
	}
	return b.String()
}

func (p *Pipeline) checkBytes(n int64) error {
	limit := p.config.Limits.MaxDocumentBytes
	if limit > 0 && n > limit {
		return &ResourceExceededError{
			Resource: "bytes",
			Limit:    strconv.FormatInt(limit, 10),
			Actual:   strconv.FormatInt(n, 10),
		}
	}
	return nil
}

// budget bounds one document by Limits.Timeout. Expiry surfaces as a
// ResourceExceededError through context.Cause.
func (p *Pipeline) budget(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := p.config.Limits.Timeout
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeoutCause(ctx, timeout, &ResourceExceededError{
		Resource: "time",
		Limit:    timeout.String(),
	})
}

func checkpoint(ctx context.Context) error {
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	return nil
}

func (p *Pipeline) cached(key string) (*model.Assessment, bool) {
	if p.cache == nil {
		return nil, false
	}
	data, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}
	var a model.Assessment
	if err := json.Unmarshal(data, &a); err != nil {
		p.logger.Warn("discarding unreadable cache entry", "error", err)
		_ = p.cache.Delete(key)
		return nil, false
	}
	return &a, true
}

// store caches the scored assessment before any narrative is attached
func (p *Pipeline) store(key string, a *model.Assessment) {
	if p.cache == nil {
		return
	}
	data, err := json.Marshal(a)
	if err != nil {
		p.logger.Warn("cache encode failed", "error", err)
		return
	}
	if err := p.cache.Set(key, data, 0); err != nil {
		p.logger.Warn("cache write failed", "error", err)
	}
}

// attachNarrative runs after scoring and never changes a score
func (p *Pipeline) attachNarrative(ctx context.Context, a *model.Assessment) {
	if p.summarizer == nil || !p.summarizer.IsEnabled() {
		return
	}
	n, err := p.summarizer.GenerateSummary(ctx, a)
	if err != nil {
		p.logger.Warn("narrative generation failed", "vendor", a.Vendor, "error", err)
		return
	}
	a.Narrative = n
}
