package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/backmassage/docnamer/internal/budget"
	"github.com/backmassage/docnamer/internal/config"
	"github.com/backmassage/docnamer/internal/display"
	"github.com/backmassage/docnamer/internal/extract"
	"github.com/backmassage/docnamer/internal/fsutil"
	"github.com/backmassage/docnamer/internal/logging"
	"github.com/backmassage/docnamer/internal/naming"
	"github.com/backmassage/docnamer/internal/oracle"
)

// Deps are the collaborators of a run. Extractor and Oracle are required.
// A nil Estimator counts 4 bytes per token, a zero Sanitizer uses
// cfg.MaxNameLength, Now defaults to time.Now and Rename to
// fsutil.RenameNoReplace.
type Deps struct {
	Extractor extract.TextExtractor
	Oracle    oracle.NamingOracle
	Estimator budget.Estimator
	Sanitizer naming.Sanitizer
	Now       func() time.Time
	Rename    func(oldpath, newpath string) error
}

func (d Deps) withDefaults(cfg *config.Config) Deps {
	if d.Estimator == nil {
		d.Estimator = budget.ByteEstimator{}
	}
	if d.Sanitizer.MaxLen <= 0 {
		d.Sanitizer.MaxLen = cfg.MaxNameLength
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Rename == nil {
		d.Rename = fsutil.RenameNoReplace
	}
	return d
}

// Run is the top-level batch entry point. It discovers documents in
// cfg.Dir, processes each one sequentially and returns aggregate stats.
func Run(ctx context.Context, cfg *config.Config, deps Deps, log *logging.Logger) RunStats {
	var stats RunStats

	if deps.Extractor == nil || deps.Oracle == nil {
		log.Error("Pipeline needs a text extractor and a naming oracle")
		return stats
	}
	deps = deps.withDefaults(cfg)

	limit, err := budget.New(cfg.MaxTokens)
	if err != nil {
		log.Error("%v", err)
		return stats
	}

	docs, err := Discover(cfg.Dir, cfg.Extension)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		return stats
	}
	stats.Total = len(docs)

	p := &processor{cfg: cfg, deps: deps, log: log, budget: limit, stats: &stats}
	logBatchHeader(cfg, log, &stats)

	for i := range docs {
		if ctx.Err() != nil {
			log.Warn("Interrupted, %d of %d files not processed", stats.Total-stats.Current, stats.Total)
			break
		}
		stats.Current = i + 1
		doc := &docs[i]
		state := p.process(ctx, doc)
		stats.record(state, doc)
		log.Record("document",
			zap.String("path", doc.Path),
			zap.Stringer("state", state),
			zap.Int64("size", doc.Size))
		log.Blank()
	}

	logSummary(cfg, log, &stats)
	return stats
}

type processor struct {
	cfg    *config.Config
	deps   Deps
	log    *logging.Logger
	budget budget.Budget
	stats  *RunStats
}

// process moves one document from Discovered to a terminal state.
// Interrupts are honored between documents only, so the stages run on
// a context that keeps ctx's values but not its cancellation.
func (p *processor) process(ctx context.Context, doc *Document) State {
	ctx = context.WithoutCancel(ctx)
	cfg, log := p.cfg, p.log
	log.Info("[%d/%d] %s", p.stats.Current, p.stats.Total, doc.Name())

	// --- Extract ---
	text, err := p.deps.Extractor.Extract(ctx, doc.Path)
	if err != nil {
		return p.fail(doc, StateDiscovered, KindExtract, err)
	}
	if text == extract.EmptyContent {
		log.Warn("No text found")
	}

	// --- Budget ---
	doc.Text = budget.Shrink(text, p.budget, p.deps.Estimator)
	if len(doc.Text) < len(text) {
		log.Debug(cfg.Verbose, "Trimmed content from %d to %d bytes to fit %d tokens",
			len(text), len(doc.Text), p.budget)
	}

	// --- Name ---
	sug, err := p.deps.Oracle.Suggest(ctx, doc.Text, cfg.Oracle.NamingInstructions())
	if err != nil {
		return p.fail(doc, StateBudgeted, KindOracle, err)
	}
	p.stats.Usage = p.stats.Usage.Add(sug.Usage)
	p.logSuggestion(sug)

	// --- Sanitize ---
	name, ok := p.deps.Sanitizer.Sanitize(sug.Name, p.deps.Now())
	if !ok {
		if cfg.Unusable == config.UnusableSkip {
			log.Warn("Skip (unusable suggestion %q)", sug.Name)
			return StateSkipped
		}
		log.Warn("Unusable suggestion %q, using %s", sug.Name, name)
	}

	ext := naming.Extension(doc.Path)
	if naming.AlreadyNamed(doc.Path, name, ext) {
		log.Info("Skip (already named)")
		return StateSkipped
	}

	// --- Resolve ---
	dir := filepath.Dir(doc.Path)
	snap, err := naming.TakeSnapshot(dir)
	if err != nil {
		return p.fail(doc, StateSanitized, KindRename, err)
	}
	resolved, err := naming.Resolve(name, ext, snap)
	if err != nil {
		return p.fail(doc, StateSanitized, KindCollision, err)
	}
	if resolved != string(name)+ext {
		log.Warn("Name taken, using %s", resolved)
	}
	target := naming.TargetPath(doc.Path, resolved)

	// --- Dry-run ---
	if cfg.DryRun {
		log.Success("[DRY] Would rename: %s -> %s", doc.Name(), resolved)
		return StateRenamed
	}

	// --- Rename ---
	if err := p.deps.Rename(doc.Path, target); err != nil {
		return p.fail(doc, StateResolved, KindRename, err)
	}
	log.Success("Renamed: %s -> %s", doc.Name(), resolved)
	return StateRenamed
}

func (p *processor) fail(doc *Document, stage State, fallback FailureKind, err error) State {
	f := newFailure(doc, stage, fallback, err)
	p.stats.Failures = append(p.stats.Failures, f)
	p.log.Error("Failed (%s): %v", f.Kind, err)
	p.log.Record("failure",
		zap.String("path", f.Path),
		zap.String("kind", string(f.Kind)),
		zap.Stringer("stage", f.Stage),
		zap.Error(err))
	return StateFailed
}

func (p *processor) logSuggestion(s oracle.Suggestion) {
	cfg, log := p.cfg, p.log
	if s.Cached {
		log.Debug(cfg.Verbose, "Suggestion %q (cached)", s.Name)
		return
	}
	log.Debug(cfg.Verbose, "Suggestion %q from %s", s.Name, s.Model)
	log.Debug(cfg.Verbose, "  Tokens: %d in / %d out, time: %s, est. cost: %s",
		s.Usage.InputTokens, s.Usage.OutputTokens,
		display.FormatElapsed(s.Elapsed),
		display.FormatCost(s.Usage.Cost(cfg.Oracle.InputCostPer1K, cfg.Oracle.OutputCostPer1K)))
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Found %d %s files in %s", stats.Total, cfg.Extension, cfg.Dir)
	log.Info("Oracle: %s (%s), language: %s", cfg.Oracle.Provider, cfg.Oracle.ResolvedModel(), cfg.Oracle.Language)
	log.Info("Content budget: %d tokens (%s)", cfg.MaxTokens, cfg.Estimator)
	log.Info("OCR fallback: %s", cfg.OCR)
	log.Info("Unusable suggestions: %s", cfg.Unusable)
	if cfg.DryRun {
		log.Warn("Dry run: nothing will be renamed")
	}
	log.Blank()
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	verb := "renamed"
	if cfg.DryRun {
		verb = "would rename"
	}
	log.Info("==============================")
	log.Info("Done: %d %s, %d skipped, %d failed", stats.Renamed, verb, stats.Skipped, stats.Failed)
	log.Info("Summary report:")
	log.Info("  Total files processed: %d of %d", stats.Processed(), stats.Total)
	log.Info("  Total size processed: %s", display.FormatBytes(stats.TotalBytes))
	if stats.Usage.InputTokens > 0 || stats.Usage.OutputTokens > 0 {
		log.Info("  Oracle tokens: %d in / %d out, est. cost: %s",
			stats.Usage.InputTokens, stats.Usage.OutputTokens,
			display.FormatCost(stats.Usage.Cost(cfg.Oracle.InputCostPer1K, cfg.Oracle.OutputCostPer1K)))
	}

	log.Record("summary",
		zap.Int("renamed", stats.Renamed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
		zap.Int64("bytes", stats.TotalBytes))

	if len(stats.Failures) == 0 {
		return
	}
	log.Error("Failures:")
	for _, f := range stats.Failures {
		log.Error("  %s [%s]: %v", filepath.Base(f.Path), f.Kind, f.Err)
	}
}
