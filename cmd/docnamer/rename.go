package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/docnamer/internal/budget"
	"github.com/backmassage/docnamer/internal/check"
	"github.com/backmassage/docnamer/internal/config"
	"github.com/backmassage/docnamer/internal/display"
	"github.com/backmassage/docnamer/internal/extract"
	"github.com/backmassage/docnamer/internal/logging"
	"github.com/backmassage/docnamer/internal/naming"
	"github.com/backmassage/docnamer/internal/oracle"
	"github.com/backmassage/docnamer/internal/pipeline"
)

func runRename(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, args, config.ModeRename)
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info("=== docnamer v%s (%s) ===", version, commit)
	log.Info("Dir: %s", cfg.Dir)
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be renamed")
	}
	log.Blank()

	// Fail fast if poppler, the OCR backend or oracle credentials are missing.
	if err := check.CheckDeps(cfg); err != nil {
		log.Error("%v", err)
		return errReported
	}

	deps, vision, err := buildDeps(cfg, log)
	if err != nil {
		log.Error("%v", err)
		return errReported
	}

	ctx, stop := interruptContext(log)
	defer stop()

	stats := pipeline.Run(ctx, cfg, deps, log)

	if vision != nil && (vision.Usage.InputTokens > 0 || vision.Usage.OutputTokens > 0) {
		log.Info("  Vision OCR tokens: %d in / %d out, est. cost: %s",
			vision.Usage.InputTokens, vision.Usage.OutputTokens,
			display.FormatCost(vision.Usage.Cost(cfg.Oracle.InputCostPer1K, cfg.Oracle.OutputCostPer1K)))
	}
	if stats.HasFailures() {
		return errReported
	}
	return nil
}

// buildDeps wires the extractor chain, token estimator and naming oracle
// for cfg. The returned Vision is non-nil when page images are sent to
// the oracle, so its token usage can be reported.
func buildDeps(cfg *config.Config, log *logging.Logger) (pipeline.Deps, *extract.Vision, error) {
	est, err := budget.NewEstimator(cfg.Estimator)
	if err != nil {
		if est == nil {
			return pipeline.Deps{}, nil, err
		}
		log.Warn("Token estimator %s unavailable (%v), counting %d bytes per token",
			cfg.Estimator, err, budget.DefaultBytesPerToken)
	}

	o, err := oracle.New(&cfg.Oracle)
	if err != nil {
		return pipeline.Deps{}, nil, fmt.Errorf("naming oracle: %w", err)
	}

	chain := &extract.Chain{Native: &extract.PDFText{}, Log: log, Verbose: cfg.Verbose}
	raster := extract.Rasterizer{DPI: cfg.OCRDPI}
	var vision *extract.Vision
	switch cfg.OCR {
	case config.OCRTesseract:
		chain.OCR = &extract.Tesseract{Rasterizer: raster, Languages: cfg.OCRLanguages}
	case config.OCRVision:
		tr, err := oracle.NewTranscriber(&cfg.Oracle)
		if err != nil {
			return pipeline.Deps{}, nil, fmt.Errorf("vision OCR: %w", err)
		}
		vision = &extract.Vision{Rasterizer: raster, Transcriber: tr, Prompt: config.TranscribePrompt()}
		chain.OCR = vision
	}

	return pipeline.Deps{
		Extractor: chain,
		Oracle:    o,
		Estimator: est,
		Sanitizer: naming.Sanitizer{MaxLen: cfg.MaxNameLength},
	}, vision, nil
}
