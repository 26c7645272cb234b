package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/backmassage/docnamer/internal/config"
	"github.com/backmassage/docnamer/internal/display"
	"github.com/backmassage/docnamer/internal/dupes"
	"github.com/backmassage/docnamer/internal/logging"
)

func newDuplicatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "duplicates <dir>",
		Aliases: []string{"dupes"},
		Short:   "Report files with identical content",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runDuplicates,
	}
	config.RegisterDuplicateFlags(cmd.Flags())
	cmd.Flags().StringP("path", "p", "", "Directory to scan (alternative to the positional argument)")
	return cmd
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, args, config.ModeDuplicates)
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info("Scanning %s for duplicate files", cfg.Dir)
	if cfg.VerifyDuplicates {
		log.Info("Verifying matches byte by byte")
	}

	ctx, stop := interruptContext(log)
	defer stop()

	pairs, err := dupes.Find(ctx, cfg.Dir, dupes.Options{Verify: cfg.VerifyDuplicates})
	if err != nil {
		// No partial report: a file that cannot be read may hide a duplicate.
		log.Error("Duplicate scan failed: %v", err)
		return errReported
	}
	reportDuplicates(log, pairs)
	return nil
}

func reportDuplicates(log *logging.Logger, pairs []dupes.Pair) {
	if len(pairs) == 0 {
		log.Success("No duplicates found")
		return
	}
	var wasted int64
	for _, p := range pairs {
		log.Warn("Duplicate: %s == %s (%s)", filepath.Base(p.Duplicate), filepath.Base(p.First), display.FormatBytes(p.Size))
		wasted += p.Size
	}
	log.Info("==============================")
	log.Info("Done: %d duplicate(s), %s reclaimable", len(pairs), display.FormatBytes(wasted))
}
