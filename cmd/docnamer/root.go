package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/docnamer/internal/config"
	"github.com/backmassage/docnamer/internal/display"
	"github.com/backmassage/docnamer/internal/logging"
)

// errReported is returned by commands whose failure was already logged.
var errReported = errors.New("failed")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "docnamer [flags] [dir]",
		Short: "Rename receipts and invoices after their content",
		Long: "docnamer extracts the text of every PDF in a directory, asks a language model\n" +
			"for a descriptive name and renames the file without ever overwriting another.\n" +
			"With -d it reports byte-identical duplicates instead.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dup, _ := cmd.Flags().GetBool("duplicates"); dup {
				return runDuplicates(cmd, args)
			}
			return runRename(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	config.RegisterGlobalFlags(root.PersistentFlags())
	config.RegisterRenameFlags(root.Flags())
	config.RegisterDuplicateFlags(root.Flags())
	root.Flags().BoolP("duplicates", "d", false, "Find duplicate files instead of renaming")

	root.AddCommand(newDuplicatesCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig reads configuration for cmd, taking the directory from the
// positional argument when one was given.
func loadConfig(cmd *cobra.Command, args []string, mode config.Mode) (*config.Config, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Dir = config.NormalizeDirArg(args[0])
	}
	cfg.Mode = mode
	return cfg, nil
}

// setup loads and validates configuration, then opens the logger and
// prints the banner. The caller must Close the logger.
func setup(cmd *cobra.Command, args []string, mode config.Mode) (*config.Config, *logging.Logger, error) {
	// The logger doesn't exist yet, so errors are returned for main to print.
	cfg, err := loadConfig(cmd, args, mode)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := config.ValidateDir(cfg.Dir); err != nil {
		return nil, nil, err
	}

	log, err := logging.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	display.PrintBanner(cmd.OutOrStdout())
	log.Debug(cfg.Verbose, "Run ID: %s", log.RunID())
	return cfg, log, nil
}

// interruptContext cancels on SIGINT/SIGTERM so work stops between files
// without leaving a half-finished rename.
func interruptContext(log *logging.Logger) (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, finishing current file…")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}
