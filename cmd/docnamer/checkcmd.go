package main

import (
	"github.com/spf13/cobra"

	"github.com/backmassage/docnamer/internal/check"
	"github.com/backmassage/docnamer/internal/config"
	"github.com/backmassage/docnamer/internal/display"
	"github.com/backmassage/docnamer/internal/logging"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Show external tools and oracle settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, nil, config.ModeRename)
			if err != nil {
				return err
			}
			log, err := logging.NewLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			display.PrintBanner(cmd.OutOrStdout())
			check.RunCheck(cfg, log)
			return nil
		},
	}
	// Shown oracle settings follow the same flags as a rename run.
	config.RegisterRenameFlags(cmd.Flags())
	return cmd
}
