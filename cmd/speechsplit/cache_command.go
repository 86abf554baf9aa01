package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCacheCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the fragment cache",
	}
	cmd.AddCommand(newCacheListCommand(cmdCtx))
	cmd.AddCommand(newCacheClearCommand(cmdCtx))
	cmd.AddCommand(newCachePathCommand(cmdCtx))
	return cmd
}

func newCacheListCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached recordings by fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			ctx := context.Background()
			fingerprints, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(fingerprints) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "fragment cache is empty")
				return nil
			}

			rows := make([][]string, 0, len(fingerprints))
			for _, fp := range fingerprints {
				chunks, ok, err := store.Load(ctx, fp)
				if err != nil {
					return err
				}
				count := "?"
				if ok {
					count = strconv.Itoa(len(chunks))
				}
				rows = append(rows, []string{fp, count})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Fingerprint", "Chunks"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newCacheClearCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all fragment cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			if err := store.Clear(context.Background()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "fragment cache cleared")
			return nil
		},
	}
}

func newCachePathCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the resolved cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == "sqlite" {
				fmt.Fprintln(cmd.OutOrStdout(), cfg.SQLitePath())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Dir)
			return nil
		},
	}
}
