package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"speechsplit/internal/audio"
	"speechsplit/internal/fragcache"
	"speechsplit/internal/logging"
	"speechsplit/internal/segmentation"
)

func newSplitCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		minAudible    int
		targetAudible int
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "split <file.wav>",
		Short: "Segment a recording into silence-separated utterances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.ensureLogger()
			if err != nil {
				return err
			}

			if minAudible > 0 {
				cfg.Segmentation.MinAudibleMS = minAudible
			}
			if targetAudible > 0 {
				cfg.Segmentation.TargetAudibleMS = targetAudible
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if cfg.Cache.Locking {
				if err := os.MkdirAll(cfg.Cache.Dir, 0o755); err != nil {
					return fmt.Errorf("create cache directory: %w", err)
				}
				lock := flock.New(cfg.LockPath())
				if err := lock.Lock(); err != nil {
					return fmt.Errorf("acquire cache lock: %w", err)
				}
				defer func() { _ = lock.Unlock() }()
			}

			buf, err := audio.LoadWAV(args[0])
			if err != nil {
				return err
			}
			logger.Info("loaded recording",
				logging.String("path", args[0]),
				logging.Int("duration_ms", buf.Duration()),
				logging.Int("sample_rate", buf.SampleRate()))

			store, closeStore, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			cache, err := fragcache.New(store, cfg.Cache.MemoSize, logger)
			if err != nil {
				return err
			}

			fragmenter := segmentation.New(nil, cache, logger, segmentation.Options{
				MinAudible:    cfg.Segmentation.MinAudibleMS,
				TargetAudible: cfg.Segmentation.TargetAudibleMS,
				SeekStep:      cfg.Segmentation.SeekStepMS,
			})

			chunks, err := fragmenter.Fragments(context.Background(), buf)
			if err != nil {
				return err
			}

			if jsonOutput {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(chunks)
			}
			return printFragments(cmd, buf, chunks)
		},
	}

	cmd.Flags().IntVar(&minAudible, "min-audible", 0, "Shortest audible span kept as an utterance (ms)")
	cmd.Flags().IntVar(&targetAudible, "target-audible", 0, "Audible span length that triggers re-splitting (ms)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the fragment list as JSON")
	return cmd
}

func printFragments(cmd *cobra.Command, buf *audio.Buffer, chunks []segmentation.Chunk) error {
	rows := make([][]string, 0, len(chunks))
	totalAudible := 0
	for i, c := range chunks {
		label, err := c.Label.MarshalText()
		if err != nil {
			return err
		}
		totalAudible += c.AudibleLen()
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			formatMS(c.SilenceStart),
			formatMS(c.AudibleStart),
			formatMS(c.AudibleEnd),
			strconv.Itoa(c.AudibleLen()),
			strconv.Itoa(c.Level),
			string(label),
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Silence", "Audible", "End", "Length (ms)", "Level", "Label"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
	))
	fmt.Fprintf(out, "%d utterances, %s audible of %s total\n",
		len(chunks), formatMS(totalAudible), formatMS(buf.Duration()))
	return nil
}
