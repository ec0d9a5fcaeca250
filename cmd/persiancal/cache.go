package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/persiancal/internal/database"
)

// newCacheCmd groups the commands that manage the --db new-year cache.
func newCacheCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect, export, import or clear the new-year cache",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.dbPath == "" {
				return fmt.Errorf("cache commands require --db")
			}
			return nil
		},
	}

	cmd.AddCommand(
		newCacheStatsCmd(opts),
		newCacheExportCmd(opts),
		newCacheImportCmd(opts),
		newCacheClearCmd(opts),
	)
	return cmd
}

func newCacheStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize cached years per algorithm and locale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.db.GetCacheStats(cmd.Context())
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache is empty.")
				return nil
			}

			table := newTable(cmd.OutOrStdout(), "Algorithm", "Locale", "Years", "From", "To", "Max steps")
			for _, st := range stats {
				table.Append([]string{
					st.Algorithm,
					st.Locale,
					strconv.Itoa(st.Count),
					strconv.Itoa(st.MinYear),
					strconv.Itoa(st.MaxYear),
					strconv.Itoa(st.MaxSteps),
				})
			}
			table.Render()
			return nil
		},
	}
}

func newCacheExportCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write cached new years as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			years, err := s.db.ListNewYears(cmd.Context(), database.NewYearFilter{})
			if err != nil {
				return err
			}

			doc := database.CacheExport{
				Metadata: database.ExportMetadata{
					GeneratedAt: time.Now().UTC().Format(time.RFC3339),
					Source:      s.db.Path(),
					Count:       len(years),
				},
				NewYears: years,
			}

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				w = f
			}

			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("write export: %w", err)
			}

			s.log.Info("cache exported", slog.Int("years", len(years)), slog.String("output", output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout)")
	return cmd
}

func newCacheImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Load new years from a JSON export in a single transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			var doc database.CacheExport
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("parse import file: %w", err)
			}

			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			start := time.Now()
			err = s.db.WithTx(ctx, func(tx *database.Tx) error {
				return importNewYears(ctx, tx, doc.NewYears, s.log)
			})
			if err != nil {
				return fmt.Errorf("import new years: %w", err)
			}

			total, err := s.db.CountNewYears(ctx, database.NewYearFilter{})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d new years in %v (cache now holds %d)\n",
				len(doc.NewYears), time.Since(start).Round(time.Millisecond), total)
			return nil
		},
	}
}

// importNewYears writes every record through tx. The schema rejects
// malformed rows, which rolls back the whole import.
func importNewYears(ctx context.Context, tx *database.Tx, years []database.NewYear, logger *slog.Logger) error {
	for i := range years {
		if err := tx.UpsertNewYear(ctx, &years[i]); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}

		// Progress logging every 500 records
		if (i+1)%500 == 0 {
			logger.Debug("import progress",
				slog.Int("record", i+1),
				slog.Int("total", len(years)),
			)
		}
	}
	return nil
}

func newCacheClearCmd(opts *options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached new years for the current --algorithm and --locale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			filter := database.NewYearFilter{
				Algorithm: s.conv.Algorithm().Name(),
				Locale:    s.conv.Locale(),
			}
			if all {
				filter = database.NewYearFilter{}
			}

			n, err := s.db.DeleteNewYears(cmd.Context(), filter)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d new years\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "delete every algorithm and locale")
	return cmd
}
