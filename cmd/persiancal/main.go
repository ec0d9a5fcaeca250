// Command persiancal converts dates between the fixed day count and the
// Gregorian, Julian and Persian calendars.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/zapponejosh/persiancal/internal/calendar"
	"github.com/zapponejosh/persiancal/internal/database"
	"github.com/zapponejosh/persiancal/internal/persian"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// options holds the persistent flags shared by every command.
type options struct {
	locale    string
	algorithm string
	dbPath    string
	logLevel  string
}

// session is the converter and its optional cache for one invocation.
type session struct {
	conv *calendar.Converter
	db   *database.DB
	log  *slog.Logger
}

func (s *session) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "persiancal",
		Short:        "Astronomical Persian, Gregorian and Julian calendar conversions",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.locale, "locale", "iran",
		"observation point: iran, tehran, or lat,long[,elevation,zone]")
	root.PersistentFlags().StringVar(&opts.algorithm, "algorithm", persian.NameAstronomical,
		"Persian algorithm: "+strings.Join(persian.Names(), ", "))
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "",
		"SQLite new-year cache (disabled when empty)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn",
		"log level: debug, info, warn, error")

	root.AddCommand(
		newConvertCmd(opts),
		newNowruzCmd(opts),
		newLeapYearsCmd(opts),
		newAstroCmd(opts),
		newWarmCmd(opts),
		newCacheCmd(opts),
	)
	return root
}

// open builds the converter described by opts. The caller must Close the
// returned session.
func (opts *options) open(cmd *cobra.Command) (*session, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	loc, err := calendar.ParseLocale(opts.locale)
	if err != nil {
		return nil, fmt.Errorf("--locale: %w", err)
	}
	alg, err := persian.New(opts.algorithm, loc)
	if err != nil {
		return nil, fmt.Errorf("--algorithm: %w", err)
	}

	s := &session{log: log}

	// A nil *database.DB must not become a non-nil Store.
	var store calendar.Store
	if opts.dbPath != "" {
		db, err := database.Open(database.DefaultConfig(opts.dbPath), log)
		if err != nil {
			return nil, err
		}
		if _, err := db.Migrate(cmd.Context()); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate cache: %w", err)
		}
		s.db = db
		store = db
	}

	s.conv = calendar.NewConverter(alg, loc, store, calendar.WithLogger(log))
	return s, nil
}

// newTable returns a table writer in the style used by every command.
func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	return table
}
