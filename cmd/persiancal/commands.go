package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/persiancal/internal/calendar"
	"github.com/zapponejosh/persiancal/internal/calendrica"
	"github.com/zapponejosh/persiancal/internal/persian"
)

// maxYearSpan bounds the year ranges of nowruz, leap-years and warm.
const maxYearSpan = 3000

// =============================================================================
// convert
// =============================================================================

func newConvertCmd(opts *options) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "convert DATE...",
		Short: "Show dates in every calendar",
		Long: `Convert one or more dates into every supported calendar.

Dates are YYYY-MM-DD triples (signed years allowed) in the calendar named by
--from, or plain day numbers when --from is fixed.`,
		Example: `  persiancal convert 2024-03-20
  persiancal convert --from persian 1403-12-30 1404-01-01
  persiancal convert --from fixed 0 738965`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			table := newTable(cmd.OutOrStdout(),
				"Input", "Fixed", "Weekday", "Gregorian", "Julian", "Persian", "Day of year", "Leap")
			for _, arg := range args {
				date, err := parseInput(cmd, s.conv, from, arg)
				if err != nil {
					return err
				}
				d, err := s.conv.Describe(cmd.Context(), date)
				if err != nil {
					return err
				}
				table.Append([]string{
					arg,
					strconv.FormatInt(int64(d.Fixed), 10),
					d.DayName,
					calendar.FormatDate(d.Gregorian.Date),
					calendar.FormatDate(d.Julian.Date),
					fmt.Sprintf("%s %s", calendar.FormatDate(d.Persian.Date), d.Persian.Era),
					strconv.Itoa(d.Persian.DayOfYear),
					yesNo(d.Persian.Leap),
				})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "gregorian", "input calendar: gregorian, julian, persian, fixed")
	return cmd
}

// parseInput reads arg as a date in the named calendar and returns its
// fixed date.
func parseInput(cmd *cobra.Command, conv *calendar.Converter, from, arg string) (calendrica.FixedDate, error) {
	if from == "fixed" {
		rd, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: fixed date %q", calendar.ErrInvalidFormat, arg)
		}
		return calendrica.FixedDate(rd), nil
	}

	d, err := calendar.ParseDate(arg)
	if err != nil {
		return 0, err
	}

	switch from {
	case "gregorian":
		if err := calendar.ValidateGregorian(d); err != nil {
			return 0, err
		}
		return calendrica.FixedFromGregorian(d), nil
	case "julian":
		if err := calendar.ValidateJulian(d); err != nil {
			return 0, err
		}
		return calendrica.FixedFromJulian(d), nil
	case "persian":
		if err := persian.Validate(conv.Algorithm(), d); err != nil {
			return 0, err
		}
		return conv.FromPersian(cmd.Context(), d)
	default:
		return 0, fmt.Errorf("--from must be gregorian, julian, persian or fixed; got %q", from)
	}
}

// =============================================================================
// nowruz
// =============================================================================

func newNowruzCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "nowruz GYEAR [GYEAR]",
		Short:   "List Nowruz (Farvardin 1) for a range of Gregorian years",
		Example: "  persiancal nowruz 2020 2030",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := yearRange(args)
			if err != nil {
				return err
			}

			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			table := newTable(cmd.OutOrStdout(), "Gregorian year", "Persian year", "Fixed", "Date", "Weekday")
			for gyear := from; gyear <= to; gyear++ {
				date, pyear, err := s.conv.Nowruz(cmd.Context(), gyear)
				if err != nil {
					return err
				}
				table.Append([]string{
					strconv.Itoa(gyear),
					strconv.Itoa(pyear),
					strconv.FormatInt(int64(date), 10),
					calendar.FormatDate(calendrica.GregorianFromFixed(date)),
					calendar.DayName(calendrica.DayOfWeekFromFixed(date)),
				})
			}
			table.Render()
			return nil
		},
	}
}

// =============================================================================
// leap-years
// =============================================================================

func newLeapYearsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "leap-years FROM TO",
		Short:   "List Persian leap years in a range",
		Example: "  persiancal leap-years 1390 1410\n  persiancal --locale tehran leap-years 1460 1480",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := yearRange(args)
			if err != nil {
				return err
			}

			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			leaps, err := s.conv.LeapYears(cmd.Context(), from, to)
			if err != nil {
				return err
			}

			table := newTable(cmd.OutOrStdout(), "Persian year", "Nowruz", "Esfand days")
			for _, year := range leaps {
				start, err := s.conv.NewYear(cmd.Context(), year)
				if err != nil {
					return err
				}
				table.Append([]string{
					strconv.Itoa(year),
					calendar.FormatDate(calendrica.GregorianFromFixed(start)),
					"30",
				})
			}
			table.SetFooter([]string{"", "Total", strconv.Itoa(len(leaps))})
			table.Render()
			return nil
		},
	}
}

// =============================================================================
// astro
// =============================================================================

func newAstroCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "astro MOMENT",
		Short:   "Show solar quantities at a moment (fixed date plus day fraction, UT)",
		Example: "  persiancal astro 738965.5",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tee, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("%w: moment %q", calendar.ErrInvalidFormat, args[0])
			}

			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			a := calendar.AstroAt(calendrica.Moment(tee), s.conv.Location())
			table := newTable(cmd.OutOrStdout(), "Quantity", "Value")
			table.AppendBulk([][]string{
				{"Moment", formatFloat(float64(a.Moment))},
				{"Solar longitude (deg)", formatFloat(a.SolarLongitude)},
				{"Nutation (deg)", formatFloat(a.Nutation)},
				{"Aberration (deg)", formatFloat(a.Aberration)},
				{"Obliquity (deg)", formatFloat(a.Obliquity)},
				{"Equation of time (day)", formatFloat(a.EquationOfTime)},
				{"Ephemeris correction (day)", formatFloat(a.EphemerisCorrection)},
				{"Ephemeris model", a.EphemerisModel},
				{"Julian centuries", formatFloat(a.JulianCenturies)},
				{"Midday", formatFloat(float64(a.Midday))},
				{"Prior equinox", formatFloat(float64(a.PriorEquinox))},
			})
			table.Render()
			return nil
		},
	}
}

// =============================================================================
// warm
// =============================================================================

func newWarmCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "warm FROM TO",
		Short:   "Precompute Persian new years into the --db cache",
		Example: "  persiancal --db ./data/persiancal.db warm 1300 1500",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dbPath == "" {
				return fmt.Errorf("warm requires --db")
			}
			from, to, err := yearRange(args)
			if err != nil {
				return err
			}

			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.conv.Warm(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cached %d new years (%s, %s)\n",
				n, s.conv.Algorithm().Name(), s.conv.Locale())
			return nil
		},
	}
}

// =============================================================================
// Helpers
// =============================================================================

// yearRange parses one or two year arguments into an inclusive range.
func yearRange(args []string) (int, int, error) {
	from, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: year %q", calendar.ErrInvalidFormat, args[0])
	}
	to := from
	if len(args) > 1 {
		if to, err = strconv.Atoi(args[1]); err != nil {
			return 0, 0, fmt.Errorf("%w: year %q", calendar.ErrInvalidFormat, args[1])
		}
	}
	if to < from {
		return 0, 0, fmt.Errorf("range %d-%d is reversed", from, to)
	}
	if to-from > maxYearSpan {
		return 0, 0, fmt.Errorf("range %d-%d exceeds %d years", from, to, maxYearSpan)
	}
	return from, to, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
