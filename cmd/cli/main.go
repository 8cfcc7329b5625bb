package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"stopstats/adapters/api"
	"stopstats/adapters/astro"
	"stopstats/adapters/excel"
	"stopstats/domain/frame"
	"stopstats/internal/config"
)

var (
	flagStops      string
	flagPopulation string
	flagLatitude   string
	flagLongitude  string
	flagTimezone   string
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "stopstats",
		Short: "Group rates and veil-of-darkness analysis over stop records",
	}

	rootCmd.PersistentFlags().StringVar(&flagStops, "stops", "", "stop records file (.csv or .xlsx)")
	rootCmd.PersistentFlags().StringVar(&flagPopulation, "population", "", "population file (.csv or .xlsx)")
	rootCmd.PersistentFlags().StringVar(&flagLatitude, "lat", "", "latitude of the analysis location")
	rootCmd.PersistentFlags().StringVar(&flagLongitude, "long", "", "longitude of the analysis location")
	rootCmd.PersistentFlags().StringVar(&flagTimezone, "tz", "", "IANA timezone of the analysis location")

	rootCmd.AddCommand(
		newRatesCmd(),
		newCompareCmd(),
		newSolarCmd(),
		newVodCmd(),
		newProfileCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRatesCmd() *cobra.Command {
	var by []string

	cmd := &cobra.Command{
		Use:   "rates [kind]",
		Short: "Aggregate a rate (size|stop|search|arrest|frisk|hit) by grouping columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			table, err := svc.Rates(args[0], by)
			if err != nil {
				return err
			}
			return writeCSV(table)
		},
	}
	cmd.Flags().StringSliceVar(&by, "by", nil, "grouping columns")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var by, minorities []string
	var majority string

	cmd := &cobra.Command{
		Use:   "compare [kind]",
		Short: "Compare a rate between the majority group and minority groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			table, err := svc.Compare(args[0], by, majority, minorities)
			if err != nil {
				return err
			}
			return writeCSV(table)
		},
	}
	cmd.Flags().StringVar(&majority, "majority", "", "majority group value")
	cmd.Flags().StringSliceVar(&minorities, "minorities", nil, "minority group values")
	cmd.Flags().StringSliceVar(&by, "by", nil, "extra breakdown columns")
	_ = cmd.MarkFlagRequired("majority")
	_ = cmd.MarkFlagRequired("minorities")
	return cmd
}

func newSolarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solar",
		Short: "Civil sunset and dusk for every distinct stop date",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			times, err := svc.Solar(cmd.Context())
			if err != nil {
				return err
			}
			w := csv.NewWriter(os.Stdout)
			_ = w.Write([]string{"date", "sunset", "dusk", "sunset_minute", "dusk_minute"})
			for _, t := range times {
				_ = w.Write([]string{
					t.Date.Format("2006-01-02"),
					t.Sunset.Format("15:04:05"),
					t.Dusk.Format("15:04:05"),
					strconv.Itoa(int(t.SunsetMinute)),
					strconv.Itoa(int(t.DuskMinute)),
				})
			}
			w.Flush()
			return w.Error()
		},
	}
}

func newVodCmd() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "vod",
		Short: "Veil-of-darkness group shares for daylight and darkness stops",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			rates, err := svc.Vod(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			return writeJSON(rates)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "window start (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "window end (HH:MM)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Minutes-after-dark distribution per group",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			profiles, err := svc.VodProfiles(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(profiles)
		},
	}
}

// buildService layers flags over environment configuration.
func buildService(ctx context.Context) (*api.Service, error) {
	applyFlagEnv("STOPS_FILE", flagStops)
	applyFlagEnv("POPULATION_FILE", flagPopulation)
	applyFlagEnv("ANALYSIS_LATITUDE", flagLatitude)
	applyFlagEnv("ANALYSIS_LONGITUDE", flagLongitude)
	applyFlagEnv("ANALYSIS_TIMEZONE", flagTimezone)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Data.StopsFile == "" {
		return nil, fmt.Errorf("no stop records: pass --stops or set STOPS_FILE")
	}

	schema := cfg.Columns.Schema()
	source := excel.NewSource(cfg.Data.StopsFile, cfg.Data.PopulationFile, schema)
	return api.NewService(ctx, source, astro.NewCalculator(), schema, cfg.Location.Location())
}

func applyFlagEnv(key, value string) {
	if value != "" {
		os.Setenv(key, value)
	}
}

func writeCSV(t frame.Table) error {
	w := csv.NewWriter(os.Stdout)
	if err := w.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		record := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			record[i] = frame.FormatValue(row[col])
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
