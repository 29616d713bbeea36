/*
main.go - dispatchctl, the operator CLI for the seeding engine

PURPOSE:
  Runs the same three operations the HTTP API exposes, directly against
  a local database: seed, list runs, purge. Meant for development and
  staging environments where spinning up the server is overkill.

EXAMPLES:
  # Seed with defaults
  dispatchctl seed

  # Reproducible run with attachments
  dispatchctl seed --seed 424242 --projects 8 --attachments

  # Inspect and undo
  dispatchctl runs
  dispatchctl purge <run-id>
*/
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/warp/dispatch-engine/catalog"
	"github.com/warp/dispatch-engine/seed"
	"github.com/warp/dispatch-engine/store/sqlite"
)

var rootCmd = &cobra.Command{
	Use:   "dispatchctl",
	Short: "Dispatch engine seeding CLI",
	Long: `dispatchctl drives the synthetic-data seeding engine against a local
database. Every run is reversible: the provenance ledger records each
created row and 'dispatchctl purge' removes them again, files included.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(runsCmd())
	rootCmd.AddCommand(purgeCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("DISPATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("db", "dispatch.db", "SQLite database path")
	rootCmd.PersistentFlags().String("catalog", "", "reference catalog YAML (empty = embedded)")
	rootCmd.PersistentFlags().String("attachments-dir", "./data/attachments", "attachment file directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("catalog", rootCmd.PersistentFlags().Lookup("catalog"))
	_ = viper.BindPFlag("attachments-dir", rootCmd.PersistentFlags().Lookup("attachments-dir"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func seedCmd() *cobra.Command {
	cfg := seed.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Execute a seed run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				cat, err := catalog.Load(viper.GetString("catalog"))
				if err != nil {
					return err
				}
				seeder := seed.NewSeeder(store, cat, zap.NewNop(),
					seed.WithAttachmentDir(viper.GetString("attachments-dir")))

				result, err := seeder.Run(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(result)
				}

				created := result.Summary.Created
				fmt.Printf("Run %s created\n", result.RunID)
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Entity", "Created"})
				tw.AppendRows([]table.Row{
					{"teams", created.Teams},
					{"tours", created.Tours},
					{"employees", created.Employees},
					{"customers", created.Customers},
					{"projects", created.Projects},
					{"project status", created.ProjectStatus},
					{"mount appointments", created.MountAppointments},
					{"rekl appointments", created.ReklAppointments},
					{"attachments", created.Attachments},
				})
				tw.Render()
				for _, w := range result.Summary.Warnings {
					fmt.Println("warning:", w)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&cfg.Employees, "employees", cfg.Employees, "employee count")
	cmd.Flags().IntVar(&cfg.Customers, "customers", cfg.Customers, "customer count")
	cmd.Flags().IntVar(&cfg.Projects, "projects", cfg.Projects, "project count")
	cmd.Flags().IntVar(&cfg.AppointmentsPerProject, "per-project", cfg.AppointmentsPerProject, "mount appointments per project")
	cmd.Flags().BoolVar(&cfg.Attachments, "attachments", false, "generate attachment files")
	cmd.Flags().Int64Var(&cfg.RandomSeed, "seed", 0, "explicit random seed (0 = derive from run id)")
	cmd.Flags().IntVar(&cfg.WindowMinDays, "window-min", cfg.WindowMinDays, "seeding window start, days from today")
	cmd.Flags().IntVar(&cfg.WindowMaxDays, "window-max", cfg.WindowMaxDays, "seeding window end, days from today")
	cmd.Flags().IntVar(&cfg.ReklDelayMinDays, "rekl-delay-min", cfg.ReklDelayMinDays, "minimum mount-to-rekl delay in days")
	cmd.Flags().IntVar(&cfg.ReklDelayMaxDays, "rekl-delay-max", cfg.ReklDelayMaxDays, "maximum mount-to-rekl delay in days")
	cmd.Flags().Float64Var(&cfg.ReklShare, "rekl-share", cfg.ReklShare, "share of eligible mounts that get a rekl [0..1]")
	cmd.Flags().StringVar(&cfg.Locale, "locale", cfg.Locale, "name pool locale (de, en)")
	return cmd
}

func runsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List seed runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				runs, err := store.ListSeedRuns(cmd.Context())
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(runs)
				}

				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Run ID", "Status", "Created", "Mounts", "Rekls"})
				for _, r := range runs {
					mounts, rekls := "-", "-"
					var s seed.Summary
					if r.SummaryJSON != "" && json.Unmarshal([]byte(r.SummaryJSON), &s) == nil {
						mounts = fmt.Sprint(s.Created.MountAppointments)
						rekls = fmt.Sprint(s.Created.ReklAppointments)
					}
					tw.AppendRow(table.Row{r.ID, r.Status, r.CreatedAt.Format("2006-01-02 15:04"), mounts, rekls})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func purgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge <run-id>",
		Short: "Purge a seed run and everything it created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				result, err := seed.NewPurger(store, zap.NewNop()).Purge(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(result)
				}

				if result.NoOp {
					fmt.Printf("Run %s not found, nothing to purge\n", args[0])
					return nil
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Entity", "Deleted"})
				for entityType, n := range result.Deleted {
					tw.AppendRow(table.Row{entityType, n})
				}
				tw.AppendRow(table.Row{"files", result.Files})
				tw.Render()
				for _, w := range result.Warnings {
					fmt.Println("warning:", w)
				}
				return nil
			})
		},
	}
}

// --- helpers ---

func withStore(fn func(*sqlite.Store) error) error {
	store, err := sqlite.New(viper.GetString("db"))
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
