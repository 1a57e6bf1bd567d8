// Command secretaryassign is the CLI entry point for the weekly secretary
// assignment driver: it loads configuration, opens the database, and runs
// the assign subcommand per §6's flag contract.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/secretary-assign/internal/assign"
	"github.com/jakechorley/secretary-assign/internal/config"
	"github.com/jakechorley/secretary-assign/internal/logging"
	"github.com/jakechorley/secretary-assign/internal/report"
	"github.com/jakechorley/secretary-assign/internal/store/postgres"
)

// App holds the application dependencies, initialized once in
// PersistentPreRunE and shared by every subcommand.
type App struct {
	cfg    *config.Config
	db     *postgres.DB
	logger *zap.Logger
	ctx    context.Context
}

var app *App

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "secretaryassign",
		Short: "Assign secretaries to weekly medical work blocks",
		Long:  "Runs the CP-SAT weekly secretary assignment solver against a Postgres-backed schedule.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			weekFlag, _ := cmd.Flags().GetString("week")
			week, _ := time.Parse("2006-01-02", weekFlag) // zero Time if unset/invalid; assignCmd re-validates it
			return initApp(configPath, week, verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.logger != nil {
					app.logger.Sync()
				}
				if app.db != nil {
					app.db.Close()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config file (default: search cwd then $HOME)")

	rootCmd.AddCommand(assignCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initApp(configPath string, week time.Time, verbose bool) error {
	var err error
	app = &App{ctx: context.Background()}

	if configPath != "" {
		app.cfg, err = config.LoadFromPath(configPath)
	} else {
		app.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.logger, err = logging.Init(app.cfg.LogDir, week, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Debug("Connecting to database")
	poolCfg := postgres.PoolConfig{
		MaxConns:        app.cfg.DatabaseMaxConns,
		MaxConnIdleTime: time.Duration(app.cfg.DatabaseMaxConnIdleSeconds) * time.Second,
	}
	app.db, err = postgres.New(app.ctx, app.cfg.DatabaseURL, poolCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	app.logger.Debug("Running migrations")
	if err := app.db.RunMigrations(app.ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func assignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign secretaries to medical and administrative work blocks for one week",
		RunE: func(cmd *cobra.Command, args []string) error {
			weekFlag, _ := cmd.Flags().GetString("week")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			clearProposed, _ := cmd.Flags().GetBool("clear-proposed")
			verbose, _ := cmd.Flags().GetBool("verbose")
			timeLimit, _ := cmd.Flags().GetInt("time-limit")

			if !cmd.Flags().Changed("verbose") {
				verbose = app.cfg.DefaultVerbose
			}
			if !cmd.Flags().Changed("time-limit") {
				timeLimit = app.cfg.DefaultTimeLimitSeconds
			}

			weekStart, err := time.Parse("2006-01-02", weekFlag)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s is not a valid date (YYYY-MM-DD)\n", weekFlag)
				os.Exit(1)
			}
			if weekStart.Weekday() != time.Monday {
				fmt.Fprintf(os.Stderr, "Error: %s is not a Monday\n", weekFlag)
				os.Exit(1)
			}

			opts := assign.Options{
				WeekStart:                     weekStart,
				DryRun:                        dryRun,
				ClearProposed:                 clearProposed,
				Verbose:                       verbose,
				TimeLimitSeconds:              timeLimit,
				IncludeAdminInWorkloadBalance: app.cfg.IncludeAdminInWorkloadBalance,
			}

			outcome, err := assign.AssignWeek(app.ctx, app.db, app.logger, opts)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}

			assign.Report(os.Stdout, outcome, verbose)

			if outcome.Result.Status == "OPTIMAL" || outcome.Result.Status == "FEASIBLE" {
				if dryRun {
					fmt.Printf("[DRY RUN] %d assignations NON insérées\n", len(outcome.Result.Assignments))
				} else {
					fmt.Printf("%d assignations insérées en base (source=ALGORITHM, status=PROPOSED)\n", outcome.Written)
				}
			} else {
				fmt.Printf("Pas de solution trouvée (status=%s)\n", outcome.Result.Status)
			}

			if err := writeHTMLWeekView(outcome, weekStart); err != nil {
				app.logger.Debug("Failed to write HTML week view", zap.Error(err))
			}

			return nil
		},
	}

	cmd.Flags().String("week", "", "Monday of the week to process (YYYY-MM-DD)")
	cmd.MarkFlagRequired("week")
	cmd.Flags().Bool("dry-run", false, "Compute and report without persisting")
	cmd.Flags().Bool("clear-proposed", false, "Delete prior non-MANUAL assignments for the week before running")
	cmd.Flags().Bool("verbose", false, "Emit model and search statistics")
	cmd.Flags().Int("time-limit", 30, "Solver wall-clock time limit in seconds")

	return cmd
}

func writeHTMLWeekView(outcome *assign.Outcome, weekStart time.Time) error {
	f, err := os.Create(fmt.Sprintf("week_%s.html", weekStart.Format("2006-01-02")))
	if err != nil {
		return err
	}
	defer f.Close()

	weekEnd := weekStart.AddDate(0, 0, 6)
	return report.WriteHTMLWeekView(f, outcome.Data, outcome.Result.Assignments,
		weekStart.Format("2006-01-02"), weekEnd.Format("2006-01-02"))
}
