package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/PHRJr/BuritisProject/pkg/config"
	"github.com/PHRJr/BuritisProject/pkg/db"
	"github.com/PHRJr/BuritisProject/pkg/logger"
	"github.com/PHRJr/BuritisProject/pkg/migrate"
)

type options struct {
	dir string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply and inspect the Buritis database schema",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			_ = godotenv.Load()
		},
	}
	root.PersistentFlags().StringVar(&opts.dir, "dir", "", "migrations directory (default: migrations built into the binary)")

	root.AddCommand(
		newUpCmd(opts),
		newDownCmd(opts),
		newToCmd(opts),
		newStatusCmd(opts),
		newVersionCmd(opts),
		newValidateCmd(opts),
		newCreateCmd(opts),
	)
	return root
}

// withRunner opens the database, builds a runner over the selected source and
// closes the connection when fn returns.
func withRunner(ctx context.Context, opts *options, fn func(ctx context.Context, r *migrate.Runner) error) (err error) {
	cfg, err := config.LoadOffline()
	if err != nil {
		return err
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": sourceLabel(opts.dir)})

	fsys, err := migrate.Source(opts.dir)
	if err != nil {
		return err
	}
	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	runner, err := migrate.NewRunner(sqlDB, fsys)
	if err != nil {
		return err
	}
	logg.Info(ctx, "migrate ready")
	return fn(ctx, runner)
}

func sourceLabel(dir string) string {
	if dir == "" {
		return "embedded"
	}
	return dir
}

func printApplied(w io.Writer, applied []migrate.Applied) {
	if len(applied) == 0 {
		fmt.Fprintln(w, "no migrations to run")
		return
	}
	for _, a := range applied {
		fmt.Fprintf(w, "%-4s %s (%s)\n", a.Direction, a.Name, a.Duration.Round(time.Millisecond))
	}
}

func newUpCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(cmd.Context(), opts, func(ctx context.Context, r *migrate.Runner) error {
				applied, err := r.Up(ctx)
				printApplied(cmd.OutOrStdout(), applied)
				return err
			})
		},
	}
}

func newDownCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(cmd.Context(), opts, func(ctx context.Context, r *migrate.Runner) error {
				applied, err := r.Down(ctx)
				if err != nil {
					return err
				}
				if applied == nil {
					printApplied(cmd.OutOrStdout(), nil)
					return nil
				}
				printApplied(cmd.OutOrStdout(), []migrate.Applied{*applied})
				return nil
			})
		},
	}
}

func newToCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "to <version>",
		Short: "Migrate up or down to the given YYYYMMDDHHMMSS version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			return withRunner(cmd.Context(), opts, func(ctx context.Context, r *migrate.Runner) error {
				applied, err := r.To(ctx, target)
				printApplied(cmd.OutOrStdout(), applied)
				return err
			})
		},
	}
}

func parseVersion(value string) (int64, error) {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil || len(value) != 14 {
		return 0, fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS)", value)
	}
	return v, nil
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(cmd.Context(), opts, func(ctx context.Context, r *migrate.Runner) error {
				statuses, err := r.Status(ctx)
				if err != nil {
					return err
				}
				for _, st := range statuses {
					applied := "pending"
					if st.Applied {
						applied = st.AppliedAt.UTC().Format(time.RFC3339)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%-25s %s\n", applied, st.Name)
				}
				return nil
			})
		},
	}
}

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(cmd.Context(), opts, func(ctx context.Context, r *migrate.Runner) error {
				v, err := r.Version(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			})
		},
	}
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check migration files without touching the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fsys, err := migrate.Source(opts.dir)
			if err != nil {
				return err
			}
			if err := migrate.ValidateFS(fsys); err != nil {
				return fmt.Errorf("migration validation failed: %w", err)
			}
			if err := migrate.CheckCoverage(fsys); err != nil {
				return fmt.Errorf("migration validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migration validation passed (%s)\n", sourceLabel(opts.dir))
			return nil
		},
	}
}

func newCreateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Write an empty SQL migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.dir
			if dir == "" {
				dir = migrate.DefaultDir
			}
			path, err := migrate.CreateSQLMigration(dir, args[0], time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "created migration:", path)
			return nil
		},
	}
}
