package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danlumempouw/voiceofsoul/internal/config"
	"github.com/danlumempouw/voiceofsoul/pkg/core/attendance"
	"github.com/danlumempouw/voiceofsoul/pkg/core/export"
	"github.com/danlumempouw/voiceofsoul/pkg/core/ledger"
	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
	"github.com/danlumempouw/voiceofsoul/pkg/core/services"
	"github.com/danlumempouw/voiceofsoul/pkg/postgres"
	"github.com/danlumempouw/voiceofsoul/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg      *config.Config
	database *postgres.DB
	logger   *zap.Logger
	ctx      context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Voice of Soul CLI - Manage choir membership and attendance",
		Long:  `A CLI tool for managing choir members, events, attendance records, and recap exports.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.database != nil {
					app.database.Close()
				}
				if app.logger != nil {
					app.logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(listMembersCmd())
	rootCmd.AddCommand(approveMemberCmd())
	rootCmd.AddCommand(generateEventsCmd())
	rootCmd.AddCommand(eventSummaryCmd())
	rootCmd.AddCommand(recapSummaryCmd())
	rootCmd.AddCommand(exportRecapCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and database
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	app.cfg, err = config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.database, err = postgres.NewDB(app.ctx, app.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := app.database.RunMigrations(app.ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.logger.Info("Database initialized successfully")

	return nil
}

// adminActor is the acting identity for CLI mutations. The CLI runs with
// operator access, so service-level permission checks always pass.
func adminActor() model.User {
	return model.User{ID: "cli", Name: "CLI", Role: model.RoleAdmin, Status: model.StatusActive}
}

func loadLedger() (*ledger.Ledger, error) {
	snapshot, err := services.LoadSnapshot(app.ctx, app.database, app.logger)
	if err != nil {
		return nil, err
	}
	return ledger.New(snapshot), nil
}

// parseIntervalArgs reads optional <start> <end> positional args in
// 2006-01-02 form, defaulting to the current month.
func parseIntervalArgs(args []string) (model.Interval, error) {
	if len(args) == 0 {
		return model.CurrentMonth(time.Now()), nil
	}
	if len(args) != 2 {
		return model.Interval{}, fmt.Errorf("expected both <start> and <end>")
	}
	start, err := time.Parse("2006-01-02", args[0])
	if err != nil {
		return model.Interval{}, fmt.Errorf("invalid start date %q: %w", args[0], err)
	}
	end, err := time.Parse("2006-01-02", args[1])
	if err != nil {
		return model.Interval{}, fmt.Errorf("invalid end date %q: %w", args[1], err)
	}
	end = end.Add(24*time.Hour - time.Second)
	return model.Interval{Start: start, End: end}, nil
}

// Command definitions

func listMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listMembers",
		Short: "List active members grouped by voice part",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadLedger()
			if err != nil {
				return err
			}

			users := l.ActiveUsers()
			app.logger.Info("Members loaded", zap.Int("count", len(users)))

			for _, part := range model.VoicePartOrder {
				fmt.Printf("\n%s:\n", part)
				for _, u := range users {
					if u.VoicePart != part {
						continue
					}
					fmt.Printf("  - %s (%s) - %s - %s\n", u.Name, u.ID, u.Role, u.Email)
				}
			}
			fmt.Println()

			return nil
		},
	}
}

func approveMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approveMember <user_id>",
		Short: "Approve a pending signup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]

			if err := services.ApproveMember(app.ctx, app.database, app.logger, adminActor(), userID); err != nil {
				return err
			}

			fmt.Printf("\nMember %s approved.\n\n", userID)
			return nil
		},
	}
}

func generateEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateEvents <title> <start_date> <until_date>",
		Short: "Generate recurring events from a recurrence rule",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[0]

			start, err := time.Parse("2006-01-02", args[1])
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", args[1], err)
			}
			until, err := time.Parse("2006-01-02", args[2])
			if err != nil {
				return fmt.Errorf("invalid until date %q: %w", args[2], err)
			}

			rule, _ := cmd.Flags().GetString("rrule")
			category, _ := cmd.Flags().GetString("category")
			location, _ := cmd.Flags().GetString("location")

			events, err := services.GenerateRecurringEvents(app.ctx, app.database, app.logger, adminActor(), services.RecurringEventInput{
				EventInput: services.EventInput{
					Title:    title,
					Date:     start,
					Location: location,
					Category: model.Category(category),
				},
				RRule: rule,
				Until: until,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\nGenerated %d events:\n", len(events))
			for i, e := range events {
				fmt.Printf("  %2d. %s\n", i+1, e.Date.Format("2006-01-02 (Monday)"))
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("rrule", "FREQ=WEEKLY", "Recurrence rule")
	cmd.Flags().String("category", string(model.CategoryRehearsal), "Event category (Rehearsal, Service, Other)")
	cmd.Flags().String("location", "", "Event location")

	return cmd
}

func eventSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eventSummary <event_id>",
		Short: "Show the per-voice-part attendance breakdown for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID := args[0]

			l, err := loadLedger()
			if err != nil {
				return err
			}

			comp, found := attendance.EventComposition(l, eventID)
			if !found {
				return fmt.Errorf("event %s not found", eventID)
			}

			fmt.Printf("\n%s - %s\n", comp.Event.Title, comp.Event.Date.Format("2006-01-02"))
			for _, part := range comp.Parts {
				present, absent, pending := part.Counts()
				fmt.Printf("\n%s (present %d, absent %d, no response %d):\n", part.Part, present, absent, pending)
				for _, m := range part.Present {
					fmt.Printf("  + %s\n", m.Name)
				}
				for _, m := range part.Absent {
					fmt.Printf("  - %s (%s)\n", m.Name, m.Reason)
				}
			}
			fmt.Printf("\nTotal present: %d, total absent: %d\n\n", comp.TotalPresent(), comp.TotalAbsent())

			return nil
		},
	}
}

func recapSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recapSummary [start] [end]",
		Short: "Show per-member attendance percentages (defaults to current month)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, err := parseIntervalArgs(args)
			if err != nil {
				return err
			}

			l, err := loadLedger()
			if err != nil {
				return err
			}

			rows, err := export.SummaryRows(l, interval)
			if err != nil {
				return err
			}

			fmt.Printf("\nAttendance %s to %s:\n\n",
				interval.Start.Format("2006-01-02"), interval.End.Format("2006-01-02"))
			for _, row := range rows {
				fmt.Printf("  %-30s %-8s %3d/%3d  %3d%%\n",
					row.User.Name, row.User.VoicePart, row.Present, row.Total, row.Percentage)
			}

			userIDs := make([]string, 0, len(rows))
			for _, row := range rows {
				userIDs = append(userIDs, row.User.ID)
			}
			average, err := attendance.AveragePercentage(l, userIDs, interval)
			if err != nil {
				return err
			}
			fmt.Printf("\nGroup average: %.1f%%\n\n", average)

			return nil
		},
	}
}

func exportRecapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exportRecap [start] [end]",
		Short: "Write the recap CSV file (defaults to current month)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, err := parseIntervalArgs(args)
			if err != nil {
				return err
			}

			l, err := loadLedger()
			if err != nil {
				return err
			}

			file, err := export.Recap(l, interval)
			if err != nil {
				return err
			}

			outPath, _ := cmd.Flags().GetString("output")
			if outPath == "" {
				outPath = file.Name
			}
			if err := os.WriteFile(outPath, file.Content, 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			app.logger.Info("Recap exported", zap.String("path", outPath))
			fmt.Printf("\nRecap written to %s\n\n", outPath)

			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output file path (defaults to the generated filename)")

	return cmd
}
