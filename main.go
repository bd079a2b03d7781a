package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payroll/config"
	"payroll/database"
	"payroll/handlers"
	"payroll/ledger"
	"payroll/middleware"
	"payroll/models"
	"payroll/notify"
	"payroll/syncclient"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "payroll",
		Short:   "Attendance reconciliation and payroll service",
		Version: Version,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(payrollCmd())
	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(pullCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	store  *database.Store
	ledger *ledger.Ledger
}

func setup() (*app, error) {
	// Load configuration
	cfg := config.Load()

	// Initialize JWT secret
	middleware.SetJWTSecret(cfg.JWTSecret)

	// Initialize database
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL, database.ParseLogLevel(cfg.LogSQL))
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	store := database.NewStore(db)

	opts := []ledger.Option{
		ledger.WithLocation(cfg.Location),
		ledger.WithFallbackRate(cfg.HourlyRateFallback),
		ledger.WithSyncTimeout(cfg.SyncTimeout),
	}
	if cfg.MailEnabled() {
		opts = append(opts, ledger.WithNotifier(
			notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom),
		))
	}

	// A nil client keeps every record local until a sync URL is configured.
	var client ledger.PayrollSyncClient
	if cfg.SyncEnabled() {
		client = syncclient.New(cfg.SyncBaseURL, cfg.SyncTimeout, func() (string, error) {
			return middleware.GenerateToken("payroll-sync", models.RoleAdmin, 5*time.Minute)
		})
	}

	return &app{
		cfg:    cfg,
		store:  store,
		ledger: ledger.New(store, store, client, opts...),
	}, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}

			server := &http.Server{
				Addr:              ":" + a.cfg.ServerPort,
				Handler:           handlers.NewRouter(a.cfg, a.ledger, a.store),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Printf("Server starting on port %s", a.cfg.ServerPort)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				log.Println("Shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return err
				}
			}
			a.ledger.Wait()
			return nil
		},
	}
}

func payrollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Compute payroll from attendance",
	}

	run := &cobra.Command{
		Use:   "run [employee-id] [period]",
		Short: "Record pay for an employee and period (yyyy-MM), then reset the consumed events",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.ledger.Wait()

			result, err := a.ledger.RunPayroll(cmd.Context(), args[0], args[1])
			if result != nil {
				printJSON(cmd, result)
			}
			return err
		},
	}

	hours := &cobra.Command{
		Use:   "hours [employee-id] [period]",
		Short: "Preview billable hours without recording anything",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			rec, err := a.ledger.HoursWorked(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.2f h over %d sessions (%d anomalies)\n",
				rec.TotalHours, len(rec.Sessions), len(rec.Anomalies))
			for _, an := range rec.Anomalies {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %s %s\n", an.Event.CalendarDate, an.Kind, an.Event.ID)
			}
			return nil
		},
	}

	cmd.AddCommand(run, hours)
	return cmd
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push unsynced payroll records to the remote backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			report, err := a.ledger.SyncPending(cmd.Context())
			if err != nil {
				return err
			}
			printJSON(cmd, report)
			return nil
		},
	}
}

func pullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Merge the remote payroll history into the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			report, err := a.ledger.PullHistory(cmd.Context())
			if err != nil {
				return err
			}
			printJSON(cmd, report)
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token [subject]",
		Short: "Issue an API token for a device or operator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			middleware.SetJWTSecret(cfg.JWTSecret)

			roleName, _ := cmd.Flags().GetString("role")
			role := models.Role(roleName)
			if role != models.RoleAdmin && role != models.RoleScanner {
				return fmt.Errorf("unknown role %q", roleName)
			}
			expiration, _ := cmd.Flags().GetDuration("expires")
			if expiration <= 0 {
				expiration = cfg.JWTExpiration
			}

			token, err := middleware.GenerateToken(args[0], role, expiration)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringP("role", "r", string(models.RoleScanner), "Role (ADMIN, SCANNER)")
	cmd.Flags().Duration("expires", 0, "Token lifetime (defaults to JWT_EXPIRATION)")

	return cmd
}

func printJSON(cmd *cobra.Command, v interface{}) {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Printf("Failed to print result: %v", err)
	}
}
