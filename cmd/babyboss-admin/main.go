package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"babyboss-sales/internal/app"
	"babyboss-sales/internal/config"
	applog "babyboss-sales/internal/logger"
)

var (
	application *app.App
	newPassword string
)

var rootCmd = &cobra.Command{
	Use:   "babyboss-admin",
	Short: "Maintenance commands for the BabyBoss sales backend",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found, relying on system env")
		}
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}
		zl, err := applog.New(cfg.Env)
		if err != nil {
			return err
		}
		application, err = app.New(cmd.Context(), cfg, zl)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application != nil {
			application.Close()
			_ = application.Log.Sync()
		}
	},
	SilenceUsage: true,
}

// resetPasswordCmd replaces a user's password and ends their session
var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <username>",
	Short: "Reset a user's password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		users := application.Repos.Users
		user, err := users.FindByUsername(args[0])
		if err != nil {
			return fmt.Errorf("user %s not found: %w", args[0], err)
		}
		if len(newPassword) < 6 {
			return fmt.Errorf("password must be at least 6 characters")
		}
		if err := user.SetPassword(newPassword); err != nil {
			return err
		}
		if err := users.Update(user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		// Clearing the version signs out every open session.
		if err := users.UpdateTokenVersion(user.ID, ""); err != nil {
			return fmt.Errorf("end sessions: %w", err)
		}
		application.Log.Info("password reset", zap.String("username", user.Username))
		fmt.Printf("Password for %s has been reset\n", user.Username)
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Inspect and drive the sheet sync",
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last pull and the pending outbox",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := application.Sync.Status()
		if err != nil {
			return err
		}
		return printJSON(st)
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Copy the sheet into the local store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()
		res, err := application.Sync.Pull(ctx)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var syncFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Deliver queued pushes that are due",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()
		res, err := application.Sync.Flush(ctx)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var syncRetryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Re-arm pushes that used up their attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := application.Sync.Retry()
		if err != nil {
			return err
		}
		fmt.Printf("%d entries re-armed\n", n)
		return nil
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	resetPasswordCmd.Flags().StringVarP(&newPassword, "password", "p", "admin123", "new password")
	syncCmd.AddCommand(syncStatusCmd, syncPullCmd, syncFlushCmd, syncRetryCmd)
	rootCmd.AddCommand(resetPasswordCmd, syncCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
