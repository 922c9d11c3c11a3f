package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yanqian/faq-system/internal/domain/auth"
	"github.com/yanqian/faq-system/internal/infra/config"
	"github.com/yanqian/faq-system/internal/infra/database"
	"github.com/yanqian/faq-system/pkg/logger"
)

// rootCmd serves the site when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:          "faq-system",
	Short:        "FAQ management service",
	Long:         `Serves the FAQ JSON API and the server-rendered pages for browsing and editing FAQs.`,
	SilenceUsage: true,
	RunE:         serve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  serve,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  migrateUp,
}

var createUserCmd = &cobra.Command{
	Use:   "createuser",
	Short: "Create an account from the command line",
	RunE:  createUser,
}

var newUser auth.RegisterRequest

func init() {
	createUserCmd.Flags().StringVar(&newUser.Username, "username", "", "Account username")
	createUserCmd.Flags().StringVar(&newUser.Email, "email", "", "Account email address")
	createUserCmd.Flags().StringVar(&newUser.Password, "password", "", "Account password")
	_ = createUserCmd.MarkFlagRequired("username")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(serveCmd, migrateCmd, createUserCmd)
}

func serve(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := initializeApp()
	if err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}
	defer cleanup()

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("application stopped with error: %w", err)
	}
	return nil
}

func migrateUp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New()
	ctx, cancel := context.WithTimeout(cmd.Context(), connectTimeout)
	defer cancel()

	handles, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer handles.Close()
	if err := database.Migrate(ctx, handles, log); err != nil {
		return err
	}
	log.Info("migrations applied", "storage", handles.Driver())
	return nil
}

func createUser(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New()
	handles, cleanup, err := provideDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()
	if handles.Driver() == database.DriverMemory {
		return fmt.Errorf("createuser needs a configured database")
	}

	svc := auth.NewService(provideAuthConfig(cfg), provideUserRepository(handles), log)
	user, err := svc.Register(cmd.Context(), newUser)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s)\n", user.ID, user.Username)
	return nil
}
