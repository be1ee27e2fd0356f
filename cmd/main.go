package main

import (
	"context"
	"fmt"
	"os"

	"hospital-management-api/cmd/bootstrap"
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/infrastructure/database"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "hms",
		Short:         "Hospital management API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}

			app, err := bootstrap.New(cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			return app.Run()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}
			return database.MigrateUp(cfg.DB)
		},
	})

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")

			cfg, _, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}
			return database.MigrateDown(cfg.DB, steps)
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(downCmd)

	return cmd
}

func createAdminCmd() *cobra.Command {
	req := &dto.CreateAdminRequest{}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}

			user, err := bootstrap.CreateAdmin(context.Background(), cfg, log, req)
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}

			fmt.Printf("Admin %s created with id %s\n", user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "Admin email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "Admin password (at least 8 characters)")
	cmd.Flags().StringVar(&req.Name, "name", "Administrator", "Admin display name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}
