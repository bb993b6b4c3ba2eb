package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"salonbook/config"
	"salonbook/database"
	apikeyRepo "salonbook/database/repository/apikey"
	"salonbook/services/apikey"
	"salonbook/utils"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "apikeys",
		Short: "Issue and inspect salon API keys",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig()
		},
	}

	rootCmd.AddCommand(createCmd())
	rootCmd.AddCommand(adminTokenCmd())
	rootCmd.AddCommand(parseCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func createCmd() *cobra.Command {
	var org string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue a new API key for an organisation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.InitDB(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			defer database.Disconnect(ctx)

			logger := utils.GetLogger()
			repo := apikeyRepo.NewMongoAPIKeyRepo(database.Collection("api_keys"), logger)
			svc := apikey.NewService(repo, nil, 0, logger)

			full, record, err := svc.Create(ctx, org)
			if err != nil {
				return err
			}
			fmt.Printf("Key ID:       %s\n", record.KeyID)
			fmt.Printf("Organisation: %s\n", record.OrganisationID)
			fmt.Printf("API key:      %s\n", full)
			fmt.Println("\nStore the key now, it cannot be recovered.")
			return nil
		},
	}
	cmd.Flags().StringVar(&org, "org", "", "Organisation id the key belongs to")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}

func adminTokenCmd() *cobra.Command {
	var (
		ttl     time.Duration
		subject string
	)
	cmd := &cobra.Command{
		Use:   "admin-token",
		Short: "Sign an admin bearer token for /api/admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := utils.GenerateAdminToken(config.AppConfig.AdminJWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	cmd.Flags().StringVar(&subject, "subject", "operator", "Token subject")
	return cmd
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [key]",
		Short: "Check a key's format and print its key id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyID, _, err := apikey.Parse(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Key ID: %s\n", keyID)
			return nil
		},
	}
}
