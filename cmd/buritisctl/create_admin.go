package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PHRJr/BuritisProject/internal/users"
	"github.com/PHRJr/BuritisProject/pkg/security"
)

const generatedPasswordLen = 16

func newCreateAdminCmd() *cobra.Command {
	var (
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long:  "Creates an admin_users row. A random password is generated and printed when --password is omitted.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, logg, client, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			generated := false
			if strings.TrimSpace(password) == "" {
				password, err = security.GenerateTempPassword(generatedPasswordLen)
				if err != nil {
					return fmt.Errorf("generating password: %w", err)
				}
				generated = true
			}

			conn := client.DB()
			svc, err := users.NewService(users.NewRepository(conn), users.NewAdminRepository(conn), client, cfg.Catalog, cfg.Password, logg)
			if err != nil {
				return err
			}
			if err := svc.CreateAdmin(ctx, email, password); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", strings.ToLower(strings.TrimSpace(email)))
			if generated {
				fmt.Fprintf(cmd.OutOrStdout(), "password: %s\n", password)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "administrator e-mail (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "administrator password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
