package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PHRJr/BuritisProject/pkg/security"
)

func newHashPasswordCmd() *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the argon2id hash of a password",
		Long: `Hashes an administrator password or the shared shopper passcode.
Use the output as admin_users.password_hash or BURITIS_SHARED_PASSCODE_HASH.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readSecret(cmd, args, fromStdin)
			if err != nil {
				return err
			}

			cfg, err := loadPasswordConfig()
			if err != nil {
				return err
			}

			hash, err := security.HashPassword(password, cfg)
			if err != nil {
				return fmt.Errorf("hashing password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read the password from standard input")
	return cmd
}

func readSecret(cmd *cobra.Command, args []string, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("reading password from stdin: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return "", errors.New("password is required")
		}
		return line, nil
	}
	if len(args) == 0 || args[0] == "" {
		return "", errors.New("password is required")
	}
	return args[0], nil
}
