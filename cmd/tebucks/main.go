// Command tebucks runs the TE Bucks console client.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tebucks/tebucks-cli/internal/accountrepo"
	"github.com/tebucks/tebucks-cli/internal/accountservice"
	"github.com/tebucks/tebucks-cli/internal/consoledelivery"
	"github.com/tebucks/tebucks-cli/internal/directoryservice"
	"github.com/tebucks/tebucks-cli/internal/sessionrepo"
	"github.com/tebucks/tebucks-cli/internal/sessionservice"
	"github.com/tebucks/tebucks-cli/internal/transferrepo"
	"github.com/tebucks/tebucks-cli/internal/transferservice"
	"github.com/tebucks/tebucks-cli/internal/userrepo"
	"github.com/tebucks/tebucks-cli/pkg/configpkg"
	"github.com/tebucks/tebucks-cli/pkg/logpkg"
	"github.com/tebucks/tebucks-cli/pkg/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "tebucks",
		Short:         "Console client for the TE Bucks ledger service",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "./configs", "directory containing app.env")

	return cmd
}

func run(configPath string) error {
	config, err := configpkg.Load(configPath)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}

	logger, closer, err := logpkg.New(config)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}

	if closer != nil {
		defer closer.Close()
	}

	ctx := logger.WithContext(context.Background())

	// Registration and login run without a bearer token; every other
	// call borrows the active session's credential.
	loginClient := web.NewClient(config.APIBaseURL, config.HTTPTimeout, nil)
	sessionRepo := sessionrepo.NewRepoHTTP(loginClient)
	sessions := sessionservice.New(sessionRepo)

	apiClient := web.NewClient(config.APIBaseURL, config.HTTPTimeout, sessions)
	accountRepo := accountrepo.NewRepoHTTP(apiClient)
	userRepo := userrepo.NewRepoHTTP(apiClient)
	transferRepo := transferrepo.NewRepoHTTP(apiClient)

	directory := directoryservice.New(accountRepo, userRepo)
	accounts := accountservice.New(accountRepo)
	transfers := transferservice.New(transferRepo, directory)

	console := consoledelivery.New(os.Stdin, os.Stdout, sessions, accounts, userRepo, transfers)
	console.Run(ctx)

	return nil
}
