package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bilisweep/internal/bili"
	"bilisweep/internal/credential"
	"bilisweep/internal/log"
)

// NewCmdWhoami creates the whoami command.
func NewCmdWhoami(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Verify the stored session and show the logged-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWhoami(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.CookiesPath, "cookies", "", "Cookies file path (default: user config dir)")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	return cmd
}

func runWhoami(cmd *cobra.Command, opts *Options) error {
	log.Initialize(opts.Verbosity, os.Stderr)

	cred, err := credential.Load(opts.CookiesPath)
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}

	profile, err := bili.NewClient(cred).Me(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to query the platform: %w", err)
	}

	fmt.Printf("%s (uid %d)\n", profile.Uname, profile.Mid)
	return nil
}
