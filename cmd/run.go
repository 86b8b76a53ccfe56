package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bilisweep/config"
	"bilisweep/internal/activity"
	"bilisweep/internal/bili"
	"bilisweep/internal/credential"
	"bilisweep/internal/duration"
	"bilisweep/internal/followlist"
	"bilisweep/internal/log"
	"bilisweep/internal/model"
	"bilisweep/internal/output"
	"bilisweep/internal/pace"
	"bilisweep/internal/sweep"
	"bilisweep/internal/whitelist"
)

// NewCmdRun creates the run command.
func NewCmdRun(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sweep the follow list (same as bare 'bilisweep')",
		Long: `Walks the follow list oldest-last, resolves each account's most
recent activity, and unfollows accounts inactive beyond the threshold.
Whitelisted accounts are always kept. Use --dry-run to preview.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd, opts)
		},
	}

	addRunFlags(cmd, opts)
	return cmd
}

// addRunFlags adds the sweep flags to a command.
func addRunFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Config file path (default: user config dir)")
	cmd.Flags().StringVar(&opts.CookiesPath, "cookies", "", "Cookies file path (default: user config dir)")
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json)")
	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "Classify accounts without unfollowing anyone")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")

	cmd.Flags().StringVar(&opts.Inactive, "inactive", "", "Inactivity threshold before removal (e.g. 365, 1y, 6mo)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "Activity detection mode (feed, submission)")
	cmd.Flags().IntVar(&opts.SkipRecent, "skip-recent", 0, "Keep the N most recently followed accounts untouched")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 0, "Follow-list page size (1-50)")
	cmd.Flags().IntVar(&opts.LagMin, "lag-min", 0, "Minimum delay between platform calls, in seconds")
	cmd.Flags().IntVar(&opts.LagMax, "lag-max", 0, "Maximum delay between platform calls, in seconds")
	cmd.Flags().BoolVar(&opts.NoAutoWhitelist, "no-auto-whitelist", false, "Do not auto-protect mutual follows and special-attention accounts")
	cmd.Flags().BoolVar(&opts.RemoveNoActivity, "remove-no-activity", false, "Unfollow accounts with no discoverable activity")
	cmd.Flags().BoolVar(&opts.RemoveDeactivated, "remove-deactivated", false, "Unfollow accounts the platform reports as deactivated")
}

func runSweep(cmd *cobra.Command, opts *Options) error {
	log.Initialize(opts.Verbosity, os.Stderr)

	cfg, err := loadRunConfig(cmd, opts)
	if err != nil {
		return err
	}

	mode, err := activity.ParseMode(cfg.DetectionMode)
	if err != nil {
		return err
	}

	format := output.FormatTable
	switch {
	case opts.Format != "":
		format = output.Format(opts.Format)
	case cfg.DefaultFormat != "":
		format = output.Format(cfg.DefaultFormat)
	}
	if format != output.FormatTable && format != output.FormatJSON {
		return fmt.Errorf("unknown output format %q (table or json)", format)
	}

	cred, err := credential.Load(opts.CookiesPath)
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}

	client := bili.NewClient(cred)
	pacer, err := pace.New(
		time.Duration(cfg.LagMinSeconds)*time.Second,
		time.Duration(cfg.LagMaxSeconds)*time.Second,
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profile, err := client.Me(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify session: %w", err)
	}
	log.Info("authenticated", "uid", profile.Mid, "name", profile.Uname)

	wl, err := whitelist.NewBuilder(client, pacer).Build(ctx, cfg.Whitelist, cfg.AutoWhitelistEnabled())
	if err != nil {
		return fmt.Errorf("failed to build whitelist: %w", err)
	}

	accounts, incomplete, err := followlist.New(client, pacer, cfg.PageSize).FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch follow list: %w", err)
	}

	engine := sweep.New(sweep.Config{
		SkipMostRecent:        cfg.SkipMostRecent,
		InactiveThresholdDays: cfg.InactiveThresholdDays,
		Mode:                  mode,
		RemoveNoActivity:      cfg.RemoveNoActivity,
		RemoveDeactivated:     cfg.RemoveDeactivated,
		DryRun:                opts.DryRun,
	}, activity.New(client), client, pacer)

	var decisions []model.Decision
	engine.OnDecision(func(d model.Decision) {
		decisions = append(decisions, d)
	})

	if opts.DryRun {
		log.Info("dry run: no accounts will be unfollowed")
	}

	report, runErr := engine.Run(ctx, accounts, wl)
	report.FollowListIncomplete = incomplete

	if err := output.NewFormatter(format).Format(decisions, report, os.Stdout); err != nil {
		return err
	}

	return runErr
}

// loadRunConfig loads the config file and layers the per-run flag
// overrides on top. Only flags the user actually set are applied.
func loadRunConfig(cmd *cobra.Command, opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("inactive") {
		days, err := duration.Days(opts.Inactive)
		if err != nil {
			return nil, fmt.Errorf("invalid --inactive: %w", err)
		}
		cfg.InactiveThresholdDays = days
	}
	if flags.Changed("mode") {
		cfg.DetectionMode = opts.Mode
	}
	if flags.Changed("skip-recent") {
		cfg.SkipMostRecent = opts.SkipRecent
	}
	if flags.Changed("page-size") {
		cfg.PageSize = opts.PageSize
	}
	if flags.Changed("lag-min") {
		cfg.LagMinSeconds = opts.LagMin
	}
	if flags.Changed("lag-max") {
		cfg.LagMaxSeconds = opts.LagMax
	}
	if flags.Changed("no-auto-whitelist") {
		enabled := !opts.NoAutoWhitelist
		cfg.AutoWhitelist = &enabled
	}
	if flags.Changed("remove-no-activity") {
		cfg.RemoveNoActivity = opts.RemoveNoActivity
	}
	if flags.Changed("remove-deactivated") {
		cfg.RemoveDeactivated = opts.RemoveDeactivated
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
