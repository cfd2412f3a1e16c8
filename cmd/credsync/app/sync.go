package app

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/webcreds/credsync"
)

// syncOptions are the per-invocation overrides for a sync run.
type syncOptions struct {
	DryRun bool
	Server string
	Bucket string
}

// NewSyncCommand creates the sync command, the tool's core operation.
// The bare root command runs the same operation so a scheduler can
// invoke the binary with no arguments.
func (a *App) NewSyncCommand() *cobra.Command {
	var opts syncOptions

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize both quirk feeds into record storage",
		Long: `Sync fetches the shared-credential realm groups and per-domain
password rules feeds, compares them against their destination
collections, and applies the necessary creates and updates. Changed
collections are flagged with status "to-review".

Requires KINTO_SERVER, KINTO_WRITER_USER and KINTO_WRITER_PASS to be
set in the environment or a .env file.`,
		Example: `  credsync sync
  credsync sync --dry-run
  credsync sync --server https://settings.example.com/v1 --bucket main-workspace`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSync(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "show what would change without writing anything")
	cmd.Flags().StringVar(&opts.Server, "server", "", "record-storage server base URL (overrides KINTO_SERVER)")
	cmd.Flags().StringVar(&opts.Bucket, "bucket", "", "destination bucket (overrides KINTO_BUCKET)")

	return cmd
}

// runSync executes one synchronization run and prints its summary.
func (a *App) runSync(cmd *cobra.Command, opts syncOptions) error {
	config := a.config
	if opts.Server != "" {
		config.Server = opts.Server
	}
	if opts.Bucket != "" {
		config.Bucket = opts.Bucket
	}

	runner, err := credsync.New(config.RunnerConfig(opts.DryRun), credsync.WithLogger(a.logger))
	if err != nil {
		return err
	}

	result, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	return a.printResult(cmd, result)
}

// printResult writes a run summary to stdout; in dry-run mode the
// planned rules changeset is rendered as YAML.
func (a *App) printResult(cmd *cobra.Command, result *credsync.Result) error {
	out := cmd.OutOrStdout()

	if !result.HasChanges() {
		fmt.Fprintln(out, "No changes detected")
		return nil
	}

	fmt.Fprintf(out, "Realm groups: %s\n", result.Realms.Action)
	fmt.Fprintf(out, "Password rules: %d to create, %d to update\n",
		result.Rules.Creates, result.Rules.Updates)

	if result.DryRun && result.Rules.Plan != nil && result.Rules.Plan.HasChanges() {
		encoded, err := yaml.Marshal(result.Rules.Plan)
		if err != nil {
			return fmt.Errorf("rendering plan: %w", err)
		}
		fmt.Fprintf(out, "\nPlanned rules changes:\n%s", encoded)
	}

	if result.DryRun {
		fmt.Fprintln(out, "\nDry run completed - no changes applied")
	}

	return nil
}
