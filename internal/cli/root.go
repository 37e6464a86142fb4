// Package cli implements the tracker command line client. It drives any
// tracker.Store, local or remote, chosen by configuration.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"weekly-tracker/internal/dates"
	"weekly-tracker/internal/domain/tracker"
	"weekly-tracker/pkg/logger"
)

// Options overrides the configured store and clock. Zero values use the
// configuration file and the system date.
type Options struct {
	Store tracker.Store
	Today func() dates.Date
}

type session struct {
	opts       Options
	configPath string
	store      tracker.Store
	close      func() error
}

func (rt *session) today() dates.Date {
	if rt.opts.Today != nil {
		return rt.opts.Today()
	}
	return dates.Today()
}

// Execute runs the command line in os.Args and releases the store even when
// the command fails.
func Execute(ctx context.Context, opts Options) error {
	cmd, rt := newRoot(opts)
	err := cmd.ExecuteContext(ctx)
	return errors.Join(err, rt.shutdown())
}

func NewRootCommand(opts Options) *cobra.Command {
	cmd, _ := newRoot(opts)
	return cmd
}

func newRoot(opts Options) (*cobra.Command, *session) {
	rt := &session{opts: opts}

	cmd := &cobra.Command{
		Use:           "tracker",
		Short:         "Weekly habit tracker",
		Long:          "Track weekly items and their daily checks against a local document store or the tracker API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return rt.shutdown()
		},
	}

	cmd.PersistentFlags().StringVarP(&rt.configPath, "config", "c", "", "Config file path (YAML, default "+DefaultConfigPath()+")")

	cmd.AddCommand(
		newWeeksCommand(rt),
		newOpenCommand(rt),
		newShowCommand(rt),
		newWeekCommand(rt),
		newItemCommand(rt),
		newCheckCommand(rt),
	)
	return cmd, rt
}

func (rt *session) open(cmd *cobra.Command) error {
	if rt.opts.Store != nil {
		rt.store = rt.opts.Store
		rt.close = func() error { return nil }
		return nil
	}

	settings, err := LoadSettings(rt.configPath)
	if err != nil {
		return err
	}

	log := logger.NewWithOptions(cmd.ErrOrStderr(), logger.Options{
		Level:  settings.Log.Level,
		Format: settings.Log.Format,
	}).With("component", "cli")

	store, closeStore, err := OpenStore(cmd.Context(), settings.Store, log)
	if err != nil {
		return err
	}
	rt.store = store
	rt.close = closeStore
	return nil
}

func (rt *session) shutdown() error {
	if rt.close == nil {
		return nil
	}
	closeStore := rt.close
	rt.close = nil
	return closeStore()
}
