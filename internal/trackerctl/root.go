// Package trackerctl implements the trackerctl admin tool: backup export and
// import plus compliance reports against a running worktracker server.
package trackerctl

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/worktracker/internal/client/engine"
	"github.com/dmitrijs2005/worktracker/internal/client/remote"
	"github.com/dmitrijs2005/worktracker/internal/logging"
	"github.com/spf13/cobra"
)

// Store is what the commands need from the connection: the document store
// plus a way to release it.
type Store interface {
	remote.Store
	io.Closer
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server   string
	Timeout  time.Duration
	LogLevel string

	// Dial opens the store; tests swap in a memory store.
	Dial func(endpoint string, timeout time.Duration) (Store, error)
	// Now is the clock stamped into reports.
	Now  func() time.Time
}

func dialGRPC(endpoint string, timeout time.Duration) (Store, error) {
	return remote.NewGRPCStore(endpoint, timeout)
}

// NewRootCommand creates the root command for trackerctl.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{Dial: dialGRPC, Now: time.Now})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trackerctl",
		Short: "Administer a worktracker server",
		Long:  "Export, import and report on the data kept by a worktracker document server.",
	}

	server := os.Getenv("WORKTRACKER_SERVER")
	if server == "" {
		server = "127.0.0.1:50051"
	}

	cmd.PersistentFlags().StringVarP(&opts.Server, "server", "a", server, "address and port of the document store")
	cmd.PersistentFlags().DurationVarP(&opts.Timeout, "timeout", "t", 5*time.Second, "per-request timeout")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level")

	cmd.AddCommand(newPingCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newImportCommand(opts))
	cmd.AddCommand(newReportCommand(opts))

	return cmd
}

// session is an engine loaded from the server.
type session struct {
	store  Store
	engine *engine.Engine
	logger logging.Logger
}

func openSession(ctx context.Context, cmd *cobra.Command, opts *RootOptions) (*session, error) {
	store, err := opts.Dial(opts.Server, opts.Timeout)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", opts.Server, err)
	}

	logger := logging.New(cmd.ErrOrStderr(), "text", opts.LogLevel).With("module", "trackerctl")
	e := engine.New(store, engine.WithLogger(logger))
	if err := e.Load(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return &session{store: store, engine: e, logger: logger}, nil
}

// close waits for outstanding confirmations and releases the connection.
func (s *session) close(ctx context.Context) error {
	err := s.engine.Close(ctx)
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	return err
}
