package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/worktracker/internal/client/attachments"
	"github.com/dmitrijs2005/worktracker/internal/client/config"
	"github.com/dmitrijs2005/worktracker/internal/client/engine"
	"github.com/dmitrijs2005/worktracker/internal/client/notify"
	"github.com/dmitrijs2005/worktracker/internal/client/remote"
	"github.com/dmitrijs2005/worktracker/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "memory"
	ModeLocal    Mode = "local"
)

// pinger is implemented by stores that can report reachability.
type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config *config.Config
	logger logging.Logger
	engine *engine.Engine
	store  remote.Store
	closer io.Closer
	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	mu   sync.Mutex
	mode Mode
}

// NewApp connects to the configured store and builds the engine. Nothing is
// loaded until Run.
func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	a := &App{
		config: c,
		logger: logger.With("module", "cli"),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		now:    time.Now,
	}

	switch {
	case c.Offline && c.LocalDB != "":
		ls, err := remote.OpenLocalStore(context.Background(), c.LocalDB, logger)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", c.LocalDB, err)
		}
		a.store, a.closer = ls, ls
		a.mode = ModeLocal
	case c.Offline:
		a.store = remote.NewMemoryStore()
		a.mode = ModeDisabled
	default:
		gs, err := remote.NewGRPCStore(c.ServerEndpointAddr, c.RequestTimeout)
		if err != nil {
			return nil, err
		}
		a.store, a.closer = gs, gs
	}

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithReporter(a.reportFailure),
		engine.WithNotifier(newNotifier(c, logger)),
	}
	if c.UploadsEnabled() {
		opts = append(opts, engine.WithUploader(attachments.NewS3Uploader(c.Attachments(), logger)))
	}
	a.engine = engine.New(a.store, opts...)
	return a, nil
}

func newNotifier(c *config.Config, logger logging.Logger) engine.Notifier {
	if c.TelegramToken == "" {
		return notify.NewLogNotifier(logger)
	}
	n, err := notify.NewTelegramNotifier(c.TelegramToken, logger)
	if err != nil {
		logger.Warn(context.Background(), "telegram unavailable, notifications will only be logged", "error", err)
		return notify.NewLogNotifier(logger)
	}
	return n
}

// reportFailure prints failures the engine delivers after the fact.
func (a *App) reportFailure(err error) {
	var cerr *engine.CascadeError
	if errors.As(err, &cerr) {
		printlnFn(fmt.Sprintf("! %v (employee deletion kept)", err))
		return
	}
	printlnFn(fmt.Sprintf("! %v (change undone)", err))
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connection mode changed", "mode", mode)
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Run loads the data, starts the REPL and waits for outstanding writes when
// the user leaves.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if a.closer != nil {
			_ = a.closer.Close()
		}
	}()

	if err := a.engine.Load(ctx); err != nil {
		return fmt.Errorf("load: %w", err)
	}

	if p, ok := a.store.(pinger); ok && a.Mode() != ModeDisabled {
		a.setMode(ModeOnline)
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go a.StartOnlineStatusWatcher(watchCtx, p, a.config.RequestTimeout)
	}

	printlnFn("Welcome to worktracker (type 'help' for commands)")
	runREPL(ctx, a.commands(), a.getStatus, a.reader)

	closeCtx, cancel := context.WithTimeout(context.Background(), 2*a.config.RequestTimeout)
	defer cancel()
	if err := a.engine.Close(closeCtx); err != nil {
		a.logger.Warn(ctx, "pending changes were abandoned", "error", err)
	}
	return nil
}

func (a *App) getStatus() string {
	m := a.Mode()
	if m == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", m)
}

// StartOnlineStatusWatcher pings the store every interval and flips Mode
// between online and offline.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, p pinger, interval time.Duration) {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, interval)
			err := p.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
