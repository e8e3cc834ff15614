// Package shell runs a broker engine under a managed lifecycle: it loads
// the engine's settings from a config file, resolves listen restrictions to
// concrete interface addresses, and restarts the engine when the scope or
// the network changes.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"sync"

	"go.uber.org/zap"

	"github.com/patchbay-lx/patchbay"
	"github.com/patchbay-lx/patchbay/internal/netint"
)

// Broker is the engine the shell drives. Implementations run the protocol
// machinery; the shell owns configuration, restarts, and shutdown.
type Broker interface {
	// Startup brings the engine up with a validated settings record and the
	// addresses to bind. A nil addrs slice means listen on all interfaces;
	// an empty one means the configured restrictions matched nothing.
	Startup(ctx context.Context, settings *patchbay.Settings, addrs []netip.Addr) error

	// Shutdown stops the engine. It is called for restarts as well as the
	// final stop, and always receives a fresh context so that run
	// cancellation cannot abort cleanup.
	Shutdown(ctx context.Context) error
}

// Overrides are command-line adjustments applied on top of every loaded
// record. They survive reloads: each restart re-reads the config file and
// re-applies these.
type Overrides struct {
	Scope string             // Non-empty replaces the scope
	Port  uint16             // Non-zero replaces the listen port
	MACs  []patchbay.MACAddr // Non-empty replaces the listen MAC set
	Addrs []netip.Addr       // Non-empty replaces the listen address set
}

// apply rewrites a freshly loaded record in place.
func (o Overrides) apply(s *patchbay.Settings) {
	if o.Scope != "" {
		s.Scope = o.Scope
	}
	if o.Port != 0 {
		s.ListenPort = o.Port
	}
	if len(o.MACs) > 0 {
		s.ListenMACs = make(map[patchbay.MACAddr]struct{}, len(o.MACs))
		for _, mac := range o.MACs {
			s.ListenMACs[mac] = struct{}{}
		}
	}
	if len(o.Addrs) > 0 {
		s.ListenAddrs = make(map[netip.Addr]struct{}, len(o.Addrs))
		for _, addr := range o.Addrs {
			s.ListenAddrs[addr] = struct{}{}
		}
	}
}

// Shell ties a Broker to its configuration file. Run owns the lifecycle;
// ScopeChanged, NetworkChanged, and AsyncShutdown may be called from any
// goroutine, typically from the engine's own callbacks.
type Shell struct {
	loader     *patchbay.Loader
	broker     Broker
	configPath string
	overrides  Overrides
	log        *zap.Logger

	restartCh    chan struct{}
	shutdownCh   chan struct{}
	shutdownOnce sync.Once

	mu       sync.Mutex
	newScope string
	current  *patchbay.Settings
}

// New creates a shell around the given engine. A nil loader gets a fresh
// one (with a generated default CID); a nil logger is replaced with a no-op
// logger.
func New(loader *patchbay.Loader, broker Broker, configPath string, overrides Overrides, log *zap.Logger) *Shell {
	if loader == nil {
		loader = patchbay.NewLoader()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Shell{
		loader:     loader,
		broker:     broker,
		configPath: configPath,
		overrides:  overrides,
		log:        log,
		restartCh:  make(chan struct{}, 1),
		shutdownCh: make(chan struct{}),
	}
}

// Run drives the engine until ctx is canceled or AsyncShutdown is called:
// load settings, start the engine, wait, and on a restart request stop the
// engine and start it again with freshly loaded settings.
//
// A missing config file is a normal first boot and loads as all defaults. An
// invalid config aborts the initial start; on later reloads it keeps the
// previous settings instead, so an operator typo cannot take a running
// broker down. Run returns nil after a clean stop and may be called once.
func (sh *Shell) Run(ctx context.Context) error {
	for {
		settings, err := sh.loadSettings()
		if err != nil {
			previous := sh.Current()
			if previous == nil {
				return err
			}
			sh.log.Error("config reload failed, keeping previous settings", zap.Error(err))
			settings = previous
		}
		sh.setCurrent(settings)

		addrs := sh.resolveListenAddrs(settings)

		if err := sh.broker.Startup(ctx, settings, addrs); err != nil {
			return fmt.Errorf("shell: broker startup: %w", err)
		}
		sh.log.Info("broker started",
			zap.String("scope", settings.Scope),
			zap.Uint16("port", settings.ListenPort),
			zap.Stringer("cid", settings.CID),
		)

		restart := sh.wait(ctx)

		if err := sh.broker.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("shell: broker shutdown: %w", err)
		}
		if !restart {
			sh.log.Info("broker stopped")
			return nil
		}
		sh.log.Info("restarting broker")
	}
}

// ScopeChanged requests a restart under a new discovery scope, typically
// because a controller reconfigured the broker. The scope survives
// subsequent config reloads. Unusable scopes are ignored.
func (sh *Shell) ScopeChanged(scope string) {
	if scope == "" || len(scope) > patchbay.MaxScopeLen {
		sh.log.Error("ignoring unusable scope change", zap.Int("length", len(scope)))
		return
	}

	sh.mu.Lock()
	sh.newScope = scope
	sh.mu.Unlock()

	sh.requestRestart()
}

// NetworkChanged requests a restart so listen restrictions are re-resolved
// against the current interfaces.
func (sh *Shell) NetworkChanged() {
	sh.requestRestart()
}

// AsyncShutdown requests a final stop. Safe to call more than once.
func (sh *Shell) AsyncShutdown() {
	sh.shutdownOnce.Do(func() { close(sh.shutdownCh) })
}

// Current returns the settings record the engine last started with, nil
// before the first start.
func (sh *Shell) Current() *patchbay.Settings {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.current
}

func (sh *Shell) setCurrent(s *patchbay.Settings) {
	sh.mu.Lock()
	sh.current = s
	sh.mu.Unlock()
}

// requestRestart coalesces: while one restart is pending, further requests
// are folded into it.
func (sh *Shell) requestRestart() {
	select {
	case sh.restartCh <- struct{}{}:
	default:
	}
}

// wait blocks until something ends the current engine run. The return value
// reports whether to restart (true) or stop for good (false).
func (sh *Shell) wait(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-sh.shutdownCh:
		return false
	case <-sh.restartCh:
		return true
	}
}

// loadSettings reads the config file and layers the command-line overrides
// and any controller-assigned scope on top.
func (sh *Shell) loadSettings() (*patchbay.Settings, error) {
	settings, err := sh.loader.LoadFile(sh.configPath)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		sh.log.Warn("config file missing, using defaults", zap.String("path", sh.configPath))
		settings = sh.loader.Defaults()
	default:
		return nil, err
	}

	sh.overrides.apply(settings)

	// A controller-assigned scope wins over both the file and the
	// command line.
	sh.mu.Lock()
	newScope := sh.newScope
	sh.mu.Unlock()
	if newScope != "" {
		settings.Scope = newScope
	}

	return settings, nil
}

// resolveListenAddrs turns the record's listen restrictions into concrete
// addresses, logging anything that did not resolve.
func (sh *Shell) resolveListenAddrs(settings *patchbay.Settings) []netip.Addr {
	if len(settings.ListenMACs) == 0 && len(settings.ListenAddrs) == 0 {
		return nil
	}

	ifaces, err := netint.Interfaces()
	if err != nil {
		sh.log.Error("interface enumeration failed, listening on all interfaces", zap.Error(err))
		return nil
	}

	addrs, missing := netint.ListenAddrs(ifaces, settings)
	for _, mac := range missing {
		sh.log.Warn("configured MAC matches no interface", zap.Stringer("mac", mac))
	}
	if len(addrs) == 0 {
		sh.log.Error("listen restrictions matched no interface address")
	}
	return addrs
}
