package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/tomz197/railshooter/internal/app"
	"github.com/tomz197/railshooter/internal/config"
	"github.com/tomz197/railshooter/internal/draw"
	"github.com/tomz197/railshooter/internal/loop"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", config.GetEnv(config.EnvPrefix+"_CONFIG", ""), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := app.NewLogger(os.Stderr, cfg)

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("ssh config",
		"host", cfg.Server.Host, "port", cfg.Server.Port,
		"hostKeyPath", cfg.Server.HostKeyPath, "workingDir", workingDir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("setup failed", "err", err)
	}
	defer a.Close()

	games := &sessions{}
	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)),
		wish.WithMiddleware(
			gameMiddleware(a, games),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger.With("component", "ssh")),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if cfg.Server.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.Server.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Error("failed to create server", "err", err)
		a.Close()
		os.Exit(1)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port))
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.ListenAndServe()
	}()

	exitCode := 0
	if err := waitForShutdown(done, serveErr); err != nil {
		logger.Error("server error", "err", err)
		exitCode = 1
	}
	logger.Info("shutting down server")

	// Ending the games saves every player's parts before the store closes.
	games.stopAll()
	if !games.wait(shutdownTimeout) {
		logger.Warn("sessions still running after timeout")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
	if exitCode != 0 {
		shutdownCancel()
		a.Close()
		os.Exit(exitCode)
	}
}

// waitForShutdown blocks until a signal arrives or the listener stops. It
// returns the listener's error unless the server was closed on purpose.
func waitForShutdown(done <-chan os.Signal, serveErr <-chan error) error {
	select {
	case <-done:
		return nil
	case err := <-serveErr:
		if err == nil || errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// gameMiddleware runs one single-player game per SSH session.
func gameMiddleware(a *app.App, games *sessions) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			logger := a.Logger.With("user", sess.User())
			logger.Info("new game session", "terminal", pty.Term,
				"width", pty.Window.Width, "height", pty.Window.Height)

			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			ctx, cancel := context.WithCancel(sess.Context())
			release := games.add(cancel)
			defer release()

			reader := bufio.NewReader(sess)
			if err := loop.Run(ctx, reader, sess, a.GameOptions(sess.User(), sizeTracker.getSize)); err != nil {
				logger.Error("game error", "err", err)
			}

			logger.Info("session ended")
			next(sess)
		}
	}
}

// sessions tracks running games so shutdown can end them.
type sessions struct {
	mu      sync.Mutex
	wg      sync.WaitGroup
	cancels map[int]context.CancelFunc
	next    int
}

func (s *sessions) add(cancel context.CancelFunc) (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancels == nil {
		s.cancels = make(map[int]context.CancelFunc)
	}
	id := s.next
	s.next++
	s.cancels[id] = cancel
	s.wg.Add(1)
	return func() {
		s.mu.Lock()
		delete(s.cancels, id)
		s.mu.Unlock()
		cancel()
		s.wg.Done()
	}
}

func (s *sessions) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cancel := range s.cancels {
		cancel()
	}
}

// wait reports whether every game ended within timeout.
func (s *sessions) wait(timeout time.Duration) bool {
	ch := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(ch)
	}()
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
