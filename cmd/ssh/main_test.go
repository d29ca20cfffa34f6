package main

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/charmbracelet/ssh"
)

func TestWaitForShutdown(t *testing.T) {
	listenErr := errors.New("address in use")
	tests := []struct {
		name    string
		signal  bool
		serve   error
		wantErr error
	}{
		{name: "signal", signal: true},
		{name: "listener failed", serve: listenErr, wantErr: listenErr},
		{name: "server closed", serve: ssh.ErrServerClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan os.Signal, 1)
			serveErr := make(chan error, 1)
			if tt.signal {
				done <- syscall.SIGTERM
			} else {
				serveErr <- tt.serve
			}
			if err := waitForShutdown(done, serveErr); !errors.Is(err, tt.wantErr) {
				t.Fatalf("waitForShutdown = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSessionsStopAll(t *testing.T) {
	var games sessions
	ctx, cancel := context.WithCancel(context.Background())
	release := games.add(cancel)

	go func() {
		<-ctx.Done()
		release()
	}()

	games.stopAll()
	if !games.wait(time.Second) {
		t.Fatal("game did not end after stopAll")
	}
	if len(games.cancels) != 0 {
		t.Fatalf("%d games still tracked", len(games.cancels))
	}
}
