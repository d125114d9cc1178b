package lifecycle_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desistd/desist/pkg/lifecycle"
)

func TestStartupHooks(t *testing.T) {
	lc := lifecycle.New(context.Background())

	var ran atomic.Int32
	lc.OnStartup(func() { ran.Add(1) })
	lc.OnStartup(func() { ran.Add(1) })

	if lc.Ready() {
		t.Error("coordinator ready before hooks complete")
	}

	if err := lc.WaitForStartup(time.Second); err != nil {
		t.Fatalf("WaitForStartup error: %v", err)
	}

	if got := ran.Load(); got != 2 {
		t.Errorf("hooks run = %d, want 2", got)
	}
	if !lc.Ready() {
		t.Error("coordinator not ready after startup")
	}
}

func TestWaitForStartupTimeout(t *testing.T) {
	lc := lifecycle.New(context.Background())

	release := make(chan struct{})
	lc.OnStartup(func() { <-release })

	err := lc.WaitForStartup(50 * time.Millisecond)
	if err == nil {
		t.Error("expected timeout error")
	}
	close(release)
}

func TestShutdownHooks(t *testing.T) {
	lc := lifecycle.New(context.Background())

	var ran atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		ran.Store(true)
	})

	if err := lc.WaitForStartup(time.Second); err != nil {
		t.Fatalf("WaitForStartup error: %v", err)
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown error: %v", err)
	}
	if !ran.Load() {
		t.Error("shutdown hook did not run")
	}
	if lc.Ready() {
		t.Error("coordinator still ready after shutdown")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New(context.Background())

	release := make(chan struct{})
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-release
	})

	if err := lc.WaitForStartup(time.Second); err != nil {
		t.Fatalf("WaitForStartup error: %v", err)
	}

	err := lc.Shutdown(50 * time.Millisecond)
	if err == nil {
		t.Error("expected shutdown timeout error")
	}
	close(release)
}

func TestContextCancelledOnShutdown(t *testing.T) {
	lc := lifecycle.New(context.Background())

	if err := lc.WaitForStartup(time.Second); err != nil {
		t.Fatalf("WaitForStartup error: %v", err)
	}
	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown error: %v", err)
	}

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context not cancelled after shutdown")
	}
}
