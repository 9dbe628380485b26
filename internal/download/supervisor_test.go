package download

import (
	"errors"
	"testing"
	"time"

	"github.com/ytget/download-manager/internal/model"
)

func TestSupervisor_RunsMonitorToCompletion(t *testing.T) {
	exec := newFakeExecutor(always(model.TransferInfo{Status: model.TransferStatusSucceeded}))
	rec := &recorder{}
	s := NewSupervisor(2)
	defer s.Shutdown()

	if err := s.Start(NewMonitor("h-1", "a.zip", exec, rec, testInterval, 0)); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	waitFor(t, "terminal event", func() bool {
		_, _, terminals, _ := rec.counts()
		return terminals == 1
	})
	waitFor(t, "monitor to be forgotten", func() bool { return s.Active() == 0 })
}

func TestSupervisor_RejectsDuplicateHandle(t *testing.T) {
	exec := newFakeExecutor(always(model.TransferInfo{Status: model.TransferStatusRunning}))
	s := NewSupervisor(2)
	defer s.Shutdown()

	if err := s.Start(NewMonitor("h-1", "a.zip", exec, &recorder{}, testInterval, 0)); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Start(NewMonitor("h-1", "a.zip", exec, &recorder{}, testInterval, 0)); err == nil {
		t.Error("Expected error for a handle that is already monitored")
	}
}

func TestSupervisor_CapQueuesMonitors(t *testing.T) {
	release := make(chan struct{})
	exec := newFakeExecutor(func(handle model.TransferHandle, n int) (model.TransferInfo, error) {
		if handle == "h-1" {
			<-release
			return model.TransferInfo{Status: model.TransferStatusSucceeded}, nil
		}
		return model.TransferInfo{Status: model.TransferStatusSucceeded}, nil
	})
	s := NewSupervisor(1)
	defer s.Shutdown()

	s.Start(NewMonitor("h-1", "first.zip", exec, &recorder{}, testInterval, 0))
	waitFor(t, "first monitor to query", func() bool { return exec.queryCount("h-1") == 1 })

	s.Start(NewMonitor("h-2", "second.zip", exec, &recorder{}, testInterval, 0))
	time.Sleep(10 * testInterval)
	if n := exec.queryCount("h-2"); n != 0 {
		t.Errorf("Second monitor should wait for a slot, got %d queries", n)
	}
	if s.Active() != 2 {
		t.Errorf("Expected 2 supervised monitors, got %d", s.Active())
	}

	close(release)
	waitFor(t, "second monitor to query", func() bool { return exec.queryCount("h-2") == 1 })
	waitFor(t, "all monitors to finish", func() bool { return s.Active() == 0 })
}

func TestSupervisor_ShutdownStopsEverything(t *testing.T) {
	exec := newFakeExecutor(always(model.TransferInfo{Status: model.TransferStatusRunning}))
	s := NewSupervisor(1)

	for _, h := range []model.TransferHandle{"h-1", "h-2", "h-3"} {
		if err := s.Start(NewMonitor(h, string(h)+".bin", exec, &recorder{}, testInterval, 0)); err != nil {
			t.Fatalf("Start(%s) failed: %v", h, err)
		}
	}

	done := make(chan struct{})
	go func() {
		s.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not return")
	}

	if s.Active() != 0 {
		t.Errorf("Expected no monitors after shutdown, got %d", s.Active())
	}
	if !s.Closed() {
		t.Error("Supervisor should report closed")
	}
	err := s.Start(NewMonitor("h-4", "late.bin", exec, &recorder{}, testInterval, 0))
	if !errors.Is(err, ErrSupervisorClosed) {
		t.Errorf("Expected ErrSupervisorClosed, got %v", err)
	}
}

func TestNewSupervisor_DefaultCap(t *testing.T) {
	s := NewSupervisor(0)
	defer s.Shutdown()

	if s.sem == nil {
		t.Fatal("Expected semaphore to be initialised")
	}
	if !s.sem.TryAcquire(DefaultMaxActiveMonitors) {
		t.Errorf("Expected capacity %d", DefaultMaxActiveMonitors)
	}
	if s.sem.TryAcquire(1) {
		t.Error("Capacity should not exceed the default")
	}
	s.sem.Release(DefaultMaxActiveMonitors)
}
