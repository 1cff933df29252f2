package dispatcher

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, keysAndValues ...any) {}
func (nopLogger) Info(msg string, keysAndValues ...any)  {}
func (nopLogger) Error(msg string, keysAndValues ...any) {}

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	d, err := New(nopLogger{})
	if err != nil {
		t.Fatalf("creating dispatcher: %v", err)
	}
	return d
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d := newTestDispatcher(t)
	_, err := d.Dispatch(Event{Command: "nope"})
	if err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestDispatcher_SyncHandler(t *testing.T) {
	d := newTestDispatcher(t)
	d.Register(CmdFocusEntity, func(e Event) (any, error) {
		id, ok := e.Payload.(uint64)
		if !ok {
			return nil, errors.New("bad payload")
		}
		return id * 2, nil
	})

	result, err := d.Dispatch(Event{Command: CmdFocusEntity, Payload: uint64(21)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.(uint64) != 42 {
		t.Errorf("expected 42, got %v", result)
	}
}

func TestDispatcher_HasHandler(t *testing.T) {
	d := newTestDispatcher(t)
	if d.HasHandler(CmdSeedWorld) {
		t.Error("expected no handler before registration")
	}
	d.Register(CmdSeedWorld, func(Event) (any, error) { return nil, nil })
	if !d.HasHandler(CmdSeedWorld) {
		t.Error("expected handler after registration")
	}
}

func TestDispatcher_BufferedHandlerRuns(t *testing.T) {
	d := newTestDispatcher(t)

	var wg sync.WaitGroup
	wg.Add(1)
	d.Register(CmdUpsertEntities, func(e Event) (any, error) {
		wg.Done()
		return nil, nil
	}, Buffered(4))

	result, err := d.Dispatch(Event{Command: CmdUpsertEntities, Timestamp: time.Now()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "queued" {
		t.Errorf("expected queued, got %v", result)
	}
	wg.Wait()
}

func TestDispatcher_BufferedDropsWhenFull(t *testing.T) {
	d := newTestDispatcher(t)

	block := make(chan struct{})
	d.Register(CmdRemoveEntity, func(e Event) (any, error) {
		<-block
		return nil, nil
	}, Buffered(1))

	// First event occupies the worker, second fills the buffer, third drops.
	d.Dispatch(Event{Command: CmdRemoveEntity})
	// Give the worker goroutine time to pull the first event.
	time.Sleep(20 * time.Millisecond)
	d.Dispatch(Event{Command: CmdRemoveEntity})

	_, err := d.Dispatch(Event{Command: CmdRemoveEntity})
	if err == nil {
		t.Error("expected queue full error")
	}
	close(block)
}

func TestDispatcher_LoggedWrapsResult(t *testing.T) {
	d := newTestDispatcher(t)
	d.Register(CmdSetLayer, func(e Event) (any, error) {
		return "ok", nil
	}, Logged())

	result, err := d.Dispatch(Event{Command: CmdSetLayer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("expected ok, got %v", result)
	}
}
