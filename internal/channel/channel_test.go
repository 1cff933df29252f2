package channel

import "testing"

func TestBuffered_SendReceive(t *testing.T) {
	c := NewBuffered[int](2)
	c.Send(1)
	c.Send(2)
	if c.Len() != 2 {
		t.Errorf("expected length 2, got %d", c.Len())
	}
	if got := <-c.Receive(); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
}

func TestBuffered_TrySendFull(t *testing.T) {
	c := NewBuffered[int](1)
	if !c.TrySend(1) {
		t.Error("expected TrySend to succeed on empty buffer")
	}
	if c.TrySend(2) {
		t.Error("expected TrySend to fail on full buffer")
	}
	if got := <-c.Receive(); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
}

func TestBuffered_CloseDrains(t *testing.T) {
	c := NewBuffered[string](1)
	c.Send("last")
	c.Close()
	if got := <-c.Receive(); got != "last" {
		t.Errorf("expected last, got %s", got)
	}
	if _, ok := <-c.Receive(); ok {
		t.Error("expected closed channel")
	}
}

func TestUnbuffered_LenAlwaysZero(t *testing.T) {
	c := NewUnbuffered[int]()
	if c.Len() != 0 {
		t.Errorf("expected 0, got %d", c.Len())
	}
}

func TestNew_ReturnsBuffered(t *testing.T) {
	c := New[int](4)
	b, ok := c.(*Buffered[int])
	if !ok {
		t.Fatal("expected buffered channel in production build")
	}
	if !b.TrySend(1) {
		t.Error("expected send to succeed")
	}
}
