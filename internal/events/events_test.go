package events

import (
	"fmt"
	"testing"
	"time"
)

func TestOutputLine_PrefixesStderr(t *testing.T) {
	if n := OutputLine("r", "m", StreamStdout, "hi"); n.Text != "hi" || n.Kind != KindOutputLine {
		t.Fatalf("stdout line = %+v", n)
	}
	if n := OutputLine("r", "m", StreamStderr, "bad"); n.Text != "[ERR] bad" {
		t.Fatalf("stderr line = %q", n.Text)
	}
}

func TestPayload(t *testing.T) {
	p, ok := RunState("r1", "m", false, 42).Payload().(RunStatePayload)
	if !ok || p.Running || p.RunID != "r1" || p.PID != 42 {
		t.Fatalf("run state payload = %+v", p)
	}
	o, ok := OutputLine("r1", "m", StreamStdout, "x").Payload().(OutputLinePayload)
	if !ok || o.Text != "x" || o.Stream != StreamStdout {
		t.Fatalf("output payload = %+v", o)
	}
}

func TestChannel_DropsOldestWhenFull(t *testing.T) {
	c := NewChannel(3)
	drops := 0
	c.OnDrop(func() { drops++ })
	for i := 0; i < 5; i++ {
		c.Publish(OutputLine("r", "m", StreamStdout, fmt.Sprint(i)))
	}
	if c.Dropped() != 2 || drops != 2 {
		t.Fatalf("dropped = %d hook = %d, want 2", c.Dropped(), drops)
	}
	var got []string
	for i := 0; i < 3; i++ {
		got = append(got, (<-c.C()).Text)
	}
	if fmt.Sprint(got) != "[2 3 4]" {
		t.Fatalf("kept %v, want newest three", got)
	}
}

func TestChannel_CloseIsIdempotent(t *testing.T) {
	c := NewChannel(1)
	c.Close()
	c.Close()
	c.Publish(RunState("r", "m", true, 1))
	if _, ok := <-c.C(); ok {
		t.Fatalf("expected closed channel")
	}
}

func TestChannel_PublishNeverBlocksWithoutConsumer(t *testing.T) {
	c := NewChannel(1)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			c.Publish(OutputLine("r", "m", StreamStdout, "x"))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("publish blocked")
	}
}

func recv(t *testing.T, c *Channel) Notification {
	t.Helper()
	select {
	case n, ok := <-c.C():
		if !ok {
			t.Fatalf("channel closed")
		}
		return n
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for notification")
	}
	return Notification{}
}

func TestBus_FanOutPreservesOrder(t *testing.T) {
	b := NewBus(nil)
	defer b.Close()
	a, cancelA := b.Subscribe(64)
	defer cancelA()
	c, cancelC := b.Subscribe(64)
	defer cancelC()

	for i := 0; i < 10; i++ {
		b.Publish(OutputLine("r", "m", StreamStdout, fmt.Sprint(i)))
	}
	b.Publish(RunState("r", "m", false, 0))

	for _, sub := range []*Channel{a, c} {
		for i := 0; i < 10; i++ {
			if n := recv(t, sub); n.Text != fmt.Sprint(i) {
				t.Fatalf("got %q at %d", n.Text, i)
			}
		}
		if n := recv(t, sub); n.Kind != KindRunState {
			t.Fatalf("expected run state last, got %+v", n)
		}
	}
}

func TestBus_CancelClosesChannel(t *testing.T) {
	b := NewBus(nil)
	defer b.Close()
	ch, cancel := b.Subscribe(4)
	cancel()
	b.Publish(RunState("r", "m", true, 1))
	select {
	case _, ok := <-ch.C():
		if ok {
			t.Fatalf("received after cancel")
		}
	case <-time.After(time.Second):
		t.Fatalf("channel not closed")
	}
}
