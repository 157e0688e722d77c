package engine

import (
	"testing"
	"time"
)

func TestClockStepFiresHandlerInOrder(t *testing.T) {
	c := NewClock()

	var fired []int
	c.OnMonth = func(month int) { fired = append(fired, month) }

	for i := 0; i < 3; i++ {
		c.Step()
	}

	if c.Month() != 3 {
		t.Fatalf("month = %d after 3 steps", c.Month())
	}
	if len(fired) != 3 || fired[0] != 1 || fired[2] != 3 {
		t.Fatalf("handler fired with %v, want [1 2 3]", fired)
	}
}

// Stop is called from the main goroutine while Run loops in its own; the
// loop must observe the stop and return.
func TestStopFromAnotherGoroutine(t *testing.T) {
	c := NewClock()
	c.Interval = time.Millisecond

	ticked := make(chan struct{}, 1)
	c.OnMonth = func(int) {
		select {
		case ticked <- struct{}{}:
		default:
		}
	}

	done := make(chan struct{})
	go func() {
		c.Run()
		close(done)
	}()

	<-ticked
	c.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("clock did not stop")
	}
	if c.Month() == 0 {
		t.Fatal("clock stopped without advancing a month")
	}
}

func TestSimDate(t *testing.T) {
	cases := []struct {
		month     int
		startYear int
		want      string
	}{
		{1, 1444, "January 1444"},
		{12, 1444, "December 1444"},
		{13, 1444, "January 1445"},
		{25, 1444, "January 1446"},
	}
	for _, c := range cases {
		if got := SimDate(c.month, c.startYear); got != c.want {
			t.Fatalf("SimDate(%d, %d) = %q, want %q", c.month, c.startYear, got, c.want)
		}
	}
}
