package clock

import "testing"

func TestNewClock(t *testing.T) {
	c := New("a", 5)
	if c.ID() != "a" || c.Time() != 5 {
		t.Fatalf("New(a,5) = (%s,%d), want (a,5)", c.ID(), c.Time())
	}
}

func TestAdvanceMonotonicallyIncreases(t *testing.T) {
	c := New("a", 0)
	prev := c.Time()
	for i := 0; i < 100; i++ {
		c = c.Advance(c.Time())
		if c.Time() <= prev {
			t.Fatalf("Advance %d: got %d, want > %d", i, c.Time(), prev)
		}
		prev = c.Time()
	}
}

func TestAdvanceIR1(t *testing.T) {
	c := New("a", 0)
	c = c.Advance(c.Time())
	if c.Time() != 1 {
		t.Fatalf("first Advance: got %d, want 1", c.Time())
	}
}

func TestAdvanceIR2MaxPlusOne(t *testing.T) {
	c := New("a", 5)

	// Observe a higher timestamp: max(5, 10)+1 = 11
	c = c.Advance(10)
	if c.Time() != 11 {
		t.Fatalf("Advance(10) from 5: got %d, want 11", c.Time())
	}

	// Observe a lower timestamp: max(11, 3)+1 = 12
	c = c.Advance(3)
	if c.Time() != 12 {
		t.Fatalf("Advance(3) from 11: got %d, want 12", c.Time())
	}
}

func TestAdvanceEqualTimestamp(t *testing.T) {
	c := New("a", 10)
	c = c.Advance(10)
	if c.Time() != 11 {
		t.Fatalf("Advance(10) from 10: got %d, want 11", c.Time())
	}
}

func TestAdvancePreservesID(t *testing.T) {
	c := New("agent-x", 100)
	c = c.Advance(50)
	if c.ID() != "agent-x" {
		t.Fatalf("Advance changed id: got %q", c.ID())
	}
}

func TestWithID(t *testing.T) {
	c := New("a", 7).WithID("b")
	if c.ID() != "b" || c.Time() != 7 {
		t.Fatalf("WithID(b) = (%s,%d), want (b,7)", c.ID(), c.Time())
	}
}

func TestLess_DifferentTimestamps(t *testing.T) {
	if !Less(New("b", 1), New("a", 2)) {
		t.Fatal("expected (1,b) < (2,a)")
	}
	if Less(New("a", 2), New("b", 1)) {
		t.Fatal("expected (2,a) NOT < (1,b)")
	}
}

func TestLess_SameTimestamp_TieBreakByID(t *testing.T) {
	if !Less(New("alice", 5), New("bob", 5)) {
		t.Fatal("expected (5,alice) < (5,bob)")
	}
	if Less(New("bob", 5), New("alice", 5)) {
		t.Fatal("expected (5,bob) NOT < (5,alice)")
	}
}

func TestLess_Equal(t *testing.T) {
	if Less(New("alice", 5), New("alice", 5)) {
		t.Fatal("expected (5,alice) NOT < (5,alice) - strict less")
	}
}

func TestLess_Transitivity(t *testing.T) {
	a := Less(New("x", 1), New("x", 2))
	b := Less(New("x", 2), New("x", 3))
	c := Less(New("x", 1), New("x", 3))
	if !a || !b || !c {
		t.Fatal("transitivity violated")
	}
}

func TestMax(t *testing.T) {
	a := New("a", 3)
	b := New("b", 5)
	if got := Max(a, b); !got.Equal(b) {
		t.Fatalf("Max(a,b) = %v, want b", got)
	}
	if got := Max(b, a); !got.Equal(b) {
		t.Fatalf("Max(b,a) = %v, want b", got)
	}
}

func TestEqual(t *testing.T) {
	if !New("a", 1).Equal(New("a", 1)) {
		t.Fatal("expected equal clocks to be Equal")
	}
	if New("a", 1).Equal(New("a", 2)) {
		t.Fatal("expected different times to not be Equal")
	}
	if New("a", 1).Equal(New("b", 1)) {
		t.Fatal("expected different ids to not be Equal")
	}
}
