package model

import (
	"errors"
	"testing"
	"time"
)

func TestClockCountsDown(t *testing.T) {
	ft := &fakeTime{now: time.Unix(100, 0)}
	tc, err := LookupTimeControl("3|2")
	if err != nil {
		t.Fatal(err)
	}
	c := NewClockWithSource(tc, ft.Now)

	ft.Advance(time.Minute)
	c.Update()
	if c.WhiteTimeRemaining() != 180 {
		t.Fatal("a stopped clock should not move")
	}

	c.Start(PlayerColorWhite)
	ft.Advance(10 * time.Second)
	c.Update()
	if got := c.WhiteTimeRemaining(); got != 170 {
		t.Fatalf("expected 170 but got %v", got)
	}

	ft.Advance(5 * time.Second)
	c.SwitchTurn()
	if got := c.WhiteTimeRemaining(); got != 167 {
		t.Fatalf("expected 167 after increment but got %v", got)
	}

	ft.Advance(3 * time.Second)
	c.Update()
	if got := c.BlackTimeRemaining(); got != 177 {
		t.Fatalf("expected 177 but got %v", got)
	}
	if _, expired := c.Expired(); expired {
		t.Fatal("nobody is out of time yet")
	}

	c.Stop()
	ft.Advance(time.Hour)
	c.Update()
	if got := c.BlackTimeRemaining(); got != 177 {
		t.Fatalf("stopped clock moved to %v", got)
	}

	c.Reset()
	if c.WhiteTimeRemaining() != 180 || c.BlackTimeRemaining() != 180 || c.IsRunning() {
		t.Fatal("reset should restore the starting times")
	}
}

func TestClockExpiry(t *testing.T) {
	ft := &fakeTime{now: time.Unix(0, 0)}
	tc, _ := LookupTimeControl("1 min")
	c := NewClockWithSource(tc, ft.Now)
	c.Start(PlayerColorWhite)
	c.SwitchTurn()

	ft.Advance(75 * time.Second)
	c.Update()
	loser, expired := c.Expired()
	if !expired || loser != PlayerColorBlack {
		t.Fatalf("expected black to flag, got %s %v", loser, expired)
	}
	if st := c.State(); st.Black != "0:00" || st.White != "1:00" {
		t.Fatalf("unexpected display %+v", st)
	}
}

func TestLookupTimeControl(t *testing.T) {
	for _, tc := range TimeControls {
		got, err := LookupTimeControl(tc.Name)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc {
			t.Fatalf("expected %+v but got %+v", tc, got)
		}
	}
	if _, err := LookupTimeControl("2 min"); !errors.Is(err, ErrUnknownTimeControl) {
		t.Fatalf("expected ErrUnknownTimeControl, got %v", err)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{59.9, "0:59"},
		{65, "1:05"},
		{600, "10:00"},
		{-3, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.seconds); got != tt.want {
			t.Fatalf("FormatClock(%v): expected %s but got %s", tt.seconds, tt.want, got)
		}
	}
}
