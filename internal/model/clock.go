package model

import (
	"fmt"
	"sync"
	"time"
)

type TimeControl struct {
	Name      string        `json:"name"`
	White     time.Duration `json:"white"`
	Black     time.Duration `json:"black"`
	Increment time.Duration `json:"increment"`
}

// TimeControls are the presets offered before a game starts.
var TimeControls = []TimeControl{
	{Name: "1 min", White: 60 * time.Second, Black: 60 * time.Second},
	{Name: "3|2", White: 180 * time.Second, Black: 180 * time.Second, Increment: 2 * time.Second},
	{Name: "5 min", White: 300 * time.Second, Black: 300 * time.Second},
	{Name: "10 min", White: 600 * time.Second, Black: 600 * time.Second},
	{Name: "15|10", White: 900 * time.Second, Black: 900 * time.Second, Increment: 10 * time.Second},
}

func LookupTimeControl(name string) (TimeControl, error) {
	for _, tc := range TimeControls {
		if tc.Name == name {
			return tc, nil
		}
	}
	return TimeControl{}, fmt.Errorf("%w: %q", ErrUnknownTimeControl, name)
}

// Clock counts down wall time for both sides. It only moves when Update is
// called, once per frame by the host.
type Clock struct {
	mu         sync.Mutex
	control    TimeControl
	white      time.Duration
	black      time.Duration
	current    PlayerColor
	lastUpdate time.Time
	isRunning  bool
	now        func() time.Time
}

type ClockState struct {
	Control      string      `json:"control"`
	White        string      `json:"white"`
	Black        string      `json:"black"`
	WhiteSeconds float64     `json:"whiteSeconds"`
	BlackSeconds float64     `json:"blackSeconds"`
	Current      PlayerColor `json:"current"`
	Running      bool        `json:"running"`
}

func NewClock(tc TimeControl) *Clock {
	return NewClockWithSource(tc, time.Now)
}

// NewClockWithSource lets tests drive the clock with a fake time source.
func NewClockWithSource(tc TimeControl, now func() time.Time) *Clock {
	return &Clock{
		control: tc,
		white:   tc.White,
		black:   tc.Black,
		current: PlayerColorWhite,
		now:     now,
	}
}

// Reset puts both sides back to the control's starting time and stops.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.white = c.control.White
	c.black = c.control.Black
	c.current = PlayerColorWhite
	c.isRunning = false
}

func (c *Clock) Control() TimeControl {
	return c.control
}

func (c *Clock) Start(color PlayerColor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = color
	c.lastUpdate = c.now()
	c.isRunning = true
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.isRunning = false
}

// SwitchTurn charges the mover for time spent since the last update, adds
// the increment to the mover and starts the opponent's clock.
func (c *Clock) SwitchTurn() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.chargeElapsed()
	}
	if c.current == PlayerColorWhite {
		c.white += c.control.Increment
	} else {
		c.black += c.control.Increment
	}
	c.current = c.current.Opponent()
	c.lastUpdate = c.now()
	c.isRunning = true
}

// Update subtracts the wall time elapsed since the previous Start, SwitchTurn
// or Update from the side whose clock is running.
func (c *Clock) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		return
	}
	c.chargeElapsed()
}

func (c *Clock) chargeElapsed() {
	now := c.now()
	elapsed := now.Sub(c.lastUpdate)
	c.lastUpdate = now
	if c.current == PlayerColorWhite {
		c.white -= elapsed
	} else {
		c.black -= elapsed
	}
}

// Remaining may be negative until the host notices and flags the side.
func (c *Clock) Remaining(color PlayerColor) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if color == PlayerColorWhite {
		return c.white
	}
	return c.black
}

func (c *Clock) WhiteTimeRemaining() float64 {
	return c.Remaining(PlayerColorWhite).Seconds()
}

func (c *Clock) BlackTimeRemaining() float64 {
	return c.Remaining(PlayerColorBlack).Seconds()
}

func (c *Clock) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.isRunning
}

// Expired returns the side whose time has run out, if any.
func (c *Clock) Expired() (PlayerColor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.white <= 0 {
		return PlayerColorWhite, true
	}
	if c.black <= 0 {
		return PlayerColorBlack, true
	}
	return "", false
}

func (c *Clock) State() ClockState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ClockState{
		Control:      c.control.Name,
		White:        FormatClock(c.white.Seconds()),
		Black:        FormatClock(c.black.Seconds()),
		WhiteSeconds: c.white.Seconds(),
		BlackSeconds: c.black.Seconds(),
		Current:      c.current,
		Running:      c.isRunning,
	}
}

// FormatClock renders seconds as M:SS, clamping negative values to 0:00.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		return "0:00"
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
