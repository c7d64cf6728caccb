package switchbridge

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// ProtocolVersion identifies the bridge contract exposed via /health.
	ProtocolVersion = "1.0.0"
	// PressSchemaVersion is the supported inbound press version.
	PressSchemaVersion = 1
)

// Switch names one of the scanning inputs a switch device can drive.
type Switch string

const (
	SwitchNext     Switch = "next"
	SwitchPrevious Switch = "previous"
	SwitchSelect   Switch = "select"
	SwitchBack     Switch = "back"
)

// Press is a single switch activation posted by external hardware.
type Press struct {
	Version    int       `json:"version"`
	PressID    string    `json:"press_id,omitempty"`
	Switch     Switch    `json:"switch"`
	Source     string    `json:"source,omitempty"`
	ClientTime time.Time `json:"client_time"`
	ServerTime time.Time `json:"server_time"`
}

// Normalize applies defaults and canonical formatting before validation.
func (p *Press) Normalize() {
	if p.Version == 0 {
		p.Version = PressSchemaVersion
	}
	p.PressID = strings.TrimSpace(p.PressID)
	p.Switch = Switch(strings.ToLower(strings.TrimSpace(string(p.Switch))))
	p.Source = strings.TrimSpace(p.Source)
}

// StampServerTime overwrites ServerTime with now in UTC.
func (p *Press) StampServerTime(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	p.ServerTime = now.UTC()
}

// Validate enforces the press schema.
func (p Press) Validate() error {
	if p.Version != PressSchemaVersion {
		return fmt.Errorf("version %d not supported", p.Version)
	}
	switch p.Switch {
	case SwitchNext, SwitchPrevious, SwitchSelect, SwitchBack:
		return nil
	case "":
		return fmt.Errorf("switch is required")
	default:
		return fmt.Errorf("unknown switch %q", p.Switch)
	}
}

// PressHandler consumes validated presses.
type PressHandler interface {
	HandlePress(Press) error
}

// PressHandlerFunc adapts a function into a PressHandler.
type PressHandlerFunc func(Press) error

// HandlePress executes f(p).
func (f PressHandlerFunc) HandlePress(p Press) error {
	if f == nil {
		return nil
	}
	return f(p)
}

// Logger matches logging.Logger's signature.
type Logger interface {
	Printf(format string, args ...any)
}

// recentPresses remembers the last press IDs so hardware retries are
// delivered once. A limit of zero remembers nothing.
type recentPresses struct {
	mu    sync.Mutex
	ids   map[string]struct{}
	order []string
	limit int
}

func newRecentPresses(limit int) *recentPresses {
	return &recentPresses{ids: map[string]struct{}{}, limit: limit}
}

// seen records id and reports whether it was already recorded. Empty IDs
// are never deduplicated.
func (r *recentPresses) seen(id string) bool {
	if id == "" || r.limit <= 0 {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ids[id]; ok {
		return true
	}
	r.ids[id] = struct{}{}
	r.order = append(r.order, id)
	if len(r.order) > r.limit {
		delete(r.ids, r.order[0])
		r.order = r.order[1:]
	}
	return false
}

type healthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type pressResponse struct {
	Status     string    `json:"status"`
	ServerTime time.Time `json:"server_time"`
}
