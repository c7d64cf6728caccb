package switchbridge

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kingrea/switchscan/internal/config"
)

// Environment variables read by SettingsFromConfig. They win over the
// project config.
const (
	EnvEnabled      = "SWITCHSCAN_BRIDGE_ENABLED"
	EnvHost         = "SWITCHSCAN_BRIDGE_HOST"
	EnvPort         = "SWITCHSCAN_BRIDGE_PORT"
	EnvDedupeWindow = "SWITCHSCAN_BRIDGE_DEDUPE_WINDOW"
)

// A press body is a handful of short fields; anything larger is not a press.
const maxPressBytes int64 = 4 << 10

// Settings describes how switch hardware reaches the bridge and how presses
// are screened before they are delivered.
type Settings struct {
	Enabled bool
	Host    string
	Port    int

	// MaxPressBytes caps a single POST /press body.
	MaxPressBytes int64
	// DedupeWindow is how many recent press IDs are remembered. Zero turns
	// deduplication off.
	DedupeWindow int
	// PressTimeout bounds reading a request and writing its reply.
	PressTimeout time.Duration
	// KeepAlive bounds idle connections held open by a switch interface.
	KeepAlive time.Duration
}

// DefaultSettings is a disabled loopback bridge on port 8765.
func DefaultSettings() Settings {
	return Settings{
		Host:          "127.0.0.1",
		Port:          8765,
		MaxPressBytes: maxPressBytes,
		DedupeWindow:  256,
		PressTimeout:  5 * time.Second,
		KeepAlive:     time.Minute,
	}
}

// SettingsFromConfig layers the project's switch_bridge block and then the
// SWITCHSCAN_BRIDGE_* variables over DefaultSettings.
func SettingsFromConfig(cfg *config.Config) Settings {
	s := DefaultSettings()
	if cfg != nil {
		s.applyConfig(cfg.Project.SwitchBridge)
	}
	for _, o := range envOverrides {
		if raw := strings.TrimSpace(os.Getenv(o.name)); raw != "" {
			o.apply(&s, raw)
		}
	}
	return s
}

func (s *Settings) applyConfig(raw config.SwitchBridgeConfig) {
	if raw.Enabled != nil {
		s.Enabled = *raw.Enabled
	}
	if host := strings.TrimSpace(raw.Host); host != "" {
		s.Host = host
	}
	if validPort(raw.Port) {
		s.Port = raw.Port
	}
	if raw.DedupeWindow > 0 {
		s.DedupeWindow = raw.DedupeWindow
	}
}

// envOverride applies one environment variable. Unparseable values are
// ignored and leave the setting as configured.
type envOverride struct {
	name  string
	apply func(s *Settings, raw string)
}

var envOverrides = []envOverride{
	{EnvEnabled, func(s *Settings, raw string) {
		if v, err := strconv.ParseBool(raw); err == nil {
			s.Enabled = v
		}
	}},
	{EnvHost, func(s *Settings, raw string) { s.Host = raw }},
	{EnvPort, func(s *Settings, raw string) {
		if v, err := strconv.Atoi(raw); err == nil && validPort(v) {
			s.Port = v
		}
	}},
	{EnvDedupeWindow, func(s *Settings, raw string) {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			s.DedupeWindow = v
		}
	}},
}

// Address returns the TCP bind address in host:port form.
func (s Settings) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// URL returns the HTTP base URL presses are posted under.
func (s Settings) URL() string {
	return "http://" + s.Address()
}

// pressLimit is MaxPressBytes with the default filled in.
func (s Settings) pressLimit() int64 {
	if s.MaxPressBytes <= 0 {
		return maxPressBytes
	}
	return s.MaxPressBytes
}

func validPort(port int) bool {
	return port > 0 && port <= 65535
}
