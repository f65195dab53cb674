// Package config loads the JSON configuration of a session. Fields missing
// from the file take their value from Default.
package config

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/pkg/errors"

	"github.com/mqy/minisync/auth"
)

const (
	TransportWS   = "ws"
	TransportGRPC = "grpc"

	StoreBolt   = "bolt"
	StoreMySQL  = "mysql"
	StoreSQLite = "sqlite"
)

// Duration reads "20s" style strings, or a number of seconds.
type Duration time.Duration

func (d Duration) D() time.Duration { return time.Duration(d) }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*d = Duration(x * float64(time.Second))
	case string:
		p, err := time.ParseDuration(x)
		if err != nil {
			return errors.Wrapf(err, "bad duration %q", x)
		}
		*d = Duration(p)
	default:
		return errors.Errorf("bad duration %s", b)
	}
	return nil
}

type Config struct {
	Transport TransportConfig `json:"transport"`
	Store     StoreConfig     `json:"store"`
	Source    SourceConfig    `json:"source"`
	Liveness  LivenessConfig  `json:"liveness"`
	Metrics   MetricsConfig   `json:"metrics"`
}

// TransportConfig selects the rpc channel.
type TransportConfig struct {
	// "ws" or "grpc".
	Kind string `json:"kind"`
	// Websocket url, for "ws".
	URL string `json:"url"`
	// host:port, for "grpc".
	Addr       string   `json:"addr"`
	PingPeriod Duration `json:"ping_period"`
	WriteWait  Duration `json:"write_wait"`
	// Authorization token. Development servers take UserID instead.
	AuthToken string `json:"auth_token"`
	UserID    int64  `json:"user_id"`
}

type StoreConfig struct {
	// "bolt", "mysql" or "sqlite".
	Kind string `json:"kind"`
	// File path, for "bolt".
	Path string `json:"path"`
	// Data source name, for the sql kinds.
	DSN string `json:"dsn"`
}

// SourceConfig enables the kafka update source when Brokers is not empty.
type SourceConfig struct {
	Brokers       []string `json:"brokers"`
	Topic         string   `json:"topic"`
	GroupID       string   `json:"group_id"`
	ValueMaxBytes int      `json:"value_max_bytes"`
	MaxAge        Duration `json:"max_age"`
}

func (c SourceConfig) Enabled() bool { return len(c.Brokers) > 0 }

type LivenessConfig struct {
	OnlineUpdatePeriod Duration `json:"online_update_period"`
	OfflineIdleTimeout Duration `json:"offline_idle_timeout"`
	IdleCheckPeriod    Duration `json:"idle_check_period"`
}

type MetricsConfig struct {
	// Empty disables the prometheus handler.
	Addr string `json:"addr"`
}

// Default returns a configuration talking to a local development server.
func Default() Config {
	return Config{
		Transport: TransportConfig{
			Kind:       TransportWS,
			URL:        "ws://127.0.0.1:8080/channel",
			Addr:       "127.0.0.1:8081",
			PingPeriod: Duration(20 * time.Second),
			WriteWait:  Duration(3 * time.Second),
		},
		Store: StoreConfig{
			Kind: StoreBolt,
			Path: "minisync.db",
		},
		Source: SourceConfig{
			Topic:         "minisync-updates",
			GroupID:       "minisync",
			ValueMaxBytes: 1 << 20,
		},
		Liveness: LivenessConfig{
			OnlineUpdatePeriod: Duration(120 * time.Second),
			OfflineIdleTimeout: Duration(30 * time.Second),
			IdleCheckPeriod:    Duration(900 * time.Millisecond),
		},
		Metrics: MetricsConfig{
			Addr: ":9108",
		},
	}
}

// Parse reads the file at path and fills the gaps with Default. An empty
// path yields Default.
func Parse(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		bytes, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "reading file")
		}
		if err := json.Unmarshal(bytes, cfg); err != nil {
			return nil, errors.Wrap(err, "unmarshaling into config")
		}
	}
	if err := mergo.Merge(cfg, Default()); err != nil {
		return nil, errors.Wrap(err, "merging defaults")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as indented JSON.
func (c *Config) Save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	if err := os.WriteFile(path, bytes, 0644); err != nil {
		return errors.Wrap(err, "writing file")
	}
	return nil
}

func (c *Config) Validate() error {
	t := c.Transport
	switch t.Kind {
	case TransportWS:
		if !strings.HasPrefix(t.URL, "ws://") && !strings.HasPrefix(t.URL, "wss://") {
			return errors.Errorf("config: transport.url %q is not a websocket url", t.URL)
		}
	case TransportGRPC:
		if t.Addr == "" {
			return errors.New("config: transport.addr is required for grpc")
		}
	default:
		return errors.Errorf("config: unknown transport.kind %q", t.Kind)
	}
	if t.PingPeriod <= 0 || t.WriteWait <= 0 {
		return errors.New("config: transport timings must be positive")
	}
	if t.UserID < 0 {
		return errors.Errorf("config: bad transport.user_id %d", t.UserID)
	}

	s := c.Store
	switch s.Kind {
	case StoreBolt:
		if s.Path == "" {
			return errors.New("config: store.path is required for bolt")
		}
	case StoreMySQL, StoreSQLite:
		if s.DSN == "" {
			return errors.Errorf("config: store.dsn is required for %s", s.Kind)
		}
	default:
		return errors.Errorf("config: unknown store.kind %q", s.Kind)
	}

	if c.Source.Enabled() {
		if c.Source.Topic == "" || c.Source.GroupID == "" {
			return errors.New("config: source needs topic and group_id")
		}
		for _, b := range c.Source.Brokers {
			if b == "" {
				return errors.New("config: empty source broker")
			}
		}
	}

	l := c.Liveness
	if l.OnlineUpdatePeriod <= 0 || l.OfflineIdleTimeout <= 0 || l.IdleCheckPeriod <= 0 {
		return errors.New("config: liveness timings must be positive")
	}
	return nil
}

// Credentials picks the transport credentials: a token when configured,
// otherwise a development user id, otherwise none.
func (t TransportConfig) Credentials(sessionID string) auth.Client {
	switch {
	case t.AuthToken != "":
		return &auth.Token{Token: t.AuthToken, SessionID: sessionID}
	case t.UserID > 0:
		return &auth.MockClient{UserID: t.UserID, SessionID: sessionID}
	}
	return nil
}
