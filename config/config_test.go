package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqy/minisync/auth"
)

func write(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "minisync.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.False(t, cfg.Source.Enabled())
}

func TestParseMergesDefaults(t *testing.T) {
	cfg, err := Parse(write(t, `{
		"transport": {"kind": "grpc", "addr": "10.0.0.1:443", "ping_period": "5s"},
		"store": {"kind": "sqlite", "dsn": "file::memory:"},
		"source": {"brokers": ["k1:9092"]},
		"liveness": {"offline_idle_timeout": 10}
	}`))
	require.NoError(t, err)

	assert.Equal(t, TransportGRPC, cfg.Transport.Kind)
	assert.Equal(t, "10.0.0.1:443", cfg.Transport.Addr)
	assert.Equal(t, 5*time.Second, cfg.Transport.PingPeriod.D())
	assert.Equal(t, 3*time.Second, cfg.Transport.WriteWait.D())

	assert.Equal(t, StoreSQLite, cfg.Store.Kind)
	assert.Equal(t, "minisync.db", cfg.Store.Path)

	assert.True(t, cfg.Source.Enabled())
	assert.Equal(t, "minisync-updates", cfg.Source.Topic)
	assert.Equal(t, "minisync", cfg.Source.GroupID)

	assert.Equal(t, 10*time.Second, cfg.Liveness.OfflineIdleTimeout.D())
	assert.Equal(t, 120*time.Second, cfg.Liveness.OnlineUpdatePeriod.D())
	assert.Equal(t, 900*time.Millisecond, cfg.Liveness.IdleCheckPeriod.D())
}

func TestParseErrors(t *testing.T) {
	for name, body := range map[string]string{
		"syntax":       `{"transport":`,
		"kind":         `{"transport": {"kind": "tcp"}}`,
		"ws url":       `{"transport": {"url": "http://x"}}`,
		"store":        `{"store": {"kind": "redis"}}`,
		"mysql dsn":    `{"store": {"kind": "mysql"}}`,
		"duration":     `{"liveness": {"online_update_period": "soon"}}`,
		"duration obj": `{"liveness": {"online_update_period": {}}}`,
		"user id":      `{"transport": {"user_id": -3}}`,
	} {
		_, err := Parse(write(t, body))
		assert.Error(t, err, name)
	}

	_, err := Parse(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestValidateSource(t *testing.T) {
	cfg := Default()
	cfg.Source.Brokers = []string{"k1:9092", ""}
	assert.Error(t, cfg.Validate())

	cfg.Source.Brokers = []string{"k1:9092"}
	cfg.Source.GroupID = ""
	assert.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	cfg := Default()
	cfg.Transport.AuthToken = "t0k"
	require.NoError(t, cfg.Save(path))

	got, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, *got)
}

func TestCredentials(t *testing.T) {
	tc := TransportConfig{AuthToken: "t0k", UserID: 5}
	assert.Equal(t, &auth.Token{Token: "t0k", SessionID: "s"}, tc.Credentials("s"))

	tc.AuthToken = ""
	assert.Equal(t, &auth.MockClient{UserID: 5, SessionID: "s"}, tc.Credentials("s"))

	tc.UserID = 0
	assert.Nil(t, tc.Credentials("s"))
}
