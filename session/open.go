package session

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mqy/minisync/auth"
	"github.com/mqy/minisync/config"
	"github.com/mqy/minisync/kv"
	"github.com/mqy/minisync/rpc"
	"github.com/mqy/minisync/source"
	"github.com/mqy/minisync/transport/grpcconn"
	"github.com/mqy/minisync/transport/ws"
	"github.com/mqy/minisync/updates"
)

// Open builds a session from cfg: it opens the storage, dials the transport
// and, when configured, the kafka source.
func Open(ctx context.Context, cfg *config.Config) (*Session, error) {
	db, err := OpenKV(cfg.Store)
	if err != nil {
		return nil, err
	}
	id := auth.NewSessionID()
	conn, err := Dial(ctx, cfg.Transport, id)
	if err != nil {
		db.Close()
		return nil, err
	}

	d := Deps{
		ID:   id,
		Conn: conn,
		KV:   db,
		Liveness: updates.LivenessConfig{
			OnlineUpdatePeriod: cfg.Liveness.OnlineUpdatePeriod.D(),
			OfflineIdleTimeout: cfg.Liveness.OfflineIdleTimeout.D(),
			IdleCheckPeriod:    cfg.Liveness.IdleCheckPeriod.D(),
		},
	}
	if cfg.Source.Enabled() {
		d.SourceConfig = SourceConfig(cfg.Source)
		d.Source = source.NewReader(d.SourceConfig)
	}
	return New(d), nil
}

func OpenKV(c config.StoreConfig) (kv.IStore, error) {
	switch c.Kind {
	case config.StoreBolt:
		return kv.OpenBolt(c.Path)
	case config.StoreMySQL, config.StoreSQLite:
		return kv.OpenSQL(c.Kind, c.DSN)
	}
	return nil, errors.Errorf("session: unknown store kind %q", c.Kind)
}

// Dial connects the configured transport, identifying as sessionID.
func Dial(ctx context.Context, c config.TransportConfig, sessionID string) (rpc.IConn, error) {
	creds := c.Credentials(sessionID)
	switch c.Kind {
	case config.TransportWS:
		conn, err := ws.Dial(ctx, ws.Config{
			URL:        c.URL,
			WriteWait:  c.WriteWait.D(),
			PingPeriod: c.PingPeriod.D(),
		}, creds)
		if err != nil {
			return nil, err
		}
		return conn, nil
	case config.TransportGRPC:
		conn, err := grpcconn.Dial(ctx, c.Addr, creds)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
	return nil, errors.Errorf("session: unknown transport kind %q", c.Kind)
}

func SourceConfig(c config.SourceConfig) source.Config {
	return source.Config{
		Brokers:       c.Brokers,
		Topic:         c.Topic,
		GroupID:       c.GroupID,
		ValueMaxBytes: c.ValueMaxBytes,
		MaxAge:        c.MaxAge.D(),
	}
}
