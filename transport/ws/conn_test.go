package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqy/minisync/auth"
	"github.com/mqy/minisync/loop"
	"github.com/mqy/minisync/rpc"
	"github.com/mqy/minisync/tl"
)

// okServer answers every request frame with "ok" carrying the same @extra
// and records the x-uid header of the dial.
func okServer(t *testing.T, uids chan<- string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uids <- r.Header.Get(auth.HeaderUserID)
		conn, err := Accept(w, r, Config{})
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer conn.Close()
		ctx := context.Background()
		for {
			frame, err := conn.Read(ctx)
			if err != nil {
				return
			}
			var req struct {
				Extra json.RawMessage `json:"@extra"`
			}
			if err := json.Unmarshal(frame, &req); err != nil {
				t.Errorf("bad frame %s", frame)
				return
			}
			resp := `{"@type":"ok","@extra":` + string(req.Extra) + `}`
			if err := conn.Write(ctx, []byte(resp)); err != nil {
				return
			}
		}
	}))
}

func wsURL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func TestClientOverWebsocket(t *testing.T) {
	uids := make(chan string, 1)
	srv := okServer(t, uids)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := Dial(ctx, Config{URL: wsURL(srv)}, &auth.MockClient{UserID: 42})
	require.NoError(t, err)
	assert.Equal(t, "42", <-uids)

	l := loop.New()
	go l.Run(ctx)
	client := rpc.NewClient(conn, l, func(tl.Update) {})
	runErr := make(chan error, 1)
	go func() { runErr <- client.Run(ctx) }()

	got := make(chan tl.Object, 1)
	require.NoError(t, loop.Call(ctx, l, func() {
		client.Send(&tl.GetPasswordState{}, func(o tl.Object) { got <- o }, func(e *tl.Error) {
			t.Errorf("unexpected failure: %v", e)
		})
	}))
	select {
	case o := <-got:
		assert.Equal(t, "ok", o.TypeName())
	case <-ctx.Done():
		t.Fatal("no response")
	}

	cancel()
	<-runErr
}

func TestReadHonorsContext(t *testing.T) {
	uids := make(chan string, 1)
	srv := okServer(t, uids)
	defer srv.Close()

	conn, err := Dial(context.Background(), Config{URL: wsURL(srv)}, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Empty(t, <-uids)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = conn.Read(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCloseTwice(t *testing.T) {
	uids := make(chan string, 1)
	srv := okServer(t, uids)
	defer srv.Close()

	conn, err := Dial(context.Background(), Config{URL: wsURL(srv)}, nil)
	require.NoError(t, err)
	assert.NoError(t, conn.Close())
	assert.NoError(t, conn.Close())
	assert.Error(t, conn.Write(context.Background(), []byte("{}")))
}

func TestDialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	_, err := Dial(context.Background(), Config{URL: wsURL(srv)}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = Dial(context.Background(), Config{URL: wsURL(srv)}, &auth.Token{})
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	c := Config{PingPeriod: time.Second}.withDefaults()
	assert.Equal(t, defaultWriteWait, c.WriteWait)
	assert.Greater(t, c.PongWait, c.PingPeriod)
	assert.Equal(t, int64(defaultReadLimit), c.ReadLimit)
}
