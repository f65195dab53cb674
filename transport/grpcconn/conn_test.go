package grpcconn

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"github.com/mqy/minisync/auth"
)

type stream struct {
	sessionID string
	auth      string
}

// startServer echoes every frame back with a "re:" prefix.
func startServer(t *testing.T) (*bufconn.Listener, <-chan stream) {
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	opened := make(chan stream, 4)
	Register(s, func(ss *ServerStream) error {
		opened <- stream{
			sessionID: ss.Metadata(auth.HeaderSessionID),
			auth:      ss.Metadata(auth.HeaderAuthorization),
		}
		for {
			data, err := ss.Recv()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			if err := ss.Send(append([]byte("re:"), data...)); err != nil {
				return err
			}
		}
	})
	go s.Serve(lis)
	t.Cleanup(s.Stop)
	return lis, opened
}

func dialer(lis *bufconn.Listener) grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

func TestStreamRoundTrip(t *testing.T) {
	lis, opened := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sid := auth.NewSessionID()
	conn, err := Dial(ctx, "bufnet", &auth.Token{Token: "t0k", SessionID: sid}, dialer(lis))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Write(ctx, []byte(`{"@type":"getOption"}`)))
	got, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `re:{"@type":"getOption"}`, string(got))

	s := <-opened
	assert.Equal(t, sid, s.sessionID)
	assert.Equal(t, "Bearer t0k", s.auth)
}

func TestReadCancel(t *testing.T) {
	lis, _ := startServer(t)
	conn, err := Dial(context.Background(), "bufnet", nil, dialer(lis))
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = conn.Read(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBadCredentials(t *testing.T) {
	lis, _ := startServer(t)
	_, err := Dial(context.Background(), "bufnet", &auth.MockClient{}, dialer(lis))
	assert.Error(t, err)
}

func TestRawCodec(t *testing.T) {
	c := rawCodec{}
	out, err := c.Marshal(&frame{data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), out)

	var f frame
	require.NoError(t, c.Unmarshal(out, &f))
	out[0] = 'y'
	assert.Equal(t, []byte("x"), f.data)

	_, err = c.Marshal("nope")
	assert.Error(t, err)
	assert.Error(t, c.Unmarshal(out, new(int)))
}
