// Package grpcconn carries channel frames over a gRPC bidirectional stream.
// Frames travel as raw bytes; no generated stubs are involved.
package grpcconn

import (
	"context"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/metadata"

	"github.com/mqy/minisync/auth"
	"github.com/mqy/minisync/rpc"
)

const (
	// StreamMethod is the full method name of the channel stream.
	StreamMethod = "/minisync.Channel/Stream"

	codecName = "minisync"
)

// frame is the message type of the stream.
type frame struct {
	data []byte
}

type rawCodec struct{}

func (rawCodec) Marshal(v interface{}) ([]byte, error) {
	f, ok := v.(*frame)
	if !ok {
		return nil, errors.Errorf("grpcconn: cannot marshal %T", v)
	}
	return f.data, nil
}

func (rawCodec) Unmarshal(data []byte, v interface{}) error {
	f, ok := v.(*frame)
	if !ok {
		return errors.Errorf("grpcconn: cannot unmarshal into %T", v)
	}
	f.data = append([]byte(nil), data...)
	return nil
}

func (rawCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(rawCodec{})
}

var streamDesc = &grpc.StreamDesc{
	StreamName:    "Stream",
	ServerStreams: true,
	ClientStreams: true,
}

// Conn implements rpc.IConn. Cancelling the ctx of a Read tears the stream
// down.
type Conn struct {
	cc     *grpc.ClientConn
	stream grpc.ClientStream
	cancel context.CancelFunc

	closeOnce sync.Once
}

var _ rpc.IConn = (*Conn)(nil)

// Dial opens the channel stream on addr. The metadata of creds goes out with
// the stream. Extra options come after the defaults, so a test may replace
// the dialer.
func Dial(ctx context.Context, addr string, creds auth.Client, opts ...grpc.DialOption) (*Conn, error) {
	md := metadata.MD{}
	if creds != nil {
		kv, err := creds.Metadata(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "getting credentials")
		}
		for k, v := range kv {
			md.Set(k, v)
		}
	}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}, opts...)
	cc, err := grpc.DialContext(ctx, addr, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", addr)
	}

	sctx, cancel := context.WithCancel(metadata.NewOutgoingContext(context.Background(), md))
	stream, err := cc.NewStream(sctx, streamDesc, StreamMethod)
	if err != nil {
		cancel()
		cc.Close()
		return nil, errors.Wrap(err, "opening stream")
	}
	glog.Infof("grpc: stream open to %s", addr)
	return &Conn{cc: cc, stream: stream, cancel: cancel}, nil
}

func (c *Conn) Read(ctx context.Context) ([]byte, error) {
	stop := context.AfterFunc(ctx, c.cancel)
	defer stop()

	var f frame
	if err := c.stream.RecvMsg(&f); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(err, "grpc read")
	}
	glog.V(5).Infof("grpc: <- %d bytes", len(f.data))
	return f.data, nil
}

func (c *Conn) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.stream.SendMsg(&frame{data: data}); err != nil {
		return errors.Wrap(err, "grpc write")
	}
	return nil
}

func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		_ = c.stream.CloseSend()
		c.cancel()
		err = c.cc.Close()
	})
	return err
}

// ServerStream is the server side of one channel stream.
type ServerStream struct {
	stream grpc.ServerStream
}

func (s *ServerStream) Recv() ([]byte, error) {
	var f frame
	if err := s.stream.RecvMsg(&f); err != nil {
		return nil, err
	}
	return f.data, nil
}

func (s *ServerStream) Send(data []byte) error {
	return s.stream.SendMsg(&frame{data: data})
}

// Metadata returns the first value of key sent by the client.
func (s *ServerStream) Metadata(key string) string {
	md, ok := metadata.FromIncomingContext(s.stream.Context())
	if !ok {
		return ""
	}
	if v := md.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

// Register serves the channel on s. handle runs once per stream; the stream
// ends when it returns.
func Register(s *grpc.Server, handle func(*ServerStream) error) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: "minisync.Channel",
		HandlerType: (*interface{})(nil),
		Streams: []grpc.StreamDesc{{
			StreamName:    "Stream",
			ServerStreams: true,
			ClientStreams: true,
			Handler: func(_ interface{}, stream grpc.ServerStream) error {
				return handle(&ServerStream{stream: stream})
			},
		}},
	}, struct{}{})
}
