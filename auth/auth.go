// Package auth attaches the session credentials to transport connections.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"
)

const (
	HeaderAuthorization = "authorization"
	HeaderSessionID     = "x-session-id"
)

type Client interface {
	// Metadata returns the key/value pairs sent when a connection opens.
	// Keys are lower case.
	Metadata(ctx context.Context) (map[string]string, error)
}

// NewSessionID returns a random id without dashes.
func NewSessionID() string {
	return strings.ReplaceAll(uuid.New(), "-", "")
}

// Token sends a bearer token and the session id.
type Token struct {
	Token     string
	SessionID string
}

func (t *Token) Metadata(context.Context) (map[string]string, error) {
	if t.Token == "" {
		return nil, errors.New("auth: empty token")
	}
	md := map[string]string{HeaderAuthorization: "Bearer " + t.Token}
	if t.SessionID != "" {
		md[HeaderSessionID] = t.SessionID
	}
	return md, nil
}

// Header converts the metadata of c into HTTP headers for a websocket dial.
func Header(ctx context.Context, c Client) (http.Header, error) {
	h := http.Header{}
	if c == nil {
		return h, nil
	}
	md, err := c.Metadata(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting credentials")
	}
	for k, v := range md {
		h.Set(k, v)
	}
	return h, nil
}

// Bearer extracts the token from an authorization value.
func Bearer(value string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(value, prefix) {
		return "", false
	}
	token := strings.TrimSpace(value[len(prefix):])
	return token, token != ""
}
