package auth

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
)

const HeaderUserID = "x-uid"

// MockClient identifies as a fixed user id. Development servers accept it
// instead of a token.
type MockClient struct {
	UserID    int64
	SessionID string
}

func (c *MockClient) Metadata(context.Context) (map[string]string, error) {
	if c.UserID <= 0 {
		return nil, errors.Errorf("auth: bad user id %d", c.UserID)
	}
	md := map[string]string{HeaderUserID: strconv.FormatInt(c.UserID, 10)}
	if c.SessionID != "" {
		md[HeaderSessionID] = c.SessionID
	}
	return md, nil
}
