// Package tl holds the wire types exchanged with the remote session: pushed
// updates, outbound functions and the objects they carry. Every value is a
// JSON object tagged with "@type".
package tl

import (
	"fmt"
	"strings"
)

// Object is any value tagged with "@type" on the wire.
type Object interface {
	TypeName() string
}

// Function is an outbound request.
type Function interface {
	Object
	function()
}

// Update is a push from the remote session. Accept routes it to the Handler
// method defined for its variant.
type Update interface {
	Object
	Accept(h Handler)
}

// Error is the failure payload of any function.
type Error struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

func (*Error) TypeName() string { return "error" }

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// HasType reports whether the error message equals type or starts with "type_"
// (e.g. "EMAIL_UNCONFIRMED_6" matches "EMAIL_UNCONFIRMED").
func (e *Error) HasType(typ string) bool {
	return e.Message == typ || strings.HasPrefix(e.Message, typ+"_")
}

// Ok is the empty success payload.
type Ok struct{}

func (*Ok) TypeName() string { return "ok" }
