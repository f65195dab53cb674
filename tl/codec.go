package tl

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownType is returned by Decode for an "@type" with no registered
// constructor.
var ErrUnknownType = errors.New("tl: unknown type")

var registry = map[string]func() Object{}

func register(fns ...func() Object) {
	for _, fn := range fns {
		name := fn().TypeName()
		if _, ok := registry[name]; ok {
			panic("tl: duplicated type " + name)
		}
		registry[name] = fn
	}
}

// Registered reports whether typ has a constructor.
func Registered(typ string) bool {
	_, ok := registry[typ]
	return ok
}

type header struct {
	Type  string  `json:"@type"`
	Extra *uint64 `json:"@extra"`
}

// Marshal encodes obj and tags it with its type name. A non-zero extra is
// written as "@extra" so the response can be correlated.
func Marshal(obj Object, extra uint64) ([]byte, error) {
	body, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	fields["@type"], _ = json.Marshal(obj.TypeName())
	if extra != 0 {
		fields["@extra"], _ = json.Marshal(extra)
	}
	return json.Marshal(fields)
}

// Decode parses one frame. hasExtra is false for pushed updates.
func Decode(data []byte) (obj Object, extra uint64, hasExtra bool, err error) {
	var h header
	if err = json.Unmarshal(data, &h); err != nil {
		return nil, 0, false, err
	}
	if h.Extra != nil {
		extra, hasExtra = *h.Extra, true
	}
	fn, ok := registry[h.Type]
	if !ok {
		return nil, extra, hasExtra, fmt.Errorf("%w: %q", ErrUnknownType, h.Type)
	}
	obj = fn()
	if err = json.Unmarshal(data, obj); err != nil {
		return nil, extra, hasExtra, fmt.Errorf("tl: decode %s: %w", h.Type, err)
	}
	return obj, extra, hasExtra, nil
}

// DecodeUpdate parses a frame that must hold an Update.
func DecodeUpdate(data []byte) (Update, error) {
	obj, _, _, err := Decode(data)
	if err != nil {
		return nil, err
	}
	u, ok := obj.(Update)
	if !ok {
		return nil, fmt.Errorf("tl: %s is not an update", obj.TypeName())
	}
	return u, nil
}
