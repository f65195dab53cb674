package api

import (
	"context"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mqy/minisync/kv"
	"github.com/mqy/minisync/tl"
)

const optionsBucket = "options"

const (
	optionTypeField  = "@type"
	optionValueField = "value"
)

// OptionSink consumes the options replayed by Load.
type OptionSink interface {
	ApplyOption(name string, v tl.OptionValue) bool
}

// Options persists every server option so the next start sees the values
// before the server sends them again.
type Options struct {
	kv     kv.IStore
	values map[string]tl.OptionValue
}

func NewOptions(db kv.IStore) *Options {
	return &Options{kv: db, values: make(map[string]tl.OptionValue)}
}

func optionToProto(v tl.OptionValue) (*structpb.Struct, error) {
	val := structpb.NewNullValue()
	if len(v.Value) > 0 {
		val = &structpb.Value{}
		if err := protojson.Unmarshal(v.Value, val); err != nil {
			return nil, errors.Wrap(err, "decoding option value")
		}
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		optionTypeField:  structpb.NewStringValue(v.Type),
		optionValueField: val,
	}}, nil
}

func optionFromProto(s *structpb.Struct) (tl.OptionValue, error) {
	out := tl.OptionValue{Type: s.GetFields()[optionTypeField].GetStringValue()}
	if out.Type == "" {
		return out, errors.New("option without type")
	}
	val := s.GetFields()[optionValueField]
	if val == nil {
		return out, nil
	}
	if _, null := val.GetKind().(*structpb.Value_NullValue); null {
		return out, nil
	}
	raw, err := protojson.Marshal(val)
	if err != nil {
		return out, errors.Wrap(err, "encoding option value")
	}
	out.Value = raw
	return out, nil
}

// ApplyOption records every option; it always reports true.
func (o *Options) ApplyOption(name string, v tl.OptionValue) bool {
	ctx := context.Background()
	if v.Type == tl.OptionValueEmpty || v.Type == "" {
		delete(o.values, name)
		if err := o.kv.Delete(ctx, optionsBucket, name); err != nil {
			glog.Errorf("options: delete %s: %v", name, err)
		}
		return true
	}
	o.values[name] = v
	s, err := optionToProto(v)
	if err != nil {
		glog.Warningf("options: %s: %v", name, err)
		return true
	}
	if glog.V(3) {
		glog.Infof("options: %s = %s", name, protojson.Format(s))
	}
	raw, err := proto.Marshal(s)
	if err != nil {
		glog.Errorf("options: marshal %s: %v", name, err)
		return true
	}
	if err := o.kv.Put(ctx, optionsBucket, name, raw); err != nil {
		glog.Errorf("options: save %s: %v", name, err)
	}
	return true
}

func (o *Options) Get(name string) (tl.OptionValue, bool) {
	v, ok := o.values[name]
	return v, ok
}

// Load reads the saved options and replays each one into sinks.
func (o *Options) Load(ctx context.Context, sinks ...OptionSink) error {
	return o.kv.ForEach(ctx, optionsBucket, func(name string, raw []byte) error {
		s := &structpb.Struct{}
		if err := proto.Unmarshal(raw, s); err != nil {
			return errors.Wrapf(err, "decoding option %s", name)
		}
		v, err := optionFromProto(s)
		if err != nil {
			glog.Warningf("options: skip %s: %v", name, err)
			return nil
		}
		o.values[name] = v
		for _, sink := range sinks {
			sink.ApplyOption(name, v)
		}
		return nil
	})
}
