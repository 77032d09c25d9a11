package devicefarm

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/chazu/scriptrunner/internal/value"
)

// toWire converts a Script Value to its structpb wire representation.
// Device and function values cannot cross the wire and are rejected
// before the call is ever attempted.
func toWire(v value.Value) (*structpb.Value, error) {
	switch v.Kind() {
	case value.NilKind:
		return structpb.NewNullValue(), nil
	case value.BoolKind:
		return structpb.NewBoolValue(v.Bool()), nil
	case value.IntKind:
		return structpb.NewNumberValue(float64(v.Int())), nil
	case value.FloatKind:
		return structpb.NewNumberValue(v.Float()), nil
	case value.StringKind:
		return structpb.NewStringValue(v.Str()), nil
	case value.ArrayKind:
		elems := v.ArrayVal().Elements
		list := make([]*structpb.Value, len(elems))
		for i, e := range elems {
			w, err := toWire(e)
			if err != nil {
				return nil, err
			}
			list[i] = w
		}
		return structpb.NewListValue(&structpb.ListValue{Values: list}), nil
	case value.ObjectKind:
		fields := make(map[string]*structpb.Value, len(v.ObjectVal().Fields))
		for k, fv := range v.ObjectVal().Fields {
			w, err := toWire(fv)
			if err != nil {
				return nil, err
			}
			fields[k] = w
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: fields}), nil
	default:
		return nil, fmt.Errorf("devicefarm: %s values cannot cross the wire", v.Kind())
	}
}

// fromWire is toWire's inverse.
func fromWire(w *structpb.Value) (value.Value, error) {
	switch kind := w.GetKind().(type) {
	case *structpb.Value_NullValue, nil:
		return value.Nil, nil
	case *structpb.Value_BoolValue:
		return value.Bool(kind.BoolValue), nil
	case *structpb.Value_NumberValue:
		return value.Float(kind.NumberValue), nil
	case *structpb.Value_StringValue:
		return value.String(kind.StringValue), nil
	case *structpb.Value_ListValue:
		elems := make([]value.Value, len(kind.ListValue.Values))
		for i, e := range kind.ListValue.Values {
			v, err := fromWire(e)
			if err != nil {
				return value.Nil, err
			}
			elems[i] = v
		}
		return value.NewArray(elems), nil
	case *structpb.Value_StructValue:
		fields := make(map[string]value.Value, len(kind.StructValue.Fields))
		for k, e := range kind.StructValue.Fields {
			v, err := fromWire(e)
			if err != nil {
				return value.Nil, err
			}
			fields[k] = v
		}
		return value.NewObject(fields), nil
	default:
		return value.Nil, fmt.Errorf("devicefarm: unrecognized wire value")
	}
}

// requestStruct builds a structpb.Value wrapping a Struct of named
// string/int arguments — the shape every RPC in this package sends.
func requestStruct(fields map[string]interface{}) (*structpb.Value, error) {
	pbFields := make(map[string]*structpb.Value, len(fields))
	for k, v := range fields {
		var w *structpb.Value
		switch tv := v.(type) {
		case string:
			w = structpb.NewStringValue(tv)
		case int:
			w = structpb.NewNumberValue(float64(tv))
		case bool:
			w = structpb.NewBoolValue(tv)
		default:
			return nil, fmt.Errorf("devicefarm: unsupported request field type %T", v)
		}
		pbFields[k] = w
	}
	return structpb.NewStructValue(&structpb.Struct{Fields: pbFields}), nil
}
