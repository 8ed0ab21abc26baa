package config

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
)

// ctyToGo converts an evaluated HCL value into the plain Go shapes the
// engine passes around: int or float64 for numbers, string, bool,
// []any for lists and tuples, map[string]any for maps and objects.
func ctyToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	switch {
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return int(i), nil
		}
		f, _ := bf.Float64()
		return f, nil
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			goVal, err := ctyToGo(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, goVal)
		}
		return out, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			goVal, err := ctyToGo(elem)
			if err != nil {
				return nil, err
			}
			out[key.AsString()] = goVal
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
