package manifest

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"co2js-plugin/internal/errors"
)

// decodeHCL reads a manifest written as top-level HCL attributes, e.g.
//
//	name = "website"
//	initialize = { models = [{ name = "co2js", model = "Co2jsModel" }] }
//	graph = { children = { web = { pipeline = ["co2js"], inputs = [{ bytes = 1000 }] } } }
//
// Expressions are evaluated without variables or functions.
func decodeHCL(data []byte, filename string, m *Manifest) error {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return errors.Parsing("invalid HCL manifest", diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return errors.Parsing("HCL manifest must contain only attributes", diags)
	}

	doc := make(map[string]interface{}, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(&hcl.EvalContext{})
		if diags.HasErrors() {
			return errors.Parsing(fmt.Sprintf("cannot evaluate %s", name), diags)
		}
		goVal, err := ctyToGo(val)
		if err != nil {
			return errors.Parsing(fmt.Sprintf("cannot convert %s", name), err)
		}
		doc[name] = goVal
	}

	// The JSON tags already describe the document shape.
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Internal("cannot re-encode HCL manifest", err)
	}
	if err := json.Unmarshal(raw, m); err != nil {
		return errors.Parsing("HCL manifest has the wrong shape", err)
	}
	return nil
}

// ctyToGo converts a fully known cty value into plain Go values: strings,
// float64 or int64 numbers, bools, slices and maps.
func ctyToGo(val cty.Value) (interface{}, error) {
	if !val.IsKnown() {
		return nil, fmt.Errorf("value of type %s is not known", val.Type().FriendlyName())
	}
	if val.IsNull() {
		return nil, nil
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil

	case ty == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil

	case ty == cty.Bool:
		return val.True(), nil

	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		out := make([]interface{}, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			goVal, err := ctyToGo(v)
			if err != nil {
				return nil, err
			}
			out = append(out, goVal)
		}
		return out, nil

	case ty.IsMapType() || ty.IsObjectType():
		out := make(map[string]interface{}, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			goVal, err := ctyToGo(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = goVal
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unhandled type %s", ty.FriendlyName())
	}
}
