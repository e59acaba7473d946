package config

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
	"github.com/askiada/go-pipegraph/pkg/pipeline/params"
)

// ParseKind maps a type name used in files to a parameter type. An empty name is Unidentified.
func ParseKind(name string) (params.Kind, error) {
	switch strings.ToLower(name) {
	case "int":
		return params.Int, nil
	case "double", "float":
		return params.Double, nil
	case "bool":
		return params.Bool, nil
	case "string":
		return params.String, nil
	case "", "any":
		return params.Unidentified, nil
	default:
		return params.Unidentified, errors.Errorf("unknown parameter type %q", name)
	}
}

// goValue converts a cty value to int, float64, bool, string or model.DataPath. An object with
// a datastore attribute becomes a data path.
func goValue(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}

	if !v.IsWhollyKnown() {
		return nil, errors.New("value must be known")
	}

	ty := v.Type()

	switch {
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Number:
		return number(v.AsBigFloat()), nil
	case ty.IsObjectType() && ty.HasAttribute("datastore"):
		var path model.DataPath

		for name, attr := range v.AsValueMap() {
			var target *string

			switch name {
			case "datastore":
				target = &path.DataStoreName
			case "path":
				target = &path.RelativePath
			default:
				return nil, errors.Errorf("unexpected data path attribute %q", name)
			}

			if err := gocty.FromCtyValue(attr, target); err != nil {
				return nil, errors.Wrapf(err, "unable to decode data path %s", name)
			}
		}

		return path, nil
	default:
		return nil, errors.Errorf("unsupported value of type %s", ty.FriendlyName())
	}
}

func number(f *big.Float) any {
	if f.IsInt() {
		if i, acc := f.Int64(); acc == big.Exact {
			return int(i)
		}
	}

	v, _ := f.Float64()

	return v
}

// coerce adjusts a decoded number to the declared kind: whole numbers written for a Double
// parameter decode as int.
func coerce(kind params.Kind, v any) any {
	if i, ok := v.(int); ok && kind == params.Double {
		return float64(i)
	}

	return v
}

// ParseAssignments parses "name=value" strings against the parameters declared by g. Values
// for data path parameters are written "datastore:path"; scalars are parsed as the kind of the
// declared default.
func ParseAssignments(g *model.Graph, assignments []string) (map[string]any, error) {
	declared, err := g.Parameters()
	if err != nil {
		return nil, err
	}

	index := make(map[string]*model.PipelineParameter, len(declared))
	for _, p := range declared {
		index[p.Name] = p
	}

	res := make(map[string]any, len(assignments))

	for _, a := range assignments {
		name, raw, ok := strings.Cut(a, "=")
		if !ok || name == "" {
			return nil, model.Validationf(a, "assignment must be name=value")
		}

		p, ok := index[name]
		if !ok {
			return nil, model.Validationf(name, "not a declared pipeline parameter")
		}

		if p.IsDataPath() {
			store, rel, _ := strings.Cut(raw, ":")
			res[name] = model.DataPath{DataStoreName: store, RelativePath: rel}

			continue
		}

		v, err := params.Parse(params.Classify(p.Default), raw)
		if err != nil {
			return nil, model.Validationf(name, "%v", err)
		}

		res[name] = v
	}

	return res, nil
}
