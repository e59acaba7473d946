package params

import (
	"fmt"
	"sort"

	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
)

// TypeMismatchError reports a supplied value whose kind differs from the declared one.
type TypeMismatchError struct {
	Name       string
	Expected   Kind
	Actual     any
	ActualKind Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: parameter %q: expected %s, got %v of kind %s", model.ErrValidation, e.Name, e.Expected, e.Actual, e.ActualKind)
}

func (e *TypeMismatchError) Unwrap() error { return model.ErrValidation }

// Validate checks supplied values against the declared pipeline parameters. Declared
// parameters that are not supplied keep their defaults. Supplying an undeclared parameter
// is a caller error.
func Validate(supplied map[string]any, declared []*model.PipelineParameter) error {
	index := make(map[string]*model.PipelineParameter, len(declared))
	for _, p := range declared {
		index[p.Name] = p
	}

	names := make([]string, 0, len(supplied))
	for name := range supplied {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		p, ok := index[name]
		if !ok {
			return model.Validationf(name, "not a declared pipeline parameter")
		}

		if err := check(p, supplied[name]); err != nil {
			return err
		}
	}

	return nil
}

func check(p *model.PipelineParameter, value any) error {
	path, isPath := asDataPath(value)

	if p.IsDataPath() {
		if !isPath {
			return model.Validationf(p.Name, "expected a data path, got %v of kind %s", value, Classify(value))
		}

		if path.DataStoreName == "" {
			return model.Validationf(p.Name, "data path must name a datastore")
		}

		return nil
	}

	if isPath {
		return model.Validationf(p.Name, "expected a %s value, got data path %s", Classify(p.Default), path)
	}

	expected := Classify(p.Default)
	if expected == Unidentified {
		// no typed default, nothing to compare against
		return nil
	}

	if actual := Classify(value); actual != expected {
		return &TypeMismatchError{Name: p.Name, Expected: expected, Actual: value, ActualKind: actual}
	}

	return nil
}

func asDataPath(v any) (model.DataPath, bool) {
	switch path := v.(type) {
	case model.DataPath:
		return path, true
	case *model.DataPath:
		if path == nil {
			return model.DataPath{}, false
		}

		return *path, true
	default:
		return model.DataPath{}, false
	}
}
