package params_test

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
	"github.com/askiada/go-pipegraph/pkg/pipeline/params"
)

type epochs int

func TestClassify(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		value any
		want  params.Kind
	}{
		"bool":       {value: true, want: params.Bool},
		"int":        {value: 3, want: params.Int},
		"int64":      {value: int64(3), want: params.Int},
		"uint8":      {value: uint8(3), want: params.Int},
		"named int":  {value: epochs(3), want: params.Int},
		"float64":    {value: 0.5, want: params.Double},
		"float32":    {value: float32(0.5), want: params.Double},
		"string":     {value: "x", want: params.String},
		"nil":        {value: nil, want: params.Unidentified},
		"slice":      {value: []int{1, 2}, want: params.Unidentified},
		"data path":  {value: model.DataPath{DataStoreName: "s"}, want: params.Unidentified},
		"map":        {value: map[string]int{}, want: params.Unidentified},
		"int zero":   {value: 0, want: params.Int},
		"bool false": {value: false, want: params.Bool},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, params.Classify(tc.value))
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		value any
		want  string
	}{
		"int":      {value: 3, want: "3"},
		"uint":     {value: uint(7), want: "7"},
		"negative": {value: -4, want: "-4"},
		"float":    {value: 0.25, want: "0.25"},
		"whole":    {value: 3.0, want: "3"},
		"float32":  {value: float32(0.5), want: "0.5"},
		"bool":     {value: true, want: "true"},
		"string":   {value: "abc", want: "abc"},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := params.Format("p", tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatUnsupported(t *testing.T) {
	t.Parallel()

	_, err := params.Format("x", []int{1, 2})
	require.ErrorIs(t, err, model.ErrSerialization)

	var serr *model.SerializationError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "x", serr.Name)
}

func TestFormatUintRange(t *testing.T) {
	t.Parallel()

	got, err := params.Format("n", uint64(math.MaxInt64))
	require.NoError(t, err)

	back, err := params.Parse(params.Int, got)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt64, back)

	_, err = params.Format("n", uint64(math.MaxInt64)+1)
	assert.ErrorIs(t, err, model.ErrSerialization)
}

func TestParse(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		kind  params.Kind
		value string
		want  any
	}{
		"int":          {kind: params.Int, value: "3", want: 3},
		"double":       {kind: params.Double, value: "0.5", want: 0.5},
		"bool":         {kind: params.Bool, value: "true", want: true},
		"string":       {kind: params.String, value: "3", want: "3"},
		"unidentified": {kind: params.Unidentified, value: "x", want: "x"},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := params.Parse(tc.kind, tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := params.Parse(params.Int, "three")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	declared := []*model.PipelineParameter{
		model.NewPipelineParameter("flag", false),
		model.NewPipelineParameter("n", 1),
		model.NewPipelineParameter("lr", 0.1),
		model.NewPipelineParameter("name", "a"),
		model.NewPipelineParameter("input", model.DataPath{DataStoreName: "blob", RelativePath: "in"}),
		model.NewPipelineParameter("free", nil),
	}

	tcs := map[string]struct {
		supplied map[string]any
		wantErr  bool
	}{
		"nothing supplied":     {supplied: nil},
		"bool matches":         {supplied: map[string]any{"flag": true}},
		"int for bool":         {supplied: map[string]any{"flag": 1}, wantErr: true},
		"bool for int":         {supplied: map[string]any{"n": true}, wantErr: true},
		"int matches":          {supplied: map[string]any{"n": 3}},
		"float for int":        {supplied: map[string]any{"n": 3.5}, wantErr: true},
		"string for double":    {supplied: map[string]any{"lr": "0.1"}, wantErr: true},
		"string matches":       {supplied: map[string]any{"name": "b"}},
		"data path matches":    {supplied: map[string]any{"input": model.DataPath{DataStoreName: "blob", RelativePath: "x"}}},
		"data path pointer":    {supplied: map[string]any{"input": &model.DataPath{DataStoreName: "blob"}}},
		"data path no store":   {supplied: map[string]any{"input": model.DataPath{RelativePath: "x"}}, wantErr: true},
		"scalar for data path": {supplied: map[string]any{"input": "blob/x"}, wantErr: true},
		"data path for scalar": {supplied: map[string]any{"n": model.DataPath{DataStoreName: "blob"}}, wantErr: true},
		"untyped default":      {supplied: map[string]any{"free": 42}},
		"undeclared parameter": {supplied: map[string]any{"missing": 1}, wantErr: true},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := params.Validate(tc.supplied, declared)
			if tc.wantErr {
				assert.ErrorIs(t, err, model.ErrValidation)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestValidateBoolIntMismatchDetails(t *testing.T) {
	t.Parallel()

	err := params.Validate(map[string]any{"flag": 1}, []*model.PipelineParameter{model.NewPipelineParameter("flag", true)})

	var mismatch *params.TypeMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "flag", mismatch.Name)
	assert.Equal(t, params.Bool, mismatch.Expected)
	assert.Equal(t, 1, mismatch.Actual)
	assert.Equal(t, params.Int, mismatch.ActualKind)
	assert.Contains(t, err.Error(), `"flag"`)
	assert.Contains(t, err.Error(), "expected Bool")
	assert.Contains(t, err.Error(), "kind Int")
}
