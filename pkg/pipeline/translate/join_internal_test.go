package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/askiada/go-pipegraph/pkg/pipeline/wire"
)

func TestJoin(t *testing.T) {
	t.Parallel()

	structured := []wire.StructuredOutput{{Name: "x"}, {Name: "y"}}
	abstract := []wire.InterfacePort{{Name: "z"}, {Name: "x"}}

	pairs := join(structured, func(o wire.StructuredOutput) string { return o.Name }, abstract)

	names := make([]string, 0, len(pairs))
	for _, p := range pairs {
		names = append(names, p.name)
	}

	assert.Equal(t, []string{"x", "y", "z"}, names)

	_, ok := pairs[0].abstract()
	assert.True(t, ok)
	_, ok = pairs[1].abstract()
	assert.False(t, ok)
	_, ok = pairs[2].structured()
	assert.False(t, ok)
}
