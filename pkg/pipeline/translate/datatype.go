package translate

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
	"github.com/askiada/go-pipegraph/pkg/pipeline/registry"
)

// typeChecker asks the catalog about each data type id at most once.
type typeChecker struct {
	types registry.DataTypeRegistry
	known map[string]bool
}

func newTypeChecker(types registry.DataTypeRegistry) *typeChecker {
	return &typeChecker{types: types, known: make(map[string]bool)}
}

func (c *typeChecker) check(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if id == "" {
			continue
		}

		exists, ok := c.known[id]
		if !ok {
			var err error

			exists, err = c.types.DataTypeExists(ctx, id)
			if err != nil {
				return errors.Wrapf(err, "unable to look up data type %s", id)
			}

			c.known[id] = exists
		}

		if !exists {
			return &model.NotFoundError{Kind: "data type", ID: id}
		}
	}

	return nil
}
