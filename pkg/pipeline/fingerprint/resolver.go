package fingerprint

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
	"github.com/askiada/go-pipegraph/pkg/pipeline/registry"
	"github.com/askiada/go-pipegraph/pkg/pipeline/translate"
	"github.com/askiada/go-pipegraph/pkg/pipeline/wire"
)

// Resolver maps definitions to registered entity ids, creating entities on a fingerprint miss.
type Resolver struct {
	modules registry.ModuleRegistry
	sources registry.DataSourceRegistry
	types   registry.DataTypeRegistry
}

// NewResolver creates a resolver over the given registries.
func NewResolver(modules registry.ModuleRegistry, sources registry.DataSourceRegistry, types registry.DataTypeRegistry) *Resolver {
	return &Resolver{modules: modules, sources: sources, types: types}
}

// FindModule looks up a module entity by fingerprint.
func (r *Resolver) FindModule(ctx context.Context, fp string) (*wire.ModuleEntity, bool, error) {
	entity, err := r.modules.FindModuleByFingerprint(ctx, fp)
	if err != nil {
		return nil, false, errors.Wrapf(err, "unable to find module by fingerprint %s", fp)
	}

	return entity, entity != nil, nil
}

// FindDataSource looks up a datasource entity by fingerprint.
func (r *Resolver) FindDataSource(ctx context.Context, fp string) (*wire.DataSourceEntity, bool, error) {
	entity, err := r.sources.FindDataSourceByFingerprint(ctx, fp)
	if err != nil {
		return nil, false, errors.Wrapf(err, "unable to find datasource by fingerprint %s", fp)
	}

	return entity, entity != nil, nil
}

// EnsureModule returns the entity id of def, registering it when no entity shares its
// fingerprint. def.ID and def.Fingerprint are filled in on success; a def that already has
// an ID is returned as is.
func (r *Resolver) EnsureModule(ctx context.Context, def *model.ModuleDef) (string, error) {
	if def == nil {
		return "", model.Validationf("", "module definition must be set")
	}

	if def.ID != "" {
		return def.ID, nil
	}

	logger := logr.FromContextOrDiscard(ctx).WithValues("module", def.Name)

	info, err := translate.ModuleToWire(ctx, def, def.Fingerprint, r.types)
	if err != nil {
		return "", err
	}

	if info.Identifier == "" {
		info.Identifier, err = Sum(info)
		if err != nil {
			return "", err
		}
	}

	entity, found, err := r.FindModule(ctx, info.Identifier)
	if err != nil {
		return "", err
	}

	if found {
		logger.V(1).Info("reusing registered module", "id", entity.ID, "fingerprint", info.Identifier)
	} else {
		entity, err = r.modules.CreateModule(ctx, info)
		if err != nil {
			return "", errors.Wrapf(err, "unable to create module %s", def.Name)
		}

		logger.V(1).Info("registered module", "id", entity.ID, "fingerprint", info.Identifier)
	}

	def.ID = entity.ID
	def.Fingerprint = info.Identifier

	return entity.ID, nil
}

// EnsureDataSource is EnsureModule for datasources.
func (r *Resolver) EnsureDataSource(ctx context.Context, def *model.DataSourceDef) (string, error) {
	if def == nil {
		return "", model.Validationf("", "datasource definition must be set")
	}

	if def.ID != "" {
		return def.ID, nil
	}

	logger := logr.FromContextOrDiscard(ctx).WithValues("datasource", def.Name)

	info, err := translate.DataSourceToWire(ctx, def, def.Fingerprint, r.types)
	if err != nil {
		return "", err
	}

	if info.Identifier == "" {
		info.Identifier, err = Sum(info)
		if err != nil {
			return "", err
		}
	}

	entity, found, err := r.FindDataSource(ctx, info.Identifier)
	if err != nil {
		return "", err
	}

	if found {
		logger.V(1).Info("reusing registered datasource", "id", entity.ID, "fingerprint", info.Identifier)
	} else {
		entity, err = r.sources.CreateDataSource(ctx, info)
		if err != nil {
			return "", errors.Wrapf(err, "unable to create datasource %s", def.Name)
		}

		logger.V(1).Info("registered datasource", "id", entity.ID, "fingerprint", info.Identifier)
	}

	def.ID = entity.ID
	def.Fingerprint = info.Identifier

	return entity.ID, nil
}
