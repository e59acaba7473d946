package translate

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
	"github.com/askiada/go-pipegraph/pkg/pipeline/registry"
	"github.com/askiada/go-pipegraph/pkg/pipeline/wire"
)

const dataReferenceKind = "data reference"

// DataSourceToWire builds the creation record for def, tagged with fingerprint.
func DataSourceToWire(ctx context.Context, def *model.DataSourceDef, fingerprint string, types registry.DataTypeRegistry) (*wire.DataSourceCreationInfo, error) {
	if def == nil {
		return nil, model.Validationf("", "datasource definition must be set")
	}

	if err := newTypeChecker(types).check(ctx, def.DataTypeID); err != nil {
		return nil, errors.Wrapf(err, "datasource %s", def.Name)
	}

	ref, err := referenceToWire(def.Reference)
	if err != nil {
		return nil, errors.Wrapf(err, "datasource %s", def.Name)
	}

	return &wire.DataSourceCreationInfo{
		Name:          def.Name,
		Description:   def.Description,
		DataTypeID:    def.DataTypeID,
		Identifier:    fingerprint,
		DataReference: ref,
	}, nil
}

func referenceToWire(ref model.DataReference) (wire.DataReference, error) {
	switch ref.Type {
	case model.DataStoreReference:
		return wire.DataReference{
			Type:               wire.DataStoreReferenceType,
			DataStoreReference: &wire.DataStoreReference{DataStoreName: ref.DataStoreName, Path: ref.PathOnDataStore},
		}, nil
	case model.URIReference:
		return wire.DataReference{
			Type:         wire.URIReferenceType,
			URIReference: &wire.URIReference{URI: ref.URI},
		}, nil
	default:
		return wire.DataReference{}, &model.UnsupportedFormatError{Kind: dataReferenceKind, Tag: string(ref.Type)}
	}
}

// DataSourceFromWire rebuilds a datasource definition from a registered entity. Reference
// variants other than DataStore and Uri fail with a *model.UnsupportedFormatError.
func DataSourceFromWire(entity *wire.DataSourceEntity) (*model.DataSourceDef, error) {
	if entity == nil {
		return nil, model.Validationf("", "datasource entity must be set")
	}

	def := &model.DataSourceDef{
		ID:          entity.ID,
		Fingerprint: entity.Identifier,
		Name:        entity.Name,
		Description: entity.Description,
		DataTypeID:  entity.DataTypeID,
	}

	ref := entity.DataReference

	switch ref.Type {
	case wire.DataStoreReferenceType:
		if ref.DataStoreReference == nil {
			return nil, errors.Wrapf(&model.UnsupportedFormatError{Kind: dataReferenceKind, Tag: string(ref.Type)}, "datasource %s has no datastore payload", entity.ID)
		}

		def.Reference = model.DataReference{
			Type:            model.DataStoreReference,
			DataStoreName:   ref.DataStoreReference.DataStoreName,
			PathOnDataStore: ref.DataStoreReference.Path,
		}
	case wire.URIReferenceType:
		if ref.URIReference == nil {
			return nil, errors.Wrapf(&model.UnsupportedFormatError{Kind: dataReferenceKind, Tag: string(ref.Type)}, "datasource %s has no uri payload", entity.ID)
		}

		def.Reference = model.DataReference{Type: model.URIReference, URI: ref.URIReference.URI}
	default:
		return nil, errors.Wrapf(&model.UnsupportedFormatError{Kind: dataReferenceKind, Tag: string(ref.Type)}, "datasource %s", entity.ID)
	}

	return def, nil
}
