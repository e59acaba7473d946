package translate

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
	"github.com/askiada/go-pipegraph/pkg/pipeline/params"
	"github.com/askiada/go-pipegraph/pkg/pipeline/registry"
	"github.com/askiada/go-pipegraph/pkg/pipeline/wire"
)

// ModuleToWire builds the creation record for def, tagged with fingerprint.
func ModuleToWire(ctx context.Context, def *model.ModuleDef, fingerprint string, types registry.DataTypeRegistry) (*wire.ModuleCreationInfo, error) {
	if def == nil {
		return nil, model.Validationf("", "module definition must be set")
	}

	checker := newTypeChecker(types)

	info := &wire.ModuleCreationInfo{
		Name:            def.Name,
		Description:     def.Description,
		Category:        def.Category,
		Version:         def.Version,
		IsDeterministic: def.IsDeterministic,
		Identifier:      fingerprint,
		StructuredInterface: wire.StructuredInterface{
			Inputs:             make([]wire.StructuredInput, 0, len(def.Inputs)),
			Outputs:            make([]wire.StructuredOutput, 0, len(def.Outputs)),
			Parameters:         make([]wire.StructuredParameter, 0, len(def.Params)),
			MetadataParameters: make([]wire.StructuredParameter, 0, len(def.MetadataParams)),
		},
	}

	for _, in := range def.Inputs {
		if err := checker.check(ctx, in.DataTypes...); err != nil {
			return nil, errors.Wrapf(err, "input %s of module %s", in.Name, def.Name)
		}

		info.StructuredInterface.Inputs = append(info.StructuredInterface.Inputs, wire.StructuredInput{
			Name:           in.Name,
			Label:          in.Label,
			DataTypeIDs:    in.DataTypes,
			IsOptional:     in.IsOptional,
			SkipProcessing: in.IsSentinel(),
		})
	}

	for _, out := range def.Outputs {
		if err := checker.check(ctx, out.DataType); err != nil {
			return nil, errors.Wrapf(err, "output %s of module %s", out.Name, def.Name)
		}

		info.StructuredInterface.Outputs = append(info.StructuredInterface.Outputs, wire.StructuredOutput{
			Name:                         out.Name,
			Label:                        out.Label,
			DataTypeID:                   out.DataType,
			PassThroughDataTypeInputName: out.PassThroughInputName,
			SkipProcessing:               out.IsSentinel(),
		})
	}

	var err error

	info.StructuredInterface.Parameters, err = paramsToWire(info.StructuredInterface.Parameters, def.Params)
	if err != nil {
		return nil, errors.Wrapf(err, "parameters of module %s", def.Name)
	}

	info.StructuredInterface.MetadataParameters, err = paramsToWire(info.StructuredInterface.MetadataParameters, def.MetadataParams)
	if err != nil {
		return nil, errors.Wrapf(err, "metadata parameters of module %s", def.Name)
	}

	return info, nil
}

func paramsToWire(dst []wire.StructuredParameter, defs []model.ParamDef) ([]wire.StructuredParameter, error) {
	for _, p := range defs {
		sp := wire.StructuredParameter{
			Name:          p.Name,
			ParameterType: wire.ParameterType(p.Type),
			IsOptional:    p.IsOptional,
			Description:   p.Description,
		}

		if v := model.Unwrap(p.Default); v != nil {
			s, err := params.Format(p.Name, v)
			if err != nil {
				return nil, err
			}

			sp.DefaultValue = s
		}

		dst = append(dst, sp)
	}

	return dst, nil
}

// ModuleFromWire rebuilds a module definition from a registered entity.
func ModuleFromWire(entity *wire.ModuleEntity) (*model.ModuleDef, error) {
	if entity == nil {
		return nil, model.Validationf("", "module entity must be set")
	}

	def := &model.ModuleDef{
		ID:              entity.ID,
		Fingerprint:     entity.Identifier,
		Name:            entity.Name,
		Description:     entity.Description,
		Category:        entity.Category,
		Version:         entity.Version,
		IsDeterministic: entity.IsDeterministic,
	}

	var abstract wire.ModuleInterface
	if entity.Interface != nil {
		abstract = *entity.Interface
	}

	si := entity.StructuredInterface

	for _, p := range join(si.Inputs, func(in wire.StructuredInput) string { return in.Name }, abstract.InputPorts) {
		def.Inputs = append(def.Inputs, inputFromWire(p))
	}

	for _, p := range join(si.Outputs, func(out wire.StructuredOutput) string { return out.Name }, abstract.OutputPorts) {
		def.Outputs = append(def.Outputs, outputFromWire(p))
	}

	var err error

	def.Params, err = paramsFromWire(si.Parameters)
	if err != nil {
		return nil, errors.Wrapf(err, "parameters of module %s", entity.ID)
	}

	def.MetadataParams, err = paramsFromWire(si.MetadataParameters)
	if err != nil {
		return nil, errors.Wrapf(err, "metadata parameters of module %s", entity.ID)
	}

	return def, nil
}

func inputFromWire(p pair[wire.StructuredInput]) model.InputPortDef {
	in := model.InputPortDef{Name: p.name}

	if s, ok := p.structured(); ok {
		in.Label = s.Label
		in.DataTypes = s.DataTypeIDs
		in.IsOptional = s.IsOptional
	}

	if a, ok := p.abstract(); ok {
		if len(in.DataTypes) == 0 {
			in.DataTypes = a.DataTypeIDs
		}

		in.IsOptional = in.IsOptional || a.IsOptional
	}

	return in
}

func outputFromWire(p pair[wire.StructuredOutput]) model.OutputPortDef {
	out := model.OutputPortDef{Name: p.name}

	if s, ok := p.structured(); ok {
		out.Label = s.Label
		out.DataType = s.DataTypeID
		out.PassThroughInputName = s.PassThroughDataTypeInputName
	}

	if a, ok := p.abstract(); ok && out.DataType == "" && len(a.DataTypeIDs) > 0 {
		out.DataType = a.DataTypeIDs[0]
	}

	return out
}

func paramsFromWire(sps []wire.StructuredParameter) ([]model.ParamDef, error) {
	res := make([]model.ParamDef, 0, len(sps))

	for _, sp := range sps {
		p := model.ParamDef{
			Name:        sp.Name,
			Type:        model.ParamType(sp.ParameterType),
			IsOptional:  sp.IsOptional,
			Description: sp.Description,
		}

		if sp.DefaultValue != "" || sp.ParameterType == wire.StringType {
			v, err := params.Parse(p.Type, sp.DefaultValue)
			if err != nil {
				return nil, errors.Wrapf(err, "default of %s", sp.Name)
			}

			p.Default = v
		}

		res = append(res, p)
	}

	return res, nil
}
