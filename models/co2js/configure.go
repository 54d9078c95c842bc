package co2js

import (
	"context"

	"go.uber.org/zap"

	"co2js-plugin/core/estimation"
	"co2js-plugin/core/types"
	"co2js-plugin/models"
)

// StaticParams are the plugin-level parameters set by Configure
type StaticParams struct {
	Type types.ModelType `json:"type" validate:"required,oneof=1byte swd"`
}

// selection is a model type together with the backend bound to it
type selection struct {
	model   types.ModelType
	backend estimation.Backend
}

func (m *Model) current() selection {
	return selection{model: m.staticParams.Type, backend: m.backend}
}

// Configure validates staticParams and, when they carry a type, binds a new
// backend for it. Without a type the current selection is kept. Nothing is
// changed when validation fails.
func (m *Model) Configure(ctx context.Context, staticParams types.KeyValuePair) (models.ModelPlugin, error) {
	sel, err := m.resolve(m.current(), staticParams)
	if err != nil {
		m.metrics.RecordValidationFailure(Name)
		return nil, err
	}

	m.staticParams.Type = sel.model
	m.backend = sel.backend

	m.logger.Debug("configured", zap.String("model", sel.model.String()))
	return m, nil
}

// resolve returns the selection params asks for, or current when params
// has no type.
func (m *Model) resolve(current selection, params map[string]interface{}) (selection, error) {
	model, present, err := validateType(params)
	if err != nil || !present {
		return current, err
	}

	backend, err := m.newBackend(model)
	if err != nil {
		return current, err
	}
	return selection{model: model, backend: backend}, nil
}
