package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"co2js-plugin/core/types"
)

type echoModel struct{ configured types.KeyValuePair }

func (m *echoModel) Configure(ctx context.Context, staticParams types.KeyValuePair) (ModelPlugin, error) {
	m.configured = staticParams
	return m, nil
}

func (m *echoModel) Execute(ctx context.Context, inputs []types.ModelParams) ([]types.ModelParams, error) {
	return inputs, nil
}

func TestRegistryCreatesFreshInstances(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Echo", func() ModelPlugin { return &echoModel{} }))

	a, ok := r.New("Echo")
	require.True(t, ok)
	b, ok := r.New("Echo")
	require.True(t, ok)

	assert.NotSame(t, a, b)
}

func TestRegistryRejectsDuplicatesAndEmptyNames(t *testing.T) {
	r := NewRegistry()
	constructor := func() ModelPlugin { return &echoModel{} }

	require.NoError(t, r.Register("Echo", constructor))
	assert.Error(t, r.Register("Echo", constructor))
	assert.Error(t, r.Register("", constructor))
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	constructor := func() ModelPlugin { return &echoModel{} }
	require.NoError(t, r.Register("Zeta", constructor))
	require.NoError(t, r.Register("Alpha", constructor))

	assert.Equal(t, []string{"Alpha", "Zeta"}, r.Names())

	_, ok := r.New("Missing")
	assert.False(t, ok)
}
