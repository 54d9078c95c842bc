package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputValidationCarriesPlugin(t *testing.T) {
	err := InputValidation("Co2jsModel", "Bytes not provided")

	assert.Equal(t, TypeInputValidation, err.Type)
	assert.Equal(t, "Co2jsModel", err.Plugin)
	assert.Equal(t, "[INPUT_VALIDATION_ERROR] Co2jsModel: Bytes not provided.", err.Error())
}

func TestBuildMessageDoesNotDoubleThePeriod(t *testing.T) {
	assert.Equal(t, "Co2jsModel: done.", BuildMessage("Co2jsModel", "done."))
}

func TestIsTypeSeesThroughWrapping(t *testing.T) {
	inner := Config("no strategy for model")
	wrapped := fmt.Errorf("node web: %w", inner)

	assert.True(t, IsType(wrapped, TypeConfig))
	assert.False(t, IsType(wrapped, TypeInputValidation))
	assert.False(t, IsType(stderrors.New("plain"), TypeConfig))
}

func TestWrapUnwraps(t *testing.T) {
	cause := stderrors.New("boom")
	err := Parsing("invalid manifest", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "[PARSING_ERROR] invalid manifest: boom", err.Error())
}

func TestWithContext(t *testing.T) {
	err := NotFound("model", "Nope").WithContext("node", "web")

	assert.Equal(t, "web", err.Context["node"])
	assert.Equal(t, "[NOT_FOUND] model not found: Nope", err.Error())
}
