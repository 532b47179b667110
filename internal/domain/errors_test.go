package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"price": "must be a number",
		"name":  "is required",
	}}

	assert.Equal(t, "validation failed: name is required, price must be a number", err.Error())
}

func TestValidationErrorUnwrapsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create smartphone: %w", &ValidationError{Fields: map[string]string{"brand": "is required"}})

	var verr *ValidationError
	assert.True(t, errors.As(wrapped, &verr))
	assert.Equal(t, "is required", verr.Fields["brand"])
}

func TestSmartphoneFieldsEmpty(t *testing.T) {
	assert.True(t, SmartphoneFields{}.Empty())

	price := 999.0
	assert.False(t, SmartphoneFields{Price: &price}.Empty())
}
