package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-events-service/pkg/apperror"
)

type payload struct {
	Name     string  `json:"name" validate:"required,username"`
	Email    string  `json:"email" validate:"required,useremail"`
	Password *string `json:"password" validate:"omitempty,pwd"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Configure(v)
	return v
}

func TestToDetails_FieldMessagesUseJSONNames(t *testing.T) {
	short := "123"
	err := newValidator().Struct(payload{Name: "Jo", Email: "invalid-email", Password: &short})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be between 3 and 100 characters long", details["name"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 6 characters long", details["password"])
}

func TestToDetails_Required(t *testing.T) {
	details := ToDetails(newValidator().Struct(payload{}))
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "is required", details["email"])
	assert.NotContains(t, details, "password")
}

func TestToDetails_InvalidJSON(t *testing.T) {
	var out payload
	err := json.Unmarshal([]byte(`{"name":`), &out)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
}

func TestError_IsValidationKind(t *testing.T) {
	err := Error(newValidator().Struct(payload{}))
	assert.Equal(t, apperror.KindValidation, err.Kind)
	assert.Contains(t, err.Fields, "name")
}
