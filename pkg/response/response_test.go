package response_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/nutritrack/pkg/response"
	"github.com/shashiranjanraj/nutritrack/pkg/validate"
)

func TestUnauthenticated(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Unauthenticated(rec)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Unauthenticated."}`, rec.Body.String())
}

func TestValidationError(t *testing.T) {
	errs := &validate.Errors{}
	errs.Add("email", "The email field is required.")
	errs.Add("password", "The password field is required.")

	rec := httptest.NewRecorder()
	response.ValidationError(rec, errs)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{
		"message": "The email field is required.",
		"errors": {
			"email": ["The email field is required."],
			"password": ["The password field is required."]
		}
	}`, rec.Body.String())
}
