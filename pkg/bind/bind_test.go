package bind_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shashiranjanraj/nutritrack/pkg/bind"
	"github.com/shashiranjanraj/nutritrack/pkg/validate"
)

type mealInput struct {
	Name     string `json:"name"     validate:"required,string"`
	Calories int    `json:"calories" validate:"required,integer"`
	UserID   uint   `json:"user_id"`
}

func TestJSONDecodesValidatedFieldsOnly(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Rice","calories":999,"user_id":42}`))

	var in mealInput
	errs, err := bind.JSON(req, &in)
	if err != nil || validate.HasErrors(errs) {
		t.Fatalf("unexpected failure: %v %v", err, errs.Map())
	}
	if in.Name != "Rice" || in.Calories != 999 {
		t.Errorf("unexpected input %+v", in)
	}
	if in.UserID != 0 {
		t.Errorf("unvalidated user_id must be dropped, got %d", in.UserID)
	}
}

func TestJSONEmptyBodyReportsRequired(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	var in mealInput
	errs, err := bind.JSON(req, &in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !errs.Has("name") || !errs.Has("calories") {
		t.Errorf("expected required errors, got %v", errs.Map())
	}
}

func TestJSONMalformed(t *testing.T) {
	for _, body := range []string{`{"name":`, `[1,2,3]`} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

		var in mealInput
		_, err := bind.JSON(req, &in)

		var malformed *bind.MalformedError
		if !errors.As(err, &malformed) {
			t.Errorf("%s: expected MalformedError, got %v", body, err)
		}
	}
}
