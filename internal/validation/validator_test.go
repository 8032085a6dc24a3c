package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	domainerrors "github.com/sanctumapp/sanctum-server/internal/errors"
	"github.com/sanctumapp/sanctum-server/internal/validation"
)

type chapterRequest struct {
	Book    string `json:"book" validate:"required"`
	Chapter int    `json:"chapter" validate:"required,gte=1,lte=150"`
	Version string `json:"version" validate:"required,oneof=NLT KJV"`
}

type searchRequest struct {
	Query   string `json:"q" validate:"required,min=2,max=200"`
	Version string `json:"version" validate:"required,oneof=NLT KJV"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := chapterRequest{
		Book:    "John",
		Chapter: 3,
		Version: "NLT",
	}

	err := v.Validate(req)
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name       string
		req        any
		wantErrMsg string
	}{
		{
			name:       "missing book",
			req:        chapterRequest{Chapter: 3, Version: "NLT"},
			wantErrMsg: "book",
		},
		{
			name:       "chapter out of range",
			req:        chapterRequest{Book: "Psalms", Chapter: 151, Version: "NLT"},
			wantErrMsg: "chapter",
		},
		{
			name:       "unsupported version",
			req:        chapterRequest{Book: "John", Chapter: 3, Version: "ESV"},
			wantErrMsg: "version",
		},
		{
			name:       "query too short",
			req:        searchRequest{Query: "a", Version: "NLT"},
			wantErrMsg: "q",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			assert.Error(t, err)

			var domainErr *domainerrors.Error
			if assert.True(t, domainerrors.As(err, &domainErr)) {
				assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
				details, ok := domainErr.Details.(map[string]string)
				if assert.True(t, ok, "details should carry field errors") {
					assert.Contains(t, details, tt.wantErrMsg)
				}
			}
		})
	}
}

func TestValidator_FriendlyMessages(t *testing.T) {
	v := validation.New()

	err := v.Validate(chapterRequest{Book: "John", Chapter: 3, Version: "NIV"})
	assert.Error(t, err)

	var domainErr *domainerrors.Error
	assert.True(t, domainerrors.As(err, &domainErr))
	details := domainErr.Details.(map[string]string)
	assert.Equal(t, "must be one of: NLT KJV", details["version"])
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(searchRequest{Query: "", Version: "NLT"})
	assert.Error(t, err)

	var domainErr *domainerrors.Error
	assert.True(t, domainerrors.As(err, &domainErr))
	details := domainErr.Details.(map[string]string)

	// JSON tag name "q", not struct field name "Query".
	assert.Contains(t, details, "q")
	assert.NotContains(t, details, "Query")
}
