package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type credentials struct {
	Username string `json:"username" validate:"required,min=4,max=30"`
	Password string `json:"password" validate:"required,min=8"`
}

type entry struct {
	Title    *string  `json:"title" validate:"required,min=1,max=50"`
	IsPublic *bool    `json:"is_public" validate:"required"`
	Rating   *string  `json:"rating" validate:"omitempty,rating"`
	Tags     []string `json:"tags" validate:"omitempty,dive,min=1,max=30"`
}

func ptr[T any](v T) *T { return &v }

func TestValidator_ValidCredentials(t *testing.T) {
	t.Parallel()

	v := New()
	err := v.Validate(credentials{Username: "dreamer", Password: "long-enough"})
	assert.NoError(t, err)
}

func TestValidator_UsesJSONFieldNames(t *testing.T) {
	t.Parallel()

	v := New()
	err := v.Validate(credentials{Username: "abc", Password: ""})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must be at least 4 characters", verr.Fields["username"])
	assert.Equal(t, "is required", verr.Fields["password"])
}

func TestValidator_UsernameTooLong(t *testing.T) {
	t.Parallel()

	v := New()
	err := v.Validate(credentials{Username: strings.Repeat("z", 31), Password: "long-enough"})

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must not exceed 30 characters", verr.Fields["username"])
}

func TestValidator_Rating(t *testing.T) {
	t.Parallel()

	v := New()
	tests := []struct {
		name    string
		rating  *string
		wantErr bool
	}{
		{"absent", nil, false},
		{"good", ptr("Good Dream"), false},
		{"neutral", ptr("Neutral Dream"), false},
		{"bad", ptr("Bad Dream"), false},
		{"lowercase", ptr("good dream"), true},
		{"empty", ptr(""), true},
		{"unknown", ptr("Nightmare"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := v.Validate(entry{Title: ptr("T"), IsPublic: ptr(true), Rating: tt.rating})
			if tt.wantErr {
				var verr *Error
				require.True(t, errors.As(err, &verr))
				assert.Contains(t, verr.Fields["rating"], "Good Dream")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_RequiredPointers(t *testing.T) {
	t.Parallel()

	v := New()
	err := v.Validate(entry{})

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["title"])
	assert.Equal(t, "is required", verr.Fields["is_public"])

	// false is a value, not an absence
	err = v.Validate(entry{Title: ptr("T"), IsPublic: ptr(false)})
	assert.NoError(t, err)
}

func TestValidator_EmptyTitleRejected(t *testing.T) {
	t.Parallel()

	v := New()
	err := v.Validate(entry{Title: ptr(""), IsPublic: ptr(true)})

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must be at least 1 characters", verr.Fields["title"])
}

func TestValidator_TagEntries(t *testing.T) {
	t.Parallel()

	v := New()
	err := v.Validate(entry{
		Title:    ptr("T"),
		IsPublic: ptr(true),
		Tags:     []string{"flying", "", strings.Repeat("x", 31)},
	})

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "tags[1]")
	assert.Contains(t, verr.Fields, "tags[2]")
	assert.NotContains(t, verr.Fields, "tags[0]")
}

func TestError_MessageIsStable(t *testing.T) {
	t.Parallel()

	err := &Error{Message: "validation failed", Fields: map[string]string{
		"title":     "is required",
		"is_public": "is required",
	}}
	assert.Equal(t, "validation failed: is_public is required; title is required", err.Error())
	assert.Equal(t, "validation failed", (&Error{Message: "validation failed"}).Error())
}

func TestMustRegister_PanicsOnBadTag(t *testing.T) {
	t.Parallel()

	v := validator.New()
	assert.Panics(t, func() {
		mustRegister(v, "", func(validator.FieldLevel) bool { return true })
	})
	assert.NotPanics(t, func() {
		mustRegister(v, "always", func(validator.FieldLevel) bool { return true })
	})
}
