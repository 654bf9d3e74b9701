package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewV10Validator(t *testing.T) {
	// alphaspace shadows a builtin tag; construction must survive the
	// translation re-registration.
	v, err := NewV10Validator()
	require.NoError(t, err)
	require.NotNil(t, v)
}

func TestValidateCustomRules(t *testing.T) {
	type form struct {
		FullName string `validate:"required,alphaspace"`
		Slug     string `validate:"required,slug"`
		Code     string `validate:"required,otpcode"`
	}

	v, err := NewV10Validator()
	require.NoError(t, err)

	t.Run("Valid", func(t *testing.T) {
		err := v.Validate(form{FullName: "Asha O'Brien-Patel", Slug: "mawlynnong-east", Code: "123456"})
		assert.NoError(t, err)
	})

	t.Run("InvalidValues", func(t *testing.T) {
		err := v.Validate(form{FullName: "Asha99", Slug: "Not A Slug!", Code: "12x456"})
		require.Error(t, err)

		var verr V10ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Values(), "full_name")
		assert.Contains(t, verr.Values(), "slug")
		assert.Contains(t, verr.Values(), "code")
		assert.Equal(t, "FullName can contain only letters, spaces and basic punctuation", verr.Values()["full_name"])
	})

	t.Run("RequiredTranslated", func(t *testing.T) {
		err := v.Validate(form{})
		require.Error(t, err)

		var verr V10ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "FullName is a required field", verr.Values()["full_name"])
	})
}
