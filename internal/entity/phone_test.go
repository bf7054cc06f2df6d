package entity

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhoneAccepts(t *testing.T) {
	cases := []string{
		"1234567890",
		"123456789012345",
		"+11234567890",
		"+123456789012345",
		"09012345678",
	}
	for _, phone := range cases {
		t.Run(phone, func(t *testing.T) {
			got, err := ValidatePhone(phone)
			require.NoError(t, err)
			assert.Equal(t, phone, got)
		})
	}
}

func TestValidatePhoneRejectsFormat(t *testing.T) {
	cases := []string{
		"123456789",
		"1234567890123456",
		"++1234567890",
		"+",
		"12345abcde",
		"1234567890+",
		"+1 234567890",
		" 1234567890",
		"1234567890\n",
		"١٢٣٤٥٦٧٨٩٠",
	}
	for _, phone := range cases {
		t.Run(phone, func(t *testing.T) {
			_, err := ValidatePhone(phone)
			require.Error(t, err)

			var format *FormatValidationError
			require.True(t, errors.As(err, &format), "got %T", err)
			assert.Equal(t, phone, format.Value)
			assert.Equal(t, PhoneField, format.Field)
			assert.Equal(t, phone+" is not a valid phone number!", err.Error())
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestValidatePhoneMissing(t *testing.T) {
	_, err := ValidatePhone("")
	require.Error(t, err)

	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing), "got %T", err)
	assert.Equal(t, "Please provide your phone number", err.Error())
	assert.True(t, IsValidationError(err))
}

func TestValidatePhoneIsIdempotent(t *testing.T) {
	for _, phone := range []string{"+11234567890", "123", ""} {
		first, firstErr := ValidatePhone(phone)
		second, secondErr := ValidatePhone(phone)
		assert.Equal(t, first, second)
		assert.Equal(t, firstErr, secondErr)
	}
}

func TestUserValidate(t *testing.T) {
	u := User{Phone: "+11234567890", Profile: map[string]any{"name": "alice"}}
	require.NoError(t, u.Validate())

	u = User{}
	err := u.Validate()
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, PhoneField, missing.Field)

	u = User{Phone: strings.Repeat("9", 16)}
	err = u.Validate()
	var format *FormatValidationError
	require.True(t, errors.As(err, &format))
	assert.Equal(t, u.Phone, format.Value)
	assert.Equal(t, PhoneField, format.Field)
}

func TestIsValidationErrorIgnoresOthers(t *testing.T) {
	assert.False(t, IsValidationError(errors.New("boom")))
	assert.False(t, IsValidationError(nil))
}
