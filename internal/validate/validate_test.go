package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileAcceptsFullTuple(t *testing.T) {
	p, res := Profile(map[string]any{
		"userType":    "resident",
		"firstName":   "Bob",
		"email":       "b@x.com",
		"phoneNumber": "123",
		"address":     "Elm St",
		"colony":      "C1",
		"terms":       true,
		"ignored":     "extra",
	})
	require.True(t, res.Valid, res.Error())
	assert.Equal(t, "resident", *p.UserType)
	assert.Equal(t, "Bob", *p.FirstName)
	assert.Equal(t, "b@x.com", *p.Email)
	assert.Equal(t, "123", *p.PhoneNumber)
	assert.Equal(t, "Elm St", *p.Address)
	assert.Equal(t, "C1", *p.Colony)
	require.NotNil(t, p.Terms)
	assert.True(t, *p.Terms)
}

func TestProfileCastsScalars(t *testing.T) {
	p, res := Profile(map[string]any{
		"phoneNumber": float64(5551234),
		"terms":       "false",
	})
	require.True(t, res.Valid, res.Error())
	require.NotNil(t, p.PhoneNumber)
	assert.Equal(t, "5551234", *p.PhoneNumber)
	require.NotNil(t, p.Terms)
	assert.False(t, *p.Terms)
}

func TestProfileAllFieldsOptional(t *testing.T) {
	p, res := Profile(map[string]any{})
	require.True(t, res.Valid)
	assert.Nil(t, p.Terms)
	assert.Nil(t, p.FirstName)
}

func TestProfileKeepsEmptyStrings(t *testing.T) {
	p, res := Profile(map[string]any{"firstName": "", "email": nil})
	require.True(t, res.Valid, res.Error())
	require.NotNil(t, p.FirstName)
	assert.Equal(t, "", *p.FirstName)
	assert.Nil(t, p.Email)
}

func TestProfileRejectsWrongTypes(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		field string
	}{
		{"object as string", map[string]any{"email": map[string]any{"$ne": ""}}, "email"},
		{"array as string", map[string]any{"firstName": []any{"a"}}, "firstName"},
		{"word as terms", map[string]any{"terms": "maybe"}, "terms"},
		{"number as terms", map[string]any{"terms": float64(7)}, "terms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res := Profile(tt.input)
			assert.False(t, res.Valid)
			assert.Equal(t, tt.field, res.Field)
		})
	}

	_, res := Profile(nil)
	assert.False(t, res.Valid)
}

func TestStatus(t *testing.T) {
	v, res := Status(map[string]any{"status": "Approved"})
	require.True(t, res.Valid)
	assert.Equal(t, "Approved", v)

	v, res = Status(map[string]any{"status": float64(2)})
	require.True(t, res.Valid)
	assert.Equal(t, float64(2), v)

	for _, body := range []map[string]any{
		{},
		{"status": nil},
		{"status": ""},
		{"status": false},
		{"status": float64(0)},
		{"status": map[string]any{"x": 1}},
	} {
		_, res := Status(body)
		assert.False(t, res.Valid, "body %v", body)
		assert.Equal(t, "status", res.Field)
	}
}

func TestCredentials(t *testing.T) {
	assert.True(t, Credentials("alice", "secret1").Valid)
	assert.Equal(t, "username", Credentials("", "secret1").Field)
	assert.True(t, Credentials("alice", "").Valid)
}
