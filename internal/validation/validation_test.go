package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactInputValid(t *testing.T) {
	v := New()

	in := &ContactInput{
		Name:    "  Ana  ",
		Email:   "ana@example.com",
		Message: "We are planning a company retreat.",
	}
	in.Normalize()

	assert.Nil(t, v.Check(in))
	assert.Equal(t, "Ana", in.Name)

	m := in.ToModel(nil)
	assert.Nil(t, m.Phone)
	assert.Nil(t, m.Subject)
}

func TestContactInputShortMessage(t *testing.T) {
	v := New()

	in := &ContactInput{Name: "Ana", Email: "ana@x.com", Message: "hi there!"}
	in.Normalize()

	fields := v.Check(in)
	require.NotNil(t, fields)
	require.Contains(t, fields, "message")
	assert.Equal(t, "must be at least 10 characters", fields["message"][0])
	assert.NotContains(t, fields, "name")
}

func TestContactInputMissingFields(t *testing.T) {
	v := New()

	fields := v.Check(&ContactInput{})
	require.NotNil(t, fields)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "message")
	assert.Equal(t, "is required", fields["name"][0])
}

func TestContactInputBadDate(t *testing.T) {
	v := New()

	in := &ContactInput{
		Name:      "Ana",
		Email:     "ana@x.com",
		Message:   "long enough message",
		EventDate: "next friday",
	}
	fields := v.Check(in)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "eventDate")
}

func TestQuoteInputBounds(t *testing.T) {
	v := New()

	guests := int64(80)
	in := &QuoteInput{
		Name:       "Ana",
		Email:      "ana@x.com",
		EventType:  "Wedding",
		GuestCount: &guests,
	}
	in.Normalize()
	assert.Nil(t, v.Check(in))

	tooMany := int64(200000)
	in.GuestCount = &tooMany
	fields := v.Check(in)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "guestCount")

	in.GuestCount = nil
	negative := -1.0
	in.Budget = &negative
	fields = v.Check(in)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "budget")

	in.Budget = nil
	in.ServiceID = "not-a-uuid"
	fields = v.Check(in)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "serviceId")
}

func TestRegisterInputPassword(t *testing.T) {
	v := New()

	in := &RegisterInput{Name: "Ana", Email: "Ana@Example.com", Password: "Tr0ng&Enough!"}
	in.Normalize()
	assert.Nil(t, v.Check(in))
	assert.Equal(t, "ana@example.com", in.Email)

	in.Password = "weakpass"
	fields := v.Check(in)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "password")
}

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"four classes at 12", "Abcdef1234!@", true},
		{"three classes at 12", "Abcdefgh1234", false},
		{"three classes at 14", "Abcdefghij1234", true},
		{"two classes at 14", "abcdefghijklmn", false},
		{"short", "Ab1!", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStrongPassword(tt.password))
		})
	}
}

func TestStatusUpdateInput(t *testing.T) {
	v := New()

	assert.Nil(t, v.Check(&StatusUpdateInput{Status: "approved"}))

	fields := v.Check(&StatusUpdateInput{Status: "archived"})
	require.NotNil(t, fields)
	assert.Contains(t, fields, "status")

	fields = v.Check(&StatusUpdateInput{})
	require.NotNil(t, fields)
	assert.Equal(t, "is required", fields["status"][0])
}

func TestSettingsInput(t *testing.T) {
	v := New()

	in := &SettingsInput{BrandName: "Nordlys", ContactEmail: "not-an-email"}
	fields := v.Check(in)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "contactEmail")

	in.ContactEmail = "hello@nordlys.no"
	assert.Nil(t, v.Check(in))
}
