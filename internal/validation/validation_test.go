package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Sup3rSecret!Pass", false},
		{"too short", "Ab1!xyz", true},
		{"no uppercase", "sup3rsecret!pass", true},
		{"no lowercase", "SUP3RSECRET!PASS", true},
		{"no digit", "SuperSecret!Pass", true},
		{"no special", "Sup3rSecretPass9", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Alice Smith"))
	assert.NoError(t, ValidateName("user_42"))
	assert.Error(t, ValidateName("A"))
	assert.Error(t, ValidateName("bad<script>"))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("alice@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
}
