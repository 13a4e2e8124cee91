package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfile_EmailDomain(t *testing.T) {
	assert.Equal(t, "uchicago.edu", Profile{Email: "x@UChicago.edu"}.EmailDomain())
	assert.Equal(t, "", Profile{}.EmailDomain())
	assert.Equal(t, "", Profile{Email: "broken@"}.EmailDomain())
}

func TestEmailPolicy_Allows(t *testing.T) {
	tests := []struct {
		name   string
		policy EmailPolicy
		email  string
		want   bool
	}{
		{"empty email never allowed", EmailPolicy{}, "", false},
		{"open policy allows any email", EmailPolicy{}, "anyone@example.com", true},
		{"exact domain match", EmailPolicy{AllowedDomain: "uchicago.edu"}, "x@uchicago.edu", true},
		{"case-insensitive domain", EmailPolicy{AllowedDomain: "uchicago.edu"}, "x@UCHICAGO.EDU", true},
		{"subdomain allowed", EmailPolicy{AllowedDomain: "uchicago.edu"}, "x@cs.uchicago.edu", true},
		{"other domain rejected", EmailPolicy{AllowedDomain: "uchicago.edu"}, "x@gmail.com", false},
		{"suffix trick rejected", EmailPolicy{AllowedDomain: "uchicago.edu"}, "x@notuchicago.edu", false},
		{"no at sign rejected", EmailPolicy{AllowedDomain: "uchicago.edu"}, "uchicago.edu", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Allows(tt.email))
		})
	}
}
