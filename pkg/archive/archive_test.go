package archive

import (
	"regexp"
	"strings"
	"testing"
)

// Collection names must satisfy the vector store's identifier rules.
var validIdentifier = regexp.MustCompile(`^[a-z_][a-zA-Z0-9_]{0,62}$`)

func TestCollectionName(t *testing.T) {
	tests := []struct {
		name      string
		projectID string
		want      string
	}{
		{"plain id", "proj42", "findings_proj42"},
		{"uuid with dashes", "3f2a-77b1", "findings_3f2a_77b1"},
		{"uppercase lowered", "ACME", "findings_acme"},
		{"special characters replaced", "p.1/x", "findings_p_1_x"},
		{"empty id still prefixed", "", "findings_"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CollectionName(tt.projectID)
			if got != tt.want {
				t.Errorf("CollectionName(%q) = %q, want %q", tt.projectID, got, tt.want)
			}
			if !validIdentifier.MatchString(got) {
				t.Errorf("%q is not a valid identifier", got)
			}
		})
	}
}

func TestCollectionNameTruncatesLongIDs(t *testing.T) {
	got := CollectionName(strings.Repeat("a", 100))
	if len(got) != 63 {
		t.Errorf("len = %d, want 63", len(got))
	}
	if !validIdentifier.MatchString(got) {
		t.Errorf("%q is not a valid identifier", got)
	}
}
