package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "simple", input: "alice"},
		{name: "hyphenated", input: "scan-io-git"},
		{name: "digits", input: "a1"},
		{name: "max length", input: strings.Repeat("a", 39)},
		{name: "empty", input: "", wantErr: "username is required"},
		{name: "blank", input: "   ", wantErr: "username is required"},
		{name: "too long", input: strings.Repeat("a", 40), wantErr: "invalid GitHub username"},
		{name: "leading hyphen", input: "-alice", wantErr: "invalid GitHub username"},
		{name: "trailing hyphen", input: "alice-", wantErr: "invalid GitHub username"},
		{name: "double hyphen", input: "al--ice", wantErr: "invalid GitHub username"},
		{name: "path", input: "../etc", wantErr: "invalid GitHub username"},
		{name: "slash", input: "alice/demo", wantErr: "invalid GitHub username"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUsername(tc.input)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}
