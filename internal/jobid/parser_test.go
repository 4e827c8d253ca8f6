package jobid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name         string
		rawID        string
		expectErr    bool
		expectedAddr *Address
	}{
		{
			name:  "simple path",
			rawID: "Linux-x86_64.stable",
			expectedAddr: &Address{
				Path: []PathSegment{NewPathSegment("Linux-x86_64"), NewPathSegment("stable")},
			},
		},
		{
			name:  "path with index",
			rawID: "Linux-x86_64.beta[4]",
			expectedAddr: &Address{
				Path: []PathSegment{NewPathSegment("Linux-x86_64"), NewPathSegmentWithIndex("beta", 4)},
			},
		},
		{
			name:      "error - empty path segment",
			rawID:     "a..b",
			expectErr: true,
		},
		{
			name:      "error - invalid index",
			rawID:     "a.b[x]",
			expectErr: true,
		},
		{
			name:      "error - empty string",
			rawID:     "",
			expectErr: true,
		},
		{
			name:      "error - just hyphen",
			rawID:     "a.-",
			expectErr: true,
		},
		{
			name:      "error - unterminated index",
			rawID:     "a.b[1",
			expectErr: true,
		},
		{
			name:      "error - negative index",
			rawID:     "a.b[-1]",
			expectErr: true,
		},
		{
			name:      "error - space in name",
			rawID:     "Linux x86_64.stable",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			addr, err := Parse(tc.rawID)

			if tc.expectErr {
				require.ErrorIs(t, err, ErrInvalidID)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, addr)
			assert.True(t, tc.expectedAddr.Equal(addr), "Parsed address does not match expected address")
		})
	}
}

func TestSlug(t *testing.T) {
	testCases := map[string]string{
		"Linux-x86_64":      "Linux-x86_64",
		"Linux x86_64 musl": "Linux_x86_64_musl",
		"macOS (Apple) M1":  "macOS_Apple_M1",
		"v1.2":              "v1_2",
		"  ":                "unnamed",
		"-":                 "unnamed",
		"!!!":               "unnamed",
	}

	for in, want := range testCases {
		t.Run(in, func(t *testing.T) {
			got := Slug(in)
			assert.Equal(t, want, got)

			_, err := Parse(got)
			require.NoError(t, err, "slug must always be a valid segment")
		})
	}
}
