package jobid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_String(t *testing.T) {
	testCases := []struct {
		name        string
		addr        *Address
		expectedStr string
	}{
		{
			name: "simple path",
			addr: &Address{
				Path: []PathSegment{NewPathSegment("Linux-x86_64"), NewPathSegment("stable")},
			},
			expectedStr: "Linux-x86_64.stable",
		},
		{
			name:        "path with index",
			addr:        New(3, "FreeBSD-x86_64", "nightly"),
			expectedStr: "FreeBSD-x86_64.nightly[3]",
		},
		{
			name:        "nil address",
			addr:        nil,
			expectedStr: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStr, tc.addr.String())
		})
	}
}

func TestAddress_RoundTrip(t *testing.T) {
	testIDs := []string{
		"Linux-x86_64.stable[0]",
		"macOS-aarch64.beta[12]",
		"Windows_x86_64.nightly",
	}

	for _, id := range testIDs {
		t.Run(id, func(t *testing.T) {
			addr, err := Parse(id)
			require.NoError(t, err)

			roundTripID := addr.String()
			assert.Equal(t, id, roundTripID)

			roundTripAddr, err := Parse(roundTripID)
			require.NoError(t, err)
			assert.True(t, addr.Equal(roundTripAddr))
		})
	}
}

func TestAddress_Equal(t *testing.T) {
	addr1, _ := Parse("a.b[0]")
	addr2, _ := Parse("a.b[0]")
	addr3, _ := Parse("a.b[1]")
	addr4, _ := Parse("a.c[0]")

	assert.True(t, addr1.Equal(addr2))
	assert.False(t, addr1.Equal(addr3))
	assert.False(t, addr1.Equal(addr4))
	assert.False(t, addr1.Equal(nil))
	assert.False(t, (*Address)(nil).Equal(addr1))
	assert.True(t, (*Address)(nil).Equal(nil))
}

func TestAddress_Index(t *testing.T) {
	assert.Equal(t, 7, New(7, "a", "b").Index())
	assert.Equal(t, -1, New(-1, "a", "b").Index())
	assert.Equal(t, -1, (*Address)(nil).Index())
}
