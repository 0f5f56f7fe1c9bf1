package sequence

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextFromEmpty(t *testing.T) {
	require.Equal(t, "REQ001", Next("", PrefixRequest))
}

func TestNextIncrements(t *testing.T) {
	require.Equal(t, "REQ002", Next("REQ001", PrefixRequest))
	require.Equal(t, "ORD010", Next("ORD009", PrefixOrder))
	require.Equal(t, "P100", Next("P099", PrefixProduct))
}

func TestNextGrowsBeyondThreeDigits(t *testing.T) {
	require.Equal(t, "ORD1000", Next("ORD999", PrefixOrder))
}

func TestNextMalformedSuffixFallsBack(t *testing.T) {
	// A non-numeric suffix is treated as absence, never an error.
	require.Equal(t, "RET001", Next("RETabc", PrefixReturn))
	require.Equal(t, "RET001", Next("XYZ042", PrefixReturn))
}

func TestPattern(t *testing.T) {
	require.Equal(t, "^ORD[0-9]+$", Pattern(PrefixOrder))
	require.Equal(t, "^CUST[0-9]+$", Pattern(PrefixCustomer))
}
