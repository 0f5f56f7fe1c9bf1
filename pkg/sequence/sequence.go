package sequence

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Business identifier prefixes used across collections.
const (
	PrefixProduct      = "P"
	PrefixOrder        = "ORD"
	PrefixCustomer     = "CUST"
	PrefixReturn       = "RET"
	PrefixRequest      = "REQ"
	PrefixVendorReturn = "RV"
	PrefixContract     = "CON"
)

// Pattern returns the match expression for identifiers of the given prefix,
// e.g. "^ORD[0-9]+$". Used by repositories to find the current maximum.
func Pattern(prefix string) string {
	return "^" + regexp.QuoteMeta(prefix) + "[0-9]+$"
}

// Next derives the identifier following last for the given prefix. The number
// is zero-padded to at least three digits and grows beyond on overflow.
// An empty or malformed last value yields {prefix}001 rather than an error.
func Next(last, prefix string) string {
	n := 0
	if last != "" && strings.HasPrefix(last, prefix) {
		if parsed, err := strconv.Atoi(last[len(prefix):]); err == nil {
			n = parsed
		}
	}
	return fmt.Sprintf("%s%03d", prefix, n+1)
}
