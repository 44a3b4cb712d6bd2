package touch

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Inbound trigger families that bypass the control registry.
const (
	PresetButtons = "PBUTTONS"
	RandomButtons = "RBUTTONS"
)

// Address is an inbound address split into its control prefix and index.
type Address struct {
	// Name is the address without leading slashes.
	Name   string
	Prefix string
	Index  int
}

// ParseAddress splits addr at its first digit, so "/fader12" is prefix
// "fader" and index 12. PBUTTONS/n and RBUTTONS/n split at the slash.
func ParseAddress(addr string) (Address, error) {
	name := strings.TrimLeft(addr, "/")

	for _, family := range []string{PresetButtons, RandomButtons} {
		if rest, ok := strings.CutPrefix(name, family+"/"); ok && isDigits(rest) {
			if n, err := strconv.Atoi(rest); err == nil {
				return Address{Name: name, Prefix: family, Index: n}, nil
			}
		}
	}

	i := strings.IndexFunc(name, unicode.IsDigit)
	if i <= 0 {
		return Address{}, errors.Wrapf(ErrUnresolvedAddress, "address format not recognized: %s", addr)
	}
	n, err := strconv.Atoi(name[i:])
	if err != nil {
		return Address{}, errors.Wrapf(ErrUnresolvedAddress, "invalid index %q", name[i:])
	}
	return Address{Name: name, Prefix: name[:i], Index: n}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
