package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"net/url"
	"strings"
)

// PINs are four digits without a leading zero
const (
	pinMin = 1000
	pinMax = 9999
)

// ErrTooManyPINs is returned when more unique PINs are requested than exist
var ErrTooManyPINs = errors.New("not enough distinct 4-digit PINs")

// GeneratePIN returns a random PIN between 1000 and 9999
func GeneratePIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(pinMax-pinMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate PIN: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+pinMin), nil
}

// GenerateUniquePINs returns n pairwise distinct PINs
func GenerateUniquePINs(n int) ([]string, error) {
	if n > pinMax-pinMin+1 {
		return nil, ErrTooManyPINs
	}
	used := make(map[string]struct{}, n)
	pins := make([]string, 0, n)
	for len(pins) < n {
		pin, err := GeneratePIN()
		if err != nil {
			return nil, err
		}
		if _, dup := used[pin]; dup {
			continue
		}
		used[pin] = struct{}{}
		pins = append(pins, pin)
	}
	return pins, nil
}

// NormalizeEmail trims and lower-cases an address. It returns "" when s is not a valid address.
func NormalizeEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return ""
	}
	return s
}

// IsHTTPURL reports whether s is an absolute http or https URL
func IsHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
