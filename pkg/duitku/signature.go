package duitku

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"
)

// Sign returns the inquiry signature. Field order is fixed by the gateway.
func Sign(merchantCode, merchantOrderID string, amount int64, apiKey string) string {
	return md5Hex(merchantCode + merchantOrderID + strconv.FormatInt(amount, 10) + apiKey)
}

// CallbackSignature returns the signature the gateway attaches to callbacks.
// amount is the decimal string exactly as posted.
func CallbackSignature(merchantCode, amount, merchantOrderID, apiKey string) string {
	return md5Hex(merchantCode + amount + merchantOrderID + apiKey)
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func signaturesEqual(expected, got string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}

const (
	maxCustomerNameLength = 20
	customerNameFallback  = "Customer"
)

// SanitizeCustomerName keeps ASCII letters, digits and single spaces and caps
// the result at the gateway's customerVaName length.
func SanitizeCustomerName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n':
			b.WriteRune(' ')
		}
	}

	cleaned := strings.Join(strings.Fields(b.String()), " ")
	if len(cleaned) > maxCustomerNameLength {
		cleaned = strings.TrimSpace(cleaned[:maxCustomerNameLength])
	}
	if cleaned == "" {
		return customerNameFallback
	}
	return cleaned
}
