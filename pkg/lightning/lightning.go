package lightning

import (
	"strings"

	"github.com/fiatjaf/go-lnurl"
)

var invoicePrefixes = []string{"lnbcrt", "lntbs", "lntb", "lnbc", "lnsb"}

// Normalize trims whitespace and a "lightning:" uri scheme.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 10 && strings.EqualFold(s[:10], "lightning:") {
		s = s[10:]
	}
	return s
}

// IsInvoice reports whether s looks like a bolt11 payment request.
func IsInvoice(s string) bool {
	s = strings.ToLower(Normalize(s))
	for _, prefix := range invoicePrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// IsLnurl reports whether s is a bech32 lnurl or a lightning address.
func IsLnurl(s string) bool {
	s = Normalize(s)
	if _, _, ok := lnurl.ParseInternetIdentifier(s); ok {
		return true
	}
	return strings.HasPrefix(strings.ToLower(s), "lnurl1")
}

// FindLnurl extracts a bech32 lnurl from arbitrary text (qr payloads, uris).
// Lightning addresses are returned as they are.
func FindLnurl(text string) (string, bool) {
	text = Normalize(text)
	if _, _, ok := lnurl.ParseInternetIdentifier(text); ok {
		return text, true
	}
	return lnurl.FindLNURLInText(text)
}

// EncodeLnurl bech32 encodes a url.
func EncodeLnurl(rawurl string) (string, error) {
	return lnurl.LNURLEncode(rawurl)
}

// DecodeLnurl returns the url behind a bech32 lnurl.
func DecodeLnurl(code string) (string, error) {
	return lnurl.LNURLDecode(Normalize(code))
}
