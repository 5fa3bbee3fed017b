package lnbits

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/imroc/req"
	"github.com/massmux/lnbitskit/pkg/lnbits/errors"
	"github.com/massmux/lnbitskit/pkg/network"
	"github.com/tidwall/gjson"
)

// DiscoverWallet fetches a wallet page (https://host/wallet?usr=..&wal=..) and
// reads the credentials the page embeds for its scripts.
func DiscoverWallet(ctx context.Context, transport network.Transport, pageURL string) (Credentials, error) {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return Credentials{}, errors.Create(errors.PreconditionError, "invalid wallet page url")
	}
	data, status, err := transport.Send(ctx, &network.Request{
		Method: http.MethodGet,
		URL:    pageURL,
		Header: req.Header{"Accept": "text/html"},
	})
	if err != nil {
		return Credentials{}, errors.New(errors.TransportError, err)
	}
	if status >= 300 {
		return Credentials{}, errorEnvelope(data, nil)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return Credentials{}, errors.New(errors.DecodeError, err)
	}
	var wallet, user string
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		if wallet == "" {
			wallet = assignedObject(text, "window.wallet")
		}
		if user == "" {
			user = assignedObject(text, "window.user")
		}
	})
	if wallet == "" {
		return Credentials{}, errors.Create(errors.DecodeError, "wallet page embeds no wallet")
	}
	w := gjson.Parse(wallet)
	creds := Credentials{
		Version:    CredentialsV1,
		Server:     u.Scheme + "://" + u.Host,
		AdminKey:   w.Get("adminkey").String(),
		InvoiceKey: w.Get("inkey").String(),
		WalletID:   w.Get("id").String(),
		User:       w.Get("user").String(),
	}
	if creds.User == "" && user != "" {
		creds.User = gjson.Get(user, "id").String()
	}
	if creds.User == "" {
		creds.User = u.Query().Get("usr")
	}
	if creds.AdminKey == "" {
		return Credentials{}, errors.Create(errors.DecodeError, "wallet page embeds no admin key")
	}
	return creds, nil
}

// assignedObject returns the json object assigned to name in a script, or "".
func assignedObject(script, name string) string {
	i := strings.Index(script, name)
	if i < 0 {
		return ""
	}
	rest := script[i+len(name):]
	eq := strings.Index(rest, "=")
	if eq < 0 {
		return ""
	}
	rest = rest[eq+1:]
	start := strings.Index(rest, "{")
	if start < 0 || strings.TrimSpace(rest[:start]) != "" {
		return ""
	}
	depth, inString, escaped := 0, false, false
	for j := start; j < len(rest); j++ {
		ch := rest[j]
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				obj := rest[start : j+1]
				if gjson.Valid(obj) {
					return obj
				}
				return ""
			}
		}
	}
	return ""
}
