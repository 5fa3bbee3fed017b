package lnbits

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/imroc/req"
	"github.com/massmux/lnbitskit/internal/str"
	"github.com/massmux/lnbitskit/pkg/network"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/sjson"
)

type Endpoint string

const (
	EndpointWallet        Endpoint = "/api/v1/wallet"
	EndpointPayments      Endpoint = "/api/v1/payments"
	EndpointDecode        Endpoint = "/api/v1/payments/decode"
	EndpointPayLNURL      Endpoint = "/api/v1/payments/lnurl"
	EndpointPaymentsSSE   Endpoint = "/api/v1/payments/sse"
	EndpointLNURLScan     Endpoint = "/api/v1/lnurlscan"
	EndpointLNURLAuth     Endpoint = "/api/v1/lnurlauth"
	EndpointAuth          Endpoint = "/api/v1/auth"
	EndpointPayLinks      Endpoint = "/lnurlp/api/v1/links"
	EndpointWithdrawLinks Endpoint = "/withdraw/api/v1/links"
	EndpointSwap          Endpoint = "/boltz/api/v1/swap"
	EndpointReverseSwap   Endpoint = "/boltz/api/v1/swap/reverse"
	EndpointUserWallets   Endpoint = "/usermanager/api/v1/wallets"
)

// Tier is the privilege a request needs.
type Tier int

const (
	// ReadOnly requests use the invoice key (admin key for CredentialsV2).
	ReadOnly Tier = iota
	// Admin requests use the admin key. Every write or spend operation is Admin.
	Admin
	// Anonymous requests carry no api key (login).
	Anonymous
)

func (t Tier) String() string {
	switch t {
	case Admin:
		return "admin"
	case Anonymous:
		return "anonymous"
	}
	return "read-only"
}

type CredentialVersion int

const (
	// CredentialsV1 carries a dedicated read-only invoice key.
	CredentialsV1 CredentialVersion = iota + 1
	// CredentialsV2 uses the admin key for every authenticated call.
	CredentialsV2
)

// Credentials select the server and the keys of one wallet.
type Credentials struct {
	Version    CredentialVersion `json:"version"`
	Server     string            `json:"server"`
	AdminKey   string            `json:"adminkey"`
	InvoiceKey string            `json:"inkey,omitempty"`
	WalletID   string            `json:"wallet_id,omitempty"`
	User       string            `json:"user,omitempty"`
}

// Key returns the api key for tier. The choice depends on Version only.
func (c Credentials) Key(tier Tier) string {
	switch {
	case tier == Anonymous:
		return ""
	case tier == Admin:
		return c.AdminKey
	case c.Version >= CredentialsV2:
		return c.AdminKey
	}
	return c.InvoiceKey
}

// build produces the request for endpoint. A non empty suffix is appended as a
// further path segment and must already be escaped by the caller. body is
// ignored for GET and DELETE; []byte and string bodies are sent as is,
// everything else is marshalled to json.
func (c *Client) build(endpoint Endpoint, method string, suffix string, body interface{}, tier Tier) (*network.Request, error) {
	u := strings.TrimSuffix(c.credentials.Server, "/") + string(endpoint)
	if suffix != "" {
		u += "/" + suffix
	}
	r := &network.Request{
		Method: method,
		URL:    u,
		Header: req.Header{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
	}
	if tier != Anonymous {
		r.Header["X-Api-Key"] = c.credentials.Key(tier)
	}
	if body != nil && method != http.MethodGet && method != http.MethodDelete {
		switch b := body.(type) {
		case []byte:
			r.Body = b
		case string:
			r.Body = []byte(b)
		default:
			data, err := json.Marshal(body)
			if err != nil {
				return nil, err
			}
			r.Body = data
		}
	}
	c.logRequest("build", r, tier)
	return r, nil
}

// jsonBody builds a json object from key, value pairs.
func jsonBody(pairs ...interface{}) (string, error) {
	body := "{}"
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return "", fmt.Errorf("json body key %v is not a string", pairs[i])
		}
		var err error
		if body, err = sjson.Set(body, key, pairs[i+1]); err != nil {
			return "", err
		}
	}
	return body, nil
}

// logRequest is the diagnostic sink for constructed requests.
func (c *Client) logRequest(fn string, r *network.Request, tier Tier) {
	if !c.verbose {
		return
	}
	fields := log.Fields{
		"method": r.Method,
		"url":    r.URL,
		"tier":   tier.String(),
	}
	if key, ok := r.Header["X-Api-Key"]; ok {
		fields["key"] = str.MaskKey(key)
	}
	if len(r.Body) > 0 && tier != Anonymous {
		fields["body"] = str.Truncate(string(r.Body), 512)
	}
	c.logger.WithFields(fields).Debugf("[%s] %s %s", fn, r.Method, r.URL)
}
