package lnbits

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/fiatjaf/go-lnurl"
	"github.com/massmux/lnbitskit/pkg/lightning"
	"github.com/massmux/lnbitskit/pkg/lnbits/errors"
	"github.com/massmux/lnbitskit/pkg/network"
	"github.com/tidwall/gjson"
)

type LNURLKind string

const (
	KindPay      LNURLKind = "pay"
	KindWithdraw LNURLKind = "withdraw"
	KindAuth     LNURLKind = "auth"
)

// LNURLPay is the scan result of a pay link.
type LNURLPay struct {
	Domain          string   `json:"domain"`
	Callback        string   `json:"callback"`
	MinSendable     MilliSat `json:"minSendable"`
	MaxSendable     MilliSat `json:"maxSendable"`
	Metadata        string   `json:"metadata"`
	DescriptionHash string   `json:"description_hash"`
	Description     string   `json:"description"`
	CommentAllowed  int      `json:"commentAllowed"`
	Fixed           bool     `json:"fixed"`
}

// LNURLWithdraw is the scan result of a withdraw link.
type LNURLWithdraw struct {
	Domain             string   `json:"domain"`
	Callback           string   `json:"callback"`
	K1                 string   `json:"k1"`
	MinWithdrawable    MilliSat `json:"minWithdrawable"`
	MaxWithdrawable    MilliSat `json:"maxWithdrawable"`
	DefaultDescription string   `json:"defaultDescription"`
	Fixed              bool     `json:"fixed"`
}

// LNURLAuth is the scan result of a login link.
type LNURLAuth struct {
	Domain   string `json:"domain"`
	Callback string `json:"callback"`
	Pubkey   string `json:"pubkey"`
}

// DecodedLNURL is the kind independent view of a scanned lnurl. Fields a kind
// does not define are nil.
type DecodedLNURL struct {
	LNURL           string    `json:"lnurl"`
	Kind            LNURLKind `json:"kind"`
	Min             *Sat      `json:"min,omitempty"`
	Max             *Sat      `json:"max,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Domain          string    `json:"domain"`
	Callback        *string   `json:"callback,omitempty"`
	DescriptionHash *string   `json:"description_hash,omitempty"`
	K1              *string   `json:"k1,omitempty"`

	// bounds as sent by the service, Min and Max are truncated
	minMsat, maxMsat MilliSat
}

// inRange reports whether amount lies within the msat bounds of the link.
func (d DecodedLNURL) inRange(amount Sat) bool {
	return amount > 0 && amount.MilliSats() >= d.minMsat && amount.MilliSats() <= d.maxMsat
}

// ResolveLNURL scans an lnurl (bech32 or lightning address) through the service.
// The kind is read first, then only the schema of that kind is decoded.
func (c *Client) ResolveLNURL(ctx context.Context, raw string) (DecodedLNURL, error) {
	code := lightning.Normalize(raw)
	r, err := c.build(EndpointLNURLScan, http.MethodGet, url.PathEscape(code), nil, ReadOnly)
	if err != nil {
		return DecodedLNURL{}, err
	}
	data, status, err := c.send(ctx, r)
	if err != nil {
		return DecodedLNURL{}, err
	}
	if status >= 300 {
		return DecodedLNURL{}, errorEnvelope(data, nil)
	}
	return decodeLNURL(raw, data)
}

// decodeLNURL is the two phase decode of a scan response. A body that does not
// match the schema of its kind falls back to the error envelope.
func decodeLNURL(code string, data []byte) (DecodedLNURL, error) {
	kind := gjson.GetBytes(data, "kind")
	if !kind.Exists() || kind.Type != gjson.String {
		if detail := gjson.GetBytes(data, "detail"); detail.Type == gjson.String {
			return DecodedLNURL{}, errors.Service(detail.String())
		}
		return DecodedLNURL{}, errors.ErrMissingKind
	}
	switch LNURLKind(kind.String()) {
	case KindPay:
		var p LNURLPay
		if err := decodeJSON(data, &p, "callback", "minSendable", "maxSendable"); err != nil {
			return DecodedLNURL{}, errorEnvelope(data, err)
		}
		return p.decoded(code), nil
	case KindWithdraw:
		var w LNURLWithdraw
		if err := decodeJSON(data, &w, "callback", "k1", "minWithdrawable", "maxWithdrawable"); err != nil {
			return DecodedLNURL{}, errorEnvelope(data, err)
		}
		return w.decoded(code), nil
	case KindAuth:
		var a LNURLAuth
		if err := decodeJSON(data, &a, "callback"); err != nil {
			return DecodedLNURL{}, errorEnvelope(data, err)
		}
		return a.decoded(code), nil
	}
	return DecodedLNURL{}, errors.UnknownKind(kind.String())
}

func (p LNURLPay) decoded(code string) DecodedLNURL {
	d := DecodedLNURL{
		LNURL:       code,
		Kind:        KindPay,
		Min:         satPtr(p.MinSendable),
		Max:         satPtr(p.MaxSendable),
		Description: &p.Description,
		Domain:      p.Domain,
		Callback:    &p.Callback,
		minMsat:     p.MinSendable,
		maxMsat:     p.MaxSendable,
	}
	if p.DescriptionHash != "" {
		d.DescriptionHash = &p.DescriptionHash
	}
	return d
}

func (w LNURLWithdraw) decoded(code string) DecodedLNURL {
	return DecodedLNURL{
		LNURL:       code,
		Kind:        KindWithdraw,
		Min:         satPtr(w.MinWithdrawable),
		Max:         satPtr(w.MaxWithdrawable),
		Description: &w.DefaultDescription,
		Domain:      w.Domain,
		Callback:    &w.Callback,
		K1:          &w.K1,
		minMsat:     w.MinWithdrawable,
		maxMsat:     w.MaxWithdrawable,
	}
}

func (a LNURLAuth) decoded(code string) DecodedLNURL {
	return DecodedLNURL{
		LNURL:    code,
		Kind:     KindAuth,
		Domain:   a.Domain,
		Callback: &a.Callback,
	}
}

// resolveKind resolves raw and guards that it is of the wanted kind.
func (c *Client) resolveKind(ctx context.Context, raw string, kind LNURLKind) (DecodedLNURL, error) {
	d, err := c.ResolveLNURL(ctx, raw)
	if err != nil {
		return d, err
	}
	if d.Kind != kind {
		c.logger.Warnf("[LNURL] %s resolved to %s, wanted %s", d.Domain, d.Kind, kind)
		return d, errors.ErrWrongLinkKind
	}
	return d, nil
}

// PayLNURL pays amount sat to an lnurl-pay link or lightning address.
func (c *Client) PayLNURL(ctx context.Context, raw string, amount Sat) (PayResult, error) {
	var p PayResult
	d, err := c.resolveKind(ctx, raw, KindPay)
	if err != nil {
		return p, err
	}
	if d.DescriptionHash == nil {
		return p, errors.ErrMissingDescriptionHash
	}
	if d.Callback == nil || *d.Callback == "" {
		return p, errors.ErrMissingCallback
	}
	if !d.inRange(amount) {
		return p, errors.ErrAmountOutOfRange
	}
	body, err := jsonBody(
		"description_hash", *d.DescriptionHash,
		"callback", *d.Callback,
		"amount", int64(amount.MilliSats()),
		"comment", "",
		"description", "",
	)
	if err != nil {
		return p, err
	}
	r, err := c.build(EndpointPayLNURL, http.MethodPost, "", body, Admin)
	if err != nil {
		return p, err
	}
	err = c.call(ctx, r, &p, "payment_hash")
	return p, err
}

// WithdrawLNURL withdraws from an lnurl-withdraw link into this wallet. A nil
// amount withdraws the maximum of the link. Concurrent withdrawals from a
// single-use link race at the service.
func (c *Client) WithdrawLNURL(ctx context.Context, raw string, amount *Sat) (Invoice, error) {
	d, err := c.resolveKind(ctx, raw, KindWithdraw)
	if err != nil {
		return Invoice{}, err
	}
	if d.Callback == nil || *d.Callback == "" {
		return Invoice{}, errors.ErrMissingCallback
	}
	value := *d.Max
	if amount != nil {
		value = *amount
	}
	if !d.inRange(value) {
		return Invoice{}, errors.ErrAmountOutOfRange
	}
	memo := ""
	if d.Description != nil {
		memo = *d.Description
	}
	inv, err := c.CreateInvoice(ctx, InvoiceParams{Amount: value, Memo: memo})
	if err != nil {
		return Invoice{}, err
	}
	callback, err := url.Parse(*d.Callback)
	if err != nil {
		return inv, errors.New(errors.PreconditionError, err)
	}
	q := callback.Query()
	if q.Get("k1") == "" && d.K1 != nil {
		q.Set("k1", *d.K1)
	}
	q.Set("pr", inv.PaymentRequest)
	callback.RawQuery = q.Encode()

	// the callback lives on a foreign host, it never sees our keys
	r := &network.Request{
		Method: http.MethodGet,
		URL:    callback.String(),
		Header: map[string]string{"Content-Type": "application/json"},
	}
	c.logRequest("WithdrawLNURL", r, Anonymous)
	data, status, err := c.send(ctx, r)
	if err != nil {
		return inv, err
	}
	if err := checkNoDetail(data, status); err != nil {
		return inv, err
	}
	var res lnurl.LNURLResponse
	if json.Unmarshal(data, &res) == nil && res.Status == "ERROR" {
		return inv, errors.Service(res.Reason)
	}
	return inv, nil
}

// AuthLNURL logs into an lnurl-auth service with this wallet's linking key.
// The signing is done by the service.
func (c *Client) AuthLNURL(ctx context.Context, raw string) error {
	d, err := c.resolveKind(ctx, raw, KindAuth)
	if err != nil {
		return err
	}
	if d.Callback == nil || *d.Callback == "" {
		return errors.ErrMissingCallback
	}
	body, err := jsonBody("callback", *d.Callback)
	if err != nil {
		return err
	}
	r, err := c.build(EndpointLNURLAuth, http.MethodPost, "", body, Admin)
	if err != nil {
		return err
	}
	return c.expectNoDetail(ctx, r)
}
