package lnbits

import (
	"context"
	"net/http"
	"net/url"
	"sort"

	"github.com/massmux/lnbitskit/pkg/lightning"
)

// CreateInvoice creates an incoming invoice associated with this wallet.
func (c *Client) CreateInvoice(ctx context.Context, params InvoiceParams) (Invoice, error) {
	var inv Invoice
	params.Out = false
	r, err := c.build(EndpointPayments, http.MethodPost, "", params, Admin)
	if err != nil {
		return inv, err
	}
	err = c.call(ctx, r, &inv, "payment_hash", "payment_request")
	return inv, err
}

// CheckInvoice returns whether the invoice with paymentHash was paid.
func (c *Client) CheckInvoice(ctx context.Context, paymentHash string) (PaymentStatus, error) {
	var s PaymentStatus
	r, err := c.build(EndpointPayments, http.MethodGet, url.PathEscape(paymentHash), nil, ReadOnly)
	if err != nil {
		return s, err
	}
	err = c.call(ctx, r, &s, "paid")
	return s, err
}

// PayInvoice pays a bolt11 invoice with funds from the wallet.
func (c *Client) PayInvoice(ctx context.Context, bolt11 string) (PayResult, error) {
	var p PayResult
	r, err := c.build(EndpointPayments, http.MethodPost, "", PaymentParams{Out: true, Bolt11: lightning.Normalize(bolt11)}, Admin)
	if err != nil {
		return p, err
	}
	err = c.call(ctx, r, &p, "payment_hash")
	return p, err
}

// DecodeInvoice asks the service to decode a bolt11 invoice.
func (c *Client) DecodeInvoice(ctx context.Context, bolt11 string) (DecodedInvoice, error) {
	var d DecodedInvoice
	body := struct {
		Data string `json:"data"`
	}{lightning.Normalize(bolt11)}
	r, err := c.build(EndpointDecode, http.MethodPost, "", body, ReadOnly)
	if err != nil {
		return d, err
	}
	err = c.call(ctx, r, &d, "payment_hash", "amount_msat")
	return d, err
}

// DecodeInvoiceOffline decodes a bolt11 invoice locally without a request.
func DecodeInvoiceOffline(bolt11 string) (DecodedInvoice, error) {
	inv, err := lightning.DecodeInvoice(bolt11)
	if err != nil {
		return DecodedInvoice{}, err
	}
	d := DecodedInvoice{
		PaymentHash:        inv.PaymentHash,
		AmountMsat:         MilliSat(inv.MSatoshi),
		Description:        inv.Description,
		Payee:              inv.Payee,
		Date:               inv.CreatedAt,
		Expiry:             inv.Expiry,
		MinFinalCltvExpiry: inv.MinFinalCLTVExpiry,
		RouteHints:         [][]RouteHint{},
	}
	if inv.DescriptionHash != "" {
		d.DescriptionHash = &inv.DescriptionHash
	}
	return d, nil
}

// ListTransactions returns the wallet payments in sat, most recent first.
func (c *Client) ListTransactions(ctx context.Context) ([]Transaction, error) {
	r, err := c.build(EndpointPayments, http.MethodGet, "", nil, ReadOnly)
	if err != nil {
		return nil, err
	}
	var payments []payment
	if err := c.call(ctx, r, &payments); err != nil {
		return nil, err
	}
	return normalizeTransactions(payments), nil
}

// normalizeTransactions converts amounts to sat and sorts by time descending.
// Equal times keep the order of the service.
func normalizeTransactions(payments []payment) []Transaction {
	txs := make([]Transaction, len(payments))
	for i, p := range payments {
		txs[i] = p.transaction()
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Time > txs[j].Time
	})
	return txs
}

// QRCode renders the payment request as png.
func (i Invoice) QRCode(size int) ([]byte, error) {
	return lightning.QRCode("lightning:"+i.PaymentRequest, size)
}
