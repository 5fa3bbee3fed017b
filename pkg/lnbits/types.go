package lnbits

import (
	"encoding/json"
	"fmt"
)

// Balance is the wallet as returned by /api/v1/wallet.
type Balance struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	BalanceMsat MilliSat `json:"balance"`
}

func (b Balance) Sats() Sat {
	return b.BalanceMsat.Sats()
}

type Invoice struct {
	PaymentHash    string `json:"payment_hash"`
	PaymentRequest string `json:"payment_request"`
	CheckingID     string `json:"checking_id"`
}

type InvoiceParams struct {
	Out             bool   `json:"out"`                        // false for incoming invoices
	Amount          Sat    `json:"amount"`                     // in sat, the service default unit
	Memo            string `json:"memo"`                       // the invoice memo.
	Expiry          int64  `json:"expiry,omitempty"`           // seconds
	Webhook         string `json:"webhook,omitempty"`          // the webhook to fire back to when payment is received.
	DescriptionHash string `json:"description_hash,omitempty"` // the invoice description hash.
}

type PaymentParams struct {
	Out    bool   `json:"out"`
	Bolt11 string `json:"bolt11"`
}

type PayResult struct {
	PaymentHash string `json:"payment_hash"`
	CheckingID  string `json:"checking_id"`
}

type PaymentStatus struct {
	Paid     bool   `json:"paid"`
	Preimage string `json:"preimage"`
}

// DecodedInvoice is the service's view of a bolt11 string.
type DecodedInvoice struct {
	PaymentHash        string        `json:"payment_hash"`
	AmountMsat         MilliSat      `json:"amount_msat"`
	Description        string        `json:"description"`
	DescriptionHash    *string       `json:"description_hash"`
	Payee              string        `json:"payee"`
	Date               int64         `json:"date"`
	Expiry             int64         `json:"expiry"`
	Secret             string        `json:"secret"`
	RouteHints         [][]RouteHint `json:"route_hints"`
	MinFinalCltvExpiry int64         `json:"min_final_cltv_expiry"`
}

// Amount is the invoice amount in sat, truncated.
func (d DecodedInvoice) Amount() Sat {
	return d.AmountMsat.Sats()
}

// RouteHint is an entry of a route hint list: either an integer or a string.
type RouteHint struct {
	Int    *int64
	String *string
}

func IntRouteHint(i int64) RouteHint {
	return RouteHint{Int: &i}
}

func StringRouteHint(s string) RouteHint {
	return RouteHint{String: &s}
}

func (h *RouteHint) UnmarshalJSON(data []byte) error {
	var i int64
	if err := json.Unmarshal(data, &i); err == nil {
		h.Int, h.String = &i, nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		h.Int, h.String = nil, &s
		return nil
	}
	return fmt.Errorf("route hint %s is neither integer nor string", string(data))
}

func (h RouteHint) MarshalJSON() ([]byte, error) {
	switch {
	case h.Int != nil:
		return json.Marshal(*h.Int)
	case h.String != nil:
		return json.Marshal(*h.String)
	}
	return nil, fmt.Errorf("empty route hint")
}

// Transaction is a payment of the wallet. Amounts are in sat.
type Transaction struct {
	CheckingID  string   `json:"checking_id"`
	Pending     bool     `json:"pending"`
	Amount      Sat      `json:"amount"`
	Fee         MilliSat `json:"fee"`
	Memo        string   `json:"memo"`
	Time        int64    `json:"time"`
	Bolt11      string   `json:"bolt11"`
	Preimage    string   `json:"preimage"`
	PaymentHash string   `json:"payment_hash"`
	Expiry      int64    `json:"expiry"`
	WalletID    string   `json:"wallet_id"`
}

// payment is the wire form of Transaction, amount in msat.
type payment struct {
	CheckingID  string   `json:"checking_id"`
	Pending     bool     `json:"pending"`
	Amount      MilliSat `json:"amount"`
	Fee         MilliSat `json:"fee"`
	Memo        string   `json:"memo"`
	Time        int64    `json:"time"`
	Bolt11      string   `json:"bolt11"`
	Preimage    string   `json:"preimage"`
	PaymentHash string   `json:"payment_hash"`
	Expiry      int64    `json:"expiry"`
	WalletID    string   `json:"wallet_id"`
}

func (p payment) transaction() Transaction {
	return Transaction{
		CheckingID:  p.CheckingID,
		Pending:     p.Pending,
		Amount:      p.Amount.Sats(),
		Fee:         p.Fee,
		Memo:        p.Memo,
		Time:        p.Time,
		Bolt11:      p.Bolt11,
		Preimage:    p.Preimage,
		PaymentHash: p.PaymentHash,
		Expiry:      p.Expiry,
		WalletID:    p.WalletID,
	}
}
