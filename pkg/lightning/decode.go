package lightning

import (
	decodepay "github.com/fiatjaf/ln-decodepay"
)

// Invoice holds the fields of a locally decoded bolt11 invoice.
type Invoice struct {
	PaymentHash        string
	MSatoshi           int64
	Description        string
	DescriptionHash    string
	Payee              string
	CreatedAt          int64
	Expiry             int64
	MinFinalCLTVExpiry int64
}

// DecodeInvoice parses a bolt11 string without asking any service.
func DecodeInvoice(bolt11 string) (Invoice, error) {
	b, err := decodepay.Decodepay(Normalize(bolt11))
	if err != nil {
		return Invoice{}, err
	}
	return Invoice{
		PaymentHash:        b.PaymentHash,
		MSatoshi:           int64(b.MSatoshi),
		Description:        b.Description,
		DescriptionHash:    b.DescriptionHash,
		Payee:              b.Payee,
		CreatedAt:          int64(b.CreatedAt),
		Expiry:             int64(b.Expiry),
		MinFinalCLTVExpiry: int64(b.MinFinalCLTVExpiry),
	}, nil
}
