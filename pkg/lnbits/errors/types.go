package errors

import "fmt"

type ErrorType int

const (
	UnknownError ErrorType = iota
	TransportError
	DecodeError
	ServiceError
	PreconditionError
)

func (t ErrorType) String() string {
	switch t {
	case TransportError:
		return "transport"
	case DecodeError:
		return "decode"
	case ServiceError:
		return "service"
	case PreconditionError:
		return "precondition"
	}
	return "unknown"
}

var (
	// ErrUnknown is returned when neither the expected schema nor an error
	// envelope with a detail could be decoded.
	ErrUnknown                = Create(ServiceError, "unknown error")
	ErrWrongLinkKind          = Create(PreconditionError, "wrong link kind")
	ErrMissingWalletID        = Create(PreconditionError, "missing walletId")
	ErrMissingCallback        = Create(PreconditionError, "missing callback")
	ErrMissingDescriptionHash = Create(PreconditionError, "missing description hash")
	ErrAmountOutOfRange       = Create(PreconditionError, "amount out of range")
	ErrMissingKind            = Create(DecodeError, "missing lnurl kind")
)

// UnknownKind is the decode error for a discriminator outside pay, withdraw and auth.
func UnknownKind(kind string) LnbitsError {
	return Create(DecodeError, fmt.Sprintf("unknown lnurl kind %q", kind))
}
