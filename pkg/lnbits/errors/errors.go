package errors

import stderrors "errors"

// New wraps err with the given code. The message is taken from err.
func New(code ErrorType, err error) LnbitsError {
	return LnbitsError{Err: err, Message: err.Error(), Code: code}
}

// Create returns an error of the given code carrying message.
func Create(code ErrorType, message string) LnbitsError {
	return LnbitsError{Err: stderrors.New(message), Message: message, Code: code}
}

// Service returns the error for an envelope with a detail sent by the service.
func Service(detail string) LnbitsError {
	return Create(ServiceError, detail)
}

type LnbitsError struct {
	Message string    `json:"message"`
	Err     error     `json:"-"`
	Code    ErrorType `json:"code"`
}

func (e LnbitsError) Error() string {
	return e.Message
}

func (e LnbitsError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an LnbitsError of the same code. A target
// without a message matches every error of its code.
func (e LnbitsError) Is(target error) bool {
	var t LnbitsError
	switch v := target.(type) {
	case LnbitsError:
		t = v
	case *LnbitsError:
		if v == nil {
			return false
		}
		t = *v
	default:
		return false
	}
	if t.Code != e.Code {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// WithCause keeps code and message but records the underlying cause.
func (e LnbitsError) WithCause(err error) LnbitsError {
	e.Err = err
	return e
}

// CodeOf returns the code of the first LnbitsError in err's chain.
func CodeOf(err error) ErrorType {
	var e LnbitsError
	if stderrors.As(err, &e) {
		return e.Code
	}
	return UnknownError
}

// Kind matches any error of the given code with errors.Is.
func Kind(code ErrorType) LnbitsError {
	return LnbitsError{Code: code}
}
