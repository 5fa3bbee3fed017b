package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIs(t *testing.T) {
	err := fmt.Errorf("pay: %w", ErrWrongLinkKind)
	assert.True(t, stderrors.Is(err, ErrWrongLinkKind))
	assert.True(t, stderrors.Is(err, &ErrWrongLinkKind))
	assert.True(t, stderrors.Is(err, Kind(PreconditionError)))
	assert.False(t, stderrors.Is(err, ErrMissingWalletID))
	assert.False(t, stderrors.Is(err, Kind(ServiceError)))

	service := Service("Invalid key")
	assert.True(t, stderrors.Is(service, Service("Invalid key")))
	assert.False(t, stderrors.Is(service, Service("other")))
	assert.False(t, stderrors.Is(service, Kind(PreconditionError)))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, PreconditionError, CodeOf(ErrMissingWalletID))
	assert.Equal(t, ServiceError, CodeOf(pkgerrors.Wrap(Service("x"), "call")))
	assert.Equal(t, UnknownError, CodeOf(stderrors.New("plain")))
	assert.Equal(t, "precondition", CodeOf(ErrMissingWalletID).String())
}

func TestWithCause(t *testing.T) {
	cause := Create(DecodeError, "bad json")
	err := ErrUnknown.WithCause(cause)
	assert.Equal(t, "unknown error", err.Error())
	assert.True(t, stderrors.Is(err, ErrUnknown))
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, ServiceError, CodeOf(err))
}

func TestNew(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := New(TransportError, cause)
	assert.Equal(t, cause.Error(), err.Error())
	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, UnknownKind("channel").Error(), "channel")
}
