package service

import "fmt"

// Each operation returns its own closed error set. The marker methods are
// unexported, so only the variants below can satisfy them and a type switch
// over the listed variants is exhaustive.

// FindByIDError is one of *InvalidIDError, *NotFoundError or *FaultError.
type FindByIDError interface {
	error
	findByIDError()
}

// CreateError is one of *EnumConvertError, *InvalidMailAddressError,
// *InvalidNameError or *FaultError.
type CreateError interface {
	error
	createError()
}

// UpdateError is one of *InvalidIDError, *NotFoundError, *EnumConvertError,
// *InvalidMailAddressError, *InvalidNameError or *FaultError.
type UpdateError interface {
	error
	updateError()
}

// InvalidIDError reports an id that is not a well formed ULID.
type InvalidIDError struct {
	Message string
}

func (e *InvalidIDError) Error() string { return e.Message }
func (*InvalidIDError) findByIDError()  {}
func (*InvalidIDError) updateError()    {}

// NotFoundError reports a user that does not exist, either at lookup or when
// the row vanished before the write.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }
func (*NotFoundError) findByIDError()  {}
func (*NotFoundError) updateError()    {}

// EnumConvertError reports an unknown position.
type EnumConvertError struct {
	Message string
}

func (e *EnumConvertError) Error() string { return e.Message }
func (*EnumConvertError) createError()    {}
func (*EnumConvertError) updateError()    {}

// InvalidMailAddressError reports a malformed mail address.
type InvalidMailAddressError struct{}

func (*InvalidMailAddressError) Error() string { return "invalid mail address" }
func (*InvalidMailAddressError) createError()  {}
func (*InvalidMailAddressError) updateError()  {}

// InvalidNameError reports a blank user name.
type InvalidNameError struct {
	Message string
}

func (e *InvalidNameError) Error() string { return e.Message }
func (*InvalidNameError) createError()    {}
func (*InvalidNameError) updateError()    {}

// FaultError carries an unexpected failure, typically from the database.
// Its message is not meant for clients.
type FaultError struct {
	Err error
}

func (e *FaultError) Error() string { return fmt.Sprintf("unexpected fault: %v", e.Err) }
func (e *FaultError) Unwrap() error { return e.Err }
func (*FaultError) findByIDError()  {}
func (*FaultError) createError()    {}
func (*FaultError) updateError()    {}
