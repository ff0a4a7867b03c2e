// Package errors provides the two user-facing error kinds of the approval
// form: validation failures that never reach the network, and transport
// failures from either backend endpoint.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ==========================
// 1. Codes and Kinds
// ==========================

// ErrorCode identifies a specific failure.
type ErrorCode string

const (
	ErrCodeAddressRequired       ErrorCode = "ADDRESS_REQUIRED"
	ErrCodeStructureTypeRequired ErrorCode = "STRUCTURE_TYPE_REQUIRED"
	ErrCodeApprovalFetchFailed   ErrorCode = "APPROVAL_FETCH_FAILED"
	ErrCodePDFDownloadFailed     ErrorCode = "PDF_DOWNLOAD_FAILED"
)

// Kind groups codes into what the form does about them.
type Kind string

const (
	KindValidation Kind = "validation"
	KindTransport  Kind = "transport"
)

// Field names reported by validation errors.
const (
	FieldAddress       = "address"
	FieldStructureType = "structureType"
)

// User-visible messages.
const (
	MsgAddressRequired       = "Please enter a valid property address"
	MsgStructureTypeRequired = "Please select a structure type"
	MsgApprovalFetchFailed   = "Failed to fetch approval requirements"
	MsgPDFGenerateFailed     = "Failed to generate PDF"
	MsgPDFDownloadPrefix     = "Failed to download PDF: "
)

// ==========================
// 2. Standard Error Type
// ==========================

// StandardError is a user-facing error. Message is what the view shows;
// Details and Cause are for logs.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Kind      Kind      `json:"kind"`
	Field     string    `json:"field,omitempty"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Cause     error     `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return e.Message
}

func (e *StandardError) Unwrap() error {
	return e.Cause
}

// ==========================
// 3. Constructors
// ==========================

// NewAddressRequiredError is returned for an empty or whitespace-only address.
func NewAddressRequiredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAddressRequired,
		Kind:      KindValidation,
		Field:     FieldAddress,
		Message:   MsgAddressRequired,
		Timestamp: time.Now().UTC(),
	}
}

// NewStructureTypeRequiredError is returned when no known structure type was selected.
func NewStructureTypeRequiredError(got string) *StandardError {
	details := "no structure type selected"
	if got != "" {
		details = fmt.Sprintf("unknown structure type %q", got)
	}
	return &StandardError{
		Code:      ErrCodeStructureTypeRequired,
		Kind:      KindValidation,
		Field:     FieldStructureType,
		Message:   MsgStructureTypeRequired,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewApprovalFetchFailedError collapses any check-approval failure into the
// generic message.
func NewApprovalFetchFailedError(cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeApprovalFetchFailed,
		Kind:      KindTransport,
		Message:   MsgApprovalFetchFailed,
		Details:   causeString(cause),
		Cause:     cause,
		Timestamp: time.Now().UTC(),
	}
}

// NewPDFDownloadFailedError prefixes the underlying cause.
func NewPDFDownloadFailedError(cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodePDFDownloadFailed,
		Kind:      KindTransport,
		Message:   MsgPDFDownloadPrefix + causeString(cause),
		Details:   causeString(cause),
		Cause:     cause,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// As extracts a *StandardError from err's chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Kind == KindValidation
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Kind == KindTransport
}

// UserMessage returns the text to show for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if stdErr, ok := As(err); ok {
		return stdErr.Message
	}
	return err.Error()
}

// LogFields flattens err for structured logging.
func LogFields(err error) map[string]interface{} {
	stdErr, ok := As(err)
	if !ok {
		return map[string]interface{}{"error": causeString(err)}
	}
	fields := map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"errorKind": string(stdErr.Kind),
		"message":   stdErr.Message,
	}
	if stdErr.Field != "" {
		fields["field"] = stdErr.Field
	}
	if stdErr.Details != "" {
		fields["details"] = stdErr.Details
	}
	return fields
}

func causeString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
