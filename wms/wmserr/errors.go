package wmserr

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed or incomplete input. It is always
// recoverable by the caller and names the offending field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StateTransitionError reports an operation invoked from a document status
// that does not permit it. The document itself is left untouched.
type StateTransitionError struct {
	DocNo     string `json:"doc_no"`
	Status    string `json:"status"`
	Operation string `json:"operation"`
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("operation %q is not allowed while document %s is in status %q", e.Operation, e.DocNo, e.Status)
}

func NewStateTransition(docNo, status, operation string) *StateTransitionError {
	return &StateTransitionError{DocNo: docNo, Status: status, Operation: operation}
}

// BlockedWarning is the portable shape of a blocking warning carried by
// ApprovalBlockedError, so callers can present the exact rule violated.
type BlockedWarning struct {
	Type     string `json:"type"`
	LineID   uint   `json:"line_id"`
	ItemCode string `json:"item_code"`
	Message  string `json:"message"`
}

// ApprovalBlockedError is returned when approval is attempted while blocking
// warnings exist on the document.
type ApprovalBlockedError struct {
	DocNo    string           `json:"doc_no"`
	Warnings []BlockedWarning `json:"warnings"`
}

func (e *ApprovalBlockedError) Error() string {
	msgs := make([]string, 0, len(e.Warnings))
	for _, w := range e.Warnings {
		msgs = append(msgs, w.Message)
	}
	return fmt.Sprintf("approval of %s blocked: %s", e.DocNo, strings.Join(msgs, "; "))
}

// ZeroIncompleteError is returned when a count is submitted before every
// scoped location has been confirmed empty.
type ZeroIncompleteError struct {
	DocNo            string   `json:"doc_no"`
	MissingLocations []string `json:"missing_locations"`
}

func (e *ZeroIncompleteError) Error() string {
	return fmt.Sprintf("count %s cannot be submitted: locations not zero-confirmed: %s", e.DocNo, strings.Join(e.MissingLocations, ", "))
}

// DuplicateSerialError reports a serial number captured twice within the
// same document. Fatal to the capture call.
type DuplicateSerialError struct {
	SerialNumber string `json:"serial_number"`
}

func (e *DuplicateSerialError) Error() string {
	return fmt.Sprintf("serial number %q already captured in this document", e.SerialNumber)
}

// ConcurrencyConflictError is detected when a transition precondition no
// longer holds at commit time. The caller must retry against fresh state.
type ConcurrencyConflictError struct {
	DocNo    string `json:"doc_no"`
	Expected string `json:"expected_status"`
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("document %s was modified concurrently (expected status %q no longer holds)", e.DocNo, e.Expected)
}

// NotFoundError reports a missing resource by code or id.
type NotFoundError struct {
	Resource string `json:"resource"`
	Code     string `json:"code"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.Code)
}

func NewNotFound(resource, code string) *NotFoundError {
	return &NotFoundError{Resource: resource, Code: code}
}
