package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotModified is returned by list calls answered with 304. Callers
	// keep their cached collection.
	ErrNotModified = errors.New("not modified")

	// ErrUnauthenticated is wrapped by failures raised because no bearer
	// credential is available. No request is sent in that case.
	ErrUnauthenticated = errors.New("no API credential available")

	// ErrResponseTooLarge is wrapped by failures raised for response bodies
	// over the client's size limit.
	ErrResponseTooLarge = errors.New("response too large")
)

// Kind classifies a Failure.
type Kind int

const (
	KindUnauthenticated Kind = iota + 1
	KindRemote
	KindMapping
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindRemote:
		return "remote_error"
	case KindMapping:
		return "mapping_error"
	case KindNetwork:
		return "network_error"
	default:
		return "unknown"
	}
}

// Failure is the typed error returned by every resource call.
type Failure struct {
	// Op is the operation that failed (e.g. "invoices.list").
	Op string

	Kind Kind

	// Status is the HTTP status for KindRemote failures.
	Status int

	// Message is human readable. For remote errors it is the server's
	// message when the response carried one.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Status != 0 {
		return fmt.Sprintf("api: %s failed (status %d): %s", f.Op, f.Status, f.Message)
	}
	return fmt.Sprintf("api: %s failed: %s", f.Op, f.Message)
}

// Unwrap returns the underlying error for error unwrapping.
func (f *Failure) Unwrap() error {
	return f.Err
}

func unauthenticated(op string) *Failure {
	return &Failure{
		Op:      op,
		Kind:    KindUnauthenticated,
		Message: "not signed in: no API token configured",
		Err:     ErrUnauthenticated,
	}
}

func remoteFailure(op string, status int, serverMessage string) *Failure {
	msg := serverMessage
	if msg == "" {
		msg = statusMessage(status)
	}
	return &Failure{Op: op, Kind: KindRemote, Status: status, Message: msg}
}

func networkFailure(op string, err error) *Failure {
	return &Failure{Op: op, Kind: KindNetwork, Message: "network error: " + err.Error(), Err: err}
}

func tooLarge(op string, status int, limit int64) *Failure {
	return &Failure{
		Op:      op,
		Kind:    KindNetwork,
		Status:  status,
		Message: fmt.Sprintf("response too large: body exceeds %d bytes", limit),
		Err:     ErrResponseTooLarge,
	}
}

func mappingFailure(op string, err error) *Failure {
	return &Failure{Op: op, Kind: KindMapping, Message: err.Error(), Err: err}
}

func statusMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("request failed with status %d (%s)", status, text)
	}
	return fmt.Sprintf("request failed with status %d", status)
}

// Message returns the text to show a user for err: the failure message for
// a Failure, the error text otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return err.Error()
}

// KindOf returns the kind of the Failure in err's chain, or 0.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return 0
}
