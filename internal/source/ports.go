// Package source defines the ports for fetching the raw report tables and
// the transport-level error taxonomy shared by its adapters.
//
// Adapters return tables, not records: all reshaping happens in the report
// package. Malformed requests and responses are the only things that error
// here; malformed data inside a well-formed table never does.
package source

import (
	"context"
	"fmt"

	"refboard/internal/table"
)

// Ports for inbound table adapters.
type (
	ReferralTableReader interface {
		// ReadReferralTable fetches the referral/profile table scoped to
		// the given user id.
		ReadReferralTable(ctx context.Context, userID string) (table.Table, error)
	}

	TransactionTableReader interface {
		// ReadTransactionTable fetches the bonus-transaction table scoped
		// to the given user id.
		ReadTransactionTable(ctx context.Context, userID string) (table.Table, error)
	}

	// TableReader combines both reads; every adapter implements it.
	TableReader interface {
		ReferralTableReader
		TransactionTableReader
	}
)

// StatusError reports a non-success HTTP status from the upstream endpoint.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned HTTP %d for %s", e.StatusCode, e.URL)
}

// DecodeError reports a response body that was not the expected tabular
// JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("upstream response for %s is not tabular JSON: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
