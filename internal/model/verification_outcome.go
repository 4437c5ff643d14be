package model

import "encoding/json"

// VerificationOutcome is the normalized result of asking a chain data
// provider about one claimed transaction.
//
// Confirmed is only set when the provider reports the transaction as
// settled, the destination matched and the confirmation depth reached the
// configured threshold. Meta carries the raw provider payload verbatim for
// audit purposes and is never interpreted further.
type VerificationOutcome struct {
	Confirmed      bool
	Confirmations  int64
	MatchedAddress bool
	Amount         *float64
	Meta           json.RawMessage
}
