package domain

import "time"

// HeaderPair is one HTTP header as captured for replay. Order matters:
// replays must be byte-identical to the original response.
type HeaderPair struct {
	Name  string `json:"name"`
	Value []byte `json:"value"`
}

// CapturedResponse is the HTTP-shaped result stored alongside an
// idempotency record and replayed verbatim for duplicate submissions.
type CapturedResponse struct {
	StatusCode int
	Headers    []HeaderPair
	Body       []byte
}

// IdempotencyRecord is the one-time admission ticket for a
// (account, reference) pair. The uniqueness constraint on that pair in the
// durable store is the core's mutual-exclusion primitive. The response
// fields are filled in only once processing completes; a record without
// them marks a request still in flight.
type IdempotencyRecord struct {
	AccountID   string
	Reference   string
	AmountMinor int64
	Response    *CapturedResponse
	CreatedAt   time.Time
}
