package domain

import "time"

// LineType marks which side of a journal entry a line sits on.
type LineType string

const (
	LineDebit  LineType = "debit"
	LineCredit LineType = "credit"
)

// JournalEntry is the header of one posted financial event.
// Created once, never updated or deleted.
type JournalEntry struct {
	ID            string
	AccountID     string
	TransactionID string
	Reference     string
	Description   string
	CreatedAt     time.Time
}

// JournalLine is one side of a journal entry. Amounts are integer
// minor currency units and always positive; the sign is carried by Type.
type JournalLine struct {
	ID          string
	EntryID     string
	ChartID     string
	AmountMinor int64
	Type        LineType
}

// Signed returns the line amount with the ledger sign convention applied:
// credit adds, debit subtracts.
func (l *JournalLine) Signed() int64 {
	if l.Type == LineDebit {
		return -l.AmountMinor
	}
	return l.AmountMinor
}

// EntryWithLines is a journal entry joined with its lines, as returned
// by the read-side journal browser.
type EntryWithLines struct {
	Entry JournalEntry
	Lines []JournalLine
}

// Balanced reports whether the entry satisfies the double-entry law:
// exactly one debit line and one credit line carrying equal amounts.
func (e *EntryWithLines) Balanced() bool {
	if len(e.Lines) != 2 {
		return false
	}

	var debits, credits int
	for i := range e.Lines {
		switch e.Lines[i].Type {
		case LineDebit:
			debits++
		case LineCredit:
			credits++
		}
	}

	return debits == 1 && credits == 1 && e.Lines[0].AmountMinor == e.Lines[1].AmountMinor
}
