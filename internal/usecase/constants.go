package usecase

const (
	// DefaultJournalPageSize is the default page size for the journal browser.
	DefaultJournalPageSize = 20

	// MaxJournalPageSize caps journal browser pages.
	MaxJournalPageSize = 100

	// UnbalancedScanLimit caps how many violating entries a single
	// consistency check reports.
	UnbalancedScanLimit = 100
)

func balanceCacheKey(accountID string) string {
	return "balance:" + accountID
}
