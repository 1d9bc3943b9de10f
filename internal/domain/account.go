package domain

import "time"

// AccountStatus is the lifecycle state of a customer account.
// Transitions are driven by upstream collaborators (KYC, staff action);
// the core only assumes Active has been checked before money moves.
type AccountStatus string

const (
	AccountPending AccountStatus = "pending"
	AccountActive  AccountStatus = "active"
	AccountFrozen  AccountStatus = "frozen"
	AccountClosed  AccountStatus = "closed"
)

// Account represents a customer account attached to a chart account.
type Account struct {
	ID            string
	UserID        string
	AccountNumber string
	IBAN          string
	ChartID       string
	Currency      string
	Status        AccountStatus
	CreatedAt     time.Time
}
