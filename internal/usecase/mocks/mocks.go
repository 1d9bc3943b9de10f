// Package mocks provides hand-rolled in-memory implementations of the
// usecase interfaces. Every method can be overridden per test through its
// Func field; defaults behave like a small in-memory store.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/thaliabank/corebank/internal/domain"
	"github.com/thaliabank/corebank/internal/usecase"
)

// MockTransaction records commit/rollback calls.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTransactions and keeps them for
// later inspection.
type MockTransactionManager struct {
	mu  sync.Mutex
	txs []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.txs = append(m.txs, tx)
	return tx, nil
}

// Transactions returns every transaction handed out so far.
func (m *MockTransactionManager) Transactions() []*MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockTransaction(nil), m.txs...)
}

// MockAccountRepository is an in-memory AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc  func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

// Put seeds an account directly.
func (m *MockAccountRepository) Put(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

// MockChartRepository is an in-memory ChartRepository keyed by category.
type MockChartRepository struct {
	mu     sync.RWMutex
	charts map[domain.ChartCategory]*domain.ChartOfAccount

	GetIDByCategoryFunc func(ctx context.Context, tx usecase.Transaction, category domain.ChartCategory) (string, error)
	CreateFunc          func(ctx context.Context, coa *domain.ChartOfAccount) error
	ListFunc            func(ctx context.Context) ([]*domain.ChartOfAccount, error)
}

func NewMockChartRepository() *MockChartRepository {
	return &MockChartRepository{charts: make(map[domain.ChartCategory]*domain.ChartOfAccount)}
}

// Seed creates one chart account per category with a predictable ID.
func (m *MockChartRepository) Seed(categories ...domain.ChartCategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range categories {
		m.charts[c] = &domain.ChartOfAccount{
			ID:       "coa-" + string(c),
			Code:     string(c),
			Name:     string(c),
			Category: c,
			Currency: "USD",
		}
	}
}

func (m *MockChartRepository) GetIDByCategory(ctx context.Context, tx usecase.Transaction, category domain.ChartCategory) (string, error) {
	if m.GetIDByCategoryFunc != nil {
		return m.GetIDByCategoryFunc(ctx, tx, category)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if coa, ok := m.charts[category]; ok {
		return coa.ID, nil
	}
	return "", domain.ErrChartAccountNotFound
}

func (m *MockChartRepository) Create(ctx context.Context, coa *domain.ChartOfAccount) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, coa)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.charts[coa.Category] = coa
	return nil
}

func (m *MockChartRepository) List(ctx context.Context) ([]*domain.ChartOfAccount, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.ChartOfAccount
	for _, coa := range m.charts {
		out = append(out, coa)
	}
	return out, nil
}

// MockJournalRepository is an in-memory JournalRepository.
type MockJournalRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.JournalEntry
	lines   []*domain.JournalLine

	CreateEntryFunc    func(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error
	CreateLinesFunc    func(ctx context.Context, tx usecase.Transaction, debit, credit *domain.JournalLine) error
	GetEntryFunc       func(ctx context.Context, id string) (*domain.EntryWithLines, error)
	ListFunc           func(ctx context.Context, filter usecase.JournalFilter) ([]*domain.EntryWithLines, error)
	FindUnbalancedFunc func(ctx context.Context, limit int) ([]string, error)
}

func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{entries: make(map[string]*domain.JournalEntry)}
}

func (m *MockJournalRepository) CreateEntry(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	if m.CreateEntryFunc != nil {
		return m.CreateEntryFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockJournalRepository) CreateLines(ctx context.Context, tx usecase.Transaction, debit, credit *domain.JournalLine) error {
	if m.CreateLinesFunc != nil {
		return m.CreateLinesFunc(ctx, tx, debit, credit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, debit, credit)
	return nil
}

func (m *MockJournalRepository) GetEntry(ctx context.Context, id string) (*domain.EntryWithLines, error) {
	if m.GetEntryFunc != nil {
		return m.GetEntryFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	out := &domain.EntryWithLines{Entry: *entry}
	for _, l := range m.lines {
		if l.EntryID == id {
			out.Lines = append(out.Lines, *l)
		}
	}
	return out, nil
}

func (m *MockJournalRepository) List(ctx context.Context, filter usecase.JournalFilter) ([]*domain.EntryWithLines, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	var out []*domain.EntryWithLines
	for _, id := range ids {
		e, err := m.GetEntry(ctx, id)
		if err != nil {
			return nil, err
		}
		if filter.AccountID != "" && e.Entry.AccountID != filter.AccountID {
			continue
		}
		if filter.Reference != "" && e.Entry.Reference != filter.Reference {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *MockJournalRepository) FindUnbalanced(ctx context.Context, limit int) ([]string, error) {
	if m.FindUnbalancedFunc != nil {
		return m.FindUnbalancedFunc(ctx, limit)
	}
	m.mu.RLock()
	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	var out []string
	for _, id := range ids {
		e, err := m.GetEntry(ctx, id)
		if err != nil {
			return nil, err
		}
		if !e.Balanced() {
			out = append(out, id)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Entries returns all stored entries.
func (m *MockJournalRepository) Entries() []*domain.JournalEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.JournalEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out
}

// Lines returns all stored lines.
func (m *MockJournalRepository) Lines() []*domain.JournalLine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.JournalLine(nil), m.lines...)
}

// SumLines re-derives the signed sum over an account's lines on one chart
// account, credit positive, debit negative. Mirrors the SQL recompute.
func (m *MockJournalRepository) SumLines(accountID, chartID string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum int64
	for _, l := range m.lines {
		if l.ChartID != chartID {
			continue
		}
		entry, ok := m.entries[l.EntryID]
		if !ok || entry.AccountID != accountID {
			continue
		}
		sum += l.Signed()
	}
	return sum
}

// MockBalanceRepository derives balances from a MockJournalRepository so
// the consistency law can be exercised end to end in tests.
type MockBalanceRepository struct {
	mu       sync.RWMutex
	balances map[string]int64
	journal  *MockJournalRepository

	InitFunc      func(ctx context.Context, tx usecase.Transaction, accountID string) error
	RecomputeFunc func(ctx context.Context, tx usecase.Transaction, accountID, chartID string) (int64, error)
	GetFunc       func(ctx context.Context, accountID string) (int64, error)
	FindDriftFunc func(ctx context.Context) ([]usecase.BalanceDrift, error)
}

func NewMockBalanceRepository(journal *MockJournalRepository) *MockBalanceRepository {
	return &MockBalanceRepository{
		balances: make(map[string]int64),
		journal:  journal,
	}
}

func (m *MockBalanceRepository) Init(ctx context.Context, tx usecase.Transaction, accountID string) error {
	if m.InitFunc != nil {
		return m.InitFunc(ctx, tx, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.balances[accountID]; ok {
		return fmt.Errorf("balance row already exists for %s", accountID)
	}
	m.balances[accountID] = 0
	return nil
}

func (m *MockBalanceRepository) Recompute(ctx context.Context, tx usecase.Transaction, accountID, chartID string) (int64, error) {
	if m.RecomputeFunc != nil {
		return m.RecomputeFunc(ctx, tx, accountID, chartID)
	}
	sum := m.journal.SumLines(accountID, chartID)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[accountID] = sum
	return sum, nil
}

func (m *MockBalanceRepository) Get(ctx context.Context, accountID string) (int64, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	balance, ok := m.balances[accountID]
	if !ok {
		return 0, domain.ErrBalanceNotFound
	}
	return balance, nil
}

func (m *MockBalanceRepository) FindDrift(ctx context.Context) ([]usecase.BalanceDrift, error) {
	if m.FindDriftFunc != nil {
		return m.FindDriftFunc(ctx)
	}
	return nil, nil
}

// MockIdempotencyRepository is an in-memory admission gate keyed by
// (account, reference).
type MockIdempotencyRepository struct {
	mu      sync.Mutex
	records map[string]*domain.IdempotencyRecord

	AdmitFunc       func(ctx context.Context, tx usecase.Transaction, accountID, reference string, amountMinor int64) (bool, error)
	CaptureFunc     func(ctx context.Context, tx usecase.Transaction, accountID, reference string, resp *domain.CapturedResponse) error
	GetResponseFunc func(ctx context.Context, accountID, reference string) (*domain.CapturedResponse, error)
}

func NewMockIdempotencyRepository() *MockIdempotencyRepository {
	return &MockIdempotencyRepository{records: make(map[string]*domain.IdempotencyRecord)}
}

func idemKey(accountID, reference string) string {
	return accountID + "|" + reference
}

func (m *MockIdempotencyRepository) Admit(ctx context.Context, tx usecase.Transaction, accountID, reference string, amountMinor int64) (bool, error) {
	if m.AdmitFunc != nil {
		return m.AdmitFunc(ctx, tx, accountID, reference, amountMinor)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := idemKey(accountID, reference)
	if _, ok := m.records[key]; ok {
		return false, nil
	}
	m.records[key] = &domain.IdempotencyRecord{
		AccountID:   accountID,
		Reference:   reference,
		AmountMinor: amountMinor,
		CreatedAt:   time.Now().UTC(),
	}
	return true, nil
}

func (m *MockIdempotencyRepository) Capture(ctx context.Context, tx usecase.Transaction, accountID, reference string, resp *domain.CapturedResponse) error {
	if m.CaptureFunc != nil {
		return m.CaptureFunc(ctx, tx, accountID, reference, resp)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[idemKey(accountID, reference)]
	if !ok {
		return fmt.Errorf("no admitted record for %s/%s", accountID, reference)
	}
	record.Response = resp
	return nil
}

func (m *MockIdempotencyRepository) GetResponse(ctx context.Context, accountID, reference string) (*domain.CapturedResponse, error) {
	if m.GetResponseFunc != nil {
		return m.GetResponseFunc(ctx, accountID, reference)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[idemKey(accountID, reference)]
	if !ok {
		return nil, domain.ErrReplayNotFound
	}
	if record.Response == nil {
		return nil, domain.ErrReplayPending
	}
	return record.Response, nil
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("id-%04d", m.next)
}

// MockRetrier runs the operation once, no backoff.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu    sync.RWMutex
	items map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{items: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.items[key]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("cache miss: %s", key)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Has reports whether a key is cached.
func (m *MockCache) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[key]
	return ok
}
