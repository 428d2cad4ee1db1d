package db

import (
	"fmt"
	"sync"

	"bluecarbon/internal/models"
)

type memoryLedger struct {
	mu           sync.RWMutex
	tokens       []models.CarbonToken
	transactions []models.Transaction
}

func NewMemoryLedger(tokens []models.CarbonToken, transactions []models.Transaction) LedgerDB {
	return &memoryLedger{
		tokens:       append([]models.CarbonToken(nil), tokens...),
		transactions: append([]models.Transaction(nil), transactions...),
	}
}

func (l *memoryLedger) ListTokens() []models.CarbonToken {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.CarbonToken(nil), l.tokens...)
}

func (l *memoryLedger) GetToken(id string) (models.CarbonToken, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, t := range l.tokens {
		if t.ID == id {
			return t, nil
		}
	}
	return models.CarbonToken{}, fmt.Errorf("token %q: %w", id, ErrNotFound)
}

func (l *memoryLedger) DecreaseBalance(id string, amount float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.tokens {
		if l.tokens[i].ID != id {
			continue
		}
		if l.tokens[i].Balance < amount {
			return fmt.Errorf("token %q has %v, need %v: %w", id, l.tokens[i].Balance, amount, ErrInsufficientBalance)
		}
		l.tokens[i].Balance -= amount
		return nil
	}
	return fmt.Errorf("token %q: %w", id, ErrNotFound)
}

func (l *memoryLedger) PrependTransaction(tx models.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transactions = append([]models.Transaction{tx}, l.transactions...)
}

func (l *memoryLedger) SetTransactionStatus(hash string, status models.TransactionStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.transactions {
		if l.transactions[i].Hash == hash {
			l.transactions[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("transaction %s: %w", hash, ErrNotFound)
}

func (l *memoryLedger) GetTransaction(hash string) (models.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, tx := range l.transactions {
		if tx.Hash == hash {
			return tx, nil
		}
	}
	return models.Transaction{}, fmt.Errorf("transaction %s: %w", hash, ErrNotFound)
}

func (l *memoryLedger) ListTransactions() []models.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.Transaction(nil), l.transactions...)
}

type memorySessionDB struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewMemorySessionDB() SessionDB {
	return &memorySessionDB{sessions: make(map[string]models.Session)}
}

func (m *memorySessionDB) CreateSession(s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[s.ID]; exists {
		return fmt.Errorf("session %s already exists", s.ID)
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *memorySessionDB) GetSession(id string) (models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return models.Session{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return s, nil
}

func (m *memorySessionDB) DeleteSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	delete(m.sessions, id)
	return nil
}
