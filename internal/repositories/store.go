package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle, which is
// either the connection pool or a single open transaction.
type Store interface {
	Products() ProductRepository
	Franchises() FranchiseRepository
	Carts() CartRepository
	Orders() OrderRepository
	Users() UserRepository

	// Transaction runs fn against a Store bound to a new transaction. The
	// transaction commits when fn returns nil and rolls back otherwise, or when
	// ctx is done before commit. Calling Transaction on a Store handed to fn
	// returns ErrNestedTransaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// GORMStore is the GORM implementation of Store.
type GORMStore struct {
	db   *gorm.DB
	inTx bool
}

// NewGORMStore creates a Store on top of db.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

func (s *GORMStore) Products() ProductRepository     { return NewGORMProductRepository(s.db) }
func (s *GORMStore) Franchises() FranchiseRepository { return NewGORMFranchiseRepository(s.db) }
func (s *GORMStore) Carts() CartRepository           { return NewGORMCartRepository(s.db) }
func (s *GORMStore) Orders() OrderRepository         { return NewGORMOrderRepository(s.db) }
func (s *GORMStore) Users() UserRepository           { return NewGORMUserRepository(s.db) }

// Transaction implements Store.
func (s *GORMStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return ErrNestedTransaction
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GORMStore{db: tx, inTx: true})
	})
}
