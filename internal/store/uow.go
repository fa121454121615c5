package store

import (
	"context"

	"gorm.io/gorm"
)

// Operation is a deferred step executed inside the unit of work's transaction.
// Returning an error rolls the whole unit back.
type Operation func(tx *gorm.DB) error

// UnitOfWork collects entities to create and custom operations, then applies
// them in a single transaction on Commit. Callbacks registered with
// AfterCommit/AfterRollback run outside the transaction. A unit belongs to
// the call that built it and is not safe for concurrent use.
type UnitOfWork struct {
	root *gorm.DB

	toCreate      []any
	ops           []Operation
	afterCommit   []func()
	afterRollback []func()
}

// NewUnitOfWork starts an empty unit on top of db. No transaction is opened until Commit.
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{root: db}
}

// Add tracks an entity to be inserted on commit. Creates run before operations.
func (u *UnitOfWork) Add(entity any) {
	u.toCreate = append(u.toCreate, entity)
}

// Do queues a custom operation.
func (u *UnitOfWork) Do(op Operation) {
	u.ops = append(u.ops, op)
}

func (u *UnitOfWork) AfterCommit(cb func()) {
	u.afterCommit = append(u.afterCommit, cb)
}

func (u *UnitOfWork) AfterRollback(cb func()) {
	u.afterRollback = append(u.afterRollback, cb)
}

// Commit applies all pending work in one transaction and then discards it,
// whatever the outcome.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	txErr := u.root.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range u.toCreate {
			if err := tx.Create(e).Error; err != nil {
				return err
			}
		}
		for _, op := range u.ops {
			if err := op(tx); err != nil {
				return err
			}
		}
		return nil
	})

	callbacks := u.afterCommit
	if txErr != nil {
		callbacks = u.afterRollback
	}
	u.clear()

	for _, cb := range callbacks {
		runCallback(cb)
	}
	return txErr
}

func (u *UnitOfWork) clear() {
	u.toCreate = nil
	u.ops = nil
	u.afterCommit = nil
	u.afterRollback = nil
}

// a panicking callback must not mask the transaction result
func runCallback(cb func()) {
	defer func() { _ = recover() }()
	cb()
}
