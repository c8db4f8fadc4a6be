package memory

import (
	"context"
	"fmt"

	"gymbro-be/internal/repository/contract"
	"gymbro-be/internal/repository/unitofwork"
)

// UnitOfWork over a Store. Writes apply immediately; Begin/Commit/Rollback only
// track the transaction boundary, so Rollback does not undo earlier writes.
type UnitOfWork struct {
	store *Store
	inTx  bool
}

var _ unitofwork.UnitOfWork = &UnitOfWork{}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.inTx {
		return fmt.Errorf("transaction already started")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.inTx = true
	return nil
}

func (u *UnitOfWork) Commit() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to commit")
	}
	u.inTx = false
	return nil
}

func (u *UnitOfWork) Rollback() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to rollback")
	}
	u.inTx = false
	return nil
}

func (u *UnitOfWork) UserProfileRepository() contract.UserProfileRepository {
	return NewUserProfileRepository(u.store)
}

func (u *UnitOfWork) MealRepository() contract.MealRepository {
	return NewMealRepository(u.store)
}

func (u *UnitOfWork) WorkoutRepository() contract.WorkoutRepository {
	return NewWorkoutRepository(u.store)
}

type RepositoryFactory struct {
	store *Store
}

func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &RepositoryFactory{store: store}
}

func (f *RepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &UnitOfWork{store: f.store}
}
