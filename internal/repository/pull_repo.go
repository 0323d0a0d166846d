package repository

import (
	"errors"
	"fmt"

	"babyboss-sales/internal/model"

	"gorm.io/gorm"
)

// ErrInvalidRecord is returned when a pulled record cannot be stored.
var ErrInvalidRecord = errors.New("invalid record")

// PullBatch is everything one sheet pull writes.
type PullBatch struct {
	Users     []model.User
	Customers []model.Customer
	Orders    []model.Order
	PulledAt  string
}

// Validate rejects a batch holding records the store would refuse: missing
// ids, orders without a customer or date, and one username on two users.
func (b *PullBatch) Validate() error {
	owner := make(map[string]string, len(b.Users))
	for _, u := range b.Users {
		if u.ID == "" || u.Username == "" {
			return fmt.Errorf("%w: user %q has no id or username", ErrInvalidRecord, u.ID)
		}
		if id, ok := owner[u.Username]; ok && id != u.ID {
			return fmt.Errorf("%w: username %q used by %s and %s", ErrInvalidRecord, u.Username, id, u.ID)
		}
		owner[u.Username] = u.ID
	}
	for _, c := range b.Customers {
		if c.ID == "" {
			return fmt.Errorf("%w: customer without id", ErrInvalidRecord)
		}
	}
	for _, o := range b.Orders {
		if o.ID == "" || o.CustomerID == "" || o.Date == "" {
			return fmt.Errorf("%w: order %q needs an id, customer and date", ErrInvalidRecord, o.ID)
		}
	}
	return nil
}

// PullApplier writes a pull batch. Either every record and the last pull
// marker are stored, or none is.
type PullApplier interface {
	ApplyPull(batch *PullBatch) error
}

type pullApplier struct {
	db *gorm.DB
}

func NewPullApplier(db *gorm.DB) PullApplier {
	return &pullApplier{db}
}

func (r *pullApplier) ApplyPull(batch *PullBatch) error {
	if err := batch.Validate(); err != nil {
		return err
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := NewUserRepo(tx).Upsert(batch.Users); err != nil {
			return err
		}
		if err := NewCustomerRepo(tx).Upsert(batch.Customers); err != nil {
			return err
		}
		if err := NewOrderRepo(tx).Upsert(batch.Orders); err != nil {
			return err
		}
		return NewSyncRepo(tx).SetState(model.SyncStateLastPull, batch.PulledAt)
	})
	return translate(err)
}
