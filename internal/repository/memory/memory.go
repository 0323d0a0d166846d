// Package memory implements the repositories in process memory. It backs
// the API when no DATABASE_URL is configured and the service tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"babyboss-sales/internal/model"
	"babyboss-sales/internal/repository"
)

func stamp(base *model.BaseModel, now time.Time) {
	if base.ID == "" {
		base.ID = uuid.NewString()
	}
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}

// table keeps records in insertion order with an id index.
type table[T any] struct {
	mu    sync.RWMutex
	order []string
	rows  map[string]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id string, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) all() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

// Users

type userRepo struct {
	t *table[model.User]
}

func NewUserRepo() repository.UserRepository {
	return &userRepo{t: newTable[model.User]()}
}

func (r *userRepo) FindByUsername(username string) (*model.User, error) {
	for _, u := range r.t.all() {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) FindByID(id string) (*model.User, error) {
	u, ok := r.t.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) FindAll() ([]model.User, error) {
	return r.t.all(), nil
}

func (r *userRepo) Count() (int64, error) {
	return int64(len(r.t.all())), nil
}

func (r *userRepo) Create(user *model.User) error {
	if _, err := r.FindByUsername(user.Username); err == nil {
		return repository.ErrDuplicate
	}
	stamp(&user.BaseModel, time.Now())
	r.t.put(user.ID, *user)
	return nil
}

func (r *userRepo) Update(user *model.User) error {
	user.UpdatedAt = time.Now()
	r.t.put(user.ID, *user)
	return nil
}

func (r *userRepo) Upsert(users []model.User) error {
	for i := range users {
		stamp(&users[i].BaseModel, time.Now())
		r.t.put(users[i].ID, users[i])
	}
	return nil
}

func (r *userRepo) UpdateTokenVersion(userID string, version string) error {
	u, ok := r.t.get(userID)
	if !ok {
		return repository.ErrNotFound
	}
	u.TokenVersion = version
	r.t.put(userID, u)
	return nil
}

func (r *userRepo) UpdateLastSeen(userID string, at time.Time) error {
	u, ok := r.t.get(userID)
	if !ok {
		return repository.ErrNotFound
	}
	u.LastSeenAt = &at
	r.t.put(userID, u)
	return nil
}

// Customers

type customerRepo struct {
	t *table[model.Customer]
}

func NewCustomerRepo() repository.CustomerRepository {
	return &customerRepo{t: newTable[model.Customer]()}
}

func (r *customerRepo) FindByID(id string) (*model.Customer, error) {
	c, ok := r.t.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *customerRepo) FindAll() ([]model.Customer, error) {
	return r.t.all(), nil
}

func (r *customerRepo) Create(customer *model.Customer) error {
	stamp(&customer.BaseModel, time.Now())
	r.t.put(customer.ID, *customer)
	return nil
}

func (r *customerRepo) Update(customer *model.Customer) error {
	customer.UpdatedAt = time.Now()
	r.t.put(customer.ID, *customer)
	return nil
}

func (r *customerRepo) Upsert(customers []model.Customer) error {
	for i := range customers {
		stamp(&customers[i].BaseModel, time.Now())
		r.t.put(customers[i].ID, customers[i])
	}
	return nil
}

// Orders

type orderRepo struct {
	t *table[model.Order]
}

func NewOrderRepo() repository.OrderRepository {
	return &orderRepo{t: newTable[model.Order]()}
}

func cloneOrder(o model.Order) model.Order {
	o.Items = append([]model.IceCreamItem(nil), o.Items...)
	o.Toppings = append([]model.ToppingItem(nil), o.Toppings...)
	return o
}

func (r *orderRepo) FindByID(id string) (*model.Order, error) {
	o, ok := r.t.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (r *orderRepo) FindAll() ([]model.Order, error) {
	orders := r.t.all()
	for i := range orders {
		orders[i] = cloneOrder(orders[i])
	}
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].Date < orders[j].Date })
	return orders, nil
}

func (r *orderRepo) FindByCustomer(customerID string) ([]model.Order, error) {
	all, _ := r.FindAll()
	out := make([]model.Order, 0)
	for _, o := range all {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *orderRepo) CountByCustomer(customerID string) (int64, error) {
	orders, _ := r.FindByCustomer(customerID)
	return int64(len(orders)), nil
}

func (r *orderRepo) Create(order *model.Order) error {
	stamp(&order.BaseModel, time.Now())
	r.t.put(order.ID, cloneOrder(*order))
	return nil
}

func (r *orderRepo) Upsert(orders []model.Order) error {
	for i := range orders {
		if err := r.Create(&orders[i]); err != nil {
			return err
		}
	}
	return nil
}

// Outbox

type syncRepo struct {
	mu      sync.Mutex
	nextID  uint
	entries []model.PendingSync
	state   map[string]string
}

func NewSyncRepo() repository.SyncRepository {
	return &syncRepo{state: make(map[string]string)}
}

func (r *syncRepo) Enqueue(entry *model.PendingSync) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	entry.ID = r.nextID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *syncRepo) All() ([]model.PendingSync, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.PendingSync(nil), r.entries...), nil
}

func (r *syncRepo) Update(entry *model.PendingSync) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].ID == entry.ID {
			r.entries[i] = *entry
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *syncRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *syncRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.entries)), nil
}

func (r *syncRepo) PendingRecordIDs() (map[string]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]struct{}, len(r.entries))
	for _, e := range r.entries {
		out[e.RecordID] = struct{}{}
	}
	return out, nil
}

func (r *syncRepo) GetState(key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.state[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return v, nil
}

func (r *syncRepo) SetState(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state[key] = value
	return nil
}

// Pulls

// pullApplier checks a whole batch before writing it. Once a batch is valid
// the memory stores cannot fail, so a pull lands completely or not at all.
type pullApplier struct {
	mu        sync.Mutex
	users     repository.UserRepository
	customers repository.CustomerRepository
	orders    repository.OrderRepository
	outbox    repository.SyncRepository
}

func NewPullApplier(
	users repository.UserRepository,
	customers repository.CustomerRepository,
	orders repository.OrderRepository,
	outbox repository.SyncRepository,
) repository.PullApplier {
	return &pullApplier{users: users, customers: customers, orders: orders, outbox: outbox}
}

func (a *pullApplier) ApplyPull(batch *repository.PullBatch) error {
	if err := batch.Validate(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.users.Upsert(batch.Users); err != nil {
		return err
	}
	if err := a.customers.Upsert(batch.Customers); err != nil {
		return err
	}
	if err := a.orders.Upsert(batch.Orders); err != nil {
		return err
	}
	return a.outbox.SetState(model.SyncStateLastPull, batch.PulledAt)
}
