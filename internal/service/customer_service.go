package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"babyboss-sales/internal/cache"
	"babyboss-sales/internal/events"
	"babyboss-sales/internal/model"
	"babyboss-sales/internal/report"
	"babyboss-sales/internal/repository"
	"babyboss-sales/internal/sheets"
	"babyboss-sales/pkg/validator"
)

type CustomerService interface {
	GetCustomers(actorID string) ([]model.Customer, error)
	GetCustomer(actorID, id string) (*CustomerDetail, error)
	CreateCustomer(ctx context.Context, actorID string, req *CustomerRequest) (*model.Customer, SyncOutcome, error)
	UpdateCustomer(ctx context.Context, actorID, id string, req *CustomerRequest) (*model.Customer, SyncOutcome, error)
}

// CustomerRequest creates or updates a customer. The address is taken
// whole, or joined from Street, Ward, District and City when empty.
// OwnerID reassigns the customer on update.
type CustomerRequest struct {
	Name        string `json:"name" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Position    string `json:"position"`
	Phone       string `json:"phone" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	Address     string `json:"address"`
	Street      string `json:"street"`
	Ward        string `json:"ward"`
	District    string `json:"district"`
	City        string `json:"city"`
	Note        string `json:"note"`
	RepName     string `json:"repName"`
	RepPhone    string `json:"repPhone"`
	RepPosition string `json:"repPosition"`
	OwnerID     string `json:"createdBy"`
}

func (r *CustomerRequest) address() string {
	if a := strings.TrimSpace(r.Address); a != "" {
		return a
	}
	return model.JoinAddress(r.Street, r.Ward, r.District, r.City)
}

// CustomerDetail is a customer with its purchase history. Stats is nil
// when the customer never ordered.
type CustomerDetail struct {
	Customer   model.Customer        `json:"customer"`
	Stats      *report.CustomerStats `json:"stats"`
	FirstOrder bool                  `json:"firstOrder"`
}

type customerService struct {
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
	pusher       Pusher
	reports      cache.ReportCache
	notifier     events.Notifier
	log          *zap.Logger
	loc          *time.Location
	now          func() time.Time
}

func NewCustomerService(
	userRepo repository.UserRepository,
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
	pusher Pusher,
	reports cache.ReportCache,
	notifier events.Notifier,
	log *zap.Logger,
	loc *time.Location,
) CustomerService {
	return &customerService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		pusher:       pusher,
		reports:      reports,
		notifier:     notifier,
		log:          log,
		loc:          loc,
		now:          time.Now,
	}
}

func (s *customerService) GetCustomers(actorID string) ([]model.Customer, error) {
	scope, err := loadScope(s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	all, err := s.customerRepo.FindAll()
	if err != nil {
		return nil, err
	}
	return scope.Customers(all), nil
}

func (s *customerService) GetCustomer(actorID, id string) (*CustomerDetail, error) {
	c, err := s.visibleCustomer(actorID, id)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindByCustomer(id)
	if err != nil {
		return nil, err
	}
	return &CustomerDetail{
		Customer:   *c,
		Stats:      report.StatsForCustomer(id, orders, s.now().In(s.loc)),
		FirstOrder: len(orders) == 0,
	}, nil
}

// visibleCustomer loads a customer the actor may see. Hidden customers are
// reported as missing.
func (s *customerService) visibleCustomer(actorID, id string) (*model.Customer, error) {
	scope, err := loadScope(s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	c, err := s.customerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	if !scope.Allows(c.CreatedBy) {
		return nil, ErrCustomerNotFound
	}
	return c, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, actorID string, req *CustomerRequest) (*model.Customer, SyncOutcome, error) {
	// 1. Validate request
	if err := validator.Error(req); err != nil {
		return nil, "", err
	}
	address := req.address()
	if address == "" {
		return nil, "", fieldError("CustomerRequest.Address", "required")
	}

	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return nil, "", ErrUserNotFound
	}

	// 2. Build the customer owned by the caller
	c := &model.Customer{CreatedByName: actor.FullName}
	applyCustomer(c, req, address)
	c.CreatedBy = actor.ID
	c.CreatedAt = s.now()

	// 3. Save locally, then push
	if err := s.customerRepo.Create(c); err != nil {
		return nil, "", err
	}
	synced := s.pusher.Push(ctx, model.ActionAddCustomer, c.ID, sheets.CustomerFromModel(c))

	invalidateReports(ctx, s.reports, s.log)
	s.notifier.Notify(events.CustomerCreated, c)
	return c, synced, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, actorID, id string, req *CustomerRequest) (*model.Customer, SyncOutcome, error) {
	// 1. Validate request
	if err := validator.Error(req); err != nil {
		return nil, "", err
	}
	address := req.address()
	if address == "" {
		return nil, "", fieldError("CustomerRequest.Address", "required")
	}

	// 2. Find a customer the caller may see
	scope, err := loadScope(s.userRepo, actorID)
	if err != nil {
		return nil, "", err
	}
	c, err := s.visibleCustomer(actorID, id)
	if err != nil {
		return nil, "", err
	}

	// 3. Reassign owner when asked
	if owner := strings.TrimSpace(req.OwnerID); owner != "" && owner != c.CreatedBy {
		if !scope.CanAssign() {
			return nil, "", ErrForbidden
		}
		u, ok := scope.User(owner)
		if !ok || !scope.CanSeeUser(owner) {
			return nil, "", ErrInvalidOwner
		}
		c.CreatedBy = u.ID
		c.CreatedByName = u.FullName
	}

	// 4. Apply contact fields
	applyCustomer(c, req, address)
	c.UpdatedBy = actorID

	// 5. Save locally, then push
	if err := s.customerRepo.Update(c); err != nil {
		return nil, "", err
	}
	synced := s.pusher.Push(ctx, model.ActionUpdateCustomer, c.ID, sheets.CustomerFromModel(c))

	invalidateReports(ctx, s.reports, s.log)
	s.notifier.Notify(events.CustomerUpdated, c)
	return c, synced, nil
}

func applyCustomer(c *model.Customer, req *CustomerRequest, address string) {
	c.Name = strings.TrimSpace(req.Name)
	c.Company = strings.TrimSpace(req.Company)
	c.Position = strings.TrimSpace(req.Position)
	c.Phone = strings.TrimSpace(req.Phone)
	c.Email = strings.TrimSpace(req.Email)
	c.Address = address
	c.Note = strings.TrimSpace(req.Note)
	c.RepName = strings.TrimSpace(req.RepName)
	c.RepPhone = strings.TrimSpace(req.RepPhone)
	c.RepPosition = strings.TrimSpace(req.RepPosition)
}
