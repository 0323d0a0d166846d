package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"babyboss-sales/internal/cache"
	"babyboss-sales/internal/events"
	"babyboss-sales/internal/model"
	"babyboss-sales/internal/pricing"
	"babyboss-sales/internal/report"
	"babyboss-sales/internal/repository"
	"babyboss-sales/internal/sheets"
	"babyboss-sales/pkg/validator"
)

type OrderService interface {
	Quote(actorID string, draft *OrderDraft) (*Quote, error)
	CreateOrder(ctx context.Context, actorID string, draft *OrderDraft) (*OrderDetail, SyncOutcome, error)
	GetOrder(actorID, id string) (*OrderDetail, error)
	IsFirstOrder(actorID, customerID string) (bool, error)
	Catalog() pricing.Catalog
}

// IceCreamLine is an ice cream row of a draft. Price is only read on
// discount rows, where a positive value overrides the table price.
// Quantity and price caps match pricing.MaxQuantity and pricing.MaxUnitPrice
// so no order total can overflow.
type IceCreamLine struct {
	Line     string `json:"line" validate:"required"`
	Size     string `json:"size" validate:"required"`
	Flavor   string `json:"flavor" validate:"required"`
	Quantity int64  `json:"quantity" validate:"gt=0,lte=100000"`
	Price    int64  `json:"price" validate:"gte=0,lte=100000000"`
}

type ToppingLine struct {
	Name     string `json:"name" validate:"required"`
	Unit     string `json:"unit" validate:"required"`
	Quantity int64  `json:"quantity" validate:"gt=0,lte=100000"`
	Price    int64  `json:"price" validate:"gte=0,lte=100000000"`
}

// OrderDraft is what the order form submits.
type OrderDraft struct {
	CustomerID    string         `json:"customerId" validate:"required"`
	Date          string         `json:"date" validate:"omitempty,ymd"`
	HasInvoice    bool           `json:"hasInvoice"`
	ShippingCost  int64          `json:"shippingCost" validate:"gte=0,lte=10000000000000"`
	Deposit       int64          `json:"deposit" validate:"gte=0,lte=10000000000000"`
	Items         []IceCreamLine `json:"items" validate:"max=200,dive"`
	DiscountItems []IceCreamLine `json:"discountItems" validate:"max=200,dive"`
	Toppings      []ToppingLine  `json:"toppings" validate:"max=200,dive"`
	GiftItems     []ToppingLine  `json:"giftItems" validate:"max=200,dive"`
}

func (d *OrderDraft) empty() bool {
	return len(d.Items)+len(d.DiscountItems)+len(d.Toppings)+len(d.GiftItems) == 0
}

// Quote is the review step of the order form.
type Quote struct {
	Order         model.Order         `json:"order"`
	Summary       report.OrderSummary `json:"summary"`
	DiscountValue int64               `json:"discountValue"`
	GiftValue     int64               `json:"giftValue"`
	FirstOrder    bool                `json:"firstOrder"`
}

type OrderDetail struct {
	Order   model.Order         `json:"order"`
	Summary report.OrderSummary `json:"summary"`
}

type orderService struct {
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
	prices       *pricing.Table
	pusher       Pusher
	reports      cache.ReportCache
	notifier     events.Notifier
	log          *zap.Logger
	loc          *time.Location
	now          func() time.Time
}

func NewOrderService(
	userRepo repository.UserRepository,
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
	prices *pricing.Table,
	pusher Pusher,
	reports cache.ReportCache,
	notifier events.Notifier,
	log *zap.Logger,
	loc *time.Location,
) OrderService {
	return &orderService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		prices:       prices,
		pusher:       pusher,
		reports:      reports,
		notifier:     notifier,
		log:          log,
		loc:          loc,
		now:          time.Now,
	}
}

func (s *orderService) Catalog() pricing.Catalog {
	return s.prices.Catalog()
}

func (s *orderService) IsFirstOrder(actorID, customerID string) (bool, error) {
	if _, err := s.visibleCustomer(actorID, customerID); err != nil {
		return false, err
	}
	n, err := s.orderRepo.CountByCustomer(customerID)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (s *orderService) visibleCustomer(actorID, customerID string) (*model.Customer, error) {
	scope, err := loadScope(s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	c, err := s.customerRepo.FindByID(customerID)
	if err != nil || !scope.Allows(c.CreatedBy) {
		return nil, ErrCustomerNotFound
	}
	return c, nil
}

func (s *orderService) Quote(actorID string, draft *OrderDraft) (*Quote, error) {
	return s.assemble(actorID, draft)
}

// assemble validates a draft and prices it into an unsaved order.
func (s *orderService) assemble(actorID string, draft *OrderDraft) (*Quote, error) {
	// 1. Field validation
	if err := validator.Error(draft); err != nil {
		return nil, err
	}

	// 2. Customer must be visible to the caller
	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	customer, err := s.visibleCustomer(actorID, draft.CustomerID)
	if err != nil {
		return nil, err
	}

	// 3. At least one row
	if draft.empty() {
		return nil, ErrEmptyOrder
	}

	// 4. Gifts only on a first order
	previous, err := s.orderRepo.CountByCustomer(customer.ID)
	if err != nil {
		return nil, err
	}
	first := previous == 0
	if len(draft.GiftItems) > 0 && !first {
		return nil, ErrGiftNotAllowed
	}

	o := &model.Order{
		Date:          draft.Date,
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		CompanyName:   customer.Company,
		HasInvoice:    draft.HasInvoice,
		ShippingCost:  draft.ShippingCost,
		Deposit:       draft.Deposit,
		CreatedByName: actor.FullName,
		Items:         make([]model.IceCreamItem, 0, len(draft.Items)+len(draft.DiscountItems)),
		Toppings:      make([]model.ToppingItem, 0, len(draft.Toppings)+len(draft.GiftItems)),
	}
	o.CreatedBy = actor.ID
	if o.Date == "" {
		o.Date = s.now().In(s.loc).Format(model.DateLayout)
	} else if _, err := time.ParseInLocation(model.DateLayout, o.Date, s.loc); err != nil {
		return nil, fmt.Errorf("%w: %s", report.ErrInvalidDate, o.Date)
	}

	q := &Quote{FirstOrder: first}

	// 5. Paid ice cream always uses the table price
	for _, in := range draft.Items {
		price, ok := s.prices.Lookup(in.Line, in.Size)
		if !ok {
			return nil, fmt.Errorf("%w: %s %s", ErrUnknownPrice, in.Line, in.Size)
		}
		item := iceCream(in, price, false)
		o.RevenueIceCream += item.Total
		o.Items = append(o.Items, item)
	}

	// 6. Discount ice cream defaults to the table price
	for _, in := range draft.DiscountItems {
		price, ok := s.prices.Lookup(in.Line, in.Size)
		if !ok {
			return nil, fmt.Errorf("%w: %s %s", ErrUnknownPrice, in.Line, in.Size)
		}
		if in.Price > 0 {
			price = in.Price
		}
		item := iceCream(in, price, true)
		q.DiscountValue += item.Total
		o.Items = append(o.Items, item)
	}

	// 7. Toppings
	for _, in := range draft.Toppings {
		item := topping(in, false)
		o.RevenueTopping += item.Total
		o.Toppings = append(o.Toppings, item)
	}
	for _, in := range draft.GiftItems {
		item := topping(in, true)
		q.GiftValue += item.Total
		o.Toppings = append(o.Toppings, item)
	}

	// 8. Totals
	o.TotalRevenue = o.RevenueIceCream + o.RevenueTopping
	o.TotalPayment = o.TotalRevenue + o.ShippingCost
	if o.Deposit > o.TotalPayment {
		return nil, ErrDepositTooLarge
	}

	q.Order = *o
	q.Summary = report.Summarize(o)
	return q, nil
}

func iceCream(in IceCreamLine, price int64, gift bool) model.IceCreamItem {
	return model.IceCreamItem{
		Line:     pricing.CanonicalLine(in.Line),
		Size:     strings.TrimSpace(in.Size),
		Flavor:   strings.TrimSpace(in.Flavor),
		Quantity: in.Quantity,
		Price:    price,
		Total:    pricing.LineTotal(price, in.Quantity),
		IsGift:   gift,
	}
}

func topping(in ToppingLine, gift bool) model.ToppingItem {
	return model.ToppingItem{
		Name:     strings.TrimSpace(in.Name),
		Unit:     strings.TrimSpace(in.Unit),
		Quantity: in.Quantity,
		Price:    in.Price,
		Total:    pricing.LineTotal(in.Price, in.Quantity),
		IsGift:   gift,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, actorID string, draft *OrderDraft) (*OrderDetail, SyncOutcome, error) {
	// 1. Assemble with the same rules as the review step
	q, err := s.assemble(actorID, draft)
	if err != nil {
		return nil, "", err
	}
	o := q.Order

	// 2. Save locally, then push
	if err := s.orderRepo.Create(&o); err != nil {
		return nil, "", err
	}
	synced := s.pusher.Push(ctx, model.ActionAddOrder, o.ID, sheets.OrderFromModel(&o))

	invalidateReports(ctx, s.reports, s.log)
	s.notifier.Notify(events.OrderCreated, o)
	s.log.Info("order created",
		zap.String("id", o.ID),
		zap.String("customer_id", o.CustomerID),
		zap.Int64("total_payment", o.TotalPayment),
		zap.String("sync", string(synced)),
	)
	return &OrderDetail{Order: o, Summary: report.Summarize(&o)}, synced, nil
}

func (s *orderService) GetOrder(actorID, id string) (*OrderDetail, error) {
	scope, err := loadScope(s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	o, err := s.orderRepo.FindByID(id)
	if err != nil || !scope.Allows(o.CreatedBy) {
		return nil, ErrOrderNotFound
	}
	return &OrderDetail{Order: *o, Summary: report.Summarize(o)}, nil
}
