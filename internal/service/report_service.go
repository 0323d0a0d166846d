package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"babyboss-sales/internal/access"
	"babyboss-sales/internal/cache"
	"babyboss-sales/internal/model"
	"babyboss-sales/internal/report"
	"babyboss-sales/internal/repository"
)

type ReportService interface {
	Overview(ctx context.Context, actorID, window string) (*report.Overview, error)
	Analysis(ctx context.Context, actorID, window string, branch model.Branch) (*report.Analysis, error)
	TotalSales(ctx context.Context, actorID, month string, branch model.Branch) (*report.TotalSales, error)
	SalesLog(actorID string, q report.SalesLogQuery) ([]report.SalesLogRow, error)
	Customers(actorID string, q report.CustomerQuery) ([]report.CustomerRow, error)
	ExportSalesLog(actorID string, q report.SalesLogQuery) (*excelize.File, error)
	ExportCustomers(actorID string, q report.CustomerQuery) (*excelize.File, error)
}

type reportService struct {
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
	cache        cache.ReportCache
	ttl          time.Duration
	log          *zap.Logger
	loc          *time.Location
	now          func() time.Time
}

func NewReportService(
	userRepo repository.UserRepository,
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
	reports cache.ReportCache,
	ttl time.Duration,
	log *zap.Logger,
	loc *time.Location,
) ReportService {
	return &reportService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		cache:        reports,
		ttl:          ttl,
		log:          log,
		loc:          loc,
		now:          time.Now,
	}
}

// snapshot is everything a dashboard is computed from.
type snapshot struct {
	scope     *access.Scope
	orders    []model.Order
	customers []model.Customer
	now       time.Time
}

func (s *reportService) load(actorID string) (*snapshot, error) {
	scope, err := loadScope(s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindAll()
	if err != nil {
		return nil, err
	}
	customers, err := s.customerRepo.FindAll()
	if err != nil {
		return nil, err
	}
	return &snapshot{scope: scope, orders: orders, customers: customers, now: s.now().In(s.loc)}, nil
}

// cached returns the dashboard stored under key or computes and stores it.
// Cache failures fall back to computing.
func cached[T any](ctx context.Context, s *reportService, key string, compute func() (T, error)) (*T, error) {
	var out T
	hit, err := s.cache.Get(ctx, key, &out)
	if err != nil {
		s.log.Warn("read report cache", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return &out, nil
	}

	out, err = compute()
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, out, s.ttl); err != nil {
		s.log.Warn("write report cache", zap.String("key", key), zap.Error(err))
	}
	return &out, nil
}

func (s *reportService) Overview(ctx context.Context, actorID, window string) (*report.Overview, error) {
	r, err := report.ParseRange(window)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("overview:%s:%s:%s", actorID, r, s.today())
	return cached(ctx, s, key, func() (report.Overview, error) {
		snap, err := s.load(actorID)
		if err != nil {
			return report.Overview{}, err
		}
		return report.BuildOverview(snap.scope, snap.orders, snap.customers, r, snap.now), nil
	})
}

func (s *reportService) Analysis(ctx context.Context, actorID, window string, branch model.Branch) (*report.Analysis, error) {
	r, err := report.ParseRange(window)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("analysis:%s:%s:%s:%s", actorID, r, branch, s.today())
	return cached(ctx, s, key, func() (report.Analysis, error) {
		snap, err := s.load(actorID)
		if err != nil {
			return report.Analysis{}, err
		}
		return report.Analyze(snap.scope, snap.orders, snap.customers, branch, r, snap.now)
	})
}

func (s *reportService) TotalSales(ctx context.Context, actorID, month string, branch model.Branch) (*report.TotalSales, error) {
	if err := report.ValidateMonth(month); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("total-sales:%s:%s:%s:%s", actorID, month, branch, s.today())
	return cached(ctx, s, key, func() (report.TotalSales, error) {
		snap, err := s.load(actorID)
		if err != nil {
			return report.TotalSales{}, err
		}
		return report.BuildTotalSales(snap.scope, snap.orders, month, branch, snap.now)
	})
}

func (s *reportService) SalesLog(actorID string, q report.SalesLogQuery) ([]report.SalesLogRow, error) {
	snap, err := s.load(actorID)
	if err != nil {
		return nil, err
	}
	return report.SalesLog(snap.scope, snap.orders, q)
}

func (s *reportService) Customers(actorID string, q report.CustomerQuery) ([]report.CustomerRow, error) {
	snap, err := s.load(actorID)
	if err != nil {
		return nil, err
	}
	return report.CustomerList(snap.scope, snap.customers, snap.orders, q)
}

func (s *reportService) ExportSalesLog(actorID string, q report.SalesLogQuery) (*excelize.File, error) {
	rows, err := s.SalesLog(actorID, q)
	if err != nil {
		return nil, err
	}
	return report.SalesLogWorkbook(rows)
}

func (s *reportService) ExportCustomers(actorID string, q report.CustomerQuery) (*excelize.File, error) {
	rows, err := s.Customers(actorID, q)
	if err != nil {
		return nil, err
	}
	return report.CustomerListWorkbook(rows)
}

// today keys cache entries by local day so windows roll over at midnight.
func (s *reportService) today() string {
	return s.now().In(s.loc).Format(model.DateLayout)
}
