package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"babyboss-sales/internal/access"
	"babyboss-sales/internal/model"
)

const unknownName = "Unknown"

// ChartPoint is one bar of the revenue chart.
type ChartPoint struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// EmployeeStat is a row of the employee leaderboard.
type EmployeeStat struct {
	UserID       string       `json:"userId"`
	Name         string       `json:"name"`
	Branch       model.Branch `json:"branch"`
	Role         model.Role   `json:"role,omitempty"`
	TotalRevenue int64        `json:"totalRevenue"`
	TotalOrders  int          `json:"totalOrders"`
}

// CustomerRevenue is a row of the customer leaderboard.
type CustomerRevenue struct {
	CustomerID   string `json:"customerId"`
	Name         string `json:"name"`
	PIC          string `json:"pic,omitempty"`
	TotalRevenue int64  `json:"totalRevenue"`
	TotalOrders  int    `json:"totalOrders"`
}

// Profile is the personal card shown to staff and managers.
type Profile struct {
	DirectManager     string `json:"directManager"`
	ManagedStaffCount int    `json:"managedStaffCount"`
}

// Overview is the landing dashboard.
type Overview struct {
	Range             Range             `json:"range"`
	TotalRevenue      int64             `json:"totalRevenue"`
	TotalOrders       int               `json:"totalOrders"`
	TotalCustomers    int               `json:"totalCustomers"`
	AverageOrderValue decimal.Decimal   `json:"averageOrderValue"`
	Chart             []ChartPoint      `json:"chart"`
	TopEmployees      []EmployeeStat    `json:"topEmployees,omitempty"`
	TopCustomers      []CustomerRevenue `json:"topCustomers,omitempty"`
	LatestOrders      []model.Order     `json:"latestOrders,omitempty"`
	StaffTopCustomers []CustomerRevenue `json:"staffTopCustomers,omitempty"`
	Profile           *Profile          `json:"profile,omitempty"`
}

// BuildOverview computes the overview of the orders and customers visible in scope.
func BuildOverview(scope *access.Scope, orders []model.Order, customers []model.Customer, r Range, now time.Time) Overview {
	actor := scope.Actor()
	visible := scope.Orders(orders)

	windowed := make([]model.Order, 0, len(visible))
	for _, o := range visible {
		if r.Contains(o.Date, now) {
			windowed = append(windowed, o)
		}
	}

	ov := Overview{
		Range:          r,
		TotalOrders:    len(windowed),
		TotalCustomers: len(scope.Customers(customers)),
		Chart:          revenueChart(windowed, r),
	}
	for _, o := range windowed {
		ov.TotalRevenue += o.TotalRevenue
	}
	ov.AverageOrderValue = average(ov.TotalRevenue, ov.TotalOrders)

	if actor.Role.Supervises() {
		ov.TopEmployees = topEmployees(scope, windowed)
		ov.TopCustomers = topCustomers(windowed, true)
		ov.LatestOrders = latestOrders(visible, now)
	} else {
		month := make([]model.Order, 0)
		for _, o := range visible {
			if RangeMonth.Contains(o.Date, now) {
				month = append(month, o)
			}
		}
		ov.StaffTopCustomers = topCustomers(month, false)
	}

	if actor.Role != model.RoleAdmin {
		ov.Profile = &Profile{
			DirectManager:     access.DirectManager(actor, scope.Users()),
			ManagedStaffCount: access.ManagedStaffCount(actor, scope.Users()),
		}
	}
	return ov
}

func revenueChart(orders []model.Order, r Range) []ChartPoint {
	byKey := make(map[string]int64)
	for _, o := range orders {
		key := o.Date
		if r == RangeYear {
			key = o.Month()
		}
		byKey[key] += o.TotalRevenue
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	chart := make([]ChartPoint, 0, len(keys))
	for _, k := range keys {
		chart = append(chart, ChartPoint{Key: k, Label: chartLabel(k), Value: byKey[k]})
	}
	return chart
}

// chartLabel renders 2025-03-14 as 14/03 and 2025-03 as 03/2025.
func chartLabel(key string) string {
	if len(key) == len(model.DateLayout) {
		return key[8:10] + "/" + key[5:7]
	}
	return key[5:7] + "/" + key[:4]
}

func topEmployees(scope *access.Scope, orders []model.Order) []EmployeeStat {
	actor := scope.Actor()
	byUser := make(map[string]*EmployeeStat)
	for _, o := range orders {
		st, ok := byUser[o.CreatedBy]
		if !ok {
			st = &EmployeeStat{UserID: o.CreatedBy, Name: unknownName}
			if u, found := scope.User(o.CreatedBy); found {
				st.Name, st.Branch, st.Role = u.FullName, u.Branch, u.Role
			}
			byUser[o.CreatedBy] = st
		}
		st.TotalRevenue += o.TotalRevenue
		st.TotalOrders++
	}

	out := make([]EmployeeStat, 0, len(byUser))
	for _, st := range byUser {
		if actor.Role != model.RoleAdmin && st.Role == model.RoleAdmin {
			continue
		}
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRevenue != out[j].TotalRevenue {
			return out[i].TotalRevenue > out[j].TotalRevenue
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

func topCustomers(orders []model.Order, withPIC bool) []CustomerRevenue {
	byCustomer := make(map[string]*CustomerRevenue)
	for _, o := range orders {
		cr, ok := byCustomer[o.CustomerID]
		if !ok {
			cr = &CustomerRevenue{CustomerID: o.CustomerID, Name: o.CustomerName}
			if withPIC {
				cr.PIC = o.CreatedByName
			}
			byCustomer[o.CustomerID] = cr
		}
		cr.TotalRevenue += o.TotalRevenue
		cr.TotalOrders++
	}

	out := make([]CustomerRevenue, 0, len(byCustomer))
	for _, cr := range byCustomer {
		out = append(out, *cr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRevenue != out[j].TotalRevenue {
			return out[i].TotalRevenue > out[j].TotalRevenue
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	return out
}

// latestOrders returns orders dated from the start of the day three days ago, newest first.
func latestOrders(orders []model.Order, now time.Time) []model.Order {
	since := now.AddDate(0, 0, -3).Format(model.DateLayout)
	out := make([]model.Order, 0)
	for _, o := range orders {
		if validDate(o.Date) && o.Date >= since {
			out = append(out, o)
		}
	}
	sortByDateDesc(out)
	return out
}

func sortByDateDesc(orders []model.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].Date != orders[j].Date {
			return orders[i].Date > orders[j].Date
		}
		return orders[i].ID > orders[j].ID
	})
}

func average(total int64, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(total).Div(decimal.NewFromInt(int64(n))).Round(0)
}

// share returns part/whole as a percentage with two decimals.
func share(part, whole int64) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(whole)).Round(2)
}
