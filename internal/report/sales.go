package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"babyboss-sales/internal/access"
	"babyboss-sales/internal/model"
)

// UserSales is one row of the monthly per-user sales table.
type UserSales struct {
	UserID  string          `json:"userId"`
	Name    string          `json:"name"`
	Branch  model.Branch    `json:"branch"`
	Orders  int             `json:"orders"`
	Revenue int64           `json:"revenue"`
	Share   decimal.Decimal `json:"share"`
}

// TotalSales is the KPI strip plus the per-user table of one month.
type TotalSales struct {
	Month          string      `json:"month"`
	RevenueWeek    int64       `json:"revenueWeek"`
	RevenueMonth   int64       `json:"revenueMonth"`
	RevenueQuarter int64       `json:"revenueQuarter"`
	RevenueYear    int64       `json:"revenueYear"`
	Rows           []UserSales `json:"rows"`
	TotalOrders    int         `json:"totalOrders"`
	TotalRevenue   int64       `json:"totalRevenue"`
}

// BuildTotalSales computes the KPIs over every visible order and the per-user
// table for month (YYYY-MM, empty means the month of now).
func BuildTotalSales(scope *access.Scope, orders []model.Order, month string, branch model.Branch, now time.Time) (TotalSales, error) {
	if err := ValidateMonth(month); err != nil {
		return TotalSales{}, err
	}
	if month == "" {
		month = now.Format(monthLayout)
	}

	ts := TotalSales{Month: month}
	visible := scope.Orders(orders)
	weekStart := StartOfWeek(now)
	for _, o := range visible {
		if !validDate(o.Date) {
			continue
		}
		if o.Date >= weekStart {
			ts.RevenueWeek += o.TotalRevenue
		}
		if RangeMonth.Contains(o.Date, now) {
			ts.RevenueMonth += o.TotalRevenue
		}
		if SameQuarter(o.Date, now) {
			ts.RevenueQuarter += o.TotalRevenue
		}
		if RangeYear.Contains(o.Date, now) {
			ts.RevenueYear += o.TotalRevenue
		}
	}

	actor := scope.Actor()
	rows := make(map[string]*UserSales)
	for _, u := range relevantUsers(scope, branch) {
		if u.Role == model.RoleAdmin && actor.Role != model.RoleAdmin {
			continue
		}
		rows[u.ID] = &UserSales{UserID: u.ID, Name: u.FullName, Branch: u.Branch}
	}

	for _, o := range scope.FilterOrders(visible, access.Filter{Branch: branch}) {
		if o.Month() != month {
			continue
		}
		row, ok := rows[o.CreatedBy]
		if !ok {
			creator, found := scope.User(o.CreatedBy)
			if !found {
				continue
			}
			row = &UserSales{UserID: creator.ID, Name: creator.FullName, Branch: creator.Branch}
			rows[o.CreatedBy] = row
		}
		row.Orders++
		row.Revenue += o.TotalRevenue
	}

	ts.Rows = make([]UserSales, 0, len(rows))
	for _, row := range rows {
		ts.TotalOrders += row.Orders
		ts.TotalRevenue += row.Revenue
		ts.Rows = append(ts.Rows, *row)
	}
	sort.Slice(ts.Rows, func(i, j int) bool {
		a, b := ts.Rows[i], ts.Rows[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.UserID < b.UserID
	})
	for i := range ts.Rows {
		ts.Rows[i].Share = share(ts.Rows[i].Revenue, ts.TotalRevenue)
	}
	return ts, nil
}

func relevantUsers(scope *access.Scope, branch model.Branch) []model.User {
	actor := scope.Actor()
	switch actor.Role {
	case model.RoleStaff:
		return []model.User{*actor}
	case model.RoleManager:
		branch = actor.Branch
	case model.RoleAdmin:
		if branch == "" {
			return scope.Users()
		}
	}
	var out []model.User
	for _, u := range scope.Users() {
		if u.Branch == branch {
			out = append(out, u)
		}
	}
	return out
}

// SalesLogRow is an order with its paid and discounted ice cream quantities.
type SalesLogRow struct {
	model.Order
	QtySold int64 `json:"qtySold"`
	QtyGift int64 `json:"qtyGift"`
}

// SalesLogQuery selects orders for the sales log. Dates are inclusive YYYY-MM-DD bounds.
type SalesLogQuery struct {
	From   string
	To     string
	Filter access.Filter
}

// SalesLog lists visible orders in the date range, newest first.
func SalesLog(scope *access.Scope, orders []model.Order, q SalesLogQuery) ([]SalesLogRow, error) {
	if err := ValidateDate(q.From); err != nil {
		return nil, err
	}
	if err := ValidateDate(q.To); err != nil {
		return nil, err
	}

	matched := make([]model.Order, 0)
	for _, o := range scope.FilterOrders(orders, q.Filter) {
		if q.From != "" && o.Date < q.From {
			continue
		}
		if q.To != "" && o.Date > q.To {
			continue
		}
		matched = append(matched, o)
	}
	sortByDateDesc(matched)

	rows := make([]SalesLogRow, 0, len(matched))
	for _, o := range matched {
		rows = append(rows, SalesLogRow{Order: o, QtySold: o.PaidQuantity(), QtyGift: o.DiscountQuantity()})
	}
	return rows, nil
}
