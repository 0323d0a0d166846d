package report

import (
	"math"
	"sort"
	"strings"
	"time"

	"babyboss-sales/internal/access"
	"babyboss-sales/internal/model"
)

// CustomerQuery filters the customer list. Months are YYYY-MM.
type CustomerQuery struct {
	Filter        access.Filter
	City          string
	FirstBuyMonth string
	LastBuyMonth  string
}

// CustomerRow is a customer with its purchase window.
type CustomerRow struct {
	model.Customer
	FirstPurchase string `json:"firstPurchase,omitempty"`
	LastPurchase  string `json:"lastPurchase,omitempty"`
	OrderCount    int    `json:"orderCount"`
}

// CustomerList filters visible customers. Purchase dates come from every
// order of the customer, not only the visible ones.
func CustomerList(scope *access.Scope, customers []model.Customer, orders []model.Order, q CustomerQuery) ([]CustomerRow, error) {
	if err := ValidateMonth(q.FirstBuyMonth); err != nil {
		return nil, err
	}
	if err := ValidateMonth(q.LastBuyMonth); err != nil {
		return nil, err
	}

	dates := purchaseDates(orders)
	city := strings.ToLower(strings.TrimSpace(q.City))

	rows := make([]CustomerRow, 0)
	for _, c := range scope.FilterCustomers(customers, q.Filter) {
		if city != "" && !strings.Contains(strings.ToLower(c.Address), city) {
			continue
		}
		row := CustomerRow{Customer: c}
		if ds := dates[c.ID]; len(ds) > 0 {
			row.FirstPurchase, row.LastPurchase, row.OrderCount = ds[0], ds[len(ds)-1], len(ds)
		}
		if q.FirstBuyMonth != "" || q.LastBuyMonth != "" {
			if row.OrderCount == 0 {
				continue
			}
			if q.FirstBuyMonth != "" && !strings.HasPrefix(row.FirstPurchase, q.FirstBuyMonth) {
				continue
			}
			if q.LastBuyMonth != "" && !strings.HasPrefix(row.LastPurchase, q.LastBuyMonth) {
				continue
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func purchaseDates(orders []model.Order) map[string][]string {
	out := make(map[string][]string)
	for _, o := range orders {
		if validDate(o.Date) {
			out[o.CustomerID] = append(out[o.CustomerID], o.Date)
		}
	}
	for _, ds := range out {
		sort.Strings(ds)
	}
	return out
}

// CustomerStats is the purchase history card of one customer.
type CustomerStats struct {
	FirstPurchase         string        `json:"firstPurchase"`
	LastPurchase          string        `json:"lastPurchase"`
	DaysSinceLastPurchase int           `json:"daysSinceLastPurchase"`
	TotalIceCreamBoxes    int64         `json:"totalIceCreamBoxes"`
	InvoiceCount          int           `json:"invoiceCount"`
	TotalRevenue          int64         `json:"totalRevenue"`
	OrderCount            int           `json:"orderCount"`
	History               []model.Order `json:"history"`
}

// StatsForCustomer summarises the orders of a customer. It returns nil when
// the customer has never ordered.
func StatsForCustomer(customerID string, orders []model.Order, now time.Time) *CustomerStats {
	history := make([]model.Order, 0)
	for _, o := range orders {
		if o.CustomerID == customerID && validDate(o.Date) {
			history = append(history, o)
		}
	}
	if len(history) == 0 {
		return nil
	}
	sortByDateDesc(history)

	st := &CustomerStats{
		FirstPurchase: history[len(history)-1].Date,
		LastPurchase:  history[0].Date,
		OrderCount:    len(history),
		History:       history,
	}
	for _, o := range history {
		st.TotalIceCreamBoxes += o.PaidQuantity()
		st.TotalRevenue += o.TotalRevenue
		if o.HasInvoice {
			st.InvoiceCount++
		}
	}

	last, _ := parseDate(st.LastPurchase, now.Location())
	days := math.Abs(now.Sub(last).Hours()) / 24
	st.DaysSinceLastPurchase = int(math.Ceil(days))
	return st
}
