package report

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"babyboss-sales/internal/access"
	"babyboss-sales/internal/model"
)

// ErrAnalysisForbidden is returned when staff ask for the market analysis.
var ErrAnalysisForbidden = errors.New("market analysis is restricted to managers and admins")

const topN = 5

// Count is a named quantity with its percentage share.
type Count struct {
	Name  string          `json:"name"`
	Count int64           `json:"count"`
	Share decimal.Decimal `json:"share"`
}

// Analysis is the market analysis dashboard.
type Analysis struct {
	Range          Range   `json:"range"`
	TopFlavors     []Count `json:"topFlavors"`
	TopToppings    []Count `json:"topToppings"`
	Provinces      []Count `json:"provinces"`
	TotalProvinces int     `json:"totalProvinces"`
	TotalPartners  int     `json:"totalPartners"`
}

// Analyze ranks flavors and toppings by paid quantity and distributes
// customers by province. The branch filter only applies to admins.
func Analyze(scope *access.Scope, orders []model.Order, customers []model.Customer, branch model.Branch, r Range, now time.Time) (Analysis, error) {
	if !scope.Actor().Role.Supervises() {
		return Analysis{}, ErrAnalysisForbidden
	}
	filter := access.Filter{Branch: branch}

	flavors := make(map[string]int64)
	toppings := make(map[string]int64)
	for _, o := range scope.FilterOrders(orders, filter) {
		if !r.Contains(o.Date, now) {
			continue
		}
		for _, it := range o.Items {
			if !it.IsGift && it.Flavor != "" && it.Quantity != 0 {
				flavors[it.Flavor] += it.Quantity
			}
		}
		for _, tp := range o.Toppings {
			if !tp.IsGift && tp.Name != "" && tp.Quantity != 0 {
				toppings[tp.Name] += tp.Quantity
			}
		}
	}

	partners := scope.FilterCustomers(customers, filter)
	provinces := make(map[string]int64)
	for _, c := range partners {
		if city := c.City(); city != "" {
			provinces[city]++
		}
	}

	a := Analysis{
		Range:         r,
		TopFlavors:    ranked(flavors, topN),
		TopToppings:   ranked(toppings, topN),
		Provinces:     ranked(provinces, 0),
		TotalPartners: len(partners),
	}
	a.TotalProvinces = len(a.Provinces)
	return a, nil
}

// ranked sorts counts desc (ties by name) and keeps the first limit entries
// when limit > 0. Shares are computed against the sum of every entry.
func ranked(counts map[string]int64, limit int) []Count {
	var total int64
	out := make([]Count, 0, len(counts))
	for name, n := range counts {
		out = append(out, Count{Name: name, Count: n})
		total += n
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Share = share(out[i].Count, total)
	}
	return out
}
