package report

import "babyboss-sales/internal/model"

// OrderSummary splits an order into sold and free rows and recomputes its totals.
type OrderSummary struct {
	SoldIceCreams     []model.IceCreamItem `json:"soldIceCreams"`
	DiscountIceCreams []model.IceCreamItem `json:"discountIceCreams"`
	SoldToppings      []model.ToppingItem  `json:"soldToppings"`
	GiftToppings      []model.ToppingItem  `json:"giftToppings"`

	TotalQtySold    int64 `json:"totalQtySold"`
	TotalQtyGift    int64 `json:"totalQtyGift"`
	TotalValueGift  int64 `json:"totalValueGift"`
	TotalOrderValue int64 `json:"totalOrderValue"`
	TotalPayment    int64 `json:"totalPayment"`
	Deposit         int64 `json:"deposit"`
	Remaining       int64 `json:"remaining"`
}

// Summarize derives the detail view of an order. Nil item lists count as empty.
func Summarize(o *model.Order) OrderSummary {
	s := OrderSummary{
		SoldIceCreams:     []model.IceCreamItem{},
		DiscountIceCreams: []model.IceCreamItem{},
		SoldToppings:      []model.ToppingItem{},
		GiftToppings:      []model.ToppingItem{},
		Deposit:           o.Deposit,
	}

	for _, it := range o.Items {
		if it.IsGift {
			s.DiscountIceCreams = append(s.DiscountIceCreams, it)
			s.TotalQtyGift += it.Quantity
			s.TotalValueGift += it.Total
		} else {
			s.SoldIceCreams = append(s.SoldIceCreams, it)
			s.TotalQtySold += it.Quantity
		}
	}
	for _, tp := range o.Toppings {
		if tp.IsGift {
			s.GiftToppings = append(s.GiftToppings, tp)
			s.TotalQtyGift += tp.Quantity
			s.TotalValueGift += tp.Total
		} else {
			s.SoldToppings = append(s.SoldToppings, tp)
		}
	}

	s.TotalPayment = o.RevenueIceCream + o.RevenueTopping + o.ShippingCost
	s.TotalOrderValue = s.TotalPayment + s.TotalValueGift
	s.Remaining = s.TotalPayment - o.Deposit
	return s
}
