package model

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format orders are stored with.
const DateLayout = "2006-01-02"

// Order is one sale to a customer. Paid and discount ice cream share Items,
// paid and gift toppings share Toppings; IsGift tells them apart.
type Order struct {
	BaseModel
	Date         string `gorm:"type:varchar(10);index;not null" json:"date"` // YYYY-MM-DD
	CustomerID   string `gorm:"type:varchar(64);index;not null" json:"customerId"`
	CustomerName string `gorm:"type:varchar(255)" json:"customerName"`
	CompanyName  string `gorm:"type:varchar(255)" json:"companyName"`

	Items    []IceCreamItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Toppings []ToppingItem  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"toppings"`

	HasInvoice bool `json:"hasInvoice"`

	RevenueIceCream int64 `json:"revenueIceCream"`
	RevenueTopping  int64 `json:"revenueTopping"`
	TotalRevenue    int64 `json:"totalRevenue"`
	ShippingCost    int64 `json:"shippingCost"`
	TotalPayment    int64 `json:"totalPayment"`
	Deposit         int64 `json:"deposit"`

	CreatedByName string `gorm:"type:varchar(255)" json:"createdByName"`
}

// IceCreamItem is an ice cream row of an order.
type IceCreamItem struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	OrderID  string `gorm:"type:varchar(64);index" json:"-"`
	Position int    `json:"-"`

	Line     string `gorm:"type:varchar(32)" json:"line"`
	Size     string `gorm:"type:varchar(32)" json:"size"`
	Flavor   string `gorm:"type:varchar(255)" json:"flavor"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`
	Total    int64  `json:"total"`
	IsGift   bool   `json:"isGift"`
}

// ToppingItem is a topping row of an order.
type ToppingItem struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	OrderID  string `gorm:"type:varchar(64);index" json:"-"`
	Position int    `json:"-"`

	Name     string `gorm:"type:varchar(255)" json:"name"`
	Unit     string `gorm:"type:varchar(64)" json:"unit"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`
	Total    int64  `json:"total"`
	IsGift   bool   `json:"isGift"`
}

// Month returns the YYYY-MM prefix of the order date.
func (o *Order) Month() string {
	if len(o.Date) < 7 {
		return o.Date
	}
	return o.Date[:7]
}

// PaidQuantity sums the quantity of non-gift ice cream rows.
func (o *Order) PaidQuantity() int64 {
	var n int64
	for _, it := range o.Items {
		if !it.IsGift {
			n += it.Quantity
		}
	}
	return n
}

// DiscountQuantity sums the quantity of ice cream rows given at a discount.
func (o *Order) DiscountQuantity() int64 {
	var n int64
	for _, it := range o.Items {
		if it.IsGift {
			n += it.Quantity
		}
	}
	return n
}

// NormalizeDate turns a sheet date into YYYY-MM-DD. A timestamp such as
// "2025-03-31T17:00:00.000Z" is an instant and is read in loc, so it lands on
// the business day it happened in.
func NormalizeDate(s string, loc *time.Location) string {
	s = strings.TrimSpace(s)
	if len(s) <= 10 {
		return s
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		if loc != nil {
			t = t.In(loc)
		}
		return t.Format(DateLayout)
	}
	if s[10] == 'T' || s[10] == ' ' {
		return s[:10]
	}
	return s
}
