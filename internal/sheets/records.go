package sheets

import (
	"time"

	"babyboss-sales/internal/model"
)

// Snapshot is the GET_ALL_DATA payload.
type Snapshot struct {
	Users     List[UserRecord]     `json:"users"`
	Customers List[CustomerRecord] `json:"customers"`
	Orders    List[OrderRecord]    `json:"orders"`
}

// UserRecord is a user row of the sheet. Password is the sheet's own
// plaintext column and is never filled on push.
type UserRecord struct {
	ID       Text `json:"id"`
	FullName Text `json:"fullName"`
	Phone    Text `json:"phone"`
	Position Text `json:"position"`
	Username Text `json:"username"`
	Password Text `json:"password,omitempty"`
	Role     Text `json:"role"`
	Branch   Text `json:"branch"`
}

type CustomerRecord struct {
	ID            Text `json:"id"`
	Name          Text `json:"name"`
	Company       Text `json:"company"`
	Position      Text `json:"position"`
	Phone         Text `json:"phone"`
	Email         Text `json:"email"`
	Address       Text `json:"address"`
	Note          Text `json:"note,omitempty"`
	RepName       Text `json:"repName,omitempty"`
	RepPhone      Text `json:"repPhone,omitempty"`
	RepPosition   Text `json:"repPosition,omitempty"`
	CreatedBy     Text `json:"createdBy"`
	CreatedByName Text `json:"createdByName"`
	CreatedAt     Text `json:"createdAt"`
}

type IceCreamRecord struct {
	Line     Text   `json:"line"`
	Size     Text   `json:"size"`
	Flavor   Text   `json:"flavor"`
	Quantity Number `json:"quantity"`
	Price    Number `json:"price"`
	Total    Number `json:"total"`
	IsGift   Flag   `json:"isGift"`
}

type ToppingRecord struct {
	Name     Text   `json:"name"`
	Unit     Text   `json:"unit"`
	Quantity Number `json:"quantity"`
	Price    Number `json:"price"`
	Total    Number `json:"total"`
	IsGift   Flag   `json:"isGift"`
}

type OrderRecord struct {
	ID              Text                 `json:"id"`
	Date            Text                 `json:"date"`
	CustomerID      Text                 `json:"customerId"`
	CustomerName    Text                 `json:"customerName"`
	CompanyName     Text                 `json:"companyName"`
	Items           List[IceCreamRecord] `json:"items"`
	Toppings        List[ToppingRecord]  `json:"toppings"`
	HasInvoice      Flag                 `json:"hasInvoice"`
	RevenueIceCream Number               `json:"revenueIceCream"`
	RevenueTopping  Number               `json:"revenueTopping"`
	TotalRevenue    Number               `json:"totalRevenue"`
	ShippingCost    Number               `json:"shippingCost"`
	TotalPayment    Number               `json:"totalPayment"`
	Deposit         Number               `json:"deposit"`
	CreatedBy       Text                 `json:"createdBy"`
	CreatedByName   Text                 `json:"createdByName"`
}

// ToModel converts a sheet user. The password is left empty.
func (r UserRecord) ToModel() model.User {
	u := model.User{
		FullName: string(r.FullName),
		Phone:    string(r.Phone),
		Position: string(r.Position),
		Username: string(r.Username),
		Role:     model.ParseRole(string(r.Role)),
		Branch:   model.Branch(r.Branch),
	}
	u.ID = string(r.ID)
	return u
}

func (r CustomerRecord) ToModel() model.Customer {
	c := model.Customer{
		Name:          string(r.Name),
		Company:       string(r.Company),
		Position:      string(r.Position),
		Phone:         string(r.Phone),
		Email:         string(r.Email),
		Address:       string(r.Address),
		Note:          string(r.Note),
		RepName:       string(r.RepName),
		RepPhone:      string(r.RepPhone),
		RepPosition:   string(r.RepPosition),
		CreatedByName: string(r.CreatedByName),
	}
	c.ID = string(r.ID)
	c.CreatedBy = string(r.CreatedBy)
	if t, err := time.Parse(time.RFC3339, string(r.CreatedAt)); err == nil {
		c.CreatedAt = t
	}
	return c
}

// ToModel converts a sheet order. Timestamp dates are read in loc.
func (r OrderRecord) ToModel(loc *time.Location) model.Order {
	o := model.Order{
		Date:            model.NormalizeDate(string(r.Date), loc),
		CustomerID:      string(r.CustomerID),
		CustomerName:    string(r.CustomerName),
		CompanyName:     string(r.CompanyName),
		Items:           make([]model.IceCreamItem, 0, len(r.Items)),
		Toppings:        make([]model.ToppingItem, 0, len(r.Toppings)),
		HasInvoice:      bool(r.HasInvoice),
		RevenueIceCream: int64(r.RevenueIceCream),
		RevenueTopping:  int64(r.RevenueTopping),
		TotalRevenue:    int64(r.TotalRevenue),
		ShippingCost:    int64(r.ShippingCost),
		TotalPayment:    int64(r.TotalPayment),
		Deposit:         int64(r.Deposit),
		CreatedByName:   string(r.CreatedByName),
	}
	o.ID = string(r.ID)
	o.CreatedBy = string(r.CreatedBy)
	for _, it := range r.Items {
		o.Items = append(o.Items, model.IceCreamItem{
			Line: string(it.Line), Size: string(it.Size), Flavor: string(it.Flavor),
			Quantity: int64(it.Quantity), Price: int64(it.Price), Total: int64(it.Total), IsGift: bool(it.IsGift),
		})
	}
	for _, tp := range r.Toppings {
		o.Toppings = append(o.Toppings, model.ToppingItem{
			Name: string(tp.Name), Unit: string(tp.Unit),
			Quantity: int64(tp.Quantity), Price: int64(tp.Price), Total: int64(tp.Total), IsGift: bool(tp.IsGift),
		})
	}
	return o
}

// UserFromModel builds the push payload of a user, without any password.
func UserFromModel(u *model.User) UserRecord {
	return UserRecord{
		ID:       Text(u.ID),
		FullName: Text(u.FullName),
		Phone:    Text(u.Phone),
		Position: Text(u.Position),
		Username: Text(u.Username),
		Role:     Text(u.Role),
		Branch:   Text(u.Branch),
	}
}

func CustomerFromModel(c *model.Customer) CustomerRecord {
	return CustomerRecord{
		ID:            Text(c.ID),
		Name:          Text(c.Name),
		Company:       Text(c.Company),
		Position:      Text(c.Position),
		Phone:         Text(c.Phone),
		Email:         Text(c.Email),
		Address:       Text(c.Address),
		Note:          Text(c.Note),
		RepName:       Text(c.RepName),
		RepPhone:      Text(c.RepPhone),
		RepPosition:   Text(c.RepPosition),
		CreatedBy:     Text(c.CreatedBy),
		CreatedByName: Text(c.CreatedByName),
		CreatedAt:     Text(c.CreatedAt.UTC().Format(time.RFC3339)),
	}
}

func OrderFromModel(o *model.Order) OrderRecord {
	r := OrderRecord{
		ID:              Text(o.ID),
		Date:            Text(o.Date),
		CustomerID:      Text(o.CustomerID),
		CustomerName:    Text(o.CustomerName),
		CompanyName:     Text(o.CompanyName),
		Items:           make(List[IceCreamRecord], 0, len(o.Items)),
		Toppings:        make(List[ToppingRecord], 0, len(o.Toppings)),
		HasInvoice:      Flag(o.HasInvoice),
		RevenueIceCream: Number(o.RevenueIceCream),
		RevenueTopping:  Number(o.RevenueTopping),
		TotalRevenue:    Number(o.TotalRevenue),
		ShippingCost:    Number(o.ShippingCost),
		TotalPayment:    Number(o.TotalPayment),
		Deposit:         Number(o.Deposit),
		CreatedBy:       Text(o.CreatedBy),
		CreatedByName:   Text(o.CreatedByName),
	}
	for _, it := range o.Items {
		r.Items = append(r.Items, IceCreamRecord{
			Line: Text(it.Line), Size: Text(it.Size), Flavor: Text(it.Flavor),
			Quantity: Number(it.Quantity), Price: Number(it.Price), Total: Number(it.Total), IsGift: Flag(it.IsGift),
		})
	}
	for _, tp := range o.Toppings {
		r.Toppings = append(r.Toppings, ToppingRecord{
			Name: Text(tp.Name), Unit: Text(tp.Unit),
			Quantity: Number(tp.Quantity), Price: Number(tp.Price), Total: Number(tp.Total), IsGift: Flag(tp.IsGift),
		})
	}
	return r
}
