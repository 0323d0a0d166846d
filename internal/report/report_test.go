package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babyboss-sales/internal/access"
	"babyboss-sales/internal/model"
)

// Friday 14 March 2025.
var now = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func mkUser(id, name string, role model.Role, branch model.Branch) model.User {
	u := model.User{FullName: name, Username: id, Role: role, Branch: branch}
	u.ID = id
	return u
}

var users = []model.User{
	mkUser("admin", "Admin", model.RoleAdmin, model.BranchHeadOffice),
	mkUser("mgr", "Manager HQ", model.RoleManager, model.BranchHeadOffice),
	mkUser("an", "An", model.RoleStaff, model.BranchHeadOffice),
	mkUser("binh", "Binh", model.RoleStaff, model.BranchHeadOffice),
	mkUser("chi", "Chi", model.RoleStaff, model.BranchNorth),
}

func mkOrder(id, date, creator, customer string, revenue int64, items []model.IceCreamItem, toppings []model.ToppingItem) model.Order {
	o := model.Order{
		Date:          date,
		CustomerID:    customer,
		CustomerName:  "Customer " + customer,
		CreatedByName: creator,
		Items:         items,
		Toppings:      toppings,
		TotalRevenue:  revenue,
	}
	o.ID = id
	o.CreatedBy = creator
	return o
}

func paid(flavor string, qty int64) model.IceCreamItem {
	return model.IceCreamItem{Line: "PRO", Size: "80ml", Flavor: flavor, Quantity: qty, Price: 15000, Total: 15000 * qty}
}

func gift(flavor string, qty int64) model.IceCreamItem {
	it := paid(flavor, qty)
	it.IsGift = true
	return it
}

func fixtureOrders() []model.Order {
	return []model.Order{
		mkOrder("o1", "2025-03-14", "an", "c1", 300000, []model.IceCreamItem{paid("Kem Dừa", 10), gift("Kem Vani", 2)},
			[]model.ToppingItem{{Name: "Bánh quế", Unit: "hộp", Quantity: 3, Price: 10000, Total: 30000}}),
		mkOrder("o2", "2025-03-12", "binh", "c2", 500000, []model.IceCreamItem{paid("Kem Vani", 4), paid("Kem Dừa", 1)},
			[]model.ToppingItem{{Name: "Siro", Unit: "chai", Quantity: 5, IsGift: true}}),
		mkOrder("o3", "2025-03-02", "an", "c1", 200000, []model.IceCreamItem{paid("Kem Xoài", 2)}, nil),
		mkOrder("o4", "2025-02-20", "chi", "c3", 700000, []model.IceCreamItem{paid("Kem Xoài", 20)}, nil),
		mkOrder("o5", "2025-01-05", "mgr", "c2", 100000, nil, nil),
		mkOrder("o6", "2024-12-30", "admin", "c4", 900000, nil, nil),
	}
}

func mkCustomer(id, creator, address string) model.Customer {
	c := model.Customer{Name: "Customer " + id, Address: address}
	c.ID = id
	c.CreatedBy = creator
	return c
}

func fixtureCustomers() []model.Customer {
	return []model.Customer{
		mkCustomer("c1", "an", "1 Lê Lợi, Phường 1, Quận 1, Thành phố Hồ Chí Minh"),
		mkCustomer("c2", "binh", "2 Trần Hưng Đạo, Quận 5, Thành phố Hồ Chí Minh"),
		mkCustomer("c3", "chi", "3 Hàng Bài, Hoàn Kiếm, Thành phố Hà Nội"),
		mkCustomer("c4", "admin", "4 Nguyễn Huệ, Quận 1, Thành phố Hồ Chí Minh"),
		mkCustomer("c5", "an", ""),
	}
}

func scopeFor(id string) *access.Scope {
	for i := range users {
		if users[i].ID == id {
			return access.Resolve(&users[i], users)
		}
	}
	panic("unknown user " + id)
}

func TestRangeContains(t *testing.T) {
	assert.True(t, RangeWeek.Contains("2025-03-07", now))
	assert.False(t, RangeWeek.Contains("2025-03-06", now))
	assert.True(t, RangeMonth.Contains("2025-03-01", now))
	assert.False(t, RangeMonth.Contains("2024-03-14", now))
	assert.True(t, RangeYear.Contains("2025-01-01", now))
	assert.False(t, RangeYear.Contains("2024-12-31", now))
	assert.False(t, RangeMonth.Contains("not-a-date", now))

	assert.Equal(t, "2025-03-10", StartOfWeek(now))
	sunday := time.Date(2025, 3, 16, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-10", StartOfWeek(sunday))

	assert.True(t, SameQuarter("2025-01-31", now))
	assert.False(t, SameQuarter("2025-04-01", now))
	assert.False(t, SameQuarter("2024-02-01", now))

	r, err := ParseRange("")
	require.NoError(t, err)
	assert.Equal(t, RangeMonth, r)
	_, err = ParseRange("decade")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestSummarize(t *testing.T) {
	o := model.Order{
		Items: []model.IceCreamItem{
			{Quantity: 10, Price: 15000, Total: 150000},
			{Quantity: 2, Price: 10000, Total: 20000, IsGift: true},
		},
		Toppings: []model.ToppingItem{
			{Quantity: 3, Price: 5000, Total: 15000},
			{Quantity: 1, Price: 8000, Total: 8000, IsGift: true},
		},
		RevenueIceCream: 150000,
		RevenueTopping:  15000,
		ShippingCost:    30000,
		Deposit:         50000,
	}

	s := Summarize(&o)
	assert.Len(t, s.SoldIceCreams, 1)
	assert.Len(t, s.DiscountIceCreams, 1)
	assert.Len(t, s.SoldToppings, 1)
	assert.Len(t, s.GiftToppings, 1)
	assert.Equal(t, int64(10), s.TotalQtySold)
	assert.Equal(t, int64(3), s.TotalQtyGift)
	assert.Equal(t, int64(28000), s.TotalValueGift)
	assert.Equal(t, int64(195000), s.TotalPayment)
	assert.Equal(t, int64(223000), s.TotalOrderValue)
	assert.Equal(t, int64(145000), s.Remaining)

	empty := Summarize(&model.Order{})
	assert.NotNil(t, empty.SoldIceCreams)
	assert.Zero(t, empty.TotalQtySold)
}

func TestOverviewForManager(t *testing.T) {
	ov := BuildOverview(scopeFor("mgr"), fixtureOrders(), fixtureCustomers(), RangeMonth, now)

	assert.Equal(t, 3, ov.TotalOrders)
	assert.Equal(t, int64(1000000), ov.TotalRevenue)
	assert.Equal(t, 3, ov.TotalCustomers)
	assert.True(t, decimal.NewFromInt(333333).Equal(ov.AverageOrderValue))

	require.Len(t, ov.Chart, 3)
	assert.Equal(t, "02/03", ov.Chart[0].Label)
	assert.Equal(t, "14/03", ov.Chart[2].Label)

	require.Len(t, ov.TopEmployees, 2)
	assert.Equal(t, "An", ov.TopEmployees[0].Name)
	assert.Equal(t, int64(500000), ov.TopEmployees[0].TotalRevenue)
	assert.Equal(t, 2, ov.TopEmployees[0].TotalOrders)

	require.Len(t, ov.TopCustomers, 2)
	assert.Equal(t, "c1", ov.TopCustomers[0].CustomerID)
	assert.Equal(t, "c2", ov.TopCustomers[1].CustomerID)

	// from 2025-03-11 inclusive
	require.Len(t, ov.LatestOrders, 2)
	assert.Equal(t, "o1", ov.LatestOrders[0].ID)
	assert.Equal(t, "o2", ov.LatestOrders[1].ID)

	require.NotNil(t, ov.Profile)
	assert.Equal(t, access.BoardLabel, ov.Profile.DirectManager)
	assert.Equal(t, 2, ov.Profile.ManagedStaffCount)
	assert.Empty(t, ov.StaffTopCustomers)
}

func TestOverviewForAdminYear(t *testing.T) {
	ov := BuildOverview(scopeFor("admin"), fixtureOrders(), fixtureCustomers(), RangeYear, now)

	assert.Equal(t, 5, ov.TotalOrders)
	require.Len(t, ov.Chart, 3)
	assert.Equal(t, "01/2025", ov.Chart[0].Label)
	assert.Equal(t, "03/2025", ov.Chart[2].Label)
	assert.Equal(t, int64(1000000), ov.Chart[2].Value)
	assert.Nil(t, ov.Profile)
	assert.Equal(t, "Chi", ov.TopEmployees[0].Name)
}

func TestOverviewForStaff(t *testing.T) {
	ov := BuildOverview(scopeFor("an"), fixtureOrders(), fixtureCustomers(), RangeWeek, now)

	assert.Equal(t, 1, ov.TotalOrders)
	assert.Empty(t, ov.TopEmployees)
	require.Len(t, ov.StaffTopCustomers, 1)
	assert.Equal(t, int64(500000), ov.StaffTopCustomers[0].TotalRevenue)
	assert.Equal(t, 2, ov.StaffTopCustomers[0].TotalOrders)
	assert.Equal(t, "Manager HQ", ov.Profile.DirectManager)
}

func TestOverviewWithoutOrders(t *testing.T) {
	ov := BuildOverview(scopeFor("an"), nil, nil, RangeMonth, now)
	assert.True(t, ov.AverageOrderValue.IsZero())
	assert.Empty(t, ov.Chart)
}

func TestAnalyze(t *testing.T) {
	_, err := Analyze(scopeFor("an"), fixtureOrders(), fixtureCustomers(), "", RangeMonth, now)
	assert.ErrorIs(t, err, ErrAnalysisForbidden)

	a, err := Analyze(scopeFor("admin"), fixtureOrders(), fixtureCustomers(), "", RangeYear, now)
	require.NoError(t, err)

	require.Len(t, a.TopFlavors, 3)
	assert.Equal(t, "Kem Xoài", a.TopFlavors[0].Name)
	assert.Equal(t, int64(22), a.TopFlavors[0].Count)
	assert.Equal(t, "59.46", a.TopFlavors[0].Share.String())
	assert.Equal(t, "Kem Dừa", a.TopFlavors[1].Name)
	assert.Equal(t, int64(11), a.TopFlavors[1].Count)
	assert.Equal(t, "Kem Vani", a.TopFlavors[2].Name)
	assert.Equal(t, int64(4), a.TopFlavors[2].Count)

	// gift toppings are excluded
	require.Len(t, a.TopToppings, 1)
	assert.Equal(t, "Bánh quế", a.TopToppings[0].Name)

	assert.Equal(t, 5, a.TotalPartners)
	assert.Equal(t, 2, a.TotalProvinces)
	assert.Equal(t, "Thành phố Hồ Chí Minh", a.Provinces[0].Name)
	assert.Equal(t, int64(3), a.Provinces[0].Count)
	assert.Equal(t, "75", a.Provinces[0].Share.String())

	north, err := Analyze(scopeFor("admin"), fixtureOrders(), fixtureCustomers(), model.BranchNorth, RangeYear, now)
	require.NoError(t, err)
	assert.Equal(t, 1, north.TotalPartners)
	require.Len(t, north.TopFlavors, 1)
	assert.Equal(t, int64(20), north.TopFlavors[0].Count)
}

func TestTotalSales(t *testing.T) {
	ts, err := BuildTotalSales(scopeFor("mgr"), fixtureOrders(), "", "", now)
	require.NoError(t, err)

	assert.Equal(t, "2025-03", ts.Month)
	assert.Equal(t, int64(800000), ts.RevenueWeek)
	assert.Equal(t, int64(1000000), ts.RevenueMonth)
	assert.Equal(t, int64(1100000), ts.RevenueQuarter)
	assert.Equal(t, int64(1100000), ts.RevenueYear)

	// manager, an, binh pre-seeded; admin hidden
	require.Len(t, ts.Rows, 3)
	assert.Equal(t, "An", ts.Rows[0].Name)
	assert.Equal(t, "Binh", ts.Rows[1].Name)
	assert.Equal(t, "Manager HQ", ts.Rows[2].Name)
	assert.Zero(t, ts.Rows[2].Orders)
	assert.Equal(t, "50", ts.Rows[0].Share.String())
	assert.Equal(t, 3, ts.TotalOrders)
	assert.Equal(t, int64(1000000), ts.TotalRevenue)
}

func TestTotalSalesAdminBranchFilter(t *testing.T) {
	ts, err := BuildTotalSales(scopeFor("admin"), fixtureOrders(), "2025-02", model.BranchNorth, now)
	require.NoError(t, err)
	require.Len(t, ts.Rows, 1)
	assert.Equal(t, "Chi", ts.Rows[0].Name)
	assert.Equal(t, int64(700000), ts.Rows[0].Revenue)

	all, err := BuildTotalSales(scopeFor("admin"), fixtureOrders(), "2024-12", "", now)
	require.NoError(t, err)
	assert.Len(t, all.Rows, len(users))
	assert.Equal(t, "Admin", all.Rows[0].Name)

	_, err = BuildTotalSales(scopeFor("admin"), nil, "2025/02", "", now)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestTotalSalesForStaff(t *testing.T) {
	ts, err := BuildTotalSales(scopeFor("chi"), fixtureOrders(), "2025-03", "", now)
	require.NoError(t, err)
	require.Len(t, ts.Rows, 1)
	assert.Equal(t, "Chi", ts.Rows[0].Name)
	assert.Zero(t, ts.Rows[0].Revenue)
	assert.True(t, ts.Rows[0].Share.IsZero())
}

func TestSalesLog(t *testing.T) {
	rows, err := SalesLog(scopeFor("admin"), fixtureOrders(), SalesLogQuery{From: "2025-03-01", To: "2025-03-12"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "o2", rows[0].ID)
	assert.Equal(t, int64(5), rows[0].QtySold)
	assert.Equal(t, "o3", rows[1].ID)

	rows, err = SalesLog(scopeFor("admin"), fixtureOrders(), SalesLogQuery{Filter: access.Filter{UserID: "an"}})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(10), rows[0].QtySold)
	assert.Equal(t, int64(2), rows[0].QtyGift)

	rows, err = SalesLog(scopeFor("binh"), fixtureOrders(), SalesLogQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, err = SalesLog(scopeFor("admin"), nil, SalesLogQuery{From: "14/03/2025"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestCustomerList(t *testing.T) {
	scope := scopeFor("admin")

	rows, err := CustomerList(scope, fixtureCustomers(), fixtureOrders(), CustomerQuery{City: "hà nội"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "c3", rows[0].ID)

	rows, err = CustomerList(scope, fixtureCustomers(), fixtureOrders(), CustomerQuery{FirstBuyMonth: "2025-01"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "c2", rows[0].ID)
	assert.Equal(t, "2025-03-12", rows[0].LastPurchase)
	assert.Equal(t, 2, rows[0].OrderCount)

	rows, err = CustomerList(scope, fixtureCustomers(), fixtureOrders(), CustomerQuery{LastBuyMonth: "2025-03"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = CustomerList(scopeFor("mgr"), fixtureCustomers(), fixtureOrders(), CustomerQuery{Filter: access.Filter{UserID: "an"}})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = CustomerList(scope, nil, nil, CustomerQuery{LastBuyMonth: "March"})
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestStatsForCustomer(t *testing.T) {
	assert.Nil(t, StatsForCustomer("c5", fixtureOrders(), now))

	st := StatsForCustomer("c1", fixtureOrders(), now)
	require.NotNil(t, st)
	assert.Equal(t, "2025-03-02", st.FirstPurchase)
	assert.Equal(t, "2025-03-14", st.LastPurchase)
	assert.Equal(t, 1, st.DaysSinceLastPurchase)
	assert.Equal(t, int64(12), st.TotalIceCreamBoxes)
	assert.Equal(t, int64(500000), st.TotalRevenue)
	assert.Equal(t, 2, st.OrderCount)
	assert.Equal(t, "o1", st.History[0].ID)
}

func TestWorkbooks(t *testing.T) {
	rows, err := SalesLog(scopeFor("admin"), fixtureOrders(), SalesLogQuery{})
	require.NoError(t, err)

	f, err := SalesLogWorkbook(rows)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(salesSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Date", v)
	v, err = f.GetCellValue(salesSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "o1", v)

	customers, err := CustomerList(scopeFor("admin"), fixtureCustomers(), fixtureOrders(), CustomerQuery{})
	require.NoError(t, err)
	cf, err := CustomerListWorkbook(customers)
	require.NoError(t, err)
	defer cf.Close()

	v, err = cf.GetCellValue(customerSheet, "G4")
	require.NoError(t, err)
	assert.Equal(t, "Thành phố Hà Nội", v)
}
