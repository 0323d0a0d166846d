package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babyboss-sales/internal/access"
	"babyboss-sales/internal/model"
	"babyboss-sales/internal/report"
)

func seedOrders(t *testing.T, e *env) {
	t.Helper()
	ctx := context.Background()
	ca := e.addCustomer(t, "an", "Khách An")
	cn := e.addCustomer(t, "north", "Khách Bắc")

	for _, tc := range []struct {
		actor, customer, date string
		qty                   int64
	}{
		{"an", ca.ID, "2025-03-10", 2},
		{"an", ca.ID, "2025-03-13", 1},
		{"north", cn.ID, "2025-03-12", 5},
		{"north", cn.ID, "2025-01-05", 1},
	} {
		d := paidDraft(tc.customer)
		d.Date = tc.date
		d.Items[0].Quantity = tc.qty
		_, _, err := e.order.CreateOrder(ctx, tc.actor, d)
		require.NoError(t, err)
	}
}

func TestOverviewIsScopedAndCached(t *testing.T) {
	e := newEnv(t)
	seedOrders(t, e)
	ctx := context.Background()

	admin, err := e.report.Overview(ctx, SeedAdminID, "month")
	require.NoError(t, err)
	assert.Equal(t, 3, admin.TotalOrders)
	assert.Equal(t, int64(8*48000), admin.TotalRevenue)

	mgr, err := e.report.Overview(ctx, "mgr", "")
	require.NoError(t, err)
	assert.Equal(t, report.RangeMonth, mgr.Range)
	assert.Equal(t, 2, mgr.TotalOrders)
	require.NotNil(t, mgr.Profile)
	assert.Equal(t, 1, mgr.Profile.ManagedStaffCount)

	hits := e.cache.hits
	again, err := e.report.Overview(ctx, "mgr", "month")
	require.NoError(t, err)
	assert.Equal(t, hits+1, e.cache.hits)
	assert.Equal(t, mgr.TotalRevenue, again.TotalRevenue)

	// a new order invalidates cached dashboards
	c, err := e.customer.GetCustomers("an")
	require.NoError(t, err)
	_, _, err = e.order.CreateOrder(ctx, "an", paidDraft(c[0].ID))
	require.NoError(t, err)

	fresh, err := e.report.Overview(ctx, "mgr", "month")
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.TotalOrders)

	_, err = e.report.Overview(ctx, "mgr", "decade")
	assert.ErrorIs(t, err, report.ErrInvalidRange)
}

func TestAnalysisForbiddenForStaff(t *testing.T) {
	e := newEnv(t)
	seedOrders(t, e)
	ctx := context.Background()

	_, err := e.report.Analysis(ctx, "an", "month", "")
	assert.ErrorIs(t, err, report.ErrAnalysisForbidden)

	a, err := e.report.Analysis(ctx, SeedAdminID, "year", model.BranchNorth)
	require.NoError(t, err)
	require.Len(t, a.TopFlavors, 1)
	assert.Equal(t, int64(6), a.TopFlavors[0].Count)
	assert.Equal(t, 1, a.TotalPartners)
}

func TestTotalSalesService(t *testing.T) {
	e := newEnv(t)
	seedOrders(t, e)
	ctx := context.Background()

	ts, err := e.report.TotalSales(ctx, "mgr", "", "")
	require.NoError(t, err)
	assert.Equal(t, "2025-03", ts.Month)
	assert.Equal(t, int64(3*48000), ts.TotalRevenue)

	_, err = e.report.TotalSales(ctx, "mgr", "03-2025", "")
	assert.ErrorIs(t, err, report.ErrInvalidMonth)
}

func TestSalesLogAndExport(t *testing.T) {
	e := newEnv(t)
	seedOrders(t, e)

	q := report.SalesLogQuery{From: "2025-03-01", To: "2025-03-31", Filter: access.Filter{Branch: model.BranchNorth}}
	rows, err := e.report.SalesLog(SeedAdminID, q)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(5), rows[0].QtySold)

	f, err := e.report.ExportSalesLog(SeedAdminID, q)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Sales", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-12", v)
}

func TestCustomerListAndExport(t *testing.T) {
	e := newEnv(t)
	seedOrders(t, e)

	rows, err := e.report.Customers("mgr", report.CustomerQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-03-10", rows[0].FirstPurchase)
	assert.Equal(t, 2, rows[0].OrderCount)

	rows, err = e.report.Customers(SeedAdminID, report.CustomerQuery{LastBuyMonth: "2025-03"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	f, err := e.report.ExportCustomers(SeedAdminID, report.CustomerQuery{})
	require.NoError(t, err)
	defer f.Close()
	names, err := f.GetRows("Customers")
	require.NoError(t, err)
	assert.Len(t, names, 3)
}
