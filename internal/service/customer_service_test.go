package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babyboss-sales/internal/events"
	"babyboss-sales/internal/model"
	"babyboss-sales/pkg/validator"
)

func TestCreateCustomerFromAddressParts(t *testing.T) {
	e := newEnv(t)

	c, synced, err := e.customer.CreateCustomer(context.Background(), "an", &CustomerRequest{
		Name:     "Chị Hoa",
		Company:  "Quán Kem Hoa",
		Phone:    "0911222333",
		Street:   "5 Trần Phú",
		Ward:     "Phường 4",
		District: "",
		City:     "Đà Lạt",
	})
	require.NoError(t, err)
	assert.Equal(t, SyncSent, synced)
	assert.Equal(t, "5 Trần Phú, Phường 4, Đà Lạt", c.Address)
	assert.Equal(t, "Đà Lạt", c.City())
	assert.Equal(t, "an", c.CreatedBy)
	assert.Equal(t, "Nguyễn Văn An", c.CreatedByName)
	assert.Equal(t, e.clock(), c.CreatedAt)

	push := e.sheet.last()
	assert.Equal(t, model.ActionAddCustomer, push.action)
	assert.Equal(t, c.ID, push.data["id"])
	assert.Contains(t, e.events.types(), events.CustomerCreated)
}

func TestCreateCustomerValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, _, err := e.customer.CreateCustomer(ctx, "an", &CustomerRequest{Name: "A", Company: "B", Phone: "1"})
	assert.ErrorIs(t, err, validator.ErrValidation)
	assert.Contains(t, err.Error(), "CustomerRequest.Address")

	_, _, err = e.customer.CreateCustomer(ctx, "an", &CustomerRequest{Company: "B", Phone: "1", Address: "x"})
	assert.ErrorIs(t, err, validator.ErrValidation)

	_, _, err = e.customer.CreateCustomer(ctx, "an", &CustomerRequest{Name: "A", Company: "B", Phone: "1", Address: "x", Email: "nope"})
	assert.ErrorIs(t, err, validator.ErrValidation)
}

func TestCustomerVisibility(t *testing.T) {
	e := newEnv(t)
	mine := e.addCustomer(t, "an", "Khách An")
	e.addCustomer(t, "north", "Khách Bắc")

	_, err := e.customer.GetCustomer("north", mine.ID)
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	d, err := e.customer.GetCustomer("mgr", mine.ID)
	require.NoError(t, err)
	assert.Nil(t, d.Stats)
	assert.True(t, d.FirstOrder)

	list, err := e.customer.GetCustomers("mgr")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	all, err := e.customer.GetCustomers(SeedAdminID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCustomerStats(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.addCustomer(t, "an", "Khách An")

	draft := paidDraft(c.ID)
	draft.Date = "2025-03-01"
	draft.HasInvoice = true
	_, _, err := e.order.CreateOrder(ctx, "an", draft)
	require.NoError(t, err)
	_, _, err = e.order.CreateOrder(ctx, "an", paidDraft(c.ID))
	require.NoError(t, err)

	d, err := e.customer.GetCustomer("an", c.ID)
	require.NoError(t, err)
	require.NotNil(t, d.Stats)
	assert.False(t, d.FirstOrder)
	assert.Equal(t, "2025-03-01", d.Stats.FirstPurchase)
	assert.Equal(t, "2025-03-14", d.Stats.LastPurchase)
	assert.Equal(t, 2, d.Stats.OrderCount)
	assert.Equal(t, 1, d.Stats.InvoiceCount)
	assert.Equal(t, int64(4), d.Stats.TotalIceCreamBoxes)
	assert.Equal(t, int64(192000), d.Stats.TotalRevenue)
	assert.Equal(t, "2025-03-14", d.Stats.History[0].Date)
}

func TestUpdateCustomerReassign(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.addCustomer(t, "mgr", "Khách Quản Lý")

	req := &CustomerRequest{Name: c.Name, Company: c.Company, Phone: "0988", Address: c.Address, Note: "gọi buổi sáng"}

	req.OwnerID = "north"
	_, _, err := e.customer.UpdateCustomer(ctx, "mgr", c.ID, req)
	assert.ErrorIs(t, err, ErrInvalidOwner)

	req.OwnerID = "an"
	updated, synced, err := e.customer.UpdateCustomer(ctx, "mgr", c.ID, req)
	require.NoError(t, err)
	assert.Equal(t, SyncSent, synced)
	assert.Equal(t, "an", updated.CreatedBy)
	assert.Equal(t, "Nguyễn Văn An", updated.CreatedByName)
	assert.Equal(t, "0988", updated.Phone)
	assert.Equal(t, "mgr", updated.UpdatedBy)
	assert.Equal(t, model.ActionUpdateCustomer, e.sheet.last().action)

	// staff may edit their own customer but not hand it over
	req.OwnerID = "mgr"
	_, _, err = e.customer.UpdateCustomer(ctx, "an", c.ID, req)
	assert.ErrorIs(t, err, ErrForbidden)

	req.OwnerID = ""
	req.Note = "đã đổi"
	updated, _, err = e.customer.UpdateCustomer(ctx, "an", c.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "đã đổi", updated.Note)
	assert.Equal(t, "an", updated.CreatedBy)

	_, _, err = e.customer.UpdateCustomer(ctx, "north", c.ID, req)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}
