package services

import (
	"strings"
	"testing"

	"homechef/pkg/logger"
	"homechef/pkg/models"
	"homechef/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func validOrder(itemID uint) OrderInput {
	return OrderInput{
		ItemID:  &itemID,
		Name:    "Arjun Rao",
		Phone:   "9876543210",
		Address: "12 Residency Road, Bengaluru",
	}
}

func servingsOf(t *testing.T, db *gorm.DB, itemID uint) int {
	t.Helper()
	var item models.FoodItem
	require.NoError(t, db.First(&item, itemID).Error)
	return item.ServingsAvailable
}

func TestDeliveryLabel(t *testing.T) {
	assert.Equal(t, "6pm (preferred)", DeliveryLabel("6pm"))
	assert.Equal(t, "6pm (preferred)", DeliveryLabel("  6pm "))
	assert.Equal(t, "Will be confirmed", DeliveryLabel(""))
	assert.Equal(t, "Will be confirmed", DeliveryLabel("   "))
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in    string
		want  int
		valid bool
	}{
		{"", 1, true},
		{"3", 3, true},
		{" 2 ", 2, true},
		{"two", 1, true},
		{"0", 0, false},
		{"-4", -4, false},
	}
	for _, tc := range tests {
		got, ok := parseQuantity(tc.in)
		assert.Equal(t, tc.valid, ok, "input %q", tc.in)
		if ok {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestPlaceOrder_Structured(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db, logger.Nop())
	chef := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	customer := testutil.CreateUser(t, db, models.RoleCustomer, "Arjun Rao")
	item := testutil.CreateItem(t, db, chef, "Paneer Butter Masala", "250.00", 3)

	in := validOrder(item.ID)
	in.Quantity = "2"
	in.DeliveryTime = "6pm"
	in.Notes = "Less spicy"

	order, err := svc.PlaceOrder(customer, in)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "Paneer Butter Masala", order.Dish)
	assert.Equal(t, "6pm (preferred)", order.DeliveryTime)
	assert.Equal(t, "₹500.00", order.Total)
	assert.Equal(t, 2, order.Quantity)
	require.NotNil(t, order.ChefID)
	assert.Equal(t, chef.ID, *order.ChefID)
	require.NotNil(t, order.CustomerID)
	assert.Equal(t, customer.ID, *order.CustomerID)
	assert.False(t, order.IsLegacy())

	// placing an order never touches servings
	assert.Equal(t, 3, servingsOf(t, db, item.ID))
}

func TestPlaceOrder_KeepsSubmittedTotal(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db, logger.Nop())
	chef := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	customer := testutil.CreateUser(t, db, models.RoleCustomer, "Arjun Rao")
	item := testutil.CreateItem(t, db, chef, "Dosa", "120", 3)

	in := validOrder(item.ID)
	in.Total = "₹999"
	order, err := svc.PlaceOrder(customer, in)
	require.NoError(t, err)
	assert.Equal(t, "₹999", order.Total)
	assert.Equal(t, "Will be confirmed", order.DeliveryTime)
	assert.Equal(t, 1, order.Quantity)
}

func TestPlaceOrder_SelfOrderRejected(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db, logger.Nop())
	chef := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	item := testutil.CreateItem(t, db, chef, "Dosa", "120", 3)

	_, err := svc.PlaceOrder(chef, validOrder(item.ID))
	assert.ErrorIs(t, err, ErrSelfOrder)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPlaceOrder_OtherChefMayOrder(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db, logger.Nop())
	meera := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	tenzin := testutil.CreateUser(t, db, models.RoleChef, "Tenzin Dolma")
	item := testutil.CreateItem(t, db, meera, "Dosa", "120", 3)

	order, err := svc.PlaceOrder(tenzin, validOrder(item.ID))
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestPlaceOrder_Validation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db, logger.Nop())
	chef := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	customer := testutil.CreateUser(t, db, models.RoleCustomer, "Arjun Rao")
	item := testutil.CreateItem(t, db, chef, "Dosa", "120", 3)

	itemID := item.ID
	_, err := svc.PlaceOrder(customer, OrderInput{ItemID: &itemID, Quantity: "0"})
	assert.Equal(t, []string{
		"Name is required.",
		"Phone number is required.",
		"Delivery address is required.",
		"Quantity must be at least 1.",
	}, ValidationMessages(err))

	missing := item.ID + 100
	_, err = svc.PlaceOrder(customer, validOrder(missing))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlaceOrder_RejectsValuesLongerThanTheirColumns(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db, logger.Nop())
	chef := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	customer := testutil.CreateUser(t, db, models.RoleCustomer, "Arjun Rao")
	item := testutil.CreateItem(t, db, chef, "Dosa", "120", 3)

	tests := []struct {
		name   string
		modify func(*OrderInput)
		want   string
	}{
		{"phone with extension", func(in *OrderInput) { in.Phone = "+91 (987) 654-3210 ext 12" }, "Phone number must be at most 20 characters."},
		{"name", func(in *OrderInput) { in.Name = strings.Repeat("n", 201) }, "Name must be at most 200 characters."},
		{"total", func(in *OrderInput) { in.Total = strings.Repeat("9", 51) }, "Total must be at most 50 characters."},
		{"delivery time", func(in *OrderInput) { in.DeliveryTime = strings.Repeat("t", 89) }, "Preferred delivery time must be at most 88 characters."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validOrder(item.ID)
			tt.modify(&in)
			_, err := svc.PlaceOrder(customer, in)
			assert.Equal(t, []string{tt.want}, ValidationMessages(err))
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)

	in := validOrder(item.ID)
	in.DeliveryTime = strings.Repeat("t", 88)
	order, err := svc.PlaceOrder(customer, in)
	require.NoError(t, err)
	assert.Len(t, order.DeliveryTime, models.MaxDeliveryTimeLen)
}

func TestPlaceOrder_SoldOut(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db, logger.Nop())
	chef := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	customer := testutil.CreateUser(t, db, models.RoleCustomer, "Arjun Rao")
	item := testutil.CreateItem(t, db, chef, "Dosa", "120", 0)

	_, err := svc.PlaceOrder(customer, validOrder(item.ID))
	assert.Equal(t, []string{"Sorry, Dosa is sold out right now."}, ValidationMessages(err))
}

func TestPlaceOrder_Legacy(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db, logger.Nop())

	order, err := svc.PlaceOrder(nil, OrderInput{
		Dish:    "momo",
		Name:    "Walk-in Guest",
		Phone:   "9000000000",
		Address: "Koramangala",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	assert.Nil(t, order.ChefID)
	assert.Nil(t, order.FoodItemID)
	assert.Nil(t, order.CustomerID)
	assert.True(t, order.IsLegacy())
	assert.Equal(t, "Steamed Momo Platter", order.DishName())
	assert.Equal(t, "₹0", order.Total)

	order, err = svc.PlaceOrder(nil, OrderInput{
		Dish:    "pizza",
		Name:    "Walk-in Guest",
		Phone:   "9000000000",
		Address: "Koramangala",
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.LegacyDishThali), order.Dish)
}

func TestGetConfirmation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db, logger.Nop())
	chef := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	customer := testutil.CreateUser(t, db, models.RoleCustomer, "Arjun Rao")
	stranger := testutil.CreateUser(t, db, models.RoleCustomer, "Priya Nair")
	item := testutil.CreateItem(t, db, chef, "Dosa", "120", 3)
	order := testutil.CreateOrder(t, db, customer, item, 1, models.OrderStatusPending, "₹120")

	got, err := svc.GetConfirmation(customer, 0, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	require.NotNil(t, got.FoodItem)
	assert.Equal(t, "Dosa", got.FoodItem.Name)

	_, err = svc.GetConfirmation(chef, 0, order.ID)
	assert.NoError(t, err)

	_, err = svc.GetConfirmation(nil, order.ID, order.ID)
	assert.NoError(t, err)

	_, err = svc.GetConfirmation(stranger, 0, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetConfirmation(nil, 0, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetConfirmation(customer, 0, order.ID+10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatus_DeliveredDecrementsOnce(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db, logger.Nop())
	chef := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	customer := testutil.CreateUser(t, db, models.RoleCustomer, "Arjun Rao")
	item := testutil.CreateItem(t, db, chef, "Paneer Butter Masala", "250.00", 3)
	order := testutil.CreateOrder(t, db, customer, item, 2, models.OrderStatusPending, "₹500.00")

	updated, err := svc.SetStatus(chef, order.ID, "preparing")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, updated.Status)
	assert.Equal(t, 3, servingsOf(t, db, item.ID))

	updated, err = svc.SetStatus(chef, order.ID, "delivered")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)
	assert.Equal(t, 1, servingsOf(t, db, item.ID))

	_, err = svc.SetStatus(chef, order.ID, "delivered")
	require.NoError(t, err)
	assert.Equal(t, 1, servingsOf(t, db, item.ID))
}

func TestSetStatus_DecrementFloorsAtZero(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db, logger.Nop())
	chef := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	customer := testutil.CreateUser(t, db, models.RoleCustomer, "Arjun Rao")
	item := testutil.CreateItem(t, db, chef, "Dosa", "120", 2)
	order := testutil.CreateOrder(t, db, customer, item, 5, models.OrderStatusConfirmed, "₹600")

	_, err := svc.SetStatus(chef, order.ID, "delivered")
	require.NoError(t, err)
	assert.Equal(t, 0, servingsOf(t, db, item.ID))
}

func TestSetStatus_Rejections(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db, logger.Nop())
	owner := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	other := testutil.CreateUser(t, db, models.RoleChef, "Tenzin Dolma")
	customer := testutil.CreateUser(t, db, models.RoleCustomer, "Arjun Rao")
	item := testutil.CreateItem(t, db, owner, "Dosa", "120", 3)
	order := testutil.CreateOrder(t, db, customer, item, 1, models.OrderStatusPending, "₹120")

	_, err := svc.SetStatus(other, order.ID, "delivered")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.SetStatus(customer, order.ID, "delivered")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.SetStatus(owner, order.ID, "shipped")
	assert.Equal(t, []string{"Choose a valid order status."}, ValidationMessages(err))

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	assert.Equal(t, 3, servingsOf(t, db, item.ID))
}

func TestListOrders(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db, logger.Nop())
	meera := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	tenzin := testutil.CreateUser(t, db, models.RoleChef, "Tenzin Dolma")
	arjun := testutil.CreateUser(t, db, models.RoleCustomer, "Arjun Rao")
	priya := testutil.CreateUser(t, db, models.RoleCustomer, "Priya Nair")
	dosa := testutil.CreateItem(t, db, meera, "Dosa", "120", 9)
	momo := testutil.CreateItem(t, db, tenzin, "Momo", "180", 9)

	testutil.CreateOrder(t, db, arjun, dosa, 1, models.OrderStatusPending, "₹120")
	testutil.CreateOrder(t, db, arjun, momo, 1, models.OrderStatusPending, "₹180")
	testutil.CreateOrder(t, db, priya, dosa, 2, models.OrderStatusPending, "₹240")

	mine, err := svc.ListForCustomer(arjun)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	chefOrders, err := svc.ListForChef(meera, 0)
	require.NoError(t, err)
	require.Len(t, chefOrders, 2)
	assert.Equal(t, "Priya Nair", chefOrders[0].Customer.Name)

	limited, err := svc.ListForChef(meera, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = svc.ListForCustomer(meera)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.ListForChef(arjun, 0)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDashboardStats(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db, logger.Nop())
	reviews := NewReviewService(db, logger.Nop())
	chef := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	customer := testutil.CreateUser(t, db, models.RoleCustomer, "Arjun Rao")
	dosa := testutil.CreateItem(t, db, chef, "Dosa", "120", 4)
	testutil.CreateItem(t, db, chef, "Vada", "60", 0)

	testutil.CreateOrder(t, db, customer, dosa, 1, models.OrderStatusPending, "₹120")
	testutil.CreateOrder(t, db, customer, dosa, 1, models.OrderStatusConfirmed, "₹120")
	testutil.CreateOrder(t, db, customer, dosa, 1, models.OrderStatusPreparing, "₹120")
	testutil.CreateOrder(t, db, customer, dosa, 1, models.OrderStatusDelivered, "₹120")
	testutil.CreateOrder(t, db, customer, dosa, 1, models.OrderStatusCancelled, "₹120")
	_, _, err := reviews.Submit(customer, dosa.ID, "5", "Crisp", nil)
	require.NoError(t, err)

	stats, err := svc.DashboardStats(chef)
	require.NoError(t, err)
	assert.Equal(t, &DashboardStats{
		PendingOrders: 1,
		ActiveOrders:  2,
		Delivered:     1,
		Items:         2,
		InStockItems:  1,
		Reviews:       1,
	}, stats)
}
