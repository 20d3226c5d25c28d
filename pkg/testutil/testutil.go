// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"homechef/pkg/database"
	"homechef/pkg/models"
	"homechef/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plain-text password of every fixture user.
const Password = "Saffron-Rickshaw-77"

var dbSeq atomic.Int64

// NewDB opens a migrated in-memory sqlite database with foreign keys on. It
// is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, dbSeq.Add(1))

	db, err := database.Open(sqlite.Open(dsn), logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

var (
	cachedHash atomic.Pointer[string]
	emailCount atomic.Int64
)

func passwordHash(t testing.TB) string {
	if h := cachedHash.Load(); h != nil {
		return *h
	}
	h, err := utils.HashPassword(Password)
	require.NoError(t, err)
	cachedHash.Store(&h)
	return h
}

// CreateUser inserts a user of the given role. Chefs get a speciality.
func CreateUser(t testing.TB, db *gorm.DB, role models.Role, name string) *models.User {
	t.Helper()
	user := &models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s%d@example.com", strings.ToLower(strings.Fields(name)[0]), emailCount.Add(1)),
		Password: passwordHash(t),
		Phone:    "9876543210",
		Address:  "221 MG Road, Bengaluru",
		Role:     role,
	}
	if role == models.RoleChef {
		speciality := "Home style curries"
		user.Speciality = &speciality
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateItem inserts a food item for chef.
func CreateItem(t testing.TB, db *gorm.DB, chef *models.User, name, price string, servings int) *models.FoodItem {
	t.Helper()
	item := &models.FoodItem{
		ChefID:            chef.ID,
		Name:              name,
		Category:          models.CategoryLunch,
		Price:             decimal.RequireFromString(price),
		ServingsAvailable: servings,
		Availability:      models.AvailabilityDaily,
		IsVegetarian:      true,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

// CreateOrder inserts an order for item placed by customer.
func CreateOrder(t testing.TB, db *gorm.DB, customer *models.User, item *models.FoodItem, quantity int, status models.OrderStatus, total string) *models.Order {
	t.Helper()
	chefID, itemID, customerID := item.ChefID, item.ID, customer.ID
	order := &models.Order{
		ChefID:       &chefID,
		CustomerID:   &customerID,
		FoodItemID:   &itemID,
		Dish:         item.Name,
		Name:         customer.Name,
		Phone:        customer.Phone,
		Address:      customer.Address,
		Quantity:     quantity,
		Total:        total,
		DeliveryTime: "Will be confirmed",
		Status:       status,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}
