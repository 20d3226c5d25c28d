package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"homechef/pkg/logger"
	"homechef/pkg/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	chefOrderLimit      = 50
	defaultTotal        = "₹0"
	unscheduledDelivery = "Will be confirmed"
	preferredSuffix     = " (preferred)"
	currencySymbol      = "₹"

	// the label suffix must still fit orders.delivery_time
	maxPreferredTimeLen = models.MaxDeliveryTimeLen - len(preferredSuffix)
)

// OrderInput is the order form. ItemID is nil for a legacy dish order.
type OrderInput struct {
	ItemID       *uint
	Dish         string
	Name         string
	Phone        string
	Address      string
	Quantity     string
	Total        string
	DeliveryTime string
	Notes        string
}

// DashboardStats summarises a chef's activity.
type DashboardStats struct {
	PendingOrders int64
	ActiveOrders  int64
	Delivered     int64
	Items         int64
	InStockItems  int64
	Reviews       int64
}

// OrderService places orders and drives their status.
type OrderService struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewOrderService(db *gorm.DB, log *logger.Logger) *OrderService {
	return &OrderService{db: db, log: log.WithComponent("orders"), now: time.Now}
}

// parseQuantity treats an empty or non-numeric value as 1.
func parseQuantity(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 1, true
	}
	return n, n >= 1
}

// DeliveryLabel annotates a preferred delivery time.
func DeliveryLabel(pref string) string {
	pref = strings.TrimSpace(pref)
	if pref == "" {
		return unscheduledDelivery
	}
	return pref + preferredSuffix
}

// CheckSelfOrder rejects a chef ordering an item they listed.
func CheckSelfOrder(user *models.User, item *models.FoodItem) error {
	if user == nil || item == nil {
		return nil
	}
	switch user.Role {
	case models.RoleChef:
		if item.ChefID == user.ID {
			return ErrSelfOrder
		}
	case models.RoleCustomer:
	}
	return nil
}

// OrderableItem loads an item for the order form. Sold-out items are
// reported as a validation error.
func (s *OrderService) OrderableItem(itemID uint) (*models.FoodItem, error) {
	var item models.FoodItem
	err := s.db.Preload("Chef").First(&item, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find item %d: %w", itemID, err)
	}
	if !item.InStock() {
		return &item, &ValidationError{Messages: []string{fmt.Sprintf("Sorry, %s is sold out right now.", item.Name)}}
	}
	return &item, nil
}

// PlaceOrder records an order. customer may be nil for an anonymous legacy
// order.
func (s *OrderService) PlaceOrder(customer *models.User, in OrderInput) (*models.Order, error) {
	var item *models.FoodItem
	if in.ItemID != nil {
		found, err := s.OrderableItem(*in.ItemID)
		if err != nil {
			return nil, err
		}
		if err := CheckSelfOrder(customer, found); err != nil {
			return nil, err
		}
		item = found
	}

	var errs fieldErrors
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	address := strings.TrimSpace(in.Address)
	if name == "" {
		errs.add("Name is required.")
	}
	if phone == "" {
		errs.add("Phone number is required.")
	}
	if address == "" {
		errs.add("Delivery address is required.")
	}
	errs.maxLen(name, models.MaxOrderNameLen, "Name")
	errs.maxLen(phone, models.MaxPhoneLen, "Phone number")
	total := strings.TrimSpace(in.Total)
	errs.maxLen(total, models.MaxTotalLen, "Total")
	errs.maxLen(strings.TrimSpace(in.DeliveryTime), maxPreferredTimeLen, "Preferred delivery time")
	quantity, ok := parseQuantity(in.Quantity)
	if !ok {
		errs.add("Quantity must be at least 1.")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	order := &models.Order{
		Name:         name,
		Phone:        phone,
		Address:      address,
		Quantity:     quantity,
		Total:        total,
		DeliveryTime: DeliveryLabel(in.DeliveryTime),
		Notes:        strings.TrimSpace(in.Notes),
	}
	if customer != nil {
		id := customer.ID
		order.CustomerID = &id
	}

	if item != nil {
		chefID, itemID := item.ChefID, item.ID
		order.ChefID = &chefID
		order.FoodItemID = &itemID
		order.Dish = item.Name
		order.Status = models.OrderStatusPending
		if order.Total == "" {
			order.Total = currencySymbol + item.Price.Mul(decimal.NewFromInt(int64(quantity))).StringFixed(2)
		}
	} else {
		order.Dish = string(models.ParseLegacyDish(strings.TrimSpace(in.Dish)))
		order.Status = models.OrderStatusConfirmed
	}
	if order.Total == "" {
		order.Total = defaultTotal
	}

	if err := s.db.Create(order).Error; err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.log.Info("Order placed", "order_id", order.ID, "status", order.Status, "legacy", order.IsLegacy())
	return order, nil
}

// GetConfirmation loads an order for its confirmation page. Only the order's
// customer or chef, or the session that just placed it, may see it.
func (s *OrderService) GetConfirmation(viewer *models.User, lastOrderID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("FoodItem").Preload("Chef").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order %d: %w", orderID, err)
	}

	if lastOrderID != 0 && lastOrderID == order.ID {
		return &order, nil
	}
	if viewer != nil {
		if order.CustomerID != nil && *order.CustomerID == viewer.ID {
			return &order, nil
		}
		if order.ChefID != nil && *order.ChefID == viewer.ID {
			return &order, nil
		}
	}
	return nil, ErrNotFound
}

// SetStatus changes the status of one of the chef's orders. Moving an order
// to delivered takes its quantity off the item's servings, floored at zero,
// once: an order that is already delivered is left alone.
func (s *OrderService) SetStatus(chef *models.User, orderID uint, status string) (*models.Order, error) {
	if err := requireChef(chef); err != nil {
		return nil, err
	}
	next, ok := models.ParseOrderStatus(strings.TrimSpace(status))
	if !ok {
		return nil, &ValidationError{Messages: []string{"Choose a valid order status."}}
	}

	var order models.Order
	decremented := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND chef_id = ?", orderID, chef.ID).First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("find order %d: %w", orderID, err)
		}

		now := s.now()
		if next != models.OrderStatusDelivered {
			res := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Updates(map[string]interface{}{"status": next, "updated_at": now})
			if res.Error != nil {
				return fmt.Errorf("update order %d: %w", order.ID, res.Error)
			}
			order.Status, order.UpdatedAt = next, now
			return nil
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status <> ?", order.ID, models.OrderStatusDelivered).
			Updates(map[string]interface{}{"status": models.OrderStatusDelivered, "updated_at": now})
		if res.Error != nil {
			return fmt.Errorf("update order %d: %w", order.ID, res.Error)
		}
		order.Status = models.OrderStatusDelivered
		if res.RowsAffected == 0 {
			return nil
		}
		order.UpdatedAt = now

		if order.FoodItemID == nil {
			return nil
		}
		err = tx.Model(&models.FoodItem{}).Where("id = ?", *order.FoodItemID).
			Update("servings_available", gorm.Expr(
				"CASE WHEN servings_available > ? THEN servings_available - ? ELSE 0 END",
				order.Quantity, order.Quantity,
			)).Error
		if err != nil {
			return fmt.Errorf("decrement servings of item %d: %w", *order.FoodItemID, err)
		}
		decremented = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Order status changed", "order_id", order.ID, "status", order.Status, "decremented", decremented)
	return &order, nil
}

// ListForCustomer returns the customer's orders, newest first.
func (s *OrderService) ListForCustomer(customer *models.User) ([]models.Order, error) {
	if err := requireCustomer(customer); err != nil {
		return nil, err
	}
	var orders []models.Order
	err := s.db.Preload("FoodItem").Preload("Chef").
		Where("customer_id = ?", customer.ID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders of customer %d: %w", customer.ID, err)
	}
	return orders, nil
}

// ListForChef returns up to limit of the chef's orders, newest first. A
// non-positive limit means the default of 50.
func (s *OrderService) ListForChef(chef *models.User, limit int) ([]models.Order, error) {
	if err := requireChef(chef); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = chefOrderLimit
	}
	var orders []models.Order
	err := s.db.Preload("FoodItem").Preload("Customer").
		Where("chef_id = ?", chef.ID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders of chef %d: %w", chef.ID, err)
	}
	return orders, nil
}

func (s *OrderService) DashboardStats(chef *models.User) (*DashboardStats, error) {
	if err := requireChef(chef); err != nil {
		return nil, err
	}

	stats := &DashboardStats{}
	counts := []struct {
		dst   *int64
		model interface{}
		where string
		args  []interface{}
	}{
		{&stats.PendingOrders, &models.Order{}, "chef_id = ? AND status = ?", []interface{}{chef.ID, models.OrderStatusPending}},
		{&stats.ActiveOrders, &models.Order{}, "chef_id = ? AND status IN ?", []interface{}{chef.ID, []models.OrderStatus{models.OrderStatusConfirmed, models.OrderStatusPreparing}}},
		{&stats.Delivered, &models.Order{}, "chef_id = ? AND status = ?", []interface{}{chef.ID, models.OrderStatusDelivered}},
		{&stats.Items, &models.FoodItem{}, "chef_id = ?", []interface{}{chef.ID}},
		{&stats.InStockItems, &models.FoodItem{}, "chef_id = ? AND servings_available > 0", []interface{}{chef.ID}},
		{&stats.Reviews, &models.Review{}, "food_item_id IN (SELECT id FROM food_items WHERE chef_id = ?)", []interface{}{chef.ID}},
	}
	for _, c := range counts {
		if err := s.db.Model(c.model).Where(c.where, c.args...).Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("dashboard stats: %w", err)
		}
	}
	return stats, nil
}
