package models

import "fmt"

// Role enum. A user is exactly one of these; there is no zero role.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleChef     Role = "chef"
)

// ParseRole maps a submitted form value onto a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleChef:
		return RoleChef, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Label is the human readable form used in templates.
func (r Role) Label() string {
	switch r {
	case RoleCustomer:
		return "Customer"
	case RoleChef:
		return "Chef"
	}
	panic(fmt.Sprintf("models: unhandled role %q", string(r)))
}

// Category enum
type Category string

const (
	CategoryBreakfast Category = "breakfast"
	CategoryLunch     Category = "lunch"
	CategoryDinner    Category = "dinner"
	CategorySnacks    Category = "snacks"
	CategoryDesserts  Category = "desserts"
	CategoryBeverages Category = "beverages"
	CategoryThali     Category = "thali"
	CategoryOther     Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryBreakfast, CategoryLunch, CategoryDinner, CategorySnacks,
	CategoryDesserts, CategoryBeverages, CategoryThali, CategoryOther,
}

// ParseCategory falls back to CategoryOther for anything it does not know.
func ParseCategory(s string) Category {
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	return CategoryOther
}

// Availability enum
type Availability string

const (
	AvailabilityDaily    Availability = "daily"
	AvailabilityWeekdays Availability = "weekdays"
	AvailabilityWeekends Availability = "weekends"
	AvailabilityPreorder Availability = "preorder"
)

var Availabilities = []Availability{
	AvailabilityDaily, AvailabilityWeekdays, AvailabilityWeekends, AvailabilityPreorder,
}

// ParseAvailability falls back to AvailabilityDaily.
func ParseAvailability(s string) Availability {
	for _, a := range Availabilities {
		if string(a) == s {
			return a
		}
	}
	return AvailabilityDaily
}

// OrderStatus enum
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
	OrderStatusDelivered, OrderStatusCancelled,
}

// ParseOrderStatus rejects values outside the five known statuses.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// LegacyDish is one of the fixed dishes offered before chefs could list their
// own food. Orders for them carry no chef and no food item.
type LegacyDish string

const (
	LegacyDishThali   LegacyDish = "thali"
	LegacyDishMomo    LegacyDish = "momo"
	LegacyDishBiryani LegacyDish = "biryani"
	LegacyDishSoup    LegacyDish = "soup"
)

var LegacyDishes = []LegacyDish{LegacyDishThali, LegacyDishMomo, LegacyDishBiryani, LegacyDishSoup}

var legacyDishLabels = map[LegacyDish]string{
	LegacyDishThali:   "Homemade Thali",
	LegacyDishMomo:    "Steamed Momo Platter",
	LegacyDishBiryani: "Veg Biryani",
	LegacyDishSoup:    "Comfort Veg Soup",
}

// ParseLegacyDish defaults to the thali.
func ParseLegacyDish(s string) LegacyDish {
	if _, ok := legacyDishLabels[LegacyDish(s)]; ok {
		return LegacyDish(s)
	}
	return LegacyDishThali
}

func (d LegacyDish) Label() string {
	if label, ok := legacyDishLabels[d]; ok {
		return label
	}
	return string(d)
}
