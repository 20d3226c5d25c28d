package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column limits of the size-bounded text fields. They match the gorm size
// tags below.
const (
	MaxUserNameLen     = 150
	MaxEmailLen        = 254
	MaxPhoneLen        = 20
	MaxSpecialityLen   = 200
	MaxFoodNameLen     = 200
	MaxImageURLLen     = 500
	MaxOrderNameLen    = 200
	MaxTotalLen        = 50
	MaxDeliveryTimeLen = 100
	MaxSubjectLen      = 200
)

// User is either a customer or a chef. Speciality is only set for chefs.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Email      string    `gorm:"uniqueIndex;not null;size:254" json:"email"`
	Name       string    `gorm:"not null;size:150" json:"name"`
	Password   string    `gorm:"not null" json:"-"`
	Phone      string    `gorm:"size:20" json:"phone"`
	Address    string    `gorm:"type:text" json:"address"`
	Role       Role      `gorm:"type:varchar(20);not null;default:'customer';index" json:"role"`
	Speciality *string   `gorm:"size:200" json:"speciality,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`

	FoodItems []FoodItem `gorm:"foreignKey:ChefID;constraint:OnDelete:CASCADE" json:"foodItems,omitempty"`
}

func (u *User) IsChef() bool {
	return u != nil && u.Role == RoleChef
}

func (u *User) IsCustomer() bool {
	return u != nil && u.Role == RoleCustomer
}

// FoodItem is a dish listed by a chef.
type FoodItem struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	ChefID            uint            `gorm:"not null;index" json:"chefId"`
	Name              string          `gorm:"not null;size:200" json:"name"`
	Category          Category        `gorm:"type:varchar(20);not null;default:'other'" json:"category"`
	Price             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Description       string          `gorm:"type:text" json:"description"`
	ImageURL          string          `gorm:"size:500" json:"imageUrl"`
	ImageObject       string          `gorm:"size:500;index" json:"-"` // set only for images this app uploaded
	ServingsAvailable int             `gorm:"not null;index" json:"servingsAvailable"`
	Availability      Availability    `gorm:"type:varchar(20);not null;default:'daily'" json:"availability"`
	IsVegetarian      bool            `gorm:"not null" json:"isVegetarian"`
	IsSpicy           bool            `gorm:"not null" json:"isSpicy"`
	CreatedAt         time.Time       `gorm:"index" json:"createdAt"`

	Chef    User     `gorm:"foreignKey:ChefID" json:"chef,omitempty"`
	Reviews []Review `gorm:"foreignKey:FoodItemID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

// InStock reports whether the item can be browsed and ordered publicly.
func (f *FoodItem) InStock() bool {
	return f.ServingsAvailable > 0
}

// Review is a customer's rating of a food item. At most one per
// (food item, customer) pair.
type Review struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	FoodItemID uint       `gorm:"not null;uniqueIndex:idx_review_item_customer" json:"foodItemId"`
	CustomerID uint       `gorm:"not null;uniqueIndex:idx_review_item_customer;index" json:"customerId"`
	OrderID    *uint      `gorm:"index" json:"orderId,omitempty"`
	Rating     int        `gorm:"not null" json:"rating"`
	Text       string     `gorm:"type:text;not null" json:"text"`
	ChefReply  *string    `gorm:"type:text" json:"chefReply,omitempty"`
	RepliedAt  *time.Time `json:"repliedAt,omitempty"`
	CreatedAt  time.Time  `gorm:"index" json:"createdAt"`

	FoodItem FoodItem `gorm:"foreignKey:FoodItemID" json:"foodItem,omitempty"`
	Customer User     `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	Order    *Order   `gorm:"foreignKey:OrderID;constraint:OnDelete:SET NULL" json:"-"`
}

// Order is a purchase of a food item, or of a legacy dish when FoodItemID is nil.
// Name, Phone and Address are a snapshot taken when the order was placed.
type Order struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	ChefID       *uint       `gorm:"index" json:"chefId,omitempty"`
	CustomerID   *uint       `gorm:"index" json:"customerId,omitempty"`
	FoodItemID   *uint       `gorm:"index" json:"foodItemId,omitempty"`
	Dish         string      `gorm:"size:200" json:"dish"`
	Name         string      `gorm:"size:200;not null" json:"name"`
	Phone        string      `gorm:"size:20;not null" json:"phone"`
	Address      string      `gorm:"type:text;not null" json:"address"`
	Quantity     int         `gorm:"not null;default:1" json:"quantity"`
	Total        string      `gorm:"size:50" json:"total"`
	DeliveryTime string      `gorm:"size:100" json:"deliveryTime"`
	Notes        string      `gorm:"type:text" json:"notes"`
	Status       OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt    time.Time   `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`

	Chef     *User     `gorm:"foreignKey:ChefID;constraint:OnDelete:SET NULL" json:"chef,omitempty"`
	Customer *User     `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL" json:"customer,omitempty"`
	FoodItem *FoodItem `gorm:"foreignKey:FoodItemID;constraint:OnDelete:SET NULL" json:"foodItem,omitempty"`
}

// IsLegacy reports whether the order was placed for a fixed legacy dish.
func (o *Order) IsLegacy() bool {
	return o.FoodItemID == nil && o.ChefID == nil
}

// DishName prefers the linked item's current name and falls back to the
// denormalised dish text.
func (o *Order) DishName() string {
	if o.FoodItem != nil && o.FoodItem.Name != "" {
		return o.FoodItem.Name
	}
	if o.IsLegacy() {
		return LegacyDish(o.Dish).Label()
	}
	return o.Dish
}

// ContactMessage is a submission of the public contact form.
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	Email     string    `gorm:"size:254;not null" json:"email"`
	Subject   string    `gorm:"size:200" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// All lists every model managed by AutoMigrate, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&FoodItem{},
		&Order{},
		&Review{},
		&ContactMessage{},
	}
}
