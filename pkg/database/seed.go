package database

import (
	"errors"
	"fmt"
	"log"

	"homechef/pkg/models"
	"homechef/pkg/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedPassword is the password of every demo account.
const SeedPassword = "Tandoor-Monsoon-42"

type seedItem struct {
	name        string
	category    models.Category
	price       string
	description string
	servings    int
	vegetarian  bool
	spicy       bool
}

var seedChefs = []struct {
	name, email, phone, speciality string
	items                          []seedItem
}{
	{
		name: "Meera Iyer", email: "meera@homechef.local", phone: "9876500001", speciality: "South Indian tiffin",
		items: []seedItem{
			{"Ghee Podi Dosa", models.CategoryBreakfast, "120", "Crisp dosa with gunpowder and ghee.", 12, true, true},
			{"Lemon Rice Box", models.CategoryLunch, "150", "Tangy lemon rice with peanuts and papad.", 8, true, false},
		},
	},
	{
		name: "Tenzin Dolma", email: "tenzin@homechef.local", phone: "9876500002", speciality: "Himalayan home food",
		items: []seedItem{
			{"Chicken Momo (8 pcs)", models.CategorySnacks, "180", "Steamed momos with tomato chutney.", 15, false, true},
			{"Thukpa", models.CategoryDinner, "210", "Noodle soup with vegetables.", 6, true, false},
		},
	},
}

// Seed creates demo chefs, their dishes and a customer. Accounts that
// already exist are left alone.
func Seed(db *gorm.DB) error {
	hashed, err := utils.HashPassword(SeedPassword)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	for _, c := range seedChefs {
		speciality := c.speciality
		chef := models.User{
			Name:       c.name,
			Email:      c.email,
			Password:   hashed,
			Phone:      c.phone,
			Address:    "12 Residency Road, Bengaluru",
			Role:       models.RoleChef,
			Speciality: &speciality,
		}
		created, err := createUserOnce(db, &chef)
		if err != nil {
			return err
		}
		if !created {
			continue
		}

		for _, it := range c.items {
			item := models.FoodItem{
				ChefID:            chef.ID,
				Name:              it.name,
				Category:          it.category,
				Price:             decimal.RequireFromString(it.price),
				Description:       it.description,
				ServingsAvailable: it.servings,
				Availability:      models.AvailabilityDaily,
				IsVegetarian:      it.vegetarian,
				IsSpicy:           it.spicy,
			}
			if err := db.Create(&item).Error; err != nil {
				return fmt.Errorf("create seed item %q: %w", it.name, err)
			}
		}
		log.Printf("✅ Chef %s created with %d dishes", chef.Email, len(c.items))
	}

	customer := models.User{
		Name:     "Arjun Rao",
		Email:    "arjun@homechef.local",
		Password: hashed,
		Phone:    "9876500003",
		Address:  "48 Church Street, Bengaluru",
		Role:     models.RoleCustomer,
	}
	if created, err := createUserOnce(db, &customer); err != nil {
		return err
	} else if created {
		log.Printf("✅ Customer %s created", customer.Email)
	}
	return nil
}

func createUserOnce(db *gorm.DB, user *models.User) (bool, error) {
	var existing models.User
	err := db.Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		log.Printf("User %s already exists", user.Email)
		*user = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("find user %s: %w", user.Email, err)
	}
	if err := db.Create(user).Error; err != nil {
		return false, fmt.Errorf("create user %s: %w", user.Email, err)
	}
	return true, nil
}
