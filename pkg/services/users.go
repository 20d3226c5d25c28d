package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"homechef/pkg/logger"
	"homechef/pkg/models"
	"homechef/pkg/utils"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// RegisterInput is the registration form. Password fields are never echoed
// back to the form.
type RegisterInput struct {
	Name            string
	Email           string
	Phone           string
	Address         string
	Role            string
	Speciality      string
	Password        string
	ConfirmPassword string
	AcceptTerms     bool
}

// UserService owns accounts and credentials.
type UserService struct {
	db       *gorm.DB
	policy   PasswordPolicy
	validate *validator.Validate
	log      *logger.Logger
}

func NewUserService(db *gorm.DB, policy PasswordPolicy, log *logger.Logger) *UserService {
	return &UserService{
		db:       db,
		policy:   policy,
		validate: validator.New(),
		log:      log.WithComponent("users"),
	}
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// digitCount counts the digits in a phone number, ignoring separators.
func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// Register validates every field, reporting all problems at once, and creates
// the account with a hashed password.
func (s *UserService) Register(in RegisterInput) (*models.User, error) {
	var errs fieldErrors

	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	phone := strings.TrimSpace(in.Phone)
	address := strings.TrimSpace(in.Address)
	speciality := strings.TrimSpace(in.Speciality)

	if len([]rune(name)) < 2 {
		errs.add("Name must be at least 2 characters.")
	}
	errs.maxLen(name, models.MaxUserNameLen, "Name")

	if email == "" || s.validate.Var(email, "required,email") != nil {
		errs.add("Enter a valid email address.")
	} else if len([]rune(email)) > models.MaxEmailLen {
		errs.add(fmt.Sprintf("Email must be at most %d characters.", models.MaxEmailLen))
	} else {
		var count int64
		if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if count > 0 {
			errs.add("An account with this email already exists.")
		}
	}

	if digitCount(phone) < 10 {
		errs.add("Phone number must contain at least 10 digits.")
	}
	errs.maxLen(phone, models.MaxPhoneLen, "Phone number")

	if len([]rune(address)) < 10 {
		errs.add("Address must be at least 10 characters.")
	}

	role, err := models.ParseRole(in.Role)
	if err != nil {
		errs.add("Choose whether you are joining as a customer or a chef.")
	} else {
		switch role {
		case models.RoleChef:
			if speciality == "" {
				errs.add("Chefs must tell customers their speciality.")
			}
			errs.maxLen(speciality, models.MaxSpecialityLen, "Speciality")
		case models.RoleCustomer:
			speciality = ""
		}
	}

	if in.Password != in.ConfirmPassword {
		errs.add("The two password fields didn't match.")
	}
	for _, msg := range s.policy.Validate(in.Password, name, email) {
		errs.add(msg)
	}

	if !in.AcceptTerms {
		errs.add("You must accept the terms and conditions.")
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Name:     name,
		Password: hashed,
		Phone:    phone,
		Address:  address,
		Role:     role,
	}
	if speciality != "" {
		user.Speciality = &speciality
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("User registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Authenticate checks an email/password pair.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// same bcrypt cost as the wrong-password path
		_ = utils.ComparePassword(dummyHash(), password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if utils.ComparePassword(user.Password, password) != nil {
		s.log.Warn("Failed login", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

var (
	dummyHashOnce  sync.Once
	dummyHashValue string
)

// dummyHash is a bcrypt hash compared against when the email is unknown.
func dummyHash() string {
	dummyHashOnce.Do(func() {
		dummyHashValue, _ = utils.HashPassword("homechef-timing-equaliser")
	})
	return dummyHashValue
}

// GetByID loads a user, returning ErrNotFound for unknown ids.
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

// ListChefs returns chefs with at least one in-stock item, each with those
// items preloaded newest first.
func (s *UserService) ListChefs() ([]models.User, error) {
	var chefs []models.User
	err := s.db.
		Where("role = ?", models.RoleChef).
		Where("EXISTS (SELECT 1 FROM food_items WHERE food_items.chef_id = users.id AND food_items.servings_available > 0)").
		Preload("FoodItems", func(db *gorm.DB) *gorm.DB {
			return db.Where("servings_available > 0").Order("created_at DESC, id DESC")
		}).
		Order("name ASC").
		Find(&chefs).Error
	if err != nil {
		return nil, fmt.Errorf("list chefs: %w", err)
	}
	return chefs, nil
}

// Ping checks the database connection.
func (s *UserService) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
