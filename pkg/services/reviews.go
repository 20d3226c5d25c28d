package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"homechef/pkg/logger"
	"homechef/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const reviewInputMessage = "Please provide a rating between 1 and 5 and a review."

// ReviewService records customer reviews and chef replies.
type ReviewService struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewReviewService(db *gorm.DB, log *logger.Logger) *ReviewService {
	return &ReviewService{db: db, log: log.WithComponent("reviews"), now: time.Now}
}

// Submit creates the customer's review of an item. A second submission for
// the same item returns the first review untouched with created=false.
func (s *ReviewService) Submit(customer *models.User, itemID uint, rating, text string, orderID *uint) (*models.Review, bool, error) {
	if err := requireCustomer(customer); err != nil {
		return nil, false, err
	}

	var item models.FoodItem
	err := s.db.Select("id").First(&item, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, ErrNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("find item %d: %w", itemID, err)
	}

	stars, convErr := strconv.Atoi(strings.TrimSpace(rating))
	text = strings.TrimSpace(text)
	if convErr != nil || stars < 1 || stars > 5 || text == "" {
		return nil, false, &ValidationError{Messages: []string{reviewInputMessage}}
	}

	review := &models.Review{
		FoodItemID: item.ID,
		CustomerID: customer.ID,
		Rating:     stars,
		Text:       text,
	}
	if orderID != nil {
		var count int64
		err := s.db.Model(&models.Order{}).
			Where("id = ? AND customer_id = ? AND food_item_id = ?", *orderID, customer.ID, item.ID).
			Count(&count).Error
		if err != nil {
			return nil, false, fmt.Errorf("check review order: %w", err)
		}
		if count > 0 {
			id := *orderID
			review.OrderID = &id
		}
	}

	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "food_item_id"}, {Name: "customer_id"}},
		DoNothing: true,
	}).Create(review)
	if res.Error != nil {
		return nil, false, fmt.Errorf("create review: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		s.log.Info("Review submitted", "review_id", review.ID, "item_id", item.ID, "customer_id", customer.ID)
		return review, true, nil
	}

	var existing models.Review
	err = s.db.Where("food_item_id = ? AND customer_id = ?", item.ID, customer.ID).First(&existing).Error
	if err != nil {
		return nil, false, fmt.Errorf("load existing review: %w", err)
	}
	return &existing, false, nil
}

// Reply sets the chef's answer on a review of one of their items. An empty
// reply clears it.
func (s *ReviewService) Reply(chef *models.User, reviewID uint, text string) (*models.Review, error) {
	if err := requireChef(chef); err != nil {
		return nil, err
	}

	var review models.Review
	err := s.db.Joins("JOIN food_items ON food_items.id = reviews.food_item_id").
		Where("reviews.id = ? AND food_items.chef_id = ?", reviewID, chef.ID).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find review %d: %w", reviewID, err)
	}

	updates := map[string]interface{}{"chef_reply": nil, "replied_at": nil}
	review.ChefReply, review.RepliedAt = nil, nil
	if text = strings.TrimSpace(text); text != "" {
		now := s.now()
		updates["chef_reply"], updates["replied_at"] = text, now
		review.ChefReply, review.RepliedAt = &text, &now
	}

	if err := s.db.Model(&models.Review{}).Where("id = ?", review.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("save reply on review %d: %w", reviewID, err)
	}

	s.log.Info("Review reply saved", "review_id", review.ID, "chef_id", chef.ID, "cleared", review.ChefReply == nil)
	return &review, nil
}

// ListForChef returns the newest reviews on the chef's items.
func (s *ReviewService) ListForChef(chef *models.User, limit int) ([]models.Review, error) {
	if err := requireChef(chef); err != nil {
		return nil, err
	}

	var reviews []models.Review
	err := s.db.Preload("FoodItem").Preload("Customer").
		Joins("JOIN food_items ON food_items.id = reviews.food_item_id").
		Where("food_items.chef_id = ?", chef.ID).
		Order("reviews.created_at DESC, reviews.id DESC").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("list reviews of chef %d: %w", chef.ID, err)
	}
	return reviews, nil
}
