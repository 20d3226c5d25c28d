package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"homechef/pkg/logger"
	"homechef/pkg/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	catalogPageSize   = 24
	detailReviewLimit = 50
	defaultServings   = 10
)

// FoodItemInput is the chef's "post food" form.
type FoodItemInput struct {
	Name              string
	Category          string
	Price             string
	Description       string
	ServingsAvailable string
	Availability      string
	IsVegetarian      *bool
	IsSpicy           *bool
	ImageURL          string

	// Optional upload; takes precedence over ImageURL.
	Image            io.Reader
	ImageName        string
	ImageContentType string
}

// FoodSummary is a catalog card: the item plus its computed rating.
type FoodSummary struct {
	models.FoodItem
	ReviewCount int64   `json:"reviewCount"`
	AvgRating   float64 `json:"avgRating"`
}

// FoodDetail is everything the item page shows.
type FoodDetail struct {
	Item        models.FoodItem `json:"item"`
	Reviews     []models.Review `json:"reviews"`
	ReviewCount int64           `json:"reviewCount"`
	AvgRating   float64         `json:"avgRating"`
	IsAvailable bool            `json:"isAvailable"`
}

// CatalogService manages chefs' food listings.
type CatalogService struct {
	db     *gorm.DB
	images ImageStore
	log    *logger.Logger
}

func NewCatalogService(db *gorm.DB, images ImageStore, log *logger.Logger) *CatalogService {
	return &CatalogService{db: db, images: images, log: log.WithComponent("catalog")}
}

// requireChef passes only for chef accounts.
func requireChef(u *models.User) error {
	if u == nil {
		return ErrForbidden
	}
	switch u.Role {
	case models.RoleChef:
		return nil
	case models.RoleCustomer:
		return ErrForbidden
	}
	return ErrForbidden
}

// requireCustomer passes only for customer accounts.
func requireCustomer(u *models.User) error {
	if u == nil {
		return ErrForbidden
	}
	switch u.Role {
	case models.RoleCustomer:
		return nil
	case models.RoleChef:
		return ErrForbidden
	}
	return ErrForbidden
}

type ratingRow struct {
	FoodItemID uint
	Count      int64
	Avg        float64
}

// ratings aggregates review count and mean rating per item.
func (s *CatalogService) ratings(ids []uint) (map[uint]ratingRow, error) {
	out := make(map[uint]ratingRow, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []ratingRow
	err := s.db.Model(&models.Review{}).
		Select("food_item_id, COUNT(*) AS count, AVG(rating) AS avg").
		Where("food_item_id IN ?", ids).
		Group("food_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}
	for _, r := range rows {
		out[r.FoodItemID] = r
	}
	return out, nil
}

// ListAvailable returns the newest in-stock items with their ratings.
func (s *CatalogService) ListAvailable() ([]FoodSummary, error) {
	var items []models.FoodItem
	err := s.db.Preload("Chef").
		Where("servings_available > 0").
		Order("created_at DESC, id DESC").
		Limit(catalogPageSize).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list available items: %w", err)
	}

	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	stats, err := s.ratings(ids)
	if err != nil {
		return nil, err
	}

	out := make([]FoodSummary, len(items))
	for i, item := range items {
		st := stats[item.ID]
		out[i] = FoodSummary{FoodItem: item, ReviewCount: st.Count, AvgRating: st.Avg}
	}
	return out, nil
}

// GetDetail loads an item by id whether or not it is in stock.
func (s *CatalogService) GetDetail(itemID uint) (*FoodDetail, error) {
	var item models.FoodItem
	err := s.db.Preload("Chef").First(&item, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find item %d: %w", itemID, err)
	}

	var reviews []models.Review
	err = s.db.Preload("Customer").
		Where("food_item_id = ?", item.ID).
		Order("created_at DESC, id DESC").
		Limit(detailReviewLimit).
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("list reviews for item %d: %w", itemID, err)
	}

	stats, err := s.ratings([]uint{item.ID})
	if err != nil {
		return nil, err
	}

	return &FoodDetail{
		Item:        item,
		Reviews:     reviews,
		ReviewCount: stats[item.ID].Count,
		AvgRating:   stats[item.ID].Avg,
		IsAvailable: item.InStock(),
	}, nil
}

// ListByChef returns every item of a chef, sold-out ones included.
func (s *CatalogService) ListByChef(chefID uint) ([]models.FoodItem, error) {
	var items []models.FoodItem
	err := s.db.Where("chef_id = ?", chefID).Order("created_at DESC, id DESC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list items of chef %d: %w", chefID, err)
	}
	return items, nil
}

// parseServings turns anything that is not a plain non-negative integer
// into the default.
func parseServings(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultServings
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return defaultServings
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return defaultServings
	}
	return n
}

// PostItem creates a food item for a chef.
func (s *CatalogService) PostItem(ctx context.Context, chef *models.User, in FoodItemInput) (*models.FoodItem, error) {
	if err := requireChef(chef); err != nil {
		return nil, err
	}

	var errs fieldErrors
	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs.add("Food name is required.")
	}
	errs.maxLen(name, models.MaxFoodNameLen, "Food name")
	imageURL := strings.TrimSpace(in.ImageURL)
	errs.maxLen(imageURL, models.MaxImageURLLen, "Image URL")

	var price decimal.Decimal
	rawPrice := strings.TrimSpace(in.Price)
	if rawPrice == "" {
		errs.add("Price is required.")
	} else if p, err := decimal.NewFromString(rawPrice); err != nil {
		errs.add("Enter a valid price, for example 180 or 249.50.")
	} else if p.IsNegative() {
		errs.add("Price cannot be negative.")
	} else {
		price = p.Round(2)
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	item := &models.FoodItem{
		ChefID:            chef.ID,
		Name:              name,
		Category:          models.ParseCategory(strings.TrimSpace(in.Category)),
		Price:             price,
		Description:       strings.TrimSpace(in.Description),
		ImageURL:          imageURL,
		ServingsAvailable: parseServings(in.ServingsAvailable),
		Availability:      models.ParseAvailability(strings.TrimSpace(in.Availability)),
		IsVegetarian:      true,
		IsSpicy:           false,
	}
	if in.IsVegetarian != nil {
		item.IsVegetarian = *in.IsVegetarian
	}
	if in.IsSpicy != nil {
		item.IsSpicy = *in.IsSpicy
	}

	if in.Image != nil && s.images != nil {
		url, err := s.images.Upload(ctx, in.Image, in.ImageName, in.ImageContentType)
		if err != nil {
			return nil, fmt.Errorf("upload image: %w", err)
		}
		item.ImageURL = url
		item.ImageObject = url
	}

	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.log.Info("Food item posted", "item_id", item.ID, "chef_id", chef.ID)
	return item, nil
}

// DeleteItem removes one of the chef's own items. Items of other chefs are
// reported as not found.
func (s *CatalogService) DeleteItem(ctx context.Context, chef *models.User, itemID uint) error {
	if err := requireChef(chef); err != nil {
		return err
	}

	var item models.FoodItem
	err := s.db.Where("id = ? AND chef_id = ?", itemID, chef.ID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find item %d: %w", itemID, err)
	}

	if err := s.db.Delete(&item).Error; err != nil {
		return fmt.Errorf("delete item %d: %w", itemID, err)
	}

	s.deleteImage(ctx, &item)

	s.log.Info("Food item deleted", "item_id", item.ID, "chef_id", chef.ID)
	return nil
}

// deleteImage removes the object uploaded for item. A typed image_url is
// never deleted, and neither is an object some other item still shows.
func (s *CatalogService) deleteImage(ctx context.Context, item *models.FoodItem) {
	if item.ImageObject == "" || s.images == nil {
		return
	}

	var refs int64
	err := s.db.Model(&models.FoodItem{}).
		Where("id <> ? AND (image_object = ? OR image_url = ?)", item.ID, item.ImageObject, item.ImageObject).
		Count(&refs).Error
	if err != nil {
		s.log.Warn("Failed to check image references", "item_id", item.ID, "error", err)
		return
	}
	if refs > 0 {
		return
	}

	if err := s.images.Delete(ctx, item.ImageObject); err != nil {
		s.log.Warn("Failed to delete item image", "item_id", item.ID, "error", err)
	}
}
