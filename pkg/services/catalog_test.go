package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"homechef/pkg/logger"
	"homechef/pkg/models"
	"homechef/pkg/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestPostItem_AppliesDefaults(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCatalogService(db, nil, logger.Nop())
	chef := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")

	item, err := svc.PostItem(context.Background(), chef, FoodItemInput{
		Name:  "  Paneer Thali ",
		Price: "249.5",
	})
	require.NoError(t, err)

	var stored models.FoodItem
	require.NoError(t, db.First(&stored, item.ID).Error)
	assert.Equal(t, "Paneer Thali", stored.Name)
	assert.Equal(t, chef.ID, stored.ChefID)
	assert.Equal(t, models.CategoryOther, stored.Category)
	assert.Equal(t, models.AvailabilityDaily, stored.Availability)
	assert.Equal(t, 10, stored.ServingsAvailable)
	assert.True(t, stored.IsVegetarian)
	assert.False(t, stored.IsSpicy)
	assert.True(t, decimal.RequireFromString("249.50").Equal(stored.Price))
}

func TestPostItem_StoresExplicitFalseAndZero(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCatalogService(db, nil, logger.Nop())
	chef := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")

	item, err := svc.PostItem(context.Background(), chef, FoodItemInput{
		Name:              "Chicken Chettinad",
		Price:             "320",
		Category:          "dinner",
		Availability:      "weekends",
		ServingsAvailable: "0",
		IsVegetarian:      boolPtr(false),
		IsSpicy:           boolPtr(true),
	})
	require.NoError(t, err)

	var stored models.FoodItem
	require.NoError(t, db.First(&stored, item.ID).Error)
	assert.Equal(t, models.CategoryDinner, stored.Category)
	assert.Equal(t, models.AvailabilityWeekends, stored.Availability)
	assert.Equal(t, 0, stored.ServingsAvailable)
	assert.False(t, stored.IsVegetarian)
	assert.True(t, stored.IsSpicy)
}

func TestPostItem_Validation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCatalogService(db, nil, logger.Nop())
	chef := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")

	tests := []struct {
		name string
		in   FoodItemInput
		want []string
	}{
		{"missing name and price", FoodItemInput{}, []string{"Food name is required.", "Price is required."}},
		{"malformed price", FoodItemInput{Name: "Dal", Price: "twelve"}, []string{"Enter a valid price, for example 180 or 249.50."}},
		{"negative price", FoodItemInput{Name: "Dal", Price: "-5"}, []string{"Price cannot be negative."}},
		{"long name", FoodItemInput{Name: strings.Repeat("d", 201), Price: "90"}, []string{"Food name must be at most 200 characters."}},
		{"long image url", FoodItemInput{Name: "Dal", Price: "90", ImageURL: "https://cdn.example.com/" + strings.Repeat("i", 480)}, []string{"Image URL must be at most 500 characters."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PostItem(context.Background(), chef, tt.in)
			assert.Equal(t, tt.want, ValidationMessages(err))
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.FoodItem{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPostItem_CustomerForbidden(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCatalogService(db, nil, logger.Nop())
	customer := testutil.CreateUser(t, db, models.RoleCustomer, "Arjun Rao")

	_, err := svc.PostItem(context.Background(), customer, FoodItemInput{Name: "Dal", Price: "90"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.PostItem(context.Background(), nil, FoodItemInput{Name: "Dal", Price: "90"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestParseServings(t *testing.T) {
	tests := map[string]int{
		"":      10,
		"3":     3,
		" 7 ":   7,
		"0":     0,
		"-2":    10,
		"five":  10,
		"2.5":   10,
		"1e3":   10,
		"00012": 12,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseServings(in), "input %q", in)
	}
}

func TestPostItem_UploadsImage(t *testing.T) {
	db := testutil.NewDB(t)
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/media/")
	require.NoError(t, err)
	svc := NewCatalogService(db, store, logger.Nop())
	chef := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")

	item, err := svc.PostItem(context.Background(), chef, FoodItemInput{
		Name:      "Rava Kesari",
		Price:     "60",
		ImageURL:  "https://example.com/ignored.jpg",
		Image:     strings.NewReader("fake-jpeg"),
		ImageName: "../kesari photo.jpg",
	})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(item.ImageURL, "/media/"), item.ImageURL)
	assert.True(t, strings.HasSuffix(item.ImageURL, "-kesari-photo.jpg"), item.ImageURL)
	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(item.ImageURL, "/media/")))
	require.NoError(t, err)
	assert.Equal(t, "fake-jpeg", string(data))

	require.NoError(t, svc.DeleteItem(context.Background(), chef, item.ID))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteItem_LeavesImagesItDidNotUpload(t *testing.T) {
	db := testutil.NewDB(t)
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/media/")
	require.NoError(t, err)
	svc := NewCatalogService(db, store, logger.Nop())
	owner := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	other := testutil.CreateUser(t, db, models.RoleChef, "Kiran Shetty")

	own, err := svc.PostItem(context.Background(), owner, FoodItemInput{
		Name:      "Rava Kesari",
		Price:     "60",
		Image:     strings.NewReader("fake-jpeg"),
		ImageName: "kesari.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, own.ImageURL, own.ImageObject)
	path := filepath.Join(dir, strings.TrimPrefix(own.ImageURL, "/media/"))

	borrowed, err := svc.PostItem(context.Background(), other, FoodItemInput{
		Name:     "Kesari Bath",
		Price:    "55",
		ImageURL: own.ImageURL,
	})
	require.NoError(t, err)
	assert.Empty(t, borrowed.ImageObject)

	require.NoError(t, svc.DeleteItem(context.Background(), other, borrowed.ID))
	_, err = os.Stat(path)
	assert.NoError(t, err)

	require.NoError(t, svc.DeleteItem(context.Background(), owner, own.ID))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteItem_KeepsUploadStillShownElsewhere(t *testing.T) {
	db := testutil.NewDB(t)
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/media/")
	require.NoError(t, err)
	svc := NewCatalogService(db, store, logger.Nop())
	owner := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	other := testutil.CreateUser(t, db, models.RoleChef, "Kiran Shetty")

	own, err := svc.PostItem(context.Background(), owner, FoodItemInput{
		Name:      "Rava Kesari",
		Price:     "60",
		Image:     strings.NewReader("fake-jpeg"),
		ImageName: "kesari.jpg",
	})
	require.NoError(t, err)
	_, err = svc.PostItem(context.Background(), other, FoodItemInput{
		Name:     "Kesari Bath",
		Price:    "55",
		ImageURL: own.ImageURL,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(context.Background(), owner, own.ID))
	_, err = os.Stat(filepath.Join(dir, strings.TrimPrefix(own.ImageURL, "/media/")))
	assert.NoError(t, err)
}

func TestListAvailable_ExcludesSoldOutAndComputesRatings(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCatalogService(db, nil, logger.Nop())
	chef := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	alice := testutil.CreateUser(t, db, models.RoleCustomer, "Alice Fernandes")
	bob := testutil.CreateUser(t, db, models.RoleCustomer, "Bob Dsouza")

	dosa := testutil.CreateItem(t, db, chef, "Dosa", "120", 5)
	testutil.CreateItem(t, db, chef, "Idli", "80", 0)
	vada := testutil.CreateItem(t, db, chef, "Vada", "60", 2)

	require.NoError(t, db.Create(&models.Review{FoodItemID: dosa.ID, CustomerID: alice.ID, Rating: 5, Text: "Crisp"}).Error)
	require.NoError(t, db.Create(&models.Review{FoodItemID: dosa.ID, CustomerID: bob.ID, Rating: 4, Text: "Good"}).Error)

	items, err := svc.ListAvailable()
	require.NoError(t, err)
	require.Len(t, items, 2)

	byID := map[uint]FoodSummary{}
	for _, it := range items {
		byID[it.ID] = it
	}
	assert.EqualValues(t, 2, byID[dosa.ID].ReviewCount)
	assert.InDelta(t, 4.5, byID[dosa.ID].AvgRating, 0.001)
	assert.Equal(t, "Meera Iyer", byID[dosa.ID].Chef.Name)
	assert.Zero(t, byID[vada.ID].ReviewCount)
	assert.Zero(t, byID[vada.ID].AvgRating)
}

func TestListAvailable_CapsAt24(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCatalogService(db, nil, logger.Nop())
	chef := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	for i := 0; i < 30; i++ {
		testutil.CreateItem(t, db, chef, "Dish", "10", 1)
	}

	items, err := svc.ListAvailable()
	require.NoError(t, err)
	assert.Len(t, items, 24)
}

func TestGetDetail(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCatalogService(db, nil, logger.Nop())
	chef := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	customer := testutil.CreateUser(t, db, models.RoleCustomer, "Arjun Rao")
	soldOut := testutil.CreateItem(t, db, chef, "Idli", "80", 0)
	require.NoError(t, db.Create(&models.Review{FoodItemID: soldOut.ID, CustomerID: customer.ID, Rating: 3, Text: "Soft"}).Error)

	detail, err := svc.GetDetail(soldOut.ID)
	require.NoError(t, err)
	assert.False(t, detail.IsAvailable)
	assert.EqualValues(t, 1, detail.ReviewCount)
	assert.InDelta(t, 3.0, detail.AvgRating, 0.001)
	require.Len(t, detail.Reviews, 1)
	assert.Equal(t, "Arjun Rao", detail.Reviews[0].Customer.Name)

	_, err = svc.GetDetail(soldOut.ID + 100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteItem_OnlyOwnItems(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCatalogService(db, nil, logger.Nop())
	owner := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	other := testutil.CreateUser(t, db, models.RoleChef, "Tenzin Dolma")
	item := testutil.CreateItem(t, db, owner, "Dosa", "120", 5)

	err := svc.DeleteItem(context.Background(), other, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	err = svc.DeleteItem(context.Background(), other, item.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.DeleteItem(context.Background(), owner, item.ID))
	var count int64
	require.NoError(t, db.Model(&models.FoodItem{}).Where("id = ?", item.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteItem_KeepsOrdersAndDropsReviews(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCatalogService(db, nil, logger.Nop())
	chef := testutil.CreateUser(t, db, models.RoleChef, "Meera Iyer")
	customer := testutil.CreateUser(t, db, models.RoleCustomer, "Arjun Rao")
	item := testutil.CreateItem(t, db, chef, "Dosa", "120", 5)
	order := testutil.CreateOrder(t, db, customer, item, 1, models.OrderStatusPending, "₹120")
	require.NoError(t, db.Create(&models.Review{FoodItemID: item.ID, CustomerID: customer.ID, Rating: 5, Text: "Great"}).Error)

	require.NoError(t, svc.DeleteItem(context.Background(), chef, item.ID))

	var kept models.Order
	require.NoError(t, db.First(&kept, order.ID).Error)
	assert.Nil(t, kept.FoodItemID)
	assert.Equal(t, "Dosa", kept.DishName())

	var reviews int64
	require.NoError(t, db.Model(&models.Review{}).Count(&reviews).Error)
	assert.Zero(t, reviews)
}
