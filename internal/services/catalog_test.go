package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func TestFastFoodService(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	categories := NewCategoryService(db, NewSanitizer())
	svc := NewFastFoodService(db, NewSanitizer())

	burgers, err := categories.Create(ctx, models.CategoryInput{Name: "Hamburger", Description: strPtr("All burgers")})
	require.NoError(t, err)

	t.Run("create sanitizes and activates", func(t *testing.T) {
		food, err := svc.Create(ctx, models.FastFoodInput{
			Name:        "<b>Chicken Burger</b>",
			Description: "Crispy<script>x()</script>",
			Price:       decimal.RequireFromString("49000"),
			CategoryID:  &burgers.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "Chicken Burger", food.Name)
		assert.Equal(t, "Crispy", food.Description)
		assert.True(t, food.IsActive)
		require.NotNil(t, food.CategoryID)
		assert.Equal(t, burgers.ID, *food.CategoryID)
	})

	t.Run("create validation", func(t *testing.T) {
		missing := uint(9999)
		testCases := []struct {
			name  string
			input models.FastFoodInput
		}{
			{"negative price", models.FastFoodInput{Name: "A", Description: "B", Price: decimal.NewFromInt(-1)}},
			{"three decimals", models.FastFoodInput{Name: "A", Description: "B", Price: decimal.RequireFromString("1.005")}},
			{"above money column", models.FastFoodInput{Name: "A", Description: "B", Price: decimal.RequireFromString("100000000")}},
			{"blank after sanitizing", models.FastFoodInput{Name: "<p></p>", Description: "B", Price: decimal.NewFromInt(1)}},
			{"unknown category", models.FastFoodInput{Name: "A", Description: "B", Price: decimal.NewFromInt(1), CategoryID: &missing}},
		}
		for _, tt := range testCases {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Create(ctx, tt.input)
				assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
			})
		}
	})

	t.Run("toggle hides from active listing", func(t *testing.T) {
		food := createFastFood(t, db, "Egg Burger", "52000", true)

		toggled, err := svc.ToggleActive(ctx, food.ID)
		require.NoError(t, err)
		assert.False(t, toggled.IsActive)

		active, err := svc.ListActive(ctx, nil)
		require.NoError(t, err)
		for _, f := range active {
			assert.NotEqual(t, food.ID, f.ID)
		}
		_, err = svc.Resolve(ctx, food.ID)
		assert.True(t, errors.Is(err, ErrNotFound))

		all, err := svc.ListAll(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(all), len(active)+1)

		toggled, err = svc.ToggleActive(ctx, food.ID)
		require.NoError(t, err)
		assert.True(t, toggled.IsActive)
	})

	t.Run("list active by category", func(t *testing.T) {
		foods, err := svc.ListActive(ctx, &burgers.ID)
		require.NoError(t, err)
		require.NotEmpty(t, foods)
		for _, f := range foods {
			require.NotNil(t, f.CategoryID)
			assert.Equal(t, burgers.ID, *f.CategoryID)
		}
	})

	t.Run("set image", func(t *testing.T) {
		food := createFastFood(t, db, "Mega Burger", "85000", true)

		updated, err := svc.SetImage(ctx, food.ID, "http://localhost:8080/images/foods/a.png")
		require.NoError(t, err)
		require.NotNil(t, updated.ImageURL)

		stored, err := svc.GetByID(ctx, food.ID)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/images/foods/a.png", *stored.ImageURL)
	})

	t.Run("delete blocked while ordered", func(t *testing.T) {
		user := createUser(t, db, "orderer@example.com", models.RoleCustomer)
		food := createFastFood(t, db, "Seafood Pizza", "120000", true)
		placeOrder(t, NewOrderService(db, NewSanitizer()), user.ID,
			models.RequestedLine{Kind: models.ItemKindFastFood, ReferenceID: food.ID, Quantity: 1})

		err := svc.Delete(ctx, food.ID)
		assert.True(t, errors.Is(err, ErrConflict), "got %v", err)

		_, err = svc.GetByID(ctx, food.ID)
		assert.NoError(t, err)
	})

	t.Run("delete removes combo entries", func(t *testing.T) {
		food := createFastFood(t, db, "Orange Juice", "25000", true)
		other := createFastFood(t, db, "Veggie Pizza", "90000", true)
		combo := createCombo(t, db, "Juice Combo", "100000",
			models.ComboItem{FastFoodID: food.ID, Quantity: 1},
			models.ComboItem{FastFoodID: other.ID, Quantity: 1})

		require.NoError(t, svc.Delete(ctx, food.ID))

		_, err := svc.GetByID(ctx, food.ID)
		assert.True(t, errors.Is(err, ErrNotFound))

		var items []models.ComboItem
		require.NoError(t, db.Where("combo_id = ?", combo.ID).Find(&items).Error)
		require.Len(t, items, 1)
		assert.Equal(t, other.ID, items[0].FastFoodID)
	})

	t.Run("delete unknown", func(t *testing.T) {
		assert.True(t, errors.Is(svc.Delete(ctx, 123456), ErrNotFound))
	})
}

func TestCategoryService(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewCategoryService(db, NewSanitizer())

	drinks, err := svc.Create(ctx, models.CategoryInput{Name: "Drink"})
	require.NoError(t, err)
	assert.Nil(t, drinks.Description)

	updated, err := svc.Update(ctx, drinks.ID, models.CategoryInput{Name: "Drinks", Description: strPtr("Cold ones")})
	require.NoError(t, err)
	assert.Equal(t, "Drinks", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Cold ones", *updated.Description)

	_, err = svc.Create(ctx, models.CategoryInput{Name: "<i></i>"})
	assert.True(t, errors.Is(err, ErrValidation))

	t.Run("delete detaches menu items", func(t *testing.T) {
		cola := createFastFood(t, db, "Coca Cola", "15000", true)
		require.NoError(t, db.Model(&models.FastFood{}).Where("id = ?", cola.ID).Update("category_id", drinks.ID).Error)

		require.NoError(t, svc.Delete(ctx, drinks.ID))

		var stored models.FastFood
		require.NoError(t, db.First(&stored, cola.ID).Error)
		assert.Nil(t, stored.CategoryID)

		_, err := svc.GetByID(ctx, drinks.ID)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestComboService(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewComboService(db, NewSanitizer())

	burger := createFastFood(t, db, "Beef Burger", "55000", true)
	fries := createFastFood(t, db, "Fries", "20000", true)
	cola := createFastFood(t, db, "Coca Cola", "15000", true)

	combo, err := svc.Create(ctx, models.ComboInput{
		Name:        "Burger Combo",
		Description: "Burger, fries and a drink",
		Price:       decimal.NewFromInt(79000),
		Items: []models.ComboItemInput{
			{FastFoodID: burger.ID, Quantity: 2},
			{FastFoodID: fries.ID},
		},
	})
	require.NoError(t, err)
	assert.True(t, combo.IsActive)
	require.Len(t, combo.Items, 2)
	assert.Equal(t, 2, combo.Items[0].Quantity)
	assert.Equal(t, 1, combo.Items[1].Quantity, "omitted quantity defaults to one")

	t.Run("price is independent of contents", func(t *testing.T) {
		stored, err := svc.Resolve(ctx, combo.ID)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(79000).Equal(stored.Price))
	})

	t.Run("create rejects bad items", func(t *testing.T) {
		_, err := svc.Create(ctx, models.ComboInput{
			Name: "Ghost", Description: "nothing", Price: decimal.NewFromInt(1),
			Items: []models.ComboItemInput{{FastFoodID: 9999, Quantity: 1}},
		})
		assert.True(t, errors.Is(err, ErrReferenceNotFound))

		_, err = svc.Create(ctx, models.ComboInput{
			Name: "Negative", Description: "nothing", Price: decimal.NewFromInt(1),
			Items: []models.ComboItemInput{{FastFoodID: burger.ID, Quantity: -1}},
		})
		assert.True(t, errors.Is(err, ErrInvalidQuantity))

		_, err = svc.Create(ctx, models.ComboInput{Name: "Empty", Description: "nothing", Price: decimal.NewFromInt(1)})
		assert.True(t, errors.Is(err, ErrValidation))

		assert.Equal(t, int64(1), countRows(t, db, &models.Combo{}))
	})

	t.Run("update replaces item list", func(t *testing.T) {
		updated, err := svc.Update(ctx, combo.ID, models.ComboInput{
			Name:        "Burger Combo",
			Description: "Now with a cola",
			Price:       decimal.RequireFromString("81000.50"),
			Items:       []models.ComboItemInput{{FastFoodID: cola.ID, Quantity: 3}},
		})
		require.NoError(t, err)
		assert.Equal(t, "Now with a cola", updated.Description)
		assert.Equal(t, "81000.50", updated.Price.StringFixed(2))
		require.Len(t, updated.Items, 1)
		assert.Equal(t, cola.ID, updated.Items[0].FastFoodID)
		assert.Equal(t, 3, updated.Items[0].Quantity)
		assert.Equal(t, int64(1), countRows(t, db, &models.ComboItem{}))
	})

	t.Run("failed update keeps previous items", func(t *testing.T) {
		_, err := svc.Update(ctx, combo.ID, models.ComboInput{
			Name: "Burger Combo", Description: "x", Price: decimal.NewFromInt(1),
			Items: []models.ComboItemInput{{FastFoodID: 9999}},
		})
		assert.True(t, errors.Is(err, ErrReferenceNotFound))

		stored, err := svc.GetByID(ctx, combo.ID)
		require.NoError(t, err)
		require.Len(t, stored.Items, 1)
		assert.Equal(t, cola.ID, stored.Items[0].FastFoodID)
	})

	t.Run("toggle hides from ordering", func(t *testing.T) {
		toggled, err := svc.ToggleActive(ctx, combo.ID)
		require.NoError(t, err)
		assert.False(t, toggled.IsActive)

		_, err = svc.Resolve(ctx, combo.ID)
		assert.True(t, errors.Is(err, ErrNotFound))
		active, err := svc.ListActive(ctx)
		require.NoError(t, err)
		assert.Empty(t, active)

		_, err = svc.ToggleActive(ctx, combo.ID)
		require.NoError(t, err)
	})

	t.Run("delete blocked while ordered", func(t *testing.T) {
		user := createUser(t, db, "combo@example.com", models.RoleCustomer)
		placeOrder(t, NewOrderService(db, NewSanitizer()), user.ID,
			models.RequestedLine{Kind: models.ItemKindCombo, ReferenceID: combo.ID, Quantity: 1})

		err := svc.Delete(ctx, combo.ID)
		assert.True(t, errors.Is(err, ErrConflict))
	})

	t.Run("delete cascades items", func(t *testing.T) {
		spare := createCombo(t, db, "Spare", "10000", models.ComboItem{FastFoodID: fries.ID, Quantity: 1})

		require.NoError(t, svc.Delete(ctx, spare.ID))

		var remaining int64
		db.Model(&models.ComboItem{}).Where("combo_id = ?", spare.ID).Count(&remaining)
		assert.Zero(t, remaining)
	})
}

func TestForeignKeysGuardPlacedOrders(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "fk@example.com", models.RoleCustomer)
	burger := createFastFood(t, db, "Beef Burger", "55000", true)
	fries := createFastFood(t, db, "Fries", "20000", true)
	combo := createCombo(t, db, "Budget Combo", "79000", models.ComboItem{FastFoodID: burger.ID, Quantity: 1})
	spare := createCombo(t, db, "Fries Combo", "30000", models.ComboItem{FastFoodID: fries.ID, Quantity: 2})

	placeOrder(t, NewOrderService(db, NewSanitizer()), user.ID,
		models.RequestedLine{Kind: models.ItemKindFastFood, ReferenceID: burger.ID, Quantity: 1},
		models.RequestedLine{Kind: models.ItemKindCombo, ReferenceID: combo.ID, Quantity: 1},
	)

	t.Run("ordered rows cannot be deleted directly", func(t *testing.T) {
		err := db.Delete(&models.FastFood{}, burger.ID).Error
		assert.True(t, isForeignKeyViolation(err), "got %v", err)

		err = db.Delete(&models.Combo{}, combo.ID).Error
		assert.True(t, isForeignKeyViolation(err), "got %v", err)

		assert.Equal(t, int64(2), countRows(t, db, &models.OrderItem{}))
		assert.Equal(t, int64(2), countRows(t, db, &models.FastFood{}))
	})

	t.Run("menu item delete cascades combo entries", func(t *testing.T) {
		require.NoError(t, db.Delete(&models.FastFood{}, fries.ID).Error)

		var remaining int64
		db.Model(&models.ComboItem{}).Where("combo_id = ?", spare.ID).Count(&remaining)
		assert.Zero(t, remaining)
	})

	t.Run("category delete detaches menu items", func(t *testing.T) {
		category := models.Category{Name: "Burgers"}
		require.NoError(t, db.Create(&category).Error)
		require.NoError(t, db.Model(&models.FastFood{}).Where("id = ?", burger.ID).Update("category_id", category.ID).Error)

		require.NoError(t, db.Delete(&models.Category{}, category.ID).Error)

		var stored models.FastFood
		require.NoError(t, db.First(&stored, burger.ID).Error)
		assert.Nil(t, stored.CategoryID)
	})

	t.Run("user delete cascades orders", func(t *testing.T) {
		require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

		assert.Zero(t, countRows(t, db, &models.Order{}))
		assert.Zero(t, countRows(t, db, &models.OrderItem{}))
	})
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.False(t, isForeignKeyViolation(nil))
	assert.False(t, isForeignKeyViolation(errors.New("disk full")))
	assert.True(t, isForeignKeyViolation(gorm.ErrForeignKeyViolated))
	assert.True(t, isForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.True(t, isForeignKeyViolation(errors.New(`ERROR: update or delete on table "fast_foods" violates foreign key constraint "fk_order_items_fast_food" (SQLSTATE 23503)`)))
}
