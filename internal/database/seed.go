package database

import (
	"fmt"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedOptions controls the initial administrator account
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

type seedFood struct {
	name, description string
	price             int64
}

var seedCategories = []struct {
	name, description string
	foods             []seedFood
}{
	{"Hamburger", "All kinds of burgers", []seedFood{
		{"Beef Burger", "Signature beef burger", 55000},
		{"Chicken Burger", "Crispy spicy chicken burger", 49000},
		{"Cheese Burger", "Burger with melted cheese", 60000},
		{"Egg Burger", "Beef burger topped with egg", 52000},
		{"Mega Burger", "Our biggest burger", 85000},
	}},
	{"Pizza", "All kinds of pizza", []seedFood{
		{"Seafood Pizza", "Fresh seafood pizza", 120000},
		{"Beef Pizza", "Beef and cheese pizza", 115000},
		{"Chicken Pizza", "BBQ chicken pizza", 110000},
		{"Four Cheese Pizza", "Pizza with four cheeses", 130000},
		{"Veggie Pizza", "Healthy vegetarian pizza", 90000},
	}},
	{"Drink", "Refreshing drinks", []seedFood{
		{"Coca Cola", "Sparkling soft drink", 15000},
		{"Pepsi", "Chilled Pepsi", 15000},
		{"Lemon Tea", "Fresh lemon tea", 20000},
		{"Milk Tea", "Bubble milk tea", 35000},
		{"Orange Juice", "Freshly squeezed orange juice", 25000},
	}},
}

// combo items reference seed foods by their position in seedCategories order
var seedCombos = []struct {
	name, description string
	price             int64
	items             [][2]int
}{
	{"Budget Chicken Combo", "2 chicken burgers, 1 Coca Cola and 1 lemon tea", 79000, [][2]int{{1, 2}, {10, 1}, {12, 1}}},
	{"Hearty Burger Combo", "1 beef burger, 1 cheese burger and 1 Pepsi", 99000, [][2]int{{0, 1}, {2, 1}, {11, 1}}},
	{"Family Combo", "2 mega burgers, 1 seafood pizza and 3 Coca Colas", 199000, [][2]int{{4, 2}, {5, 1}, {10, 3}}},
	{"Pizza Lunch Combo", "1 veggie pizza, 1 egg burger and 1 lemon tea", 159000, [][2]int{{9, 1}, {3, 1}, {12, 1}}},
	{"Office Snack Combo", "1 chicken burger, 1 milk tea and 1 orange juice", 69000, [][2]int{{1, 1}, {13, 1}, {14, 1}}},
}

// Seed populates an empty database with an administrator and a starter menu.
// Each part is skipped when its table already has rows.
func Seed(db *gorm.DB, opts SeedOptions) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedAdmin(tx, opts); err != nil {
			return err
		}
		foods, err := seedMenu(tx)
		if err != nil {
			return err
		}
		return seedComboDefinitions(tx, foods)
	})
}

func seedAdmin(tx *gorm.DB, opts SeedOptions) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		log.Debug("Admin account already present, skipping")
		return nil
	}

	admin := models.User{
		Username: "admin",
		Email:    opts.AdminEmail,
		FullName: "Administrator",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := admin.SetPassword(opts.AdminPassword); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := tx.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.WithField("email", admin.Email).Info("Seeded admin account")
	return nil
}

func seedMenu(tx *gorm.DB) ([]models.FastFood, error) {
	var count int64
	if err := tx.Model(&models.FastFood{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count menu items: %w", err)
	}
	if count > 0 {
		log.Debug("Menu already present, skipping")
		var existing []models.FastFood
		if err := tx.Order("id").Find(&existing).Error; err != nil {
			return nil, fmt.Errorf("load menu items: %w", err)
		}
		return existing, nil
	}

	var foods []models.FastFood
	for _, sc := range seedCategories {
		description := sc.description
		category := models.Category{Name: sc.name, Description: &description}
		if err := tx.Create(&category).Error; err != nil {
			return nil, fmt.Errorf("create category %s: %w", sc.name, err)
		}
		for _, sf := range sc.foods {
			food := models.FastFood{
				Name:        sf.name,
				Description: sf.description,
				Price:       decimal.NewFromInt(sf.price),
				CategoryID:  &category.ID,
				IsActive:    true,
			}
			if err := tx.Create(&food).Error; err != nil {
				return nil, fmt.Errorf("create menu item %s: %w", sf.name, err)
			}
			foods = append(foods, food)
		}
	}
	log.WithFields(logrus.Fields{
		"categories": len(seedCategories),
		"items":      len(foods),
	}).Info("Seeded menu")
	return foods, nil
}

func seedComboDefinitions(tx *gorm.DB, foods []models.FastFood) error {
	var count int64
	if err := tx.Model(&models.Combo{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count combos: %w", err)
	}
	if count > 0 {
		log.Debug("Combos already present, skipping")
		return nil
	}

	created := 0
	for _, sc := range seedCombos {
		combo := models.Combo{
			Name:        sc.name,
			Description: sc.description,
			Price:       decimal.NewFromInt(sc.price),
			IsActive:    true,
		}
		complete := true
		for _, it := range sc.items {
			if it[0] >= len(foods) {
				complete = false
				break
			}
			combo.Items = append(combo.Items, models.ComboItem{FastFoodID: foods[it[0]].ID, Quantity: it[1]})
		}
		if !complete {
			log.WithField("combo", sc.name).Warn("Skipping combo, menu item missing")
			continue
		}
		if err := tx.Create(&combo).Error; err != nil {
			return fmt.Errorf("create combo %s: %w", sc.name, err)
		}
		created++
	}
	log.WithField("combos", created).Info("Seeded combos")
	return nil
}
