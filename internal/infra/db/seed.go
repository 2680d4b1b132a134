package db

import (
	"context"
	"time"

	"delivery/internal/domain/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 開発用の初期データ。全ユーザーのパスワードは "123456"。
const seedPassword = "123456"

// Seed はレストランが1件も無いときだけ初期データを入れる。
func Seed(ctx context.Context, gdb *gorm.DB, hash func(plain string) (string, error)) error {
	var n int64
	if err := gdb.WithContext(ctx).Model(&model.Restaurant{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		log.Info().Int64("restaurants", n).Msg("seed skipped")
		return nil
	}

	pw, err := hash(seedPassword)
	if err != nil {
		return err
	}

	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customers := []model.Customer{
			{Name: "João Silva", Email: "joao@email.com", Phone: "(11) 99999-1111", Address: "Rua A, 123 - São Paulo/SP", Active: true},
			{Name: "Maria Santos", Email: "maria@email.com", Phone: "(11) 99999-2222", Address: "Rua B, 456 - São Paulo/SP", Active: true},
			{Name: "Pedro Oliveira", Email: "pedro@email.com", Phone: "(11) 99999-3333", Address: "Rua C, 789 - São Paulo/SP", Active: true},
		}
		if err := tx.Create(&customers).Error; err != nil {
			return err
		}

		restaurants := []model.Restaurant{
			{Name: "Pizzaria Bella", Category: "Italiana", Address: "Av. Paulista, 1000", Phone: "(11) 3333-1111",
				DeliveryFee: decimal.RequireFromString("5.00"), Rating: decimal.RequireFromString("4.5"), Active: true, DeliveryTimeMinutes: 40, OpeningHours: "18:00-23:00"},
			{Name: "Burger House", Category: "Hamburgueria", Address: "Rua Augusta, 500", Phone: "(11) 3333-2222",
				DeliveryFee: decimal.RequireFromString("3.50"), Rating: decimal.RequireFromString("4.2"), Active: true, DeliveryTimeMinutes: 30, OpeningHours: "11:00-23:00"},
			{Name: "Sushi Master", Category: "Japonesa", Address: "Rua Liberdade, 200", Phone: "(11) 3333-3333",
				DeliveryFee: decimal.RequireFromString("8.00"), Rating: decimal.RequireFromString("4.8"), Active: true, DeliveryTimeMinutes: 50, OpeningHours: "12:00-22:00"},
		}
		if err := tx.Create(&restaurants).Error; err != nil {
			return err
		}
		bella, burger, sushi := restaurants[0], restaurants[1], restaurants[2]

		products := []model.Product{
			{Name: "Pizza Margherita", Price: decimal.RequireFromString("35.90"), Category: "Pizza", Available: true, RestaurantID: bella.ID},
			{Name: "Pizza Calabresa", Price: decimal.RequireFromString("38.90"), Category: "Pizza", Available: true, RestaurantID: bella.ID},
			{Name: "X-Burger", Price: decimal.RequireFromString("18.90"), Category: "Hambúrguer", Available: true, RestaurantID: burger.ID},
			{Name: "Batata Frita", Price: decimal.RequireFromString("12.90"), Category: "Acompanhamento", Available: true, RestaurantID: burger.ID},
			{Name: "Combo Sashimi", Price: decimal.RequireFromString("45.90"), Category: "Sashimi", Available: true, RestaurantID: sushi.ID},
		}
		if err := tx.Create(&products).Error; err != nil {
			return err
		}

		// 注文1件（明細1行）
		now := time.Now()
		order := model.NewOrder(customers[0].ID, bella.ID, customers[0].Address, "", bella.DeliveryFee, now)
		order.OrderNumber = "PED-5EED0001"
		if _, err := order.AddItem(products[0].ID, products[0].Name, products[0].Price, 1); err != nil {
			return err
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		if err := tx.Create(&order.Items).Error; err != nil {
			return err
		}

		bellaID := bella.ID
		users := []model.User{
			{Email: "admin@delivery.com", PasswordHash: pw, Name: "Admin Sistema", Role: model.RoleAdmin, IsActive: true},
			{Email: "joao.cliente@email.com", PasswordHash: pw, Name: "João Cliente", Role: model.RoleCustomer, IsActive: true},
			{Email: "pizza@palace.com", PasswordHash: pw, Name: "Pizza Palace", Role: model.RoleRestaurant, IsActive: true, RestaurantID: &bellaID},
		}
		if err := tx.Create(&users).Error; err != nil {
			return err
		}

		log.Info().
			Int("customers", len(customers)).
			Int("restaurants", len(restaurants)).
			Int("products", len(products)).
			Int("users", len(users)).
			Msg("seed data inserted")
		return nil
	})
}
