package main

import (
	"storefront/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.UserModel{},
		model.AdminProfileModel{},
		model.AuthenticationModel{},
		model.RefreshTokenModel{},
		model.ProductModel{},
		model.CategoryModel{},
		model.CartModel{},
		model.CartItemModel{},
		model.OrderModel{},
		model.OrderItemModel{},
		model.PaymentModel{},
		model.ReviewModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
