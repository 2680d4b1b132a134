package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestValidateRegister(t *testing.T) {
	assert.True(t, ValidateRegister("joao@email.com", "123456", "João").Empty())

	f := ValidateRegister("joao@", "", " ")
	assert.Equal(t, "must be a valid email", f["email"])
	assert.Equal(t, "is required", f["password"])
	assert.Equal(t, "is required", f["name"])

	// ドメインにドットが無い
	assert.Contains(t, ValidateRegister("joao@localhost", "123456", "João"), "email")
}

func TestValidateLogin(t *testing.T) {
	assert.True(t, ValidateLogin("a@b.com", "x").Empty())
	assert.Len(t, ValidateLogin("", ""), 2)
}

func TestValidateRestaurant(t *testing.T) {
	assert.True(t, ValidateRestaurant("Pizzaria Bella", dec("0"), 40).Empty())

	f := ValidateRestaurant("", dec("-1.00"), -5)
	assert.Equal(t, "is required", f["name"])
	assert.Equal(t, "must not be negative", f["delivery_fee"])
	assert.Contains(t, f, "delivery_time_minutes")

	assert.Equal(t, "is required", ValidateRestaurant("X", nil, 0)["delivery_fee"])
	assert.Equal(t, "must have at most 2 decimal places", ValidateRestaurant("X", dec("5.999"), 0)["delivery_fee"])
}

func TestValidateProduct(t *testing.T) {
	assert.True(t, ValidateProduct("Pizza", dec("35.90")).Empty())
	assert.Equal(t, "must be greater than zero", ValidateProduct("Pizza", dec("0"))["price"])
	assert.Equal(t, "is required", ValidateProduct("Pizza", nil)["price"])
	// 末尾のゼロは問題なし
	assert.True(t, ValidateProduct("Pizza", dec("35.900")).Empty())
}

func TestValidateCustomer(t *testing.T) {
	assert.True(t, ValidateCustomer("Maria", "maria@email.com", "(11) 99999-0000").Empty())
	assert.Contains(t, ValidateCustomer("Maria", "maria", ""), "email")
}

func TestValidateCreateOrder(t *testing.T) {
	lines := []OrderLine{{ProductID: 11, Quantity: 2}}
	assert.True(t, ValidateCreateOrder(1, 10, "Rua A, 100", lines).Empty())

	f := ValidateCreateOrder(0, 0, "", nil)
	assert.Contains(t, f, "customer_id")
	assert.Contains(t, f, "restaurant_id")
	assert.Contains(t, f, "delivery_address")
	assert.Equal(t, "must contain at least one item", f["items"])

	f = ValidateCreateOrder(1, 10, "Rua A", []OrderLine{{ProductID: 0, Quantity: 0}})
	assert.Equal(t, "is required", f["items[0].product_id"])
	assert.Equal(t, "must be at least 1", f["items[0].quantity"])
}

func TestValidateAddItem(t *testing.T) {
	assert.True(t, ValidateAddItem(OrderLine{ProductID: 1, Quantity: 1}).Empty())
	assert.Len(t, ValidateAddItem(OrderLine{}), 2)
}
