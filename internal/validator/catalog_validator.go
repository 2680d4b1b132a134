package validator

import "github.com/shopspring/decimal"

func ValidateCustomer(name, email, phone string) Fields {
	f := Fields{}
	f.required("name", name)
	f.maxLen("name", name, 100)
	f.email("email", email)
	f.maxLen("phone", phone, 20)
	return f
}

func ValidateRestaurant(name string, deliveryFee *decimal.Decimal, deliveryTimeMinutes int) Fields {
	f := Fields{}
	f.required("name", name)
	f.maxLen("name", name, 100)
	if deliveryFee == nil {
		f["delivery_fee"] = "is required"
	} else {
		f.money("delivery_fee", *deliveryFee, true)
	}
	if deliveryTimeMinutes < 0 {
		f["delivery_time_minutes"] = "must not be negative"
	}
	return f
}

func ValidateProduct(name string, price *decimal.Decimal) Fields {
	f := Fields{}
	f.required("name", name)
	f.maxLen("name", name, 100)
	if price == nil {
		f["price"] = "is required"
	} else {
		f.money("price", *price, false)
	}
	return f
}
