package validator

import "fmt"

// 注文明細1行分
type OrderLine struct {
	ProductID int64
	Quantity  int64
}

func ValidateOrderLines(lines []OrderLine) Fields {
	f := Fields{}
	if len(lines) == 0 {
		f["items"] = "must contain at least one item"
		return f
	}
	for i, l := range lines {
		if l.ProductID <= 0 {
			f[fmt.Sprintf("items[%d].product_id", i)] = "is required"
		}
		if l.Quantity < 1 {
			f[fmt.Sprintf("items[%d].quantity", i)] = "must be at least 1"
		}
	}
	return f
}

func ValidateCreateOrder(customerID, restaurantID int64, deliveryAddress string, lines []OrderLine) Fields {
	f := ValidateOrderLines(lines)
	f.positiveID("customer_id", customerID)
	f.positiveID("restaurant_id", restaurantID)
	f.required("delivery_address", deliveryAddress)
	f.maxLen("delivery_address", deliveryAddress, 500)
	return f
}

func ValidateCalculateTotal(restaurantID int64, lines []OrderLine) Fields {
	f := ValidateOrderLines(lines)
	f.positiveID("restaurant_id", restaurantID)
	return f
}

func ValidateAddItem(line OrderLine) Fields {
	f := Fields{}
	f.positiveID("product_id", line.ProductID)
	if line.Quantity < 1 {
		f["quantity"] = "must be at least 1"
	}
	return f
}

func ValidateStatusUpdate(status string) Fields {
	f := Fields{}
	f.required("status", status)
	return f
}
