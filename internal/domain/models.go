package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID            int64           `db:"id"`
	Brand         string          `db:"brand"`
	Name          string          `db:"product"`
	Category      string          `db:"category"`
	Stock         int             `db:"stock"`
	MRP           decimal.Decimal `db:"mrp"`
	PurchaseRate  decimal.Decimal `db:"purchase_rate"`
	WholesaleRate decimal.Decimal `db:"wholesale_rate"`
	RetailRate    decimal.Decimal `db:"retail_rate"`
	HotelRate     decimal.Decimal `db:"hotel_rate"`
}

// DisplayName is the "brand product" string shown in autocomplete and
// snapshotted on bill items.
func (p Product) DisplayName() string { return DisplayName(p.Brand, p.Name) }

// RateFor returns the tier sale rate that applies to customers of type t.
func (p Product) RateFor(t CustomerType) decimal.Decimal {
	switch t {
	case Wholesale:
		return p.WholesaleRate
	case HotelLine:
		return p.HotelRate
	default:
		return p.RetailRate
	}
}

type Customer struct {
	ID           int64           `db:"id"`
	Name         string          `db:"name"`
	Mobile       string          `db:"mobile"`
	Type         CustomerType    `db:"customer_type"`
	BillAmount   decimal.Decimal `db:"bill_amount"`
	PaidAmount   decimal.Decimal `db:"paid_amount"`
	UnpaidAmount decimal.Decimal `db:"unpaid_amount"`
}

type Bill struct {
	ID             int64           `db:"id"`
	CustomerID     int64           `db:"customer_id"`
	TotalItems     int             `db:"total_items"`
	BillAmount     decimal.Decimal `db:"bill_amount"`
	TaxAmount      decimal.Decimal `db:"tax_amount"`
	DiscountAmount decimal.Decimal `db:"discount_amount"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	ProfitEarned   decimal.Decimal `db:"profit_earned"`
	PaymentMethod  PaymentMethod   `db:"payment_method"`
	PaymentDate    string          `db:"payment_date"`
	Status         BillStatus      `db:"status"`
}

type BillItem struct {
	ID          int64           `db:"id"`
	BillID      int64           `db:"bill_id"`
	ProductName string          `db:"product_name"`
	Quantity    int             `db:"quantity"`
	Price       decimal.Decimal `db:"price"`
	UnitProfit  decimal.Decimal `db:"unit_profit"`
}

// Subtotal is quantity × price for the line.
func (it BillItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
