package domain

import (
	"fmt"
	"strings"
)

// CustomerType selects which tier rate of a product applies.
type CustomerType string

const (
	Wholesale CustomerType = "WHOLESALE"
	Retail    CustomerType = "RETAIL"
	// HotelLine is stored with a hyphen to match the customers.customer_type check.
	HotelLine CustomerType = "HOTEL-LINE"
)

// Label is the title-cased spelling used by the billing page.
func (t CustomerType) Label() string {
	switch t {
	case Wholesale:
		return "Wholesale"
	case Retail:
		return "Retail"
	case HotelLine:
		return "Hotel-Line"
	}
	return string(t)
}

// ParseCustomerType canonicalises the spellings the billing page and older
// clients send (WHOLESALER, retail, Hotel-Line, HOTEL ...). Unknown input is
// an error; there is no silent default.
func ParseCustomerType(s string) (CustomerType, error) {
	k := strings.ToUpper(strings.TrimSpace(s))
	k = strings.NewReplacer("-", "", "_", "", " ", "").Replace(k)
	switch k {
	case "WHOLESALE", "WHOLESALER":
		return Wholesale, nil
	case "RETAIL", "RETAILER":
		return Retail, nil
	case "HOTEL", "HOTELLINE":
		return HotelLine, nil
	}
	return "", fmt.Errorf("unknown customer type %q", s)
}

type PaymentMethod string

const (
	UPI    PaymentMethod = "UPI"
	Cash   PaymentMethod = "CASH"
	Credit PaymentMethod = "CREDIT"
	Card   PaymentMethod = "CARD"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s))); m {
	case UPI, Cash, Credit, Card:
		return m, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

type BillStatus string

const (
	Pending    BillStatus = "PENDING"
	Successful BillStatus = "SUCCESSFUL"
)

// StatusFor returns PENDING for credit sales and SUCCESSFUL otherwise.
func StatusFor(m PaymentMethod) BillStatus {
	if m == Credit {
		return Pending
	}
	return Successful
}

// DisplayName joins brand and product with a single space.
func DisplayName(brand, product string) string {
	return strings.TrimSpace(brand + " " + product)
}

// SplitDisplayName reverses DisplayName by splitting on the first space.
// Brands that themselves contain a space cannot be recovered this way;
// callers that know the product id should resolve by id instead.
func SplitDisplayName(name string) (brand, product string) {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, ' '); i >= 0 {
		return name[:i], name[i+1:]
	}
	return name, name
}
