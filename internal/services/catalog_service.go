package services

import (
	"strings"

	"storeledger/internal/domain"
	"storeledger/internal/repos"
)

type CatalogService struct {
	Customers *repos.CustomerRepo
	Inv       *repos.InventoryRepo
}

func NewCatalogService(customers *repos.CustomerRepo, inv *repos.InventoryRepo) *CatalogService {
	return &CatalogService{Customers: customers, Inv: inv}
}

type CustomerSuggestion struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Type   string `json:"type"`
}

type ProductSuggestion struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	MRP   float64 `json:"mrp"`
}

// SuggestCustomers matches names starting with term (case-sensitive).
func (s *CatalogService) SuggestCustomers(term string) ([]CustomerSuggestion, error) {
	term = strings.TrimSpace(term)
	out := []CustomerSuggestion{}
	if term == "" {
		return out, nil
	}
	rows, err := s.Customers.SuggestByPrefix(term)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out = append(out, CustomerSuggestion{Name: r.Name, Mobile: r.Mobile, Type: r.Type.Label()})
	}
	return out, nil
}

// SuggestProducts matches term anywhere in brand or product name and
// prices each hit at the tier rate of customerType. An unknown customer
// type is rejected rather than priced at retail.
func (s *CatalogService) SuggestProducts(term, customerType string) ([]ProductSuggestion, error) {
	term = strings.TrimSpace(term)
	out := []ProductSuggestion{}
	if term == "" || strings.TrimSpace(customerType) == "" {
		return out, nil
	}
	ct, err := domain.ParseCustomerType(customerType)
	if err != nil {
		return nil, invalid("%v", err)
	}
	rows, err := s.Inv.Suggest(term)
	if err != nil {
		return nil, err
	}
	for _, p := range rows {
		out = append(out, ProductSuggestion{ID: p.ID, Name: p.DisplayName(), Price: p.RateFor(ct).InexactFloat64(), MRP: p.MRP.InexactFloat64()})
	}
	return out, nil
}
