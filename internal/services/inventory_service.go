package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"storeledger/internal/domain"
	"storeledger/internal/repos"
	"storeledger/internal/validate"
)

const (
	InventoryPageSize = 10
	// LowStockThreshold is shared by the inventory page and the dashboard.
	LowStockThreshold = 50
	lowStockPreview   = 10
)

type InventoryService struct {
	Inv *repos.InventoryRepo
}

func NewInventoryService(inv *repos.InventoryRepo) *InventoryService {
	return &InventoryService{Inv: inv}
}

type InventoryQuery struct {
	Page      int
	Search    string
	SortBy    string
	SortOrder string
}

type InventoryPage struct {
	Products       []domain.Product
	Page           repos.Page
	Search         string
	SortBy         string
	SortOrder      string
	LowStock       []repos.LowStockRow
	Categories     []string
	CategoryCounts []repos.CategoryCount
	TotalValue     decimal.Decimal
}

// Page assembles everything the inventory screen shows.
func (s *InventoryService) Page(q InventoryQuery) (InventoryPage, error) {
	search := strings.TrimSpace(q.Search)
	out := InventoryPage{
		Search:    search,
		SortBy:    repos.SortColumn(q.SortBy),
		SortOrder: repos.SortOrder(q.SortOrder),
	}

	total, err := s.Inv.Count(search)
	if err != nil {
		return out, err
	}
	out.Page = repos.NewPage(q.Page, InventoryPageSize, total)
	if out.Products, err = s.Inv.Search(search, out.SortBy, out.SortOrder, out.Page.Size, out.Page.Offset()); err != nil {
		return out, err
	}
	if out.LowStock, err = s.Inv.LowStock(LowStockThreshold, lowStockPreview); err != nil {
		return out, err
	}
	if out.Categories, err = s.Inv.Categories(); err != nil {
		return out, err
	}
	if out.CategoryCounts, err = s.Inv.CategoryCounts(); err != nil {
		return out, err
	}
	if out.TotalValue, err = s.Inv.TotalValue(); err != nil {
		return out, err
	}
	return out, nil
}

func (s *InventoryService) LowStockAll() ([]repos.LowStockRow, error) {
	return s.Inv.LowStock(LowStockThreshold, 0)
}

func (s *InventoryService) Categories() ([]string, error) {
	return s.Inv.Categories()
}

// ProductForm carries the raw add/edit form fields.
type ProductForm struct {
	Brand         string
	Product       string
	Category      string
	NewCategory   string
	Stock         string
	MRP           string
	PurchaseRate  string
	WholesaleRate string
	RetailRate    string
	HotelRate     string
}

func (f ProductForm) parse() (domain.Product, error) {
	p := domain.Product{
		Brand: strings.TrimSpace(f.Brand),
		Name:  strings.TrimSpace(f.Product),
	}
	p.Category = strings.TrimSpace(f.NewCategory)
	if p.Category == "" {
		p.Category = strings.TrimSpace(f.Category)
	}
	if p.Category == "" {
		return p, invalid("category is required")
	}
	if p.Brand == "" || p.Name == "" {
		return p, invalid("brand and product are required")
	}
	var ok bool
	if p.Stock, ok = validate.Stock(f.Stock); !ok {
		return p, invalid("stock must be a whole number of zero or more")
	}
	rates := []struct {
		label string
		raw   string
		dst   *decimal.Decimal
	}{
		{"MRP", f.MRP, &p.MRP},
		{"purchase rate", f.PurchaseRate, &p.PurchaseRate},
		{"wholesale rate", f.WholesaleRate, &p.WholesaleRate},
		{"retail rate", f.RetailRate, &p.RetailRate},
		{"hotel rate", f.HotelRate, &p.HotelRate},
	}
	for _, r := range rates {
		v, ok := validate.Money(r.raw)
		if !ok {
			return p, invalid("%s must be a non-negative amount", r.label)
		}
		*r.dst = v
	}
	return p, nil
}

func (s *InventoryService) Add(f ProductForm) (int64, error) {
	p, err := f.parse()
	if err != nil {
		return 0, err
	}
	id, err := s.Inv.Create(p)
	if repos.IsUniqueViolation(err) {
		return 0, ErrDuplicateProduct
	}
	return id, err
}

func (s *InventoryService) Update(id int64, f ProductForm) error {
	p, err := f.parse()
	if err != nil {
		return err
	}
	p.ID = id
	err = s.Inv.Update(p)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	case repos.IsUniqueViolation(err):
		return ErrDuplicateProduct
	}
	return err
}

// Delete removes ids and returns the page the client should show next:
// the current page, or the new last page if the current one emptied.
func (s *InventoryService) Delete(ids []int64, currentPage int) (int, int64, error) {
	if len(ids) == 0 {
		return 0, 0, invalid("no IDs provided")
	}
	n, err := s.Inv.DeleteIDs(ids)
	if err != nil {
		return 0, 0, err
	}
	remaining, err := s.Inv.Count("")
	if err != nil {
		return 0, n, err
	}
	if currentPage < 1 {
		currentPage = 1
	}
	return min(currentPage, repos.TotalPages(remaining, InventoryPageSize)), n, nil
}

// Row returns the stored product as a string map.
func (s *InventoryService) Row(id int64) (map[string]string, error) {
	m, err := s.Inv.RowMap(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	return m, err
}
