package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"storeledger/internal/domain"
	"storeledger/internal/repos"
)

const (
	CustomerPageSize = 15
	OrderPageSize    = 10
)

type ReportService struct {
	Customers *repos.CustomerRepo
	Bills     *repos.BillRepo
	Inv       *repos.InventoryRepo
}

func NewReportService(customers *repos.CustomerRepo, bills *repos.BillRepo, inv *repos.InventoryRepo) *ReportService {
	return &ReportService{Customers: customers, Bills: bills, Inv: inv}
}

type CustomerReport struct {
	Customers []repos.CustomerRow
	Page      repos.Page
	Search    string
}

func (s *ReportService) CustomerReport(page int, search string) (CustomerReport, error) {
	search = strings.TrimSpace(search)
	out := CustomerReport{Search: search}
	total, err := s.Customers.Count(search)
	if err != nil {
		return out, err
	}
	out.Page = repos.NewPage(page, CustomerPageSize, total)
	out.Customers, err = s.Customers.List(search, out.Page.Size, out.Page.Offset())
	return out, err
}

type OrderHistory struct {
	Orders []repos.OrderRow
	Page   repos.Page
	Search string
}

func (s *ReportService) OrderHistory(page int, search string) (OrderHistory, error) {
	search = strings.TrimSpace(search)
	out := OrderHistory{Search: search}
	total, err := s.Bills.CountHistory(search)
	if err != nil {
		return out, err
	}
	out.Page = repos.NewPage(page, OrderPageSize, total)
	out.Orders, err = s.Bills.History(search, out.Page.Size, out.Page.Offset())
	return out, err
}

// Bill loads one bill with its line items.
func (s *ReportService) Bill(id int64) (repos.BillView, []domain.BillItem, error) {
	b, items, err := s.Bills.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return b, nil, fmt.Errorf("%w: bill %d", ErrNotFound, id)
	}
	return b, items, err
}

type Dashboard struct {
	CustomerCount int
	ProductCount  int
	LowStockCount int
	BillCount     int
}

func (s *ReportService) Dashboard() (Dashboard, error) {
	var d Dashboard
	var err error
	if d.CustomerCount, err = s.Customers.Count(""); err != nil {
		return d, err
	}
	if d.ProductCount, err = s.Inv.Count(""); err != nil {
		return d, err
	}
	if d.LowStockCount, err = s.Inv.CountLowStock(LowStockThreshold); err != nil {
		return d, err
	}
	d.BillCount, err = s.Bills.Count()
	return d, err
}
