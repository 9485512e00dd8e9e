package services_test

import (
	"errors"
	"fmt"
	"testing"

	"storeledger/internal/repos"
	"storeledger/internal/services"
)

func newInventory(t *testing.T) *services.InventoryService {
	return services.NewInventoryService(repos.NewInventoryRepo(memdb(t)))
}

func form(brand, product string) services.ProductForm {
	return services.ProductForm{
		Brand: brand, Product: product, Category: "Groceries",
		Stock: "10", MRP: "20", PurchaseRate: "10", WholesaleRate: "12", RetailRate: "15", HotelRate: "14",
	}
}

func TestInventoryPage(t *testing.T) {
	svc := newInventory(t)
	pg, err := svc.Page(services.InventoryQuery{Page: 1, SortBy: "brand", SortOrder: "DESC"})
	if err != nil {
		t.Fatal(err)
	}
	if len(pg.Products) != 4 || pg.Products[0].Brand != "Samsung" {
		t.Fatalf("unexpected products: %+v", pg.Products)
	}
	if pg.Page.TotalPages != 1 || pg.SortOrder != "DESC" || len(pg.LowStock) != 2 || len(pg.Categories) != 3 {
		t.Fatalf("unexpected page: %+v", pg)
	}

	pg, err = svc.Page(services.InventoryQuery{Page: 1, Search: "no such thing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(pg.Products) != 0 || pg.Page.TotalPages != 1 {
		t.Fatalf("empty search should still report one page: %+v", pg.Page)
	}
}

func TestInventoryAddAndDuplicate(t *testing.T) {
	svc := newInventory(t)
	f := form("Amul", "Butter")
	f.Category = ""
	f.NewCategory = "Dairy"
	id, err := svc.Add(f)
	if err != nil {
		t.Fatal(err)
	}
	row, _ := svc.Row(id)
	if row["category"] != "Dairy" {
		t.Fatalf("new category should win: %v", row)
	}
	if _, err := svc.Add(form("Amul", "Butter")); !errors.Is(err, services.ErrDuplicateProduct) {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestInventoryAddValidation(t *testing.T) {
	svc := newInventory(t)
	bad := []func(f *services.ProductForm){
		func(f *services.ProductForm) { f.Brand = "" },
		func(f *services.ProductForm) { f.Category = "" },
		func(f *services.ProductForm) { f.Stock = "-1" },
		func(f *services.ProductForm) { f.Stock = "1.5" },
		func(f *services.ProductForm) { f.RetailRate = "abc" },
		func(f *services.ProductForm) { f.MRP = "-3" },
	}
	for i, mutate := range bad {
		f := form("Amul", "Cheese")
		mutate(&f)
		if _, err := svc.Add(f); !errors.Is(err, services.ErrInvalidRequest) {
			t.Fatalf("case %d: expected invalid request, got %v", i, err)
		}
	}
}

func TestInventoryUpdate(t *testing.T) {
	svc := newInventory(t)
	if err := svc.Update(999, form("A", "B")); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	f := form("Kwality", "Milk Pouch")
	f.Stock = "180"
	if err := svc.Update(2, f); err != nil {
		t.Fatal(err)
	}
	row, _ := svc.Row(2)
	if row["stock"] != "180" {
		t.Fatalf("stock not updated: %v", row)
	}
	if err := svc.Update(2, form("Samsung", "Galaxy S25")); !errors.Is(err, services.ErrDuplicateProduct) {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestInventoryDeleteRedirectPage(t *testing.T) {
	svc := newInventory(t)
	// 4 seeded + 8 = 12 rows, two pages of 10
	for i := 0; i < 8; i++ {
		if _, err := svc.Add(form("Brand", fmt.Sprintf("Item %d", i))); err != nil {
			t.Fatal(err)
		}
	}
	page, n, err := svc.Delete([]int64{11, 12}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || page != 1 {
		t.Fatalf("expected redirect to page 1 after emptying page 2, got page=%d n=%d", page, n)
	}
	if _, _, err := svc.Delete(nil, 1); !errors.Is(err, services.ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}
	if _, err := svc.Row(11); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
