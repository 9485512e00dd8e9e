package repos_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storeledger/internal/domain"
	"storeledger/internal/repos"
)

func TestBillCreateAndGet(t *testing.T) {
	db := memdb(t)
	bills := repos.NewBillRepo(db)

	id, err := bills.Create(domain.Bill{
		CustomerID:    1,
		TotalItems:    2,
		BillAmount:    decimal.NewFromInt(110),
		TotalAmount:   decimal.NewFromInt(110),
		ProfitEarned:  decimal.NewFromInt(20),
		PaymentMethod: domain.Cash,
		PaymentDate:   "2026-01-02",
		Status:        domain.Successful,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := bills.InsertItem(domain.BillItem{BillID: id, ProductName: "Kwality Milk Pouch", Quantity: 2,
		Price: decimal.NewFromInt(55), UnitProfit: decimal.NewFromInt(10)}); err != nil {
		t.Fatal(err)
	}

	b, items, err := bills.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if b.CustomerName != "Om Khebade" || b.Status != domain.Successful || len(items) != 1 {
		t.Fatalf("unexpected bill: %+v items=%+v", b, items)
	}
	if _, _, err := bills.Get(id + 100); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}

	rows, err := bills.History("Khebade", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].BillID != id || rows[0].Mobile != "9876543210" {
		t.Fatalf("unexpected history: %+v", rows)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	db := memdb(t)
	store := repos.NewStore(db)
	boom := errors.New("boom")

	err := store.WithTx(context.Background(), func(tx *sqlx.Tx) error {
		if err := repos.NewInventoryRepo(tx).Decrement(2, 5); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	p, _ := repos.NewInventoryRepo(db).Get(2)
	if p.Stock != 200 {
		t.Fatalf("decrement should have rolled back, stock=%d", p.Stock)
	}
}
