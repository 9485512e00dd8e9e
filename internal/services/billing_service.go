package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storeledger/internal/domain"
	"storeledger/internal/repos"
)

// LineItem is one product line as sent by the billing page. ProductID is
// preferred when present; otherwise Name is resolved as "brand product".
type LineItem struct {
	ProductID int64
	Name      string
	Quantity  int
	Price     decimal.Decimal
}

type BillRequest struct {
	CustomerName  string
	Phone         string
	CustomerType  string
	PaymentMethod string
	Items         []LineItem

	// Totals are computed by the caller and stored as given.
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

type BillReceipt struct {
	BillID       int64
	CustomerID   int64
	NewCustomer  bool
	TotalItems   int
	TotalAmount  decimal.Decimal
	ProfitEarned decimal.Decimal
	Status       domain.BillStatus
}

type BillingService struct {
	Store *repos.Store
	Now   func() time.Time
}

func NewBillingService(store *repos.Store) *BillingService {
	return &BillingService{Store: store, Now: time.Now}
}

type billInput struct {
	name, phone string
	ctype       domain.CustomerType
	method      domain.PaymentMethod
}

func validateBill(req BillRequest) (billInput, error) {
	in := billInput{
		name:  strings.TrimSpace(req.CustomerName),
		phone: strings.TrimSpace(req.Phone),
	}
	if in.name == "" || in.phone == "" || len(req.Items) == 0 {
		return in, invalid("missing customer or product data")
	}
	var err error
	if in.ctype, err = domain.ParseCustomerType(req.CustomerType); err != nil {
		return in, invalid("%v", err)
	}
	if in.method, err = domain.ParsePaymentMethod(req.PaymentMethod); err != nil {
		return in, invalid("%v", err)
	}
	for i, it := range req.Items {
		if it.ProductID <= 0 && strings.TrimSpace(it.Name) == "" {
			return in, invalid("item %d has no product", i+1)
		}
		if it.Quantity <= 0 {
			return in, invalid("item %d: quantity must be positive", i+1)
		}
		if it.Price.IsNegative() {
			return in, invalid("item %d: price must not be negative", i+1)
		}
	}
	for _, f := range []struct {
		label string
		v     decimal.Decimal
	}{
		{"subtotal", req.Subtotal}, {"tax", req.Tax}, {"discount", req.Discount}, {"total", req.Total},
	} {
		if f.v.IsNegative() {
			return in, invalid("%s must not be negative", f.label)
		}
	}
	return in, nil
}

// Save records a bill in one transaction: it resolves or creates the
// customer, checks and decrements stock for every line, books profit,
// inserts the bill and its items, and adds the total to the customer's
// dues for credit sales. Nothing is written unless every step succeeds.
func (s *BillingService) Save(ctx context.Context, req BillRequest) (BillReceipt, error) {
	in, err := validateBill(req)
	if err != nil {
		return BillReceipt{}, err
	}

	var rc BillReceipt
	err = s.Store.WithTx(ctx, func(tx *sqlx.Tx) error {
		customers := repos.NewCustomerRepo(tx)
		inv := repos.NewInventoryRepo(tx)
		bills := repos.NewBillRepo(tx)

		cust, err := customers.ByPhone(in.phone)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			id, err := customers.Create(in.name, in.phone, in.ctype)
			if repos.IsUniqueViolation(err) {
				return fmt.Errorf("%w: %q is on file with a different phone number", ErrCustomerConflict, in.name)
			}
			if err != nil {
				return storeFailure(err)
			}
			cust = domain.Customer{ID: id, Name: in.name, Mobile: in.phone, Type: in.ctype}
			rc.NewCustomer = true
		case err != nil:
			return storeFailure(err)
		}

		profit := decimal.Zero
		totalItems := 0
		lines := make([]domain.BillItem, 0, len(req.Items))

		for _, it := range req.Items {
			p, err := resolveProduct(inv, it)
			if err != nil {
				return err
			}
			label := strings.TrimSpace(it.Name)
			if label == "" {
				label = p.DisplayName()
			}
			if p.Stock < it.Quantity {
				return &StockError{Product: label, Available: p.Stock}
			}

			unitProfit := it.Price.Sub(p.PurchaseRate)
			profit = profit.Add(unitProfit.Mul(decimal.NewFromInt(int64(it.Quantity))))
			totalItems += it.Quantity
			lines = append(lines, domain.BillItem{
				ProductName: label,
				Quantity:    it.Quantity,
				Price:       it.Price,
				UnitProfit:  unitProfit,
			})

			if err := inv.Decrement(p.ID, it.Quantity); err != nil {
				if errors.Is(err, repos.ErrNoStock) {
					// Another writer got there between the read and the update.
					if cur, gerr := inv.Get(p.ID); gerr == nil {
						return &StockError{Product: label, Available: cur.Stock}
					}
					return &StockError{Product: label, Available: 0}
				}
				return storeFailure(err)
			}
		}

		status := domain.StatusFor(in.method)
		billID, err := bills.Create(domain.Bill{
			CustomerID:     cust.ID,
			TotalItems:     totalItems,
			BillAmount:     req.Subtotal,
			TaxAmount:      req.Tax,
			DiscountAmount: req.Discount,
			TotalAmount:    req.Total,
			ProfitEarned:   profit,
			PaymentMethod:  in.method,
			PaymentDate:    s.Now().Format(time.DateOnly),
			Status:         status,
		})
		if err != nil {
			return storeFailure(err)
		}

		if in.method == domain.Credit {
			if err := customers.AddCredit(cust.ID, req.Total); err != nil {
				return storeFailure(err)
			}
		}

		for _, l := range lines {
			l.BillID = billID
			if err := bills.InsertItem(l); err != nil {
				return storeFailure(err)
			}
		}

		rc.BillID = billID
		rc.CustomerID = cust.ID
		rc.TotalItems = totalItems
		rc.TotalAmount = req.Total
		rc.ProfitEarned = profit
		rc.Status = status
		return nil
	})
	if err != nil {
		if isClassified(err) {
			return BillReceipt{}, err
		}
		return BillReceipt{}, storeFailure(err)
	}
	return rc, nil
}

func resolveProduct(inv *repos.InventoryRepo, it LineItem) (domain.Product, error) {
	var (
		p   domain.Product
		err error
	)
	if it.ProductID > 0 {
		p, err = inv.Get(it.ProductID)
	} else {
		p, err = inv.ByBrandProduct(domain.SplitDisplayName(it.Name))
	}
	if errors.Is(err, sql.ErrNoRows) {
		name := it.Name
		if name == "" {
			name = fmt.Sprintf("#%d", it.ProductID)
		}
		return p, fmt.Errorf("%w: %s", ErrProductNotFound, name)
	}
	if err != nil {
		return p, storeFailure(err)
	}
	return p, nil
}

func isClassified(err error) bool {
	for _, target := range []error{ErrInvalidRequest, ErrProductNotFound, ErrInsufficientStock, ErrCustomerConflict, ErrStoreFailure} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
