package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storeledger/internal/domain"
)

type BillRepo struct{ q sqlx.Ext }

func NewBillRepo(q sqlx.Ext) *BillRepo { return &BillRepo{q: q} }

// Create inserts the bill header and returns the generated id.
func (r *BillRepo) Create(b domain.Bill) (int64, error) {
	res, err := r.q.Exec(`
	  INSERT INTO bills
	    (customer_id, total_items, bill_amount, tax_amount, discount_amount,
	     total_amount, profit_earned, payment_method, payment_date, status)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.CustomerID, b.TotalItems, money(b.BillAmount), money(b.TaxAmount), money(b.DiscountAmount),
		money(b.TotalAmount), money(b.ProfitEarned), string(b.PaymentMethod), b.PaymentDate, string(b.Status))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertItem inserts a single line item.
func (r *BillRepo) InsertItem(it domain.BillItem) error {
	_, err := r.q.Exec(`
	  INSERT INTO bill_items(bill_id, product_name, quantity, price, unit_profit)
	  VALUES (?, ?, ?, ?, ?)
	`, it.BillID, it.ProductName, it.Quantity, money(it.Price), money(it.UnitProfit))
	return err
}

// BillView is a bill joined with its customer, used by /bill/:id.
type BillView struct {
	domain.Bill
	CustomerName   string `db:"customer_name"`
	CustomerMobile string `db:"customer_mobile"`
}

func (r *BillRepo) Get(id int64) (BillView, []domain.BillItem, error) {
	var b BillView
	if err := sqlx.Get(r.q, &b, `
		SELECT b.id, b.customer_id, b.total_items, b.bill_amount, b.tax_amount, b.discount_amount,
		       b.total_amount, b.profit_earned, b.payment_method, b.payment_date, b.status,
		       c.name AS customer_name, c.mobile AS customer_mobile
		FROM bills b
		JOIN customers c ON c.id = b.customer_id
		WHERE b.id = ?
	`, id); err != nil {
		return BillView{}, nil, err
	}

	items := []domain.BillItem{}
	if err := sqlx.Select(r.q, &items, `
		SELECT id, bill_id, product_name, quantity, price, unit_profit
		FROM bill_items
		WHERE bill_id = ?
		ORDER BY id
	`, id); err != nil {
		return BillView{}, nil, err
	}
	return b, items, nil
}

func (r *BillRepo) Count() (int, error) {
	var n int
	err := sqlx.Get(r.q, &n, `SELECT COUNT(*) FROM bills`)
	return n, err
}

// ---------- Order history ----------

type OrderRow struct {
	BillID       int64             `db:"id"`
	PaymentDate  string            `db:"payment_date"`
	Status       domain.BillStatus `db:"status"`
	TotalAmount  decimal.Decimal   `db:"total_amount"`
	CustomerName string            `db:"customer_name"`
	Mobile       string            `db:"mobile"`
}

func historyWhere(q string) (string, []any) {
	if q == "" {
		return ``, nil
	}
	like := "%" + likeEscape(q) + "%"
	return ` WHERE (c.name LIKE ? ESCAPE '\' OR CAST(b.id AS TEXT) LIKE ? ESCAPE '\')`, []any{like, like}
}

func (r *BillRepo) CountHistory(q string) (int, error) {
	where, args := historyWhere(q)
	var n int
	err := sqlx.Get(r.q, &n, `SELECT COUNT(*) FROM bills b JOIN customers c ON c.id = b.customer_id`+where, args...)
	return n, err
}

// History lists bills newest first.
func (r *BillRepo) History(q string, limit, offset int) ([]OrderRow, error) {
	where, args := historyWhere(q)
	args = append(args, limit, offset)
	out := []OrderRow{}
	err := sqlx.Select(r.q, &out, `
		SELECT b.id, b.payment_date, b.status, b.total_amount, c.name AS customer_name, c.mobile
		FROM bills b
		JOIN customers c ON c.id = b.customer_id`+where+`
		ORDER BY b.payment_date DESC, b.id DESC
		LIMIT ? OFFSET ?`, args...)
	return out, err
}
