package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storeledger/internal/domain"
)

type CustomerRepo struct{ q sqlx.Ext }

func NewCustomerRepo(q sqlx.Ext) *CustomerRepo { return &CustomerRepo{q: q} }

const customerCols = `id, name, mobile, customer_type, bill_amount, paid_amount, unpaid_amount`

// ByPhone returns sql.ErrNoRows when no customer has the number.
func (r *CustomerRepo) ByPhone(mobile string) (domain.Customer, error) {
	var c domain.Customer
	err := sqlx.Get(r.q, &c, `SELECT `+customerCols+` FROM customers WHERE mobile = ? ORDER BY id LIMIT 1`, mobile)
	return c, err
}

func (r *CustomerRepo) Get(id int64) (domain.Customer, error) {
	var c domain.Customer
	err := sqlx.Get(r.q, &c, `SELECT `+customerCols+` FROM customers WHERE id = ?`, id)
	return c, err
}

// Create inserts a customer with zero aggregates and returns its id.
func (r *CustomerRepo) Create(name, mobile string, t domain.CustomerType) (int64, error) {
	res, err := r.q.Exec(`
		INSERT INTO customers(name, mobile, customer_type)
		VALUES (?, ?, ?)
	`, name, mobile, string(t))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AddCredit books a deferred payment against the customer.
func (r *CustomerRepo) AddCredit(id int64, amount decimal.Decimal) error {
	_, err := r.q.Exec(`
		UPDATE customers
		SET unpaid_amount = unpaid_amount + ?, bill_amount = bill_amount + ?
		WHERE id = ?
	`, money(amount), money(amount), id)
	return err
}

type CustomerSuggestion struct {
	Name   string              `db:"name"`
	Mobile string              `db:"mobile"`
	Type   domain.CustomerType `db:"customer_type"`
}

// SuggestByPrefix is case-sensitive: GLOB, unlike LIKE, respects case.
func (r *CustomerRepo) SuggestByPrefix(prefix string) ([]CustomerSuggestion, error) {
	out := []CustomerSuggestion{}
	err := sqlx.Select(r.q, &out, `
		SELECT TRIM(name) AS name, mobile, customer_type
		FROM customers
		WHERE name GLOB ?
		ORDER BY name
	`, globEscape(prefix)+"*")
	return out, err
}

type CustomerRow struct {
	ID           int64               `db:"id"`
	Name         string              `db:"name"`
	Mobile       string              `db:"mobile"`
	Type         domain.CustomerType `db:"customer_type"`
	UnpaidAmount decimal.Decimal     `db:"unpaid_amount"`
}

func customerWhere(q string) (string, []any) {
	if q == "" {
		return ``, nil
	}
	like := "%" + likeEscape(q) + "%"
	return ` WHERE (name LIKE ? ESCAPE '\' OR CAST(id AS TEXT) LIKE ? ESCAPE '\' OR mobile LIKE ? ESCAPE '\')`,
		[]any{like, like, like}
}

func (r *CustomerRepo) Count(q string) (int, error) {
	where, args := customerWhere(q)
	var n int
	err := sqlx.Get(r.q, &n, `SELECT COUNT(*) FROM customers`+where, args...)
	return n, err
}

// List returns one page of customers ordered by id.
func (r *CustomerRepo) List(q string, limit, offset int) ([]CustomerRow, error) {
	where, args := customerWhere(q)
	args = append(args, limit, offset)
	out := []CustomerRow{}
	err := sqlx.Select(r.q, &out, `
		SELECT id, name, mobile, customer_type, unpaid_amount
		FROM customers`+where+`
		ORDER BY id ASC
		LIMIT ? OFFSET ?`, args...)
	return out, err
}
