package repos

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storeledger/internal/domain"
)

// ErrNoStock is returned by Decrement when the guarded update matched no row.
var ErrNoStock = errors.New("insufficient stock")

type InventoryRepo struct{ q sqlx.Ext }

func NewInventoryRepo(q sqlx.Ext) *InventoryRepo { return &InventoryRepo{q: q} }

// Tx returns a copy of the repo bound to tx.
const productCols = `id, COALESCE(brand,'') AS brand, COALESCE(product,'') AS product,
  COALESCE(category,'') AS category, stock, mrp, purchase_rate,
  wholesale_rate, retail_rate, hotel_rate`

// Sortable columns for the inventory listing.
var inventorySort = map[string]string{
	"id":       "id",
	"brand":    "brand",
	"product":  "product",
	"stock":    "stock",
	"mrp":      "mrp",
	"category": "category",
}

// SortColumn maps a user-supplied sort key onto a whitelisted column,
// falling back to id.
func SortColumn(key string) string {
	if col, ok := inventorySort[strings.ToLower(strings.TrimSpace(key))]; ok {
		return col
	}
	return "id"
}

// SortOrder accepts asc/desc in any case and defaults to ASC.
func SortOrder(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), "desc") {
		return "DESC"
	}
	return "ASC"
}

type LowStockRow struct {
	Product string `db:"product" json:"product"`
	Stock   int    `db:"stock" json:"stock"`
}

type CategoryCount struct {
	Category string `db:"category"`
	Count    int    `db:"count"`
}

func (r *InventoryRepo) Get(id int64) (domain.Product, error) {
	var p domain.Product
	err := sqlx.Get(r.q, &p, `SELECT `+productCols+` FROM inventory WHERE id = ?`, id)
	return p, err
}

// ByBrandProduct finds a product by its (brand, product) identity.
func (r *InventoryRepo) ByBrandProduct(brand, product string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.Get(r.q, &p, `SELECT `+productCols+` FROM inventory WHERE brand = ? AND product = ?`, brand, product)
	return p, err
}

// Decrement subtracts "by" units only if enough stock exists.
func (r *InventoryRepo) Decrement(id int64, by int) error {
	res, err := r.q.Exec(`
		UPDATE inventory
		SET stock = stock - ?
		WHERE id = ? AND stock >= ?
	`, by, id, by)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNoStock)
	}
	return nil
}

func searchWhere(q string) (string, []any) {
	if q == "" {
		return ``, nil
	}
	like := "%" + likeEscape(q) + "%"
	return ` WHERE (product LIKE ? ESCAPE '\' OR brand LIKE ? ESCAPE '\' OR category LIKE ? ESCAPE '\')`,
		[]any{like, like, like}
}

// Count returns the number of products matching the search filter.
func (r *InventoryRepo) Count(q string) (int, error) {
	where, args := searchWhere(q)
	var n int
	err := sqlx.Get(r.q, &n, `SELECT COUNT(*) FROM inventory`+where, args...)
	return n, err
}

// Search lists one page of products; sortCol/order must come from
// SortColumn/SortOrder.
func (r *InventoryRepo) Search(q, sortCol, order string, limit, offset int) ([]domain.Product, error) {
	where, args := searchWhere(q)
	args = append(args, limit, offset)
	out := []domain.Product{}
	err := sqlx.Select(r.q, &out, `SELECT `+productCols+` FROM inventory`+where+
		` ORDER BY `+SortColumn(sortCol)+` `+SortOrder(order)+`, id ASC LIMIT ? OFFSET ?`, args...)
	return out, err
}

// LowStock lists products below threshold, lowest first. limit <= 0 means all.
func (r *InventoryRepo) LowStock(threshold, limit int) ([]LowStockRow, error) {
	if limit <= 0 {
		limit = -1
	}
	out := []LowStockRow{}
	err := sqlx.Select(r.q, &out, `
		SELECT COALESCE(product,'') AS product, stock
		FROM inventory
		WHERE stock < ?
		ORDER BY stock ASC, id ASC
		LIMIT ?
	`, threshold, limit)
	return out, err
}

func (r *InventoryRepo) CountLowStock(threshold int) (int, error) {
	var n int
	err := sqlx.Get(r.q, &n, `SELECT COUNT(*) FROM inventory WHERE stock < ?`, threshold)
	return n, err
}

// Categories lists distinct non-empty categories alphabetically.
func (r *InventoryRepo) Categories() ([]string, error) {
	out := []string{}
	err := sqlx.Select(r.q, &out, `
		SELECT DISTINCT category FROM inventory
		WHERE category IS NOT NULL AND category != ''
		ORDER BY category ASC
	`)
	return out, err
}

// CategoryCounts buckets products per category; missing categories count as "Unknown".
func (r *InventoryRepo) CategoryCounts() ([]CategoryCount, error) {
	out := []CategoryCount{}
	err := sqlx.Select(r.q, &out, `
		SELECT
		  CASE WHEN category IS NULL OR category = '' THEN 'Unknown' ELSE category END AS category,
		  COUNT(id) AS count
		FROM inventory
		GROUP BY 1
		ORDER BY count DESC, category ASC
	`)
	return out, err
}

// TotalValue is the stock valued at purchase rate.
func (r *InventoryRepo) TotalValue() (decimal.Decimal, error) {
	var v decimal.Decimal
	err := sqlx.Get(r.q, &v, `SELECT COALESCE(SUM(stock * purchase_rate), 0) FROM inventory`)
	return v, err
}

// Suggest matches term case-insensitively against brand or product.
func (r *InventoryRepo) Suggest(term string) ([]domain.Product, error) {
	like := "%" + likeEscape(strings.ToUpper(term)) + "%"
	out := []domain.Product{}
	err := sqlx.Select(r.q, &out, `SELECT `+productCols+` FROM inventory
		WHERE UPPER(brand) LIKE ? ESCAPE '\' OR UPPER(product) LIKE ? ESCAPE '\'
		ORDER BY brand, product`, like, like)
	return out, err
}

func (r *InventoryRepo) Create(p domain.Product) (int64, error) {
	res, err := r.q.Exec(`
		INSERT INTO inventory
		  (brand, product, category, stock, mrp, purchase_rate, wholesale_rate, retail_rate, hotel_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.Brand, p.Name, p.Category, p.Stock, money(p.MRP), money(p.PurchaseRate),
		money(p.WholesaleRate), money(p.RetailRate), money(p.HotelRate))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update overwrites every column of product p.ID; it returns sql.ErrNoRows
// when the id does not exist.
func (r *InventoryRepo) Update(p domain.Product) error {
	res, err := r.q.Exec(`
		UPDATE inventory SET brand = ?, product = ?, category = ?, stock = ?, mrp = ?,
		  purchase_rate = ?, wholesale_rate = ?, retail_rate = ?, hotel_rate = ?
		WHERE id = ?
	`, p.Brand, p.Name, p.Category, p.Stock, money(p.MRP), money(p.PurchaseRate),
		money(p.WholesaleRate), money(p.RetailRate), money(p.HotelRate), p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteIDs removes the given products and reports how many rows went.
func (r *InventoryRepo) DeleteIDs(ids []int64) (int64, error) {
	query, args, err := sqlx.In(`DELETE FROM inventory WHERE id IN (?)`, ids)
	if err != nil {
		return 0, err
	}
	res, err := r.q.Exec(r.q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RowMap returns every column of one product as strings, keyed by column name.
func (r *InventoryRepo) RowMap(id int64) (map[string]string, error) {
	row := r.q.QueryRowx(`SELECT * FROM inventory WHERE id = ?`, id)
	raw := map[string]any{}
	if err := row.MapScan(raw); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = stringify(v)
	}
	return out, nil
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		// REAL columns are all money
		return strconv.FormatFloat(x, 'f', 2, 64)
	default:
		return fmt.Sprint(x)
	}
}

// money converts to the REAL representation stored in SQLite.
func money(d decimal.Decimal) float64 { return d.InexactFloat64() }

func likeEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func globEscape(s string) string {
	return strings.NewReplacer(`[`, `[[]`, `*`, `[*]`, `?`, `[?]`).Replace(s)
}
