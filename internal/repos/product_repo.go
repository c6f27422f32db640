package repos

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tillpoint/internal/domain"
)

// ErrOutOfStock reports that a decrement's qty >= ? guard matched no
// row. Any other Decrement error is a real database failure.
var ErrOutOfStock = errors.New("insufficient stock")

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, company_name, name, kind, unit_price, purchase_price, unit_purchase_price,
  qty, min_qty, max_qty, available_value, unit,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(company, id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ? AND company_name = ?`, id, company)
	return p, err
}

func (r *ProductRepo) List(company string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products WHERE company_name = ? ORDER BY name`, company)
	return out, err
}

// Search filters by a case-insensitive name fragment.
func (r *ProductRepo) Search(company, q string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+` FROM products
	  WHERE company_name = ? AND LOWER(name) LIKE ?
	  ORDER BY name
	`, company, "%"+q+"%")
	return out, err
}

// LowStock lists stocked goods at or below their minimum quantity.
func (r *ProductRepo) LowStock(company string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+` FROM products
	  WHERE company_name = ? AND kind = 'product' AND qty <= min_qty
	  ORDER BY qty
	`, company)
	return out, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, company_name, name, kind, unit_price, purchase_price,
	    unit_purchase_price, qty, min_qty, max_qty, available_value, unit, created_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, p.ID, p.CompanyName, p.Name, p.Kind, p.UnitPrice, p.PurchasePrice,
		p.UnitPurchasePrice, p.Qty, p.MinQty, p.MaxQty, p.AvailableValue, p.Unit)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
	  UPDATE products SET name=?, kind=?, unit_price=?, purchase_price=?,
	    unit_purchase_price=?, min_qty=?, max_qty=?, available_value=?, unit=?,
	    updated_at=CURRENT_TIMESTAMP
	  WHERE id=? AND company_name=?
	`, p.Name, p.Kind, p.UnitPrice, p.PurchasePrice, p.UnitPurchasePrice,
		p.MinQty, p.MaxQty, p.AvailableValue, p.Unit, p.ID, p.CompanyName)
	return err
}

// Decrement atomically subtracts "by" units if enough stock exists.
// The qty >= ? guard is the only thing keeping stock non-negative
// under concurrent sales, so every stock mutation goes through here
// or Restock.
func (r *ProductRepo) Decrement(tx *sqlx.Tx, company, productID string, by int) error {
	res, err := tx.Exec(`
		UPDATE products
		SET qty = qty - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND company_name = ? AND qty >= ?
	`, by, productID, company, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrOutOfStock
	}
	return nil
}

// Restock adds units to a stocked product.
func (r *ProductRepo) Restock(company, productID string, by int) error {
	res, err := r.db.Exec(`
		UPDATE products
		SET qty = qty + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND company_name = ? AND kind = 'product'
	`, by, productID, company)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("no such product %s", productID)
	}
	return nil
}
