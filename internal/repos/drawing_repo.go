package repos

import (
	"github.com/jmoiron/sqlx"

	"tillpoint/internal/domain"
)

type DrawingRepo struct{ db *sqlx.DB }

func NewDrawingRepo(db *sqlx.DB) *DrawingRepo { return &DrawingRepo{db: db} }

func (r *DrawingRepo) Insert(tx *sqlx.Tx, d domain.Drawing) error {
	_, err := tx.Exec(`
	  INSERT INTO drawings(id, company_name, branch, product_id, product_name,
	    quantity, subtotal, reason, drawn_by_id, drawn_by_name, date)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?)
	`, d.ID, d.CompanyName, d.Branch, d.ProductID, d.ProductName,
		d.Quantity, d.Subtotal, d.Reason, d.DrawnByID, d.DrawnByName, d.Date)
	return err
}

func (r *DrawingRepo) List(company string) ([]domain.Drawing, error) {
	var out []domain.Drawing
	err := r.db.Select(&out, `
	  SELECT * FROM drawings WHERE company_name = ?
	  ORDER BY datetime(date) DESC`, company)
	return out, err
}
