package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"tillpoint/internal/domain"
)

type CustomerRepo struct{ db *sqlx.DB }

func NewCustomerRepo(db *sqlx.DB) *CustomerRepo { return &CustomerRepo{db: db} }

func (r *CustomerRepo) Get(company, id string) (domain.Customer, error) {
	var c domain.Customer
	err := r.db.Get(&c, `
	  SELECT id, company_name, name, phone, id_number, credit_score
	  FROM customers WHERE id = ? AND company_name = ?`, id, company)
	return c, err
}

func (r *CustomerRepo) ByPhone(company, phone string) (domain.Customer, error) {
	var c domain.Customer
	err := r.db.Get(&c, `
	  SELECT id, company_name, name, phone, id_number, credit_score
	  FROM customers WHERE company_name = ? AND phone = ?`, company, phone)
	return c, err
}

func (r *CustomerRepo) List(company, q string) ([]domain.Customer, error) {
	var out []domain.Customer
	err := r.db.Select(&out, `
	  SELECT id, company_name, name, phone, id_number, credit_score
	  FROM customers
	  WHERE company_name = ? AND LOWER(name) LIKE ?
	  ORDER BY name`, company, "%"+q+"%")
	return out, err
}

// Create inserts a customer, deduplicating by phone within the company:
// if the phone is already registered the existing row is returned.
func (r *CustomerRepo) Create(c domain.Customer) (domain.Customer, error) {
	existing, err := r.ByPhone(c.CompanyName, c.Phone)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return domain.Customer{}, err
	}
	_, err = r.db.Exec(`
	  INSERT INTO customers(id, company_name, name, phone, id_number, credit_score)
	  VALUES (?,?,?,?,?,?)
	`, c.ID, c.CompanyName, c.Name, c.Phone, c.IDNumber, c.CreditScore)
	if err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}
