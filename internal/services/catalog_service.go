package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"tillpoint/internal/domain"
	"tillpoint/internal/repos"
)

var ErrBadProduct = errors.New("product needs a name and a non-negative price")

type CatalogService struct {
	Prods *repos.ProductRepo
	Custs *repos.CustomerRepo
}

func NewCatalogService(prods *repos.ProductRepo, custs *repos.CustomerRepo) *CatalogService {
	return &CatalogService{Prods: prods, Custs: custs}
}

func (s *CatalogService) Products(company, q string) ([]domain.Product, error) {
	if q != "" {
		return s.Prods.Search(company, strings.ToLower(q))
	}
	return s.Prods.List(company)
}

func (s *CatalogService) LowStock(company string) ([]domain.Product, error) {
	return s.Prods.LowStock(company)
}

func (s *CatalogService) CreateProduct(p domain.Product) (domain.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || p.UnitPrice < 0 {
		return domain.Product{}, ErrBadProduct
	}
	if p.Kind != string(domain.KindService) {
		p.Kind = string(domain.KindProduct)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := s.Prods.Create(p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *CatalogService) UpdateProduct(p domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || p.UnitPrice < 0 {
		return ErrBadProduct
	}
	return s.Prods.Update(p)
}

// Restock adds stock outside the sale path.
func (s *CatalogService) Restock(company, productID string, by int) error {
	if by < 1 {
		return errors.New("restock quantity must be at least 1")
	}
	return s.Prods.Restock(company, productID, by)
}

// CreateCustomer registers a customer with the default score, reusing
// an existing row when the phone number is already known.
func (s *CatalogService) CreateCustomer(company, name, phone, idNumber string) (domain.Customer, error) {
	return s.Custs.Create(domain.Customer{
		ID:          uuid.NewString(),
		CompanyName: company,
		Name:        strings.TrimSpace(name),
		Phone:       phone,
		IDNumber:    idNumber,
		CreditScore: MinCreditScore,
	})
}

func (s *CatalogService) Customers(company, q string) ([]domain.Customer, error) {
	return s.Custs.List(company, strings.ToLower(q))
}
