package services

import (
	"errors"
	"fmt"
	"sync"

	"tillpoint/internal/domain"
	"tillpoint/internal/repos"
)

var ErrBadCartQty = errors.New("quantity must be at least 1")

// CartService keeps per-session carts in memory. A cart is scratch
// state for one sale: it disappears on submit, and a crashed session
// simply loses its unsaved lines. Nothing here touches the database
// except the stock lookup on add.
type CartService struct {
	Prods *repos.ProductRepo

	mu    sync.Mutex
	carts map[string][]domain.CartItem // keyed by session id
}

func NewCartService(prods *repos.ProductRepo) *CartService {
	return &CartService{Prods: prods, carts: make(map[string][]domain.CartItem)}
}

// Add puts qty units of a product into the session's cart. Adding more
// than the product's live stock (counting what is already in the cart)
// is rejected up front so the teller sees the problem before submit;
// the sale transaction re-checks under its own guard anyway.
func (s *CartService) Add(sid, company, productID string, qty int) error {
	if qty < 1 {
		return ErrBadCartQty
	}
	p, err := s.Prods.Get(company, productID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[sid]
	inCart := 0
	for _, it := range cart {
		if it.ProductID == productID {
			inCart = it.Quantity
			break
		}
	}
	if p.Kind == string(domain.KindProduct) && qty+inCart > p.Qty {
		return fmt.Errorf("insufficient stock for %s (have %d, cart wants %d)", p.Name, p.Qty, qty+inCart)
	}

	merged := false
	for i, it := range cart {
		if it.ProductID == productID {
			cart[i].Quantity += qty
			cart[i].Subtotal = float64(cart[i].Quantity) * cart[i].UnitPrice
			merged = true
			break
		}
	}
	if !merged {
		cart = append(cart, domain.CartItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  qty,
			UnitPrice: p.UnitPrice,
			Subtotal:  float64(qty) * p.UnitPrice,
		})
	}
	s.carts[sid] = cart
	return nil
}

// Remove drops the line unconditionally.
func (s *CartService) Remove(sid, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[sid]
	out := cart[:0]
	for _, it := range cart {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	s.carts[sid] = out
}

type CartView struct {
	Items []domain.CartItem `json:"items"`
	Total float64           `json:"total"`
}

// View returns a copy of the cart with the total recomputed from the
// line subtotals on every read.
func (s *CartService) View(sid string) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[sid]
	items := make([]domain.CartItem, len(cart))
	copy(items, cart)

	total := 0.0
	for _, it := range items {
		total += it.Subtotal
	}
	return CartView{Items: items, Total: total}
}

func (s *CartService) Clear(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sid)
}
