package services_test

import (
	"testing"

	"tillpoint/internal/repos"
	"tillpoint/internal/services"
)

func TestCart_AddMergeAndTotal(t *testing.T) {
	db := newTestDB(t)
	carts := services.NewCartService(repos.NewProductRepo(db))
	sid := "cart-1"

	if err := carts.Add(sid, testCompany, "maize", 2); err != nil {
		t.Fatal(err)
	}
	if err := carts.Add(sid, testCompany, "maize", 1); err != nil {
		t.Fatal(err)
	}
	if err := carts.Add(sid, testCompany, "oil", 2); err != nil {
		t.Fatal(err)
	}

	cv := carts.View(sid)
	if len(cv.Items) != 2 {
		t.Fatalf("want 2 merged lines, got %d", len(cv.Items))
	}
	for _, it := range cv.Items {
		if it.ProductID == "maize" {
			if it.Quantity != 3 || it.Subtotal != 150 {
				t.Fatalf("maize line wrong: %+v", it)
			}
		}
	}
	if cv.Total != 150+129 {
		t.Fatalf("want total 279, got %v", cv.Total)
	}
}

func TestCart_RejectsNonPositiveQty(t *testing.T) {
	db := newTestDB(t)
	carts := services.NewCartService(repos.NewProductRepo(db))
	sid := "cart-zero"

	for _, qty := range []int{0, -3} {
		if err := carts.Add(sid, testCompany, "maize", qty); err != services.ErrBadCartQty {
			t.Fatalf("qty %d: want ErrBadCartQty, got %v", qty, err)
		}
	}
	if cv := carts.View(sid); len(cv.Items) != 0 {
		t.Fatalf("rejected adds must leave the cart empty: %+v", cv.Items)
	}
}

func TestCart_AddBeyondStock(t *testing.T) {
	db := newTestDB(t)
	carts := services.NewCartService(repos.NewProductRepo(db))
	sid := "cart-2"

	if err := carts.Add(sid, testCompany, "oil", 5); err != nil {
		t.Fatal(err)
	}
	// Stock is 5 and the cart already holds all of it.
	if err := carts.Add(sid, testCompany, "oil", 1); err == nil {
		t.Fatal("expected stock rejection")
	}
	if cv := carts.View(sid); cv.Items[0].Quantity != 5 {
		t.Fatalf("rejected add must not change the cart: %+v", cv.Items)
	}
}

func TestCart_ServiceIgnoresStock(t *testing.T) {
	db := newTestDB(t)
	carts := services.NewCartService(repos.NewProductRepo(db))

	// airtime is a service with qty 0; any quantity is fine.
	if err := carts.Add("cart-3", testCompany, "airtime", 50); err != nil {
		t.Fatal(err)
	}
}

func TestCart_RemoveAndIsolation(t *testing.T) {
	db := newTestDB(t)
	carts := services.NewCartService(repos.NewProductRepo(db))

	if err := carts.Add("a", testCompany, "maize", 2); err != nil {
		t.Fatal(err)
	}
	if err := carts.Add("a", testCompany, "oil", 1); err != nil {
		t.Fatal(err)
	}
	if err := carts.Add("b", testCompany, "maize", 1); err != nil {
		t.Fatal(err)
	}

	carts.Remove("a", "maize")

	cva := carts.View("a")
	if len(cva.Items) != 1 || cva.Items[0].ProductID != "oil" {
		t.Fatalf("remove broke cart a: %+v", cva.Items)
	}
	// Session b's cart is untouched.
	cvb := carts.View("b")
	if len(cvb.Items) != 1 || cvb.Items[0].Quantity != 1 {
		t.Fatalf("cart b affected: %+v", cvb.Items)
	}
}
