package handlers

import (
	"tillpoint/internal/repos"
	"tillpoint/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ProductHandler   *ProductHandler
	CustomerHandler  *CustomerHandler
	CartHandler      *CartHandler
	SaleHandler      *SaleHandler
	CreditHandler    *CreditHandler
	CashInHandler    *CashInHandler
	DrawingHandler   *DrawingHandler
	ExpenseHandler   *ExpenseHandler
	AnalyticsHandler *AnalyticsHandler
}

func NewDeps(db *sqlx.DB, auth *services.AuthService) *Deps {
	prodRepo := repos.NewProductRepo(db)
	custRepo := repos.NewCustomerRepo(db)
	saleRepo := repos.NewSaleRepo(db)
	creditRepo := repos.NewCreditRepo(db)
	cashInRepo := repos.NewCashInRepo(db)
	drawRepo := repos.NewDrawingRepo(db)
	expRepo := repos.NewExpenseRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo, custRepo)
	cartSvc := services.NewCartService(prodRepo)
	saleSvc := services.NewSaleService(db, cartSvc, prodRepo, saleRepo, creditRepo, custRepo)
	creditSvc := services.NewCreditService(creditRepo)
	cashInSvc := services.NewCashInService(saleRepo, cashInRepo, userRepo)
	drawSvc := services.NewDrawingService(db, prodRepo, drawRepo, expRepo)
	analyticsSvc := services.NewAnalyticsService(saleRepo, expRepo)

	return &Deps{
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		CustomerHandler:  &CustomerHandler{Catalog: catalogSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		SaleHandler:      &SaleHandler{Sale: saleSvc, Repo: saleRepo},
		CreditHandler:    &CreditHandler{Credit: creditSvc, Repo: creditRepo},
		CashInHandler:    &CashInHandler{CashIn: cashInSvc, Users: userRepo},
		DrawingHandler:   &DrawingHandler{Drawing: drawSvc},
		ExpenseHandler:   &ExpenseHandler{Expenses: expRepo},
		AnalyticsHandler: &AnalyticsHandler{Analytics: analyticsSvc},
	}
}
