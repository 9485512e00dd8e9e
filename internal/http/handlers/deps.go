package handlers

import (
	"storeledger/internal/repos"
	"storeledger/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	BillingHandler   *BillingHandler
	LookupHandler    *LookupHandler
	InventoryHandler *InventoryHandler
	ReportHandler    *ReportHandler
}

func NewDeps(db *sqlx.DB) *Deps {
	store := repos.NewStore(db)
	invRepo := repos.NewInventoryRepo(db)
	custRepo := repos.NewCustomerRepo(db)
	billRepo := repos.NewBillRepo(db)

	billingSvc := services.NewBillingService(store)
	catalogSvc := services.NewCatalogService(custRepo, invRepo)
	invSvc := services.NewInventoryService(invRepo)
	reportSvc := services.NewReportService(custRepo, billRepo, invRepo)

	return &Deps{
		BillingHandler:   &BillingHandler{Billing: billingSvc},
		LookupHandler:    &LookupHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		ReportHandler:    &ReportHandler{Reports: reportSvc},
	}
}
