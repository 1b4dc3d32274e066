package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/partshop/backend/internal/application/catalog"
	inventoryapp "github.com/partshop/backend/internal/application/inventory"
	invoicingapp "github.com/partshop/backend/internal/application/invoicing"
	partnerapp "github.com/partshop/backend/internal/application/partner"
	reportapp "github.com/partshop/backend/internal/application/report"
	"github.com/partshop/backend/internal/domain/catalog"
	"github.com/partshop/backend/internal/domain/partner"
	"github.com/partshop/backend/internal/domain/shared"
	"github.com/partshop/backend/internal/infrastructure/persistence"
	"github.com/partshop/backend/internal/infrastructure/storage"
	"github.com/partshop/backend/internal/interfaces/http/middleware"
	"github.com/partshop/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type testServer struct {
	engine   *gin.Engine
	db       *gorm.DB
	storage  *storage.MemoryObjectStorage
	customer *partner.Party
	supplier *partner.Party
	parts    []*catalog.Part
}

func (s *testServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// newTestServer wires every handler over a fresh SQLite database. Requests
// run as the test user.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewSQLiteDB(t)

	partRepo := persistence.NewGormPartRepository(db)
	invoiceSvc := invoicingapp.NewInvoiceService(
		persistence.NewGormInvoiceTransactionScope(db),
		persistence.NewGormInvoiceRepository(db),
		invoicingapp.DefaultOptions(),
	)
	stockSvc := inventoryapp.NewStockService(
		persistence.NewGormInventoryTransactionScope(db),
		partRepo,
		persistence.NewGormLedgerRepository(db),
	)
	objects := storage.NewMemoryObjectStorage()

	invoices := NewInvoiceHandler(invoiceSvc)
	stock := NewStockHandler(stockSvc, inventoryapp.NewStockExporter(stockSvc, objects))
	parts := NewPartHandler(catalogapp.NewPartService(partRepo))
	parties := NewPartyHandler(partnerapp.NewPartyService(persistence.NewGormPartyRepository(db)))
	reports := NewReportHandler(reportapp.NewReportService(persistence.NewGormReportRepository(db)))

	r := gin.New()
	r.Use(middleware.RequestID(), func(c *gin.Context) {
		ctx := shared.WithActor(c.Request.Context(), shared.Actor{ID: testutil.TestUserID(), Role: "staff"})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	api := r.Group("/api/v1")

	api.POST("/invoices", invoices.Create)
	api.GET("/invoices", invoices.List)
	api.GET("/invoices/next-number", invoices.NextNumber)
	api.GET("/invoices/lookup", invoices.GetByNumber)
	api.GET("/invoices/:id", invoices.GetByID)
	api.PUT("/invoices/:id", invoices.Update)
	api.DELETE("/invoices/:id", invoices.Delete)
	api.POST("/invoices/bulk/delete", invoices.BulkDelete)
	api.POST("/invoices/bulk/status", invoices.BulkUpdateStatus)

	api.GET("/stock", stock.List)
	api.GET("/stock/export", stock.Export)
	api.POST("/stock/export/archive", stock.Archive)
	api.GET("/stock/:part_id", stock.Get)
	api.GET("/stock/:part_id/ledger", stock.Ledger)
	api.POST("/stock/:part_id/adjust", stock.Adjust)

	api.PUT("/parts", parts.Upsert)
	api.GET("/parts", parts.List)
	api.POST("/parts/import", parts.Import)
	api.GET("/parts/:id", parts.GetByID)
	api.DELETE("/parts/:id", parts.Delete)
	api.POST("/parts/:id/restore", parts.Restore)

	api.POST("/parties", parties.Create)
	api.GET("/parties", parties.List)
	api.GET("/parties/:id", parties.GetByID)
	api.PUT("/parties/:id", parties.Update)
	api.DELETE("/parties/:id", parties.Delete)

	api.GET("/reports/dashboard", reports.Dashboard)
	api.GET("/reports/rollup", reports.Rollup)
	api.GET("/reports/top-parts", reports.TopParts)
	api.GET("/reports/profit-loss", reports.ProfitLoss)
	api.GET("/reports/balance-sheet", reports.BalanceSheet)
	api.GET("/reports/cash-flow", reports.CashFlow)

	s := &testServer{engine: r, db: db, storage: objects}
	s.customer = s.seedParty(t, partner.PartyKindCustomer, "Ravi Motors")
	s.supplier = s.seedParty(t, partner.PartyKindSupplier, "Acme Spares")
	for i, name := range []string{"Brake pad", "Clutch cable"} {
		part, err := catalog.NewPart([]string{"101/A", "101/B"}[i], catalog.PartDetails{
			ItemName: name,
			HSNCode:  "8708",
			Unit:     "PCS",
			MRP:      decimal.NewFromInt(100),
			MinStock: 2,
		})
		require.NoError(t, err)
		require.NoError(t, partRepo.Save(context.Background(), part))
		s.parts = append(s.parts, part)
	}
	return s
}

func (s *testServer) seedParty(t *testing.T, kind partner.PartyKind, name string) *partner.Party {
	t.Helper()
	party, err := partner.NewParty(kind, partner.PartyDetails{Name: name})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormPartyRepository(s.db).Save(context.Background(), party))
	return party
}
