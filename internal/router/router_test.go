package router

import (
	"database/sql"
	"testing"

	"github.com/gin-gonic/gin"

	_ "modernc.org/sqlite"
)

// Setup only constructs repositories against the database, so an empty
// in-memory database is enough to inspect the route table.
func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	engine := gin.New()
	Setup(engine, db)
	return engine
}

func TestRegisteredRoutes(t *testing.T) {
	engine := newTestEngine(t)

	registered := map[string]bool{}
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	want := []string{
		"POST /api/v1/auth/login",
		"PUT /api/v1/employees/:id/suspend",
		"PUT /api/v1/employees/:id/unsuspend",
		"GET /api/v1/purchase-orders/pending-receipts",
		"GET /api/v1/purchase-orders/:number",
		"GET /api/v1/sales-orders/pending-payment",
		"GET /api/v1/sales-orders/shipment-history",
		"GET /api/v1/sales-orders/:number",
	}
	for _, route := range want {
		if !registered[route] {
			t.Errorf("route %s not registered", route)
		}
	}
}
