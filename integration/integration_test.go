package integration

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"vending-machine/internal/api"
	"vending-machine/internal/config"
	"vending-machine/internal/db"
	"vending-machine/internal/machine"
	"vending-machine/internal/middleware"
	"vending-machine/internal/service"
	"vending-machine/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func setupTestDB(t *testing.T) (*sql.DB, *config.Config) {
	if _, ok := os.LookupEnv("DATABASE_HOST"); !ok {
		t.Skip("DATABASE_HOST not set, skipping integration test")
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	dbConn, err := db.Connect(cfg)
	if err != nil {
		t.Fatalf("failed to connect to db: %v", err)
	}
	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	_, err = dbConn.Exec("TRUNCATE TABLE sales, coin_inventory, product_inventory, operators RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
	return dbConn, cfg
}

func createTestServer(t *testing.T, dbConn *sql.DB, cfg *config.Config, log pkg.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)

	authService := service.NewAuthService(db.NewAuthDB(dbConn), log, cfg.JWTSecret, time.Hour)
	if err := authService.EnsureOperator("tech", "secret"); err != nil {
		t.Fatalf("failed to create operator: %v", err)
	}
	vendingService := service.NewVendingService(machine.New(), db.NewInventoryDB(dbConn), log)
	if err := vendingService.Load(); err != nil {
		t.Fatalf("failed to load inventory: %v", err)
	}

	router := gin.New()
	api.RegisterHandlers(router, &api.Handlers{
		AuthService:    authService,
		VendingService: vendingService,
		Logger:         log,
	}, middleware.JWTAuthMiddleware(cfg.JWTSecret, log))
	return router
}

type client struct {
	t     *testing.T
	base  string
	token string
	http  *http.Client
}

func (c *client) do(method, path, body string, out interface{}) int {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		c.t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("failed to perform request: %v", err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func TestIntegration_SaleWithChange(t *testing.T) {
	dbConn, cfg := setupTestDB(t)
	defer dbConn.Close()

	ts := httptest.NewServer(createTestServer(t, dbConn, cfg, pkg.NewZapLogger(zap.NewNop())))
	defer ts.Close()

	c := &client{t: t, base: ts.URL, http: &http.Client{Timeout: 5 * time.Second}}

	var auth api.AuthResponse
	if code := c.do(http.MethodPost, "/api/auth", `{"username":"tech","password":"secret"}`, &auth); code != http.StatusOK {
		t.Fatalf("expected status 200 from auth, got %d", code)
	}
	c.token = auth.Token

	for _, body := range []string{
		`{"coin":"nickel","count":3}`,
		`{"coin":"dime","count":3}`,
	} {
		if code := c.do(http.MethodPost, "/api/operator/coins", body, nil); code != http.StatusOK {
			t.Fatalf("expected status 200 from coin restock, got %d", code)
		}
	}
	if code := c.do(http.MethodPost, "/api/operator/products", `{"product":"cola","count":2}`, nil); code != http.StatusOK {
		t.Fatalf("expected status 200 from product restock, got %d", code)
	}

	for _, coin := range []string{"quarter", "quarter", "quarter", "dime", "dime", "dime"} {
		if code := c.do(http.MethodPost, "/api/coins", fmt.Sprintf(`{"coin":%q}`, coin), nil); code != http.StatusOK {
			t.Fatalf("expected status 200 inserting %s, got %d", coin, code)
		}
	}

	var sel api.SelectResponse
	c.do(http.MethodPost, "/api/select/cola", "", &sel)
	if !sel.Dispensed || sel.Display != machine.MsgThankYou {
		t.Fatalf("unexpected select response: %+v", sel)
	}

	var change api.ChangeResponse
	c.do(http.MethodPost, "/api/change", "", &change)
	if !change.Returned {
		t.Fatalf("expected change to be returned: %+v", change)
	}

	var collected api.CollectResponse
	c.do(http.MethodPost, "/api/collect", "", &collected)
	if collected.Product != "cola" || collected.Coins["nickel"] != 1 {
		t.Errorf("unexpected collection: %+v", collected)
	}

	var quantity int
	if err := dbConn.QueryRow("SELECT quantity FROM product_inventory WHERE product='cola'").Scan(&quantity); err != nil {
		t.Fatalf("failed to read product inventory: %v", err)
	}
	if quantity != 1 {
		t.Errorf("expected 1 cola stored, got %d", quantity)
	}
	if err := dbConn.QueryRow("SELECT quantity FROM coin_inventory WHERE coin='quarter'").Scan(&quantity); err != nil {
		t.Fatalf("failed to read coin inventory: %v", err)
	}
	if quantity != 3 {
		t.Errorf("expected 3 quarters stored, got %d", quantity)
	}

	var sales []api.SaleResponse
	c.do(http.MethodGet, "/api/operator/sales", "", &sales)
	if len(sales) != 1 || sales[0].Product != "cola" || sales[0].Price != "$1.00" {
		t.Errorf("unexpected sales: %+v", sales)
	}
}

func TestIntegration_OperatorRoutesRequireToken(t *testing.T) {
	dbConn, cfg := setupTestDB(t)
	defer dbConn.Close()

	ts := httptest.NewServer(createTestServer(t, dbConn, cfg, pkg.NewZapLogger(zap.NewNop())))
	defer ts.Close()

	c := &client{t: t, base: ts.URL, http: &http.Client{Timeout: 5 * time.Second}}
	if code := c.do(http.MethodGet, "/api/operator/inventory", "", nil); code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", code)
	}
	if code := c.do(http.MethodPost, "/api/auth", `{"username":"tech","password":"wrong"}`, nil); code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", code)
	}
}
