package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/portfoliodb/backend/internal/api/handlers"
	"github.com/portfoliodb/backend/internal/model"
	"github.com/portfoliodb/backend/internal/testutil"
)

// TestPriceHandler_GetPrices tests the GET /api/investmentprices endpoint.
//
// WHY: Stored prices feed the valuation series and the frontend's price
// charts. Filtering by investment and window must not leak other
// investments' rows.
func TestPriceHandler_GetPrices(t *testing.T) {
	t.Run("filters by investment and window", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPriceHandler(testutil.NewTestPriceService(t, db))

		first := testutil.CreateInvestment(t, db, "First")
		second := testutil.CreateInvestment(t, db, "Second")
		testutil.NewPrice(first.ID).WithDate("2024-01-10").WithPrice("10").Build(t, db)
		testutil.NewPrice(first.ID).WithDate("2024-06-10").WithPrice("12").Build(t, db)
		testutil.NewPrice(second.ID).WithDate("2024-01-10").WithPrice("99").Build(t, db)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/investmentprices", map[string]string{
			"investment_id": first.ID,
			"start_date":    "2024-01-01",
			"end_date":      "2024-03-31",
		})
		w := httptest.NewRecorder()

		// Execute
		handler.GetPrices(w, req)

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var prices []model.InvestmentPrice
		if err := json.NewDecoder(w.Body).Decode(&prices); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(prices) != 1 {
			t.Fatalf("Expected 1 price, got %d", len(prices))
		}
		if !prices[0].Price.Equal(testutil.MustParseDecimal(t, "10")) {
			t.Errorf("Expected price 10, got %s", prices[0].Price)
		}
	})

	t.Run("malformed date parameter returns 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPriceHandler(testutil.NewTestPriceService(t, db))

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/investmentprices", map[string]string{
			"start_date": "soon",
		})
		w := httptest.NewRecorder()

		handler.GetPrices(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

// TestPriceHandler_UpsertPrice tests the PUT /api/investmentprices endpoint.
//
// WHY: Manual price entry shares the (investment, date) upsert semantics with
// the quote fetcher: writing the same key twice leaves exactly one row.
func TestPriceHandler_UpsertPrice(t *testing.T) {
	t.Run("stores a manual price fact", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPriceHandler(testutil.NewTestPriceService(t, db))

		investment := testutil.CreateInvestment(t, db, "World ETF")

		body := `{"investmentId": "` + investment.ID + `", "date": "2024-01-15", "price": "10.55", "source": "manual"}`
		req := httptest.NewRequest(http.MethodPut, "/api/investmentprices", strings.NewReader(body))
		w := httptest.NewRecorder()

		// Execute
		handler.UpsertPrice(w, req)

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var price, source string
		err := db.QueryRow(`SELECT price, source FROM investment_price WHERE investment_id = ?`, investment.ID).
			Scan(&price, &source)
		if err != nil {
			t.Fatalf("Failed to read stored price: %v", err)
		}
		if price != "10.55" || source != "manual" {
			t.Errorf("Unexpected stored row: price=%s source=%s", price, source)
		}
	})

	t.Run("writing the same date twice overwrites", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPriceHandler(testutil.NewTestPriceService(t, db))

		investment := testutil.CreateInvestment(t, db, "World ETF")

		for _, price := range []string{"10", "11"} {
			body := `{"investmentId": "` + investment.ID + `", "date": "2024-01-15", "price": "` + price + `", "source": "manual"}`
			req := httptest.NewRequest(http.MethodPut, "/api/investmentprices", strings.NewReader(body))
			w := httptest.NewRecorder()

			handler.UpsertPrice(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
			}
		}

		// Assert
		var count int
		var stored string
		if err := db.QueryRow(`SELECT COUNT(*) FROM investment_price`).Scan(&count); err != nil {
			t.Fatalf("Failed to count prices: %v", err)
		}
		if err := db.QueryRow(`SELECT price FROM investment_price WHERE investment_id = ?`, investment.ID).Scan(&stored); err != nil {
			t.Fatalf("Failed to read stored price: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 row after overwrite, got %d", count)
		}
		if stored != "11" {
			t.Errorf("Expected price overwritten to 11, got %s", stored)
		}
	})

	t.Run("malformed investment id returns 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPriceHandler(testutil.NewTestPriceService(t, db))

		body := `{"investmentId": "nope", "date": "2024-01-15", "price": "10", "source": "manual"}`
		req := httptest.NewRequest(http.MethodPut, "/api/investmentprices", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.UpsertPrice(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}
