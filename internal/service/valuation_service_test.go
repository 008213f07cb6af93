package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/portfoliodb/backend/internal/model"
	"github.com/portfoliodb/backend/internal/service"
	"github.com/portfoliodb/backend/internal/testutil"
)

func mustDate(t *testing.T, date string) time.Time {
	t.Helper()
	return testutil.MustParseDate(t, date)
}

func movement(t *testing.T, investmentID, date string, action int, quantity, amount string) model.Movement {
	t.Helper()
	return model.Movement{
		ID:           testutil.MakeID(),
		Date:         mustDate(t, date),
		ActionCode:   action,
		InvestmentID: investmentID,
		Quantity:     testutil.MustParseDecimal(t, quantity),
		Amount:       testutil.MustParseDecimal(t, amount),
	}
}

func quote(t *testing.T, investmentID, date, price string) model.InvestmentPrice {
	t.Helper()
	return model.InvestmentPrice{
		ID:           testutil.MakeID(),
		InvestmentID: investmentID,
		Date:         mustDate(t, date),
		Price:        testutil.MustParseDecimal(t, price),
		Source:       "yahoo",
	}
}

func assertDevelopment(t *testing.T, dev model.Development, date, price, quantity, value string) {
	t.Helper()

	if got := dev.Date.Format("2006-01-02"); got != date {
		t.Errorf("Expected date %s, got %s", date, got)
	}
	if !dev.Price.Equal(testutil.MustParseDecimal(t, price)) {
		t.Errorf("Expected price %s on %s, got %s", price, date, dev.Price)
	}
	if !dev.Quantity.Equal(testutil.MustParseDecimal(t, quantity)) {
		t.Errorf("Expected quantity %s on %s, got %s", quantity, date, dev.Quantity)
	}
	if !dev.Value.Equal(testutil.MustParseDecimal(t, value)) {
		t.Errorf("Expected value %s on %s, got %s", value, date, dev.Value)
	}
}

// TestComputeDevelopments_ImpliedPrices tests valuation when no observed
// quotes exist and every price must be implied from trades.
//
// WHY: Most ledgers start with trade history only. The implied-price tier is
// what makes valuations possible before any quote has been fetched, so its
// arithmetic must be exact.
func TestComputeDevelopments_ImpliedPrices(t *testing.T) {
	investmentID := testutil.MakeID()

	t.Run("single buy yields implied price", func(t *testing.T) {
		movements := []model.Movement{
			movement(t, investmentID, "2024-01-01", model.ActionBuy, "5", "-50"),
		}

		devs := service.ComputeDevelopments(movements, nil, time.Time{}, time.Time{})

		if len(devs) != 1 {
			t.Fatalf("Expected 1 development, got %d", len(devs))
		}
		assertDevelopment(t, devs[0], "2024-01-01", "10", "5", "50")
	})

	t.Run("same-day round trip nets to zero quantity", func(t *testing.T) {
		movements := []model.Movement{
			movement(t, investmentID, "2024-01-01", model.ActionBuy, "5", "-50"),
			movement(t, investmentID, "2024-01-01", model.ActionSell, "5", "50"),
		}

		devs := service.ComputeDevelopments(movements, nil, time.Time{}, time.Time{})

		if len(devs) != 1 {
			t.Fatalf("Expected 1 development, got %d", len(devs))
		}
		// Implied prices are both 10; mean stays 10 and value is 0.
		assertDevelopment(t, devs[0], "2024-01-01", "10", "0", "0")
	})

	t.Run("two buys same day average their implied prices", func(t *testing.T) {
		movements := []model.Movement{
			movement(t, investmentID, "2024-01-01", model.ActionBuy, "2", "-20"),
			movement(t, investmentID, "2024-01-01", model.ActionBuy, "3", "-30"),
		}

		devs := service.ComputeDevelopments(movements, nil, time.Time{}, time.Time{})

		if len(devs) != 1 {
			t.Fatalf("Expected 1 development, got %d", len(devs))
		}
		assertDevelopment(t, devs[0], "2024-01-01", "10", "5", "50")
	})

	t.Run("multi-period history tracks quantity and implied price per date", func(t *testing.T) {
		movements := []model.Movement{
			movement(t, investmentID, "2024-01-01", model.ActionBuy, "5", "-50"),
			movement(t, investmentID, "2024-02-01", model.ActionSell, "4", "80"),
			movement(t, investmentID, "2024-03-01", model.ActionBuy, "2", "-10"),
			movement(t, investmentID, "2024-04-01", model.ActionSell, "3", "45"),
		}

		devs := service.ComputeDevelopments(movements, nil, time.Time{}, time.Time{})

		if len(devs) != 4 {
			t.Fatalf("Expected 4 developments, got %d", len(devs))
		}
		assertDevelopment(t, devs[0], "2024-01-01", "10", "5", "50")
		assertDevelopment(t, devs[1], "2024-02-01", "20", "1", "20")
		assertDevelopment(t, devs[2], "2024-03-01", "5", "3", "15")
		assertDevelopment(t, devs[3], "2024-04-01", "15", "0", "0")
	})

	t.Run("implied price division stays exact decimal", func(t *testing.T) {
		movements := []model.Movement{
			movement(t, investmentID, "2024-01-01", model.ActionBuy, "3", "-1"),
		}

		devs := service.ComputeDevelopments(movements, nil, time.Time{}, time.Time{})

		if len(devs) != 1 {
			t.Fatalf("Expected 1 development, got %d", len(devs))
		}

		expectedPrice := decimal.NewFromInt(1).Div(decimal.NewFromInt(3))
		if !devs[0].Price.Equal(expectedPrice) {
			t.Errorf("Expected price %s, got %s", expectedPrice, devs[0].Price)
		}
		expectedValue := decimal.NewFromInt(3).Mul(expectedPrice)
		if !devs[0].Value.Equal(expectedValue) {
			t.Errorf("Expected value %s, got %s", expectedValue, devs[0].Value)
		}
	})
}

// TestComputeDevelopments_PriceResolution tests the three-tier fallback:
// observed quote, then trade-implied price, then carry-forward.
//
// WHY: The tier order decides which number a valuation reports when multiple
// sources disagree. An observed quote must always win over a same-day trade,
// and a gap in both must reuse the last known price rather than drop data.
func TestComputeDevelopments_PriceResolution(t *testing.T) {
	investmentID := testutil.MakeID()

	t.Run("observed quote overrides same-day implied price", func(t *testing.T) {
		movements := []model.Movement{
			movement(t, investmentID, "2024-01-01", model.ActionBuy, "5", "-50"),
		}
		prices := []model.InvestmentPrice{
			quote(t, investmentID, "2024-01-01", "12"),
		}

		devs := service.ComputeDevelopments(movements, prices, time.Time{}, time.Time{})

		if len(devs) != 1 {
			t.Fatalf("Expected 1 development, got %d", len(devs))
		}
		assertDevelopment(t, devs[0], "2024-01-01", "12", "5", "60")
	})

	t.Run("price carries forward over dates without quote or trade price", func(t *testing.T) {
		movements := []model.Movement{
			movement(t, investmentID, "2024-01-01", model.ActionBuy, "5", "-50"),
			// Payout: candidate date with neither quote nor implied price.
			movement(t, investmentID, "2024-01-15", model.ActionPayout, "0", "3"),
		}

		devs := service.ComputeDevelopments(movements, nil, time.Time{}, time.Time{})

		if len(devs) != 2 {
			t.Fatalf("Expected 2 developments, got %d", len(devs))
		}
		assertDevelopment(t, devs[0], "2024-01-01", "10", "5", "50")
		assertDevelopment(t, devs[1], "2024-01-15", "10", "5", "50")
	})

	t.Run("quote-only dates emit valuations between trades", func(t *testing.T) {
		movements := []model.Movement{
			movement(t, investmentID, "2024-01-01", model.ActionBuy, "5", "-50"),
		}
		prices := []model.InvestmentPrice{
			quote(t, investmentID, "2024-01-10", "11"),
			quote(t, investmentID, "2024-01-20", "9"),
		}

		devs := service.ComputeDevelopments(movements, prices, time.Time{}, time.Time{})

		if len(devs) != 3 {
			t.Fatalf("Expected 3 developments, got %d", len(devs))
		}
		assertDevelopment(t, devs[0], "2024-01-01", "10", "5", "50")
		assertDevelopment(t, devs[1], "2024-01-10", "11", "5", "55")
		assertDevelopment(t, devs[2], "2024-01-20", "9", "5", "45")
	})

	t.Run("date with no resolvable price is dropped", func(t *testing.T) {
		// A payout before any trade or quote: nothing to price it with.
		movements := []model.Movement{
			movement(t, investmentID, "2024-01-01", model.ActionPayout, "0", "3"),
			movement(t, investmentID, "2024-01-10", model.ActionBuy, "5", "-50"),
		}

		devs := service.ComputeDevelopments(movements, nil, time.Time{}, time.Time{})

		if len(devs) != 1 {
			t.Fatalf("Expected 1 development, got %d", len(devs))
		}
		assertDevelopment(t, devs[0], "2024-01-10", "10", "5", "50")
	})

	t.Run("zero-quantity movements are excluded from implied mean", func(t *testing.T) {
		movements := []model.Movement{
			movement(t, investmentID, "2024-01-01", model.ActionBuy, "2", "-20"),
			movement(t, investmentID, "2024-01-01", model.ActionBuy, "0", "-5"),
		}

		devs := service.ComputeDevelopments(movements, nil, time.Time{}, time.Time{})

		if len(devs) != 1 {
			t.Fatalf("Expected 1 development, got %d", len(devs))
		}
		assertDevelopment(t, devs[0], "2024-01-01", "10", "2", "20")
	})
}

// TestComputeDevelopments_Payouts tests that payouts never change quantity.
//
// WHY: A payout is cash leaving the position, not units. Counting it into
// the cumulative quantity would corrupt every valuation after it.
func TestComputeDevelopments_Payouts(t *testing.T) {
	investmentID := testutil.MakeID()

	t.Run("payout leaves cumulative quantity untouched", func(t *testing.T) {
		movements := []model.Movement{
			movement(t, investmentID, "2024-01-01", model.ActionBuy, "5", "-50"),
			movement(t, investmentID, "2024-02-01", model.ActionPayout, "0", "7"),
			movement(t, investmentID, "2024-03-01", model.ActionSell, "2", "24"),
		}

		devs := service.ComputeDevelopments(movements, nil, time.Time{}, time.Time{})

		if len(devs) != 3 {
			t.Fatalf("Expected 3 developments, got %d", len(devs))
		}
		assertDevelopment(t, devs[0], "2024-01-01", "10", "5", "50")
		assertDevelopment(t, devs[1], "2024-02-01", "10", "5", "50")
		assertDevelopment(t, devs[2], "2024-03-01", "12", "3", "36")
	})
}

// TestComputeDevelopments_Window tests date-range filtering.
//
// WHY: Windowing must filter the emitted series, not the inputs. Quantity
// and carried price accumulate from the full history; a window start that
// discarded earlier events would report wrong holdings inside the window.
func TestComputeDevelopments_Window(t *testing.T) {
	investmentID := testutil.MakeID()

	t.Run("window keeps price and quantity carried from before its start", func(t *testing.T) {
		movements := []model.Movement{
			movement(t, investmentID, "2024-01-01", model.ActionBuy, "5", "-50"),
			movement(t, investmentID, "2024-02-01", model.ActionPayout, "0", "3"),
		}
		prices := []model.InvestmentPrice{
			quote(t, investmentID, "2024-01-05", "11"),
		}

		devs := service.ComputeDevelopments(movements, prices,
			mustDate(t, "2024-01-15"), mustDate(t, "2024-02-15"))

		if len(devs) != 1 {
			t.Fatalf("Expected 1 development, got %d", len(devs))
		}
		// Quantity from the January buy, price carried from the January quote.
		assertDevelopment(t, devs[0], "2024-02-01", "11", "5", "55")
	})

	t.Run("end date excludes later records", func(t *testing.T) {
		movements := []model.Movement{
			movement(t, investmentID, "2024-01-01", model.ActionBuy, "5", "-50"),
			movement(t, investmentID, "2024-03-01", model.ActionSell, "5", "60"),
		}

		devs := service.ComputeDevelopments(movements, nil,
			time.Time{}, mustDate(t, "2024-01-31"))

		if len(devs) != 1 {
			t.Fatalf("Expected 1 development, got %d", len(devs))
		}
		assertDevelopment(t, devs[0], "2024-01-01", "10", "5", "50")
	})
}

// TestComputeDevelopments_Ordering tests multi-investment output ordering.
//
// WHY: Consumers render the series as-is; the contract is ascending
// (investment, date) so interleaved histories never shuffle.
func TestComputeDevelopments_Ordering(t *testing.T) {
	t.Run("results sort by investment then date", func(t *testing.T) {
		investmentA := "aaaaaaaa-0000-0000-0000-000000000000"
		investmentB := "bbbbbbbb-0000-0000-0000-000000000000"

		movements := []model.Movement{
			movement(t, investmentB, "2024-01-01", model.ActionBuy, "1", "-10"),
			movement(t, investmentA, "2024-02-01", model.ActionBuy, "1", "-20"),
			movement(t, investmentA, "2024-01-01", model.ActionBuy, "1", "-15"),
		}

		devs := service.ComputeDevelopments(movements, nil, time.Time{}, time.Time{})

		if len(devs) != 3 {
			t.Fatalf("Expected 3 developments, got %d", len(devs))
		}
		if devs[0].InvestmentID != investmentA || devs[0].Date.Format("2006-01-02") != "2024-01-01" {
			t.Errorf("Unexpected first record: %s %s", devs[0].InvestmentID, devs[0].Date)
		}
		if devs[1].InvestmentID != investmentA || devs[1].Date.Format("2006-01-02") != "2024-02-01" {
			t.Errorf("Unexpected second record: %s %s", devs[1].InvestmentID, devs[1].Date)
		}
		if devs[2].InvestmentID != investmentB {
			t.Errorf("Unexpected third record: %s %s", devs[2].InvestmentID, devs[2].Date)
		}
	})

	t.Run("per-investment state never leaks across investments", func(t *testing.T) {
		investmentA := "aaaaaaaa-0000-0000-0000-000000000000"
		investmentB := "bbbbbbbb-0000-0000-0000-000000000000"

		movements := []model.Movement{
			movement(t, investmentA, "2024-01-01", model.ActionBuy, "5", "-50"),
			// B's first candidate date has no price of its own; A's carried
			// price must not apply to it.
			movement(t, investmentB, "2024-01-02", model.ActionPayout, "0", "1"),
		}

		devs := service.ComputeDevelopments(movements, nil, time.Time{}, time.Time{})

		if len(devs) != 1 {
			t.Fatalf("Expected 1 development, got %d", len(devs))
		}
		if devs[0].InvestmentID != investmentA {
			t.Errorf("Expected only investment A's record, got %s", devs[0].InvestmentID)
		}
	})
}

// TestValuationService_GetDevelopments tests the database-backed entry point.
//
// WHY: The engine is pure, but the service has to load the full history and
// wire it through. This verifies the end-to-end path against real rows.
func TestValuationService_GetDevelopments(t *testing.T) {
	t.Run("computes developments from stored movements and prices", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db)

		investment := testutil.CreateInvestment(t, db, "World ETF")
		testutil.NewMovement(investment.ID).WithDate("2024-01-01").Buy("5", "50").Build(t, db)
		testutil.NewPrice(investment.ID).WithDate("2024-01-05").WithPrice("11").Build(t, db)

		// Execute
		devs, err := svc.GetDevelopments(time.Time{}, time.Time{})

		// Assert
		if err != nil {
			t.Fatalf("GetDevelopments() returned unexpected error: %v", err)
		}
		if len(devs) != 2 {
			t.Fatalf("Expected 2 developments, got %d", len(devs))
		}
		assertDevelopment(t, devs[0], "2024-01-01", "10", "5", "50")
		assertDevelopment(t, devs[1], "2024-01-05", "11", "5", "55")
	})

	t.Run("returns empty series for empty database", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db)

		// Execute
		devs, err := svc.GetDevelopments(time.Time{}, time.Time{})

		// Assert
		if err != nil {
			t.Fatalf("GetDevelopments() returned unexpected error: %v", err)
		}
		if len(devs) != 0 {
			t.Errorf("Expected empty series, got %d developments", len(devs))
		}
	})

	t.Run("window loads full history before filtering", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db)

		investment := testutil.CreateInvestment(t, db, "World ETF")
		testutil.NewMovement(investment.ID).WithDate("2024-01-01").Buy("5", "50").Build(t, db)
		testutil.NewMovement(investment.ID).WithDate("2024-02-01").Payout("3").Build(t, db)

		// Execute
		devs, err := svc.GetDevelopments(
			testutil.MustParseDate(t, "2024-01-15"),
			testutil.MustParseDate(t, "2024-02-15"),
		)

		// Assert
		if err != nil {
			t.Fatalf("GetDevelopments() returned unexpected error: %v", err)
		}
		if len(devs) != 1 {
			t.Fatalf("Expected 1 development, got %d", len(devs))
		}
		assertDevelopment(t, devs[0], "2024-02-01", "10", "5", "50")
	})
}
