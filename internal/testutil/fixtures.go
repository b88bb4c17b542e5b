package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SzaboCristian/stock-market/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestStock registers a stock under symbol.
func CreateTestStock(t *testing.T, db *gorm.DB, symbol string) *models.Stock {
	t.Helper()

	stock := &models.Stock{
		Symbol:   symbol,
		Name:     fmt.Sprintf("Test Company %d", nextID()),
		Sector:   "technology",
		Industry: "software",
		Exchange: "NMS",
		Currency: "USD",
	}
	if err := db.Create(stock).Error; err != nil {
		t.Fatalf("failed to create test stock: %v", err)
	}
	return stock
}

// CreateTestPrices stores one bar per date with the given closes. Open, high
// and low are derived from the close.
func CreateTestPrices(t *testing.T, db *gorm.DB, symbol string, closes map[time.Time]float64) []models.PricePoint {
	t.Helper()

	points := make([]models.PricePoint, 0, len(closes))
	for date, c := range closes {
		points = append(points, models.PricePoint{
			Symbol: symbol,
			Date:   models.Day(date),
			Open:   c,
			Close:  c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Volume: 1000,
		})
	}
	if len(points) == 0 {
		return points
	}
	if err := db.Create(&points).Error; err != nil {
		t.Fatalf("failed to create test prices: %v", err)
	}
	return points
}

// CreateTestPortfolio stores a portfolio row set directly, bypassing the
// domain validation.
func CreateTestPortfolio(t *testing.T, db *gorm.DB, userID string, allocations map[string]float64) *models.Portfolio {
	t.Helper()

	now := time.Now().UTC()
	p := &models.Portfolio{
		UserID:     userID,
		Name:       fmt.Sprintf("Test Portfolio %d", nextID()),
		CreatedAt:  now,
		ModifiedAt: now,
	}
	i := 0
	for ticker, pct := range allocations {
		p.Allocations = append(p.Allocations, models.PortfolioAllocation{Ticker: ticker, Percentage: pct, Position: i})
		i++
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create test portfolio: %v", err)
	}
	return p
}
