package dataflows

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/piquette/finance-go/quote"
)

// PriceClient fetches current market prices via Yahoo Finance.
type PriceClient struct {
	cache *CacheManager
}

// NewPriceClient creates a price client with a short-lived cache; prices go
// stale in minutes, not hours.
func NewPriceClient(cacheDir string, cacheEnabled bool) *PriceClient {
	return &PriceClient{
		cache: NewCacheManager(filepath.Join(cacheDir, "prices"), 5*time.Minute, cacheEnabled),
	}
}

// GetCurrentPrice returns the latest regular-market price for one symbol.
func (pc *PriceClient) GetCurrentPrice(symbol string) (float64, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return 0, err
	}
	symbol = NormalizeSymbol(symbol)

	var cached float64
	if pc.cache.Get("yahoo", "current_price", symbol, &cached) {
		return cached, nil
	}

	var price float64
	err := WithRetry(DefaultRetryConfig(), func() error {
		q, err := quote.Get(symbol)
		if err != nil {
			return fmt.Errorf("failed to get quote for %s: %w", symbol, err)
		}
		if q == nil {
			return fmt.Errorf("no quote data for %s", symbol)
		}
		price = q.RegularMarketPrice
		return nil
	})
	if err != nil {
		return 0, err
	}

	pc.cache.Set("yahoo", "current_price", symbol, price)
	return price, nil
}

// GetCurrentPrices returns prices for every ticker it can resolve; tickers
// with failed lookups are omitted and logged, not fatal.
func (pc *PriceClient) GetCurrentPrices(tickers []string) map[string]float64 {
	out := make(map[string]float64, len(tickers))
	for _, t := range tickers {
		price, err := pc.GetCurrentPrice(t)
		if err != nil {
			log.Printf("[Dataflows] price lookup failed for %s: %v", t, err)
			continue
		}
		out[NormalizeSymbol(t)] = price
	}
	return out
}
