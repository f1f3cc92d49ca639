package dataflows

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"hedgegraph/internal/models"
)

// CompanyClient fetches company facts from the Financial Datasets API.
type CompanyClient struct {
	client *resty.Client
	cache  *CacheManager
	apiKey string
}

// NewCompanyClient creates a company-facts client. Facts change rarely, so
// the cache keeps them for a week.
func NewCompanyClient(cacheDir string, cacheEnabled bool) *CompanyClient {
	cache := NewCacheManager(filepath.Join(cacheDir, "company_facts"), 7*24*time.Hour, cacheEnabled)

	client := resty.New()
	client.SetBaseURL("https://api.financialdatasets.ai")
	client.SetTimeout(30 * time.Second)

	return &CompanyClient{
		client: client,
		cache:  cache,
		apiKey: os.Getenv("FINANCIAL_DATASETS_API_KEY"),
	}
}

type companyFactsResponse struct {
	CompanyFacts models.CompanyFacts `json:"company_facts"`
}

// GetCompanyFacts fetches facts for one ticker.
func (cc *CompanyClient) GetCompanyFacts(symbol string) (*models.CompanyFacts, error) {
	if cc.apiKey == "" {
		return nil, fmt.Errorf("FINANCIAL_DATASETS_API_KEY not configured")
	}

	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	cacheKey := map[string]interface{}{"ticker": symbol}

	var cached models.CompanyFacts
	if cc.cache.Get("financialdatasets", "company_facts", cacheKey, &cached) {
		return &cached, nil
	}

	var result companyFactsResponse
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := cc.client.R().
			SetHeader("X-API-KEY", cc.apiKey).
			SetQueryParam("ticker", symbol).
			SetResult(&result).
			Get("/company/facts")
		if err != nil {
			return fmt.Errorf("failed to fetch company facts for %s: %w", symbol, err)
		}
		if resp.IsError() {
			return fmt.Errorf("company facts API returned %s for %s", resp.Status(), symbol)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cc.cache.Set("financialdatasets", "company_facts", cacheKey, result.CompanyFacts)
	return &result.CompanyFacts, nil
}

// GetCompanyContext fetches facts for every ticker, skipping tickers whose
// lookup fails. Enrichment is best-effort: a run proceeds without context
// rather than failing.
func (cc *CompanyClient) GetCompanyContext(tickers []string) map[string]models.CompanyFacts {
	out := make(map[string]models.CompanyFacts, len(tickers))
	for _, t := range tickers {
		facts, err := cc.GetCompanyFacts(t)
		if err != nil || facts == nil {
			continue
		}
		out[NormalizeSymbol(t)] = *facts
	}
	return out
}
