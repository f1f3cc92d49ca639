package agents

import (
	"fmt"
	"strings"

	"hedgegraph/internal/models"
)

// FormatCompanyFacts renders facts on one line for prompt injection.
func FormatCompanyFacts(f models.CompanyFacts) string {
	parts := []string{}
	if f.Name != "" {
		parts = append(parts, "Company: "+f.Name)
	}
	if f.Sector != "" {
		parts = append(parts, "Sector: "+f.Sector)
	}
	if f.Industry != "" {
		parts = append(parts, "Industry: "+f.Industry)
	}
	if f.Exchange != "" {
		parts = append(parts, "Exchange: "+f.Exchange)
	}
	if f.Location != "" {
		parts = append(parts, "Location: "+f.Location)
	}
	if len(parts) == 0 {
		return "No company facts available."
	}
	return strings.Join(parts, " | ")
}

// CompanyContextBlock renders the optional company-background block for a
// prompt. Returns "" when no facts are known, so templates can embed it
// unconditionally.
func CompanyContextBlock(ticker string, facts *models.CompanyFacts) string {
	if facts == nil {
		return ""
	}
	return fmt.Sprintf("Company background for %s:\n%s\n\n", ticker, FormatCompanyFacts(*facts))
}
