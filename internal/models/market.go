package models

// CompanyFacts carries display context for a ticker (name, sector, ...),
// fetched before the run and read-only afterwards.
type CompanyFacts struct {
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
	Category string `json:"category"`
	Exchange string `json:"exchange"`
	Location string `json:"location"`
}
