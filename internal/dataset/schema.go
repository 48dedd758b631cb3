package dataset

import (
	"fmt"
	"strings"
)

// Column identifies one field of the economic freedom dataset. The set of
// columns is fixed; lookups by header text go through ParseColumn.
type Column int

const (
	CountryID Column = iota
	CountryName
	Region
	WorldRank
	Score

	// Category scores, in declared order.
	PropertyRights
	JudicialEffectiveness
	GovernmentIntegrity
	TaxBurden
	GovtSpending
	FiscalHealth
	BusinessFreedom
	LaborFreedom
	MonetaryFreedom
	TradeFreedom
	InvestmentFreedom
	FinancialFreedom

	// Economic indicators, in declared order.
	Population
	GDP
	GDPGrowthRate
	GDPGrowthRate5Year
	GDPPerCapita
	Unemployment
	Inflation
	FDIInflow
	PublicDebt

	numColumns
)

// columnNames are the header names used by the source file. "Judical" is the
// source spelling and must be kept for header matching.
var columnNames = [numColumns]string{
	CountryID:             "Country_id",
	CountryName:           "Country Name",
	Region:                "Region",
	WorldRank:             "World Rank",
	Score:                 "2022 Score",
	PropertyRights:        "Property Rights",
	JudicialEffectiveness: "Judical Effectiveness",
	GovernmentIntegrity:   "Government Integrity",
	TaxBurden:             "Tax Burden",
	GovtSpending:          "Govt Spending",
	FiscalHealth:          "Fiscal Health",
	BusinessFreedom:       "Business Freedom",
	LaborFreedom:          "Labor Freedom",
	MonetaryFreedom:       "Monetary Freedom",
	TradeFreedom:          "Trade Freedom",
	InvestmentFreedom:     "Investment Freedom",
	FinancialFreedom:      "Financial Freedom",
	Population:            "Population (Millions)",
	GDP:                   "GDP (Billions)",
	GDPGrowthRate:         "GDP Growth Rate (%)",
	GDPGrowthRate5Year:    "5 Year GDP Growth Rate (%)",
	GDPPerCapita:          "GDP per Capita (PPP)",
	Unemployment:          "Unemployment (%)",
	Inflation:             "Inflation (%)",
	FDIInflow:             "FDI Inflow (Millions)",
	PublicDebt:            "Public Debt (% of GDP)",
}

// Categories lists the twelve freedom sub-factor columns in declared order.
var Categories = []Column{
	PropertyRights, JudicialEffectiveness, GovernmentIntegrity, TaxBurden,
	GovtSpending, FiscalHealth, BusinessFreedom, LaborFreedom,
	MonetaryFreedom, TradeFreedom, InvestmentFreedom, FinancialFreedom,
}

// Indicators lists the macroeconomic indicator columns in declared order.
var Indicators = []Column{
	Population, GDP, GDPGrowthRate, GDPGrowthRate5Year, GDPPerCapita,
	Unemployment, Inflation, FDIInflow, PublicDebt,
}

// Regions is the fixed set of regions used by the index.
var Regions = []string{
	"Asia-Pacific",
	"Europe",
	"Americas",
	"Middle East and North Africa",
	"Sub-Saharan Africa",
}

func (c Column) String() string {
	if c < 0 || c >= numColumns {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	return columnNames[c]
}

// Numeric reports whether the column holds real numbers.
func (c Column) Numeric() bool { return c >= WorldRank && c < numColumns }

// IsCategory reports whether c is one of the twelve category scores.
func (c Column) IsCategory() bool { return c >= PropertyRights && c <= FinancialFreedom }

// IsIndicator reports whether c is an economic indicator column.
func (c Column) IsIndicator() bool { return c >= Population && c <= PublicDebt }

// sentinelZero reports whether an exact 0 in this column means "not reported".
func (c Column) sentinelZero() bool { return c == Score || c.IsCategory() }

// AllColumns returns every known column in schema order.
func AllColumns() []Column {
	out := make([]Column, 0, numColumns)
	for c := Column(0); c < numColumns; c++ {
		out = append(out, c)
	}
	return out
}

// NumericColumns returns the numeric columns in schema order.
func NumericColumns() []Column {
	out := make([]Column, 0, numColumns)
	for c := WorldRank; c < numColumns; c++ {
		out = append(out, c)
	}
	return out
}

// ParseColumn resolves a header or user supplied name to a Column. Matching
// ignores surrounding whitespace and case.
func ParseColumn(name string) (Column, error) {
	key := normalizeHeader(name)
	for c := Column(0); c < numColumns; c++ {
		if normalizeHeader(columnNames[c]) == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, strings.TrimSpace(name))
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// columnSet is a bitmask of columns present in a table.
type columnSet uint64

func (s columnSet) has(c Column) bool { return s&(1<<uint(c)) != 0 }

func (s columnSet) with(c Column) columnSet { return s | 1<<uint(c) }
