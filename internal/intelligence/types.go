// Package intelligence fetches the platform's combined procurement
// intelligence bundle (price benchmarks, supplier matches, risk flags,
// timing advice) and exposes it through a debounced, cached watcher.
package intelligence

import "strings"

// PriceBenchmark is the platform's price statistics for one product code.
type PriceBenchmark struct {
	ImpaCode     string  `json:"impa_code"`
	ProductName  string  `json:"product_name,omitempty"`
	Unit         string  `json:"unit,omitempty"`
	AveragePrice float64 `json:"average_price"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	Currency     string  `json:"currency"`
	SampleSize   int     `json:"sample_size"`
}

// BudgetEstimate is the projected spend for the requested products.
type BudgetEstimate struct {
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// SupplierMatch is one ranked supplier recommendation.
type SupplierMatch struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Score         float64  `json:"score"`
	DeliveryPorts []string `json:"delivery_ports,omitempty"`
}

// Suppliers groups the supplier recommendations.
type Suppliers struct {
	Recommended      []SupplierMatch `json:"recommended"`
	TotalCount       int             `json:"total_count"`
	SingleSourceRisk bool            `json:"single_source_risk"`
}

// RiskFlag is one severity-tagged risk message.
type RiskFlag struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Timing is the platform's timeline assessment for the planned RFQ.
type Timing struct {
	Assessment string `json:"assessment"`
	Advice     string `json:"advice,omitempty"`
}

// Combined is the full intelligence bundle. It is server-computed and
// read-only for this client: either the whole bundle arrives or the fetch
// fails, there is no partial aggregation.
type Combined struct {
	PriceBenchmarks []PriceBenchmark `json:"price_benchmarks"`
	BudgetEstimate  *BudgetEstimate  `json:"budget_estimate,omitempty"`
	Suppliers       *Suppliers       `json:"suppliers,omitempty"`
	RiskFlags       []RiskFlag       `json:"risk_flags"`
	Timing          *Timing          `json:"timing,omitempty"`
}

// Params is the input tuple for a combined fetch. Any field change is a
// cache-key change.
type Params struct {
	DeliveryPort    string
	IMPACodes       []string
	VesselID        string
	DeliveryDate    string
	BiddingDeadline string
}

// Active reports whether the fetch should run at all: only once a delivery
// port is set.
func (p Params) Active() bool {
	return strings.TrimSpace(p.DeliveryPort) != ""
}

// Key is the cache key over the full tuple.
func (p Params) Key() string {
	return strings.Join([]string{
		p.DeliveryPort,
		strings.Join(p.IMPACodes, ","),
		p.VesselID,
		p.DeliveryDate,
		p.BiddingDeadline,
	}, "|")
}
