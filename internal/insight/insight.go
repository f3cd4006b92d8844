package insight

import (
	"math/rand"

	"github.com/sells-group/influencer-kpi/internal/model"
)

// Report bundles every view computed for one (possibly filtered) master
// table.
type Report struct {
	Master     []model.MasterRow           `json:"master"`
	Platforms  []model.PlatformPerformance `json:"platforms"`
	Personas   []model.PersonaPerformance  `json:"personas"`
	Categories []model.CategoryPerformance `json:"categories"`
	Products   []model.ProductPerformance  `json:"products"`
	Actions    model.InvestmentActions     `json:"actions"`
	Executive  model.ExecutiveKPIs         `json:"executive"`
}

// Build applies f to master and computes every view over the result.
// Actions fall back to the unfiltered table when the filter removes every
// row.
func Build(master []model.MasterRow, events []model.Tracking, f Filter, rnd *rand.Rand) Report {
	rows := master
	if !f.IsZero() {
		rows = f.Apply(master)
	}

	actionSrc := rows
	if len(actionSrc) == 0 {
		actionSrc = master
	}

	return Report{
		Master:     rows,
		Platforms:  PlatformView(rows),
		Personas:   PersonaView(rows),
		Categories: CategoryView(rows),
		Products:   ProductView(events),
		Actions:    Actions(actionSrc, rnd),
		Executive:  Executive(rows, events),
	}
}
