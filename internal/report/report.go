// Package report renders a run's views as styled terminal tables.
package report

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/influencer-kpi/internal/insight"
	"github.com/sells-group/influencer-kpi/internal/kpi"
	"github.com/sells-group/influencer-kpi/internal/model"
)

// TopN caps the number of rows shown for the influencer and persona tables.
const TopN = 10

// Renderer formats reports for a locale.
type Renderer struct {
	styles  Styles
	printer *message.Printer
	// Currency is prefixed to money values.
	Currency string
}

// New creates a Renderer for the given BCP 47 locale. Unknown locales fall
// back to English.
func New(locale string) *Renderer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Renderer{styles: DefaultStyles(), printer: message.NewPrinter(tag)}
}

// Write renders the executive summary followed by every view.
func (r *Renderer) Write(w io.Writer, rep insight.Report) error {
	sections := []string{
		r.executive(rep.Executive),
		r.topInfluencers(rep.Master).Render(r.styles),
		r.platforms(rep.Platforms).Render(r.styles),
		r.personas(rep.Personas).Render(r.styles),
		r.categories(rep.Categories).Render(r.styles),
		r.products(rep.Products).Render(r.styles),
		r.actions(rep.Actions).Render(r.styles),
	}
	if _, err := io.WriteString(w, strings.Join(sections, "")); err != nil {
		return eris.Wrap(err, "report: write")
	}
	return nil
}

func (r *Renderer) money(v float64) string {
	return r.Currency + r.printer.Sprintf("%.2f", v)
}

func (r *Renderer) count(v float64) string {
	return r.printer.Sprintf("%d", int64(v))
}

func (r *Renderer) ratio(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "x"
}

func (r *Renderer) pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

func (r *Renderer) executive(k model.ExecutiveKPIs) string {
	roasStyle := r.styles.Good
	if k.OverallROAS < kpi.MediumROAS {
		roasStyle = r.styles.Bad
	}

	var sb strings.Builder
	sb.WriteString(r.styles.Title.Render("Executive Summary"))
	sb.WriteString("\n")
	line := func(label, value string) {
		sb.WriteString(r.styles.Header.Render(label + ":"))
		sb.WriteString(" ")
		sb.WriteString(value)
		sb.WriteString("\n")
	}
	line("Total Revenue", r.money(k.TotalRevenue))
	line("Total Payout", r.money(k.TotalPayout))
	line("Overall ROAS", roasStyle.Render(r.ratio(k.OverallROAS)))
	line("Active Campaigns", r.printer.Sprintf("%d", k.ActiveCampaigns))
	line("Total Influencers", r.printer.Sprintf("%d", k.TotalInfluencers))
	if k.BestPerformer != nil {
		line("Best Performer", k.BestPerformer.Name+" ("+r.ratio(k.BestPerformer.ROAS)+")")
	}
	if k.WorstPerformer != nil {
		line("Worst Performer", k.WorstPerformer.Name+" ("+r.ratio(k.WorstPerformer.ROAS)+")")
	}
	sb.WriteString("\n")
	return sb.String()
}

func (r *Renderer) topInfluencers(rows []model.MasterRow) *Table {
	sorted := append([]model.MasterRow(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ROAS > sorted[j].ROAS })
	if len(sorted) > TopN {
		sorted = sorted[:TopN]
	}

	t := &Table{
		Title:   "Top Influencers by ROAS",
		Headers: []string{"Name", "Platform", "Tier", "ROAS", "Revenue", "Payout", "Engagement", "Status"},
	}
	for _, m := range sorted {
		t.AddRow(m.Name, m.Platform, string(m.FollowerTier), r.ratio(m.ROAS),
			r.money(m.TotalRevenue), r.money(m.TotalPayout), r.pct(m.EngagementRate), string(m.Status))
	}
	return t
}

func (r *Renderer) platforms(rows []model.PlatformPerformance) *Table {
	t := &Table{
		Title:   "Platform Performance",
		Headers: []string{"Platform", "Revenue", "Payout", "Orders", "Reach", "Influencers", "ROAS", "Share"},
	}
	for _, p := range rows {
		t.AddRow(p.Platform, r.money(p.TotalRevenue), r.money(p.TotalPayout), r.count(p.TotalOrders),
			r.count(p.TotalReach), strconv.Itoa(p.InfluencerCount), r.ratio(p.PlatformROAS), r.pct(p.RevenueShare))
	}
	return t
}

func (r *Renderer) personas(rows []model.PersonaPerformance) *Table {
	if len(rows) > TopN {
		rows = rows[:TopN]
	}
	t := &Table{
		Title:   "Persona Performance",
		Headers: []string{"Persona", "Posts", "Avg ROAS", "Revenue", "Avg Efficiency", "Influencers"},
	}
	for _, p := range rows {
		t.AddRow(p.PersonaCombination, r.count(p.TotalPosts), r.ratio(p.AvgROAS), r.money(p.TotalRevenue),
			strconv.FormatFloat(p.AvgEfficiency, 'f', 4, 64), strconv.Itoa(p.InfluencerCount))
	}
	return t
}

func (r *Renderer) categories(rows []model.CategoryPerformance) *Table {
	t := &Table{
		Title:   "Category Performance",
		Headers: []string{"Category", "Revenue", "Avg ROAS", "Avg Engagement", "Influencers"},
	}
	for _, c := range rows {
		t.AddRow(c.Category, r.money(c.TotalRevenue), r.ratio(c.AvgROAS), r.pct(c.AvgEngagementRate), strconv.Itoa(c.InfluencerCount))
	}
	return t
}

func (r *Renderer) products(rows []model.ProductPerformance) *Table {
	t := &Table{
		Title:   "Product Performance",
		Headers: []string{"Product", "Orders", "Revenue"},
	}
	for _, p := range rows {
		t.AddRow(p.Product, r.count(p.Orders), r.money(p.Revenue))
	}
	return t
}

func (r *Renderer) actions(a model.InvestmentActions) *Table {
	t := &Table{
		Title:   "Investment Actions",
		Headers: []string{"Action", "Name", "Platform", "ROAS", "Payout", "Revenue"},
	}
	add := func(label string, rows []model.ActionRow) {
		for _, x := range rows {
			t.AddRow(label, x.Name, x.Platform, r.ratio(x.ROAS), r.money(x.TotalPayout), r.money(x.TotalRevenue))
		}
	}
	add("Invest More", a.InvestMore)
	add("Optimize", a.Optimize)
	add("Monitor", a.Monitor)
	return t
}
