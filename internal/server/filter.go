package server

import (
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/influencer-kpi/internal/insight"
)

// DateLayout is the accepted format of the start and end parameters.
const DateLayout = "2006-01-02"

// ParseFilter reads platform, category, tier, performance, start and end
// from q. List parameters may repeat or hold comma-separated values. The end
// date is inclusive.
func ParseFilter(q url.Values) (insight.Filter, error) {
	f := insight.Filter{
		Platforms:             listParam(q, "platform"),
		Categories:            listParam(q, "category"),
		Tiers:                 listParam(q, "tier"),
		PerformanceCategories: listParam(q, "performance"),
	}

	if v := strings.TrimSpace(q.Get("start")); v != "" {
		t, err := time.Parse(DateLayout, v)
		if err != nil {
			return insight.Filter{}, eris.Wrapf(err, "server: invalid start date %q", v)
		}
		f.Start = &t
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		t, err := time.Parse(DateLayout, v)
		if err != nil {
			return insight.Filter{}, eris.Wrapf(err, "server: invalid end date %q", v)
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		f.End = &t
	}
	if f.Start != nil && f.End != nil && f.End.Before(*f.Start) {
		return insight.Filter{}, eris.New("server: end date precedes start date")
	}
	return f, nil
}

func listParam(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
