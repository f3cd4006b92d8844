package server

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	q := url.Values{
		"platform":    {"Instagram, YouTube", "TikTok"},
		"category":    {""},
		"performance": {"High"},
		"start":       {"2025-06-01"},
		"end":         {"2025-06-30"},
	}
	f, err := ParseFilter(q)
	require.NoError(t, err)

	assert.Equal(t, []string{"Instagram", "YouTube", "TikTok"}, f.Platforms)
	assert.Empty(t, f.Categories)
	assert.Empty(t, f.Tiers)
	assert.Equal(t, []string{"High"}, f.PerformanceCategories)
	require.NotNil(t, f.Start)
	require.NotNil(t, f.End)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *f.Start)
	assert.Equal(t, time.Date(2025, 6, 30, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), *f.End)
}

func TestParseFilter_Empty(t *testing.T) {
	f, err := ParseFilter(url.Values{})
	require.NoError(t, err)
	assert.True(t, f.IsZero())
}

func TestParseFilter_Errors(t *testing.T) {
	tests := []struct {
		name string
		q    url.Values
		want string
	}{
		{name: "bad start", q: url.Values{"start": {"01/06/2025"}}, want: "invalid start date"},
		{name: "bad end", q: url.Values{"end": {"x"}}, want: "invalid end date"},
		{name: "inverted", q: url.Values{"start": {"2025-06-02"}, "end": {"2025-06-01"}}, want: "precedes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter(tt.q)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
