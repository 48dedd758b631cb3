package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KaramelBytes/efindex-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() *dataset.Table {
	mk := func(id, name, region string, score, pr, tax, gdp float64) dataset.Record {
		return dataset.NewRecord(id, name, region).
			WithValue(dataset.Score, score).
			WithValue(dataset.PropertyRights, pr).
			WithValue(dataset.TaxBurden, tax).
			WithValue(dataset.GDP, gdp)
	}
	rows := []dataset.Record{
		mk("1", "Singapore", "Asia-Pacific", 84.4, 95, 90, 550),
		mk("2", "United States", "Americas", 72.1, 80, 75, 20000),
		mk("3", "Venezuela", "Americas", 25.8, 5, 73, 112),
		mk("4", "Estonia", "Europe", 80, 90, 80, 50),
	}
	return dataset.NewTable([]dataset.Column{
		dataset.CountryID, dataset.CountryName, dataset.Region, dataset.Score,
		dataset.PropertyRights, dataset.TaxBurden, dataset.GDP,
	}, rows)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := New(testTable(), nil, nil, Options{TopN: 2, BottomN: 1, HistogramBins: 5})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

type row struct {
	Name           string              `json:"name"`
	Classification string              `json:"classification"`
	Values         map[string]*float64 `json:"values"`
}

func TestRankings(t *testing.T) {
	ts := newTestServer(t)

	code, b := do(t, ts, http.MethodGet, "/api/rankings", "")
	require.Equal(t, http.StatusOK, code)
	rows := decode[[]row](t, b)
	require.Len(t, rows, 2)
	assert.Equal(t, "Singapore", rows[0].Name)
	assert.Equal(t, "Estonia", rows[1].Name)

	code, b = do(t, ts, http.MethodGet, "/api/rankings?order=bottom", "")
	require.Equal(t, http.StatusOK, code)
	rows = decode[[]row](t, b)
	require.Len(t, rows, 1)
	assert.Equal(t, "Repressed", rows[0].Classification)

	code, b = do(t, ts, http.MethodGet, "/api/rankings?n=1&by=gdp%20(billions)", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "United States", decode[[]row](t, b)[0].Name)

	code, _ = do(t, ts, http.MethodGet, "/api/rankings?by=Tariffs", "")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, ts, http.MethodGet, "/api/rankings?n=many", "")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, ts, http.MethodGet, "/api/rankings?by=Inflation%20(%25)", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestSummaryWithRegionFilter(t *testing.T) {
	ts := newTestServer(t)
	code, b := do(t, ts, http.MethodGet, "/api/summary?region=Americas", "")
	require.Equal(t, http.StatusOK, code)
	var resp struct {
		Overview struct {
			Countries    int      `json:"countries"`
			AverageScore *float64 `json:"average_score"`
		} `json:"overview"`
		Statistics []struct {
			Column string   `json:"column"`
			StdDev *float64 `json:"std_dev"`
		} `json:"statistics"`
	}
	require.NoError(t, json.Unmarshal(b, &resp))
	assert.Equal(t, 2, resp.Overview.Countries)
	assert.Equal(t, 48.95, *resp.Overview.AverageScore)

	code, b = do(t, ts, http.MethodGet, "/api/summary?region=Europe", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(b), `"std_dev":null`, "single country has no std dev")
}

func TestCountryEndpoints(t *testing.T) {
	ts := newTestServer(t)

	code, b := do(t, ts, http.MethodGet, "/api/countries/United%20States", "")
	require.Equal(t, http.StatusOK, code)
	var detail struct {
		Country       row `json:"country"`
		TopCategories []struct {
			Category string `json:"category"`
		} `json:"top_categories"`
	}
	require.NoError(t, json.Unmarshal(b, &detail))
	assert.Equal(t, "United States", detail.Country.Name)
	assert.Equal(t, "Property Rights", detail.TopCategories[0].Category)

	code, b = do(t, ts, http.MethodGet, "/api/countries/Singapore/contribution", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(b), `"category":"Property Rights","value":112.56`)

	code, b = do(t, ts, http.MethodGet, "/api/countries/Atlantis", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, string(b), "COUNTRY_NOT_FOUND")

	code, b = do(t, ts, http.MethodGet, "/api/countries?region=Americas", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"United States", "Venezuela"}, decode[[]string](t, b))

	code, b = do(t, ts, http.MethodGet, "/api/compare?country=Estonia&country=Nowhere&country=Singapore", "")
	require.Equal(t, http.StatusOK, code)
	rows := decode[[]row](t, b)
	require.Len(t, rows, 2)
	assert.Equal(t, "Singapore", rows[0].Name)
	_, hasGDP := rows[0].Values["GDP (Billions)"]
	assert.False(t, hasGDP)

	code, _ = do(t, ts, http.MethodGet, "/api/compare", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSessionsFilterViews(t *testing.T) {
	ts := newTestServer(t)

	code, b := do(t, ts, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, code)
	created := decode[struct {
		ID      string   `json:"id"`
		Regions []string `json:"regions"`
	}](t, b)
	assert.Equal(t, []string{"Americas", "Asia-Pacific", "Europe"}, created.Regions)

	code, _ = do(t, ts, http.MethodPut, "/api/sessions/"+created.ID+"/regions", `{"regions":["Europe"]}`)
	require.Equal(t, http.StatusOK, code)

	code, b = do(t, ts, http.MethodGet, "/api/rankings?session="+created.ID, "")
	require.Equal(t, http.StatusOK, code)
	rows := decode[[]row](t, b)
	require.Len(t, rows, 1)
	assert.Equal(t, "Estonia", rows[0].Name)

	code, _ = do(t, ts, http.MethodGet, "/api/rankings?session=not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, ts, http.MethodGet, "/api/rankings?session=6ba7b810-9dad-11d1-80b4-00c04fd430c8", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, ts, http.MethodDelete, "/api/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = do(t, ts, http.MethodGet, "/api/sessions/"+created.ID+"/regions", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestChartsAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	code, b := do(t, ts, http.MethodGet, "/api/charts", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, decode[[]string](t, b), "heatmap")

	code, b = do(t, ts, http.MethodGet, "/api/charts/classification", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(b), `"label":"Free"`)

	code, _ = do(t, ts, http.MethodGet, "/api/charts/radar?country=Estonia", "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = do(t, ts, http.MethodGet, "/api/charts/pie", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, b = do(t, ts, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(b), `"countries":4`)

	code, b = do(t, ts, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(b), `efindex_http_requests_total{method="GET",route="/api/charts/{kind}",status="404"} 1`)
	assert.Contains(t, string(b), "efindex_sessions 0")
}

func TestAggregatesWithoutScoreColumn(t *testing.T) {
	tbl := dataset.NewTable(
		[]dataset.Column{dataset.CountryID, dataset.CountryName, dataset.Region, dataset.GDP},
		[]dataset.Record{
			dataset.NewRecord("1", "A", "Europe").WithValue(dataset.GDP, 1),
			dataset.NewRecord("2", "B", "Europe").WithValue(dataset.GDP, 2),
			dataset.NewRecord("3", "C", "Americas").WithValue(dataset.GDP, 3),
		},
	)
	ts := httptest.NewServer(New(tbl, nil, nil, Options{TopN: 2, BottomN: 1, HistogramBins: 5}).Handler())
	t.Cleanup(ts.Close)

	for _, path := range []string{"/api/correlations", "/api/classification", "/api/charts/classification", "/api/rankings"} {
		code, b := do(t, ts, http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnprocessableEntity, code, "%s: %s", path, b)
	}
}
