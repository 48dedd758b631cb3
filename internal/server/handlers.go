package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/KaramelBytes/efindex-cli/internal/analysis"
	"github.com/KaramelBytes/efindex-cli/internal/charts"
	"github.com/KaramelBytes/efindex-cli/internal/dataset"
	"github.com/KaramelBytes/efindex-cli/internal/logging"
	"github.com/KaramelBytes/efindex-cli/internal/query"
	"github.com/KaramelBytes/efindex-cli/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toAPIError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		logging.LogError(logging.FromContext(r.Context()), "request failed", err)
	}
	_ = render.Render(w, r, apiErr)
}

// selection returns the table restricted by the request's session and
// region parameters. Without either, the full table is used.
func (s *Server) selection(r *http.Request) (*dataset.Table, error) {
	t := s.table
	if id := r.URL.Query().Get("session"); id != "" {
		sid, err := uuid.Parse(id)
		if err != nil {
			return nil, badRequest(fmt.Sprintf("invalid session id %q", id))
		}
		sess, err := s.sessions.Get(sid)
		if err != nil {
			return nil, err
		}
		t = query.FilterByRegions(t, sess.Regions)
	}
	if regions := r.URL.Query()["region"]; len(regions) > 0 {
		t = query.FilterByRegions(t, regions)
	}
	return t, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest(fmt.Sprintf("invalid %s %q", name, v))
	}
	return n, nil
}

func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"status": "ok", "countries": s.table.Len()})
}

type summaryResponse struct {
	Overview   view.Overview      `json:"overview"`
	Statistics []view.ColumnStats `json:"statistics"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	t, err := s.selection(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, summaryResponse{
		Overview:   view.NewOverview(query.Summarize(t, s.table)),
		Statistics: view.Summary(analysis.SummaryStatistics(t)),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	t, err := s.selection(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, view.Categories(analysis.CategoryStatistics(t)))
}

func (s *Server) handleCorrelations(w http.ResponseWriter, r *http.Request) {
	t, err := s.selection(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cs, err := analysis.CorrelationsWithScore(t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, view.Correlations(cs))
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	t, err := s.selection(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	order := strings.ToLower(r.URL.Query().Get("order"))
	def := s.opts.TopN
	if order == "bottom" {
		def = s.opts.BottomN
	} else if order != "" && order != "top" {
		s.fail(w, r, badRequest(fmt.Sprintf("invalid order %q (use top or bottom)", order)))
		return
	}
	n, err := intParam(r, "n", def)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	by := dataset.Score
	if name := r.URL.Query().Get("by"); name != "" {
		if by, err = dataset.ParseColumn(name); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	rank := query.TopN
	if order == "bottom" {
		rank = query.BottomN
	}
	ranked, err := rank(t, n, by)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, view.Rows(ranked))
}

type regionsResponse struct {
	Regions    []string           `json:"regions"`
	Statistics []view.RegionStats `json:"statistics"`
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	t, err := s.selection(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, regionsResponse{
		Regions:    query.Regions(s.table),
		Statistics: view.Regions(analysis.RegionalStatistics(t)),
	})
}

type bandCount struct {
	Classification string `json:"classification"`
	Count          int    `json:"count"`
	Color          string `json:"color"`
}

func (s *Server) handleClassification(w http.ResponseWriter, r *http.Request) {
	t, err := s.selection(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	bands, err := analysis.ClassificationCounts(t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var out []bandCount
	for _, bc := range bands {
		out = append(out, bandCount{Classification: bc.Class.String(), Count: bc.Count, Color: bc.Class.Color()})
	}
	render.JSON(w, r, out)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	t, err := s.selection(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	names := r.URL.Query()["country"]
	if len(names) == 0 {
		s.fail(w, r, badRequest("at least one country parameter is required"))
		return
	}
	render.JSON(w, r, view.Rows(query.CompareCountries(t, names)))
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	t, err := s.selection(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, query.Countries(t))
}

func (s *Server) handleCountry(w http.ResponseWriter, r *http.Request) {
	d, err := view.Detail(s.table, pathParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, d)
}

func (s *Server) handleContribution(w http.ResponseWriter, r *http.Request) {
	c, err := query.CategoryContribution(s.table, pathParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, view.Contribution(c))
}

func (s *Server) handleChartKinds(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, charts.Kinds())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	t, err := s.selection(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	n, err := intParam(r, "n", s.opts.TopN)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	bins, err := intParam(r, "bins", s.opts.HistogramBins)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := charts.Build(chi.URLParam(r, "kind"), t, charts.Options{
		TopN:    n,
		Bins:    bins,
		Country: r.URL.Query().Get("country"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, c)
}

type regionsRequest struct {
	Regions []string `json:"regions"`
}

// Bind implements render.Binder.
func (req *regionsRequest) Bind(r *http.Request) error { return nil }

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req regionsRequest
	if r.ContentLength != 0 {
		if err := render.Bind(r, &req); err != nil {
			s.fail(w, r, badRequest("invalid request body"))
			return
		}
	}
	regions := req.Regions
	if regions == nil {
		regions = query.Regions(s.table)
	}
	sess := s.sessions.Create(regions)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, sess)
}

func (s *Server) sessionID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, badRequest("invalid session id")
	}
	return id, nil
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, sess)
}

func (s *Server) handleSetRegions(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req regionsRequest
	if err := render.Bind(r, &req); err != nil {
		s.fail(w, r, badRequest("invalid request body"))
		return
	}
	sess, err := s.sessions.SetRegions(id, req.Regions)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.sessions.Delete(id)
	render.NoContent(w, r)
}
