package http

import (
	"html/template"
	"net/http"
	"net/url"

	"lcgrants/internal/core"
	"lcgrants/internal/dataset"
	applog "lcgrants/internal/log"
	"lcgrants/internal/render"
	"lcgrants/internal/views"
)

type chartData struct {
	Title string
	Note  string
	Chart template.HTML
	Empty bool
}

type gridColumn struct {
	Label   string
	Active  bool
	Desc    bool
	SortURL string
}

type gridData struct {
	Rows    []views.GridRow
	Query   views.GridQuery
	Columns []gridColumn
	Matched int
}

type sourcesData struct {
	Source     string
	Rows       int
	GrandTotal string
	Stats      []dataset.SourceStat
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	s.renderPartial(w, r, "summary", sess.Summary(), nil)
}

func (s *Server) handleYearlyChart(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	series := sess.YearlySeries()
	s.renderPartial(w, r, "chart", chartData{
		Title: "Grants per year",
		Chart: render.YearlyChart(series),
		Empty: series.Total() == 0,
	}, nil)
}

func (s *Server) handleTotalsChart(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	totals := sess.YearlyTotals()
	s.renderPartial(w, r, "chart", chartData{
		Title: "Amount awarded per year",
		Chart: render.TotalsChart(totals),
		Empty: len(totals.Years) == 0,
	}, nil)
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	b := sess.Categories()
	s.renderPartial(w, r, "chart", chartData{
		Title: "Grant types",
		Chart: render.CategoryChart(b),
		Empty: len(b.Categories) == 0,
	}, nil)
}

func (s *Server) handleOrgChart(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	p := sess.Organisations()
	s.renderPartial(w, r, "chart", chartData{
		Title: "Organisation age and latest income",
		Note:  "This information is only available for GrantNav data.",
		Chart: render.OrgChart(p),
		Empty: p.Total() == 0,
	}, nil)
}

var gridColumns = []struct{ key, label string }{
	{views.SortID, "ID"},
	{views.SortTitle, "Title"},
	{views.SortCategory, "Type"},
	{views.SortSubcategory, "Subtype"},
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	q, err := ParseGridQuery(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	sess := s.session(w, r)

	cols := make([]gridColumn, len(gridColumns))
	for i, c := range gridColumns {
		active := q.Sort == c.key || (q.Sort == "" && c.key == views.SortID)
		next := "asc"
		if active && !q.Desc {
			next = "desc"
		}
		cols[i] = gridColumn{Label: c.label, Active: active, Desc: active && q.Desc, SortURL: gridURL(c.key, next, q.Search)}
	}

	s.renderPartial(w, r, "grid", gridData{
		Rows:    sess.Grid(q),
		Query:   q,
		Columns: cols,
		Matched: sess.View().Len(),
	}, nil)
}

// gridURL builds a grid link that keeps the search text intact.
func gridURL(sort, dir, search string) string {
	v := url.Values{"sort": {sort}, "dir": {dir}}
	if search != "" {
		v.Set("q", search)
	}
	return "/ui/grid?" + v.Encode()
}

// handleDetail renders the detail panel for the selected rows. Ids that do
// not resolve are logged and left out; the panel is blank when none resolve.
func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	ids, err := ParseIDs(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	sess := s.session(w, r)
	d := sess.Detail(ids)
	if err := d.Err(); err != nil {
		s.logger.DebugContext(r.Context(), "Selected grants not found",
			applog.FieldSessionID, sess.ID, applog.FieldError, err)
	}
	s.renderPartial(w, r, "detail", d, nil)
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	s.renderPartial(w, r, "sources", sourcesData{
		Source:     s.ds.Source(),
		Rows:       s.ds.Len(),
		GrandTotal: core.FormatGBP(s.ds.GrandTotal()),
		Stats:      s.ds.SourceStats(),
	}, nil)
}

func (s *Server) handleMapGeoJSON(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	raw, err := render.GeoJSON(sess.Geo()).MarshalJSON()
	if err != nil {
		s.structured.LogError(r.Context(), "GeoJSON encoding failed", err, applog.ComponentRender, applog.OpRender, nil)
		InternalServerError("Failed to encode map data").Write(w)
		return
	}
	NewHTMXResponse().BodyJSON("application/geo+json", raw).Write(w)
}
