package http

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/shopspring/decimal"

	"lcgrants/internal/core"
	applog "lcgrants/internal/log"
	appweb "lcgrants/web"
)

var templateFuncs = template.FuncMap{
	"count":  core.FormatCount,
	"gbp":    core.FormatGBP,
	"amount": core.FormatAmount,
	"decimal": func(d decimal.Decimal) string {
		return d.String()
	},
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
}

// renderPartial executes a named template into a buffer and writes it through
// b, so a failing template never leaves a half-written response.
func (s *Server) renderPartial(w http.ResponseWriter, r *http.Request, name string, data any, b *HTMXResponseBuilder) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.structured.LogError(r.Context(), "Template execution failed", err,
			applog.ComponentTemplate, applog.OpRender, applog.NewFields().WithRequestID(requestID(r)))
		InternalServerError("Failed to render "+name).Write(w)
		return
	}
	if b == nil {
		b = NewHTMXResponse()
	}
	b.BodyHTML(buf.String()).Write(w)
}
