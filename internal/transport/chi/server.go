package chi

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/compdex/internal/domain"
	"github.com/kailas-cloud/compdex/internal/domain/company"
	"github.com/kailas-cloud/compdex/internal/domain/country"
	"github.com/kailas-cloud/compdex/internal/domain/search/filter"
	"github.com/kailas-cloud/compdex/internal/export"
	"github.com/kailas-cloud/compdex/internal/logger"
	healthuc "github.com/kailas-cloud/compdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/compdex/internal/usecase/search"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"join": func(items []string) string { return strings.Join(items, ", ") },
	"has":  func(items []string, v string) bool { return slices.Contains(items, v) },
}).ParseFS(templateFS, "templates/index.html"))

// errorHandler maps a pipeline error to a response status. Returns false if not handled.
type errorHandler func(err error) (int, bool)

// Options holds web form defaults taken from configuration.
type Options struct {
	// Token is used when the form leaves the API token blank.
	Token     string
	ExportDir string
	Filename  string
}

// Server serves the search form.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// countryOption is one suggestion of the countries field.
type countryOption struct {
	Code string
	Name string
}

// countryOptions lists every known country, ordered by code.
var countryOptions = func() []countryOption {
	codes := country.Codes()
	out := make([]countryOption, 0, len(codes))
	for _, code := range codes {
		name, _ := country.Name(code)
		out = append(out, countryOption{Code: code, Name: name})
	}
	return out
}()

// view is the data rendered by the form template.
type view struct {
	Form          FormState
	RevenueBands  []string
	EmployeeBands []string
	Countries     []countryOption
	Header        []string
	Rows          []company.Row
	Error         string
	Notice        string
	Exported      string
}

// NewServer creates the web form server.
func NewServer(search *searchuc.Service, health *healthuc.Service, opts Options, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		health: health,
		opts:   opts,
		logger: logger,
	}
	// Domain errors are part of normal form use and render with 200.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnknownCountry, http.StatusOK),
		sentinelHandler(domain.ErrTransport, http.StatusOK),
		sentinelHandler(domain.ErrEmptyResult, http.StatusOK),
		sentinelHandler(domain.ErrInvalidPath, http.StatusOK),
		sentinelHandler(domain.ErrInvalidFilter, http.StatusOK),
	}
	return s
}

// Routes mounts the form, health and metrics endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Form)
	r.Post("/", s.Submit)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Form handles GET / with an empty form.
func (s *Server) Form(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, s.newView(NewFormState(s.opts.ExportDir)))
}

// Submit handles POST /: runs one search and renders its rows below the form.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	base := NewFormState(s.opts.ExportDir)
	if err := r.ParseForm(); err != nil {
		v := s.newView(base)
		v.Error = "Invalid form submission"
		s.render(w, http.StatusBadRequest, v)
		return
	}

	state, err := ParseForm(r.PostForm, base)
	v := s.newView(state)
	if err != nil {
		log.Info("Unparsable form field", zap.Error(err))
		v.Error = "Invalid form field: " + err.Error()
		s.render(w, http.StatusBadRequest, v)
		return
	}

	fs, err := filter.New(state.Params())
	if err != nil {
		s.renderError(w, v, err)
		return
	}

	var target string
	if state.ExportCSV {
		target, err = export.ResolvePath(state.ExportDir, s.opts.Filename)
		if err != nil {
			s.renderError(w, v, err)
			return
		}
	}

	token := state.Token
	if token == "" {
		token = s.opts.Token
	}

	var tbl export.Table
	rep, err := s.search.Search(ctx, token, fs, &tbl)
	if err != nil {
		s.renderError(w, v, err)
		return
	}

	v.Rows = tbl.Rows()
	v.Notice = rep.Notice

	if target != "" {
		if err := tbl.WriteCSV(target); err != nil {
			log.Error("CSV export failed", zap.String("path", target), zap.Error(err))
			v.Error = searchuc.Describe(&domain.ExportError{Target: target, Err: err})
			s.render(w, http.StatusInternalServerError, v)
			return
		}
		v.Exported = target
	}

	s.render(w, http.StatusOK, v)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) newView(state FormState) view {
	return view{
		Form:          state,
		RevenueBands:  filter.RevenueBands,
		EmployeeBands: filter.EmployeeBands,
		Countries:     countryOptions,
		Header:        company.Header(),
	}
}

// renderError shows the user message above an empty table.
func (s *Server) renderError(w http.ResponseWriter, v view, err error) {
	v.Rows = nil
	v.Error = searchuc.Describe(err)
	for _, h := range s.errorHandlers {
		if status, ok := h(err); ok {
			s.render(w, status, v)
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	s.render(w, http.StatusInternalServerError, v)
}

func (s *Server) render(w http.ResponseWriter, status int, v view) {
	var b strings.Builder
	if err := pageTemplate.Execute(&b, v); err != nil {
		s.logger.Error("render template", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(b.String()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(err error) (int, bool) {
		if !errors.Is(err, sentinel) {
			return 0, false
		}
		return status, true
	}
}
