package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"github.com/arthsaathi/strategist/internal/database"
	"github.com/arthsaathi/strategist/internal/strategist"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New()

// Server is the HTTP server for browsing and creating analysis reports.
type Server struct {
	db    *database.DB
	strat *strategist.Strategist
	pages map[string]*template.Template
	mux   *http.ServeMux
}

// New creates a new Server.
func New(db *database.DB, strat *strategist.Strategist) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"pct": func(v float64) string {
			return strconv.FormatFloat(v*100, 'f', 0, 64) + "%"
		},
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the clone.
	// This gives each page its own {{define "content"}} and {{define "title"}}.
	pageNames := []string{"index.html", "report.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{db: db, strat: strat, pages: pages, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Routes
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/report/", s.handleReport)
	s.mux.HandleFunc("/api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("/api/report/", s.handleAPIReport)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	reports, err := s.db.GetAllReports()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	stats, _ := s.db.GetStats()

	s.render(w, "index.html", map[string]any{
		"Reports": reports,
		"Stats":   stats,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/report/")
	if id == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	rep, err := s.db.GetReport(id)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if rep == nil {
		http.NotFound(w, r)
		return
	}

	var final strategist.FinalReport
	if err := json.Unmarshal(rep.Data, &final); err != nil {
		log.Printf("Report %s has unreadable data: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, "report.html", map[string]any{
		"Report": rep,
		"Body":   final.Markdown(),
	})
}

type analyzeRequest struct {
	PersonaID string `json:"persona_id"`
	EventID   string `json:"event_id"`
	ChoiceID  string `json:"choice_id"`
}

type analyzeResponse struct {
	ReportID string                  `json:"report_id"`
	Report   *strategist.FinalReport `json:"report"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PersonaID == "" || req.EventID == "" || req.ChoiceID == "" {
		writeError(w, http.StatusBadRequest, "persona_id, event_id and choice_id are required")
		return
	}

	persona, err := s.db.GetPersona(req.PersonaID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load persona")
		return
	}
	if persona == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("persona %s not found", req.PersonaID))
		return
	}
	event, err := s.db.GetEvent(req.EventID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load event")
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("event %s not found", req.EventID))
		return
	}

	final, err := s.strat.AnalyzeDecision(r.Context(), persona, event, req.ChoiceID)
	if err != nil {
		if errors.Is(err, strategist.ErrChoiceNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("Analysis failed for %s/%s: %v", req.PersonaID, req.EventID, err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	data, err := json.Marshal(final)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	rep := &database.Report{
		ID:               uuid.NewString(),
		PersonaID:        req.PersonaID,
		EventID:          req.EventID,
		ChoiceID:         req.ChoiceID,
		WasOptimal:       final.DecisionTree.DecisionQualityMetrics.WasOptimal,
		RegretLikelihood: final.DecisionTree.DecisionQualityMetrics.RegretLikelihood,
		HealthScore:      final.DecisionTree.BranchOutcomes.TakenBranch.TwelveMonthOutlook.FinancialHealthScore,
		Summary:          final.Summary,
		Data:             data,
	}
	if err := s.db.InsertReport(rep); err != nil {
		log.Printf("Failed to store report %s: %v", rep.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to store report")
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{ReportID: rep.ID, Report: final})
}

func (s *Server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/report/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "report id required")
		return
	}

	rep, err := s.db.GetReport(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	if rep == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("report %s not found", id))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(rep.Data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Printf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// Serve starts the HTTP server on the given port.
func Serve(db *database.DB, strat *strategist.Strategist, port int) error {
	srv, err := New(db, strat)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
