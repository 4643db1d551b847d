// Package web serves the form page and the JSON API in server mode: a
// selector of prior submissions, the rendered dynamic form, and a submit
// endpoint that persists the answers and regenerates the export document.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/formforge/formforge/internal/config"
	"github.com/formforge/formforge/internal/export"
	"github.com/formforge/formforge/internal/form"
)

//go:embed templates/index.html
var templatesFS embed.FS

// Server is the HTTP front end over the form service.
type Server struct {
	config      *config.Config
	formService *form.Service
	indexTmpl   *template.Template
}

// NewServer creates the HTTP server for the given service.
func NewServer(cfg *config.Config, formService *form.Service) (*Server, error) {
	if formService == nil {
		return nil, fmt.Errorf("formService cannot be nil")
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}

	return &Server{
		config:      cfg,
		formService: formService,
		indexTmpl:   tmpl,
	}, nil
}

// Routes builds the request multiplexer.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/questions", s.handleQuestions)
	mux.HandleFunc("GET /api/forms", s.handleFormsList)
	mux.HandleFunc("GET /api/forms/{id}", s.handleFormLoad)
	mux.HandleFunc("POST /api/submit", s.handleSubmit)
	mux.HandleFunc("GET /api/images/{id}", s.handleImage)
	mux.HandleFunc("GET /exports/"+export.FileName, s.handleExportDownload)
	return s.logRequests(mux)
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address(),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// indexData feeds the form page template.
type indexData struct {
	ServerName   string
	Questions    form.QuestionList
	SourceErrors []string
	SavedForms   []savedFormOption
	ExportName   string
}

type savedFormOption struct {
	ID      string
	Created string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		ServerName:   s.config.ServerName,
		Questions:    s.formService.Questions(),
		SourceErrors: s.formService.SourceErrors(),
		ExportName:   export.FileName,
	}
	for _, f := range s.formService.ListForms() {
		data.SavedForms = append(data.SavedForms, savedFormOption{
			ID:      f.ID,
			Created: time.UnixMilli(f.CreatedAt).Format("2006-01-02 15:04:05"),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.indexTmpl.Execute(w, data); err != nil {
		log.Printf("render index: %v", err)
	}
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"questions":     s.formService.Questions(),
		"source_errors": s.formService.SourceErrors(),
	})
}

func (s *Server) handleFormsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.formService.ListForms())
}

func (s *Server) handleFormLoad(w http.ResponseWriter, r *http.Request) {
	result, err := s.formService.LoadForm(r.Context(), form.LoadFormRequest{ID: r.PathValue("id")})
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req form.SubmitFormRequest
	body := http.MaxBytesReader(w, r.Body, s.config.MaxUploadSize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("bad request: %v", err), http.StatusBadRequest)
		return
	}

	// The success response sends the browser straight to the export
	// download, so the document must be on disk before we answer.
	req.WaitForExport = true

	result, err := s.formService.SubmitForm(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if !result.Submitted {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	payload, ok, err := s.formService.GetImage(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "image not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"payload": payload})
}

func (s *Server) handleExportDownload(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(s.config.ExportDirectory, export.FileName)
	if err := export.Verify(path); err != nil {
		http.Error(w, "no export available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	http.ServeFile(w, r, path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
