// Package server exposes the generation commands over HTTP. Generated PDFs
// are kept under the output directory as {uuid}.pdf.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ByLCY/swotdoc/app"
	"github.com/ByLCY/swotdoc/config"
	"github.com/ByLCY/swotdoc/fault"
	"github.com/ByLCY/swotdoc/records"
	"github.com/ByLCY/swotdoc/reply"
)

// Generator is the part of app.Service the handlers need.
type Generator interface {
	CheckOllamaStatus(ctx context.Context) (string, error)
	QuestionsFromData(ctx context.Context, name string, data []byte, businessName string) ([]string, error)
	AnalysisFromData(ctx context.Context, name string, csvData, pdfData []byte, businessName string) (string, error)
	RenderQuestions(questions []string, businessName string) ([]byte, error)
	RenderAnalysis(swotText, businessName string, opts ...app.SaveOption) ([]byte, error)
}

const previewSize = 5

// Server serves the HTTP API.
type Server struct {
	gen       Generator
	outputDir string
	maxUpload int64
	addr      string
	log       zerolog.Logger
}

// New returns a server writing PDFs under cfg.OutputDir.
func New(gen Generator, cfg config.ServerConfig, log zerolog.Logger) *Server {
	maxUpload := cfg.MaxUploadMB << 20
	if maxUpload <= 0 {
		maxUpload = 32 << 20
	}
	dir := cfg.OutputDir
	if dir == "" {
		dir = os.TempDir()
	}
	return &Server{gen: gen, outputDir: dir, maxUpload: maxUpload, addr: cfg.Addr, log: log}
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/generate-questions", s.handleQuestions)
	mux.HandleFunc("POST /api/generate-swot", s.handleSwot)
	mux.HandleFunc("GET /api/download-pdf/{id}", s.handleDownload)
	return s.logRequests(mux)
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Str("output_dir", s.outputDir).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "AI Business Analysis API is running"})
}

type statusResponse struct {
	Ready   bool   `json:"ready"`
	Message string `json:"message"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	msg, err := s.gen.CheckOllamaStatus(r.Context())
	if err != nil {
		writeJSON(w, statusFor(err), statusResponse{Ready: false, Message: fault.Message(err)})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Ready: true, Message: msg})
}

type questionsResponse struct {
	Success          bool     `json:"success"`
	BusinessName     string   `json:"business_name"`
	Questions        []string `json:"questions"`
	QuestionsCount   int      `json:"questions_count"`
	QuestionsPreview []string `json:"questions_preview"`
	PDFID            string   `json:"pdf_id"`
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	if !s.parseUpload(w, r) {
		return
	}
	name, err := businessName(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	csvName, csvData, err := readUpload(r, "csv_file", "Please upload a CSV file", ".csv", ".xlsx")
	if err != nil {
		s.fail(w, err)
		return
	}

	questions, err := s.gen.QuestionsFromData(r.Context(), csvName, csvData, name)
	if err != nil {
		s.fail(w, err)
		return
	}
	pdf, err := s.gen.RenderQuestions(questions, name)
	if err != nil {
		s.fail(w, err)
		return
	}
	id, err := s.store(pdf)
	if err != nil {
		s.fail(w, err)
		return
	}

	preview := questions
	if len(preview) > previewSize {
		preview = preview[:previewSize]
	}
	writeJSON(w, http.StatusOK, questionsResponse{
		Success:          true,
		BusinessName:     name,
		Questions:        questions,
		QuestionsCount:   len(questions),
		QuestionsPreview: preview,
		PDFID:            id,
	})
}

type swotResponse struct {
	Success      bool            `json:"success"`
	BusinessName string          `json:"business_name"`
	SwotAnalysis string          `json:"swot_analysis"`
	Sections     []reply.Section `json:"sections"`
	Complete     bool            `json:"complete"`
	PDFID        string          `json:"pdf_id"`
}

func (s *Server) handleSwot(w http.ResponseWriter, r *http.Request) {
	if !s.parseUpload(w, r) {
		return
	}
	name, err := businessName(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	csvName, csvData, err := readUpload(r, "csv_file", "Please upload a CSV file", ".csv", ".xlsx")
	if err != nil {
		s.fail(w, err)
		return
	}
	_, pdfData, err := readUpload(r, "pdf_file", "Please upload a PDF file", ".pdf")
	if err != nil {
		s.fail(w, err)
		return
	}

	analysis, err := s.gen.AnalysisFromData(r.Context(), csvName, csvData, pdfData, name)
	if err != nil {
		s.fail(w, err)
		return
	}
	parsed, err := reply.ParseAnalysis(analysis)
	if err != nil {
		// the raw text is still returned and rendered
		s.log.Warn().Err(err).Msg("analysis not parsed into sections")
		parsed = &reply.Analysis{}
	}
	pdf, err := s.gen.RenderAnalysis(analysis, name)
	if err != nil {
		s.fail(w, err)
		return
	}
	id, err := s.store(pdf)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, swotResponse{
		Success:      true,
		BusinessName: name,
		SwotAnalysis: analysis,
		Sections:     parsed.Sections,
		Complete:     parsed.Complete(),
		PDFID:        id,
	})
}

// parseUpload caps the request body at the upload limit and parses the
// multipart form; it answers the request itself on failure.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	err := r.ParseMultipartForm(s.maxUpload)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.log.Warn().Int64("limit", tooLarge.Limit).Msg("upload rejected")
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Upload exceeds the %d MB limit", s.maxUpload>>20))
		return false
	}
	s.fail(w, fault.Input(err, "Invalid multipart form"))
	return false
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "PDF not found or expired")
		return
	}
	f, err := os.Open(s.pdfPath(id.String()))
	if err != nil {
		writeError(w, http.StatusNotFound, "PDF not found or expired")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="analysis_%s.pdf"`, id))
	if _, err := io.Copy(w, f); err != nil {
		s.log.Warn().Err(err).Str("pdf_id", id.String()).Msg("download interrupted")
	}
}

func (s *Server) pdfPath(id string) string {
	return filepath.Join(s.outputDir, id+".pdf")
}

func (s *Server) store(pdf []byte) (string, error) {
	id := uuid.NewString()
	if err := os.WriteFile(s.pdfPath(id), pdf, 0o644); err != nil {
		return "", fault.Output(err, "Failed to store PDF")
	}
	return id, nil
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	ev := s.log.Warn()
	if status >= http.StatusInternalServerError {
		ev = s.log.Error()
	}
	ev.Err(err).Int("status", status).Str("kind", fault.KindOf(err).String()).Msg("request failed")
	writeError(w, status, fault.Message(err))
}

func statusFor(err error) int {
	switch fault.KindOf(err) {
	case fault.KindInput:
		if records.IsNotFound(err) {
			return http.StatusNotFound
		}
		return http.StatusBadRequest
	case fault.KindEnvironment:
		return http.StatusServiceUnavailable
	case fault.KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func businessName(r *http.Request) (string, error) {
	name := strings.TrimSpace(r.FormValue("business_name"))
	if name == "" {
		return "", fault.Input(nil, "business_name is required")
	}
	return name, nil
}

// readUpload returns the named multipart file when its extension is one of
// exts.
func readUpload(r *http.Request, field, wrongType string, exts ...string) (string, []byte, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return "", nil, fault.Input(err, "%s", wrongType)
	}
	defer f.Close()
	if !hasExt(hdr, exts) {
		return "", nil, fault.Input(nil, "%s", wrongType)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, fault.Input(err, "Failed to read upload %s", field)
	}
	return hdr.Filename, data, nil
}

func hasExt(hdr *multipart.FileHeader, exts []string) bool {
	ext := filepath.Ext(hdr.Filename)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
