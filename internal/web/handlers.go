package web

import (
	"archive/zip"
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hurttlocker/chatsift/internal/extract"
	"github.com/hurttlocker/chatsift/internal/refine"
	"github.com/hurttlocker/chatsift/internal/report"
	"github.com/hurttlocker/chatsift/internal/transcript"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// category is the upload-page metadata for one extraction category.
type category struct {
	Key         string `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// webCategories are the first-class categories offered on the upload
// page, in display order. The CLI exposes the full rule registry; the
// web surface curates the three with dedicated report layouts.
var webCategories = []category{
	{Key: "actions", Name: "Action Items", Description: "Task assignments, deliverables, and things to do", Icon: "✅"},
	{Key: "urls", Name: "URLs & Links", Description: "All links shared with who posted them and why", Icon: "🔗"},
	{Key: "checkins", Name: "Check-ins", Description: "Daily mood scores and check-in messages", Icon: "📊"},
}

type indexData struct {
	Categories []category
	DaysBack   int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := indexData{Categories: webCategories, DaysBack: s.cfg.DaysBack}
	if err := indexTemplate.Execute(w, data); err != nil {
		log.Printf("rendering index: %v", err)
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]category, len(webCategories))
	for _, c := range webCategories {
		out[c.Key] = c
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	name, data, err := readTranscript(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	messages, err := transcript.Parse(bytes.NewReader(data))
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("parsing transcript: %v", err))
		return
	}
	log.Printf("parsed %d messages from %s", len(messages), name)

	if days := daysWindow(r, s.cfg.DaysBack); days > 0 {
		before := len(messages)
		messages = transcript.FilterDays(messages, days)
		log.Printf("filtered to %d messages from last %d days (removed %d)", len(messages), days, before-len(messages))
	}

	queryType := r.FormValue("query_type")
	if queryType == "" {
		queryType = "actions"
	}

	candidates, err := extract.New(messages).Extract(queryType)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Printf("found %d %s candidates", len(candidates), queryType)

	html, err := s.renderReport(r.Context(), queryType, candidates)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	base := strings.TrimSuffix(sanitizeName(name), ".txt")
	fileID := fmt.Sprintf("%s_%s_%s_AI.html", uuid.NewString(), base, queryType)
	path := filepath.Join(s.cfg.ArtifactDir, fileID)
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("writing report: %v", err))
		return
	}
	log.Printf("created report %s", fileID)

	respondJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"file_id":      fileID,
		"filename":     fileID,
		"download_url": "/download/" + fileID,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	if strings.Contains(fileID, "..") || strings.ContainsAny(fileID, `/\`) {
		respondError(w, http.StatusBadRequest, "invalid file_id")
		return
	}

	path := filepath.Join(s.cfg.ArtifactDir, fileID)
	if _, err := os.Stat(path); err != nil {
		respondError(w, http.StatusNotFound, "file not found")
		return
	}

	// HTML reports open in the browser; anything else downloads.
	if strings.HasSuffix(fileID, ".html") {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	} else {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileID))
	}
	http.ServeFile(w, r, path)
}

const (
	previewRefineLimit = 20
	previewMaxItems    = 10
)

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	_, data, err := readTranscript(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	messages, err := transcript.Parse(bytes.NewReader(data))
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("parsing transcript: %v", err))
		return
	}

	queryType := r.FormValue("query_type")
	if queryType == "" {
		queryType = "actions"
	}

	candidates, err := extract.New(messages).Extract(queryType)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	preview := make([]any, 0, previewMaxItems)
	if s.provider != nil {
		head := candidates[:min(previewRefineLimit, len(candidates))]
		analyzer := refine.New(s.provider, refine.Options{ChunkSize: s.cfg.ChunkSize, Progress: os.Stderr})
		items := analyzer.Refine(r.Context(), queryType, head)
		for _, it := range items[:min(previewMaxItems, len(items))] {
			preview = append(preview, it)
		}
	} else {
		for _, c := range candidates[:min(previewMaxItems, len(candidates))] {
			preview = append(preview, c)
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"total_messages": len(messages),
		"total_found":    len(candidates),
		"preview":        preview,
		"query_type":     queryType,
	})
}

// renderReport produces the HTML artifact. With a provider configured
// the candidates go through LLM refinement first; otherwise the
// pattern-level report is wrapped as-is.
func (s *Server) renderReport(ctx context.Context, category string, candidates []extract.Candidate) (string, error) {
	if s.provider == nil {
		md := report.CandidatesMarkdown(candidates, category)
		return report.FormatMarkdownHTML(pageTitle(category)+" - Pattern Analysis", md)
	}

	analyzer := refine.New(s.provider, refine.Options{ChunkSize: s.cfg.ChunkSize, Progress: os.Stderr})
	items := analyzer.Refine(ctx, category, candidates)

	switch category {
	case "actions":
		return report.FormatActionsHTML(refine.DecodeActions(items))
	case "urls":
		return report.FormatLinksHTML(refine.DecodeLinks(items))
	case "checkins":
		return report.FormatCheckInsHTML(refine.DecodeCheckIns(items))
	default:
		md := report.FormatGeneric(items, category)
		return report.FormatMarkdownHTML(pageTitle(category)+" - AI Analysis", md)
	}
}

func pageTitle(category string) string {
	if category == "" {
		return "Analysis"
	}
	return strings.ToUpper(category[:1]) + category[1:]
}

// readTranscript pulls the uploaded transcript out of a multipart
// request, unwrapping zip exports. The returned name is the flat .txt
// filename the artifact name derives from.
func readTranscript(r *http.Request) (string, []byte, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("no file uploaded")
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if name == "" || name == "." {
		return "", nil, fmt.Errorf("no file selected")
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".txt" && ext != ".zip" {
		return "", nil, fmt.Errorf("only .txt and .zip files are allowed")
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("reading upload: %w", err)
	}

	if ext == ".zip" {
		name, data, err = extractZipTranscript(data)
		if err != nil {
			return "", nil, err
		}
	}
	return name, data, nil
}

// extractZipTranscript returns the first .txt entry, skipping macOS
// resource-fork entries.
func extractZipTranscript(data []byte) (string, []byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, fmt.Errorf("invalid ZIP file")
	}

	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "__MACOSX") {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(f.Name), ".txt") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", nil, fmt.Errorf("reading ZIP entry %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(io.LimitReader(rc, maxUploadBytes))
		rc.Close()
		if err != nil {
			return "", nil, fmt.Errorf("reading ZIP entry %s: %w", f.Name, err)
		}
		return filepath.Base(f.Name), content, nil
	}
	return "", nil, fmt.Errorf("no .txt file found in the ZIP archive")
}

// daysWindow reads the days_back field. A missing field falls back to
// the configured default; a blank or unparseable value disables the
// filter, so junk input processes the whole transcript instead of
// failing the upload.
func daysWindow(r *http.Request, fallback int) int {
	if r.MultipartForm == nil {
		return fallback
	}
	values := r.MultipartForm.Value["days_back"]
	if len(values) == 0 {
		return fallback
	}
	raw := strings.TrimSpace(values[0])
	if raw == "" {
		return 0
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("WARN: bad days_back %q, processing all messages", raw)
		return 0
	}
	return days
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// sanitizeName reduces an uploaded filename to a safe flat name that
// survives the download route's traversal checks.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = unsafeNameChars.ReplaceAllString(name, "_")
	for strings.Contains(name, "..") {
		name = strings.ReplaceAll(name, "..", "_")
	}
	if name == "" || name == "." {
		name = "chat"
	}
	return name
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}
