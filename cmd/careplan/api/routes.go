// Package api exposes the merge and render operations over HTTP. The
// routes mirror the UI contract: candidate lookup for disambiguation,
// then one endpoint per document type streaming back a .docx attachment.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/serrano-advisors/careplan/audit"
	"github.com/serrano-advisors/careplan/canonical"
	"github.com/serrano-advisors/careplan/merge"
	"github.com/serrano-advisors/careplan/render"
	"github.com/serrano-advisors/careplan/util"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type Router struct {
	svc       *merge.Service
	renderer  *render.Renderer
	store     *audit.Store
	db        *sqlx.DB
	outputDir string
	log       zerolog.Logger
}

func NewRouter(
	svc *merge.Service,
	renderer *render.Renderer,
	store *audit.Store,
	db *sqlx.DB,
	outputDir string,
	log zerolog.Logger,
) *Router {
	return &Router{
		svc:       svc,
		renderer:  renderer,
		store:     store,
		db:        db,
		outputDir: outputDir,
		log:       log,
	}
}

func (rt *Router) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", rt.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/get_candidates_by_name", rt.handleCandidates).Methods(http.MethodPost)
	r.HandleFunc("/generate_reentry_care_plan", rt.handleCarePlan).Methods(http.MethodPost)
	r.HandleFunc("/generate_data_validation_report", rt.handleValidation).Methods(http.MethodPost)
	return cors(r)
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "not configured"
	if rt.db != nil {
		dbStatus = "ok"
		if err := rt.db.PingContext(r.Context()); err != nil {
			dbStatus = err.Error()
		}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"message":  "Backend is running",
		"database": dbStatus,
		"time":     time.Now().Format(time.RFC3339),
	})
}

type candidateProfile struct {
	Name        string `json:"name"`
	MedicalID   string `json:"medical_id"`
	DisplayText string `json:"display_text"`
}

func (rt *Router) handleCandidates(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CandidateName string `json:"candidate_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.CandidateName)
	if name == "" {
		respondError(w, http.StatusBadRequest, "Candidate name is required")
		return
	}

	candidates := rt.svc.ResolveCandidates(r.Context(), name)

	profiles := make([]candidateProfile, 0, len(candidates))
	for _, c := range candidates {
		profiles = append(profiles, rt.buildProfile(r, c))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"candidates": profiles,
		"count":      len(profiles),
	})
}

// buildProfile enriches a candidate with address and telephone from that
// person's merged view so the UI can show a distinguishing one-liner. An
// enrichment failure degrades to "N/A" values, never to a request error.
func (rt *Router) buildProfile(r *http.Request, c merge.Candidate) candidateProfile {
	address, telephone := "N/A", "N/A"

	personText := fmt.Sprintf("%s (Medical ID: %s)", c.Name, c.MedicalID)
	view, err := rt.svc.BuildView(r.Context(), personText)
	if err != nil {
		rt.log.Warn().Err(err).
			Str("medical_id", c.MedicalID).
			Msg("Failed to enrich candidate profile")
	} else {
		if s := strings.TrimSpace(util.ValueString(view.Merged[canonical.FieldAddress])); s != "" {
			address = s
		}
		if s := strings.TrimSpace(util.ValueString(view.Merged[canonical.FieldTelephone])); s != "" {
			telephone = s
		}
	}

	return candidateProfile{
		Name:      c.Name,
		MedicalID: c.MedicalID,
		DisplayText: fmt.Sprintf("%s (Medical ID: %s) - Residential Address: %s - Telephone Number: %s",
			c.Name, c.MedicalID, address, telephone),
	}
}

func (rt *Router) handleCarePlan(w http.ResponseWriter, r *http.Request) {
	rt.handleGenerate(w, r, audit.DocCarePlan)
}

func (rt *Router) handleValidation(w http.ResponseWriter, r *http.Request) {
	rt.handleGenerate(w, r, audit.DocValidation)
}

func (rt *Router) handleGenerate(w http.ResponseWriter, r *http.Request, kind string) {
	var req struct {
		CandidateName  string   `json:"candidate_name"`
		SelectedFields []string `json:"selected_fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.CandidateName) == "" {
		respondError(w, http.StatusBadRequest, "Candidate name is required")
		return
	}
	if len(req.SelectedFields) == 0 {
		respondError(w, http.StatusBadRequest, "At least one field must be selected")
		return
	}

	name, medicalID := merge.ParsePersonText(req.CandidateName)

	view, err := rt.svc.BuildView(r.Context(), req.CandidateName)
	if err != nil {
		rt.fail(w, kind, name, medicalID, "Failed to retrieve records", err)
		return
	}

	var data []byte
	var outputName, suffix string
	switch kind {
	case audit.DocValidation:
		// selected_fields is accepted but the report is exhaustive
		data, err = rt.renderer.ValidationReport(view)
		outputName, suffix = "validation_output.docx", "data_validation_report"
	default:
		data, err = rt.renderer.CarePlan(view, req.SelectedFields)
		outputName, suffix = "reentry_output.docx", "reentry_care_plan"
	}
	if err != nil {
		rt.fail(w, kind, name, medicalID, "Failed to generate document", err)
		return
	}

	rt.persistArtifact(outputName, data)
	rt.store.Record(audit.RenderLog{
		PersonName: name,
		MedicalID:  medicalID,
		Document:   kind,
		Status:     audit.StatusSuccess,
	})

	filename := fmt.Sprintf("%s_%s.docx", req.CandidateName, suffix)
	w.Header().Set("Content-Type", docxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (rt *Router) fail(w http.ResponseWriter, kind, name, medicalID, msg string, err error) {
	rt.log.Error().Err(err).
		Str("person", name).
		Str("document", kind).
		Msg(msg)
	rt.store.Record(audit.RenderLog{
		PersonName: name,
		MedicalID:  medicalID,
		Document:   kind,
		Status:     audit.StatusFailed,
		Error:      err.Error(),
	})
	respondError(w, http.StatusInternalServerError, msg)
}

// persistArtifact mirrors the rendered bytes to a fixed path on disk.
// This is a caller-visible side effect, not part of the response path, so
// a write failure is only logged.
func (rt *Router) persistArtifact(name string, data []byte) {
	if rt.outputDir == "" {
		return
	}
	path := filepath.Join(rt.outputDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		rt.log.Warn().Err(err).Str("path", path).Msg("Failed to persist document artifact")
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
