package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/umputun/espiscope/pkg/domain"
)

type trackRequest struct {
	Query string `json:"query"`
}

// companyResponse adds id to company, stored records keep it as a map key only
type companyResponse struct {
	ID string `json:"id"`
	domain.Company
}

func toResponse(c domain.Company) companyResponse { return companyResponse{ID: c.ID, Company: c} }

// listHandler returns tracked companies in tracking order
func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	list, err := s.service.List(r.Context())
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	res := make([]companyResponse, 0, len(list))
	for _, c := range list {
		res = append(res, toResponse(c))
	}
	renderJSON(w, r, http.StatusOK, res)
}

func (s *Server) trackHandler(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		renderError(w, r, fmt.Errorf("query is required"), http.StatusBadRequest)
		return
	}

	c, err := s.service.Track(r.Context(), req.Query)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	log.Printf("[INFO] tracking %s", c.Label())
	renderJSON(w, r, http.StatusCreated, toResponse(c))
}

func (s *Server) untrackHandler(w http.ResponseWriter, r *http.Request) {
	c, err := s.service.Untrack(r.Context(), r.PathValue("query"))
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	log.Printf("[INFO] stopped tracking %s", c.Label())
	renderJSON(w, r, http.StatusOK, toResponse(c))
}

func (s *Server) resolveHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.Resolve(r.Context(), r.PathValue("query"))
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, res)
}

// checkHandler runs a poll cycle right away and returns its summary
func (s *Server) checkHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := s.scheduler.CheckNow(r.Context())
	if err != nil {
		renderError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	renderJSON(w, r, http.StatusOK, summary)
}

// statusHandler returns server status with the last poll cycle
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	last, runs := s.scheduler.LastRun()
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
		"cycles":  runs,
	}
	if runs > 0 {
		status["last_cycle"] = last
	}
	renderJSON(w, r, http.StatusOK, status)
}

// renderServiceError maps command errors to status codes and user-facing messages
func renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := userError(err)
	if code == http.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", r.Method, r.URL.Path, err)
	}
	renderJSON(w, r, code, map[string]string{"error": msg})
}

func userError(err error) (code int, msg string) {
	var ambiguous *domain.AmbiguousError
	switch {
	case errors.As(err, &ambiguous):
		return http.StatusConflict, fmt.Sprintf("Ambiguous company name. Did you mean: %s?", strings.Join(ambiguous.Candidates, ", "))
	case errors.Is(err, domain.ErrUnrecognized):
		return http.StatusNotFound, "Unrecognized company identifier."
	case errors.Is(err, domain.ErrNotTracked):
		return http.StatusNotFound, "This company is not being tracked."
	case errors.Is(err, domain.ErrAlreadyTracked):
		return http.StatusConflict, "This company is already being tracked."
	case errors.Is(err, domain.ErrFetchFailed):
		return http.StatusBadGateway, "Can't fetch announcements for this company, try again later."
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
