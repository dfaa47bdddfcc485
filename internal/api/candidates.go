package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/SaganOrg/candidate-finder/internal/search"
	"github.com/SaganOrg/candidate-finder/internal/storage"
	"github.com/SaganOrg/candidate-finder/internal/storage/redis"
)

const filterOptionsCacheKey = "filter-options"
const filterOptionsTTL = 5 * time.Minute

type searchResponse struct {
	Candidates []storage.Candidate `json:"candidates"`
	TotalCount int                 `json:"totalCount"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	Error      string              `json:"error,omitempty"`
}

// SearchHandler lists candidates
// @Summary Search candidates
// @Description Ranked search when q is present, recency browse otherwise
// @Tags candidates
// @Produce json
// @Param search query string false "Free-text query, comma-separated keywords"
// @Param country query string false "Country filter"
// @Param status query string false "Availability status filter"
// @Param job_roles query string false "Job roles filter"
// @Param accent query string false "English accent filter"
// @Param industry query string false "Industry filter"
// @Param has_resume query bool false "Only candidates with a resume"
// @Param page query int false "1-based page"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} searchResponse
// @Failure 500 {object} searchResponse
// @Router /candidates [get]
func (a *API) SearchHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	// The dashboard sends snake_case names; the camelCase forms stay
	// accepted for older clients.
	param := func(names ...string) string {
		for _, n := range names {
			if v := params.Get(n); v != "" {
				return v
			}
		}
		return ""
	}

	page, _ := strconv.Atoi(params.Get("page"))
	pageSize, _ := strconv.Atoi(param("page_size", "pageSize"))

	result, err := a.engine.Search(r.Context(), &search.Query{
		Text:      param("search", "q"),
		Country:   params.Get("country"),
		Status:    params.Get("status"),
		JobRoles:  param("job_roles", "jobRoles"),
		Accent:    params.Get("accent"),
		Industry:  params.Get("industry"),
		HasResume: param("has_resume", "hasResume") == "true",
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		a.logger.Error("search failed", zap.Error(err))
		// The dashboard renders whatever comes back, so a failed search
		// still carries the list shape it expects.
		a.respondJSON(w, http.StatusInternalServerError, searchResponse{
			Candidates: []storage.Candidate{},
			Error:      "search error",
		})
		return
	}

	a.respondJSON(w, http.StatusOK, searchResponse{
		Candidates: result.Candidates,
		TotalCount: result.TotalCount,
		Page:       result.Page,
		PageSize:   result.PageSize,
	})
}

// GetCandidateHandler returns one candidate
// @Summary Get a candidate
// @Tags candidates
// @Produce json
// @Param id path int true "Candidate ID"
// @Success 200 {object} storage.Candidate
// @Failure 404 {object} map[string]string
// @Router /candidates/{id} [get]
func (a *API) GetCandidateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	candidate, err := a.store.GetByID(r.Context(), id)
	if err != nil {
		a.storeError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, candidate)
}

// CreateCandidateHandler creates a manually entered candidate
// @Summary Create a candidate
// @Tags candidates
// @Accept json
// @Produce json
// @Param candidate body storage.Candidate true "Candidate"
// @Success 201 {object} storage.Candidate
// @Failure 400 {object} map[string]string
// @Router /candidates [post]
func (a *API) CreateCandidateHandler(w http.ResponseWriter, r *http.Request) {
	var c storage.Candidate
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		a.respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(storage.StrVal(c.Email)) == "" {
		a.respondError(w, http.StatusBadRequest, "email is required")
		return
	}
	if strings.TrimSpace(storage.StrVal(c.PersonsName)) == "" {
		a.respondError(w, http.StatusBadRequest, "persons_name is required")
		return
	}

	id, err := a.store.Create(r.Context(), &c)
	if err != nil {
		a.storeError(w, err)
		return
	}
	a.invalidateFilterOptions(r)

	created, err := a.store.GetByID(r.Context(), id)
	if err != nil {
		a.storeError(w, err)
		return
	}
	a.respondJSON(w, http.StatusCreated, created)
}

// UpdateCandidateHandler replaces a candidate's editable fields
// @Summary Update a candidate
// @Tags candidates
// @Accept json
// @Produce json
// @Param id path int true "Candidate ID"
// @Param candidate body storage.Candidate true "Candidate"
// @Success 200 {object} storage.Candidate
// @Failure 404 {object} map[string]string
// @Router /candidates/{id} [put]
func (a *API) UpdateCandidateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	var c storage.Candidate
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		a.respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := a.store.Update(r.Context(), id, &c); err != nil {
		a.storeError(w, err)
		return
	}
	a.invalidateFilterOptions(r)

	updated, err := a.store.GetByID(r.Context(), id)
	if err != nil {
		a.storeError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, updated)
}

// DeleteCandidateHandler removes a candidate
// @Summary Delete a candidate
// @Tags candidates
// @Param id path int true "Candidate ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /candidates/{id} [delete]
func (a *API) DeleteCandidateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	if err := a.store.Delete(r.Context(), id); err != nil {
		a.storeError(w, err)
		return
	}
	a.invalidateFilterOptions(r)
	w.WriteHeader(http.StatusNoContent)
}

// FilterOptionsHandler returns the distinct filter values
// @Summary Filter options
// @Description Distinct countries, statuses, accents and industries for the search filters
// @Tags candidates
// @Produce json
// @Success 200 {object} storage.FilterOptions
// @Router /filter-options [get]
func (a *API) FilterOptionsHandler(w http.ResponseWriter, r *http.Request) {
	var cached storage.FilterOptions
	if err := a.cache.Get(r.Context(), filterOptionsCacheKey, &cached); err == nil {
		a.respondJSON(w, http.StatusOK, &cached)
		return
	} else if !errors.Is(err, redis.ErrCacheMiss) {
		a.logger.Warn("filter options cache read failed", zap.Error(err))
	}

	options, err := a.store.FilterOptions(r.Context())
	if err != nil {
		a.storeError(w, err)
		return
	}
	if err := a.cache.Set(r.Context(), filterOptionsCacheKey, options, filterOptionsTTL); err != nil {
		a.logger.Warn("filter options cache write failed", zap.Error(err))
	}
	a.respondJSON(w, http.StatusOK, options)
}

type toggleHiredRequest struct {
	CandidateID int64  `json:"candidateId"`
	IsHired     bool   `json:"isHired"`
	UpdatedBy   string `json:"updatedBy"`
}

type toggleBlacklistRequest struct {
	CandidateID   int64  `json:"candidateId"`
	IsBlacklisted bool   `json:"isBlacklisted"`
	UpdatedBy     string `json:"updatedBy"`
}

type toggleAvailabilityRequest struct {
	CandidateID     int64  `json:"candidateId"`
	CandidateStatus string `json:"candidateStatus"`
	UpdatedBy       string `json:"updatedBy"`
}

type toggleResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Data    *storage.Candidate `json:"data,omitempty"`
}

// ToggleHiredHandler sets or clears the hired flag
// @Summary Toggle hired
// @Description Hiring also clears the blacklist flag and sets status to Not Available
// @Tags status
// @Accept json
// @Produce json
// @Param request body toggleHiredRequest true "Toggle request"
// @Success 200 {object} toggleResponse
// @Failure 400 {object} map[string]string
// @Router /candidates/toggle-hired [post]
func (a *API) ToggleHiredHandler(w http.ResponseWriter, r *http.Request) {
	var req toggleHiredRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.CandidateID == 0 {
		a.respondError(w, http.StatusBadRequest, "candidateId is required")
		return
	}

	if err := a.store.MarkHired(r.Context(), req.CandidateID, req.IsHired, a.updatedBy(req.UpdatedBy)); err != nil {
		a.storeError(w, err)
		return
	}
	a.toggleResult(w, r, req.CandidateID, map[bool]string{true: "hired", false: "unhired"}[req.IsHired])
}

// ToggleBlacklistHandler sets or clears the blacklist flag
// @Summary Toggle blacklist
// @Description Blacklisting sets status to Not Available; hired candidates cannot be blacklisted
// @Tags status
// @Accept json
// @Produce json
// @Param request body toggleBlacklistRequest true "Toggle request"
// @Success 200 {object} toggleResponse
// @Failure 409 {object} map[string]string
// @Router /candidates/toggle-blacklist [post]
func (a *API) ToggleBlacklistHandler(w http.ResponseWriter, r *http.Request) {
	var req toggleBlacklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.CandidateID == 0 {
		a.respondError(w, http.StatusBadRequest, "candidateId is required")
		return
	}

	if err := a.store.SetBlacklist(r.Context(), req.CandidateID, req.IsBlacklisted, a.updatedBy(req.UpdatedBy)); err != nil {
		a.storeError(w, err)
		return
	}
	a.toggleResult(w, r, req.CandidateID, map[bool]string{true: "blacklisted", false: "removed from blacklist"}[req.IsBlacklisted])
}

// ToggleAvailabilityHandler changes the availability status
// @Summary Toggle availability
// @Description Rejected while the candidate is hired or blacklisted
// @Tags status
// @Accept json
// @Produce json
// @Param request body toggleAvailabilityRequest true "Toggle request"
// @Success 200 {object} toggleResponse
// @Failure 409 {object} map[string]string
// @Router /candidates/toggle-availability [post]
func (a *API) ToggleAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	var req toggleAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.CandidateID == 0 {
		a.respondError(w, http.StatusBadRequest, "candidateId is required")
		return
	}
	if req.CandidateStatus == "" {
		a.respondError(w, http.StatusBadRequest, "candidateStatus is required")
		return
	}

	if err := a.store.SetAvailability(r.Context(), req.CandidateID, req.CandidateStatus, a.updatedBy(req.UpdatedBy)); err != nil {
		if errors.Is(err, storage.ErrInvalidStatus) {
			a.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.storeError(w, err)
		return
	}
	a.toggleResult(w, r, req.CandidateID, "availability updated")
}

func (a *API) toggleResult(w http.ResponseWriter, r *http.Request, id int64, action string) {
	candidate, err := a.store.GetByID(r.Context(), id)
	if err != nil {
		a.storeError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, toggleResponse{
		Success: true,
		Message: "Candidate " + action + " successfully",
		Data:    candidate,
	})
}

func (a *API) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		a.respondError(w, http.StatusBadRequest, "invalid candidate id")
		return 0, false
	}
	return id, true
}

func (a *API) updatedBy(requested string) string {
	if requested != "" {
		return requested
	}
	return "admin"
}

func (a *API) invalidateFilterOptions(r *http.Request) {
	if err := a.cache.Delete(r.Context(), filterOptionsCacheKey); err != nil {
		a.logger.Warn("filter options cache invalidation failed", zap.Error(err))
	}
}
