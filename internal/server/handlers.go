package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jmales/channelvault/internal/cache"
	"github.com/jmales/channelvault/internal/models"
	"github.com/jmales/channelvault/internal/service"
	"github.com/jmales/channelvault/internal/store"
	"github.com/jmales/channelvault/internal/validate"
)

// listResponse is the envelope for all paged list endpoints. Total counts
// the rows matching the filter before limit/offset.
type listResponse struct {
	Data  any `json:"data"`
	Total int `json:"total"`
}

// parseStreamFilter reads the shared list query parameters.
func parseStreamFilter(r *http.Request) (store.StreamFilter, error) {
	q := r.URL.Query()
	f := store.StreamFilter{
		SortBy:  q.Get("sortBy"),
		SortDir: q.Get("sortDir"),
	}

	if v := q.Get("groupTitleId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, fmt.Errorf("invalid groupTitleId: %s", v)
		}
		f.GroupTitleID = &id
	}
	if v := q.Get("active"); v != "" {
		b, err := parseBoolParam("active", v)
		if err != nil {
			return f, err
		}
		f.Active = &b
	}
	if v := q.Get("favourite"); v != "" {
		b, err := parseBoolParam("favourite", v)
		if err != nil {
			return f, err
		}
		f.Favourite = &b
	}
	if v := q.Get("countries"); v != "" {
		f.Countries = strings.Split(v, ",")
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("invalid limit: %s", v)
		}
		f.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("invalid offset: %s", v)
		}
		f.Offset = n
	}
	return f, nil
}

func parseBoolParam(name, v string) (bool, error) {
	switch v {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid %s: %s (use true or false)", name, v)
}

// --- channel handlers ---

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	f, err := parseStreamFilter(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	rows, total, err := s.store.ListChannels(r.Context(), f)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if rows == nil {
		rows = []models.Channel{}
	}
	writeJSON(w, http.StatusOK, listResponse{Data: rows, Total: total})
}

func (s *Server) handleGetChannel(w http.ResponseWriter, r *http.Request) {
	ch, err := s.store.GetChannel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) handleCreateChannel(w http.ResponseWriter, r *http.Request) {
	var in service.ChannelInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	if errs := validate.Channel(in); errs.Any() {
		writeFieldErrs(w, errs)
		return
	}
	ch, err := s.svc.CreateChannel(r.Context(), in)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, ch)
}

func (s *Server) handleUpdateChannel(w http.ResponseWriter, r *http.Request) {
	var in service.ChannelInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	if errs := validate.Channel(in); errs.Any() {
		writeFieldErrs(w, errs)
		return
	}
	ch, err := s.svc.UpdateChannel(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

// --- movie handlers ---

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	f, err := parseStreamFilter(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	rows, total, err := s.store.ListMovies(r.Context(), f)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if rows == nil {
		rows = []models.Media{}
	}
	writeJSON(w, http.StatusOK, listResponse{Data: rows, Total: total})
}

func (s *Server) handleGetMedia(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.GetMedia(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var in service.MediaInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	if errs := validate.Media(in); errs.Any() {
		writeFieldErrs(w, errs)
		return
	}
	m, err := s.svc.CreateMovie(r.Context(), in)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleUpdateMedia(w http.ResponseWriter, r *http.Request) {
	var in service.MediaInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	if errs := validate.Media(in); errs.Any() {
		writeFieldErrs(w, errs)
		return
	}
	m, err := s.svc.UpdateMedia(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// --- series handlers ---

func (s *Server) handleListSeries(w http.ResponseWriter, r *http.Request) {
	f, err := parseStreamFilter(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	rows, total, err := s.store.ListSeries(r.Context(), f)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if rows == nil {
		rows = []models.Series{}
	}
	writeJSON(w, http.StatusOK, listResponse{Data: rows, Total: total})
}

// seriesResponse bundles a series row with its episodes.
type seriesResponse struct {
	*models.Series
	Episodes []models.Media `json:"episodes"`
}

func (s *Server) handleGetSeries(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sr, err := s.store.GetSeries(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	eps, err := s.store.ListEpisodes(r.Context(), id)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if eps == nil {
		eps = []models.Media{}
	}
	writeJSON(w, http.StatusOK, seriesResponse{Series: sr, Episodes: eps})
}

func (s *Server) handleCreateSeries(w http.ResponseWriter, r *http.Request) {
	var in service.SeriesInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	if errs := validate.Series(in, nil); errs.Any() {
		writeFieldErrs(w, errs)
		return
	}
	sr, err := s.svc.CreateSeries(r.Context(), in)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, sr)
}

// seriesUpdateRequest carries the series edit form plus the full
// replacement episode list. A null episodes field leaves the episode set
// alone.
type seriesUpdateRequest struct {
	service.SeriesInput
	Episodes *[]service.EpisodeInput `json:"episodes"`
}

func (s *Server) handleUpdateSeries(w http.ResponseWriter, r *http.Request) {
	var req seriesUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	var episodes []service.EpisodeInput
	if req.Episodes != nil {
		episodes = *req.Episodes
	}
	if errs := validate.Series(req.SeriesInput, episodes); errs.Any() {
		writeFieldErrs(w, errs)
		return
	}

	id := chi.URLParam(r, "id")
	sr, err := s.svc.UpdateSeries(r.Context(), id, req.SeriesInput)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	if req.Episodes != nil {
		count, err := s.svc.ReplaceEpisodes(r.Context(), id, episodes)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		sr.EpisodeCount = count
	}

	eps, err := s.svc.ListEpisodes(r.Context(), id)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if eps == nil {
		eps = []models.Media{}
	}
	writeJSON(w, http.StatusOK, seriesResponse{Series: sr, Episodes: eps})
}

func (s *Server) handleSetSeriesActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	err := s.svc.SetSeriesActive(r.Context(), chi.URLParam(r, "id"), req.Active)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"active": req.Active})
}

func (s *Server) handleListEpisodes(w http.ResponseWriter, r *http.Request) {
	eps, err := s.svc.ListEpisodes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if eps == nil {
		eps = []models.Media{}
	}
	writeJSON(w, http.StatusOK, eps)
}

// --- shared stream handlers ---

// handleToggleActive flips the active flag on one row of kind. The series
// route has its own cascading handler.
func (s *Server) handleToggleActive(kind models.StreamKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Active bool `json:"active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
			return
		}
		err := s.svc.ToggleActive(r.Context(), kind, chi.URLParam(r, "id"), req.Active)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeErr(w, http.StatusNotFound, err)
				return
			}
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"active": req.Active})
	}
}

// --- lookup handlers ---

func (s *Server) handleListGroupTitles(w http.ResponseWriter, r *http.Request) {
	kind := models.StreamKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = models.KindChannels
	}
	gts, err := s.svc.ListGroupTitles(r.Context(), kind)
	if err != nil {
		if errors.Is(err, service.ErrInvalidKind) {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if gts == nil {
		gts = []models.GroupTitle{}
	}
	writeJSON(w, http.StatusOK, gts)
}

func (s *Server) handleListCountryCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := s.svc.ListCountryCodes(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if codes == nil {
		codes = []string{}
	}
	writeJSON(w, http.StatusOK, codes)
}

// --- export handlers ---

func (s *Server) handleExportM3U(kind models.StreamKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := s.svc.ExportM3U(r.Context(), kind)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "audio/x-mpegurl")
		w.Header().Set("X-Entry-Count", strconv.Itoa(out.Count))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(out.M3U))
	}
}

func (s *Server) handleExportScript(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.ExportScript(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// --- sync handlers ---

// syncLockTTL bounds how long a crashed sync can keep the lock.
const syncLockTTL = 2 * time.Minute

func (s *Server) handleSyncKodi(w http.ResponseWriter, r *http.Request) {
	if s.kodi == nil {
		writeErr(w, http.StatusServiceUnavailable, errors.New("kodi is not configured"))
		return
	}

	if s.cache != nil {
		unlock, err := cache.TryLock(r.Context(), s.cache, "sync:kodi", syncLockTTL)
		if err != nil {
			if errors.Is(err, cache.ErrLocked) {
				writeErr(w, http.StatusConflict, errors.New("a sync is already running"))
				return
			}
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		defer unlock()
	}

	res, err := s.svc.SyncKodiChannelIDs(r.Context(), s.kodi)
	if err != nil {
		writeErr(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
