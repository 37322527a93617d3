package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"biocat/internal/domain"
	"biocat/internal/infra/favorites"
	"biocat/internal/infra/index"
)

type toolListResponse struct {
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"pageSize"`
	Tools    []domain.ToolSummary `json:"tools"`
}

type favoriteResponse struct {
	ToolName string `json:"tool_name"`
	Favorite bool   `json:"favorite"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleListTools runs the search → filter → sort → paginate pipeline.
// Every parameter is reflected in the response, so a URL reproduces the
// same view.
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	filters, err := parseFilters(params)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sortKey, ok := domain.ParseSortKey(params.Get("sort"))
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("sort must be name, created or updated"))
		return
	}
	sortOrder, ok := domain.ParseSortOrder(params.Get("order"))
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("order must be asc or desc"))
		return
	}
	page, pageSize, err := s.parsePagination(params)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var isFavorite func(string) bool
	if filters.FavoritesOnly {
		if s.favorites == nil {
			writeError(w, http.StatusBadRequest, errors.New("favorites are not enabled"))
			return
		}
		snapshot, err := snapshotFavorites(s.favorites)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		isFavorite = snapshot
	}

	snapshot := s.provider.Current()
	start := time.Now()
	matches := index.Evaluate(snapshot.Tools(), params.Get("q"))
	matches = index.Filter(matches, filters, isFavorite)
	index.Sort(matches, sortKey, sortOrder)
	if s.metrics != nil {
		s.metrics.ObserveSearch(time.Since(start))
	}

	total := len(matches)
	pageMatches := paginate(matches, page, pageSize)
	tools := make([]domain.ToolSummary, 0, len(pageMatches))
	for _, match := range pageMatches {
		tools = append(tools, match.Tool)
	}

	writeJSON(w, http.StatusOK, toolListResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Tools:    tools,
	})
}

// handleGetTool serves the pre-rendered ToolPage document.
func (s *Server) handleGetTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		writeError(w, http.StatusBadRequest, errors.New("invalid tool name"))
		return
	}

	data, err := os.ReadFile(filepath.Join(s.pagesDir, name+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, errors.New("unknown tool"))
			return
		}
		s.logger.Error("read tool page", zap.String("tool", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, errors.New("read tool page"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleListLicenses(w http.ResponseWriter, r *http.Request) {
	licenses := s.provider.Current().Licenses()
	if licenses == nil {
		licenses = []string{}
	}
	writeJSON(w, http.StatusOK, licenses)
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	if s.favorites == nil {
		writeJSON(w, http.StatusOK, []string{})
		return
	}
	names, err := s.favorites.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if s.favorites == nil {
		writeError(w, http.StatusBadRequest, errors.New("favorites are not enabled"))
		return
	}
	favorite, err := s.favorites.Toggle(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.updateFavoritesGauge()
	writeJSON(w, http.StatusOK, favoriteResponse{ToolName: name, Favorite: favorite})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if s.favorites == nil {
		writeError(w, http.StatusBadRequest, errors.New("favorites are not enabled"))
		return
	}
	if err := s.favorites.Remove(name); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.updateFavoritesGauge()
	writeJSON(w, http.StatusOK, favoriteResponse{ToolName: name, Favorite: false})
}

func (s *Server) updateFavoritesGauge() {
	if s.metrics == nil {
		return
	}
	if names, err := s.favorites.List(); err == nil {
		s.metrics.SetFavoritesCount(len(names))
	}
}

func (s *Server) parsePagination(params map[string][]string) (int, int, error) {
	page, err := intParam(params, "page", 1)
	if err != nil || page < 1 {
		return 0, 0, errors.New("page must be a positive integer")
	}
	pageSize, err := intParam(params, "pageSize", s.pageSize)
	if err != nil || pageSize < 1 {
		return 0, 0, errors.New("pageSize must be a positive integer")
	}
	if pageSize > s.maxPage {
		pageSize = s.maxPage
	}
	return page, pageSize, nil
}

func parseFilters(params map[string][]string) (domain.Filters, error) {
	bioconda, err := boolParam(params, "bioconda")
	if err != nil {
		return domain.Filters{}, err
	}
	biocontainers, err := boolParam(params, "biocontainers")
	if err != nil {
		return domain.Filters{}, err
	}
	galaxy, err := boolParam(params, "galaxy")
	if err != nil {
		return domain.Filters{}, err
	}
	favoritesOnly, err := boolParam(params, "favorites")
	if err != nil {
		return domain.Filters{}, err
	}
	return domain.Filters{
		RequireBioconda:      bioconda,
		RequireBiocontainers: biocontainers,
		RequireGalaxy:        galaxy,
		License:              first(params, "license"),
		FavoritesOnly:        favoritesOnly,
	}, nil
}

func paginate(matches []index.Match, page, pageSize int) []index.Match {
	// Compared as a division so a huge page value cannot overflow the
	// start index.
	if pageSize < 1 || page-1 > len(matches)/pageSize {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(matches) {
		return nil
	}
	end := start + pageSize
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end]
}

func snapshotFavorites(set favorites.Set) (func(string) bool, error) {
	names, err := set.List()
	if err != nil {
		return nil, err
	}
	members := make(map[string]struct{}, len(names))
	for _, name := range names {
		members[name] = struct{}{}
	}
	return func(name string) bool {
		_, ok := members[name]
		return ok
	}, nil
}

func first(params map[string][]string, key string) string {
	values := params[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func boolParam(params map[string][]string, key string) (bool, error) {
	raw := first(params, key)
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.New(key + " must be a boolean")
	}
	return value, nil
}

func intParam(params map[string][]string, key string, fallback int) (int, error) {
	raw := first(params, key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
