// Package server exposes the cratewise HTTP API.
package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cratewise/cratewise/pkg/models"
)

// writeJSON writes a JSON response with proper error handling.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// userIDParam parses the {userID} route parameter.
func userIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return uuid.Nil, false
	}
	return userID, true
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"rate_limit": s.limiter.Stats(),
	})
}

// handleGetRecommendations serves the grouped recommendation view.
func (s *Service) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	groups, err := s.recommender.Grouped(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user", userID.String()).Msg("recommendation read failed")
		writeError(w, http.StatusInternalServerError, "failed to load recommendations")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}

// handleRefresh starts (or joins) a background regeneration.
func (s *Service) handleRefresh(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	job := s.recommender.Refresh(userID)
	writeJSON(w, http.StatusAccepted, job)
}

// handleRefreshStatus reports the user's latest refresh job.
func (s *Service) handleRefreshStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	job, ok := s.recommender.Status(userID)
	if !ok {
		writeError(w, http.StatusNotFound, "no refresh recorded for user")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Service) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	entries, err := s.catalog.UserCatalog(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user", userID.String()).Msg("catalog read failed")
		writeError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}
	if entries == nil {
		entries = []models.CatalogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// handlePutCatalog replaces the user's catalog wholesale.
func (s *Service) handlePutCatalog(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var payload struct {
		Entries []models.CatalogEntry `json:"entries"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxCatalogBody)
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid catalog payload")
		return
	}
	if err := validateCatalog(payload.Entries); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.catalog.ReplaceCatalog(r.Context(), userID, payload.Entries); err != nil {
		log.Error().Err(err).Str("user", userID.String()).Msg("catalog replace failed")
		writeError(w, http.StatusInternalServerError, "failed to store catalog")
		return
	}

	log.Info().Str("user", userID.String()).Int("entries", len(payload.Entries)).Msg("catalog replaced")
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": len(payload.Entries)})
}

func validateCatalog(entries []models.CatalogEntry) error {
	seen := make(map[int64]struct{}, len(entries))
	for i, entry := range entries {
		if entry.AlbumID <= 0 {
			return fmt.Errorf("entry %d: album_id is required", i)
		}
		if entry.Title == "" || entry.Artist == "" {
			return fmt.Errorf("entry %d: title and artist are required", i)
		}
		switch entry.Status {
		case models.StatusOwned, models.StatusWanted, models.StatusListened:
		default:
			return fmt.Errorf("entry %d: unknown status %q", i, entry.Status)
		}
		if entry.Rating < 0 || entry.Rating > 10 {
			return fmt.Errorf("entry %d: rating must be 0-10", i)
		}
		if _, dup := seen[entry.AlbumID]; dup {
			return fmt.Errorf("entry %d: duplicate album_id %d", i, entry.AlbumID)
		}
		seen[entry.AlbumID] = struct{}{}
	}
	return nil
}
