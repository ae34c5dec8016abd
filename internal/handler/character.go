package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/osgood/armorytrack/internal/domain"
	"github.com/osgood/armorytrack/internal/logger"
	"github.com/osgood/armorytrack/internal/repository"
)

const (
	defaultProgressDays = 7
	maxProgressDays     = 90
)

// characterFromRequest resolves the {key} URL parameter to a stored character
func characterFromRequest(r *http.Request, characters repository.Character) (*domain.Character, error) {
	raw := chi.URLParam(r, "key")
	key, err := url.PathUnescape(raw)
	if err != nil {
		key = raw
	}

	if _, _, _, err := domain.ParseCharacterKey(key); err != nil {
		return nil, err
	}

	character, err := characters.GetByKey(r.Context(), strings.ToLower(key))
	if err != nil {
		return nil, err
	}
	if character == nil {
		return nil, domain.ErrCharacterNotFound
	}
	return character, nil
}

// HandleListCharacters returns all tracked characters
func HandleListCharacters(characters repository.Character) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := characters.List(r.Context())
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to list characters", "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		if list == nil {
			list = []domain.Character{}
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: list})
	}
}

// HandleGetProgress returns a character's daily progress records for the last
// N days (days query parameter, default 7)
func HandleGetProgress(characters repository.Character, progress repository.Progress) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		character, err := characterFromRequest(r, characters)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		days := defaultProgressDays
		if raw := r.URL.Query().Get("days"); raw != "" {
			days, err = strconv.Atoi(raw)
			if err != nil || days < 1 {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidRangeError)
				return
			}
			if days > maxProgressDays {
				days = maxProgressDays
			}
		}

		to := domain.Day(time.Now().UTC())
		from := to.AddDate(0, 0, -(days - 1))

		records, err := progress.GetRecordsInRange(r.Context(), character.ID, from, to)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to read progress records",
				"character", character.Key, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		if records == nil {
			records = []domain.ProgressRecord{}
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: records})
	}
}

// HandleGetGear returns a character's per-slot gear records for one day (day
// query parameter as YYYY-MM-DD, default today)
func HandleGetGear(characters repository.Character, gear repository.Gear) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		character, err := characterFromRequest(r, characters)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		day := domain.Day(time.Now().UTC())
		if raw := r.URL.Query().Get("day"); raw != "" {
			day, err = time.Parse(time.DateOnly, raw)
			if err != nil {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidDayError)
				return
			}
		}

		records, err := gear.GetRecordsForDay(r.Context(), character.ID, day)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to read gear records",
				"character", character.Key, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}
		if records == nil {
			records = []domain.GearRecord{}
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: records})
	}
}
