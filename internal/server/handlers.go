package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"levelup/internal/engine"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]string{"error": code, "message": message})
}

// respondDomainError maps engine sentinels onto HTTP statuses.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, engine.ErrClaimInFlight):
		respondError(w, http.StatusConflict, "claim_in_flight", err.Error())
	case errors.Is(err, engine.ErrNoPendingReward),
		errors.Is(err, engine.ErrAutoStatRequired),
		errors.Is(err, engine.ErrAutoStatApplied),
		errors.Is(err, engine.ErrStatNotAllowed),
		errors.Is(err, engine.ErrUnknownReward),
		errors.Is(err, engine.ErrInsufficientMedals),
		errors.Is(err, engine.ErrOutOfStock),
		errors.Is(err, engine.ErrAlreadyClaimed),
		errors.Is(err, engine.ErrEventLocked),
		errors.Is(err, engine.ErrNotEligible):
		respondError(w, http.StatusUnprocessableEntity, "rule_violation", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "source": s.app.Source})
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	body, err := s.app.DataJSON()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "cannot read body")
		return
	}
	if err := s.app.ImportDocument(r.Context(), raw); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	body, filename, err := s.app.ExportJSON(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

type eventView struct {
	ID       string            `json:"id"`
	Kind     engine.EventKind  `json:"kind"`
	Title    string            `json:"title"`
	Unlocked bool              `json:"unlocked"`
	Unlock   *engine.EventRule `json:"unlock,omitempty"`
	Eligible *bool             `json:"eligible,omitempty"`
	Defeated *bool             `json:"defeated,omitempty"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	heroID := r.URL.Query().Get("hero")

	var views []eventView
	var heroErr error
	s.app.View(func(doc *engine.Document, eng *engine.Engine) {
		var hero *engine.Hero
		if heroID != "" {
			hero, heroErr = doc.Hero(heroID)
			if heroErr != nil {
				return
			}
		}
		for _, ev := range doc.Events {
			v := eventView{
				ID:       ev.ID,
				Kind:     ev.Kind,
				Title:    ev.Title,
				Unlocked: eng.IsUnlocked(ev),
				Unlock:   ev.Unlock,
			}
			if hero != nil {
				eligible := eng.IsEligible(hero, ev)
				v.Eligible = &eligible
				defeated := false
				for _, id := range hero.DefeatedBosses {
					if id == ev.ID {
						defeated = true
						break
					}
				}
				v.Defeated = &defeated
			}
			views = append(views, v)
		}
	})
	if heroErr != nil {
		respondDomainError(w, heroErr)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"events": views})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	res, err := s.app.ToggleChallenge(r.Context(), chi.URLParam(r, "heroID"), chi.URLParam(r, "challengeID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"completed":   res.Completed,
		"awarded":     res.Awarded,
		"levelBefore": res.LevelBefore,
		"levelAfter":  res.LevelAfter,
	})
}

func (s *Server) handleAutoStat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Stat string `json:"stat"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	stat, ok := engine.ParseStatKey(req.Stat)
	if !ok {
		respondError(w, http.StatusBadRequest, "validation_error", "stat must be one of INT, SAB, CAR, RES, CRE")
		return
	}
	if err := s.app.ApplyAutoStat(r.Context(), chi.URLParam(r, "heroID"), stat); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "applied", "stat": string(stat)})
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RewardID string `json:"rewardId"`
		Stat     string `json:"stat"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.RewardID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "rewardId is required")
		return
	}
	var extraStat *engine.StatKey
	if req.Stat != "" {
		stat, ok := engine.ParseStatKey(req.Stat)
		if !ok {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid stat")
			return
		}
		extraStat = &stat
	}
	entry, err := s.app.ClaimReward(r.Context(), chi.URLParam(r, "heroID"), req.RewardID, extraStat)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (s *Server) handleWeekXP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "amount must be positive")
		return
	}
	granted, err := s.app.GrantWeekXP(r.Context(), chi.URLParam(r, "heroID"), req.Amount)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"granted": granted})
}

func (s *Server) handleDefeat(w http.ResponseWriter, r *http.Request) {
	if err := s.app.MarkBossDefeated(r.Context(), chi.URLParam(r, "heroID"), chi.URLParam(r, "eventID")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "defeated"})
}

func (s *Server) handleStoreClaim(w http.ResponseWriter, r *http.Request) {
	claim, err := s.app.ClaimStoreItem(r.Context(), chi.URLParam(r, "heroID"), chi.URLParam(r, "itemID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, claim)
}
