package swipes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-adoption-radar/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/swipes", recordSwipeHandler(svc))
	r.Get("/likes", listLikesHandler(svc))
}

type recordSwipeRequest struct {
	PetID     int    `json:"pet_id"`
	Species   string `json:"species"`
	Direction string `json:"direction"`
	Source    string `json:"source"`
}

type swipeResponse struct {
	PetID     int       `json:"pet_id"`
	Species   string    `json:"species"`
	Direction string    `json:"direction"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type likeResponse struct {
	PetID     int       `json:"pet_id"`
	Species   string    `json:"species"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type likesResponse struct {
	Items []likeResponse `json:"items"`
	Total int            `json:"total"`
}

func recordSwipeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerKey, ok := middleware.GetViewerKey(r.Context())
		if !ok {
			http.Error(w, "missing viewer key", http.StatusUnauthorized)
			return
		}

		var req recordSwipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sw, err := svc.Record(r.Context(), Swipe{
			ViewerKey: viewerKey,
			PetID:     req.PetID,
			Species:   req.Species,
			Direction: Direction(req.Direction),
			Source:    req.Source,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "could not record swipe", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, swipeResponse{
			PetID:     sw.PetID,
			Species:   sw.Species,
			Direction: string(sw.Direction),
			Source:    sw.Source,
			CreatedAt: sw.CreatedAt,
		})
	}
}

func listLikesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerKey, ok := middleware.GetViewerKey(r.Context())
		if !ok {
			http.Error(w, "missing viewer key", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))

		likes, total, err := svc.Likes(r.Context(), viewerKey, limit, offset)
		if err != nil {
			http.Error(w, "could not load likes", http.StatusInternalServerError)
			return
		}

		out := likesResponse{Items: make([]likeResponse, 0, len(likes)), Total: total}
		for _, like := range likes {
			out.Items = append(out.Items, likeResponse{
				PetID:     like.PetID,
				Species:   like.Species,
				Source:    like.Source,
				CreatedAt: like.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
