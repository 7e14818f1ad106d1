package digest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SubscriberRepository es el contrato de alta de suscriptores desde la
// app web.
type SubscriberRepository interface {
	AddSubscriber(ctx context.Context, email string) error
}

func RegisterRoutes(r chi.Router, repo SubscriberRepository) {
	r.Post("/subscriptions", subscribeHandler(repo))
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func subscribeHandler(repo SubscriberRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req subscribeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		email := SanitizeEmail(req.Email)
		if email == "" {
			http.Error(w, "invalid email address", http.StatusBadRequest)
			return
		}

		if err := repo.AddSubscriber(r.Context(), email); err != nil {
			http.Error(w, "could not subscribe", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"email": email})
	}
}
