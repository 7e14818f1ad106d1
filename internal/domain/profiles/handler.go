package profiles

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-adoption-radar/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/feed", func(fr chi.Router) {
		fr.Get("/", feedHandler(svc))
		fr.Get("/count", feedCountHandler(svc))
	})
}

type feedItemResponse struct {
	PetID        int                    `json:"pet_id"`
	Species      string                 `json:"species"`
	URL          string                 `json:"url"`
	Name         string                 `json:"name,omitempty"`
	Breed        string                 `json:"breed,omitempty"`
	Gender       string                 `json:"gender,omitempty"`
	AgeRaw       string                 `json:"age_raw,omitempty"`
	AgeMonths    *float64               `json:"age_months"`
	WeightLbs    *float64               `json:"weight_lbs,omitempty"`
	Location     string                 `json:"location,omitempty"`
	Status       string                 `json:"status,omitempty"`
	Ratings      map[RatingCategory]int `json:"ratings"`
	Description  string                 `json:"description,omitempty"`
	Media        Media                  `json:"media"`
	PrimaryImage string                 `json:"primary_image,omitempty"`
	Source       string                 `json:"source"`
	ScrapedAt    time.Time              `json:"scraped_at"`
}

type feedResponse struct {
	Items  []feedItemResponse `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

func feedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := filterFromQuery(r)

		items, err := svc.Feed(r.Context(), f)
		if err != nil {
			http.Error(w, "could not load feed", http.StatusInternalServerError)
			return
		}
		total, err := svc.CountFeed(r.Context(), f)
		if err != nil {
			http.Error(w, "could not load feed", http.StatusInternalServerError)
			return
		}

		out := feedResponse{
			Items:  make([]feedItemResponse, 0, len(items)),
			Total:  total,
			Limit:  f.Limit,
			Offset: f.Offset,
		}
		for _, item := range items {
			out.Items = append(out.Items, toFeedItemResponse(item))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func feedCountHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, err := svc.CountFeed(r.Context(), filterFromQuery(r))
		if err != nil {
			http.Error(w, "could not count feed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"total": total})
	}
}

func filterFromQuery(r *http.Request) FeedFilter {
	q := r.URL.Query()

	f := FeedFilter{
		Breed:      q.Get("breed"),
		Name:       q.Get("name"),
		Provider:   q.Get("provider"),
		Species:    q.Get("species"),
		Randomize:  q.Get("random") == "true" || q.Get("random") == "1",
		UnseenOnly: q.Get("unseen_only") == "true" || q.Get("unseen_only") == "1",
		PassedOnly: q.Get("passed_only") == "true" || q.Get("passed_only") == "1",
	}
	if v, err := strconv.ParseFloat(q.Get("max_age"), 64); err == nil {
		f.MaxAgeMonths = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		f.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		f.Offset = v
	}
	if key, ok := middleware.GetViewerKey(r.Context()); ok {
		f.ViewerKey = key
	}
	return f
}

func toFeedItemResponse(item FeedItem) feedItemResponse {
	primary := ""
	if len(item.Media.Images) > 0 {
		primary = item.Media.Images[0]
	}
	return feedItemResponse{
		PetID:        item.PetID,
		Species:      item.Species,
		URL:          item.URL,
		Name:         item.Name,
		Breed:        item.Breed,
		Gender:       item.Gender,
		AgeRaw:       item.AgeRaw,
		AgeMonths:    item.AgeMonths,
		WeightLbs:    item.WeightLbs,
		Location:     item.Location,
		Status:       item.Status,
		Ratings:      item.Ratings,
		Description:  item.Description,
		Media:        item.Media,
		PrimaryImage: primary,
		Source:       item.Source,
		ScrapedAt:    item.ScrapedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
