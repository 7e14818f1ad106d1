package digest

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"pet-adoption-radar/internal/domain/profiles"
	"pet-adoption-radar/internal/ports/mailer"
)

// Los clientes de correo suelen bloquear imágenes remotas; tres alcanzan
// para dar una idea sin inflar el mensaje.
const maxImagesPerCard = 3

// Las bios largas se cortan para que el digest siga siendo escaneable.
const maxDescriptionChars = 600

var cardTemplate = template.Must(template.New("digest").Parse(`<html>
  <body style="font-family:Arial,Helvetica,sans-serif;max-width:780px;margin:0 auto;padding:10px;">
    <h2 style="margin:8px 0;">Adoptable Pets</h2>
    <div style="color:#666;margin-bottom:14px;">{{.Count}} profiles &bull; generated {{.GeneratedAt}}</div>
    {{if not .Cards}}<div>No profiles found.</div>{{end}}
    {{range .Cards}}
    <div style="border:1px solid #e5e5e5;border-radius:12px;padding:14px;margin:14px 0;">
      <div style="font-size:18px;font-weight:700;margin-bottom:6px;">
        {{.Name}} <span style="color:#666;font-weight:400;">(#{{.PetID}})</span>
      </div>
      <div style="color:#333;line-height:1.4;">
        <div><b>Species:</b> {{.Species}}</div>
        <div><b>Breed:</b> {{.Breed}}</div>
        <div><b>Gender:</b> {{.Gender}}</div>
        <div><b>Age:</b> {{.Age}} months</div>
        <div><b>Weight:</b> {{.Weight}} lbs</div>
        <div><b>Location:</b> {{.Location}}</div>
        <div><b>Status:</b> {{.Status}}</div>
      </div>
      {{if .Ratings}}
      <div style="margin-top:10px;">
        <div style="font-weight:700;">Ratings</div>
        <ul style="margin:6px 0 0 18px;padding:0;">
          {{range .Ratings}}<li><b>{{.Label}}:</b> {{.Value}}</li>{{end}}
        </ul>
      </div>
      {{end}}
      {{range .Images}}
      <div style="margin:8px 0;"><img src="{{.}}" style="max-width:480px;width:100%;height:auto;border-radius:8px;" /></div>
      {{end}}
      <div style="margin-top:10px;">
        <div style="font-weight:700;">Profile</div>
        <a href="{{.URL}}">{{.URL}}</a>
      </div>
      <div style="margin-top:10px;color:#666;font-size:12px;">
        Scraped at: {{.ScrapedAt}} &bull; Media: {{.MediaSummary}}
      </div>
      {{if .Description}}
      <div style="margin-top:10px;">
        <div style="font-weight:700;">Notes</div>
        <div style="white-space:pre-wrap;">{{.Description}}</div>
      </div>
      {{end}}
    </div>
    {{end}}
  </body>
</html>`))

type ratingView struct {
	Label string
	Value string
}

type cardView struct {
	PetID        int
	Species      string
	Name         string
	Breed        string
	Gender       string
	Age          string
	Weight       string
	Location     string
	Status       string
	Ratings      []ratingView
	Images       []string
	URL          string
	ScrapedAt    string
	MediaSummary string
	Description  string
}

// BuildMessage arma el correo (texto + HTML) para un destinatario.
func BuildMessage(to string, items []profiles.Profile, generatedAt time.Time) (mailer.Message, error) {
	ts := generatedAt.Format("2006-01-02 15")

	cards := make([]cardView, 0, len(items))
	for _, p := range items {
		cards = append(cards, cardFromProfile(p))
	}

	var htmlBody strings.Builder
	err := cardTemplate.Execute(&htmlBody, struct {
		Count       int
		GeneratedAt string
		Cards       []cardView
	}{
		Count:       len(items),
		GeneratedAt: ts,
		Cards:       cards,
	})
	if err != nil {
		return mailer.Message{}, fmt.Errorf("digest: rendering html body: %w", err)
	}

	return mailer.Message{
		To:      to,
		Subject: fmt.Sprintf("Pet Adoption Radar - %d adoptable pets as of %s", len(items), ts),
		Text:    textBody(cards),
		HTML:    htmlBody.String(),
	}, nil
}

func cardFromProfile(p profiles.Profile) cardView {
	images := p.Media.Images
	if len(images) > maxImagesPerCard {
		images = images[:maxImagesPerCard]
	}

	desc := strings.TrimSpace(p.Description)
	if len(desc) > maxDescriptionChars {
		desc = strings.TrimRight(desc[:maxDescriptionChars-1], " ") + "…"
	}

	return cardView{
		PetID:        p.PetID,
		Species:      orDash(p.Species),
		Name:         orDash(p.Name),
		Breed:        orDash(p.Breed),
		Gender:       orDash(p.Gender),
		Age:          floatOrDash(p.AgeMonths),
		Weight:       floatOrDash(p.WeightLbs),
		Location:     orDash(p.Location),
		Status:       orDash(p.Status),
		Ratings:      ratingsView(p),
		Images:       images,
		URL:          p.URL,
		ScrapedAt:    p.ScrapedAt.Format(time.RFC3339),
		MediaSummary: p.Media.Summary(),
		Description:  desc,
	}
}

func ratingsView(p profiles.Profile) []ratingView {
	var out []ratingView
	for _, cat := range profiles.RatingOrder {
		value, ok := p.Ratings[cat]
		if !ok {
			continue
		}
		display := "—"
		if value != profiles.RatingUnknown {
			display = fmt.Sprintf("%d", value)
		}
		out = append(out, ratingView{Label: ratingLabel(cat), Value: display})
	}
	return out
}

func ratingLabel(cat profiles.RatingCategory) string {
	words := strings.Split(string(cat), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func textBody(cards []cardView) string {
	if len(cards) == 0 {
		return "No profiles found."
	}

	var b strings.Builder
	for i, c := range cards {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Profile #%d\n", c.PetID)
		b.WriteString(strings.Repeat("-", 88) + "\n")
		fmt.Fprintf(&b, "Name       : %s\n", c.Name)
		fmt.Fprintf(&b, "Species    : %s\n", c.Species)
		fmt.Fprintf(&b, "Breed      : %s\n", c.Breed)
		fmt.Fprintf(&b, "Gender     : %s\n", c.Gender)
		fmt.Fprintf(&b, "Age        : %s months\n", c.Age)
		fmt.Fprintf(&b, "Weight     : %s lbs\n", c.Weight)
		fmt.Fprintf(&b, "Location   : %s\n", c.Location)
		fmt.Fprintf(&b, "Status     : %s\n\n", c.Status)

		if len(c.Ratings) > 0 {
			parts := make([]string, 0, len(c.Ratings))
			for _, r := range c.Ratings {
				parts = append(parts, fmt.Sprintf("%s: %s", r.Label, r.Value))
			}
			fmt.Fprintf(&b, "Ratings    : %s\n", strings.Join(parts, ", "))
		} else {
			b.WriteString("Ratings    : —\n")
		}
		fmt.Fprintf(&b, "Media      : %s\n\n", c.MediaSummary)
		fmt.Fprintf(&b, "URL        : %s\n", c.URL)
		fmt.Fprintf(&b, "Scraped At : %s\n", c.ScrapedAt)
	}
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

func floatOrDash(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%g", *v)
}
