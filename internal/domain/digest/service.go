package digest

import (
	"context"
	"fmt"
	"time"

	"pet-adoption-radar/internal/domain/profiles"
	"pet-adoption-radar/internal/platform/logger"
	"pet-adoption-radar/internal/ports/mailer"
)

// Service coordina particionado, armado y envío del digest.
type Service struct {
	history HistoryRepository
	mail    mailer.Mailer
	log     logger.Logger
	now     func() time.Time
}

func NewService(history HistoryRepository, mail mailer.Mailer, log logger.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{history: history, mail: mail, log: log, now: now}
}

// PartitionForRecipient separa candidatos en nuevos y ya enviados para
// un destinatario. Si el lookup de historial falla, degrada a todo-nuevo
// y devuelve el error envuelto en ErrHistoryUnavailable para que el
// caller lo loguee sin frenar el envío.
func (s *Service) PartitionForRecipient(ctx context.Context, recipient string, candidates []profiles.Profile) (fresh, delivered []profiles.Profile, err error) {
	if s.history == nil {
		return candidates, nil, nil
	}
	seen, lookupErr := s.history.SentKeys(ctx, recipient)
	if lookupErr != nil {
		return candidates, nil, fmt.Errorf("%w: %v", ErrHistoryUnavailable, lookupErr)
	}
	fresh, delivered = Partition(candidates, seen)
	return fresh, delivered, nil
}

// Summary es el resultado de un ciclo de envío.
type Summary struct {
	Recipients int
	Delivered  int
	Skipped    int
	Failed     int
}

// Recipients arma la lista final: configurados más suscriptores de la
// app, saneados y dedupeados. La falla al cargar suscriptores degrada a
// solo-configurados.
func (s *Service) Recipients(ctx context.Context, configured []string) []string {
	all := append([]string(nil), configured...)
	if s.history != nil {
		subscribers, err := s.history.Subscribers(ctx)
		if err != nil {
			s.log.Warn("could not load subscribers", map[string]any{"error": err.Error()})
		} else {
			all = append(all, subscribers...)
		}
	}
	return SanitizeEmails(all)
}

// SendDigest envía a cada destinatario solo sus perfiles nuevos y
// registra el historial después de cada envío real. En dryRun se arma
// todo pero no se envía ni se muta historial.
func (s *Service) SendDigest(ctx context.Context, recipients []string, candidates []profiles.Profile, dryRun bool) Summary {
	summary := Summary{Recipients: len(recipients)}

	for _, recipient := range recipients {
		fresh, delivered, err := s.PartitionForRecipient(ctx, recipient, candidates)
		if err != nil {
			s.log.Warn("history lookup failed; treating all candidates as new", map[string]any{
				"recipient": recipient, "error": err.Error(),
			})
		}
		if len(fresh) == 0 {
			s.log.Info("nothing new for recipient; skipping", map[string]any{
				"recipient": recipient, "already_sent": len(delivered),
			})
			summary.Skipped++
			continue
		}

		msg, err := BuildMessage(recipient, fresh, s.now())
		if err != nil {
			s.log.Warn("failed to build digest message", map[string]any{
				"recipient": recipient, "error": err.Error(),
			})
			summary.Failed++
			continue
		}

		if dryRun {
			s.log.Info("dry run; not sending", map[string]any{
				"recipient": recipient, "new": len(fresh),
			})
			summary.Skipped++
			continue
		}

		if err := s.mail.Send(ctx, msg); err != nil {
			s.log.Warn("failed to send digest", map[string]any{
				"recipient": recipient, "error": err.Error(),
			})
			summary.Failed++
			continue
		}
		summary.Delivered++

		keys := make([]profiles.Key, 0, len(fresh))
		for _, p := range fresh {
			keys = append(keys, p.Key())
		}
		if s.history != nil {
			if err := s.history.RecordSent(ctx, recipient, keys, s.now().UTC()); err != nil {
				s.log.Warn("failed to record send history", map[string]any{
					"recipient": recipient, "error": err.Error(),
				})
			}
		}
	}

	s.log.Info("digest cycle finished", map[string]any{
		"recipients": summary.Recipients,
		"delivered":  summary.Delivered,
		"skipped":    summary.Skipped,
		"failed":     summary.Failed,
	})
	return summary
}
