// Package middleware contiene los middlewares HTTP propios de la app.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ctxKey string

const viewerKeyCtx ctxKey = "viewer_key"

const viewerCookieName = "viewer_key"

// ViewerContext identifica al viewer anónimo del swipe: toma la key de
// la cookie (o del header X-Viewer-Key para clientes sin cookies) y si
// no existe, emite una nueva y la deja en la cookie. Todos los requests
// salen con viewer key en contexto.
func ViewerContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ""
			if cookie, err := r.Cookie(viewerCookieName); err == nil {
				key = strings.TrimSpace(cookie.Value)
			}
			if key == "" {
				key = strings.TrimSpace(r.Header.Get("X-Viewer-Key"))
			}
			if key == "" {
				key = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     viewerCookieName,
					Value:    key,
					Path:     "/",
					MaxAge:   int((365 * 24 * time.Hour).Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), viewerKeyCtx, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetViewerKey devuelve la key del viewer del contexto.
func GetViewerKey(ctx context.Context) (string, bool) {
	v := ctx.Value(viewerKeyCtx)
	if v == nil {
		return "", false
	}
	key, ok := v.(string)
	return key, ok && key != ""
}
