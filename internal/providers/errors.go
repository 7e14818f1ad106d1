package providers

import "fmt"

// FetchError: falla de red/HTTP, ya agotados los fallbacks de cache.
// Reintentable en la próxima corrida.
type FetchError struct {
	Source string
	URL    string
	Err    error
}

func (e *FetchError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("fetch %s (%s): %v", e.Source, e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError: cambió la estructura de la página (falta el nodo del
// animal). No reintentable dentro de la corrida; el item se saltea.
type ParseError struct {
	Source string
	URL    string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s (%s): %v", e.Source, e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
