// Package mailer define el puerto de salida de correo. El dominio arma
// el mensaje; el transporte es un adapter.
package mailer

import "context"

// Message es un correo listo para enviar, con versión texto y HTML.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
