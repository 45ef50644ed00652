// Package httpclient construye los *http.Client que consume el adapter de
// Telegram (tgbotapi acepta cualquier client que implemente Do).
package httpclient

import (
	"net/http"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second
)

// New crea un client con timeout razonable.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
	}
}

// NewLongPoll crea el client para getUpdates. El timeout total tiene que
// superar al del long-poll, si no el request muere antes de que Telegram
// conteste.
func NewLongPoll(pollTimeout time.Duration) *http.Client {
	if pollTimeout < 0 {
		pollTimeout = 0
	}
	return New(pollTimeout + DefaultTimeout)
}

// NewWithTransport permite inyectar un Transport (p.ej. para tests).
func NewWithTransport(timeout time.Duration, tr http.RoundTripper) *http.Client {
	c := New(timeout)
	if tr != nil {
		c.Transport = tr
	}
	return c
}

// RoundTripFunc adapta una función a http.RoundTripper.
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
