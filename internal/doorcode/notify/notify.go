// Package notify dispatches one-time codes over transactional email and
// SMS. Sends are fire-and-forget: a returned error fails the current
// authentication attempt, there is no retry or channel fallback here.
package notify

import (
	"context"
	"errors"
)

// ErrDispatch wraps every channel send failure so callers can classify
// delivery problems without knowing which channel was in play.
var ErrDispatch = errors.New("notify: dispatch failed")

// Email is one outbound transactional email.
type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// EmailSender delivers a single email.
type EmailSender interface {
	Send(ctx context.Context, msg Email) error
}

// SMS is one outbound text message.
type SMS struct {
	To   string
	Body string
}

// SMSSender delivers a single SMS.
type SMSSender interface {
	Send(ctx context.Context, msg SMS) error
}
