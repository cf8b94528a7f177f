// Package notify delivers booking lifecycle messages to users and
// technicians through a pluggable sink.
package notify

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"prenota/internal/config"
	"prenota/internal/events"
	"prenota/internal/models"
)

// Sink delivers a rendered message to a recipient. Implementations wrap an
// actual transport (SMTP relay, chat webhook); LogSink is the default.
type Sink interface {
	Send(ctx context.Context, recipient, message string) error
}

// LogSink writes messages to the service log instead of an external
// transport. Used in development and as the fallback when no mailer is
// configured.
type LogSink struct {
	Logger zerolog.Logger
}

func (s LogSink) Send(ctx context.Context, recipient, message string) error {
	s.Logger.Info().
		Str("recipient", recipient).
		Str("message", message).
		Msg("notification")
	return nil
}

// Default templates used when the administrator has not customized them.
const (
	defaultRequestTemplate    = "Hi {{userName}}, your booking of {{room}} on {{date}} from {{startTime}} to {{endTime}} is awaiting approval."
	defaultStatusTemplate     = "Hi {{userName}}, your booking of {{room}} on {{date}} from {{startTime}} to {{endTime}} is now {{status}}."
	defaultTechnicianTemplate = "{{technician}}, you are assigned to {{room}} on {{date}} from {{startTime}} to {{endTime}} ({{platform}})."
)

// Notifier renders templates for booking events and hands the result to the
// sink, throttled so a burst of administrator decisions cannot flood the
// transport.
type Notifier struct {
	sink     Sink
	settings func() config.EmailSettings
	limiter  *rate.Limiter
	logger   zerolog.Logger
}

// NewNotifier creates a notifier. settings is read per event so config
// reloads take effect without restarting.
func NewNotifier(sink Sink, settings func() config.EmailSettings, logger zerolog.Logger) *Notifier {
	return &Notifier{
		sink:     sink,
		settings: settings,
		limiter:  rate.NewLimiter(rate.Limit(5), 10),
		logger:   logger,
	}
}

// SubscribeAll wires the notifier to the booking lifecycle events.
func (n *Notifier) SubscribeAll(ctx context.Context, bus *events.EventBus) {
	bus.Subscribe(events.BookingCreated, func(e events.Event) error {
		return n.BookingRequested(ctx, &e.Booking)
	})
	statusChanged := func(e events.Event) error {
		return n.StatusChanged(ctx, &e.Booking)
	}
	bus.Subscribe(events.BookingApproved, statusChanged)
	bus.Subscribe(events.BookingRejected, statusChanged)
	bus.Subscribe(events.BookingApproved, func(e events.Event) error {
		return n.TechnicianAssigned(ctx, &e.Booking)
	})
}

// BookingRequested notifies the user that their request is pending.
func (n *Notifier) BookingRequested(ctx context.Context, b *models.Booking) error {
	s := n.settings()
	if !s.NotifyUserOnRequest {
		return nil
	}
	tmpl := s.UserRequestTemplate
	if tmpl == "" {
		tmpl = defaultRequestTemplate
	}
	return n.deliver(ctx, b.UserID, Render(tmpl, b))
}

// StatusChanged notifies the user of an approval or rejection.
func (n *Notifier) StatusChanged(ctx context.Context, b *models.Booking) error {
	s := n.settings()
	if !s.NotifyUserOnStatusChange {
		return nil
	}
	tmpl := s.StatusChangeTemplate
	if tmpl == "" {
		tmpl = defaultStatusTemplate
	}
	return n.deliver(ctx, b.UserID, Render(tmpl, b))
}

// TechnicianAssigned notifies the assigned technician of an approved booking.
func (n *Notifier) TechnicianAssigned(ctx context.Context, b *models.Booking) error {
	s := n.settings()
	if !s.NotifyTechnicianOnAssign || b.Technician == "" {
		return nil
	}
	tmpl := s.TechnicianAssignedTmpl
	if tmpl == "" {
		tmpl = defaultTechnicianTemplate
	}
	return n.deliver(ctx, b.Technician, Render(tmpl, b))
}

func (n *Notifier) deliver(ctx context.Context, recipient, message string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := n.sink.Send(ctx, recipient, message); err != nil {
		n.logger.Error().Err(err).Str("recipient", recipient).Msg("notification delivery failed")
		return err
	}
	return nil
}
