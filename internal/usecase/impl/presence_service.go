package impl

import (
	"context"
	"log/slog"
	"time"

	"venuegate/config"
	deliverycontext "venuegate/internal/delivery/context"
	"venuegate/internal/domain/entity"
	domainerrors "venuegate/internal/domain/errors"
	"venuegate/internal/domain/geofence"
	"venuegate/internal/domain/presence"
	"venuegate/internal/domain/repository"
	"venuegate/internal/domain/service"
	"venuegate/internal/errors"
	"venuegate/internal/usecase"

	"go.uber.org/fx"
)

// ReasonNoSession is returned when a ping arrives for a venue the user never checked into.
const ReasonNoSession = "no_session"

// presenceService implements the PresenceUsecase interface.
type presenceService struct {
	txManager    repository.TransactionManager
	presenceRepo repository.PresenceRepository
	publisher    service.EventPublisher
	metrics      service.ProtocolMetrics
	machine      *presence.Machine
	resolver     *venueResolver
	store        *storeCaller
	logger       *slog.Logger
	now          func() time.Time
}

// PresenceServiceParams holds dependencies for PresenceService, injected by Fx.
type PresenceServiceParams struct {
	fx.In

	Config       *config.Config
	TxManager    repository.TransactionManager
	VenueRepo    repository.VenueRepository
	PresenceRepo repository.PresenceRepository
	Publisher    service.EventPublisher
	Metrics      service.ProtocolMetrics
	Logger       *slog.Logger
}

// NewPresenceService is the constructor for presenceService.
func NewPresenceService(params PresenceServiceParams) usecase.PresenceUsecase {
	return newPresenceService(params)
}

func newPresenceService(params PresenceServiceParams) *presenceService {
	store := newStoreCaller(params.Config, params.Metrics, params.Logger)

	return &presenceService{
		txManager:    params.TxManager,
		presenceRepo: params.PresenceRepo,
		publisher:    params.Publisher,
		metrics:      params.Metrics,
		machine:      presence.NewMachine(presenceRulesFromConfig(params.Config)),
		resolver:     newVenueResolver(params.VenueRepo, store, venueDefaultsFromConfig(params.Config)),
		store:        store,
		logger:       params.Logger,
		now:          time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (s *presenceService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// ProcessPing evaluates the ping against the venue geofence and advances the session
// inside a transaction keyed on the session, so concurrent pings from two devices serialize.
func (s *presenceService) ProcessPing(ctx context.Context, input *usecase.PingInput) (*usecase.PingOutput, error) {
	now := s.now()

	// A venue whose check-in was disabled is treated as closed.
	cfg, err := s.resolver.ResolveVenue(ctx, input.VenueID)
	if err != nil && !errors.Is(err, ErrVenueConfigNotFound) {
		return nil, errors.Wrap(err, "failed to resolve venue")
	}

	ping := presence.Ping{Accuracy: input.Location.Accuracy}
	venueOpen := false
	if cfg != nil {
		ping.IsInside, ping.Distance = geofence.IsInside(input.Location.Sample(now), cfg)
		venueOpen = cfg.IsOpen(now)
	}

	s.log(ctx).Debug("Presence ping received",
		slog.String("venue_id", input.VenueID),
		slog.String("user_id", input.UserID),
		slog.Bool("inside", ping.IsInside),
		slog.Float64("distance", ping.Distance),
		slog.Float64("accuracy", ping.Accuracy),
		slog.Any("battery_level", input.BatteryLevel),
		slog.Any("movement_speed", input.MovementSpeed),
	)

	var outcome presence.Outcome
	noSession := false
	err = s.store.do(ctx, "process_ping", func(ctx context.Context) error {
		noSession = false

		return s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			presenceRepo := repoFactory.PresenceRepo()

			session, err := presenceRepo.FindSession(ctx, input.VenueID, input.UserID)
			if errors.Is(err, repository.ErrSessionNotFound) {
				noSession = true

				return nil
			}
			if err != nil {
				return err
			}

			outcome = s.machine.OnPing(session, ping, venueOpen, now)
			if !outcome.Persist {
				return nil
			}

			return presenceRepo.SaveSession(ctx, outcome.Session)
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to process ping")
	}

	if noSession {
		return &usecase.PingOutput{
			NewState:         entity.PresenceInactive,
			NextPingInterval: s.machine.NextPingInterval(entity.PresenceInactive, ping.Distance, ping.Accuracy),
			Reason:           ReasonNoSession,
			UserMessage:      "請先掃描場地 QR Code 報到",
		}, nil
	}

	if outcome.StateChanged {
		s.metrics.ObserveTransition(string(outcome.Previous), string(outcome.Session.State), outcome.Reason)
		s.log(ctx).Info("Presence state changed",
			slog.String("venue_id", input.VenueID),
			slog.String("user_id", input.UserID),
			slog.String("from", string(outcome.Previous)),
			slog.String("to", string(outcome.Session.State)),
			slog.String("reason", outcome.Reason),
		)
		s.publishChange(ctx, outcome, now)
	}

	return &usecase.PingOutput{
		NewState:         outcome.Session.State,
		StateChanged:     outcome.StateChanged,
		ProfileVisible:   outcome.Session.ProfileVisible,
		NextPingInterval: outcome.NextPingInterval,
		Reason:           outcome.Reason,
		UserMessage:      outcome.UserMessage,
	}, nil
}

// GetSession returns the stored session of a user at a venue.
func (s *presenceService) GetSession(ctx context.Context, venueID, userID string) (*entity.PresenceSession, error) {
	var session *entity.PresenceSession
	err := s.store.do(ctx, "find_session", func(ctx context.Context) error {
		var findErr error
		session, findErr = s.presenceRepo.FindSession(ctx, venueID, userID)

		return findErr
	})
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, domainerrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find presence session")
	}

	return session, nil
}

// publishChange emits a presence.changed event. Publishing is best-effort.
func (s *presenceService) publishChange(ctx context.Context, outcome presence.Outcome, now time.Time) {
	event := &service.PresenceEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       service.EventPresenceChanged,
		UserID:     outcome.Session.UserID,
		VenueID:    outcome.Session.VenueID,
		EventID:    outcome.Session.EventID,
		From:       string(outcome.Previous),
		To:         string(outcome.Session.State),
		Reason:     outcome.Reason,
		Message:    outcome.UserMessage,
		OccurredAt: now,
	}

	if err := s.publisher.PublishPresenceEvent(ctx, event); err != nil {
		s.log(ctx).Warn("Failed to publish presence event",
			slog.String("venue_id", event.VenueID),
			slog.String("user_id", event.UserID),
			slog.Any("error", err),
		)
	}
}
