// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"venuegate/config"
	deliverycontext "venuegate/internal/delivery/context"
	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/geofence"
	"venuegate/internal/domain/repository"
	"venuegate/internal/domain/service"
	"venuegate/internal/errors"
	"venuegate/internal/usecase"
	"venuegate/internal/util"

	"go.uber.org/fx"
)

const (
	// nonceBytes is the entropy of an entry token (256 bits).
	nonceBytes = 32
	// nonceAttempts bounds regeneration after a nonce collision.
	nonceAttempts = 3

	entryStepNonce  = "nonce"
	entryStepVerify = "verify"
	entryOutcomeOK  = "ok"
)

// entryService implements the EntryUsecase interface.
type entryService struct {
	txManager  repository.TransactionManager
	tokenRepo  repository.TokenRepository
	qrCodeSvc  service.QRCodeService
	publisher  service.EventPublisher
	metrics    service.ProtocolMetrics
	resolver   *venueResolver
	store      *storeCaller
	audit      *auditLogger
	history    *locationHistory
	lifetimes  entity.TokenLifetimes
	maxHistory int
	logger     *slog.Logger
	now        func() time.Time
}

// EntryServiceParams holds dependencies for EntryService, injected by Fx.
type EntryServiceParams struct {
	fx.In

	Config     *config.Config
	TxManager  repository.TransactionManager
	VenueRepo  repository.VenueRepository
	TokenRepo  repository.TokenRepository
	AuditRepo  repository.AuditRepository
	SampleRepo repository.LocationSampleRepository
	QRCodeSvc  service.QRCodeService
	Publisher  service.EventPublisher
	Metrics    service.ProtocolMetrics
	Logger     *slog.Logger
}

// NewEntryService is the constructor for entryService.
func NewEntryService(params EntryServiceParams) usecase.EntryUsecase {
	return newEntryService(params)
}

func newEntryService(params EntryServiceParams) *entryService {
	store := newStoreCaller(params.Config, params.Metrics, params.Logger)
	callTimeout, auditTimeout := storeTimeouts(params.Config)
	historySize, retention := sampleHistoryFromConfig(params.Config)

	return &entryService{
		txManager: params.TxManager,
		tokenRepo: params.TokenRepo,
		qrCodeSvc: params.QRCodeSvc,
		publisher: params.Publisher,
		metrics:   params.Metrics,
		resolver:  newVenueResolver(params.VenueRepo, store, venueDefaultsFromConfig(params.Config)),
		store:     store,
		audit:     newAuditLogger(params.AuditRepo, auditTimeout, params.Metrics, params.Logger),
		history: &locationHistory{
			sampleRepo: params.SampleRepo,
			size:       historySize,
			retention:  retention,
			timeout:    callTimeout,
			logger:     params.Logger,
		},
		lifetimes:  tokenLifetimesFromConfig(params.Config),
		maxHistory: presenceRulesFromConfig(params.Config).HistorySize,
		logger:     params.Logger,
		now:        time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (s *entryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// IssueNonce validates the scanned payload, the schedule and the caller's distance, then mints a token.
func (s *entryService) IssueNonce(ctx context.Context, input *usecase.IssueNonceInput) (*usecase.IssueNonceOutput, error) {
	now := s.now()

	payload, err := s.qrCodeSvc.ParseVenueQR(input.StaticQRData)
	if err != nil {
		s.log(ctx).Info("Rejected unparsable QR payload", slog.String("user_id", input.UserID), slog.Any("error", err))
		s.audit.record(ctx, auditFailure(entity.AuditTokenGeneration, input.UserID, "", "", entity.ReasonInvalidQR, now))

		return s.rejectNonce(entity.ReasonInvalidQR, nil), nil
	}

	cfg, err := s.resolver.Resolve(ctx, payload.VenueID, payload.QRCodeID)
	if errors.Is(err, ErrVenueConfigNotFound) {
		s.audit.record(ctx, auditFailure(entity.AuditTokenGeneration, input.UserID, payload.VenueID, "", entity.ReasonInvalidQR, now))

		return s.rejectNonce(entity.ReasonInvalidQR, nil), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve venue")
	}

	if !cfg.IsOpen(now) {
		s.audit.record(ctx, auditFailure(entity.AuditTokenGeneration, input.UserID, cfg.VenueID, "", entity.ReasonVenueClosed, now))

		out := s.rejectNonce(entity.ReasonVenueClosed, cfg)
		out.LocationTips = ""

		return out, nil
	}

	sample := input.Location.Sample(now)
	inside, distance := geofence.IsInside(sample, cfg)
	s.history.remember(ctx, input.UserID, sample)
	if !inside {
		s.audit.record(ctx, withLocation(
			auditFailure(entity.AuditLocationVerification, input.UserID, cfg.VenueID, "", entity.ReasonOutsideRadius, now),
			sample.Accuracy, distance, false,
		))

		return s.rejectNonce(entity.ReasonOutsideRadius, cfg), nil
	}

	token, err := s.mintToken(ctx, cfg, input, now)
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, withLocation(
		auditSuccess(entity.AuditTokenGeneration, input.UserID, cfg.VenueID, token.Nonce, now),
		sample.Accuracy, distance, false,
	))
	s.metrics.ObserveEntry(entryStepNonce, entryOutcomeOK)

	s.log(ctx).Debug("Entry nonce issued",
		slog.String("venue_id", cfg.VenueID),
		slog.String("user_id", input.UserID),
		slog.String("venue_type", cfg.VenueType.String()),
		slog.Time("expires_at", token.ExpiresAt),
	)

	return &usecase.IssueNonceOutput{
		Success:    true,
		Nonce:      token.Nonce,
		EventID:    cfg.EventID(now),
		VenueID:    cfg.VenueID,
		ExpiresAt:  token.ExpiresAt,
		VenueRules: cfg.Rules,
	}, nil
}

// mintToken generates a fresh nonce and stores the token, regenerating on the rare collision.
func (s *entryService) mintToken(ctx context.Context, cfg *entity.VenueEventConfig, input *usecase.IssueNonceInput, now time.Time) (*entity.EntryToken, error) {
	for range nonceAttempts {
		nonce, err := util.RandomHex(nonceBytes)
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate nonce")
		}

		token := &entity.EntryToken{
			Nonce:     nonce,
			VenueID:   cfg.VenueID,
			QRCodeID:  cfg.QRCodeID,
			UserID:    input.UserID,
			SessionID: input.SessionID,
			VenueType: cfg.VenueType,
			IssuedAt:  now,
			ExpiresAt: now.Add(s.lifetimes.For(cfg.VenueType)),
		}

		err = s.store.do(ctx, "create_token", func(ctx context.Context) error {
			return s.tokenRepo.CreateToken(ctx, token)
		})
		if errors.Is(err, repository.ErrTokenExists) {
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to store entry token")
		}

		return token, nil
	}

	return nil, errors.Wrap(repository.ErrTokenExists, "nonce collisions exhausted")
}

func (s *entryService) rejectNonce(reason entity.RejectionReason, cfg *entity.VenueEventConfig) *usecase.IssueNonceOutput {
	s.metrics.ObserveEntry(entryStepNonce, string(reason))

	out := &usecase.IssueNonceOutput{
		Reason:  reason,
		Message: reason.Message(),
	}
	if cfg != nil {
		out.VenueID = cfg.VenueID
		out.VenueRules = cfg.Rules
		out.LocationTips = cfg.LocationTips
	}

	return out
}

// VerifyEntry redeems a nonce. Token consumption and session creation commit together.
func (s *entryService) VerifyEntry(ctx context.Context, input *usecase.VerifyEntryInput) (*usecase.VerifyEntryOutput, error) {
	now := s.now()

	var token *entity.EntryToken
	err := s.store.do(ctx, "find_token", func(ctx context.Context) error {
		var findErr error
		token, findErr = s.tokenRepo.FindToken(ctx, input.Nonce)

		return findErr
	})
	if errors.Is(err, repository.ErrTokenNotFound) {
		return s.rejectVerify(ctx, input, "", entity.ReasonInvalidToken, now), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find entry token")
	}

	switch {
	case token.IsExpired(now):
		return s.rejectVerify(ctx, input, token.VenueID, entity.ReasonExpiredToken, now), nil
	case token.Consumed:
		return s.rejectVerify(ctx, input, token.VenueID, entity.ReasonTokenConsumed, now), nil
	case !token.IsBoundTo(input.UserID):
		s.log(ctx).Warn("Entry token presented by another user",
			slog.String("venue_id", token.VenueID),
			slog.String("user_id", input.UserID),
		)

		return s.rejectVerify(ctx, input, token.VenueID, entity.ReasonInvalidBinding, now), nil
	}

	cfg, err := s.resolver.Resolve(ctx, token.VenueID, token.QRCodeID)
	if errors.Is(err, ErrVenueConfigNotFound) {
		return s.rejectVerify(ctx, input, token.VenueID, entity.ReasonInvalidQR, now), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve venue")
	}

	if !cfg.IsOpen(now) {
		return s.rejectVerify(ctx, input, cfg.VenueID, entity.ReasonVenueClosed, now), nil
	}

	if out := s.checkVerifyLocation(ctx, input, cfg, now); out != nil {
		return out, nil
	}

	eventID := cfg.EventID(now)
	session := entity.NewPresenceSession(cfg.VenueID, input.UserID, eventID, now)

	attempts := 0
	err = s.store.do(ctx, "consume_token", func(ctx context.Context) error {
		attempts++

		return s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			if err := repoFactory.TokenRepo().ConsumeToken(ctx, input.Nonce, now); err != nil {
				return err
			}

			return repoFactory.PresenceRepo().SaveSession(ctx, session)
		})
	})
	if errors.Is(err, repository.ErrTokenAlreadyConsumed) && attempts > 1 && s.sessionCommitted(ctx, session) {
		s.log(ctx).Warn("Entry commit acknowledged late, keeping committed session",
			slog.String("venue_id", cfg.VenueID),
			slog.String("user_id", input.UserID),
			slog.Int("attempts", attempts),
		)
		err = nil
	}
	if errors.Is(err, repository.ErrTokenAlreadyConsumed) {
		return s.rejectVerify(ctx, input, cfg.VenueID, entity.ReasonTokenConsumed, now), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to consume entry token")
	}

	s.audit.record(ctx, auditSuccess(entity.AuditQRValidation, input.UserID, cfg.VenueID, input.Nonce, now))
	s.metrics.ObserveEntry(entryStepVerify, entryOutcomeOK)

	s.log(ctx).Info("Entry verified",
		slog.String("venue_id", cfg.VenueID),
		slog.String("user_id", input.UserID),
		slog.String("event_id", eventID),
	)

	return &usecase.VerifyEntryOutput{
		Success: true,
		EventID: eventID,
		VenueID: cfg.VenueID,
	}, nil
}

// sessionCommitted reports whether an earlier consume attempt whose result was lost already
// stored this session. Stores keep microsecond timestamps, so JoinedAt is compared within a millisecond.
func (s *entryService) sessionCommitted(ctx context.Context, expected *entity.PresenceSession) bool {
	var stored *entity.PresenceSession
	err := s.store.do(ctx, "find_session", func(ctx context.Context) error {
		return s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			var findErr error
			stored, findErr = repoFactory.PresenceRepo().FindSession(ctx, expected.VenueID, expected.UserID)

			return findErr
		})
	})
	if err != nil {
		return false
	}

	return stored.EventID == expected.EventID && stored.JoinedAt.Sub(expected.JoinedAt).Abs() < time.Millisecond
}

// checkVerifyLocation runs the geofence and mock heuristic. It returns a rejection or nil on success.
func (s *entryService) checkVerifyLocation(ctx context.Context, input *usecase.VerifyEntryInput, cfg *entity.VenueEventConfig, now time.Time) *usecase.VerifyEntryOutput {
	sample := input.Location.Sample(now)
	previous := s.history.previous(ctx, input.UserID, now)
	result := geofence.CheckLocation(sample, previous, cfg)
	s.history.remember(ctx, input.UserID, sample)

	if result.MockDetected {
		entry := auditSuccess(entity.AuditMockDetection, input.UserID, cfg.VenueID, input.Nonce, now)
		if !result.OK {
			entry = auditFailure(entity.AuditMockDetection, input.UserID, cfg.VenueID, input.Nonce, entity.ReasonMockLocation, now)
		}
		s.audit.record(ctx, withLocation(entry, sample.Accuracy, result.Distance, true))
		s.publishMockDetection(ctx, input.UserID, cfg.VenueID, result, now)
	}

	if result.OK {
		s.audit.record(ctx, withLocation(
			auditSuccess(entity.AuditLocationVerification, input.UserID, cfg.VenueID, input.Nonce, now),
			sample.Accuracy, result.Distance, result.MockDetected,
		))

		return nil
	}

	s.audit.record(ctx, withLocation(
		auditFailure(entity.AuditLocationVerification, input.UserID, cfg.VenueID, input.Nonce, result.Reason, now),
		sample.Accuracy, result.Distance, result.MockDetected,
	))
	s.metrics.ObserveEntry(entryStepVerify, string(result.Reason))

	return &usecase.VerifyEntryOutput{
		VenueID:        cfg.VenueID,
		Reason:         result.Reason,
		Message:        result.Reason.Message(),
		RequiresRescan: result.MockDetected,
	}
}

func (s *entryService) rejectVerify(ctx context.Context, input *usecase.VerifyEntryInput, venueID string, reason entity.RejectionReason, now time.Time) *usecase.VerifyEntryOutput {
	s.audit.record(ctx, auditFailure(entity.AuditQRValidation, input.UserID, venueID, input.Nonce, reason, now))
	s.metrics.ObserveEntry(entryStepVerify, string(reason))

	return &usecase.VerifyEntryOutput{
		VenueID:        venueID,
		Reason:         reason,
		Message:        reason.Message(),
		RequiresRescan: reason == entity.ReasonExpiredToken,
	}
}

// publishMockDetection notifies the security pipeline. Publishing is best-effort.
func (s *entryService) publishMockDetection(ctx context.Context, userID, venueID string, result geofence.Result, now time.Time) {
	event := &service.PresenceEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       service.EventMockLocation,
		UserID:     userID,
		VenueID:    venueID,
		Reason:     string(entity.ReasonMockLocation),
		OccurredAt: now,
	}
	if result.OK {
		event.Reason = "mock_suspected_accepted"
	}

	if err := s.publisher.PublishPresenceEvent(ctx, event); err != nil {
		s.log(ctx).Warn("Failed to publish mock location event",
			slog.String("venue_id", venueID),
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
}
