package firestore

import (
	"context"
	"time"

	"venuegate/internal/domain/entity"
	domainerrors "venuegate/internal/domain/errors"
	"venuegate/internal/domain/repository"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store implements every repository on one firestore client.
type Store struct {
	client *firestore.Client
}

// Compile-time interface checks.
var (
	_ repository.VenueRepository          = (*Store)(nil)
	_ repository.TokenRepository          = (*Store)(nil)
	_ repository.PresenceRepository       = (*Store)(nil)
	_ repository.AuditRepository          = (*Store)(nil)
	_ repository.LocationSampleRepository = (*Store)(nil)
	_ repository.DeviceRepository         = (*Store)(nil)
	_ repository.RateLimitRepository      = (*Store)(nil)
	_ repository.TransactionManager       = (*Store)(nil)
)

// NewStore wraps a firestore client.
func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}

// storeError marks a firestore failure as a retryable database error.
func storeError(err error, details string) error {
	return domainerrors.NewDatabaseExecuteError(err, details)
}

// FindVenueByID retrieves a venue by its ID.
func (s *Store) FindVenueByID(ctx context.Context, venueID string) (*entity.Venue, error) {
	snap, err := s.client.Collection(venuesCollection).Doc(venueID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrVenueNotFound
		}

		return nil, storeError(err, "failed to find venue by ID")
	}

	var doc venueDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode venue")
	}

	return doc.toDomain(snap.Ref.ID), nil
}

// CreateToken stores a token under its nonce. Create fails on an existing document.
func (s *Store) CreateToken(ctx context.Context, token *entity.EntryToken) error {
	_, err := s.client.Collection(tokensCollection).Doc(token.Nonce).Create(ctx, fromTokenDomain(token))
	if err != nil {
		if isAlreadyExists(err) {
			return repository.ErrTokenExists
		}

		return storeError(err, "failed to create entry token")
	}

	return nil
}

// FindToken retrieves a token by nonce.
func (s *Store) FindToken(ctx context.Context, nonce string) (*entity.EntryToken, error) {
	snap, err := s.client.Collection(tokensCollection).Doc(nonce).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrTokenNotFound
		}

		return nil, storeError(err, "failed to find entry token")
	}

	var doc tokenDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode entry token")
	}

	return doc.toDomain(nonce), nil
}

// ConsumeToken consumes the token in its own transaction.
func (s *Store) ConsumeToken(ctx context.Context, nonce string, consumedAt time.Time) error {
	return s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		return (&txRepositories{store: s, tx: tx}).ConsumeToken(ctx, nonce, consumedAt)
	})
}

// DeleteExpiredTokens removes tokens past expiry. The TTL policy normally gets there first.
func (s *Store) DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	return s.deleteWhere(ctx, s.client.Collection(tokensCollection).Where("expire_at", "<", before), "entry tokens")
}

// FindSession retrieves the session of a user at a venue.
func (s *Store) FindSession(ctx context.Context, venueID, userID string) (*entity.PresenceSession, error) {
	snap, err := s.client.Collection(sessionsCollection).Doc(sessionDocID(venueID, userID)).Get(ctx)

	return decodeSession(snap, err)
}

// SaveSession overwrites the session document.
func (s *Store) SaveSession(ctx context.Context, session *entity.PresenceSession) error {
	ref := s.client.Collection(sessionsCollection).Doc(sessionDocID(session.VenueID, session.UserID))
	if _, err := ref.Set(ctx, fromSessionDomain(session)); err != nil {
		return storeError(err, "failed to save presence session")
	}

	return nil
}

func decodeSession(snap *firestore.DocumentSnapshot, err error) (*entity.PresenceSession, error) {
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrSessionNotFound
		}

		return nil, storeError(err, "failed to find presence session")
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode presence session")
	}

	return doc.toDomain(), nil
}

// AppendEntry writes the audit entry under its ULID.
func (s *Store) AppendEntry(ctx context.Context, entry *entity.SecurityAuditEntry) error {
	doc := &auditDoc{
		EventType:     string(entry.EventType),
		UserID:        entry.UserID,
		VenueID:       entry.VenueID,
		Nonce:         entry.Nonce,
		Outcome:       entry.Outcome,
		FailureReason: entry.FailureReason,
		MockDetected:  entry.MockDetected,
		Accuracy:      entry.Accuracy,
		Distance:      entry.Distance,
		RequestID:     entry.RequestID,
		Timestamp:     entry.Timestamp,
	}
	if _, err := s.client.Collection(auditCollection).Doc(entry.ID).Create(ctx, doc); err != nil {
		return storeError(err, "failed to append audit entry")
	}

	return nil
}

// FindLatestSample returns the newest sample captured after since.
func (s *Store) FindLatestSample(ctx context.Context, userID string, since time.Time) (*entity.LocationSample, error) {
	iter := s.client.Collection(samplesCollection).
		Where("user_id", "==", userID).
		Where("captured_at", ">", since).
		OrderBy("captured_at", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, repository.ErrSampleNotFound
	}
	if err != nil {
		return nil, storeError(err, "failed to find latest location sample")
	}

	var doc sampleDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode location sample")
	}

	return &entity.LocationSample{
		Latitude:   doc.Latitude,
		Longitude:  doc.Longitude,
		Accuracy:   doc.Accuracy,
		CapturedAt: doc.CapturedAt,
	}, nil
}

// AppendSample adds a sample and deletes the user's samples beyond the newest keep.
func (s *Store) AppendSample(ctx context.Context, userID string, sample *entity.LocationSample, keep int) error {
	doc := &sampleDoc{
		UserID:     userID,
		Latitude:   sample.Latitude,
		Longitude:  sample.Longitude,
		Accuracy:   sample.Accuracy,
		CapturedAt: sample.CapturedAt,
		ExpiresAt:  sample.CapturedAt.Add(sampleTTL),
	}
	if _, _, err := s.client.Collection(samplesCollection).Add(ctx, doc); err != nil {
		return storeError(err, "failed to append location sample")
	}
	if keep <= 0 {
		return nil
	}

	query := s.client.Collection(samplesCollection).
		Where("user_id", "==", userID).
		OrderBy("captured_at", firestore.Desc).
		Offset(keep)
	if _, err := s.deleteWhere(ctx, query, "location samples"); err != nil {
		return err
	}

	return nil
}

// UpsertDevice registers a device keyed by user and device ID, keeping the original ID.
func (s *Store) UpsertDevice(ctx context.Context, device *entity.UserDevice) error {
	ref := s.client.Collection(devicesCollection).Doc(deviceDocID(device.UserID, device.DeviceID))

	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		doc := deviceDoc{
			ID:        device.ID.String(),
			UserID:    device.UserID,
			DeviceID:  device.DeviceID,
			CreatedAt: device.CreatedAt,
		}

		snap, err := tx.Get(ref)
		switch {
		case err == nil:
			if err := snap.DataTo(&doc); err != nil {
				return errors.Wrap(err, "failed to decode device")
			}
		case !isNotFound(err):
			return err
		}

		doc.FCMToken = device.FCMToken
		doc.Platform = device.Platform
		doc.IsActive = true
		doc.UpdatedAt = device.UpdatedAt

		if err := tx.Set(ref, &doc); err != nil {
			return err
		}

		stored, err := toDeviceDomain(&doc)
		if err != nil {
			return err
		}
		*device = *stored

		return nil
	})
	if err != nil {
		return storeError(err, "failed to upsert device")
	}

	return nil
}

// FindActiveDevicesByUser retrieves active devices, newest first.
func (s *Store) FindActiveDevicesByUser(ctx context.Context, userID string) ([]*entity.UserDevice, error) {
	snaps, err := s.client.Collection(devicesCollection).
		Where("user_id", "==", userID).
		Where("is_active", "==", true).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, storeError(err, "failed to find active devices by user")
	}

	devices := make([]*entity.UserDevice, 0, len(snaps))
	for _, snap := range snaps {
		var doc deviceDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, errors.Wrap(err, "failed to decode device")
		}
		device, err := toDeviceDomain(&doc)
		if err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}

	return devices, nil
}

// DeactivateDeviceByToken marks every device holding the token inactive.
func (s *Store) DeactivateDeviceByToken(ctx context.Context, fcmToken string) error {
	snaps, err := s.client.Collection(devicesCollection).
		Where("fcm_token", "==", fcmToken).
		Documents(ctx).GetAll()
	if err != nil {
		return storeError(err, "failed to find devices by token")
	}

	for _, snap := range snaps {
		if _, err := snap.Ref.Update(ctx, []firestore.Update{
			{Path: "is_active", Value: false},
			{Path: "updated_at", Value: time.Now()},
		}); err != nil {
			return storeError(err, "failed to deactivate device")
		}
	}

	return nil
}

func toDeviceDomain(doc *deviceDoc) (*entity.UserDevice, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid device id")
	}

	return &entity.UserDevice{
		ID:        id,
		UserID:    doc.UserID,
		FCMToken:  doc.FCMToken,
		DeviceID:  doc.DeviceID,
		Platform:  doc.Platform,
		IsActive:  doc.IsActive,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func windowDocID(key string, windowStart time.Time) string {
	return key + "@" + windowStart.UTC().Format("20060102T150405")
}

// IncrementWindow bumps the counter with a server-side increment and reads it back.
func (s *Store) IncrementWindow(ctx context.Context, key string, windowStart time.Time, ttl time.Duration) (int64, error) {
	ref := s.client.Collection(rateWindowsCollection).Doc(windowDocID(key, windowStart))

	if _, err := ref.Set(ctx, map[string]any{
		"key":       key,
		"count":     firestore.Increment(1),
		"expire_at": windowStart.Add(ttl),
	}, firestore.MergeAll); err != nil {
		return 0, storeError(err, "failed to increment rate limit window")
	}

	return s.CountWindow(ctx, key, windowStart)
}

// CountWindow returns a counter, zero when the document does not exist.
func (s *Store) CountWindow(ctx context.Context, key string, windowStart time.Time) (int64, error) {
	snap, err := s.client.Collection(rateWindowsCollection).Doc(windowDocID(key, windowStart)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}

		return 0, storeError(err, "failed to count rate limit window")
	}

	count, err := snap.DataAt("count")
	if err != nil {
		return 0, nil
	}
	n, _ := count.(int64)

	return n, nil
}

// deleteWhere deletes every document matched by query and reports how many went.
func (s *Store) deleteWhere(ctx context.Context, query firestore.Query, what string) (int64, error) {
	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return 0, storeError(err, "failed to list "+what)
	}
	if len(snaps) == 0 {
		return 0, nil
	}

	bulk := s.client.BulkWriter(ctx)
	for _, snap := range snaps {
		if _, err := bulk.Delete(snap.Ref); err != nil {
			bulk.End()

			return 0, storeError(err, "failed to delete "+what)
		}
	}
	bulk.End()

	return int64(len(snaps)), nil
}
