// Package memory is a process-local implementation of every repository, used for local
// development and tests. It offers the same conditional-write guarantees as the shared stores
// within one process, but its state is neither durable nor shared between instances.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/repository"
)

type windowCounter struct {
	count     int64
	expiresAt time.Time
}

// Store holds all records in maps guarded by a single lock.
type Store struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	venues   map[string]*entity.Venue
	tokens   map[string]*entity.EntryToken
	sessions map[string]*entity.PresenceSession
	audit    []*entity.SecurityAuditEntry
	samples  map[string][]*entity.LocationSample
	devices  map[string]*entity.UserDevice
	windows  map[string]windowCounter
	now      func() time.Time
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
	_ repository.RepositoryFactory        = (*Store)(nil)
)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		venues:   make(map[string]*entity.Venue),
		tokens:   make(map[string]*entity.EntryToken),
		sessions: make(map[string]*entity.PresenceSession),
		samples:  make(map[string][]*entity.LocationSample),
		devices:  make(map[string]*entity.UserDevice),
		windows:  make(map[string]windowCounter),
		now:      time.Now,
	}
}

// SetClock replaces the clock used for counter expiry and device timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = now
}

// PutVenue inserts or replaces a venue record.
func (s *Store) PutVenue(venue *entity.Venue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := *venue
	s.venues[venue.ID] = &v
}

// AuditEntries returns a copy of the audit log in append order.
func (s *Store) AuditEntries() []entity.SecurityAuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]entity.SecurityAuditEntry, 0, len(s.audit))
	for _, e := range s.audit {
		entries = append(entries, *e)
	}

	return entries
}

// Execute serializes fn against other transactions. Writes made before fn fails are not
// rolled back; the conditional token consume is the first write of every transaction.
func (s *Store) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return fn(s)
}

// TokenRepo returns the store itself.
func (s *Store) TokenRepo() repository.TokenConsumer {
	return s
}

// PresenceRepo returns the store itself.
func (s *Store) PresenceRepo() repository.PresenceRepository {
	return s
}

// FindVenueByID retrieves a venue by its ID.
func (s *Store) FindVenueByID(_ context.Context, venueID string) (*entity.Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	venue, ok := s.venues[venueID]
	if !ok {
		return nil, repository.ErrVenueNotFound
	}
	v := *venue

	return &v, nil
}

// CreateToken stores a new token.
func (s *Store) CreateToken(_ context.Context, token *entity.EntryToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tokens[token.Nonce]; exists {
		return repository.ErrTokenExists
	}
	t := *token
	s.tokens[token.Nonce] = &t

	return nil
}

// FindToken retrieves a token by nonce.
func (s *Store) FindToken(_ context.Context, nonce string) (*entity.EntryToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[nonce]
	if !ok {
		return nil, repository.ErrTokenNotFound
	}
	t := *token

	return &t, nil
}

// ConsumeToken flips consumed under the write lock, so only the first caller wins.
func (s *Store) ConsumeToken(_ context.Context, nonce string, consumedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[nonce]
	if !ok {
		return repository.ErrTokenNotFound
	}
	if token.Consumed {
		return repository.ErrTokenAlreadyConsumed
	}
	token.Consumed = true
	token.ConsumedAt = &consumedAt

	return nil
}

// DeleteExpiredTokens removes tokens that expired before the given time.
func (s *Store) DeleteExpiredTokens(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for nonce, token := range s.tokens {
		if token.ExpiresAt.Before(before) {
			delete(s.tokens, nonce)
			deleted++
		}
	}

	return deleted, nil
}

func sessionKey(venueID, userID string) string {
	return venueID + "/" + userID
}

// FindSession retrieves the session of a user at a venue.
func (s *Store) FindSession(_ context.Context, venueID, userID string) (*entity.PresenceSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionKey(venueID, userID)]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}

	return session.Clone(), nil
}

// SaveSession creates or replaces a session.
func (s *Store) SaveSession(_ context.Context, session *entity.PresenceSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionKey(session.VenueID, session.UserID)] = session.Clone()

	return nil
}

// AppendEntry appends an audit entry.
func (s *Store) AppendEntry(_ context.Context, entry *entity.SecurityAuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := *entry
	s.audit = append(s.audit, &e)

	return nil
}

// FindLatestSample returns the newest sample captured after since.
func (s *Store) FindLatestSample(_ context.Context, userID string, since time.Time) (*entity.LocationSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.samples[userID]
	if len(history) == 0 {
		return nil, repository.ErrSampleNotFound
	}
	latest := history[len(history)-1]
	if !latest.CapturedAt.After(since) {
		return nil, repository.ErrSampleNotFound
	}
	sample := *latest

	return &sample, nil
}

// AppendSample stores a sample and keeps only the newest keep samples.
func (s *Store) AppendSample(_ context.Context, userID string, sample *entity.LocationSample, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *sample
	history := append(s.samples[userID], &stored)
	slices.SortStableFunc(history, func(a, b *entity.LocationSample) int {
		return a.CapturedAt.Compare(b.CapturedAt)
	})
	if keep > 0 && len(history) > keep {
		history = history[len(history)-keep:]
	}
	s.samples[userID] = history

	return nil
}

// UpsertDevice registers a device, keyed by user and client device ID.
func (s *Store) UpsertDevice(_ context.Context, device *entity.UserDevice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.devices {
		if existing.UserID == device.UserID && existing.DeviceID == device.DeviceID {
			existing.FCMToken = device.FCMToken
			existing.Platform = device.Platform
			existing.IsActive = true
			existing.UpdatedAt = device.UpdatedAt
			*device = *existing

			return nil
		}
	}

	d := *device
	s.devices[device.ID.String()] = &d

	return nil
}

// FindActiveDevicesByUser retrieves active devices, newest first.
func (s *Store) FindActiveDevicesByUser(_ context.Context, userID string) ([]*entity.UserDevice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	devices := make([]*entity.UserDevice, 0)
	for _, device := range s.devices {
		if device.UserID == userID && device.IsActive {
			d := *device
			devices = append(devices, &d)
		}
	}
	slices.SortFunc(devices, func(a, b *entity.UserDevice) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})

	return devices, nil
}

// DeactivateDeviceByToken marks every device holding the token inactive.
func (s *Store) DeactivateDeviceByToken(_ context.Context, fcmToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, device := range s.devices {
		if device.FCMToken == fcmToken {
			device.IsActive = false
			device.UpdatedAt = s.now()
		}
	}

	return nil
}

func windowKey(key string, windowStart time.Time) string {
	return key + "@" + windowStart.UTC().Format(time.RFC3339Nano)
}

// IncrementWindow adds one to a window counter.
func (s *Store) IncrementWindow(_ context.Context, key string, windowStart time.Time, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	k := windowKey(key, windowStart)
	counter := s.windows[k]
	if !counter.expiresAt.IsZero() && now.After(counter.expiresAt) {
		counter = windowCounter{}
	}
	counter.count++
	counter.expiresAt = windowStart.Add(ttl)
	s.windows[k] = counter

	return counter.count, nil
}

// CountWindow returns a window counter, zero once it expired.
func (s *Store) CountWindow(_ context.Context, key string, windowStart time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counter, ok := s.windows[windowKey(key, windowStart)]
	if !ok || s.now().After(counter.expiresAt) {
		return 0, nil
	}

	return counter.count, nil
}

// DeleteExpiredWindows drops rate limit counters that expired before the given time.
func (s *Store) DeleteExpiredWindows(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for k, counter := range s.windows {
		if counter.expiresAt.Before(before) {
			delete(s.windows, k)
			removed++
		}
	}

	return removed, nil
}

// DeleteSamplesBefore drops samples captured before the given time.
func (s *Store) DeleteSamplesBefore(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for userID, history := range s.samples {
		kept := slices.DeleteFunc(history, func(sample *entity.LocationSample) bool {
			return sample.CapturedAt.Before(before)
		})
		removed += int64(len(history) - len(kept))
		if len(kept) == 0 {
			delete(s.samples, userID)

			continue
		}
		s.samples[userID] = kept
	}

	return removed, nil
}
