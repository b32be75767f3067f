package firestore

import (
	"context"
	"time"

	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/repository"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
)

// txRepositories binds token and presence operations to one firestore transaction.
// Firestore requires every read before the first write; consume and save keep that order.
type txRepositories struct {
	store *Store
	tx    *firestore.Transaction
}

// Execute runs fn in a firestore transaction. Firestore may run fn again on contention,
// so fn must not have side effects outside the factory.
func (s *Store) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	return s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		return fn(&txRepositories{store: s, tx: tx})
	})
}

// TokenRepo returns the transactional token consumer.
func (r *txRepositories) TokenRepo() repository.TokenConsumer {
	return r
}

// PresenceRepo returns the transactional presence repository.
func (r *txRepositories) PresenceRepo() repository.PresenceRepository {
	return r
}

// ConsumeToken reads the token and flips consumed inside the transaction. A concurrent
// commit on the same document aborts this one, and the retry then sees consumed.
func (r *txRepositories) ConsumeToken(_ context.Context, nonce string, consumedAt time.Time) error {
	ref := r.store.client.Collection(tokensCollection).Doc(nonce)

	snap, err := r.tx.Get(ref)
	if err != nil {
		if isNotFound(err) {
			return repository.ErrTokenNotFound
		}

		return err
	}

	consumed, err := snap.DataAt("consumed")
	if err != nil {
		return errors.Wrap(err, "failed to read consumed flag")
	}
	if done, _ := consumed.(bool); done {
		return repository.ErrTokenAlreadyConsumed
	}

	return r.tx.Update(ref, []firestore.Update{
		{Path: "consumed", Value: true},
		{Path: "consumed_at", Value: consumedAt},
	})
}

// FindSession reads the session inside the transaction.
func (r *txRepositories) FindSession(_ context.Context, venueID, userID string) (*entity.PresenceSession, error) {
	snap, err := r.tx.Get(r.store.client.Collection(sessionsCollection).Doc(sessionDocID(venueID, userID)))

	return decodeSession(snap, err)
}

// SaveSession overwrites the session inside the transaction.
func (r *txRepositories) SaveSession(_ context.Context, session *entity.PresenceSession) error {
	ref := r.store.client.Collection(sessionsCollection).Doc(sessionDocID(session.VenueID, session.UserID))

	return r.tx.Set(ref, fromSessionDomain(session))
}
