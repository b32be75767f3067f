package postgres

import (
	"context"
	"time"

	"venuegate/internal/domain/entity"
	"venuegate/internal/domain/repository"
	"venuegate/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// tokenRepository implements the repository.TokenRepository interface.
type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository is the constructor for tokenRepository.
func NewTokenRepository(db *gorm.DB) repository.TokenRepository {
	return &tokenRepository{
		db: db,
	}
}

// CreateToken persists a freshly minted token.
func (repo *tokenRepository) CreateToken(ctx context.Context, token *entity.EntryToken) error {
	tokenM := fromTokenDomain(token)

	if err := repo.db.WithContext(ctx).Create(tokenM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrTokenExists
		}

		return dbError(err, "failed to create entry token")
	}

	return nil
}

// FindToken retrieves a token by nonce.
func (repo *tokenRepository) FindToken(ctx context.Context, nonce string) (*entity.EntryToken, error) {
	var tokenM model.EntryTokenModel

	if err := repo.db.WithContext(ctx).
		Where("nonce = ?", nonce).
		First(&tokenM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTokenNotFound
		}

		return nil, dbError(err, "failed to find entry token")
	}

	return toTokenDomain(&tokenM), nil
}

// ConsumeToken flips consumed with a conditional UPDATE. Postgres serializes the row update,
// so exactly one concurrent caller sees a changed row.
func (repo *tokenRepository) ConsumeToken(ctx context.Context, nonce string, consumedAt time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.EntryTokenModel{}).
		Where("nonce = ? AND consumed = ?", nonce, false).
		Updates(map[string]any{
			"consumed":    true,
			"consumed_at": consumedAt,
		})
	if result.Error != nil {
		return dbError(result.Error, "failed to consume entry token")
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.EntryTokenModel{}).
		Where("nonce = ?", nonce).
		Count(&count).Error; err != nil {
		return dbError(err, "failed to check entry token")
	}
	if count == 0 {
		return repository.ErrTokenNotFound
	}

	return repository.ErrTokenAlreadyConsumed
}

// DeleteExpiredTokens removes tokens that expired before the given time.
func (repo *tokenRepository) DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&model.EntryTokenModel{})
	if result.Error != nil {
		return 0, dbError(result.Error, "failed to delete expired entry tokens")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

func toTokenDomain(data *model.EntryTokenModel) *entity.EntryToken {
	return &entity.EntryToken{
		Nonce:      data.Nonce,
		VenueID:    data.VenueID,
		QRCodeID:   data.QRCodeID,
		UserID:     data.UserID,
		SessionID:  data.SessionID,
		VenueType:  entity.VenueType(data.VenueType),
		IssuedAt:   data.IssuedAt,
		ExpiresAt:  data.ExpiresAt,
		Consumed:   data.Consumed,
		ConsumedAt: data.ConsumedAt,
	}
}

func fromTokenDomain(data *entity.EntryToken) *model.EntryTokenModel {
	return &model.EntryTokenModel{
		Nonce:      data.Nonce,
		VenueID:    data.VenueID,
		QRCodeID:   data.QRCodeID,
		UserID:     data.UserID,
		SessionID:  data.SessionID,
		VenueType:  data.VenueType.String(),
		IssuedAt:   data.IssuedAt,
		ExpiresAt:  data.ExpiresAt,
		Consumed:   data.Consumed,
		ConsumedAt: data.ConsumedAt,
	}
}
