package repository

import (
	"context"
	"crypto/md5"
	"encoding/hex"

	"golang-stock-insight/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewsWriteRepository persists scored headlines.
type NewsWriteRepository interface {
	CreateIgnoreConflict(ctx context.Context, news []entity.StockNews) error
}

// NewNewsWriteRepository creates a new GORM-based news write repository.
func NewNewsWriteRepository(db *gorm.DB) NewsWriteRepository {
	return &newsWriteRepository{db: db}
}

type newsWriteRepository struct {
	db *gorm.DB
}

func (r *newsWriteRepository) CreateIgnoreConflict(ctx context.Context, news []entity.StockNews) error {
	if len(news) == 0 {
		return nil
	}
	for i := range news {
		if news[i].HashIdentifier == "" {
			news[i].HashIdentifier = NewsHashIdentifier(news[i].Ticker, news[i].Headline, news[i].URL)
		}
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hash_identifier"}},
		DoNothing: true,
	}).CreateInBatches(&news, 200).Error
}

// NewsHashIdentifier dedupes one headline across runs and sources.
func NewsHashIdentifier(ticker, headline, url string) string {
	sum := md5.Sum([]byte(ticker + "|" + headline + "|" + url))
	return hex.EncodeToString(sum[:])
}
