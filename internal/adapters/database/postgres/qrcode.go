package postgres

import (
	"context"
	"errors"

	"github.com/courierhub/labelqr/internal/domain/common/errorz"
	"github.com/courierhub/labelqr/internal/domain/entity"
	"gorm.io/gorm"
)

type QRCodeStorage struct {
	db *gorm.DB
}

func NewQRCodeStorage(db *gorm.DB) *QRCodeStorage {
	return &QRCodeStorage{
		db: db,
	}
}

// Create is a function that stores a new render record.
func (s *QRCodeStorage) Create(ctx context.Context, code *entity.QRCode) (*entity.QRCode, error) {
	err := s.db.WithContext(ctx).Create(code).Error
	return code, err
}

// Get is a function that gets a render record by its code id.
func (s *QRCodeStorage) Get(ctx context.Context, codeID string) (*entity.QRCode, error) {
	var code entity.QRCode
	err := s.db.WithContext(ctx).Where("code_id = ?", codeID).First(&code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errorz.ErrRenderNotFound
	}
	return &code, err
}

// GetByTrackingCode is a function that lists the renders of a parcel, newest first.
func (s *QRCodeStorage) GetByTrackingCode(ctx context.Context, trackingCode string) ([]entity.QRCode, error) {
	var codes []entity.QRCode
	err := s.db.WithContext(ctx).Where("tracking_code = ?", trackingCode).Order("created_at desc").Find(&codes).Error
	return codes, err
}

// Delete is a function that removes a render record by its code id.
func (s *QRCodeStorage) Delete(ctx context.Context, codeID string) error {
	res := s.db.WithContext(ctx).Where("code_id = ?", codeID).Delete(&entity.QRCode{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errorz.ErrRenderNotFound
	}
	return nil
}
