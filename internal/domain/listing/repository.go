package listing

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, id int64) (*Listing, error)
	ListActive(ctx context.Context, city string, limit, offset int) ([]*Listing, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*Listing, error)
	Update(ctx context.Context, l *Listing) error
	MarkOccupied(ctx context.Context, id int64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *Listing) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Listing, error) {
	var l Listing
	err := r.db.WithContext(ctx).First(&l, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) ListActive(ctx context.Context, city string, limit, offset int) ([]*Listing, error) {
	var listings []*Listing
	q := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).Offset(offset)
	if city != "" {
		q = q.Where("city = ?", city)
	}
	err := q.Find(&listings).Error
	return listings, err
}

func (r *repository) ListByOwner(ctx context.Context, ownerID int64) ([]*Listing, error) {
	var listings []*Listing
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&listings).Error
	return listings, err
}

func (r *repository) Update(ctx context.Context, l *Listing) error {
	return r.db.WithContext(ctx).Save(l).Error
}

// MarkOccupied flips the listing inactive. Invoked by the visit engine as a
// best-effort side effect after a match is finalized.
func (r *repository) MarkOccupied(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&Listing{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrListingNotFound
	}
	return nil
}
