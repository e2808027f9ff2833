package postgres

import (
	"context"
	"database/sql"
	"errors"

	"micrositebuilder/internal/domain"
)

type purchaseRepository struct {
	DB *sql.DB
}

func NewPurchaseRepository(db *sql.DB) domain.PurchaseRepository {
	return &purchaseRepository{DB: db}
}

func (r *purchaseRepository) Create(ctx context.Context, rec *domain.PurchaseRecord) error {
	query := `
		INSERT INTO purchases (user_id, template_id, reference, amount_minor, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		rec.UserID, rec.TemplateID, rec.Reference, rec.AmountMinor, rec.Status,
		rec.CreatedAt, rec.UpdatedAt,
	).Scan(&rec.ID)
}

func (r *purchaseRepository) GetByReference(ctx context.Context, reference string) (*domain.PurchaseRecord, error) {
	query := `
		SELECT id, user_id, template_id, reference, amount_minor, status, created_at, updated_at
		FROM purchases
		WHERE reference = $1
	`
	rec := &domain.PurchaseRecord{}
	err := r.DB.QueryRowContext(ctx, query, reference).Scan(
		&rec.ID, &rec.UserID, &rec.TemplateID, &rec.Reference, &rec.AmountMinor,
		&rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *purchaseRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.PurchaseRecord, error) {
	query := `
		SELECT id, user_id, template_id, reference, amount_minor, status, created_at, updated_at
		FROM purchases
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := make([]*domain.PurchaseRecord, 0)
	for rows.Next() {
		rec := &domain.PurchaseRecord{}
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.TemplateID, &rec.Reference,
			&rec.AmountMinor, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
