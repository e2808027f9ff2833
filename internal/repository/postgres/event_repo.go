package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"micrositebuilder/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, owner_id, public_slug, event_type, template_id, name, date, venue, message,
		details, cover_image_url, gallery_images, rsvp_enabled, contributions_enabled,
		customization, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return fmt.Errorf("marshal details: %w", err)
	}
	customization, err := json.Marshal(e.Customization)
	if err != nil {
		return fmt.Errorf("marshal customization: %w", err)
	}
	query := `
		INSERT INTO events (owner_id, event_type, template_id, name, date, venue, message,
			details, cover_image_url, gallery_images, rsvp_enabled, contributions_enabled,
			customization, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.OwnerID, e.EventType, e.TemplateID, e.Name, e.Date, e.Venue, e.Message,
		details, e.CoverImageURL, pq.Array(e.GalleryImages), e.RSVPEnabled, e.ContributionsEnabled,
		customization, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) GetByPublicSlug(ctx context.Context, slug string) (*domain.Event, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	query := fmt.Sprintf(`SELECT %s FROM events WHERE public_slug = $1`, eventColumns)
	return r.scanOne(r.DB.QueryRowContext(ctx, query, slug))
}

func (r *eventRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE owner_id = $1 ORDER BY created_at DESC`, eventColumns)
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Update persists the full mutable record, gallery array included, so a
// write always carries the caller's complete view of the arrays.
func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return fmt.Errorf("marshal details: %w", err)
	}
	customization, err := json.Marshal(e.Customization)
	if err != nil {
		return fmt.Errorf("marshal customization: %w", err)
	}
	query := `
		UPDATE events
		SET name = $2, date = $3, venue = $4, message = $5, details = $6,
			cover_image_url = $7, gallery_images = $8, rsvp_enabled = $9,
			contributions_enabled = $10, customization = $11, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Name, e.Date, e.Venue, e.Message, details,
		e.CoverImageURL, pq.Array(e.GalleryImages), e.RSVPEnabled,
		e.ContributionsEnabled, customization,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) SetPublicSlug(ctx context.Context, id, slug string) error {
	query := `UPDATE events SET public_slug = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id, slug)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == "23505" {
			return fmt.Errorf("%w: public slug already taken: %s", domain.ErrInvalidInput, slug)
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *eventRepository) scanOne(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var slugNull, venueNull, messageNull, coverNull sql.NullString
	var dateNull sql.NullTime
	var details, customization []byte
	err := row.Scan(
		&e.ID, &e.OwnerID, &slugNull, &e.EventType, &e.TemplateID, &e.Name, &dateNull,
		&venueNull, &messageNull, &details, &coverNull, pq.Array(&e.GalleryImages),
		&e.RSVPEnabled, &e.ContributionsEnabled, &customization, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	e.PublicSlug = slugNull.String
	e.Venue = venueNull.String
	e.Message = messageNull.String
	e.CoverImageURL = coverNull.String
	if dateNull.Valid {
		e.Date = &dateNull.Time
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &e.Details); err != nil {
			return nil, fmt.Errorf("unmarshal details: %w", err)
		}
	}
	if len(customization) > 0 {
		if err := json.Unmarshal(customization, &e.Customization); err != nil {
			return nil, fmt.Errorf("unmarshal customization: %w", err)
		}
	}
	if e.GalleryImages == nil {
		e.GalleryImages = []string{}
	}
	return e, nil
}
