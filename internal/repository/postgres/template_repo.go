package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"micrositebuilder/internal/domain"
)

type templateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) domain.TemplateRepository {
	return &templateRepository{DB: db}
}

const templateColumns = `id, slug, name, event_type, is_premium, price_minor,
		color_schemes, fonts, sections, created_at, updated_at`

// Upsert inserts or replaces a template keyed by slug. The catalog seeder
// calls this at startup, so re-running a deploy overwrites attribute changes
// without creating duplicates.
func (r *templateRepository) Upsert(ctx context.Context, tpl *domain.Template) error {
	schemes, err := json.Marshal(tpl.ColorSchemes)
	if err != nil {
		return fmt.Errorf("marshal color schemes: %w", err)
	}
	fonts, err := json.Marshal(tpl.Fonts)
	if err != nil {
		return fmt.Errorf("marshal fonts: %w", err)
	}
	sections, err := json.Marshal(tpl.Sections)
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}
	query := `
		INSERT INTO templates (slug, name, event_type, is_premium, price_minor,
			color_schemes, fonts, sections, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			event_type = EXCLUDED.event_type,
			is_premium = EXCLUDED.is_premium,
			price_minor = EXCLUDED.price_minor,
			color_schemes = EXCLUDED.color_schemes,
			fonts = EXCLUDED.fonts,
			sections = EXCLUDED.sections,
			updated_at = NOW()
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		tpl.Slug, tpl.Name, tpl.EventType, tpl.IsPremium, tpl.PriceMinor,
		schemes, fonts, sections,
	).Scan(&tpl.ID)
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	query := fmt.Sprintf(`SELECT %s FROM templates WHERE id = $1`, templateColumns)
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *templateRepository) GetBySlug(ctx context.Context, slug string) (*domain.Template, error) {
	query := fmt.Sprintf(`SELECT %s FROM templates WHERE slug = $1`, templateColumns)
	return r.scanOne(r.DB.QueryRowContext(ctx, query, slug))
}

func (r *templateRepository) List(ctx context.Context, eventType domain.EventType, params domain.PaginationParams) ([]*domain.Template, int, error) {
	where := ""
	args := []any{}
	if eventType != "" {
		where = "WHERE event_type = $1"
		args = append(args, eventType)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM templates %s`, where)
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM templates %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, templateColumns, where, len(args)+1, len(args)+2)
	args = append(args, params.Limit(), params.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	templates := make([]*domain.Template, 0)
	for rows.Next() {
		tpl, err := r.scanOne(rows)
		if err != nil {
			return nil, 0, err
		}
		templates = append(templates, tpl)
	}
	return templates, total, rows.Err()
}

func (r *templateRepository) scanOne(row rowScanner) (*domain.Template, error) {
	tpl := &domain.Template{}
	var schemes, fonts, sections []byte
	err := row.Scan(
		&tpl.ID, &tpl.Slug, &tpl.Name, &tpl.EventType, &tpl.IsPremium, &tpl.PriceMinor,
		&schemes, &fonts, &sections, &tpl.CreatedAt, &tpl.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(schemes, &tpl.ColorSchemes); err != nil {
		return nil, fmt.Errorf("unmarshal color schemes: %w", err)
	}
	if err := json.Unmarshal(fonts, &tpl.Fonts); err != nil {
		return nil, fmt.Errorf("unmarshal fonts: %w", err)
	}
	if err := json.Unmarshal(sections, &tpl.Sections); err != nil {
		return nil, fmt.Errorf("unmarshal sections: %w", err)
	}
	return tpl, nil
}
