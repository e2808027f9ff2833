package domain

import (
	"context"
	"time"
)

// EventType classifies templates and events.
type EventType string

const (
	EventTypeWedding  EventType = "wedding"
	EventTypeBirthday EventType = "birthday"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	return t == EventTypeWedding || t == EventTypeBirthday
}

// ColorScheme is one named palette a template ships with. Text is optional;
// renderers fall back to a shared neutral default when it is empty.
type ColorScheme struct {
	Name       string `json:"name" yaml:"name"`
	Primary    string `json:"primary" yaml:"primary"`
	Secondary  string `json:"secondary" yaml:"secondary"`
	Accent     string `json:"accent" yaml:"accent"`
	Background string `json:"background" yaml:"background"`
	Text       string `json:"text,omitempty" yaml:"text,omitempty"`
}

// FontConfig holds the font families a template uses.
type FontConfig struct {
	Heading string `json:"heading" yaml:"heading"`
	Body    string `json:"body" yaml:"body"`
	Accent  string `json:"accent,omitempty" yaml:"accent,omitempty"`
}

// SectionDescriptor declares one region of a template. ComponentName is a
// symbolic key into the section registry and may reference a component that
// has not shipped yet; rendering degrades gracefully in that case.
// IsRequired only signals authoring intent to the builder UI; the compositor
// does not forbid hiding a required section.
type SectionDescriptor struct {
	ID            string         `json:"id" yaml:"id"`
	SectionType   string         `json:"section_type" yaml:"section_type"`
	ComponentName string         `json:"component_name" yaml:"component_name"`
	Config        map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
	SortOrder     int            `json:"sort_order" yaml:"sort_order"`
	IsRequired    bool           `json:"is_required" yaml:"is_required"`
}

// Template is a purchasable visual design: ordered sections, color schemes,
// and fonts. Templates are authored out of band and are immutable from the
// consuming host's perspective.
// swagger:model Template
type Template struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	EventType EventType `json:"event_type"`
	IsPremium bool      `json:"is_premium"`
	// PriceMinor is the price in minor currency units (e.g. kobo). Only
	// meaningful when IsPremium is true.
	PriceMinor   int64               `json:"price_minor"`
	ColorSchemes []ColorScheme       `json:"color_schemes"`
	Fonts        FontConfig          `json:"fonts"`
	Sections     []SectionDescriptor `json:"sections"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// SectionByID returns the section with the given id, or nil.
func (t *Template) SectionByID(id string) *SectionDescriptor {
	for i := range t.Sections {
		if t.Sections[i].ID == id {
			return &t.Sections[i]
		}
	}
	return nil
}

// TemplateRepository defines the interface for template storage.
type TemplateRepository interface {
	// Upsert inserts or replaces a template by slug. Used by the catalog seeder.
	Upsert(ctx context.Context, tpl *Template) error
	GetByID(ctx context.Context, id string) (*Template, error)
	GetBySlug(ctx context.Context, slug string) (*Template, error)
	// List returns templates filtered by event type ("" for all), paginated,
	// plus the total count.
	List(ctx context.Context, eventType EventType, params PaginationParams) ([]*Template, int, error)
}

// TemplateService defines catalog-facing business logic.
type TemplateService interface {
	ListTemplates(ctx context.Context, eventType EventType, params PaginationParams) ([]*Template, int, error)
	GetTemplateBySlug(ctx context.Context, slug string) (*Template, error)
	GetTemplateByID(ctx context.Context, id string) (*Template, error)
}
