package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"micrositebuilder/internal/domain"
)

// seedFile is the on-disk shape of the template catalog.
type seedFile struct {
	Templates []seedTemplate `yaml:"templates"`
}

type seedTemplate struct {
	Slug         string                     `yaml:"slug"`
	Name         string                     `yaml:"name"`
	EventType    domain.EventType           `yaml:"event_type"`
	IsPremium    bool                       `yaml:"is_premium"`
	PriceMinor   int64                      `yaml:"price_minor"`
	ColorSchemes []domain.ColorScheme       `yaml:"color_schemes"`
	Fonts        domain.FontConfig          `yaml:"fonts"`
	Sections     []domain.SectionDescriptor `yaml:"sections"`
}

func (s seedTemplate) validate() error {
	if s.Slug == "" {
		return fmt.Errorf("template missing slug")
	}
	if !s.EventType.Valid() {
		return fmt.Errorf("template %q: unknown event type %q", s.Slug, s.EventType)
	}
	if len(s.ColorSchemes) == 0 {
		return fmt.Errorf("template %q: at least one color scheme is required", s.Slug)
	}
	if len(s.Sections) == 0 {
		return fmt.Errorf("template %q: at least one section is required", s.Slug)
	}
	if s.IsPremium && s.PriceMinor <= 0 {
		return fmt.Errorf("template %q: premium template needs a positive price", s.Slug)
	}
	seen := make(map[string]bool, len(s.Sections))
	for _, sec := range s.Sections {
		if sec.ID == "" {
			return fmt.Errorf("template %q: section missing id", s.Slug)
		}
		if seen[sec.ID] {
			return fmt.Errorf("template %q: duplicate section id %q", s.Slug, sec.ID)
		}
		seen[sec.ID] = true
	}
	return nil
}

// Load parses a catalog seed file into domain templates. The whole file is
// rejected on the first invalid entry so a bad deploy cannot half-seed.
func Load(path string) ([]*domain.Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates catalog YAML.
func Parse(raw []byte) ([]*domain.Template, error) {
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if len(file.Templates) == 0 {
		return nil, fmt.Errorf("catalog has no templates")
	}
	slugs := make(map[string]bool, len(file.Templates))
	templates := make([]*domain.Template, 0, len(file.Templates))
	for _, s := range file.Templates {
		if err := s.validate(); err != nil {
			return nil, err
		}
		if slugs[s.Slug] {
			return nil, fmt.Errorf("duplicate template slug %q", s.Slug)
		}
		slugs[s.Slug] = true
		templates = append(templates, &domain.Template{
			Slug:         s.Slug,
			Name:         s.Name,
			EventType:    s.EventType,
			IsPremium:    s.IsPremium,
			PriceMinor:   s.PriceMinor,
			ColorSchemes: s.ColorSchemes,
			Fonts:        s.Fonts,
			Sections:     s.Sections,
		})
	}
	return templates, nil
}

// Seed upserts every template from the seed file into the repository.
// Idempotent across deploys; slugs are the stable identity.
func Seed(ctx context.Context, path string, repo domain.TemplateRepository, logger *slog.Logger) error {
	templates, err := Load(path)
	if err != nil {
		return err
	}
	for _, tpl := range templates {
		if err := repo.Upsert(ctx, tpl); err != nil {
			return fmt.Errorf("upsert template %q: %w", tpl.Slug, err)
		}
	}
	logger.Info("template catalog seeded", "count", len(templates), "path", path)
	return nil
}
