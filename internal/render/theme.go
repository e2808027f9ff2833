// Package render is the pure composition core: it resolves a template's
// theme, maps section descriptors to registered components, and produces the
// ordered render instructions for one page. Nothing in this package performs
// I/O; the delivery layer serializes its output for the client renderer.
package render

import (
	"micrositebuilder/internal/domain"
)

// DefaultTextColor is the neutral fallback used whenever a color scheme does
// not declare a text color. A single shared constant keeps the fallback
// consistent across every section renderer.
const DefaultTextColor = "#374151"

// DefaultBackgroundColor is the fallback for schemes authored without a
// background. Like DefaultTextColor it is shared so every renderer resolves
// the same palette.
const DefaultBackgroundColor = "#ffffff"

// ThemeColors is the flat, fully resolved palette every section renderer
// consumes. All fields are non-empty after ResolveTheme.
type ThemeColors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// Theme is the resolved output of a template's scheme list plus the host's
// selection. It is computed per render pass and never stored.
type Theme struct {
	SchemeName string            `json:"scheme_name"`
	Colors     ThemeColors       `json:"colors"`
	Fonts      domain.FontConfig `json:"fonts"`
}

// ResolveTheme picks the named color scheme from the template, falling back
// to the first scheme when selectedSchemeName is empty or unknown. A template
// with zero schemes is an authoring defect and yields ConfigurationError.
func ResolveTheme(tpl *domain.Template, selectedSchemeName string) (Theme, error) {
	if len(tpl.ColorSchemes) == 0 {
		return Theme{}, &domain.ConfigurationError{
			TemplateID: tpl.ID,
			Reason:     "template defines no color schemes",
		}
	}

	scheme := tpl.ColorSchemes[0]
	if selectedSchemeName != "" {
		for _, s := range tpl.ColorSchemes {
			if s.Name == selectedSchemeName {
				scheme = s
				break
			}
		}
	}

	text := scheme.Text
	if text == "" {
		text = DefaultTextColor
	}
	background := scheme.Background
	if background == "" {
		background = DefaultBackgroundColor
	}

	return Theme{
		SchemeName: scheme.Name,
		Colors: ThemeColors{
			Primary:    scheme.Primary,
			Secondary:  scheme.Secondary,
			Accent:     scheme.Accent,
			Background: background,
			Text:       text,
		},
		Fonts: tpl.Fonts,
	}, nil
}
