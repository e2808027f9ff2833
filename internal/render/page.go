package render

import (
	"micrositebuilder/internal/domain"
)

// Page is the renderer-agnostic contract for one composed event site: the
// resolved theme plus the ordered section instructions. The client renderer
// consumes this as-is.
type Page struct {
	Theme    Theme               `json:"theme"`
	Sections []RenderInstruction `json:"sections"`
}

// ComposePage resolves the event's theme selection against the template and
// composes the section list in one pass.
func (c *Compositor) ComposePage(tpl *domain.Template, event *domain.Event) (*Page, error) {
	theme, err := ResolveTheme(tpl, event.Customization.SelectedColorScheme)
	if err != nil {
		return nil, err
	}
	sections, err := c.Compose(tpl, event.Customization, event)
	if err != nil {
		return nil, err
	}
	return &Page{Theme: theme, Sections: sections}, nil
}
