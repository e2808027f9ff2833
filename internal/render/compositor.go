package render

import (
	"log/slog"
	"sort"
	"time"

	"micrositebuilder/internal/domain"
)

// RSVPData is the allow-listed event slice bound to RSVP-style components.
type RSVPData struct {
	EventID     string           `json:"event_id"`
	EventType   domain.EventType `json:"event_type"`
	EventName   string           `json:"event_name"`
	EventDate   *time.Time       `json:"event_date,omitempty"`
	RSVPEnabled bool             `json:"rsvp_enabled"`
}

// ContributionData is the allow-listed event slice bound to contribution
// components: the event identity plus the bank fields from the details bag,
// nothing else.
type ContributionData struct {
	EventID       string           `json:"event_id"`
	EventType     domain.EventType `json:"event_type"`
	Enabled       bool             `json:"enabled"`
	BankName      string           `json:"bank_name,omitempty"`
	AccountName   string           `json:"account_name,omitempty"`
	AccountNumber string           `json:"account_number,omitempty"`
}

// RenderInstruction is one resolved slot of the final page: the component to
// render, its authoring-time config, and the event data bound per the
// component's policy.
type RenderInstruction struct {
	SectionID     string         `json:"section_id"`
	SectionType   string         `json:"section_type"`
	ComponentName string         `json:"component_name"`
	Config        map[string]any `json:"config,omitempty"`
	Data          any            `json:"data"`
}

// Compositor turns a template's declared sections plus a host's
// customization into the ordered, filtered instruction list for one render
// pass. It is pure and deterministic: identical inputs yield identical
// output order.
type Compositor struct {
	registry *Registry
	logger   *slog.Logger
}

// NewCompositor returns a Compositor using the given registry. A nil logger
// falls back to slog.Default().
func NewCompositor(registry *Registry, logger *slog.Logger) *Compositor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compositor{registry: registry, logger: logger}
}

// Compose produces the final ordered list of render instructions.
//
// Ordering happens before visibility filtering so an explicit order list may
// safely name sections that end up hidden; they are skipped, not rejected.
// A registry miss drops the slot with a warning and never fails the page.
// An empty result after filtering is valid; a template that declares no
// sections at all is an authoring defect.
func (c *Compositor) Compose(tpl *domain.Template, cust domain.Customization, event *domain.Event) ([]RenderInstruction, error) {
	if len(tpl.Sections) == 0 {
		return nil, &domain.ConfigurationError{
			TemplateID: tpl.ID,
			Reason:     "template declares no sections",
		}
	}

	ordered := orderSections(tpl.Sections, cust.SectionOrder)

	out := make([]RenderInstruction, 0, len(ordered))
	for _, sec := range ordered {
		if hidden(sec, cust.SectionVisibility) {
			continue
		}
		comp, ok := c.registry.Lookup(sec.ComponentName)
		if !ok {
			c.logger.Warn("unknown section component, skipping slot",
				"template_id", tpl.ID,
				"section_id", sec.ID,
				"component", sec.ComponentName,
			)
			continue
		}
		out = append(out, RenderInstruction{
			SectionID:     sec.ID,
			SectionType:   sec.SectionType,
			ComponentName: sec.ComponentName,
			Config:        sec.Config,
			Data:          bindData(comp.Policy, event),
		})
	}
	return out, nil
}

// orderSections places sections named in explicit (in that order) first, then
// the remaining sections stable-sorted by SortOrder ascending. Ties keep the
// descriptor array position.
func orderSections(sections []domain.SectionDescriptor, explicit []string) []domain.SectionDescriptor {
	byID := make(map[string]int, len(sections))
	for i, s := range sections {
		byID[s.ID] = i
	}

	var head []domain.SectionDescriptor
	mentioned := make(map[string]struct{}, len(explicit))
	for _, id := range explicit {
		idx, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := mentioned[id]; dup {
			continue
		}
		mentioned[id] = struct{}{}
		head = append(head, sections[idx])
	}

	var tail []domain.SectionDescriptor
	for _, s := range sections {
		if _, ok := mentioned[s.ID]; ok {
			continue
		}
		tail = append(tail, s)
	}
	sort.SliceStable(tail, func(i, j int) bool {
		return tail[i].SortOrder < tail[j].SortOrder
	})

	return append(head, tail...)
}

// hidden reports whether either the per-id or the per-type visibility flag
// is explicitly false. Absence means visible.
func hidden(sec domain.SectionDescriptor, visibility map[string]bool) bool {
	if v, ok := visibility[sec.ID]; ok && !v {
		return true
	}
	if v, ok := visibility[sec.SectionType]; ok && !v {
		return true
	}
	return false
}

func bindData(policy BindPolicy, event *domain.Event) any {
	if event == nil {
		return nil
	}
	switch policy {
	case BindRSVP:
		return RSVPData{
			EventID:     event.ID,
			EventType:   event.EventType,
			EventName:   event.Name,
			EventDate:   event.Date,
			RSVPEnabled: event.RSVPEnabled,
		}
	case BindContribution:
		return ContributionData{
			EventID:       event.ID,
			EventType:     event.EventType,
			Enabled:       event.ContributionsEnabled,
			BankName:      event.Details["bank_name"],
			AccountName:   event.Details["account_name"],
			AccountNumber: event.Details["account_number"],
		}
	default:
		return event
	}
}
