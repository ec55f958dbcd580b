package service

import (
	"context"
	"fmt"

	"github.com/pagecraft/funnels/cmd/funnelapi/catalog"
	"github.com/pagecraft/funnels/cmd/funnelapi/models"
	"github.com/pagecraft/funnels/common/component"
	"github.com/pagecraft/funnels/common/logger"
	"github.com/pagecraft/funnels/common/queue"
)

// InstantiateMeta overrides template defaults when instantiating
type InstantiateMeta struct {
	Name        string
	Description string
}

// TemplateService exposes the embedded template catalog and expands a
// template into a real funnel with pages and initial revisions.
type TemplateService struct {
	catalog   *catalog.Catalog
	funnels   *FunnelService
	pages     *PageService
	revisions *RevisionService
	queue     queue.Queue
	log       *logger.Logger
}

func NewTemplateService(cat *catalog.Catalog, funnels *FunnelService, pages *PageService, revisions *RevisionService, q queue.Queue, log *logger.Logger) *TemplateService {
	return &TemplateService{
		catalog:   cat,
		funnels:   funnels,
		pages:     pages,
		revisions: revisions,
		queue:     q,
		log:       log,
	}
}

// ListTemplates returns catalog templates, optionally filtered by category
func (s *TemplateService) ListTemplates(category string) []*models.Template {
	return s.catalog.List(category)
}

// GetTemplate returns one template by id
func (s *TemplateService) GetTemplate(id string) (*models.Template, error) {
	tpl, ok := s.catalog.Get(id)
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return tpl, nil
}

// Instantiate expands a template into a funnel owned by teamID. Pages are
// created in template order, each with a version-1 revision holding the
// template tree with the category theme applied. A failure partway leaves
// the funnel with the pages created so far and reports which page broke.
func (s *TemplateService) Instantiate(ctx context.Context, templateID, teamID string, meta InstantiateMeta) (*models.Funnel, error) {
	tpl, ok := s.catalog.Get(templateID)
	if !ok {
		return nil, ErrTemplateNotFound
	}

	name := meta.Name
	if name == "" {
		name = tpl.Name
	}

	funnel, err := s.funnels.CreateFunnel(ctx, teamID, name, meta.Description, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create funnel from template %s: %w", templateID, err)
	}

	theme, hasTheme := s.catalog.Theme(tpl.Category)

	for i, def := range tpl.Pages {
		page, err := s.pages.CreatePage(ctx, funnel.ID, def.Name, def.Type, "")
		if err != nil {
			return nil, &TemplateInstantiationError{
				TemplateID: templateID,
				PageIndex:  i,
				PageName:   def.Name,
				Err:        err,
			}
		}

		tree, err := def.Tree.Clone()
		if err != nil {
			return nil, &TemplateInstantiationError{
				TemplateID: templateID,
				PageIndex:  i,
				PageName:   def.Name,
				Err:        fmt.Errorf("failed to clone template tree: %w", err),
			}
		}

		if hasTheme {
			applyTheme(&tree, theme)
		}

		if _, err := s.revisions.CreateRevision(ctx, page.ID, tree); err != nil {
			return nil, &TemplateInstantiationError{
				TemplateID: templateID,
				PageIndex:  i,
				PageName:   def.Name,
				Err:        err,
			}
		}

		funnel.Pages = append(funnel.Pages, page)
	}

	publishEvent(ctx, s.queue, s.log, TopicFunnelInstantiated, funnel.ID.String(), map[string]any{
		"funnel_id":   funnel.ID,
		"team_id":     teamID,
		"template_id": templateID,
		"pages":       len(funnel.Pages),
	})

	s.log.Info("instantiated template",
		"template_id", templateID,
		"funnel_id", funnel.ID,
		"pages", len(funnel.Pages),
	)

	return funnel, nil
}

// applyTheme fills empty section colors with the category theme
func applyTheme(tree *component.Node, theme models.Theme) {
	tree.Walk(func(n *component.Node) {
		if n.Type == component.KindSection && n.Props == nil {
			n.Props = &component.SectionProps{}
		}
		section, ok := n.Props.(*component.SectionProps)
		if !ok {
			return
		}
		if section.Background == "" {
			section.Background = theme.Background
		}
		if section.Accent == "" {
			section.Accent = theme.Accent
		}
	})
}
