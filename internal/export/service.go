package export

import (
	"context"
	"fmt"
	"time"

	"casaplan/api/internal/store"
)

// DataStore defines the interface for data access
type DataStore interface {
	GetProject(ctx context.Context, projectID string) (store.Project, error)
	GetUserByID(ctx context.Context, userID string) (store.User, error)
	WorkspaceSections(ctx context.Context, projectID string) ([]store.Section, error)
}

// Service renders a project workspace to an export document
type Service struct {
	store DataStore
}

// NewService creates a new export service
func NewService(store DataStore) *Service {
	return &Service{store: store}
}

// Export generates an export in the requested format
func (s *Service) Export(ctx context.Context, req Request) (*Result, error) {
	project, err := s.store.GetProject(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	sections, err := s.store.WorkspaceSections(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentUnavailable, err)
	}

	data := TemplateData{
		ProjectTitle: project.Title,
		GeneratedAt:  time.Now(),
		IncludePrice: req.IncludePrice,
		Sections:     []TemplateSection{},
	}

	if client, err := s.store.GetUserByID(ctx, project.ClientID); err == nil {
		data.ClientName = client.DisplayName
	}
	if pro, err := s.store.GetUserByID(ctx, project.ProfessionalID); err == nil {
		data.ProfessionalName = pro.DisplayName
	}

	for _, sec := range sections {
		ts := TemplateSection{
			Title:       sec.Title,
			Description: sec.Description,
		}
		for _, a := range sec.Attachments {
			ts.Attachments = append(ts.Attachments, a.FileName)
		}
		for _, item := range sec.Items {
			ts.Items = append(ts.Items, templateItem(item))
		}
		data.Sections = append(data.Sections, ts)
	}

	html, err := RenderWorkspaceHTML(data)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	switch req.Format {
	case FormatPDF:
		return exportPDF(html, project.Title)
	default:
		return nil, fmt.Errorf("unsupported format: %s", req.Format)
	}
}

func templateItem(item store.Item) TemplateItem {
	ti := TemplateItem{
		Title:       item.Title,
		Description: item.Description,
		Type:        item.Type,
		StoreName:   item.StoreName,
	}
	if item.Price != nil {
		currency := item.Currency
		if currency == "" {
			currency = "EUR"
		}
		ti.Price = fmt.Sprintf("%.2f %s", *item.Price, currency)
	}
	for _, r := range item.Reactions {
		ti.Reactions = append(ti.Reactions, fmt.Sprintf("%s: %s", r.UserName, r.Type))
	}
	for _, c := range item.Comments {
		ti.Comments = append(ti.Comments, TemplateComment{Author: c.UserName, Content: c.Content})
	}
	return ti
}
