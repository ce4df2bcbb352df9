package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"casaplan/api/internal/attach"
	"casaplan/api/internal/auth"
	"casaplan/api/internal/authpw"
	"casaplan/api/internal/config"
	"casaplan/api/internal/export"
	"casaplan/api/internal/notify"
	"casaplan/api/internal/rbac"
	"casaplan/api/internal/search"
	"casaplan/api/internal/store"
	"casaplan/api/internal/upload"
	"casaplan/api/internal/util"
)

type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	UserName     string
	Role         string
	JTI          string
	ExpiresAt    time.Time
}

// AttachmentInput is the wire shape for section attachments.
type AttachmentInput struct {
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	FileSize int64  `json:"fileSize"`
}

// ItemInput is the wire shape for item creation. Which optional fields are
// kept depends on the item type.
type ItemInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Type         string   `json:"type"`
	FileURL      string   `json:"fileUrl"`
	LinkURL      string   `json:"linkUrl"`
	Price        *float64 `json:"price"`
	Currency     string   `json:"currency"`
	StoreName    string   `json:"storeName"`
	StoreAddress string   `json:"storeAddress"`
}

var allowedItemTypes = map[string]struct{}{
	"image":   {},
	"file":    {},
	"link":    {},
	"product": {},
}

var allowedReactionTypes = map[string]struct{}{
	"like":     {},
	"love":     {},
	"approved": {},
}

type dataStore interface {
	GetUserByID(context.Context, string) (store.User, error)
	RevokeAccessToken(context.Context, string, time.Time) error
	IsAccessTokenRevoked(context.Context, string) (bool, error)
	GetProject(context.Context, string) (store.Project, error)
	ListProjectIDsForUser(context.Context, string) ([]string, error)
	MarkMaterialsViewed(context.Context, string, string) error
	WorkspaceSections(context.Context, string) ([]store.Section, error)
	GetSection(context.Context, string, string) (store.Section, error)
	InsertSection(context.Context, store.Section) error
	UpdateSection(context.Context, string, string, string, string, []store.Attachment) (bool, error)
	DeleteSection(context.Context, string, string) (bool, error)
	GetItem(context.Context, string, string, string) (store.Item, error)
	InsertItem(context.Context, store.Item) error
	DeleteItem(context.Context, string, string) (bool, error)
	UpsertReaction(context.Context, store.Reaction) error
	ListItemReactions(context.Context, string) ([]store.Reaction, error)
	InsertComment(context.Context, store.Comment) error
	ListItemComments(context.Context, string) ([]store.Comment, error)
	Ping(ctx context.Context) error
}

// sessionStore holds refresh tokens. Redis when configured, Postgres
// otherwise.
type sessionStore interface {
	SaveRefreshSession(ctx context.Context, tokenHash string, user store.User, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (store.User, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
}

// PGSessionStore adapts the relational store to the sessionStore interface.
type PGSessionStore struct {
	Store *store.PostgresStore
}

func (p PGSessionStore) SaveRefreshSession(ctx context.Context, tokenHash string, user store.User, expiresAt time.Time) error {
	return p.Store.SaveRefreshSession(ctx, tokenHash, user.ID, expiresAt)
}

func (p PGSessionStore) LookupRefreshSession(ctx context.Context, tokenHash string) (store.User, error) {
	return p.Store.LookupRefreshSession(ctx, tokenHash)
}

func (p PGSessionStore) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	return p.Store.RevokeRefreshSession(ctx, tokenHash)
}

type Service struct {
	cfg      config.Config
	store    dataStore
	sessions sessionStore
	authpw   *authpw.Service
	search   *search.Service
	export   *export.Service
	notify   *notify.Service
	uploads  upload.Store
}

// Deps bundles the optional collaborators wired in at startup. Nil fields
// disable the corresponding surface.
type Deps struct {
	Sessions sessionStore
	AuthPW   *authpw.Service
	Search   *search.Service
	Export   *export.Service
	Notify   *notify.Service
	Uploads  upload.Store
}

func New(cfg config.Config, dataStore *store.PostgresStore, deps Deps) *Service {
	sessions := deps.Sessions
	if sessions == nil {
		sessions = PGSessionStore{Store: dataStore}
	}
	return &Service{
		cfg:      cfg,
		store:    dataStore,
		sessions: sessions,
		authpw:   deps.AuthPW,
		search:   deps.Search,
		export:   deps.Export,
		notify:   deps.Notify,
		uploads:  deps.Uploads,
	}
}

func (s *Service) AuthPasswordService() *authpw.Service {
	return s.authpw
}

func (s *Service) SMTPConfigured() bool {
	return s.notify != nil && s.notify.IsConfigured()
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) Can(role string, action rbac.Action) bool {
	return rbac.Can(rbac.Normalize(role), action)
}

// ---- sessions ----

// CreateSession issues a token pair for an authenticated user.
func (s *Service) CreateSession(ctx context.Context, userID string) (Session, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	tokenHash := auth.HashToken(refreshToken)
	user, err := s.sessions.LookupRefreshSession(ctx, tokenHash)
	if err != nil {
		return Session{}, err
	}
	// Rotate: the old refresh token is single-use.
	if err := s.sessions.RevokeRefreshSession(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) issueSession(ctx context.Context, user store.User) (Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	jti := util.NewID("jti")

	token, err := auth.Issue([]byte(s.cfg.TokenSecret), auth.Identity{
		UserID:   user.ID,
		UserName: user.DisplayName,
		Role:     user.Role,
	}, jti, s.cfg.AccessTTL)
	if err != nil {
		return Session{}, err
	}

	refresh := util.NewID("rft") + util.NewID("")
	refreshExpires := now.Add(s.cfg.RefreshTTL)
	if err := s.sessions.SaveRefreshSession(ctx, auth.HashToken(refresh), user, refreshExpires); err != nil {
		return Session{}, err
	}

	return Session{
		Token:        token,
		RefreshToken: refresh,
		UserID:       user.ID,
		UserName:     user.DisplayName,
		Role:         user.Role,
		JTI:          jti,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	identity, jti, err := auth.Verify([]byte(s.cfg.TokenSecret), token)
	if err != nil {
		return Session{}, err
	}
	revoked, err := s.store.IsAccessTokenRevoked(ctx, jti)
	if err != nil {
		return Session{}, err
	}
	if revoked {
		return Session{}, auth.ErrInvalidToken
	}

	// Re-fetch the user so role changes take effect without re-login.
	user, err := s.store.GetUserByID(ctx, identity.UserID)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Token:    token,
		UserID:   user.ID,
		UserName: user.DisplayName,
		Role:     user.Role,
		JTI:      jti,
	}, nil
}

func (s *Service) Logout(ctx context.Context, session Session, refreshToken string) error {
	if session.JTI != "" {
		_ = s.store.RevokeAccessToken(ctx, session.JTI, session.ExpiresAt)
	}
	if refreshToken != "" {
		_ = s.sessions.RevokeRefreshSession(ctx, auth.HashToken(refreshToken))
	}
	return nil
}

// ---- workspace ----

// memberProject loads the project and verifies the caller participates in it.
func (s *Service) memberProject(ctx context.Context, session Session, projectID string) (store.Project, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return store.Project{}, domainError(http.StatusNotFound, "NOT_FOUND", "Project not found", nil)
	}
	if session.UserID != project.ClientID && session.UserID != project.ProfessionalID {
		return store.Project{}, domainError(http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
	}
	return project, nil
}

// Workspace loads the full section tree. A project with no sections has no
// workspace yet and reports 404; clients treat that as an empty tree.
func (s *Service) Workspace(ctx context.Context, session Session, projectID string) (map[string]any, error) {
	if _, err := s.memberProject(ctx, session, projectID); err != nil {
		return nil, err
	}

	sections, err := s.store.WorkspaceSections(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	if len(sections) == 0 {
		return nil, domainError(http.StatusNotFound, "WORKSPACE_NOT_FOUND", "Workspace not yet created", nil)
	}

	payload := make([]map[string]any, 0, len(sections))
	for _, section := range sections {
		payload = append(payload, sectionPayload(section))
	}
	return map[string]any{"sections": payload}, nil
}

func (s *Service) CreateSection(ctx context.Context, session Session, projectID, title, description string, attachments []AttachmentInput) (map[string]any, error) {
	if !s.Can(session.Role, rbac.ActionManageSections) {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
	}
	project, err := s.memberProject(ctx, session, projectID)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required", nil)
	}

	section := store.Section{
		ID:          util.NewID("sec"),
		ProjectID:   projectID,
		Title:       title,
		Description: strings.TrimSpace(description),
	}
	for _, in := range attachments {
		att, err := attachmentFromInput(section.ID, in)
		if err != nil {
			return nil, err
		}
		section.Attachments = append(section.Attachments, att)
	}

	if err := s.store.InsertSection(ctx, section); err != nil {
		return nil, fmt.Errorf("insert section: %w", err)
	}

	created, err := s.store.GetSection(ctx, projectID, section.ID)
	if err != nil {
		return nil, fmt.Errorf("reload section: %w", err)
	}

	s.indexSection(created)
	s.notifyNewMaterials(project, created)

	return map[string]any{"section": sectionPayload(created)}, nil
}

func (s *Service) UpdateSection(ctx context.Context, session Session, projectID, sectionID, title, description string, attachments []AttachmentInput) (map[string]any, error) {
	if !s.Can(session.Role, rbac.ActionManageSections) {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
	}
	if _, err := s.memberProject(ctx, session, projectID); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required", nil)
	}

	var replacement []store.Attachment
	if attachments != nil {
		replacement = make([]store.Attachment, 0, len(attachments))
		for _, in := range attachments {
			att, err := attachmentFromInput(sectionID, in)
			if err != nil {
				return nil, err
			}
			replacement = append(replacement, att)
		}
	}

	ok, err := s.store.UpdateSection(ctx, projectID, sectionID, title, strings.TrimSpace(description), replacement)
	if err != nil {
		return nil, fmt.Errorf("update section: %w", err)
	}
	if !ok {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "Section not found", nil)
	}

	// Return the section with its item tree so clients can merge in place.
	sections, err := s.store.WorkspaceSections(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("reload workspace: %w", err)
	}
	for _, section := range sections {
		if section.ID == sectionID {
			s.indexSection(section)
			return map[string]any{"section": sectionPayload(section)}, nil
		}
	}
	return nil, domainError(http.StatusNotFound, "NOT_FOUND", "Section not found", nil)
}

func (s *Service) DeleteSection(ctx context.Context, session Session, projectID, sectionID string) (map[string]any, error) {
	if !s.Can(session.Role, rbac.ActionManageSections) {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
	}
	if _, err := s.memberProject(ctx, session, projectID); err != nil {
		return nil, err
	}

	ok, err := s.store.DeleteSection(ctx, projectID, sectionID)
	if err != nil {
		return nil, fmt.Errorf("delete section: %w", err)
	}
	if !ok {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "Section not found", nil)
	}

	if s.search != nil {
		s.search.DeleteSection(sectionID)
	}
	return map[string]any{"ok": true}, nil
}

func (s *Service) CreateItem(ctx context.Context, session Session, projectID, sectionID string, input ItemInput) (map[string]any, error) {
	if !s.Can(session.Role, rbac.ActionManageItems) {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
	}
	if _, err := s.memberProject(ctx, session, projectID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required", nil)
	}
	if _, ok := allowedItemTypes[input.Type]; !ok {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "type must be one of image, file, link, product", nil)
	}

	if _, err := s.store.GetSection(ctx, projectID, sectionID); err != nil {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "Section not found", nil)
	}

	item := store.Item{
		ID:          util.NewID("itm"),
		SectionID:   sectionID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Type:        input.Type,
	}

	// Optional fields are type-conditional; the rest are dropped.
	switch input.Type {
	case "image", "file":
		item.FileURL = input.FileURL
	case "link":
		item.LinkURL = input.LinkURL
	case "product":
		item.LinkURL = input.LinkURL
		item.Price = input.Price
		item.Currency = input.Currency
		item.StoreName = strings.TrimSpace(input.StoreName)
		item.StoreAddress = strings.TrimSpace(input.StoreAddress)
	}

	if err := s.store.InsertItem(ctx, item); err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	s.indexItem(projectID, item)

	return map[string]any{"item": itemPayload(item)}, nil
}

func (s *Service) DeleteItem(ctx context.Context, session Session, projectID, sectionID, itemID string) (map[string]any, error) {
	if !s.Can(session.Role, rbac.ActionManageItems) {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
	}
	if _, err := s.memberProject(ctx, session, projectID); err != nil {
		return nil, err
	}

	if _, err := s.store.GetSection(ctx, projectID, sectionID); err != nil {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "Section not found", nil)
	}

	ok, err := s.store.DeleteItem(ctx, sectionID, itemID)
	if err != nil {
		return nil, fmt.Errorf("delete item: %w", err)
	}
	if !ok {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "Item not found", nil)
	}

	if s.search != nil {
		s.search.DeleteItem(itemID)
	}
	return map[string]any{"ok": true}, nil
}

// React stores the caller's reaction and returns the full authoritative
// reaction array. A second reaction by the same user replaces the first.
func (s *Service) React(ctx context.Context, session Session, projectID, sectionID, itemID, reactionType string) (map[string]any, error) {
	if !s.Can(session.Role, rbac.ActionReact) {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
	}
	if _, err := s.memberProject(ctx, session, projectID); err != nil {
		return nil, err
	}
	if _, ok := allowedReactionTypes[reactionType]; !ok {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "type must be one of like, love, approved", nil)
	}

	if _, err := s.store.GetItem(ctx, projectID, sectionID, itemID); err != nil {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "Item not found", nil)
	}

	if err := s.store.UpsertReaction(ctx, store.Reaction{
		ItemID:   itemID,
		UserID:   session.UserID,
		UserName: session.UserName,
		Type:     reactionType,
	}); err != nil {
		return nil, fmt.Errorf("upsert reaction: %w", err)
	}

	reactions, err := s.store.ListItemReactions(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}
	return map[string]any{"reactions": reactionPayloads(reactions)}, nil
}

// AddComment appends a comment and returns the full authoritative array.
func (s *Service) AddComment(ctx context.Context, session Session, projectID, sectionID, itemID, content string) (map[string]any, error) {
	if !s.Can(session.Role, rbac.ActionComment) {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
	}
	if _, err := s.memberProject(ctx, session, projectID); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "content is required", nil)
	}

	if _, err := s.store.GetItem(ctx, projectID, sectionID, itemID); err != nil {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "Item not found", nil)
	}

	if err := s.store.InsertComment(ctx, store.Comment{
		ID:       util.NewID("cmt"),
		ItemID:   itemID,
		UserID:   session.UserID,
		UserName: session.UserName,
		Content:  content,
	}); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	comments, err := s.store.ListItemComments(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return map[string]any{"comments": commentPayloads(comments)}, nil
}

// MarkViewed records a read receipt. The endpoint is fire-and-forget on the
// client side, but the write itself is still confirmed.
func (s *Service) MarkViewed(ctx context.Context, session Session, projectID string) (map[string]any, error) {
	if _, err := s.memberProject(ctx, session, projectID); err != nil {
		return nil, err
	}
	if err := s.store.MarkMaterialsViewed(ctx, projectID, session.UserID); err != nil {
		return nil, fmt.Errorf("mark viewed: %w", err)
	}
	return map[string]any{"ok": true}, nil
}

// SearchWorkspaces searches sections and items across the caller's projects.
func (s *Service) SearchWorkspaces(ctx context.Context, session Session, text, filterType, projectID string, limit, offset int) (map[string]any, error) {
	if s.search == nil {
		return nil, domainError(http.StatusServiceUnavailable, "SEARCH_UNAVAILABLE", "Search not configured", nil)
	}

	query := search.Query{
		Text:   text,
		Limit:  limit,
		Offset: offset,
	}
	switch filterType {
	case "":
	case "section":
		query.FilterType = search.ResultSection
	case "item":
		query.FilterType = search.ResultItem
	default:
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "type must be 'section' or 'item'", nil)
	}

	if projectID != "" {
		if _, err := s.memberProject(ctx, session, projectID); err != nil {
			return nil, err
		}
		query.FilterProjectID = projectID
	} else {
		ids, err := s.store.ListProjectIDsForUser(ctx, session.UserID)
		if err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		query.ProjectIDs = ids
	}

	resp := s.search.Search(query)
	return map[string]any{
		"results": resp.Results,
		"total":   resp.Total,
		"query":   resp.Query,
	}, nil
}

// ExportWorkspace renders the workspace to a downloadable PDF.
func (s *Service) ExportWorkspace(ctx context.Context, session Session, projectID string, includePrice bool) (*export.Result, error) {
	if s.export == nil {
		return nil, domainError(http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "Export not configured", nil)
	}
	if _, err := s.memberProject(ctx, session, projectID); err != nil {
		return nil, err
	}
	return s.export.Export(ctx, export.Request{
		ProjectID:    projectID,
		Format:       export.FormatPDF,
		IncludePrice: includePrice,
	})
}

// Upload stores a file after the allow-list check and returns its URL.
func (s *Service) Upload(ctx context.Context, fileName, contentType string, size int64, body io.Reader, public bool) (map[string]any, error) {
	if s.uploads == nil {
		return nil, domainError(http.StatusServiceUnavailable, "UPLOAD_UNAVAILABLE", "Upload storage not configured", nil)
	}
	if err := attach.ValidateUpload(fileName, contentType, size, s.cfg.MaxUploadBytes); err != nil {
		return nil, domainError(http.StatusUnprocessableEntity, "UPLOAD_REJECTED", err.Error(), nil)
	}

	result, err := s.uploads.Put(ctx, upload.PutRequest{
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		Body:        body,
		Public:      public,
	})
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	return map[string]any{"url": result.URL, "filename": result.FileName}, nil
}

// ---- helpers ----

func attachmentFromInput(sectionID string, in AttachmentInput) (store.Attachment, error) {
	if strings.TrimSpace(in.FileName) == "" || strings.TrimSpace(in.FileURL) == "" {
		return store.Attachment{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "attachments require fileName and fileUrl", nil)
	}
	return store.Attachment{
		ID:        util.NewID("att"),
		SectionID: sectionID,
		FileName:  in.FileName,
		FileURL:   in.FileURL,
		FileType:  string(attach.Classify(in.FileName)),
		FileSize:  in.FileSize,
	}, nil
}

func (s *Service) indexSection(section store.Section) {
	if s.search == nil {
		return
	}
	s.search.IndexSection(search.SectionRecord{
		ID:          section.ID,
		Title:       section.Title,
		Description: section.Description,
		ProjectID:   section.ProjectID,
	})
}

func (s *Service) indexItem(projectID string, item store.Item) {
	if s.search == nil {
		return
	}
	s.search.IndexItem(search.ItemRecord{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		StoreName:   item.StoreName,
		Type:        item.Type,
		SectionID:   item.SectionID,
		ProjectID:   projectID,
	})
}

// notifyNewMaterials emails the client when their professional shares a new
// section. Best effort: failures are logged, never surfaced.
func (s *Service) notifyNewMaterials(project store.Project, section store.Section) {
	if !s.SMTPConfigured() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		client, err := s.store.GetUserByID(ctx, project.ClientID)
		if err != nil {
			log.Printf("notify: lookup client for project %s: %v", project.ID, err)
			return
		}
		workspaceURL := strings.TrimRight(s.cfg.CORSOrigin, "/") + "/jobs/projects/" + project.ID + "/workspace"
		if err := s.notify.SendNewMaterialsEmail(client.Email, client.DisplayName, project.Title, section.Title, workspaceURL); err != nil {
			log.Printf("notify: new materials email for project %s: %v", project.ID, err)
		}
	}()
}

func sectionPayload(section store.Section) map[string]any {
	attachments := make([]map[string]any, 0, len(section.Attachments))
	for _, att := range section.Attachments {
		attachments = append(attachments, map[string]any{
			"id":         att.ID,
			"fileName":   att.FileName,
			"fileUrl":    att.FileURL,
			"fileType":   att.FileType,
			"fileSize":   att.FileSize,
			"uploadedAt": att.UploadedAt,
		})
	}
	items := make([]map[string]any, 0, len(section.Items))
	for _, item := range section.Items {
		items = append(items, itemPayload(item))
	}
	return map[string]any{
		"id":          section.ID,
		"title":       section.Title,
		"description": section.Description,
		"attachments": attachments,
		"items":       items,
		"createdAt":   section.CreatedAt,
	}
}

func itemPayload(item store.Item) map[string]any {
	payload := map[string]any{
		"id":          item.ID,
		"title":       item.Title,
		"description": item.Description,
		"type":        item.Type,
		"reactions":   reactionPayloads(item.Reactions),
		"comments":    commentPayloads(item.Comments),
		"createdAt":   item.CreatedAt,
	}
	if item.FileURL != "" {
		payload["fileUrl"] = item.FileURL
	}
	if item.LinkURL != "" {
		payload["linkUrl"] = item.LinkURL
	}
	if item.Price != nil {
		payload["price"] = *item.Price
		payload["currency"] = item.Currency
	}
	if item.StoreName != "" {
		payload["storeName"] = item.StoreName
	}
	if item.StoreAddress != "" {
		payload["storeAddress"] = item.StoreAddress
	}
	return payload
}

func reactionPayloads(reactions []store.Reaction) []map[string]any {
	payload := make([]map[string]any, 0, len(reactions))
	for _, reaction := range reactions {
		payload = append(payload, map[string]any{
			"type":     reaction.Type,
			"userId":   reaction.UserID,
			"userName": reaction.UserName,
		})
	}
	return payload
}

func commentPayloads(comments []store.Comment) []map[string]any {
	payload := make([]map[string]any, 0, len(comments))
	for _, comment := range comments {
		entry := map[string]any{
			"id":        comment.ID,
			"userId":    comment.UserID,
			"userName":  comment.UserName,
			"content":   comment.Content,
			"createdAt": comment.CreatedAt,
		}
		if comment.UserAvatar != "" {
			entry["userAvatar"] = comment.UserAvatar
		}
		payload = append(payload, entry)
	}
	return payload
}
