package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"casaplan/api/internal/config"
	"casaplan/api/internal/store"
	"casaplan/api/internal/upload"
)

type fakeStore struct {
	getUserByIDFn           func(context.Context, string) (store.User, error)
	getProjectFn            func(context.Context, string) (store.Project, error)
	listProjectIDsForUserFn func(context.Context, string) ([]string, error)
	markMaterialsViewedFn   func(context.Context, string, string) error
	workspaceSectionsFn     func(context.Context, string) ([]store.Section, error)
	getSectionFn            func(context.Context, string, string) (store.Section, error)
	insertSectionFn         func(context.Context, store.Section) error
	updateSectionFn         func(context.Context, string, string, string, string, []store.Attachment) (bool, error)
	deleteSectionFn         func(context.Context, string, string) (bool, error)
	getItemFn               func(context.Context, string, string, string) (store.Item, error)
	insertItemFn            func(context.Context, store.Item) error
	deleteItemFn            func(context.Context, string, string) (bool, error)
	upsertReactionFn        func(context.Context, store.Reaction) error
	listItemReactionsFn     func(context.Context, string) ([]store.Reaction, error)
	insertCommentFn         func(context.Context, store.Comment) error
	listItemCommentsFn      func(context.Context, string) ([]store.Comment, error)
}

func (f *fakeStore) GetUserByID(ctx context.Context, userID string) (store.User, error) {
	if f.getUserByIDFn != nil {
		return f.getUserByIDFn(ctx, userID)
	}
	return store.User{ID: userID}, nil
}
func (f *fakeStore) RevokeAccessToken(context.Context, string, time.Time) error  { return nil }
func (f *fakeStore) IsAccessTokenRevoked(context.Context, string) (bool, error)  { return false, nil }
func (f *fakeStore) GetProject(ctx context.Context, projectID string) (store.Project, error) {
	if f.getProjectFn != nil {
		return f.getProjectFn(ctx, projectID)
	}
	return store.Project{}, sql.ErrNoRows
}
func (f *fakeStore) ListProjectIDsForUser(ctx context.Context, userID string) ([]string, error) {
	if f.listProjectIDsForUserFn != nil {
		return f.listProjectIDsForUserFn(ctx, userID)
	}
	return nil, nil
}
func (f *fakeStore) MarkMaterialsViewed(ctx context.Context, projectID, userID string) error {
	if f.markMaterialsViewedFn != nil {
		return f.markMaterialsViewedFn(ctx, projectID, userID)
	}
	return nil
}
func (f *fakeStore) WorkspaceSections(ctx context.Context, projectID string) ([]store.Section, error) {
	if f.workspaceSectionsFn != nil {
		return f.workspaceSectionsFn(ctx, projectID)
	}
	return nil, nil
}
func (f *fakeStore) GetSection(ctx context.Context, projectID, sectionID string) (store.Section, error) {
	if f.getSectionFn != nil {
		return f.getSectionFn(ctx, projectID, sectionID)
	}
	return store.Section{}, sql.ErrNoRows
}
func (f *fakeStore) InsertSection(ctx context.Context, section store.Section) error {
	if f.insertSectionFn != nil {
		return f.insertSectionFn(ctx, section)
	}
	return nil
}
func (f *fakeStore) UpdateSection(ctx context.Context, projectID, sectionID, title, description string, attachments []store.Attachment) (bool, error) {
	if f.updateSectionFn != nil {
		return f.updateSectionFn(ctx, projectID, sectionID, title, description, attachments)
	}
	return false, nil
}
func (f *fakeStore) DeleteSection(ctx context.Context, projectID, sectionID string) (bool, error) {
	if f.deleteSectionFn != nil {
		return f.deleteSectionFn(ctx, projectID, sectionID)
	}
	return false, nil
}
func (f *fakeStore) GetItem(ctx context.Context, projectID, sectionID, itemID string) (store.Item, error) {
	if f.getItemFn != nil {
		return f.getItemFn(ctx, projectID, sectionID, itemID)
	}
	return store.Item{}, sql.ErrNoRows
}
func (f *fakeStore) InsertItem(ctx context.Context, item store.Item) error {
	if f.insertItemFn != nil {
		return f.insertItemFn(ctx, item)
	}
	return nil
}
func (f *fakeStore) DeleteItem(ctx context.Context, sectionID, itemID string) (bool, error) {
	if f.deleteItemFn != nil {
		return f.deleteItemFn(ctx, sectionID, itemID)
	}
	return false, nil
}
func (f *fakeStore) UpsertReaction(ctx context.Context, reaction store.Reaction) error {
	if f.upsertReactionFn != nil {
		return f.upsertReactionFn(ctx, reaction)
	}
	return nil
}
func (f *fakeStore) ListItemReactions(ctx context.Context, itemID string) ([]store.Reaction, error) {
	if f.listItemReactionsFn != nil {
		return f.listItemReactionsFn(ctx, itemID)
	}
	return nil, nil
}
func (f *fakeStore) InsertComment(ctx context.Context, comment store.Comment) error {
	if f.insertCommentFn != nil {
		return f.insertCommentFn(ctx, comment)
	}
	return nil
}
func (f *fakeStore) ListItemComments(ctx context.Context, itemID string) ([]store.Comment, error) {
	if f.listItemCommentsFn != nil {
		return f.listItemCommentsFn(ctx, itemID)
	}
	return nil, nil
}
func (f *fakeStore) Ping(context.Context) error { return nil }

type fakeSessions struct {
	saved   map[string]store.User
	revoked []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{saved: make(map[string]store.User)}
}

func (f *fakeSessions) SaveRefreshSession(_ context.Context, tokenHash string, user store.User, _ time.Time) error {
	f.saved[tokenHash] = user
	return nil
}

func (f *fakeSessions) LookupRefreshSession(_ context.Context, tokenHash string) (store.User, error) {
	user, ok := f.saved[tokenHash]
	if !ok {
		return store.User{}, errors.New("token not found or expired")
	}
	return user, nil
}

func (f *fakeSessions) RevokeRefreshSession(_ context.Context, tokenHash string) error {
	f.revoked = append(f.revoked, tokenHash)
	delete(f.saved, tokenHash)
	return nil
}

func testConfig() config.Config {
	return config.Config{
		TokenSecret: "test-secret",
		AccessTTL:   time.Minute,
		RefreshTTL:  time.Hour,
	}
}

func newTestService(fs *fakeStore) *Service {
	return &Service{
		cfg:      testConfig(),
		store:    fs,
		sessions: newFakeSessions(),
	}
}

func memberStore() *fakeStore {
	return &fakeStore{
		getProjectFn: func(_ context.Context, projectID string) (store.Project, error) {
			return store.Project{ID: projectID, Title: "Kitchen Renovation", ClientID: "usr-client", ProfessionalID: "usr-pro"}, nil
		},
	}
}

var (
	clientSession = Session{UserID: "usr-client", UserName: "Sam", Role: "client"}
	proSession    = Session{UserID: "usr-pro", UserName: "Dana", Role: "professional"}
)

func domainCode(t *testing.T, err error) (int, string) {
	t.Helper()
	var derr *DomainError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	return derr.Status, derr.Code
}

func TestCreateSectionRequiresProfessional(t *testing.T) {
	fs := memberStore()
	inserted := false
	fs.insertSectionFn = func(context.Context, store.Section) error {
		inserted = true
		return nil
	}
	svc := newTestService(fs)

	_, err := svc.CreateSection(context.Background(), clientSession, "prj-1", "Tiles", "", nil)
	if status, code := domainCode(t, err); status != http.StatusForbidden || code != "FORBIDDEN" {
		t.Fatalf("expected 403 FORBIDDEN, got %d %s", status, code)
	}
	if inserted {
		t.Fatal("section must not be inserted when the role check fails")
	}
}

func TestCreateSectionValidatesTitle(t *testing.T) {
	fs := memberStore()
	inserted := false
	fs.insertSectionFn = func(context.Context, store.Section) error {
		inserted = true
		return nil
	}
	svc := newTestService(fs)

	_, err := svc.CreateSection(context.Background(), proSession, "prj-1", "   ", "", nil)
	if status, code := domainCode(t, err); status != http.StatusUnprocessableEntity || code != "VALIDATION_ERROR" {
		t.Fatalf("expected 422 VALIDATION_ERROR, got %d %s", status, code)
	}
	if inserted {
		t.Fatal("section must not be inserted when validation fails")
	}
}

func TestCreateSectionClassifiesAttachments(t *testing.T) {
	fs := memberStore()
	var captured store.Section
	fs.insertSectionFn = func(_ context.Context, section store.Section) error {
		captured = section
		return nil
	}
	fs.getSectionFn = func(_ context.Context, _, sectionID string) (store.Section, error) {
		captured.ID = sectionID
		return captured, nil
	}
	svc := newTestService(fs)

	payload, err := svc.CreateSection(context.Background(), proSession, "prj-1", "Tiles", "samples", []AttachmentInput{
		{FileName: "floorplan.pdf", FileURL: "https://cdn.example/floorplan.pdf"},
		{FileName: "mosaic.jpg", FileURL: "https://cdn.example/mosaic.jpg"},
	})
	if err != nil {
		t.Fatalf("CreateSection: %v", err)
	}
	if len(captured.Attachments) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(captured.Attachments))
	}
	if captured.Attachments[0].FileType != "document" || captured.Attachments[1].FileType != "image" {
		t.Fatalf("attachment classification wrong: %s, %s", captured.Attachments[0].FileType, captured.Attachments[1].FileType)
	}
	section, ok := payload["section"].(map[string]any)
	if !ok {
		t.Fatal("payload missing section")
	}
	if section["title"] != "Tiles" {
		t.Fatalf("unexpected section title %v", section["title"])
	}
}

func TestWorkspaceEmptyIsNotFound(t *testing.T) {
	fs := memberStore()
	fs.workspaceSectionsFn = func(context.Context, string) ([]store.Section, error) {
		return []store.Section{}, nil
	}
	svc := newTestService(fs)

	_, err := svc.Workspace(context.Background(), clientSession, "prj-1")
	if status, code := domainCode(t, err); status != http.StatusNotFound || code != "WORKSPACE_NOT_FOUND" {
		t.Fatalf("expected 404 WORKSPACE_NOT_FOUND, got %d %s", status, code)
	}
}

func TestWorkspaceRequiresMembership(t *testing.T) {
	fs := memberStore()
	svc := newTestService(fs)

	outsider := Session{UserID: "usr-other", Role: "client"}
	_, err := svc.Workspace(context.Background(), outsider, "prj-1")
	if status, code := domainCode(t, err); status != http.StatusForbidden || code != "FORBIDDEN" {
		t.Fatalf("expected 403 FORBIDDEN, got %d %s", status, code)
	}
}

func TestReactRequiresClient(t *testing.T) {
	fs := memberStore()
	svc := newTestService(fs)

	_, err := svc.React(context.Background(), proSession, "prj-1", "sec-1", "itm-1", "like")
	if status, code := domainCode(t, err); status != http.StatusForbidden || code != "FORBIDDEN" {
		t.Fatalf("expected 403 FORBIDDEN, got %d %s", status, code)
	}
}

func TestReactReturnsFullReplacementArray(t *testing.T) {
	fs := memberStore()
	fs.getItemFn = func(_ context.Context, _, _, itemID string) (store.Item, error) {
		return store.Item{ID: itemID}, nil
	}
	var upserted store.Reaction
	fs.upsertReactionFn = func(_ context.Context, reaction store.Reaction) error {
		upserted = reaction
		return nil
	}
	fs.listItemReactionsFn = func(context.Context, string) ([]store.Reaction, error) {
		return []store.Reaction{{ItemID: "itm-1", UserID: "usr-client", UserName: "Sam", Type: "love"}}, nil
	}
	svc := newTestService(fs)

	payload, err := svc.React(context.Background(), clientSession, "prj-1", "sec-1", "itm-1", "love")
	if err != nil {
		t.Fatalf("React: %v", err)
	}
	if upserted.UserID != "usr-client" || upserted.Type != "love" {
		t.Fatalf("unexpected upsert %+v", upserted)
	}
	reactions, ok := payload["reactions"].([]map[string]any)
	if !ok || len(reactions) != 1 {
		t.Fatalf("expected exactly one reaction in payload, got %v", payload["reactions"])
	}
	if reactions[0]["type"] != "love" {
		t.Fatalf("expected replacement type love, got %v", reactions[0]["type"])
	}
}

func TestReactRejectsUnknownType(t *testing.T) {
	fs := memberStore()
	svc := newTestService(fs)

	_, err := svc.React(context.Background(), clientSession, "prj-1", "sec-1", "itm-1", "dislike")
	if status, code := domainCode(t, err); status != http.StatusUnprocessableEntity || code != "VALIDATION_ERROR" {
		t.Fatalf("expected 422 VALIDATION_ERROR, got %d %s", status, code)
	}
}

func TestAddCommentTrimsAndValidates(t *testing.T) {
	fs := memberStore()
	inserted := false
	fs.insertCommentFn = func(context.Context, store.Comment) error {
		inserted = true
		return nil
	}
	svc := newTestService(fs)

	_, err := svc.AddComment(context.Background(), clientSession, "prj-1", "sec-1", "itm-1", "   ")
	if status, code := domainCode(t, err); status != http.StatusUnprocessableEntity || code != "VALIDATION_ERROR" {
		t.Fatalf("expected 422 VALIDATION_ERROR, got %d %s", status, code)
	}
	if inserted {
		t.Fatal("comment must not be inserted when validation fails")
	}
}

func TestAddCommentBothRoles(t *testing.T) {
	for _, session := range []Session{clientSession, proSession} {
		fs := memberStore()
		fs.getItemFn = func(_ context.Context, _, _, itemID string) (store.Item, error) {
			return store.Item{ID: itemID}, nil
		}
		var captured store.Comment
		fs.insertCommentFn = func(_ context.Context, comment store.Comment) error {
			captured = comment
			return nil
		}
		fs.listItemCommentsFn = func(context.Context, string) ([]store.Comment, error) {
			return []store.Comment{captured}, nil
		}
		svc := newTestService(fs)

		payload, err := svc.AddComment(context.Background(), session, "prj-1", "sec-1", "itm-1", "  looks great  ")
		if err != nil {
			t.Fatalf("AddComment as %s: %v", session.Role, err)
		}
		if captured.Content != "looks great" {
			t.Fatalf("content not trimmed: %q", captured.Content)
		}
		comments, ok := payload["comments"].([]map[string]any)
		if !ok || len(comments) != 1 {
			t.Fatalf("expected replacement comments array, got %v", payload["comments"])
		}
	}
}

func TestCreateItemTypeConditionalFields(t *testing.T) {
	price := 1450.0
	tests := []struct {
		name  string
		input ItemInput
		check func(t *testing.T, item store.Item)
	}{
		{
			name:  "link keeps only linkUrl",
			input: ItemInput{Title: "Tile shop", Type: "link", LinkURL: "https://shop.example", FileURL: "https://cdn.example/x.png", Price: &price},
			check: func(t *testing.T, item store.Item) {
				if item.LinkURL != "https://shop.example" || item.FileURL != "" || item.Price != nil {
					t.Fatalf("link fields wrong: %+v", item)
				}
			},
		},
		{
			name:  "product keeps price and store",
			input: ItemInput{Title: "Marble top", Type: "product", Price: &price, Currency: "EUR", StoreName: "StoneWorks", FileURL: "https://cdn.example/x.png"},
			check: func(t *testing.T, item store.Item) {
				if item.Price == nil || *item.Price != price || item.StoreName != "StoneWorks" || item.FileURL != "" {
					t.Fatalf("product fields wrong: %+v", item)
				}
			},
		},
		{
			name:  "image keeps only fileUrl",
			input: ItemInput{Title: "Moodboard", Type: "image", FileURL: "https://cdn.example/mood.jpg", LinkURL: "https://x.example", Price: &price},
			check: func(t *testing.T, item store.Item) {
				if item.FileURL != "https://cdn.example/mood.jpg" || item.LinkURL != "" || item.Price != nil {
					t.Fatalf("image fields wrong: %+v", item)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memberStore()
			fs.getSectionFn = func(_ context.Context, _, sectionID string) (store.Section, error) {
				return store.Section{ID: sectionID}, nil
			}
			var captured store.Item
			fs.insertItemFn = func(_ context.Context, item store.Item) error {
				captured = item
				return nil
			}
			svc := newTestService(fs)

			if _, err := svc.CreateItem(context.Background(), proSession, "prj-1", "sec-1", tt.input); err != nil {
				t.Fatalf("CreateItem: %v", err)
			}
			tt.check(t, captured)
		})
	}
}

func TestCreateItemRejectsUnknownType(t *testing.T) {
	fs := memberStore()
	svc := newTestService(fs)

	_, err := svc.CreateItem(context.Background(), proSession, "prj-1", "sec-1", ItemInput{Title: "x", Type: "video"})
	if status, code := domainCode(t, err); status != http.StatusUnprocessableEntity || code != "VALIDATION_ERROR" {
		t.Fatalf("expected 422 VALIDATION_ERROR, got %d %s", status, code)
	}
}

func TestDeleteItemRequiresProfessionalAndConfirms(t *testing.T) {
	fs := memberStore()
	fs.getSectionFn = func(_ context.Context, _, sectionID string) (store.Section, error) {
		return store.Section{ID: sectionID}, nil
	}
	var deletedSection, deletedItem string
	fs.deleteItemFn = func(_ context.Context, sectionID, itemID string) (bool, error) {
		deletedSection, deletedItem = sectionID, itemID
		return true, nil
	}
	svc := newTestService(fs)

	if _, err := svc.DeleteItem(context.Background(), clientSession, "prj-1", "sec-1", "itm-1"); err == nil {
		t.Fatal("client must not delete items")
	}
	if deletedItem != "" {
		t.Fatal("delete must not reach the store for a client")
	}

	payload, err := svc.DeleteItem(context.Background(), proSession, "prj-1", "sec-1", "itm-1")
	if err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if deletedSection != "sec-1" || deletedItem != "itm-1" {
		t.Fatalf("wrong delete target %s/%s", deletedSection, deletedItem)
	}
	if payload["ok"] != true {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestUpdateSectionNotFound(t *testing.T) {
	fs := memberStore()
	fs.updateSectionFn = func(context.Context, string, string, string, string, []store.Attachment) (bool, error) {
		return false, nil
	}
	svc := newTestService(fs)

	_, err := svc.UpdateSection(context.Background(), proSession, "prj-1", "sec-missing", "Tiles", "", nil)
	if status, code := domainCode(t, err); status != http.StatusNotFound || code != "NOT_FOUND" {
		t.Fatalf("expected 404 NOT_FOUND, got %d %s", status, code)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	fs := &fakeStore{
		getUserByIDFn: func(_ context.Context, userID string) (store.User, error) {
			return store.User{ID: userID, DisplayName: "Sam", Role: "client"}, nil
		},
	}
	sessions := newFakeSessions()
	svc := &Service{cfg: testConfig(), store: fs, sessions: sessions}

	first, err := svc.CreateSession(context.Background(), "usr-client")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("refresh must rotate the refresh token")
	}
	if len(sessions.revoked) == 0 {
		t.Fatal("old refresh token must be revoked")
	}

	if _, err := svc.Refresh(context.Background(), first.RefreshToken); err == nil {
		t.Fatal("used refresh token must not be accepted again")
	}
}

func TestSessionFromTokenReflectsCurrentRole(t *testing.T) {
	role := "client"
	fs := &fakeStore{
		getUserByIDFn: func(_ context.Context, userID string) (store.User, error) {
			return store.User{ID: userID, DisplayName: "Sam", Role: role}, nil
		},
	}
	svc := &Service{cfg: testConfig(), store: fs, sessions: newFakeSessions()}

	created, err := svc.CreateSession(context.Background(), "usr-client")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	role = "professional"
	session, err := svc.SessionFromToken(context.Background(), created.Token)
	if err != nil {
		t.Fatalf("SessionFromToken: %v", err)
	}
	if session.Role != "professional" {
		t.Fatalf("expected refreshed role, got %s", session.Role)
	}
}

func TestUploadRejectedBeforeStore(t *testing.T) {
	svc := &Service{cfg: testConfig(), store: &fakeStore{}, sessions: newFakeSessions(), uploads: rejectingUploadStore{t: t}}

	_, err := svc.Upload(context.Background(), "malware.exe", "application/x-msdownload", 100, strings.NewReader("x"), false)
	if status, code := domainCode(t, err); status != http.StatusUnprocessableEntity || code != "UPLOAD_REJECTED" {
		t.Fatalf("expected 422 UPLOAD_REJECTED, got %d %s", status, code)
	}
}

type rejectingUploadStore struct {
	t *testing.T
}

func (r rejectingUploadStore) Put(context.Context, upload.PutRequest) (upload.PutResult, error) {
	r.t.Fatal("object store must not be touched for a rejected upload")
	return upload.PutResult{}, nil
}
