package workspace

import (
	"context"
	"errors"
	"strings"
	"sync"

	"casaplan/api/internal/rbac"
)

// Session is the identity the manager acts under.
type Session struct {
	UserID   string
	UserName string
	Role     string
}

// CanMutate reports whether the session's role may perform the action.
func (s Session) CanMutate(action rbac.Action) bool {
	return rbac.Can(rbac.Normalize(s.Role), action)
}

// Manager holds the local workspace tree for one project and keeps it
// consistent with the server. All mutations go through the Repository first;
// local state changes only after the server confirms. Safe for concurrent
// use.
type Manager struct {
	repo      Repository
	session   Session
	projectID string

	mu       sync.Mutex
	sections []Section
	inflight map[string]struct{}
}

func NewManager(repo Repository, session Session, projectID string) *Manager {
	return &Manager{
		repo:      repo,
		session:   session,
		projectID: projectID,
		sections:  []Section{},
		inflight:  make(map[string]struct{}),
	}
}

// begin reserves an operation key, rejecting a duplicate while the first
// call is still unresolved.
func (m *Manager) begin(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, pending := m.inflight[key]; pending {
		return ErrOperationPending
	}
	m.inflight[key] = struct{}{}
	return nil
}

func (m *Manager) end(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inflight, key)
}

// Load replaces the tree with the server's view. A missing workspace means
// an empty tree, not a failure. Expansion state carries over for sections
// that survive the reload; any other error leaves the previous tree intact.
// Overlapping loads are rejected like any other pending operation: a slow
// first fetch must not land after a fresh one and roll the tree back.
func (m *Manager) Load(ctx context.Context) error {
	if err := m.begin("load"); err != nil {
		return err
	}
	defer m.end("load")

	fetched, err := m.repo.FetchWorkspace(ctx, m.projectID)
	if errors.Is(err, ErrNotFound) {
		m.mu.Lock()
		m.sections = []Section{}
		m.mu.Unlock()
		return nil
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	expanded := make(map[string]bool, len(m.sections))
	for _, section := range m.sections {
		expanded[section.ID] = section.IsExpanded
	}
	for i := range fetched {
		fetched[i].IsExpanded = expanded[fetched[i].ID]
	}
	m.sections = fetched
	return nil
}

// MarkViewed records that the session has seen the current materials.
func (m *Manager) MarkViewed() {
	m.repo.MarkViewed(m.projectID)
}

// CreateSection validates locally, then appends the server's section. New
// sections start expanded.
func (m *Manager) CreateSection(ctx context.Context, req SectionRequest) (Section, error) {
	if !m.session.CanMutate(rbac.ActionManageSections) {
		return Section{}, ErrForbidden
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return Section{}, ErrValidation
	}
	if err := m.begin("create-section"); err != nil {
		return Section{}, err
	}
	defer m.end("create-section")

	created, err := m.repo.CreateSection(ctx, m.projectID, req)
	if err != nil {
		return Section{}, err
	}
	created.IsExpanded = true

	m.mu.Lock()
	m.sections = append(m.sections, created)
	m.mu.Unlock()
	return created, nil
}

// UpdateSection merges the server's section back by id. The server reply
// may omit items; the local items survive in that case, as does the
// expansion flag.
func (m *Manager) UpdateSection(ctx context.Context, sectionID string, req SectionRequest) (Section, error) {
	if !m.session.CanMutate(rbac.ActionManageSections) {
		return Section{}, ErrForbidden
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return Section{}, ErrValidation
	}
	if err := m.begin("section:" + sectionID); err != nil {
		return Section{}, err
	}
	defer m.end("section:" + sectionID)

	updated, err := m.repo.UpdateSection(ctx, m.projectID, sectionID, req)
	if err != nil {
		return Section{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	merged := m.applySection(updated)
	return merged, nil
}

// DeleteSection removes the section and everything under it, but only after
// the server confirms.
func (m *Manager) DeleteSection(ctx context.Context, sectionID string) error {
	if !m.session.CanMutate(rbac.ActionManageSections) {
		return ErrForbidden
	}
	if err := m.begin("section:" + sectionID); err != nil {
		return err
	}
	defer m.end("section:" + sectionID)

	if err := m.repo.DeleteSection(ctx, m.projectID, sectionID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sections {
		if m.sections[i].ID == sectionID {
			m.sections = append(m.sections[:i], m.sections[i+1:]...)
			break
		}
	}
	return nil
}

// CreateItem adds the server's item to the named section. The section must
// already be known locally.
func (m *Manager) CreateItem(ctx context.Context, sectionID string, req ItemRequest) (Item, error) {
	if !m.session.CanMutate(rbac.ActionManageItems) {
		return Item{}, ErrForbidden
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Type == "" {
		return Item{}, ErrValidation
	}
	if m.findSection(sectionID) == nil {
		return Item{}, ErrNotFound
	}
	if err := m.begin("items:" + sectionID); err != nil {
		return Item{}, err
	}
	defer m.end("items:" + sectionID)

	created, err := m.repo.CreateItem(ctx, m.projectID, sectionID, req)
	if err != nil {
		return Item{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sections {
		if m.sections[i].ID == sectionID {
			m.sections[i].Items = append(m.sections[i].Items, created)
			break
		}
	}
	return created, nil
}

// DeleteItem removes the item after the server confirms.
func (m *Manager) DeleteItem(ctx context.Context, sectionID, itemID string) error {
	if !m.session.CanMutate(rbac.ActionManageItems) {
		return ErrForbidden
	}
	if err := m.begin("item:" + itemID); err != nil {
		return err
	}
	defer m.end("item:" + itemID)

	if err := m.repo.DeleteItem(ctx, m.projectID, sectionID, itemID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sections {
		if m.sections[i].ID != sectionID {
			continue
		}
		items := m.sections[i].Items
		for j := range items {
			if items[j].ID == itemID {
				m.sections[i].Items = append(items[:j], items[j+1:]...)
				break
			}
		}
		break
	}
	return nil
}

// React sets the session user's reaction on an item. The server returns the
// item's full reaction list, which replaces the local one wholesale.
func (m *Manager) React(ctx context.Context, sectionID, itemID, reactionType string) ([]Reaction, error) {
	if !m.session.CanMutate(rbac.ActionReact) {
		return nil, ErrForbidden
	}
	if reactionType == "" {
		return nil, ErrValidation
	}
	if err := m.begin("react:" + itemID); err != nil {
		return nil, err
	}
	defer m.end("react:" + itemID)

	reactions, err := m.repo.React(ctx, m.projectID, sectionID, itemID, reactionType)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if item := m.findItemLocked(sectionID, itemID); item != nil {
		item.Reactions = reactions
	}
	return reactions, nil
}

// AddComment appends a comment to an item. The server returns the item's
// full comment list, which replaces the local one wholesale.
func (m *Manager) AddComment(ctx context.Context, sectionID, itemID, content string) ([]Comment, error) {
	if !m.session.CanMutate(rbac.ActionComment) {
		return nil, ErrForbidden
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrValidation
	}
	if err := m.begin("comment:" + itemID); err != nil {
		return nil, err
	}
	defer m.end("comment:" + itemID)

	comments, err := m.repo.AddComment(ctx, m.projectID, sectionID, itemID, content)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if item := m.findItemLocked(sectionID, itemID); item != nil {
		item.Comments = comments
	}
	return comments, nil
}

// Upload pushes a file through the repository's validation and storage.
func (m *Manager) Upload(ctx context.Context, file UploadFile) (UploadResult, error) {
	return m.repo.Upload(ctx, file)
}

// ToggleSectionExpanded flips the UI expansion flag. Purely local.
func (m *Manager) ToggleSectionExpanded(sectionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sections {
		if m.sections[i].ID == sectionID {
			m.sections[i].IsExpanded = !m.sections[i].IsExpanded
			return
		}
	}
}

// Sections returns a deep copy of the tree for rendering. Writes through the
// result never reach the manager's state.
func (m *Manager) Sections() []Section {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Section, len(m.sections))
	for i := range m.sections {
		out[i] = cloneSection(m.sections[i])
	}
	return out
}

// Section returns a deep copy of one section by id.
func (m *Manager) Section(sectionID string) (Section, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sections {
		if m.sections[i].ID == sectionID {
			return cloneSection(m.sections[i]), true
		}
	}
	return Section{}, false
}

// cloneSection copies a section along with every nested slice so the result
// shares no backing arrays with the tree.
func cloneSection(s Section) Section {
	out := s
	out.Attachments = append([]Attachment(nil), s.Attachments...)
	out.Items = make([]Item, len(s.Items))
	for i, item := range s.Items {
		item.Reactions = append([]Reaction(nil), item.Reactions...)
		item.Comments = append([]Comment(nil), item.Comments...)
		out.Items[i] = item
	}
	return out
}

// applySection reconciles a server section into the tree by id. Applying
// the same server response twice leaves the tree unchanged. Caller holds mu.
func (m *Manager) applySection(server Section) Section {
	for i := range m.sections {
		if m.sections[i].ID != server.ID {
			continue
		}
		server.IsExpanded = m.sections[i].IsExpanded
		if len(server.Items) == 0 && len(m.sections[i].Items) > 0 {
			server.Items = m.sections[i].Items
		}
		m.sections[i] = server
		return server
	}
	m.sections = append(m.sections, server)
	return server
}

func (m *Manager) findSection(sectionID string) *Section {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sections {
		if m.sections[i].ID == sectionID {
			return &m.sections[i]
		}
	}
	return nil
}

// findItemLocked returns a pointer into the tree. Caller holds mu.
func (m *Manager) findItemLocked(sectionID, itemID string) *Item {
	for i := range m.sections {
		if m.sections[i].ID != sectionID {
			continue
		}
		for j := range m.sections[i].Items {
			if m.sections[i].Items[j].ID == itemID {
				return &m.sections[i].Items[j]
			}
		}
	}
	return nil
}
