package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ---- users ----

func (s *PostgresStore) CreateUser(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, display_name, email, password_hash, role, avatar_url, verification_token, verification_expires_at)
		VALUES ($1, $2, LOWER($3), $4, $5, $6, $7, $8)
	`, user.ID, user.DisplayName, user.Email, user.PasswordHash, user.Role, user.AvatarURL, user.VerificationToken, user.VerificationExpiresAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	const query = `
		SELECT id, display_name, email, password_hash, role, avatar_url, is_email_verified
		FROM users WHERE email = LOWER($1)
	`
	var user User
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.DisplayName, &user.Email, &user.PasswordHash, &user.Role, &user.AvatarURL, &user.IsEmailVerified)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, userID string) (User, error) {
	const query = `
		SELECT id, display_name, email, password_hash, role, avatar_url, is_email_verified
		FROM users WHERE id = $1
	`
	var user User
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID, &user.DisplayName, &user.Email, &user.PasswordHash, &user.Role, &user.AvatarURL, &user.IsEmailVerified)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) UpdateUserVerificationToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET verification_token=$2, verification_expires_at=$3, updated_at=NOW() WHERE id=$1
	`, userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("update verification token: %w", err)
	}
	return nil
}

func (s *PostgresStore) VerifyUserEmail(ctx context.Context, token string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET is_email_verified=TRUE, verification_token='', verification_expires_at=NULL, updated_at=NOW()
		WHERE verification_token=$1 AND verification_expires_at > NOW()
	`, token)
	if err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("verify email rows: %w", err)
	}
	if affected == 0 {
		return errors.New("invalid or expired verification token")
	}
	return nil
}

func (s *PostgresStore) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash=$2, updated_at=NOW() WHERE id=$1`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreatePasswordReset(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO password_resets (token, user_id, expires_at) VALUES ($1, $2, $3)
	`, token, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("create password reset: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPasswordReset(ctx context.Context, token string) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id FROM password_resets WHERE token=$1 AND expires_at > NOW() AND used_at IS NULL
	`, token).Scan(&userID)
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *PostgresStore) MarkPasswordResetUsed(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE password_resets SET used_at=NOW() WHERE token=$1`, token)
	if err != nil {
		return fmt.Errorf("mark password reset used: %w", err)
	}
	return nil
}

// ---- sessions ----

func (s *PostgresStore) SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_sessions (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO UPDATE SET user_id=EXCLUDED.user_id, expires_at=EXCLUDED.expires_at, revoked_at=NULL
	`, tokenHash, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) LookupRefreshSession(ctx context.Context, tokenHash string) (User, error) {
	const query = `
		SELECT u.id, u.display_name, u.role, u.avatar_url
		FROM refresh_sessions rs
		JOIN users u ON u.id = rs.user_id
		WHERE rs.token_hash = $1
			AND rs.revoked_at IS NULL
			AND rs.expires_at > NOW()
	`
	var user User
	err := s.db.QueryRowContext(ctx, query, tokenHash).Scan(&user.ID, &user.DisplayName, &user.Role, &user.AvatarURL)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE refresh_sessions SET revoked_at=NOW() WHERE token_hash=$1`, tokenHash)
	if err != nil {
		return fmt.Errorf("revoke refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) RevokeAccessToken(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revoked_access_tokens (jti, expires_at) VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING
	`, jti, expiresAt)
	if err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM revoked_access_tokens WHERE jti=$1 AND expires_at > NOW())
	`, jti).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return revoked, nil
}

// ---- projects ----

func (s *PostgresStore) InsertProject(ctx context.Context, project Project) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, title, client_id, professional_id) VALUES ($1, $2, $3, $4)
	`, project.ID, project.Title, project.ClientID, project.ProfessionalID)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetProject(ctx context.Context, projectID string) (Project, error) {
	var project Project
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, client_id, professional_id, created_at FROM projects WHERE id=$1
	`, projectID).Scan(&project.ID, &project.Title, &project.ClientID, &project.ProfessionalID, &project.CreatedAt)
	if err != nil {
		return Project{}, err
	}
	return project, nil
}

// ListProjectIDsForUser returns all projects the user participates in, as
// client or professional.
func (s *PostgresStore) ListProjectIDsForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM projects WHERE client_id=$1 OR professional_id=$1 ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects for user: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan project id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresStore) MarkMaterialsViewed(ctx context.Context, projectID, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO material_views (project_id, user_id, viewed_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (project_id, user_id) DO UPDATE SET viewed_at=NOW()
	`, projectID, userID)
	if err != nil {
		return fmt.Errorf("mark materials viewed: %w", err)
	}
	return nil
}

// ---- workspace tree ----

// WorkspaceSections loads the full section tree for a project in insertion
// order: sections with their attachments, items, reactions, and comments.
func (s *PostgresStore) WorkspaceSections(ctx context.Context, projectID string) ([]Section, error) {
	sections, err := s.listSections(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return sections, nil
	}

	index := make(map[string]*Section, len(sections))
	for i := range sections {
		index[sections[i].ID] = &sections[i]
	}

	if err := s.attachAttachments(ctx, projectID, index); err != nil {
		return nil, err
	}

	items, itemIndex, err := s.listItems(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.attachReactions(ctx, projectID, itemIndex); err != nil {
		return nil, err
	}
	if err := s.attachComments(ctx, projectID, itemIndex); err != nil {
		return nil, err
	}
	for _, item := range items {
		if section, ok := index[item.SectionID]; ok {
			section.Items = append(section.Items, *itemIndex[item.ID])
		}
	}

	return sections, nil
}

func (s *PostgresStore) listSections(ctx context.Context, projectID string) ([]Section, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, title, description, created_at, updated_at
		FROM sections WHERE project_id=$1
		ORDER BY created_at, id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []Section
	for rows.Next() {
		var section Section
		if err := rows.Scan(&section.ID, &section.ProjectID, &section.Title, &section.Description, &section.CreatedAt, &section.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		section.Attachments = []Attachment{}
		section.Items = []Item{}
		sections = append(sections, section)
	}
	return sections, rows.Err()
}

func (s *PostgresStore) attachAttachments(ctx context.Context, projectID string, index map[string]*Section) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.section_id, a.file_name, a.file_url, a.file_type, a.file_size, a.uploaded_at
		FROM section_attachments a
		JOIN sections s ON s.id = a.section_id
		WHERE s.project_id=$1
		ORDER BY a.uploaded_at, a.id
	`, projectID)
	if err != nil {
		return fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var att Attachment
		if err := rows.Scan(&att.ID, &att.SectionID, &att.FileName, &att.FileURL, &att.FileType, &att.FileSize, &att.UploadedAt); err != nil {
			return fmt.Errorf("scan attachment: %w", err)
		}
		if section, ok := index[att.SectionID]; ok {
			section.Attachments = append(section.Attachments, att)
		}
	}
	return rows.Err()
}

func (s *PostgresStore) listItems(ctx context.Context, projectID string) ([]Item, map[string]*Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.section_id, i.title, i.description, i.item_type, i.file_url, i.link_url,
			i.price, i.currency, i.store_name, i.store_address, i.created_at
		FROM items i
		JOIN sections s ON s.id = i.section_id
		WHERE s.project_id=$1
		ORDER BY i.created_at, i.id
	`, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.SectionID, &item.Title, &item.Description, &item.Type, &item.FileURL, &item.LinkURL,
			&item.Price, &item.Currency, &item.StoreName, &item.StoreAddress, &item.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("scan item: %w", err)
		}
		item.Reactions = []Reaction{}
		item.Comments = []Comment{}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	index := make(map[string]*Item, len(items))
	for i := range items {
		index[items[i].ID] = &items[i]
	}
	return items, index, nil
}

func (s *PostgresStore) attachReactions(ctx context.Context, projectID string, index map[string]*Item) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.item_id, r.user_id, r.user_name, r.reaction_type, r.created_at
		FROM item_reactions r
		JOIN items i ON i.id = r.item_id
		JOIN sections s ON s.id = i.section_id
		WHERE s.project_id=$1
		ORDER BY r.created_at
	`, projectID)
	if err != nil {
		return fmt.Errorf("list reactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var reaction Reaction
		if err := rows.Scan(&reaction.ItemID, &reaction.UserID, &reaction.UserName, &reaction.Type, &reaction.CreatedAt); err != nil {
			return fmt.Errorf("scan reaction: %w", err)
		}
		if item, ok := index[reaction.ItemID]; ok {
			item.Reactions = append(item.Reactions, reaction)
		}
	}
	return rows.Err()
}

func (s *PostgresStore) attachComments(ctx context.Context, projectID string, index map[string]*Item) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.item_id, c.user_id, c.user_name, c.user_avatar, c.content, c.created_at
		FROM item_comments c
		JOIN items i ON i.id = c.item_id
		JOIN sections s ON s.id = i.section_id
		WHERE s.project_id=$1
		ORDER BY c.created_at, c.id
	`, projectID)
	if err != nil {
		return fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var comment Comment
		if err := rows.Scan(&comment.ID, &comment.ItemID, &comment.UserID, &comment.UserName, &comment.UserAvatar, &comment.Content, &comment.CreatedAt); err != nil {
			return fmt.Errorf("scan comment: %w", err)
		}
		if item, ok := index[comment.ItemID]; ok {
			item.Comments = append(item.Comments, comment)
		}
	}
	return rows.Err()
}

// ---- sections ----

func (s *PostgresStore) GetSection(ctx context.Context, projectID, sectionID string) (Section, error) {
	var section Section
	err := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, title, description, created_at, updated_at
		FROM sections WHERE id=$1 AND project_id=$2
	`, sectionID, projectID).Scan(&section.ID, &section.ProjectID, &section.Title, &section.Description, &section.CreatedAt, &section.UpdatedAt)
	if err != nil {
		return Section{}, err
	}
	section.Attachments, err = s.sectionAttachments(ctx, sectionID)
	if err != nil {
		return Section{}, err
	}
	section.Items = []Item{}
	return section, nil
}

func (s *PostgresStore) sectionAttachments(ctx context.Context, sectionID string) ([]Attachment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, section_id, file_name, file_url, file_type, file_size, uploaded_at
		FROM section_attachments WHERE section_id=$1
		ORDER BY uploaded_at, id
	`, sectionID)
	if err != nil {
		return nil, fmt.Errorf("list section attachments: %w", err)
	}
	defer rows.Close()

	attachments := []Attachment{}
	for rows.Next() {
		var att Attachment
		if err := rows.Scan(&att.ID, &att.SectionID, &att.FileName, &att.FileURL, &att.FileType, &att.FileSize, &att.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan section attachment: %w", err)
		}
		attachments = append(attachments, att)
	}
	return attachments, rows.Err()
}

func (s *PostgresStore) InsertSection(ctx context.Context, section Section) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert section: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sections (id, project_id, title, description) VALUES ($1, $2, $3, $4)
	`, section.ID, section.ProjectID, section.Title, section.Description); err != nil {
		return fmt.Errorf("insert section: %w", err)
	}

	for _, att := range section.Attachments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO section_attachments (id, section_id, file_name, file_url, file_type, file_size)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, att.ID, section.ID, att.FileName, att.FileURL, att.FileType, att.FileSize); err != nil {
			return fmt.Errorf("insert attachment: %w", err)
		}
	}

	return tx.Commit()
}

// UpdateSection updates title/description and, when attachments is non-nil,
// replaces the section's attachment list. Returns false if the section does
// not exist in the project.
func (s *PostgresStore) UpdateSection(ctx context.Context, projectID, sectionID, title, description string, attachments []Attachment) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin update section: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE sections SET title=$3, description=$4, updated_at=NOW()
		WHERE id=$1 AND project_id=$2
	`, sectionID, projectID, title, description)
	if err != nil {
		return false, fmt.Errorf("update section: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update section rows: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if attachments != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM section_attachments WHERE section_id=$1`, sectionID); err != nil {
			return false, fmt.Errorf("clear attachments: %w", err)
		}
		for _, att := range attachments {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO section_attachments (id, section_id, file_name, file_url, file_type, file_size)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, att.ID, sectionID, att.FileName, att.FileURL, att.FileType, att.FileSize); err != nil {
				return false, fmt.Errorf("insert attachment: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *PostgresStore) DeleteSection(ctx context.Context, projectID, sectionID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM sections WHERE id=$1 AND project_id=$2
	`, sectionID, projectID)
	if err != nil {
		return false, fmt.Errorf("delete section: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete section rows: %w", err)
	}
	return affected > 0, nil
}

// ---- items ----

func (s *PostgresStore) GetItem(ctx context.Context, projectID, sectionID, itemID string) (Item, error) {
	var item Item
	err := s.db.QueryRowContext(ctx, `
		SELECT i.id, i.section_id, i.title, i.description, i.item_type, i.file_url, i.link_url,
			i.price, i.currency, i.store_name, i.store_address, i.created_at
		FROM items i
		JOIN sections s ON s.id = i.section_id
		WHERE i.id=$1 AND i.section_id=$2 AND s.project_id=$3
	`, itemID, sectionID, projectID).Scan(&item.ID, &item.SectionID, &item.Title, &item.Description, &item.Type,
		&item.FileURL, &item.LinkURL, &item.Price, &item.Currency, &item.StoreName, &item.StoreAddress, &item.CreatedAt)
	if err != nil {
		return Item{}, err
	}
	item.Reactions = []Reaction{}
	item.Comments = []Comment{}
	return item, nil
}

func (s *PostgresStore) InsertItem(ctx context.Context, item Item) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, section_id, title, description, item_type, file_url, link_url, price, currency, store_name, store_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, item.ID, item.SectionID, item.Title, item.Description, item.Type, item.FileURL, item.LinkURL,
		item.Price, item.Currency, item.StoreName, item.StoreAddress)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteItem(ctx context.Context, sectionID, itemID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM items WHERE id=$1 AND section_id=$2
	`, itemID, sectionID)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete item rows: %w", err)
	}
	return affected > 0, nil
}

// ---- reactions ----

// UpsertReaction replaces the user's prior reaction on the item, if any. The
// (item_id, user_id) primary key enforces one reaction per user.
func (s *PostgresStore) UpsertReaction(ctx context.Context, reaction Reaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO item_reactions (item_id, user_id, user_name, reaction_type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id, user_id) DO UPDATE SET reaction_type=EXCLUDED.reaction_type, user_name=EXCLUDED.user_name, created_at=NOW()
	`, reaction.ItemID, reaction.UserID, reaction.UserName, reaction.Type)
	if err != nil {
		return fmt.Errorf("upsert reaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListItemReactions(ctx context.Context, itemID string) ([]Reaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, user_id, user_name, reaction_type, created_at
		FROM item_reactions WHERE item_id=$1
		ORDER BY created_at
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list item reactions: %w", err)
	}
	defer rows.Close()

	reactions := []Reaction{}
	for rows.Next() {
		var reaction Reaction
		if err := rows.Scan(&reaction.ItemID, &reaction.UserID, &reaction.UserName, &reaction.Type, &reaction.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reaction: %w", err)
		}
		reactions = append(reactions, reaction)
	}
	return reactions, rows.Err()
}

// ---- comments ----

func (s *PostgresStore) InsertComment(ctx context.Context, comment Comment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO item_comments (id, item_id, user_id, user_name, user_avatar, content)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, comment.ID, comment.ItemID, comment.UserID, comment.UserName, comment.UserAvatar, comment.Content)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListItemComments(ctx context.Context, itemID string) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_id, user_id, user_name, user_avatar, content, created_at
		FROM item_comments WHERE item_id=$1
		ORDER BY created_at, id
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list item comments: %w", err)
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var comment Comment
		if err := rows.Scan(&comment.ID, &comment.ItemID, &comment.UserID, &comment.UserName, &comment.UserAvatar, &comment.Content, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}
