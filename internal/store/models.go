package store

import "time"

type User struct {
	ID                    string
	DisplayName           string
	Email                 string
	PasswordHash          string
	Role                  string
	AvatarURL             string
	IsEmailVerified       bool
	VerificationToken     string
	VerificationExpiresAt *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Project is a job connecting one client with one professional. The project
// workspace has no lifecycle of its own: it exists once the project's first
// section is created.
type Project struct {
	ID             string
	Title          string
	ClientID       string
	ProfessionalID string
	CreatedAt      time.Time
}

type Section struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	Attachments []Attachment
	Items       []Item
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Attachment struct {
	ID         string
	SectionID  string
	FileName   string
	FileURL    string
	FileType   string
	FileSize   int64
	UploadedAt time.Time
}

type Item struct {
	ID           string
	SectionID    string
	Title        string
	Description  string
	Type         string
	FileURL      string
	LinkURL      string
	Price        *float64
	Currency     string
	StoreName    string
	StoreAddress string
	Reactions    []Reaction
	Comments     []Comment
	CreatedAt    time.Time
}

type Reaction struct {
	ItemID    string
	UserID    string
	UserName  string
	Type      string
	CreatedAt time.Time
}

type Comment struct {
	ID         string
	ItemID     string
	UserID     string
	UserName   string
	UserAvatar string
	Content    string
	CreatedAt  time.Time
}
