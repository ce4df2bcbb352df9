// Package workspace maintains the client-side section/item tree for one
// project and reconciles server responses into it.
package workspace

import (
	"time"

	"casaplan/api/internal/util"
)

// Attachment is a file bound to a section, grouped for display by FileType.
type Attachment struct {
	ID         string    `json:"id"`
	LegacyID   string    `json:"_id,omitempty"`
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileUrl"`
	FileType   string    `json:"fileType"`
	FileSize   int64     `json:"fileSize,omitempty"`
	UploadedAt time.Time `json:"uploadedAt,omitempty"`
}

// Reaction is one user's sentiment mark on an item. The server guarantees at
// most one per user.
type Reaction struct {
	Type     string `json:"type"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

type Comment struct {
	ID         string    `json:"id"`
	LegacyID   string    `json:"_id,omitempty"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	UserAvatar string    `json:"userAvatar,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

type Item struct {
	ID           string     `json:"id"`
	LegacyID     string     `json:"_id,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Type         string     `json:"type"`
	FileURL      string     `json:"fileUrl,omitempty"`
	LinkURL      string     `json:"linkUrl,omitempty"`
	Price        *float64   `json:"price,omitempty"`
	Currency     string     `json:"currency,omitempty"`
	StoreName    string     `json:"storeName,omitempty"`
	StoreAddress string     `json:"storeAddress,omitempty"`
	Reactions    []Reaction `json:"reactions"`
	Comments     []Comment  `json:"comments"`
	CreatedAt    time.Time  `json:"createdAt,omitempty"`
}

// Section is a named grouping of items and attachments. IsExpanded is pure
// UI state: it never crosses the wire and survives reloads.
type Section struct {
	ID          string       `json:"id"`
	LegacyID    string       `json:"_id,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Attachments []Attachment `json:"attachments"`
	Items       []Item       `json:"items"`
	IsExpanded  bool         `json:"-"`
	CreatedAt   time.Time    `json:"createdAt,omitempty"`
}

// Entity ids arrive as either "id" or "_id" depending on the backend
// revision. normalize folds both into ID, preferring "id", exactly once at
// the decode boundary so the rest of the package never sees the duality.

func (a *Attachment) normalize() {
	a.ID = util.FirstNonEmpty(a.ID, a.LegacyID)
	a.LegacyID = ""
}

func (c *Comment) normalize() {
	c.ID = util.FirstNonEmpty(c.ID, c.LegacyID)
	c.LegacyID = ""
}

func (i *Item) normalize() {
	i.ID = util.FirstNonEmpty(i.ID, i.LegacyID)
	i.LegacyID = ""
	for n := range i.Comments {
		i.Comments[n].normalize()
	}
	if i.Reactions == nil {
		i.Reactions = []Reaction{}
	}
	if i.Comments == nil {
		i.Comments = []Comment{}
	}
}

func (s *Section) normalize() {
	s.ID = util.FirstNonEmpty(s.ID, s.LegacyID)
	s.LegacyID = ""
	for n := range s.Attachments {
		s.Attachments[n].normalize()
	}
	for n := range s.Items {
		s.Items[n].normalize()
	}
	if s.Attachments == nil {
		s.Attachments = []Attachment{}
	}
	if s.Items == nil {
		s.Items = []Item{}
	}
}
