package model

import "time"

// Attachment describes a file attached to a diary entry.
type Attachment struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// DiaryEntry is a private note owned by one user.
type DiaryEntry struct {
	ID         int64       `json:"id"`
	UserID     int64       `json:"userId"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	Tags       []string    `json:"tags"`
	CreatedAt  time.Time   `json:"createdAt"`
	DueDate    *time.Time  `json:"dueDate,omitempty"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

// Clone returns a deep copy of d.
func (d DiaryEntry) Clone() DiaryEntry {
	d.Tags = append([]string{}, d.Tags...)
	d.DueDate = cloneTimePtr(d.DueDate)
	if d.Attachment != nil {
		a := *d.Attachment
		d.Attachment = &a
	}
	return d
}

// DiaryEntryPatch carries the fields to change on a diary entry.
// ClearDueDate and ClearAttachment remove the optional fields.
type DiaryEntryPatch struct {
	UserID          *int64
	Title           *string
	Content         *string
	Tags            []string
	DueDate         *time.Time
	ClearDueDate    bool
	Attachment      *Attachment
	ClearAttachment bool
}

// Apply merges p over d.
func (p DiaryEntryPatch) Apply(d DiaryEntry) DiaryEntry {
	d = d.Clone()
	if p.UserID != nil {
		d.UserID = *p.UserID
	}
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Content != nil {
		d.Content = *p.Content
	}
	if p.Tags != nil {
		d.Tags = append([]string{}, p.Tags...)
	}
	switch {
	case p.ClearDueDate:
		d.DueDate = nil
	case p.DueDate != nil:
		due := NormalizeTime(p.DueDate)
		d.DueDate = &due
	}
	switch {
	case p.ClearAttachment:
		d.Attachment = nil
	case p.Attachment != nil:
		a := *p.Attachment
		d.Attachment = &a
	}
	return d
}
