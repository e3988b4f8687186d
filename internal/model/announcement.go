package model

// Announcement is a general notice published by an administrator.
type Announcement struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

// Clone returns a copy of a.
func (a Announcement) Clone() Announcement { return a }
