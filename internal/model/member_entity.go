package model

// MemberEntity is a spiritual entity a member works with.
type MemberEntity struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId"`
	Name        string `json:"name"`
	Line        string `json:"line"`
	History     string `json:"history"`
	Curiosities string `json:"curiosities"`
}

// Clone returns a copy of m.
func (m MemberEntity) Clone() MemberEntity { return m }

// MemberEntityPatch carries the fields to change on a member entity.
type MemberEntityPatch struct {
	UserID      *int64  `json:"userId,omitempty"`
	Name        *string `json:"name,omitempty"`
	Line        *string `json:"line,omitempty"`
	History     *string `json:"history,omitempty"`
	Curiosities *string `json:"curiosities,omitempty"`
}

// Apply merges p over m.
func (p MemberEntityPatch) Apply(m MemberEntity) MemberEntity {
	if p.UserID != nil {
		m.UserID = *p.UserID
	}
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Line != nil {
		m.Line = *p.Line
	}
	if p.History != nil {
		m.History = *p.History
	}
	if p.Curiosities != nil {
		m.Curiosities = *p.Curiosities
	}
	return m
}
