package model

import "time"

// HistoryEntry is a snapshot of a previous description.
type HistoryEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

// SpiritualEntity is an entity of the house catalog.
type SpiritualEntity struct {
	ID                 int64          `json:"id"`
	Name               string         `json:"name"`
	Line               string         `json:"line"`
	Description        string         `json:"description"`
	DescriptionHistory []HistoryEntry `json:"descriptionHistory"`
}

// Clone returns a deep copy of s.
func (s SpiritualEntity) Clone() SpiritualEntity {
	s.DescriptionHistory = append([]HistoryEntry{}, s.DescriptionHistory...)
	return s
}

// SpiritualEntityPatch carries the fields to change on a spiritual entity.
type SpiritualEntityPatch struct {
	Name        *string `json:"name,omitempty"`
	Line        *string `json:"line,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Apply merges p over s.
func (p SpiritualEntityPatch) Apply(s SpiritualEntity) SpiritualEntity {
	s = s.Clone()
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Line != nil {
		s.Line = *p.Line
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	return s
}

// DescriptionChanged reports whether applying p would replace the description of s.
func (p SpiritualEntityPatch) DescriptionChanged(s SpiritualEntity) bool {
	return p.Description != nil && *p.Description != s.Description
}

// LoreEntry is a read-only historical text about the house.
type LoreEntry struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Content         string  `json:"content"`
	RelatedEntities []int64 `json:"relatedEntities"`
}

// Clone returns a deep copy of l.
func (l LoreEntry) Clone() LoreEntry {
	l.RelatedEntities = append([]int64{}, l.RelatedEntities...)
	return l
}
