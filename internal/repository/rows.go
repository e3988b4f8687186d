package repository

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"conselhoreal/internal/model"
)

// Row types mirror the backend tables. Every payload column is nullable so that
// rows written by other clients map with defaults instead of failing.
// Date-like payload columns are ISO-8601 text in UTC.

type eventRow struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	Title     *string
	Type      *string
	Date      *string `gorm:"index"`
	Capacity  *int
	Attendees *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (eventRow) TableName() string { return "events" }

type announcementRow struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	Title     *string
	Content   *string
	Date      *string
	CreatedAt time.Time `gorm:"index"`
}

func (announcementRow) TableName() string { return "announcements" }

type prayerRequestRow struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	Initials  *string
	Request   *string
	CreatedAt time.Time `gorm:"index"`
}

func (prayerRequestRow) TableName() string { return "prayer_requests" }

type galleryImageRow struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	Src       *string
	Alt       *string
	Caption   *string
	Category  *string
	CreatedAt time.Time `gorm:"index"`
}

func (galleryImageRow) TableName() string { return "gallery_images" }

type userRow struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	Name        *string
	Email       string `gorm:"size:320;uniqueIndex;not null"`
	Role        *string
	MemberSince *string
	Allergies   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (userRow) TableName() string { return "users" }

// authAccountRow is the backend's sign-in table. Name and Role are account
// metadata used when a profile has to be created on first sign-in.
type authAccountRow struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"size:320;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         *string
	Role         *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (authAccountRow) TableName() string { return "auth_accounts" }

type diaryEntryRow struct {
	ID             int64 `gorm:"primaryKey;autoIncrement"`
	UserID         int64 `gorm:"index"`
	Title          *string
	Content        *string
	Tags           *string
	DueDate        *string
	AttachmentName *string
	AttachmentSize *int64
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time
}

func (diaryEntryRow) TableName() string { return "diary_entries" }

type recadoRow struct {
	ID      int64 `gorm:"primaryKey;autoIncrement"`
	UserID  int64 `gorm:"index"`
	Sender  *string
	Message *string
	Date    *string `gorm:"index"`
	IsRead  *bool
}

func (recadoRow) TableName() string { return "recados" }

type memberEntityRow struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	UserID      int64 `gorm:"index"`
	Name        *string
	Line        *string
	History     *string
	Curiosities *string
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (memberEntityRow) TableName() string { return "member_entities" }

type spiritualEntityRow struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	Name        *string
	Line        *string
	Description *string
	History     []spiritualHistoryRow `gorm:"foreignKey:EntityID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (spiritualEntityRow) TableName() string { return "spiritual_entities" }

type spiritualHistoryRow struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	EntityID    int64 `gorm:"index;not null"`
	Description *string
	RecordedAt  time.Time
}

func (spiritualHistoryRow) TableName() string { return "spiritual_entity_history" }

type loreEntryRow struct {
	ID              int64 `gorm:"primaryKey;autoIncrement"`
	Title           *string
	Content         *string
	RelatedEntities *string
	CreatedAt       time.Time
}

func (loreEntryRow) TableName() string { return "lore_entries" }

// allRows lists every table in creation order.
func allRows() []any {
	return []any{
		&eventRow{}, &announcementRow{}, &prayerRequestRow{}, &galleryImageRow{},
		&userRow{}, &authAccountRow{}, &diaryEntryRow{}, &recadoRow{},
		&memberEntityRow{}, &spiritualEntityRow{}, &spiritualHistoryRow{}, &loreEntryRow{},
	}
}

// Mappers

func mapEventRow(r eventRow) model.Event {
	return model.Event{
		ID:        r.ID,
		Title:     deref(r.Title),
		Type:      model.ParseEventType(deref(r.Type)),
		Date:      model.NormalizeDate(deref(r.Date)),
		Capacity:  max(deref(r.Capacity), 0),
		Attendees: max(deref(r.Attendees), 0),
	}
}

func mapAnnouncementRow(r announcementRow) model.Announcement {
	date := deref(r.Date)
	if _, ok := model.ParseDisplayDate(date); !ok {
		date = model.FormatDisplayDate(model.NormalizeDate(date))
	}
	return model.Announcement{
		ID:      r.ID,
		Title:   deref(r.Title),
		Content: deref(r.Content),
		Date:    date,
	}
}

func mapPrayerRequestRow(r prayerRequestRow) model.PrayerRequest {
	initials := strings.TrimSpace(deref(r.Initials))
	if initials == "" {
		initials = model.AnonymousInitials
	}
	return model.PrayerRequest{
		ID:        r.ID,
		Initials:  initials,
		Request:   deref(r.Request),
		Timestamp: model.NormalizeTime(&r.CreatedAt),
	}
}

func mapGalleryImageRow(r galleryImageRow) model.GalleryImage {
	return model.GalleryImage{
		ID:       r.ID,
		Src:      deref(r.Src),
		Alt:      deref(r.Alt),
		Caption:  deref(r.Caption),
		Category: model.ParseImageCategory(deref(r.Category)),
	}
}

func mapUserRow(r userRow) model.User {
	return model.User{
		ID:          r.ID,
		Name:        deref(r.Name),
		Email:       r.Email,
		Role:        model.ParseRole(deref(r.Role)),
		MemberSince: deref(r.MemberSince),
		Allergies:   deref(r.Allergies),
	}
}

func mapDiaryEntryRow(r diaryEntryRow) model.DiaryEntry {
	entry := model.DiaryEntry{
		ID:        r.ID,
		UserID:    r.UserID,
		Title:     deref(r.Title),
		Content:   deref(r.Content),
		Tags:      parseTags(deref(r.Tags)),
		CreatedAt: model.NormalizeTime(&r.CreatedAt),
	}
	if due := strings.TrimSpace(deref(r.DueDate)); due != "" {
		t := model.NormalizeDate(due)
		entry.DueDate = &t
	}
	if name := strings.TrimSpace(deref(r.AttachmentName)); name != "" {
		entry.Attachment = &model.Attachment{Name: name, Size: max(deref(r.AttachmentSize), 0)}
	}
	return entry
}

func mapRecadoRow(r recadoRow) model.Recado {
	from := strings.TrimSpace(deref(r.Sender))
	if from == "" {
		from = model.DefaultRecadoSender
	}
	return model.Recado{
		ID:      r.ID,
		UserID:  r.UserID,
		From:    from,
		Message: deref(r.Message),
		Date:    model.NormalizeDate(deref(r.Date)),
		Read:    deref(r.IsRead),
	}
}

func mapMemberEntityRow(r memberEntityRow) model.MemberEntity {
	return model.MemberEntity{
		ID:          r.ID,
		UserID:      r.UserID,
		Name:        deref(r.Name),
		Line:        deref(r.Line),
		History:     deref(r.History),
		Curiosities: deref(r.Curiosities),
	}
}

func mapSpiritualEntityRow(r spiritualEntityRow) model.SpiritualEntity {
	history := make([]model.HistoryEntry, 0, len(r.History))
	for _, h := range r.History {
		history = append(history, model.HistoryEntry{
			Timestamp:   model.NormalizeTime(&h.RecordedAt),
			Description: deref(h.Description),
		})
	}
	return model.SpiritualEntity{
		ID:                 r.ID,
		Name:               deref(r.Name),
		Line:               deref(r.Line),
		Description:        deref(r.Description),
		DescriptionHistory: history,
	}
}

func mapLoreEntryRow(r loreEntryRow) model.LoreEntry {
	return model.LoreEntry{
		ID:              r.ID,
		Title:           deref(r.Title),
		Content:         deref(r.Content),
		RelatedEntities: parseRelated(deref(r.RelatedEntities)),
	}
}

func mapRows[R any, T any](rows []R, mapper func(R) T) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapper(row))
	}
	return out
}

// Model to row

func newEventRow(e model.Event) eventRow {
	e = normalizeEvent(e)
	return eventRow{
		Title:     ptr(e.Title),
		Type:      ptr(string(e.Type)),
		Date:      ptr(formatStoredTime(e.Date)),
		Capacity:  ptr(e.Capacity),
		Attendees: ptr(e.Attendees),
	}
}

func newUserRow(u model.User) userRow {
	return userRow{
		Name:        ptr(u.Name),
		Email:       strings.TrimSpace(u.Email),
		Role:        ptr(string(model.ParseRole(string(u.Role)))),
		MemberSince: optional(u.MemberSince),
		Allergies:   optional(u.Allergies),
	}
}

func newDiaryEntryRow(d model.DiaryEntry) diaryEntryRow {
	row := diaryEntryRow{
		UserID:  d.UserID,
		Title:   ptr(d.Title),
		Content: ptr(d.Content),
		Tags:    ptr(encodeTags(d.Tags)),
	}
	if d.DueDate != nil {
		row.DueDate = ptr(formatStoredTime(model.NormalizeTime(d.DueDate)))
	}
	if d.Attachment != nil {
		row.AttachmentName = ptr(d.Attachment.Name)
		row.AttachmentSize = ptr(d.Attachment.Size)
	}
	return row
}

func newMemberEntityRow(m model.MemberEntity) memberEntityRow {
	return memberEntityRow{
		UserID:      m.UserID,
		Name:        ptr(m.Name),
		Line:        ptr(m.Line),
		History:     ptr(m.History),
		Curiosities: ptr(m.Curiosities),
	}
}

// parseTags accepts a JSON array or a comma separated list.
func parseTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	tags := []string{}
	if raw == "" {
		return tags
	}
	if strings.HasPrefix(raw, "[") {
		var decoded []string
		if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
			for _, tag := range decoded {
				if tag = strings.TrimSpace(tag); tag != "" {
					tags = append(tags, tag)
				}
			}
			return tags
		}
		raw = strings.Trim(raw, "[]")
	}
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.Trim(strings.TrimSpace(tag), `"`)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	encoded, _ := json.Marshal(tags)
	return string(encoded)
}

// parseRelated accepts a JSON array of ids or a comma separated list. Invalid ids are skipped.
func parseRelated(raw string) []int64 {
	raw = strings.TrimSpace(raw)
	ids := []int64{}
	if raw == "" {
		return ids
	}
	var decoded []int64
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		return append(ids, decoded...)
	}
	for _, part := range strings.Split(strings.Trim(raw, "[]"), ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func encodeRelated(ids []int64) string {
	if ids == nil {
		ids = []int64{}
	}
	encoded, _ := json.Marshal(ids)
	return string(encoded)
}

func formatStoredTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func ptr[T any](v T) *T { return &v }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
