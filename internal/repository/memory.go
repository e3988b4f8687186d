package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "conselhoreal/internal/errors"
	"conselhoreal/internal/model"
)

const bcryptCost = 10

// AdminEmail is the account promoted to model.RoleAdm on every successful sign-in.
const AdminEmail = "versurih@gmail.com"

// memoryRepository keeps every collection in process. Updates of a missing id
// create the record under that id; deletes of a missing id do nothing.
type memoryRepository struct {
	mu     sync.RWMutex
	lastID int64

	users             []model.User
	credentials       []model.Credential
	events            []model.Event
	announcements     []model.Announcement
	prayerRequests    []model.PrayerRequest
	galleryImages     []model.GalleryImage
	diaryEntries      []model.DiaryEntry
	recados           []model.Recado
	memberEntities    []model.MemberEntity
	spiritualEntities []model.SpiritualEntity
	loreEntries       []model.LoreEntry
}

var _ Repository = (*memoryRepository)(nil)

// NewMemory builds a local-mode repository holding a private copy of seed.
func NewMemory(seed Dataset) (Repository, error) {
	return newMemory(seed)
}

func newMemory(seed Dataset) (*memoryRepository, error) {
	m := &memoryRepository{
		users:             cloneAll(seed.Users),
		events:            cloneAll(seed.Events),
		announcements:     cloneAll(seed.Announcements),
		prayerRequests:    cloneAll(seed.PrayerRequests),
		galleryImages:     cloneAll(seed.GalleryImages),
		diaryEntries:      cloneAll(seed.DiaryEntries),
		recados:           cloneAll(seed.Recados),
		memberEntities:    cloneAll(seed.MemberEntities),
		spiritualEntities: cloneAll(seed.SpiritualEntities),
		loreEntries:       cloneAll(seed.LoreEntries),
	}
	for _, cred := range seed.Credentials {
		if err := m.upsertCredential(cred.Email, cred.Password); err != nil {
			return nil, fmt.Errorf("seed credential %s: %w", cred.Email, err)
		}
	}
	return m, nil
}

func (m *memoryRepository) Mode() Mode { return ModeLocal }

func (m *memoryRepository) Close() error { return nil }

// nextID returns a time-derived id, strictly greater than every id handed out so far.
// Callers hold m.mu.
func (m *memoryRepository) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	m.lastID = id
	return id
}

func (m *memoryRepository) trackID(id int64) {
	if id > m.lastID {
		m.lastID = id
	}
}

// Events

func (m *memoryRepository) ListEvents(ctx context.Context) []model.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := cloneAll(m.events)
	slices.SortStableFunc(events, func(a, b model.Event) int { return a.Date.Compare(b.Date) })
	return events
}

func (m *memoryRepository) GetEvent(ctx context.Context, id int64) (model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := slices.IndexFunc(m.events, func(e model.Event) bool { return e.ID == id })
	if i < 0 {
		return model.Event{}, apperrors.ErrNotFound
	}
	return m.events[i].Clone(), nil
}

func (m *memoryRepository) CreateEvent(ctx context.Context, event model.Event) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event.ID = m.nextID()
	event = normalizeEvent(event)
	m.events = append(m.events, event)
	return event.Clone(), nil
}

func (m *memoryRepository) UpdateEvent(ctx context.Context, id int64, patch model.EventPatch) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.events, func(e model.Event) bool { return e.ID == id })
	if i < 0 {
		event := normalizeEvent(patch.Apply(model.Event{ID: id}))
		m.trackID(id)
		m.events = append(m.events, event)
		return event.Clone(), nil
	}
	m.events[i] = patch.Apply(m.events[i])
	return m.events[i].Clone(), nil
}

func (m *memoryRepository) DeleteEvent(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = slices.DeleteFunc(m.events, func(e model.Event) bool { return e.ID == id })
	return nil
}

func normalizeEvent(e model.Event) model.Event {
	e.Type = model.ParseEventType(string(e.Type))
	e.Date = model.NormalizeTime(&e.Date)
	e.Capacity = max(e.Capacity, 0)
	e.Attendees = max(e.Attendees, 0)
	return e
}

// Announcements

func (m *memoryRepository) ListAnnouncements(ctx context.Context) []model.Announcement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	announcements := cloneAll(m.announcements)
	slices.SortStableFunc(announcements, func(a, b model.Announcement) int {
		da, _ := model.ParseDisplayDate(a.Date)
		db, _ := model.ParseDisplayDate(b.Date)
		return db.Compare(da)
	})
	return announcements
}

func (m *memoryRepository) CreateAnnouncement(ctx context.Context, announcement model.Announcement) (model.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	announcement.ID = m.nextID()
	announcement.Date = model.FormatDisplayDate(time.Now())
	m.announcements = slices.Insert(m.announcements, 0, announcement)
	return announcement.Clone(), nil
}

// Prayer requests

func (m *memoryRepository) ListPrayerRequests(ctx context.Context) []model.PrayerRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	requests := cloneAll(m.prayerRequests)
	slices.SortStableFunc(requests, func(a, b model.PrayerRequest) int { return b.Timestamp.Compare(a.Timestamp) })
	return requests
}

func (m *memoryRepository) CreatePrayerRequest(ctx context.Context, request model.PrayerRequest) (model.PrayerRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	request.ID = m.nextID()
	request.Timestamp = time.Now()
	if strings.TrimSpace(request.Initials) == "" {
		request.Initials = model.AnonymousInitials
	}
	m.prayerRequests = slices.Insert(m.prayerRequests, 0, request)
	return request.Clone(), nil
}

// Gallery

func (m *memoryRepository) ListGalleryImages(ctx context.Context) []model.GalleryImage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneAll(m.galleryImages)
}

func (m *memoryRepository) CreateGalleryImage(ctx context.Context, image model.GalleryImage) (model.GalleryImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	image.ID = m.nextID()
	image.Category = model.ParseImageCategory(string(image.Category))
	m.galleryImages = slices.Insert(m.galleryImages, 0, image)
	return image.Clone(), nil
}

// Users

func (m *memoryRepository) ListUsers(ctx context.Context) []model.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := cloneAll(m.users)
	slices.SortStableFunc(users, func(a, b model.User) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return users
}

func (m *memoryRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.userIndexByEmail(email)
	if i < 0 {
		return model.User{}, apperrors.ErrNotFound
	}
	return m.users[i].Clone(), nil
}

func (m *memoryRepository) CreateUser(ctx context.Context, user model.User, password string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.nextID()
	return m.insertUser(user, password)
}

func (m *memoryRepository) UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.users, func(u model.User) bool { return u.ID == id })
	if i < 0 {
		m.trackID(id)
		return m.insertUser(patch.Apply(model.User{ID: id}), patch.TrimmedPassword())
	}

	current := m.users[i]
	next := patch.Apply(current)
	if m.emailTakenByOther(next.Email, id) {
		return model.User{}, apperrors.ErrEmailTaken
	}
	if model.NormalizeEmail(next.Email) != model.NormalizeEmail(current.Email) {
		m.renameCredential(current.Email, next.Email)
	}
	if password := patch.TrimmedPassword(); password != "" {
		if err := m.upsertCredential(next.Email, password); err != nil {
			return model.User{}, err
		}
	}
	m.users[i] = next
	return next.Clone(), nil
}

func (m *memoryRepository) DeleteUser(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.users, func(u model.User) bool { return u.ID == id })
	if i < 0 {
		return nil
	}
	m.removeCredential(m.users[i].Email)
	m.users = slices.Delete(m.users, i, i+1)
	return nil
}

// insertUser validates and stores a new user. Callers hold m.mu.
func (m *memoryRepository) insertUser(user model.User, password string) (model.User, error) {
	if m.emailTakenByOther(user.Email, user.ID) {
		return model.User{}, apperrors.ErrEmailTaken
	}
	password = strings.TrimSpace(password)
	if password == "" {
		return model.User{}, apperrors.ErrPasswordRequired
	}
	if err := m.upsertCredential(user.Email, password); err != nil {
		return model.User{}, err
	}
	user.Role = model.ParseRole(string(user.Role))
	m.users = append(m.users, user)
	return user.Clone(), nil
}

func (m *memoryRepository) userIndexByEmail(email string) int {
	email = model.NormalizeEmail(email)
	return slices.IndexFunc(m.users, func(u model.User) bool { return model.NormalizeEmail(u.Email) == email })
}

func (m *memoryRepository) emailTakenByOther(email string, id int64) bool {
	i := m.userIndexByEmail(email)
	return i >= 0 && m.users[i].ID != id
}

func (m *memoryRepository) credentialIndex(email string) int {
	email = model.NormalizeEmail(email)
	return slices.IndexFunc(m.credentials, func(c model.Credential) bool { return model.NormalizeEmail(c.Email) == email })
}

func (m *memoryRepository) upsertCredential(email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if i := m.credentialIndex(email); i >= 0 {
		m.credentials[i].PasswordHash = hash
		return nil
	}
	m.credentials = append(m.credentials, model.Credential{Email: email, PasswordHash: hash})
	return nil
}

func (m *memoryRepository) renameCredential(from, to string) {
	if i := m.credentialIndex(from); i >= 0 {
		m.credentials[i].Email = to
	}
}

func (m *memoryRepository) removeCredential(email string) {
	if i := m.credentialIndex(email); i >= 0 {
		m.credentials = slices.Delete(m.credentials, i, i+1)
	}
}

// AuthenticateUser checks the local credential table. The admin account is
// promoted to model.RoleAdm when its stored role differs.
func (m *memoryRepository) AuthenticateUser(ctx context.Context, email, password string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ci := m.credentialIndex(email)
	if ci < 0 {
		return model.User{}, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(m.credentials[ci].PasswordHash, []byte(password)); err != nil {
		return model.User{}, apperrors.ErrInvalidCredentials
	}

	ui := m.userIndexByEmail(email)
	if ui < 0 {
		return model.User{}, apperrors.ErrProfileNotFound
	}
	if isAdminEmail(email) && m.users[ui].Role != model.RoleAdm {
		m.users[ui].Role = model.RoleAdm
	}
	return m.users[ui].Clone(), nil
}

func isAdminEmail(email string) bool {
	return model.NormalizeEmail(email) == AdminEmail
}

// Diary

func (m *memoryRepository) ListDiaryEntries(ctx context.Context, userID int64) []model.DiaryEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := filterClone(m.diaryEntries, func(d model.DiaryEntry) bool { return userID == 0 || d.UserID == userID })
	slices.SortStableFunc(entries, func(a, b model.DiaryEntry) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return entries
}

func (m *memoryRepository) GetDiaryEntry(ctx context.Context, id int64) (model.DiaryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := slices.IndexFunc(m.diaryEntries, func(d model.DiaryEntry) bool { return d.ID == id })
	if i < 0 {
		return model.DiaryEntry{}, apperrors.ErrNotFound
	}
	return m.diaryEntries[i].Clone(), nil
}

func (m *memoryRepository) CreateDiaryEntry(ctx context.Context, entry model.DiaryEntry) (model.DiaryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = m.nextID()
	entry = newDiaryEntry(entry)
	m.diaryEntries = slices.Insert(m.diaryEntries, 0, entry)
	return entry.Clone(), nil
}

func (m *memoryRepository) UpdateDiaryEntry(ctx context.Context, id int64, patch model.DiaryEntryPatch) (model.DiaryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.diaryEntries, func(d model.DiaryEntry) bool { return d.ID == id })
	if i < 0 {
		entry := newDiaryEntry(patch.Apply(model.DiaryEntry{ID: id}))
		m.trackID(id)
		m.diaryEntries = slices.Insert(m.diaryEntries, 0, entry)
		return entry.Clone(), nil
	}
	m.diaryEntries[i] = patch.Apply(m.diaryEntries[i])
	return m.diaryEntries[i].Clone(), nil
}

func (m *memoryRepository) DeleteDiaryEntry(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diaryEntries = slices.DeleteFunc(m.diaryEntries, func(d model.DiaryEntry) bool { return d.ID == id })
	return nil
}

func newDiaryEntry(entry model.DiaryEntry) model.DiaryEntry {
	entry = entry.Clone()
	entry.CreatedAt = time.Now()
	if entry.DueDate != nil {
		due := model.NormalizeTime(entry.DueDate)
		entry.DueDate = &due
	}
	return entry
}

// Recados

func (m *memoryRepository) ListRecados(ctx context.Context, userID int64) []model.Recado {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recados := filterClone(m.recados, func(r model.Recado) bool { return userID == 0 || r.UserID == userID })
	slices.SortStableFunc(recados, func(a, b model.Recado) int { return b.Date.Compare(a.Date) })
	return recados
}

func (m *memoryRepository) CreateRecado(ctx context.Context, recado model.Recado) (model.Recado, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recado.ID = m.nextID()
	recado.Date = time.Now()
	if strings.TrimSpace(recado.From) == "" {
		recado.From = model.DefaultRecadoSender
	}
	m.recados = slices.Insert(m.recados, 0, recado)
	return recado.Clone(), nil
}

func (m *memoryRepository) ToggleRecadoRead(ctx context.Context, id int64, read bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := slices.IndexFunc(m.recados, func(r model.Recado) bool { return r.ID == id }); i >= 0 {
		m.recados[i].Read = read
	}
	return nil
}

func (m *memoryRepository) MarkRecadosAsRead(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.recados {
		if m.recados[i].UserID == userID {
			m.recados[i].Read = true
		}
	}
	return nil
}

// Member entities

// ListMemberEntities lists newest first.
func (m *memoryRepository) ListMemberEntities(ctx context.Context, userID int64) []model.MemberEntity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entities := filterClone(m.memberEntities, func(e model.MemberEntity) bool { return userID == 0 || e.UserID == userID })
	slices.Reverse(entities)
	return entities
}

func (m *memoryRepository) GetMemberEntity(ctx context.Context, id int64) (model.MemberEntity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := slices.IndexFunc(m.memberEntities, func(e model.MemberEntity) bool { return e.ID == id })
	if i < 0 {
		return model.MemberEntity{}, apperrors.ErrNotFound
	}
	return m.memberEntities[i].Clone(), nil
}

func (m *memoryRepository) CreateMemberEntity(ctx context.Context, entity model.MemberEntity) (model.MemberEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entity.ID = m.nextID()
	m.memberEntities = append(m.memberEntities, entity)
	return entity.Clone(), nil
}

func (m *memoryRepository) UpdateMemberEntity(ctx context.Context, id int64, patch model.MemberEntityPatch) (model.MemberEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.memberEntities, func(e model.MemberEntity) bool { return e.ID == id })
	if i < 0 {
		entity := patch.Apply(model.MemberEntity{ID: id})
		m.trackID(id)
		m.memberEntities = append(m.memberEntities, entity)
		return entity.Clone(), nil
	}
	m.memberEntities[i] = patch.Apply(m.memberEntities[i])
	return m.memberEntities[i].Clone(), nil
}

func (m *memoryRepository) DeleteMemberEntity(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memberEntities = slices.DeleteFunc(m.memberEntities, func(e model.MemberEntity) bool { return e.ID == id })
	return nil
}

// Spiritual entities

func (m *memoryRepository) ListSpiritualEntities(ctx context.Context) []model.SpiritualEntity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entities := cloneAll(m.spiritualEntities)
	slices.SortStableFunc(entities, func(a, b model.SpiritualEntity) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return entities
}

func (m *memoryRepository) CreateSpiritualEntity(ctx context.Context, entity model.SpiritualEntity) (model.SpiritualEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entity.ID = m.nextID()
	entity.DescriptionHistory = []model.HistoryEntry{}
	m.spiritualEntities = append(m.spiritualEntities, entity)
	return entity.Clone(), nil
}

func (m *memoryRepository) UpdateSpiritualEntity(ctx context.Context, id int64, patch model.SpiritualEntityPatch) (model.SpiritualEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.spiritualEntities, func(e model.SpiritualEntity) bool { return e.ID == id })
	if i < 0 {
		entity := patch.Apply(model.SpiritualEntity{ID: id, DescriptionHistory: []model.HistoryEntry{}})
		m.trackID(id)
		m.spiritualEntities = append(m.spiritualEntities, entity)
		return entity.Clone(), nil
	}

	current := m.spiritualEntities[i]
	next := patch.Apply(current)
	if patch.DescriptionChanged(current) {
		next.DescriptionHistory = append(next.DescriptionHistory, model.HistoryEntry{
			Timestamp:   time.Now(),
			Description: current.Description,
		})
	}
	m.spiritualEntities[i] = next
	return next.Clone(), nil
}

func (m *memoryRepository) DeleteSpiritualEntity(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spiritualEntities = slices.DeleteFunc(m.spiritualEntities, func(e model.SpiritualEntity) bool { return e.ID == id })
	return nil
}

func (m *memoryRepository) AppendSpiritualEntityHistory(ctx context.Context, id int64, description string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.spiritualEntities, func(e model.SpiritualEntity) bool { return e.ID == id })
	if i < 0 {
		return nil
	}
	m.spiritualEntities[i].DescriptionHistory = append(m.spiritualEntities[i].DescriptionHistory, model.HistoryEntry{
		Timestamp:   time.Now(),
		Description: description,
	})
	return nil
}

// Lore

func (m *memoryRepository) ListLoreEntries(ctx context.Context) []model.LoreEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := cloneAll(m.loreEntries)
	slices.SortStableFunc(entries, func(a, b model.LoreEntry) int { return strings.Compare(a.Title, b.Title) })
	return entries
}

func cloneAll[T interface{ Clone() T }](items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}

func filterClone[T interface{ Clone() T }](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item.Clone())
		}
	}
	return out
}
