package repository

import (
	"context"

	"conselhoreal/internal/model"
)

// Mode tells which strategy backs a Repository.
type Mode string

const (
	// ModeRemote persists through the relational backend.
	ModeRemote Mode = "remote"
	// ModeLocal keeps everything in process, seeded with the sample dataset.
	ModeLocal Mode = "local"
)

// List operations never fail: a remote read error is logged and answered from the
// local dataset. Returned slices are never nil and never alias stored data.
//
// Owner filters take a user id; zero means "every owner".

// EventRepository persists agenda events.
type EventRepository interface {
	ListEvents(ctx context.Context) []model.Event
	GetEvent(ctx context.Context, id int64) (model.Event, error)
	CreateEvent(ctx context.Context, event model.Event) (model.Event, error)
	UpdateEvent(ctx context.Context, id int64, patch model.EventPatch) (model.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
}

// AnnouncementRepository persists general notices.
type AnnouncementRepository interface {
	ListAnnouncements(ctx context.Context) []model.Announcement
	CreateAnnouncement(ctx context.Context, announcement model.Announcement) (model.Announcement, error)
}

// PrayerRequestRepository persists prayer requests.
type PrayerRequestRepository interface {
	ListPrayerRequests(ctx context.Context) []model.PrayerRequest
	CreatePrayerRequest(ctx context.Context, request model.PrayerRequest) (model.PrayerRequest, error)
}

// GalleryRepository persists gallery images.
type GalleryRepository interface {
	ListGalleryImages(ctx context.Context) []model.GalleryImage
	CreateGalleryImage(ctx context.Context, image model.GalleryImage) (model.GalleryImage, error)
}

// UserRepository persists users and their credentials.
type UserRepository interface {
	ListUsers(ctx context.Context) []model.User
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	CreateUser(ctx context.Context, user model.User, password string) (model.User, error)
	UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// AuthRepository signs users in.
type AuthRepository interface {
	AuthenticateUser(ctx context.Context, email, password string) (model.User, error)
}

// DiaryRepository persists private diary entries.
type DiaryRepository interface {
	ListDiaryEntries(ctx context.Context, userID int64) []model.DiaryEntry
	GetDiaryEntry(ctx context.Context, id int64) (model.DiaryEntry, error)
	CreateDiaryEntry(ctx context.Context, entry model.DiaryEntry) (model.DiaryEntry, error)
	UpdateDiaryEntry(ctx context.Context, id int64, patch model.DiaryEntryPatch) (model.DiaryEntry, error)
	DeleteDiaryEntry(ctx context.Context, id int64) error
}

// RecadoRepository persists private messages.
type RecadoRepository interface {
	ListRecados(ctx context.Context, userID int64) []model.Recado
	CreateRecado(ctx context.Context, recado model.Recado) (model.Recado, error)
	ToggleRecadoRead(ctx context.Context, id int64, read bool) error
	MarkRecadosAsRead(ctx context.Context, userID int64) error
}

// MemberEntityRepository persists the entities members work with.
type MemberEntityRepository interface {
	ListMemberEntities(ctx context.Context, userID int64) []model.MemberEntity
	GetMemberEntity(ctx context.Context, id int64) (model.MemberEntity, error)
	CreateMemberEntity(ctx context.Context, entity model.MemberEntity) (model.MemberEntity, error)
	UpdateMemberEntity(ctx context.Context, id int64, patch model.MemberEntityPatch) (model.MemberEntity, error)
	DeleteMemberEntity(ctx context.Context, id int64) error
}

// SpiritualEntityRepository persists the house catalog of entities.
// UpdateSpiritualEntity snapshots the previous description whenever it changes.
type SpiritualEntityRepository interface {
	ListSpiritualEntities(ctx context.Context) []model.SpiritualEntity
	CreateSpiritualEntity(ctx context.Context, entity model.SpiritualEntity) (model.SpiritualEntity, error)
	UpdateSpiritualEntity(ctx context.Context, id int64, patch model.SpiritualEntityPatch) (model.SpiritualEntity, error)
	DeleteSpiritualEntity(ctx context.Context, id int64) error
	AppendSpiritualEntityHistory(ctx context.Context, id int64, description string) error
}

// LoreRepository reads historical texts.
type LoreRepository interface {
	ListLoreEntries(ctx context.Context) []model.LoreEntry
}

// Repository is the full data-access surface, backed by one strategy for the
// lifetime of the process.
type Repository interface {
	EventRepository
	AnnouncementRepository
	PrayerRequestRepository
	GalleryRepository
	UserRepository
	AuthRepository
	DiaryRepository
	RecadoRepository
	MemberEntityRepository
	SpiritualEntityRepository
	LoreRepository

	Mode() Mode
	Close() error
}
