package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"conselhoreal/internal/db"
	apperrors "conselhoreal/internal/errors"
	"conselhoreal/internal/metrics"
	"conselhoreal/internal/model"
)

// remoteRepository persists through GORM. Reads that fail are answered by local,
// a memory repository seeded with the same dataset local mode would use.
type remoteRepository struct {
	db      *gorm.DB
	local   *memoryRepository
	logger  *zap.Logger
	metrics *metrics.Metrics
}

var _ Repository = (*remoteRepository)(nil)

// NewRemote builds a remote-mode repository over gdb. fallback seeds the local
// dataset used when a read or a sign-in against the backend fails.
func NewRemote(gdb *gorm.DB, fallback Dataset, logger *zap.Logger, m *metrics.Metrics) (Repository, error) {
	local, err := newMemory(fallback)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &remoteRepository{db: gdb, local: local, logger: logger, metrics: m}, nil
}

func (r *remoteRepository) Mode() Mode { return ModeRemote }

func (r *remoteRepository) Close() error { return db.Close(r.db) }

func (r *remoteRepository) readFailed(entity string, err error) {
	r.logger.Error("remote read failed, serving local data", zap.String("entity", entity), zap.Error(err))
	r.metrics.ReadFallback(entity)
}

func orderBy(column string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}
}

// updateRow applies updates to the row with id and returns it mapped.
// A missing row is apperrors.ErrNotFound.
func updateRow[R any, T any](ctx context.Context, gdb *gorm.DB, id int64, updates map[string]any, mapper func(R) T) (T, error) {
	var zero T
	var row R
	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&row).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&row, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zero, apperrors.ErrNotFound
	}
	if err != nil {
		return zero, err
	}
	return mapper(row), nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// Events

func (r *remoteRepository) ListEvents(ctx context.Context) []model.Event {
	var rows []eventRow
	if err := r.db.WithContext(ctx).Order(orderBy("date", false)).Find(&rows).Error; err != nil {
		r.readFailed("events", err)
		return r.local.ListEvents(ctx)
	}
	events := mapRows(rows, mapEventRow)
	slices.SortStableFunc(events, func(a, b model.Event) int { return a.Date.Compare(b.Date) })
	return events
}

func (r *remoteRepository) GetEvent(ctx context.Context, id int64) (model.Event, error) {
	var row eventRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return model.Event{}, fmt.Errorf("get event %d: %w", id, notFound(err))
	}
	return mapEventRow(row), nil
}

func (r *remoteRepository) CreateEvent(ctx context.Context, event model.Event) (model.Event, error) {
	row := newEventRow(event)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.Event{}, fmt.Errorf("create event: %w", err)
	}
	return mapEventRow(row), nil
}

func (r *remoteRepository) UpdateEvent(ctx context.Context, id int64, patch model.EventPatch) (model.Event, error) {
	updates := map[string]any{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Type != nil {
		updates["type"] = string(model.ParseEventType(string(*patch.Type)))
	}
	if patch.Date != nil {
		updates["date"] = formatStoredTime(model.NormalizeTime(patch.Date))
	}
	if patch.Capacity != nil {
		updates["capacity"] = max(*patch.Capacity, 0)
	}
	if patch.Attendees != nil {
		updates["attendees"] = max(*patch.Attendees, 0)
	}
	event, err := updateRow(ctx, r.db, id, updates, mapEventRow)
	if err != nil {
		return model.Event{}, fmt.Errorf("update event %d: %w", id, err)
	}
	return event, nil
}

func (r *remoteRepository) DeleteEvent(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&eventRow{}, id).Error; err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	return nil
}

// Announcements

func (r *remoteRepository) ListAnnouncements(ctx context.Context) []model.Announcement {
	var rows []announcementRow
	if err := r.db.WithContext(ctx).Order(orderBy("created_at", true)).Find(&rows).Error; err != nil {
		r.readFailed("announcements", err)
		return r.local.ListAnnouncements(ctx)
	}
	return mapRows(rows, mapAnnouncementRow)
}

func (r *remoteRepository) CreateAnnouncement(ctx context.Context, announcement model.Announcement) (model.Announcement, error) {
	row := announcementRow{
		Title:   ptr(announcement.Title),
		Content: ptr(announcement.Content),
		Date:    ptr(model.FormatDisplayDate(time.Now())),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.Announcement{}, fmt.Errorf("create announcement: %w", err)
	}
	return mapAnnouncementRow(row), nil
}

// Prayer requests

func (r *remoteRepository) ListPrayerRequests(ctx context.Context) []model.PrayerRequest {
	var rows []prayerRequestRow
	if err := r.db.WithContext(ctx).Order(orderBy("created_at", true)).Find(&rows).Error; err != nil {
		r.readFailed("prayer_requests", err)
		return r.local.ListPrayerRequests(ctx)
	}
	return mapRows(rows, mapPrayerRequestRow)
}

func (r *remoteRepository) CreatePrayerRequest(ctx context.Context, request model.PrayerRequest) (model.PrayerRequest, error) {
	row := prayerRequestRow{
		Initials: ptr(strings.TrimSpace(request.Initials)),
		Request:  ptr(request.Request),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.PrayerRequest{}, fmt.Errorf("create prayer request: %w", err)
	}
	return mapPrayerRequestRow(row), nil
}

// Gallery

func (r *remoteRepository) ListGalleryImages(ctx context.Context) []model.GalleryImage {
	var rows []galleryImageRow
	if err := r.db.WithContext(ctx).Order(orderBy("created_at", true)).Find(&rows).Error; err != nil {
		r.readFailed("gallery_images", err)
		return r.local.ListGalleryImages(ctx)
	}
	return mapRows(rows, mapGalleryImageRow)
}

func (r *remoteRepository) CreateGalleryImage(ctx context.Context, image model.GalleryImage) (model.GalleryImage, error) {
	row := galleryImageRow{
		Src:      ptr(image.Src),
		Alt:      ptr(image.Alt),
		Caption:  ptr(image.Caption),
		Category: ptr(string(model.ParseImageCategory(string(image.Category)))),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.GalleryImage{}, fmt.Errorf("create gallery image: %w", err)
	}
	return mapGalleryImageRow(row), nil
}

// Users

func (r *remoteRepository) ListUsers(ctx context.Context) []model.User {
	var rows []userRow
	if err := r.db.WithContext(ctx).Order(orderBy("name", false)).Find(&rows).Error; err != nil {
		r.readFailed("users", err)
		return r.local.ListUsers(ctx)
	}
	return mapRows(rows, mapUserRow)
}

func (r *remoteRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var row userRow
	err := r.db.WithContext(ctx).Where("LOWER(email) = ?", model.NormalizeEmail(email)).First(&row).Error
	if err != nil {
		return model.User{}, fmt.Errorf("get user by email: %w", notFound(err))
	}
	return mapUserRow(row), nil
}

func (r *remoteRepository) CreateUser(ctx context.Context, user model.User, password string) (model.User, error) {
	row := newUserRow(user)
	password = strings.TrimSpace(password)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureEmailFree(tx, row.Email, 0); err != nil {
			return err
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if password == "" {
			return nil
		}
		return upsertAuthAccount(tx, row.Email, password, row.Name, row.Role)
	})
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", userWriteError(err))
	}
	return mapUserRow(row), nil
}

func (r *remoteRepository) UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (model.User, error) {
	var row userRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, id).Error; err != nil {
			return err
		}
		previousEmail := row.Email
		next := patch.Apply(mapUserRow(row))
		next.Email = strings.TrimSpace(next.Email)

		emailChanged := model.NormalizeEmail(next.Email) != model.NormalizeEmail(previousEmail)
		if emailChanged {
			if err := ensureEmailFree(tx, next.Email, id); err != nil {
				return err
			}
		}

		updates := map[string]any{
			"name":         next.Name,
			"email":        next.Email,
			"role":         string(next.Role),
			"member_since": optional(next.MemberSince),
			"allergies":    optional(next.Allergies),
		}
		if err := tx.Model(&row).Updates(updates).Error; err != nil {
			return err
		}
		if emailChanged {
			err := tx.Model(&authAccountRow{}).
				Where("LOWER(email) = ?", model.NormalizeEmail(previousEmail)).
				Update("email", next.Email).Error
			if err != nil {
				return err
			}
		}
		if password := patch.TrimmedPassword(); password != "" {
			if err := upsertAuthAccount(tx, next.Email, password, ptr(next.Name), ptr(string(next.Role))); err != nil {
				return err
			}
		}
		return tx.First(&row, id).Error
	})
	if err != nil {
		return model.User{}, fmt.Errorf("update user %d: %w", id, userWriteError(err))
	}
	return mapUserRow(row), nil
}

func (r *remoteRepository) DeleteUser(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row userRow
		err := tx.First(&row, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("LOWER(email) = ?", model.NormalizeEmail(row.Email)).Delete(&authAccountRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&userRow{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

func ensureEmailFree(tx *gorm.DB, email string, id int64) error {
	var count int64
	err := tx.Model(&userRow{}).
		Where("LOWER(email) = ? AND id <> ?", model.NormalizeEmail(email), id).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.ErrEmailTaken
	}
	return nil
}

func upsertAuthAccount(tx *gorm.DB, email, password string, name, role *string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	var account authAccountRow
	err = tx.Where("LOWER(email) = ?", model.NormalizeEmail(email)).First(&account).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		account = authAccountRow{Email: email, PasswordHash: string(hash), Name: name, Role: role}
		return tx.Create(&account).Error
	case err != nil:
		return err
	default:
		return tx.Model(&account).Update("password_hash", string(hash)).Error
	}
}

func userWriteError(err error) error {
	switch {
	case errors.Is(err, apperrors.ErrEmailTaken):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %v", apperrors.ErrEmailTaken, err)
	default:
		return err
	}
}

// Authentication

// AuthenticateUser signs in against the backend's auth accounts. Any failure
// there, wrong password included, is retried against the local credential table.
func (r *remoteRepository) AuthenticateUser(ctx context.Context, email, password string) (model.User, error) {
	user, err := r.remoteSignIn(ctx, email, password)
	if err == nil {
		return user, nil
	}
	r.logger.Warn("remote sign-in failed, trying local credentials", zap.Error(err))
	r.metrics.AuthFallback()
	return r.local.AuthenticateUser(ctx, email, password)
}

func (r *remoteRepository) remoteSignIn(ctx context.Context, email, password string) (model.User, error) {
	email = model.NormalizeEmail(email)
	tx := r.db.WithContext(ctx)

	var account authAccountRow
	if err := tx.Where("LOWER(email) = ?", email).First(&account).Error; err != nil {
		return model.User{}, fmt.Errorf("find auth account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return model.User{}, apperrors.ErrInvalidCredentials
	}
	return r.reconcileProfile(tx, email, account)
}

// reconcileProfile returns the profile for a signed-in account, creating one on first sign-in.
func (r *remoteRepository) reconcileProfile(tx *gorm.DB, email string, account authAccountRow) (model.User, error) {
	var row userRow
	err := tx.Where("LOWER(email) = ?", email).First(&row).Error
	switch {
	case err == nil:
		user := mapUserRow(row)
		if isAdminEmail(email) && user.Role != model.RoleAdm {
			if err := tx.Model(&row).Update("role", string(model.RoleAdm)).Error; err != nil {
				r.logger.Warn("could not persist admin role", zap.Int64("user_id", row.ID), zap.Error(err))
			}
			user.Role = model.RoleAdm
		}
		return user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = userRow{
			Name:  ptr(inferProfileName(deref(account.Name), email)),
			Email: email,
			Role:  ptr(string(inferProfileRole(deref(account.Role), email))),
		}
		if err := tx.Create(&row).Error; err != nil {
			return model.User{}, fmt.Errorf("create profile: %w", err)
		}
		return mapUserRow(row), nil
	default:
		return model.User{}, fmt.Errorf("find profile: %w", err)
	}
}

var nameSeparators = regexp.MustCompile(`[._-]+`)

func inferProfileName(metadataName, email string) string {
	if name := strings.TrimSpace(metadataName); name != "" {
		return name
	}
	local, _, _ := strings.Cut(email, "@")
	if name := strings.TrimSpace(nameSeparators.ReplaceAllString(local, " ")); name != "" {
		return name
	}
	return "Membro"
}

func inferProfileRole(metadataRole, email string) model.Role {
	if isAdminEmail(email) {
		return model.RoleAdm
	}
	if strings.TrimSpace(metadataRole) != "" {
		return model.ParseRole(metadataRole)
	}
	return model.RoleMembro
}

// Diary

func (r *remoteRepository) ListDiaryEntries(ctx context.Context, userID int64) []model.DiaryEntry {
	var rows []diaryEntryRow
	q := r.db.WithContext(ctx).Order(orderBy("created_at", true)).Order(orderBy("id", true))
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Find(&rows).Error; err != nil {
		r.readFailed("diary_entries", err)
		return r.local.ListDiaryEntries(ctx, userID)
	}
	return mapRows(rows, mapDiaryEntryRow)
}

func (r *remoteRepository) GetDiaryEntry(ctx context.Context, id int64) (model.DiaryEntry, error) {
	var row diaryEntryRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return model.DiaryEntry{}, fmt.Errorf("get diary entry %d: %w", id, notFound(err))
	}
	return mapDiaryEntryRow(row), nil
}

func (r *remoteRepository) CreateDiaryEntry(ctx context.Context, entry model.DiaryEntry) (model.DiaryEntry, error) {
	row := newDiaryEntryRow(entry)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.DiaryEntry{}, fmt.Errorf("create diary entry: %w", err)
	}
	return mapDiaryEntryRow(row), nil
}

func (r *remoteRepository) UpdateDiaryEntry(ctx context.Context, id int64, patch model.DiaryEntryPatch) (model.DiaryEntry, error) {
	updates := map[string]any{}
	if patch.UserID != nil {
		updates["user_id"] = *patch.UserID
	}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.Tags != nil {
		updates["tags"] = encodeTags(patch.Tags)
	}
	switch {
	case patch.ClearDueDate:
		updates["due_date"] = nil
	case patch.DueDate != nil:
		updates["due_date"] = formatStoredTime(model.NormalizeTime(patch.DueDate))
	}
	switch {
	case patch.ClearAttachment:
		updates["attachment_name"] = nil
		updates["attachment_size"] = nil
	case patch.Attachment != nil:
		updates["attachment_name"] = patch.Attachment.Name
		updates["attachment_size"] = patch.Attachment.Size
	}
	entry, err := updateRow(ctx, r.db, id, updates, mapDiaryEntryRow)
	if err != nil {
		return model.DiaryEntry{}, fmt.Errorf("update diary entry %d: %w", id, err)
	}
	return entry, nil
}

func (r *remoteRepository) DeleteDiaryEntry(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&diaryEntryRow{}, id).Error; err != nil {
		return fmt.Errorf("delete diary entry %d: %w", id, err)
	}
	return nil
}

// Recados

func (r *remoteRepository) ListRecados(ctx context.Context, userID int64) []model.Recado {
	var rows []recadoRow
	q := r.db.WithContext(ctx).Order(orderBy("date", true))
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Find(&rows).Error; err != nil {
		r.readFailed("recados", err)
		return r.local.ListRecados(ctx, userID)
	}
	recados := mapRows(rows, mapRecadoRow)
	slices.SortStableFunc(recados, func(a, b model.Recado) int { return b.Date.Compare(a.Date) })
	return recados
}

func (r *remoteRepository) CreateRecado(ctx context.Context, recado model.Recado) (model.Recado, error) {
	row := recadoRow{
		UserID:  recado.UserID,
		Sender:  optional(strings.TrimSpace(recado.From)),
		Message: ptr(recado.Message),
		Date:    ptr(formatStoredTime(time.Now())),
		IsRead:  ptr(false),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.Recado{}, fmt.Errorf("create recado: %w", err)
	}
	return mapRecadoRow(row), nil
}

func (r *remoteRepository) ToggleRecadoRead(ctx context.Context, id int64, read bool) error {
	err := r.db.WithContext(ctx).Model(&recadoRow{}).Where("id = ?", id).Update("is_read", read).Error
	if err != nil {
		return fmt.Errorf("toggle recado %d: %w", id, err)
	}
	return nil
}

func (r *remoteRepository) MarkRecadosAsRead(ctx context.Context, userID int64) error {
	err := r.db.WithContext(ctx).Model(&recadoRow{}).Where("user_id = ?", userID).Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("mark recados read for user %d: %w", userID, err)
	}
	return nil
}

// Member entities

func (r *remoteRepository) ListMemberEntities(ctx context.Context, userID int64) []model.MemberEntity {
	var rows []memberEntityRow
	q := r.db.WithContext(ctx).Order(orderBy("created_at", true)).Order(orderBy("id", true))
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Find(&rows).Error; err != nil {
		r.readFailed("member_entities", err)
		return r.local.ListMemberEntities(ctx, userID)
	}
	return mapRows(rows, mapMemberEntityRow)
}

func (r *remoteRepository) GetMemberEntity(ctx context.Context, id int64) (model.MemberEntity, error) {
	var row memberEntityRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return model.MemberEntity{}, fmt.Errorf("get member entity %d: %w", id, notFound(err))
	}
	return mapMemberEntityRow(row), nil
}

func (r *remoteRepository) CreateMemberEntity(ctx context.Context, entity model.MemberEntity) (model.MemberEntity, error) {
	row := newMemberEntityRow(entity)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.MemberEntity{}, fmt.Errorf("create member entity: %w", err)
	}
	return mapMemberEntityRow(row), nil
}

func (r *remoteRepository) UpdateMemberEntity(ctx context.Context, id int64, patch model.MemberEntityPatch) (model.MemberEntity, error) {
	updates := map[string]any{}
	if patch.UserID != nil {
		updates["user_id"] = *patch.UserID
	}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Line != nil {
		updates["line"] = *patch.Line
	}
	if patch.History != nil {
		updates["history"] = *patch.History
	}
	if patch.Curiosities != nil {
		updates["curiosities"] = *patch.Curiosities
	}
	entity, err := updateRow(ctx, r.db, id, updates, mapMemberEntityRow)
	if err != nil {
		return model.MemberEntity{}, fmt.Errorf("update member entity %d: %w", id, err)
	}
	return entity, nil
}

func (r *remoteRepository) DeleteMemberEntity(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&memberEntityRow{}, id).Error; err != nil {
		return fmt.Errorf("delete member entity %d: %w", id, err)
	}
	return nil
}

// Spiritual entities

func preloadHistory(tx *gorm.DB) *gorm.DB {
	return tx.Preload("History", func(db *gorm.DB) *gorm.DB {
		return db.Order(orderBy("recorded_at", false)).Order(orderBy("id", false))
	})
}

func (r *remoteRepository) ListSpiritualEntities(ctx context.Context) []model.SpiritualEntity {
	var rows []spiritualEntityRow
	if err := preloadHistory(r.db.WithContext(ctx)).Order(orderBy("name", false)).Find(&rows).Error; err != nil {
		r.readFailed("spiritual_entities", err)
		return r.local.ListSpiritualEntities(ctx)
	}
	return mapRows(rows, mapSpiritualEntityRow)
}

func (r *remoteRepository) CreateSpiritualEntity(ctx context.Context, entity model.SpiritualEntity) (model.SpiritualEntity, error) {
	row := spiritualEntityRow{
		Name:        ptr(entity.Name),
		Line:        ptr(entity.Line),
		Description: ptr(entity.Description),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.SpiritualEntity{}, fmt.Errorf("create spiritual entity: %w", err)
	}
	return mapSpiritualEntityRow(row), nil
}

// UpdateSpiritualEntity stores the previous description as a history row when it changes.
func (r *remoteRepository) UpdateSpiritualEntity(ctx context.Context, id int64, patch model.SpiritualEntityPatch) (model.SpiritualEntity, error) {
	var row spiritualEntityRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, id).Error; err != nil {
			return err
		}
		current := mapSpiritualEntityRow(row)
		if patch.DescriptionChanged(current) {
			snapshot := spiritualHistoryRow{EntityID: id, Description: ptr(current.Description), RecordedAt: time.Now()}
			if err := tx.Create(&snapshot).Error; err != nil {
				return err
			}
		}
		next := patch.Apply(current)
		updates := map[string]any{"name": next.Name, "line": next.Line, "description": next.Description}
		if err := tx.Model(&row).Updates(updates).Error; err != nil {
			return err
		}
		row = spiritualEntityRow{}
		return preloadHistory(tx).First(&row, id).Error
	})
	if err != nil {
		return model.SpiritualEntity{}, fmt.Errorf("update spiritual entity %d: %w", id, notFound(err))
	}
	return mapSpiritualEntityRow(row), nil
}

func (r *remoteRepository) DeleteSpiritualEntity(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entity_id = ?", id).Delete(&spiritualHistoryRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&spiritualEntityRow{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete spiritual entity %d: %w", id, err)
	}
	return nil
}

func (r *remoteRepository) AppendSpiritualEntityHistory(ctx context.Context, id int64, description string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&spiritualEntityRow{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		entry := spiritualHistoryRow{EntityID: id, Description: ptr(description), RecordedAt: time.Now()}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return fmt.Errorf("append history to spiritual entity %d: %w", id, notFound(err))
	}
	return nil
}

// Lore

func (r *remoteRepository) ListLoreEntries(ctx context.Context) []model.LoreEntry {
	var rows []loreEntryRow
	if err := r.db.WithContext(ctx).Order(orderBy("title", false)).Find(&rows).Error; err != nil {
		r.readFailed("lore_entries", err)
		return r.local.ListLoreEntries(ctx)
	}
	return mapRows(rows, mapLoreEntryRow)
}
