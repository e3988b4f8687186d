package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"conselhoreal/internal/config"
	"conselhoreal/internal/db"
	apperrors "conselhoreal/internal/errors"
	"conselhoreal/internal/metrics"
	"conselhoreal/internal/model"
)

type remoteFixture struct {
	repo    *remoteRepository
	db      *gorm.DB
	metrics *metrics.Metrics
}

func newRemoteFixture(t *testing.T, seeded bool) remoteFixture {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, "sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared", zap.NewNop())
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(gdb))

	if seeded {
		ok, err := Seed(ctx, gdb, SampleDataset(time.Now()))
		require.NoError(t, err)
		require.True(t, ok)
	}

	m := metrics.New()
	repo, err := NewRemote(gdb, SampleDataset(time.Now()), zap.NewNop(), m)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return remoteFixture{repo: repo.(*remoteRepository), db: gdb, metrics: m}
}

func TestSeed_OnlyOnce(t *testing.T) {
	f := newRemoteFixture(t, true)
	ok, err := Seed(context.Background(), f.db, SampleDataset(time.Now()))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemote_ListsSeededData(t *testing.T) {
	ctx := context.Background()
	f := newRemoteFixture(t, true)

	events := f.repo.ListEvents(ctx)
	require.Len(t, events, 4)
	assert.Equal(t, "Gira de Exu", events[0].Title)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Date.Before(events[i-1].Date))
	}

	prayers := f.repo.ListPrayerRequests(ctx)
	require.Len(t, prayers, 3)
	assert.Equal(t, "J.S.", prayers[0].Initials)

	gallery := f.repo.ListGalleryImages(ctx)
	require.Len(t, gallery, 8)

	users := f.repo.ListUsers(ctx)
	require.Len(t, users, 3)
	assert.Equal(t, "Henrique Versuri", users[0].Name)

	member, err := f.repo.GetUserByEmail(ctx, "MEMBRO@conselhoreal.com")
	require.NoError(t, err)
	diary := f.repo.ListDiaryEntries(ctx, member.ID)
	require.Len(t, diary, 2)
	assert.Equal(t, "Estudo sobre a Linha dos Malandros", diary[0].Title)
	assert.Equal(t, []string{"estudo", "malandragem"}, diary[0].Tags)
	require.NotNil(t, diary[1].Attachment)
	assert.Equal(t, "esboco_sonho.jpg", diary[1].Attachment.Name)

	recados := f.repo.ListRecados(ctx, member.ID)
	require.Len(t, recados, 2)
	assert.False(t, recados[0].Read)

	assert.Len(t, f.repo.ListMemberEntities(ctx, member.ID), 2)
	assert.Len(t, f.repo.ListMemberEntities(ctx, 0), 3)

	entities := f.repo.ListSpiritualEntities(ctx)
	require.Len(t, entities, 2)
	lore := f.repo.ListLoreEntries(ctx)
	require.Len(t, lore, 2)
	assert.ElementsMatch(t, []int64{entities[0].ID, entities[1].ID}, lore[0].RelatedEntities)
	assert.NotNil(t, lore[1].RelatedEntities)

	assert.Zero(t, testutil.ToFloat64(f.metrics.ReadFallbacks.WithLabelValues("events")))
}

func TestRemote_MapsNullAndMalformedRows(t *testing.T) {
	ctx := context.Background()
	f := newRemoteFixture(t, false)

	require.NoError(t, f.db.Create(&eventRow{}).Error)
	require.NoError(t, f.db.Create(&eventRow{Date: ptr("not-a-date"), Type: ptr("festa"), Capacity: ptr(-3)}).Error)
	require.NoError(t, f.db.Create(&userRow{Email: "sem.papel@email.com", Role: ptr("SUPREMO")}).Error)
	require.NoError(t, f.db.Create(&galleryImageRow{Category: ptr("outra")}).Error)
	require.NoError(t, f.db.Create(&recadoRow{UserID: 1}).Error)
	require.NoError(t, f.db.Create(&diaryEntryRow{UserID: 1, Tags: ptr("a, b ,,c")}).Error)
	require.NoError(t, f.db.Create(&loreEntryRow{RelatedEntities: ptr("1, x, 3")}).Error)
	require.NoError(t, f.db.Create(&prayerRequestRow{}).Error)

	for _, e := range f.repo.ListEvents(ctx) {
		assert.Equal(t, model.EventGira, e.Type)
		assert.WithinDuration(t, time.Now(), e.Date, time.Minute)
		assert.GreaterOrEqual(t, e.Capacity, 0)
	}

	users := f.repo.ListUsers(ctx)
	require.Len(t, users, 1)
	assert.Equal(t, model.RoleMembro, users[0].Role)

	assert.Equal(t, model.CategoryTerreiro, f.repo.ListGalleryImages(ctx)[0].Category)

	recado := f.repo.ListRecados(ctx, 1)[0]
	assert.Equal(t, model.DefaultRecadoSender, recado.From)
	assert.False(t, recado.Read)
	assert.WithinDuration(t, time.Now(), recado.Date, time.Minute)

	diary := f.repo.ListDiaryEntries(ctx, 1)[0]
	assert.Equal(t, []string{"a", "b", "c"}, diary.Tags)
	assert.Nil(t, diary.DueDate)
	assert.Nil(t, diary.Attachment)

	assert.Equal(t, []int64{1, 3}, f.repo.ListLoreEntries(ctx)[0].RelatedEntities)
	assert.Equal(t, model.AnonymousInitials, f.repo.ListPrayerRequests(ctx)[0].Initials)
}

func TestRemote_ReadFailureFallsBackToLocal(t *testing.T) {
	ctx := context.Background()
	f := newRemoteFixture(t, false)

	require.NoError(t, f.db.Migrator().DropTable(&eventRow{}, &loreEntryRow{}))

	events := f.repo.ListEvents(ctx)
	assert.Len(t, events, 4)
	assert.Len(t, f.repo.ListLoreEntries(ctx), 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReadFallbacks.WithLabelValues("events")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReadFallbacks.WithLabelValues("lore_entries")))

	events[0].Title = "changed"
	assert.NotEqual(t, "changed", f.repo.ListEvents(ctx)[0].Title)

	_, err := f.repo.CreateEvent(ctx, model.Event{Title: "x"})
	assert.Error(t, err)
}

func TestRemote_EventLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newRemoteFixture(t, false)

	created, err := f.repo.CreateEvent(ctx, model.Event{Title: "Estudo", Type: model.EventEstudo, Date: time.Now().Add(time.Hour), Capacity: 50, Attendees: 45})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	next := created.Attendees + 1
	updated, err := f.repo.UpdateEvent(ctx, created.ID, model.EventPatch{Attendees: &next})
	require.NoError(t, err)
	assert.Equal(t, 46, updated.Attendees)
	assert.Equal(t, 50, updated.Capacity)
	assert.Equal(t, model.EventEstudo, updated.Type)

	_, err = f.repo.UpdateEvent(ctx, created.ID+100, model.EventPatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, f.repo.DeleteEvent(ctx, created.ID))
	require.NoError(t, f.repo.DeleteEvent(ctx, created.ID))
	_, err = f.repo.GetEvent(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRemote_Users(t *testing.T) {
	ctx := context.Background()
	f := newRemoteFixture(t, true)

	user, err := f.repo.CreateUser(ctx, model.User{Name: "Nova", Email: "nova@conselhoreal.com", Role: model.RoleMembro}, "senha1")
	require.NoError(t, err)

	_, err = f.repo.CreateUser(ctx, model.User{Name: "Dup", Email: "NOVA@conselhoreal.com"}, "x")
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)

	_, err = f.repo.UpdateUser(ctx, user.ID, model.UserPatch{Email: strPtr("joana@email.com")})
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)

	updated, err := f.repo.UpdateUser(ctx, user.ID, model.UserPatch{Email: strPtr("nova2@conselhoreal.com"), Allergies: strPtr("Lactose")})
	require.NoError(t, err)
	assert.Equal(t, "Lactose", updated.Allergies)
	assert.Equal(t, "Nova", updated.Name)

	signedIn, err := f.repo.AuthenticateUser(ctx, "nova2@conselhoreal.com", "senha1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)
	assert.Zero(t, testutil.ToFloat64(f.metrics.AuthFallbacks))

	_, err = f.repo.UpdateUser(ctx, 999999, model.UserPatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, f.repo.DeleteUser(ctx, user.ID))
	require.NoError(t, f.repo.DeleteUser(ctx, user.ID))
	var accounts int64
	require.NoError(t, f.db.Model(&authAccountRow{}).Where("email = ?", "nova2@conselhoreal.com").Count(&accounts).Error)
	assert.Zero(t, accounts)
}

func TestRemote_AuthenticateCreatesMissingProfile(t *testing.T) {
	ctx := context.Background()
	f := newRemoteFixture(t, false)

	hash, err := bcrypt.GenerateFromPassword([]byte("axé"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, f.db.Create(&authAccountRow{Email: "maria.jose_silva@email.com", PasswordHash: string(hash)}).Error)

	user, err := f.repo.AuthenticateUser(ctx, "Maria.Jose_Silva@email.com", "axé")
	require.NoError(t, err)
	assert.Equal(t, "maria jose silva", user.Name)
	assert.Equal(t, model.RoleMembro, user.Role)
	assert.NotZero(t, user.ID)

	again, err := f.repo.AuthenticateUser(ctx, "maria.jose_silva@email.com", "axé")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestRemote_AuthenticatePromotesAdmin(t *testing.T) {
	ctx := context.Background()
	f := newRemoteFixture(t, true)

	admin, err := f.repo.GetUserByEmail(ctx, AdminEmail)
	require.NoError(t, err)
	membro := model.RoleMembro
	_, err = f.repo.UpdateUser(ctx, admin.ID, model.UserPatch{Role: &membro})
	require.NoError(t, err)

	user, err := f.repo.AuthenticateUser(ctx, AdminEmail, "reidas7ebrilhantina")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdm, user.Role)

	stored, err := f.repo.GetUserByEmail(ctx, AdminEmail)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdm, stored.Role)
}

func TestRemote_AuthenticateFallsBackToLocalCredentials(t *testing.T) {
	ctx := context.Background()
	f := newRemoteFixture(t, false)

	user, err := f.repo.AuthenticateUser(ctx, "membro@conselhoreal.com", "visitante123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleMembro, user.Role)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AuthFallbacks))

	_, err = f.repo.AuthenticateUser(ctx, "membro@conselhoreal.com", "errada")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRemote_DiaryUpdate(t *testing.T) {
	ctx := context.Background()
	f := newRemoteFixture(t, false)

	due := time.Now().Add(48 * time.Hour)
	created, err := f.repo.CreateDiaryEntry(ctx, model.DiaryEntry{
		UserID: 7, Title: "Sonho", Tags: []string{"sonho"}, DueDate: &due,
		Attachment: &model.Attachment{Name: "a.jpg", Size: 10},
	})
	require.NoError(t, err)
	require.NotNil(t, created.DueDate)

	updated, err := f.repo.UpdateDiaryEntry(ctx, created.ID, model.DiaryEntryPatch{
		Content: strPtr("detalhes"), ClearDueDate: true, ClearAttachment: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sonho", updated.Title)
	assert.Equal(t, "detalhes", updated.Content)
	assert.Equal(t, []string{"sonho"}, updated.Tags)
	assert.Nil(t, updated.DueDate)
	assert.Nil(t, updated.Attachment)

	_, err = f.repo.UpdateDiaryEntry(ctx, created.ID+1, model.DiaryEntryPatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRemote_Recados(t *testing.T) {
	ctx := context.Background()
	f := newRemoteFixture(t, false)

	first, err := f.repo.CreateRecado(ctx, model.Recado{UserID: 5, Message: "um"})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultRecadoSender, first.From)
	_, err = f.repo.CreateRecado(ctx, model.Recado{UserID: 5, From: "Pai de Santo", Message: "dois"})
	require.NoError(t, err)
	_, err = f.repo.CreateRecado(ctx, model.Recado{UserID: 6, Message: "outro"})
	require.NoError(t, err)

	require.NoError(t, f.repo.ToggleRecadoRead(ctx, first.ID, true))
	require.NoError(t, f.repo.ToggleRecadoRead(ctx, 999, true))

	recados := f.repo.ListRecados(ctx, 5)
	require.Len(t, recados, 2)

	require.NoError(t, f.repo.MarkRecadosAsRead(ctx, 5))
	for _, r := range f.repo.ListRecados(ctx, 5) {
		assert.True(t, r.Read)
	}
	assert.False(t, f.repo.ListRecados(ctx, 6)[0].Read)
}

func TestRemote_SpiritualEntityHistory(t *testing.T) {
	ctx := context.Background()
	f := newRemoteFixture(t, false)

	created, err := f.repo.CreateSpiritualEntity(ctx, model.SpiritualEntity{Name: "Exu Mirim", Line: "Exu", Description: "primeira"})
	require.NoError(t, err)
	assert.NotNil(t, created.DescriptionHistory)

	same, err := f.repo.UpdateSpiritualEntity(ctx, created.ID, model.SpiritualEntityPatch{Description: strPtr("primeira")})
	require.NoError(t, err)
	assert.Empty(t, same.DescriptionHistory)

	updated, err := f.repo.UpdateSpiritualEntity(ctx, created.ID, model.SpiritualEntityPatch{Description: strPtr("segunda")})
	require.NoError(t, err)
	assert.Equal(t, "segunda", updated.Description)
	require.Len(t, updated.DescriptionHistory, 1)
	assert.Equal(t, "primeira", updated.DescriptionHistory[0].Description)

	require.NoError(t, f.repo.AppendSpiritualEntityHistory(ctx, created.ID, "marco"))
	require.NoError(t, f.repo.AppendSpiritualEntityHistory(ctx, created.ID+1, "marco"))
	var orphans int64
	require.NoError(t, f.db.Model(&spiritualHistoryRow{}).Where("entity_id = ?", created.ID+1).Count(&orphans).Error)
	assert.Zero(t, orphans)

	_, err = f.repo.UpdateSpiritualEntity(ctx, created.ID+1, model.SpiritualEntityPatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, f.repo.DeleteSpiritualEntity(ctx, created.ID))
	var history int64
	require.NoError(t, f.db.Model(&spiritualHistoryRow{}).Count(&history).Error)
	assert.Zero(t, history)
}

func TestRemote_MemberEntities(t *testing.T) {
	ctx := context.Background()
	f := newRemoteFixture(t, false)

	created, err := f.repo.CreateMemberEntity(ctx, model.MemberEntity{UserID: 3, Name: "Zé Pelintra", Line: "Malandragem"})
	require.NoError(t, err)

	updated, err := f.repo.UpdateMemberEntity(ctx, created.ID, model.MemberEntityPatch{Curiosities: strPtr("chapéu branco")})
	require.NoError(t, err)
	assert.Equal(t, "Zé Pelintra", updated.Name)
	assert.Equal(t, "chapéu branco", updated.Curiosities)

	got, err := f.repo.GetMemberEntity(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	second, err := f.repo.CreateMemberEntity(ctx, model.MemberEntity{UserID: 3, Name: "Baiano"})
	require.NoError(t, err)
	listed := f.repo.ListMemberEntities(ctx, 3)
	require.Len(t, listed, 2)
	assert.Equal(t, second.ID, listed[0].ID)

	require.NoError(t, f.repo.DeleteMemberEntity(ctx, created.ID))
	require.NoError(t, f.repo.DeleteMemberEntity(ctx, second.ID))
	assert.Empty(t, f.repo.ListMemberEntities(ctx, 3))
}

func TestInferProfileName(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
		email    string
		want     string
	}{
		{name: "metadata wins", metadata: " Ana ", email: "x@y.com", want: "Ana"},
		{name: "local part", email: "joao.da-silva@y.com", want: "joao da silva"},
		{name: "only separators", email: "._-@y.com", want: "Membro"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inferProfileName(tt.metadata, tt.email))
		})
	}
}

func TestInferProfileRole(t *testing.T) {
	assert.Equal(t, model.RoleAdm, inferProfileRole("", AdminEmail))
	assert.Equal(t, model.RoleAdm, inferProfileRole("MEMBRO", AdminEmail))
	assert.Equal(t, model.RoleVisitante, inferProfileRole("VISITANTE", "x@y.com"))
	assert.Equal(t, model.RoleMembro, inferProfileRole("", "x@y.com"))
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{}, parseTags(""))
	assert.Equal(t, []string{"a", "b"}, parseTags(`["a"," b "]`))
	assert.Equal(t, []string{"a", "b"}, parseTags("a,b"))
	assert.Equal(t, []string{"a", "b"}, parseTags(`[a, "b"`))
}

func TestNew_LocalWhenUnconfigured(t *testing.T) {
	repo, err := New(context.Background(), &config.Config{}, zap.NewNop(), nil)
	require.NoError(t, err)
	assert.Equal(t, ModeLocal, repo.Mode())
}

func TestNew_LocalWhenUnreachable(t *testing.T) {
	cfg := &config.Config{BackendDriver: "oracle", BackendURL: "dsn", BackendKey: "key"}
	repo, err := New(context.Background(), cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	assert.Equal(t, ModeLocal, repo.Mode())
}

func TestNew_RemoteWhenReachable(t *testing.T) {
	cfg := &config.Config{BackendDriver: "sqlite", BackendURL: "file:" + uuid.NewString() + "?mode=memory&cache=shared", BackendKey: "key"}
	repo, err := New(context.Background(), cfg, zap.NewNop(), metrics.New())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	assert.Equal(t, ModeRemote, repo.Mode())
}
