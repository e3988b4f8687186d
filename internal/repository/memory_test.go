package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "conselhoreal/internal/errors"
	"conselhoreal/internal/model"
)

func newTestMemory(t *testing.T) *memoryRepository {
	t.Helper()
	m, err := newMemory(SampleDataset(time.Now()))
	require.NoError(t, err)
	return m
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestMemory_ListsReturnSeededData(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)
	ds := SampleDataset(time.Now())

	assert.Len(t, m.ListEvents(ctx), len(ds.Events))
	assert.Len(t, m.ListAnnouncements(ctx), len(ds.Announcements))
	assert.Len(t, m.ListPrayerRequests(ctx), len(ds.PrayerRequests))
	assert.Len(t, m.ListGalleryImages(ctx), len(ds.GalleryImages))
	assert.Len(t, m.ListUsers(ctx), len(ds.Users))
	assert.Len(t, m.ListDiaryEntries(ctx, 0), len(ds.DiaryEntries))
	assert.Len(t, m.ListRecados(ctx, 0), len(ds.Recados))
	assert.Len(t, m.ListMemberEntities(ctx, 0), len(ds.MemberEntities))
	assert.Len(t, m.ListSpiritualEntities(ctx), len(ds.SpiritualEntities))
	assert.Len(t, m.ListLoreEntries(ctx), len(ds.LoreEntries))
}

func TestMemory_EmptyDatasetListsAreNotNil(t *testing.T) {
	ctx := context.Background()
	m, err := newMemory(Dataset{})
	require.NoError(t, err)

	assert.NotNil(t, m.ListEvents(ctx))
	assert.NotNil(t, m.ListUsers(ctx))
	assert.NotNil(t, m.ListRecados(ctx, 7))
	assert.NotNil(t, m.ListLoreEntries(ctx))
}

func TestMemory_ReturnedValuesDoNotAliasStorage(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	events := m.ListEvents(ctx)
	original := events[0].Title
	events[0].Title = "changed"
	assert.Equal(t, original, m.ListEvents(ctx)[0].Title)

	entries := m.ListDiaryEntries(ctx, 2)
	require.NotEmpty(t, entries)
	entries[0].Tags[0] = "changed"
	assert.NotEqual(t, "changed", m.ListDiaryEntries(ctx, 2)[0].Tags[0])

	lore := m.ListLoreEntries(ctx)
	lore[0].RelatedEntities[0] = 99
	assert.Equal(t, int64(1), m.ListLoreEntries(ctx)[0].RelatedEntities[0])
}

func TestMemory_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)
	before := len(m.ListEvents(ctx))

	require.NoError(t, m.DeleteEvent(ctx, 1))
	require.NoError(t, m.DeleteEvent(ctx, 1))
	assert.Len(t, m.ListEvents(ctx), before-1)

	require.NoError(t, m.DeleteUser(ctx, 12345))
	require.NoError(t, m.DeleteDiaryEntry(ctx, 12345))
	require.NoError(t, m.DeleteMemberEntity(ctx, 12345))
	require.NoError(t, m.DeleteSpiritualEntity(ctx, 12345))
}

func TestMemory_UpdateMissingIdCreatesRecord(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	event, err := m.UpdateEvent(ctx, 999, model.EventPatch{Title: strPtr("Nova Gira"), Capacity: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, int64(999), event.ID)
	assert.Equal(t, model.EventGira, event.Type)
	assert.WithinDuration(t, time.Now(), event.Date, time.Minute)

	got, err := m.GetEvent(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, "Nova Gira", got.Title)

	entity, err := m.UpdateMemberEntity(ctx, 555, model.MemberEntityPatch{Name: strPtr("Exu Caveira")})
	require.NoError(t, err)
	assert.Equal(t, int64(555), entity.ID)

	spiritual, err := m.UpdateSpiritualEntity(ctx, 777, model.SpiritualEntityPatch{Name: strPtr("Exu Tiriri")})
	require.NoError(t, err)
	assert.NotNil(t, spiritual.DescriptionHistory)
}

func TestMemory_UpdateMissingUserNeedsPassword(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	_, err := m.UpdateUser(ctx, 42, model.UserPatch{Name: strPtr("Novo"), Email: strPtr("novo@conselhoreal.com")})
	assert.ErrorIs(t, err, apperrors.ErrPasswordRequired)

	user, err := m.UpdateUser(ctx, 42, model.UserPatch{Name: strPtr("Novo"), Email: strPtr("novo@conselhoreal.com"), Password: strPtr("segredo")})
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, model.RoleMembro, user.Role)

	_, err = m.AuthenticateUser(ctx, "novo@conselhoreal.com", "segredo")
	assert.NoError(t, err)
}

func TestMemory_CreateAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	first, err := m.CreateEvent(ctx, model.Event{Title: "A"})
	require.NoError(t, err)
	second, err := m.CreateEvent(ctx, model.Event{Title: "B"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestMemory_Ordering(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	_, err := m.CreateEvent(ctx, model.Event{Title: "Ontem", Date: time.Now().AddDate(0, 0, -1)})
	require.NoError(t, err)
	events := m.ListEvents(ctx)
	assert.Equal(t, "Ontem", events[0].Title)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Date.Before(events[i-1].Date))
	}

	created, err := m.CreateAnnouncement(ctx, model.Announcement{Title: "Novo aviso"})
	require.NoError(t, err)
	assert.Equal(t, model.FormatDisplayDate(time.Now()), created.Date)
	assert.Equal(t, "Novo aviso", m.ListAnnouncements(ctx)[0].Title)

	_, err = m.CreatePrayerRequest(ctx, model.PrayerRequest{Request: "Paz"})
	require.NoError(t, err)
	prayers := m.ListPrayerRequests(ctx)
	assert.Equal(t, "Paz", prayers[0].Request)
	assert.Equal(t, model.AnonymousInitials, prayers[0].Initials)

	_, err = m.CreateRecado(ctx, model.Recado{UserID: 2, Message: "Novo"})
	require.NoError(t, err)
	recados := m.ListRecados(ctx, 2)
	assert.Equal(t, "Novo", recados[0].Message)
	assert.Equal(t, model.DefaultRecadoSender, recados[0].From)
	for _, r := range recados {
		assert.Equal(t, int64(2), r.UserID)
	}

	users := m.ListUsers(ctx)
	assert.Equal(t, "Henrique Versuri", users[0].Name)

	lore := m.ListLoreEntries(ctx)
	assert.Equal(t, "A Fundação do Conselho Real", lore[0].Title)

	before := m.ListMemberEntities(ctx, 0)
	newest, err := m.CreateMemberEntity(ctx, model.MemberEntity{UserID: 2, Name: "Baiano"})
	require.NoError(t, err)
	all := m.ListMemberEntities(ctx, 0)
	require.Len(t, all, len(before)+1)
	assert.Equal(t, newest.ID, all[0].ID)
	own := m.ListMemberEntities(ctx, 2)
	assert.Equal(t, newest.ID, own[0].ID)

	_, err = m.CreateSpiritualEntity(ctx, model.SpiritualEntity{Name: "aaa minúscula"})
	require.NoError(t, err)
	_, err = m.CreateSpiritualEntity(ctx, model.SpiritualEntity{Name: "ZZZ maiúscula"})
	require.NoError(t, err)
	entities := m.ListSpiritualEntities(ctx)
	assert.Equal(t, "aaa minúscula", entities[0].Name)
	assert.Equal(t, "ZZZ maiúscula", entities[len(entities)-1].Name)
}

func TestMemory_DiaryFilteredByOwnerNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	entries := m.ListDiaryEntries(ctx, 2)
	require.Len(t, entries, 2)
	assert.Equal(t, "Estudo sobre a Linha dos Malandros", entries[0].Title)

	created, err := m.CreateDiaryEntry(ctx, model.DiaryEntry{UserID: 2, Title: "Hoje"})
	require.NoError(t, err)
	assert.NotNil(t, created.Tags)
	assert.Equal(t, "Hoje", m.ListDiaryEntries(ctx, 2)[0].Title)
}

func TestMemory_Authenticate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantRole model.Role
		wantErr  error
	}{
		{name: "member", email: "membro@conselhoreal.com", password: "visitante123", wantRole: model.RoleMembro},
		{name: "email is case insensitive", email: "  MEMBRO@conselhoreal.com ", password: "visitante123", wantRole: model.RoleMembro},
		{name: "admin", email: AdminEmail, password: "reidas7ebrilhantina", wantRole: model.RoleAdm},
		{name: "wrong password", email: "membro@conselhoreal.com", password: "errada", wantErr: apperrors.ErrInvalidCredentials},
		{name: "unknown email", email: "ninguem@conselhoreal.com", password: "visitante123", wantErr: apperrors.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMemory(t)
			user, err := m.AuthenticateUser(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, user.Role)
		})
	}
}

func TestMemory_AuthenticateWithoutProfile(t *testing.T) {
	ctx := context.Background()
	m, err := newMemory(Dataset{Credentials: []SeedCredential{{Email: "solto@conselhoreal.com", Password: "x"}}})
	require.NoError(t, err)

	_, err = m.AuthenticateUser(ctx, "solto@conselhoreal.com", "x")
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}

func TestMemory_AdminRoleSelfHeals(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	membro := model.RoleMembro
	_, err := m.UpdateUser(ctx, 1, model.UserPatch{Role: &membro})
	require.NoError(t, err)

	user, err := m.AuthenticateUser(ctx, AdminEmail, "reidas7ebrilhantina")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdm, user.Role)

	stored, err := m.GetUserByEmail(ctx, AdminEmail)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdm, stored.Role)
}

func TestMemory_Users(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	_, err := m.CreateUser(ctx, model.User{Name: "Outro", Email: "JOANA@email.com"}, "x")
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)

	_, err = m.CreateUser(ctx, model.User{Name: "Sem senha", Email: "semsenha@email.com"}, "  ")
	assert.ErrorIs(t, err, apperrors.ErrPasswordRequired)

	_, err = m.UpdateUser(ctx, 3, model.UserPatch{Email: strPtr("membro@conselhoreal.com")})
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)

	updated, err := m.UpdateUser(ctx, 2, model.UserPatch{Email: strPtr("membro.novo@conselhoreal.com")})
	require.NoError(t, err)
	assert.Equal(t, "Amendoim", updated.Allergies)

	_, err = m.AuthenticateUser(ctx, "membro.novo@conselhoreal.com", "visitante123")
	require.NoError(t, err)

	require.NoError(t, m.DeleteUser(ctx, 2))
	_, err = m.AuthenticateUser(ctx, "membro.novo@conselhoreal.com", "visitante123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestMemory_Recados(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	require.NoError(t, m.ToggleRecadoRead(ctx, 2, false))
	require.NoError(t, m.ToggleRecadoRead(ctx, 424242, true))
	for _, r := range m.ListRecados(ctx, 2) {
		assert.False(t, r.Read)
	}

	require.NoError(t, m.MarkRecadosAsRead(ctx, 2))
	for _, r := range m.ListRecados(ctx, 2) {
		assert.True(t, r.Read)
	}
	for _, r := range m.ListRecados(ctx, 3) {
		assert.False(t, r.Read)
	}
}

func TestMemory_SpiritualHistory(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	before := m.ListSpiritualEntities(ctx)
	var original model.SpiritualEntity
	for _, e := range before {
		if e.ID == 1 {
			original = e
		}
	}

	_, err := m.UpdateSpiritualEntity(ctx, 1, model.SpiritualEntityPatch{Line: strPtr("Exu")})
	require.NoError(t, err)

	updated, err := m.UpdateSpiritualEntity(ctx, 1, model.SpiritualEntityPatch{Description: strPtr("Nova descrição")})
	require.NoError(t, err)
	require.Len(t, updated.DescriptionHistory, 1)
	assert.Equal(t, original.Description, updated.DescriptionHistory[0].Description)
	assert.Equal(t, "Nova descrição", updated.Description)

	require.NoError(t, m.AppendSpiritualEntityHistory(ctx, 1, "marco"))
	require.NoError(t, m.AppendSpiritualEntityHistory(ctx, 404, "marco"))
	for _, e := range m.ListSpiritualEntities(ctx) {
		assert.NotEqual(t, int64(404), e.ID)
	}

	for _, e := range m.ListSpiritualEntities(ctx) {
		if e.ID == 1 {
			assert.Len(t, e.DescriptionHistory, 2)
		}
	}
}

func TestMemory_ParticipateKeepsCapacity(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	event, err := m.GetEvent(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 50, event.Capacity)
	require.Equal(t, 45, event.Attendees)

	next := event.Attendees + 1
	updated, err := m.UpdateEvent(ctx, 1, model.EventPatch{Attendees: &next})
	require.NoError(t, err)
	assert.Equal(t, 46, updated.Attendees)
	assert.Equal(t, 50, updated.Capacity)
	assert.Equal(t, event.Title, updated.Title)
}
