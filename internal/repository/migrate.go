package repository

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"conselhoreal/internal/model"
)

// Migrate creates or updates every backend table.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(allRows()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Seed writes ds into an empty backend and reports whether it did. Ids are
// assigned by the backend; owner and lore references are remapped accordingly.
func Seed(ctx context.Context, gdb *gorm.DB, ds Dataset) (bool, error) {
	var users int64
	if err := gdb.WithContext(ctx).Model(&userRow{}).Count(&users).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if users > 0 {
		return false, nil
	}

	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userIDs := make(map[int64]int64, len(ds.Users))
		for _, u := range ds.Users {
			row := newUserRow(u)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
			userIDs[u.ID] = row.ID
		}
		for _, cred := range ds.Credentials {
			if err := seedAuthAccount(tx, cred, ds.Users); err != nil {
				return err
			}
		}

		for _, e := range ds.Events {
			row := newEventRow(e)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("seed event: %w", err)
			}
		}
		for _, a := range ds.Announcements {
			row := announcementRow{Title: ptr(a.Title), Content: ptr(a.Content), Date: ptr(a.Date)}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("seed announcement: %w", err)
			}
		}
		for _, p := range ds.PrayerRequests {
			row := prayerRequestRow{Initials: ptr(p.Initials), Request: ptr(p.Request), CreatedAt: p.Timestamp}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("seed prayer request: %w", err)
			}
		}
		// Gallery lists newest first, so the first image is inserted last.
		for i := len(ds.GalleryImages) - 1; i >= 0; i-- {
			g := ds.GalleryImages[i]
			row := galleryImageRow{Src: ptr(g.Src), Alt: ptr(g.Alt), Caption: ptr(g.Caption), Category: ptr(string(g.Category))}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("seed gallery image: %w", err)
			}
		}
		for _, d := range ds.DiaryEntries {
			row := newDiaryEntryRow(d)
			row.UserID = userIDs[d.UserID]
			row.CreatedAt = d.CreatedAt
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("seed diary entry: %w", err)
			}
		}
		for _, rc := range ds.Recados {
			row := recadoRow{
				UserID:  userIDs[rc.UserID],
				Sender:  ptr(rc.From),
				Message: ptr(rc.Message),
				Date:    ptr(formatStoredTime(rc.Date)),
				IsRead:  ptr(rc.Read),
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("seed recado: %w", err)
			}
		}
		for _, m := range ds.MemberEntities {
			row := newMemberEntityRow(m)
			row.UserID = userIDs[m.UserID]
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("seed member entity: %w", err)
			}
		}

		entityIDs := make(map[int64]int64, len(ds.SpiritualEntities))
		for _, s := range ds.SpiritualEntities {
			row := spiritualEntityRow{Name: ptr(s.Name), Line: ptr(s.Line), Description: ptr(s.Description)}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("seed spiritual entity: %w", err)
			}
			entityIDs[s.ID] = row.ID
		}
		for _, l := range ds.LoreEntries {
			related := make([]int64, 0, len(l.RelatedEntities))
			for _, id := range l.RelatedEntities {
				if mapped, ok := entityIDs[id]; ok {
					related = append(related, mapped)
				}
			}
			row := loreEntryRow{Title: ptr(l.Title), Content: ptr(l.Content), RelatedEntities: ptr(encodeRelated(related))}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("seed lore entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func seedAuthAccount(tx *gorm.DB, cred SeedCredential, users []model.User) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password for %s: %w", cred.Email, err)
	}
	account := authAccountRow{Email: strings.TrimSpace(cred.Email), PasswordHash: string(hash)}
	for _, u := range users {
		if model.NormalizeEmail(u.Email) == model.NormalizeEmail(cred.Email) {
			account.Name = ptr(u.Name)
			account.Role = ptr(string(u.Role))
		}
	}
	if err := tx.Create(&account).Error; err != nil {
		return fmt.Errorf("seed auth account %s: %w", cred.Email, err)
	}
	return nil
}
