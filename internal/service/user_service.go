package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"conselhoreal/internal/cache"
	"conselhoreal/internal/model"
	"conselhoreal/internal/repository"
)

const userCacheTTL = 5 * time.Minute

var memberCSVHeader = []string{"ID", "Nome", "Email", "Membro Desde", "Alergias"}

// UserService exposes user administration and the signed-in profile.
type UserService interface {
	List(ctx context.Context) []model.User
	Profile(ctx context.Context, id int64, email string) (model.User, error)
	Create(ctx context.Context, user model.User, password string) (model.User, error)
	Update(ctx context.Context, id int64, patch model.UserPatch) (model.User, error)
	Delete(ctx context.Context, id int64) error
	Members(ctx context.Context, search string) []model.User
	ExportMembersCSV(ctx context.Context, w io.Writer, search string) (int, error)
}

type userService struct {
	repo  repository.UserRepository
	cache cache.Store
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, store cache.Store) UserService {
	return &userService{repo: repo, cache: store}
}

// MembersCSVFileName is the download name of a member export made on day.
func MembersCSVFileName(day time.Time) string {
	return fmt.Sprintf("membros_conselho_real_%s.csv", day.Format("2006-01-02"))
}

func (s *userService) cacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) List(ctx context.Context) []model.User {
	return s.repo.ListUsers(ctx)
}

// Profile returns the user behind a session, cached by id.
func (s *userService) Profile(ctx context.Context, id int64, email string) (model.User, error) {
	var cached model.User
	if readCached(ctx, s.cache, s.cacheKey(id), &cached) {
		return cached, nil
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return model.User{}, err
	}

	writeCached(ctx, s.cache, s.cacheKey(user.ID), user, userCacheTTL)
	return user, nil
}

func (s *userService) Create(ctx context.Context, user model.User, password string) (model.User, error) {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.TrimSpace(user.Email)
	return s.repo.CreateUser(ctx, user, password)
}

func (s *userService) Update(ctx context.Context, id int64, patch model.UserPatch) (model.User, error) {
	user, err := s.repo.UpdateUser(ctx, id, patch)
	if err != nil {
		return model.User{}, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// Members lists users with role MEMBRO whose name or email contains search, ignoring case.
func (s *userService) Members(ctx context.Context, search string) []model.User {
	search = strings.ToLower(strings.TrimSpace(search))
	members := []model.User{}
	for _, u := range s.repo.ListUsers(ctx) {
		if u.Role != model.RoleMembro {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Name), search) && !strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		members = append(members, u)
	}
	return members
}

// ExportMembersCSV writes Members(search) as CSV and returns how many rows it wrote.
func (s *userService) ExportMembersCSV(ctx context.Context, w io.Writer, search string) (int, error) {
	members := s.Members(ctx, search)

	cw := csv.NewWriter(w)
	if err := cw.Write(memberCSVHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for _, m := range members {
		record := []string{strconv.FormatInt(m.ID, 10), m.Name, m.Email, m.MemberSince, m.Allergies}
		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return len(members), nil
}
