package service

import (
	"context"
	"fmt"

	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/ports"
)

type UserService struct {
	*shared
}

var _ ports.UserService = (*UserService)(nil)

func (s *UserService) Create(ctx context.Context, in ports.UserInput) (_ *domain.User, err error) {
	ctx, span := startSpan(ctx, "UserService.Create")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	if err = s.engine.ValidateUserCreate(ctx, in); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	user := &domain.User{Name: in.Name, Password: in.Password, Email: in.Email}
	_, err = s.repos.Users.Insert(ctx, user)
	if err == nil {
		s.publish(ctx, domain.ResourceUser, ports.ActionCreated, int64(user.ID))
	}
	s.mu.Unlock()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create user")
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Int64("user_id", int64(user.ID)).Str("name", user.Name).Msg("user created")
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id domain.UserID) (_ *domain.User, err error) {
	ctx, span := startSpan(ctx, "UserService.Get")
	defer func() { endSpan(span, err) }()

	return s.repos.Users.Get(ctx, id)
}

// Update replaces every field of the user. Absent optional fields are cleared.
func (s *UserService) Update(ctx context.Context, id domain.UserID, in ports.UserInput) (_ *domain.User, err error) {
	ctx, span := startSpan(ctx, "UserService.Update")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	user, err := s.replace(ctx, id, in)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Patch overwrites only the fields present in p.
func (s *UserService) Patch(ctx context.Context, id domain.UserID, p ports.UserPatch) (_ *domain.User, err error) {
	ctx, span := startSpan(ctx, "UserService.Patch")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	current, err := s.repos.Users.Get(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	in := ports.UserInput{Name: current.Name, Password: current.Password, Email: current.Email}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Password != nil {
		in.Password = *p.Password
	}
	if p.Email != nil {
		in.Email = p.Email
	}
	user, err := s.replace(ctx, id, in)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return user, nil
}

// replace must run under s.mu.
func (s *UserService) replace(ctx context.Context, id domain.UserID, in ports.UserInput) (*domain.User, error) {
	if err := s.engine.ValidateUserUpdate(ctx, id, in); err != nil {
		return nil, err
	}
	user := &domain.User{ID: id, Name: in.Name, Password: in.Password, Email: in.Email}
	if err := s.repos.Users.Replace(ctx, user); err != nil {
		s.log.Error().Err(err).Int64("user_id", int64(id)).Msg("failed to update user")
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	s.log.Info().Int64("user_id", int64(id)).Msg("user updated")
	s.publish(ctx, domain.ResourceUser, ports.ActionUpdated, int64(id))
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id domain.UserID) (err error) {
	ctx, span := startSpan(ctx, "UserService.Delete")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	if err = s.engine.ValidateUserDelete(ctx, id); err != nil {
		s.mu.Unlock()
		return err
	}
	err = s.repos.Users.Delete(ctx, id)
	if err == nil {
		s.publish(ctx, domain.ResourceUser, ports.ActionDeleted, int64(id))
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	s.log.Info().Int64("user_id", int64(id)).Msg("user deleted")
	return nil
}

func (s *UserService) List(ctx context.Context) (_ []*domain.User, err error) {
	ctx, span := startSpan(ctx, "UserService.List")
	defer func() { endSpan(span, err) }()

	users := []*domain.User{}
	for u, err := range s.repos.Users.Scan(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, u)
	}
	return users, nil
}
