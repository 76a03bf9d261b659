package memory

import (
	"context"
	"iter"

	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/ports"
)

type UserRepository struct {
	t *table[domain.User]
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(seq ports.Sequence) *UserRepository {
	return &UserRepository{t: newTable(
		domain.ResourceUser, seq, domain.ErrUserNotFound,
		(*domain.User).Clone,
		func(u *domain.User) int64 { return int64(u.ID) },
		func(u *domain.User, id int64) { u.ID = domain.UserID(id) },
		map[string]func(*domain.User) any{
			ports.FieldUserName: func(u *domain.User) any { return u.Name },
		},
	)}
}

func (r *UserRepository) Get(_ context.Context, id domain.UserID) (*domain.User, error) {
	return r.t.get(int64(id))
}

func (r *UserRepository) Insert(ctx context.Context, u *domain.User) (domain.UserID, error) {
	id, err := r.t.insert(ctx, u)
	return domain.UserID(id), err
}

func (r *UserRepository) Replace(_ context.Context, u *domain.User) error {
	return r.t.replace(u)
}

func (r *UserRepository) Delete(_ context.Context, id domain.UserID) error {
	return r.t.delete(int64(id))
}

func (r *UserRepository) Scan(ctx context.Context) iter.Seq2[*domain.User, error] {
	return r.t.scan(ctx)
}

func (r *UserRepository) ExistsByField(_ context.Context, field string, value any) (bool, error) {
	return r.t.exists(field, value)
}

func (r *UserRepository) Reset(_ context.Context) error {
	r.t.reset()
	return nil
}
