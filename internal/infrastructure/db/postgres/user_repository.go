package postgres

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"gorm.io/gorm"

	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/ports"
)

var userColumns = map[string]string{
	ports.FieldUserName: "name",
}

type UserRepository struct {
	db  *gorm.DB
	seq ports.Sequence
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB, seq ports.Sequence) *UserRepository {
	return &UserRepository{db: db, seq: seq}
}

func (r *UserRepository) Get(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, int64(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

func (r *UserRepository) Insert(ctx context.Context, u *domain.User) (domain.UserID, error) {
	id, err := r.seq.Next(ctx, domain.ResourceUser)
	if err != nil {
		return 0, err
	}
	m := toUserModel(u)
	m.ID = id
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, translate(err, domain.ResourceUser, ports.FieldUserName)
	}
	u.ID = domain.UserID(id)
	return u.ID, nil
}

func (r *UserRepository) Replace(ctx context.Context, u *domain.User) error {
	res := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", int64(u.ID)).Updates(map[string]any{
		"name":     u.Name,
		"password": u.Password,
		"email":    u.Email,
	})
	if res.Error != nil {
		return translate(res.Error, domain.ResourceUser, ports.FieldUserName)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id domain.UserID) error {
	res := r.db.WithContext(ctx).Delete(&userModel{}, int64(id))
	if res.Error != nil {
		return translate(res.Error, domain.ResourceUser, "")
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Scan(ctx context.Context) iter.Seq2[*domain.User, error] {
	return scanRows(ctx, r.db, (*userModel).toDomain)
}

func (r *UserRepository) ExistsByField(ctx context.Context, field string, value any) (bool, error) {
	col, ok := userColumns[field]
	if !ok {
		return false, fmt.Errorf("user: field %q is not indexed", field)
	}
	return exists(ctx, r.db, &userModel{}, col, value)
}

func (r *UserRepository) Reset(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&userModel{}).Error
}
