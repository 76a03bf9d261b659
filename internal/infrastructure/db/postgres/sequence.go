package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Sequence allocates ids from one PostgreSQL sequence per resource. nextval is
// never rolled back, so ids stay unique across aborted inserts.
type Sequence struct {
	db *gorm.DB
}

func NewSequence(db *gorm.DB) *Sequence {
	return &Sequence{db: db}
}

func sequenceName(resource string) string {
	return resource + "_id_seq"
}

func (s *Sequence) Next(ctx context.Context, resource string) (int64, error) {
	var id int64
	err := s.db.WithContext(ctx).Raw("SELECT nextval(?::regclass)", sequenceName(resource)).Scan(&id).Error
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", resource, err)
	}
	return id, nil
}
