package postgres

import (
	"github.com/yudapramata/rab-management/internal"
	"github.com/yudapramata/rab-management/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements user.RepositoryAPI using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) ListAdministratorIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&user.User{}).
		Where("role = ? AND is_active = ?", internal.RoleAdmin, true).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
