package postgres

import (
	"time"

	"github.com/yudapramata/rab-management/internal/device"
	"gorm.io/gorm"
)

// DeviceRepository implements device.RepositoryAPI using GORM
type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) device.RepositoryAPI {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) FindByToken(token string) (*device.DeviceRegistration, error) {
	var reg device.DeviceRegistration
	err := r.db.Where("token = ?", token).First(&reg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

func (r *DeviceRepository) DeactivateAllForUser(userID int64) error {
	return r.db.Model(&device.DeviceRegistration{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		}).Error
}

func (r *DeviceRepository) Create(reg *device.DeviceRegistration) error {
	return r.db.Create(reg).Error
}

func (r *DeviceRepository) Save(reg *device.DeviceRegistration) error {
	reg.UpdatedAt = time.Now()
	return r.db.Save(reg).Error
}

func (r *DeviceRepository) ActiveTokensForUsers(userIDs []int64) (map[int64][]string, error) {
	if len(userIDs) == 0 {
		return map[int64][]string{}, nil
	}

	var regs []device.DeviceRegistration
	err := r.db.Where("user_id IN ? AND is_active = ?", userIDs, true).
		Find(&regs).Error
	if err != nil {
		return nil, err
	}

	tokens := make(map[int64][]string, len(regs))
	for _, reg := range regs {
		tokens[reg.UserID] = append(tokens[reg.UserID], reg.Token)
	}
	return tokens, nil
}
