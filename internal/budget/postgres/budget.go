package postgres

import (
	"database/sql"
	"time"

	"github.com/yudapramata/rab-management/internal"
	"github.com/yudapramata/rab-management/internal/budget"
	"gorm.io/gorm"
)

// categoryColumns maps each category key to its blob column on the plan
// row.
var categoryColumns = map[budget.CategoryKey]string{
	budget.CategoryEntertainment:    "entertainment_json",
	budget.CategoryMaterialTambahan: "material_tambahan_json",
	budget.CategoryTukang:           "tukang_json",
	budget.CategoryKerjaTambah:      "kerja_tambah_json",
	budget.CategoryHargaTukang:      "harga_tukang_json",
}

// BudgetRepository implements budget.RepositoryAPI using GORM
type BudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) budget.RepositoryAPI {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) GetPlan(id int64) (*budget.BudgetPlan, error) {
	var plan budget.BudgetPlan
	err := r.db.Where("id = ?", id).First(&plan).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrPlanNotFound
		}
		return nil, internal.NewStoreError("failed to load budget plan", err)
	}
	return &plan, nil
}

func (r *BudgetRepository) GetCategoryBlob(planID int64, key budget.CategoryKey) (string, error) {
	column, ok := categoryColumns[key]
	if !ok {
		return "", internal.NewValidationError("unknown category", internal.ErrCodeInvalidCategory)
	}

	var blob sql.NullString
	err := r.db.Model(&budget.BudgetPlan{}).
		Select(column).
		Where("id = ?", planID).
		Row().
		Scan(&blob)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", internal.ErrPlanNotFound
		}
		return "", internal.NewStoreError("failed to load category blob", err)
	}
	return blob.String, nil
}

func (r *BudgetRepository) PutCategoryBlob(planID int64, key budget.CategoryKey, blob string) error {
	column, ok := categoryColumns[key]
	if !ok {
		return internal.NewValidationError("unknown category", internal.ErrCodeInvalidCategory)
	}

	result := r.db.Model(&budget.BudgetPlan{}).
		Where("id = ?", planID).
		Updates(map[string]interface{}{
			column:       blob,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return internal.NewStoreError("failed to persist category blob", result.Error)
	}
	if result.RowsAffected == 0 {
		return internal.ErrPlanNotFound
	}
	return nil
}

func (r *BudgetRepository) UpdatePlanStatus(planID int64, status string) error {
	result := r.db.Model(&budget.BudgetPlan{}).
		Where("id = ?", planID).
		Updates(map[string]interface{}{
			"plan_status": status,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return internal.NewStoreError("failed to update plan status", result.Error)
	}
	if result.RowsAffected == 0 {
		return internal.ErrPlanNotFound
	}
	return nil
}
