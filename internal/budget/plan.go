package budget

import (
	"time"

	"gorm.io/gorm"
)

// Plan lifecycle statuses, admin-set and monotonic.
const (
	PlanStatusDraft      = "draft"
	PlanStatusOnProgress = "on_progress"
	PlanStatusSelesai    = "selesai"
)

var planStatusRank = map[string]int{
	PlanStatusDraft:      0,
	PlanStatusOnProgress: 1,
	PlanStatusSelesai:    2,
}

func ValidPlanStatus(status string) bool {
	_, ok := planStatusRank[status]
	return ok
}

// CanTransitionPlanStatus reports whether moving from one lifecycle status
// to another is allowed. The lifecycle only moves forward.
func CanTransitionPlanStatus(from, to string) bool {
	fromRank, ok := planStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := planStatusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// BudgetPlan is the RAB row. Each expense category is stored as one
// serialized text blob; the store never looks inside them. Plans are never
// hard-deleted.
type BudgetPlan struct {
	ID             int64   `json:"id" gorm:"primaryKey"`
	ProjectName    string  `json:"project_name" gorm:"column:project_name;not null"`
	JobDescription string  `json:"job_description" gorm:"column:job_description"`
	Location       string  `json:"location" gorm:"column:location"`
	SupervisorID   *int64  `json:"supervisor_id,omitempty" gorm:"column:supervisor_id"`
	PlanStatus     string  `json:"plan_status" gorm:"column:plan_status;default:draft"`

	Entertainment    string `json:"-" gorm:"column:entertainment_json"`
	MaterialTambahan string `json:"-" gorm:"column:material_tambahan_json"`
	Tukang           string `json:"-" gorm:"column:tukang_json"`
	KerjaTambah      string `json:"-" gorm:"column:kerja_tambah_json"`
	HargaTukang      string `json:"-" gorm:"column:harga_tukang_json"`

	CreatedAt time.Time      `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`
}

func (BudgetPlan) TableName() string {
	return "budget_plans"
}
