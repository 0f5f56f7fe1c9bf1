package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles recognized by the role middleware. The JWT principal is the single
// source of tenant scope and role.
const (
	RoleSuperAdmin  = "super_admin"
	RoleAdmin       = "admin"
	RoleSales       = "sales"
	RoleProcurement = "procurement"
)

// User represents a store-scoped account (admin or department user)
type User struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrgID           string         `gorm:"type:varchar(50);index" json:"org_id"`
	StoreID         string         `gorm:"type:varchar(50);index" json:"store_id"`
	FirstName       string         `gorm:"type:varchar(100)" json:"first_name"`
	LastName        string         `gorm:"type:varchar(100)" json:"last_name"`
	Email           string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password        string         `gorm:"type:varchar(255);not null" json:"-"`
	Role            string         `gorm:"type:varchar(50);not null" json:"role"`
	JoiningDate     string         `gorm:"type:varchar(10)" json:"joining_date"`
	TerminationDate *string        `gorm:"type:varchar(10)" json:"termination_date"`
	Status          int            `gorm:"type:smallint;default:0" json:"status"`
	FirstLogin      bool           `gorm:"default:true" json:"first_login"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
