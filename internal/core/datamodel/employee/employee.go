package employee

import "time"

type Employee struct {
	ID         string    `gorm:"primaryKey;size:24"`
	FirstName  string    `gorm:"column:first_name;not null"`
	LastName   string    `gorm:"column:last_name;not null"`
	Email      string    `gorm:"column:email;uniqueIndex;not null"`
	Department string    `gorm:"column:department"`
	Position   string    `gorm:"column:position"`
	Salary     float64   `gorm:"column:salary"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// Patch lists the fields an update replaces; nil fields are left untouched.
type Patch struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Department *string
	Position   *string
	Salary     *float64
}

func (p Patch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.Department == nil && p.Position == nil && p.Salary == nil
}
