package model

// Master data: small lookup tables used to decorate projects and tasks.

type Team struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"type:varchar(100);not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
}

type Employee struct {
	ID    uint    `gorm:"primaryKey" json:"id"`
	Name  string  `gorm:"type:varchar(100);not null" json:"name"`
	Email *string `gorm:"type:varchar(150)" json:"email"`
	Role  *string `gorm:"type:varchar(100)" json:"role"`
}

type Board struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
}

type ProjectCategory struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"type:varchar(50);not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
}

type ProjectStatus struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"type:varchar(50);not null" json:"name"`
	Description *string `gorm:"type:varchar(150)" json:"description"`
}

type ProjectPriority struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"type:varchar(50);not null" json:"name"`
	Description *string `gorm:"type:varchar(150)" json:"description"`
}
