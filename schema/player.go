package schema

type Player struct {
	ID    uint    `json:"id" gorm:"primaryKey"`
	Email string  `json:"email" gorm:"not null"`
	Name  *string `json:"name"`
}
