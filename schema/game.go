package schema

import "time"

type Game struct {
	ID   uint      `json:"id" gorm:"primaryKey"`
	Time time.Time `json:"time"`
}
