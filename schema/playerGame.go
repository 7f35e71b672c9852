package schema

// PlayerGame records one player's score in one game. The referenced rows
// must outlive it, so deletes remove player_games rows first.
type PlayerGame struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	PlayerID uint   `json:"player_id" gorm:"not null"`
	GameID   uint   `json:"game_id" gorm:"not null"`
	Score    int    `json:"score" gorm:"not null"`
	Player   Player `json:"-" gorm:"foreignKey:PlayerID"`
	Game     Game   `json:"-" gorm:"foreignKey:GameID"`
}
