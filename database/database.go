package database

import (
	"errors"
	"fmt"

	"github.com/bitterfly/go-chaos/scoreboard/config"
	"github.com/bitterfly/go-chaos/scoreboard/schema"
	"github.com/bitterfly/go-chaos/scoreboard/server/containers"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type ErrorType int

const (
	InsertError ErrorType = iota
	OpenError
	MigrateError
	UpdateError
	DeleteError
	QueryError
	NotFoundError
)

type DatabaseError struct {
	ErrorType ErrorType
	msg       error
}

func newOpenError(err error) *DatabaseError {
	if err == nil {
		return nil
	}
	return &DatabaseError{
		ErrorType: OpenError,
		msg:       fmt.Errorf("database open error: %w", err),
	}
}

func newMigrateError(err error) *DatabaseError {
	if err == nil {
		return nil
	}
	return &DatabaseError{
		ErrorType: MigrateError,
		msg:       fmt.Errorf("database migrate error: %w", err),
	}
}

func newInsertError(err error) *DatabaseError {
	if err == nil {
		return nil
	}
	return &DatabaseError{
		ErrorType: InsertError,
		msg:       fmt.Errorf("database insert error: %w", err),
	}
}

func newUpdateError(err error) *DatabaseError {
	if err == nil {
		return nil
	}
	return &DatabaseError{
		ErrorType: UpdateError,
		msg:       fmt.Errorf("database update error: %w", err),
	}
}

func newDeleteError(err error) *DatabaseError {
	if err == nil {
		return nil
	}
	return &DatabaseError{
		ErrorType: DeleteError,
		msg:       fmt.Errorf("database delete error: %w", err),
	}
}

func newQueryError(err error) *DatabaseError {
	if err == nil {
		return nil
	}
	return &DatabaseError{
		ErrorType: QueryError,
		msg:       fmt.Errorf("database query error: %w", err),
	}
}

func newNotFoundError(entity string, id uint) *DatabaseError {
	return &DatabaseError{
		ErrorType: NotFoundError,
		msg:       fmt.Errorf("no %s with id %d", entity, id),
	}
}

func (e *DatabaseError) Error() string {
	return e.msg.Error()
}

func Open(cfg *config.Config) (*gorm.DB, *DatabaseError) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, newOpenError(err)
	}
	return db, nil
}

func Automigrate(db *gorm.DB) *DatabaseError {
	if err := db.AutoMigrate(&schema.Player{}); err != nil {
		return newMigrateError(fmt.Errorf("schema player, %w", err))
	}
	if err := db.AutoMigrate(&schema.Game{}); err != nil {
		return newMigrateError(fmt.Errorf("schema game, %w", err))
	}
	if err := db.AutoMigrate(&schema.PlayerGame{}); err != nil {
		return newMigrateError(fmt.Errorf("schema player game, %w", err))
	}
	return nil
}

func AllPlayers(db *gorm.DB) ([]schema.Player, *DatabaseError) {
	players := make([]schema.Player, 0)
	if err := db.Find(&players).Error; err != nil {
		return nil, newQueryError(err)
	}
	return players, nil
}

func GetPlayerByID(db *gorm.DB, id uint) (*schema.Player, *DatabaseError) {
	var player schema.Player
	err := db.First(&player, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, newQueryError(err)
	}
	return &player, nil
}

func AddPlayer(db *gorm.DB, player *schema.Player) (uint, *DatabaseError) {
	if err := db.Create(player).Error; err != nil {
		return 0, newInsertError(err)
	}
	return player.ID, nil
}

func UpdatePlayer(db *gorm.DB, id uint, email string, name *string) *DatabaseError {
	res := db.Model(&schema.Player{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"email": email, "name": name})
	if res.Error != nil {
		return newUpdateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return newNotFoundError("player", id)
	}
	return nil
}

// RemovePlayer deletes a player together with their score rows. The score
// rows go first and both deletes share one transaction, so a failed player
// delete leaves everything in place.
func RemovePlayer(db *gorm.DB, id uint) *DatabaseError {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("player_id = ?", id).
			Delete(&schema.PlayerGame{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&schema.Player{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newNotFoundError("player", id)
	}
	return newDeleteError(err)
}

func AllGames(db *gorm.DB) ([]schema.Game, *DatabaseError) {
	games := make([]schema.Game, 0)
	if err := db.Order("id").Find(&games).Error; err != nil {
		return nil, newQueryError(err)
	}
	return games, nil
}

func AddGame(db *gorm.DB, game *schema.Game) (uint, *DatabaseError) {
	if err := db.Create(game).Error; err != nil {
		return 0, newInsertError(err)
	}
	return game.ID, nil
}

func AddPlayerGame(db *gorm.DB, playerGame *schema.PlayerGame) (uint, *DatabaseError) {
	if err := db.Create(playerGame).Error; err != nil {
		return 0, newInsertError(err)
	}
	return playerGame.ID, nil
}

// GetGameResults returns the standings of one game ordered by player id. A
// game with no score rows and an unknown game id both come back as an empty
// slice.
func GetGameResults(db *gorm.DB, gameID uint) ([]containers.GameResult, *DatabaseError) {
	results := make([]containers.GameResult, 0)
	err := db.Model(&schema.PlayerGame{}).
		Select("players.id, players.name, player_games.score").
		Joins("join players on players.id = player_games.player_id").
		Where("player_games.game_id = ?", gameID).
		Order("players.id").
		Scan(&results).Error
	if err != nil {
		return nil, newQueryError(err)
	}
	return results, nil
}

func RemoveGame(db *gorm.DB, id uint) *DatabaseError {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", id).
			Delete(&schema.PlayerGame{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&schema.Game{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newNotFoundError("game", id)
	}
	return newDeleteError(err)
}
