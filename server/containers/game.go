package containers

import (
	"fmt"
	"io"
	"time"

	"github.com/bitterfly/go-chaos/scoreboard/utils"
)

type GameInput struct {
	Time time.Time
}

func ParseGameInput(data io.ReadCloser) (*GameInput, error) {
	var container interface{} = &GameInput{}
	res, err := utils.Parse(data, container)
	if err != nil {
		return nil, err
	}

	input, ok := res.(*GameInput)
	if !ok {
		return nil, fmt.Errorf("could not convert to GameInput")
	}
	return input, nil
}

type ScoreInput struct {
	PlayerID uint `json:"player_id"`
	Score    int  `json:"score"`
}

func ParseScoreInput(data io.ReadCloser) (*ScoreInput, error) {
	var container interface{} = &ScoreInput{}
	res, err := utils.Parse(data, container)
	if err != nil {
		return nil, err
	}

	input, ok := res.(*ScoreInput)
	if !ok {
		return nil, fmt.Errorf("could not convert to ScoreInput")
	}
	return input, nil
}

// GameResult is one row of the per-game standings: the player joined with
// the score they got in that game.
type GameResult struct {
	ID    uint    `json:"id"`
	Name  *string `json:"name"`
	Score int     `json:"score"`
}
