package containers

import (
	"fmt"
	"io"

	"github.com/bitterfly/go-chaos/scoreboard/utils"
)

type PlayerInput struct {
	Email string
	Name  *string
}

func ParsePlayerInput(data io.ReadCloser) (*PlayerInput, error) {
	var container interface{} = &PlayerInput{}
	res, err := utils.Parse(data, container)
	if err != nil {
		return nil, err
	}

	input, ok := res.(*PlayerInput)
	if !ok {
		return nil, fmt.Errorf("could not convert to PlayerInput")
	}
	return input, nil
}

type ID struct {
	ID uint `json:"id"`
}
