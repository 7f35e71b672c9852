package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/bitterfly/go-chaos/scoreboard/database"
	"github.com/bitterfly/go-chaos/scoreboard/schema"
	"github.com/bitterfly/go-chaos/scoreboard/server/containers"
	"github.com/bitterfly/go-chaos/scoreboard/utils"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

const greeting = "Scoreboard is running."

type Server struct {
	Mux *mux.Router
	DB  *gorm.DB
}

// handlerFunc is a route handler that reports its failure instead of
// formatting it; handle turns the failure into the one generic 500 reply.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func New(db *gorm.DB) *Server {
	s := &Server{
		DB:  db,
		Mux: mux.NewRouter(),
	}

	s.Mux.HandleFunc("/", s.handle(s.handleMain)).Methods("GET")
	s.Mux.HandleFunc("/players", s.handle(s.handlePlayerList)).Methods("GET")
	s.Mux.HandleFunc("/players", s.handle(s.handlePlayerCreate)).Methods("POST")
	s.Mux.HandleFunc("/players/{id:[0-9]+}", s.handle(s.handlePlayerShow)).Methods("GET")
	s.Mux.HandleFunc("/players/{id:[0-9]+}", s.handle(s.handlePlayerUpdate)).Methods("PUT")
	s.Mux.HandleFunc("/players/{id:[0-9]+}", s.handle(s.handlePlayerRemove)).Methods("DELETE")
	s.Mux.HandleFunc("/games", s.handle(s.handleGameList)).Methods("GET")
	s.Mux.HandleFunc("/games", s.handle(s.handleGameCreate)).Methods("POST")
	s.Mux.HandleFunc("/games/{id:[0-9]+}", s.handle(s.handleGameShow)).Methods("GET")
	s.Mux.HandleFunc("/games/{id:[0-9]+}", s.handle(s.handleGameRemove)).Methods("DELETE")
	s.Mux.HandleFunc("/games/{id:[0-9]+}/players", s.handle(s.handleScoreCreate)).Methods("POST")
	return s
}

func (s *Server) Connect(address string) error {
	log.Printf("Starting server on %s\n", address)

	//TODO: fix the allowed origins
	allowedOrigins := handlers.AllowedOrigins([]string{"*"})
	allowedMethods := handlers.AllowedMethods([]string{"POST", "OPTIONS", "GET", "PUT", "DELETE"})
	allowedHeaders := handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type"})

	if err := http.ListenAndServe(
		address,
		handlers.LoggingHandler(os.Stderr, handlers.CORS(
			allowedOrigins,
			allowedMethods,
			allowedHeaders)(s.Mux))); err != nil {
		return fmt.Errorf("error connecting to server %s: %w", address, err)
	}
	return nil
}

func (s *Server) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				s.fail(w, fmt.Errorf("panic: %v", p))
			}
		}()
		if err := h(w, r); err != nil {
			s.fail(w, err)
		}
	}
}

// fail logs the full failure for the operator and answers with a fixed
// payload that leaks nothing.
func (s *Server) fail(w http.ResponseWriter, err error) {
	log.Printf("handler failed: %s\n%s", err, debug.Stack())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "An internal server error occurred"})
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) handleMain(w http.ResponseWriter, r *http.Request) error {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(greeting))
	return nil
}

func (s *Server) handlePlayerList(w http.ResponseWriter, r *http.Request) error {
	players, derr := database.AllPlayers(s.DB)
	if derr != nil {
		return derr
	}
	respondJSON(w, players)
	return nil
}

func (s *Server) handlePlayerShow(w http.ResponseWriter, r *http.Request) error {
	id, err := utils.ParseUint(mux.Vars(r), "id")
	if err != nil {
		return err
	}
	player, derr := database.GetPlayerByID(s.DB, id)
	if derr != nil {
		return derr
	}
	if player == nil {
		w.WriteHeader(http.StatusNotFound)
		return nil
	}
	respondJSON(w, player)
	return nil
}

func (s *Server) handlePlayerCreate(w http.ResponseWriter, r *http.Request) error {
	input, err := containers.ParsePlayerInput(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Bad player json."))
		return nil
	}
	id, derr := database.AddPlayer(s.DB, &schema.Player{
		Email: input.Email,
		Name:  input.Name,
	})
	if derr != nil {
		return derr
	}
	respondJSON(w, containers.ID{ID: id})
	return nil
}

func (s *Server) handlePlayerUpdate(w http.ResponseWriter, r *http.Request) error {
	id, err := utils.ParseUint(mux.Vars(r), "id")
	if err != nil {
		return err
	}
	input, err := containers.ParsePlayerInput(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Bad player json."))
		return nil
	}
	derr := database.UpdatePlayer(s.DB, id, input.Email, input.Name)
	if derr != nil {
		if derr.ErrorType == database.NotFoundError {
			w.WriteHeader(http.StatusNotFound)
			return nil
		}
		return derr
	}
	respondJSON(w, containers.ID{ID: id})
	return nil
}

func (s *Server) handlePlayerRemove(w http.ResponseWriter, r *http.Request) error {
	id, err := utils.ParseUint(mux.Vars(r), "id")
	if err != nil {
		return err
	}
	derr := database.RemovePlayer(s.DB, id)
	if derr != nil {
		if derr.ErrorType == database.NotFoundError {
			w.WriteHeader(http.StatusNotFound)
			return nil
		}
		return derr
	}
	respondJSON(w, containers.ID{ID: id})
	return nil
}

func (s *Server) handleGameList(w http.ResponseWriter, r *http.Request) error {
	games, derr := database.AllGames(s.DB)
	if derr != nil {
		return derr
	}
	respondJSON(w, games)
	return nil
}

func (s *Server) handleGameCreate(w http.ResponseWriter, r *http.Request) error {
	input, err := containers.ParseGameInput(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Bad game json."))
		return nil
	}
	id, derr := database.AddGame(s.DB, &schema.Game{Time: input.Time})
	if derr != nil {
		return derr
	}
	respondJSON(w, containers.ID{ID: id})
	return nil
}

// handleGameShow answers with the standings of the game. An id that matches
// no game gets an empty list, same as a game nobody has played in: the
// lookup never distinguishes the two.
func (s *Server) handleGameShow(w http.ResponseWriter, r *http.Request) error {
	id, err := utils.ParseUint(mux.Vars(r), "id")
	if err != nil {
		return err
	}
	results, derr := database.GetGameResults(s.DB, id)
	if derr != nil {
		return derr
	}
	respondJSON(w, results)
	return nil
}

func (s *Server) handleGameRemove(w http.ResponseWriter, r *http.Request) error {
	id, err := utils.ParseUint(mux.Vars(r), "id")
	if err != nil {
		return err
	}
	derr := database.RemoveGame(s.DB, id)
	if derr != nil {
		if derr.ErrorType == database.NotFoundError {
			w.WriteHeader(http.StatusNotFound)
			return nil
		}
		return derr
	}
	respondJSON(w, containers.ID{ID: id})
	return nil
}

func (s *Server) handleScoreCreate(w http.ResponseWriter, r *http.Request) error {
	gameID, err := utils.ParseUint(mux.Vars(r), "id")
	if err != nil {
		return err
	}
	input, err := containers.ParseScoreInput(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Bad score json."))
		return nil
	}
	id, derr := database.AddPlayerGame(s.DB, &schema.PlayerGame{
		PlayerID: input.PlayerID,
		GameID:   gameID,
		Score:    input.Score,
	})
	if derr != nil {
		return derr
	}
	respondJSON(w, containers.ID{ID: id})
	return nil
}
