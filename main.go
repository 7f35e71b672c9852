package main

import (
	"log"

	"github.com/bitterfly/go-chaos/scoreboard/config"
	"github.com/bitterfly/go-chaos/scoreboard/database"
	"github.com/bitterfly/go-chaos/scoreboard/server"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file, using the process environment.")
	}
	cfg := config.Load()

	db, derr := database.Open(cfg)
	if derr != nil {
		panic(derr)
	}
	log.Printf("Connected to database.")

	derr = database.Automigrate(db)
	if derr != nil {
		panic(derr)
	}
	log.Printf("Migrated the database.")

	server := server.New(db)
	if err := server.Connect(":" + cfg.Port); err != nil {
		panic(err)
	}
}
