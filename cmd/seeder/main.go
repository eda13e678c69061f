package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"DB_NAME"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, err := sql.Open("libsql", "file:"+cfg["DB_NAME"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %s", err)
	}

	log.Info("Successfully connected to the database.")

	// Create 4 dummy players to use in matches
	dummyNames := []string{"Seeder Player A", "Seeder Player B", "Seeder Player C", "Seeder Player D"}
	playerIDs := make([]int64, 0, len(dummyNames))

	for _, name := range dummyNames {
		now := time.Now().Unix()
		_, err := db.Exec("INSERT OR IGNORE INTO players (name, created_at, updated_at) VALUES (?, ?, ?)", name, now, now)
		if err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", name, err)
		}
		var id int64
		if err := db.QueryRow("SELECT id FROM players WHERE name = ?", name).Scan(&id); err != nil {
			log.Fatalf("Failed to read back dummy player %s: %s", name, err)
		}
		playerIDs = append(playerIDs, id)
	}
	log.Info("Ensured dummy players exist.")

	const batchSize = 100 // Insert 100 matches at a time
	const numMatches = 10000

	log.Info("Preparing to insert dummy matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	matchValues := make([]string, 0, batchSize)
	matchArgs := make([]interface{}, 0, batchSize*9)
	statValues := make([]string, 0, batchSize*2)
	statArgs := make([]interface{}, 0, batchSize*2*6)

	for i := 0; i < numMatches; i++ {
		matchTime := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
		winnerIdx := rand.Intn(len(playerIDs))
		loserIdx := (winnerIdx + 1 + rand.Intn(len(playerIDs)-1)) % len(playerIDs)
		payerID := playerIDs[rand.Intn(len(playerIDs))]
		matchID := uuid.NewString()
		winnersJSON, _ := json.Marshal([]int64{playerIDs[winnerIdx]})

		matchValues = append(matchValues, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		matchArgs = append(matchArgs,
			matchID,
			string(winnersJSON),
			playerIDs[loserIdx],
			payerID,
			float64(rand.Intn(20))+5,
			matchTime.Unix(),
			matchTime.Unix(),
			nil, // participants_json
			"win",
		)

		statValues = append(statValues, "(?, ?, ?, ?, ?, ?)", "(?, ?, ?, ?, ?, ?)")
		statArgs = append(statArgs,
			uuid.NewString(), matchID, playerIDs[winnerIdx], 1, 0, matchTime.Unix(),
			uuid.NewString(), matchID, playerIDs[loserIdx], 0, 1, matchTime.Unix(),
		)

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			matchStmt := fmt.Sprintf(`
				INSERT INTO matches (id, winners_json, loser_id, payer_id, cost, date, created_at, participants_json, match_result)
				VALUES %s;`, strings.Join(matchValues, ","))

			if _, err := tx.Exec(matchStmt, matchArgs...); err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute match batch insert: %s", err)
			}

			statStmt := fmt.Sprintf(`
				INSERT INTO match_stats (id, match_id, player_id, wins, losses, created_at)
				VALUES %s;`, strings.Join(statValues, ","))

			if _, err := tx.Exec(statStmt, statArgs...); err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute stat batch insert: %s", err)
			}

			// Reset for the next batch
			matchValues = make([]string, 0, batchSize)
			matchArgs = make([]interface{}, 0, batchSize*9)
			statValues = make([]string, 0, batchSize*2)
			statArgs = make([]interface{}, 0, batchSize*2*6)
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy matches.", "duration", duration)
}
