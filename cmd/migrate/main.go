package main

import (
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"amplified-be/internal/model"
	"amplified-be/pkg/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Starting GORM migration...")

	// Extensions first, AutoMigrate cannot create them.
	color.Yellow("Step 1: Extensions")
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Yellow("Warn: setup SQL failed: %v. Continuing...", err)
		}
	}

	color.Yellow("Step 2: AutoMigrate tables")
	models := []interface{}{
		&model.Meeting{},
		&model.MeetingSummary{},
		&model.MeetingAction{},
		&model.TranscriptEntry{},
		&model.Document{},
		&model.KnowledgeChunk{},
		&model.UserLLMPreference{},
		&model.VoiceProfile{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	// ANN index for similarity search. Plain HNSW, rebuilt cheaply at this
	// corpus size.
	color.Yellow("Step 3: Vector index")
	indexSQL := `CREATE INDEX IF NOT EXISTS idx_knowledge_chunks_embedding
		ON knowledge_chunks USING hnsw (embedding vector_cosine_ops);`
	if err := db.Exec(indexSQL).Error; err != nil {
		color.Yellow("Warn: vector index creation failed: %v", err)
	}

	color.Green("Migration completed successfully.")
}
