// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"pitchdesk/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Idea{},
		&models.Payment{},
		&models.ReviewDecision{},
		&models.Message{},
		&models.WebhookEvent{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

func createIndexes() {
	db := GetDB()

	// Idea indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_ideas_submitter ON ideas(submitter_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_ideas_status ON ideas(status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_ideas_created ON ideas(created_at DESC)")

	// Payment indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_payments_idea ON payments(idea_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_payments_created ON payments(created_at DESC)")

	// Message indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_idea ON messages(idea_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_sent ON messages(sent_at DESC)")

	// One terminal notification per idea and transition type. The status
	// conditional update already prevents double decisions; this backstops
	// it at the store level so a double-notification cannot slip through.
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_messages_idea_terminal
		ON messages(idea_id, template_key)
		WHERE template_key IN ('approved_initial', 'rejected')`)
}
