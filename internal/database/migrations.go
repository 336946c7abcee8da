package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type indexDef struct {
	table   string
	name    string
	columns string
}

// Indexes backing the board filters and the comment thread ordering
var indexes = []indexDef{
	{"tasks", "idx_tasks_status", "status"},
	{"tasks", "idx_tasks_publisher_id", "publisher_id"},
	{"tasks", "idx_tasks_responsible_id", "responsible_id"},
	{"tasks", "idx_tasks_deadline", "deadline"},
	{"tasks", "idx_tasks_created_at", "created_at"},

	{"comments", "idx_comments_task_id_date", "task_id, date"},

	{"comment_reactions", "idx_comment_reactions_user_id", "user_id"},
}

// AddIndexes adds the secondary indexes that are missing. It is safe to run repeatedly.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.Debug().Str("index", idx.name).Msg("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info().Str("index", idx.name).Str("table", idx.table).Str("columns", idx.columns).Msg("Created index")
	}

	return nil
}
