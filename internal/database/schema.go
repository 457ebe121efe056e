package database

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are applied in order at startup.  Every statement is
// idempotent (CREATE TABLE IF NOT EXISTS) so restarting the server never
// breaks an existing installation.  The unique key on habit_tracking
// (habit_id, track_date) is the serialization point for concurrent daily
// entry generation.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email VARCHAR(255) NOT NULL,
		otp_hash VARCHAR(100) NULL,
		otp_expires DATETIME NULL,
		is_verified TINYINT(1) NOT NULL DEFAULT 0,
		last_login DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uniq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS habits (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(100) NOT NULL,
		reason VARCHAR(500) NOT NULL,
		duration ENUM('15day','1month','3month','6month','1year') NOT NULL,
		reward VARCHAR(200) NOT NULL,
		start_date DATE NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_habits_user_created (user_id, created_at),
		CONSTRAINT fk_habits_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS habit_tracking (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		habit_id BIGINT UNSIGNED NOT NULL,
		track_date DATE NOT NULL,
		is_done TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uniq_tracking_habit_date (habit_id, track_date),
		KEY idx_tracking_user_date (user_id, track_date),
		CONSTRAINT fk_tracking_habit FOREIGN KEY (habit_id) REFERENCES habits (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS formulas (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(200) NOT NULL,
		expression VARCHAR(500) NOT NULL,
		variables JSON NULL,
		result DOUBLE NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_formulas_user_created (user_id, created_at),
		CONSTRAINT fk_formulas_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS finance_entries (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		entry_date DATE NOT NULL,
		type ENUM('income','expense') NOT NULL,
		category VARCHAR(100) NOT NULL,
		amount DOUBLE NOT NULL,
		description VARCHAR(500) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_finance_user_date (user_id, entry_date),
		KEY idx_finance_user_type_date (user_id, type, entry_date),
		CONSTRAINT fk_finance_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS sleep_entries (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		entry_date DATE NOT NULL,
		sleep_time VARCHAR(5) NOT NULL,
		wake_time VARCHAR(5) NOT NULL,
		duration DOUBLE NOT NULL,
		quality ENUM('excellent','good','fair','poor') NOT NULL DEFAULT 'good',
		notes VARCHAR(500) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uniq_sleep_user_date (user_id, entry_date),
		CONSTRAINT fk_sleep_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS journal_entries (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		entry_date DATE NOT NULL,
		title VARCHAR(200) NOT NULL,
		content TEXT NOT NULL,
		mood ENUM('happy','sad','anxious','excited','calm','angry','grateful','neutral') NOT NULL DEFAULT 'neutral',
		tags JSON NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_journal_user_date (user_id, entry_date),
		CONSTRAINT fk_journal_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS mistakes (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		mistake VARCHAR(500) NOT NULL,
		reason VARCHAR(1000) NOT NULL,
		solution VARCHAR(1000) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_mistakes_user_created (user_id, created_at),
		CONSTRAINT fk_mistakes_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS todos (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		title VARCHAR(500) NOT NULL,
		description VARCHAR(2000) NOT NULL DEFAULT '',
		entry_date DATE NOT NULL,
		completed TINYINT(1) NOT NULL DEFAULT 0,
		priority ENUM('low','medium','high') NOT NULL DEFAULT 'medium',
		due_date DATE NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_todos_user_date (user_id, entry_date),
		KEY idx_todos_user_completed (user_id, completed, entry_date),
		CONSTRAINT fk_todos_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
