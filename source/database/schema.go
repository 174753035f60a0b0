package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL DEFAULT '',
		phone VARCHAR(50) NOT NULL DEFAULT '',
		active TINYINT(1) NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_clients_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		client_id BIGINT NULL,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		role ENUM('admin', 'client') NOT NULL DEFAULT 'client',
		active TINYINT(1) NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (client_id) REFERENCES clients(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS funnels (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		client_id BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		active TINYINT(1) NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (client_id) REFERENCES clients(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS stages (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		funnel_id BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		position INT NOT NULL,
		color VARCHAR(20) NOT NULL DEFAULT '#3b82f6',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_stages_funnel_position (funnel_id, position),
		FOREIGN KEY (funnel_id) REFERENCES funnels(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS leads (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		client_id BIGINT NOT NULL,
		funnel_id BIGINT NOT NULL,
		stage_id BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL DEFAULT '',
		phone VARCHAR(50) NOT NULL DEFAULT '',
		source VARCHAR(255) NOT NULL DEFAULT '',
		value DECIMAL(14,2) NOT NULL DEFAULT 0,
		notes TEXT NOT NULL,
		tags JSON NOT NULL,
		status ENUM('active', 'won', 'lost') NOT NULL DEFAULT 'active',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_leads_client_status (client_id, status),
		INDEX idx_leads_funnel_status (funnel_id, status),
		FOREIGN KEY (client_id) REFERENCES clients(id),
		FOREIGN KEY (funnel_id) REFERENCES funnels(id),
		FOREIGN KEY (stage_id) REFERENCES stages(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS webhooks (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		client_id BIGINT NOT NULL,
		funnel_id BIGINT NULL,
		url VARCHAR(2048) NOT NULL,
		events JSON NOT NULL,
		active TINYINT(1) NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_webhooks_client_active (client_id, active),
		FOREIGN KEY (client_id) REFERENCES clients(id),
		FOREIGN KEY (funnel_id) REFERENCES funnels(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS webhook_logs (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		webhook_id BIGINT NOT NULL,
		event_type VARCHAR(50) NOT NULL,
		payload JSON NOT NULL,
		response_status INT NULL,
		response_body MEDIUMTEXT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_webhook_logs_webhook (webhook_id, created_at),
		FOREIGN KEY (webhook_id) REFERENCES webhooks(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS origins (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		client_id BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		color VARCHAR(20) NOT NULL DEFAULT '#3b82f6',
		is_default TINYINT(1) NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_origins_client (client_id),
		FOREIGN KEY (client_id) REFERENCES clients(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates every table that does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("[MySQL] migration failed: %w", err)
		}
	}
	return nil
}
