package config

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

func InitDB(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			username VARCHAR(255) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'normal',
			status VARCHAR(50) NOT NULL DEFAULT 'unsubmitted',
			employee_id UUID,
			totp_secret VARCHAR(255),
			totp_enabled BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS invitations (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			token TEXT UNIQUE NOT NULL,
			url TEXT NOT NULL,
			issued_by UUID REFERENCES users(id),
			user_id UUID REFERENCES users(id),
			issued_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS employees (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			first_name VARCHAR(255) NOT NULL,
			last_name VARCHAR(255) NOT NULL,
			middle_name VARCHAR(255) DEFAULT '',
			preferred_name VARCHAR(255) DEFAULT '',
			email VARCHAR(255) UNIQUE NOT NULL,
			ssn VARCHAR(64) UNIQUE NOT NULL,
			date_of_birth DATE,
			gender VARCHAR(50) DEFAULT '',
			apartment VARCHAR(255) DEFAULT '',
			street_address VARCHAR(255) DEFAULT '',
			city VARCHAR(255) DEFAULT '',
			state VARCHAR(255) DEFAULT '',
			zip VARCHAR(50) DEFAULT '',
			cell_phone VARCHAR(50) DEFAULT '',
			work_phone VARCHAR(50) DEFAULT '',
			citizenship VARCHAR(100) DEFAULT '',
			visa_type VARCHAR(100) DEFAULT '',
			visa_start_date DATE,
			visa_end_date DATE,
			referral_first_name VARCHAR(255) DEFAULT '',
			referral_middle_name VARCHAR(255) DEFAULT '',
			referral_last_name VARCHAR(255) DEFAULT '',
			referral_email VARCHAR(255) DEFAULT '',
			referral_phone VARCHAR(50) DEFAULT '',
			referral_relationship VARCHAR(100) DEFAULT '',
			feedback TEXT DEFAULT '',
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS emergency_contacts (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			employee_id UUID NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
			position INTEGER NOT NULL DEFAULT 0,
			first_name VARCHAR(255) NOT NULL,
			last_name VARCHAR(255) NOT NULL,
			middle_name VARCHAR(255) DEFAULT '',
			phone VARCHAR(50) DEFAULT '',
			email VARCHAR(255) DEFAULT '',
			relationship VARCHAR(100) DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS employee_documents (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			employee_id UUID NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
			doc_type VARCHAR(100) NOT NULL,
			file_url TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS visa_cases (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			visa_title VARCHAR(100) NOT NULL DEFAULT 'f1',
			opt_receipt_feedback TEXT DEFAULT '',
			opt_receipt_file_url TEXT DEFAULT '',
			opt_receipt_status VARCHAR(50) NOT NULL DEFAULT 'unsubmitted',
			opt_ead_feedback TEXT DEFAULT '',
			opt_ead_file_url TEXT DEFAULT '',
			opt_ead_status VARCHAR(50) NOT NULL DEFAULT 'unsubmitted',
			i983_feedback TEXT DEFAULT '',
			i983_file_url TEXT DEFAULT '',
			i983_status VARCHAR(50) NOT NULL DEFAULT 'unsubmitted',
			i20_feedback TEXT DEFAULT '',
			i20_file_url TEXT DEFAULT '',
			i20_status VARCHAR(50) NOT NULL DEFAULT 'unsubmitted',
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_invitations_token ON invitations(token)`,
		`CREATE INDEX IF NOT EXISTS idx_invitations_email ON invitations(email)`,
		`CREATE INDEX IF NOT EXISTS idx_emergency_contacts_employee_id ON emergency_contacts(employee_id)`,
		`CREATE INDEX IF NOT EXISTS idx_employee_documents_employee_id ON employee_documents(employee_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
