package repositories

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		phone TEXT UNIQUE,
		full_name TEXT NOT NULL,
		avatar TEXT,
		bio TEXT,
		gender TEXT,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		status TEXT NOT NULL DEFAULT 'active',
		is_verified BOOLEAN NOT NULL DEFAULT 0,
		credit_score INTEGER NOT NULL DEFAULT 300,
		balance TEXT NOT NULL DEFAULT '0',
		deleted_by TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createSessionTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE user_sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		device_id TEXT NOT NULL,
		device_name TEXT,
		device_type TEXT,
		ip_address TEXT,
		user_agent TEXT,
		access_token TEXT,
		refresh_token TEXT,
		is_trusted BOOLEAN NOT NULL DEFAULT 0,
		trusted_at DATETIME,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		expires_at DATETIME NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (user_id, device_id)
	);`)
}

func createCreditScoreTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE credit_scores (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		score INTEGER NOT NULL,
		breakdown TEXT NOT NULL,
		rating TEXT NOT NULL,
		loan_limit TEXT NOT NULL,
		calculated_at DATETIME NOT NULL,
		created_at DATETIME
	);`)
}

func createBankConnectionTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE bank_connections (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		institution_id TEXT NOT NULL,
		institution_name TEXT NOT NULL,
		item_id TEXT NOT NULL UNIQUE,
		access_token TEXT NOT NULL,
		account_ids TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		last_synced_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createContactTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE contacts (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		full_name TEXT NOT NULL,
		phone TEXT,
		message TEXT NOT NULL,
		response TEXT,
		is_responded BOOLEAN NOT NULL DEFAULT 0,
		responded_at DATETIME,
		responded_by TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createFileTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE files (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		original_name TEXT NOT NULL,
		file_type TEXT NOT NULL,
		file_size INTEGER NOT NULL,
		file_url TEXT NOT NULL,
		storage_key TEXT NOT NULL UNIQUE,
		provider TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
