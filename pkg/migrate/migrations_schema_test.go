package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no %s migration file found", suffix)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMigrationsContainSchemas(t *testing.T) {
	cases := map[string][]string{
		"create_users_table": {
			"CREATE TABLE IF NOT EXISTS users",
			"password_hash text NOT NULL",
			"preferences jsonb NOT NULL DEFAULT '{}'::jsonb",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email",
			"DROP TABLE IF EXISTS users",
		},
		"create_profiles_table": {
			"CREATE TABLE IF NOT EXISTS profiles",
			"REFERENCES users(id) ON DELETE CASCADE",
			"DROP TABLE IF EXISTS profiles",
		},
		"create_activities_table": {
			"CREATE TABLE IF NOT EXISTS activities",
			"activity_type text NOT NULL",
			"duration integer NOT NULL CHECK (duration > 0)",
			"date date NOT NULL",
			"CREATE INDEX IF NOT EXISTS idx_activities_user_date",
			"DROP TABLE IF EXISTS activities",
		},
	}

	for suffix, checks := range cases {
		content := readMigration(t, suffix)
		for _, sub := range checks {
			if !strings.Contains(content, sub) {
				t.Errorf("%s: missing expected statement %q", suffix, sub)
			}
		}
	}
}
