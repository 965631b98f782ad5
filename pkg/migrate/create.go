package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var nameSanitizeRe = regexp.MustCompile(`[^a-z0-9]+`)

const sqlTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %[1]s
-- +goose StatementEnd
`

// CreateSQLMigration writes <dir>/<YYYYMMDDHHMMSS>_<name>.sql. The version is bumped a
// second at a time until it is unused, so two creates in the same second stay ordered.
func CreateSQLMigration(dir string, name string) (string, error) {
	return createSQLMigration(dir, name, time.Now().UTC())
}

func createSQLMigration(dir, name string, now time.Time) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	safe := strings.Trim(nameSanitizeRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_"), "_")
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	for {
		version := now.Format(versionLayout)
		existing, err := filepath.Glob(filepath.Join(dir, version+"_*.sql"))
		if err != nil {
			return "", fmt.Errorf("scan %q: %w", dir, err)
		}
		if len(existing) > 0 {
			now = now.Add(time.Second)
			continue
		}

		fullpath := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", version, safe))
		if err := os.WriteFile(fullpath, []byte(fmt.Sprintf(sqlTemplate, safe)), 0o644); err != nil {
			return "", fmt.Errorf("write migration %q: %w", fullpath, err)
		}
		return fullpath, nil
	}
}
