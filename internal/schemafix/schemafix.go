// Package schemafix serves the hosted-database repair script for the "missing activity_type
// column" error. Nothing here executes the SQL; operators paste it into their SQL editor.
package schemafix

import (
	_ "embed"
	"strings"
)

//go:embed fix_database.sql
var script string

const (
	Title       = "Fix Database Schema"
	Description = `This script will fix the "Could not find the 'activity_type' column" error`
	Filename    = "fix_database.sql"
)

var steps = []string{
	"Go to your Supabase project dashboard",
	`Click on "SQL Editor" in the left sidebar`,
	`Create a "New Query"`,
	"Paste the SQL above",
	`Click "Run" to execute the SQL`,
	"After running, try adding an activity again",
}

// Artifact is the JSON form of the repair instructions.
type Artifact struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	SQL         string   `json:"sql"`
	Steps       []string `json:"steps"`
	Filename    string   `json:"filename"`
}

// Script returns the SQL exactly as it should be pasted.
func Script() string {
	return script
}

// Steps returns a copy of the ordered operator instructions.
func Steps() []string {
	return append([]string(nil), steps...)
}

// Get returns the full artifact.
func Get() Artifact {
	return Artifact{
		Title:       Title,
		Description: Description,
		SQL:         Script(),
		Steps:       Steps(),
		Filename:    Filename,
	}
}

// Tables lists the tables the script recreates, in creation order.
func Tables() []string {
	var tables []string
	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "CREATE TABLE ") {
			continue
		}
		name := strings.Fields(strings.TrimPrefix(line, "CREATE TABLE "))
		if len(name) > 0 {
			tables = append(tables, strings.TrimSuffix(name[0], "("))
		}
	}
	return tables
}
