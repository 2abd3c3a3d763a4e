// Package migration applies schema migrations to tenant databases, either
// from plain SQL files or from registered Go migration functions.
package migration

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"gorm.io/gorm"
)

// InitDbConfig configures the SQL file executor.
type InitDbConfig struct {
	SQLFiles    []string // applied in order
	StopOnError bool
}

// InitDb applies the configured SQL files over db. Missing files are skipped
// so optional per-environment scripts do not break bootstrap.
func InitDb(db *gorm.DB, config InitDbConfig) error {
	for _, sqlFile := range config.SQLFiles {
		if _, err := os.Stat(sqlFile); os.IsNotExist(err) {
			continue
		}

		if err := executeSQLFile(db, sqlFile, config.StopOnError); err != nil {
			return fmt.Errorf("apply %s: %w", sqlFile, err)
		}
	}
	return nil
}

func executeSQLFile(db *gorm.DB, filePath string, stopOnError bool) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	statements, err := splitStatements(file)
	if err != nil {
		return err
	}
	for _, sql := range statements {
		if err := db.Exec(sql).Error; err != nil && stopOnError {
			return err
		}
	}
	return nil
}

// splitStatements reads SQL text into statements. A statement ends at a
// line-terminating semicolon; -- comments and blank lines are skipped.
func splitStatements(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	var statements []string
	var statement strings.Builder

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}

		statement.WriteString(line)
		statement.WriteString(" ")

		if strings.HasSuffix(line, ";") {
			sql := strings.TrimSpace(statement.String())
			if sql != "" && sql != ";" {
				statements = append(statements, sql)
			}
			statement.Reset()
		}
	}

	return statements, scanner.Err()
}
