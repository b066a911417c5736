package mysqlstore

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
)

// Migrate executes the SQL script read from r, one statement at a time. A statement ends on
// the line that contains a semicolon. It returns the number of executed statements.
func Migrate(ctx context.Context, db *sql.DB, r io.Reader) (int, error) {
	fileScanner := bufio.NewScanner(r)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	executed := 0
	for fileScanner.Scan() {
		line := fileScanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			stmt := builder.String()
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return executed, fmt.Errorf("statement %d failed: %w", executed+1, classify(err))
			}
			executed++
			builder = strings.Builder{}
		}
	}
	if err := fileScanner.Err(); err != nil {
		return executed, fmt.Errorf("failed to read script: %w", err)
	}
	if rest := strings.TrimSpace(builder.String()); rest != "" {
		return executed, fmt.Errorf("unterminated statement at end of script: %.40q", rest)
	}
	return executed, nil
}
