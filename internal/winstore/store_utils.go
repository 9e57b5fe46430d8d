package winstore

import (
	"fmt"
	"regexp"

	"winsfinder/schema"
)

// tableNamePattern matches valid SQL identifiers.
var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName ensures a table name is a plain identifier before it
// is interpolated into a query string.
func validateTableName(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %s", name)
	}
	return nil
}

// quoteTableName quotes a table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if err := validateTableName(name); err != nil {
		panic(err)
	}

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`"%s"`, name)
	default: // SQLite
		return fmt.Sprintf(`"%s"`, name)
	}
}
