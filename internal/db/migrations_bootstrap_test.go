package db

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestOpenSQLiteAppliesEmbeddedMigrationsOnCleanDatabase(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "nudge-clean.db")
	database := openSQLiteForTest(t, databasePath)

	for table, columns := range map[string][]string{
		"users":     {"username", "email", "password_hash", "created_at"},
		"entries":   {"user_id", "task", "ai_response", "completed", "date"},
		"summaries": {"user_id", "achievements", "patterns", "themes", "week_starting"},
		"settings":  {"user_id", "reminder_time", "push_notifications", "weekly_summary", "ai_tone"},
	} {
		existing := loadTableColumns(t, database, table)
		for _, column := range columns {
			if _, ok := existing[column]; !ok {
				t.Fatalf("expected %s.%s column to exist after migrations", table, column)
			}
		}
	}

	indexSQL := loadSQLiteObjectSQL(t, database, "index", "uidx_summaries_user_week")
	definition := strings.ToLower(strings.Join(strings.Fields(indexSQL), ""))
	if !strings.Contains(definition, "uniqueindex") || !strings.Contains(definition, "(user_id,week_starting)") {
		t.Fatalf("expected unique summary index on (user_id, week_starting), got %q", indexSQL)
	}

	assertAllEmbeddedMigrationsApplied(t, database)
}

func TestOpenSQLiteMigrationBootstrapIsIdempotent(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "nudge-idempotent.db")

	firstOpen, err := OpenSQLite(databasePath, zap.NewNop())
	if err != nil {
		t.Fatalf("first open sqlite: %v", err)
	}
	firstRecords := loadMigrationRecords(t, firstOpen)

	firstSQLDB, err := firstOpen.DB()
	if err != nil {
		t.Fatalf("first open sql db: %v", err)
	}
	if err := firstSQLDB.Close(); err != nil {
		t.Fatalf("close first sql db: %v", err)
	}

	secondOpen := openSQLiteForTest(t, databasePath)
	secondRecords := loadMigrationRecords(t, secondOpen)

	if !reflect.DeepEqual(firstRecords, secondRecords) {
		t.Fatalf("expected migration records to remain unchanged between boots, before=%v after=%v", firstRecords, secondRecords)
	}
}

func TestOpenSQLiteInMemory(t *testing.T) {
	database, err := Open(Options{Path: InMemoryPath}, nil)
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}
	assertAllEmbeddedMigrationsApplied(t, database)
}

func TestNormalizePostgresDSN(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{raw: "postgres://u:p@localhost/nudge", want: "postgres://u:p@localhost/nudge"},
		{raw: "  host=db  user=nudge dbname=nudge ", want: "host=db user=nudge dbname=nudge sslmode=disable"},
		{raw: "host=db sslmode=require", want: "host=db sslmode=require"},
		{raw: `"postgresql://u@localhost/nudge?x=1"`, want: "postgresql://u@localhost/nudge?x=1"},
	}
	for _, tc := range cases {
		if got := normalizePostgresDSN(tc.raw); got != tc.want {
			t.Fatalf("normalizePostgresDSN(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestSplitSQLStatementsDropsBlankParts(t *testing.T) {
	statements := splitSQLStatements("CREATE TABLE a (id INTEGER);\n\n ; CREATE INDEX b ON a(id)\n")
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %d: %v", len(statements), statements)
	}
}

func TestApplyMigrationSkipsExistingAddColumn(t *testing.T) {
	database := openSQLiteForTest(t, filepath.Join(t.TempDir(), "nudge-add-column.db"))

	statement := `ALTER TABLE entries ADD COLUMN mood TEXT`
	skip, err := shouldSkipStatement(database, DialectSQLite, statement)
	if err != nil || skip {
		t.Fatalf("expected missing column not to be skipped, skip=%v err=%v", skip, err)
	}

	first := embeddedMigration{Version: "9001", Order: 9001, Name: "9001_add_mood.sql", SQL: statement + ";"}
	if err := applyMigration(database, DialectSQLite, first); err != nil {
		t.Fatalf("apply add column migration: %v", err)
	}
	if _, ok := loadTableColumns(t, database, "entries")["mood"]; !ok {
		t.Fatal("expected entries.mood column after migration")
	}

	quoted := `ALTER TABLE "entries" ADD COLUMN "MOOD" TEXT`
	skip, err = shouldSkipStatement(database, DialectSQLite, quoted)
	if err != nil || !skip {
		t.Fatalf("expected existing column to be skipped, skip=%v err=%v", skip, err)
	}

	second := embeddedMigration{Version: "9002", Order: 9002, Name: "9002_add_mood_again.sql", SQL: quoted + ";"}
	if err := applyMigration(database, DialectSQLite, second); err != nil {
		t.Fatalf("expected re-run of add column to be skipped, got %v", err)
	}

	records := loadMigrationRecords(t, database)
	last := records[len(records)-1]
	if last.Version != "9002" {
		t.Fatalf("expected skipped migration to still be recorded, got %+v", records)
	}
}

func openSQLiteForTest(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(databasePath, zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database
}

func assertAllEmbeddedMigrationsApplied(t *testing.T, database *gorm.DB) {
	t.Helper()

	migrations, err := loadEmbeddedMigrations(DialectSQLite)
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}
	expectedVersions := make([]string, 0, len(migrations))
	for _, migration := range migrations {
		expectedVersions = append(expectedVersions, migration.Version)
	}

	var rows []struct {
		Version string `gorm:"column:version"`
	}
	if err := database.Raw(`SELECT version FROM schema_migrations ORDER BY version ASC`).Scan(&rows).Error; err != nil {
		t.Fatalf("load applied migration versions: %v", err)
	}
	actualVersions := make([]string, 0, len(rows))
	for _, row := range rows {
		actualVersions = append(actualVersions, row.Version)
	}

	if !reflect.DeepEqual(expectedVersions, actualVersions) {
		t.Fatalf("unexpected applied migration versions: expected=%v actual=%v", expectedVersions, actualVersions)
	}
}

type migrationRecord struct {
	Version   string `gorm:"column:version"`
	Name      string `gorm:"column:name"`
	AppliedAt string `gorm:"column:applied_at"`
}

func loadMigrationRecords(t *testing.T, database *gorm.DB) []migrationRecord {
	t.Helper()

	records := make([]migrationRecord, 0)
	if err := database.Raw(
		`SELECT version, name, applied_at FROM schema_migrations ORDER BY version ASC`,
	).Scan(&records).Error; err != nil {
		t.Fatalf("load migration records: %v", err)
	}
	return records
}

func loadTableColumns(t *testing.T, database *gorm.DB, tableName string) map[string]struct{} {
	t.Helper()

	escapedTable := strings.ReplaceAll(tableName, `"`, `""`)
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, escapedTable)

	var rows []struct {
		Name string `gorm:"column:name"`
	}
	if err := database.Raw(query).Scan(&rows).Error; err != nil {
		t.Fatalf("load table columns for %s: %v", tableName, err)
	}

	columns := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		columns[strings.ToLower(strings.TrimSpace(row.Name))] = struct{}{}
	}
	return columns
}

func loadSQLiteObjectSQL(t *testing.T, database *gorm.DB, objectType string, objectName string) string {
	t.Helper()

	var row struct {
		SQL string `gorm:"column:sql"`
	}
	if err := database.Raw(
		`SELECT sql FROM sqlite_master WHERE type = ? AND name = ?`,
		objectType,
		objectName,
	).Scan(&row).Error; err != nil {
		t.Fatalf("load sqlite master sql for %s %s: %v", objectType, objectName, err)
	}
	return row.SQL
}
