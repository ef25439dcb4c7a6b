package db

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/lucaferrani/luce/internal/models"
	"gorm.io/gorm"
)

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "luce-test.db")
	database, err := OpenSQLite(databasePath)
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

func createTestUser(t *testing.T, database *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		PasswordHash: "hash",
		Name:         "Luca",
		DailyMeals:   map[string]string{},
	}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestOpenSQLiteAppliesEmbeddedMigrations(t *testing.T) {
	database := openTestDatabase(t)

	for _, table := range []string{"users", "day_summaries", "schema_migrations"} {
		if !database.Migrator().HasTable(table) {
			t.Fatalf("expected %s table after migrations", table)
		}
	}

	if len(loadAppliedVersions(t, database)) == 0 {
		t.Fatal("expected at least one applied migration")
	}
}

func loadAppliedVersions(t *testing.T, database *gorm.DB) []string {
	t.Helper()

	var rows []struct {
		Version string `gorm:"column:version"`
	}
	if err := database.Raw(`SELECT version FROM schema_migrations ORDER BY version ASC`).Scan(&rows).Error; err != nil {
		t.Fatalf("load applied migration versions: %v", err)
	}
	versions := make([]string, 0, len(rows))
	for _, row := range rows {
		versions = append(versions, row.Version)
	}
	return versions
}

func TestOpenSQLiteMigrationsAreIdempotent(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "luce-idempotent.db")

	firstOpen, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("first open sqlite: %v", err)
	}
	firstVersions := loadAppliedVersions(t, firstOpen)
	firstSQLDB, err := firstOpen.DB()
	if err != nil {
		t.Fatalf("first open sql db: %v", err)
	}
	if err := firstSQLDB.Close(); err != nil {
		t.Fatalf("close first sql db: %v", err)
	}

	secondOpen, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("second open sqlite: %v", err)
	}
	secondSQLDB, err := secondOpen.DB()
	if err != nil {
		t.Fatalf("second open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = secondSQLDB.Close()
	})

	secondVersions := loadAppliedVersions(t, secondOpen)
	if !reflect.DeepEqual(firstVersions, secondVersions) {
		t.Fatalf("migration records changed between boots: %v vs %v", firstVersions, secondVersions)
	}
}

func TestDayRecordsUniquePerUserAndDate(t *testing.T) {
	database := openTestDatabase(t)
	user := createTestUser(t, database, "luca@example.com")
	days := NewDayRepository(database)

	first := models.DaySummary{UserID: user.ID, Date: "2026-02-17", Meals: map[string]string{}}
	if err := days.Create(&first); err != nil {
		t.Fatalf("create first record: %v", err)
	}

	duplicate := models.DaySummary{UserID: user.ID, Date: "2026-02-17", Meals: map[string]string{}}
	if err := days.Create(&duplicate); err == nil {
		t.Fatal("expected duplicate (user, date) insert to fail")
	}
}

func TestDayRepositoryFindAndRange(t *testing.T) {
	database := openTestDatabase(t)
	user := createTestUser(t, database, "luca@example.com")
	days := NewDayRepository(database)

	for _, dateKey := range []string{"2026-02-10", "2026-02-17", "2026-02-24"} {
		record := models.DaySummary{
			UserID: user.ID,
			Date:   dateKey,
			Meals:  map[string]string{"pranzo": models.MealEntryRegular},
		}
		if err := days.Create(&record); err != nil {
			t.Fatalf("create %s: %v", dateKey, err)
		}
	}

	day, found, err := days.FindByUserAndDate(user.ID, "2026-02-17")
	if err != nil || !found {
		t.Fatalf("find existing day: found=%v err=%v", found, err)
	}
	if day.Meals["pranzo"] != models.MealEntryRegular {
		t.Fatalf("serialized meals did not round-trip: %v", day.Meals)
	}

	_, found, err = days.FindByUserAndDate(user.ID, "2026-02-18")
	if err != nil || found {
		t.Fatalf("missing day must report found=false without error, got found=%v err=%v", found, err)
	}

	ranged, err := days.ListByUserRange(user.ID, "2026-02-15", "2026-02-20")
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(ranged) != 1 || ranged[0].Date != "2026-02-17" {
		t.Fatalf("range = %+v, want single 2026-02-17 record", ranged)
	}
}

func TestReplaceHistoryAndStateSwapsAtomically(t *testing.T) {
	database := openTestDatabase(t)
	user := createTestUser(t, database, "luca@example.com")
	repositories := NewRepositories(database)

	original := models.DaySummary{UserID: user.ID, Date: "2026-02-10", Meals: map[string]string{}}
	if err := repositories.Days.Create(&original); err != nil {
		t.Fatalf("create original record: %v", err)
	}

	user.Streak = 2
	replacement := []models.DaySummary{
		{Date: "2026-02-17", Meals: map[string]string{}, IsCompleted: true},
		{Date: "2026-02-18", Meals: map[string]string{}},
	}
	if err := repositories.Users.ReplaceHistoryAndState(&user, replacement); err != nil {
		t.Fatalf("replace history: %v", err)
	}

	after, err := repositories.Days.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("list after replace: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("history size = %d, want 2", len(after))
	}
	for _, day := range after {
		if day.Date == "2026-02-10" {
			t.Fatal("old history must be gone after replace")
		}
		if day.UserID != user.ID {
			t.Fatalf("replaced record lost ownership: %+v", day)
		}
	}

	reloaded, err := repositories.Users.FindByID(user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.Streak != 2 {
		t.Fatalf("user state not saved with history, streak = %d", reloaded.Streak)
	}
}
