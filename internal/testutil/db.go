// Package testutil holds fixtures shared by package tests.
package testutil

import (
	migration "Go-Voting-Backend/cmd/database/migrate"
	"Go-Voting-Backend/entities"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory database private to the calling test. The
// pool is limited to one connection so concurrent callers queue instead of
// hitting SQLITE_BUSY.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Discard,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Migrate(db))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, points int) *entities.User {
	t.Helper()
	user := &entities.User{
		Name:   "Budi Santoso",
		Email:  fmt.Sprintf("budi-%s@example.com", uuid.NewString()),
		Points: points,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// EventFixture is one event with a single category and candidate.
type EventFixture struct {
	Event     *entities.Event
	Category  *entities.Category
	Candidate *entities.Candidate
}

// CreateLiveEvent seeds an event that is open for voting now.
func CreateLiveEvent(t *testing.T, db *gorm.DB, pointsPerVote int) *EventFixture {
	t.Helper()
	now := time.Now().UTC()
	return CreateEvent(t, db, &entities.Event{
		Name:          "Anugerah Musik",
		Status:        entities.EventStatusLive,
		IsActive:      true,
		StartDate:     now.Add(-24 * time.Hour),
		EndDate:       now.Add(24 * time.Hour),
		PointsPerVote: pointsPerVote,
	})
}

func CreateEvent(t *testing.T, db *gorm.DB, event *entities.Event) *EventFixture {
	t.Helper()
	require.NoError(t, db.Create(event).Error)

	category := &entities.Category{EventID: event.ID, Name: "Best New Artist"}
	require.NoError(t, db.Create(category).Error)

	candidate := &entities.Candidate{CategoryID: category.ID, Name: "Raisa"}
	require.NoError(t, db.Create(candidate).Error)

	return &EventFixture{Event: event, Category: category, Candidate: candidate}
}

func CreatePackage(t *testing.T, db *gorm.DB, points int, price int64, validityDays int) *entities.Package {
	t.Helper()
	pkg := &entities.Package{
		Name:         fmt.Sprintf("%d Points", points),
		Points:       points,
		Price:        price,
		ValidityDays: validityDays,
		IsActive:     true,
	}
	require.NoError(t, db.Create(pkg).Error)
	return pkg
}

func Balance(t *testing.T, db *gorm.DB, userID any) int {
	t.Helper()
	var user entities.User
	require.NoError(t, db.First(&user, "id = ?", userID).Error)
	return user.Points
}
