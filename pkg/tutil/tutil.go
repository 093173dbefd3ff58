// Package tutil holds helpers shared by tests across packages.
package tutil

import (
	"os"
	"strings"
	"testing"

	"github.com/hashicorp/go-uuid"
	"github.com/stretchr/testify/require"
	"github.com/teamup-uiuc/teamup/pkg/tmdb"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func IsIntegrationTest() bool {
	testType := os.Getenv("TEAMUP_TEST")
	return strings.ToLower(testType) == "integration"
}

// NewTestDB returns a migrated in-memory SQLite database private to the calling test.
// The pool is limited to one connection, so code under test must run every statement
// of a transaction on the transaction handle.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name, err := uuid.GenerateUUID()
	require.NoError(t, err)

	db, err := gorm.Open(sqlite.Open(tmdb.SqliteMemoryDSN(name)), tmdb.GormConfig())
	require.NoError(t, err)

	sqlitedb, err := db.DB()
	require.NoError(t, err)
	sqlitedb.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlitedb.Close() })

	require.NoError(t, tmdb.RunMigrations(db))
	return db
}

// Fixtures is the reference data every matching test starts from: five students,
// two courses with one section each, and a few skills.
type Fixtures struct {
	Alice, Bob, Carol, Dave, Erin tmmodel.User
	Course                        tmmodel.Course
	OtherCourse                   tmmodel.Course
	Section                       tmmodel.Section
	OtherSection                  tmmodel.Section
	Skills                        []tmmodel.Skill
}

func SeedFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	t.Helper()

	f := &Fixtures{
		Alice: tmmodel.User{NetID: "alice2", Email: "alice2@illinois.edu", DisplayName: "Alice"},
		Bob:   tmmodel.User{NetID: "bob3", Email: "bob3@illinois.edu", DisplayName: "Bob"},
		Carol: tmmodel.User{NetID: "carol4", Email: "carol4@illinois.edu", DisplayName: "Carol"},
		Dave:  tmmodel.User{NetID: "dave5", Email: "dave5@illinois.edu", DisplayName: "Dave"},
		Erin:  tmmodel.User{NetID: "erin6", Email: "erin6@illinois.edu", DisplayName: "Erin"},
		Course: tmmodel.Course{
			ID: "CS411-FA24", TermID: "FA24", Subject: "CS", Number: "411", Title: "Database Systems",
		},
		OtherCourse: tmmodel.Course{
			ID: "CS425-FA24", TermID: "FA24", Subject: "CS", Number: "425", Title: "Distributed Systems",
		},
		Section:      tmmodel.Section{CRN: "31352", CourseID: "CS411-FA24", Instructor: "Alawini"},
		OtherSection: tmmodel.Section{CRN: "40001", CourseID: "CS425-FA24", Instructor: "Gupta"},
		Skills: []tmmodel.Skill{
			{Name: "Go", Slug: "go"},
			{Name: "SQL", Slug: "sql"},
			{Name: "React", Slug: "react"},
		},
	}

	for _, u := range []*tmmodel.User{&f.Alice, &f.Bob, &f.Carol, &f.Dave, &f.Erin} {
		var err error
		u.UUID, err = uuid.GenerateUUID()
		require.NoError(t, err)
		require.NoError(t, db.Create(u).Error)
	}

	require.NoError(t, db.Create(&tmmodel.Term{ID: "FA24", Name: "Fall 2024"}).Error)
	require.NoError(t, db.Create(&f.Course).Error)
	require.NoError(t, db.Create(&f.OtherCourse).Error)
	require.NoError(t, db.Create(&f.Section).Error)
	require.NoError(t, db.Create(&f.OtherSection).Error)
	require.NoError(t, db.Create(&f.Skills).Error)

	return f
}
