package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
)

func TestCourseRepositoryAddSubjectIgnoresDuplicates(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO course_subjects (course_id, subject_code) VALUES ($1, $2) ON CONFLICT DO NOTHING")).
		WithArgs("course-1", "CS101").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.AddSubject(context.Background(), "course-1", "CS101"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryListByFaculty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("JOIN subject_faculty sf ON sf.subject_code = s.code WHERE sf.faculty_id = $1")).
		WithArgs("fac-1").
		WillReturnRows(sqlmock.NewRows([]string{"code", "name", "description", "units", "created_at", "updated_at"}).
			AddRow("CS101", "Programming", "Intro", 3, now, now))

	subjects, err := repo.ListByFaculty(context.Background(), "fac-1")
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	require.NotNil(t, subjects[0].Description)
	assert.Equal(t, "Intro", *subjects[0].Description)
}

func TestSubjectFacultyRepositoryExists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubjectFacultyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM subject_faculty WHERE subject_code = $1 AND faculty_id = $2)")).
		WithArgs("CS101", "fac-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "CS101", "fac-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGradeRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	created := time.Now().Add(-time.Hour)
	mock.ExpectQuery("(?s)INSERT INTO grades .* ON CONFLICT \\(enrollment_id\\) DO UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("grade-existing", created))

	grade := &models.Grade{EnrollmentID: "enr-1", Grade: 88}
	require.NoError(t, repo.Upsert(context.Background(), grade))
	assert.Equal(t, "grade-existing", grade.ID)
	assert.True(t, grade.CreatedAt.Equal(created))
	assert.NoError(t, mock.ExpectationsWereMet())
}
