package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
)

func TestRegistrationWithinTxCommits(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1)")).
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO students").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("FROM terms WHERE is_active").
		WillReturnRows(sqlmock.NewRows([]string{"id", "academic_year", "semester", "is_active", "created_at", "updated_at"}).
			AddRow("term-1", "2024-2025", "First", true, now, now))
	mock.ExpectQuery("FROM subjects s JOIN course_subjects cs").
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"code", "name", "description", "units", "created_at", "updated_at"}).
			AddRow("CS101", "Programming", nil, 3, now, now).
			AddRow("CS102", "Data Structures", nil, 3, now, now))
	for _, code := range []string{"CS101", "CS102"} {
		mock.ExpectQuery("FROM subject_faculty WHERE subject_code = \\$1 ORDER BY created_at").
			WithArgs(code).
			WillReturnRows(sqlmock.NewRows([]string{"id", "subject_code", "faculty_id", "created_at"}).
				AddRow("sf-"+code, code, "fac-1", now))
	}
	mock.ExpectExec("INSERT INTO enrollments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO enrollments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.WithinTx(context.Background(), func(tx RegistrationTx) error {
		ok, err := tx.CourseExists(context.Background(), "course-1")
		require.NoError(t, err)
		require.True(t, ok)

		user := &models.User{Username: "jdoe", Email: "jdoe@example.com", PasswordHash: "hash", Role: models.RoleStudent}
		require.NoError(t, tx.CreateUser(context.Background(), user))
		student := &models.Student{ID: "stu-1", UserID: user.ID, CourseID: "course-1"}
		require.NoError(t, tx.CreateStudent(context.Background(), student))

		term, err := tx.FindActiveTerm(context.Background())
		require.NoError(t, err)
		subjects, err := tx.ListCourseSubjects(context.Background(), "course-1")
		require.NoError(t, err)

		enrollments := make([]models.Enrollment, 0, len(subjects))
		for _, subject := range subjects {
			sf, err := tx.FindSubjectFaculty(context.Background(), subject.Code)
			require.NoError(t, err)
			enrollments = append(enrollments, models.Enrollment{StudentID: student.ID, SubjectCode: subject.Code, FacultyID: sf.FacultyID, TermID: term.ID})
		}
		require.NoError(t, tx.CreateEnrollments(context.Background(), enrollments))
		for _, e := range enrollments {
			assert.NotEmpty(t, e.ID)
			assert.Equal(t, models.EnrollmentStatusEnrolled, e.Status)
		}
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationWithinTxRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectRollback()

	sentinel := errors.New("no faculty")
	err := repo.WithinTx(context.Background(), func(tx RegistrationTx) error {
		require.NoError(t, tx.CreateUser(context.Background(), &models.User{Username: "x", Email: "x@example.com", Role: models.RoleStudent}))
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationWithinTxBeginFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	called := false
	err := repo.WithinTx(context.Background(), func(RegistrationTx) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.Contains(t, err.Error(), "begin registration tx")
}
