package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

const bscsID = "0f8c2a4e-6b1d-4c3e-9a7f-2d5e8b1c4a60"

func validEnrollmentRequest() models.CreateStudentRequest {
	return models.CreateStudentRequest{
		Username:     "jdelacruz",
		Password:     "secret123",
		Email:        "juan@example.com",
		CourseID:     bscsID,
		FirstName:    "Juan",
		LastName:     "Dela Cruz",
		Address:      "123 Rizal Street",
		DateEnrolled: "2024-06-01",
		Sex:          models.SexMale,
		PlaceOfBirth: "Manila",
		Nationality:  "Filipino",
		Religion:     "Catholic",
		ContactNo:    "09171234567",
		CivilStatus:  "single",
	}
}

func newRegistrationStore() *fakeRegistrationStore {
	return &fakeRegistrationStore{
		courses:    map[string]bool{bscsID: true},
		activeTerm: &models.Term{ID: "term-1", AcademicYear: "2024-2025", Semester: models.SemesterFirst, IsActive: true},
		courseSubjects: map[string][]models.Subject{
			bscsID: {{Code: "CS101"}, {Code: "CS102"}, {Code: "MATH1"}},
		},
		subjectFaculty: map[string]string{"CS101": "fac-1", "CS102": "fac-2", "MATH1": "fac-1"},
	}
}

func TestEnrollStudentCreatesEnrollmentPerSubject(t *testing.T) {
	store := newRegistrationStore()
	svc := NewEnrollmentService(store, newFakeEnrollmentStore(), fakeHasher{}, nil, NewMetricsService(), nil)

	result, err := svc.EnrollStudent(context.Background(), validEnrollmentRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, store.commits)
	require.Len(t, store.users, 1)
	assert.Equal(t, models.RoleStudent, store.users[0].Role)
	assert.Equal(t, "hashed:secret123", store.users[0].PasswordHash)

	require.Len(t, store.students, 1)
	assert.False(t, store.students[0].Admitted)
	assert.Equal(t, store.users[0].ID, store.students[0].UserID)

	require.Len(t, result.Enrollments, 3)
	faculty := map[string]string{}
	for _, e := range result.Enrollments {
		assert.Equal(t, "term-1", e.TermID)
		assert.Equal(t, result.Student.ID, e.StudentID)
		assert.Equal(t, models.EnrollmentStatusEnrolled, e.Status)
		faculty[e.SubjectCode] = e.FacultyID
	}
	assert.Equal(t, map[string]string{"CS101": "fac-1", "CS102": "fac-2", "MATH1": "fac-1"}, faculty)
	assert.Equal(t,
		"Student Juan Dela Cruz enrolled successfully, you may start using the portal after official admission.",
		EnrollmentMessage(result.Student))
}

func TestEnrollStudentRollsBackWhenSubjectHasNoFaculty(t *testing.T) {
	store := newRegistrationStore()
	delete(store.subjectFaculty, "CS102")
	svc := NewEnrollmentService(store, newFakeEnrollmentStore(), fakeHasher{}, nil, nil, nil)

	_, err := svc.EnrollStudent(context.Background(), validEnrollmentRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrSubjectNoFaculty.Code, appErr.Code)
	assert.Equal(t, 404, appErr.Status)
	assert.Contains(t, appErr.Message, "CS102")

	assert.Equal(t, 0, store.commits)
	assert.Equal(t, 1, store.rollbacks)
	assert.Empty(t, store.users)
	assert.Empty(t, store.students)
	assert.Empty(t, store.enrollments)
}

func TestEnrollStudentFailureModes(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*fakeRegistrationStore, *models.CreateStudentRequest)
		code   string
		status int
	}{
		{"no active term", func(s *fakeRegistrationStore, _ *models.CreateStudentRequest) { s.activeTerm = nil }, appErrors.ErrNoActiveTerm.Code, 404},
		{"course without subjects", func(s *fakeRegistrationStore, _ *models.CreateStudentRequest) { s.courseSubjects = nil }, appErrors.ErrCourseHasNoSubjects.Code, 404},
		{"unknown course", func(_ *fakeRegistrationStore, r *models.CreateStudentRequest) { r.CourseID = "5b2f3c1e-8d7a-4e6b-9c0d-1a2b3c4d5e6f" }, appErrors.ErrNotFound.Code, 404},
		{"duplicate username", func(s *fakeRegistrationStore, _ *models.CreateStudentRequest) {
			s.createUserErr = &pq.Error{Code: "23505", Constraint: "users_username_key"}
		}, appErrors.ErrConflict.Code, 409},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newRegistrationStore()
			req := validEnrollmentRequest()
			tc.mutate(store, &req)
			svc := NewEnrollmentService(store, newFakeEnrollmentStore(), fakeHasher{}, nil, nil, nil)

			_, err := svc.EnrollStudent(context.Background(), req)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, tc.code, appErr.Code)
			assert.Equal(t, tc.status, appErr.Status)
			assert.Zero(t, store.commits)
			assert.Empty(t, store.enrollments)
		})
	}
}

func TestEnrollStudentValidatesBeforeWriting(t *testing.T) {
	store := newRegistrationStore()
	svc := NewEnrollmentService(store, newFakeEnrollmentStore(), fakeHasher{}, nil, nil, nil)

	req := validEnrollmentRequest()
	req.ContactNo = "12345"
	req.DateEnrolled = "06/01/2024"
	req.Sex = "other"
	req.CourseID = "course-1"

	_, err := svc.EnrollStudent(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	fields := map[string]bool{}
	for _, f := range appErr.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["contactNo"])
	assert.True(t, fields["dateEnrolled"])
	assert.True(t, fields["sex"])
	assert.True(t, fields["courseId"])
	assert.Zero(t, store.commits+store.rollbacks)
}

func TestEnrollStudentHashFailure(t *testing.T) {
	store := newRegistrationStore()
	svc := NewEnrollmentService(store, newFakeEnrollmentStore(), fakeHasher{hashErr: errors.New("boom")}, nil, nil, nil)

	_, err := svc.EnrollStudent(context.Background(), validEnrollmentRequest())
	assert.ErrorIs(t, err, appErrors.ErrInternal)
	assert.Zero(t, store.commits+store.rollbacks)
}

func TestEnrollmentServiceUpdateStatusAndDelete(t *testing.T) {
	enrollments := newFakeEnrollmentStore(models.EnrollmentDetail{Enrollment: models.Enrollment{ID: "enr-1", Status: models.EnrollmentStatusEnrolled}})
	svc := NewEnrollmentService(newRegistrationStore(), enrollments, fakeHasher{}, nil, nil, nil)

	updated, err := svc.UpdateStatus(context.Background(), "enr-1", models.EnrollmentStatusRequest{Status: models.EnrollmentStatusDropped})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusDropped, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), "enr-1", models.EnrollmentStatusRequest{Status: "paused"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.UpdateStatus(context.Background(), "missing", models.EnrollmentStatusRequest{Status: models.EnrollmentStatusCompleted})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	require.NoError(t, svc.Delete(context.Background(), "enr-1"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "enr-1"), appErrors.ErrNotFound)
}
