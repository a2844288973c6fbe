package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type fakeTermStore struct {
	terms        map[string]*models.Term
	setActiveErr error
}

func (f *fakeTermStore) List(ctx context.Context) ([]models.Term, error) {
	var out []models.Term
	for _, t := range f.terms {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTermStore) FindByID(ctx context.Context, id string) (*models.Term, error) {
	if t, ok := f.terms[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTermStore) FindActive(ctx context.Context) (*models.Term, error) {
	for _, t := range f.terms {
		if t.IsActive {
			return t, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTermStore) Create(ctx context.Context, term *models.Term) error {
	term.ID = "term-new"
	f.terms[term.ID] = term
	return nil
}

func (f *fakeTermStore) Update(ctx context.Context, term *models.Term) error {
	f.terms[term.ID] = term
	return nil
}

func (f *fakeTermStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.terms[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.terms, id)
	return nil
}

func (f *fakeTermStore) SetActive(ctx context.Context, id string) error {
	if f.setActiveErr != nil {
		return f.setActiveErr
	}
	for _, t := range f.terms {
		t.IsActive = t.ID == id
	}
	return nil
}

func newTermStore() *fakeTermStore {
	return &fakeTermStore{terms: map[string]*models.Term{
		"t1": {ID: "t1", AcademicYear: "2023-2024", Semester: models.SemesterSecond, IsActive: true},
		"t2": {ID: "t2", AcademicYear: "2024-2025", Semester: models.SemesterFirst},
	}}
}

func TestTermServiceActivateKeepsSingleActiveTerm(t *testing.T) {
	store := newTermStore()
	svc := NewTermService(store, nil, nil)

	term, err := svc.Activate(context.Background(), "t2")
	require.NoError(t, err)
	assert.True(t, term.IsActive)

	active := 0
	for _, t := range store.terms {
		if t.IsActive {
			active++
		}
	}
	assert.Equal(t, 1, active)

	current, err := svc.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t2", current.ID)
}

func TestTermServiceActivateErrors(t *testing.T) {
	store := newTermStore()
	svc := NewTermService(store, nil, nil)

	_, err := svc.Activate(context.Background(), "t1")
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrTermAlreadyActive.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Term is already active", appErr.Message)

	_, err = svc.Activate(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	store.setActiveErr = &pq.Error{Code: "23505", Constraint: "terms_single_active_idx"}
	_, err = svc.Activate(context.Background(), "t2")
	assert.Equal(t, 409, appErrors.FromError(err).Status)
}

func TestTermServiceActiveNone(t *testing.T) {
	svc := NewTermService(&fakeTermStore{terms: map[string]*models.Term{}}, nil, nil)
	_, err := svc.Active(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrNoActiveTerm)
}

func TestTermServiceCreateValidatesSemester(t *testing.T) {
	svc := NewTermService(newTermStore(), nil, nil)

	_, err := svc.Create(context.Background(), models.TermRequest{AcademicYear: "2025-2026", Semester: "Third"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	term, err := svc.Create(context.Background(), models.TermRequest{AcademicYear: "2025-2026", Semester: models.SemesterFirst})
	require.NoError(t, err)
	assert.False(t, term.IsActive)
}

type fakeSubjectFacultyStore struct {
	items     map[string]models.SubjectFacultyDetail
	createErr error
}

func (f *fakeSubjectFacultyStore) List(ctx context.Context, filter models.SubjectFacultyFilter) ([]models.SubjectFacultyDetail, error) {
	var out []models.SubjectFacultyDetail
	for _, item := range f.items {
		if filter.SubjectCode != "" && item.SubjectCode != filter.SubjectCode {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeSubjectFacultyStore) FindByID(ctx context.Context, id string) (*models.SubjectFacultyDetail, error) {
	if item, ok := f.items[id]; ok {
		return &item, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSubjectFacultyStore) Exists(ctx context.Context, subjectCode, facultyID string) (bool, error) {
	for _, item := range f.items {
		if item.SubjectCode == subjectCode && item.FacultyID == facultyID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubjectFacultyStore) Create(ctx context.Context, item *models.SubjectFaculty) error {
	if f.createErr != nil {
		return f.createErr
	}
	item.ID = "sf-" + item.SubjectCode + "-" + item.FacultyID
	f.items[item.ID] = models.SubjectFacultyDetail{SubjectFaculty: *item}
	return nil
}

func (f *fakeSubjectFacultyStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

type fakeSubjectStore struct {
	subjects map[string]models.Subject
}

func (f fakeSubjectStore) FindByCode(ctx context.Context, code string) (*models.Subject, error) {
	if s, ok := f.subjects[code]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

const turingID = "3c6e9f12-4b7a-4d1e-8f2c-5a9b0c1d2e3f"

func TestSubjectFacultyServiceAssign(t *testing.T) {
	store := &fakeSubjectFacultyStore{items: map[string]models.SubjectFacultyDetail{}}
	subjects := fakeSubjectStore{subjects: map[string]models.Subject{"CS101": {Code: "CS101"}}}
	faculty := newFakeFacultyStore(models.FacultyDetail{Faculty: models.Faculty{ID: turingID}})
	svc := NewSubjectFacultyService(store, subjects, faculty, nil, nil)

	item, err := svc.Assign(context.Background(), models.SubjectFacultyRequest{SubjectCode: "CS101", FacultyID: turingID})
	require.NoError(t, err)
	assert.Equal(t, turingID, item.FacultyID)

	_, err = svc.Assign(context.Background(), models.SubjectFacultyRequest{SubjectCode: "CS101", FacultyID: turingID})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateAssignment.Code, appErr.Code)
	assert.Equal(t, "This faculty is already assigned to the subject", appErr.Message)

	_, err = svc.Assign(context.Background(), models.SubjectFacultyRequest{SubjectCode: "NOPE", FacultyID: turingID})
	assert.Equal(t, "subject not found", appErrors.FromError(err).Message)

	_, err = svc.Assign(context.Background(), models.SubjectFacultyRequest{SubjectCode: "CS101", FacultyID: "fac-1"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Assign(context.Background(), models.SubjectFacultyRequest{SubjectCode: "CS101", FacultyID: "9e1d7c5b-3a2f-4e8d-b6c4-0a1f2e3d4c5b"})
	assert.Equal(t, "faculty not found", appErrors.FromError(err).Message)

	require.NoError(t, svc.Unassign(context.Background(), item.ID))
	assert.ErrorIs(t, svc.Unassign(context.Background(), item.ID), appErrors.ErrNotFound)
}

func TestSubjectFacultyServiceAssignRace(t *testing.T) {
	store := &fakeSubjectFacultyStore{
		items:     map[string]models.SubjectFacultyDetail{},
		createErr: &pq.Error{Code: "23505", Constraint: "subject_faculty_subject_faculty_key"},
	}
	subjects := fakeSubjectStore{subjects: map[string]models.Subject{"CS101": {Code: "CS101"}}}
	faculty := newFakeFacultyStore(models.FacultyDetail{Faculty: models.Faculty{ID: turingID}})
	svc := NewSubjectFacultyService(store, subjects, faculty, nil, nil)

	_, err := svc.Assign(context.Background(), models.SubjectFacultyRequest{SubjectCode: "CS101", FacultyID: turingID})
	assert.ErrorIs(t, err, appErrors.ErrDuplicateAssignment)
}

type fakeCourseStore struct {
	courses   map[string]models.Course
	mapping   map[string][]string
	deleteErr error
	listCalls int
}

func (f *fakeCourseStore) List(ctx context.Context) ([]models.Course, error) {
	f.listCalls++
	out := make([]models.Course, 0, len(f.courses))
	for _, c := range f.courses {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCourseStore) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := f.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCourseStore) Create(ctx context.Context, course *models.Course) error {
	course.ID = "course-new"
	f.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseStore) Update(ctx context.Context, course *models.Course) error {
	f.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseStore) Delete(ctx context.Context, id string) error { return f.deleteErr }

func (f *fakeCourseStore) ListSubjects(ctx context.Context, courseID string) ([]models.Subject, error) {
	var out []models.Subject
	for _, code := range f.mapping[courseID] {
		out = append(out, models.Subject{Code: code})
	}
	return out, nil
}

func (f *fakeCourseStore) AddSubject(ctx context.Context, courseID, subjectCode string) error {
	f.mapping[courseID] = append(f.mapping[courseID], subjectCode)
	return nil
}

func (f *fakeCourseStore) RemoveSubject(ctx context.Context, courseID, subjectCode string) error {
	return sql.ErrNoRows
}

func TestCourseServiceSubjects(t *testing.T) {
	store := &fakeCourseStore{courses: map[string]models.Course{"c1": {ID: "c1"}}, mapping: map[string][]string{}}
	subjects := fakeSubjectStore{subjects: map[string]models.Subject{"CS101": {Code: "CS101"}}}
	svc := NewCourseService(store, subjects, nil, nil, nil)

	list, err := svc.AddSubject(context.Background(), "c1", models.CourseSubjectRequest{SubjectCode: "CS101"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.AddSubject(context.Background(), "c1", models.CourseSubjectRequest{SubjectCode: "XX"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.AddSubject(context.Background(), "c9", models.CourseSubjectRequest{SubjectCode: "CS101"})
	assert.Equal(t, "course not found", appErrors.FromError(err).Message)

	assert.ErrorIs(t, svc.RemoveSubject(context.Background(), "c1", "MATH"), appErrors.ErrNotFound)
}

func TestCourseServiceDeleteReferenced(t *testing.T) {
	store := &fakeCourseStore{courses: map[string]models.Course{}, deleteErr: &pq.Error{Code: "23503"}}
	svc := NewCourseService(store, fakeSubjectStore{}, nil, nil, nil)

	err := svc.Delete(context.Background(), "c1")
	appErr := appErrors.FromError(err)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "Course still has enrolled students", appErr.Message)
}
