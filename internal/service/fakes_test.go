package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/repository"
)

type fakeHasher struct {
	hashErr error
}

func (fakeHasher) Verify(plaintext, digest string) bool {
	return digest == "hashed:"+plaintext
}

func (h fakeHasher) Hash(plaintext string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + plaintext, nil
}

type fakeUserStore struct {
	users     map[string]*models.User
	findErr   error
	deleted   []string
	deleteErr error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	store := &fakeUserStore{users: map[string]*models.User{}}
	for _, u := range users {
		store.users[u.ID] = u
	}
	return store
}

func (f *fakeUserStore) FindByCredential(ctx context.Context, credential string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var found []*models.User
	for _, u := range f.users {
		if u.Username == credential || u.Email == strings.ToLower(credential) {
			found = append(found, u)
		}
	}
	if len(found) != 1 {
		return nil, sql.ErrNoRows
	}
	return found[0], nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserStore) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeRegistrationStore buffers the writes of each transaction and only
// publishes them when the callback succeeds.
type fakeRegistrationStore struct {
	courses        map[string]bool
	activeTerm     *models.Term
	courseSubjects map[string][]models.Subject
	subjectFaculty map[string]string
	usernames      map[string]bool
	createUserErr  error

	users       []models.User
	students    []models.Student
	enrollments []models.Enrollment
	commits     int
	rollbacks   int
}

func (f *fakeRegistrationStore) WithinTx(ctx context.Context, fn func(repository.RegistrationTx) error) error {
	tx := &fakeRegistrationTx{store: f}
	if err := fn(tx); err != nil {
		f.rollbacks++
		return err
	}
	f.users = append(f.users, tx.users...)
	f.students = append(f.students, tx.students...)
	f.enrollments = append(f.enrollments, tx.enrollments...)
	f.commits++
	return nil
}

type fakeRegistrationTx struct {
	store       *fakeRegistrationStore
	users       []models.User
	students    []models.Student
	enrollments []models.Enrollment
}

func (t *fakeRegistrationTx) CourseExists(ctx context.Context, courseID string) (bool, error) {
	return t.store.courses[courseID], nil
}

func (t *fakeRegistrationTx) CreateUser(ctx context.Context, user *models.User) error {
	if t.store.createUserErr != nil {
		return t.store.createUserErr
	}
	user.ID = "user-" + user.Username
	t.users = append(t.users, *user)
	return nil
}

func (t *fakeRegistrationTx) CreateStudent(ctx context.Context, student *models.Student) error {
	t.students = append(t.students, *student)
	return nil
}

func (t *fakeRegistrationTx) FindActiveTerm(ctx context.Context) (*models.Term, error) {
	if t.store.activeTerm == nil {
		return nil, sql.ErrNoRows
	}
	return t.store.activeTerm, nil
}

func (t *fakeRegistrationTx) ListCourseSubjects(ctx context.Context, courseID string) ([]models.Subject, error) {
	return t.store.courseSubjects[courseID], nil
}

func (t *fakeRegistrationTx) FindSubjectFaculty(ctx context.Context, subjectCode string) (*models.SubjectFaculty, error) {
	facultyID, ok := t.store.subjectFaculty[subjectCode]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.SubjectFaculty{ID: "sf-" + subjectCode, SubjectCode: subjectCode, FacultyID: facultyID}, nil
}

func (t *fakeRegistrationTx) CreateEnrollments(ctx context.Context, enrollments []models.Enrollment) error {
	for i := range enrollments {
		enrollments[i].ID = "enr-" + enrollments[i].SubjectCode
	}
	t.enrollments = append(t.enrollments, enrollments...)
	return nil
}

type fakeEnrollmentStore struct {
	items      map[string]models.EnrollmentDetail
	lastFilter models.EnrollmentFilter
	shared     map[string]bool
	listErr    error
	statuses   map[string]models.EnrollmentStatus
	deleted    []string
}

func newFakeEnrollmentStore(items ...models.EnrollmentDetail) *fakeEnrollmentStore {
	store := &fakeEnrollmentStore{items: map[string]models.EnrollmentDetail{}, shared: map[string]bool{}, statuses: map[string]models.EnrollmentStatus{}}
	for _, item := range items {
		store.items[item.ID] = item
	}
	return store
}

func (f *fakeEnrollmentStore) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []models.EnrollmentDetail
	for _, item := range f.items {
		if filter.StudentID != "" && item.StudentID != filter.StudentID {
			continue
		}
		if filter.FacultyID != "" && item.FacultyID != filter.FacultyID {
			continue
		}
		if filter.SubjectCode != "" && item.SubjectCode != filter.SubjectCode {
			continue
		}
		if filter.AdmittedOnly && !item.StudentAdmitted {
			continue
		}
		if filter.GradedOnly && item.Grade == nil {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	total := len(out)
	if filter.PageSize > 0 {
		page := filter.ListFilter
		page.Normalize()
		start := page.Offset()
		if start > total {
			start = total
		}
		end := start + page.PageSize
		if end > total {
			end = total
		}
		out = out[start:end]
	}
	return out, total, nil
}

func (f *fakeEnrollmentStore) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	if item, ok := f.items[id]; ok {
		return &item, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeEnrollmentStore) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error {
	item, ok := f.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	item.Status = status
	f.items[id] = item
	f.statuses[id] = status
	return nil
}

func (f *fakeEnrollmentStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeEnrollmentStore) HasSharedEnrollment(ctx context.Context, facultyID, studentID string) (bool, error) {
	return f.shared[facultyID+"/"+studentID], nil
}

// fakeCredentials records account changes and can fail them to emulate a
// rolled back profile update.
type fakeCredentials struct {
	credentials    map[string]models.CredentialChange
	credentialsErr error
}

func (f *fakeCredentials) apply(userID string, creds *models.CredentialChange) error {
	if creds == nil {
		return nil
	}
	if f.credentialsErr != nil {
		return f.credentialsErr
	}
	if f.credentials == nil {
		f.credentials = map[string]models.CredentialChange{}
	}
	f.credentials[userID] = *creds
	return nil
}

type fakeFacultyStore struct {
	fakeCredentials
	items   map[string]models.FacultyDetail
	created *models.Faculty
	updated *models.Faculty
}

func newFakeFacultyStore(items ...models.FacultyDetail) *fakeFacultyStore {
	store := &fakeFacultyStore{items: map[string]models.FacultyDetail{}}
	for _, item := range items {
		store.items[item.ID] = item
	}
	return store
}

func (f *fakeFacultyStore) List(ctx context.Context, filter models.ListFilter) ([]models.FacultyDetail, int, error) {
	out := make([]models.FacultyDetail, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, len(out), nil
}

func (f *fakeFacultyStore) FindByID(ctx context.Context, id string) (*models.FacultyDetail, error) {
	if item, ok := f.items[id]; ok {
		return &item, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeFacultyStore) FindByUserID(ctx context.Context, userID string) (*models.FacultyDetail, error) {
	for _, item := range f.items {
		if item.UserID == userID {
			return &item, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeFacultyStore) CreateWithUser(ctx context.Context, user *models.User, faculty *models.Faculty) error {
	user.ID = "user-" + user.Username
	faculty.ID = "fac-" + user.Username
	faculty.UserID = user.ID
	f.created = faculty
	f.items[faculty.ID] = models.FacultyDetail{Faculty: *faculty, Username: user.Username, Email: user.Email}
	return nil
}

func (f *fakeFacultyStore) Update(ctx context.Context, faculty *models.Faculty, creds *models.CredentialChange) error {
	item, ok := f.items[faculty.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if err := f.apply(faculty.UserID, creds); err != nil {
		return err
	}
	if creds != nil {
		item.Email = creds.Email
	}
	item.Faculty = *faculty
	f.items[faculty.ID] = item
	f.updated = faculty
	return nil
}

type fakeStudentStore struct {
	fakeCredentials
	items    map[string]models.StudentDetail
	admitted []string
}

func newFakeStudentStore(items ...models.StudentDetail) *fakeStudentStore {
	store := &fakeStudentStore{items: map[string]models.StudentDetail{}}
	for _, item := range items {
		store.items[item.ID] = item
	}
	return store
}

func (f *fakeStudentStore) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	var out []models.StudentDetail
	for _, item := range f.items {
		if filter.Admitted != nil && item.Admitted != *filter.Admitted {
			continue
		}
		out = append(out, item)
	}
	return out, len(out), nil
}

func (f *fakeStudentStore) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	if item, ok := f.items[id]; ok {
		return &item, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentStore) FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error) {
	for _, item := range f.items {
		if item.UserID == userID {
			return &item, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentStore) Update(ctx context.Context, student *models.Student, creds *models.CredentialChange) error {
	item, ok := f.items[student.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if err := f.apply(student.UserID, creds); err != nil {
		return err
	}
	if creds != nil {
		item.Email = creds.Email
	}
	item.Student = *student
	f.items[student.ID] = item
	return nil
}

func (f *fakeStudentStore) SetAdmitted(ctx context.Context, id string, admitted bool) error {
	item, ok := f.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	item.Admitted = admitted
	f.items[id] = item
	f.admitted = append(f.admitted, id)
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
