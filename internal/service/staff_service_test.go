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

type fakeAdminStore struct {
	fakeCredentials
	items map[string]models.AdminDetail
}

func (f *fakeAdminStore) List(ctx context.Context, filter models.ListFilter) ([]models.AdminDetail, int, error) {
	return nil, 0, nil
}

func (f *fakeAdminStore) FindByID(ctx context.Context, id string) (*models.AdminDetail, error) {
	if item, ok := f.items[id]; ok {
		return &item, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAdminStore) CreateWithUser(ctx context.Context, user *models.User, admin *models.Admin) error {
	return &pq.Error{Code: "23505", Constraint: "users_username_key"}
}

func (f *fakeAdminStore) Update(ctx context.Context, admin *models.Admin, creds *models.CredentialChange) error {
	if err := f.apply(admin.UserID, creds); err != nil {
		return err
	}
	item := f.items[admin.ID]
	if creds != nil {
		item.Email = creds.Email
	}
	item.Admin = *admin
	f.items[admin.ID] = item
	return nil
}

func TestAdminServiceRefusesSelfDelete(t *testing.T) {
	store := &fakeAdminStore{items: map[string]models.AdminDetail{
		"a1": {Admin: models.Admin{ID: "a1", UserID: "u1"}},
		"a2": {Admin: models.Admin{ID: "a2", UserID: "u2"}},
	}}
	users := newFakeUserStore()
	svc := NewAdminService(store, users, fakeHasher{}, nil, nil)

	err := svc.Delete(context.Background(), "u1", "a1")
	appErr := appErrors.FromError(err)
	assert.Equal(t, 403, appErr.Status)
	assert.Empty(t, users.deleted)

	require.NoError(t, svc.Delete(context.Background(), "u1", "a2"))
	assert.Equal(t, []string{"u2"}, users.deleted)

	assert.ErrorIs(t, svc.Delete(context.Background(), "u1", "missing"), appErrors.ErrNotFound)
}

func TestAdminServiceCreateDuplicate(t *testing.T) {
	svc := NewAdminService(&fakeAdminStore{items: map[string]models.AdminDetail{}}, newFakeUserStore(), fakeHasher{}, nil, nil)

	_, err := svc.Create(context.Background(), models.CreateStaffRequest{
		Username:  "root",
		Password:  "secret123",
		Email:     "root@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		ContactNo: "09170000000",
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "Username or email already exists", appErr.Message)
}

func TestFacultyServiceCreateAndUpdate(t *testing.T) {
	store := newFakeFacultyStore()
	users := newFakeUserStore(&models.User{ID: "user-aturing"})
	svc := NewFacultyService(store, users, fakeHasher{}, nil, nil)

	created, err := svc.Create(context.Background(), models.CreateStaffRequest{
		Username:  "aturing",
		Password:  "secret123",
		Email:     "alan@example.com",
		FirstName: "Alan",
		LastName:  "Turing",
		ContactNo: "09171111111",
	})
	require.NoError(t, err)
	assert.Equal(t, "fac-aturing", created.ID)
	assert.Equal(t, "aturing", created.Username)

	updated, err := svc.Update(context.Background(), created.ID, models.UpdateStaffRequest{
		LastName: ptr("Mathison"),
		Password: ptr("newsecret"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Mathison", updated.LastName)
	assert.Equal(t, "Alan", updated.FirstName)
	assert.Equal(t, models.CredentialChange{Email: "alan@example.com", PasswordHash: "hashed:newsecret"}, store.credentials["user-aturing"])

	_, err = svc.Update(context.Background(), created.ID, models.UpdateStaffRequest{ContactNo: ptr("555")})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestFacultyServiceUpdateKeepsProfileWhenEmailTaken(t *testing.T) {
	store := newFakeFacultyStore(models.FacultyDetail{
		Faculty: models.Faculty{ID: "fac-1", UserID: "u-fac", FirstName: "Alan", LastName: "Turing", ContactNo: "09171111111"},
		Email:   "alan@example.com",
	})
	store.credentialsErr = &pq.Error{Code: "23505", Constraint: "users_email_key"}
	svc := NewFacultyService(store, newFakeUserStore(), fakeHasher{}, nil, nil)

	_, err := svc.Update(context.Background(), "fac-1", models.UpdateStaffRequest{
		LastName: ptr("Mathison"),
		Email:    ptr("taken@example.com"),
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "Email already exists", appErr.Message)

	current, err := svc.Get(context.Background(), "fac-1")
	require.NoError(t, err)
	assert.Equal(t, "Turing", current.LastName)
	assert.Equal(t, "alan@example.com", current.Email)
}

func TestFacultyServiceDeleteWithEnrollments(t *testing.T) {
	store := newFakeFacultyStore(models.FacultyDetail{Faculty: models.Faculty{ID: "fac-1", UserID: "u-fac"}})
	users := newFakeUserStore()
	users.deleteErr = &pq.Error{Code: "23503"}
	svc := NewFacultyService(store, users, fakeHasher{}, nil, nil)

	err := svc.Delete(context.Background(), "fac-1")
	appErr := appErrors.FromError(err)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "Faculty still has enrollments", appErr.Message)
}

func TestStudentServiceListsAdmittedByDefault(t *testing.T) {
	students := newFakeStudentStore(
		models.StudentDetail{Student: models.Student{ID: "s1", Admitted: true}},
		models.StudentDetail{Student: models.Student{ID: "s2"}},
	)
	svc := NewStudentService(students, newFakeEnrollmentStore(), newFakeUserStore(), nil, nil)

	list, page, err := svc.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "s1", list[0].ID)
	assert.Equal(t, 1, page.TotalCount)

	pending := false
	list, _, err = svc.List(context.Background(), models.StudentFilter{Admitted: &pending})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "s2", list[0].ID)
}

func TestStudentServiceAdmit(t *testing.T) {
	students := newFakeStudentStore(models.StudentDetail{Student: models.Student{ID: "s2"}})
	enrollments := newFakeEnrollmentStore(models.EnrollmentDetail{Enrollment: models.Enrollment{ID: "e1", StudentID: "s2"}})
	svc := NewStudentService(students, enrollments, newFakeUserStore(), nil, nil)

	record, err := svc.Admit(context.Background(), "s2")
	require.NoError(t, err)
	assert.True(t, record.Admitted)
	assert.Len(t, record.Enrollments, 1)

	_, err = svc.Admit(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceUpdate(t *testing.T) {
	students := newFakeStudentStore(models.StudentDetail{Student: models.Student{ID: "s1", FirstName: "Juan", MiddleName: ptr("Santos")}})
	svc := NewStudentService(students, newFakeEnrollmentStore(), newFakeUserStore(), nil, nil)

	record, err := svc.Update(context.Background(), "s1", models.UpdateStudentRequest{
		MiddleName:   ptr(" Reyes "),
		DateEnrolled: ptr("2024-08-12"),
	})
	require.NoError(t, err)
	require.NotNil(t, record.MiddleName)
	assert.Equal(t, "Reyes", *record.MiddleName)
	assert.Equal(t, 2024, record.DateEnrolled.Year())
	assert.Equal(t, "Juan", record.FirstName)
}
