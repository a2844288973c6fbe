package models

// LoginRequest is submitted to POST /auth/login. Credential is either a
// username or an email address.
type LoginRequest struct {
	Credential string `json:"credential" validate:"required,min=3"`
	Password   string `json:"password" validate:"required,min=6"`
}

// CreateStudentRequest is the public enrollment form.
type CreateStudentRequest struct {
	Username     string  `json:"username" validate:"required,min=3,max=64"`
	Password     string  `json:"password" validate:"required,min=6,max=72"`
	Email        string  `json:"email" validate:"required,email"`
	CourseID     string  `json:"courseId" validate:"required,uuid"`
	FirstName    string  `json:"firstName" validate:"required,min=2"`
	MiddleName   *string `json:"middleName" validate:"omitempty,min=2"`
	LastName     string  `json:"lastName" validate:"required,min=2"`
	Address      string  `json:"address" validate:"required,min=5"`
	DateEnrolled string  `json:"dateEnrolled" validate:"required,isodate"`
	Sex          string  `json:"sex" validate:"required,oneof=male female"`
	PlaceOfBirth string  `json:"placeOfBirth" validate:"required"`
	Nationality  string  `json:"nationality" validate:"required"`
	Religion     string  `json:"religion" validate:"required"`
	ContactNo    string  `json:"contactNo" validate:"required,contactno"`
	CivilStatus  string  `json:"civilStatus" validate:"required,oneof=single married widowed separated annulled divorced"`
}

// UpdateStudentRequest patches a student profile. Nil fields are left as is.
type UpdateStudentRequest struct {
	CourseID     *string `json:"courseId" validate:"omitempty,uuid"`
	FirstName    *string `json:"firstName" validate:"omitempty,min=2"`
	MiddleName   *string `json:"middleName" validate:"omitempty,min=2"`
	LastName     *string `json:"lastName" validate:"omitempty,min=2"`
	Address      *string `json:"address" validate:"omitempty,min=5"`
	DateEnrolled *string `json:"dateEnrolled" validate:"omitempty,isodate"`
	Sex          *string `json:"sex" validate:"omitempty,oneof=male female"`
	PlaceOfBirth *string `json:"placeOfBirth" validate:"omitempty,min=1"`
	Nationality  *string `json:"nationality" validate:"omitempty,min=1"`
	Religion     *string `json:"religion" validate:"omitempty,min=1"`
	ContactNo    *string `json:"contactNo" validate:"omitempty,contactno"`
	CivilStatus  *string `json:"civilStatus" validate:"omitempty,oneof=single married widowed separated annulled divorced"`
}

// StudentSelfUpdateRequest is what a student may change about themselves.
type StudentSelfUpdateRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=6,max=72"`
	ContactNo *string `json:"contactNo" validate:"omitempty,contactno"`
	Address   *string `json:"address" validate:"omitempty,min=5"`
}

// CreateStaffRequest creates a faculty or admin account with its profile.
type CreateStaffRequest struct {
	Username   string  `json:"username" validate:"required,min=3,max=64"`
	Password   string  `json:"password" validate:"required,min=6,max=72"`
	Email      string  `json:"email" validate:"required,email"`
	FirstName  string  `json:"firstName" validate:"required,min=2"`
	MiddleName *string `json:"middleName" validate:"omitempty,min=2"`
	LastName   string  `json:"lastName" validate:"required,min=2"`
	ContactNo  string  `json:"contactNo" validate:"required,contactno"`
}

// UpdateStaffRequest patches a faculty or admin profile and, optionally, the
// account credentials.
type UpdateStaffRequest struct {
	Email      *string `json:"email" validate:"omitempty,email"`
	Password   *string `json:"password" validate:"omitempty,min=6,max=72"`
	FirstName  *string `json:"firstName" validate:"omitempty,min=2"`
	MiddleName *string `json:"middleName" validate:"omitempty,min=2"`
	LastName   *string `json:"lastName" validate:"omitempty,min=2"`
	ContactNo  *string `json:"contactNo" validate:"omitempty,contactno"`
}

// CourseRequest creates or replaces a course.
type CourseRequest struct {
	CourseName string `json:"courseName" validate:"required,min=2"`
	Department string `json:"department" validate:"required,min=2"`
}

// CourseSubjectRequest maps a subject to a course.
type CourseSubjectRequest struct {
	SubjectCode string `json:"subjectCode" validate:"required"`
}

// SubjectRequest creates a subject.
type SubjectRequest struct {
	Code        string  `json:"subjectCode" validate:"required,max=20"`
	Name        string  `json:"subjectName" validate:"required,min=2"`
	Description *string `json:"description"`
	Units       int     `json:"units" validate:"required,min=1,max=10"`
}

// UpdateSubjectRequest replaces the descriptive fields of a subject.
type UpdateSubjectRequest struct {
	Name        string  `json:"subjectName" validate:"required,min=2"`
	Description *string `json:"description"`
	Units       int     `json:"units" validate:"required,min=1,max=10"`
}

// TermRequest creates or replaces a term.
type TermRequest struct {
	AcademicYear string   `json:"academicYear" validate:"required,min=4,max=20"`
	Semester     Semester `json:"semester" validate:"required,oneof=First Second"`
}

// SubjectFacultyRequest assigns a faculty member to a subject.
type SubjectFacultyRequest struct {
	SubjectCode string `json:"subjectCode" validate:"required"`
	FacultyID   string `json:"facultyId" validate:"required,uuid"`
}

// EnrollmentStatusRequest changes the lifecycle status of an enrollment.
type EnrollmentStatusRequest struct {
	Status EnrollmentStatus `json:"status" validate:"required,oneof=enrolled dropped completed"`
}

// GradeRequest records a grade between 0 and 100.
type GradeRequest struct {
	Grade *float64 `json:"grade" validate:"required,gte=0,lte=100"`
}

// FacultySelfUpdateRequest is what a faculty member may change about themselves.
type FacultySelfUpdateRequest struct {
	FirstName  *string `json:"firstName" validate:"omitempty,min=2"`
	MiddleName *string `json:"middleName" validate:"omitempty,min=2"`
	LastName   *string `json:"lastName" validate:"omitempty,min=2"`
	ContactNo  *string `json:"contactNo" validate:"omitempty,contactno"`
}
