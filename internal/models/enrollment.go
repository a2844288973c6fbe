package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentStatusDropped   EnrollmentStatus = "dropped"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
)

// Enrollment places a student in a subject, taught by the assigned faculty,
// for one term.
type Enrollment struct {
	ID          string           `db:"id" json:"id"`
	StudentID   string           `db:"student_id" json:"studentId"`
	SubjectCode string           `db:"subject_code" json:"subjectCode"`
	FacultyID   string           `db:"faculty_id" json:"facultyId"`
	TermID      string           `db:"term_id" json:"termId"`
	Status      EnrollmentStatus `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updatedAt"`
}

// EnrollmentDetail enriches Enrollment with subject, student, faculty, term
// and grade data.
type EnrollmentDetail struct {
	Enrollment
	SubjectName      string   `db:"subject_name" json:"subjectName"`
	Units            int      `db:"units" json:"units"`
	StudentFirstName string   `db:"student_first_name" json:"studentFirstName"`
	StudentLastName  string   `db:"student_last_name" json:"studentLastName"`
	StudentAdmitted  bool     `db:"student_admitted" json:"-"`
	CourseName       string   `db:"course_name" json:"courseName"`
	FacultyFirstName string   `db:"faculty_first_name" json:"facultyFirstName"`
	FacultyLastName  string   `db:"faculty_last_name" json:"facultyLastName"`
	AcademicYear     string   `db:"academic_year" json:"academicYear"`
	Semester         Semester `db:"semester" json:"semester"`
	Grade            *float64 `db:"grade" json:"grade"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	ListFilter
	StudentID    string
	FacultyID    string
	SubjectCode  string
	TermID       string
	Status       EnrollmentStatus
	AdmittedOnly bool
	GradedOnly   bool
}

// Grade is the single mark recorded against an enrollment.
type Grade struct {
	ID           string    `db:"id" json:"id"`
	EnrollmentID string    `db:"enrollment_id" json:"enrollmentId"`
	Grade        float64   `db:"grade" json:"grade"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
