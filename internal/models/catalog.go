package models

import "time"

// Course is a degree program.
type Course struct {
	ID         string    `db:"id" json:"id"`
	CourseName string    `db:"course_name" json:"courseName"`
	Department string    `db:"department" json:"department"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// Subject is a catalog entry keyed by its code.
type Subject struct {
	Code        string    `db:"code" json:"subjectCode"`
	Name        string    `db:"name" json:"subjectName"`
	Description *string   `db:"description" json:"description,omitempty"`
	Units       int       `db:"units" json:"units"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// SubjectFaculty assigns one faculty member to one subject.
type SubjectFaculty struct {
	ID          string    `db:"id" json:"id"`
	SubjectCode string    `db:"subject_code" json:"subjectCode"`
	FacultyID   string    `db:"faculty_id" json:"facultyId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// SubjectFacultyDetail adds display names to an assignment.
type SubjectFacultyDetail struct {
	SubjectFaculty
	SubjectName      string `db:"subject_name" json:"subjectName"`
	FacultyFirstName string `db:"faculty_first_name" json:"facultyFirstName"`
	FacultyLastName  string `db:"faculty_last_name" json:"facultyLastName"`
}

// SubjectFacultyFilter narrows assignment listings.
type SubjectFacultyFilter struct {
	SubjectCode string
	FacultyID   string
}
