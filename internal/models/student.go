package models

import "time"

// Sex values accepted for students.
const (
	SexMale   = "male"
	SexFemale = "female"
)

// CivilStatuses lists the accepted civil status values.
var CivilStatuses = []string{"single", "married", "widowed", "separated", "annulled", "divorced"}

// Student is the profile of a student account. Admitted gates portal access,
// class list visibility and grading.
type Student struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"userId"`
	CourseID     string    `db:"course_id" json:"courseId"`
	FirstName    string    `db:"first_name" json:"firstName"`
	MiddleName   *string   `db:"middle_name" json:"middleName,omitempty"`
	LastName     string    `db:"last_name" json:"lastName"`
	Address      string    `db:"address" json:"address"`
	DateEnrolled time.Time `db:"date_enrolled" json:"dateEnrolled"`
	Sex          string    `db:"sex" json:"sex"`
	PlaceOfBirth string    `db:"place_of_birth" json:"placeOfBirth"`
	Nationality  string    `db:"nationality" json:"nationality"`
	Religion     string    `db:"religion" json:"religion"`
	ContactNo    string    `db:"contact_no" json:"contactNo"`
	CivilStatus  string    `db:"civil_status" json:"civilStatus"`
	Admitted     bool      `db:"admitted" json:"admitted"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// FullName renders the display name.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentDetail joins the student with account and course data.
type StudentDetail struct {
	Student
	Username   string `db:"username" json:"username"`
	Email      string `db:"email" json:"email"`
	CourseName string `db:"course_name" json:"courseName"`
}

// StudentFilter narrows admin student listings.
type StudentFilter struct {
	ListFilter
	CourseID string
	Admitted *bool
}
