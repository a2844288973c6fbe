package models

import "time"

// Admin is the profile of an administrator account.
type Admin struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"userId"`
	FirstName  string    `db:"first_name" json:"firstName"`
	MiddleName *string   `db:"middle_name" json:"middleName,omitempty"`
	LastName   string    `db:"last_name" json:"lastName"`
	ContactNo  string    `db:"contact_no" json:"contactNo"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// AdminDetail joins the admin profile with its account.
type AdminDetail struct {
	Admin
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
}

// Faculty is the profile of a teaching staff account.
type Faculty struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"userId"`
	FirstName  string    `db:"first_name" json:"firstName"`
	MiddleName *string   `db:"middle_name" json:"middleName,omitempty"`
	LastName   string    `db:"last_name" json:"lastName"`
	ContactNo  string    `db:"contact_no" json:"contactNo"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// FacultyDetail joins the faculty profile with its account.
type FacultyDetail struct {
	Faculty
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
}

// FullName renders the display name.
func (f Faculty) FullName() string {
	return f.FirstName + " " + f.LastName
}
