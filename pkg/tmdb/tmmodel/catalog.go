package tmmodel

import "time"

// Term, Course and Section are imported from the course catalog and are read-only
// as far as team matching is concerned.

type Term struct {
	ID        string     `json:"id" gorm:"primaryKey;size:32"`
	Name      string     `json:"name" gorm:"size:64"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

type Course struct {
	ID       string    `json:"id" gorm:"primaryKey;size:64"`
	TermID   string    `json:"term_id" gorm:"size:32;index"`
	Subject  string    `json:"subject" gorm:"size:16"`
	Number   string    `json:"number" gorm:"size:16"`
	Title    string    `json:"title" gorm:"size:255"`
	Credits  float64   `json:"credits"`
	Sections []Section `json:"sections,omitempty" gorm:"foreignKey:CourseID"`
}

type Section struct {
	CRN          string `json:"crn" gorm:"primaryKey;column:crn;size:16"`
	CourseID     string `json:"course_id" gorm:"size:64;index"`
	Instructor   string `json:"instructor,omitempty" gorm:"size:128"`
	MeetingTime  string `json:"meeting_time,omitempty" gorm:"size:128"`
	Location     string `json:"location,omitempty" gorm:"size:128"`
	DeliveryMode string `json:"delivery_mode,omitempty" gorm:"size:32"`
}

type Skill struct {
	ID   int    `json:"id"`
	Name string `json:"name" gorm:"size:64"`
	Slug string `json:"slug" gorm:"size:64;uniqueIndex"`
}
