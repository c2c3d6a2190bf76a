package entity

import "time"

type Course struct {
	ID                   string       `json:"id"`
	Title                string       `json:"title" validate:"required"`
	Description          string       `json:"description" validate:"required"`
	Weeks                string       `json:"weeks" validate:"required"`
	Tuition              float64      `json:"tuition" validate:"required"`
	MinimumSkill         MinimumSkill `json:"minimumSkill" validate:"required,enum"`
	ScholarshipAvailable bool         `json:"scholarshipAvailable"`
	CreatedAt            time.Time    `json:"createdAt"`
	Bootcamp             string       `json:"bootcamp" validate:"required"`
	User                 string       `json:"user" validate:"required"`
}

func (*Course) EntityType() string { return "Course" }

func (c Course) DocID() string { return c.ID }

func (Course) UniqueFields() map[string]string { return nil }

func (Course) ValidationMessages() map[string]string {
	return map[string]string{
		"Title":        "Please add a course title",
		"Description":  "Please add a description",
		"Weeks":        "Please add number of weeks",
		"Tuition":      "Please add a tuition cost",
		"MinimumSkill": "Please add a minimum skill",
	}
}
