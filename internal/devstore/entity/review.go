package entity

import "time"

type Review struct {
	ID        string    `json:"id"`
	Title     string    `json:"title" validate:"required,max=100"`
	Text      string    `json:"text" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=10"`
	CreatedAt time.Time `json:"createdAt"`
	Bootcamp  string    `json:"bootcamp" validate:"required"`
	User      string    `json:"user" validate:"required"`
}

func (*Review) EntityType() string { return "Review" }

func (r Review) DocID() string { return r.ID }

// UniqueFields allows one review per user per bootcamp.
func (r Review) UniqueFields() map[string]string {
	if r.Bootcamp == "" || r.User == "" {
		return nil
	}
	return map[string]string{"bootcamp_user": r.Bootcamp + "|" + r.User}
}

func (Review) ValidationMessages() map[string]string {
	return map[string]string{
		"Title.required": "Please add a title for the review",
		"Title.max":      "Title can not be more than 100 characters",
		"Text":           "Please add some text",
		"Rating":         "Please add a rating between 1 and 10",
	}
}
