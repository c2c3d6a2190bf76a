package usecase

import (
	"io"

	"github.com/stepski011/DevStore/internal/devstore/entity"
	"github.com/stepski011/DevStore/internal/devstore/store"
)

// ListQuery is a parsed list request: filters, ordering and page window plus
// the fields the caller wants rendered.
type ListQuery struct {
	Query  store.Query
	Select []string
	Page   int
	Limit  int
}

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

type ListResult[T any] struct {
	Items      []T
	Total      int
	Pagination Pagination
}

// BootcampRef is the part of a bootcamp embedded into its children.
type BootcampRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type BootcampDetail struct {
	Bootcamp *entity.Bootcamp
	Courses  []*entity.Course
}

type CourseDetail struct {
	Course   *entity.Course
	Bootcamp *BootcampRef
}

type ReviewDetail struct {
	Review   *entity.Review
	Bootcamp *BootcampRef
}

// BootcampInput carries client-settable bootcamp fields. Nil fields are left
// unchanged on update. Derived fields are deliberately absent.
type BootcampInput struct {
	Name          *string         `json:"name"`
	Description   *string         `json:"description"`
	Website       *string         `json:"website"`
	Phone         *string         `json:"phone"`
	Email         *string         `json:"email"`
	Address       *string         `json:"address"`
	Careers       []entity.Career `json:"careers"`
	Housing       *bool           `json:"housing"`
	JobAssistance *bool           `json:"jobAssistance"`
	JobGuarantee  *bool           `json:"jobGuarantee"`
	AcceptGi      *bool           `json:"acceptGi"`
}

type CourseInput struct {
	Title                *string              `json:"title"`
	Description          *string              `json:"description"`
	Weeks                *string              `json:"weeks"`
	Tuition              *float64             `json:"tuition"`
	MinimumSkill         *entity.MinimumSkill `json:"minimumSkill"`
	ScholarshipAvailable *bool                `json:"scholarshipAvailable"`
}

type ReviewInput struct {
	Title  *string `json:"title"`
	Text   *string `json:"text"`
	Rating *int    `json:"rating"`
}

type UserInput struct {
	Name     *string      `json:"name"`
	Email    *string      `json:"email"`
	Role     *entity.Role `json:"role"`
	Password *string      `json:"password"`
}

type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AuthResult is returned by every operation that signs the caller in.
type AuthResult struct {
	Token string
	User  *entity.User
}

// Fixtures is a batch of documents imported as-is, ids included.
type Fixtures struct {
	Users     []*entity.User
	Bootcamps []*entity.Bootcamp
	Courses   []*entity.Course
	Reviews   []*entity.Review
}
