package inbound

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/stepski011/DevStore/internal/devstore/entity"
	"github.com/stepski011/DevStore/internal/devstore/usecase"
	"github.com/stepski011/DevStore/internal/pkg/pkgerror"
)

type Bootcamp struct {
	*entity.Bootcamp
	Courses []*entity.Course `json:"courses"`
}

// Course and Review shadow the stored bootcamp id with its summary.
type Course struct {
	*entity.Course
	Bootcamp *usecase.BootcampRef `json:"bootcamp"`
}

type Review struct {
	*entity.Review
	Bootcamp *usecase.BootcampRef `json:"bootcamp"`
}

// User never renders the password or the reset token.
type User struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      entity.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

func toBootcamp(d usecase.BootcampDetail) Bootcamp {
	return Bootcamp{Bootcamp: d.Bootcamp, Courses: d.Courses}
}

func toCourse(d usecase.CourseDetail) Course {
	return Course{Course: d.Course, Bootcamp: d.Bootcamp}
}

func toReview(d usecase.ReviewDetail) Review {
	return Review{Review: d.Review, Bootcamp: d.Bootcamp}
}

func toUser(u *entity.User) User {
	return User{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

// ListResponse renders {success, count, pagination, data}.
type ListResponse struct {
	items      any
	count      int
	pagination *usecase.Pagination
}

func (r ListResponse) Payload() any {
	return r.items
}

func (r ListResponse) Meta() map[string]any {
	meta := map[string]any{"count": r.count}
	if r.pagination != nil {
		meta["pagination"] = r.pagination
	}
	return meta
}

// CreatedResponse wraps a newly created document.
type CreatedResponse struct {
	data any
}

func (CreatedResponse) StatusCode() int {
	return http.StatusCreated
}

func (r CreatedResponse) Payload() any {
	return r.data
}

// TokenResponse renders {success, token} and sets the token cookie.
type TokenResponse struct {
	token  string
	cookie *http.Cookie
}

func (TokenResponse) Payload() any {
	return nil
}

func (r TokenResponse) Meta() map[string]any {
	return map[string]any{"token": r.token}
}

func (r TokenResponse) Cookies() []*http.Cookie {
	return []*http.Cookie{r.cookie}
}

// CookieResponse carries data plus cookies, as logout does.
type CookieResponse struct {
	data    any
	cookies []*http.Cookie
}

func (r CookieResponse) Payload() any {
	return r.data
}

func (r CookieResponse) Cookies() []*http.Cookie {
	return r.cookies
}

// Empty renders as {}.
type Empty struct{}

// project keeps only the selected JSON fields of v, plus its id.
func project(v any, fields []string) (any, error) {
	if len(fields) == 0 {
		return v, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, pkgerror.NewServer(err)
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, pkgerror.NewServer(err)
	}

	out := make(map[string]json.RawMessage, len(fields)+1)
	if id, ok := all["id"]; ok {
		out["id"] = id
	}
	for _, f := range fields {
		if val, ok := all[f]; ok {
			out[f] = val
		}
	}
	return out, nil
}

func projectAll[T any](items []T, fields []string) ([]any, error) {
	out := make([]any, 0, len(items))
	for _, it := range items {
		p, err := project(it, fields)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}
