package inbound

import (
	"context"
	"time"

	"github.com/stepski011/DevStore/internal/devstore/entity"
	"github.com/stepski011/DevStore/internal/devstore/usecase"
	"github.com/stepski011/DevStore/internal/pkg/pkgrouter"
)

type uc interface {
	ListBootcamps(ctx context.Context, lq usecase.ListQuery) (usecase.ListResult[usecase.BootcampDetail], error)
	GetBootcamp(ctx context.Context, id string) (usecase.BootcampDetail, error)
	CreateBootcamp(ctx context.Context, actor usecase.Actor, in usecase.BootcampInput) (*entity.Bootcamp, error)
	UpdateBootcamp(ctx context.Context, actor usecase.Actor, id string, in usecase.BootcampInput) (*entity.Bootcamp, error)
	DeleteBootcamp(ctx context.Context, actor usecase.Actor, id string) error
	UploadBootcampPhoto(ctx context.Context, actor usecase.Actor, id string, file *usecase.Upload) (string, error)
	BootcampsInRadius(ctx context.Context, zipcode string, distance float64) ([]*entity.Bootcamp, error)

	ListCourses(ctx context.Context, bootcampID string, lq usecase.ListQuery) (usecase.ListResult[usecase.CourseDetail], error)
	GetCourse(ctx context.Context, id string) (usecase.CourseDetail, error)
	AddCourse(ctx context.Context, actor usecase.Actor, bootcampID string, in usecase.CourseInput) (*entity.Course, error)
	UpdateCourse(ctx context.Context, actor usecase.Actor, id string, in usecase.CourseInput) (*entity.Course, error)
	DeleteCourse(ctx context.Context, actor usecase.Actor, id string) error

	ListReviews(ctx context.Context, bootcampID string, lq usecase.ListQuery) (usecase.ListResult[usecase.ReviewDetail], error)
	GetReview(ctx context.Context, id string) (usecase.ReviewDetail, error)
	AddReview(ctx context.Context, actor usecase.Actor, bootcampID string, in usecase.ReviewInput) (*entity.Review, error)
	UpdateReview(ctx context.Context, actor usecase.Actor, id string, in usecase.ReviewInput) (*entity.Review, error)
	DeleteReview(ctx context.Context, actor usecase.Actor, id string) error

	Register(ctx context.Context, in usecase.UserInput) (usecase.AuthResult, error)
	Login(ctx context.Context, email, password string) (usecase.AuthResult, error)
	Authenticate(ctx context.Context, token string) (*entity.User, error)
	Me(ctx context.Context, actor usecase.Actor) (*entity.User, error)
	UpdateDetails(ctx context.Context, actor usecase.Actor, in usecase.UserInput) (*entity.User, error)
	UpdatePassword(ctx context.Context, actor usecase.Actor, current, next string) (usecase.AuthResult, error)
	ForgotPassword(ctx context.Context, email, resetURL string) error
	ResetPassword(ctx context.Context, token, password string) (usecase.AuthResult, error)

	ListUsers(ctx context.Context, lq usecase.ListQuery) (usecase.ListResult[*entity.User], error)
	GetUser(ctx context.Context, id string) (*entity.User, error)
	CreateUser(ctx context.Context, in usecase.UserInput) (*entity.User, error)
	UpdateUser(ctx context.Context, id string, in usecase.UserInput) (*entity.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Config tunes the auth cookie handed out next to bearer tokens.
type Config struct {
	CookieTTL    time.Duration
	SecureCookie bool
}

const prefix = "/api/v1"

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, cfg Config) {
	end := &HTTPEndpoint{uc: uc, cfg: cfg, now: time.Now}

	protect := end.protect
	publishers := authorize(entity.RolePublisher, entity.RoleAdmin)
	reviewers := authorize(entity.RoleUser, entity.RoleAdmin)
	admins := authorize(entity.RoleAdmin)

	r.GET(prefix+"/bootcamps", end.ListBootcamps)
	r.POST(prefix+"/bootcamps", end.CreateBootcamp, protect, publishers)
	r.GET(prefix+"/bootcamps/:id", end.GetBootcamp)
	r.PUT(prefix+"/bootcamps/:id", end.UpdateBootcamp, protect, publishers)
	r.DELETE(prefix+"/bootcamps/:id", end.DeleteBootcamp, protect, publishers)
	r.PUT(prefix+"/bootcamps/:id/photo", end.UploadBootcampPhoto, protect, publishers)
	r.GET(prefix+"/radius/:zipcode/:distance", end.BootcampsInRadius)

	r.GET(prefix+"/bootcamps/:id/courses", end.ListCourses)
	r.POST(prefix+"/bootcamps/:id/courses", end.AddCourse, protect, publishers)
	r.GET(prefix+"/courses", end.ListCourses)
	r.GET(prefix+"/courses/:id", end.GetCourse)
	r.PUT(prefix+"/courses/:id", end.UpdateCourse, protect, publishers)
	r.DELETE(prefix+"/courses/:id", end.DeleteCourse, protect, publishers)

	r.GET(prefix+"/bootcamps/:id/reviews", end.ListReviews)
	r.POST(prefix+"/bootcamps/:id/reviews", end.AddReview, protect, reviewers)
	r.GET(prefix+"/reviews", end.ListReviews)
	r.GET(prefix+"/reviews/:id", end.GetReview)
	r.PUT(prefix+"/reviews/:id", end.UpdateReview, protect, reviewers)
	r.DELETE(prefix+"/reviews/:id", end.DeleteReview, protect, reviewers)

	r.POST(prefix+"/auth/register", end.Register)
	r.POST(prefix+"/auth/login", end.Login)
	r.GET(prefix+"/auth/logout", end.Logout)
	r.GET(prefix+"/auth/me", end.Me, protect)
	r.PUT(prefix+"/auth/updatedetails", end.UpdateDetails, protect)
	r.PUT(prefix+"/auth/updatepassword", end.UpdatePassword, protect)
	r.POST(prefix+"/auth/forgotpassword", end.ForgotPassword)
	r.PUT(prefix+"/auth/resetpassword/:resettoken", end.ResetPassword)

	r.GET(prefix+"/users", end.ListUsers, protect, admins)
	r.POST(prefix+"/users", end.CreateUser, protect, admins)
	r.GET(prefix+"/users/:id", end.GetUser, protect, admins)
	r.PUT(prefix+"/users/:id", end.UpdateUser, protect, admins)
	r.DELETE(prefix+"/users/:id", end.DeleteUser, protect, admins)
}
