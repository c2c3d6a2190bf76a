package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/stepski011/DevStore/internal/devstore/usecase"
	"github.com/stepski011/DevStore/internal/pkg/pkgerror"
	"github.com/stepski011/DevStore/internal/pkg/pkgrouter"
)

const maxMultipartMemory = 10 << 20

type HTTPEndpoint struct {
	uc  uc
	cfg Config
	now func() time.Time
}

func (h *HTTPEndpoint) ListBootcamps(ctx context.Context, r *http.Request) (any, error) {
	lq, err := usecase.ParseListQuery(r.URL.Query())
	if err != nil {
		return nil, err
	}

	res, err := h.uc.ListBootcamps(ctx, lq)
	if err != nil {
		return nil, err
	}

	items := make([]Bootcamp, 0, len(res.Items))
	for _, d := range res.Items {
		items = append(items, toBootcamp(d))
	}
	return listOf(items, lq, res.Pagination)
}

func (h *HTTPEndpoint) GetBootcamp(ctx context.Context, r *http.Request) (any, error) {
	d, err := h.uc.GetBootcamp(ctx, pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}
	return toBootcamp(d), nil
}

func (h *HTTPEndpoint) CreateBootcamp(ctx context.Context, r *http.Request) (any, error) {
	var in usecase.BootcampInput
	if err := decode(r, &in); err != nil {
		return nil, err
	}

	b, err := h.uc.CreateBootcamp(ctx, actorFrom(ctx), in)
	if err != nil {
		return nil, err
	}
	return CreatedResponse{data: b}, nil
}

func (h *HTTPEndpoint) UpdateBootcamp(ctx context.Context, r *http.Request) (any, error) {
	var in usecase.BootcampInput
	if err := decode(r, &in); err != nil {
		return nil, err
	}
	return h.uc.UpdateBootcamp(ctx, actorFrom(ctx), pkgrouter.GetParam(ctx, "id"), in)
}

func (h *HTTPEndpoint) DeleteBootcamp(ctx context.Context, r *http.Request) (any, error) {
	if err := h.uc.DeleteBootcamp(ctx, actorFrom(ctx), pkgrouter.GetParam(ctx, "id")); err != nil {
		return nil, err
	}
	return Empty{}, nil
}

func (h *HTTPEndpoint) UploadBootcampPhoto(ctx context.Context, r *http.Request) (any, error) {
	file, cleanup, err := extractUpload(r)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	name, err := h.uc.UploadBootcampPhoto(ctx, actorFrom(ctx), pkgrouter.GetParam(ctx, "id"), file)
	if err != nil {
		return nil, err
	}
	return name, nil
}

func (h *HTTPEndpoint) BootcampsInRadius(ctx context.Context, r *http.Request) (any, error) {
	distance, err := strconv.ParseFloat(pkgrouter.GetParam(ctx, "distance"), 64)
	if err != nil {
		return nil, pkgerror.NewInvalidInput(errors.New("distance must be a number"))
	}

	items, err := h.uc.BootcampsInRadius(ctx, pkgrouter.GetParam(ctx, "zipcode"), distance)
	if err != nil {
		return nil, err
	}
	return ListResponse{items: items, count: len(items)}, nil
}

func (h *HTTPEndpoint) ListCourses(ctx context.Context, r *http.Request) (any, error) {
	lq, err := usecase.ParseListQuery(r.URL.Query())
	if err != nil {
		return nil, err
	}

	bootcampID := pkgrouter.GetParam(ctx, "id")
	res, err := h.uc.ListCourses(ctx, bootcampID, lq)
	if err != nil {
		return nil, err
	}

	items := make([]Course, 0, len(res.Items))
	for _, d := range res.Items {
		items = append(items, toCourse(d))
	}
	if bootcampID != "" {
		return ListResponse{items: items, count: len(items)}, nil
	}
	return listOf(items, lq, res.Pagination)
}

func (h *HTTPEndpoint) GetCourse(ctx context.Context, r *http.Request) (any, error) {
	d, err := h.uc.GetCourse(ctx, pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}
	return toCourse(d), nil
}

func (h *HTTPEndpoint) AddCourse(ctx context.Context, r *http.Request) (any, error) {
	var in usecase.CourseInput
	if err := decode(r, &in); err != nil {
		return nil, err
	}

	c, err := h.uc.AddCourse(ctx, actorFrom(ctx), pkgrouter.GetParam(ctx, "id"), in)
	if err != nil {
		return nil, err
	}
	return CreatedResponse{data: c}, nil
}

func (h *HTTPEndpoint) UpdateCourse(ctx context.Context, r *http.Request) (any, error) {
	var in usecase.CourseInput
	if err := decode(r, &in); err != nil {
		return nil, err
	}
	return h.uc.UpdateCourse(ctx, actorFrom(ctx), pkgrouter.GetParam(ctx, "id"), in)
}

func (h *HTTPEndpoint) DeleteCourse(ctx context.Context, r *http.Request) (any, error) {
	if err := h.uc.DeleteCourse(ctx, actorFrom(ctx), pkgrouter.GetParam(ctx, "id")); err != nil {
		return nil, err
	}
	return Empty{}, nil
}

func (h *HTTPEndpoint) ListReviews(ctx context.Context, r *http.Request) (any, error) {
	lq, err := usecase.ParseListQuery(r.URL.Query())
	if err != nil {
		return nil, err
	}

	bootcampID := pkgrouter.GetParam(ctx, "id")
	res, err := h.uc.ListReviews(ctx, bootcampID, lq)
	if err != nil {
		return nil, err
	}

	items := make([]Review, 0, len(res.Items))
	for _, d := range res.Items {
		items = append(items, toReview(d))
	}
	if bootcampID != "" {
		return ListResponse{items: items, count: len(items)}, nil
	}
	return listOf(items, lq, res.Pagination)
}

func (h *HTTPEndpoint) GetReview(ctx context.Context, r *http.Request) (any, error) {
	d, err := h.uc.GetReview(ctx, pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}
	return toReview(d), nil
}

func (h *HTTPEndpoint) AddReview(ctx context.Context, r *http.Request) (any, error) {
	var in usecase.ReviewInput
	if err := decode(r, &in); err != nil {
		return nil, err
	}

	rv, err := h.uc.AddReview(ctx, actorFrom(ctx), pkgrouter.GetParam(ctx, "id"), in)
	if err != nil {
		return nil, err
	}
	return CreatedResponse{data: rv}, nil
}

func (h *HTTPEndpoint) UpdateReview(ctx context.Context, r *http.Request) (any, error) {
	var in usecase.ReviewInput
	if err := decode(r, &in); err != nil {
		return nil, err
	}
	return h.uc.UpdateReview(ctx, actorFrom(ctx), pkgrouter.GetParam(ctx, "id"), in)
}

func (h *HTTPEndpoint) DeleteReview(ctx context.Context, r *http.Request) (any, error) {
	if err := h.uc.DeleteReview(ctx, actorFrom(ctx), pkgrouter.GetParam(ctx, "id")); err != nil {
		return nil, err
	}
	return Empty{}, nil
}

func (h *HTTPEndpoint) Register(ctx context.Context, r *http.Request) (any, error) {
	var in usecase.UserInput
	if err := decode(r, &in); err != nil {
		return nil, err
	}

	res, err := h.uc.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	return h.tokenResponse(res), nil
}

func (h *HTTPEndpoint) Login(ctx context.Context, r *http.Request) (any, error) {
	var in loginRequest
	if err := decode(r, &in); err != nil {
		return nil, err
	}

	res, err := h.uc.Login(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	return h.tokenResponse(res), nil
}

func (h *HTTPEndpoint) Logout(ctx context.Context, r *http.Request) (any, error) {
	return CookieResponse{
		data: Empty{},
		cookies: []*http.Cookie{{
			Name:     cookieName,
			Value:    "none",
			Path:     "/",
			Expires:  h.now().Add(10 * time.Second),
			HttpOnly: true,
		}},
	}, nil
}

func (h *HTTPEndpoint) Me(ctx context.Context, r *http.Request) (any, error) {
	u, err := h.uc.Me(ctx, actorFrom(ctx))
	if err != nil {
		return nil, err
	}
	return toUser(u), nil
}

func (h *HTTPEndpoint) UpdateDetails(ctx context.Context, r *http.Request) (any, error) {
	var in usecase.UserInput
	if err := decode(r, &in); err != nil {
		return nil, err
	}

	u, err := h.uc.UpdateDetails(ctx, actorFrom(ctx), in)
	if err != nil {
		return nil, err
	}
	return toUser(u), nil
}

func (h *HTTPEndpoint) UpdatePassword(ctx context.Context, r *http.Request) (any, error) {
	var in updatePasswordRequest
	if err := decode(r, &in); err != nil {
		return nil, err
	}

	res, err := h.uc.UpdatePassword(ctx, actorFrom(ctx), in.CurrentPassword, in.NewPassword)
	if err != nil {
		return nil, err
	}
	return h.tokenResponse(res), nil
}

func (h *HTTPEndpoint) ForgotPassword(ctx context.Context, r *http.Request) (any, error) {
	var in forgotPasswordRequest
	if err := decode(r, &in); err != nil {
		return nil, err
	}

	if err := h.uc.ForgotPassword(ctx, in.Email, resetURL(r)); err != nil {
		return nil, err
	}
	return "Email sent", nil
}

func (h *HTTPEndpoint) ResetPassword(ctx context.Context, r *http.Request) (any, error) {
	var in resetPasswordRequest
	if err := decode(r, &in); err != nil {
		return nil, err
	}

	res, err := h.uc.ResetPassword(ctx, pkgrouter.GetParam(ctx, "resettoken"), in.Password)
	if err != nil {
		return nil, err
	}
	return h.tokenResponse(res), nil
}

func (h *HTTPEndpoint) ListUsers(ctx context.Context, r *http.Request) (any, error) {
	lq, err := usecase.ParseListQuery(r.URL.Query())
	if err != nil {
		return nil, err
	}

	res, err := h.uc.ListUsers(ctx, lq)
	if err != nil {
		return nil, err
	}

	items := make([]User, 0, len(res.Items))
	for _, u := range res.Items {
		items = append(items, toUser(u))
	}
	return listOf(items, lq, res.Pagination)
}

func (h *HTTPEndpoint) GetUser(ctx context.Context, r *http.Request) (any, error) {
	u, err := h.uc.GetUser(ctx, pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}
	return toUser(u), nil
}

func (h *HTTPEndpoint) CreateUser(ctx context.Context, r *http.Request) (any, error) {
	var in usecase.UserInput
	if err := decode(r, &in); err != nil {
		return nil, err
	}

	u, err := h.uc.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	return CreatedResponse{data: toUser(u)}, nil
}

func (h *HTTPEndpoint) UpdateUser(ctx context.Context, r *http.Request) (any, error) {
	var in usecase.UserInput
	if err := decode(r, &in); err != nil {
		return nil, err
	}

	u, err := h.uc.UpdateUser(ctx, pkgrouter.GetParam(ctx, "id"), in)
	if err != nil {
		return nil, err
	}
	return toUser(u), nil
}

func (h *HTTPEndpoint) DeleteUser(ctx context.Context, r *http.Request) (any, error) {
	if err := h.uc.DeleteUser(ctx, pkgrouter.GetParam(ctx, "id")); err != nil {
		return nil, err
	}
	return Empty{}, nil
}

func (h *HTTPEndpoint) tokenResponse(res usecase.AuthResult) TokenResponse {
	return TokenResponse{
		token: res.Token,
		cookie: &http.Cookie{
			Name:     cookieName,
			Value:    res.Token,
			Path:     "/",
			Expires:  h.now().Add(h.cfg.CookieTTL),
			HttpOnly: true,
			Secure:   h.cfg.SecureCookie,
		},
	}
}

func listOf[T any](items []T, lq usecase.ListQuery, p usecase.Pagination) (any, error) {
	data, err := projectAll(items, lq.Select)
	if err != nil {
		return nil, err
	}
	return ListResponse{items: data, count: len(items), pagination: &p}, nil
}

func resetURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + prefix + "/auth/resetpassword"
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return pkgerror.NewInvalidFormat()
	}
	return nil
}

// extractUpload reads the "file" part of a multipart body. A request without
// one yields a nil Upload.
func extractUpload(r *http.Request) (*usecase.Upload, func(), error) {
	noop := func() {}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, pkgerror.NewInvalidFormat()
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, pkgerror.NewInvalidFormat()
	}

	return &usecase.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, func() { _ = file.Close() }, nil
}
