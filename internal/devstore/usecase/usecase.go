package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stepski011/DevStore/internal/devstore/entity"
	"github.com/stepski011/DevStore/internal/devstore/store"
	"github.com/stepski011/DevStore/internal/pkg/pkgblob"
	"github.com/stepski011/DevStore/internal/pkg/pkgerror"
	"github.com/stepski011/DevStore/internal/pkg/pkggeo"
	"github.com/stepski011/DevStore/internal/pkg/pkghook"
	"github.com/stepski011/DevStore/internal/pkg/pkgmail"
	"github.com/stepski011/DevStore/internal/pkg/pkgroutine"
	"github.com/stepski011/DevStore/internal/pkg/pkguid"
)

// Lifecycle drives documents through their hooks around persistence.
type Lifecycle interface {
	Save(ctx context.Context, e pkghook.Entity, mode pkghook.Mode, persist pkghook.Persist) error
	Delete(ctx context.Context, e pkghook.Entity, remove pkghook.Persist) error
}

type TokenSigner interface {
	Sign(subject string) (string, error)
	Parse(token string) (string, error)
}

type PasswordComparer interface {
	Compare(hashed, plain string) (bool, error)
}

type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error)
	Wait() error
}

type Clock interface {
	Now() time.Time
}

// Locker serializes writes to one bootcamp with the aggregate recompute.
type Locker interface {
	Lock(key string) (unlock func())
}

type UploadConfig struct {
	MaxSize int64
}

type Dependency struct {
	Bootcamps store.Collection[entity.Bootcamp]
	Courses   store.Collection[entity.Course]
	Reviews   store.Collection[entity.Review]
	Users     store.Collection[entity.User]

	Lifecycle Lifecycle
	Geocoder  pkggeo.Geocoder
	Blob      pkgblob.Storage
	Mailer    pkgmail.Mailer
	Tokens    TokenSigner
	Passwords PasswordComparer
	Clock     Clock
	Locks     Locker
	ID        pkguid.StringID
	Upload    UploadConfig
}

type Usecase struct {
	bootcamps store.Collection[entity.Bootcamp]
	courses   store.Collection[entity.Course]
	reviews   store.Collection[entity.Review]
	users     store.Collection[entity.User]

	lifecycle Lifecycle
	geocoder  pkggeo.Geocoder
	blob      pkgblob.Storage
	mailer    pkgmail.Mailer
	tokens    TokenSigner
	passwords PasswordComparer
	clock     Clock
	locks     Locker
	id        pkguid.StringID
	upload    UploadConfig
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	id := dep.ID
	if id == nil {
		id = pkguid.NewUUID()
	}

	var locks Locker = dep.Locks
	if locks == nil {
		locks = pkgroutine.NewKeyedMutex()
	}

	return &Usecase{
		bootcamps: dep.Bootcamps,
		courses:   dep.Courses,
		reviews:   dep.Reviews,
		users:     dep.Users,
		lifecycle: dep.Lifecycle,
		geocoder:  dep.Geocoder,
		blob:      dep.Blob,
		mailer:    dep.Mailer,
		tokens:    dep.Tokens,
		passwords: dep.Passwords,
		clock:     clock,
		locks:     locks,
		id:        id,
		upload:    dep.Upload,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role entity.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// owns reports whether a may modify a document owned by owner.
func (a Actor) owns(owner string) bool {
	return a.IsAdmin() || a.ID == owner
}

// getOrNotFound loads id from c, turning a miss into a 404 with msg. Malformed
// ids pass through untouched.
func getOrNotFound[T store.Document](ctx context.Context, c store.Collection[T], id, msg string) (*T, error) {
	doc, err := c.Get(ctx, id)
	if errors.Is(err, pkgerror.ErrNotFound) {
		return nil, pkgerror.NewBusiness(fmt.Sprintf(msg, id), pkgerror.CodeNotFound)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func notAuthorized(format string, args ...any) error {
	return pkgerror.NewBusiness(fmt.Sprintf(format, args...), pkgerror.CodeUnauthorized)
}
