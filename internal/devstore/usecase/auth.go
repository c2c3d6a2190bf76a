package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stepski011/DevStore/internal/devstore/entity"
	"github.com/stepski011/DevStore/internal/devstore/store"
	"github.com/stepski011/DevStore/internal/pkg/pkgerror"
	"github.com/stepski011/DevStore/internal/pkg/pkghash"
	"github.com/stepski011/DevStore/internal/pkg/pkghook"
	"github.com/stepski011/DevStore/internal/pkg/pkgmail"
)

const resetTokenTTL = 10 * time.Minute

// Register creates a user or publisher account and signs it in.
func (u *Usecase) Register(ctx context.Context, in UserInput) (AuthResult, error) {
	if in.Role != nil && *in.Role == entity.RoleAdmin {
		return AuthResult{}, pkgerror.NewValidation(pkgerror.FieldViolation{
			Field:   "role",
			Message: "Role must be user or publisher",
		})
	}

	user := &entity.User{
		ID:        u.id.Generate(),
		Role:      entity.RoleUser,
		CreatedAt: u.clock.Now().UTC(),
	}
	in.apply(user)

	err := u.lifecycle.Save(ctx, user, pkghook.Create, func(ctx context.Context) error {
		return u.users.Insert(ctx, user)
	})
	if err != nil {
		return AuthResult{}, err
	}
	return u.signIn(user)
}

func (u *Usecase) Login(ctx context.Context, email, password string) (AuthResult, error) {
	if email == "" || password == "" {
		return AuthResult{}, pkgerror.NewBusiness("Please provide an email and password", pkgerror.CodeInvalidInput)
	}

	user, err := u.users.FindOne(ctx, store.Eq("email", strings.ToLower(email)))
	if errors.Is(err, pkgerror.ErrNotFound) {
		return AuthResult{}, notAuthorized("Invalid credentials")
	}
	if err != nil {
		return AuthResult{}, err
	}

	ok, err := u.passwords.Compare(user.Password, password)
	if err != nil {
		return AuthResult{}, err
	}
	if !ok {
		return AuthResult{}, notAuthorized("Invalid credentials")
	}
	return u.signIn(user)
}

// Authenticate resolves a bearer token to its user.
func (u *Usecase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, notAuthorized("Not authorized to access this route")
	}

	id, err := u.tokens.Parse(token)
	if err != nil {
		return nil, notAuthorized("Not authorized to access this route")
	}

	user, err := u.users.Get(ctx, id)
	if errors.Is(err, pkgerror.ErrNotFound) || errors.Is(err, pkgerror.ErrIdentifierFormat) {
		return nil, notAuthorized("Not authorized to access this route")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (u *Usecase) Me(ctx context.Context, actor Actor) (*entity.User, error) {
	return getOrNotFound(ctx, u.users, actor.ID, "No user with id of %s")
}

// UpdateDetails changes the caller's name and email only.
func (u *Usecase) UpdateDetails(ctx context.Context, actor Actor, in UserInput) (*entity.User, error) {
	user, err := getOrNotFound(ctx, u.users, actor.ID, "No user with id of %s")
	if err != nil {
		return nil, err
	}

	UserInput{Name: in.Name, Email: in.Email}.apply(user)
	err = u.lifecycle.Save(ctx, user, pkghook.Update, func(ctx context.Context) error {
		return u.users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (u *Usecase) UpdatePassword(ctx context.Context, actor Actor, current, next string) (AuthResult, error) {
	user, err := getOrNotFound(ctx, u.users, actor.ID, "No user with id of %s")
	if err != nil {
		return AuthResult{}, err
	}

	ok, err := u.passwords.Compare(user.Password, current)
	if err != nil {
		return AuthResult{}, err
	}
	if !ok {
		return AuthResult{}, notAuthorized("Password is incorrect")
	}

	user.SetPassword(next)
	err = u.lifecycle.Save(ctx, user, pkghook.Update, func(ctx context.Context) error {
		return u.users.Update(ctx, user)
	})
	if err != nil {
		return AuthResult{}, err
	}
	return u.signIn(user)
}

// ForgotPassword stores a short-lived reset token for email and mails the
// reset link built from resetURL and the plain token.
func (u *Usecase) ForgotPassword(ctx context.Context, email, resetURL string) error {
	user, err := u.users.FindOne(ctx, store.Eq("email", strings.ToLower(email)))
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewBusiness("There is no user with that email", pkgerror.CodeNotFound)
	}
	if err != nil {
		return err
	}

	plain, digest, err := pkghash.Token(20)
	if err != nil {
		return pkgerror.NewServer(err)
	}

	expire := u.clock.Now().UTC().Add(resetTokenTTL)
	user.ResetPasswordToken = digest
	user.ResetPasswordExpire = &expire
	if err := u.users.Update(ctx, user); err != nil {
		return err
	}

	link := strings.TrimSuffix(resetURL, "/") + "/" + plain
	msg := pkgmail.Message{
		To:      user.Email,
		Subject: "Password reset token",
		Text: fmt.Sprintf("You are receiving this email because you (or someone else) has requested "+
			"the reset of a password. Please make a PUT request to: \n\n %s", link),
	}
	if err := u.mailer.Send(ctx, msg); err != nil {
		user.ResetPasswordToken = ""
		user.ResetPasswordExpire = nil
		if uerr := u.users.Update(ctx, user); uerr != nil {
			return errors.Join(err, uerr)
		}
		return pkgerror.NewExternal(err, "Email could not be sent")
	}
	return nil
}

// ResetPassword sets a new password for the holder of a valid reset token.
func (u *Usecase) ResetPassword(ctx context.Context, token, password string) (AuthResult, error) {
	invalid := pkgerror.NewBusiness("Invalid token", pkgerror.CodeInvalidInput)
	if token == "" {
		return AuthResult{}, invalid
	}

	user, err := u.users.FindOne(ctx, store.Eq("resetPasswordToken", pkghash.Digest(token)))
	if errors.Is(err, pkgerror.ErrNotFound) {
		return AuthResult{}, invalid
	}
	if err != nil {
		return AuthResult{}, err
	}
	if user.ResetPasswordExpire == nil || !u.clock.Now().Before(*user.ResetPasswordExpire) {
		return AuthResult{}, invalid
	}

	user.SetPassword(password)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpire = nil
	err = u.lifecycle.Save(ctx, user, pkghook.Update, func(ctx context.Context) error {
		return u.users.Update(ctx, user)
	})
	if err != nil {
		return AuthResult{}, err
	}
	return u.signIn(user)
}

func (u *Usecase) signIn(user *entity.User) (AuthResult, error) {
	token, err := u.tokens.Sign(user.ID)
	if err != nil {
		return AuthResult{}, pkgerror.NewServer(err)
	}
	return AuthResult{Token: token, User: user}, nil
}

func (in UserInput) apply(user *entity.User) {
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Password != nil {
		user.SetPassword(*in.Password)
	}
}
