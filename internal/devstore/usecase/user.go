package usecase

import (
	"context"

	"github.com/stepski011/DevStore/internal/devstore/entity"
	"github.com/stepski011/DevStore/internal/pkg/pkghook"
)

const userNotFound = "No user with id of %s"

func (u *Usecase) ListUsers(ctx context.Context, lq ListQuery) (ListResult[*entity.User], error) {
	items, total, err := u.users.Find(ctx, lq.Query)
	if err != nil {
		return ListResult[*entity.User]{}, err
	}
	return ListResult[*entity.User]{Items: items, Total: total, Pagination: paginate(lq, total)}, nil
}

func (u *Usecase) GetUser(ctx context.Context, id string) (*entity.User, error) {
	return getOrNotFound(ctx, u.users, id, userNotFound)
}

// CreateUser creates an account of any role, admin included.
func (u *Usecase) CreateUser(ctx context.Context, in UserInput) (*entity.User, error) {
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
		return nil, err
	}
	return user, nil
}

func (u *Usecase) UpdateUser(ctx context.Context, id string, in UserInput) (*entity.User, error) {
	user, err := getOrNotFound(ctx, u.users, id, userNotFound)
	if err != nil {
		return nil, err
	}

	in.apply(user)
	err = u.lifecycle.Save(ctx, user, pkghook.Update, func(ctx context.Context) error {
		return u.users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (u *Usecase) DeleteUser(ctx context.Context, id string) error {
	user, err := getOrNotFound(ctx, u.users, id, userNotFound)
	if err != nil {
		return err
	}

	return u.lifecycle.Delete(ctx, user, func(ctx context.Context) error {
		return u.users.Delete(ctx, user.ID)
	})
}
