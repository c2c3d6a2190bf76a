package usecase

import (
	"context"

	"github.com/stepski011/DevStore/internal/devstore/entity"
	"github.com/stepski011/DevStore/internal/pkg/pkghook"
)

const reviewNotFound = "No review found with the id of %s"

// ListReviews lists every review, or only those of bootcampID when set.
func (u *Usecase) ListReviews(ctx context.Context, bootcampID string, lq ListQuery) (ListResult[ReviewDetail], error) {
	if bootcampID != "" {
		if _, err := getOrNotFound(ctx, u.bootcamps, bootcampID, "No bootcamp with the id of %s"); err != nil {
			return ListResult[ReviewDetail]{}, err
		}
		lq = forParent(lq, bootcampID)
	}

	items, total, err := u.reviews.Find(ctx, lq.Query)
	if err != nil {
		return ListResult[ReviewDetail]{}, err
	}

	ids := make([]string, 0, len(items))
	for _, r := range items {
		ids = append(ids, r.Bootcamp)
	}
	refs, err := u.bootcampRefs(ctx, ids)
	if err != nil {
		return ListResult[ReviewDetail]{}, err
	}

	details := make([]ReviewDetail, 0, len(items))
	for _, r := range items {
		details = append(details, ReviewDetail{Review: r, Bootcamp: refs[r.Bootcamp]})
	}
	return ListResult[ReviewDetail]{Items: details, Total: total, Pagination: paginate(lq, total)}, nil
}

func (u *Usecase) GetReview(ctx context.Context, id string) (ReviewDetail, error) {
	r, err := getOrNotFound(ctx, u.reviews, id, reviewNotFound)
	if err != nil {
		return ReviewDetail{}, err
	}

	refs, err := u.bootcampRefs(ctx, []string{r.Bootcamp})
	if err != nil {
		return ReviewDetail{}, err
	}
	return ReviewDetail{Review: r, Bootcamp: refs[r.Bootcamp]}, nil
}

// AddReview stores the actor's review of a bootcamp. A user reviews a
// bootcamp at most once.
func (u *Usecase) AddReview(ctx context.Context, actor Actor, bootcampID string, in ReviewInput) (*entity.Review, error) {
	b, err := getOrNotFound(ctx, u.bootcamps, bootcampID, "No bootcamp with the id of %s")
	if err != nil {
		return nil, err
	}

	r := &entity.Review{
		ID:        u.id.Generate(),
		CreatedAt: u.clock.Now().UTC(),
		Bootcamp:  b.ID,
		User:      actor.ID,
	}
	in.apply(r)

	err = u.lifecycle.Save(ctx, r, pkghook.Create, func(ctx context.Context) error {
		return u.reviews.Insert(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (u *Usecase) UpdateReview(ctx context.Context, actor Actor, id string, in ReviewInput) (*entity.Review, error) {
	r, err := getOrNotFound(ctx, u.reviews, id, reviewNotFound)
	if err != nil {
		return nil, err
	}
	if !actor.owns(r.User) {
		return nil, notAuthorized("Not authorized to update review")
	}

	in.apply(r)
	err = u.lifecycle.Save(ctx, r, pkghook.Update, func(ctx context.Context) error {
		return u.reviews.Update(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (u *Usecase) DeleteReview(ctx context.Context, actor Actor, id string) error {
	r, err := getOrNotFound(ctx, u.reviews, id, reviewNotFound)
	if err != nil {
		return err
	}
	if !actor.owns(r.User) {
		return notAuthorized("Not authorized to delete review")
	}

	return u.lifecycle.Delete(ctx, r, func(ctx context.Context) error {
		return u.reviews.Delete(ctx, r.ID)
	})
}

func (in ReviewInput) apply(r *entity.Review) {
	if in.Title != nil {
		r.Title = *in.Title
	}
	if in.Text != nil {
		r.Text = *in.Text
	}
	if in.Rating != nil {
		r.Rating = *in.Rating
	}
}
