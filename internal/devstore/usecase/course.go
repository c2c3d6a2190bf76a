package usecase

import (
	"context"

	"github.com/stepski011/DevStore/internal/devstore/entity"
	"github.com/stepski011/DevStore/internal/devstore/store"
	"github.com/stepski011/DevStore/internal/pkg/pkghook"
)

const courseNotFound = "No course with the id of %s"

// ListCourses lists every course, or only those of bootcampID when set.
func (u *Usecase) ListCourses(ctx context.Context, bootcampID string, lq ListQuery) (ListResult[CourseDetail], error) {
	if bootcampID != "" {
		if _, err := getOrNotFound(ctx, u.bootcamps, bootcampID, "No bootcamp with the id of %s"); err != nil {
			return ListResult[CourseDetail]{}, err
		}
		lq = forParent(lq, bootcampID)
	}

	items, total, err := u.courses.Find(ctx, lq.Query)
	if err != nil {
		return ListResult[CourseDetail]{}, err
	}

	ids := make([]string, 0, len(items))
	for _, c := range items {
		ids = append(ids, c.Bootcamp)
	}
	refs, err := u.bootcampRefs(ctx, ids)
	if err != nil {
		return ListResult[CourseDetail]{}, err
	}

	details := make([]CourseDetail, 0, len(items))
	for _, c := range items {
		details = append(details, CourseDetail{Course: c, Bootcamp: refs[c.Bootcamp]})
	}
	return ListResult[CourseDetail]{Items: details, Total: total, Pagination: paginate(lq, total)}, nil
}

func (u *Usecase) GetCourse(ctx context.Context, id string) (CourseDetail, error) {
	c, err := getOrNotFound(ctx, u.courses, id, courseNotFound)
	if err != nil {
		return CourseDetail{}, err
	}

	refs, err := u.bootcampRefs(ctx, []string{c.Bootcamp})
	if err != nil {
		return CourseDetail{}, err
	}
	return CourseDetail{Course: c, Bootcamp: refs[c.Bootcamp]}, nil
}

func (u *Usecase) AddCourse(ctx context.Context, actor Actor, bootcampID string, in CourseInput) (*entity.Course, error) {
	b, err := getOrNotFound(ctx, u.bootcamps, bootcampID, "No bootcamp with the id of %s")
	if err != nil {
		return nil, err
	}
	if !actor.owns(b.User) {
		return nil, notAuthorized("User %s is not authorized to add a course to bootcamp %s", actor.ID, b.ID)
	}

	c := &entity.Course{
		ID:        u.id.Generate(),
		CreatedAt: u.clock.Now().UTC(),
		Bootcamp:  b.ID,
		User:      actor.ID,
	}
	in.apply(c)

	err = u.lifecycle.Save(ctx, c, pkghook.Create, func(ctx context.Context) error {
		return u.courses.Insert(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (u *Usecase) UpdateCourse(ctx context.Context, actor Actor, id string, in CourseInput) (*entity.Course, error) {
	c, err := getOrNotFound(ctx, u.courses, id, courseNotFound)
	if err != nil {
		return nil, err
	}
	if !actor.owns(c.User) {
		return nil, notAuthorized("User %s is not authorized to update course %s", actor.ID, c.ID)
	}

	in.apply(c)
	err = u.lifecycle.Save(ctx, c, pkghook.Update, func(ctx context.Context) error {
		return u.courses.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (u *Usecase) DeleteCourse(ctx context.Context, actor Actor, id string) error {
	c, err := getOrNotFound(ctx, u.courses, id, courseNotFound)
	if err != nil {
		return err
	}
	if !actor.owns(c.User) {
		return notAuthorized("User %s is not authorized to delete course %s", actor.ID, c.ID)
	}

	return u.lifecycle.Delete(ctx, c, func(ctx context.Context) error {
		return u.courses.Delete(ctx, c.ID)
	})
}

// forParent narrows lq to the children of parentID and drops paging, as the
// nested listings return every child at once.
func forParent(lq ListQuery, parentID string) ListQuery {
	lq.Query.Conditions = append(lq.Query.Conditions, store.Condition{Field: "bootcamp", Op: store.OpEq, Values: []string{parentID}})
	lq.Query.Offset, lq.Query.Limit = 0, 0
	lq.Page, lq.Limit = 1, 0
	return lq
}

func (in CourseInput) apply(c *entity.Course) {
	if in.Title != nil {
		c.Title = *in.Title
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Weeks != nil {
		c.Weeks = *in.Weeks
	}
	if in.Tuition != nil {
		c.Tuition = *in.Tuition
	}
	if in.MinimumSkill != nil {
		c.MinimumSkill = *in.MinimumSkill
	}
	if in.ScholarshipAvailable != nil {
		c.ScholarshipAvailable = *in.ScholarshipAvailable
	}
}
