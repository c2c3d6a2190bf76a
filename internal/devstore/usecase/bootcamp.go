package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/stepski011/DevStore/internal/devstore/entity"
	"github.com/stepski011/DevStore/internal/devstore/store"
	"github.com/stepski011/DevStore/internal/pkg/pkgerror"
	"github.com/stepski011/DevStore/internal/pkg/pkggeo"
	"github.com/stepski011/DevStore/internal/pkg/pkghook"
)

const bootcampNotFound = "Bootcamp not found with id of %s"

func (u *Usecase) ListBootcamps(ctx context.Context, lq ListQuery) (ListResult[BootcampDetail], error) {
	items, total, err := u.bootcamps.Find(ctx, lq.Query)
	if err != nil {
		return ListResult[BootcampDetail]{}, err
	}

	details, err := u.withCourses(ctx, items)
	if err != nil {
		return ListResult[BootcampDetail]{}, err
	}

	return ListResult[BootcampDetail]{Items: details, Total: total, Pagination: paginate(lq, total)}, nil
}

func (u *Usecase) GetBootcamp(ctx context.Context, id string) (BootcampDetail, error) {
	b, err := getOrNotFound(ctx, u.bootcamps, id, bootcampNotFound)
	if err != nil {
		return BootcampDetail{}, err
	}

	details, err := u.withCourses(ctx, []*entity.Bootcamp{b})
	if err != nil {
		return BootcampDetail{}, err
	}
	return details[0], nil
}

func (u *Usecase) CreateBootcamp(ctx context.Context, actor Actor, in BootcampInput) (*entity.Bootcamp, error) {
	// publishers may own a single bootcamp
	if !actor.IsAdmin() {
		_, err := u.bootcamps.FindOne(ctx, store.Eq("user", actor.ID))
		if err == nil {
			return nil, pkgerror.NewBusiness(
				fmt.Sprintf("The user with ID %s has already published a bootcamp", actor.ID), pkgerror.CodeInvalidInput)
		}
		if !errors.Is(err, pkgerror.ErrNotFound) {
			return nil, err
		}
	}

	b := &entity.Bootcamp{
		ID:        u.id.Generate(),
		Photo:     entity.DefaultPhoto,
		CreatedAt: u.clock.Now().UTC(),
		User:      actor.ID,
	}
	in.apply(b)

	err := u.lifecycle.Save(ctx, b, pkghook.Create, func(ctx context.Context) error {
		return u.bootcamps.Insert(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (u *Usecase) UpdateBootcamp(ctx context.Context, actor Actor, id string, in BootcampInput) (*entity.Bootcamp, error) {
	b, err := getOrNotFound(ctx, u.bootcamps, id, bootcampNotFound)
	if err != nil {
		return nil, err
	}
	if !actor.owns(b.User) {
		return nil, notAuthorized("User %s is not authorized to update this bootcamp", actor.ID)
	}

	in.apply(b)
	if err := u.saveBootcamp(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (u *Usecase) DeleteBootcamp(ctx context.Context, actor Actor, id string) error {
	b, err := getOrNotFound(ctx, u.bootcamps, id, bootcampNotFound)
	if err != nil {
		return err
	}
	if !actor.owns(b.User) {
		return notAuthorized("User %s is not authorized to delete this bootcamp", actor.ID)
	}

	return u.lifecycle.Delete(ctx, b, func(ctx context.Context) error {
		return u.bootcamps.Delete(ctx, b.ID)
	})
}

func (u *Usecase) UploadBootcampPhoto(ctx context.Context, actor Actor, id string, file *Upload) (string, error) {
	b, err := getOrNotFound(ctx, u.bootcamps, id, bootcampNotFound)
	if err != nil {
		return "", err
	}
	if !actor.owns(b.User) {
		return "", notAuthorized("User %s is not authorized to update this bootcamp", actor.ID)
	}

	if file == nil {
		return "", pkgerror.NewBusiness("Please upload a file", pkgerror.CodeInvalidInput)
	}
	if !strings.HasPrefix(file.ContentType, "image") {
		return "", pkgerror.NewBusiness("Please upload an image file", pkgerror.CodeInvalidInput)
	}
	if u.upload.MaxSize > 0 && file.Size > u.upload.MaxSize {
		return "", pkgerror.NewBusiness(
			"Please upload an image less than "+strconv.FormatInt(u.upload.MaxSize, 10), pkgerror.CodeInvalidInput)
	}

	name := "photo_" + b.ID + filepath.Ext(file.Filename)
	key, err := u.blob.Put(ctx, name, file.ContentType, file.Body)
	if err != nil {
		return "", pkgerror.NewExternal(err, "Problem with file upload")
	}

	b.Photo = key
	if err := u.saveBootcamp(ctx, b); err != nil {
		return "", err
	}
	return key, nil
}

// BootcampsInRadius returns the bootcamps within distance miles of zipcode.
func (u *Usecase) BootcampsInRadius(ctx context.Context, zipcode string, distance float64) ([]*entity.Bootcamp, error) {
	if distance < 0 {
		return nil, pkgerror.NewInvalidInput(errors.New("distance must not be negative"))
	}

	results, err := u.geocoder.Geocode(ctx, zipcode)
	if err != nil {
		return nil, pkgerror.NewExternal(err, "Geocoding service unavailable")
	}
	if len(results) == 0 {
		return nil, pkgerror.NewBusiness("Address could not be geocoded", pkgerror.CodeInvalidInput)
	}
	lat, lng := results[0].Latitude, results[0].Longitude

	all, _, err := u.bootcamps.Find(ctx, store.Query{})
	if err != nil {
		return nil, err
	}

	inRadius := make([]*entity.Bootcamp, 0)
	for _, b := range all {
		bLat, bLng, ok := b.Location.LatLng()
		if !ok {
			continue
		}
		if pkggeo.DistanceMiles(lat, lng, bLat, bLng) <= distance {
			inRadius = append(inRadius, b)
		}
	}
	return inRadius, nil
}

// saveBootcamp writes user changes to b. The averages belong to the aggregate
// consumer, so the stored ones are carried over instead of the copy loaded
// before the edit.
func (u *Usecase) saveBootcamp(ctx context.Context, b *entity.Bootcamp) error {
	return u.lifecycle.Save(ctx, b, pkghook.Update, func(ctx context.Context) error {
		unlock := u.locks.Lock(b.ID)
		defer unlock()

		stored, err := u.bootcamps.Get(ctx, b.ID)
		if err != nil {
			return err
		}
		b.AverageCost = stored.AverageCost
		b.AverageRating = stored.AverageRating
		return u.bootcamps.Update(ctx, b)
	})
}

// withCourses attaches the courses of every bootcamp with a single query.
func (u *Usecase) withCourses(ctx context.Context, bootcamps []*entity.Bootcamp) ([]BootcampDetail, error) {
	details := make([]BootcampDetail, 0, len(bootcamps))
	if len(bootcamps) == 0 {
		return details, nil
	}

	ids := make([]string, 0, len(bootcamps))
	for _, b := range bootcamps {
		ids = append(ids, b.ID)
	}

	courses, _, err := u.courses.Find(ctx, store.In("bootcamp", ids...))
	if err != nil {
		return nil, err
	}

	byBootcamp := make(map[string][]*entity.Course, len(bootcamps))
	for _, c := range courses {
		byBootcamp[c.Bootcamp] = append(byBootcamp[c.Bootcamp], c)
	}

	for _, b := range bootcamps {
		cs := byBootcamp[b.ID]
		if cs == nil {
			cs = []*entity.Course{}
		}
		details = append(details, BootcampDetail{Bootcamp: b, Courses: cs})
	}
	return details, nil
}

// bootcampRefs loads the name and description of the given bootcamps.
func (u *Usecase) bootcampRefs(ctx context.Context, ids []string) (map[string]*BootcampRef, error) {
	refs := make(map[string]*BootcampRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	bootcamps, _, err := u.bootcamps.Find(ctx, store.In("id", ids...))
	if err != nil {
		return nil, err
	}
	for _, b := range bootcamps {
		refs[b.ID] = &BootcampRef{ID: b.ID, Name: b.Name, Description: b.Description}
	}
	return refs, nil
}

func (in BootcampInput) apply(b *entity.Bootcamp) {
	if in.Name != nil {
		b.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	if in.Website != nil {
		b.Website = *in.Website
	}
	if in.Phone != nil {
		b.Phone = *in.Phone
	}
	if in.Email != nil {
		b.Email = *in.Email
	}
	if in.Address != nil {
		b.Address = *in.Address
	}
	if in.Careers != nil {
		b.Careers = in.Careers
	}
	if in.Housing != nil {
		b.Housing = *in.Housing
	}
	if in.JobAssistance != nil {
		b.JobAssistance = *in.JobAssistance
	}
	if in.JobGuarantee != nil {
		b.JobGuarantee = *in.JobGuarantee
	}
	if in.AcceptGi != nil {
		b.AcceptGi = *in.AcceptGi
	}
}
