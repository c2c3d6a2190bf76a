package entity

import "time"

const DefaultPhoto = "no-photo.jpg"

// Location is a GeoJSON point plus the structured address it was derived from.
type Location struct {
	Type             string    `json:"type"`
	Coordinates      []float64 `json:"coordinates"`
	FormattedAddress string    `json:"formattedAddress,omitempty"`
	Street           string    `json:"street,omitempty"`
	City             string    `json:"city,omitempty"`
	State            string    `json:"state,omitempty"`
	Zipcode          string    `json:"zipcode,omitempty"`
	Country          string    `json:"country,omitempty"`
}

// NewPoint returns a location at lng/lat.
func NewPoint(lng, lat float64) *Location {
	return &Location{Type: "Point", Coordinates: []float64{lng, lat}}
}

// LatLng returns the coordinates as latitude, longitude.
func (l *Location) LatLng() (float64, float64, bool) {
	if l == nil || len(l.Coordinates) != 2 {
		return 0, 0, false
	}
	return l.Coordinates[1], l.Coordinates[0], true
}

type Bootcamp struct {
	ID            string    `json:"id"`
	Name          string    `json:"name" validate:"required,max=50"`
	Slug          string    `json:"slug,omitempty"`
	Description   string    `json:"description" validate:"required,max=500"`
	Website       string    `json:"website,omitempty" validate:"omitempty,weburl"`
	Phone         string    `json:"phone,omitempty" validate:"max=20"`
	Email         string    `json:"email,omitempty" validate:"omitempty,mailaddr"`
	Address       string    `json:"address,omitempty" validate:"required_without=Location"`
	Location      *Location `json:"location,omitempty"`
	Careers       []Career  `json:"careers" validate:"required,min=1,dive,enum"`
	AverageRating *float64  `json:"averageRating,omitempty" validate:"omitempty,min=1,max=10"`
	AverageCost   *float64  `json:"averageCost,omitempty"`
	Photo         string    `json:"photo"`
	Housing       bool      `json:"housing"`
	JobAssistance bool      `json:"jobAssistance"`
	JobGuarantee  bool      `json:"jobGuarantee"`
	AcceptGi      bool      `json:"acceptGi"`
	CreatedAt     time.Time `json:"createdAt"`
	User          string    `json:"user" validate:"required"`
}

func (*Bootcamp) EntityType() string { return "Bootcamp" }

func (b Bootcamp) DocID() string { return b.ID }

func (b Bootcamp) UniqueFields() map[string]string {
	return map[string]string{"name": b.Name}
}

func (Bootcamp) ValidationMessages() map[string]string {
	return map[string]string{
		"Name.required":        "Please add the name",
		"Name.max":             "Name cannot be more than 50 chars",
		"Description.required": "Please add description",
		"Description.max":      "Description lenght is 500 chars",
		"Website":              "Please use a valid URL with HTTP or HTTPS",
		"Phone":                "Phone number can not be longer than 20 characters",
		"Email":                "Please add a valid email",
		"Address":              "Please add an address",
		"Careers":              "Please add at least one valid career",
		"AverageRating.min":    "Rating must be at least 1",
		"AverageRating.max":    "Rating can not be more than 10",
		"User":                 "Bootcamp must belong to a user",
	}
}
