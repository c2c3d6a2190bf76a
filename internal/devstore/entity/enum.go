package entity

type Career string

const (
	CareerWebDevelopment    Career = "Web Development"
	CareerMobileDevelopment Career = "Mobile Development"
	CareerUIUX              Career = "UI/UX"
	CareerDataScience       Career = "Data Science"
	CareerBusiness          Career = "Business"
	CareerOther             Career = "Other"
)

func (c Career) Valid() bool {
	switch c {
	case CareerWebDevelopment, CareerMobileDevelopment, CareerUIUX, CareerDataScience, CareerBusiness, CareerOther:
		return true
	default:
		return false
	}
}

type MinimumSkill string

const (
	SkillBeginner     MinimumSkill = "beginner"
	SkillIntermediate MinimumSkill = "intermediate"
	SkillAdvanced     MinimumSkill = "advanced"
)

func (s MinimumSkill) Valid() bool {
	switch s {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
		return true
	default:
		return false
	}
}

type Role string

const (
	RoleUser      Role = "user"
	RolePublisher Role = "publisher"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RolePublisher, RoleAdmin:
		return true
	default:
		return false
	}
}

// Aggregate names a value derived from the children of a bootcamp.
type Aggregate string

const (
	AggregateCost   Aggregate = "averageCost"
	AggregateRating Aggregate = "averageRating"
)
