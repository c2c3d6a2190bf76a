package entity

// AggregateEvent asks for one derived value of a bootcamp to be recomputed.
type AggregateEvent struct {
	EventID    string
	BootcampID string
	Aggregate  Aggregate
}
