package models

// VoteDirection represents the direction of a cast vote.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Valid reports whether the direction is one of the two accepted values.
func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}
