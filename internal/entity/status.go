package entity

type Status string

const (
	Pending    Status = "PENDING"
	Processing Status = "PROCESSING"
	Completed  Status = "COMPLETED"
	Failed     Status = "FAILED"
)

// Terminal reports whether no further status transition is allowed.
func (s Status) Terminal() bool {
	return s == Completed || s == Failed
}
