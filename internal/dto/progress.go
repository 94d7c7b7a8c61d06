package dto

type Phase string

const (
	PhaseScanning  Phase = "scanning"
	PhaseUploading Phase = "uploading"
	PhaseComplete  Phase = "complete"
)

type StatusCounts struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Total      int `json:"total"`
}

func (c StatusCounts) AllTerminal() bool {
	return c.Completed+c.Failed == c.Total
}

// SessionProgress is a snapshot over committed job rows at query time.
// Polling it at any frequency is safe; it never regresses between phases.
type SessionProgress struct {
	Phase           Phase        `json:"phase"`
	ProcessPageJobs StatusCounts `json:"processPageJobs"`
	ImageUploadJobs StatusCounts `json:"imageUploadJobs"`
}
