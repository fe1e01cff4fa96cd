package timesheet

// Status is the approval state of a timesheet record
type Status string

const (
	StatusNotSubmitted       Status = "Not Submitted"
	StatusWaitingForApproval Status = "Waiting For Approval"
	StatusApproved           Status = "Approved"
	StatusRejected           Status = "Rejected"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusNotSubmitted, StatusWaitingForApproval, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Entry is the flat, client-side working unit: one (project, task, date) row.
type Entry struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	ProjectID   string  `json:"project_id"`
	TaskID      string  `json:"task_id"`
	ProjectName string  `json:"project_name"`
	TaskName    string  `json:"task_name"`
	Hours       float64 `json:"hours"`
	Comments    string  `json:"comments"`
	LeaveReason string  `json:"leave_reason"`
	IsHoliday   bool    `json:"is_holiday"`
	IsVacation  bool    `json:"is_vacation"`
	IsWeekOff   bool    `json:"is_week_off"`
	ID          string  `json:"id,omitempty"` // empty until persisted
	Status      Status  `json:"status"`
}

// Key identifies an entry within a working set
type Key struct {
	ProjectID string
	TaskID    string
	Date      string
}

func (e Entry) Key() Key {
	return Key{ProjectID: e.ProjectID, TaskID: e.TaskID, Date: e.Date}
}

// IsMarker reports whether the entry marks a non-working day
func (e Entry) IsMarker() bool {
	return e.IsHoliday || e.IsVacation || e.IsWeekOff
}

// Ref is an identifier/title pair as nested in the wire format
type Ref struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

// Record is a raw timesheet record as exchanged with the backend.
// Hours and Comments are pointers so that absent fields can be told apart
// from zero values when flattening.
type Record struct {
	ID          string   `json:"_id,omitempty"`
	Date        string   `json:"date"`
	Hours       *float64 `json:"hours,omitempty"`
	Comments    *string  `json:"comments,omitempty"`
	LeaveReason string   `json:"leaveReason"`
	IsHoliday   bool     `json:"isHoliday"`
	IsVacation  bool     `json:"isVacation"`
	IsWeekOff   bool     `json:"isWeekOff"`
	Status      Status   `json:"status,omitempty"`
}

// TaskGroup holds the records logged against one task
type TaskGroup struct {
	TaskID    Ref      `json:"taskId"`
	Timesheet []Record `json:"timesheet"`
}

// PackageGroup is the top level of the nested fetch/submit payload
type PackageGroup struct {
	PackageID Ref         `json:"packageId"`
	Tasks     []TaskGroup `json:"tasks"`
}

// Range is an inclusive [Start, End] pair of YYYY-MM-DD dates
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Marker labels a non-working day
type Marker struct {
	Label   string `json:"label"`
	Comment string `json:"comment"`
}

const (
	LabelWeekOff = "weekoff"
	LabelLeave   = "leave"
	LabelHoliday = "holiday"
)

// TaskRef is a task listing item
type TaskRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
