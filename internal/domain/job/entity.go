package job

type Department struct {
	ID   int    `json:"id" validate:"department"`
	Name string `json:"department"`
}

// Job is a posting as returned by the remote collection. ID is assigned by the
// server and never changes afterwards.
type Job struct {
	ID               string     `json:"_id"`
	Title            string     `json:"jobTitle"`
	Company          string     `json:"company"`
	UserID           string     `json:"userId,omitempty"`
	Coordinator      string     `json:"coordinator"`
	Level            string     `json:"level"`
	Shift            string     `json:"shift"`
	Location         string     `json:"location"`
	Vacancies        int        `json:"vacancies"`
	JobType          string     `json:"jobType"`
	Overview         string     `json:"jobOverview"`
	Responsibilities string     `json:"jobResponsibilities"`
	Requirements     string     `json:"jobRequirements"`
	Department       Department `json:"department"`
}

// Draft is the payload of create and update: every Job field except the identifier.
type Draft struct {
	Title            string     `json:"jobTitle" validate:"required"`
	Company          string     `json:"company" validate:"required"`
	UserID           string     `json:"userId"`
	Coordinator      string     `json:"coordinator" validate:"required"`
	Level            string     `json:"level" validate:"required"`
	Shift            string     `json:"shift" validate:"required"`
	Location         string     `json:"location" validate:"required"`
	Vacancies        int        `json:"vacancies" validate:"gte=1"`
	JobType          string     `json:"jobType" validate:"required"`
	Overview         string     `json:"jobOverview" validate:"required"`
	Responsibilities string     `json:"jobResponsibilities" validate:"required"`
	Requirements     string     `json:"jobRequirements" validate:"required"`
	Department       Department `json:"department"`
}

func (j Job) Draft() Draft {
	return Draft{
		Title:            j.Title,
		Company:          j.Company,
		UserID:           j.UserID,
		Coordinator:      j.Coordinator,
		Level:            j.Level,
		Shift:            j.Shift,
		Location:         j.Location,
		Vacancies:        j.Vacancies,
		JobType:          j.JobType,
		Overview:         j.Overview,
		Responsibilities: j.Responsibilities,
		Requirements:     j.Requirements,
		Department:       j.Department,
	}
}

// NewDraft returns the defaults a blank create form starts from.
func NewDraft() Draft {
	return Draft{Vacancies: 1, Department: Catalog()[0]}
}

// Clone returns a detached copy. Job holds only value fields, so a plain copy is
// enough; the method exists so callers never share a pointer into store state.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	return &c
}

func IndexByID(jobs []Job, id string) int {
	for i := range jobs {
		if jobs[i].ID == id {
			return i
		}
	}
	return -1
}
