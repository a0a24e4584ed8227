package dto

import "jobboard-admin/internal/domain/job"

const summaryLength = 140

type ModalRequest struct {
	Visible *bool `json:"visible"`
}

// JobSummaryResponse is the listing row of a grouped view; rich-text fields are
// reduced to a plain-text preview.
type JobSummaryResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Level       string `json:"level"`
	JobType     string `json:"jobType"`
	Vacancies   int    `json:"vacancies"`
	Overview    string `json:"overview"`
	Coordinator string `json:"coordinator"`
}

type DepartmentGroupResponse struct {
	Department job.Department       `json:"department"`
	Jobs       []JobSummaryResponse `json:"jobs"`
}

func NewJobSummary(j job.Job) JobSummaryResponse {
	return JobSummaryResponse{
		ID:          j.ID,
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		Level:       j.Level,
		JobType:     j.JobType,
		Vacancies:   j.Vacancies,
		Overview:    job.Summary(j.Overview, summaryLength),
		Coordinator: j.Coordinator,
	}
}

func NewDepartmentGroups(groups []job.DepartmentGroup) []DepartmentGroupResponse {
	out := make([]DepartmentGroupResponse, 0, len(groups))
	for _, g := range groups {
		rows := make([]JobSummaryResponse, 0, len(g.Jobs))
		for _, j := range g.Jobs {
			rows = append(rows, NewJobSummary(j))
		}
		out = append(out, DepartmentGroupResponse{Department: g.Department, Jobs: rows})
	}
	return out
}
