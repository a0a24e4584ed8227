package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"jobboard-admin/internal/domain/job"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJobTable(w io.Writer, jobs []job.Job) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tDEPARTMENT\tLOCATION\tVACANCIES")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			j.ID, j.Title, j.Company, j.Department.Canonical().Name, j.Location, j.Vacancies)
	}
	return tw.Flush()
}

func writeGroups(w io.Writer, groups []job.DepartmentGroup) error {
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n", g.Department.Name, len(g.Jobs))
		for _, j := range g.Jobs {
			fmt.Fprintf(w, "  %s  %s  %s\n", j.ID, j.Title, job.Summary(j.Overview, 60))
		}
	}
	return nil
}

func writeJobDetails(w io.Writer, j job.Job) error {
	fmt.Fprintf(w, "%s  %s\n", j.ID, j.Title)
	fmt.Fprintf(w, "Company:     %s\n", j.Company)
	fmt.Fprintf(w, "Department:  %s\n", j.Department.Canonical().Name)
	fmt.Fprintf(w, "Coordinator: %s\n", j.Coordinator)
	fmt.Fprintf(w, "Level:       %s\n", j.Level)
	fmt.Fprintf(w, "Type/Shift:  %s / %s\n", j.JobType, j.Shift)
	fmt.Fprintf(w, "Location:    %s\n", j.Location)
	fmt.Fprintf(w, "Vacancies:   %d\n", j.Vacancies)
	for _, s := range []struct{ title, html string }{
		{"Overview", j.Overview},
		{"Responsibilities", j.Responsibilities},
		{"Requirements", j.Requirements},
	} {
		fmt.Fprintf(w, "\n%s\n%s\n", s.title, indent(job.PlainText(s.html)))
	}
	return nil
}

func indent(s string) string {
	if s == "" {
		return "  -"
	}
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
