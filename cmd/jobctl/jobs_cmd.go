package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"jobboard-admin/internal/domain/job"
	"jobboard-admin/internal/infrastructure/apiclient"
	"jobboard-admin/internal/pkg/workerpool"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newJobsCmd(cl *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage job postings",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.open(cmd); err != nil {
				return err
			}
			return cl.requireSession()
		},
	}
	cmd.AddCommand(newJobsListCmd(cl), newJobsShowCmd(cl), newJobsCreateCmd(cl), newJobsUpdateCmd(cl), newJobsDeleteCmd(cl))
	return cmd
}

func newJobsListCmd(cl *cli) *cobra.Command {
	var grouped bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.c.Jobs.FetchAll(cmd.Context()); err != nil {
				return err
			}
			if grouped {
				groups := cl.c.Jobs.Groups()
				if cl.jsonOut {
					return writeJSON(cl.out, groups)
				}
				return writeGroups(cl.out, groups)
			}
			jobs := cl.c.Jobs.State().Jobs
			if cl.jsonOut {
				return writeJSON(cl.out, jobs)
			}
			return writeJobTable(cl.out, jobs)
		},
	}
	cmd.Flags().BoolVar(&grouped, "grouped", false, "Group jobs by department")
	return cmd
}

func newJobsShowCmd(cl *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one job with its descriptions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.c.Jobs.FetchAll(cmd.Context()); err != nil {
				return err
			}
			st, ok := cl.c.Jobs.SelectByID(args[0])
			if !ok {
				return fmt.Errorf("job %q not found", args[0])
			}
			if cl.jsonOut {
				return writeJSON(cl.out, st.Selected)
			}
			return writeJobDetails(cl.out, *st.Selected)
		},
	}
}

func newJobsCreateCmd(cl *cli) *cobra.Command {
	var f draftFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a job from flags and/or a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := job.NewDraft()
			if err := f.apply(cmd.Flags(), cl.in, &d); err != nil {
				return err
			}
			if err := d.Validate(); err != nil {
				return err
			}
			created, err := cl.c.Jobs.Create(cmd.Context(), d)
			if err != nil {
				return err
			}
			if cl.jsonOut {
				return writeJSON(cl.out, created)
			}
			_, err = fmt.Fprintf(cl.out, "created %s\n", created.ID)
			return err
		},
	}
	f.bind(cmd.Flags())
	return cmd
}

func newJobsUpdateCmd(cl *cli) *cobra.Command {
	var f draftFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a job; unset flags keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.c.Jobs.FetchAll(cmd.Context()); err != nil {
				return err
			}
			st, ok := cl.c.Jobs.SelectByID(args[0])
			if !ok {
				return fmt.Errorf("job %q not found", args[0])
			}
			d := st.Selected.Draft()
			if err := f.apply(cmd.Flags(), cl.in, &d); err != nil {
				return err
			}
			if err := d.Validate(); err != nil {
				return err
			}
			updated, err := cl.c.Jobs.Update(cmd.Context(), args[0], d)
			if err != nil {
				return err
			}
			if cl.jsonOut {
				return writeJSON(cl.out, updated)
			}
			_, err = fmt.Fprintf(cl.out, "updated %s\n", updated.ID)
			return err
		},
	}
	f.bind(cmd.Flags())
	return cmd
}

func newJobsDeleteCmd(cl *cli) *cobra.Command {
	var concurrency, rps int
	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete one or more jobs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks := make([]workerpool.Task, 0, len(args))
			for _, id := range args {
				id := id
				tasks = append(tasks, workerpool.Task{Key: id, Run: func(ctx context.Context) error {
					return cl.c.Jobs.Delete(ctx, id)
				}})
			}
			results := workerpool.RunAll(cmd.Context(), concurrency, rps, tasks)
			return writeDeleteResults(cl.out, cl.jsonOut, args, results)
		},
	}
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "Parallel delete requests")
	cmd.Flags().IntVar(&rps, "rps", 0, "Max delete requests per second (0 = unlimited)")
	return cmd
}

func writeDeleteResults(w io.Writer, jsonOut bool, ids []string, results []workerpool.Result) error {
	byKey := make(map[string]error, len(results))
	for _, r := range results {
		byKey[r.Key] = r.Err
	}

	type outcome struct {
		ID    string `json:"id"`
		Error string `json:"error,omitempty"`
	}
	outcomes := make([]outcome, 0, len(ids))
	var failed int
	for _, id := range ids {
		err, done := byKey[id]
		o := outcome{ID: id}
		switch {
		case !done:
			o.Error = "not attempted"
		case err != nil:
			o.Error = apiclient.Message(err)
		}
		if o.Error != "" {
			failed++
		}
		outcomes = append(outcomes, o)
	}

	if jsonOut {
		if err := writeJSON(w, outcomes); err != nil {
			return err
		}
	} else {
		for _, o := range outcomes {
			if o.Error != "" {
				fmt.Fprintf(w, "failed %s: %s\n", o.ID, o.Error)
				continue
			}
			fmt.Fprintf(w, "deleted %s\n", o.ID)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d deletes failed", failed, len(ids))
	}
	return nil
}

// draftFlags maps command-line flags onto a job.Draft. Only flags the user set
// are applied, after the optional --file.
type draftFlags struct {
	file string

	title, company, coordinator, level, shift, location, jobType string
	overview, responsibilities, requirements                     string
	vacancies, department                                        int
}

func (f *draftFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.file, "file", "", "JSON draft to start from (- for stdin)")
	fs.StringVar(&f.title, "title", "", "Job title")
	fs.StringVar(&f.company, "company", "", "Company")
	fs.StringVar(&f.coordinator, "coordinator", "", "Coordinator")
	fs.StringVar(&f.level, "level", "", "Level")
	fs.StringVar(&f.shift, "shift", "", "Shift")
	fs.StringVar(&f.location, "location", "", "Location")
	fs.StringVar(&f.jobType, "job-type", "", "Job type")
	fs.StringVar(&f.overview, "overview", "", "Overview (HTML)")
	fs.StringVar(&f.responsibilities, "responsibilities", "", "Responsibilities (HTML)")
	fs.StringVar(&f.requirements, "requirements", "", "Requirements (HTML)")
	fs.IntVar(&f.vacancies, "vacancies", 1, "Number of vacancies")
	fs.IntVar(&f.department, "department", 0, "Department id")
}

func (f *draftFlags) apply(fs *pflag.FlagSet, stdin io.Reader, d *job.Draft) error {
	if f.file != "" {
		var r io.Reader = stdin
		if f.file != "-" {
			file, err := os.Open(f.file)
			if err != nil {
				return fmt.Errorf("open draft: %w", err)
			}
			defer file.Close()
			r = file
		}
		if err := json.NewDecoder(r).Decode(d); err != nil {
			return fmt.Errorf("decode draft: %w", err)
		}
	}

	strs := map[string]*string{
		"title": &d.Title, "company": &d.Company, "coordinator": &d.Coordinator,
		"level": &d.Level, "shift": &d.Shift, "location": &d.Location, "job-type": &d.JobType,
		"overview": &d.Overview, "responsibilities": &d.Responsibilities, "requirements": &d.Requirements,
	}
	vals := map[string]string{
		"title": f.title, "company": f.company, "coordinator": f.coordinator,
		"level": f.level, "shift": f.shift, "location": f.location, "job-type": f.jobType,
		"overview": f.overview, "responsibilities": f.responsibilities, "requirements": f.requirements,
	}
	for name, dst := range strs {
		if fs.Changed(name) {
			*dst = vals[name]
		}
	}
	if fs.Changed("vacancies") {
		d.Vacancies = f.vacancies
	}
	if fs.Changed("department") {
		dep, ok := job.DepartmentByID(f.department)
		if !ok {
			return fmt.Errorf("unknown department id %d", f.department)
		}
		d.Department = dep
	}
	return nil
}
