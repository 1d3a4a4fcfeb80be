package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	apierrors "github.com/pribylovaa/jobfeed/internal/errors"
	"github.com/pribylovaa/jobfeed/internal/feed"
	"github.com/pribylovaa/jobfeed/internal/query"
)

type jobsFlags struct {
	filters query.FilterState
	cursor  string
	json    bool
}

func newJobsCmd(g *globals) *cobra.Command {
	var f jobsFlags

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List job offers",
		Example: `  jobfeed jobs --location Kraków --skill Go --skill Kubernetes
  jobfeed jobs --page '?page=2&location=Krak%C3%B3w'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), g.cfg, cliLogger(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			// Для авторизованного пользователя лента размечается откликами.
			a.session.Check(cmd.Context())

			st, err := a.feed.Navigate(cmd.Context(), f.filters, f.cursor)
			if err != nil {
				if st.Err != "" {
					return errors.New(st.Err)
				}
				return err
			}

			if f.json {
				return writeFeedJSON(cmd.OutOrStdout(), st)
			}
			return writeFeedTable(cmd.OutOrStdout(), st)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.filters.Title, "title", "", "search in title")
	fl.StringVar(&f.filters.Location, "location", "", "city")
	fl.StringVar(&f.filters.OperatingMode, "mode", "", "operating mode (remote, hybrid, office)")
	fl.StringVar(&f.filters.Experience, "experience", "", "experience level")
	fl.StringVar(&f.filters.Source, "source", "", "source site")
	fl.StringVar(&f.filters.ScrapedDate, "since", "", "scraped since (YYYY-MM-DD)")
	fl.StringSliceVar(&f.filters.Skills, "skill", nil, "required skill (repeatable)")
	fl.StringVar(&f.cursor, "page", "", "page cursor as printed by a previous call")
	fl.BoolVar(&f.json, "json", false, "print JSON")

	cmd.AddCommand(
		newApplyCmd(g, true),
		newApplyCmd(g, false),
	)

	return cmd
}

func newApplyCmd(g *globals, apply bool) *cobra.Command {
	use, short := "apply <job-id>", "Apply to a job offer"
	if !apply {
		use, short = "unapply <job-id>", "Withdraw an application"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid job id %q", args[0])
			}

			a, err := newApp(cmd.Context(), g.cfg, cliLogger(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			a.session.Check(cmd.Context())

			if apply {
				app, err := a.feed.Apply(cmd.Context(), id)
				if err != nil {
					return errors.New(apierrors.Message(err))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied to job %d (application %d, %s)\n", id, app.ID, app.Status)
				return nil
			}

			if err := a.feed.Unapply(cmd.Context(), id); err != nil {
				return errors.New(apierrors.Message(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Withdrew application for job %d\n", id)
			return nil
		},
	}
}

func writeFeedTable(w io.Writer, st feed.State) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tLOCATION\tMODE\tAPPLIED")

	if st.Result != nil {
		for _, j := range st.Result.Items {
			applied := "-"
			if j.Application != nil {
				applied = j.Application.Status
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", j.ID, j.Title, j.Company, j.Location, j.OperatingMode, applied)
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if st.Result == nil {
		return nil
	}

	fmt.Fprintf(w, "\n%d offers\n", st.Result.Count)
	if st.Result.Previous != nil {
		fmt.Fprintf(w, "previous: --page '%s'\n", *st.Result.Previous)
	}
	if st.Result.Next != nil {
		fmt.Fprintf(w, "next:     --page '%s'\n", *st.Result.Next)
	}

	return nil
}

type jobJSON struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Company  string `json:"company,omitempty"`
	Location string `json:"location,omitempty"`
	Mode     string `json:"operating_mode,omitempty"`
	URL      string `json:"url,omitempty"`
	Applied  string `json:"application_status,omitempty"`
}

type feedJSON struct {
	Query    string    `json:"query"`
	Count    int       `json:"count"`
	Next     *string   `json:"next"`
	Previous *string   `json:"previous"`
	Results  []jobJSON `json:"results"`
}

func writeFeedJSON(w io.Writer, st feed.State) error {
	out := feedJSON{Query: query.Encode(st.Filters), Results: []jobJSON{}}

	if st.Result != nil {
		out.Count, out.Next, out.Previous = st.Result.Count, st.Result.Next, st.Result.Previous
		for _, j := range st.Result.Items {
			jj := jobJSON{ID: j.ID, Title: j.Title, Company: j.Company, Location: j.Location, Mode: j.OperatingMode, URL: j.URL}
			if j.Application != nil {
				jj.Applied = j.Application.Status
			}
			out.Results = append(out.Results, jj)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
