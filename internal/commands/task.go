package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"calboard/internal/calendar"
	"calboard/internal/engine"
	"calboard/internal/printer"
	"calboard/internal/task"
)

func addAdd(topLevel *cobra.Command, ro *RootOptions) {
	var start, end, category string
	var title string

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a task spanning one or more days.",
		Example: `
calboard add write the report --start 2024-03-10 --end 2024-03-12 --category review
calboard add call the bank
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a title")
			}
			title = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(ro)
			if err != nil {
				return err
			}
			defer s.Close()

			first := calendar.Truncate(s.engine.Snapshot().Now)
			if start != "" {
				if first, err = calendar.ParseDate(start); err != nil {
					return fmt.Errorf("--start: %w", err)
				}
			}
			last := first
			if end != "" {
				if last, err = calendar.ParseDate(end); err != nil {
					return fmt.Errorf("--end: %w", err)
				}
			}
			c, err := task.ParseCategory(category)
			if err != nil {
				return err
			}

			snap, err := s.engine.Dispatch(engine.AddTask{Title: title, Category: c, Start: first, End: last})
			if err != nil {
				return err
			}
			added := snap.Tasks[len(snap.Tasks)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", added.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First day, YYYY-MM-DD (default today).")
	cmd.Flags().StringVar(&end, "end", "", "Last day, YYYY-MM-DD (default the start day).")
	cmd.Flags().StringVarP(&category, "category", "c", "todo", "One of todo, in-progress, review, completed.")

	topLevel.AddCommand(cmd)
}

type listOptions struct {
	Categories []string
	Weeks      int
	Search     string
	ShowID     bool
}

func (lo *listOptions) dispatch(cmd *cobra.Command, e *engine.Engine) (engine.Snapshot, error) {
	var cmds []engine.Command
	if len(lo.Categories) > 0 {
		cmds = append(cmds, engine.SetAllCategories{Enabled: false})
		for _, name := range lo.Categories {
			c, err := task.ParseCategory(name)
			if err != nil {
				return engine.Snapshot{}, err
			}
			cmds = append(cmds, engine.ToggleCategory{Category: c, Enabled: true})
		}
	}
	if cmd.Flags().Changed("weeks") {
		cmds = append(cmds, engine.SetTimeWindow{Weeks: lo.Weeks})
	}
	if lo.Search != "" {
		cmds = append(cmds, engine.SetSearch{Text: lo.Search})
	}
	snap := e.Snapshot()
	for _, c := range cmds {
		var err error
		if snap, err = e.Dispatch(c); err != nil {
			return snap, err
		}
	}
	return snap, nil
}

func addListFlags(cmd *cobra.Command, lo *listOptions) {
	cmd.Flags().StringSliceVarP(&lo.Categories, "category", "c", nil, "Only show these categories (repeatable).")
	cmd.Flags().IntVarP(&lo.Weeks, "weeks", "w", 0, "Only tasks starting within N weeks; 0 is no limit.")
	cmd.Flags().StringVar(&lo.Search, "search", "", "Case-insensitive title search.")
}

func addList(topLevel *cobra.Command, ro *RootOptions) {
	lo := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks through the category, search and time filters.",
		Example: `
calboard list
calboard list --category review --weeks 2
calboard list --search report --ids
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := openSession(ro)
			if err != nil {
				return err
			}
			defer s.Close()

			snap, err := lo.dispatch(cmd, s.engine)
			if err != nil {
				return err
			}
			p := printer.New(cmd.OutOrStdout())
			p.ShowID = lo.ShowID
			p.Title(fmt.Sprintf("Tasks (%d of %d)", len(snap.Filtered), len(snap.Tasks)))
			p.Filters(snap.Filters.Summary())
			p.Tasks(snap.Filtered)
			return nil
		},
	}

	addListFlags(cmd, lo)
	cmd.Flags().BoolVar(&lo.ShowID, "ids", false, "Show task ids.")
	topLevel.AddCommand(cmd)
}

func addMonth(topLevel *cobra.Command, ro *RootOptions) {
	lo := &listOptions{}

	cmd := &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Print a month with the number of tasks on each day.",
		Example: `
calboard month
calboard month 2024-03 --category todo
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession(ro)
			if err != nil {
				return err
			}
			defer s.Close()

			snap, err := lo.dispatch(cmd, s.engine)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				m, err := time.ParseInLocation("2006-01", args[0], time.Local)
				if err != nil {
					return fmt.Errorf("month: %w", err)
				}
				if snap, err = s.engine.Dispatch(engine.SetViewedMonth{Date: m}); err != nil {
					return err
				}
			}
			p := printer.New(cmd.OutOrStdout())
			p.Filters(snap.Filters.Summary())
			p.Month(snap.Month, snap.Now, snap.Filtered)
			return nil
		},
	}

	addListFlags(cmd, lo)
	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command, ro *RootOptions) {
	var title, category, start, end string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a task's title, category or dates.",
		Example: `
calboard edit 3f2a --category completed
calboard edit 3f2a --start 2024-03-11 --end 2024-03-13
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession(ro)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := resolveID(s.engine.Snapshot(), args[0])
			if err != nil {
				return err
			}

			var p task.Patch
			if cmd.Flags().Changed("title") {
				p.Title = &title
			}
			if cmd.Flags().Changed("category") {
				c, err := task.ParseCategory(category)
				if err != nil {
					return err
				}
				p.Category = &c
			}
			if cmd.Flags().Changed("start") {
				d, err := calendar.ParseDate(start)
				if err != nil {
					return fmt.Errorf("--start: %w", err)
				}
				p.Start = &d
			}
			if cmd.Flags().Changed("end") {
				d, err := calendar.ParseDate(end)
				if err != nil {
					return fmt.Errorf("--end: %w", err)
				}
				p.End = &d
			}
			if p.Empty() {
				return errors.New("nothing to change; pass --title, --category, --start or --end")
			}

			snap, err := s.engine.Dispatch(engine.UpdateTask{ID: id, Patch: p})
			if err != nil {
				return err
			}
			t, _ := snap.Task(id)
			printer.New(cmd.OutOrStdout()).Task(t)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title.")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category.")
	cmd.Flags().StringVar(&start, "start", "", "New first day, YYYY-MM-DD.")
	cmd.Flags().StringVar(&end, "end", "", "New last day, YYYY-MM-DD.")

	topLevel.AddCommand(cmd)
}

func addRemove(topLevel *cobra.Command, ro *RootOptions) {
	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Remove a task.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession(ro)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := resolveID(s.engine.Snapshot(), args[0])
			if err != nil {
				return err
			}
			if _, err := s.engine.Dispatch(engine.DeleteTask{ID: id}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addMove(topLevel *cobra.Command, ro *RootOptions) {
	cmd := &cobra.Command{
		Use:   "move ID DATE",
		Short: "Move a task to start on DATE, keeping its length.",
		Example: `
calboard move 3f2a 2024-03-20
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := openSession(ro)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := resolveID(s.engine.Snapshot(), args[0])
			if err != nil {
				return err
			}
			day, err := calendar.ParseDate(args[1])
			if err != nil {
				return fmt.Errorf("date: %w", err)
			}
			if _, err := s.engine.Dispatch(engine.StartTaskDrag{ID: id}); err != nil {
				return err
			}
			snap, err := s.engine.Dispatch(engine.DropOnDay{Date: day})
			if err != nil {
				return err
			}
			t, _ := snap.Task(id)
			printer.New(cmd.OutOrStdout()).Task(t)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
