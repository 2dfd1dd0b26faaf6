package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/standup/internal/form"
	"github.com/idilsaglam/standup/internal/model"
	"github.com/idilsaglam/standup/internal/store"
	"github.com/idilsaglam/standup/internal/ui"
	"github.com/idilsaglam/standup/internal/view"
)

const shortIDLen = 8

// -------------- subcommand impls ----------------

func (a *app) addCmd() *cobra.Command {
	var f form.Fields
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a standup entry",
		Example: `  standup add --name Alice --yesterday "Reviewed code" --today "Write tests"
  standup add --name Bob --date 2024-01-10 --yesterday "Planning" --today "Build" --blockers "CI is red"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.Date == "" {
				f.Date = form.New(a.Now()).Date
			}
			if p := form.Validate(f, a.rules(), a.Now()); !p.OK() {
				return usagef("add: %s", p.Error())
			}
			e, err := a.store.Save(cmd.Context(), f.Entry())
			if err != nil {
				return storeFailure("save", err)
			}
			ui.OK(a.Stdout, "added "+shortID(e.ID))
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.Name, "name", "", "your name")
	fl.StringVar(&f.Date, "date", "", "entry date, YYYY-MM-DD (default today)")
	fl.StringVar(&f.Yesterday, "yesterday", "", "what you worked on yesterday")
	fl.StringVar(&f.Today, "today", "", "what you will work on today")
	fl.StringVar(&f.Blockers, "blockers", "", "anything blocking you")
	return cmd
}

func (a *app) lsCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List entries grouped by date, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("days") {
				days = a.cfg.List.Days
			}
			if days < 0 {
				return usagef("ls: --days must not be negative")
			}
			entries, err := a.entries(cmd, days)
			if err != nil {
				return storeFailure("load", err)
			}
			ui.Panel(a.Stdout, a.listLines(entries))
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "only entries from the last N days (0 = all)")
	return cmd
}

func (a *app) rmCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an entry (asks for confirmation)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usagef("usage: standup rm <id>")
			}
			if strings.TrimSpace(args[0]) == "" {
				return usagef("rm: id must not be blank")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.store.Entries(cmd.Context())
			if err != nil {
				return storeFailure("load", err)
			}
			e, found, err := resolve(entries, args[0])
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintf(a.Stdout, "no entry with id %s\n", args[0])
				return nil
			}

			if !yes {
				fmt.Fprintf(a.Stdout, "%s (%s): %s\n", e.Name, view.CardDate(e.Date), firstLine(e.Today))
				if !confirm(a.Stdin, a.Stdout, "Delete this entry? [y/N] ") {
					fmt.Fprintln(a.Stdout, "cancelled")
					return nil
				}
			}

			removed, err := a.store.Delete(cmd.Context(), e.ID)
			if err != nil {
				return storeFailure("delete", err)
			}
			if !removed {
				fmt.Fprintf(a.Stdout, "no entry with id %s\n", args[0])
				return nil
			}
			ui.OK(a.Stdout, "removed")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (a *app) reportCmd() *cobra.Command {
	var (
		days   int
		format string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Markdown digest of recent entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("days") {
				days = a.cfg.Report.Days
			}
			if days < 0 {
				return usagef("report: --days must not be negative")
			}
			switch format {
			case "auto", "markdown", "pretty":
			default:
				return usagef("report: --format must be auto, markdown or pretty")
			}

			entries, err := a.store.Recent(cmd.Context(), days)
			if err != nil {
				return storeFailure("load", err)
			}
			now := a.Now()
			md := view.Markdown(entries, now, model.Today(now).AddDate(0, 0, -days))

			if format == "markdown" || (format == "auto" && !isTerminal(a.Stdout)) {
				_, err := io.WriteString(a.Stdout, md)
				return err
			}
			r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
			if err != nil {
				return fmt.Errorf("markdown renderer: %w", err)
			}
			out, err := r.Render(md)
			if err != nil {
				return fmt.Errorf("render report: %w", err)
			}
			_, err = io.WriteString(a.Stdout, out)
			return err
		},
	}
	cmd.Flags().IntVar(&days, "days", store.DefaultRecentDays, "window in days")
	cmd.Flags().StringVar(&format, "format", "auto", "auto, markdown or pretty")
	return cmd
}

// -------------- helpers --------------

func (a *app) entries(cmd *cobra.Command, days int) ([]model.Entry, error) {
	if days > 0 {
		return a.store.Recent(cmd.Context(), days)
	}
	entries, err := a.store.Entries(cmd.Context())
	if err != nil {
		return nil, err
	}
	store.Sort(entries)
	return entries, nil
}

func storeFailure(op string, err error) error {
	return fmt.Errorf("%s: %s", op, store.UserMessage(err))
}

// resolve finds the entry whose id equals arg or, failing that, is the
// only one starting with it.
func resolve(entries []model.Entry, arg string) (model.Entry, bool, error) {
	var matches []model.Entry
	for _, e := range entries {
		if e.ID == arg {
			return e, true, nil
		}
		if strings.HasPrefix(e.ID, arg) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return model.Entry{}, false, nil
	case 1:
		return matches[0], true, nil
	}
	return model.Entry{}, false, usagef("id %q is ambiguous: %d entries match", arg, len(matches))
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	fmt.Fprintln(out)
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (a *app) listLines(entries []model.Entry) []string {
	st := ui.NewStyles(ui.Current())
	theme := ui.Current()
	lines := []string{
		fmt.Sprintf("%s  %s %d", st.Title.Render("Standups"), st.Muted.Render("Total"), len(entries)),
		"",
	}
	if len(entries) == 0 {
		lines = append(lines, st.Name.Render(view.EmptyTitle), st.Muted.Render(view.EmptyMessage))
	}
	now := a.Now()
	for gi, g := range view.GroupByDate(entries) {
		if gi > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, st.Heading.Render(view.Heading(g.Date, now)))
		for _, e := range g.Entries {
			lines = append(lines, fmt.Sprintf("%s %s  %s", st.Muted.Render(theme.SymBullet), st.Name.Render(e.Name), st.Muted.Render(shortID(e.ID))))
			lines = append(lines, field(st.Label.Render("Yesterday:"), e.Yesterday)...)
			lines = append(lines, field(st.Label.Render("Today:    "), e.Today)...)
			if e.Blockers != "" {
				lines = append(lines, field(st.Blocker.Render("Blockers: "), e.Blockers)...)
			}
		}
	}
	lines = append(lines, "", st.Muted.Render("Tip: record with `standup add`, delete with `standup rm <id>`"))
	return lines
}

// field renders label and a possibly multi-line value, indenting continuations.
func field(label, text string) []string {
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i == 0 {
			out = append(out, "    "+label+" "+p)
			continue
		}
		out = append(out, "               "+p)
	}
	return out
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
