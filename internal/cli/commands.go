package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"multicalc/internal/calculator"
	"multicalc/internal/clipboard"
)

func newListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List calculators and their inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := e.state.Catalog()
			loc := e.state.Localizer()
			out := cmd.OutOrStdout()
			for _, id := range catalog.IDs() {
				def, _ := catalog.Lookup(id)
				fmt.Fprintf(out, "%-20s %s\n", id, def.Title(loc))
				for _, f := range def.Inputs {
					line := fmt.Sprintf("    --field %s=<%s>", f.Name, f.Kind)
					if len(f.Modes) > 0 {
						line += " (" + strings.Join(f.Modes, ", ") + ")"
					}
					fmt.Fprintln(out, line)
				}
				for _, lf := range def.Lists {
					fmt.Fprintf(out, "    --list %s=<%s>,...\n", lf.Name, lf.Kind)
				}
			}
			return nil
		},
	}
}

func newRunCmd(e *env) *cobra.Command {
	var (
		fields []string
		lists  []string
		copyIt bool
	)

	cmd := &cobra.Command{
		Use:   "run <calculator>",
		Short: "Run one calculator",
		Example: `  calc run circle --field radius=3 --field operation=area
  calc run basic-arithmetic --list number=1,2,3 --list operation=add,multiply
  calc run mean --list value=2,4,4,4,5,5,7,9`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if _, ok := e.state.Catalog().Lookup(id); !ok {
				return fmt.Errorf("unknown calculator %q (see calc list)", id)
			}

			src, err := parseFlags(fields, lists)
			if err != nil {
				return err
			}
			sink := newTextSink()
			outcome := e.state.Calculate(cmd.Context(), id, src, sink)
			sink.print(cmd.OutOrStdout())

			if copyIt && outcome == calculator.Computed {
				copied, err := clipboard.Copy(cmd.Context(), e.clipboard, sink.primary())
				if err != nil {
					e.logger.Warn("copy failed", zap.Error(err))
				} else if copied {
					fmt.Fprintln(cmd.ErrOrStderr(), e.state.Localizer().String("common.copied", "Copied!"))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "input as name=value (repeatable)")
	cmd.Flags().StringArrayVarP(&lists, "list", "l", nil, "list input as kind=v1,v2,... (repeatable)")
	cmd.Flags().BoolVar(&copyIt, "copy", false, "copy the result to the clipboard")
	return cmd
}

func newHistoryCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent calculations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, entry := range e.state.History() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", entry.Expression, entry.Result)
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget all recent calculations",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return e.state.ClearHistory()
		},
	})
	return cmd
}

func newThemeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the saved theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				var err error
				if args[0] == "toggle" {
					_, err = e.state.ToggleTheme()
				} else {
					err = e.state.SetTheme(args[0])
				}
				if err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.state.Theme())
			return nil
		},
	}
}

// flagSource serves --field and --list values as an InputSource.
type flagSource struct {
	fields map[string]string
	lists  map[string][]string
}

func parseFlags(fields, lists []string) (*flagSource, error) {
	src := &flagSource{fields: map[string]string{}, lists: map[string][]string{}}
	for _, f := range fields {
		name, value, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("--field %q: want name=value", f)
		}
		src.fields[name] = value
	}
	for _, l := range lists {
		kind, values, ok := strings.Cut(l, "=")
		if !ok || kind == "" {
			return nil, fmt.Errorf("--list %q: want kind=v1,v2,...", l)
		}
		src.lists[kind] = append(src.lists[kind], strings.Split(values, ",")...)
	}
	return src, nil
}

func (s *flagSource) ReadField(_, name string) string { return s.fields[name] }

func (s *flagSource) ReadFieldList(_, kind string) []string { return s.lists[kind] }

// textSink collects outputs for printing.
type textSink struct {
	order   []string
	outputs map[string]string
	visible map[string]bool
	labels  []string
	values  []float64
}

func newTextSink() *textSink {
	return &textSink{outputs: map[string]string{}, visible: map[string]bool{}}
}

func (s *textSink) WriteField(_, name, text string) {
	if _, seen := s.outputs[name]; !seen {
		s.order = append(s.order, name)
	}
	s.outputs[name] = text
}

func (s *textSink) SetVisible(_, name string, visible bool) { s.visible[name] = visible }

func (s *textSink) RenderSeries(labels []string, values []float64) {
	s.labels, s.values = labels, values
}

// primary is the text shown in the result slot, or the first output.
func (s *textSink) primary() string {
	if v, ok := s.outputs["result"]; ok {
		return v
	}
	if len(s.order) > 0 {
		return s.outputs[s.order[0]]
	}
	return ""
}

func (s *textSink) print(w io.Writer) {
	if len(s.order) == 1 && s.order[0] == "result" {
		fmt.Fprintln(w, s.outputs["result"])
	} else {
		for _, name := range s.order {
			fmt.Fprintf(w, "%s: %s\n", name, s.outputs[name])
		}
	}

	hidden := make([]string, 0, len(s.visible))
	for name, shown := range s.visible {
		if !shown {
			hidden = append(hidden, name)
		}
	}
	sort.Strings(hidden)
	for _, name := range hidden {
		fmt.Fprintf(w, "(%s hidden)\n", name)
	}

	for i, label := range s.labels {
		fmt.Fprintf(w, "  year %-6s %.2f\n", label, s.values[i])
	}
}
