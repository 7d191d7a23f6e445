package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"leadhunt-engine/internal/runner"
)

const topCountries = 5

// RenderSummary prints the per-source breakdown and run totals.
func RenderSummary(w io.Writer, rep runner.Report) {
	st := rep.Result.Stats

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Run %s", rep.Metadata.RunID)
	t.AppendHeader(table.Row{"Source", "Leads", "With contact", "Contact rate"})

	names := make([]string, 0, len(st.SourcesBreakdown))
	for name := range st.SourcesBreakdown {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ss := st.SourcesBreakdown[name]
		t.AppendRow(table.Row{name, ss.Total, ss.WithContact, pct(ss.ContactRate)})
	}
	t.AppendFooter(table.Row{"Total", st.TotalLeads, st.ContactableLeads, pct(st.ContactRate)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()

	fmt.Fprintf(w, "Email types: direct %d, commit-mined %d, none %d\n",
		st.EmailTypes.Direct, st.EmailTypes.GitHubCommits, st.EmailTypes.None)
	if top := topN(st.Countries, topCountries); len(top) > 0 {
		fmt.Fprintf(w, "Top countries: %s\n", top)
	}
	fmt.Fprintf(w, "Sources: %d succeeded, %d failed", rep.Metadata.SourcesSucceeded, rep.Metadata.SourcesFailed)
	if len(rep.Metadata.FailedSources) > 0 {
		fmt.Fprintf(w, " %v", rep.Metadata.FailedSources)
	}
	fmt.Fprintf(w, "\nDuration: %.1fs\n", rep.Metadata.DurationSeconds)
	if rep.OutputDir != "" {
		fmt.Fprintf(w, "Results: %s\n", rep.OutputDir)
	}
	if rep.Added > 0 {
		fmt.Fprintf(w, "New leads stored: %d\n", rep.Added)
	}
}

func pct(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func topN(m map[string]int, n int) []string {
	type kv struct {
		k string
		v int
	}
	all := make([]kv, 0, len(m))
	for k, v := range m {
		all = append(all, kv{k, v})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].v != all[j].v {
			return all[i].v > all[j].v
		}
		return all[i].k < all[j].k
	})
	if len(all) > n {
		all = all[:n]
	}
	out := make([]string, 0, len(all))
	for _, e := range all {
		out = append(out, fmt.Sprintf("%s (%d)", e.k, e.v))
	}
	return out
}
