package main

import (
	"io"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/anrid/japan-co2/pkg/co2"
	"github.com/anrid/japan-co2/pkg/view"
)

var (
	showSelect string
	showLevel  string
	showDump   bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print reduction progress by prefecture, or the view for a selection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}

		for _, path := range ds.Inconsistent() {
			logger.Warn("stored status disagrees with reduction", zap.String("region", path))
		}

		out := cmd.OutOrStdout()
		if showDump {
			spew.Fdump(out, ds)
			return nil
		}

		if showSelect == "" {
			printRanking(out, ds)
			return nil
		}

		s := view.New()
		s.SelectRegion(showSelect)
		s.SetViewLevel(view.Level(showLevel))
		printProjection(out, s.Project(ds))
		return nil
	},
}

func init() {
	showCmd.Flags().StringVarP(&showSelect, "select", "s", "", "prefecture to select")
	showCmd.Flags().StringVarP(&showLevel, "level", "l", string(view.LevelPrefecture), "view level (prefecture or city)")
	showCmd.Flags().BoolVar(&showDump, "dump", false, "dump the dataset structure")
}

// printRanking lists prefectures by progress towards their target.
func printRanking(w io.Writer, ds *co2.Dataset) {
	prefs := make([]*co2.Prefecture, 0, len(ds.Prefectures))
	for _, id := range ds.PrefectureIDs() {
		prefs = append(prefs, ds.Prefectures[id])
	}
	sort.SliceStable(prefs, func(i, j int) bool {
		return prefs[i].Reduction/prefs[i].Target > prefs[j].Reduction/prefs[j].Target
	})

	p := message.NewPrinter(language.English)

	p.Fprintf(w, "\nCO₂ Reduction Status in Japan (%d prefectures, %d cities)\n\n", len(prefs), ds.CityCount())
	p.Fprintln(w, "By Prefecture, Progress Towards Target:")

	for i, pref := range prefs {
		p.Fprintf(w, "%02d. %-12s  --  %5.1f%% / %5.1f%%  %3d%%  %-9s  %12d\n",
			i+1, pref.Name,
			pref.Reduction, pref.Target, pref.Progress(), pref.Status, pref.Population,
		)
		for _, cityID := range pref.CityIDs() {
			c := pref.Cities[cityID]
			p.Fprintf(w, "      %-12s  %5.1f%% / %5.1f%%  %3d%%  %s\n",
				c.Name, c.Reduction, c.Target, c.Progress(), c.Status)
		}
	}
}

func printProjection(w io.Writer, pr view.Projection) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "\n%s\n\n", pr.Title)

	items := pr.Prefectures
	if pr.Level == view.LevelCity {
		items = pr.Cities
	}
	if len(items) == 0 {
		p.Fprintln(w, "No data available")
	}
	for _, it := range items {
		marker := " "
		if it.Highlighted {
			marker = "*"
		}
		p.Fprintf(w, "%s %-12s  %5.1f%%  target %5.1f%%  %s\n", marker, it.Name, it.Reduction, it.Target, it.Status)
	}

	if r := pr.Summary; r != nil {
		p.Fprintf(w, "\n%s: %.1f%% of %.1f%% (%d%%), population %d\n",
			r.Name, r.Reduction, r.Target, r.Progress(), r.Population)
	}
}
