// Command zomeinfo prints a summary of zome model files.
//
// Usage:
//
//	zomeinfo [flags] [model.json ...]
//
// Without arguments it reads zome_model.json from the working directory.
//
// Examples:
//
//	zomeinfo
//	zomeinfo -strands zome_model.json
//	zomeinfo -json zome_model.json > normalized.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/cwbudde/algo-zome/zome"
	"github.com/golang/geo/r3"
)

func main() {
	strands := flag.Bool("strands", false, "list every edge with its pixel ids")
	asJSON := flag.Bool("json", false, "print the normalized model as JSON instead of a summary")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: zomeinfo [flags] [model.json ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints pixel, topology and timing information of zome models.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, reads %s.\n\n", zome.DefaultPath)
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{zome.DefaultPath}
	}

	status := 0
	for i, path := range paths {
		m, err := zome.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			status = 1
			continue
		}

		if *asJSON {
			if err := printJSON(os.Stdout, m); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				status = 1
			}
			continue
		}

		if i > 0 {
			fmt.Println()
		}
		if err := printSummary(os.Stdout, path, m); err != nil {
			fmt.Fprintf(os.Stderr, "error: failed to write summary: %v\n", err)
			os.Exit(1)
		}
		if *strands {
			fmt.Println()
			if err := printStrands(os.Stdout, m); err != nil {
				fmt.Fprintf(os.Stderr, "error: failed to write strands: %v\n", err)
				os.Exit(1)
			}
		}
	}
	os.Exit(status)
}

func printJSON(w io.Writer, m *zome.Model) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

func printSummary(w io.Writer, path string, m *zome.Model) error {
	empty := 0
	for _, p := range m.Pixels() {
		if !p.Valid {
			empty++
		}
	}
	sidedNodes, sidedEdges := m.SidedCounts()
	lo, hi := m.Bounds()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Model", path},
		{"Pixels", fmt.Sprintf("%d (%d empty)", m.NumPixels(), empty)},
		{"Nodes", fmt.Sprintf("%d (%d sided)", len(m.Nodes()), sidedNodes)},
		{"Edges", fmt.Sprintf("%d (%d sided)", len(m.Edges()), sidedEdges)},
		{"FPS", fmt.Sprintf("%d", m.FPS())},
		{"Frame size", fmt.Sprintf("%d bytes", m.FrameSize())},
		{"Data rate", fmt.Sprintf("%d bytes/s", m.FrameSize()*m.FPS())},
		{"Bounds", fmt.Sprintf("%s .. %s", formatPoint(lo), formatPoint(hi))},
		{"Center", formatPoint(m.Center())},
		{"Height", fmt.Sprintf("%.3f", m.Height())},
		{"Width X", fmt.Sprintf("%.3f", m.WidthX())},
		{"Width Y", fmt.Sprintf("%.3f", m.WidthY())},
	}
	for _, key := range sortedKeys(m.Options()) {
		rows = append(rows, [2]string{"Option " + key, fmt.Sprint(m.Options()[key])})
	}

	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printStrands(w io.Writer, m *zome.Model) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Edge\tStart\tEnd\tOther Side\tPixels\tIDs\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "----\t-----\t---\t----------\t------\t---\n"); err != nil {
		return err
	}

	for _, e := range m.Edges() {
		other := "-"
		if e.OtherSide >= 0 {
			other = fmt.Sprint(e.OtherSide)
		}
		if _, err := fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%d\t%s\n",
			e.ID, e.StartNode, e.EndNode, other, len(e.Pixels), formatIDs(e.Pixels)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func formatPoint(p r3.Vector) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", p.X, p.Y, p.Z)
}

func formatIDs(ids []int) string {
	switch len(ids) {
	case 0:
		return "-"
	case 1, 2, 3:
		return fmt.Sprint(ids)
	}
	return fmt.Sprintf("[%d %d .. %d]", ids[0], ids[1], ids[len(ids)-1])
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
