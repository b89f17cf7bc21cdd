// Command framedump decodes a zome frame stream and prints per-frame
// diagnostics.
//
// Usage:
//
//	framedump (-pixels N | -model path) [flags] < frames.bin
//
// Examples:
//
//	soundreactive zome_model.json | framedump -model zome_model.json -summary
//	framedump -pixels 420 -in capture.bin
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-zome/frame"
	"github.com/cwbudde/algo-zome/zome"
)

type stats struct {
	frames  int
	firstID uint32
	lastID  uint32
	gaps    int
}

func main() {
	pixels := flag.Int("pixels", 0, "pixels per frame")
	modelPath := flag.String("model", "", "take the pixel count from this model file")
	in := flag.String("in", "", "read frames from this file instead of stdin")
	summary := flag.Bool("summary", false, "print only the totals")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: framedump (-pixels N | -model path) [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Decodes a zome frame stream and prints per-frame diagnostics.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	n := *pixels
	if *modelPath != "" {
		m, err := zome.Load(*modelPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		n = m.NumPixels()
	}
	if n <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	var r io.Reader = os.Stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}

	st, err := dump(r, os.Stdout, n, *summary)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	if perr := printStats(os.Stdout, st); perr != nil {
		fmt.Fprintf(os.Stderr, "error: failed to write totals: %v\n", perr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func dump(r io.Reader, w io.Writer, numPixels int, summary bool) (stats, error) {
	var st stats

	fr, err := frame.NewReader(r, numPixels)
	if err != nil {
		return st, err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !summary {
		if _, err := fmt.Fprintf(tw, "Frame\tLit\tMean\tMax\tFirst Lit\n"); err != nil {
			return st, err
		}
	}

	px := make([]frame.RGBA, numPixels)
	for {
		id, err := fr.ReadFrame(px)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = tw.Flush()
			return st, fmt.Errorf("frame %d: %w", st.frames, err)
		}

		if st.frames == 0 {
			st.firstID = id
		} else if id != st.lastID+1 {
			st.gaps++
		}
		st.lastID = id
		st.frames++

		if summary {
			continue
		}
		lit, mean, peak, first := brightness(px)
		firstCol := "-"
		if first >= 0 {
			firstCol = fmt.Sprint(first)
		}
		if _, err := fmt.Fprintf(tw, "%d\t%d\t%.1f\t%d\t%s\n", id, lit, mean, peak, firstCol); err != nil {
			return st, err
		}
	}
	return st, tw.Flush()
}

// brightness reports how many pixels are not black, the mean and maximum of
// their brightest channel, and the index of the first lit pixel.
func brightness(px []frame.RGBA) (lit int, mean float64, peak uint8, first int) {
	first = -1
	sum := 0
	for i, c := range px {
		v := max(c.R, c.G, c.B)
		if v == 0 {
			continue
		}
		if first < 0 {
			first = i
		}
		lit++
		sum += int(v)
		peak = max(peak, v)
	}
	if lit > 0 {
		mean = float64(sum) / float64(lit)
	}
	return lit, mean, peak, first
}

func printStats(w io.Writer, st stats) error {
	if st.frames == 0 {
		_, err := fmt.Fprintln(w, "no frames")
		return err
	}
	_, err := fmt.Fprintf(w, "frames=%d ids=%d..%d gaps=%d\n", st.frames, st.firstID, st.lastID, st.gaps)
	return err
}
