// Package waveform renders probe values across cycles as a timing diagram.
package waveform

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/roach88/syncrim/internal/ir"
	"github.com/roach88/syncrim/internal/store"
)

// Default image size.
const (
	Width  = 8 * vg.Inch
	Height = 4 * vg.Inch
)

// ErrNoSeries is returned when there is nothing to draw.
var ErrNoSeries = errors.New("waveform: no probe series")

// Series is one probe's value per cycle; Values[i] is cycle First+i.
type Series struct {
	ID     string
	First  int
	Values []ir.Signal
}

// FromCycles collects one Series per probe from recorded cycles, in the
// probe order of the first cycle. Cycles must be sorted and contiguous.
func FromCycles(cycles []store.Cycle) []Series {
	if len(cycles) == 0 {
		return nil
	}

	series := make([]Series, len(cycles[0].Probes))
	index := make(map[string]int, len(series))
	for i, p := range cycles[0].Probes {
		series[i] = Series{ID: p.ID, First: cycles[0].Cycle}
		index[p.ID] = i
	}
	for _, c := range cycles {
		for _, p := range c.Probes {
			if i, ok := index[p.ID]; ok {
				series[i].Values = append(series[i].Values, p.Value)
			}
		}
	}
	return series
}

// Render draws series as step lines and writes the image in format
// ("png", "svg", "pdf", ...).
func Render(w io.Writer, title string, series []Series, format string) error {
	p, err := newPlot(title, series)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(Width, Height, format)
	if err != nil {
		return fmt.Errorf("waveform: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("waveform: write: %w", err)
	}
	return nil
}

// Save renders series to path; the extension selects the format.
func Save(path, title string, series []Series) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		return fmt.Errorf("waveform: %s has no extension to pick a format", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("waveform: %w", err)
	}
	if err := Render(f, title, series, format); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func newPlot(title string, series []Series) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, ErrNoSeries
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "cycle"
	p.Y.Label.Text = "value"
	p.Legend.Top = true

	for i, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		line, err := plotter.NewLine(stepPoints(s))
		if err != nil {
			return nil, fmt.Errorf("waveform: probe %s: %w", s.ID, err)
		}
		line.StepStyle = plotter.PostStep
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		p.Add(line)
		p.Legend.Add(s.ID, line)
	}
	return p, nil
}

// stepPoints holds each value for a full cycle, so the last value gets
// a closing point one cycle later.
func stepPoints(s Series) plotter.XYs {
	pts := make(plotter.XYs, len(s.Values)+1)
	for i, v := range s.Values {
		pts[i].X = float64(s.First + i)
		pts[i].Y = float64(v)
	}
	last := len(s.Values)
	pts[last].X = float64(s.First + last)
	pts[last].Y = float64(s.Values[last-1])
	return pts
}
