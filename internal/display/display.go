// Package display renders atpath results for the terminal.
//
// The plain form of every listing matches the clipboard export text, so
// piping `atpath search` into a file gives the same content as --copy.
// With color on, headings are bold, files already covered by a matched
// folder are dimmed, and notifications are yellow.
package display

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/atpath/internal/export"
	"github.com/harrison/atpath/internal/models"
)

// ColorEnabled reports whether f is a terminal that should get color
func ColorEnabled(f *os.File) bool {
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Renderer writes results to out
type Renderer struct {
	out     io.Writer
	opts    export.Options
	heading *color.Color
	dim     *color.Color
	warn    *color.Color
}

// NewRenderer builds a renderer; colorOutput forces colors on or off
func NewRenderer(out io.Writer, colorOutput bool, opts export.Options) *Renderer {
	r := &Renderer{
		out:     out,
		opts:    opts,
		heading: color.New(color.Bold),
		dim:     color.New(color.Faint),
		warn:    color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{r.heading, r.dim, r.warn} {
		if colorOutput {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// SearchResults prints folder hits then file hits under headings.
// A sentinel result prints its message alone.
func (r *Renderer) SearchResults(results []models.SearchResult) {
	if len(results) == 1 && results[0].IsSentinel() {
		r.warn.Fprintln(r.out, results[0].Message)
		return
	}

	var folders, files []models.SearchResult
	for _, res := range results {
		if res.Type == models.TypeFolder {
			folders = append(folders, res)
		} else {
			files = append(files, res)
		}
	}

	if len(folders) > 0 {
		r.heading.Fprintln(r.out, export.FoldersHeading)
		for _, f := range folders {
			fmt.Fprintln(r.out, r.opts.Path(f.RelativePath, f.FullPath))
		}
	}
	if len(files) > 0 {
		if len(folders) > 0 {
			fmt.Fprintln(r.out)
		}
		r.heading.Fprintln(r.out, export.FilesHeading)
		for _, f := range files {
			line := r.opts.Path(f.RelativePath, f.FullPath)
			if f.Outside() {
				fmt.Fprintln(r.out, line)
			} else {
				r.dim.Fprintln(r.out, line)
			}
		}
	}
}

// Groups prints each expansion group under its source folder
func (r *Renderer) Groups(groups []models.ListedGroup) {
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		r.heading.Fprintf(r.out, "# %s (%d)\n", g.Source, len(g.Files))
		r.Paths(g.Files)
	}
}

// Paths prints entries one per line
func (r *Renderer) Paths(entries []models.PathEntry) {
	for _, e := range entries {
		fmt.Fprintln(r.out, r.opts.Path(e.RelativePath, e.FullPath))
	}
}

// Notifications prints advisory messages
func (r *Renderer) Notifications(notes []models.Notification) {
	for _, n := range notes {
		r.warn.Fprintf(r.out, "%s: %s\n", n.Level, n.Message)
	}
}

// Copied confirms a clipboard write
func (r *Renderer) Copied(lines int) {
	noun := "lines"
	if lines == 1 {
		noun = "line"
	}
	r.dim.Fprintf(r.out, "copied %d %s to clipboard\n", lines, noun)
}
