package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/valyala/bytebufferpool"

	"github.com/idelchi/dirinfo/internal/dirinfo"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// sizeUnits are the suffixes used by FormatSize, in steps of 1024.
//
//nolint:gochecknoglobals // Lookup table
var sizeUnits = [...]string{"B", "Kb", "Mb", "Gb", "Tb"}

// FormatSize renders a byte count with the largest unit (up to Tb) that keeps
// the value at or above 1. Plain bytes are printed as integers, scaled values
// with two decimals.
func FormatSize(size int64) string {
	unit := 0
	value := float64(size)

	for unit < len(sizeUnits)-1 && value >= 1024 {
		value /= 1024
		unit++
	}

	if unit == 0 {
		return fmt.Sprintf("%d %s", size, sizeUnits[0])
	}

	return fmt.Sprintf("%.2f %s", value, sizeUnits[unit])
}

// render lets fn write into a pooled buffer and copies the result to writer in one call.
func render(writer io.Writer, fn func(w io.Writer) error) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := fn(buf); err != nil {
		return err
	}

	_, err := writer.Write(buf.B)

	return err
}

// PrintSummary writes the root path and the totals of the whole tree.
func PrintSummary(res *dirinfo.Result, writer io.Writer) error {
	return render(writer, func(w io.Writer) error {
		writeSummary(w, res)

		return nil
	})
}

// PrintDetails writes the direct-file totals of every directory in path order.
func PrintDetails(res *dirinfo.Result, writer io.Writer) error {
	return render(writer, func(w io.Writer) error {
		writeDetails(w, res)

		return nil
	})
}

// PrintText writes the summary followed by the details.
func PrintText(res *dirinfo.Result, writer io.Writer) error {
	return render(writer, func(w io.Writer) error {
		writeSummary(w, res)
		writeDetails(w, res)

		return nil
	})
}

func writeSummary(w io.Writer, res *dirinfo.Result) {
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintln(w, res.Root)
	fmt.Fprintf(w, "Files: %d Folders: %d Size: %s (%d)\n",
		res.Summary.FileCount, res.Folders(), FormatSize(res.Summary.TotalSize), res.Summary.TotalSize)
}

func writeDetails(w io.Writer, res *dirinfo.Result) {
	fmt.Fprintln(w, "Details:")

	res.Ascend(func(entry dirinfo.DirEntry) bool {
		fmt.Fprintln(w, entry.Path)
		fmt.Fprintf(w, "Files: %d Size: %s (%d B)\n",
			entry.FileCount, FormatSize(entry.TotalSize), entry.TotalSize)

		return true
	})
}

// PrintJSON outputs statistics in JSON format.
func PrintJSON(res *dirinfo.Result, writer io.Writer) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintTable outputs statistics as an aligned table with binary size units.
func PrintTable(res *dirinfo.Result, writer io.Writer) error {
	return render(writer, func(out io.Writer) error {
		w := tabwriter.NewWriter(out, 0, 4, TabSpacing, ' ', 0)

		fmt.Fprintln(w, "Directories:\t\t\t")

		res.Ascend(func(entry dirinfo.DirEntry) bool {
			pct := 0.0
			if res.Summary.TotalSize > 0 {
				pct = 100.0 * float64(entry.TotalSize) / float64(res.Summary.TotalSize)
			}

			fmt.Fprintf(w, "  '%s'\t%d files\t%s (%.1f%%)\n",
				entry.Path, entry.FileCount, humanize.IBytes(uint64(entry.TotalSize)), pct) //nolint:gosec // Sizes are never negative

			return true
		})

		fmt.Fprintln(w, "\nStats:\t\t\t")
		fmt.Fprintf(w, "Root:\t%s\n", res.Root)
		fmt.Fprintf(w, "Total files:\t%d\n", res.Summary.FileCount)
		fmt.Fprintf(w, "Total folders:\t%d\n", res.Folders())
		fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n",
			humanize.IBytes(uint64(res.Summary.TotalSize)), res.Summary.TotalSize) //nolint:gosec // Sizes are never negative
		fmt.Fprintf(w, "Skipped:\t%d\n", res.Skipped)

		fmt.Fprintf(w, "\nElapsed:\t%v\n", res.Elapsed)

		return w.Flush()
	})
}
