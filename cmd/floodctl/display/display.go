// Package display provides output formatting for floodctl.
//
// Every function renders either a table (text/tabwriter, sizes and counts
// through go-humanize) or indented JSON, depending on the global --output
// flag. Output goes to Out so tests can capture it.
package display

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/concave-dev/floodgate/cmd/floodctl/config"
	"github.com/concave-dev/floodgate/internal/logging"
	"github.com/concave-dev/floodgate/internal/wire"
	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"
)

// Out is where all command output is written
var Out io.Writer = os.Stdout

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	partialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// maxFailureRows caps the failures listed in table output. JSON output
// always carries every failure the result holds.
const maxFailureRows = 10

// DisplayHealth displays the health of a node
func DisplayHealth(h wire.Health) {
	if config.Global.Output == config.OutputJSON {
		encodeJSON(h)
		return
	}

	w := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Status:\t%s\n", h.Status)
	fmt.Fprintf(w, "Version:\t%s\n", h.Version)
	fmt.Fprintf(w, "Uptime:\t%s\n", h.Uptime)
	if config.Global.Verbose {
		fmt.Fprintf(w, "Timestamp:\t%s\n", h.Timestamp.Format(time.RFC3339))
	}
}

// DisplayStats displays the submitter, token pool and store counters of a node
func DisplayStats(s wire.NodeStats) {
	if config.Global.Output == config.OutputJSON {
		encodeJSON(s)
		return
	}

	w := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Node:\t%s\n", s.Node)
	fmt.Fprintf(w, "Mode:\t%s\n", s.Mode)
	fmt.Fprintf(w, "Batches:\t%s\n", humanize.Comma(s.Batches))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Token Pool:")
	fmt.Fprintf(w, "  Capacity:\t%d\n", s.Pool.Capacity)
	fmt.Fprintf(w, "  In Flight:\t%d (peak %d)\n", s.Pool.InFlight, s.Pool.PeakInFlight)
	if config.Global.Verbose {
		fmt.Fprintf(w, "  Acquired:\t%s\n", humanize.Comma(s.Pool.Acquired))
		fmt.Fprintf(w, "  Released:\t%s\n", humanize.Comma(s.Pool.Released))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Store:")
	fmt.Fprintf(w, "  Records:\t%s\n", humanize.Comma(int64(s.Store.Records)))
	fmt.Fprintf(w, "  Writes:\t%s\n", humanize.Comma(s.Store.Writes))
	fmt.Fprintf(w, "  Failures:\t%s\n", humanize.Comma(s.Store.Failures))
	fmt.Fprintf(w, "  Bytes:\t%s\n", humanize.Bytes(uint64(s.Store.Bytes)))
}

// DisplayMembers displays cluster members in tabular or JSON format
func DisplayMembers(members []wire.Member) {
	if config.Global.Output == config.OutputJSON {
		if members == nil {
			members = []wire.Member{}
		}
		encodeJSON(members)
		return
	}

	if len(members) == 0 {
		fmt.Fprintln(Out, "No cluster nodes found")
		return
	}

	w := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	if config.Global.Verbose {
		fmt.Fprintln(w, "ID\tNAME\tADDRESS\tAPI\tSTATUS\tROLE\tLAST SEEN")
	} else {
		fmt.Fprintln(w, "ID\tNAME\tAPI\tSTATUS\tLAST SEEN")
	}

	for _, m := range members {
		lastSeen := humanize.Time(m.LastSeen)
		if m.LastSeen.IsZero() {
			lastSeen = "-"
		}
		apiAddr := m.APIAddr
		if apiAddr == "" {
			apiAddr = "-"
		}

		if config.Global.Verbose {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				logging.FormatID(m.ID), m.Name, m.Address, apiAddr, m.Status, m.Tags["role"], lastSeen)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				logging.FormatID(m.ID), m.Name, apiAddr, m.Status, lastSeen)
		}
	}
}

// DisplayBatchResult displays the outcome of a batch, whether it ran on the
// node or from the CLI
func DisplayBatchResult(r wire.BatchResult) {
	if config.Global.Output == config.OutputJSON {
		encodeJSON(r)
		return
	}

	w := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Batch:\t%s\n", logging.FormatID(r.BatchID))
	fmt.Fprintf(w, "Result:\t%s\n", resultLabel(r))
	fmt.Fprintf(w, "Mode:\t%s (concurrency %d)\n", r.Mode, r.Concurrency)
	fmt.Fprintf(w, "Target:\t%s\n", r.Target)
	fmt.Fprintf(w, "Total:\t%s\n", humanize.Comma(int64(r.Total)))
	fmt.Fprintf(w, "Succeeded:\t%s\n", humanize.Comma(int64(r.Succeeded)))
	fmt.Fprintf(w, "Failed:\t%s (rejected %s, cancelled %s)\n",
		humanize.Comma(int64(r.Failed)), humanize.Comma(int64(r.Rejected)), humanize.Comma(int64(r.Cancelled)))

	elapsed := time.Duration(r.DurationMs) * time.Millisecond
	fmt.Fprintf(w, "Duration:\t%v\n", elapsed)
	if r.DurationMs > 0 {
		rate := float64(r.Succeeded) / elapsed.Seconds()
		fmt.Fprintf(w, "Throughput:\t%s writes/s\n", humanize.FormatFloat("#,###.#", rate))
	}
	w.Flush()

	if len(r.Failures) == 0 {
		return
	}

	fmt.Fprintln(Out)
	w = tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tERROR")
	for i, f := range r.Failures {
		if i == maxFailureRows && !config.Global.Verbose {
			fmt.Fprintf(w, "...\t%d more\n", len(r.Failures)-i)
			break
		}
		fmt.Fprintf(w, "%d\t%s\n", f.ID, f.Error)
	}
	if r.Truncated {
		fmt.Fprintln(w, "...\tfailure list truncated by the node")
	}
	w.Flush()
}

func resultLabel(r wire.BatchResult) string {
	switch {
	case r.Failed == 0:
		return okStyle.Render("ok")
	case r.Succeeded == 0:
		return failedStyle.Render("failed")
	default:
		return partialStyle.Render("partial")
	}
}

func encodeJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logging.Error("Failed to encode JSON: %v", err)
		fmt.Fprintln(Out, "Error encoding JSON output")
		return
	}
	fmt.Fprintln(Out, string(data))
}
