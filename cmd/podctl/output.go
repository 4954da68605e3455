// ABOUTME: Output helpers for podctl: error reporting by kind, tables and flag parsing
// ABOUTME: Keeps the command files focused on the podman calls

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/2389/podman-client/internal/podman"
)

// printError explains a failure in terms of where it happened.
func printError(w io.Writer, err error, socketPath string) {
	red := color.New(color.FgRed, color.Bold)
	gray := color.New(color.FgHiBlack)

	kind, ok := podman.KindOf(err)
	if !ok {
		red.Fprintf(w, "Error: %v\n", err)
		return
	}

	red.Fprintf(w, "Error (%s): ", kind)
	var (
		te *podman.TransportError
		de *podman.DaemonError
		re *podman.RequestError
		ce *podman.CodecError
	)
	switch {
	case errors.As(err, &de):
		fmt.Fprintf(w, "%s\n", de.Message)
		gray.Fprintf(w, "  cause: %s (status %d)\n", de.Cause, de.ResponseCode)
	case errors.As(err, &re):
		fmt.Fprintf(w, "%s\n", strings.TrimSpace(re.Message))
		gray.Fprintf(w, "  status: %d\n", re.StatusCode)
	case errors.As(err, &te):
		fmt.Fprintf(w, "%v\n", te.Err)
		if te.Op == "dial" {
			gray.Fprintf(w, "  is the podman service running? socket: %s\n", socketPath)
		}
	case errors.As(err, &ce):
		fmt.Fprintf(w, "%v\n", ce)
	default:
		fmt.Fprintf(w, "%v\n", err)
	}
}

// exitCode maps error kinds to process exit codes.
func exitCode(err error) int {
	switch {
	case errors.Is(err, podman.ErrNotFound):
		return 2
	case errors.Is(err, podman.ErrConflict):
		return 3
	}
	if kind, ok := podman.KindOf(err); ok && kind == podman.KindTransport {
		return 4
	}
	return 1
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// humanSize formats a byte count with binary units.
func humanSize(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func ago(unix int64) string {
	if unix <= 0 {
		return "-"
	}
	d := time.Since(time.Unix(unix, 0)).Round(time.Second)
	return d.String() + " ago"
}

// flags is a minimal parser for "--name value" and boolean switches.
type flags struct {
	bools      map[string]bool
	values     map[string][]string
	positional []string
}

// parseFlags splits args. Names listed in valued take the following argument.
func parseFlags(args []string, valued ...string) (*flags, error) {
	f := &flags{bools: map[string]bool{}, values: map[string][]string{}}
	takesValue := map[string]bool{}
	for _, v := range valued {
		takesValue[v] = true
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			f.positional = append(f.positional, arg)
			continue
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if takesValue[name] {
			if !hasValue {
				if i+1 >= len(args) {
					return nil, fmt.Errorf("flag %s needs a value", arg)
				}
				i++
				value = args[i]
			}
			f.values[name] = append(f.values[name], value)
			continue
		}
		f.bools[name] = true
	}
	return f, nil
}

func (f *flags) has(names ...string) bool {
	for _, n := range names {
		if f.bools[n] {
			return true
		}
	}
	return false
}

func (f *flags) value(name string) string {
	if v := f.values[name]; len(v) > 0 {
		return v[len(v)-1]
	}
	return ""
}

func (f *flags) intValue(name string) (int, error) {
	v := f.value(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", name, err)
	}
	return n, nil
}

// filters collects repeated --filter key=value flags.
func (f *flags) filters() (podman.Filters, error) {
	raw := f.values["filter"]
	if len(raw) == 0 {
		return nil, nil
	}
	out := podman.Filters{}
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("filter %q must be key=value", kv)
		}
		out[k] = append(out[k], v)
	}
	return out, nil
}
