// ABOUTME: podctl container commands
// ABOUTME: ps, inspect, logs, stats, export, rm and exists

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/2389/podman-client/internal/libpod"
)

func (a *app) cmdPs(ctx context.Context, args []string) error {
	f, err := parseFlags(args, "filter", "limit")
	if err != nil {
		return err
	}
	filters, err := f.filters()
	if err != nil {
		return err
	}
	limit, err := f.intValue("limit")
	if err != nil {
		return err
	}

	containers, err := a.svc.Containers.List(ctx, libpod.ListContainersParams{
		All:     f.has("a", "all"),
		Limit:   limit,
		Filters: filters,
	})
	if err != nil {
		return err
	}

	if len(containers) == 0 {
		fmt.Println("No containers.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tIMAGE\tSTATE\tSTATUS\tPOD")
	for _, c := range containers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(c.ID), c.Name(), truncate(c.Image, 40), c.State, c.Status, c.PodName)
	}
	return w.Flush()
}

func (a *app) cmdInspect(ctx context.Context, args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if len(f.positional) != 1 {
		return errors.New("usage: podctl inspect [--size] <container>")
	}

	record, err := a.svc.Containers.Inspect(ctx, f.positional[0], libpod.InspectContainerParams{
		Size: f.has("s", "size"),
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func (a *app) cmdLogs(ctx context.Context, args []string) error {
	f, err := parseFlags(args, "tail", "since", "until")
	if err != nil {
		return err
	}
	if len(f.positional) != 1 {
		return errors.New("usage: podctl logs [-f] [--tail N] <container>")
	}

	lines := a.svc.Containers.Logs(ctx, f.positional[0], libpod.LogsParams{
		Follow:     f.has("f", "follow"),
		Tail:       f.value("tail"),
		Since:      f.value("since"),
		Until:      f.value("until"),
		Timestamps: f.has("t", "timestamps"),
	})
	defer lines.Close()

	for line, err := range lines.All() {
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		fmt.Println(line)
	}
	return nil
}

func (a *app) cmdStats(ctx context.Context, args []string) error {
	f, err := parseFlags(args, "interval")
	if err != nil {
		return err
	}
	interval, err := f.intValue("interval")
	if err != nil {
		return err
	}
	params := libpod.StatsParams{Containers: f.positional, Interval: interval}

	if !f.has("stream") {
		report, err := a.svc.Containers.Stats(ctx, params)
		if err != nil {
			return err
		}
		return printStats(os.Stdout, report)
	}

	stream := a.svc.Containers.StatsStream(ctx, params)
	defer stream.Close()
	for report, err := range stream.All() {
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := printStats(os.Stdout, report); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}

func printStats(out io.Writer, report libpod.StatsReport) error {
	if len(report.Error) > 0 && string(report.Error) != "null" {
		color.New(color.FgYellow).Fprintf(out, "warning: %s\n", report.Error)
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCPU %\tMEM USAGE / LIMIT\tMEM %\tNET IO\tBLOCK IO\tPIDS")
	for _, s := range report.Stats {
		fmt.Fprintf(w, "%s\t%s\t%.2f%%\t%s / %s\t%.2f%%\t%s / %s\t%s / %s\t%d\n",
			shortID(s.ContainerID), s.Name, s.CPU,
			humanSize(s.MemUsage), humanSize(s.MemLimit), s.MemPerc,
			humanSize(s.NetInput), humanSize(s.NetOutput),
			humanSize(s.BlockInput), humanSize(s.BlockOutput),
			s.PIDs)
	}
	return w.Flush()
}

func (a *app) cmdExport(ctx context.Context, args []string) (err error) {
	f, err := parseFlags(args, "o", "output")
	if err != nil {
		return err
	}
	if len(f.positional) != 1 {
		return errors.New("usage: podctl export <container> [-o FILE]")
	}

	target := f.value("o")
	if target == "" {
		target = f.value("output")
	}

	var out io.Writer = os.Stdout
	if target != "" && target != "-" {
		file, createErr := os.Create(target)
		if createErr != nil {
			return createErr
		}
		defer func() {
			if cerr := file.Close(); err == nil {
				err = cerr
			}
		}()
		out = file
	}

	chunks := a.svc.Containers.Export(ctx, f.positional[0])
	var written int64
	for chunk, err := range chunks.All() {
		if err != nil {
			return err
		}
		n, err := out.Write(chunk)
		written += int64(n)
		if err != nil {
			return err
		}
	}

	a.logger.Debug("export finished", "container", f.positional[0], "bytes", written)
	if target != "" && target != "-" {
		color.Green("Wrote %s to %s\n", humanSize(uint64(written)), target)
	}
	return nil
}

func (a *app) cmdRm(ctx context.Context, args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if len(f.positional) == 0 {
		return errors.New("usage: podctl rm [-f] [-v] <container...>")
	}
	params := libpod.DeleteContainerParams{
		Force:   f.has("f", "force"),
		Volumes: f.has("v", "volumes"),
	}

	results := libpod.Batch(ctx, libpod.DefaultBatchConcurrency, f.positional, func(ctx context.Context, name string) error {
		reports, err := a.svc.Containers.Delete(ctx, name, params)
		if err != nil {
			return err
		}
		var failures []string
		for _, r := range reports {
			if r.Err != "" {
				failures = append(failures, r.Err)
			}
		}
		if len(failures) > 0 {
			return errors.New(strings.Join(failures, "; "))
		}
		return nil
	})

	return reportBatch(results, "removed")
}

func (a *app) cmdExists(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: podctl exists <container...>")
	}

	var mu sync.Mutex
	found := make(map[string]bool, len(args))
	results := libpod.Batch(ctx, libpod.DefaultBatchConcurrency, args, func(ctx context.Context, name string) error {
		ok, err := a.svc.Containers.Exists(ctx, name)
		if err != nil {
			return err
		}
		mu.Lock()
		found[name] = ok
		mu.Unlock()
		return nil
	})

	green := color.New(color.FgGreen)
	gray := color.New(color.FgHiBlack)
	missing := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			return fmt.Errorf("%s: %w", r.Name, r.Err)
		case found[r.Name]:
			green.Printf("%s exists\n", r.Name)
		default:
			missing++
			gray.Printf("%s does not exist\n", r.Name)
		}
	}
	if missing > 0 {
		return errNotAllExist
	}
	return nil
}

var errNotAllExist = errors.New("some containers do not exist")

// reportBatch prints one line per result and returns the first failure.
func reportBatch(results []libpod.BatchResult, verb string) error {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	var first error
	for _, r := range results {
		if r.Err != nil {
			red.Printf("%s: %v\n", r.Name, r.Err)
			if first == nil {
				first = fmt.Errorf("%s: %w", r.Name, r.Err)
			}
			continue
		}
		green.Printf("%s %s\n", r.Name, verb)
	}
	return first
}
