// ABOUTME: podctl commands that talk to the service as a whole
// ABOUTME: ping, version, info and the event stream

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/2389/podman-client/internal/libpod"
)

func (a *app) cmdPing(ctx context.Context) error {
	start := time.Now()
	res, err := a.svc.System.Ping(ctx)
	if err != nil {
		return err
	}
	color.Green("%s (%s)\n", res.Body, time.Since(start).Round(time.Microsecond))
	if res.APIVersion != "" {
		fmt.Printf("API version:     %s\n", res.APIVersion)
	}
	if res.BuildahVersion != "" {
		fmt.Printf("Buildah version: %s\n", res.BuildahVersion)
	}
	return nil
}

func (a *app) cmdVersion(ctx context.Context) error {
	v, err := a.svc.System.Version(ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	cyan.Println("Client:")
	fmt.Printf("  Version:     %s\n", version)
	fmt.Printf("  API version: %s\n", a.client.APIVersion())
	fmt.Println()
	cyan.Println("Server:")
	fmt.Printf("  Version:     %s\n", v.Version)
	fmt.Printf("  API version: %s (min %s)\n", v.APIVersion, v.MinAPIVersion)
	fmt.Printf("  Go version:  %s\n", v.GoVersion)
	fmt.Printf("  OS/Arch:     %s/%s\n", v.Os, v.Arch)
	if v.GitCommit != "" {
		fmt.Printf("  Git commit:  %s\n", v.GitCommit)
	}
	return nil
}

func (a *app) cmdInfo(ctx context.Context) error {
	info, err := a.svc.System.Info(ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	cyan.Println("Host:")
	fmt.Printf("  Hostname: %s\n", info.Host.Hostname)
	fmt.Printf("  OS/Arch:  %s/%s\n", info.Host.OS, info.Host.Arch)
	fmt.Printf("  Kernel:   %s\n", info.Host.Kernel)
	fmt.Printf("  CPUs:     %d\n", info.Host.CPUs)
	fmt.Printf("  Memory:   %s free of %s\n", humanSize(uint64(info.Host.MemFree)), humanSize(uint64(info.Host.MemTotal)))
	fmt.Printf("  Cgroups:  %s\n", info.Host.CgroupVersion)
	fmt.Printf("  Network:  %s\n", info.Host.NetworkBackend)
	fmt.Printf("  Rootless: %t\n", info.Host.Security.Rootless)
	fmt.Println()
	cyan.Println("Store:")
	fmt.Printf("  Driver:     %s\n", info.Store.GraphDriverName)
	fmt.Printf("  Graph root: %s\n", info.Store.GraphRoot)
	cs := info.Store.ContainerStore
	fmt.Printf("  Containers: %d (%d running, %d paused, %d stopped)\n", cs.Number, cs.Running, cs.Paused, cs.Stopped)
	fmt.Printf("  Images:     %d\n", info.Store.ImageStore.Number)
	fmt.Println()
	cyan.Println("Version:")
	fmt.Printf("  Podman: %s (API %s)\n", info.Version.Version, info.Version.APIVersion)
	return nil
}

func (a *app) cmdEvents(ctx context.Context, args []string) error {
	f, err := parseFlags(args, "since", "until", "filter")
	if err != nil {
		return err
	}
	filters, err := f.filters()
	if err != nil {
		return err
	}

	params := libpod.EventsParams{
		Since:   f.value("since"),
		Until:   f.value("until"),
		Filters: filters,
	}
	if params.Until != "" {
		stream := false
		params.Stream = &stream
	}

	events := a.svc.System.Events(ctx, params)
	defer events.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for ev, err := range events.All() {
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		ts := time.Unix(0, ev.TimeNano)
		if ev.TimeNano == 0 {
			ts = time.Unix(ev.Time, 0)
		}
		name := ev.Actor.Attributes["name"]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ts.Format(time.RFC3339),
			ev.Type, ev.Action, shortID(ev.Actor.ID), name)
		w.Flush()
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
