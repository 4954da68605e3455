// ABOUTME: podctl commands for images, pods, volumes and networks
// ABOUTME: pull streams progress; the rest print tables

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/2389/podman-client/internal/libpod"
)

func (a *app) cmdPull(ctx context.Context, args []string) error {
	f, err := parseFlags(args, "arch", "os", "policy")
	if err != nil {
		return err
	}
	if len(f.positional) != 1 {
		return errors.New("usage: podctl pull [-q] [--all-tags] <reference>")
	}

	params := libpod.PullParams{
		Reference: f.positional[0],
		Quiet:     f.has("q", "quiet"),
		AllTags:   f.has("all-tags"),
		Arch:      f.value("arch"),
		OS:        f.value("os"),
		Policy:    f.value("policy"),
		Auth:      a.cfg.Registry.Auth,
	}

	progress := a.svc.Images.Pull(ctx, params)
	var pulled []string
	for p, err := range progress.All() {
		if err != nil {
			return err
		}
		if p.Error != "" {
			return fmt.Errorf("pull %s: %s", params.Reference, p.Error)
		}
		if p.Stream != "" {
			fmt.Print(p.Stream)
			if !strings.HasSuffix(p.Stream, "\n") {
				fmt.Println()
			}
		}
		pulled = append(pulled, p.Images...)
	}

	for _, id := range pulled {
		color.Green("%s\n", id)
	}
	return nil
}

func (a *app) cmdImages(ctx context.Context, args []string) error {
	f, err := parseFlags(args, "filter")
	if err != nil {
		return err
	}
	filters, err := f.filters()
	if err != nil {
		return err
	}

	images, err := a.svc.Images.List(ctx, libpod.ListImagesParams{All: f.has("a", "all"), Filters: filters})
	if err != nil {
		return err
	}
	if len(images) == 0 {
		fmt.Println("No images.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REPOSITORY:TAG\tID\tCREATED\tSIZE")
	for _, img := range images {
		tags := img.RepoTags
		if len(tags) == 0 {
			tags = []string{"<none>"}
		}
		for _, tag := range tags {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				tag, shortID(strings.TrimPrefix(img.ID, "sha256:")), ago(img.Created), humanSize(uint64(max(img.Size, 0))))
		}
	}
	return w.Flush()
}

func (a *app) cmdPods(ctx context.Context, args []string) error {
	f, err := parseFlags(args, "filter")
	if err != nil {
		return err
	}
	filters, err := f.filters()
	if err != nil {
		return err
	}

	pods, err := a.svc.Pods.List(ctx, libpod.ListPodsParams{Filters: filters})
	if err != nil {
		return err
	}
	if len(pods) == 0 {
		fmt.Println("No pods.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tCONTAINERS\tINFRA ID")
	for _, p := range pods {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			shortID(p.ID), p.Name, p.Status, len(p.Containers), shortID(p.InfraID))
	}
	return w.Flush()
}

func (a *app) cmdVolumes(ctx context.Context, args []string) error {
	f, err := parseFlags(args, "filter")
	if err != nil {
		return err
	}
	filters, err := f.filters()
	if err != nil {
		return err
	}

	volumes, err := a.svc.Volumes.List(ctx, libpod.ListVolumesParams{Filters: filters})
	if err != nil {
		return err
	}
	if len(volumes) == 0 {
		fmt.Println("No volumes.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDRIVER\tMOUNTS\tMOUNTPOINT")
	for _, v := range volumes {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", v.Name, v.Driver, v.MountCount, truncate(v.Mountpoint, 60))
	}
	return w.Flush()
}

func (a *app) cmdNetworks(ctx context.Context, args []string) error {
	f, err := parseFlags(args, "filter")
	if err != nil {
		return err
	}
	filters, err := f.filters()
	if err != nil {
		return err
	}

	networks, err := a.svc.Networks.List(ctx, libpod.ListNetworksParams{Filters: filters})
	if err != nil {
		return err
	}
	if len(networks) == 0 {
		fmt.Println("No networks.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDRIVER\tSUBNETS\tDNS")
	for _, n := range networks {
		subnets := make([]string, 0, len(n.Subnets))
		for _, s := range n.Subnets {
			subnets = append(subnets, s.Subnet)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n",
			shortID(n.ID), n.Name, n.Driver, strings.Join(subnets, ","), n.DNSEnabled)
	}
	return w.Flush()
}
