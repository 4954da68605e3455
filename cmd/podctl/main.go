// ABOUTME: Entry point for podctl, a command line client for the podman REST API
// ABOUTME: Dispatches subcommands against the podman service socket

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                 _      _   _
 _ __   ___   __| | ___| |_| |
| '_ \ / _ \ / _' |/ __| __| |
| |_) | (_) | (_| | (__| |_| |
| .__/ \___/ \__,_|\___|\__|_|
|_|
`

func main() {
	args := os.Args[1:]
	var configPath string
	for len(args) >= 2 && (args[0] == "--config" || args[0] == "-c") {
		configPath = args[1]
		args = args[2:]
	}

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := args[0]
	args = args[1:]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return
	}
	if cmd == "--version" {
		fmt.Println(version)
		return
	}

	a, err := newApp(configPath)
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	switch cmd {
	case "ping":
		err = a.cmdPing(ctx)
	case "version":
		err = a.cmdVersion(ctx)
	case "info":
		err = a.cmdInfo(ctx)
	case "ps":
		err = a.cmdPs(ctx, args)
	case "inspect":
		err = a.cmdInspect(ctx, args)
	case "logs":
		err = a.cmdLogs(ctx, args)
	case "events":
		err = a.cmdEvents(ctx, args)
	case "stats":
		err = a.cmdStats(ctx, args)
	case "pull":
		err = a.cmdPull(ctx, args)
	case "export":
		err = a.cmdExport(ctx, args)
	case "rm":
		err = a.cmdRm(ctx, args)
	case "exists":
		err = a.cmdExists(ctx, args)
	case "images":
		err = a.cmdImages(ctx, args)
	case "pods":
		err = a.cmdPods(ctx, args)
	case "volumes":
		err = a.cmdVolumes(ctx, args)
	case "networks":
		err = a.cmdNetworks(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		a.Close()
		os.Exit(1)
	}

	if err != nil {
		printError(os.Stderr, err, a.client.SocketPath())
		a.Close()
		os.Exit(exitCode(err))
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: podctl [--config PATH] <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  ping                        Check that the podman service answers")
	fmt.Println("  version                     Show podman component versions")
	fmt.Println("  info                        Show host and storage information")
	fmt.Println("  ps [-a] [--filter k=v]      List containers")
	fmt.Println("  inspect <container>         Show a container's inspect record")
	fmt.Println("  logs [-f] [--tail N] <ctr>  Print container logs")
	fmt.Println("  events [--filter k=v]       Follow the event stream")
	fmt.Println("  stats [--stream] [ctr...]   Show container resource usage")
	fmt.Println("  pull <reference>            Pull an image")
	fmt.Println("  export <ctr> [-o FILE]      Export a container filesystem as tar")
	fmt.Println("  rm [-f] <ctr...>            Remove containers")
	fmt.Println("  exists <ctr...>             Check whether containers exist")
	fmt.Println("  images                      List images")
	fmt.Println("  pods                        List pods")
	fmt.Println("  volumes                     List volumes")
	fmt.Println("  networks                    List networks")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  PODCTL_CONFIG               Config file (default: $XDG_CONFIG_HOME/podctl/config.yaml)")
	fmt.Println("  PODMAN_SOCKET               Socket path when the config sets none")
	fmt.Println()
}
