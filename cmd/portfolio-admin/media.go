package main

import (
	"flag"
	"fmt"
	"strings"

	"portfolio-admin/internal/resource"
)

func runHero(a *app, args []string) error {
	fs := flag.NewFlagSet("hero", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `Usage: portfolio-admin hero [options] [show | set <file> | remove]

Show, replace or remove the profile image. set and remove need an admin
session.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch action := fs.Arg(0); action {
	case "", "show":
		hero := resource.NewHero(a.client)
		if err := hero.Load(a.ctx); err != nil {
			a.toaster.Failure("hero", "load profile image", err)
		}
		fmt.Fprintln(a.out, hero.ProfileImage())
		return nil

	case "set":
		if fs.NArg() < 2 {
			fs.Usage()
			return fmt.Errorf("image file is required")
		}
		file, err := a.openImage(fs.Arg(1))
		if err != nil {
			return err
		}
		d, err := a.openDashboard(*yes)
		if err != nil {
			return err
		}
		profile, err := d.ReplaceHeroImage(a.ctx, file)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, profile.ProfileImage)
		return nil

	case "remove":
		d, err := a.openDashboard(*yes)
		if err != nil {
			return err
		}
		removed, err := d.RemoveHeroImage(a.ctx)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Fprintln(a.out, "Cancelled.")
		}
		return nil

	default:
		fs.Usage()
		return fmt.Errorf("unknown hero action %q", action)
	}
}

func runImage(a *app, args []string) error {
	if len(args) < 1 || args[0] != "delete" {
		fmt.Fprintf(a.out, "Usage: portfolio-admin image delete [options] <filename>\n")
		return fmt.Errorf("image subcommand is required")
	}

	fs := flag.NewFlagSet("image delete", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: portfolio-admin image delete [options] <filename|url>\n\nDelete one stored upload.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("filename is required")
	}

	filename := fs.Arg(0)
	if i := strings.LastIndex(filename, "/"); i != -1 {
		filename = filename[i+1:]
	}

	d, err := a.openDashboard(*yes)
	if err != nil {
		return err
	}
	deleted, err := d.DeleteImage(a.ctx, filename)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(a.out, "Cancelled.")
	}
	return nil
}

func runCleanup(a *app, args []string) error {
	fs := flag.NewFlagSet("cleanup", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `Usage: portfolio-admin cleanup [options] [check | run]

check lists uploads no entry references. run deletes them after
confirmation and checks again.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	action := fs.Arg(0)
	if action == "" {
		action = "check"
	}
	if action != "check" && action != "run" {
		fs.Usage()
		return fmt.Errorf("unknown cleanup action %q", action)
	}

	d, err := a.openDashboard(*yes)
	if err != nil {
		return err
	}
	report, err := d.RefreshCleanup(a.ctx)
	if err != nil {
		return err
	}
	printReport(a, report.TotalFiles, report.UsedFiles, report.OrphanedFiles)

	if action == "check" {
		return nil
	}
	if !d.Cleanup.CanCleanup() {
		fmt.Fprintln(a.out, "Nothing to clean up.")
		return nil
	}

	_, ok, err := d.RunCleanup(a.ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if after, found := d.Cleanup.Last(); found {
		fmt.Fprintf(a.out, "Orphaned files remaining: %d\n", after.OrphanedCount)
	}
	return nil
}

func printReport(a *app, total, used int, orphaned []string) {
	fmt.Fprintf(a.out, "Total files:    %d\n", total)
	fmt.Fprintf(a.out, "Used files:     %d\n", used)
	fmt.Fprintf(a.out, "Orphaned files: %d\n", len(orphaned))
	for _, name := range orphaned {
		fmt.Fprintf(a.out, "  %s\n", name)
	}
}
