package main

import (
	"errors"
	"flag"
	"fmt"
)

var errLoginFailed = errors.New("invalid username or password")

func runLogin(a *app, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("username", "", "Admin username (prompted when empty)")
	password := fs.String("password", "", "Admin password (prompted when empty)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: portfolio-admin login [options]\n\nStart an admin session.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *username == "" {
		if *username, err = a.readLine("Username: "); err != nil {
			return fmt.Errorf("reading username: %w", err)
		}
	}
	if *password == "" {
		if *password, err = a.readLine("Password: "); err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
	}

	if !a.session.Login(a.ctx, *username, *password) {
		return errLoginFailed
	}
	fmt.Fprintln(a.out, "Logged in as admin.")
	return nil
}

func runLogout(a *app, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: portfolio-admin logout\n\nEnd the admin session.\n")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	a.session.Logout(a.ctx)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func runStatus(a *app, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: portfolio-admin status\n\nShow the session state and API endpoint.\n")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	state := "not logged in"
	if a.session.IsAdmin() {
		state = "logged in as admin"
	}
	fmt.Fprintf(a.out, "Session:  %s\n", state)
	fmt.Fprintf(a.out, "Backend:  %s\n", a.cfg.SessionBackend)
	fmt.Fprintf(a.out, "API:      %s\n", a.client.BaseURL())
	return nil
}
