package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/noah-isme/sis-api/internal/models"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type adminCreator interface {
	Create(ctx context.Context, req models.CreateStaffRequest) (*models.AdminDetail, error)
}

type migrateFunc func(ctx context.Context, db *sql.DB, command string, args ...string) error

type commandLine struct {
	db      *sql.DB
	admins  adminCreator
	migrate migrateFunc
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, up-to, down, down-to, redo, reset, status, version)")
	fmt.Fprintln(cli.out, "  createadmin -username USERNAME -email EMAIL -first FIRST -last LAST -contact 09XXXXXXXXX - create an admin account, the password is prompted next")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		if err := cli.migrate(ctx, cli.db, args[2], args[3:]...); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "migrate %s: done\n", args[2])
		return nil
	case "createadmin":
		return cli.createAdmin(ctx, args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) createAdmin(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("createadmin", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	username := cmd.String("username", "", "Login name of the admin.")
	email := cmd.String("email", "", "Email address of the admin.")
	first := cmd.String("first", "", "First name.")
	middle := cmd.String("middle", "", "Middle name (optional).")
	last := cmd.String("last", "", "Last name.")
	contact := cmd.String("contact", "", "Contact number formatted as 09XXXXXXXXX.")
	if err := cmd.Parse(args); err != nil {
		return errHelp
	}
	if *username == "" || *email == "" || *first == "" || *last == "" || *contact == "" {
		cmd.Usage()
		return errHelp
	}

	pwd, err := cli.promptPassword("Enter password: ")
	if err != nil {
		return err
	}
	if pwd == "" {
		cmd.Usage()
		return errHelp
	}
	confirm, err := cli.promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if pwd != confirm {
		return errors.New("passwords do not match")
	}

	req := models.CreateStaffRequest{
		Username:  *username,
		Password:  pwd,
		Email:     *email,
		FirstName: *first,
		LastName:  *last,
		ContactNo: *contact,
	}
	if m := strings.TrimSpace(*middle); m != "" {
		req.MiddleName = &m
	}

	admin, err := cli.admins.Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "admin %s created (%s)\n", admin.Username, admin.ID)
	return nil
}

func (cli *commandLine) promptPassword(prompt string) (string, error) {
	fmt.Fprint(cli.out, prompt)
	raw, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
