package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/cdmi123/progress-report/internal/service"

	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	staff *service.StaffService
	sync  *service.SyncService
	out   io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  create-staff -name NAME -email EMAIL [-contact CONTACT] [-faculty] - create a staff member, password is prompted")
	fmt.Fprintln(cli.out, "  reconcile - rebuild every report from its course topics")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createStaffCmd := flag.NewFlagSet("create-staff", flag.ContinueOnError)
	createStaffCmd.SetOutput(cli.out)
	name := createStaffCmd.String("name", "", "The staff member's name.")
	email := createStaffCmd.String("email", "", "The staff member's login email. The password will be prompted next.")
	contact := createStaffCmd.String("contact", "", "Optional contact number.")
	faculty := createStaffCmd.Bool("faculty", false, "Create a faculty-scoped staff member instead of a global one.")

	switch args[1] {
	case "create-staff":
		if err := createStaffCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *name == "" || *email == "" {
			createStaffCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			createStaffCmd.Usage()
			return errHelp
		}
		return cli.createStaff(*name, *email, *contact, string(pwd), *faculty)
	case "reconcile":
		return cli.reconcile()
	default:
		cli.printUsage()
		return errHelp
	}
}
