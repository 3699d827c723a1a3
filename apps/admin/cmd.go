package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/flightcheck/backend/core"
	"github.com/flightcheck/backend/core/user"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf   *core.Config
	db     *sql.DB
	usrSvc *user.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [args] - run a database migration command (up, down, status, ...)")
	fmt.Printf("  setrole -user ID -role ROLE - assign %s\n", strings.Join(user.AllRoles, "|"))
	fmt.Println("  genqr -student ID -out FILE [-size N] - write a student's QR code as PNG")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	setRoleCmd := flag.NewFlagSet("setrole", flag.ExitOnError)
	setRoleUser := setRoleCmd.String("user", "", "The account id at the identity provider.")
	setRoleRole := setRoleCmd.String("role", "", "One of "+strings.Join(user.AllRoles, ", ")+".")

	genQRCmd := flag.NewFlagSet("genqr", flag.ExitOnError)
	genQRStudent := genQRCmd.String("student", "", "The student's account id.")
	genQROut := genQRCmd.String("out", "", "The PNG file to write.")
	genQRSize := genQRCmd.Int("size", 256, "Edge length of the image in pixels.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "setrole":
		if err := setRoleCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setRoleUser == "" || *setRoleRole == "" {
			setRoleCmd.Usage()
			return errHelp
		}
		return cli.setRole(*setRoleUser, *setRoleRole)
	case "genqr":
		if err := genQRCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *genQRStudent == "" || *genQROut == "" {
			genQRCmd.Usage()
			return errHelp
		}
		return cli.genQR(*genQRStudent, *genQROut, *genQRSize)
	default:
		cli.printUsage()
		return errHelp
	}
}
