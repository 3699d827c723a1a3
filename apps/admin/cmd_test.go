package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"testing"

	"github.com/flightcheck/backend/core"
	"github.com/flightcheck/backend/core/user"
	idsvc "github.com/flightcheck/backend/services/identity"
	inmemdb "github.com/flightcheck/backend/storage/database/inmem"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	// set up DB & repos
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	usrRepo = inmemdb.NewProfileRepository(db)

	conf := &core.Config{TestMode: true, BaseURL: "https://fc.example.com"}

	// start CLI
	return &commandLine{
		conf:   conf,
		usrSvc: user.NewService(usrRepo, idsvc.NewInmemService("secret"), conf),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "checkitems", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_setRole(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"setrole"}, wantErr: errHelp},
		{name: "user but no role", args: []string{"setrole", "-user", "u1"}, wantErr: errHelp},
		{name: "invalid role", args: []string{"setrole", "-user", "u1", "-role", "boss"}, wantErrStr: ""},
		{name: "promote to instructor", args: []string{"setrole", "-user", "u1", "-role", "instructor"}},
		{name: "case-insensitive role", args: []string{"setrole", "-user", "u2", "-role", "Admin"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if tt.name == "invalid role" {
				if err == nil {
					t.Error("cli.run() expected an error for an invalid role")
				}
				return
			}
			if err != nil {
				t.Fatalf("cli.run() unexpected error = %v", err)
			}
		})
	}

	prof, err := usrRepo.GetProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetProfile() failed: %v", err)
	}
	if prof.Role != user.RoleInstructor {
		t.Errorf("role = %q, want %q", prof.Role, user.RoleInstructor)
	}
	prof, err = usrRepo.GetProfile(context.Background(), "u2")
	if err != nil {
		t.Fatalf("GetProfile() failed: %v", err)
	}
	if prof.Role != user.RoleAdmin {
		t.Errorf("role = %q, want %q", prof.Role, user.RoleAdmin)
	}
}

func Test_commandLine_genQR(t *testing.T) {
	cli := setup(t)

	var gotPath string
	var gotData []byte
	writeFileFunc = func(name string, data []byte, perm os.FileMode) error {
		gotPath = name
		gotData = data
		return nil
	}

	tests := []cliTest{
		{name: "no args", args: []string{"genqr"}, wantErr: errHelp},
		{name: "student but no out", args: []string{"genqr", "-student", "u1"}, wantErr: errHelp},
		{name: "writes png", args: []string{"genqr", "-student", "u1", "-out", "u1.png"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("cli.run() unexpected error = %v", err)
			}
		})
	}

	if gotPath != "u1.png" {
		t.Errorf("wrote to %q, want %q", gotPath, "u1.png")
	}
	if !bytes.HasPrefix(gotData, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}
