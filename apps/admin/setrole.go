package main

import (
	"context"

	"github.com/flightcheck/backend/core"
)

// setRole upserts the profile row with the given role.
func (cli *commandLine) setRole(userID, role string) error {
	userID = core.CleanString(userID)
	role = core.CleanString(role, true /* lower */)
	return cli.usrSvc.SetRole(context.Background(), userID, role)
}
