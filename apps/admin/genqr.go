package main

import (
	"os"

	"github.com/flightcheck/backend/core/qr"
)

var writeFileFunc = os.WriteFile // mockable

// genQR writes a student's QR code to a PNG file for printing.
func (cli *commandLine) genQR(studentID, out string, size int) error {
	png, err := qr.PNG(qr.StudentURL(cli.conf.BaseURL, studentID), size)
	if err != nil {
		return err
	}
	return writeFileFunc(out, png, 0o644)
}
