package main

import (
	"log"
	"os"

	"github.com/flightcheck/backend/core"
	"github.com/flightcheck/backend/core/user"
	idsvc "github.com/flightcheck/backend/services/identity"
	logsvc "github.com/flightcheck/backend/services/logger"
	"github.com/flightcheck/backend/storage/database"
	sqlxrepos "github.com/flightcheck/backend/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	// set up services
	rollbarLogger := logsvc.NewRollbarLogger(logger, conf)
	rollbarLogger.Enable(!conf.Debug)
	idp := idsvc.NewGotrueService(conf, rollbarLogger)
	usrSvc := user.NewService(sqlxrepos.NewProfileRepository(db), idp, conf)

	// start CLI
	cli := commandLine{
		conf:   conf,
		db:     db.DB,
		usrSvc: usrSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
