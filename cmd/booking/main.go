// Command booking is the runner-side client of the marathon API: it lists
// open events, edits a registration draft file and drives the two-step
// registration wizard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"rcb-marathon/pkg/client"
	"rcb-marathon/pkg/common/config"
)

const usage = `usage: booking <command> [flags]

commands:
  events   list events and their categories
  set      set fields of a draft file: set <draft> <field> <value> ...
  show     print a draft file: show <draft>
  submit   log in and submit the registration in a draft file
  status   print a registration confirmation: status -id N
`

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	api, err := client.New(cfg.Client)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing API client")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "events":
		err = runEvents(ctx, api, args)
	case "set":
		err = runSet(args)
	case "submit":
		err = runSubmit(ctx, api, args)
	case "show":
		err = runShow(os.Stdout, args)
	case "status":
		err = runStatus(ctx, api, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal().Err(err).Str("command", cmd).Msg("Command failed")
	}
}
