package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"

	"github.com/etnz/pfreport/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	sub := map[string]*complete.Command{}
	for _, c := range cmd.Commands {
		commander.Register(c, "")
		sub[c.Name()] = &complete.Command{Flags: map[string]complete.Predictor{
			"config": predict.Files("*.json"),
		}}
	}
	complete.Complete(name, &complete.Command{Sub: sub})

	flag.Parse()

	// a SIGINT during a slow metered fetch reports the shell convention
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	go func() {
		<-sigs
		os.Exit(int(cmd.ExitInterrupted))
	}()

	os.Exit(int(commander.Execute(context.Background())))
}
