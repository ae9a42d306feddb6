package cmd

import (
	"flag"

	"github.com/etnz/finance/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line of fin for shell completion.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, e := range commands {
		f := flag.NewFlagSet(e.cmd.Name(), flag.ContinueOnError)
		e.cmd.SetFlags(f)
		root.Sub[e.cmd.Name()] = &complete.Command{
			Flags: flagPredictors(f),
			Args:  argPredictors[e.cmd.Name()],
		}
	}
	return root
}

var kinds = predict.Set{"income", "expense"}

// argPredictors completes the positional arguments of some commands.
var argPredictors = map[string]complete.Predictor{
	"breakdown": kinds,
	"import":    predict.Files("*.json"),
	"category":  predict.Or(predict.Set{"add", "rename", "remove"}, kinds),
	"topic": complete.PredictFunc(func(prefix string) []string {
		names, _ := docs.All()
		return names
	}),
}

// flagPredictors completes the flags of f: file names for paths, known values
// for enumerations and anything otherwise.
func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	f.VisitAll(func(fl *flag.Flag) {
		switch {
		case fl.Name == "format":
			flags[fl.Name] = predict.Set{"md", "text", "html"}
		case fl.Name == "r":
			flags[fl.Name] = predict.Set{"summary", "holdings", "trend", "log"}
		case fl.Name == "o" || fl.Name == "file" || fl.Name == "archive":
			flags[fl.Name] = predict.Files("*")
		case fl.DefValue == "false" || fl.DefValue == "true":
			flags[fl.Name] = predict.Nothing
		default:
			flags[fl.Name] = predict.Something
		}
	})
	return flags
}
