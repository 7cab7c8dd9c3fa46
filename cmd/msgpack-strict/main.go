// Command msgpack-strict inspects canonical schema XML, checks CanReadFrom
// compatibility between two schemas, and queries a schemastore-backed
// version history, adapted from the source repository's daql command.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"
)

const usage = `usage: msgpack-strict [--dsn=<conn>] <command> [<args>]

Configuration flags:

   --dsn       Postgres connection string for the history/record commands.
               The environment variable MSGPACK_STRICT_DSN is used if this
               flag is not set.

Schema inspection commands
   text        Print a schema's canonical textual form
   xml         Round-trip a schema through canonical XML and print it
   compat      Check CanReadFrom compatibility between two schema XML files

Version history commands
   record      Compute and persist the next version of a named schema
   history     List a named schema's recorded version history

Other commands
   help        Display this help message
   repl        Run an interactive read-eval-print loop over these commands
`

var dsnFlag = pflag.String("dsn", os.Getenv("MSGPACK_STRICT_DSN"), "postgres connection string")

func main() {
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()
	log.SetFlags(0)
	args := pflag.Args()
	if len(args) == 0 {
		log.Printf("missing command\n\n")
		fmt.Print(usage)
		os.Exit(2)
	}
	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "text":
		err = textCmd(rest)
	case "xml":
		err = xmlCmd(rest)
	case "compat":
		err = compatCmd(rest)
	case "record":
		err = recordCmd(rest)
	case "history":
		err = historyCmd(rest)
	case "repl":
		err = repl(rest)
	case "help":
		fmt.Print(usage)
	default:
		log.Printf("unknown command: %s\n\n", cmd)
		fmt.Print(usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s error: %+v\n", cmd, err)
	}
}
