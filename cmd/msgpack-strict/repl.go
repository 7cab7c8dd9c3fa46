package main

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/peterh/liner"
)

func repl(args []string) error {
	lin := liner.NewLiner()
	defer lin.Close()
	lin.SetMultiLineMode(false)
	lin.SetCompleter(func(line string) []string {
		var out []string
		for _, c := range []string{"text ", "xml ", "compat ", "record ", "history ", "help", "quit"} {
			if strings.HasPrefix(c, line) {
				out = append(out, c)
			}
		}
		return out
	})
	var got string
	var err error
	for i := 0; ; i++ {
		if i == 0 {
			got, err = lin.PromptWithSuggestion("msgpack-strict> ", "compat ", 6)
		} else {
			got, err = lin.Prompt("msgpack-strict> ")
		}
		if err != nil {
			if err == io.EOF {
				fmt.Println()
				return nil
			}
			log.Printf("unexpected error reading prompt: %v", err)
			continue
		}
		got = strings.TrimSpace(got)
		if got == "" {
			continue
		}
		lin.AppendHistory(got)
		if got == "quit" || got == "exit" {
			return nil
		}
		if err := dispatchLine(got); err != nil {
			log.Printf("error: %v", err)
		}
	}
}

func dispatchLine(line string) error {
	fields := strings.Fields(line)
	cmd, rest := fields[0], fields[1:]
	switch cmd {
	case "text":
		return textCmd(rest)
	case "xml":
		return xmlCmd(rest)
	case "compat":
		return compatCmd(rest)
	case "record":
		return recordCmd(rest)
	case "history":
		return historyCmd(rest)
	case "help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Printf("unknown command: %s\n", cmd)
		return nil
	}
}
