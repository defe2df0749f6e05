package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/term"
)

func main() {
	c := &cli{
		out:   os.Stdout,
		isTTY: func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
	}
	if err := newRootCmd(c).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
