package main

import (
	"fmt"
	"os"

	"github.com/jensroland/git-linelog/cmd"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		cmd.Usage(os.Stderr)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "record":
		cmd.RunRecord(os.Args[2:])
	case "checkout":
		cmd.RunCheckout(os.Args[2:])
	case "annotate":
		cmd.RunAnnotate(os.Args[2:])
	case "deps":
		cmd.RunDeps(os.Args[2:])
	case "remap":
		cmd.RunRemap(os.Args[2:])
	case "import":
		cmd.RunImport(os.Args[2:])
	case "forget":
		cmd.RunForget(os.Args[2:])
	case "list":
		cmd.RunList(os.Args[2:])
	case "stats":
		cmd.RunStats(os.Args[2:])
	case "log":
		cmd.RunLog(os.Args[2:])
	case "--version":
		fmt.Println("git-linelog", version)
	case "-h", "--help", "help":
		cmd.Usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		cmd.Usage(os.Stderr)
		os.Exit(2)
	}
}
