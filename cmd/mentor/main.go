package main

import (
	"fmt"
	"os"
	"strings"
)

// Version is set at build time via ldflags
var Version = "dev"

const (
	daemonAddr = "http://127.0.0.1:7433"
	pidFile    = "mentord.pid"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "start":
		err = cmdStart()
	case "stop":
		err = cmdStop()
	case "status":
		err = cmdStatus()
	case "logs":
		err = cmdLogs()
	case "stats":
		err = cmdStats()
	case "difficulty":
		err = cmdDifficulty(os.Args[2:])
	case "feedback":
		err = cmdFeedback()
	case "leaderboard":
		err = cmdLeaderboard(os.Args[2:])
	case "export":
		err = cmdExport(os.Args[2:])
	case "import":
		err = cmdImport(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Printf("mentor %s\n", Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Mentor - Adaptive Difficulty and Coaching Daemon

Usage:
  mentor <command> [arguments]

Daemon Commands:
  start               Start the Mentor daemon
  stop                Stop the Mentor daemon
  status              Show daemon status
  logs                View daemon logs

Coaching Commands:
  stats               Show performance metrics and skill level
  difficulty          Show current and predicted difficulty
  difficulty log      Show recent difficulty adjustments
  feedback            Show recent coaching messages
  leaderboard <mode>  Show the pvp or campaign leaderboard

State Commands:
  export [file]       Export engine state (stdout if no file)
  import <file>       Import a previously exported state

Other:
  help                Show this help message
  version             Show version information

Examples:
  mentor start              # Start daemon
  mentor stats              # Show win rate, streaks, skill level
  mentor leaderboard pvp    # Top rated players
  mentor export state.json  # Back up progress`)
}

// renderProgressBar creates a visual progress bar
func renderProgressBar(value float64, width int) string {
	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty := width - filled

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", empty) + "]"
}
