// Package shell implements the interactive command loop on top of a session.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/kozaktomas/face-shell/internal/recognizer"
	"github.com/kozaktomas/face-shell/internal/session"
)

// DefaultPrompt is printed before every command.
const DefaultPrompt = "Enter command: "

const (
	cmdCreate = "create"
	cmdTrain  = "train"
	cmdLoad   = "load"
	cmdSave   = "save"
	cmdSearch = "search"
	cmdExit   = "exit"
	cmdQuit   = "quit"
)

// commands in matching order; the first whose name prefixes the first token wins.
var commands = []string{cmdCreate, cmdTrain, cmdLoad, cmdSave, cmdSearch, cmdExit, cmdQuit}

var usages = map[string]string{
	cmdCreate: "create <EIGEN|FISHER|LBPH> <outputDir>",
	cmdTrain:  "train <directoryPath>",
	cmdLoad:   "load <modelPath>",
	cmdSave:   "save [modelPath]",
	cmdSearch: "search <imagePath>",
}

// Usage returns the list of commands shown after an unknown command.
func Usage() string {
	return "commands: " + strings.Join(commands, ", ")
}

// Shell reads commands from in and runs them against a session.
type Shell struct {
	session *session.Session
	in      io.Reader
	out     io.Writer
	prompt  string
}

// New creates a shell. An empty prompt disables prompting, which is what
// script replay wants.
func New(s *session.Session, in io.Reader, out io.Writer, prompt string) *Shell {
	return &Shell{session: s, in: in, out: out, prompt: prompt}
}

// Run loops until exit/quit or end of input. Lines have no length limit.
func (sh *Shell) Run() error {
	reader := bufio.NewReader(sh.in)
	for {
		if sh.prompt != "" {
			fmt.Fprint(sh.out, sh.prompt)
		}
		line, err := reader.ReadString('\n')
		if line != "" && sh.Execute(line) {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read command: %w", err)
		}
	}
}

// Execute runs one command line. It returns true when the shell should stop.
func (sh *Shell) Execute(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return false
	}

	name, ok := match(tokens[0])
	if !ok {
		fmt.Fprintf(sh.out, "Don't recognize command: %s\n", tokens[0])
		fmt.Fprintf(sh.out, "%s\n\n", Usage())
		return false
	}
	args := tokens[1:]

	var err error
	switch name {
	case cmdCreate:
		if len(args) < 1 {
			sh.usage(name)
			return false
		}
		outputDir := ""
		if len(args) > 1 {
			outputDir = args[1]
		}
		err = sh.session.Create(args[0], outputDir)
	case cmdTrain:
		if len(args) < 1 {
			sh.usage(name)
			return false
		}
		_, err = sh.session.Train(args[0])
	case cmdLoad:
		if len(args) < 1 {
			sh.usage(name)
			return false
		}
		err = sh.session.Load(args[0])
	case cmdSave:
		if len(args) == 0 {
			err = sh.session.SaveLast()
		} else {
			err = sh.session.Save(args[0])
		}
	case cmdSearch:
		if len(args) < 1 {
			sh.usage(name)
			return false
		}
		_, err = sh.session.Search(args[0])
	case cmdExit, cmdQuit:
		fmt.Fprintln(sh.out, "Exiting..")
		return true
	}

	if err != nil {
		sh.report(name, args, err)
	}
	return false
}

func match(token string) (string, bool) {
	for _, c := range commands {
		if strings.HasPrefix(token, c) {
			return c, true
		}
	}
	return "", false
}

func (sh *Shell) usage(name string) {
	fmt.Fprintf(sh.out, "usage: %s\n", usages[name])
}

// report maps a command error to the message shown to the operator.
func (sh *Shell) report(name string, args []string, err error) {
	var nf *session.NotFoundError
	switch {
	case errors.As(err, &nf):
		switch nf.What {
		case "directory":
			fmt.Fprintf(sh.out, "Directory doesn't exist: %s\n", nf.Path)
		case "image":
			fmt.Fprintf(sh.out, "Can't find image at %s\n", nf.Path)
		default:
			fmt.Fprintf(sh.out, "Cannot find model: %s\n", nf.Path)
		}
	case errors.Is(err, session.ErrNoRecognizer):
		switch name {
		case cmdLoad:
			fmt.Fprintln(sh.out, "Model doesn't exist. Please create a model first.")
		case cmdSave:
			fmt.Fprintln(sh.out, "Model doesn't exist. Please load or create a model.")
		default:
			fmt.Fprintln(sh.out, "No recognizer. Please create a model first.")
		}
	case errors.Is(err, session.ErrNoModelPath):
		fmt.Fprintln(sh.out, "Please provide file path to save model.")
	case errors.Is(err, session.ErrDatabaseUnset):
		fmt.Fprintln(sh.out, "Database root is not set. Set FACESHELL_DATABASE or --database.")
	case errors.Is(err, recognizer.ErrUnknownKind) && name == cmdCreate:
		fmt.Fprintf(sh.out, "Unknown recognizer: %s (expected EIGEN, FISHER or LBPH)\n", args[0])
	default:
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		log.Printf("WARNING: %s %s failed: %v", name, strings.Join(args, " "), err)
	}
}
