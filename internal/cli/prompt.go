package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// prompter reads one trimmed answer per line.
type prompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{sc: bufio.NewScanner(in), out: out}
}

// ask prints label and returns the next line. ok is false at end of input.
func (p *prompter) ask(label string) (answer string, ok bool) {
	fmt.Fprint(p.out, label)
	if !p.sc.Scan() {
		fmt.Fprintln(p.out)
		return "", false
	}
	return strings.TrimSpace(p.sc.Text()), true
}

func (p *prompter) say(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func isQuit(s string) bool {
	switch strings.ToLower(s) {
	case "q", "quit", "exit":
		return true
	}
	return false
}
