package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errNoInput is returned when input ends before an answer is given.
var errNoInput = errors.New("no input")

// prompter reads answers from the command's input.
type prompter struct {
	reader *bufio.Reader
	out    io.Writer
	file   *os.File
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	p := &prompter{
		reader: bufio.NewReader(in),
		out:    cmd.OutOrStdout(),
	}
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		p.file = f
	}
	return p
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ask prints question and returns the trimmed answer line.
func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	return p.readLine()
}

// askSecret prints question and reads an answer without echo when attached to a terminal.
func (p *prompter) askSecret(question string) (string, error) {
	fmt.Fprint(p.out, question)
	if p.file == nil {
		return p.readLine()
	}

	b, err := term.ReadPassword(int(p.file.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// confirm asks a yes/no question. Anything but y/yes is a no.
func (p *prompter) confirm(question string) bool {
	answer, err := p.ask(question + " [y/N]: ")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (p *prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", errNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
