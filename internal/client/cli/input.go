package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/worktracker/internal/models"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// Interactive reports whether stdin is a terminal. Piped sessions get no
// prompt decoration.
func Interactive() bool {
	return isTerminal(int(os.Stdin.Fd()))
}

// ReadLine reads one line and trims it. A final line without a newline is
// returned together with a nil error.
func ReadLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	return ReadLine(reader)
}

// GetWithDefault is GetSimpleText where an empty answer keeps current.
func GetWithDefault(reader *bufio.Reader, prompt, current string, w io.Writer) (string, error) {
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, current)
	}
	v, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

// GetMultiline prints a prompt to w and reads multiple lines until an empty
// line is entered. The collected text is joined with '\n'.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, _ := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// GetDate reads a YYYY-MM-DD date. With optional set an empty answer yields
// the zero Date.
func GetDate(reader *bufio.Reader, prompt string, current models.Date, optional bool, w io.Writer) (models.Date, error) {
	cur := ""
	if !current.IsZero() {
		cur = current.String()
	}
	v, err := GetWithDefault(reader, prompt+" (YYYY-MM-DD)", cur, w)
	if err != nil {
		return models.Date{}, err
	}
	if v == "" {
		if optional {
			return models.Date{}, nil
		}
		return models.Date{}, errors.New("date is required")
	}
	return models.ParseDate(v)
}

// GetYesNo reads y/n; an empty answer keeps current.
func GetYesNo(reader *bufio.Reader, prompt string, current bool, w io.Writer) (bool, error) {
	def := "n"
	if current {
		def = "y"
	}
	v, err := GetWithDefault(reader, prompt+" (y/n)", def, w)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(v) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected y or n, got %q", v)
}

// GetFloat reads a number; an empty answer keeps current.
func GetFloat(reader *bufio.Reader, prompt string, current float64, w io.Writer) (float64, error) {
	cur := ""
	if current != 0 {
		cur = strconv.FormatFloat(current, 'f', -1, 64)
	}
	v, err := GetWithDefault(reader, prompt, cur, w)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", v)
	}
	return f, nil
}

// splitList splits a comma separated answer, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
