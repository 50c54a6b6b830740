package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Lines asks questions as plain numbered text prompts.
type Lines struct {
	r *bufio.Reader
	w io.Writer
}

// NewLines returns a Lines UI reading from r and writing to w.
func NewLines(r io.Reader, w io.Writer) *Lines {
	return &Lines{r: bufio.NewReader(r), w: w}
}

func (l *Lines) readLine() (string, error) {
	line, err := l.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInterrupted
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Select presents a numbered list and returns the selected index. Invalid
// answers are asked again.
func (l *Lines) Select(label string, items []string) (int, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("%s: nothing to choose from", label)
	}
	fmt.Fprintf(l.w, "\n%s\n", label)
	for i, item := range items {
		fmt.Fprintf(l.w, "  %d) %s\n", i+1, item)
	}
	for {
		fmt.Fprintf(l.w, "Enter number [1-%d]: ", len(items))
		line, err := l.readLine()
		if err != nil {
			return 0, err
		}
		num, err := strconv.Atoi(line)
		if err == nil && num >= 1 && num <= len(items) {
			return num - 1, nil
		}
		fmt.Fprintf(l.w, "Invalid selection %q: choose 1-%d\n", line, len(items))
	}
}

// Confirm asks a yes/no question; an empty answer picks def.
func (l *Lines) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(l.w, "%s (%s): ", label, hint)
		line, err := l.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(l.w, "Please answer y or n")
	}
}

// Input reads a free-form answer; an empty answer picks def.
func (l *Lines) Input(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(l.w, "%s (%s): ", label, def)
	} else {
		fmt.Fprintf(l.w, "%s: ", label)
	}
	line, err := l.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Password reads a line as-is. Input is not masked outside a terminal.
func (l *Lines) Password(label string) (string, error) {
	fmt.Fprintf(l.w, "%s: ", label)
	return l.readLine()
}
