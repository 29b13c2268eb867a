package cats

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// prompter asks for field values on a terminal. An empty answer keeps the
// current value and "-" clears it.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

func (p *prompter) line() (string, error) {
	s, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) ask(label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	answer, err := p.line()
	switch {
	case err != nil:
		return "", err
	case answer == "":
		return current, nil
	case answer == "-":
		return "", nil
	default:
		return answer, nil
	}
}

// choose accepts an option number or the option itself.
func (p *prompter) choose(label string, options []string, current string) (string, error) {
	for {
		for i, o := range options {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, o)
		}
		answer, err := p.ask(label, current)
		if err != nil || answer == "" || answer == current {
			return answer, err
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		if slices.Contains(options, answer) {
			return answer, nil
		}
		fmt.Fprintln(p.out, "Opção inválida")
	}
}

// multi accepts comma separated option numbers.
func (p *prompter) multi(label string, options, current []string) ([]string, error) {
	for i, o := range options {
		mark := " "
		if slices.Contains(current, o) {
			mark = "x"
		}
		fmt.Fprintf(p.out, "  [%s] %d) %s\n", mark, i+1, o)
	}
	answer, err := p.ask(label+" (números separados por vírgula)", "")
	if err != nil {
		return nil, err
	}
	if answer == "" {
		return current, nil
	}

	var out []string
	for _, f := range strings.Split(answer, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n < 1 || n > len(options) {
			return nil, fmt.Errorf("opção inválida: %q", f)
		}
		if !slices.Contains(out, options[n-1]) {
			out = append(out, options[n-1])
		}
	}
	return out, nil
}

func (p *prompter) confirm(label string, def bool) (bool, error) {
	hint := "s/N"
	if def {
		hint = "S/n"
	}
	fmt.Fprintf(p.out, "%s [%s]: ", label, hint)
	answer, err := p.line()
	if err != nil {
		return false, err
	}
	if answer == "" {
		return def, nil
	}
	return strings.EqualFold(answer, "s") || strings.EqualFold(answer, "sim"), nil
}
