package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// prompter reads answers from in and writes questions to out
type prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{reader: bufio.NewReader(in), out: out}
}

// promptWithRetry prompts the user for input and retries on invalid input.
// It gives up with an error once input is exhausted.
func (p *prompter) promptWithRetry(prompt string, validator func(string) (string, error)) (string, error) {
	for {
		fmt.Fprint(p.out, prompt)
		input, readErr := p.reader.ReadString('\n')
		input = strings.TrimSpace(input)

		result, err := validator(input)
		if err == nil {
			return result, nil
		}

		fmt.Fprintf(p.out, "%s\n\n", FormatError(err.Error()))
		if readErr != nil {
			return "", fmt.Errorf("no valid input: %w", err)
		}
	}
}

// promptYesNo prompts for yes/no input with retry
func (p *prompter) promptYesNo(prompt string) (bool, error) {
	result, err := p.promptWithRetry(prompt, func(input string) (string, error) {
		lower := strings.ToLower(input)
		if lower == "y" || lower == "yes" || lower == "n" || lower == "no" || lower == "" {
			return lower, nil
		}
		return "", fmt.Errorf("invalid input: %s (enter y/yes/n/no or press Enter for no)", input)
	})
	if err != nil {
		return false, err
	}

	return result == "y" || result == "yes", nil
}

// promptOptional prompts for optional input with default value, then validates it
func (p *prompter) promptOptional(prompt string, defaultValue string, validator func(string) (string, error)) (string, error) {
	return p.promptWithRetry(prompt, func(input string) (string, error) {
		if input == "" {
			input = defaultValue
		}
		if validator == nil {
			return input, nil
		}
		return validator(input)
	})
}
