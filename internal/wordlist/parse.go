package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// MaxLineSize bounds a single word list line in bytes.
const MaxLineSize = 1 << 20

// Parse reads a newline-delimited word list. Blank lines and lines starting
// with '#' are skipped. A line may carry a diceware index ("12345\tword");
// the last tab-separated field is taken as the word.
// Words are neither deduplicated nor case-normalized. A line longer than
// MaxLineSize fails with an error wrapping bufio.ErrTooLong.
func Parse(r io.Reader) ([]string, error) {
	var words []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	for scanner.Scan() {
		if word, ok := parseLine(scanner.Text()); ok {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}

	return words, nil
}

func parseLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", false
	}

	fields := strings.FieldsFunc(line, func(r rune) bool { return r == '\t' })
	word := strings.TrimSpace(fields[len(fields)-1])
	return word, word != ""
}
