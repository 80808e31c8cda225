package codegen

import "strings"

// Formatter post-processes rendered controller source
type Formatter interface {
	Format(src string) (string, error)
}

// FormatterFunc adapts a function to Formatter
type FormatterFunc func(src string) (string, error)

func (f FormatterFunc) Format(src string) (string, error) {
	return f(src)
}

// Tidy strips trailing whitespace, keeps at most two consecutive blank lines
// and ends the text with exactly one newline.
type Tidy struct{}

func (Tidy) Format(src string) (string, error) {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")

	var b strings.Builder
	blank := 0
	started := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blank++
			continue
		}
		if started {
			b.WriteString(strings.Repeat("\n", min(blank, 2)+1))
		}
		b.WriteString(line)
		blank = 0
		started = true
	}
	if !started {
		return "", nil
	}
	b.WriteByte('\n')
	return b.String(), nil
}
