package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var escapes = strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\r`, "\r")

var asciiReplacements = strings.NewReplacer(
	"\u2013", "-",
	"\u2014", "--",
	"\u2018", "'",
	"\u2019", "'",
	"\u201c", `"`,
	"\u201d", `"`,
	"\u00a0", " ",
	"\u2026", "...",
	"\u0142", "l",
	"\u2197", "^",
	"\u2217", "*",
	"\u2020", "+",
)

var (
	nonASCII    = regexp.MustCompile(`[^\x00-\x7F]+`)
	spaceRuns   = regexp.MustCompile(` +`)
	blankBlocks = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

// FormatText reduces extracted text to trimmed ASCII lines with at most one
// blank line between paragraphs. Accented letters lose their accents; other
// non-ASCII runs become a space.
func FormatText(text string) string {
	if text == "" {
		return text
	}
	text = escapes.Replace(text)
	text = asciiReplacements.Replace(text)
	text = foldAccents(text)
	text = nonASCII.ReplaceAllString(text, " ")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = blankBlocks.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
