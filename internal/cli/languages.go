package cli

import (
	"fmt"
	"io"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// LanguageName returns the English name of a language code, or "" if the
// code is not a known BCP 47 tag
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return display.English.Tags().Name(tag)
}

// describeLanguage formats a code as "bg (Bulgarian)" when a name is known
func describeLanguage(code string) string {
	if name := LanguageName(code); name != "" {
		return fmt.Sprintf("%s (%s)", code, name)
	}
	return code
}

// shellPrompt names the source language in the interactive prompt
func shellPrompt(from string) string {
	name := LanguageName(from)
	if name == "" {
		name = from
	}
	return fmt.Sprintf("Enter some %s text (CTRL+C to quit): ", name)
}

func printLanguages(out io.Writer, codes []string) {
	sorted := append([]string(nil), codes...)
	sort.Strings(sorted)

	fmt.Fprintln(out, "Supported target languages:")
	if len(sorted) == 0 {
		fmt.Fprintln(out, "  No languages reported")
		return
	}
	for _, code := range sorted {
		name := LanguageName(code)
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(out, "  %-10s %s\n", code, name)
	}
}
