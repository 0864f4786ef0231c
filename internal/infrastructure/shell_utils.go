package infrastructure

import "strings"

// shellSpecialChars are the characters that make an argument need quoting
const shellSpecialChars = " \t\n\r'\"$`\\!*?[](){}|;<>&~#%"

// QuoteArg quotes a single argument for display in a POSIX shell.
// exec.Command never goes through a shell; this is for logs and dry runs only.
func QuoteArg(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, shellSpecialChars) {
		return arg
	}
	// close the quote, emit a double-quoted ', reopen
	return "'" + strings.ReplaceAll(arg, "'", `'"'"'`) + "'"
}

// FormatCommandLine renders binary and args as a copy-pasteable command line
func FormatCommandLine(binary string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, QuoteArg(binary))
	for _, arg := range args {
		parts = append(parts, QuoteArg(arg))
	}
	return strings.Join(parts, " ")
}
