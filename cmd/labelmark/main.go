package main

import (
	"os"
	"strings"

	"labelmark-cli/internal/cli"
)

func isImageKey(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "img-") || len(s) == len("img-") {
		return false
	}
	for _, r := range s[len("img-"):] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// rewriteImageLookupArgs lets `labelmark img-12` work like `labelmark images show img-12`.
// Cobra treats the first positional token as a subcommand, so argv is rewritten before
// parsing. Persistent flags may come first, so the first positional is searched for.
func rewriteImageLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--api-url":  true,
		"--timeout":  true,
		"--format":   true,
		"--log-file": true,
	}

	insert := func(at int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:at]...)
		out = append(out, "images", "show")
		return append(out, argv[at:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// The subcommand must precede "--" or cobra reads it as arguments.
			if i+1 < len(argv) && isImageKey(argv[i+1]) {
				return insert(i)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			// Unknown flags are skipped without consuming a value.
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if isImageKey(a) {
			return insert(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteImageLookupArgs(os.Args)

	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
