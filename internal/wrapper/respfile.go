package wrapper

import (
	"os"
	"strings"
)

// maxInlineArgLength is the longest joined argument line the wrapper will
// pass to the compiler directly; beyond this it spills to a response
// file, matching cl.exe's own command-line length ceiling.
const maxInlineArgLength = 8000

// buildArgv prepares the argv the compiler should be run with: program
// followed by args, or program followed by a single "@path" token naming
// a temporary response file when the joined line would be too long. The
// returned cleanup always removes whatever temporary file was created; it
// is a no-op when no response file was needed.
func buildArgv(program string, args []string) (argv []string, cleanup func(), err error) {
	joined := joinArgs(args)
	if len(joined) <= maxInlineArgLength {
		return append([]string{program}, args...), func() {}, nil
	}

	f, err := os.CreateTemp("", "clcache-*.rsp")
	if err != nil {
		return nil, nil, err
	}

	if _, err := f.WriteString(joined); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, nil, err
	}

	return []string{program, "@" + f.Name()}, func() { os.Remove(f.Name()) }, nil
}

// joinArgs renders args as a single command line, quoting any token that
// contains whitespace so it survives round-tripping through a response
// file.
func joinArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if strings.ContainsAny(a, " \t") {
			quoted[i] = `"` + a + `"`
		} else {
			quoted[i] = a
		}
	}
	return strings.Join(quoted, " ")
}
