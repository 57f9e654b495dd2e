package cmdline

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Env abstracts environment-variable lookup so Parse is testable without
// mutating the process environment.
type Env interface {
	Lookup(key string) (string, bool)
}

// parser accumulates a ParsedCommandLine across the CL prefix, the argument
// vector, response files inlined along the way, and the _CL_ suffix.
type parser struct {
	pcl   ParsedCommandLine
	depth int
}

// Parse builds a ParsedCommandLine from argv (argv[0] is the driver path
// and is not itself parsed), folding in the CL environment variable as a
// prefix and _CL_ as a suffix.
func Parse(argv []string, env Env) (*ParsedCommandLine, error) {
	p := &parser{}

	if v, ok := env.Lookup("CL"); ok && v != "" {
		if err := p.parseLine(v); err != nil {
			return nil, err
		}
	}

	if len(argv) > 1 {
		if err := p.parseList(argv[1:]); err != nil {
			return nil, err
		}
	}

	if v, ok := env.Lookup("_CL_"); ok && v != "" {
		if err := p.parseLine(v); err != nil {
			return nil, err
		}
	}

	return &p.pcl, nil
}

func (p *parser) parseLine(line string) error {
	return p.parseList(tokenizeLine(line))
}

func (p *parser) parseFile(path string) error {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxResponseFileDepth {
		return fmt.Errorf("cmdline: response file nesting exceeds %d", MaxResponseFileDepth)
	}

	text, err := readResponseFile(path)
	if err != nil {
		return err
	}

	// Each line is parsed independently, matching cl.exe's own line-by-line
	// reading of a response file: a "/link" on one line truncates only the
	// rest of that line, not lines that follow it.
	for _, line := range tokenizeFileLines(text) {
		if err := p.parseList(line); err != nil {
			return err
		}
	}
	return nil
}

// parseList walks one token stream (the argument vector, a response-file's
// lines, or the content of CL/_CL_) and folds each token into p.pcl.
func (p *parser) parseList(tokens []string) error {
	for i := 0; i < len(tokens); i++ {
		item := tokens[i]

		opt, isOption := optionBody(item)
		if !isOption {
			if strings.HasPrefix(item, "@") {
				if err := p.parseFile(item[1:]); err != nil {
					return err
				}
				continue
			}
			p.pcl.InputFiles = append(p.pcl.InputFiles, InputFile{Name: item, DeclaredType: Unknown})
			continue
		}

		switch {
		case opt == "link":
			// This and everything else from this token stream is ignored.
			return nil

		case opt == "c":
			p.pcl.CompileOnly = true

		case strings.HasPrefix(opt, "D"):
			v, err := retrieveArg(tokens, &i, opt[1:], false)
			if err != nil {
				return err
			}
			p.pcl.Defines = append(p.pcl.Defines, v)

		case strings.HasPrefix(opt, "Fd"):
			v, err := retrieveArg(tokens, &i, opt[2:], true)
			if err != nil {
				return err
			}
			p.pcl.PDBPath = canonDrive(v)

		case strings.HasPrefix(opt, "Fo"):
			v, err := retrieveArg(tokens, &i, opt[2:], true)
			if err != nil {
				return err
			}
			p.pcl.ObjectPath = canonDrive(v)

		case strings.HasPrefix(opt, "Fp"):
			v, err := retrieveArg(tokens, &i, opt[2:], true)
			if err != nil {
				return err
			}
			p.pcl.PCHConfig.Path = canonDrive(v)

		case strings.HasPrefix(opt, "I"):
			v, err := retrieveArg(tokens, &i, opt[1:], false)
			if err != nil {
				return err
			}
			p.pcl.Includes = append(p.pcl.Includes, canonDrive(v))

		case opt == "TC":
			p.pcl.DefaultInputType = C

		case opt == "TP":
			p.pcl.DefaultInputType = Cpp

		case strings.HasPrefix(opt, "Tc") || strings.HasPrefix(opt, "Tp"):
			t := C
			if strings.HasPrefix(opt, "Tp") {
				t = Cpp
			}
			v, err := retrieveArg(tokens, &i, opt[2:], false)
			if err != nil {
				return err
			}
			p.pcl.InputFiles = append(p.pcl.InputFiles, InputFile{Name: canonDrive(v), DeclaredType: t})

		case opt == "Y-":
			p.pcl.PCHConfig.Ignore = true

		case strings.HasPrefix(opt, "Yc"):
			p.pcl.PCHConfig.Create = FlagOption{Enabled: true, Value: canonDrive(opt[2:])}

		case strings.HasPrefix(opt, "Yu"):
			p.pcl.PCHConfig.Use = FlagOption{Enabled: true, Value: canonDrive(opt[2:])}

		case opt == "Z7":
			p.pcl.DebugFormat = DebugObjectFile

		case opt == "Zi":
			p.pcl.DebugFormat = DebugSeparateFile

		case opt == "ZI":
			p.pcl.DebugFormat = DebugSeparateEdit

		default:
			p.pcl.OtherOptions = append(p.pcl.OtherOptions, opt)
		}
	}

	return nil
}

// optionBody reports whether item is an option token (begins with / or -)
// and, if so, returns its body (the token with the leading character
// dropped).
func optionBody(item string) (string, bool) {
	if len(item) < 1 {
		return "", false
	}
	if item[0] != '/' && item[0] != '-' {
		return "", false
	}
	return item[1:], true
}

// retrieveArg resolves the value for an option whose body is suffix. When
// colonCapable is true, a leading ':' in suffix is stripped and treated as
// the explicit separator: an empty value after that strip is an error, it
// never falls back to the next token. Otherwise, an empty suffix consumes
// the next token, and a missing next token is an error.
// *i points at the option token; it is advanced if the next token is
// consumed.
func retrieveArg(tokens []string, i *int, suffix string, colonCapable bool) (string, error) {
	arg := suffix
	hadColon := false
	if colonCapable && strings.HasPrefix(suffix, ":") {
		hadColon = true
		arg = suffix[1:]
	}

	if arg != "" {
		return arg, nil
	}

	if hadColon {
		return "", fmt.Errorf("cmdline: expected a value after ':'")
	}

	if *i+1 >= len(tokens) {
		return "", fmt.Errorf("cmdline: expected another argument")
	}
	*i++
	return tokens[*i], nil
}

// canonDrive upper-cases a path's drive letter (path[0]) when path[1] is
// ':'. Purely a hit-rate optimization; it does not affect correctness.
func canonDrive(path string) string {
	if len(path) > 1 && path[1] == ':' {
		return strings.ToUpper(path[:1]) + path[1:]
	}
	return path
}

// typeFromExtension infers an InputType from a file's extension when no
// declared type or default type applies.
func typeFromExtension(name string) InputType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".c":
		return C
	case ".cpp", ".cxx", ".cc":
		return Cpp
	default:
		return Object
	}
}
