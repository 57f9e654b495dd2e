package cmdline

// MergeMode selects which subset of a ParsedCommandLine's state Merge
// re-emits as argv tokens.
type MergeMode int

const (
	// MergeAll is the full canonical re-emission, including input files.
	MergeAll MergeMode = iota
	// MergeSkipCoveredByPreprocess drops includes, defines, and /Fo: —
	// state already reflected in preprocessed source content.
	MergeSkipCoveredByPreprocess
	// MergeDirectModeCommonArgs is MergeAll minus the default-input-type
	// flag and minus input files (inputs are bound per cache miss).
	MergeDirectModeCommonArgs
	// MergeSkipInputs is MergeAll without input files; the caller appends
	// them explicitly.
	MergeSkipInputs
)

// Merge re-emits p in one of the canonical forms cl.exe would accept,
// selected by mode.
func (p *ParsedCommandLine) Merge(mode MergeMode) []string {
	var out []string

	if p.CompileOnly {
		out = append(out, "/c")
	}

	if mode != MergeDirectModeCommonArgs {
		switch p.DefaultInputType {
		case C:
			out = append(out, "/TC")
		case Cpp:
			out = append(out, "/TP")
		}
	}

	switch p.DebugFormat {
	case DebugObjectFile:
		out = append(out, "/Z7")
	case DebugSeparateFile:
		out = append(out, "/Zi")
	case DebugSeparateEdit:
		out = append(out, "/ZI")
	}

	for _, opt := range p.OtherOptions {
		out = append(out, "/"+opt)
	}

	if p.PDBPath != "" {
		out = append(out, "/Fd:"+p.PDBPath)
	}

	if mode != MergeSkipCoveredByPreprocess {
		for _, inc := range p.Includes {
			out = append(out, "/I", inc)
		}
		for _, def := range p.Defines {
			out = append(out, "/D", def)
		}
		if p.ObjectPath != "" {
			out = append(out, "/Fo:"+p.ObjectPath)
		}
	}

	if p.PCHConfig.Create.Enabled {
		out = append(out, "/Yc"+p.PCHConfig.Create.Value)
	}
	if p.PCHConfig.Use.Enabled {
		out = append(out, "/Yu"+p.PCHConfig.Use.Value)
	}
	if p.PCHConfig.Ignore {
		out = append(out, "/Y-")
	}
	if p.PCHConfig.Path != "" {
		out = append(out, "/Fp:"+p.PCHConfig.Path)
	}

	if mode == MergeAll || mode == MergeSkipCoveredByPreprocess {
		for _, f := range p.InputFiles {
			rendered := InputFile{Name: f.Name, DeclaredType: p.EffectiveType(f)}
			out = append(out, rendered.AsArg())
		}
	}

	return out
}
