package cmdline

import "testing"

func TestPCHOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		cfg     PCHConfig
		input   string
		vcMajor uint16
		want    string
	}{
		{
			name:  "no path uses input basename",
			cfg:   PCHConfig{},
			input: `C:\src\foo.cpp`,
			want:  `C:\src\foo.pch`,
		},
		{
			name:  "path ending in separator uses default name",
			cfg:   PCHConfig{Path: `C:\out\`},
			input: `foo.cpp`,
			vcMajor: 14,
			want:    `C:\out\vc140.pch`,
		},
		{
			name:  "specific path has its extension replaced",
			cfg:   PCHConfig{Path: `C:\out\shared.obj`},
			input: `foo.cpp`,
			want:  `C:\out\shared.pch`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PCHOutputPath(tt.cfg, tt.input, tt.vcMajor)
			if got != tt.want {
				t.Errorf("PCHOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
