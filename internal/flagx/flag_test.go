package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-c", "conf.json", "-a", "http://localhost"},
			allowed: []string{"-c"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=alt.yaml", "-a", "http://localhost"},
			allowed: []string{"--config"},
			want:    []string{"--config=alt.yaml"},
		},
		{
			name:    "flag followed by another flag has no value",
			args:    []string{"-c", "-a", "x"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "order preserved",
			args:    []string{"-t", "5", "-a", "http://h", "-l", "debug"},
			allowed: []string{"-a", "-t"},
			want:    []string{"-t", "5", "-a", "http://h"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFile(t *testing.T) {
	assert.Equal(t, "a.json", ConfigFile([]string{"-c", "a.json"}))
	assert.Equal(t, "b.yaml", ConfigFile([]string{"-a", "http://x", "-config", "b.yaml"}))
	assert.Equal(t, "c.yml", ConfigFile([]string{"-config=c.yml"}))
	assert.Equal(t, "", ConfigFile([]string{"-a", "http://x"}))
	assert.Equal(t, "", ConfigFile(nil))
}
