package flagx

import (
	"flag"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	allowed := []string{"-c", "--config", "-l"}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"separate value", []string{"-c", "gratitudes.yaml", "-a", ":8080"}, []string{"-c", "gratitudes.yaml"}},
		{"equals form", []string{"--config=alt.json", "-a", ":8080"}, []string{"--config=alt.json"}},
		{"order kept", []string{"-l", "20", "--config=first.json", "-c", "second.json"}, []string{"-l", "20", "--config=first.json", "-c", "second.json"}},
		{"unknown flags and positionals", []string{"-x", "1", "--y=2", "positional"}, []string{}},
		{"dangling flag", []string{"-c"}, []string{"-c"}},
		{"next flag is not a value", []string{"-c", "-l", "10"}, []string{"-c", "-l", "10"}},
		{"equals value may start with a dash", []string{"--config=--weird.json"}, []string{"--config=--weird.json"}},
		{"positional with equals is not a flag", []string{"a=b"}, []string{}},
		{"empty", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, allowed))
		})
	}
}

func TestParse_OnlySeesOwnFlags(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	limit := fs.Int("l", 10, "daily limit")
	zone := fs.String("z", "UTC", "time zone")

	err := Parse(fs, []string{"-c", "server.yaml", "-l", "20", "--z=Asia/Jerusalem", "-unknown", "x"})
	require.NoError(t, err)
	assert.Equal(t, 20, *limit)
	assert.Equal(t, "Asia/Jerusalem", *zone)

	assert.ElementsMatch(t, []string{"-l", "--l", "-z", "--z"}, Names(fs))
}

func TestParse_BadValue(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Int("l", 10, "daily limit")

	assert.Error(t, Parse(fs, []string{"-l", "ten"}))
}

func TestConfigFile(t *testing.T) {
	assert.Equal(t, "/etc/gratitudes/short.yaml", ConfigFile([]string{"-c", "/etc/gratitudes/short.yaml"}))
	assert.Equal(t, "/etc/gratitudes/long.json", ConfigFile([]string{"-a", ":9090", "-config", "/etc/gratitudes/long.json"}))
	assert.Equal(t, "eq.yaml", ConfigFile([]string{"--config=eq.yaml"}))
	assert.Empty(t, ConfigFile([]string{"-x", "1", "-y", "2"}))
	assert.Equal(t, "/2.json", ConfigFile([]string{"-c", "/1.json", "-config", "/2.json"}), "last wins")
}

func TestConfigFileFlags_ReadsOSArgs(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"gratitudes-server", "-l", "20", "-c", "/path/server.yaml"}
	assert.Equal(t, "/path/server.yaml", ConfigFileFlags())
}
