package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs_SeparateValue(t *testing.T) {
	args := []string{"-a", ":8080", "-x", "ignored", "-d", "postgres://db"}
	got := FilterArgs(args, []string{"-a", "-d"})
	require.Equal(t, []string{"-a", ":8080", "-d", "postgres://db"}, got)
}

func TestFilterArgs_EqualsForm(t *testing.T) {
	args := []string{"--config=server.json", "-s=topsecret", "--other=nope"}
	got := FilterArgs(args, []string{"--config", "-s"})
	require.Equal(t, []string{"--config=server.json", "-s=topsecret"}, got)
}

func TestFilterArgs_FlagWithoutValue(t *testing.T) {
	args := []string{"-v", "-a", ":9090"}
	got := FilterArgs(args, []string{"-v"})
	require.Equal(t, []string{"-v"}, got)
}

func TestFilterArgs_Empty(t *testing.T) {
	got := FilterArgs(nil, []string{"-a"})
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestJsonConfigFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"server", "-c", "conf.json", "-a", ":8080"}
	require.Equal(t, "conf.json", JsonConfigFlags())

	os.Args = []string{"server", "--config=other.json"}
	require.Equal(t, "other.json", JsonConfigFlags())

	os.Args = []string{"server", "-a", ":8080"}
	require.Equal(t, "", JsonConfigFlags())
}
