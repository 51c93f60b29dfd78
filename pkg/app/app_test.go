package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/autopeer-io/carstock/pkg/log"
)

type testOptions struct {
	API struct {
		BaseURL string `mapstructure:"base-url"`
	} `mapstructure:"api"`
	Log *log.Options `mapstructure:"log"`

	completed bool
}

func newTestOptions() *testOptions {
	o := &testOptions{Log: log.NewOptions()}
	o.API.BaseURL = "http://default/cars"
	return o
}

func (o *testOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	fs := fss.FlagSet("api")
	fs.StringVar(&o.API.BaseURL, "api.base-url", o.API.BaseURL, "base url")
	o.Log.AddFlags(fss.FlagSet("log"))
	return fss
}

func (o *testOptions) Complete() error          { o.completed = true; return nil }
func (o *testOptions) Validate() error          { return nil }
func (o *testOptions) LogOptions() *log.Options { return o.Log }

func runApp(t *testing.T, opts *testOptions, args ...string) {
	t.Helper()
	ran := false
	a := NewApp("carstock-test", "test", WithOptions(opts), WithDefaultValidArgs(),
		WithRunFunc(func() error { ran = true; return nil }))
	a.Command().SetArgs(args)
	require.NoError(t, a.Command().Execute())
	require.True(t, ran)
}

func TestFlagsOverrideDefaults(t *testing.T) {
	opts := newTestOptions()
	runApp(t, opts, "--api.base-url=http://flag/cars")
	assert.Equal(t, "http://flag/cars", opts.API.BaseURL)
	assert.True(t, opts.completed)
}

func TestConfigFileIsDecoded(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "carstock.yaml")
	require.NoError(t, os.WriteFile(file, []byte("api:\n  base-url: http://file/cars\n"), 0o600))

	opts := newTestOptions()
	runApp(t, opts, "--config", file)
	assert.Equal(t, "http://file/cars", opts.API.BaseURL)
}

func TestEnvironmentIsDecoded(t *testing.T) {
	t.Setenv("CARSTOCK_API_BASE_URL", "http://env/cars")

	opts := newTestOptions()
	runApp(t, opts)
	assert.Equal(t, "http://env/cars", opts.API.BaseURL)
}

func TestPositionalArgsRejected(t *testing.T) {
	a := NewApp("carstock-test", "test", WithOptions(newTestOptions()), WithDefaultValidArgs(),
		WithRunFunc(func() error { return nil }))
	a.Command().SetArgs([]string{"extra"})
	a.Command().SetErr(&nopWriter{})
	assert.Error(t, a.Command().Execute())
}

func TestApplyLogLevel(t *testing.T) {
	prev := log.CurrentLevel()
	t.Cleanup(func() { _ = log.SetLevel(prev) })

	applyLogLevel("warn", "test.yaml")
	assert.Equal(t, "warn", log.CurrentLevel())

	applyLogLevel("nonsense", "test.yaml")
	assert.Equal(t, "warn", log.CurrentLevel())
}

func TestLoadDotEnvMissingFileIsIgnored(t *testing.T) {
	prev := dotEnvFile
	t.Cleanup(func() { dotEnvFile = prev })
	dotEnvFile = filepath.Join(t.TempDir(), "missing.env")
	assert.NoError(t, loadDotEnv())
}

func TestLoadDotEnv(t *testing.T) {
	prev := dotEnvFile
	t.Cleanup(func() { dotEnvFile = prev })
	dotEnvFile = filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotEnvFile, []byte("CARSTOCK_DOTENV_PROBE=yes\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CARSTOCK_DOTENV_PROBE") })

	require.NoError(t, loadDotEnv())
	assert.Equal(t, "yes", os.Getenv("CARSTOCK_DOTENV_PROBE"))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
