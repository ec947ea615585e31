package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoURI(t *testing.T) {
	anonymous := Db{Host: "localhost", Port: "27017"}
	assert.Equal(t, "mongodb://localhost:27017", anonymous.MongoURI())

	authenticated := Db{Host: "db", Port: "27017", User: "app", Password: "s3cret"}
	assert.Equal(t, "mongodb://app:s3cret@db:27017", authenticated.MongoURI())
}

func TestPostgresDSN(t *testing.T) {
	db := Db{Name: "viewtube", Host: "localhost", Port: "5432", User: "app", Password: "s3cret"}
	assert.Equal(t,
		"host=localhost port=5432 user=app password=s3cret dbname=viewtube sslmode=disable",
		db.PostgresDSN())
}

func TestLoadEnvFromFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "config.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"# comment\n"+
			"VIEWTUBE_LOADER_A=\"from-file\"\n"+
			"export VIEWTUBE_LOADER_B=exported\n"+
			"VIEWTUBE_LOADER_C=ignored\n"), 0o644))

	t.Setenv("VIEWTUBE_LOADER_C", "from-env")
	t.Setenv("VIEWTUBE_LOADER_A", "")
	os.Unsetenv("VIEWTUBE_LOADER_A")
	t.Setenv("VIEWTUBE_LOADER_B", "")
	os.Unsetenv("VIEWTUBE_LOADER_B")

	LoadEnvFromFile(envFile, filepath.Join(dir, "missing.env"))

	assert.Equal(t, "from-file", os.Getenv("VIEWTUBE_LOADER_A"))
	assert.Equal(t, "exported", os.Getenv("VIEWTUBE_LOADER_B"))
	// OS environment keeps precedence over file values.
	assert.Equal(t, "from-env", os.Getenv("VIEWTUBE_LOADER_C"))
}

func TestReloadPicksUpLateEnv(t *testing.T) {
	saved := C
	t.Cleanup(func() { C = saved })

	// Simulates env files loaded in main, after this package's init() ran.
	t.Setenv("APP_PORT", "14001")
	t.Setenv("MONGO_HOST", "mongo.internal")
	Reload()

	assert.Equal(t, 14001, C.App.Port)
	assert.Equal(t, "mongo.internal", C.Database.Mongo.Host)
}

func TestEnvOr(t *testing.T) {
	t.Setenv("VIEWTUBE_TEST_KEY", "set")
	assert.Equal(t, "set", envOr("VIEWTUBE_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", envOr("VIEWTUBE_TEST_KEY_MISSING", "fallback"))
}
