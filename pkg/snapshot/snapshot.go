package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

// UpdateEnv rewrites every snapshot that is compared when set to 1
const UpdateEnv = "SAM_UPDATE_SNAPSHOTS"

// Match compares the indented JSON encoding of obj with testdata/<name>.json.
// A snapshot that does not exist yet is written and the comparison passes.
func Match(t testing.TB, name string, obj interface{}, msgAndArgs ...interface{}) bool {
	t.Helper()

	filename := filepath.Join("testdata", name+".json")
	objJSON, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		t.Fatalf("could not encode snapshot %s: %v", filename, err)
		return false
	}

	expects, err := os.ReadFile(filename)
	if os.IsNotExist(err) || os.Getenv(UpdateEnv) == "1" {
		write(t, filename, objJSON)
		return true
	} else if err != nil {
		t.Fatalf("could not read snapshot %s: %v", filename, err)
		return false
	}

	if !assert.Equal(t, strings.Trim(string(expects), "\n"), strings.Trim(string(objJSON), "\n"), msgAndArgs...) {
		t.Logf("snapshot %s, run with %s=1 to update", filename, UpdateEnv)
		return false
	}

	return true
}

func write(t testing.TB, filename string, b []byte) {
	t.Helper()

	logrus.WithField("filename", filename).Info("writing snapshot file")
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		t.Fatalf("could not create snapshot directory: %v", err)
	}

	if err := os.WriteFile(filename, append(b, '\n'), 0644); err != nil {
		t.Fatalf("could not write snapshot %s: %v", filename, err)
	}
}
