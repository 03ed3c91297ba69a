package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/purchase-approval/pkg/tlsutil"
)

func TestRunDevCerts(t *testing.T) {
	t.Run("writes a usable bundle", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "certs")
		var out bytes.Buffer

		require.NoError(t, runDevCerts([]string{"-out", dir, "-hosts", "approval.local, 10.0.0.5"}, &out))

		for _, name := range []string{"ca.pem", "server.pem", "server-key.pem", "client.pem", "client-key.pem"} {
			_, err := os.Stat(filepath.Join(dir, name))
			assert.NoError(t, err, name)
		}
		assert.Contains(t, out.String(), "TLS_CERT_FILE="+filepath.Join(dir, "server.pem"))
		assert.Contains(t, out.String(), "TLS_CA_FILE="+filepath.Join(dir, "ca.pem"))

		_, err := tlsutil.ServerCredentials(filepath.Join(dir, "server.pem"), filepath.Join(dir, "server-key.pem"), filepath.Join(dir, "ca.pem"))
		assert.NoError(t, err)
	})

	t.Run("empty host list is rejected", func(t *testing.T) {
		err := runDevCerts([]string{"-out", t.TempDir(), "-hosts", " , "}, &bytes.Buffer{})
		assert.ErrorContains(t, err, "at least one host")
	})

	t.Run("unknown flag", func(t *testing.T) {
		assert.Error(t, runDevCerts([]string{"-bogus"}, &bytes.Buffer{}))
	})
}
