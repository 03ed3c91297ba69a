package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/bibbank/purchase-approval/pkg/tlsutil"
)

// runDevCerts implements "approvald dev-certs": it writes a private CA plus
// server and client certificates for local TLS and mutual TLS.
func runDevCerts(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("dev-certs", flag.ContinueOnError)
	fs.SetOutput(out)
	dir := fs.String("out", "certs", "directory to write the PEM files to")
	hosts := fs.String("hosts", "localhost,127.0.0.1", "comma-separated names and IPs for the server certificate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var names []string
	for _, h := range strings.Split(*hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			names = append(names, h)
		}
	}

	b, err := tlsutil.GenerateDevCertificates(names, *dir)
	if err != nil {
		return fmt.Errorf("generate dev certificates: %w", err)
	}

	fmt.Fprintf(out, "TLS_CERT_FILE=%s\nTLS_KEY_FILE=%s\nTLS_CA_FILE=%s\n",
		b.ServerCertFile, b.ServerKeyFile, b.CAFile)
	fmt.Fprintf(out, "# approvalctl -ca %s -cert %s -key %s\n",
		b.CAFile, b.ClientCertFile, b.ClientKeyFile)
	return nil
}
