package bootstrap

import (
	"crypto/x509"
	"testing"

	"github.com/fulldump/biff"
)

func TestSelfSignedCertificate(t *testing.T) {

	biff.Alternative("Self signed certificate", func(a *biff.A) {

		a.Alternative("IP address", func(a *biff.A) {
			certificate, err := selfSignedCertificate("127.0.0.1:8080")
			biff.AssertNil(err)

			parsed, err := x509.ParseCertificate(certificate.Certificate[0])
			biff.AssertNil(err)
			biff.AssertEqual(parsed.IPAddresses[0].String(), "127.0.0.1")
		})

		a.Alternative("Any interface", func(a *biff.A) {
			certificate, err := selfSignedCertificate(":8080")
			biff.AssertNil(err)

			parsed, err := x509.ParseCertificate(certificate.Certificate[0])
			biff.AssertNil(err)
			biff.AssertEqual(parsed.DNSNames, []string{"localhost"})
		})
	})
}
