package api

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/JapaKeeper/internal/middleware"
)

// NewHTTPClient builds the client used for every backend call. When caFile
// is set its certificates are trusted in addition to the system roots.
// Requests are logged through middleware.WithRequestLogging.
func NewHTTPClient(caFile string, timeout time.Duration, log *zap.Logger) (*http.Client, error) {
	if log == nil {
		log = zap.NewNop()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if caFile != "" {
		caCert, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caPool, err := x509.SystemCertPool()
		if err != nil || caPool == nil {
			caPool = x509.NewCertPool()
		}
		if !caPool.AppendCertsFromPEM(caCert) {
			return nil, errors.New("failed to parse CA cert")
		}
		transport.TLSClientConfig = &tls.Config{
			RootCAs:    caPool,
			MinVersion: tls.VersionTLS12,
		}
	}

	return &http.Client{
		Transport: middleware.WithRequestLogging(transport, log),
		Timeout:   timeout,
	}, nil
}
