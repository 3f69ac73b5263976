package storage

import (
	"errors"
	"fmt"
	"io"

	"github.com/dutchcoders/go-clamd"
)

// ErrInfected is returned by a Scanner when the content is flagged.
var ErrInfected = errors.New("malicious file detected")

// Scanner inspects an uploaded file before it is stored.
type Scanner interface {
	Scan(r io.Reader) error
}

// NopScanner accepts everything. It is used when no clamd address is configured.
type NopScanner struct{}

func (NopScanner) Scan(io.Reader) error { return nil }

// ClamdScanner streams files to a clamd daemon.
type ClamdScanner struct {
	client *clamd.Clamd
}

// NewScanner returns a ClamdScanner for addr, or a NopScanner when addr is empty.
func NewScanner(addr string) Scanner {
	if addr == "" {
		return NopScanner{}
	}
	return &ClamdScanner{client: clamd.NewClamd(addr)}
}

func (s *ClamdScanner) Scan(r io.Reader) error {
	abortChan := make(chan bool)
	defer close(abortChan)

	results, err := s.client.ScanStream(r, abortChan)
	if err != nil {
		return fmt.Errorf("scan file: %w", err)
	}

	for result := range results {
		switch result.Status {
		case clamd.RES_OK:
		case clamd.RES_FOUND:
			return fmt.Errorf("%w: %s", ErrInfected, result.Description)
		default:
			return fmt.Errorf("scan file: %s", result.Description)
		}
	}
	return nil
}
