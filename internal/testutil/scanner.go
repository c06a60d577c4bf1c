package testutil

import "arthub-go/internal/arthub"

// StubScanner returns a canned file list instead of walking a directory.
type StubScanner struct {
	Files []*arthub.ScannedFile
	Err   error

	// Roots records every root passed to Scan.
	Roots []string
}

func (s *StubScanner) Scan(root string) ([]*arthub.ScannedFile, error) {
	s.Roots = append(s.Roots, root)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Files, nil
}

var _ arthub.Scanner = (*StubScanner)(nil)
