package in_mem

import (
	"context"
	"log/slog"
	"sync"

	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/table"
)

type InMemStorer struct {
	storageLock sync.RWMutex
	scalars     map[string][]table.ScalarRow
	streams     map[string][]table.StreamRow
}

func NewInMemStorer() *InMemStorer {
	return &InMemStorer{
		scalars: make(map[string][]table.ScalarRow),
		streams: make(map[string][]table.StreamRow),
	}
}

func (s *InMemStorer) SaveScalars(_ context.Context, analysisID string, rows []table.ScalarRow) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	s.scalars[analysisID] = append(s.scalars[analysisID], rows...)
	slog.Debug("Saved scalar rows in memory", "analysis_id", analysisID, "rows", len(rows))
	return nil
}

func (s *InMemStorer) SaveStreams(_ context.Context, analysisID string, rows []table.StreamRow) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	s.streams[analysisID] = append(s.streams[analysisID], rows...)
	slog.Debug("Saved stream rows in memory", "analysis_id", analysisID, "rows", len(rows))
	return nil
}

func (s *InMemStorer) Scalars(analysisID string) []table.ScalarRow {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()
	return append([]table.ScalarRow(nil), s.scalars[analysisID]...)
}

func (s *InMemStorer) Streams(analysisID string) []table.StreamRow {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()
	return append([]table.StreamRow(nil), s.streams[analysisID]...)
}
