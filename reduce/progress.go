package reduce

import (
	"bytes"
	"io"
	"sync/atomic"
)

// Progress counts the work a Runner has done.  All fields are updated
// atomically so it may be read while a run is in flight.
type Progress struct {
	Rounds              atomic.Int64
	Batches             atomic.Int64
	IntermediateRecords atomic.Int64
	IntermediateBytes   atomic.Int64
	OutputRecords       atomic.Int64
	OutputBytes         atomic.Int64
}

// Snapshot is a plain-value copy of Progress for marshaling.
type Snapshot struct {
	Rounds              int64 `json:"rounds"`
	Batches             int64 `json:"batches"`
	IntermediateRecords int64 `json:"intermediate_records"`
	IntermediateBytes   int64 `json:"intermediate_bytes"`
	OutputRecords       int64 `json:"output_records"`
	OutputBytes         int64 `json:"output_bytes"`
}

func (p *Progress) Snapshot() Snapshot {
	return Snapshot{
		Rounds:              p.Rounds.Load(),
		Batches:             p.Batches.Load(),
		IntermediateRecords: p.IntermediateRecords.Load(),
		IntermediateBytes:   p.IntermediateBytes.Load(),
		OutputRecords:       p.OutputRecords.Load(),
		OutputBytes:         p.OutputBytes.Load(),
	}
}

func (p *Progress) meterIntermediate(w io.Writer) io.Writer {
	return &meter{w: w, records: &p.IntermediateRecords, bytes: &p.IntermediateBytes}
}

func (p *Progress) meterOutput(w io.Writer) io.Writer {
	return &meter{w: w, records: &p.OutputRecords, bytes: &p.OutputBytes}
}

// meter counts records by their newline terminators, which is exact
// because records are single lines.
type meter struct {
	w       io.Writer
	records *atomic.Int64
	bytes   *atomic.Int64
}

func (m *meter) Write(p []byte) (int, error) {
	n, err := m.w.Write(p)
	m.bytes.Add(int64(n))
	m.records.Add(int64(bytes.Count(p[:n], []byte{'\n'})))
	return n, err
}
