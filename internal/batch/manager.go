// =============================================================================
// Stock Movement Converter - Batch Manager
// =============================================================================
//
// The batch manager drives the line decoder over a sequence of lines and
// builds a partial-success Batch:
//   - every decoded line lands in Records
//   - every rejected line lands in Failures, with its index and the error
//   - nothing is skipped, so len(Records)+len(Failures) == len(lines)
//
// ERROR HANDLING:
//   Decode errors are collected, never returned. A malformed line does not
//   stop the batch. Failures are optionally reported through a zap logger so
//   that operators see them as they happen.
//
// =============================================================================

package batch

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ginjaninja78/stock-movements/internal/decoder"
	"github.com/ginjaninja78/stock-movements/internal/record"
)

// =============================================================================
// BATCH
// =============================================================================

// Failure describes one rejected line.
type Failure struct {
	// Index is the 0-based position of the line in the input.
	Index int

	// Line is the input line without its terminator.
	Line string

	// Err is the rule the line violated.
	Err *decoder.DecodeError
}

// Batch is the decoded content of one input file.
type Batch struct {
	// ID identifies the batch in logs and generated files.
	ID uuid.UUID

	// Records holds the decoded lines in input order.
	Records []record.Record

	// Failures holds the rejected lines in input order.
	Failures []Failure
}

// Total is the number of input lines the batch was built from.
func (b *Batch) Total() int {
	return len(b.Records) + len(b.Failures)
}

// HasFailures reports whether any line was rejected.
func (b *Batch) HasFailures() bool {
	return len(b.Failures) > 0
}

// Count returns how many records of the given kind the batch holds.
func (b *Batch) Count(kind record.Kind) int {
	n := 0
	for _, r := range b.Records {
		if r.Kind() == kind {
			n++
		}
	}
	return n
}

// WrittenOff returns the write-off records in input order.
func (b *Batch) WrittenOff() []record.Record {
	return b.filter(record.WrittenOff)
}

// Incoming returns the incoming records in input order.
func (b *Batch) Incoming() []record.Record {
	return b.filter(record.Incoming)
}

func (b *Batch) filter(kind record.Kind) []record.Record {
	out := make([]record.Record, 0, b.Count(kind))
	for _, r := range b.Records {
		if r.Kind() == kind {
			out = append(out, r)
		}
	}
	return out
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager decodes line sequences into batches. It holds no per-batch state
// and may be shared.
type Manager struct {
	logger *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger reports every failed line through logger at warn level.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a Manager. Without options failures are not logged.
func NewManager(opts ...Option) *Manager {
	m := &Manager{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DecodeAll decodes every line and returns the resulting batch.
//
// PARAMETERS:
//   - lines: The raw lines, in file order. Terminators are optional.
//
// RETURNS:
//   - A new Batch owned by the caller.
func (m *Manager) DecodeAll(lines []string) *Batch {
	b := &Batch{
		ID:       uuid.New(),
		Records:  make([]record.Record, 0, len(lines)),
		Failures: make([]Failure, 0),
	}

	log := m.logger.With(zap.Stringer("batch", b.ID))

	for i, raw := range lines {
		line := decoder.TrimLine(raw)

		r, err := decoder.Decode(line)
		if err != nil {
			derr := err.(*decoder.DecodeError)
			b.Failures = append(b.Failures, Failure{Index: i, Line: line, Err: derr})

			log.Warn("rejected line",
				zap.Int("index", i),
				zap.String("line", line),
				zap.Stringer("rule", derr.Kind),
				zap.String("value", derr.Value),
				zap.String("error", derr.Error()),
			)
			continue
		}

		b.Records = append(b.Records, r)
	}

	log.Debug("decoded batch",
		zap.Int("lines", len(lines)),
		zap.Int("records", len(b.Records)),
		zap.Int("failures", len(b.Failures)),
	)

	return b
}
