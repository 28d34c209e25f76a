// =============================================================================
// Stock Movement Converter - Record Model
// =============================================================================
//
// A Record is one decoded stock movement. The two movement kinds share the
// common fields (date, name, quantity, product id) and carry one kind-specific
// extra field:
//
//   | Kind       | Discriminator       | Extra field             |
//   |------------|---------------------|-------------------------|
//   | WrittenOff | "Списанный товар"   | Reason (free text)      |
//   | Incoming   | "Поступивший товар" | Cost (non-negative)     |
//
// Records are immutable: fields are unexported and only set by the
// constructors below.
//
// CANONICAL FORM:
//   kind;date;name;quantity;extra;productId
//
// =============================================================================

package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/stock-movements/internal/validation"
)

// Separator is the field delimiter of the canonical form.
const Separator = ";"

// FieldCount is the number of fields in the canonical form.
const FieldCount = 6

// =============================================================================
// KIND
// =============================================================================

// Kind discriminates the record variants.
type Kind int

const (
	// WrittenOff is an item removed from stock.
	WrittenOff Kind = iota + 1

	// Incoming is an item received into stock.
	Incoming
)

// Wire discriminators. Producers of movement files use exactly these bytes.
const (
	WrittenOffLabel = "Списанный товар"
	IncomingLabel   = "Поступивший товар"
)

// Label returns the wire discriminator for k.
func (k Kind) Label() string {
	switch k {
	case WrittenOff:
		return WrittenOffLabel
	case Incoming:
		return IncomingLabel
	default:
		return ""
	}
}

// String returns a stable ASCII name, used in logs and XML attributes.
func (k Kind) String() string {
	switch k {
	case WrittenOff:
		return "written_off"
	case Incoming:
		return "incoming"
	default:
		return "unknown"
	}
}

// KindFromLabel maps a discriminator to its Kind. The match is byte-exact.
func KindFromLabel(label string) (Kind, bool) {
	switch label {
	case WrittenOffLabel:
		return WrittenOff, true
	case IncomingLabel:
		return Incoming, true
	default:
		return 0, false
	}
}

// =============================================================================
// CONSTRUCTION ERRORS
// =============================================================================

var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrNegativeQuantity  = errors.New("quantity must be non-negative")
	ErrNegativeProductID = errors.New("product id must be non-negative")
	ErrNegativeCost      = errors.New("cost must be non-negative")
)

// =============================================================================
// RECORD
// =============================================================================

// Record is a single stock movement.
type Record struct {
	kind      Kind
	date      string
	day       time.Time
	name      string
	quantity  int64
	productID int64

	// reason is set for WrittenOff records only.
	reason string

	// cost is set for Incoming records only.
	cost float64
}

// NewWrittenOff builds a WrittenOff record.
//
// PARAMETERS:
//   - date: The date as it appeared in the source, in 02.01.2006 layout.
//   - name: The item name.
//   - quantity: Number of items written off.
//   - reason: Why the items were written off.
//   - productID: The product identifier.
func NewWrittenOff(date, name string, quantity int64, reason string, productID int64) (Record, error) {
	r, err := newRecord(WrittenOff, date, name, quantity, productID)
	if err != nil {
		return Record{}, err
	}
	r.reason = reason
	return r, nil
}

// NewIncoming builds an Incoming record.
func NewIncoming(date, name string, quantity int64, cost float64, productID int64) (Record, error) {
	if cost < 0 {
		return Record{}, fmt.Errorf("%w: %v", ErrNegativeCost, cost)
	}
	r, err := newRecord(Incoming, date, name, quantity, productID)
	if err != nil {
		return Record{}, err
	}
	r.cost = cost
	return r, nil
}

func newRecord(kind Kind, date, name string, quantity, productID int64) (Record, error) {
	day, ok := validation.ParseDate(date)
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}
	if quantity < 0 {
		return Record{}, fmt.Errorf("%w: %d", ErrNegativeQuantity, quantity)
	}
	if productID < 0 {
		return Record{}, fmt.Errorf("%w: %d", ErrNegativeProductID, productID)
	}

	return Record{
		kind:      kind,
		date:      date,
		day:       day,
		name:      name,
		quantity:  quantity,
		productID: productID,
	}, nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

func (r Record) Kind() Kind { return r.kind }

// Label returns the status label, which is also the wire discriminator.
func (r Record) Label() string { return r.kind.Label() }

// Date returns the date exactly as it appeared in the source line.
func (r Record) Date() string { return r.date }

// Day returns the parsed calendar date.
func (r Record) Day() time.Time { return r.day }

func (r Record) Name() string     { return r.name }
func (r Record) Quantity() int64  { return r.quantity }
func (r Record) ProductID() int64 { return r.productID }

// Reason returns the write-off reason. It is empty for Incoming records.
func (r Record) Reason() string { return r.reason }

// Cost returns the unit cost. It is zero for WrittenOff records.
func (r Record) Cost() float64 { return r.cost }

// Extra returns the kind-specific field as text: the reason for write-offs,
// the cost with two decimals for incoming goods.
func (r Record) Extra() string {
	if r.kind == Incoming {
		return strconv.FormatFloat(r.cost, 'f', 2, 64)
	}
	return r.reason
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// Fields returns the canonical field values in wire order.
func (r Record) Fields() []string {
	return []string{
		r.Label(),
		r.date,
		r.name,
		strconv.FormatInt(r.quantity, 10),
		r.Extra(),
		strconv.FormatInt(r.productID, 10),
	}
}

// Canonical returns the record as one ";"-joined line without terminator.
func (r Record) Canonical() string {
	return strings.Join(r.Fields(), Separator)
}

// String renders the record for people.
func (r Record) String() string {
	base := fmt.Sprintf("%s: %s, Дата: %s, Количество: %d", r.Label(), r.name, r.date, r.quantity)

	switch r.kind {
	case WrittenOff:
		return fmt.Sprintf("%s, Причина списания: %s, ID товара: %d", base, r.reason, r.productID)
	case Incoming:
		return fmt.Sprintf("%s, Стоимость: %.2f, ID товара: %d", base, r.cost, r.productID)
	default:
		return base
	}
}
