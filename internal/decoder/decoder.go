// =============================================================================
// Stock Movement Converter - Line Decoder
// =============================================================================
//
// The decoder turns one ";"-delimited line into exactly one Record or a
// *DecodeError describing the first rule the line violates.
//
// FIELD LAYOUT:
//   | # | WrittenOff        | Incoming            |
//   |---|-------------------|---------------------|
//   | 0 | "Списанный товар" | "Поступивший товар" |
//   | 1 | date (02.01.2006) | date (02.01.2006)   |
//   | 2 | name              | name                |
//   | 3 | quantity          | quantity            |
//   | 4 | reason            | cost ("," or ".")   |
//   | 5 | product id        | product id          |
//
// CHECK ORDER:
//   field count -> discriminator -> date -> quantity -> extra -> product id
//
// =============================================================================

package decoder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/stock-movements/internal/record"
	"github.com/ginjaninja78/stock-movements/internal/validation"
)

// =============================================================================
// DECODE ERRORS
// =============================================================================

// ErrorKind identifies the rule a line violated.
type ErrorKind int

const (
	InsufficientFields ErrorKind = iota + 1
	TooManyFields
	UnknownStatus
	InvalidDate
	InvalidQuantity
	InvalidCost
	InvalidProductID
)

// String returns the rule name used in logs and error reports.
func (k ErrorKind) String() string {
	switch k {
	case InsufficientFields:
		return "insufficient_fields"
	case TooManyFields:
		return "too_many_fields"
	case UnknownStatus:
		return "unknown_status"
	case InvalidDate:
		return "invalid_date"
	case InvalidQuantity:
		return "invalid_quantity"
	case InvalidCost:
		return "invalid_cost"
	case InvalidProductID:
		return "invalid_product_id"
	default:
		return "unknown"
	}
}

// DecodeError is returned by Decode for every rejected line.
type DecodeError struct {
	// Kind is the violated rule.
	Kind ErrorKind

	// Value is the offending field value. For field count errors it holds
	// the number of fields found.
	Value string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	switch e.Kind {
	case InsufficientFields:
		return fmt.Sprintf("not enough fields in line: got %s, want %d", e.Value, record.FieldCount)
	case TooManyFields:
		return fmt.Sprintf("too many fields in line: got %s, want %d", e.Value, record.FieldCount)
	case UnknownStatus:
		return fmt.Sprintf("unknown product status: %s", e.Value)
	case InvalidDate:
		return fmt.Sprintf("invalid date: %s", e.Value)
	case InvalidQuantity:
		return fmt.Sprintf("invalid quantity: %q is not a non-negative integer", e.Value)
	case InvalidCost:
		return fmt.Sprintf("invalid cost: %q is not a non-negative decimal", e.Value)
	case InvalidProductID:
		return fmt.Sprintf("invalid product id: %q is not a non-negative integer", e.Value)
	default:
		return fmt.Sprintf("decode error: %s", e.Value)
	}
}

// Is matches any *DecodeError of the same Kind, so that
// errors.Is(err, ErrInvalidDate) works regardless of Value.
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInsufficientFields = &DecodeError{Kind: InsufficientFields}
	ErrTooManyFields      = &DecodeError{Kind: TooManyFields}
	ErrUnknownStatus      = &DecodeError{Kind: UnknownStatus}
	ErrInvalidDate        = &DecodeError{Kind: InvalidDate}
	ErrInvalidQuantity    = &DecodeError{Kind: InvalidQuantity}
	ErrInvalidCost        = &DecodeError{Kind: InvalidCost}
	ErrInvalidProductID   = &DecodeError{Kind: InvalidProductID}
)

func fail(kind ErrorKind, value string) *DecodeError {
	return &DecodeError{Kind: kind, Value: value}
}

// =============================================================================
// DECODING
// =============================================================================

// TrimLine removes trailing line terminators. Other whitespace is kept, it
// belongs to the fields.
func TrimLine(line string) string {
	return strings.TrimRight(line, "\r\n")
}

// Decode parses one movement line.
//
// PARAMETERS:
//   - line: The raw line, with or without its terminator.
//
// RETURNS:
//   - The decoded record.
//   - A *DecodeError if any field is invalid; the record is then zero.
func Decode(line string) (record.Record, error) {
	r, derr := decode(line)
	if derr != nil {
		return record.Record{}, derr
	}
	return r, nil
}

func decode(line string) (record.Record, *DecodeError) {
	fields := strings.Split(TrimLine(line), record.Separator)

	if len(fields) < record.FieldCount {
		return record.Record{}, fail(InsufficientFields, fmt.Sprint(len(fields)))
	}
	if len(fields) > record.FieldCount {
		return record.Record{}, fail(TooManyFields, fmt.Sprint(len(fields)))
	}

	status, date, name, rawQuantity, extra, rawProductID :=
		fields[0], fields[1], fields[2], fields[3], fields[4], fields[5]

	kind, ok := record.KindFromLabel(status)
	if !ok {
		return record.Record{}, fail(UnknownStatus, status)
	}

	if !validation.ValidateDate(date) {
		return record.Record{}, fail(InvalidDate, date)
	}

	quantity, ok := validation.ParseNonNegativeInt(rawQuantity)
	if !ok {
		return record.Record{}, fail(InvalidQuantity, rawQuantity)
	}

	var cost float64
	if kind == record.Incoming {
		cost, ok = validation.ParseCost(extra)
		if !ok {
			return record.Record{}, fail(InvalidCost, extra)
		}
	}

	productID, ok := validation.ParseNonNegativeInt(rawProductID)
	if !ok {
		return record.Record{}, fail(InvalidProductID, rawProductID)
	}

	var (
		r   record.Record
		err error
	)
	switch kind {
	case record.WrittenOff:
		r, err = record.NewWrittenOff(date, name, quantity, extra, productID)
	case record.Incoming:
		r, err = record.NewIncoming(date, name, quantity, cost, productID)
	}
	if err != nil {
		// Constructors re-check invariants the steps above already enforce.
		return record.Record{}, fail(constructionKind(err), line)
	}

	return r, nil
}

func constructionKind(err error) ErrorKind {
	switch {
	case errors.Is(err, record.ErrInvalidDate):
		return InvalidDate
	case errors.Is(err, record.ErrNegativeQuantity):
		return InvalidQuantity
	case errors.Is(err, record.ErrNegativeCost):
		return InvalidCost
	default:
		return InvalidProductID
	}
}
