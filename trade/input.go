package trade

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingField        = errors.New("missing required field")
	ErrInvalidNumericField = errors.New("invalid numeric field")
	ErrInvalidEnum         = errors.New("invalid enumeration value")
	ErrOutOfRange          = errors.New("value out of range")
)

// ValidationError reports the first form field that could not be accepted.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid trade field %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Input holds trade fields exactly as a user typed them.
type Input struct {
	Date       string `json:"date" form:"date" validate:"required"`
	AssetClass string `json:"assetClass" form:"assetClass" validate:"required"`
	Symbol     string `json:"symbol" form:"symbol" validate:"required"`
	Direction  string `json:"direction" form:"direction" validate:"required"`
	EntryPrice string `json:"entryPrice" form:"entryPrice" validate:"required"`
	ExitPrice  string `json:"exitPrice" form:"exitPrice"`
	Quantity   string `json:"quantity" form:"quantity" validate:"required"`
	Status     string `json:"status" form:"status"`
	Notes      string `json:"notes" form:"notes"`
	Fees       string `json:"fees" form:"fees"`
}

// field names as they appear on the entry form
var inputFields = map[string]string{
	"Date":       "date",
	"AssetClass": "assetClass",
	"Symbol":     "symbol",
	"Direction":  "direction",
	"EntryPrice": "entryPrice",
	"Quantity":   "quantity",
}

var validate = validator.New()

func trimInput(in Input) Input {
	return Input{
		Date:       strings.TrimSpace(in.Date),
		AssetClass: strings.TrimSpace(in.AssetClass),
		Symbol:     strings.TrimSpace(in.Symbol),
		Direction:  strings.TrimSpace(in.Direction),
		EntryPrice: strings.TrimSpace(in.EntryPrice),
		ExitPrice:  strings.TrimSpace(in.ExitPrice),
		Quantity:   strings.TrimSpace(in.Quantity),
		Status:     strings.TrimSpace(in.Status),
		Notes:      strings.TrimSpace(in.Notes),
		Fees:       strings.TrimSpace(in.Fees),
	}
}

// Normalize parses and validates raw form input. The symbol is upper-cased,
// an empty status means Closed and an empty exit price falls back to the
// entry price, which prices the trade at zero.
func Normalize(in Input) (Draft, error) {
	in = trimInput(in)

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0].StructField()
			return Draft{}, &ValidationError{Field: inputFields[f], Reason: "is required", Err: ErrMissingField}
		}
		return Draft{}, fmt.Errorf("validate trade input: %w", err)
	}

	asset, err := ParseAssetClass(in.AssetClass)
	if err != nil {
		return Draft{}, &ValidationError{Field: "assetClass", Reason: err.Error(), Err: ErrInvalidEnum}
	}
	dir, err := ParseDirection(in.Direction)
	if err != nil {
		return Draft{}, &ValidationError{Field: "direction", Reason: err.Error(), Err: ErrInvalidEnum}
	}
	status := Closed
	if in.Status != "" {
		if status, err = ParseStatus(in.Status); err != nil {
			return Draft{}, &ValidationError{Field: "status", Reason: err.Error(), Err: ErrInvalidEnum}
		}
	}

	qty, err := parseNumber("quantity", in.Quantity)
	if err != nil {
		return Draft{}, err
	}
	if qty <= 0 {
		return Draft{}, &ValidationError{Field: "quantity", Reason: "must be positive", Err: ErrOutOfRange}
	}
	entry, err := parseNumber("entryPrice", in.EntryPrice)
	if err != nil {
		return Draft{}, err
	}
	exit := entry
	if in.ExitPrice != "" {
		if exit, err = parseNumber("exitPrice", in.ExitPrice); err != nil {
			return Draft{}, err
		}
	}

	var fees *float64
	if in.Fees != "" {
		v, err := parseNumber("fees", in.Fees)
		if err != nil {
			return Draft{}, err
		}
		fees = &v
	}

	return Draft{
		Date:       in.Date,
		AssetClass: asset,
		Symbol:     strings.ToUpper(in.Symbol),
		Direction:  dir,
		EntryPrice: entry,
		ExitPrice:  exit,
		Quantity:   qty,
		Status:     status,
		Notes:      in.Notes,
		Fees:       fees,
	}, nil
}

func parseNumber(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a number", s), Err: ErrInvalidNumericField}
	}
	return v, nil
}
