package validate

import (
	"math"
	"strings"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string { // error interface
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// Helpers

func PositiveID(field string, v int64) *ErrField {
	if v <= 0 {
		return &ErrField{Field: field, Msg: "must be a positive id"}
	}
	return nil
}

func Amount(field string, v float64) *ErrField {
	if v <= 0 {
		return &ErrField{Field: field, Msg: "must be > 0"}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ErrField{Field: field, Msg: "must be finite"}
	}
	return nil
}
