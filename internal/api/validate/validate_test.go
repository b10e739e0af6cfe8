package validate

import (
	"math"
	"testing"
)

func TestAmount(t *testing.T) {
	if e := Amount("amount", 10); e != nil {
		t.Fatalf("valid amount rejected: %+v", e)
	}
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if e := Amount("amount", v); e == nil {
			t.Errorf("Amount(%v) accepted", v)
		}
	}
}

func TestPositiveID(t *testing.T) {
	if e := PositiveID("user_id", 1); e != nil {
		t.Fatalf("valid id rejected: %+v", e)
	}
	if e := PositiveID("user_id", 0); e == nil {
		t.Fatal("zero id accepted")
	}
}

func TestErrsMessage(t *testing.T) {
	errs := Errs{{Field: "user_id", Msg: "required"}, {Field: "amount", Msg: "must be > 0"}}
	if got := errs.Error(); got != "user_id: required; amount: must be > 0" {
		t.Fatalf("Error() = %q", got)
	}
}
