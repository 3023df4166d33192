package xps

import (
	"reflect"
	"testing"
)

func TestParseNumberList_CommaSeparated(t *testing.T) {
	got, err := ParseNumberList("0,0,612,792")
	if err != nil {
		t.Fatalf("ParseNumberList: %v", err)
	}
	want := []float64{0, 0, 612, 792}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseNumberList_WhitespaceSeparated(t *testing.T) {
	got, err := ParseNumberList("1 0 0 1 0 0")
	if err != nil {
		t.Fatalf("ParseNumberList: %v", err)
	}
	want := []float64{1, 0, 0, 1, 0, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseNumberList_MixedSeparatorsAndRuns(t *testing.T) {
	got, err := ParseNumberList("1, ,2,  3")
	if err != nil {
		t.Fatalf("ParseNumberList: %v", err)
	}
	want := []float64{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseNumberList_NegativeAndDecimal(t *testing.T) {
	got, err := ParseNumberList("-1.5,2.25,-0.0001")
	if err != nil {
		t.Fatalf("ParseNumberList: %v", err)
	}
	want := []float64{-1.5, 2.25, -0.0001}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseNumberList_InvalidToken(t *testing.T) {
	if _, err := ParseNumberList("1,abc,3"); err == nil {
		t.Error("expected error for non-numeric token")
	}
}

func TestParseNumber(t *testing.T) {
	v, err := ParseNumber("  3.14  ")
	if err != nil {
		t.Fatalf("ParseNumber: %v", err)
	}
	if v != 3.14 {
		t.Errorf("v = %v, want 3.14", v)
	}
}
