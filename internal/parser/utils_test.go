package parser

import (
	"encoding/json"
	"testing"
)

func TestNormalizeHeader(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Tydzień":            "tydzien",
		"  Dni\n pracy ":     "dni pracy",
		"Imię":               "imie",
		"Zamknięte Requesty": "zamkniete requesty",
		"Wysłane oferty":     "wyslane oferty",
		"Wartość":            "wartosc",
		"MRR":                "mrr",
	}
	for in, want := range cases {
		if got := NormalizeHeader(in); got != want {
			t.Fatalf("NormalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToFloat_Lenient(t *testing.T) {
	t.Parallel()

	cases := map[string]float64{
		"":         0,
		"abc":      0,
		"22":       22,
		" 4,5 ":    4.5,
		"1,500":    1500,
		"12,345.5": 12345.5,
		"4 000":    4000,
		"30%":      30,
		"-2":       -2,
	}
	for in, want := range cases {
		if got := ToFloat(in); got != want {
			t.Fatalf("ToFloat(%q) = %v, want %v", in, got, want)
		}
	}
	if got := ToInt("22.9"); got != 22 {
		t.Fatalf("ToInt truncation = %d, want 22", got)
	}
}

func TestNum_AcceptsLooseJSON(t *testing.T) {
	t.Parallel()

	var v struct {
		A Num `json:"a"`
		B Num `json:"b"`
		C Num `json:"c"`
		D Num `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"a": 3, "b": "16", "c": null, "d": "n/a"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A != 3 || v.B != 16 || v.C != 0 || v.D != 0 {
		t.Fatalf("unexpected values: %+v", v)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"2024-03-05", "05.03.2024", "2024/03/05", "45356"} {
		got, ok := ParseDate(in)
		if !ok || got != "2024-03-05" {
			t.Fatalf("ParseDate(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParseDate("soon"); ok {
		t.Fatalf("expected failure for free text")
	}
}
