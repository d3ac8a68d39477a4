package utils

import (
	"reflect"
	"testing"
)

func TestParseQueryList(t *testing.T) {
	cases := []struct {
		name string
		q    map[string][]string
		want []string
	}{
		{"missing", map[string][]string{}, nil},
		{"comma joined", map[string][]string{"c": {"Therapy, Nursing"}}, []string{"Therapy", "Nursing"}},
		{"repeated", map[string][]string{"c": {"Therapy", "Nursing"}}, []string{"Therapy", "Nursing"}},
		{"blanks and dupes", map[string][]string{"c": {"Therapy,,Therapy", " "}}, []string{"Therapy"}},
	}
	for _, c := range cases {
		got := ParseQueryList(c.q, "c")
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("%s: ParseQueryList = %#v, want %#v", c.name, got, c.want)
		}
	}
}

func TestJoinQueryList(t *testing.T) {
	if got := JoinQueryList([]string{" a ", "", "b"}); got != "a,b" {
		t.Fatalf("JoinQueryList = %q, want a,b", got)
	}
}
