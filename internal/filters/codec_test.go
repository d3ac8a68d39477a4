package filters_test

import (
	"net/url"
	"reflect"
	"testing"

	"directory-bknd/internal/filters"
	"directory-bknd/internal/models"
)

func TestDecode_Defaults(t *testing.T) {
	got := filters.Decode(url.Values{})
	want := filters.State{Page: 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Decode(empty) = %#v, want %#v", got, want)
	}
}

func TestDecode_AllKeys(t *testing.T) {
	v, _ := url.ParseQuery("search=Sydney+NSW&region=Sydney&categories=Therapy,Nursing&title=Acme&page=3&utm=x")
	got := filters.Decode(v)
	want := filters.State{
		Search:     "Sydney NSW",
		Region:     "Sydney",
		Categories: []string{"Therapy", "Nursing"},
		Title:      "Acme",
		Page:       3,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Decode = %#v, want %#v", got, want)
	}
}

func TestDecode_MalformedPage(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-4", "", "1.5"} {
		got := filters.Decode(url.Values{"page": {raw}})
		if got.Page != 1 {
			t.Errorf("Decode(page=%q).Page = %d, want 1", raw, got.Page)
		}
	}
}

func TestDecode_HugePageIsClamped(t *testing.T) {
	got := filters.Decode(url.Values{"page": {"9223372036854775807"}})
	if got.Page != models.MaxPage {
		t.Fatalf("Decode(page=MaxInt64).Page = %d, want %d", got.Page, models.MaxPage)
	}
	if n := (filters.State{Page: models.MaxPage + 5}).Normalize(); n.Page != models.MaxPage {
		t.Fatalf("Normalize page = %d", n.Page)
	}
}

func TestRoundTrip(t *testing.T) {
	states := []filters.State{
		{},
		{Page: 1},
		{Search: "Melbourne VIC", Page: 2},
		{Region: "Perth", Categories: []string{"Plan Management"}},
		{Categories: []string{"Therapy", "Nursing", "Therapy"}, Title: " Acme Care ", Page: 7},
		{Search: "a&b=c", Title: "100% care", Page: -3},
	}
	base := url.Values{"utm_source": {"newsletter"}}

	for _, s := range states {
		encoded := filters.Encode(s, base)
		got := filters.Decode(encoded)
		want := s.Normalize()
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Decode(Encode(%#v)) = %#v, want %#v", s, got, want)
		}
		if encoded.Get("utm_source") != "newsletter" {
			t.Errorf("Encode dropped unrelated key for %#v", s)
		}
	}
}

func TestEncode_DoesNotMutateBase(t *testing.T) {
	base := url.Values{"search": {"old"}}
	_ = filters.Encode(filters.State{Search: "new"}, base)
	if base.Get("search") != "old" {
		t.Fatal("Encode mutated its base values")
	}
}

func TestWithPage_Floor(t *testing.T) {
	base := url.Values{"search": {"x"}, "page": {"4"}}
	for _, p := range []int{1, 0, -1, -100} {
		got := filters.WithPage(base, p)
		if got.Has("page") {
			t.Errorf("WithPage(%d) kept page=%q", p, got.Get("page"))
		}
		if got.Get("search") != "x" {
			t.Errorf("WithPage(%d) dropped search", p)
		}
		// idempotent
		again := filters.WithPage(got, p)
		if again.Encode() != got.Encode() {
			t.Errorf("WithPage(%d) not idempotent: %q vs %q", p, again.Encode(), got.Encode())
		}
	}
	if got := filters.WithPage(base, 5).Get("page"); got != "5" {
		t.Fatalf("WithPage(5) page = %q", got)
	}
}

func TestSet_ResetsPage(t *testing.T) {
	base := url.Values{"page": {"3"}, "region": {"Sydney"}}
	got := filters.Set(base, filters.KeySearch, "Bondi")
	if got.Has("page") {
		t.Fatal("editing a filter should drop page")
	}
	if got.Get("search") != "Bondi" || got.Get("region") != "Sydney" {
		t.Fatalf("unexpected values %v", got)
	}

	cleared := filters.Set(got, filters.KeyRegion, "  ")
	if cleared.Has("region") {
		t.Fatal("blank value should remove the key")
	}

	paged := filters.Set(base, filters.KeyPage, "9")
	if paged.Get("page") != "9" {
		t.Fatalf("Set(page) = %q", paged.Get("page"))
	}
}

func TestHref(t *testing.T) {
	if got := filters.Href("/listing", url.Values{}); got != "/listing" {
		t.Fatalf("Href(empty) = %q", got)
	}
	if got := filters.Href("/listing", url.Values{"page": {"2"}}); got != "/listing?page=2" {
		t.Fatalf("Href = %q", got)
	}
}

func TestState_Query(t *testing.T) {
	s := filters.State{Region: "Hobart", Categories: []string{"Therapy"}, Page: 0}
	q := s.Query(10, "user-1")
	if q.City != "Hobart" || q.Page != 1 || q.Limit != 10 || q.UserID != "user-1" {
		t.Fatalf("Query = %#v", q)
	}
}
