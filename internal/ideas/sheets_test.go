package ideas

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestNormalizeSheetURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"gviz query rewritten to csv",
			"https://docs.google.com/spreadsheets/d/abc/gviz/tq?tqx=out:html",
			"https://docs.google.com/spreadsheets/d/abc/gviz/tq?tqx=out:csv",
		},
		{
			"export forced to csv format",
			"https://docs.google.com/spreadsheets/d/abc/export?format=xlsx&gid=0",
			"https://docs.google.com/spreadsheets/d/abc/export?format=csv",
		},
		{
			"edit suffix swapped for export",
			"https://docs.google.com/spreadsheets/d/abc/edit",
			"https://docs.google.com/spreadsheets/d/abc/export?format=csv",
		},
		{
			"edit with fragment",
			"https://docs.google.com/spreadsheets/d/abc/edit#gid=0",
			"https://docs.google.com/spreadsheets/d/abc/export?format=csv",
		},
		{
			"unrecognized url passes through",
			"https://example.com/ideas.csv",
			"https://example.com/ideas.csv",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeSheetURL(tc.in); got != tc.want {
				t.Fatalf("NormalizeSheetURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSheetFetchParsesRows(t *testing.T) {
	csv := "title,description,tags\n" +
		"The Silent Factory,Machines that run overnight,\"ai, robots\"\n" +
		",,\n" +
		"Ghost Kitchens,,#food#delivery\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(csv))
	}))
	defer srv.Close()

	got, err := NewSheetSource().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	want := []Idea{
		{Title: "The Silent Factory", Description: "Machines that run overnight", Tags: []string{"ai", "robots"}},
		{Title: "Ghost Kitchens", Description: "Ghost Kitchens", Tags: []string{"food", "delivery"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ideas = %+v, want %+v", got, want)
	}
}

func TestSheetFetchFallsBackToFirstColumn(t *testing.T) {
	csv := "whatever,notes\nMystery Topic,some notes\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(csv))
	}))
	defer srv.Close()

	got, err := NewSheetSource().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d ideas, want 1", len(got))
	}
	if got[0].Title != "Mystery Topic" {
		t.Fatalf("title = %q, want first column value", got[0].Title)
	}
	if got[0].Description != "Mystery Topic" {
		t.Fatalf("description = %q, want title fallback", got[0].Description)
	}
}

func TestSheetFetchEmptyLocator(t *testing.T) {
	got, err := NewSheetSource().Fetch(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("ideas = %v, want nil for an empty locator", got)
	}
}

func TestSheetFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := NewSheetSource().Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestSheetFetchHeaderOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("title,description\n"))
	}))
	defer srv.Close()

	got, err := NewSheetSource().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("ideas = %v, want nil for a header-only sheet", got)
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags("ai, robots,#future #tech, ")
	want := []string{"ai", "robots", "future", "tech"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitTags = %v, want %v", got, want)
	}
}
