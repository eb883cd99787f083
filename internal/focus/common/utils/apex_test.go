package utils

import (
	"reflect"
	"testing"
)

func TestApexDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"app.todoist.com", "todoist.com"},
		{"todoist.com", "todoist.com"},
		{"news.bbc.co.uk", "bbc.co.uk"},
		{"Example.COM.", "example.com"},
	}
	for _, tc := range cases {
		if got := ApexDomain(tc.in); got != tc.want {
			t.Errorf("ApexDomain(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDomainVariations(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{
			"example.com",
			[]string{"example.com", "www.example.com"},
		},
		{
			"app.todoist.com",
			[]string{"app.todoist.com", "www.app.todoist.com", "todoist.com", "www.todoist.com"},
		},
		{
			"www.example.com",
			[]string{"www.example.com", "example.com"},
		},
		{
			"news.bbc.co.uk",
			[]string{"news.bbc.co.uk", "www.news.bbc.co.uk", "bbc.co.uk", "www.bbc.co.uk"},
		},
		{"", nil},
	}
	for _, tc := range cases {
		got := DomainVariations(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("DomainVariations(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
