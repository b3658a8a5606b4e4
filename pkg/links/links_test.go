package links

import "testing"

func TestBuilderURLs(t *testing.T) {
	b := NewBuilder("https://invites.example.com/ ")

	if got := b.PublicURL("ana-and-ben"); got != "https://invites.example.com/invite/ana-and-ben" {
		t.Fatalf("unexpected public url %q", got)
	}
	if got := b.ProofURL("ana-and-ben", "abc123"); got != "https://invites.example.com/invite/ana-and-ben?proof=abc123" {
		t.Fatalf("unexpected proof url %q", got)
	}
}
