// Package links builds the couple-facing URLs for an invitation.
package links

import (
	"net/url"
	"strings"
)

const ProofParam = "proof"

type Builder struct {
	base string
}

func NewBuilder(baseURL string) Builder {
	return Builder{base: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
}

// PublicURL is the guest-facing microsite address.
func (b Builder) PublicURL(slug string) string {
	return b.base + "/invite/" + url.PathEscape(slug)
}

// ProofURL is the public address plus the approval token the couple uses to review a draft.
func (b Builder) ProofURL(slug, token string) string {
	q := url.Values{}
	q.Set(ProofParam, token)
	return b.PublicURL(slug) + "?" + q.Encode()
}
