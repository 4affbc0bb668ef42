package service

import (
	"net/url"

	"github.com/deppfellow/newsletter-signup/internal/errs"
	"github.com/deppfellow/newsletter-signup/internal/lib/utils"
)

// FormAnchor is the fragment a failed submission is sent back to, so the
// page scrolls to the form and re-displays the challenge.
const FormAnchor = "recaptcha-form"

// Redirector computes the Location of a subscribe response.
type Redirector struct {
	siteURL    *url.URL
	successURL *url.URL
}

func NewRedirector(siteURL, successURL *url.URL) *Redirector {
	return &Redirector{siteURL: siteURL, successURL: successURL}
}

// Build returns the redirect target for one submission.
//
// On success it is the configured success URL. On failure it is href, or the
// site URL when href is not a usable absolute URL, with error=<code> and the
// form anchor. Both carry email=<rawEmail> unmodified.
func (r *Redirector) Build(rawEmail, href string, outcome *errs.SignupError) *url.URL {
	var target *url.URL
	if outcome == nil {
		target = utils.CloneURL(r.successURL)
	} else {
		target = utils.ParseURLOrDefault(href, r.siteURL)
		target.Fragment = FormAnchor
		target.RawFragment = ""
	}

	// Edit the raw query so the page's own parameters keep their order and bytes.
	if outcome != nil {
		target.RawQuery = utils.SetQueryParam(target.RawQuery, "error", string(outcome.Code))
	}
	target.RawQuery = utils.SetQueryParam(target.RawQuery, "email", rawEmail)

	return target
}
