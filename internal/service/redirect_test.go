package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/deppfellow/newsletter-signup/internal/errs"
	"github.com/deppfellow/newsletter-signup/internal/lib/mailgun"
)

func testRedirector() *Redirector {
	site, _ := url.Parse("https://site.example/")
	success, _ := url.Parse("https://site.example/thanks?source=form")
	return NewRedirector(site, success)
}

func TestRedirector_Build(t *testing.T) {
	r := testRedirector()

	tests := []struct {
		name    string
		raw     string
		href    string
		outcome *errs.SignupError
		want    string
	}{
		{
			name: "success keeps existing query",
			raw:  "a@b.c",
			href: "https://elsewhere.example/",
			want: "https://site.example/thanks?source=form&email=a%40b.c",
		},
		{
			name:    "failure goes back to href",
			raw:     "a@b.c",
			href:    "https://site.example/post?page=2#comments",
			outcome: errs.NewInvalidEmailError(),
			want:    "https://site.example/post?page=2&error=invalid-email&email=a%40b.c#recaptcha-form",
		},
		{
			name:    "failure replaces email already in href",
			raw:     "new@b.c",
			href:    "https://site.example/post?email=old%40b.c",
			outcome: errs.NewUnknownError(nil),
			want:    "https://site.example/post?email=new%40b.c&error=unknown#recaptcha-form",
		},
		{
			name:    "failure keeps undecodable href params",
			raw:     "a@b.c",
			href:    "https://site.example/post?utm=%zz&page=2",
			outcome: errs.NewUnknownError(nil),
			want:    "https://site.example/post?utm=%zz&page=2&error=unknown&email=a%40b.c#recaptcha-form",
		},
		{
			name:    "missing href uses site",
			raw:     "",
			outcome: errs.NewRecaptchaFailedError(nil),
			want:    "https://site.example/?error=recaptcha-failed&email=#recaptcha-form",
		},
		{
			name:    "unparseable href uses site",
			raw:     "a@b.c",
			href:    "not a url",
			outcome: errs.NewRecaptchaFailedError(nil),
			want:    "https://site.example/?error=recaptcha-failed&email=a%40b.c#recaptcha-form",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Build(tt.raw, tt.href, tt.outcome).String()
			if got != tt.want {
				t.Fatalf("Build()=%q, want %q", got, tt.want)
			}
		})
	}
}

func TestRedirector_DoesNotMutateConfiguredURLs(t *testing.T) {
	r := testRedirector()

	_ = r.Build("a@b.c", "", nil)
	_ = r.Build("a@b.c", "", errs.NewUnknownError(nil))

	if r.successURL.String() != "https://site.example/thanks?source=form" {
		t.Fatalf("success URL mutated: %q", r.successURL)
	}
	if r.siteURL.String() != "https://site.example/" {
		t.Fatalf("site URL mutated: %q", r.siteURL)
	}
}

func TestContactVars_MarshalJSON(t *testing.T) {
	vars := ContactVars{
		Href:     "https://site.example/post",
		Referrer: "",
		JoinedAt: time.Date(2024, 3, 9, 18, 4, 5, 123456789, time.FixedZone("CET", 3600)),
	}

	b, err := json.Marshal(vars)
	if err != nil {
		t.Fatalf("Marshal() err=%v", err)
	}

	want := `{"href":"https://site.example/post","referrer":"","joinedAt":"2024-03-09T17:04:05.123Z"}`
	if string(b) != want {
		t.Fatalf("json=%s, want %s", b, want)
	}
}

func TestMailgunList_UpsertContact(t *testing.T) {
	var form url.Values
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = r.ParseForm()
		form = r.PostForm
		_, _ = w.Write([]byte(`{"member": {"address": "foo@example.com"}}`))
	}))
	defer srv.Close()

	list := NewMailgunList(mailgun.NewClient(srv.Client(), "key", srv.URL), "news@mg.example")
	err := list.UpsertContact(context.Background(), "foo@example.com", ContactVars{
		Href:     "https://site.example/post",
		Referrer: "https://news.example/",
		JoinedAt: fixedNow,
	})
	if err != nil {
		t.Fatalf("UpsertContact() err=%v", err)
	}

	if path != "/lists/news@mg.example/members" {
		t.Fatalf("path=%q", path)
	}
	if form.Get("upsert") != "yes" || form.Get("address") != "foo@example.com" {
		t.Fatalf("unexpected form %v", form)
	}
	vars := form.Get("vars")
	if gjson.Get(vars, "joinedAt").String() != "2024-03-09T17:04:05.123Z" {
		t.Fatalf("vars=%s", vars)
	}
	if gjson.Get(vars, "referrer").String() != "https://news.example/" {
		t.Fatalf("vars=%s", vars)
	}
}
