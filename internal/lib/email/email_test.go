package email

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/deppfellow/newsletter-signup/internal/config"
	"github.com/deppfellow/newsletter-signup/internal/lib/mailgun"
)

type recordingProvider struct {
	sent []*Message
	err  error
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) Send(_ context.Context, msg *Message) error {
	p.sent = append(p.sent, msg)
	return p.err
}

func testConfig(provider, hostedTemplate string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Site.URL = "https://site.example/"
	cfg.Mail.Provider = provider
	cfg.Mail.Welcome.From = "News <news@mg.example>"
	cfg.Mail.Welcome.Subject = "Welcome aboard"
	cfg.Mail.Welcome.Template = hostedTemplate
	return cfg
}

func TestRenderWelcome(t *testing.T) {
	html, err := Render(TemplateWelcome, WelcomeData{Email: "foo@example.com", SiteURL: "https://site.example/"})
	if err != nil {
		t.Fatalf("Render() err=%v", err)
	}
	if !strings.Contains(html, "foo@example.com") || !strings.Contains(html, `href="https://site.example/"`) {
		t.Fatalf("rendered html is missing data:\n%s", html)
	}
}

func TestRenderEscapesInput(t *testing.T) {
	html, err := Render(TemplateWelcome, WelcomeData{Email: "<script>x</script>@example.com", SiteURL: "https://site.example/"})
	if err != nil {
		t.Fatalf("Render() err=%v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("email was not escaped")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, err := Render("nope", nil); err == nil {
		t.Fatalf("expected error for unknown template")
	}
}

func TestPreview(t *testing.T) {
	html, err := Preview(TemplateWelcome, "")
	if err != nil {
		t.Fatalf("Preview() err=%v", err)
	}
	if !strings.Contains(html, "reader@example.com") {
		t.Fatalf("preview should use sample address")
	}

	html, err = Preview(TemplateWelcome, "me@example.org")
	if err != nil {
		t.Fatalf("Preview() err=%v", err)
	}
	if !strings.Contains(html, "me@example.org") {
		t.Fatalf("preview should use override address")
	}
}

func TestSendWelcomeEmail_RendersEmbeddedTemplate(t *testing.T) {
	p := &recordingProvider{}
	logger := zerolog.Nop()
	c := NewClient(testConfig(config.MailProviderMailgun, ""), p, &logger)

	if err := c.SendWelcomeEmail(context.Background(), "foo@example.com"); err != nil {
		t.Fatalf("SendWelcomeEmail() err=%v", err)
	}
	if len(p.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(p.sent))
	}
	msg := p.sent[0]
	if msg.To != "foo@example.com" || msg.Subject != "Welcome aboard" || msg.From != "News <news@mg.example>" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.HostedTemplate != "" || !strings.Contains(msg.HTML, "foo@example.com") {
		t.Fatalf("expected rendered html, got template=%q", msg.HostedTemplate)
	}
}

func TestSendWelcomeEmail_HostedTemplate(t *testing.T) {
	p := &recordingProvider{}
	logger := zerolog.Nop()
	c := NewClient(testConfig(config.MailProviderMailgun, "welcome-v2"), p, &logger)

	if err := c.SendWelcomeEmail(context.Background(), "foo@example.com"); err != nil {
		t.Fatalf("SendWelcomeEmail() err=%v", err)
	}
	if msg := p.sent[0]; msg.HostedTemplate != "welcome-v2" || msg.HTML != "" {
		t.Fatalf("expected hosted template only, got %+v", msg)
	}
}

func TestSendWelcomeEmail_ResendIgnoresHostedTemplate(t *testing.T) {
	p := &recordingProvider{}
	logger := zerolog.Nop()
	c := NewClient(testConfig(config.MailProviderResend, "welcome-v2"), p, &logger)

	if err := c.SendWelcomeEmail(context.Background(), "foo@example.com"); err != nil {
		t.Fatalf("SendWelcomeEmail() err=%v", err)
	}
	if msg := p.sent[0]; msg.HostedTemplate != "" || msg.HTML == "" {
		t.Fatalf("expected rendered html, got %+v", msg)
	}
}

func TestSendWelcomeEmail_WrapsProviderError(t *testing.T) {
	boom := errors.New("boom")
	p := &recordingProvider{err: boom}
	logger := zerolog.Nop()
	c := NewClient(testConfig(config.MailProviderMailgun, ""), p, &logger)

	err := c.SendWelcomeEmail(context.Background(), "foo@example.com")
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v, want wrapped boom", err)
	}
}

func TestMailgunProvider(t *testing.T) {
	var form url.Values
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = r.ParseForm()
		form = r.PostForm
		_, _ = w.Write([]byte(`{"id": "<id@mg.example>", "message": "Queued. Thank you."}`))
	}))
	defer srv.Close()

	p := NewMailgunProvider(mailgun.NewClient(srv.Client(), "key", srv.URL), "mg.example")

	tests := []struct {
		name         string
		msg          *Message
		wantTemplate string
		wantHTML     string
	}{
		{"rendered html", &Message{From: "a@mg.example", To: "b@example.com", Subject: "Hi", HTML: "<p>hi</p>"}, "", "<p>hi</p>"},
		{"hosted template", &Message{From: "a@mg.example", To: "b@example.com", Subject: "Hi", HostedTemplate: "welcome"}, "welcome", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := p.Send(context.Background(), tt.msg); err != nil {
				t.Fatalf("Send() err=%v", err)
			}
			if path != "/mg.example/messages" {
				t.Fatalf("path=%q", path)
			}
			if form.Get("to") != "b@example.com" || form.Get("from") != "a@mg.example" || form.Get("subject") != "Hi" {
				t.Fatalf("unexpected form %v", form)
			}
			if form.Get("template") != tt.wantTemplate || form.Get("html") != tt.wantHTML {
				t.Fatalf("template=%q html=%q", form.Get("template"), form.Get("html"))
			}
		})
	}
}

func TestResendProvider(t *testing.T) {
	var got struct {
		From    string   `json:"from"`
		To      []string `json:"to"`
		Subject string   `json:"subject"`
		HTML    string   `json:"html"`
	}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
	}))
	defer srv.Close()

	client := resend.NewCustomClient(srv.Client(), "re_test")
	client.BaseURL, _ = url.Parse(srv.URL + "/")

	err := NewResendProvider(client).Send(context.Background(), &Message{
		From:    "news@site.example",
		To:      "foo@example.com",
		Subject: "Welcome",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("Send() err=%v", err)
	}
	if auth != "Bearer re_test" {
		t.Fatalf("Authorization=%q", auth)
	}
	if got.From != "news@site.example" || len(got.To) != 1 || got.To[0] != "foo@example.com" || got.HTML != "<p>hi</p>" {
		t.Fatalf("unexpected request body: %+v", got)
	}
}
