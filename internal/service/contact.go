package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/deppfellow/newsletter-signup/internal/lib/mailgun"
)

// joinedAtLayout is ISO-8601 in UTC with millisecond precision.
const joinedAtLayout = "2006-01-02T15:04:05.000Z"

// ContactVars is the metadata stored with a list member.
type ContactVars struct {
	Href     string
	Referrer string

	// JoinedAt is always set by the server.
	JoinedAt time.Time
}

func (v ContactVars) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Href     string `json:"href"`
		Referrer string `json:"referrer"`
		JoinedAt string `json:"joinedAt"`
	}{
		Href:     v.Href,
		Referrer: v.Referrer,
		JoinedAt: v.JoinedAt.UTC().Format(joinedAtLayout),
	})
}

// MailgunList upserts contacts into one Mailgun mailing list.
type MailgunList struct {
	client  *mailgun.Client
	address string
}

func NewMailgunList(client *mailgun.Client, listAddress string) *MailgunList {
	return &MailgunList{client: client, address: listAddress}
}

// UpsertContact adds address to the list, or updates its vars if it is
// already a member.
func (l *MailgunList) UpsertContact(ctx context.Context, address string, vars ContactVars) error {
	_, err := l.client.AddListMember(ctx, l.address, mailgun.ListMember{
		Address: address,
		Vars:    vars,
		Upsert:  true,
	})
	return err
}
