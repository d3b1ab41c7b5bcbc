package mailbox

import (
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/sirupsen/logrus"

	"github.com/Dooskington/Mail-Journal/internal/model"
)

// imapPort is the standard IMAP-over-TLS port.
const imapPort = "993"

// Client queries the journal inbox over IMAP. A fresh TLS connection
// is opened per call; no session persists across ticks.
type Client struct {
	host     string
	username string
	password string
	log      *logrus.Logger
}

// NewClient creates an IMAP client configuration for the journal mailbox.
func NewClient(host, username, password string, log *logrus.Logger) *Client {
	return &Client{
		host:     host,
		username: username,
		password: password,
		log:      log,
	}
}

// connect dials the server over TLS, authenticates, and selects INBOX.
// The caller is responsible for calling Logout on the returned client.
func (c *Client) connect(_ context.Context) (*imapclient.Client, error) {
	addr := c.host + ":" + imapPort

	client, err := imapclient.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.username, c.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("authenticating %s: %w", c.username, err)
	}

	if _, err := client.Select("INBOX", nil).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("selecting INBOX: %w", err)
	}

	return client, nil
}

// SearchUnseenSinceToday returns the UIDs of unseen messages from the
// authorized sender dated on or after the current UTC calendar day.
// The date comparison is performed server-side at date-only
// granularity. An empty result is the common case, not an error.
func (c *Client) SearchUnseenSinceToday(
	ctx context.Context,
	from string,
	now time.Time,
) ([]imap.UID, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	utc := now.UTC()
	since := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)

	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Header: []imap.SearchCriteriaHeaderField{
			{Key: "From", Value: from},
		},
		Since: since,
	}

	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching INBOX: %w", err)
	}

	return searchData.AllUIDs(), nil
}

// Fetch retrieves the full raw content of each message and parses it
// into an InboundEmail. The body section is fetched without Peek, so
// the server marks the messages seen and they stop matching the next
// search. A message that fails to parse is logged and skipped; it does
// not discard the rest of the batch.
func (c *Client) Fetch(
	ctx context.Context,
	uids []imap.UID,
) ([]model.InboundEmail, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	c.log.Infof("Fetching %d email(s) from INBOX", len(uids))

	uidSet := imap.UIDSetNum(uids...)

	bodySection := &imap.FetchItemBodySection{}
	fetchOpts := &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(uidSet, fetchOpts)
	defer fetchCmd.Close()

	var emails []model.InboundEmail
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			c.log.Warnf("Collecting message data: %v", err)
			continue
		}

		raw := buf.FindBodySection(bodySection)
		if raw == nil {
			c.log.Warnf("Message UID %d returned no body section", buf.UID)
			continue
		}

		email, err := Parse(raw)
		if err != nil {
			c.log.Warnf("Skipping unparseable message UID %d: %v", buf.UID, err)
			continue
		}

		emails = append(emails, email)
	}

	if err := fetchCmd.Close(); err != nil {
		return emails, fmt.Errorf("fetching messages: %w", err)
	}

	return emails, nil
}
