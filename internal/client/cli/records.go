package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/server/fhe"
)

// submit wraps the fields as development handles. Missing fields are
// prompted for.
func (a *App) submit(ctx context.Context, args []string) error {
	var title, topic, body string
	var err error

	if len(args) > 0 {
		title = args[0]
	} else if title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}

	if len(args) > 1 {
		topic = args[1]
	} else if topic, err = getSimpleText(a.reader, "Topic", a.out); err != nil {
		return err
	}

	if len(args) > 2 {
		body = strings.Join(args[2:], " ")
	} else if body, err = getMultiline(a.reader, "Body", a.out); err != nil {
		return err
	}

	id, err := a.service.Submit(ctx, fhe.ClearString(title), fhe.ClearString(body), fhe.ClearString(topic))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Submitted record %d\n", id)
	return nil
}

func (a *App) reveal(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	cid, err := a.service.RequestReveal(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Decryption requested for record %d, correlation id %s\n", id, cid)
	return nil
}

func (a *App) show(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	rr, err := a.service.Revealed(ctx, id)
	if err != nil {
		return err
	}
	if !rr.Revealed {
		fmt.Fprintf(a.out, "Record %d is not revealed yet\n", rr.ID)
		return nil
	}
	fmt.Fprintf(a.out, "Record %d\nTitle: %s\nTopic: %s\n%s\n", rr.ID, rr.Title, rr.Topic, rr.Body)
	return nil
}

func (a *App) meta(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	m, err := a.service.Metadata(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Record %d (created %s)\nTitle: %s\nBody: %s\nTopic: %s\n",
		m.ID, m.CreatedAt.Format(time.RFC3339), describeHandle(m.Title), describeHandle(m.Body), describeHandle(m.Topic))
	return nil
}
