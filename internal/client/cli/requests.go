package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"
)

func (a *App) cancel(ctx context.Context, args []string) error {
	cid, err := oneArg(args)
	if err != nil {
		return err
	}
	if err := a.service.Cancel(ctx, cid); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Request %s cancelled\n", cid)
	return nil
}

func (a *App) requests(ctx context.Context, args []string) error {
	list, err := a.service.Requests(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No requests")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CORRELATION ID\tKIND\tTARGET\tREQUESTED")
	for _, r := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.CorrelationID, r.Kind, r.Target, r.RequestedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func (a *App) events(ctx context.Context, args []string) error {
	var (
		after int64
		limit int64
		err   error
	)
	if len(args) > 2 {
		return ErrUsage
	}
	if len(args) > 0 {
		if after, err = strconv.ParseInt(args[0], 10, 64); err != nil {
			return fmt.Errorf("%w: bad sequence %q", ErrUsage, args[0])
		}
	}
	if len(args) > 1 {
		if limit, err = strconv.ParseInt(args[1], 10, 32); err != nil {
			return fmt.Errorf("%w: bad limit %q", ErrUsage, args[1])
		}
	}

	list, err := a.service.Events(ctx, after, int32(limit))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tKIND\tSUBJECT\tCORRELATION ID\tAT")
	for _, e := range list {
		subject := e.Topic
		if e.RecordID != 0 {
			subject = fmt.Sprintf("record %d", e.RecordID)
		}
		if e.Count != 0 {
			subject = fmt.Sprintf("%s=%d", e.Topic, e.Count)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.Seq, e.Kind, subject, e.CorrelationID, e.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}
