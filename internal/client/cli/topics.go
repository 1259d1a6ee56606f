package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophreveal/internal/server/fhe"
)

func (a *App) counter(ctx context.Context, args []string) error {
	topic, err := oneArg(args)
	if err != nil {
		return err
	}
	c, err := a.service.Counter(ctx, topic)
	if err != nil {
		return err
	}
	if !c.Initialized {
		fmt.Fprintf(a.out, "Topic %q has no counter\n", topic)
		return nil
	}
	if v, err := fhe.ClearValue(c.Handle); err == nil {
		fmt.Fprintf(a.out, "Topic %q: %d (clear)\n", topic, v)
		return nil
	}
	fmt.Fprintf(a.out, "Topic %q: %s\n", topic, describeHandle(c.Handle))
	return nil
}

func (a *App) count(ctx context.Context, args []string) error {
	topic, err := oneArg(args)
	if err != nil {
		return err
	}
	cid, err := a.service.RequestTopicCount(ctx, topic)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Decryption requested for topic %q, correlation id %s\n", topic, cid)
	return nil
}

func (a *App) reset(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if err := a.service.ResetCounters(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "All topic counters reset")
	return nil
}

func (a *App) topics(ctx context.Context, args []string) error {
	list, err := a.service.Topics(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No topics")
		return nil
	}
	for _, t := range list {
		fmt.Fprintln(a.out, t)
	}
	return nil
}
