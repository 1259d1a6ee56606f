package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophreveal/internal/client/client"
	"github.com/dmitrijs2005/gophreveal/internal/client/config"
	"github.com/dmitrijs2005/gophreveal/internal/client/repositories/requests"
	"github.com/dmitrijs2005/gophreveal/internal/client/services"
)

// ErrUsage is returned when a command is called with missing or bad arguments.
var ErrUsage = errors.New("usage")

type command struct {
	usage string
	// protected commands need a caller token; one is prompted for when the
	// configuration carries none.
	protected bool
	// offline commands never talk to the server.
	offline bool
	run     func(ctx context.Context, args []string) error
}

// commands returns the command table bound to a.
func (a *App) commands() map[string]command {
	return map[string]command{
		"submit":   {usage: "submit [title] [topic] [body...]", run: a.submit},
		"reveal":   {usage: "reveal <id>", protected: true, run: a.reveal},
		"show":     {usage: "show <id>", run: a.show},
		"meta":     {usage: "meta <id>", run: a.meta},
		"counter":  {usage: "counter <topic>", run: a.counter},
		"count":    {usage: "count <topic>", protected: true, run: a.count},
		"reset":    {usage: "reset", protected: true, run: a.reset},
		"cancel":   {usage: "cancel <correlation-id>", protected: true, run: a.cancel},
		"topics":   {usage: "topics", run: a.topics},
		"events":   {usage: "events [after] [limit]", run: a.events},
		"requests": {usage: "requests", run: a.requests},
		"token":    {usage: "token <caller>", offline: true, run: a.token},
		"ping":     {usage: "ping", run: a.ping},
	}
}

type App struct {
	config  *config.Config
	service services.RevealService
	reader  *bufio.Reader
	out     io.Writer

	// connect builds the service once the access token is known.
	connect func(ctx context.Context, token string) (services.RevealService, error)
}

func NewApp(c *config.Config) *App {
	a := &App{config: c, reader: bufio.NewReader(os.Stdin), out: os.Stdout}
	a.connect = a.dial
	return a
}

func (a *App) dial(ctx context.Context, token string) (services.RevealService, error) {
	db, err := client.InitDatabase(ctx, a.config.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing journal: %w", err)
	}

	apiClient, err := client.NewRevealClient(a.config.ServerEndpointAddr, token)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return services.NewRevealService(apiClient, requests.NewSQLiteRepository(db)), nil
}

// Run executes the command named by args[0] with the remaining args.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" {
		a.help()
		return nil
	}

	cmd, ok := a.commands()[args[0]]
	if !ok {
		a.help()
		return fmt.Errorf("unknown command: %s", args[0])
	}

	if !cmd.offline {
		token := a.config.AccessToken
		if cmd.protected && token == "" {
			var err error
			if token, err = getSecret("Enter access token", a.out); err != nil {
				return err
			}
		}

		svc, err := a.connect(ctx, token)
		if err != nil {
			return err
		}
		a.service = svc
		defer a.service.Close(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	if err := cmd.run(ctx, args[1:]); err != nil {
		if errors.Is(err, ErrUsage) {
			return fmt.Errorf("%w: %s", ErrUsage, cmd.usage)
		}
		return err
	}
	return nil
}

func (a *App) help() {
	cmds := a.commands()
	fmt.Fprintln(a.out, "Available commands:")
	for _, name := range sortedCommands(cmds) {
		fmt.Fprintf(a.out, "  %s\n", cmds[name].usage)
	}
}
