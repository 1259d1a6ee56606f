package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophreveal/internal/server/auth"
)

// token mints a caller token signed with the configured secret. It is an
// operator tool: whoever holds the secret can act as any caller.
func (a *App) token(ctx context.Context, args []string) error {
	caller, err := oneArg(args)
	if err != nil {
		return err
	}
	tok, err := auth.GenerateToken(caller, []byte(a.config.SecretKey), a.config.TokenTTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, tok)
	return nil
}

func (a *App) ping(ctx context.Context, args []string) error {
	if err := a.service.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "OK")
	return nil
}
