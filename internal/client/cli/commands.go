package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/vtvclient/internal/client/apierr"
)

// Status prints the session state.
func (a *App) Status(ctx context.Context) error {
	fmt.Fprintf(a.out, "Session: %s\n", a.client.State())
	return nil
}

// Get fetches path under the API root and prints the JSON answer.
func (a *App) Get(ctx context.Context, path string) error {
	var raw json.RawMessage
	if err := a.client.Do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		fmt.Fprintln(a.out, apierr.UserMessage(err, "load "+path))
		return err
	}
	if len(raw) == 0 {
		fmt.Fprintln(a.out, "(empty response)")
		return nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		buf.Reset()
		buf.Write(raw)
	}
	fmt.Fprintln(a.out, buf.String())
	return nil
}

// Health checks that the server is reachable.
func (a *App) Health(ctx context.Context) error {
	if err := a.client.Health(ctx); err != nil {
		fmt.Fprintln(a.out, apierr.UserMessage(err, "reach the server"))
		return err
	}
	fmt.Fprintln(a.out, "Server is up")
	return nil
}
