package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vtvclient/internal/client/apierr"
	"github.com/dmitrijs2005/vtvclient/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for email and password and signs in. A failed sign-in is
// reported to the user and returned.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	pair, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		fmt.Fprintln(a.out, apierr.UserMessage(err, "sign in"))
		return err
	}

	if pair.Role != "" {
		fmt.Fprintf(a.out, "Signed in as %s (%s)\n", email, pair.Role)
	} else {
		fmt.Fprintf(a.out, "Signed in as %s\n", email)
	}
	return nil
}

// Logout ends the session and forgets the stored credentials.
func (a *App) Logout(ctx context.Context) error {
	a.client.Logout(ctx)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}
