package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/gosuri/uitable"
	"github.com/krancour/kurban/sdk/authx"
	"github.com/krancour/kurban/sdk/tokens"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

var loginCommand = &cli.Command{
	Name:  "login",
	Usage: "Log in to the Kurban admin API",
	Description: "Prompts for any credentials not specified by flags. The " +
		"API server address is remembered for subsequent commands.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    flagServer,
			Aliases: []string{"s"},
			Usage: "Log into the API server at the specified address; " +
				"overrides KURBAN_API_ADDRESS",
		},
		&cli.StringFlag{
			Name:    flagUser,
			Aliases: []string{"u"},
			Usage:   "Log in with the specified phone number or email address",
		},
		&cli.StringFlag{
			Name:    flagPassword,
			Aliases: []string{"p"},
			Usage:   "Log in with the specified password",
		},
	},
	Action: login,
}

var logoutCommand = &cli.Command{
	Name:   "logout",
	Usage:  "Log out of the Kurban admin API",
	Action: logout,
}

var whoamiCommand = &cli.Command{
	Name:  "whoami",
	Usage: "Show the logged in staff member",
	Flags: []cli.Flag{
		cliFlagOutput,
	},
	Action: whoami,
}

var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func login(c *cli.Context) error {
	user := strings.TrimSpace(c.String(flagUser))
	password := c.String(flagPassword)

	if (user == "" || password == "") && !stdinIsTerminal() {
		return errors.Errorf(
			"--%s and --%s are required when not running interactively",
			flagUser,
			flagPassword,
		)
	}
	for user == "" {
		if err := survey.AskOne(
			&survey.Input{
				Message: "Phone number or email address",
			},
			&user,
		); err != nil {
			return err
		}
		user = strings.TrimSpace(user)
	}
	for password == "" {
		if err := survey.AskOne(
			&survey.Password{
				Message: "Password",
			},
			&password,
		); err != nil {
			return err
		}
	}

	client, err := getClient(c, c.String(flagServer))
	if err != nil {
		return errors.Wrap(err, "error getting kurban client")
	}

	if err = client.sessions.Login(c.Context, user, password); err != nil {
		client.logger.WithError(err).Debug("login failed")
		return errors.New(client.sessions.ErrorMessage())
	}

	if err = client.tokens.Set(
		c.Context,
		tokens.APIAddressKey,
		client.APIAddress(),
	); err != nil {
		return errors.Wrap(err, "error persisting API address")
	}

	session, _ := client.sessions.Session()
	fmt.Fprintf(
		c.App.Writer,
		"Logged in to %s as %s.\n",
		client.APIAddress(),
		session.DisplayName(),
	)
	return nil
}

func logout(c *cli.Context) error {
	if c.Args().Len() != 0 {
		return errors.New("logout requires no arguments")
	}

	client, err := getClient(c, "")
	if err != nil {
		return errors.Wrap(err, "error getting kurban client")
	}

	wasLoggedIn := client.sessions.IsAuthenticated()
	if err = client.sessions.Logout(c.Context); err != nil {
		return err
	}

	if !wasLoggedIn {
		fmt.Fprintln(c.App.Writer, "You were not logged in.")
		return nil
	}
	fmt.Fprintln(c.App.Writer, "Logout was successful.")
	return nil
}

// whoamiOutput is what whoami renders as YAML or JSON.
type whoamiOutput struct {
	APIAddress     string     `json:"apiAddress"`
	User           authx.User `json:"user"`
	TokenExpiresAt *time.Time `json:"tokenExpiresAt,omitempty"`
	SuperAdmin     bool       `json:"superAdmin"`
}

func whoami(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getClient(c, "")
	if err != nil {
		return errors.Wrap(err, "error getting kurban client")
	}

	session, ok := client.sessions.Session()
	if !ok {
		return errors.New(`You are not logged in. Please run "kurban login".`)
	}

	out := whoamiOutput{
		APIAddress: client.APIAddress(),
		User:       session.User,
		SuperAdmin: session.Roles.IsSuperAdmin(),
	}
	if expiry, ok := authx.TokenExpiry(session.Token); ok {
		out.TokenExpiresAt = &expiry
	}

	return printOutput(
		c.App.Writer,
		output,
		out,
		func() fmt.Stringer {
			table := uitable.New()
			table.AddRow("API SERVER", "NAME", "EMAIL", "PHONE", "ROLES", "EXPIRES")
			expires := "unknown"
			if out.TokenExpiresAt != nil {
				expires = out.TokenExpiresAt.Local().Format(time.RFC822)
			}
			table.AddRow(
				out.APIAddress,
				session.DisplayName(),
				session.Email,
				session.Phone,
				strings.Join(session.Roles, ", "),
				expires,
			)
			return table
		},
	)
}
