package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/oauth2"

	"aitodo/internal/config"
	"aitodo/internal/exitcode"
	"aitodo/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command. Token acquisition itself
// belongs to the identity provider's surfaces; this command only
// stores a token the user already has.
type LoginCmd struct {
	token string

	// Stdin supplies the token when --token is not given; os.Stdin
	// unless a test substitutes it.
	Stdin io.Reader
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Store an API token" }
func (c *LoginCmd) Usage() string     { return "aitodo login [--token <token>]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.token, "token", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	token := strings.TrimSpace(c.token)
	if token == "" {
		stdin := c.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		fmt.Fprintln(errOut, "Paste your API token and press enter:")
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(errOut, "error: no token provided")
			return exitcode.AuthError
		}
		token = strings.TrimSpace(line)
	}
	if token == "" {
		fmt.Fprintln(errOut, "error: no token provided")
		return exitcode.AuthError
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}

	if err := saveToken(cfg.TokenPath(), &oauth2.Token{AccessToken: token, TokenType: "Bearer"}); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// saveToken saves a token to a file with mode 0600.
func saveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
