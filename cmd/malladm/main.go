// Command malladm is an operator console for the mall back office: log in,
// browse users and products page by page, trigger exports and watch the
// notification channel from a terminal.
//
// Configuration comes from flags, with defaults from the environment (a
// .env file in the working directory is honored):
//
//	MALL_API_BASE  API root, e.g. https://mall.example.com/api
//	MALL_WS_BASE   push channel base, derived from the API root when unset
package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/ridge/parallel"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/sunxu/malladmin"
	"github.com/sunxu/malladmin/cursor"
	"github.com/sunxu/malladmin/notify"
	"github.com/sunxu/malladmin/run"
	"github.com/sunxu/malladmin/wire"
)

type errUsage string

func (e errUsage) Error() string {
	return string(e)
}

func (errUsage) ExitCode() int {
	return 2
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".malladm-session.json"
	}
	return filepath.Join(home, ".malladm", "session.json")
}

func main() {
	_ = godotenv.Load()

	baseURL := pflag.String("base-url", os.Getenv("MALL_API_BASE"), "API root URL")
	wsBase := pflag.String("ws-base", os.Getenv("MALL_WS_BASE"), "Push channel base URL (derived from --base-url when empty)")
	tokenPath := pflag.String("token-path", defaultTokenPath(), "File holding the login credential")
	pageSize := pflag.Int("page-size", 20, "Rows per page for list commands")
	pages := pflag.Int("pages", 0, "Pages to fetch for list commands, 0 = all")
	pflag.Usage = usage
	pflag.Parse()

	run.Tool(func(ctx context.Context) error {
		if *baseURL == "" {
			return errUsage("--base-url or MALL_API_BASE is required")
		}

		client, err := malladmin.New(malladmin.Config{
			BaseURL:   *baseURL,
			WSBase:    *wsBase,
			TokenPath: *tokenPath,
			OnAuthExpired: func() {
				fmt.Fprintln(os.Stderr, "session expired, run `malladm login` again")
			},
			AlertFn: printAlert,
		})
		if err != nil {
			return err
		}

		args := pflag.Args()
		if len(args) == 0 {
			usage()
			return errUsage("no command given")
		}
		switch cmd, rest := args[0], args[1:]; cmd {
		case "login":
			return login(ctx, client, rest)
		case "logout":
			return client.Logout(ctx)
		case "whoami":
			return whoami(ctx, client)
		case "users":
			return listUsers(ctx, client, rest, *pageSize, *pages)
		case "products":
			return listProducts(ctx, client, rest, *pageSize, *pages)
		case "export":
			return export(ctx, client, rest)
		case "watch":
			return watch(ctx, client)
		default:
			usage()
			return errUsage(fmt.Sprintf("unknown command %q", cmd))
		}
	})
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s [flags] <command>

Commands:
  login <username>     log in (asks for password and captcha)
  logout               log out and forget the credential
  whoami               show the logged-in user
  users [filter]       list back-office accounts, filtered by name
  products [filter]    list products, filtered by name
  export <users|products>  start a background Excel export
  watch                follow the notification channel

Flags:
`, os.Args[0])
	pflag.PrintDefaults()
}

func login(ctx context.Context, client *malladmin.Client, args []string) error {
	if len(args) != 1 {
		return errUsage("usage: login <username>")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	captcha, err := client.Captcha(ctx)
	if err != nil {
		return err
	}
	code, err := solveCaptcha(captcha)
	if err != nil {
		return err
	}

	token, err := client.Login(ctx, wire.LoginRequest{
		UUID:     captcha.UUID,
		Username: args[0],
		Password: string(password),
		Code:     code,
	})
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (roles: %s)\n", token.Username, strings.Join(token.Roles, ", "))
	return nil
}

// solveCaptcha saves the challenge image next to the terminal and asks the
// operator to type the answer
func solveCaptcha(captcha wire.Captcha) (string, error) {
	img := captcha.Img
	if idx := strings.Index(img, ";base64,"); idx >= 0 {
		img = img[idx+len(";base64,"):]
	}
	decoded, err := base64.StdEncoding.DecodeString(img)
	if err != nil {
		return "", fmt.Errorf("malformed captcha image: %w", err)
	}
	path := filepath.Join(os.TempDir(), "malladm-captcha.png")
	if err := os.WriteFile(path, decoded, 0o600); err != nil {
		return "", err
	}

	fmt.Fprintf(os.Stderr, "Captcha image saved to %s\nCaptcha: ", path)
	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading captcha answer: %w", err)
	}
	return strings.TrimSpace(code), nil
}

func whoami(ctx context.Context, client *malladmin.Client) error {
	user, err := client.Info(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s (id %s, roles: %s)\n", user.Username, user.ID, strings.Join(user.Roles, ", "))
	return nil
}

// walkPages prints every page of a cursor search, up to the page limit
func walkPages[T any](ctx context.Context, pager *cursor.Pager[T], pages int, printRow func(w *tabwriter.Writer, row T)) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	page, err := pager.First(ctx)
	for fetched := 1; ; fetched++ {
		if err != nil {
			return err
		}
		for _, row := range page.List {
			printRow(w, row)
		}
		if !page.HasNext || (pages > 0 && fetched >= pages) {
			return nil
		}
		page, err = pager.Next(ctx)
	}
}

func listUsers(ctx context.Context, client *malladmin.Client, args []string, pageSize, pages int) error {
	query := &wire.UserQuery{}
	if len(args) > 0 {
		query.UserName = args[0]
	}
	return walkPages(ctx, client.Users.Pager(query, pageSize), pages, func(w *tabwriter.Writer, u wire.UserVO) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.UserName, u.NickName, u.Email, u.LastLoginTime)
	})
}

func listProducts(ctx context.Context, client *malladmin.Client, args []string, pageSize, pages int) error {
	query := &wire.ProductQuery{}
	if len(args) > 0 {
		query.Name = args[0]
	}
	return walkPages(ctx, client.Products.Pager(query, pageSize), pages, func(w *tabwriter.Writer, p wire.ProductVO) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n", p.ID, p.Name, p.Model, p.Price, p.RemainQuantity, p.Version)
	})
}

func export(ctx context.Context, client *malladmin.Client, args []string) error {
	if len(args) != 1 {
		return errUsage("usage: export <users|products>")
	}
	var err error
	switch args[0] {
	case "users":
		err = client.Users.Export(ctx, &wire.UserQuery{})
	case "products":
		err = client.Products.Export(ctx, &wire.ProductQuery{})
	default:
		return errUsage(fmt.Sprintf("unknown export resource %q", args[0]))
	}
	if err != nil {
		return err
	}
	fmt.Println("export started, result arrives on the notification channel (see `malladm watch`)")
	return nil
}

func watch(ctx context.Context, client *malladmin.Client) error {
	if err := client.ConnectNotifications(ctx); err != nil {
		return err
	}
	defer client.Notify.Disconnect()

	err := parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		// pick up logins/logouts performed from other terminals
		spawn("session", parallel.Fail, client.Session.Watch)
		spawn("wait", parallel.Exit, func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
		return nil
	})
	if errors.Is(err, context.Canceled) {
		// interrupted by the operator
		return nil
	}
	return err
}

func printAlert(item notify.Item) {
	fmt.Printf("[%s] %s: %s", item.Category, item.Title, item.Content)
	if item.File != nil {
		fmt.Printf(" (%s)", item.File.FileURL)
	}
	fmt.Println()
}
