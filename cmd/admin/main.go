// Command admin manages Study Buddy accounts directly against the database.
// None of these operations is exposed over HTTP.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"study-buddy/internal/config"
	"study-buddy/internal/db"
	"study-buddy/internal/repository"
	"study-buddy/internal/service"
	"study-buddy/utilities"
)

const usage = `usage: admin [--config config.xml] [--env .env] <command> [args]

commands:
  create-user <username>   create an account, password read from the terminal
  delete-user <username>   delete an account with all its notes, quizzes and results
  list-users               list every account
  seed-demo [username]     create a demo account with sample notes
`

type app struct {
	auth  service.AuthService
	users service.UserService
	notes service.NoteService
	in    io.Reader
	out   io.Writer
}

func main() {
	flags := pflag.NewFlagSet("admin", pflag.ExitOnError)
	configPath := flags.String("config", "config.xml", "path to the XML configuration")
	envPath := flags.String("env", ".env", "optional dotenv file")
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	_ = flags.Parse(os.Args[1:])

	if flags.NArg() == 0 {
		flags.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, *envPath, flags.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "admin:", err)
		os.Exit(1)
	}
}

func run(configPath, envPath string, args []string) error {
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envPath, err)
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	log, closer, err := utilities.NewLogger(config.LoggingConfig{Level: "warn"}, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	conn, err := db.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close(conn, log)
	if err := db.Migrate(conn); err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(conn)
	a := &app{
		auth:  service.NewAuthService(userRepo, utilities.NewJWTManager(cfg.Authentication), cfg.Authentication.BcryptCost),
		users: service.NewUserService(userRepo),
		notes: service.NewNoteService(repository.NewNoteRepository(conn), nil, log),
		in:    os.Stdin,
		out:   os.Stdout,
	}
	return a.dispatch(args)
}

func (a *app) dispatch(args []string) error {
	switch cmd, rest := args[0], args[1:]; cmd {
	case "create-user":
		if len(rest) != 1 {
			return errors.New("create-user takes exactly one username")
		}
		return a.createUser(rest[0])
	case "delete-user":
		if len(rest) != 1 {
			return errors.New("delete-user takes exactly one username")
		}
		return a.deleteUser(rest[0])
	case "list-users":
		return a.listUsers()
	case "seed-demo":
		username := "demo"
		if len(rest) > 0 {
			username = rest[0]
		}
		return a.seedDemo(username)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
}

func (a *app) createUser(username string) error {
	password, err := a.readPassword()
	if err != nil {
		return err
	}
	user, err := a.auth.Register(username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created user %q (id %d)\n", user.Username, user.ID)
	return nil
}

func (a *app) deleteUser(username string) error {
	if err := a.users.DeleteUser(username); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted user %q and everything they owned\n", username)
	return nil
}

func (a *app) listUsers() error {
	users, err := a.users.GetAllUsers()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tCREATED")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\n", u.ID, u.Username, u.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

// readPassword prompts without echo on a terminal and reads one line
// otherwise, so the command also works with piped input.
func (a *app) readPassword() (string, error) {
	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.out, "Password: ")
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
