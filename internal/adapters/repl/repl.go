package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"backoffice/internal/apiclient"
	"backoffice/internal/app"
	"backoffice/internal/nav"
	"backoffice/internal/records"
)

var errExit = errors.New("exit")

// Run starts the interactive REPL loop for one operator.
// Every line must be a slash command; output goes to out.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, out io.Writer) {
	r := &session{ctx: ctx, svc: svc, reader: reader, out: out}

	fmt.Fprintln(out, "CATCH12 Back Office")
	if st := svc.State(); st.IsAuthenticated && st.User != nil {
		fmt.Fprintf(out, "Signed in as %s (%s)\n", st.User.DisplayName(), st.User.Username)
	} else {
		fmt.Fprintln(out, "Not signed in. Use /login <user>.")
	}
	fmt.Fprintln(out, "Type /help for commands.")
	fmt.Fprintln(out, strings.Repeat("-", 70))

	for {
		fmt.Fprint(out, "\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if err != nil {
				fmt.Fprintln(out, "Goodbye!")
				return
			}
			continue
		}
		if !strings.HasPrefix(input, "/") {
			fmt.Fprintln(out, "Commands start with /. Type /help for the list.")
			continue
		}
		if derr := r.dispatch(input); derr != nil {
			if derr == errExit {
				fmt.Fprintln(out, "Goodbye!")
				return
			}
			fmt.Fprintf(out, "Error: %v\n", derr)
		}
	}
}

type session struct {
	ctx    context.Context
	svc    app.ApplicationService
	reader *bufio.Reader
	out    io.Writer
}

func (r *session) dispatch(input string) error {
	tokens := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]

	switch cmd {
	case "help", "h":
		printHelp(r.out)
		return nil
	case "exit", "quit", "e", "q":
		return errExit
	case "login":
		return r.login(args)
	}

	// everything else sits behind the guard
	if !r.svc.State().IsAuthenticated {
		fmt.Fprintln(r.out, "Not signed in. Use /login <user>.")
		return nil
	}

	switch cmd {
	case "logout":
		if err := r.svc.Logout(r.ctx); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Signed out.")

	case "whoami":
		printWhoami(r.out, r.svc.Menu())

	case "menu", "m":
		if len(args) < 1 {
			printMenu(r.out, r.svc.Menu())
			return nil
		}
		key, err := nav.ParseKey(strings.ToLower(args[0]))
		if err != nil {
			return err
		}
		res, err := r.svc.Navigate(r.ctx, key)
		r.notice(err)
		printMenu(r.out, r.svc.Menu())
		if res != nil && res.View != nil {
			printView(r.out, *res.View)
		}

	case "show", "ls":
		variant, ok := r.active()
		if !ok {
			return nil
		}
		res, err := r.svc.ViewList(variant)
		if err != nil {
			return err
		}
		printView(r.out, res.View)

	case "search", "s":
		variant, ok := r.active()
		if !ok {
			return nil
		}
		cur, err := r.svc.ViewList(variant)
		if err != nil {
			return err
		}
		res, err := r.svc.SearchList(r.ctx, app.SearchRequest{
			Variant:   variant,
			Text:      strings.Join(args, " "),
			StartDate: cur.View.Filter.StartDate,
			EndDate:   cur.View.Filter.EndDate,
		})
		r.printResult(res, err)

	case "range":
		variant, ok := r.active()
		if !ok {
			return nil
		}
		cur, err := r.svc.ViewList(variant)
		if err != nil {
			return err
		}
		if !cur.View.DateRange {
			fmt.Fprintf(r.out, "%s has no date range.\n", cur.View.Title)
			return nil
		}
		var start, end string
		switch len(args) {
		case 0:
		case 2:
			start, end = args[0], args[1]
		default:
			fmt.Fprintln(r.out, "Usage: /range <YYYY-MM-DD> <YYYY-MM-DD>   (no arguments clears it)")
			return nil
		}
		res, err := r.svc.SearchList(r.ctx, app.SearchRequest{
			Variant:   variant,
			Text:      cur.View.Filter.Search,
			StartDate: start,
			EndDate:   end,
		})
		r.printResult(res, err)

	case "page", "p":
		variant, ok := r.active()
		if !ok {
			return nil
		}
		if len(args) < 1 {
			fmt.Fprintln(r.out, "Usage: /page <n> [size]")
			return nil
		}
		page, err := strconv.Atoi(args[0])
		if err != nil || page < 1 {
			fmt.Fprintf(r.out, "Invalid page: %s\n", args[0])
			return nil
		}
		size := 0
		if len(args) >= 2 {
			size, err = strconv.Atoi(args[1])
			if err != nil || !validSize(size) {
				fmt.Fprintf(r.out, "Invalid page size: %s (one of 10, 20, 50, 100)\n", args[1])
				return nil
			}
		}
		res, err := r.svc.ListPage(r.ctx, app.PageRequest{Variant: variant, Page: page, Size: size})
		r.printResult(res, err)

	case "refresh", "r":
		variant, ok := r.active()
		if !ok {
			return nil
		}
		res, err := r.svc.RefreshList(r.ctx, variant)
		r.printResult(res, err)

	case "upload":
		variant, ok := r.active()
		if !ok {
			return nil
		}
		if len(args) < 1 {
			fmt.Fprintln(r.out, "Usage: /upload <path/to/file.csv>")
			return nil
		}
		f, closeFn, err := apiclient.OpenFile(args[0])
		if err != nil {
			return err
		}
		defer closeFn()
		res, err := r.svc.UploadCSV(r.ctx, app.UploadRequest{Variant: variant, File: f})
		if res == nil {
			return err
		}
		fmt.Fprintln(r.out, res.Message)
		if errors.Is(err, records.ErrWrongFileType) || errors.Is(err, records.ErrUpload) {
			r.expired(err)
			return nil
		}
		r.printResult(&app.ListResult{View: res.View}, err)

	case "export":
		variant, ok := r.active()
		if !ok {
			return nil
		}
		if len(args) < 1 {
			fmt.Fprintln(r.out, "Usage: /export <path/to/out.csv>")
			return nil
		}
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create %s: %w", args[0], err)
		}
		if err := r.svc.ExportCSV(variant, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Exported to %s\n", args[0])

	default:
		fmt.Fprintf(r.out, "Unknown command: /%s  (type /help for all commands)\n", cmd)
	}
	return nil
}

func (r *session) login(args []string) error {
	if r.svc.State().IsAuthenticated {
		fmt.Fprintln(r.out, "Already signed in. Use /logout first.")
		return nil
	}
	username := r.svc.RememberedUsername(r.ctx)
	if len(args) > 0 {
		username = args[0]
	}
	if username == "" {
		fmt.Fprintln(r.out, "Usage: /login <user>")
		return nil
	}
	fmt.Fprint(r.out, "Password: ")
	password, _ := r.reader.ReadString('\n')
	password = strings.TrimRight(password, "\r\n")

	fmt.Fprint(r.out, "Remember username? (y/n): ")
	choice, _ := r.reader.ReadString('\n')
	choice = strings.ToLower(strings.TrimSpace(choice))

	res, err := r.svc.Login(r.ctx, app.LoginRequest{
		Username: username,
		Password: password,
		Remember: choice == "y" || choice == "yes",
	})
	if err != nil {
		fmt.Fprintln(r.out, app.LoginFailureMessage(err))
		return nil
	}
	fmt.Fprintln(r.out, res.Message)
	printWhoami(r.out, r.svc.Menu())
	return nil
}

// active returns the visible list, telling the operator when there is none.
func (r *session) active() (string, bool) {
	m := r.svc.Menu()
	if m.List == "" {
		fmt.Fprintln(r.out, "No list is open. Use /menu dispatch, /menu recruitment or /menu taxinvoice.")
		return "", false
	}
	return m.List, true
}

func (r *session) printResult(res *app.ListResult, err error) {
	r.notice(err)
	if res != nil && r.svc.State().IsAuthenticated {
		printView(r.out, res.View)
	}
}

func (r *session) notice(err error) {
	if msg := records.Notice(err, ""); msg != "" {
		fmt.Fprintln(r.out, msg)
	}
	r.expired(err)
}

func (r *session) expired(err error) {
	if errors.Is(err, records.ErrSessionExpired) && !r.svc.State().IsAuthenticated {
		fmt.Fprintln(r.out, "Session expired. Use /login <user>.")
	}
}

func validSize(n int) bool {
	for _, s := range records.PageSizes {
		if s == n {
			return true
		}
	}
	return false
}
