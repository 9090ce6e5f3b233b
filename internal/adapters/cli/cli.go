package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"backoffice/internal/apiclient"
	"backoffice/internal/app"
	"backoffice/internal/records"
)

// ErrUsage is returned for a malformed command line.
var ErrUsage = errors.New("usage")

const usage = `Usage:
  app list <settlements|recruitments|tax-invoices> [-page N] [-limit N] [-search S] [-from D -to D] [-csv]
  app upload <variant> <file.csv>
  app login <user> <password> [-remember]
  app logout
  app whoami`

// Run executes a one-shot CLI command. args is os.Args[1:]; the first
// element is the subcommand name. The caller has already run Restore.
func Run(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w\n%s", ErrUsage, usage)
	}

	switch args[0] {
	case "login":
		return login(ctx, svc, args[1:], out)

	case "logout":
		if err := svc.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Signed out.")
		return nil

	case "whoami":
		st := svc.State()
		if !st.IsAuthenticated || st.User == nil {
			return errors.New("not signed in")
		}
		fmt.Fprintf(out, "%s (id: %s)\n", st.User.DisplayName(), st.User.Username)
		return nil

	case "list", "ls":
		if err := requireSession(svc); err != nil {
			return err
		}
		return list(ctx, svc, args[1:], out)

	case "upload", "up":
		if err := requireSession(svc); err != nil {
			return err
		}
		if len(args) < 3 {
			return fmt.Errorf("%w: app upload <variant> <file.csv>", ErrUsage)
		}
		f, closeFn, err := apiclient.OpenFile(args[2])
		if err != nil {
			return err
		}
		defer closeFn()
		res, err := svc.UploadCSV(ctx, app.UploadRequest{Variant: args[1], File: f})
		if res == nil {
			return err
		}
		if errors.Is(err, records.ErrWrongFileType) || errors.Is(err, records.ErrUpload) {
			return errors.New(res.Message)
		}
		fmt.Fprintln(out, res.Message)
		if msg := records.Notice(err, ""); msg != "" {
			return errors.New(msg)
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown command %q\n%s", ErrUsage, args[0], usage)
	}
}

func requireSession(svc app.ApplicationService) error {
	if !svc.State().IsAuthenticated {
		return errors.New("not signed in; run: app login <user> <password>")
	}
	return nil
}

func login(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: app login <user> <password> [-remember]", ErrUsage)
	}
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	remember := fs.Bool("remember", false, "remember the username")
	if err := fs.Parse(args[2:]); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	res, err := svc.Login(ctx, app.LoginRequest{Username: args[0], Password: args[1], Remember: *remember})
	if err != nil {
		return errors.New(app.LoginFailureMessage(err))
	}
	fmt.Fprintln(out, res.Message)
	return nil
}

func list(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: app list <variant> [flags]", ErrUsage)
	}
	variant := args[0]

	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	page := fs.Int("page", records.DefaultPage, "page number")
	limit := fs.Int("limit", records.DefaultPageSize, "page size (10, 20, 50 or 100)")
	search := fs.String("search", "", "search text")
	from := fs.String("from", "", "start date YYYY-MM-DD (settlements)")
	to := fs.String("to", "", "end date YYYY-MM-DD (settlements)")
	asCSV := fs.Bool("csv", false, "write CSV instead of a table")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *page < 1 {
		return fmt.Errorf("%w: -page must be at least 1", ErrUsage)
	}

	var (
		res *app.ListResult
		err error
	)
	if strings.TrimSpace(*search) != "" || (*from != "" && *to != "") {
		res, err = svc.SearchList(ctx, app.SearchRequest{Variant: variant, Text: *search, StartDate: *from, EndDate: *to})
		if err == nil && (*page != records.DefaultPage || *limit != records.DefaultPageSize) {
			res, err = svc.ListPage(ctx, app.PageRequest{Variant: variant, Page: *page, Size: *limit})
		}
	} else {
		res, err = svc.ListPage(ctx, app.PageRequest{Variant: variant, Page: *page, Size: *limit})
	}
	if err != nil {
		if errors.Is(err, app.ErrUnknownList) {
			return fmt.Errorf("%w: unknown list %q (settlements, recruitments, tax-invoices)", ErrUsage, variant)
		}
		return errors.New(records.Notice(err, ""))
	}

	if *asCSV {
		return svc.ExportCSV(variant, out)
	}
	printView(out, res.View)
	return nil
}

func printView(out io.Writer, v records.View) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 80))
	fmt.Fprintf(out, "  %s\n", v.Title)
	fmt.Fprintln(out, strings.Repeat("=", 80))
	for _, s := range v.Stats {
		fmt.Fprintf(out, "  %-20s %s%s%s\n", s.Title, s.Prefix, s.Value, s.Suffix)
	}
	fmt.Fprintln(out, strings.Repeat("-", 80))
	titles := make([]string, len(v.Headers))
	for i, h := range v.Headers {
		titles[i] = h.Title
	}
	fmt.Fprintf(out, "  %s\n", strings.Join(titles, "\t"))
	for _, row := range v.Rows {
		fmt.Fprintf(out, "  %s\n", strings.Join(row.Cells, "\t"))
	}
	fmt.Fprintln(out, strings.Repeat("-", 80))
	fmt.Fprintf(out, "  %s\n", v.RangeLabel)
}
