package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contact-manager/internal/app"
	"gitlab.com/dirk.krummacker/contact-manager/internal/client"
	"gitlab.com/dirk.krummacker/contact-manager/internal/config"
	"gitlab.com/dirk.krummacker/contact-manager/internal/form"
	"gitlab.com/dirk.krummacker/contact-manager/internal/logger"
	"gitlab.com/dirk.krummacker/contact-manager/internal/model"
)

const usage = `Usage: client <command> [flags] [id]

Commands:
  list      [-sort firstName|lastName|dob]   show the active contacts
  deleted                                   show the deleted contacts
  show      <id>                            show a single contact
  add       [field flags]                   create a contact
  edit      [field flags] <id>              change the given fields of a contact
  delete    <id>                            move a contact to the deleted list
  recover   <id>                            move a contact back to the active list
  purge     [-yes] <id>                     remove a contact for good
  countries                                 show the selectable country codes

Field flags: -firstName -lastName -countryCode -contactNumber -dob -email -picture <file>
`

// Usage example on the command line:
// > CONTACTS_API_URL=http://localhost:8080/api/contacts go run main.go add -firstName=Ann -lastName=Lee -contactNumber=5551234567 -email=ann@x.com
// > go run main.go list -sort=dob
func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not load configuration:", err)
		os.Exit(1)
	}
	log, cleanup, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not create logger:", err)
		os.Exit(1)
	}
	defer cleanup()

	profile, err := form.ProfileByName(cfg.FormProfile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	profile = profile.WithMaxPictureBytes(cfg.MaxPictureBytes)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stdin := bufio.NewReader(os.Stdin)
	contacts := app.New(client.New(cfg.APIURL, nil), profile, func(prompt string) bool {
		return confirm(os.Stdout, stdin, prompt)
	})
	err = run(ctx, contacts, os.Args[1], os.Args[2:], os.Stdout)
	var validationErr *form.ValidationError
	switch {
	case err == nil:
		return
	case errors.As(err, &validationErr):
		fmt.Fprintln(os.Stderr, validationErr.Message)
	default:
		log.Error("command failed", zap.String("command", os.Args[1]), zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
	}
	cleanup()
	os.Exit(1)
}

func run(ctx context.Context, contacts *app.App, command string, args []string, out io.Writer) error {
	flags := flag.NewFlagSet(command, flag.ContinueOnError)
	switch command {
	case "list":
		sortBy := flags.String("sort", string(app.SortByFirstName), "sort by firstName, lastName or dob")
		if err := flags.Parse(args); err != nil {
			return err
		}
		key, err := app.ParseSortKey(*sortBy)
		if err != nil {
			return err
		}
		contacts.SetSortKey(key)
		if err := contacts.Refresh(ctx); err != nil {
			return err
		}
		printContacts(out, contacts.Active())
		return nil

	case "deleted":
		if err := flags.Parse(args); err != nil {
			return err
		}
		if err := contacts.Refresh(ctx); err != nil {
			return err
		}
		printContacts(out, contacts.Deleted())
		return nil

	case "show":
		id, err := parseIdArg(flags, args)
		if err != nil {
			return err
		}
		if err := contacts.EditByID(ctx, id); err != nil {
			return err
		}
		printForm(out, id, contacts.Form())
		return nil

	case "add":
		values := fieldFlags(flags)
		if err := flags.Parse(args); err != nil {
			return err
		}
		if err := applyFields(contacts.Form(), flags, values); err != nil {
			return err
		}
		id, err := contacts.Save(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Created contact %d\n", id)
		return nil

	case "edit":
		values := fieldFlags(flags)
		id, err := parseIdArg(flags, args)
		if err != nil {
			return err
		}
		if err := contacts.EditByID(ctx, id); err != nil {
			return err
		}
		if err := applyFields(contacts.Form(), flags, values); err != nil {
			return err
		}
		if err := contacts.Update(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "Updated contact %d\n", id)
		return nil

	case "delete", "recover":
		id, err := parseIdArg(flags, args)
		if err != nil {
			return err
		}
		if command == "delete" {
			err = contacts.SoftDelete(ctx, id)
		} else {
			err = contacts.Recover(ctx, id)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s contact %d\n", map[string]string{"delete": "Deleted", "recover": "Recovered"}[command], id)
		return nil

	case "purge":
		yes := flags.Bool("yes", false, "do not ask for confirmation")
		id, err := parseIdArg(flags, args)
		if err != nil {
			return err
		}
		if *yes {
			contacts.SetConfirm(nil)
		}
		deleted, err := contacts.PermanentDelete(ctx, id)
		if err != nil {
			return err
		}
		if deleted {
			fmt.Fprintf(out, "Permanently deleted contact %d\n", id)
		}
		return nil

	case "countries":
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, c := range form.Countries {
			fmt.Fprintf(w, "%s\t%s\n", c.Code, c.Name)
		}
		return w.Flush()

	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// fieldFlags registers one string flag per form field except the picture, which is read
// from a file.
func fieldFlags(flags *flag.FlagSet) map[string]*string {
	values := map[string]*string{}
	for _, field := range []string{form.FirstName, form.LastName, form.CountryCode, form.ContactNumber, form.Dob, form.Email} {
		values[field] = flags.String(field, "", "the "+field+" of the contact")
	}
	values[form.Picture] = flags.String(form.Picture, "", "an image file to use as picture")
	return values
}

// applyFields copies the flags that were given on the command line into the form.
func applyFields(f *form.Form, flags *flag.FlagSet, values map[string]*string) error {
	var err error
	flags.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		value := *values[fl.Name]
		if fl.Name != form.Picture {
			err = f.Set(fl.Name, value)
			return
		}
		if value == "" {
			err = f.Set(form.Picture, "")
			return
		}
		var data []byte
		if data, err = os.ReadFile(value); err == nil { // nosemgrep
			err = f.SetPicture(data)
		}
	})
	return err
}

func parseIdArg(flags *flag.FlagSet, args []string) (int64, error) {
	if err := flags.Parse(args); err != nil {
		return 0, err
	}
	if flags.NArg() != 1 {
		return 0, fmt.Errorf("%s needs exactly one contact id", flags.Name())
	}
	id, err := strconv.ParseInt(flags.Arg(0), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid contact id %q", flags.Arg(0))
	}
	return id, nil
}

func printContacts(out io.Writer, contacts []model.Contact) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFIRST NAME\tLAST NAME\tPHONE\tDOB\tEMAIL\tPICTURE")
	for _, c := range contacts {
		picture := ""
		if c.Picture != "" {
			picture = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Id, c.FirstName, c.LastName, strings.TrimSpace(c.CountryCode+" "+c.ContactNumber), c.Dob, c.Email, picture)
	}
	_ = w.Flush()
}

func printForm(out io.Writer, id int64, f *form.Form) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "id\t%d\n", id)
	for _, field := range []string{form.FirstName, form.LastName, form.CountryCode, form.ContactNumber, form.Dob, form.Email} {
		value := f.Get(field)
		if field == form.CountryCode {
			if name, ok := form.CountryName(value); ok {
				value += " (" + name + ")"
			}
		}
		fmt.Fprintf(w, "%s\t%s\n", field, value)
	}
	if picture := f.Get(form.Picture); picture != "" {
		fmt.Fprintf(w, "%s\t%d bytes\n", form.Picture, len(picture))
	}
	_ = w.Flush()
}

// confirm asks a yes/no question on the terminal. Anything but "y" or "yes" means no.
func confirm(out io.Writer, in *bufio.Reader, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	answer, _ := in.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
