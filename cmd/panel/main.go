package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/noah-isme/employee-admin/internal/panel"
)

const usage = `usage: panel [-api URL] <command> [flags]

commands:
  list    [-search TERM]
  create  -name -email -mobile -designation -gender [-courses MCA,BCA] -image FILE
  update  -id ID -name -email -mobile -designation -gender [-courses ...] [-image FILE]
  delete  -id ID
  export  [-format csv|pdf] [-out FILE]
`

func main() {
	apiURL := flag.String("api", envOr("PANEL_API_URL", "http://localhost:5000/api"), "employee API base URL")
	verbose := flag.Bool("v", false, "log client errors")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logr := zap.NewNop()
	if *verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("failed to init logger: %v", err)
		}
		logr = dev
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := panel.NewClient(*apiURL, nil)
	p := panel.New(client, logr)

	cmd, args := flag.Arg(0), flag.Args()[1:]
	var err error
	switch cmd {
	case "list":
		err = runList(ctx, p, args)
	case "create":
		err = runCreate(ctx, p, args)
	case "update":
		err = runUpdate(ctx, p, args)
	case "delete":
		err = runDelete(ctx, p, args)
	case "export":
		err = runExport(ctx, client, args)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if msg := p.Message(); msg != "" {
		fmt.Println(msg)
	}
	if err != nil {
		var formErrs panel.FormErrors
		if !errors.As(err, &formErrs) {
			logr.Debug("command failed", zap.String("command", cmd), zap.Error(err))
		}
		os.Exit(1)
	}
}

func runList(ctx context.Context, p *panel.Panel, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	search := fs.String("search", "", "filter on name, email, mobile or designation")
	_ = fs.Parse(args)

	_ = p.Navigate(panel.ViewList)
	if err := p.Refresh(ctx); err != nil {
		return err
	}
	p.Search(*search)
	printEmployees(p)
	return nil
}

func runCreate(ctx context.Context, p *panel.Panel, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	form, imagePath := formFlags(fs)
	_ = fs.Parse(args)

	f, err := form.build(*imagePath)
	if err != nil {
		return err
	}
	_ = p.Navigate(panel.ViewCreate)
	if err := p.SubmitCreate(ctx, f); err != nil {
		return err
	}
	printEmployees(p)
	return nil
}

func runUpdate(ctx context.Context, p *panel.Panel, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	id := fs.String("id", "", "employee id")
	form, imagePath := formFlags(fs)
	_ = fs.Parse(args)

	if err := p.Refresh(ctx); err != nil {
		return err
	}
	target, ok := lo.Find(p.Employees(), func(e panel.Employee) bool { return e.ID == *id })
	if !ok {
		return fmt.Errorf("employee %q not found", *id)
	}
	p.Edit(target)

	f, err := form.mergedWith(panel.FormFromEmployee(target), *imagePath)
	if err != nil {
		return err
	}
	return p.SubmitUpdate(ctx, f)
}

func runDelete(ctx context.Context, p *panel.Panel, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "employee id")
	_ = fs.Parse(args)
	return p.SubmitDelete(ctx, *id)
}

func runExport(ctx context.Context, client *panel.Client, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "csv", "csv or pdf")
	out := fs.String("out", "", "output file (defaults to the server-suggested name)")
	_ = fs.Parse(args)

	filename, data, err := client.Export(ctx, *format)
	if err != nil {
		return err
	}
	if *out != "" {
		filename = *out
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", filename, len(data))
	return nil
}

type formValues struct {
	name, email, mobile, designation, gender, courses *string
}

func formFlags(fs *flag.FlagSet) (*formValues, *string) {
	v := &formValues{
		name:        fs.String("name", "", "name"),
		email:       fs.String("email", "", "email"),
		mobile:      fs.String("mobile", "", "mobile number, digits only"),
		designation: fs.String("designation", "", "HR, Manager or Sales"),
		gender:      fs.String("gender", "", "Male or Female"),
		courses:     fs.String("courses", "", "comma separated: MCA,BCA,BSC"),
	}
	return v, fs.String("image", "", "path to a JPG or PNG photo")
}

func (v *formValues) build(imagePath string) (panel.Form, error) {
	return v.mergedWith(panel.Form{}, imagePath)
}

// mergedWith overlays the flags that were set on base.
func (v *formValues) mergedWith(base panel.Form, imagePath string) (panel.Form, error) {
	overlay := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	overlay(&base.Name, *v.name)
	overlay(&base.Email, *v.email)
	overlay(&base.Mobile, *v.mobile)
	overlay(&base.Designation, *v.designation)
	overlay(&base.Gender, *v.gender)
	if *v.courses != "" {
		base.Courses = lo.Compact(lo.Map(strings.Split(*v.courses, ","), func(c string, _ int) string {
			return strings.TrimSpace(c)
		}))
	}
	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return base, fmt.Errorf("read image: %w", err)
		}
		base.Image = &panel.ImageFile{Filename: filepath.Base(imagePath), Data: data}
	}
	return base, nil
}

func printEmployees(p *panel.Panel) {
	visible := p.Visible()
	fmt.Printf("Total Employees: %d\n", len(visible))
	if len(visible) == 0 {
		fmt.Println(p.EmptyMessage())
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCODE\tNAME\tEMAIL\tMOBILE\tDESIGNATION\tCOURSES\tGENDER\tCREATED")
	for _, e := range visible {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Code, e.Name, e.Email, e.Mobile, e.Designation,
			strings.Join(e.Courses, ", "), e.Gender, e.CreatedAt.Format("01/02/2006"))
	}
	_ = w.Flush()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
