// Package driver holds the two demo front-ends of the CompPare client: a
// scripted walk through the API and an interactive menu.
package driver

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ochronus/gocomppare/internal/services/comppare"
)

// DemoOptions configures a scripted run
type DemoOptions struct {
	Email    string
	Password string
	// ImagePath, when set, is uploaded into the folder created by the demo.
	ImagePath string
}

// Demo runs a fixed sequence of calls and prints the results
type Demo struct {
	Client comppare.ClientAPI
	Out    io.Writer
	Now    func() time.Time
}

// NewDemo creates a Demo writing to out
func NewDemo(client comppare.ClientAPI, out io.Writer) *Demo {
	return &Demo{Client: client, Out: out, Now: time.Now}
}

// Run logs in, fetches the user, lists folders, creates a folder, lists
// plans and optionally uploads an image. The first failure is printed and
// returned.
func (d *Demo) Run(ctx context.Context, opts DemoOptions) error {
	p := newPrinter(d.Out)
	if err := d.run(ctx, p, opts); err != nil {
		p.errorf("%v", err)
		return err
	}
	p.successf("demo finished")
	return nil
}

func (d *Demo) run(ctx context.Context, p *printer, opts DemoOptions) error {
	p.headingf("Logging in...")
	login, err := d.Client.Login(ctx, opts.Email, opts.Password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	p.successf("logged in")
	p.linef("Token: %s", tokenPreview(login.Token))
	if exp, ok := d.Client.TokenExpiry(); ok {
		p.linef("Token expires at: %s", exp.Local().Format("2006-01-02 15:04:05"))
	}
	p.linef("")

	p.headingf("Fetching user data...")
	user, err := d.Client.GetUserData(ctx)
	if err != nil {
		return fmt.Errorf("user data: %w", err)
	}
	p.user(user.User)
	p.linef("")

	p.headingf("Listing folders...")
	folders, err := d.Client.ListFolders(ctx)
	if err != nil {
		return fmt.Errorf("list folders: %w", err)
	}
	p.linef("Total folders: %d", len(folders.Folders))
	p.folders(folders.Folders, 0)
	p.linef("")

	p.headingf("Creating folder...")
	name := fmt.Sprintf("Pasta Exemplo %s", d.Now().Format("2006-01-02 15:04:05"))
	created, err := d.Client.CreateFolder(ctx, name, nil)
	if err != nil {
		return fmt.Errorf("create folder: %w", err)
	}
	p.successf("folder created: %s (ID: %d)", created.Folder.Name, created.Folder.ID)
	p.linef("")

	p.headingf("Listing plans...")
	plans, err := d.Client.ListPlans(ctx)
	if err != nil {
		return fmt.Errorf("list plans: %w", err)
	}
	p.plans(plans)
	p.linef("")

	if opts.ImagePath != "" {
		p.headingf("Uploading image...")
		upload, err := d.Client.UploadImage(ctx, created.Folder.ID, opts.ImagePath)
		if err != nil {
			return fmt.Errorf("upload image: %w", err)
		}
		p.successf("image uploaded")
		p.linef("Image URL: %s", upload.Photo.URL)
		p.linef("")
	}

	return nil
}
