package driver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ochronus/gocomppare/internal/services/comppare"
)

const menu = `
Options:
1. Login
2. List folders
3. Create folder
4. User data
5. List plans
6. Upload image
7. Apply coupon
0. Exit`

// Interactive reads menu choices from In until the exit option, the end of
// input or the cancellation of the context. Errors are printed and the loop
// continues.
type Interactive struct {
	Client comppare.ClientAPI
	In     io.Reader
	Out    io.Writer
}

// NewInteractive creates an Interactive session
func NewInteractive(client comppare.ClientAPI, in io.Reader, out io.Writer) *Interactive {
	return &Interactive{Client: client, In: in, Out: out}
}

type session struct {
	ctx    context.Context
	client comppare.ClientAPI
	lines  <-chan inputLine
	p      *printer
}

type inputLine struct {
	text string
	err  error
}

// readLines feeds the lines of r into the returned channel until r is
// exhausted or done is closed. A read blocked on r does not hold up the
// caller.
func readLines(r io.Reader, done <-chan struct{}) <-chan inputLine {
	lines := make(chan inputLine)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- inputLine{text: scanner.Text()}:
			case <-done:
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case lines <- inputLine{err: err}:
			case <-done:
			}
		}
	}()
	return lines
}

// errEndOfInput stops the loop when the reader is exhausted mid-prompt.
var errEndOfInput = errors.New("end of input")

func (s *session) prompt(label string) (string, error) {
	fmt.Fprint(s.p.out, label)
	select {
	case <-s.ctx.Done():
		return "", s.ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			return "", errEndOfInput
		}
		if line.err != nil {
			return "", line.err
		}
		return strings.TrimSpace(line.text), nil
	}
}

func (s *session) promptInt(label string) (int64, error) {
	raw, err := s.prompt(label)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return v, nil
}

// Run starts the menu loop. Cancelling ctx, by Ctrl-C from the CLI, ends
// the session like the exit option does.
func (i *Interactive) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	s := &session{
		ctx:    ctx,
		client: i.Client,
		lines:  readLines(i.In, done),
		p:      newPrinter(i.Out),
	}

	s.p.headingf("CompPare API - interactive client")
	s.p.linef("%s", strings.Repeat("=", 50))

	for {
		if ctx.Err() != nil {
			s.p.linef("\nBye!")
			return nil
		}

		s.p.linef("%s", menu)
		choice, err := s.prompt("\nChoose an option: ")
		if errors.Is(err, errEndOfInput) {
			return nil
		}
		if ctx.Err() != nil {
			continue
		}
		if err != nil {
			return err
		}

		if choice == "0" {
			s.p.linef("Bye!")
			return nil
		}

		err = s.dispatch(choice)
		if errors.Is(err, errEndOfInput) {
			return nil
		}
		if ctx.Err() != nil {
			continue
		}
		if err != nil {
			s.p.errorf("%v", err)
		}
	}
}

func (s *session) dispatch(choice string) error {
	switch choice {
	case "1":
		return s.login()
	case "2":
		return s.listFolders()
	case "3":
		return s.createFolder()
	case "4":
		return s.userData()
	case "5":
		return s.listPlans()
	case "6":
		return s.uploadImage()
	case "7":
		return s.applyCoupon()
	default:
		s.p.errorf("invalid option %q", choice)
		return nil
	}
}

func (s *session) login() error {
	email, err := s.prompt("Email: ")
	if err != nil {
		return err
	}
	password, err := s.prompt("Password: ")
	if err != nil {
		return err
	}

	resp, err := s.client.Login(s.ctx, email, password)
	if err != nil {
		return err
	}
	s.p.successf("logged in, token: %s", tokenPreview(resp.Token))
	return nil
}

func (s *session) listFolders() error {
	resp, err := s.client.ListFolders(s.ctx)
	if err != nil {
		return err
	}
	s.p.linef("Total folders: %d", len(resp.Folders))
	s.p.folders(resp.Folders, 0)
	return nil
}

func (s *session) createFolder() error {
	name, err := s.prompt("Folder name: ")
	if err != nil {
		return err
	}
	rawParent, err := s.prompt("Parent folder ID (optional): ")
	if err != nil {
		return err
	}

	var parentID *int64
	if rawParent != "" {
		v, err := strconv.ParseInt(rawParent, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", rawParent)
		}
		parentID = &v
	}

	resp, err := s.client.CreateFolder(s.ctx, name, parentID)
	if err != nil {
		return err
	}
	s.p.successf("folder created: %s (ID: %d)", resp.Folder.Name, resp.Folder.ID)
	return nil
}

func (s *session) userData() error {
	resp, err := s.client.GetUserData(s.ctx)
	if err != nil {
		return err
	}
	s.p.headingf("User data:")
	s.p.user(resp.User)
	return nil
}

func (s *session) listPlans() error {
	plans, err := s.client.ListPlans(s.ctx)
	if err != nil {
		return err
	}
	s.p.headingf("Available plans:")
	s.p.plans(plans)
	return nil
}

func (s *session) uploadImage() error {
	folderID, err := s.promptInt("Folder ID: ")
	if err != nil {
		return err
	}
	path, err := s.prompt("Image path: ")
	if err != nil {
		return err
	}

	resp, err := s.client.UploadImage(s.ctx, folderID, path)
	if err != nil {
		return err
	}
	s.p.successf("image uploaded, URL: %s", resp.Photo.URL)
	return nil
}

func (s *session) applyCoupon() error {
	code, err := s.prompt("Coupon code: ")
	if err != nil {
		return err
	}
	planID, err := s.promptInt("Plan ID: ")
	if err != nil {
		return err
	}

	resp, err := s.client.ApplyCoupon(s.ctx, code, planID)
	if err != nil {
		return err
	}
	if resp.Data != nil && resp.Data.DiscountPercent != nil {
		s.p.successf("coupon %s applied: %d%% off", resp.Data.Code, *resp.Data.DiscountPercent)
		return nil
	}
	s.p.successf("coupon applied: %s", resp.Message)
	return nil
}
