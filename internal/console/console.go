// Package console is a line-oriented front end for the promotions
// controller. Commands are read one per line; the page is re-rendered
// whenever the controller reports a change.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"promo-admin/internal/controller"
	"promo-admin/internal/model"

	"github.com/rs/zerolog"
)

// ErrQuit is returned by Execute for the quit command.
var ErrQuit = errors.New("quit")

const helpText = `Commands:
  sort <name|date|sentGifts>   sort by column, again to flip the order
  page <n>                     go to page n (first page is 1)
  size <n>                     rows per page
  search [text]                filter by text, empty clears
  refresh                      reload the current page
  new                          open the form for a new promotion
  edit <id>                    open the form for a promotion on this page
  set <field> <value>          set a form field (name, date, sentGifts,
                               daysToTakeGift, daysToReceiveGift,
                               description, cardNumbers)
  gifts                        list gifts loaded for the form
  gift <id>                    choose the gift for the promotion
  show                         show the page and the form draft
  submit                       stage the form for confirmation
  delete <id>                  stage deletion of a promotion
  yes | no                     confirm or reject the staged action
  cancel                       close the form
  help                         show this help
  quit                         exit`

// Console executes commands against a controller and renders its view.
type Console struct {
	ctrl   *controller.Controller
	out    io.Writer
	logger zerolog.Logger

	// serialises writes to out
	outMu sync.Mutex
	// Seq of the newest view drawn, guarded by outMu
	drawn uint64

	mu    sync.Mutex
	draft model.Promotion
	gift  *model.Gift
}

// New creates a console writing to out. Call Bind before executing commands.
func New(out io.Writer, logger zerolog.Logger) *Console {
	return &Console{
		out:    out,
		logger: logger.With().Str("component", "console").Logger(),
	}
}

// Bind attaches the controller the console drives.
func (c *Console) Bind(ctrl *controller.Controller) {
	c.ctrl = ctrl
}

// OnChange renders v. It is meant to be passed as controller.Options.OnChange.
// A view older than one already drawn is dropped.
func (c *Console) OnChange(v controller.View) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	if v.Seq != 0 {
		if v.Seq <= c.drawn {
			c.logger.Debug().Uint64("seq", v.Seq).Uint64("drawn", c.drawn).Msg("dropping stale view")
			return
		}
		c.drawn = v.Seq
	}
	Render(c.out, v)
}

// Run executes commands read from in until quit, EOF or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	c.printf("Type \"help\" for commands.\n")
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("failed to read input: %w", err)
					}
				default:
				}
				return nil
			}
			if err := c.Execute(line); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				c.printError(err)
			}
		}
	}
}

// Execute runs one command line.
func (c *Console) Execute(line string) error {
	cmd, arg := splitCommand(line)
	if cmd == "" {
		return nil
	}
	c.logger.Debug().Str("command", cmd).Str("arg", arg).Msg("executing command")

	switch cmd {
	case "help", "?":
		c.printf("%s\n", helpText)
		return nil
	case "quit", "exit":
		return ErrQuit
	case "show":
		c.OnChange(c.ctrl.View())
		c.showDraft()
		return nil
	case "refresh":
		c.ctrl.Refresh()
		return nil
	case "sort":
		return c.ctrl.Sort(arg)
	case "page":
		n, err := positiveInt(arg, "page")
		if err != nil {
			return err
		}
		return c.ctrl.SetPage(n - 1)
	case "size":
		n, err := positiveInt(arg, "page size")
		if err != nil {
			return err
		}
		return c.ctrl.SetPageSize(n)
	case "search":
		c.ctrl.Search(arg)
		return nil
	case "new":
		return c.openCreate()
	case "edit":
		return c.openEdit(arg)
	case "set":
		return c.set(arg)
	case "gifts":
		v := c.ctrl.View()
		switch {
		case v.GiftsLoading:
			c.printf("Gifts are loading...\n")
		case v.GiftsError != "":
			c.printf("Gifts unavailable: %s\n", v.GiftsError)
		default:
			c.outMu.Lock()
			RenderGifts(c.out, v.Gifts)
			c.outMu.Unlock()
		}
		return nil
	case "gift":
		return c.chooseGift(arg)
	case "submit":
		return c.submit()
	case "delete":
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		return c.ctrl.RequestDelete(id)
	case "yes", "y":
		return c.ctrl.Confirm()
	case "no", "n":
		c.ctrl.Reject()
		return nil
	case "cancel":
		c.ctrl.CancelForm()
		c.resetDraft(model.Promotion{})
		return nil
	default:
		return fmt.Errorf("unknown command %q, type \"help\" for commands", cmd)
	}
}

func (c *Console) openCreate() error {
	if err := c.ctrl.OpenCreate(); err != nil {
		return err
	}
	c.resetDraft(model.Promotion{Date: model.DateOf(time.Now())})
	return nil
}

func (c *Console) openEdit(arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	var target *model.Promotion
	for _, p := range c.ctrl.View().Rows {
		if p.ID == id {
			target = &p
			break
		}
	}
	if target == nil {
		return fmt.Errorf("promotion %d is not on this page", id)
	}
	if err := c.ctrl.OpenEdit(*target); err != nil {
		return err
	}
	c.resetDraft(*target)
	return nil
}

func (c *Console) set(arg string) error {
	if !c.ctrl.View().Form.IsOpen() {
		return controller.ErrFormClosed
	}
	field, value, _ := strings.Cut(arg, " ")
	value = strings.TrimSpace(value)
	if field == "" {
		return errors.New("usage: set <field> <value>")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return setField(&c.draft, field, value)
}

func (c *Console) chooseGift(arg string) error {
	if !c.ctrl.View().Form.IsOpen() {
		return controller.ErrFormClosed
	}
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	g, ok := c.ctrl.Gift(id)
	if !ok {
		return fmt.Errorf("gift %d is not in the loaded gift list", id)
	}

	c.mu.Lock()
	c.gift = &g
	c.mu.Unlock()
	return nil
}

func (c *Console) submit() error {
	c.mu.Lock()
	draft, gift := c.draft, c.gift
	c.mu.Unlock()

	err := c.ctrl.SubmitForm(draft, gift)
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		var b strings.Builder
		b.WriteString("the promotion is not valid:")
		for _, f := range verr.Fields {
			b.WriteString("\n  - ")
			b.WriteString(f.String())
		}
		return errors.New(b.String())
	}
	return err
}

func (c *Console) resetDraft(p model.Promotion) {
	c.mu.Lock()
	c.draft = p
	c.gift = nil
	c.mu.Unlock()
}

func (c *Console) showDraft() {
	if !c.ctrl.View().Form.IsOpen() {
		return
	}
	c.mu.Lock()
	draft, gift := c.draft, c.gift
	c.mu.Unlock()

	c.outMu.Lock()
	defer c.outMu.Unlock()
	RenderDraft(c.out, draft, gift)
}

func (c *Console) printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) printError(err error) {
	c.printf("Error: %s\n", err)
}

// setField assigns value to the JSON-named field of p.
func setField(p *model.Promotion, field, value string) error {
	switch field {
	case "name":
		p.Name = value
	case "date":
		d, err := parseDisplayDate(value)
		if err != nil {
			return err
		}
		p.Date = d
	case "sentGifts", "daysToTakeGift", "daysToReceiveGift":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be a whole number", field)
		}
		switch field {
		case "sentGifts":
			p.SentGifts = n
		case "daysToTakeGift":
			p.DaysToTakeGift = n
		default:
			p.DaysToReceiveGift = n
		}
	case "description":
		p.Description = value
	case "cardNumbers":
		p.CardNumbers = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// parseDisplayDate accepts dd.mm.yyyy as shown in the table, or YYYY-MM-DD.
func parseDisplayDate(s string) (model.Date, error) {
	if t, err := time.Parse("02.01.2006", s); err == nil {
		return model.DateOf(t), nil
	}
	return model.ParseDate(s)
}

func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	cmd, rest, _ := strings.Cut(line, " ")
	return strings.ToLower(cmd), strings.TrimSpace(rest)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, controller.ErrInvalidID
	}
	return id, nil
}

func positiveInt(arg, what string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive whole number", what)
	}
	return n, nil
}
