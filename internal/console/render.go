package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"promo-admin/internal/controller"
	"promo-admin/internal/model"
)

// Render writes v as text: a query header, then a loading line, an error
// line or the promotions table, then the paging line, form state and any
// pending confirmation.
func Render(w io.Writer, v controller.View) {
	p := v.Params
	fmt.Fprintf(w, "Promotions  sort: %s %s", p.SortColumn, p.SortOrder)
	if p.Search != "" {
		fmt.Fprintf(w, "  search: %q", p.Search)
	}
	if v.SearchInput != p.Search {
		fmt.Fprintf(w, "  (typing: %q)", v.SearchInput)
	}
	fmt.Fprintln(w)

	switch v.Display {
	case controller.DisplayLoading:
		fmt.Fprintln(w, "Loading...")
	case controller.DisplayError:
		fmt.Fprintf(w, "Error: %s\n", v.Error)
	default:
		renderTable(w, v.Rows)
	}

	fmt.Fprintf(w, "Page %d, %d per page\n", p.Page+1, p.PageSize)

	switch v.Form.Mode {
	case controller.FormCreate:
		fmt.Fprintln(w, "Form: new promotion")
	case controller.FormEdit:
		fmt.Fprintf(w, "Form: editing promotion %d\n", v.Form.Promotion.ID)
	}
	if v.Form.IsOpen() {
		switch {
		case v.GiftsLoading:
			fmt.Fprintln(w, "Gifts: loading...")
		case v.GiftsError != "":
			fmt.Fprintf(w, "Gifts: %s\n", v.GiftsError)
		}
	}

	if v.ConfirmOpen && v.Staged != nil {
		fmt.Fprintf(w, "%s [yes/no]\n", Prompt(*v.Staged))
	}
}

func renderTable(w io.Writer, rows []model.Promotion) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No promotions.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDATE\tSENT GIFTS\tID")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", oneLine(r.Name), r.Date.Display(), r.SentGifts, r.ID)
	}
	_ = tw.Flush()
}

// Prompt is the confirmation question for a staged action.
func Prompt(a controller.StagedAction) string {
	var b strings.Builder
	switch a.Kind {
	case controller.ActionCreate:
		fmt.Fprintf(&b, "Create promotion %q?", a.Promotion.Name)
	case controller.ActionUpdate:
		fmt.Fprintf(&b, "Save changes to promotion %d?", a.ID)
	case controller.ActionDelete:
		fmt.Fprintf(&b, "Delete promotion %d?", a.ID)
	}
	if a.Gift != nil {
		fmt.Fprintf(&b, " (gift: %s)", a.Gift.Name)
	}
	return b.String()
}

// RenderGifts lists gifts one per line.
func RenderGifts(w io.Writer, gifts []model.Gift) {
	if len(gifts) == 0 {
		fmt.Fprintln(w, "No gifts.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tREMAINING\tEXPIRES\tVALUE")
	for _, g := range gifts {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", g.ID, oneLine(g.Name), g.Remaining, g.ExpiryDate.Display(), g.Value.StringFixed(2))
	}
	_ = tw.Flush()
}

// RenderDraft shows the promotion being edited.
func RenderDraft(w io.Writer, p model.Promotion, gift *model.Gift) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "name\t%s\n", p.Name)
	fmt.Fprintf(tw, "date\t%s\n", p.Date.Display())
	fmt.Fprintf(tw, "sentGifts\t%d\n", p.SentGifts)
	fmt.Fprintf(tw, "daysToTakeGift\t%d\n", p.DaysToTakeGift)
	fmt.Fprintf(tw, "daysToReceiveGift\t%d\n", p.DaysToReceiveGift)
	fmt.Fprintf(tw, "description\t%s\n", oneLine(p.Description))
	fmt.Fprintf(tw, "cardNumbers\t%s\n", p.CardNumbers)
	if gift != nil {
		fmt.Fprintf(tw, "gift\t%s (%d)\n", gift.Name, gift.ID)
	}
	_ = tw.Flush()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
