// Package templates renders the structure editor's HTML: the full page
// shell and the HTMX partials swapped into it. Components are built
// directly against templ's component API; all dynamic content goes through
// templ.EscapeString.
package templates

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/Rajas1877/structgrid/internal/core"
	"github.com/a-h/templ"
)

// PageParams carries everything the full Structure page needs.
type PageParams struct {
	View          *core.PageView
	ShowAddColumn bool
}

// StructurePage renders the complete Structure view: title, filter box,
// add-column toggle, and the grid area.
func StructurePage(p PageParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Structure</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<link rel="stylesheet" href="/static/styles.css">
</head>
<body>
<div class="container">
<div class="header-row">
<h1 class="tab-title">Structure Table</h1>
<button class="icon-button" hx-post="/structure/add-column/toggle" hx-target="#add-column-area" title="Add column">&#8942;</button>
</div>
<div id="add-column-area">`); err != nil {
			return err
		}
		if err := AddColumnForm(p.ShowAddColumn).Render(ctx, w); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `</div>
<form class="filter-form" hx-get="/structure/grid" hx-target="#grid-area">
<input type="search" name="filter" value="%s" placeholder="Enter filter keyword">
<button type="submit">Filter</button>
</form>
<div id="grid-area">`, templ.EscapeString(p.View.Filter)); err != nil {
			return err
		}
		if err := GridPartial(p.View, nil).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>
</div>
</body>
</html>`)
		return err
	})
}

// AddColumnForm renders the collapsible add-column form. When collapsed it
// renders nothing, leaving the target area empty.
func AddColumnForm(show bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !show {
			return nil
		}
		_, err := io.WriteString(w, `<form class="add-column-form" hx-post="/structure/columns" hx-target="#grid-area">
<h3>Add New Column</h3>
<input type="text" name="column_name" placeholder="Enter new column name">
<button type="submit">Add Column</button>
</form>`)
		return err
	})
}

// GridPartial renders the editable grid, its actions, and the pagination
// controls. A non-nil alert is shown above the grid; save and add-column
// responses use it for their outcome message.
func GridPartial(view *core.PageView, alert templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if alert != nil {
			if err := alert.Render(ctx, w); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `<form id="grid-form" hx-post="/structure/save" hx-target="#grid-area">
<div class="grid-scroll">
<table class="grid">
<thead><tr>`); err != nil {
			return err
		}
		for _, col := range view.PageSnapshot.Columns {
			if _, err := fmt.Fprintf(w, `<th>%s</th>`, templ.EscapeString(col)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</tr></thead>
<tbody>`); err != nil {
			return err
		}

		if view.PageSnapshot.Len() == 0 {
			cols := len(view.PageSnapshot.Columns)
			if cols == 0 {
				cols = 1
			}
			if _, err := fmt.Fprintf(w, `<tr><td class="empty" colspan="%d">No rows to display</td></tr>`, cols); err != nil {
				return err
			}
		}
		for i, row := range view.PageSnapshot.Rows {
			if _, err := io.WriteString(w, `<tr>`); err != nil {
				return err
			}
			for _, col := range view.PageSnapshot.Columns {
				name := fmt.Sprintf("cell:%d:%s", i, col)
				if _, err := fmt.Fprintf(w, `<td><input name="%s" value="%s"></td>`,
					templ.EscapeString(name),
					templ.EscapeString(row.Cell(col).Display())); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</tr>`); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `</tbody>
</table>
</div>
<div class="grid-actions">
<button type="submit" class="primary">Save Changes</button>
<a class="button" href="/structure/export">Download CSV</a>
</div>
</form>`); err != nil {
			return err
		}

		return pagination(view).Render(ctx, w)
	})
}

// pagination renders previous/next controls and the page indicator.
// Buttons at the bounds are disabled; a filter matching nothing shows
// "Page 0 of 0" with both disabled.
func pagination(view *core.PageView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="pagination">`); err != nil {
			return err
		}

		if view.HasPrev() {
			if _, err := fmt.Fprintf(w, `<button hx-get="%s" hx-target="#grid-area">&larr; Previous</button>`,
				gridURL(view.Filter, view.Page-1)); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<button disabled>&larr; Previous</button>`); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, `<span class="page-label">%s</span>`,
			templ.EscapeString(view.PageLabel())); err != nil {
			return err
		}

		if view.HasNext() {
			if _, err := fmt.Fprintf(w, `<button hx-get="%s" hx-target="#grid-area">Next &rarr;</button>`,
				gridURL(view.Filter, view.Page+1)); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<button disabled>Next &rarr;</button>`); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// gridURL builds the HTMX URL for a grid page load, escaping the filter.
func gridURL(filter string, page int) string {
	q := url.Values{}
	if filter != "" {
		q.Set("filter", filter)
	}
	q.Set("page", strconv.Itoa(page))
	return templ.EscapeString("/structure/grid?" + q.Encode())
}

// AlertSuccess renders a green outcome banner.
func AlertSuccess(msg string) templ.Component {
	return alert("alert-success", msg)
}

// AlertInfo renders a neutral outcome banner.
func AlertInfo(msg string) templ.Component {
	return alert("alert-info", msg)
}

// AlertWarning renders a yellow outcome banner.
func AlertWarning(msg string) templ.Component {
	return alert("alert-warning", msg)
}

func alert(class, msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="alert %s">%s</div>`,
			class, templ.EscapeString(msg))
		return err
	})
}

// ErrorAlert renders an error banner with the suggested action and the
// support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="alert alert-error"><strong>%s</strong> <span>%s</span> <code>(%s)</code></div>`,
			templ.EscapeString(message),
			templ.EscapeString(action),
			templ.EscapeString(code))
		return err
	})
}
