// Package views renders the server-side admin pages.
package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/kennel/internal/repository"
)

const htmxScript = `<script src="https://unpkg.com/htmx.org@2.0.4" defer></script>`

func page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!doctype html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title>%s</head><body>`,
			templ.EscapeString(title), htmxScript); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// LoginPage is the passcode form. next is carried through as a hidden
// field; errMsg is shown above the form when non-empty.
func LoginPage(action, next, errMsg string) templ.Component {
	return page("Admin sign in", templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<main class="login"><h1>Admin sign in</h1>`)
		if errMsg != "" {
			fmt.Fprintf(&b, `<p class="error" role="alert">%s</p>`, templ.EscapeString(errMsg))
		}
		fmt.Fprintf(&b, `<form method="post" action="%[1]s" hx-post="%[1]s" hx-target="body">`, templ.EscapeString(action))
		fmt.Fprintf(&b, `<input type="hidden" name="next" value="%s">`, templ.EscapeString(next))
		b.WriteString(`<label>Passcode <input type="password" name="passcode" autocomplete="current-password" required autofocus></label>`)
		b.WriteString(`<button type="submit">Sign in</button></form></main>`)
		_, err := io.WriteString(w, b.String())
		return err
	}))
}

// Dashboard lists every dog with its status and image count.
func Dashboard(dogs []repository.Dog, logoutAction string) templ.Component {
	return page("Kennel admin", templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<header><h1>Kennel admin</h1>`)
		fmt.Fprintf(&b, `<form method="post" action="%[1]s" hx-post="%[1]s"><button type="submit">Sign out</button></form></header>`,
			templ.EscapeString(logoutAction))
		b.WriteString(`<main>`)
		if len(dogs) == 0 {
			b.WriteString(`<p>No listings yet.</p>`)
		} else {
			b.WriteString(`<table><thead><tr><th>Name</th><th>Breed</th><th>Status</th><th>Price</th></tr></thead><tbody>`)
			for _, d := range dogs {
				fmt.Fprintf(&b, `<tr><td><a href="/dogs/%s">%s</a></td><td>%s</td><td>%s</td><td>%s</td></tr>`,
					templ.EscapeString(d.Slug), templ.EscapeString(d.Name), templ.EscapeString(d.Breed),
					templ.EscapeString(d.Status), price(d.PriceCents))
			}
			b.WriteString(`</tbody></table>`)
		}
		b.WriteString(`</main>`)
		_, err := io.WriteString(w, b.String())
		return err
	}))
}

func price(cents *int32) string {
	if cents == nil {
		return "&mdash;"
	}
	return fmt.Sprintf("$%d.%02d", *cents/100, *cents%100)
}
