package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"fintrack/internal/apierr"
	"fintrack/internal/result"
	"fintrack/internal/stream"
)

// await subscribes to v and returns the first state that is not Loading.
// It returns the context error when ctx ends first.
func await[T any](ctx context.Context, v *stream.Value[result.Result[T]]) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for r := range v.Subscribe(ctx) {
		switch r.State() {
		case result.StateSuccess:
			return r.Value(), nil
		case result.StateError:
			return r.Value(), failure(r.Err())
		}
	}
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	return zero, context.Canceled
}

// failure turns a taxonomy error into the message shown to the user, with a
// hint on what to do next.
func failure(err error) error {
	e, ok := apierr.As(err)
	if !ok {
		return err
	}
	msg := e.UserMessage()
	switch {
	case e.RequiresAuth():
		msg += " Please log in again with 'fintrack login'."
	case e.Retryable():
		msg += " Retry the command in a moment."
	}
	return &displayError{msg: msg, err: e}
}

type displayError struct {
	msg string
	err *apierr.Error
}

func (d *displayError) Error() string { return d.msg }
func (d *displayError) Unwrap() error { return d.err }

// section renders one settled Result under a heading; errors are shown in
// place so that one failed projection does not hide the others.
func section[T any](w io.Writer, title string, r result.Result[T], render func(io.Writer, T)) {
	fmt.Fprintf(w, "== %s ==\n", title)
	switch r.State() {
	case result.StateSuccess:
		render(w, r.Value())
	case result.StateError:
		fmt.Fprintf(w, "  unavailable: %v\n", failure(r.Err()))
	default:
		fmt.Fprintln(w, "  loading...")
	}
	fmt.Fprintln(w)
}

func table(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cells ...string) {
	fmt.Fprintln(tw, strings.Join(cells, "\t"))
}
