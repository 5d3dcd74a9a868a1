package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"connectrpc.com/connect"

	bhandarv1 "github.com/rudransh61/Bhandar/api/bhandar/v1"
	"github.com/rudransh61/Bhandar/api/bhandar/v1/bhandarv1connect"
)

type Handler struct {
	client bhandarv1connect.CacheServiceClient
	retry  retryPolicy
	out    io.Writer
	err    io.Writer
}

func isNotFound(err error) bool {
	return connect.CodeOf(err) == connect.CodeNotFound
}

func (h *Handler) Set(ctx context.Context, key, value, ttl string) error {
	req := &bhandarv1.SetRequest{
		Key:   key,
		Value: []byte(value),
		Ttl:   ttl,
	}
	err := h.retry.do(ctx, "set", func(ctx context.Context) error {
		_, err := h.client.Set(ctx, connect.NewRequest(req))
		return err
	})
	if err != nil {
		fmt.Fprintln(h.err, "Set error:", err)
		return err
	}

	fmt.Fprintf(h.out, "OK set key=%q ttl=%s\n", key, ttl)
	return nil
}

func (h *Handler) Get(ctx context.Context, key string) error {
	var res *connect.Response[bhandarv1.GetResponse]
	err := h.retry.do(ctx, "get", func(ctx context.Context) (err error) {
		res, err = h.client.Get(ctx, connect.NewRequest(&bhandarv1.GetRequest{Key: key}))
		return err
	})
	if isNotFound(err) {
		fmt.Fprintln(h.out, "(nil)")
		return nil
	}
	if err != nil {
		fmt.Fprintln(h.err, "Get error:", err)
		return err
	}

	fmt.Fprintf(h.out, "%s\n", string(res.Msg.GetValue()))
	return nil
}

func (h *Handler) TTL(ctx context.Context, key string) error {
	var res *connect.Response[bhandarv1.TTLResponse]
	err := h.retry.do(ctx, "ttl", func(ctx context.Context) (err error) {
		res, err = h.client.TTL(ctx, connect.NewRequest(&bhandarv1.TTLRequest{Key: key}))
		return err
	})
	if isNotFound(err) {
		fmt.Fprintln(h.out, "(nil)")
		return nil
	}
	if err != nil {
		fmt.Fprintln(h.err, "TTL error:", err)
		return err
	}

	fmt.Fprintln(h.out, time.Duration(res.Msg.GetRemainingMs())*time.Millisecond)
	return nil
}

func (h *Handler) Delete(ctx context.Context, key string) error {
	var res *connect.Response[bhandarv1.DeleteResponse]
	err := h.retry.do(ctx, "delete", func(ctx context.Context) (err error) {
		res, err = h.client.Delete(ctx, connect.NewRequest(&bhandarv1.DeleteRequest{Key: key}))
		return err
	})
	if err != nil {
		fmt.Fprintln(h.err, "Delete error:", err)
		return err
	}

	if res.Msg.Deleted {
		fmt.Fprintln(h.out, "deleted")
	} else {
		fmt.Fprintln(h.out, "(nil)")
	}
	return nil
}

func (h *Handler) List(ctx context.Context) error {
	var res *connect.Response[bhandarv1.ListEntriesResponse]
	err := h.retry.do(ctx, "list", func(ctx context.Context) (err error) {
		res, err = h.client.ListEntries(ctx, connect.NewRequest(&bhandarv1.ListEntriesRequest{}))
		return err
	})
	if err != nil {
		fmt.Fprintln(h.err, "List error:", err)
		return err
	}

	ents := res.Msg.GetEntries()
	tw := tabwriter.NewWriter(h.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tSIZE\tEXPIRES")

	for _, e := range ents {
		exp := time.UnixMilli(e.ExpiresAtMs).UTC().Format(time.RFC3339)
		fmt.Fprintf(tw, "%s\t%d\t%s\n", e.Key, e.Size, exp)
	}

	tw.Flush()
	return nil
}

// Watch prints one line per change until ctx is done or the stream breaks.
func (h *Handler) Watch(ctx context.Context, prefix string) error {
	stream, err := h.client.Watch(ctx, connect.NewRequest(&bhandarv1.WatchRequest{Prefix: prefix}))
	if err != nil {
		fmt.Fprintln(h.err, "Watch error:", err)
		return err
	}
	defer stream.Close()

	for stream.Receive() {
		msg := stream.Msg()
		fmt.Fprintf(h.out, "%s\t%s\n", msg.Op, msg.Key)
	}
	if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) && connect.CodeOf(err) != connect.CodeCanceled {
		fmt.Fprintln(h.err, "Watch error:", err)
		return err
	}
	return nil
}

// Exec runs one shell line, e.g. "set name Alice 60s". It reports whether
// the shell should exit.
func (h *Handler) Exec(ctx context.Context, line string) (bool, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false, nil
	}

	usage := func(format string) error {
		return &usageError{fmt.Sprintf("invalid %s command. Format: %s", parts[0], format)}
	}

	switch strings.ToLower(parts[0]) {
	case "set":
		if len(parts) != 4 {
			return false, usage("set key value ttl")
		}
		return false, h.Set(ctx, parts[1], parts[2], parts[3])
	case "get":
		if len(parts) != 2 {
			return false, usage("get key")
		}
		return false, h.Get(ctx, parts[1])
	case "ttl":
		if len(parts) != 2 {
			return false, usage("ttl key")
		}
		return false, h.TTL(ctx, parts[1])
	case "del", "delete":
		if len(parts) != 2 {
			return false, usage("delete key")
		}
		return false, h.Delete(ctx, parts[1])
	case "list", "keys":
		return false, h.List(ctx)
	case "exit", "quit":
		return true, nil
	default:
		return false, &usageError{fmt.Sprintf("unknown command %q", parts[0])}
	}
}

// usageError is a malformed shell line; nothing was sent to the daemon.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }
