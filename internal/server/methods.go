package server

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	bhandarv1 "github.com/rudransh61/Bhandar/api/bhandar/v1"
	"github.com/rudransh61/Bhandar/api/bhandar/v1/bhandarv1connect"
	"github.com/rudransh61/Bhandar/pkg/bhandar"
)

// watchBuffer is how many events a slow Watch stream may lag behind before
// it starts missing them.
const watchBuffer = 64

type cacheServer struct {
	h     *Handler
	store *bhandar.Store
	done  <-chan struct{}
	bhandarv1connect.UnimplementedCacheServiceHandler
}

func (s *cacheServer) Set(
	ctx context.Context,
	req *connect.Request[bhandarv1.SetRequest],
) (*connect.Response[bhandarv1.SetResponse], error) {
	r := req.Msg
	if err := s.h.Set(ctx, r.GetKey(), r.GetValue(), r.GetTtl()); err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&bhandarv1.SetResponse{}), nil
}

func (s *cacheServer) Get(
	ctx context.Context,
	req *connect.Request[bhandarv1.GetRequest],
) (*connect.Response[bhandarv1.GetResponse], error) {
	b, expiresAt, err := s.h.Get(ctx, req.Msg.GetKey())
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&bhandarv1.GetResponse{
		Value:       b,
		ExpiresAtMs: expiresAt.UnixMilli(),
	}), nil
}

func (s *cacheServer) TTL(
	ctx context.Context,
	req *connect.Request[bhandarv1.TTLRequest],
) (*connect.Response[bhandarv1.TTLResponse], error) {
	remaining, err := s.h.TTL(ctx, req.Msg.GetKey())
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&bhandarv1.TTLResponse{RemainingMs: remaining.Milliseconds()}), nil
}

func (s *cacheServer) Delete(ctx context.Context, req *connect.Request[bhandarv1.DeleteRequest]) (*connect.Response[bhandarv1.DeleteResponse], error) {
	err := s.h.Delete(ctx, req.Msg.GetKey())
	switch result(err) {
	case resultOK:
		return connect.NewResponse(&bhandarv1.DeleteResponse{Deleted: true}), nil
	case resultNotFound:
		return connect.NewResponse(&bhandarv1.DeleteResponse{Deleted: false}), nil
	default:
		return nil, connectError(err)
	}
}

func (s *cacheServer) ListEntries(ctx context.Context, _ *connect.Request[bhandarv1.ListEntriesRequest]) (*connect.Response[bhandarv1.ListEntriesResponse], error) {
	ents, err := s.h.Entries(ctx)
	if err != nil {
		return nil, connectError(err)
	}

	out := make([]*bhandarv1.EntryInfo, 0, len(ents))
	for _, e := range ents {
		out = append(out, &bhandarv1.EntryInfo{
			Key:         e.Key,
			Size:        uint32(e.Size),
			ExpiresAtMs: e.ExpiresAt.UnixMilli(),
		})
	}

	return connect.NewResponse(&bhandarv1.ListEntriesResponse{Entries: out}), nil
}

func (s *cacheServer) Watch(
	ctx context.Context,
	req *connect.Request[bhandarv1.WatchRequest],
	stream *connect.ServerStream[bhandarv1.WatchResponse],
) error {
	prefix := req.Msg.GetPrefix()
	events, cancel := s.store.Subscribe(watchBuffer)
	defer cancel()

	// flush the headers so the client sees the stream open before any event
	if err := stream.Send(nil); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(ev.Key, prefix) {
				continue
			}
			if err := stream.Send(&bhandarv1.WatchResponse{Key: ev.Key, Op: string(ev.Op)}); err != nil {
				return err
			}
		}
	}
}
