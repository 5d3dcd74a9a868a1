// Package bhandarv1connect wires the bhandar.v1.CacheService messages to
// Connect handlers and clients.
package bhandarv1connect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	bhandarv1 "github.com/rudransh61/Bhandar/api/bhandar/v1"
)

// CacheServiceName is the fully-qualified name of the CacheService service.
const CacheServiceName = "bhandar.v1.CacheService"

// Procedure paths, relative to the server's base URL.
const (
	CacheServiceSetProcedure         = "/bhandar.v1.CacheService/Set"
	CacheServiceGetProcedure         = "/bhandar.v1.CacheService/Get"
	CacheServiceTTLProcedure         = "/bhandar.v1.CacheService/TTL"
	CacheServiceDeleteProcedure      = "/bhandar.v1.CacheService/Delete"
	CacheServiceListEntriesProcedure = "/bhandar.v1.CacheService/ListEntries"
	CacheServiceWatchProcedure       = "/bhandar.v1.CacheService/Watch"
)

// CacheServiceClient is a client for the bhandar.v1.CacheService service.
type CacheServiceClient interface {
	Set(context.Context, *connect.Request[bhandarv1.SetRequest]) (*connect.Response[bhandarv1.SetResponse], error)
	Get(context.Context, *connect.Request[bhandarv1.GetRequest]) (*connect.Response[bhandarv1.GetResponse], error)
	TTL(context.Context, *connect.Request[bhandarv1.TTLRequest]) (*connect.Response[bhandarv1.TTLResponse], error)
	Delete(context.Context, *connect.Request[bhandarv1.DeleteRequest]) (*connect.Response[bhandarv1.DeleteResponse], error)
	ListEntries(context.Context, *connect.Request[bhandarv1.ListEntriesRequest]) (*connect.Response[bhandarv1.ListEntriesResponse], error)
	Watch(context.Context, *connect.Request[bhandarv1.WatchRequest]) (*connect.ServerStreamForClient[bhandarv1.WatchResponse], error)
}

// NewCacheServiceClient constructs a client for the bhandar.v1.CacheService
// service. The JSON codec is always used; baseURL is the daemon root, e.g.
// http://localhost:8080.
func NewCacheServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) CacheServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(bhandarv1.Codec{})}, opts...)
	return &cacheServiceClient{
		set:         connect.NewClient[bhandarv1.SetRequest, bhandarv1.SetResponse](httpClient, baseURL+CacheServiceSetProcedure, opts...),
		get:         connect.NewClient[bhandarv1.GetRequest, bhandarv1.GetResponse](httpClient, baseURL+CacheServiceGetProcedure, opts...),
		ttl:         connect.NewClient[bhandarv1.TTLRequest, bhandarv1.TTLResponse](httpClient, baseURL+CacheServiceTTLProcedure, opts...),
		delete:      connect.NewClient[bhandarv1.DeleteRequest, bhandarv1.DeleteResponse](httpClient, baseURL+CacheServiceDeleteProcedure, opts...),
		listEntries: connect.NewClient[bhandarv1.ListEntriesRequest, bhandarv1.ListEntriesResponse](httpClient, baseURL+CacheServiceListEntriesProcedure, opts...),
		watch:       connect.NewClient[bhandarv1.WatchRequest, bhandarv1.WatchResponse](httpClient, baseURL+CacheServiceWatchProcedure, opts...),
	}
}

type cacheServiceClient struct {
	set         *connect.Client[bhandarv1.SetRequest, bhandarv1.SetResponse]
	get         *connect.Client[bhandarv1.GetRequest, bhandarv1.GetResponse]
	ttl         *connect.Client[bhandarv1.TTLRequest, bhandarv1.TTLResponse]
	delete      *connect.Client[bhandarv1.DeleteRequest, bhandarv1.DeleteResponse]
	listEntries *connect.Client[bhandarv1.ListEntriesRequest, bhandarv1.ListEntriesResponse]
	watch       *connect.Client[bhandarv1.WatchRequest, bhandarv1.WatchResponse]
}

func (c *cacheServiceClient) Set(ctx context.Context, req *connect.Request[bhandarv1.SetRequest]) (*connect.Response[bhandarv1.SetResponse], error) {
	return c.set.CallUnary(ctx, req)
}

func (c *cacheServiceClient) Get(ctx context.Context, req *connect.Request[bhandarv1.GetRequest]) (*connect.Response[bhandarv1.GetResponse], error) {
	return c.get.CallUnary(ctx, req)
}

func (c *cacheServiceClient) TTL(ctx context.Context, req *connect.Request[bhandarv1.TTLRequest]) (*connect.Response[bhandarv1.TTLResponse], error) {
	return c.ttl.CallUnary(ctx, req)
}

func (c *cacheServiceClient) Delete(ctx context.Context, req *connect.Request[bhandarv1.DeleteRequest]) (*connect.Response[bhandarv1.DeleteResponse], error) {
	return c.delete.CallUnary(ctx, req)
}

func (c *cacheServiceClient) ListEntries(ctx context.Context, req *connect.Request[bhandarv1.ListEntriesRequest]) (*connect.Response[bhandarv1.ListEntriesResponse], error) {
	return c.listEntries.CallUnary(ctx, req)
}

func (c *cacheServiceClient) Watch(ctx context.Context, req *connect.Request[bhandarv1.WatchRequest]) (*connect.ServerStreamForClient[bhandarv1.WatchResponse], error) {
	return c.watch.CallServerStream(ctx, req)
}

// CacheServiceHandler is an implementation of the bhandar.v1.CacheService
// service.
type CacheServiceHandler interface {
	Set(context.Context, *connect.Request[bhandarv1.SetRequest]) (*connect.Response[bhandarv1.SetResponse], error)
	Get(context.Context, *connect.Request[bhandarv1.GetRequest]) (*connect.Response[bhandarv1.GetResponse], error)
	TTL(context.Context, *connect.Request[bhandarv1.TTLRequest]) (*connect.Response[bhandarv1.TTLResponse], error)
	Delete(context.Context, *connect.Request[bhandarv1.DeleteRequest]) (*connect.Response[bhandarv1.DeleteResponse], error)
	ListEntries(context.Context, *connect.Request[bhandarv1.ListEntriesRequest]) (*connect.Response[bhandarv1.ListEntriesResponse], error)
	Watch(context.Context, *connect.Request[bhandarv1.WatchRequest], *connect.ServerStream[bhandarv1.WatchResponse]) error
}

// NewCacheServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewCacheServiceHandler(svc CacheServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(bhandarv1.Codec{})}, opts...)

	setHandler := connect.NewUnaryHandler(CacheServiceSetProcedure, svc.Set, opts...)
	getHandler := connect.NewUnaryHandler(CacheServiceGetProcedure, svc.Get,
		append(opts, connect.WithIdempotency(connect.IdempotencyNoSideEffects))...)
	ttlHandler := connect.NewUnaryHandler(CacheServiceTTLProcedure, svc.TTL,
		append(opts, connect.WithIdempotency(connect.IdempotencyNoSideEffects))...)
	deleteHandler := connect.NewUnaryHandler(CacheServiceDeleteProcedure, svc.Delete, opts...)
	listEntriesHandler := connect.NewUnaryHandler(CacheServiceListEntriesProcedure, svc.ListEntries,
		append(opts, connect.WithIdempotency(connect.IdempotencyNoSideEffects))...)
	watchHandler := connect.NewServerStreamHandler(CacheServiceWatchProcedure, svc.Watch, opts...)

	return "/" + CacheServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case CacheServiceSetProcedure:
			setHandler.ServeHTTP(w, r)
		case CacheServiceGetProcedure:
			getHandler.ServeHTTP(w, r)
		case CacheServiceTTLProcedure:
			ttlHandler.ServeHTTP(w, r)
		case CacheServiceDeleteProcedure:
			deleteHandler.ServeHTTP(w, r)
		case CacheServiceListEntriesProcedure:
			listEntriesHandler.ServeHTTP(w, r)
		case CacheServiceWatchProcedure:
			watchHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedCacheServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedCacheServiceHandler struct{}

func (UnimplementedCacheServiceHandler) Set(context.Context, *connect.Request[bhandarv1.SetRequest]) (*connect.Response[bhandarv1.SetResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bhandar.v1.CacheService.Set is not implemented"))
}

func (UnimplementedCacheServiceHandler) Get(context.Context, *connect.Request[bhandarv1.GetRequest]) (*connect.Response[bhandarv1.GetResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bhandar.v1.CacheService.Get is not implemented"))
}

func (UnimplementedCacheServiceHandler) TTL(context.Context, *connect.Request[bhandarv1.TTLRequest]) (*connect.Response[bhandarv1.TTLResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bhandar.v1.CacheService.TTL is not implemented"))
}

func (UnimplementedCacheServiceHandler) Delete(context.Context, *connect.Request[bhandarv1.DeleteRequest]) (*connect.Response[bhandarv1.DeleteResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bhandar.v1.CacheService.Delete is not implemented"))
}

func (UnimplementedCacheServiceHandler) ListEntries(context.Context, *connect.Request[bhandarv1.ListEntriesRequest]) (*connect.Response[bhandarv1.ListEntriesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bhandar.v1.CacheService.ListEntries is not implemented"))
}

func (UnimplementedCacheServiceHandler) Watch(context.Context, *connect.Request[bhandarv1.WatchRequest], *connect.ServerStream[bhandarv1.WatchResponse]) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New("bhandar.v1.CacheService.Watch is not implemented"))
}
