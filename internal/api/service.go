package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "gophreveal.service.RevealService"

// Full method names, as seen by interceptors.
const (
	MethodSubmitRecord                  = "/" + ServiceName + "/SubmitRecord"
	MethodRequestRecordDecryption       = "/" + ServiceName + "/RequestRecordDecryption"
	MethodRequestTopicCounterDecryption = "/" + ServiceName + "/RequestTopicCounterDecryption"
	MethodGetRevealedRecord             = "/" + ServiceName + "/GetRevealedRecord"
	MethodGetMetadata                   = "/" + ServiceName + "/GetMetadata"
	MethodGetEncryptedCounter           = "/" + ServiceName + "/GetEncryptedCounter"
	MethodResetCounters                 = "/" + ServiceName + "/ResetCounters"
	MethodCancelRequest                 = "/" + ServiceName + "/CancelRequest"
	MethodListTopics                    = "/" + ServiceName + "/ListTopics"
	MethodListEvents                    = "/" + ServiceName + "/ListEvents"
	MethodPing                          = "/" + ServiceName + "/Ping"
)

// RevealServiceServer is implemented by the gRPC server.
type RevealServiceServer interface {
	SubmitRecord(context.Context, *SubmitRecordRequest) (*SubmitRecordResponse, error)
	RequestRecordDecryption(context.Context, *RequestRecordDecryptionRequest) (*DecryptionRequestResponse, error)
	RequestTopicCounterDecryption(context.Context, *RequestTopicCounterDecryptionRequest) (*DecryptionRequestResponse, error)
	GetRevealedRecord(context.Context, *GetRevealedRecordRequest) (*RevealedRecord, error)
	GetMetadata(context.Context, *GetMetadataRequest) (*Metadata, error)
	GetEncryptedCounter(context.Context, *GetEncryptedCounterRequest) (*EncryptedCounter, error)
	ResetCounters(context.Context, *ResetCountersRequest) (*Empty, error)
	CancelRequest(context.Context, *CancelRequestRequest) (*Empty, error)
	ListTopics(context.Context, *ListTopicsRequest) (*ListTopicsResponse, error)
	ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

// UnimplementedRevealServiceServer answers codes.Unimplemented for every
// method; embed it to stay forward compatible.
type UnimplementedRevealServiceServer struct{}

func (UnimplementedRevealServiceServer) SubmitRecord(context.Context, *SubmitRecordRequest) (*SubmitRecordResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SubmitRecord not implemented")
}
func (UnimplementedRevealServiceServer) RequestRecordDecryption(context.Context, *RequestRecordDecryptionRequest) (*DecryptionRequestResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RequestRecordDecryption not implemented")
}
func (UnimplementedRevealServiceServer) RequestTopicCounterDecryption(context.Context, *RequestTopicCounterDecryptionRequest) (*DecryptionRequestResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RequestTopicCounterDecryption not implemented")
}
func (UnimplementedRevealServiceServer) GetRevealedRecord(context.Context, *GetRevealedRecordRequest) (*RevealedRecord, error) {
	return nil, status.Error(codes.Unimplemented, "method GetRevealedRecord not implemented")
}
func (UnimplementedRevealServiceServer) GetMetadata(context.Context, *GetMetadataRequest) (*Metadata, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMetadata not implemented")
}
func (UnimplementedRevealServiceServer) GetEncryptedCounter(context.Context, *GetEncryptedCounterRequest) (*EncryptedCounter, error) {
	return nil, status.Error(codes.Unimplemented, "method GetEncryptedCounter not implemented")
}
func (UnimplementedRevealServiceServer) ResetCounters(context.Context, *ResetCountersRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method ResetCounters not implemented")
}
func (UnimplementedRevealServiceServer) CancelRequest(context.Context, *CancelRequestRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method CancelRequest not implemented")
}
func (UnimplementedRevealServiceServer) ListTopics(context.Context, *ListTopicsRequest) (*ListTopicsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListTopics not implemented")
}
func (UnimplementedRevealServiceServer) ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListEvents not implemented")
}
func (UnimplementedRevealServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

// unary builds the method descriptor for one RPC.
func unary[Req, Resp any](name string, call func(RevealServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(RevealServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

// ServiceDesc describes RevealService for grpc.ServiceRegistrar.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RevealServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("SubmitRecord", RevealServiceServer.SubmitRecord),
		unary("RequestRecordDecryption", RevealServiceServer.RequestRecordDecryption),
		unary("RequestTopicCounterDecryption", RevealServiceServer.RequestTopicCounterDecryption),
		unary("GetRevealedRecord", RevealServiceServer.GetRevealedRecord),
		unary("GetMetadata", RevealServiceServer.GetMetadata),
		unary("GetEncryptedCounter", RevealServiceServer.GetEncryptedCounter),
		unary("ResetCounters", RevealServiceServer.ResetCounters),
		unary("CancelRequest", RevealServiceServer.CancelRequest),
		unary("ListTopics", RevealServiceServer.ListTopics),
		unary("ListEvents", RevealServiceServer.ListEvents),
		unary("Ping", RevealServiceServer.Ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophreveal/service.proto",
}

func RegisterRevealServiceServer(s grpc.ServiceRegistrar, srv RevealServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// RevealServiceClient is the client side of RevealService. Every call uses
// the wire codec.
type RevealServiceClient interface {
	SubmitRecord(ctx context.Context, in *SubmitRecordRequest, opts ...grpc.CallOption) (*SubmitRecordResponse, error)
	RequestRecordDecryption(ctx context.Context, in *RequestRecordDecryptionRequest, opts ...grpc.CallOption) (*DecryptionRequestResponse, error)
	RequestTopicCounterDecryption(ctx context.Context, in *RequestTopicCounterDecryptionRequest, opts ...grpc.CallOption) (*DecryptionRequestResponse, error)
	GetRevealedRecord(ctx context.Context, in *GetRevealedRecordRequest, opts ...grpc.CallOption) (*RevealedRecord, error)
	GetMetadata(ctx context.Context, in *GetMetadataRequest, opts ...grpc.CallOption) (*Metadata, error)
	GetEncryptedCounter(ctx context.Context, in *GetEncryptedCounterRequest, opts ...grpc.CallOption) (*EncryptedCounter, error)
	ResetCounters(ctx context.Context, in *ResetCountersRequest, opts ...grpc.CallOption) (*Empty, error)
	CancelRequest(ctx context.Context, in *CancelRequestRequest, opts ...grpc.CallOption) (*Empty, error)
	ListTopics(ctx context.Context, in *ListTopicsRequest, opts ...grpc.CallOption) (*ListTopicsResponse, error)
	ListEvents(ctx context.Context, in *ListEventsRequest, opts ...grpc.CallOption) (*ListEventsResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
}

type revealServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewRevealServiceClient(cc grpc.ClientConnInterface) RevealServiceClient {
	return &revealServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *revealServiceClient) SubmitRecord(ctx context.Context, in *SubmitRecordRequest, opts ...grpc.CallOption) (*SubmitRecordResponse, error) {
	return invoke[SubmitRecordResponse](ctx, c.cc, MethodSubmitRecord, in, opts)
}

func (c *revealServiceClient) RequestRecordDecryption(ctx context.Context, in *RequestRecordDecryptionRequest, opts ...grpc.CallOption) (*DecryptionRequestResponse, error) {
	return invoke[DecryptionRequestResponse](ctx, c.cc, MethodRequestRecordDecryption, in, opts)
}

func (c *revealServiceClient) RequestTopicCounterDecryption(ctx context.Context, in *RequestTopicCounterDecryptionRequest, opts ...grpc.CallOption) (*DecryptionRequestResponse, error) {
	return invoke[DecryptionRequestResponse](ctx, c.cc, MethodRequestTopicCounterDecryption, in, opts)
}

func (c *revealServiceClient) GetRevealedRecord(ctx context.Context, in *GetRevealedRecordRequest, opts ...grpc.CallOption) (*RevealedRecord, error) {
	return invoke[RevealedRecord](ctx, c.cc, MethodGetRevealedRecord, in, opts)
}

func (c *revealServiceClient) GetMetadata(ctx context.Context, in *GetMetadataRequest, opts ...grpc.CallOption) (*Metadata, error) {
	return invoke[Metadata](ctx, c.cc, MethodGetMetadata, in, opts)
}

func (c *revealServiceClient) GetEncryptedCounter(ctx context.Context, in *GetEncryptedCounterRequest, opts ...grpc.CallOption) (*EncryptedCounter, error) {
	return invoke[EncryptedCounter](ctx, c.cc, MethodGetEncryptedCounter, in, opts)
}

func (c *revealServiceClient) ResetCounters(ctx context.Context, in *ResetCountersRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodResetCounters, in, opts)
}

func (c *revealServiceClient) CancelRequest(ctx context.Context, in *CancelRequestRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodCancelRequest, in, opts)
}

func (c *revealServiceClient) ListTopics(ctx context.Context, in *ListTopicsRequest, opts ...grpc.CallOption) (*ListTopicsResponse, error) {
	return invoke[ListTopicsResponse](ctx, c.cc, MethodListTopics, in, opts)
}

func (c *revealServiceClient) ListEvents(ctx context.Context, in *ListEventsRequest, opts ...grpc.CallOption) (*ListEventsResponse, error) {
	return invoke[ListEventsResponse](ctx, c.cc, MethodListEvents, in, opts)
}

func (c *revealServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}
