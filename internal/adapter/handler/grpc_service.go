package handler

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

const issuanceServiceName = "invenedu.v1.IssuanceService"

type IssueRPCRequest struct {
	ItemId             int64      `json:"item_id"`
	UserId             string     `json:"user_id"`
	Quantity           int32      `json:"quantity"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	Notes              string     `json:"notes,omitempty"`
}

type IssuanceRPCResponse struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Issuance *IssuanceResponse `json:"issuance,omitempty"`
}

type ReturnRPCRequest struct {
	IssuanceId int64 `json:"issuance_id"`
}

type StatisticsRPCRequest struct{}

type StatisticsRPCResponse struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Statistics *StatisticsResponse `json:"statistics,omitempty"`
}

type SearchItemsRPCRequest struct {
	Term           string `json:"term,omitempty"`
	CategoryId     int64  `json:"category_id,omitempty"`
	LowStockOnly   bool   `json:"low_stock_only,omitempty"`
	OutOfStockOnly bool   `json:"out_of_stock_only,omitempty"`
	Page           int32  `json:"page,omitempty"`
	PageSize       int32  `json:"page_size,omitempty"`
}

type SearchItemsRPCResponse struct {
	Success bool                        `json:"success"`
	Message string                      `json:"message"`
	Result  *PageResponse[ItemResponse] `json:"result,omitempty"`
}

type SearchIssuancesRPCRequest struct {
	Term     string     `json:"term,omitempty"`
	Status   string     `json:"status,omitempty"`
	UserId   string     `json:"user_id,omitempty"`
	From     *time.Time `json:"from,omitempty"`
	To       *time.Time `json:"to,omitempty"`
	Page     int32      `json:"page,omitempty"`
	PageSize int32      `json:"page_size,omitempty"`
}

type SearchIssuancesRPCResponse struct {
	Success bool                            `json:"success"`
	Message string                          `json:"message"`
	Result  *PageResponse[IssuanceResponse] `json:"result,omitempty"`
}

// IssuanceServer is the server API for the IssuanceService.
type IssuanceServer interface {
	Issue(context.Context, *IssueRPCRequest) (*IssuanceRPCResponse, error)
	MarkReturned(context.Context, *ReturnRPCRequest) (*IssuanceRPCResponse, error)
	GetStatistics(context.Context, *StatisticsRPCRequest) (*StatisticsRPCResponse, error)
	SearchItems(context.Context, *SearchItemsRPCRequest) (*SearchItemsRPCResponse, error)
	SearchIssuances(context.Context, *SearchIssuancesRPCRequest) (*SearchIssuancesRPCResponse, error)
}

func RegisterIssuanceServer(s grpc.ServiceRegistrar, srv IssuanceServer) {
	s.RegisterService(&IssuanceServiceDesc, srv)
}

// unaryHandler adapts a typed method to grpc.MethodDesc.
func unaryHandler[Req any, Resp any](method string, call func(IssuanceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(IssuanceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + issuanceServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(IssuanceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var IssuanceServiceDesc = grpc.ServiceDesc{
	ServiceName: issuanceServiceName,
	HandlerType: (*IssuanceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Issue", Handler: unaryHandler("Issue", IssuanceServer.Issue)},
		{MethodName: "MarkReturned", Handler: unaryHandler("MarkReturned", IssuanceServer.MarkReturned)},
		{MethodName: "GetStatistics", Handler: unaryHandler("GetStatistics", IssuanceServer.GetStatistics)},
		{MethodName: "SearchItems", Handler: unaryHandler("SearchItems", IssuanceServer.SearchItems)},
		{MethodName: "SearchIssuances", Handler: unaryHandler("SearchIssuances", IssuanceServer.SearchIssuances)},
	},
	Streams: []grpc.StreamDesc{},
}

// IssuanceClient calls the IssuanceService using the JSON codec.
type IssuanceClient struct {
	cc grpc.ClientConnInterface
}

func NewIssuanceClient(cc grpc.ClientConnInterface) *IssuanceClient {
	return &IssuanceClient{cc: cc}
}

func (c *IssuanceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(JSONCodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+issuanceServiceName+"/"+method, in, out, opts...)
}

func (c *IssuanceClient) Issue(ctx context.Context, in *IssueRPCRequest, opts ...grpc.CallOption) (*IssuanceRPCResponse, error) {
	out := new(IssuanceRPCResponse)
	if err := c.invoke(ctx, "Issue", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *IssuanceClient) MarkReturned(ctx context.Context, in *ReturnRPCRequest, opts ...grpc.CallOption) (*IssuanceRPCResponse, error) {
	out := new(IssuanceRPCResponse)
	if err := c.invoke(ctx, "MarkReturned", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *IssuanceClient) GetStatistics(ctx context.Context, in *StatisticsRPCRequest, opts ...grpc.CallOption) (*StatisticsRPCResponse, error) {
	out := new(StatisticsRPCResponse)
	if err := c.invoke(ctx, "GetStatistics", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *IssuanceClient) SearchItems(ctx context.Context, in *SearchItemsRPCRequest, opts ...grpc.CallOption) (*SearchItemsRPCResponse, error) {
	out := new(SearchItemsRPCResponse)
	if err := c.invoke(ctx, "SearchItems", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *IssuanceClient) SearchIssuances(ctx context.Context, in *SearchIssuancesRPCRequest, opts ...grpc.CallOption) (*SearchIssuancesRPCResponse, error) {
	out := new(SearchIssuancesRPCResponse)
	if err := c.invoke(ctx, "SearchIssuances", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
